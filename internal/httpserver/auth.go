package httpserver

import (
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/hospital_management/internal/apperr"
	"github.com/Skotchmaster/hospital_management/internal/logging"
	authmw "github.com/Skotchmaster/hospital_management/internal/middleware/auth"
	"github.com/Skotchmaster/hospital_management/internal/models"
	"github.com/Skotchmaster/hospital_management/internal/pictures"
	"github.com/Skotchmaster/hospital_management/internal/service"
	"github.com/Skotchmaster/hospital_management/internal/transport"
)

const pictureField = "picture"

type AuthHTTP struct {
	Svc     *service.AuthService
	Cookies cookieJar
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_register")

	var req transport.RegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		l.Warn("register_error", "status", 400, "error", err)
		return err
	}

	history, err := medicalHistory(req.MedicalHistory)
	if err != nil {
		l.Warn("register_error", "status", 400, "error", err)
		return err
	}

	file, closeFile, err := formPicture(c)
	if err != nil {
		return err
	}
	defer closeFile()

	res, err := h.Svc.Register(ctx, service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     models.Role(req.Role),
		Picture:  file,
		Doctor: models.Doctor{
			Salary:            req.Salary,
			Qualification:     req.Qualification,
			ExperienceInYears: req.ExperienceInYears,
			WorksInHospitals:  req.WorksInHospitals,
		},
		Patient: models.Patient{
			DiagnosedWith: req.DiagnosedWith,
			Address:       req.Address,
			Age:           req.Age,
			BloodGroup:    req.BloodGroup,
			Gender:        models.Gender(req.Gender),
			AdmittedIn:    &req.AdmittedIn,
		},
		MedicalHistory: history,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, transport.OK(http.StatusOK, accountResponse(res), "user registered successfully"))
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()

	var req transport.LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		return err
	}

	h.Cookies.setPair(c, res.Tokens)
	return c.JSON(http.StatusOK, transport.OK(http.StatusOK, transport.LoginResponse{
		AccountResponse: *accountResponse(&res.AccountResult),
		AccessToken:     res.Tokens.Access.Value,
		RefreshToken:    res.Tokens.Refresh.Value,
	}, "user logged in successfully"))
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	if err := h.Svc.Logout(c.Request().Context(), authmw.CurrentUser(c)); err != nil {
		return err
	}
	h.Cookies.clear(c)
	return c.JSON(http.StatusOK, transport.OK(http.StatusOK, echo.Map{}, "user logged out successfully"))
}

// Refresh takes the refresh token from its cookie, or from the refreshToken
// body field for clients that cannot keep cookies.
func (h *AuthHTTP) Refresh(c echo.Context) error {
	token := ""
	if ck, err := c.Cookie(authmw.RefreshCookie); err == nil {
		token = ck.Value
	}
	if token == "" {
		var req transport.RefreshRequest
		if err := c.Bind(&req); err == nil {
			token = req.RefreshToken
		}
	}

	pair, err := h.Svc.Refresh(c.Request().Context(), token)
	if err != nil {
		return err
	}

	h.Cookies.setPair(c, pair)
	return c.JSON(http.StatusOK, transport.OK(http.StatusOK, transport.TokenPairResponse{
		AccessToken:  pair.Access.Value,
		RefreshToken: pair.Refresh.Value,
	}, "access token refreshed successfully"))
}

func (h *AuthHTTP) UpdateProfile(c echo.Context) error {
	var req transport.UpdateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	u, err := h.Svc.UpdateProfile(c.Request().Context(), authmw.CurrentUser(c), service.ProfileInput{
		Name:        req.Name,
		OldPassword: req.OldPassword,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transport.OK(http.StatusOK, u, "profile updated successfully"))
}

func (h *AuthHTTP) UpdatePicture(c echo.Context) error {
	file, closeFile, err := formPicture(c)
	if err != nil {
		return err
	}
	defer closeFile()

	u, err := h.Svc.UpdatePicture(c.Request().Context(), authmw.CurrentUser(c), file)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transport.OK(http.StatusOK, u, "picture updated successfully"))
}

func (h *AuthHTTP) GetProfile(c echo.Context) error {
	u, err := h.Svc.GetProfile(c.Request().Context(), authmw.CurrentUser(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transport.OK(http.StatusOK, u, "user fetched successfully"))
}

func (h *AuthHTTP) DeleteProfile(c echo.Context) error {
	if err := h.Svc.DeleteAccount(c.Request().Context(), authmw.CurrentUser(c)); err != nil {
		return err
	}
	h.Cookies.clear(c)
	return c.JSON(http.StatusOK, transport.OK(http.StatusOK, echo.Map{}, "user deleted successfully"))
}

// formPicture opens the uploaded picture. A missing file yields nil and is
// left for the service to reject.
func formPicture(c echo.Context) (*pictures.File, func(), error) {
	fh, err := c.FormFile(pictureField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, func() {}, nil
		}
		return nil, func() {}, apperr.BadRequest("invalid picture upload").Wrap(err)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, func() {}, apperr.Internal(err)
	}
	return pictureFile(fh, f), func() { _ = f.Close() }, nil
}

func pictureFile(fh *multipart.FileHeader, f multipart.File) *pictures.File {
	return &pictures.File{
		Name:        fh.Filename,
		ContentType: fh.Header.Get(echo.HeaderContentType),
		Size:        fh.Size,
		Body:        f,
	}
}

// medicalHistory decodes the JSON array sent in the medicalHistory form field.
func medicalHistory(raw string) ([]service.HistoryInput, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var entries []transport.MedicalHistoryRequest
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, apperr.BadRequest("medicalHistory must be a JSON array").Wrap(err)
	}
	out := make([]service.HistoryInput, 0, len(entries))
	for _, e := range entries {
		out = append(out, service.HistoryInput{
			Condition:   e.Condition,
			TreatedBy:   e.TreatedBy,
			Notes:       e.Notes,
			Medications: e.Medications,
		})
	}
	return out, nil
}

func accountResponse(a *service.AccountResult) *transport.AccountResponse {
	return &transport.AccountResponse{User: a.User, Doctor: a.Doctor, Patient: a.Patient}
}
