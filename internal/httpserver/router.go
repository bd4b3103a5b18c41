package httpserver

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	ecM "github.com/labstack/echo/v4/middleware"

	authmw "github.com/Skotchmaster/hospital_management/internal/middleware/auth"
	"github.com/Skotchmaster/hospital_management/internal/middleware/csrf"
	loggingmw "github.com/Skotchmaster/hospital_management/internal/middleware/logging"
	"github.com/Skotchmaster/hospital_management/internal/service"
	"github.com/Skotchmaster/hospital_management/internal/transport"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type Deps struct {
	Logger *slog.Logger
	Store  Pinger

	Auth        *service.AuthService
	Doctors     *service.DoctorService
	Patients    *service.PatientService
	Hospitals   *service.HospitalService
	Departments *service.DepartmentService
	Records     *service.RecordService

	CORSOrigins  []string
	CookieSecure bool
	CSRF         bool
	BodyLimit    string
}

const userPrefix = "/api/v1/user"

// New builds the echo instance with middleware and every route.
func New(d *Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second
	e.HTTPErrorHandler = ErrorHandler
	e.Validator = NewValidator()

	e.Pre(ecM.RemoveTrailingSlash())
	e.Use(
		ecM.Recover(),
		ecM.RequestID(),
		loggingmw.RequestLogger(d.Logger),
		ecM.CORSWithConfig(ecM.CORSConfig{
			AllowOrigins:     d.CORSOrigins,
			AllowCredentials: true,
			AllowHeaders: []string{
				echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept,
				echo.HeaderAuthorization, csrf.HeaderName,
			},
		}),
	)
	if d.BodyLimit != "" {
		e.Use(ecM.BodyLimit(d.BodyLimit))
	}
	if d.CSRF {
		e.Use(csrf.Middleware(csrf.Config{
			Secure: d.CookieSecure,
			SkipPaths: []string{
				userPrefix + "/register",
				userPrefix + "/login",
				userPrefix + "/refresh-accessToken",
			},
		}))
	}

	Register(e, d)
	return e
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := d.Store.Ping(ctx); err != nil {
			return c.JSON(http.StatusServiceUnavailable, transport.Fail(http.StatusServiceUnavailable, "storage unavailable"))
		}
		return c.NoContent(http.StatusOK)
	})

	session := authmw.NewSession(d.Auth)
	cookies := cookieJar{secure: d.CookieSecure}

	authH := &AuthHTTP{Svc: d.Auth, Cookies: cookies}
	doctorH := &DoctorHTTP{Svc: d.Doctors}
	patientH := &PatientHTTP{Svc: d.Patients}
	hospitalH := &HospitalHTTP{Svc: d.Hospitals}
	departmentH := &DepartmentHTTP{Svc: d.Departments}
	recordH := &RecordHTTP{Svc: d.Records}

	user := e.Group(userPrefix)

	user.POST("/register", authH.Register)
	user.POST("/login", authH.Login)
	user.POST("/refresh-accessToken", authH.Refresh)

	private := user.Group("", session.RequireAuth)

	private.POST("/logout", authH.Logout)
	private.PATCH("/update-Profile", authH.UpdateProfile)
	private.PATCH("/update-Picture", authH.UpdatePicture)
	private.GET("/get-Profile", authH.GetProfile)
	private.DELETE("/delete-Profile", authH.DeleteProfile)

	v1 := e.Group("/api/v1", session.RequireAuth)

	doctor := v1.Group("/doctor")

	doctor.GET("", doctorH.List)
	doctor.GET("/me", doctorH.Me)
	doctor.GET("/:doctorId", doctorH.Get)
	doctor.PATCH("/:doctorId", doctorH.Update)
	doctor.POST("/:doctorId/hospitals", doctorH.AddHospitals)
	doctor.DELETE("/:doctorId/hospitals/:hospitalId", doctorH.RemoveHospital)

	patient := v1.Group("/patient")

	patient.GET("", patientH.List)
	patient.GET("/me", patientH.Me)
	patient.GET("/:patientId", patientH.Get)
	patient.PATCH("", patientH.Update)
	patient.PATCH("/:hospitalId", patientH.Admit)
	patient.POST("/:patientId/medical-history", patientH.AddHistory)
	patient.DELETE("/:patientId/medical-history/:historyId", patientH.RemoveHistory)

	department := v1.Group("/department")

	department.POST("", departmentH.Create)
	department.GET("/:deptId", departmentH.Get)
	department.PATCH("/:deptId", departmentH.Update)
	department.PATCH("/:deptId/doctors", departmentH.AddDoctors)
	department.PATCH("/:deptId/patients", departmentH.AddPatients)

	hospital := v1.Group("/hospital")

	hospital.POST("", hospitalH.Create)
	hospital.GET("/:hospitalId", hospitalH.Get)
	hospital.PATCH("/:hospitalId", hospitalH.Update)
	hospital.POST("/:hospitalId/departments", hospitalH.AddDepartments)
	hospital.DELETE("/:hospitalId/departments", hospitalH.RemoveDepartments)

	record := v1.Group("/record")

	record.POST("", recordH.Create)
	record.GET("", recordH.List)
	record.GET("/doctor/me", recordH.Mine)
	record.GET("/:patientId", recordH.ForPatient)
	record.PATCH("/:recordId", recordH.Update)
}
