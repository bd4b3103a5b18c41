package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	authmw "github.com/Skotchmaster/hospital_management/internal/middleware/auth"
	"github.com/Skotchmaster/hospital_management/internal/models"
	"github.com/Skotchmaster/hospital_management/internal/service"
	"github.com/Skotchmaster/hospital_management/internal/transport"
)

type DoctorHTTP struct {
	Svc *service.DoctorService
}

func (h *DoctorHTTP) List(c echo.Context) error {
	ds, err := h.Svc.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transport.OK(http.StatusOK, ds, "doctors fetched successfully"))
}

func (h *DoctorHTTP) Me(c echo.Context) error {
	d, err := h.Svc.Mine(c.Request().Context(), authmw.CurrentUser(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transport.OK(http.StatusOK, d, "doctor fetched successfully"))
}

func (h *DoctorHTTP) Get(c echo.Context) error {
	d, err := h.Svc.Get(c.Request().Context(), c.Param("doctorId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transport.OK(http.StatusOK, d, "doctor fetched successfully"))
}

func (h *DoctorHTTP) Update(c echo.Context) error {
	var req transport.UpdateDoctorRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	d, err := h.Svc.Update(c.Request().Context(), authmw.CurrentUser(c), c.Param("doctorId"), models.DoctorUpdate{
		Salary:            req.Salary,
		Qualification:     req.Qualification,
		ExperienceInYears: req.ExperienceInYears,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transport.OK(http.StatusOK, d, "doctor updated successfully"))
}

func (h *DoctorHTTP) AddHospitals(c echo.Context) error {
	var req transport.HospitalIDsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	d, err := h.Svc.AddHospitals(c.Request().Context(), authmw.CurrentUser(c), c.Param("doctorId"), req.HospitalIDs)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transport.OK(http.StatusOK, d, "hospitals added successfully"))
}

func (h *DoctorHTTP) RemoveHospital(c echo.Context) error {
	d, err := h.Svc.RemoveHospital(c.Request().Context(), authmw.CurrentUser(c), c.Param("doctorId"), c.Param("hospitalId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transport.OK(http.StatusOK, d, "hospital removed successfully"))
}

type PatientHTTP struct {
	Svc *service.PatientService
}

func (h *PatientHTTP) List(c echo.Context) error {
	ps, err := h.Svc.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transport.OK(http.StatusOK, ps, "patients fetched successfully"))
}

func (h *PatientHTTP) Me(c echo.Context) error {
	p, err := h.Svc.Mine(c.Request().Context(), authmw.CurrentUser(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transport.OK(http.StatusOK, p, "patient fetched successfully"))
}

func (h *PatientHTTP) Get(c echo.Context) error {
	p, err := h.Svc.Get(c.Request().Context(), c.Param("patientId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transport.OK(http.StatusOK, p, "patient fetched successfully"))
}

func (h *PatientHTTP) Update(c echo.Context) error {
	var req transport.UpdatePatientRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	upd := models.PatientUpdate{
		DiagnosedWith: req.DiagnosedWith,
		Address:       req.Address,
		Age:           req.Age,
		BloodGroup:    req.BloodGroup,
	}
	if req.Gender != nil {
		g := models.Gender(*req.Gender)
		upd.Gender = &g
	}
	p, err := h.Svc.UpdateMine(c.Request().Context(), authmw.CurrentUser(c), upd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transport.OK(http.StatusOK, p, "patient updated successfully"))
}

func (h *PatientHTTP) Admit(c echo.Context) error {
	p, err := h.Svc.Admit(c.Request().Context(), authmw.CurrentUser(c), c.Param("hospitalId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transport.OK(http.StatusOK, p, "patient admitted successfully"))
}

func (h *PatientHTTP) AddHistory(c echo.Context) error {
	var req transport.MedicalHistoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	p, err := h.Svc.AddHistory(c.Request().Context(), authmw.CurrentUser(c), c.Param("patientId"), service.HistoryInput{
		Condition:   req.Condition,
		TreatedBy:   req.TreatedBy,
		Notes:       req.Notes,
		Medications: req.Medications,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transport.OK(http.StatusOK, p, "medical history added successfully"))
}

func (h *PatientHTTP) RemoveHistory(c echo.Context) error {
	p, err := h.Svc.RemoveHistory(c.Request().Context(), authmw.CurrentUser(c), c.Param("patientId"), c.Param("historyId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transport.OK(http.StatusOK, p, "medical history removed successfully"))
}
