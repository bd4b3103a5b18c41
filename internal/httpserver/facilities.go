package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	authmw "github.com/Skotchmaster/hospital_management/internal/middleware/auth"
	"github.com/Skotchmaster/hospital_management/internal/models"
	"github.com/Skotchmaster/hospital_management/internal/service"
	"github.com/Skotchmaster/hospital_management/internal/transport"
)

type HospitalHTTP struct {
	Svc *service.HospitalService
}

func (h *HospitalHTTP) Create(c echo.Context) error {
	var req transport.CreateHospitalRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	hosp, err := h.Svc.Create(c.Request().Context(), models.Hospital{
		Name:          req.Name,
		Address:       req.Address,
		City:          req.City,
		Pincode:       req.Pincode,
		SpecializedIn: req.SpecializedIn,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, transport.OK(http.StatusCreated, hosp, "hospital created successfully"))
}

func (h *HospitalHTTP) Get(c echo.Context) error {
	d, err := h.Svc.Get(c.Request().Context(), c.Param("hospitalId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transport.OK(http.StatusOK, d, "hospital fetched successfully"))
}

func (h *HospitalHTTP) Update(c echo.Context) error {
	var req transport.UpdateHospitalRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	hosp, err := h.Svc.Update(c.Request().Context(), c.Param("hospitalId"), models.HospitalUpdate{
		Name:    req.Name,
		Address: req.Address,
		City:    req.City,
		Pincode: req.Pincode,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transport.OK(http.StatusOK, hosp, "hospital updated successfully"))
}

func (h *HospitalHTTP) AddDepartments(c echo.Context) error {
	var req transport.DepartmentIDsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	hosp, err := h.Svc.AddDepartments(c.Request().Context(), c.Param("hospitalId"), req.DepartmentIDs)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transport.OK(http.StatusOK, hosp, "departments added successfully"))
}

func (h *HospitalHTTP) RemoveDepartments(c echo.Context) error {
	var req transport.DepartmentIDsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	hosp, err := h.Svc.RemoveDepartments(c.Request().Context(), c.Param("hospitalId"), req.DepartmentIDs)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transport.OK(http.StatusOK, hosp, "departments removed successfully"))
}

type DepartmentHTTP struct {
	Svc *service.DepartmentService
}

func (h *DepartmentHTTP) Create(c echo.Context) error {
	var req transport.CreateDepartmentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	d, err := h.Svc.Create(c.Request().Context(), models.Department{
		Name:        req.Name,
		Description: req.Description,
		HospitalID:  req.Hospital,
		HeadID:      req.Head,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, transport.OK(http.StatusCreated, d, "department created successfully"))
}

func (h *DepartmentHTTP) Get(c echo.Context) error {
	d, err := h.Svc.Get(c.Request().Context(), c.Param("deptId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transport.OK(http.StatusOK, d, "department fetched successfully"))
}

func (h *DepartmentHTTP) Update(c echo.Context) error {
	var req transport.UpdateDepartmentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	d, err := h.Svc.Update(c.Request().Context(), c.Param("deptId"), models.DepartmentUpdate{
		Name:        req.Name,
		Description: req.Description,
		HeadID:      req.Head,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transport.OK(http.StatusOK, d, "department updated successfully"))
}

func (h *DepartmentHTTP) AddDoctors(c echo.Context) error {
	var req transport.DoctorIDsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	d, err := h.Svc.AddDoctors(c.Request().Context(), c.Param("deptId"), req.DoctorIDs)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transport.OK(http.StatusOK, d, "doctors added successfully"))
}

func (h *DepartmentHTTP) AddPatients(c echo.Context) error {
	var req transport.PatientIDsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	d, err := h.Svc.AddPatients(c.Request().Context(), c.Param("deptId"), req.PatientIDs)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transport.OK(http.StatusOK, d, "patients added successfully"))
}

type RecordHTTP struct {
	Svc *service.RecordService
}

func (h *RecordHTTP) Create(c echo.Context) error {
	var req transport.CreateRecordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	rec, err := h.Svc.Create(c.Request().Context(), authmw.CurrentUser(c), service.RecordInput{
		PatientID:   req.Patient,
		HospitalID:  req.Hospital,
		Disease:     req.Disease,
		Medications: req.Medications,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, transport.OK(http.StatusCreated, rec, "record created successfully"))
}

func (h *RecordHTTP) List(c echo.Context) error {
	recs, err := h.Svc.List(c.Request().Context(), authmw.CurrentUser(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transport.OK(http.StatusOK, recs, "records fetched successfully"))
}

func (h *RecordHTTP) ForPatient(c echo.Context) error {
	recs, err := h.Svc.ForPatient(c.Request().Context(), authmw.CurrentUser(c), c.Param("patientId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transport.OK(http.StatusOK, recs, "records fetched successfully"))
}

func (h *RecordHTTP) Mine(c echo.Context) error {
	recs, err := h.Svc.Mine(c.Request().Context(), authmw.CurrentUser(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transport.OK(http.StatusOK, recs, "records fetched successfully"))
}

func (h *RecordHTTP) Update(c echo.Context) error {
	var req transport.UpdateRecordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	rec, err := h.Svc.Update(c.Request().Context(), authmw.CurrentUser(c), c.Param("recordId"), models.RecordUpdate{
		Disease:     req.Disease,
		Medications: req.Medications,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transport.OK(http.StatusOK, rec, "record updated successfully"))
}
