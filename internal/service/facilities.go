package service

import (
	"context"
	"errors"
	"strings"

	"github.com/Skotchmaster/hospital_management/internal/apperr"
	"github.com/Skotchmaster/hospital_management/internal/models"
	"github.com/Skotchmaster/hospital_management/internal/storage"
)

// Totals counts the doctors and patients listed on departments.
type Totals struct {
	TotalDoctors  int `json:"totalDoctors"`
	TotalPatients int `json:"totalPatients"`
}

type HospitalDetails struct {
	*models.Hospital
	Totals
}

type DepartmentDetails struct {
	*models.Department
	Totals
}

type HospitalService struct {
	Hospitals   storage.Hospitals
	Departments storage.Departments
}

type DepartmentService struct {
	Departments storage.Departments
	Hospitals   storage.Hospitals
}

func (s *HospitalService) Create(ctx context.Context, h models.Hospital) (*models.Hospital, error) {
	h.Name, h.Address = strings.TrimSpace(h.Name), strings.TrimSpace(h.Address)
	h.City, h.Pincode = strings.TrimSpace(h.City), strings.TrimSpace(h.Pincode)
	if h.Name == "" || h.Address == "" || h.City == "" || h.Pincode == "" {
		return nil, apperr.BadRequest("name, address, city and pincode are required")
	}
	h.ID = ""
	h.SpecializedIn = cleanIDs(h.SpecializedIn)

	if err := s.Hospitals.CreateHospital(ctx, &h); err != nil {
		return nil, storageError(err, "hospital not found")
	}
	logger(ctx, "hospital.create").Info("hospital_created", "hospital_id", h.ID)
	return &h, nil
}

func (s *HospitalService) Get(ctx context.Context, id string) (*HospitalDetails, error) {
	h, err := s.Hospitals.HospitalByID(ctx, id)
	if err != nil {
		return nil, storageError(err, "hospital not found")
	}
	depts, err := s.Departments.DepartmentsByHospital(ctx, id)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	out := &HospitalDetails{Hospital: h}
	for _, d := range depts {
		out.TotalDoctors += len(d.Doctors)
		out.TotalPatients += len(d.Patients)
	}
	return out, nil
}

func (s *HospitalService) Update(ctx context.Context, id string, upd models.HospitalUpdate) (*models.Hospital, error) {
	upd.Name, upd.Address = nonBlank(upd.Name), nonBlank(upd.Address)
	upd.City, upd.Pincode = nonBlank(upd.City), nonBlank(upd.Pincode)
	if upd.Empty() {
		return nil, apperr.BadRequest("provide at least one field to update")
	}
	h, err := s.Hospitals.UpdateHospital(ctx, id, upd)
	if err != nil {
		return nil, storageError(err, "hospital not found")
	}
	return h, nil
}

func (s *HospitalService) AddDepartments(ctx context.Context, id string, departmentIDs []string) (*models.Hospital, error) {
	ids := cleanIDs(departmentIDs)
	if len(ids) == 0 {
		return nil, apperr.BadRequest("departmentIds must not be empty")
	}
	h, err := s.Hospitals.AddHospitalDepartments(ctx, id, ids)
	if err != nil {
		return nil, storageError(err, "hospital not found")
	}
	return h, nil
}

func (s *HospitalService) RemoveDepartments(ctx context.Context, id string, departmentIDs []string) (*models.Hospital, error) {
	ids := cleanIDs(departmentIDs)
	if len(ids) == 0 {
		return nil, apperr.BadRequest("departmentIds must not be empty")
	}
	h, err := s.Hospitals.RemoveHospitalDepartments(ctx, id, ids)
	if err != nil {
		return nil, storageError(err, "hospital not found")
	}
	return h, nil
}

func (s *DepartmentService) Create(ctx context.Context, d models.Department) (*models.Department, error) {
	d.Name = strings.TrimSpace(d.Name)
	d.HospitalID = strings.TrimSpace(d.HospitalID)
	if d.Name == "" || d.HospitalID == "" {
		return nil, apperr.BadRequest("name and hospital are required")
	}
	d.HeadID = nonBlank(d.HeadID)
	d.ID = ""
	d.Doctors, d.Patients = cleanIDs(d.Doctors), cleanIDs(d.Patients)

	if _, err := s.Hospitals.HospitalByID(ctx, d.HospitalID); err != nil {
		return nil, storageError(err, "hospital not found")
	}
	if err := s.Departments.CreateDepartment(ctx, &d); err != nil {
		return nil, departmentError(err)
	}
	logger(ctx, "department.create").Info("department_created", "department_id", d.ID, "hospital_id", d.HospitalID)
	return &d, nil
}

func (s *DepartmentService) Get(ctx context.Context, id string) (*DepartmentDetails, error) {
	d, err := s.Departments.DepartmentByID(ctx, id)
	if err != nil {
		return nil, storageError(err, "department not found")
	}
	return &DepartmentDetails{
		Department: d,
		Totals:     Totals{TotalDoctors: len(d.Doctors), TotalPatients: len(d.Patients)},
	}, nil
}

func (s *DepartmentService) Update(ctx context.Context, id string, upd models.DepartmentUpdate) (*models.Department, error) {
	upd.Name, upd.HeadID = nonBlank(upd.Name), nonBlank(upd.HeadID)
	upd.HospitalID = nil
	if upd.Empty() {
		return nil, apperr.BadRequest("provide name, description or head")
	}
	d, err := s.Departments.UpdateDepartment(ctx, id, upd)
	if err != nil {
		return nil, departmentError(err)
	}
	return d, nil
}

func (s *DepartmentService) AddDoctors(ctx context.Context, id string, doctorIDs []string) (*models.Department, error) {
	ids := cleanIDs(doctorIDs)
	if len(ids) == 0 {
		return nil, apperr.BadRequest("doctorIds must not be empty")
	}
	d, err := s.Departments.AddDepartmentDoctors(ctx, id, ids)
	if err != nil {
		return nil, storageError(err, "department not found")
	}
	return d, nil
}

func (s *DepartmentService) AddPatients(ctx context.Context, id string, patientIDs []string) (*models.Department, error) {
	ids := cleanIDs(patientIDs)
	if len(ids) == 0 {
		return nil, apperr.BadRequest("patientIds must not be empty")
	}
	d, err := s.Departments.AddDepartmentPatients(ctx, id, ids)
	if err != nil {
		return nil, storageError(err, "department not found")
	}
	return d, nil
}

func departmentError(err error) error {
	if errors.Is(err, storage.ErrAlreadyExists) {
		return apperr.Conflict("department with this name already exists").Wrap(err)
	}
	return storageError(err, "department not found")
}
