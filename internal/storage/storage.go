// Package storage declares the persistence contracts shared by the relational
// and document implementations.
package storage

import (
	"context"
	"errors"

	"github.com/Skotchmaster/hospital_management/internal/models"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	// ErrTokenMismatch is returned when the stored refresh token digest is not
	// the one the caller presented.
	ErrTokenMismatch = errors.New("refresh token mismatch")
)

type Users interface {
	// CreateAccount stores the identity and its role profile, if any, as one unit.
	CreateAccount(ctx context.Context, acc *models.Account) error
	UserByID(ctx context.Context, id string) (*models.User, error)
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUser(ctx context.Context, id string, upd models.UserUpdate) (*models.User, error)
	// SetRefreshToken overwrites the stored digest; nil revokes.
	SetRefreshToken(ctx context.Context, id string, digest *string) error
	// RotateRefreshToken replaces oldDigest with newDigest only if oldDigest is
	// still the stored value.
	RotateRefreshToken(ctx context.Context, id, oldDigest, newDigest string) error
	// DeleteAccount removes the role profile and then the identity.
	DeleteAccount(ctx context.Context, id string) error
}

type Doctors interface {
	ListDoctors(ctx context.Context) ([]models.Doctor, error)
	DoctorByID(ctx context.Context, id string) (*models.Doctor, error)
	DoctorByUserID(ctx context.Context, userID string) (*models.Doctor, error)
	UpdateDoctor(ctx context.Context, id string, upd models.DoctorUpdate) (*models.Doctor, error)
	AddDoctorHospitals(ctx context.Context, id string, hospitalIDs []string) (*models.Doctor, error)
	RemoveDoctorHospital(ctx context.Context, id, hospitalID string) (*models.Doctor, error)
}

type Patients interface {
	ListPatients(ctx context.Context) ([]models.Patient, error)
	PatientByID(ctx context.Context, id string) (*models.Patient, error)
	PatientByUserID(ctx context.Context, userID string) (*models.Patient, error)
	UpdatePatient(ctx context.Context, id string, upd models.PatientUpdate) (*models.Patient, error)
	AddMedicalHistory(ctx context.Context, id string, entry models.MedicalHistoryEntry) (*models.Patient, error)
	// RemoveMedicalHistory returns ErrNotFound when the patient or the entry is missing.
	RemoveMedicalHistory(ctx context.Context, id, entryID string) (*models.Patient, error)
}

type Hospitals interface {
	CreateHospital(ctx context.Context, h *models.Hospital) error
	HospitalByID(ctx context.Context, id string) (*models.Hospital, error)
	UpdateHospital(ctx context.Context, id string, upd models.HospitalUpdate) (*models.Hospital, error)
	AddHospitalDepartments(ctx context.Context, id string, departmentIDs []string) (*models.Hospital, error)
	RemoveHospitalDepartments(ctx context.Context, id string, departmentIDs []string) (*models.Hospital, error)
}

type Departments interface {
	// CreateDepartment returns ErrAlreadyExists on a duplicate name.
	CreateDepartment(ctx context.Context, d *models.Department) error
	DepartmentByID(ctx context.Context, id string) (*models.Department, error)
	DepartmentsByHospital(ctx context.Context, hospitalID string) ([]models.Department, error)
	UpdateDepartment(ctx context.Context, id string, upd models.DepartmentUpdate) (*models.Department, error)
	AddDepartmentDoctors(ctx context.Context, id string, doctorIDs []string) (*models.Department, error)
	AddDepartmentPatients(ctx context.Context, id string, patientIDs []string) (*models.Department, error)
}

type Records interface {
	CreateRecord(ctx context.Context, r *models.MedicalRecord) error
	RecordByID(ctx context.Context, id string) (*models.MedicalRecord, error)
	ListRecords(ctx context.Context) ([]models.MedicalRecord, error)
	RecordsByPatient(ctx context.Context, patientID string) ([]models.MedicalRecord, error)
	RecordsByDoctor(ctx context.Context, doctorID string) ([]models.MedicalRecord, error)
	UpdateRecord(ctx context.Context, id string, upd models.RecordUpdate) (*models.MedicalRecord, error)
}

type Store interface {
	Users
	Doctors
	Patients
	Hospitals
	Departments
	Records

	Ping(ctx context.Context) error
	Close() error
}
