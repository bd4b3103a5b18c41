package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/Skotchmaster/hospital_management/internal/apperr"
	"github.com/Skotchmaster/hospital_management/internal/models"
	"github.com/Skotchmaster/hospital_management/internal/storage"
)

type PatientService struct {
	Patients storage.Patients
}

type HistoryInput struct {
	Condition   string
	TreatedBy   string
	Notes       string
	Medications []string
}

func (s *PatientService) List(ctx context.Context) ([]models.Patient, error) {
	ps, err := s.Patients.ListPatients(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if ps == nil {
		ps = []models.Patient{}
	}
	return ps, nil
}

func (s *PatientService) Mine(ctx context.Context, user *models.User) (*models.Patient, error) {
	if err := requireUser(user); err != nil {
		return nil, err
	}
	p, err := s.Patients.PatientByUserID(ctx, user.ID)
	if err != nil {
		return nil, storageError(err, "patient profile not found")
	}
	return p, nil
}

func (s *PatientService) Get(ctx context.Context, id string) (*models.Patient, error) {
	p, err := s.Patients.PatientByID(ctx, id)
	if err != nil {
		return nil, storageError(err, "patient not found")
	}
	return p, nil
}

// UpdateMine changes the caller's own patient profile.
func (s *PatientService) UpdateMine(ctx context.Context, user *models.User, upd models.PatientUpdate) (*models.Patient, error) {
	upd.AdmittedIn = nil
	upd.DiagnosedWith = nonBlank(upd.DiagnosedWith)
	upd.Address = nonBlank(upd.Address)
	upd.BloodGroup = nonBlank(upd.BloodGroup)
	if upd.Empty() {
		return nil, apperr.BadRequest("provide at least one field to update")
	}
	if upd.Gender != nil && !upd.Gender.Valid() {
		return nil, apperr.BadRequest("gender must be one of M, F, O")
	}
	if upd.Age != nil && *upd.Age < 0 {
		return nil, apperr.BadRequest("age must not be negative")
	}

	p, err := s.Mine(ctx, user)
	if err != nil {
		return nil, err
	}
	updated, err := s.Patients.UpdatePatient(ctx, p.ID, upd)
	if err != nil {
		return nil, storageError(err, "patient not found")
	}
	logger(ctx, "patient.update").Info("patient_updated", "patient_id", p.ID)
	return updated, nil
}

// Admit records the hospital the caller is admitted in.
func (s *PatientService) Admit(ctx context.Context, user *models.User, hospitalID string) (*models.Patient, error) {
	hospitalID = strings.TrimSpace(hospitalID)
	if hospitalID == "" {
		return nil, apperr.BadRequest("hospitalId is required")
	}
	p, err := s.Mine(ctx, user)
	if err != nil {
		return nil, err
	}
	updated, err := s.Patients.UpdatePatient(ctx, p.ID, models.PatientUpdate{AdmittedIn: &hospitalID})
	if err != nil {
		return nil, storageError(err, "patient not found")
	}
	return updated, nil
}

func (s *PatientService) AddHistory(ctx context.Context, user *models.User, patientID string, in HistoryInput) (*models.Patient, error) {
	if blank(in.Condition) {
		return nil, apperr.BadRequest("condition is required")
	}
	if err := s.canEditHistory(ctx, user, patientID); err != nil {
		return nil, err
	}

	entry := historyEntry(in)
	p, err := s.Patients.AddMedicalHistory(ctx, patientID, entry)
	if err != nil {
		return nil, storageError(err, "patient not found")
	}
	logger(ctx, "patient.history").Info("history_added", "patient_id", patientID, "entry_id", entry.ID)
	return p, nil
}

func (s *PatientService) RemoveHistory(ctx context.Context, user *models.User, patientID, entryID string) (*models.Patient, error) {
	if err := s.canEditHistory(ctx, user, patientID); err != nil {
		return nil, err
	}
	p, err := s.Patients.RemoveMedicalHistory(ctx, patientID, entryID)
	if err != nil {
		return nil, storageError(err, "medical history entry not found")
	}
	return p, nil
}

func historyEntry(in HistoryInput) models.MedicalHistoryEntry {
	meds := in.Medications
	if meds == nil {
		meds = []string{}
	}
	return models.MedicalHistoryEntry{
		ID:          uuid.NewString(),
		Condition:   strings.TrimSpace(in.Condition),
		TreatedBy:   strings.TrimSpace(in.TreatedBy),
		Notes:       in.Notes,
		Medications: meds,
	}
}

// canEditHistory admits any doctor, or the patient the profile belongs to.
func (s *PatientService) canEditHistory(ctx context.Context, user *models.User, patientID string) error {
	if err := requireUser(user); err != nil {
		return err
	}
	p, err := s.Patients.PatientByID(ctx, patientID)
	if err != nil {
		return storageError(err, "patient not found")
	}
	if isDoctor(user) || p.UserID == user.ID {
		return nil
	}
	logger(ctx, "patient.history").Warn("history_forbidden", "status", 403, "patient_id", patientID, "user_id", user.ID)
	return apperr.Forbidden("only doctors or the patient can change medical history")
}
