package service

import (
	"context"
	"strings"

	"github.com/Skotchmaster/hospital_management/internal/apperr"
	"github.com/Skotchmaster/hospital_management/internal/models"
	"github.com/Skotchmaster/hospital_management/internal/storage"
)

type RecordService struct {
	Records  storage.Records
	Doctors  storage.Doctors
	Patients storage.Patients
}

type RecordInput struct {
	PatientID   string
	HospitalID  *string
	Disease     string
	Medications []string
}

// Create writes a record authored by the caller's doctor profile.
func (s *RecordService) Create(ctx context.Context, user *models.User, in RecordInput) (*models.MedicalRecord, error) {
	in.PatientID = strings.TrimSpace(in.PatientID)
	if in.PatientID == "" || blank(in.Disease) {
		return nil, apperr.BadRequest("patient and disease are required")
	}
	doc, err := s.callerDoctor(ctx, user)
	if err != nil {
		return nil, err
	}
	if _, err := s.Patients.PatientByID(ctx, in.PatientID); err != nil {
		return nil, storageError(err, "patient not found")
	}

	rec := &models.MedicalRecord{
		PatientID:   in.PatientID,
		DoctorID:    doc.ID,
		HospitalID:  nonBlank(in.HospitalID),
		Disease:     strings.TrimSpace(in.Disease),
		Medications: cleanIDs(in.Medications),
	}
	if err := s.Records.CreateRecord(ctx, rec); err != nil {
		return nil, apperr.Internal(err)
	}
	logger(ctx, "record.create").Info("record_created", "record_id", rec.ID, "doctor_id", doc.ID)
	return rec, nil
}

func (s *RecordService) List(ctx context.Context, user *models.User) ([]models.MedicalRecord, error) {
	if err := s.requireDoctorRole(ctx, user); err != nil {
		return nil, err
	}
	recs, err := s.Records.ListRecords(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return recs, nil
}

// ForPatient lists a patient's records. Doctors see everyone's, patients only their own.
func (s *RecordService) ForPatient(ctx context.Context, user *models.User, patientID string) ([]models.MedicalRecord, error) {
	if err := requireUser(user); err != nil {
		return nil, err
	}
	if !isDoctor(user) {
		p, err := s.Patients.PatientByUserID(ctx, user.ID)
		if err != nil && !isNotFound(err) {
			return nil, apperr.Internal(err)
		}
		if p == nil || p.ID != patientID {
			logger(ctx, "record.patient").Warn("records_forbidden", "status", 403, "patient_id", patientID, "user_id", user.ID)
			return nil, apperr.Forbidden("you can only view your own records")
		}
	}
	recs, err := s.Records.RecordsByPatient(ctx, patientID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return recs, nil
}

func (s *RecordService) Mine(ctx context.Context, user *models.User) ([]models.MedicalRecord, error) {
	doc, err := s.callerDoctor(ctx, user)
	if err != nil {
		return nil, err
	}
	recs, err := s.Records.RecordsByDoctor(ctx, doc.ID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return recs, nil
}

func (s *RecordService) Update(ctx context.Context, user *models.User, id string, upd models.RecordUpdate) (*models.MedicalRecord, error) {
	upd.Disease = nonBlank(upd.Disease)
	if upd.Medications != nil {
		upd.Medications = cleanIDs(upd.Medications)
	}
	if upd.Empty() {
		return nil, apperr.BadRequest("provide disease or medications")
	}
	doc, err := s.callerDoctor(ctx, user)
	if err != nil {
		return nil, err
	}
	rec, err := s.Records.RecordByID(ctx, id)
	if err != nil {
		return nil, storageError(err, "record not found")
	}
	if rec.DoctorID != doc.ID {
		logger(ctx, "record.update").Warn("record_forbidden", "status", 403, "record_id", id, "doctor_id", doc.ID)
		return nil, apperr.Forbidden("only the author can change this record")
	}

	updated, err := s.Records.UpdateRecord(ctx, id, upd)
	if err != nil {
		return nil, storageError(err, "record not found")
	}
	return updated, nil
}

func (s *RecordService) requireDoctorRole(ctx context.Context, user *models.User) error {
	if err := requireUser(user); err != nil {
		return err
	}
	if !isDoctor(user) {
		logger(ctx, "record").Warn("records_forbidden", "status", 403, "user_id", user.ID, "reason", "not a doctor")
		return apperr.Forbidden("only doctors can access medical records")
	}
	return nil
}

func (s *RecordService) callerDoctor(ctx context.Context, user *models.User) (*models.Doctor, error) {
	if err := s.requireDoctorRole(ctx, user); err != nil {
		return nil, err
	}
	doc, err := s.Doctors.DoctorByUserID(ctx, user.ID)
	if err != nil {
		if isNotFound(err) {
			return nil, apperr.Forbidden("doctor profile not found").Wrap(err)
		}
		return nil, apperr.Internal(err)
	}
	return doc, nil
}
