package gormrepo

import (
	"context"

	"github.com/google/uuid"

	"github.com/Skotchmaster/hospital_management/internal/models"
)

func (r *GormRepo) CreateRecord(ctx context.Context, rec *models.MedicalRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.Medications == nil {
		rec.Medications = models.StringList{}
	}
	return translate(r.DB.WithContext(ctx).Create(rec).Error)
}

func (r *GormRepo) RecordByID(ctx context.Context, id string) (*models.MedicalRecord, error) {
	var rec models.MedicalRecord
	if err := r.DB.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &rec, nil
}

func (r *GormRepo) ListRecords(ctx context.Context) ([]models.MedicalRecord, error) {
	return r.findRecords(ctx, "", "")
}

func (r *GormRepo) RecordsByPatient(ctx context.Context, patientID string) ([]models.MedicalRecord, error) {
	return r.findRecords(ctx, "patient_id = ?", patientID)
}

func (r *GormRepo) RecordsByDoctor(ctx context.Context, doctorID string) ([]models.MedicalRecord, error) {
	return r.findRecords(ctx, "doctor_id = ?", doctorID)
}

func (r *GormRepo) findRecords(ctx context.Context, cond, arg string) ([]models.MedicalRecord, error) {
	q := r.DB.WithContext(ctx).Order("created_at")
	if cond != "" {
		q = q.Where(cond, arg)
	}
	records := []models.MedicalRecord{}
	if err := q.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *GormRepo) UpdateRecord(ctx context.Context, id string, upd models.RecordUpdate) (*models.MedicalRecord, error) {
	cols := map[string]any{}
	if upd.Disease != nil {
		cols["disease"] = *upd.Disease
	}
	if upd.Medications != nil {
		cols["medications"] = models.StringList(upd.Medications)
	}

	var rec models.MedicalRecord
	if err := updateColumns(r.DB.WithContext(ctx), &rec, id, cols); err != nil {
		return nil, err
	}
	return &rec, nil
}
