package gormrepo

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/hospital_management/internal/models"
	"github.com/Skotchmaster/hospital_management/internal/storage"
)

func (r *GormRepo) ListPatients(ctx context.Context) ([]models.Patient, error) {
	patients := []models.Patient{}
	if err := r.DB.WithContext(ctx).Order("created_at").Find(&patients).Error; err != nil {
		return nil, err
	}
	return patients, nil
}

func (r *GormRepo) PatientByID(ctx context.Context, id string) (*models.Patient, error) {
	var p models.Patient
	if err := r.DB.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *GormRepo) PatientByUserID(ctx context.Context, userID string) (*models.Patient, error) {
	var p models.Patient
	if err := r.DB.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *GormRepo) UpdatePatient(ctx context.Context, id string, upd models.PatientUpdate) (*models.Patient, error) {
	cols := map[string]any{}
	if upd.DiagnosedWith != nil {
		cols["diagnosed_with"] = *upd.DiagnosedWith
	}
	if upd.Address != nil {
		cols["address"] = *upd.Address
	}
	if upd.Age != nil {
		cols["age"] = *upd.Age
	}
	if upd.BloodGroup != nil {
		cols["blood_group"] = *upd.BloodGroup
	}
	if upd.Gender != nil {
		cols["gender"] = string(*upd.Gender)
	}
	if upd.AdmittedIn != nil {
		cols["admitted_in"] = *upd.AdmittedIn
	}

	var p models.Patient
	if err := updateColumns(r.DB.WithContext(ctx), &p, id, cols); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *GormRepo) AddMedicalHistory(ctx context.Context, id string, entry models.MedicalHistoryEntry) (*models.Patient, error) {
	return r.editMedicalHistory(ctx, id, func(h []models.MedicalHistoryEntry) ([]models.MedicalHistoryEntry, error) {
		return append(h, entry), nil
	})
}

func (r *GormRepo) RemoveMedicalHistory(ctx context.Context, id, entryID string) (*models.Patient, error) {
	return r.editMedicalHistory(ctx, id, func(h []models.MedicalHistoryEntry) ([]models.MedicalHistoryEntry, error) {
		out := make([]models.MedicalHistoryEntry, 0, len(h))
		for _, e := range h {
			if e.ID != entryID {
				out = append(out, e)
			}
		}
		if len(out) == len(h) {
			return nil, storage.ErrNotFound
		}
		return out, nil
	})
}

func (r *GormRepo) editMedicalHistory(
	ctx context.Context,
	id string,
	edit func([]models.MedicalHistoryEntry) ([]models.MedicalHistoryEntry, error),
) (*models.Patient, error) {
	var p models.Patient
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockByID(tx, &p, id); err != nil {
			return err
		}
		history, err := edit(p.MedicalHistory)
		if err != nil {
			return err
		}
		p.MedicalHistory = history
		return tx.Model(&p).Update("medical_history", p.MedicalHistory).Error
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}
