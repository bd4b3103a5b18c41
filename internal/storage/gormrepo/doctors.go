package gormrepo

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/hospital_management/internal/models"
)

func (r *GormRepo) ListDoctors(ctx context.Context) ([]models.Doctor, error) {
	doctors := []models.Doctor{}
	if err := r.DB.WithContext(ctx).Order("created_at").Find(&doctors).Error; err != nil {
		return nil, err
	}
	return doctors, nil
}

func (r *GormRepo) DoctorByID(ctx context.Context, id string) (*models.Doctor, error) {
	var d models.Doctor
	if err := r.DB.WithContext(ctx).First(&d, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &d, nil
}

func (r *GormRepo) DoctorByUserID(ctx context.Context, userID string) (*models.Doctor, error) {
	var d models.Doctor
	if err := r.DB.WithContext(ctx).Where("user_id = ?", userID).First(&d).Error; err != nil {
		return nil, translate(err)
	}
	return &d, nil
}

func (r *GormRepo) UpdateDoctor(ctx context.Context, id string, upd models.DoctorUpdate) (*models.Doctor, error) {
	cols := map[string]any{}
	if upd.Salary != nil {
		cols["salary"] = *upd.Salary
	}
	if upd.Qualification != nil {
		cols["qualification"] = *upd.Qualification
	}
	if upd.ExperienceInYears != nil {
		cols["experience_in_years"] = *upd.ExperienceInYears
	}

	var d models.Doctor
	if err := updateColumns(r.DB.WithContext(ctx), &d, id, cols); err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *GormRepo) AddDoctorHospitals(ctx context.Context, id string, hospitalIDs []string) (*models.Doctor, error) {
	return r.editDoctorHospitals(ctx, id, func(list []string) []string {
		return models.AddToSet(list, hospitalIDs...)
	})
}

func (r *GormRepo) RemoveDoctorHospital(ctx context.Context, id, hospitalID string) (*models.Doctor, error) {
	return r.editDoctorHospitals(ctx, id, func(list []string) []string {
		return models.Pull(list, hospitalID)
	})
}

func (r *GormRepo) editDoctorHospitals(ctx context.Context, id string, edit func([]string) []string) (*models.Doctor, error) {
	var d models.Doctor
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockByID(tx, &d, id); err != nil {
			return err
		}
		d.WorksInHospitals = edit(d.WorksInHospitals)
		return tx.Model(&d).Update("works_in_hospitals", d.WorksInHospitals).Error
	})
	if err != nil {
		return nil, err
	}
	return &d, nil
}
