package gormrepo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/hospital_management/internal/models"
	"github.com/Skotchmaster/hospital_management/internal/storage"
)

func (r *GormRepo) CreateDepartment(ctx context.Context, d *models.Department) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if d.Doctors == nil {
		d.Doctors = models.StringList{}
	}
	if d.Patients == nil {
		d.Patients = models.StringList{}
	}

	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Department{}).Where("name = ?", d.Name).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return storage.ErrAlreadyExists
		}
		return translate(tx.Create(d).Error)
	})
}

func (r *GormRepo) DepartmentByID(ctx context.Context, id string) (*models.Department, error) {
	var d models.Department
	if err := r.DB.WithContext(ctx).First(&d, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &d, nil
}

func (r *GormRepo) DepartmentsByHospital(ctx context.Context, hospitalID string) ([]models.Department, error) {
	depts := []models.Department{}
	if err := r.DB.WithContext(ctx).Where("hospital_id = ?", hospitalID).Order("created_at").Find(&depts).Error; err != nil {
		return nil, err
	}
	return depts, nil
}

func (r *GormRepo) UpdateDepartment(ctx context.Context, id string, upd models.DepartmentUpdate) (*models.Department, error) {
	cols := map[string]any{}
	if upd.Name != nil {
		cols["name"] = *upd.Name
	}
	if upd.Description != nil {
		cols["description"] = *upd.Description
	}
	if upd.HospitalID != nil {
		cols["hospital_id"] = *upd.HospitalID
	}
	if upd.HeadID != nil {
		cols["head_id"] = *upd.HeadID
	}

	var d models.Department
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if upd.Name != nil {
			var count int64
			if err := tx.Model(&models.Department{}).Where("name = ? AND id <> ?", *upd.Name, id).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return storage.ErrAlreadyExists
			}
		}
		return updateColumns(tx, &d, id, cols)
	})
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *GormRepo) AddDepartmentDoctors(ctx context.Context, id string, doctorIDs []string) (*models.Department, error) {
	return r.editDepartmentList(ctx, id, "doctors", doctorIDs)
}

func (r *GormRepo) AddDepartmentPatients(ctx context.Context, id string, patientIDs []string) (*models.Department, error) {
	return r.editDepartmentList(ctx, id, "patients", patientIDs)
}

func (r *GormRepo) editDepartmentList(ctx context.Context, id, column string, ids []string) (*models.Department, error) {
	var d models.Department
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockByID(tx, &d, id); err != nil {
			return err
		}
		var value models.StringList
		switch column {
		case "doctors":
			d.Doctors = models.AddToSet(d.Doctors, ids...)
			value = d.Doctors
		default:
			d.Patients = models.AddToSet(d.Patients, ids...)
			value = d.Patients
		}
		return tx.Model(&d).Update(column, value).Error
	})
	if err != nil {
		return nil, err
	}
	return &d, nil
}
