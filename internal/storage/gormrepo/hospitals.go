package gormrepo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/hospital_management/internal/models"
)

func (r *GormRepo) CreateHospital(ctx context.Context, h *models.Hospital) error {
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	if h.SpecializedIn == nil {
		h.SpecializedIn = models.StringList{}
	}
	return translate(r.DB.WithContext(ctx).Create(h).Error)
}

func (r *GormRepo) HospitalByID(ctx context.Context, id string) (*models.Hospital, error) {
	var h models.Hospital
	if err := r.DB.WithContext(ctx).First(&h, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &h, nil
}

func (r *GormRepo) UpdateHospital(ctx context.Context, id string, upd models.HospitalUpdate) (*models.Hospital, error) {
	cols := map[string]any{}
	if upd.Name != nil {
		cols["name"] = *upd.Name
	}
	if upd.Address != nil {
		cols["address"] = *upd.Address
	}
	if upd.City != nil {
		cols["city"] = *upd.City
	}
	if upd.Pincode != nil {
		cols["pincode"] = *upd.Pincode
	}

	var h models.Hospital
	if err := updateColumns(r.DB.WithContext(ctx), &h, id, cols); err != nil {
		return nil, err
	}
	return &h, nil
}

func (r *GormRepo) AddHospitalDepartments(ctx context.Context, id string, departmentIDs []string) (*models.Hospital, error) {
	return r.editSpecializations(ctx, id, func(list []string) []string {
		return models.AddToSet(list, departmentIDs...)
	})
}

func (r *GormRepo) RemoveHospitalDepartments(ctx context.Context, id string, departmentIDs []string) (*models.Hospital, error) {
	return r.editSpecializations(ctx, id, func(list []string) []string {
		return models.Pull(list, departmentIDs...)
	})
}

func (r *GormRepo) editSpecializations(ctx context.Context, id string, edit func([]string) []string) (*models.Hospital, error) {
	var h models.Hospital
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockByID(tx, &h, id); err != nil {
			return err
		}
		h.SpecializedIn = edit(h.SpecializedIn)
		return tx.Model(&h).Update("specialized_in", h.SpecializedIn).Error
	})
	if err != nil {
		return nil, err
	}
	return &h, nil
}
