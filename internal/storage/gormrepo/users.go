package gormrepo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/hospital_management/internal/models"
	"github.com/Skotchmaster/hospital_management/internal/storage"
)

func (r *GormRepo) CreateAccount(ctx context.Context, acc *models.Account) error {
	if acc == nil || acc.User == nil {
		return fmt.Errorf("create account: missing user")
	}
	u := acc.User
	if u.ID == "" {
		u.ID = uuid.NewString()
	}

	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("email = ?", u.Email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return storage.ErrAlreadyExists
		}

		if err := tx.Create(u).Error; err != nil {
			return translate(err)
		}

		if d := acc.Doctor; d != nil {
			if d.ID == "" {
				d.ID = uuid.NewString()
			}
			d.UserID = u.ID
			if d.WorksInHospitals == nil {
				d.WorksInHospitals = models.StringList{}
			}
			if err := tx.Create(d).Error; err != nil {
				return fmt.Errorf("create doctor profile: %w", translate(err))
			}
		}
		if p := acc.Patient; p != nil {
			if p.ID == "" {
				p.ID = uuid.NewString()
			}
			p.UserID = u.ID
			if p.MedicalHistory == nil {
				p.MedicalHistory = []models.MedicalHistoryEntry{}
			}
			if err := tx.Create(p).Error; err != nil {
				return fmt.Errorf("create patient profile: %w", translate(err))
			}
		}
		return nil
	})
}

func (r *GormRepo) UserByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := r.DB.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *GormRepo) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *GormRepo) UpdateUser(ctx context.Context, id string, upd models.UserUpdate) (*models.User, error) {
	cols := map[string]any{}
	if upd.Name != nil {
		cols["name"] = *upd.Name
	}
	if upd.PasswordHash != nil {
		cols["password_hash"] = *upd.PasswordHash
	}
	if upd.Picture != nil {
		cols["picture_url"] = upd.Picture.URL
		cols["picture_public_id"] = upd.Picture.PublicID
	}

	var u models.User
	if err := updateColumns(r.DB.WithContext(ctx), &u, id, cols); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *GormRepo) SetRefreshToken(ctx context.Context, id string, digest *string) error {
	var value any
	if digest != nil {
		value = *digest
	}
	res := r.DB.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("refresh_token_hash", value)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (r *GormRepo) RotateRefreshToken(ctx context.Context, id, oldDigest, newDigest string) error {
	res := r.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND refresh_token_hash = ?", id, oldDigest).
		Update("refresh_token_hash", newDigest)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return storage.ErrTokenMismatch
	}
	return nil
}

func (r *GormRepo) DeleteAccount(ctx context.Context, id string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&models.Doctor{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Patient{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.User{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return storage.ErrNotFound
		}
		return nil
	})
}
