package service

import (
	"context"

	"github.com/Skotchmaster/hospital_management/internal/apperr"
	"github.com/Skotchmaster/hospital_management/internal/models"
	"github.com/Skotchmaster/hospital_management/internal/storage"
)

type DoctorService struct {
	Doctors storage.Doctors
}

func (s *DoctorService) List(ctx context.Context) ([]models.Doctor, error) {
	ds, err := s.Doctors.ListDoctors(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if ds == nil {
		ds = []models.Doctor{}
	}
	return ds, nil
}

func (s *DoctorService) Mine(ctx context.Context, user *models.User) (*models.Doctor, error) {
	if err := requireUser(user); err != nil {
		return nil, err
	}
	d, err := s.Doctors.DoctorByUserID(ctx, user.ID)
	if err != nil {
		return nil, storageError(err, "doctor profile not found")
	}
	return d, nil
}

func (s *DoctorService) Get(ctx context.Context, id string) (*models.Doctor, error) {
	d, err := s.Doctors.DoctorByID(ctx, id)
	if err != nil {
		return nil, storageError(err, "doctor not found")
	}
	return d, nil
}

func (s *DoctorService) Update(ctx context.Context, user *models.User, id string, upd models.DoctorUpdate) (*models.Doctor, error) {
	upd.Qualification = nonBlank(upd.Qualification)
	if upd.Empty() {
		return nil, apperr.BadRequest("provide salary, qualification or experienceInYears")
	}
	if (upd.Salary != nil && *upd.Salary < 0) || (upd.ExperienceInYears != nil && *upd.ExperienceInYears < 0) {
		return nil, apperr.BadRequest("salary and experienceInYears must not be negative")
	}
	if _, err := s.owned(ctx, user, id); err != nil {
		return nil, err
	}

	d, err := s.Doctors.UpdateDoctor(ctx, id, upd)
	if err != nil {
		return nil, storageError(err, "doctor not found")
	}
	logger(ctx, "doctor.update").Info("doctor_updated", "doctor_id", id)
	return d, nil
}

func (s *DoctorService) AddHospitals(ctx context.Context, user *models.User, id string, hospitalIDs []string) (*models.Doctor, error) {
	ids := cleanIDs(hospitalIDs)
	if len(ids) == 0 {
		return nil, apperr.BadRequest("hospitalIds must not be empty")
	}
	if _, err := s.owned(ctx, user, id); err != nil {
		return nil, err
	}
	d, err := s.Doctors.AddDoctorHospitals(ctx, id, ids)
	if err != nil {
		return nil, storageError(err, "doctor not found")
	}
	return d, nil
}

func (s *DoctorService) RemoveHospital(ctx context.Context, user *models.User, id, hospitalID string) (*models.Doctor, error) {
	if blank(hospitalID) {
		return nil, apperr.BadRequest("hospitalId is required")
	}
	if _, err := s.owned(ctx, user, id); err != nil {
		return nil, err
	}
	d, err := s.Doctors.RemoveDoctorHospital(ctx, id, hospitalID)
	if err != nil {
		return nil, storageError(err, "doctor not found")
	}
	return d, nil
}

// owned loads the doctor profile and checks it belongs to user.
func (s *DoctorService) owned(ctx context.Context, user *models.User, id string) (*models.Doctor, error) {
	if err := requireUser(user); err != nil {
		return nil, err
	}
	d, err := s.Doctors.DoctorByID(ctx, id)
	if err != nil {
		return nil, storageError(err, "doctor not found")
	}
	if d.UserID != user.ID {
		logger(ctx, "doctor").Warn("doctor_forbidden", "status", 403, "doctor_id", id, "user_id", user.ID)
		return nil, apperr.Forbidden("you can only change your own doctor profile")
	}
	return d, nil
}
