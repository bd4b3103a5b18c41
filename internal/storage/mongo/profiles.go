package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/Skotchmaster/hospital_management/internal/models"
)

func (m *Mongo) ListDoctors(ctx context.Context) ([]models.Doctor, error) {
	out, err := findAll[models.Doctor](ctx, m.doctors, bson.D{})
	if err != nil {
		return nil, translate("storage/mongo/ListDoctors", err)
	}
	return out, nil
}

func (m *Mongo) DoctorByID(ctx context.Context, id string) (*models.Doctor, error) {
	var d models.Doctor
	if err := findOne(ctx, m.doctors, byID(id), &d); err != nil {
		return nil, translate("storage/mongo/DoctorByID", err)
	}
	return &d, nil
}

func (m *Mongo) DoctorByUserID(ctx context.Context, userID string) (*models.Doctor, error) {
	var d models.Doctor
	if err := findOne(ctx, m.doctors, bson.D{{Key: "user_id", Value: userID}}, &d); err != nil {
		return nil, translate("storage/mongo/DoctorByUserID", err)
	}
	return &d, nil
}

func (m *Mongo) UpdateDoctor(ctx context.Context, id string, upd models.DoctorUpdate) (*models.Doctor, error) {
	var fields bson.D
	if upd.Salary != nil {
		fields = append(fields, bson.E{Key: "salary", Value: *upd.Salary})
	}
	if upd.Qualification != nil {
		fields = append(fields, bson.E{Key: "qualification", Value: *upd.Qualification})
	}
	if upd.ExperienceInYears != nil {
		fields = append(fields, bson.E{Key: "experience_in_years", Value: *upd.ExperienceInYears})
	}

	var d models.Doctor
	if err := updateByID(ctx, m.doctors, byID(id), setFields(fields), &d); err != nil {
		return nil, translate("storage/mongo/UpdateDoctor", err)
	}
	return &d, nil
}

func (m *Mongo) AddDoctorHospitals(ctx context.Context, id string, hospitalIDs []string) (*models.Doctor, error) {
	var d models.Doctor
	if err := updateByID(ctx, m.doctors, byID(id), addToSet("works_in_hospitals", hospitalIDs), &d); err != nil {
		return nil, translate("storage/mongo/AddDoctorHospitals", err)
	}
	return &d, nil
}

func (m *Mongo) RemoveDoctorHospital(ctx context.Context, id, hospitalID string) (*models.Doctor, error) {
	var d models.Doctor
	if err := updateByID(ctx, m.doctors, byID(id), pull("works_in_hospitals", []string{hospitalID}), &d); err != nil {
		return nil, translate("storage/mongo/RemoveDoctorHospital", err)
	}
	return &d, nil
}

func (m *Mongo) ListPatients(ctx context.Context) ([]models.Patient, error) {
	out, err := findAll[models.Patient](ctx, m.patients, bson.D{})
	if err != nil {
		return nil, translate("storage/mongo/ListPatients", err)
	}
	return out, nil
}

func (m *Mongo) PatientByID(ctx context.Context, id string) (*models.Patient, error) {
	var p models.Patient
	if err := findOne(ctx, m.patients, byID(id), &p); err != nil {
		return nil, translate("storage/mongo/PatientByID", err)
	}
	return &p, nil
}

func (m *Mongo) PatientByUserID(ctx context.Context, userID string) (*models.Patient, error) {
	var p models.Patient
	if err := findOne(ctx, m.patients, bson.D{{Key: "user_id", Value: userID}}, &p); err != nil {
		return nil, translate("storage/mongo/PatientByUserID", err)
	}
	return &p, nil
}

func (m *Mongo) UpdatePatient(ctx context.Context, id string, upd models.PatientUpdate) (*models.Patient, error) {
	var fields bson.D
	if upd.DiagnosedWith != nil {
		fields = append(fields, bson.E{Key: "diagnosed_with", Value: *upd.DiagnosedWith})
	}
	if upd.Address != nil {
		fields = append(fields, bson.E{Key: "address", Value: *upd.Address})
	}
	if upd.Age != nil {
		fields = append(fields, bson.E{Key: "age", Value: *upd.Age})
	}
	if upd.BloodGroup != nil {
		fields = append(fields, bson.E{Key: "blood_group", Value: *upd.BloodGroup})
	}
	if upd.Gender != nil {
		fields = append(fields, bson.E{Key: "gender", Value: string(*upd.Gender)})
	}
	if upd.AdmittedIn != nil {
		fields = append(fields, bson.E{Key: "admitted_in", Value: *upd.AdmittedIn})
	}

	var p models.Patient
	if err := updateByID(ctx, m.patients, byID(id), setFields(fields), &p); err != nil {
		return nil, translate("storage/mongo/UpdatePatient", err)
	}
	return &p, nil
}

func (m *Mongo) AddMedicalHistory(ctx context.Context, id string, entry models.MedicalHistoryEntry) (*models.Patient, error) {
	if entry.Medications == nil {
		entry.Medications = []string{}
	}
	update := bson.D{
		{Key: "$push", Value: bson.D{{Key: "medical_history", Value: entry}}},
		{Key: "$set", Value: bson.D{{Key: "updated_at", Value: now()}}},
	}

	var p models.Patient
	if err := updateByID(ctx, m.patients, byID(id), update, &p); err != nil {
		return nil, translate("storage/mongo/AddMedicalHistory", err)
	}
	return &p, nil
}

func (m *Mongo) RemoveMedicalHistory(ctx context.Context, id, entryID string) (*models.Patient, error) {
	// matching on the entry id turns a missing entry into ErrNotFound
	filter := bson.D{{Key: "_id", Value: id}, {Key: "medical_history.id", Value: entryID}}
	update := bson.D{
		{Key: "$pull", Value: bson.D{{Key: "medical_history", Value: bson.D{{Key: "id", Value: entryID}}}}},
		{Key: "$set", Value: bson.D{{Key: "updated_at", Value: now()}}},
	}

	var p models.Patient
	if err := updateByID(ctx, m.patients, filter, update, &p); err != nil {
		return nil, translate("storage/mongo/RemoveMedicalHistory", err)
	}
	return &p, nil
}
