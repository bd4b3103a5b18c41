package mongo

import (
	"context"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/Skotchmaster/hospital_management/internal/models"
)

func (m *Mongo) CreateRecord(ctx context.Context, r *models.MedicalRecord) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.Medications == nil {
		r.Medications = models.StringList{}
	}
	ts := now()
	r.CreatedAt, r.UpdatedAt = ts, ts

	_, err := m.records.InsertOne(ctx, r)
	return translate("storage/mongo/CreateRecord", err)
}

func (m *Mongo) RecordByID(ctx context.Context, id string) (*models.MedicalRecord, error) {
	var r models.MedicalRecord
	if err := findOne(ctx, m.records, byID(id), &r); err != nil {
		return nil, translate("storage/mongo/RecordByID", err)
	}
	return &r, nil
}

func (m *Mongo) ListRecords(ctx context.Context) ([]models.MedicalRecord, error) {
	out, err := findAll[models.MedicalRecord](ctx, m.records, bson.D{})
	if err != nil {
		return nil, translate("storage/mongo/ListRecords", err)
	}
	return out, nil
}

func (m *Mongo) RecordsByPatient(ctx context.Context, patientID string) ([]models.MedicalRecord, error) {
	out, err := findAll[models.MedicalRecord](ctx, m.records, bson.D{{Key: "patient", Value: patientID}})
	if err != nil {
		return nil, translate("storage/mongo/RecordsByPatient", err)
	}
	return out, nil
}

func (m *Mongo) RecordsByDoctor(ctx context.Context, doctorID string) ([]models.MedicalRecord, error) {
	out, err := findAll[models.MedicalRecord](ctx, m.records, bson.D{{Key: "doctor", Value: doctorID}})
	if err != nil {
		return nil, translate("storage/mongo/RecordsByDoctor", err)
	}
	return out, nil
}

func (m *Mongo) UpdateRecord(ctx context.Context, id string, upd models.RecordUpdate) (*models.MedicalRecord, error) {
	var fields bson.D
	if upd.Disease != nil {
		fields = append(fields, bson.E{Key: "disease", Value: *upd.Disease})
	}
	if upd.Medications != nil {
		fields = append(fields, bson.E{Key: "medications", Value: upd.Medications})
	}

	var r models.MedicalRecord
	if err := updateByID(ctx, m.records, byID(id), setFields(fields), &r); err != nil {
		return nil, translate("storage/mongo/UpdateRecord", err)
	}
	return &r, nil
}
