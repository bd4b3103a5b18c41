package mongo

import (
	"context"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/Skotchmaster/hospital_management/internal/models"
)

func (m *Mongo) CreateHospital(ctx context.Context, h *models.Hospital) error {
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	if h.SpecializedIn == nil {
		h.SpecializedIn = models.StringList{}
	}
	ts := now()
	h.CreatedAt, h.UpdatedAt = ts, ts

	_, err := m.hospitals.InsertOne(ctx, h)
	return translate("storage/mongo/CreateHospital", err)
}

func (m *Mongo) HospitalByID(ctx context.Context, id string) (*models.Hospital, error) {
	var h models.Hospital
	if err := findOne(ctx, m.hospitals, byID(id), &h); err != nil {
		return nil, translate("storage/mongo/HospitalByID", err)
	}
	return &h, nil
}

func (m *Mongo) UpdateHospital(ctx context.Context, id string, upd models.HospitalUpdate) (*models.Hospital, error) {
	var fields bson.D
	if upd.Name != nil {
		fields = append(fields, bson.E{Key: "name", Value: *upd.Name})
	}
	if upd.Address != nil {
		fields = append(fields, bson.E{Key: "address", Value: *upd.Address})
	}
	if upd.City != nil {
		fields = append(fields, bson.E{Key: "city", Value: *upd.City})
	}
	if upd.Pincode != nil {
		fields = append(fields, bson.E{Key: "pincode", Value: *upd.Pincode})
	}

	var h models.Hospital
	if err := updateByID(ctx, m.hospitals, byID(id), setFields(fields), &h); err != nil {
		return nil, translate("storage/mongo/UpdateHospital", err)
	}
	return &h, nil
}

func (m *Mongo) AddHospitalDepartments(ctx context.Context, id string, departmentIDs []string) (*models.Hospital, error) {
	var h models.Hospital
	if err := updateByID(ctx, m.hospitals, byID(id), addToSet("specialized_in", departmentIDs), &h); err != nil {
		return nil, translate("storage/mongo/AddHospitalDepartments", err)
	}
	return &h, nil
}

func (m *Mongo) RemoveHospitalDepartments(ctx context.Context, id string, departmentIDs []string) (*models.Hospital, error) {
	var h models.Hospital
	if err := updateByID(ctx, m.hospitals, byID(id), pull("specialized_in", departmentIDs), &h); err != nil {
		return nil, translate("storage/mongo/RemoveHospitalDepartments", err)
	}
	return &h, nil
}

func (m *Mongo) CreateDepartment(ctx context.Context, d *models.Department) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if d.Doctors == nil {
		d.Doctors = models.StringList{}
	}
	if d.Patients == nil {
		d.Patients = models.StringList{}
	}
	ts := now()
	d.CreatedAt, d.UpdatedAt = ts, ts

	_, err := m.departments.InsertOne(ctx, d)
	return translate("storage/mongo/CreateDepartment", err)
}

func (m *Mongo) DepartmentByID(ctx context.Context, id string) (*models.Department, error) {
	var d models.Department
	if err := findOne(ctx, m.departments, byID(id), &d); err != nil {
		return nil, translate("storage/mongo/DepartmentByID", err)
	}
	return &d, nil
}

func (m *Mongo) DepartmentsByHospital(ctx context.Context, hospitalID string) ([]models.Department, error) {
	out, err := findAll[models.Department](ctx, m.departments, bson.D{{Key: "hospital", Value: hospitalID}})
	if err != nil {
		return nil, translate("storage/mongo/DepartmentsByHospital", err)
	}
	return out, nil
}

func (m *Mongo) UpdateDepartment(ctx context.Context, id string, upd models.DepartmentUpdate) (*models.Department, error) {
	var fields bson.D
	if upd.Name != nil {
		fields = append(fields, bson.E{Key: "name", Value: *upd.Name})
	}
	if upd.Description != nil {
		fields = append(fields, bson.E{Key: "description", Value: *upd.Description})
	}
	if upd.HospitalID != nil {
		fields = append(fields, bson.E{Key: "hospital", Value: *upd.HospitalID})
	}
	if upd.HeadID != nil {
		fields = append(fields, bson.E{Key: "head", Value: *upd.HeadID})
	}

	var d models.Department
	if err := updateByID(ctx, m.departments, byID(id), setFields(fields), &d); err != nil {
		return nil, translate("storage/mongo/UpdateDepartment", err)
	}
	return &d, nil
}

func (m *Mongo) AddDepartmentDoctors(ctx context.Context, id string, doctorIDs []string) (*models.Department, error) {
	var d models.Department
	if err := updateByID(ctx, m.departments, byID(id), addToSet("doctors", doctorIDs), &d); err != nil {
		return nil, translate("storage/mongo/AddDepartmentDoctors", err)
	}
	return &d, nil
}

func (m *Mongo) AddDepartmentPatients(ctx context.Context, id string, patientIDs []string) (*models.Department, error) {
	var d models.Department
	if err := updateByID(ctx, m.departments, byID(id), addToSet("patients", patientIDs), &d); err != nil {
		return nil, translate("storage/mongo/AddDepartmentPatients", err)
	}
	return &d, nil
}
