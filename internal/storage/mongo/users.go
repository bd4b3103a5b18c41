package mongo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/Skotchmaster/hospital_management/internal/models"
	"github.com/Skotchmaster/hospital_management/internal/storage"
)

// CreateAccount inserts the identity and then the profile. Standalone servers
// have no multi-document transactions, so a failed profile insert deletes the
// identity again.
func (m *Mongo) CreateAccount(ctx context.Context, acc *models.Account) error {
	const op = "storage/mongo/CreateAccount"

	if acc == nil || acc.User == nil {
		return fmt.Errorf("%s: missing user", op)
	}
	u := acc.User
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	ts := now()
	u.CreatedAt, u.UpdatedAt = ts, ts

	if _, err := m.users.InsertOne(ctx, u); err != nil {
		return translate(op, err)
	}

	var err error
	switch {
	case acc.Doctor != nil:
		d := acc.Doctor
		if d.ID == "" {
			d.ID = uuid.NewString()
		}
		d.UserID = u.ID
		d.CreatedAt, d.UpdatedAt = ts, ts
		if d.WorksInHospitals == nil {
			d.WorksInHospitals = models.StringList{}
		}
		_, err = m.doctors.InsertOne(ctx, d)
	case acc.Patient != nil:
		p := acc.Patient
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		p.UserID = u.ID
		p.CreatedAt, p.UpdatedAt = ts, ts
		if p.MedicalHistory == nil {
			p.MedicalHistory = []models.MedicalHistoryEntry{}
		}
		_, err = m.patients.InsertOne(ctx, p)
	}
	if err != nil {
		if _, delErr := m.users.DeleteOne(context.WithoutCancel(ctx), byID(u.ID)); delErr != nil {
			return fmt.Errorf("%s: create profile: %w (compensating delete: %v)", op, err, delErr)
		}
		return translate(op+": create profile", err)
	}
	return nil
}

func (m *Mongo) UserByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := findOne(ctx, m.users, byID(id), &u); err != nil {
		return nil, translate("storage/mongo/UserByID", err)
	}
	return &u, nil
}

func (m *Mongo) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := findOne(ctx, m.users, bson.D{{Key: "email", Value: email}}, &u); err != nil {
		return nil, translate("storage/mongo/UserByEmail", err)
	}
	return &u, nil
}

func (m *Mongo) UpdateUser(ctx context.Context, id string, upd models.UserUpdate) (*models.User, error) {
	var fields bson.D
	if upd.Name != nil {
		fields = append(fields, bson.E{Key: "name", Value: *upd.Name})
	}
	if upd.PasswordHash != nil {
		fields = append(fields, bson.E{Key: "password_hash", Value: *upd.PasswordHash})
	}
	if upd.Picture != nil {
		fields = append(fields, bson.E{Key: "picture", Value: *upd.Picture})
	}

	var u models.User
	if err := updateByID(ctx, m.users, byID(id), setFields(fields), &u); err != nil {
		return nil, translate("storage/mongo/UpdateUser", err)
	}
	return &u, nil
}

func (m *Mongo) SetRefreshToken(ctx context.Context, id string, digest *string) error {
	const op = "storage/mongo/SetRefreshToken"

	update := bson.D{
		{Key: "$unset", Value: bson.D{{Key: "refresh_token_hash", Value: ""}}},
		{Key: "$set", Value: bson.D{{Key: "updated_at", Value: now()}}},
	}
	if digest != nil {
		update = setFields(bson.D{{Key: "refresh_token_hash", Value: *digest}})
	}

	res, err := m.users.UpdateOne(ctx, byID(id), update)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	return nil
}

func (m *Mongo) RotateRefreshToken(ctx context.Context, id, oldDigest, newDigest string) error {
	const op = "storage/mongo/RotateRefreshToken"

	filter := bson.D{{Key: "_id", Value: id}, {Key: "refresh_token_hash", Value: oldDigest}}
	res, err := m.users.UpdateOne(ctx, filter, setFields(bson.D{{Key: "refresh_token_hash", Value: newDigest}}))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrTokenMismatch)
	}
	return nil
}

func (m *Mongo) DeleteAccount(ctx context.Context, id string) error {
	const op = "storage/mongo/DeleteAccount"

	byUser := bson.D{{Key: "user_id", Value: id}}
	if _, err := m.doctors.DeleteOne(ctx, byUser); err != nil {
		return fmt.Errorf("%s: doctor profile: %w", op, err)
	}
	if _, err := m.patients.DeleteOne(ctx, byUser); err != nil {
		return fmt.Errorf("%s: patient profile: %w", op, err)
	}

	res, err := m.users.DeleteOne(ctx, byID(id))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	return nil
}
