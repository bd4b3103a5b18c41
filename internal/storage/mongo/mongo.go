package mongo

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/Skotchmaster/hospital_management/internal/storage"
)

const (
	usersCollection       = "users"
	doctorsCollection     = "doctors"
	patientsCollection    = "patients"
	hospitalsCollection   = "hospitals"
	departmentsCollection = "departments"
	recordsCollection     = "medical_records"
	defaultDBName         = "hospital"
)

// Mongo implements storage.Store on top of a MongoDB database.
type Mongo struct {
	client      *mongodriver.Client
	db          *mongodriver.Database
	users       *mongodriver.Collection
	doctors     *mongodriver.Collection
	patients    *mongodriver.Collection
	hospitals   *mongodriver.Collection
	departments *mongodriver.Collection
	records     *mongodriver.Collection
}

var _ storage.Store = (*Mongo)(nil)

// New connects, pings the primary and makes sure the indexes exist.
// The database name is taken from the URI path.
func New(ctx context.Context, uri string) (*Mongo, error) {
	if uri == "" {
		return nil, fmt.Errorf("mongo: empty DATABASE_URL")
	}

	cli, err := mongodriver.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := cli.Ping(ctx, readpref.Primary()); err != nil {
		_ = cli.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := cli.Database(databaseFromURI(uri))
	m := &Mongo{
		client:      cli,
		db:          db,
		users:       db.Collection(usersCollection),
		doctors:     db.Collection(doctorsCollection),
		patients:    db.Collection(patientsCollection),
		hospitals:   db.Collection(hospitalsCollection),
		departments: db.Collection(departmentsCollection),
		records:     db.Collection(recordsCollection),
	}

	if err := m.ensureIndexes(ctx); err != nil {
		_ = m.Close()
		return nil, err
	}
	return m, nil
}

func (m *Mongo) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, readpref.Primary())
}

func (m *Mongo) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.client.Disconnect(ctx)
}

func (m *Mongo) ensureIndexes(ctx context.Context) error {
	unique := func(name string, keys bson.D) mongodriver.IndexModel {
		return mongodriver.IndexModel{Keys: keys, Options: options.Index().SetName(name).SetUnique(true)}
	}
	plain := func(name string, keys bson.D) mongodriver.IndexModel {
		return mongodriver.IndexModel{Keys: keys, Options: options.Index().SetName(name)}
	}

	indexes := map[*mongodriver.Collection][]mongodriver.IndexModel{
		m.users:       {unique("email_unique", bson.D{{Key: "email", Value: 1}})},
		m.doctors:     {unique("user_id_unique", bson.D{{Key: "user_id", Value: 1}})},
		m.patients:    {unique("user_id_unique", bson.D{{Key: "user_id", Value: 1}})},
		m.departments: {unique("name_unique", bson.D{{Key: "name", Value: 1}}), plain("hospital", bson.D{{Key: "hospital", Value: 1}})},
		m.records: {
			plain("patient_created", bson.D{{Key: "patient", Value: 1}, {Key: "created_at", Value: 1}}),
			plain("doctor_created", bson.D{{Key: "doctor", Value: 1}, {Key: "created_at", Value: 1}}),
		},
	}

	for coll, models := range indexes {
		if _, err := coll.Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("mongo ensure indexes on %s: %w", coll.Name(), err)
		}
	}
	return nil
}

// databaseFromURI returns the database named in the URI path, or the default.
func databaseFromURI(uri string) string {
	u, err := url.Parse(uri)
	if err == nil {
		if name := strings.Trim(u.Path, "/"); name != "" {
			return name
		}
	}
	return defaultDBName
}

// MongoDB stores milliseconds.
func now() time.Time { return time.Now().UTC().Truncate(time.Millisecond) }

func byID(id string) bson.D { return bson.D{{Key: "_id", Value: id}} }

func translate(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongodriver.ErrNoDocuments):
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	case mongodriver.IsDuplicateKeyError(err):
		return fmt.Errorf("%s: %w", op, storage.ErrAlreadyExists)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

func findOne(ctx context.Context, coll *mongodriver.Collection, filter bson.D, out any) error {
	return coll.FindOne(ctx, filter).Decode(out)
}

func findAll[T any](ctx context.Context, coll *mongodriver.Collection, filter bson.D) ([]T, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	out := []T{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// updateByID applies update to the document and decodes the result into out.
// An empty update only reads the document.
func updateByID(ctx context.Context, coll *mongodriver.Collection, filter bson.D, update bson.D, out any) error {
	if len(update) == 0 {
		return findOne(ctx, coll, filter, out)
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	return coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(out)
}

// setFields wraps fields into a $set that also stamps updated_at.
// It returns nil when there is nothing to change.
func setFields(fields bson.D) bson.D {
	if len(fields) == 0 {
		return nil
	}
	fields = append(fields, bson.E{Key: "updated_at", Value: now()})
	return bson.D{{Key: "$set", Value: fields}}
}

func addToSet(field string, ids []string) bson.D {
	return bson.D{
		{Key: "$addToSet", Value: bson.D{{Key: field, Value: bson.D{{Key: "$each", Value: ids}}}}},
		{Key: "$set", Value: bson.D{{Key: "updated_at", Value: now()}}},
	}
}

func pull(field string, ids []string) bson.D {
	return bson.D{
		{Key: "$pull", Value: bson.D{{Key: field, Value: bson.D{{Key: "$in", Value: ids}}}}},
		{Key: "$set", Value: bson.D{{Key: "updated_at", Value: now()}}},
	}
}
