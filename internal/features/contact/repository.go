package contact

import (
	"context"
	"errors"
	"time"

	"go-transfer/internal/common/errs"
	"go-transfer/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Directory resolves the reference data processes point at
type Directory interface {
	FindPerson(ctx context.Context, id string) (*Person, error)
	FindOrganization(ctx context.Context, id string) (*Organization, error)
}

type ContactRepository interface {
	Directory
	CreatePerson(ctx context.Context, p *Person) error
	CreateOrganization(ctx context.Context, o *Organization) error
	ListPersons(ctx context.Context, limit int64) ([]Person, error)
	ListOrganizations(ctx context.Context, limit int64) ([]Organization, error)
}

type ContactRepositoryImpl struct {
	persons       *mongo.Collection
	organizations *mongo.Collection
}

func NewContactRepository(db *database.MongodbDB) ContactRepository {
	return &ContactRepositoryImpl{
		persons:       db.DB.Collection("persons"),
		organizations: db.DB.Collection("organizations"),
	}
}

func (r *ContactRepositoryImpl) FindPerson(ctx context.Context, id string) (*Person, error) {
	var p Person
	if err := findByHex(ctx, r.persons, id, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ContactRepositoryImpl) FindOrganization(ctx context.Context, id string) (*Organization, error) {
	var o Organization
	if err := findByHex(ctx, r.organizations, id, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *ContactRepositoryImpl) CreatePerson(ctx context.Context, p *Person) error {
	p.ID = primitive.NewObjectID()
	p.CreatedAt = time.Now()
	_, err := r.persons.InsertOne(ctx, p)
	return err
}

func (r *ContactRepositoryImpl) CreateOrganization(ctx context.Context, o *Organization) error {
	o.ID = primitive.NewObjectID()
	o.CreatedAt = time.Now()
	_, err := r.organizations.InsertOne(ctx, o)
	return err
}

func (r *ContactRepositoryImpl) ListPersons(ctx context.Context, limit int64) ([]Person, error) {
	var out []Person
	if err := list(ctx, r.persons, bson.D{{Key: "last_name", Value: 1}}, limit, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []Person{}
	}
	return out, nil
}

func (r *ContactRepositoryImpl) ListOrganizations(ctx context.Context, limit int64) ([]Organization, error) {
	var out []Organization
	if err := list(ctx, r.organizations, bson.D{{Key: "name", Value: 1}}, limit, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []Organization{}
	}
	return out, nil
}

func findByHex(ctx context.Context, col *mongo.Collection, id string, out any) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errs.ErrNotFound
	}
	err = col.FindOne(ctx, bson.M{"_id": oid}).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return errs.ErrNotFound
	}
	return err
}

func list(ctx context.Context, col *mongo.Collection, sort bson.D, limit int64, out any) error {
	cursor, err := col.Find(ctx, bson.M{}, options.Find().SetSort(sort).SetLimit(limit))
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)
	return cursor.All(ctx, out)
}
