package process

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

type ProcessRepository interface {
	// List returns one page ordered by id and the token of the next page,
	// empty when there are no more.
	List(ctx context.Context, pageToken string, limit int64) ([]Process, string, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*Process, error)
	Create(ctx context.Context, p *Process) (primitive.ObjectID, error)
	Update(ctx context.Context, p *Process) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	EnsureIndexes(ctx context.Context) error
}

type ProcessRepositoryImpl struct {
	collection *mongo.Collection
}

func NewProcessRepository(db *database.MongodbDB) ProcessRepository {
	return &ProcessRepositoryImpl{
		collection: db.DB.Collection("processes"),
	}
}

func (r *ProcessRepositoryImpl) List(ctx context.Context, pageToken string, limit int64) ([]Process, string, error) {
	filter := bson.M{}
	if pageToken != "" {
		after, err := primitive.ObjectIDFromHex(pageToken)
		if err != nil {
			return nil, "", errs.Invalid("page token %q", pageToken)
		}
		filter["_id"] = bson.M{"$gt": after}
	}

	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}).SetLimit(limit)
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, "", err
	}
	defer cursor.Close(ctx)

	var processes []Process
	if err = cursor.All(ctx, &processes); err != nil {
		return nil, "", err
	}
	if processes == nil {
		processes = []Process{}
	}

	next := ""
	if limit > 0 && int64(len(processes)) == limit {
		next = processes[len(processes)-1].ID.Hex()
	}
	return processes, next, nil
}

func (r *ProcessRepositoryImpl) GetByID(ctx context.Context, id primitive.ObjectID) (*Process, error) {
	var p Process
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *ProcessRepositoryImpl) Create(ctx context.Context, p *Process) (primitive.ObjectID, error) {
	now := time.Now()
	p.ID = primitive.NewObjectID()
	p.CreatedAt = now
	p.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, p); err != nil {
		p.ID = primitive.NilObjectID
		return primitive.NilObjectID, err
	}
	return p.ID, nil
}

// Update replaces the whole document so embedded collections round-trip verbatim.
func (r *ProcessRepositoryImpl) Update(ctx context.Context, p *Process) error {
	p.UpdatedAt = time.Now()
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": p.ID}, p)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (r *ProcessRepositoryImpl) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (r *ProcessRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "assignee_id", Value: 1}}},
		{Keys: bson.D{{Key: "reminders.when", Value: 1}}},
	})
	return err
}
