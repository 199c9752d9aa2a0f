package calendar

import (
	"context"
	"time"

	"go-transfer/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Event struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title              string             `bson:"title" json:"title"`
	Start              time.Time          `bson:"start" json:"start"`
	End                time.Time          `bson:"end" json:"end"`
	Notes              string             `bson:"notes" json:"notes"`
	AlarmOffsetMinutes int                `bson:"alarm_offset_minutes" json:"alarm_offset_minutes"`
	CreatedAt          time.Time          `bson:"created_at" json:"created_at"`
}

type EventRepository interface {
	Create(ctx context.Context, e *Event) error
	ListBetween(ctx context.Context, from, to time.Time) ([]Event, error)
}

type EventRepositoryImpl struct {
	collection *mongo.Collection
}

func NewEventRepository(db *database.MongodbDB) EventRepository {
	return &EventRepositoryImpl{
		collection: db.DB.Collection("calendar_events"),
	}
}

func (r *EventRepositoryImpl) Create(ctx context.Context, e *Event) error {
	e.CreatedAt = time.Now()
	res, err := r.collection.InsertOne(ctx, e)
	if err != nil {
		return err
	}
	e.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *EventRepositoryImpl) ListBetween(ctx context.Context, from, to time.Time) ([]Event, error) {
	filter := bson.M{"start": bson.M{"$gte": from, "$lt": to}}
	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "start", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	events := []Event{}
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}
