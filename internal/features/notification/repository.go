package notification

import (
	"context"
	"time"

	"go-transfer/internal/common/errs"
	"go-transfer/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type NotificationRepository interface {
	// Upsert stores n keyed by its reminder id, resetting the read flag.
	Upsert(ctx context.Context, n *Notification) error
	List(ctx context.Context, page, limit int64) ([]Notification, int64, error)
	GetUnreadCount(ctx context.Context) (int64, error)
	MarkAsRead(ctx context.Context, id primitive.ObjectID) error
	MarkAllAsRead(ctx context.Context) error
	EnsureIndexes(ctx context.Context) error
}

type NotificationRepositoryImpl struct {
	collection *mongo.Collection
}

func NewNotificationRepository(db *database.MongodbDB) NotificationRepository {
	return &NotificationRepositoryImpl{
		collection: db.DB.Collection("notifications"),
	}
}

func (r *NotificationRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "reminder_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *NotificationRepositoryImpl) Upsert(ctx context.Context, n *Notification) error {
	now := time.Now()
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	update := bson.M{
		"$set": bson.M{
			"process_id": n.ProcessID,
			"title":      n.Title,
			"message":    n.Message,
			"subtitle":   n.Subtitle,
			"type":       n.Type,
			"trigger_at": n.TriggerAt,
			"is_read":    false,
		},
		"$unset":       bson.M{"read_at": ""},
		"$setOnInsert": bson.M{"created_at": now},
	}

	var stored Notification
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"reminder_id": n.ReminderID}, update, opts).Decode(&stored)
	if err != nil {
		return err
	}
	*n = stored
	return nil
}

func (r *NotificationRepositoryImpl) List(ctx context.Context, page, limit int64) ([]Notification, int64, error) {
	skip := (page - 1) * limit
	opts := options.Find().
		SetSort(bson.D{{Key: "trigger_at", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)

	total, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, err
	}

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	notifications := []Notification{}
	if err = cursor.All(ctx, &notifications); err != nil {
		return nil, 0, err
	}
	return notifications, total, nil
}

func (r *NotificationRepositoryImpl) GetUnreadCount(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"is_read": false})
}

func (r *NotificationRepositoryImpl) MarkAsRead(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"is_read": true, "read_at": time.Now()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (r *NotificationRepositoryImpl) MarkAllAsRead(ctx context.Context) error {
	_, err := r.collection.UpdateMany(ctx,
		bson.M{"is_read": false},
		bson.M{"$set": bson.M{"is_read": true, "read_at": time.Now()}},
	)
	return err
}
