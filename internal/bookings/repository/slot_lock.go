package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	bookingerrors "trimly/internal/bookings/errors"
	"trimly/pkg/config"
)

// SlotLockRepository serializes booking creation for a given start slot.
// A lock is a document keyed by the slot; the unique _id index makes the
// insert race-free. Locks carry expires_at so a TTL index reaps any lock
// left behind by a crashed request.
type SlotLockRepository interface {
	Acquire(ctx context.Context, slotKey string, ttl time.Duration) error
	Release(ctx context.Context, slotKey string) error
}

type slotLockDoc struct {
	ID        string    `bson:"_id"`
	ExpiresAt time.Time `bson:"expires_at"`
	CreatedAt time.Time `bson:"created_at"`
}

type mongoSlotLockRepository struct {
	collection *mongo.Collection
}

func NewSlotLockRepository(cfg *config.Config) SlotLockRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoSlotLockRepository{
		collection: db.Collection("slot_locks"),
	}
}

// Acquire returns ErrSlotLocked when another request already holds the slot.
func (r *mongoSlotLockRepository) Acquire(ctx context.Context, slotKey string, ttl time.Duration) error {
	now := time.Now()
	doc := slotLockDoc{
		ID:        slotKey,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return bookingerrors.ErrSlotLocked
		}
		return err
	}
	return nil
}

func (r *mongoSlotLockRepository) Release(ctx context.Context, slotKey string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": slotKey})
	return err
}
