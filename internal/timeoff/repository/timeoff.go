package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	timeofferrors "trimly/internal/timeoff/errors"
	"trimly/pkg/config"
	"trimly/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Time_off_blocks"
)

type TimeOffRepository interface {
	Create(ctx context.Context, block *model.TimeOffBlock) error
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.TimeOffBlock, error)
	Count(ctx context.Context) (int64, error)
	FindInRange(ctx context.Context, from, to time.Time) ([]*model.TimeOffBlock, error)
	Delete(ctx context.Context, id string) error
}

type mongoTimeOffRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoTimeOffRepository(cfg *config.Config) TimeOffRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoTimeOffRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoTimeOffRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			return context.WithTimeout(ctx, remaining)
		}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoTimeOffRepository) Create(ctx context.Context, block *model.TimeOffBlock) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	block.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, block)
	if err != nil {
		return fmt.Errorf("failed to create time-off block: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		block.ID = oid.Hex()
	}
	return nil
}

func (r *mongoTimeOffRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.TimeOffBlock, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "start_time", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list time-off blocks: %w", err)
	}
	defer cursor.Close(ctx)

	var blocks []*model.TimeOffBlock
	if err := cursor.All(ctx, &blocks); err != nil {
		return nil, fmt.Errorf("failed to decode time-off blocks: %w", err)
	}
	return blocks, nil
}

func (r *mongoTimeOffRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count time-off blocks: %w", err)
	}
	return count, nil
}

// FindInRange returns blocks intersecting the half-open range [from, to).
func (r *mongoTimeOffRepository) FindInRange(ctx context.Context, from, to time.Time) ([]*model.TimeOffBlock, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"start_time": bson.M{"$lt": to},
		"end_time":   bson.M{"$gt": from},
	}
	opts := options.Find().SetSort(bson.D{{Key: "start_time", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find time-off blocks in range: %w", err)
	}
	defer cursor.Close(ctx)

	var blocks []*model.TimeOffBlock
	if err := cursor.All(ctx, &blocks); err != nil {
		return nil, fmt.Errorf("failed to decode time-off blocks: %w", err)
	}
	return blocks, nil
}

func (r *mongoTimeOffRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", timeofferrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return timeofferrors.ErrNotFound
		}
		return fmt.Errorf("failed to delete time-off block: %w", err)
	}
	if result.DeletedCount == 0 {
		return timeofferrors.ErrNotFound
	}
	return nil
}
