package repository

import (
	"context"
	"fmt"
	"time"

	"trimly/pkg/config"
	mongotx "trimly/pkg/db/mongo"
	"trimly/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Availability_rules"
)

type RuleRepository interface {
	FindAll(ctx context.Context) ([]*model.AvailabilityRule, error)
	FindByDayOfWeek(ctx context.Context, dayOfWeek int) ([]*model.AvailabilityRule, error)
	ReplaceAll(ctx context.Context, rules []*model.AvailabilityRule) error
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

type mongoRuleRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

func NewMongoRuleRepository(cfg *config.Config) RuleRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoRuleRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

// withTimeout wraps the context with a timeout unless already inside a
// transaction, where wrapping the SessionContext would break tx semantics.
func (r *mongoRuleRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
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

func (r *mongoRuleRepository) FindAll(ctx context.Context) ([]*model.AvailabilityRule, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{
		{Key: "day_of_week", Value: 1},
		{Key: "start_time", Value: 1},
	})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list availability rules: %w", err)
	}
	defer cursor.Close(ctx)

	var rules []*model.AvailabilityRule
	if err := cursor.All(ctx, &rules); err != nil {
		return nil, fmt.Errorf("failed to decode availability rules: %w", err)
	}
	return rules, nil
}

func (r *mongoRuleRepository) FindByDayOfWeek(ctx context.Context, dayOfWeek int) ([]*model.AvailabilityRule, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "start_time", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{"day_of_week": dayOfWeek}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find availability rules for day %d: %w", dayOfWeek, err)
	}
	defer cursor.Close(ctx)

	var rules []*model.AvailabilityRule
	if err := cursor.All(ctx, &rules); err != nil {
		return nil, fmt.Errorf("failed to decode availability rules: %w", err)
	}
	return rules, nil
}

// ReplaceAll swaps the weekly schedule atomically: every existing rule is
// removed and the new set inserted in one transaction.
func (r *mongoRuleRepository) ReplaceAll(ctx context.Context, rules []*model.AvailabilityRule) error {
	return r.txManager.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if _, err := r.collection.DeleteMany(sessCtx, bson.M{}); err != nil {
			return fmt.Errorf("failed to clear availability rules: %w", err)
		}

		if len(rules) == 0 {
			return nil
		}

		now := time.Now().UTC().Truncate(time.Millisecond)
		docs := make([]any, 0, len(rules))
		for _, rule := range rules {
			rule.CreatedAt = now
			docs = append(docs, rule)
		}

		result, err := r.collection.InsertMany(sessCtx, docs)
		if err != nil {
			return fmt.Errorf("failed to insert availability rules: %w", err)
		}
		for i, id := range result.InsertedIDs {
			if oid, ok := id.(primitive.ObjectID); ok {
				rules[i].ID = oid.Hex()
			}
		}
		return nil
	})
}

func (r *mongoRuleRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
