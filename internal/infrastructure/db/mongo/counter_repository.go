package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/oxfordpsn/school-portal/internal/core/domain"
)

const countersCollection = "counters"

// CounterRepository implements ports.CounterRepository on MongoDB. The
// increment happens inside a single FindOneAndUpdate, so the read and the
// write are one indivisible operation on the counter document: no two
// callers can ever observe the same post-increment value, and no update is
// ever lost. Application-level read-then-write is deliberately absent.
type CounterRepository struct {
	coll *mongo.Collection
}

func NewCounterRepository(db *mongo.Database) *CounterRepository {
	return &CounterRepository{coll: db.Collection(countersCollection)}
}

type counterDoc struct {
	Name  string `bson:"name"`
	Value int64  `bson:"value"`
}

// Next atomically increments the named counter and returns the
// post-increment value. Returns domain.ErrCounterNotFound when the counter
// was never provisioned. No internal retries.
func (r *CounterRepository) Next(ctx context.Context, name string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res := r.coll.FindOneAndUpdate(ctx,
		bson.M{"name": name},
		bson.M{"$inc": bson.M{"value": 1}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var doc counterDoc
	if err := res.Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, domain.ErrCounterNotFound
		}
		return 0, fmt.Errorf("allocate counter %q: %w", name, err)
	}
	return doc.Value, nil
}

// Ensure provisions the counter with the given start value when it does not
// exist. An existing counter is never touched: the value only moves through
// Next.
func (r *CounterRepository) Ensure(ctx context.Context, name string, start int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.coll.UpdateOne(ctx,
		bson.M{"name": name},
		bson.M{"$setOnInsert": bson.M{"name": name, "value": start}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("ensure counter %q: %w", name, err)
	}
	return nil
}
