package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/loomline/catalog_end/service"
)

// CounterSequencer issues reference numbers from a per-period counter
// document bumped with an atomic $inc upsert, so two concurrent creations in
// the same month can never draw the same sequence.
type CounterSequencer struct {
	now service.Clock
}

// NewCounterSequencer creates a CounterSequencer.
func NewCounterSequencer(clock service.Clock) *CounterSequencer {
	return &CounterSequencer{now: clock}
}

// Next reserves and formats the next reference number for the prefix.
func (s *CounterSequencer) Next(ctx context.Context, prefix string) (string, error) {
	period := service.SequencePeriod(s.now())
	key := prefix + period

	var counter struct {
		Seq int64 `bson:"seq"`
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	err := Collection(CountersCollection).FindOneAndUpdate(
		ctx,
		bson.M{"_id": key},
		bson.M{"$inc": bson.M{"seq": 1}},
		opts,
	).Decode(&counter)
	if err != nil {
		return "", fmt.Errorf("bump counter %s: %w", key, err)
	}

	return service.FormatReference(prefix, period, counter.Seq), nil
}
