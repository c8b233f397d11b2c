package store

import (
	"context"
	"time"

	"github.com/amishk599/hunter/internal/model"
)

// NopStore is used when history is disabled. It records nothing and always
// reports an empty history.
type NopStore struct{}

func NewNopStore() *NopStore { return &NopStore{} }

func (s *NopStore) RecordRun(context.Context, model.SearchRequest, model.AggregationResult) error {
	return nil
}
func (s *NopStore) RecentRuns(context.Context, int) ([]model.RunRecord, error) { return nil, nil }
func (s *NopStore) Cleanup(olderThan time.Duration) error                      { return nil }
func (s *NopStore) Close() error                                               { return nil }
