package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/sunlibapp/sunlib-server/internal/domain"
)

// Activity storage key prefixes.
// Uses inverted timestamps for descending order (newest first) during forward iteration.
const (
	activityPrefix        = "activity:"
	activityIdxTimePrefix = "activity:idx:time:"
	activityIdxUserPrefix = "activity:idx:user:"
	activityIdxBookPrefix = "activity:idx:book:"
)

// invertedTimestamp returns a string that sorts in descending order.
// Uses MaxInt64 - UnixNano to ensure newest timestamps come first during forward iteration.
func invertedTimestamp(t time.Time) string {
	inverted := math.MaxInt64 - t.UnixNano()
	return fmt.Sprintf("%019d", inverted)
}

// CreateActivity stores a new activity with all indexes in a single transaction.
// Activities are write-once; nothing ever updates or deletes them.
func (s *Store) CreateActivity(ctx context.Context, activity *domain.Activity) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(activity)
	if err != nil {
		return fmt.Errorf("marshaling activity: %w", err)
	}

	invertedTS := invertedTimestamp(activity.CreatedAt)

	return s.db.Update(func(txn *badger.Txn) error {
		// Primary key: activity:{id} → Activity JSON
		primaryKey := []byte(activityPrefix + activity.ID)
		if err := txn.Set(primaryKey, data); err != nil {
			return fmt.Errorf("setting primary key: %w", err)
		}

		// Time index: activity:idx:time:{inverted_timestamp}:{id} → "" (key-only)
		// This allows scanning newest-first without reverse iteration
		timeKey := []byte(activityIdxTimePrefix + invertedTS + ":" + activity.ID)
		if err := txn.Set(timeKey, []byte{}); err != nil {
			return fmt.Errorf("setting time index: %w", err)
		}

		// User index: activity:idx:user:{userId}:{inverted_timestamp}:{id} → ""
		userKey := []byte(activityIdxUserPrefix + activity.UserID + ":" + invertedTS + ":" + activity.ID)
		if err := txn.Set(userKey, []byte{}); err != nil {
			return fmt.Errorf("setting user index: %w", err)
		}

		// Book index (only for activities targeting a book)
		if activity.Target.Kind == domain.TargetBook && activity.Target.ID != "" {
			bookKey := []byte(activityIdxBookPrefix + activity.Target.ID + ":" + invertedTS + ":" + activity.ID)
			if err := txn.Set(bookKey, []byte{}); err != nil {
				return fmt.Errorf("setting book index: %w", err)
			}
		}

		return nil
	})
}

// GetActivity retrieves a single activity by ID.
func (s *Store) GetActivity(ctx context.Context, id string) (*domain.Activity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var activity domain.Activity
	err := s.get([]byte(activityPrefix+id), &activity)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, fmt.Errorf("activity %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("getting activity %s: %w", id, err)
	}

	return &activity, nil
}

// GetActivitiesFeed retrieves the global activity feed sorted by CreatedAt descending.
// Returns up to 'limit' activities.
func (s *Store) GetActivitiesFeed(ctx context.Context, limit int) ([]*domain.Activity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.scanIndex([]byte(activityIdxTimePrefix), limit)
}

// GetUserActivities retrieves activities recorded by a specific user sorted
// by CreatedAt descending.
func (s *Store) GetUserActivities(ctx context.Context, userID string, limit int) ([]*domain.Activity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.scanIndex([]byte(activityIdxUserPrefix+userID+":"), limit)
}

// GetBookActivities retrieves activities targeting a specific book sorted
// by CreatedAt descending.
func (s *Store) GetBookActivities(ctx context.Context, bookID string, limit int) ([]*domain.Activity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.scanIndex([]byte(activityIdxBookPrefix+bookID+":"), limit)
}

// scanIndex walks a key-only index prefix and loads up to limit activities.
// Index keys end with ":{inverted_ts}:{id}", so forward iteration yields
// newest entries first.
func (s *Store) scanIndex(indexPrefix []byte, limit int) ([]*domain.Activity, error) {
	activities := []*domain.Activity{}

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false // Key-only index, no values to fetch
		opts.Prefix = indexPrefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(indexPrefix); it.ValidForPrefix(indexPrefix); it.Next() {
			if len(activities) >= limit {
				break
			}

			activityID := extractActivityID(string(it.Item().Key()), len(indexPrefix))
			if activityID == "" {
				continue
			}

			activity, err := s.getActivityInTxn(txn, activityID)
			if err != nil {
				continue
			}
			activities = append(activities, activity)
		}

		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("scanning activity index: %w", err)
	}

	return activities, nil
}

// getActivityInTxn retrieves an activity within an existing transaction.
func (s *Store) getActivityInTxn(txn *badger.Txn, id string) (*domain.Activity, error) {
	item, err := txn.Get([]byte(activityPrefix + id))
	if err != nil {
		return nil, err
	}

	var activity domain.Activity
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &activity)
	})
	if err != nil {
		return nil, err
	}

	return &activity, nil
}

// extractActivityID extracts the activity ID from an index key.
// Keys have the shape {prefix}{inverted_ts}:{id} where the inverted
// timestamp is 19 digits followed by a colon.
func extractActivityID(key string, prefixLen int) string {
	if len(key) <= prefixLen+20 { // 19 digits + colon
		return ""
	}
	return key[prefixLen+20:]
}
