package persistence

import (
	"context"
	"errors"
	"fmt"

	"go.etcd.io/bbolt"

	"group_project_service/internal/domain"
	"group_project_service/internal/domain/entity"
	"group_project_service/pkg/errcodes"
)

var activitiesBucket = []byte("activities") //nolint:gochecknoglobals

var errKeyNotFound = errors.New("key not found")

// BoltActivityRepository keeps activities as JSON documents in a single bucket.
type BoltActivityRepository struct {
	db *bbolt.DB
}

func NewBoltActivityRepository(db *bbolt.DB) *BoltActivityRepository {
	return &BoltActivityRepository{db: db}
}

func (r *BoltActivityRepository) Get(_ context.Context, id string) (entity.Activity, error) {
	activity, err := get[entity.Activity](r.db, activitiesBucket, id)
	if err != nil {
		if errors.Is(err, errKeyNotFound) {
			return entity.Activity{}, domain.NewError(errcodes.NotFound, fmt.Sprintf("activity '%s' not found", id))
		}
		return entity.Activity{}, domain.WrapError(err, errcodes.InternalServerError, "repository: failed to get activity")
	}
	return activity, nil
}

// List returns the requested activities in key order. Unknown ids are skipped,
// an empty id list returns everything.
func (r *BoltActivityRepository) List(_ context.Context, ids []string) ([]entity.Activity, error) {
	all, err := list[entity.Activity](r.db, activitiesBucket)
	if err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "repository: failed to list activities")
	}
	if len(ids) == 0 {
		return all, nil
	}

	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}
	activities := make([]entity.Activity, 0, len(ids))
	for _, activity := range all {
		if _, ok := wanted[activity.ID]; ok {
			activities = append(activities, activity)
		}
	}
	return activities, nil
}

func (r *BoltActivityRepository) Save(_ context.Context, activity entity.Activity) error {
	if err := save(r.db, activitiesBucket, activity.ID, activity); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "repository: failed to save activity")
	}
	return nil
}

func save[T any](db *bbolt.DB, bucket []byte, key string, value T) error {
	return db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucket)
		if err != nil {
			return err
		}
		data, err := json.Marshal(value)
		if err != nil {
			return err
		}
		return b.Put([]byte(key), data)
	})
}

func get[T any](db *bbolt.DB, bucket []byte, key string) (T, error) {
	var out T
	err := db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return fmt.Errorf("bucket %s: %w", bucket, errKeyNotFound)
		}
		v := b.Get([]byte(key))
		if v == nil {
			return fmt.Errorf("key %s: %w", key, errKeyNotFound)
		}
		return json.Unmarshal(v, &out)
	})
	return out, err
}

func list[T any](db *bbolt.DB, bucket []byte) ([]T, error) {
	var results []T
	err := db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		return b.ForEach(func(_, v []byte) error {
			var item T
			if err := json.Unmarshal(v, &item); err != nil {
				return err
			}
			results = append(results, item)
			return nil
		})
	})
	return results, err
}
