package attendance

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"

	"github.com/mahudhurio/backend/core"
)

type (
	Repository interface {
		// BatchUpsertRecords writes all records in one transaction,
		// overwriting any same-keyed record from an earlier run.
		BatchUpsertRecords(ctx context.Context, records []Record) error
		// FilterRecordsByClassDate matches records on classID and date (YYYY-MM-DD).
		FilterRecordsByClassDate(ctx context.Context, classID, date string) ([]Record, error)
		FilterRecordsBySession(ctx context.Context, sessionID string) ([]Record, error)
	}

	Service struct {
		repo     Repository
		cache    core.Cache
		cacheTTL time.Duration
	}
)

func NewService(repo Repository, cache core.Cache, cacheTTL time.Duration) *Service {
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &Service{repo: repo, cache: cache, cacheTTL: cacheTTL}
}

// CacheKey keys a class/date query result in the cache. Writers for the
// same class day must invalidate it.
func CacheKey(classID, date string) string {
	return "attendance:" + classID + ":" + date
}

// ForClass returns the class's records for the given day, defaulting to
// today (UTC). Results are served cache-first when a cache is wired.
func (svc *Service) ForClass(ctx context.Context, classID, date string) ([]Record, error) {
	if date == "" {
		date = core.Today()
	}

	key := CacheKey(classID, date)
	if data, ok := core.CacheGet(ctx, svc.cache, key); ok {
		var records []Record
		if err := json.Unmarshal(data, &records); err == nil {
			return records, nil
		}
		// corrupt entry; fall through to the database
		core.CacheDelete(ctx, svc.cache, key)
	}

	records, err := svc.repo.FilterRecordsByClassDate(ctx, classID, date)
	if err != nil {
		return nil, errors.Wrap(err, "filtering attendance records")
	}

	if data, err := json.Marshal(records); err == nil {
		core.CacheSet(ctx, svc.cache, key, data, svc.cacheTTL)
	}
	return records, nil
}

// ForSession returns the records persisted under the given session ID.
func (svc *Service) ForSession(ctx context.Context, sessionID string) ([]Record, error) {
	records, err := svc.repo.FilterRecordsBySession(ctx, sessionID)
	if err != nil {
		return nil, errors.Wrap(err, "filtering session records")
	}
	return records, nil
}

// Save persists records and drops any cached class-day queries they touch.
func (svc *Service) Save(ctx context.Context, records []Record) error {
	if len(records) == 0 {
		return nil
	}
	if err := svc.repo.BatchUpsertRecords(ctx, records); err != nil {
		return errors.Wrap(err, "upserting attendance records")
	}

	keys := make([]string, 0, 1)
	seen := make(map[string]struct{}, 1)
	for _, r := range records {
		key := CacheKey(r.ClassID, r.Date)
		if _, ok := seen[key]; !ok {
			seen[key] = struct{}{}
			keys = append(keys, key)
		}
	}
	core.CacheDelete(ctx, svc.cache, keys...)
	return nil
}
