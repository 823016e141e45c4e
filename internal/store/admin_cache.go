package store

import (
	"context"
	"encoding/json"
	"time"

	"lostaf-cli/internal/model"
)

// AdminCacheTTL bounds how long a cached admin snapshot is shown before it
// counts as stale. Remounts within the TTL render the cached snapshot
// immediately and still refetch in the background.
const AdminCacheTTL = 60 * time.Second

const (
	keyStatsCache     = "admin_stats"
	keyLocationsCache = "admin_locations"
)

func (s Store) SaveStatsCache(ctx context.Context, stats model.AdminStats) error {
	b, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return s.SaveSnapshot(ctx, keyStatsCache, string(b), time.Now())
}

// LoadStatsCache returns a cached stats snapshot no older than AdminCacheTTL.
func (s Store) LoadStatsCache(ctx context.Context) (*model.AdminStats, bool, error) {
	payload, at, ok, err := s.LoadSnapshot(ctx, keyStatsCache)
	if err != nil || !ok {
		return nil, false, err
	}
	if time.Since(at) > AdminCacheTTL {
		return nil, false, nil
	}
	var stats model.AdminStats
	if err := json.Unmarshal([]byte(payload), &stats); err != nil {
		return nil, false, err
	}
	return &stats, true, nil
}

func (s Store) SaveLocationsCache(ctx context.Context, locs []model.LocationCount) error {
	b, err := json.Marshal(locs)
	if err != nil {
		return err
	}
	return s.SaveSnapshot(ctx, keyLocationsCache, string(b), time.Now())
}

func (s Store) LoadLocationsCache(ctx context.Context) ([]model.LocationCount, bool, error) {
	payload, at, ok, err := s.LoadSnapshot(ctx, keyLocationsCache)
	if err != nil || !ok {
		return nil, false, err
	}
	if time.Since(at) > AdminCacheTTL {
		return nil, false, nil
	}
	var locs []model.LocationCount
	if err := json.Unmarshal([]byte(payload), &locs); err != nil {
		return nil, false, err
	}
	return locs, true, nil
}
