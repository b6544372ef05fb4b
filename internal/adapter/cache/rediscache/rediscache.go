// Package rediscache provides a Redis-backed read-through cache for
// completed candidate profiles.
package rediscache

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fairyhunter13/resume-field-extractor/internal/domain"
)

// ProfileCache stores profiles as JSON with a TTL. Cache misses and
// transport failures degrade to the repository, never to an error the
// client sees.
type ProfileCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewProfileCache constructs a ProfileCache.
func NewProfileCache(rdb *redis.Client, ttl time.Duration) *ProfileCache {
	return &ProfileCache{rdb: rdb, ttl: ttl}
}

func profileKey(resumeID string) string { return "profile:" + resumeID }

// Get loads a cached profile. The bool reports whether it was present.
func (c *ProfileCache) Get(ctx domain.Context, resumeID string) (domain.CandidateProfile, bool, error) {
	b, err := c.rdb.Get(ctx, profileKey(resumeID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.CandidateProfile{}, false, nil
		}
		return domain.CandidateProfile{}, false, fmt.Errorf("op=cache.get: %w", err)
	}
	var p domain.CandidateProfile
	if err := json.Unmarshal(b, &p); err != nil {
		// A corrupt entry behaves like a miss; the next Set repairs it.
		slog.Warn("corrupt cached profile dropped", slog.String("resume_id", resumeID), slog.Any("error", err))
		_ = c.rdb.Del(ctx, profileKey(resumeID)).Err()
		return domain.CandidateProfile{}, false, nil
	}
	return p, true, nil
}

// Set stores a profile with the configured TTL.
func (c *ProfileCache) Set(ctx domain.Context, p domain.CandidateProfile) error {
	b, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("op=cache.set_marshal: %w", err)
	}
	if err := c.rdb.Set(ctx, profileKey(p.ResumeID), b, c.ttl).Err(); err != nil {
		return fmt.Errorf("op=cache.set: %w", err)
	}
	return nil
}

// Invalidate removes a cached profile, e.g. before re-extraction.
func (c *ProfileCache) Invalidate(ctx domain.Context, resumeID string) error {
	if err := c.rdb.Del(ctx, profileKey(resumeID)).Err(); err != nil {
		return fmt.Errorf("op=cache.invalidate: %w", err)
	}
	return nil
}
