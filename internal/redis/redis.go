// Package redis persists the played-today set so a mid-day restart
// does not replay azans that already fired.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/minaret-labs/minaretd/internal/prayer"
)

// Keys expire well after the day rolls over; rollover also deletes
// them explicitly.
const playedTTL = 48 * time.Hour

// PlayedStore records played prayer names per calendar date.
type PlayedStore struct {
	rdb *redis.Client
}

func NewPlayedStore(address, username, password string) *PlayedStore {
	return &PlayedStore{
		rdb: redis.NewClient(&redis.Options{
			Addr:     address,
			Username: username,
			Password: password,
			DB:       0,
		}),
	}
}

func playedKey(date string) string {
	return fmt.Sprintf("minaret:played:%s", date)
}

// MarkPlayed adds name to the set for date. Persistence failures are
// logged, not surfaced: the in-memory set stays authoritative.
func (s *PlayedStore) MarkPlayed(ctx context.Context, date string, name prayer.Name) {
	if s == nil {
		return
	}
	key := playedKey(date)
	if err := s.rdb.SAdd(ctx, key, string(name)).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("failed to persist played prayer")
		return
	}
	s.rdb.Expire(ctx, key, playedTTL)
}

// Played returns the persisted set for date, or an empty set when redis
// is unavailable.
func (s *PlayedStore) Played(ctx context.Context, date string) map[prayer.Name]struct{} {
	played := make(map[prayer.Name]struct{})
	if s == nil {
		return played
	}
	members, err := s.rdb.SMembers(ctx, playedKey(date)).Result()
	if err != nil {
		log.Warn().Err(err).Str("date", date).Msg("failed to load played set")
		return played
	}
	for _, m := range members {
		played[prayer.Name(m)] = struct{}{}
	}
	return played
}

// Clear drops the persisted set for date, used on date rollover.
func (s *PlayedStore) Clear(ctx context.Context, date string) {
	if s == nil {
		return
	}
	if err := s.rdb.Del(ctx, playedKey(date)).Err(); err != nil {
		log.Warn().Err(err).Str("date", date).Msg("failed to clear played set")
	}
}
