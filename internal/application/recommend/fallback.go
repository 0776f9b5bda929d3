package recommend

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/Keshav8605/vidtube/services/recommendation-service/internal/metrics"
	zlog "github.com/rs/zerolog/log"
)

const (
	FallbackReasonNoHistory          = "no history"
	FallbackReasonServiceUnavailable = "service unavailable"
)

// popularityFeed is the local ranking shared by tiers 1 and 2:
// published videos by (views DESC, created_at DESC), minus the exclusion
// set, truncated to limit. Cached briefly since it is identical for
// every user with the same exclusion set.
func (s *Service) popularityFeed(ctx context.Context, exclude []string, limit int, reason string) (FeedResult, error) {
	metrics.FallbackTotal.WithLabelValues(reason).Inc()

	key := cacheKeyPopular(exclude, limit)
	if s.cache != nil {
		var cached FeedResult
		found, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			zlog.Warn().Err(err).Str("key", key).Msg("cache get failed")
		} else if found {
			cached.FallbackUsed = true
			cached.FallbackReason = reason
			cached.GeneratedAt = s.clock.Now().UTC()
			return cached, nil
		}
	}

	videos, err := s.catalog.ListPopular(ctx, exclude, limit)
	if err != nil {
		return FeedResult{}, err
	}

	items := make([]ScoredVideo, 0, len(videos))
	for _, v := range videos {
		items = append(items, ScoredVideo{Video: v})
	}
	res := FeedResult{
		Items:          items,
		FallbackUsed:   true,
		FallbackReason: reason,
		GeneratedAt:    s.clock.Now().UTC(),
	}

	if s.cache != nil && len(items) > 0 {
		if err := s.cache.Set(ctx, key, res, s.ttlPopular); err != nil {
			zlog.Warn().Err(err).Str("key", key).Msg("cache set failed")
		}
	}
	return res, nil
}

func cacheKeyPopular(exclude []string, limit int) string {
	// The exclusion set is order-insensitive; sort before hashing so the
	// same set always yields the same key.
	ids := append([]string(nil), exclude...)
	sort.Strings(ids)

	raw := fmt.Sprintf("ex=%s|limit=%d", strings.Join(ids, ","), limit)
	hash := sha256.Sum256([]byte(raw))
	return fmt.Sprintf("rec:popular:%s", hex.EncodeToString(hash[:]))
}
