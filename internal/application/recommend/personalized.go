package recommend

import (
	"context"
	"strings"

	"github.com/Keshav8605/vidtube/services/recommendation-service/internal/domain"
	zlog "github.com/rs/zerolog/log"
)

// GetPersonalized returns the ranked feed for one user.
//
// The degradation policy is an ordered tier chain:
//
//	tier 1: user has no history       -> popularity, external call skipped
//	tier 2: external call unusable    -> popularity minus the exclusion set
//	tier 3: catalog gaps on re-join   -> ranked entries for deleted videos dropped
//
// Tiers 1 and 2 are reported via FallbackUsed/FallbackReason; tier 3 is
// silent (a shorter list is the documented behavior, not an error).
func (s *Service) GetPersonalized(ctx context.Context, userID string, limit int, excludeOverride []string) (FeedResult, error) {
	if strings.TrimSpace(userID) == "" {
		return FeedResult{}, domain.ErrValidation("user_id is required")
	}
	limit = s.normalizeLimit(limit, s.defaultFeedLimit)

	signal, err := s.resolveSignal(ctx, userID)
	if err != nil {
		return FeedResult{}, err
	}

	// The override replaces the computed set; history still decides tier 1.
	exclude := signal.ExcludeSet()
	if excludeOverride != nil {
		exclude = excludeOverride
	}

	if signal.Empty() {
		return s.popularityFeed(ctx, exclude, limit, FallbackReasonNoHistory)
	}

	metadata, err := s.catalog.ListPublishedMetadata(ctx)
	if err != nil {
		return FeedResult{}, err
	}

	ranked, err := s.scoring.Personalized(ctx, PersonalizedQuery{
		UserID:          signal.UserID,
		WatchedVideoIDs: signal.WatchedVideoIDs,
		LikedVideoIDs:   signal.LikedVideoIDs,
		Metadata:        metadata,
		Limit:           limit,
		ExcludeVideoIDs: exclude,
	})
	if err != nil || len(ranked) == 0 {
		// A failed call and a structurally-empty success are treated the
		// same: neither yields a usable ranking.
		zlog.Warn().Err(err).Str("user_id", userID).Msg("scoring unusable, serving popularity fallback")
		return s.popularityFeed(ctx, exclude, limit, FallbackReasonServiceUnavailable)
	}

	items, err := s.hydrateRanked(ctx, ranked)
	if err != nil {
		return FeedResult{}, err
	}
	return FeedResult{Items: items, GeneratedAt: s.clock.Now().UTC()}, nil
}

func (s *Service) resolveSignal(ctx context.Context, userID string) (UserSignal, error) {
	watched, err := s.catalog.WatchedVideoIDs(ctx, userID)
	if err != nil {
		return UserSignal{}, err
	}
	liked, err := s.catalog.LikedVideoIDs(ctx, userID)
	if err != nil {
		return UserSignal{}, err
	}
	return UserSignal{UserID: userID, WatchedVideoIDs: watched, LikedVideoIDs: liked}, nil
}

// hydrateRanked re-joins the external ranking against the catalog,
// preserving the ranked order exactly. Ids the catalog no longer has are
// dropped; the list is NOT padded or re-truncated afterwards.
func (s *Service) hydrateRanked(ctx context.Context, ranked []RankedVideo) ([]ScoredVideo, error) {
	ids := make([]string, 0, len(ranked))
	for _, r := range ranked {
		ids = append(ids, r.VideoID)
	}

	videos, err := s.catalog.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*domain.Video, len(videos))
	for _, v := range videos {
		byID[v.ID] = v
	}

	out := make([]ScoredVideo, 0, len(ranked))
	seen := make(map[string]struct{}, len(ranked))
	for _, r := range ranked {
		v, ok := byID[r.VideoID]
		if !ok {
			// Deleted/unpublished since indexing. Not an error.
			zlog.Debug().Str("video_id", r.VideoID).Msg("ranked video missing from catalog, dropped")
			continue
		}
		if _, dup := seen[r.VideoID]; dup {
			continue
		}
		seen[r.VideoID] = struct{}{}
		out = append(out, ScoredVideo{Video: v, Score: r.Score, Breakdown: r.Breakdown})
	}
	return out, nil
}
