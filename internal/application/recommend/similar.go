package recommend

import (
	"context"
	"strings"

	"github.com/Keshav8605/vidtube/services/recommendation-service/internal/domain"
	"github.com/Keshav8605/vidtube/services/recommendation-service/internal/metrics"
	zlog "github.com/rs/zerolog/log"
)

// GetSimilar returns videos close to the given one. Unlike the feed, the
// fallback here is "more by the same owner"; an empty fallback list is a
// valid answer, not an error.
func (s *Service) GetSimilar(ctx context.Context, videoID string, limit int) (SimilarResult, error) {
	if strings.TrimSpace(videoID) == "" {
		return SimilarResult{}, domain.ErrValidation("video_id is required")
	}
	limit = s.normalizeLimit(limit, s.defaultSimilarLimit)

	source, err := s.catalog.GetByID(ctx, videoID)
	if err != nil {
		return SimilarResult{}, err
	}
	if !source.IsPublished {
		return SimilarResult{}, domain.ErrNotFound("video not found")
	}

	ranked, err := s.scoring.Similar(ctx, videoID, limit)
	if err != nil || len(ranked) == 0 {
		zlog.Warn().Err(err).Str("video_id", videoID).Msg("similarity unusable, serving same-owner fallback")
		metrics.FallbackTotal.WithLabelValues(FallbackReasonServiceUnavailable).Inc()

		others, err := s.catalog.ListByOwnerExcept(ctx, source.OwnerID, source.ID, limit)
		if err != nil {
			return SimilarResult{}, err
		}
		items := make([]SimilarVideo, 0, len(others))
		for _, v := range others {
			items = append(items, SimilarVideo{Video: v})
		}
		return SimilarResult{Source: source, Items: items, FallbackUsed: true}, nil
	}

	ids := make([]string, 0, len(ranked))
	for _, r := range ranked {
		ids = append(ids, r.VideoID)
	}
	videos, err := s.catalog.ListByIDs(ctx, ids)
	if err != nil {
		return SimilarResult{}, err
	}
	byID := make(map[string]*domain.Video, len(videos))
	for _, v := range videos {
		byID[v.ID] = v
	}

	items := make([]SimilarVideo, 0, len(ranked))
	seen := make(map[string]struct{}, len(ranked))
	for _, r := range ranked {
		v, ok := byID[r.VideoID]
		if !ok {
			continue
		}
		if _, dup := seen[r.VideoID]; dup {
			continue
		}
		seen[r.VideoID] = struct{}{}
		items = append(items, SimilarVideo{Video: v, Similarity: r.Similarity})
	}
	return SimilarResult{Source: source, Items: items}, nil
}
