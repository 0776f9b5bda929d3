package recommend

import (
	"context"
	"strings"

	"github.com/Keshav8605/vidtube/services/recommendation-service/internal/domain"
	zlog "github.com/rs/zerolog/log"
)

// SyncEmbeddings submits the full published catalog to the scoring
// service in one batch. The service skips videos it already embedded, so
// the same batch can be re-sent safely; the core does no diffing of its
// own. There is no local fallback here: a failed call fails the
// operation.
func (s *Service) SyncEmbeddings(ctx context.Context) (SyncResult, error) {
	docs, err := s.catalog.ListEmbeddingDocs(ctx)
	if err != nil {
		return SyncResult{}, err
	}
	if len(docs) == 0 {
		return SyncResult{}, nil
	}

	res, err := s.scoring.SyncEmbeddings(ctx, docs)
	if err != nil {
		return SyncResult{}, domain.ErrUnavailable("embedding sync failed")
	}

	// Best effort: a lost event only delays downstream consumers.
	if err := s.pub.EmbeddingsSynced(ctx, *res); err != nil {
		zlog.Warn().Err(err).Msg("embeddings.synced publish failed")
	}

	zlog.Info().
		Int("processed", res.Processed).
		Int("new", res.New).
		Int("index_size", res.IndexSize).
		Msg("embedding sync completed")

	return *res, nil
}

// EmbedVideo pushes a single freshly published video into the index so
// it becomes recommendable without waiting for the next full sync.
func (s *Service) EmbedVideo(ctx context.Context, videoID string) error {
	if strings.TrimSpace(videoID) == "" {
		return domain.ErrValidation("video_id is required")
	}
	v, err := s.catalog.GetByID(ctx, videoID)
	if err != nil {
		return err
	}
	if !v.IsPublished {
		return domain.ErrInvalidState("video is not published")
	}

	_, err = s.scoring.BatchEmbeddings(ctx, []EmbeddingDoc{{
		VideoID:     v.ID,
		Title:       v.Title,
		Description: v.Description,
	}})
	if err != nil {
		return domain.ErrUnavailable("embedding generation failed")
	}
	return nil
}

// DeleteEmbedding forwards a catalog deletion to the scoring service so
// the video stops appearing in rankings.
func (s *Service) DeleteEmbedding(ctx context.Context, videoID string) error {
	if strings.TrimSpace(videoID) == "" {
		return domain.ErrValidation("video_id is required")
	}
	if err := s.scoring.DeleteEmbedding(ctx, videoID); err != nil {
		return domain.ErrUnavailable("embedding delete failed")
	}
	return nil
}

// ScoringHealth reports the external service's own health view. It is
// informational only; the fallback chain never consults it.
func (s *Service) ScoringHealth(ctx context.Context) (*ServiceHealth, error) {
	h, err := s.scoring.Health(ctx)
	if err != nil {
		return &ServiceHealth{Status: "unhealthy"}, nil
	}
	if h.Status == "" {
		h.Status = "unhealthy"
	}
	return h, nil
}
