package dto

import (
	"github.com/Keshav8605/vidtube/services/recommendation-service/internal/application/recommend"
	"github.com/Keshav8605/vidtube/services/recommendation-service/internal/domain"
)

func toVideoResp(v *domain.Video) VideoResp {
	return VideoResp{
		ID:          v.ID,
		OwnerID:     v.OwnerID,
		Title:       v.Title,
		Description: v.Description,
		VideoFile:   v.VideoFile,
		Thumbnail:   v.Thumbnail,
		Duration:    v.Duration,
		Views:       v.Views,
		CreatedAt:   v.CreatedAt,
	}
}

func ToFeedResp(res recommend.FeedResult) FeedResp {
	items := make([]FeedItemResp, 0, len(res.Items))
	for _, it := range res.Items {
		items = append(items, FeedItemResp{
			VideoResp: toVideoResp(it.Video),
			Score:     it.Score,
			Breakdown: it.Breakdown,
		})
	}
	return FeedResp{
		Items:          items,
		FallbackUsed:   res.FallbackUsed,
		FallbackReason: res.FallbackReason,
		GeneratedAt:    res.GeneratedAt,
	}
}

func ToSimilarResp(res recommend.SimilarResult) SimilarResp {
	items := make([]SimilarItemResp, 0, len(res.Items))
	for _, it := range res.Items {
		items = append(items, SimilarItemResp{
			VideoResp:       toVideoResp(it.Video),
			SimilarityScore: it.Similarity,
		})
	}
	return SimilarResp{
		VideoID:      res.Source.ID,
		Items:        items,
		FallbackUsed: res.FallbackUsed,
	}
}

func ToSyncResp(res recommend.SyncResult) SyncResp {
	return SyncResp{
		Processed: res.Processed,
		New:       res.New,
		Existing:  res.Existing,
		IndexSize: res.IndexSize,
		Errors:    res.Errors,
	}
}

func ToScoringHealthResp(h *recommend.ServiceHealth) ScoringHealthResp {
	return ScoringHealthResp{
		Status:             h.Status,
		IndexSize:          h.IndexSize,
		ModelLoaded:        h.ModelLoaded,
		EmbeddingDimension: h.EmbeddingDimension,
	}
}
