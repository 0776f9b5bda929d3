package dto

import (
	"encoding/json"
	"time"
)

// VideoResp is the stable API card for a catalog video.
type VideoResp struct {
	ID      string `json:"id"`
	OwnerID string `json:"owner_id"`

	Title       string `json:"title"`
	Description string `json:"description"`

	VideoFile string  `json:"video_file"`
	Thumbnail string  `json:"thumbnail"`
	Duration  float64 `json:"duration"`
	Views     int64   `json:"views"`

	CreatedAt time.Time `json:"created_at"`
}

type FeedItemResp struct {
	VideoResp
	Score float64 `json:"score"`
	// Breakdown is passed through opaque from the scoring service.
	Breakdown json.RawMessage `json:"score_breakdown,omitempty"`
}

type FeedResp struct {
	Items          []FeedItemResp `json:"items"`
	FallbackUsed   bool           `json:"fallback_used"`
	FallbackReason string         `json:"fallback_reason,omitempty"`
	GeneratedAt    time.Time      `json:"generated_at"`
}

type SimilarItemResp struct {
	VideoResp
	SimilarityScore float64 `json:"similarity_score"`
}

type SimilarResp struct {
	VideoID      string            `json:"video_id"`
	Items        []SimilarItemResp `json:"items"`
	FallbackUsed bool              `json:"fallback_used"`
}

type SyncResp struct {
	Processed int      `json:"processed"`
	New       int      `json:"new"`
	Existing  int      `json:"existing"`
	IndexSize int      `json:"index_size"`
	Errors    []string `json:"errors,omitempty"`
}

type ScoringHealthResp struct {
	Status             string `json:"status"`
	IndexSize          int    `json:"index_size"`
	ModelLoaded        bool   `json:"model_loaded"`
	EmbeddingDimension int    `json:"embedding_dimension"`
}
