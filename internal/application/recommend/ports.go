package recommend

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Keshav8605/vidtube/services/recommendation-service/internal/domain"
)

type Clock interface {
	Now() time.Time
}

// Catalog is the read-only gateway over the platform's video/user data.
// All reads hit the same eventually-consistent store; two reads inside
// one request are not guaranteed to see the same snapshot.
type Catalog interface {
	// ListPublishedMetadata returns the scoring context for the full
	// published catalog, keyed by video id.
	ListPublishedMetadata(ctx context.Context) (map[string]domain.VideoMetadata, error)

	// ListPopular returns published videos ordered by (views DESC,
	// created_at DESC), skipping the given ids.
	ListPopular(ctx context.Context, excludeIDs []string, limit int) ([]*domain.Video, error)

	// ListByIDs returns full records for the given ids, in no particular
	// order. Missing ids are simply absent from the result.
	ListByIDs(ctx context.Context, ids []string) ([]*domain.Video, error)

	GetByID(ctx context.Context, id string) (*domain.Video, error)

	// ListByOwnerExcept returns other published videos by the same owner
	// ordered by views DESC.
	ListByOwnerExcept(ctx context.Context, ownerID, exceptID string, limit int) ([]*domain.Video, error)

	WatchedVideoIDs(ctx context.Context, userID string) ([]string, error)
	LikedVideoIDs(ctx context.Context, userID string) ([]string, error)

	// ListEmbeddingDocs returns id/title/description for every published
	// video, the unit the scoring service embeds.
	ListEmbeddingDocs(ctx context.Context) ([]EmbeddingDoc, error)
}

// PersonalizedQuery is the request sent to the scoring service.
type PersonalizedQuery struct {
	UserID          string
	WatchedVideoIDs []string
	LikedVideoIDs   []string
	Metadata        map[string]domain.VideoMetadata
	Limit           int
	ExcludeVideoIDs []string
}

// RankedVideo is one entry of the external ranking. Breakdown is passed
// through verbatim; the orchestrator never looks inside it.
type RankedVideo struct {
	VideoID   string
	Score     float64
	Breakdown json.RawMessage
}

type SimilarRanked struct {
	VideoID    string
	Similarity float64
}

type EmbeddingDoc struct {
	VideoID     string `json:"video_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// SyncResult is the scoring service's sync summary, passed through
// verbatim to the caller.
type SyncResult struct {
	Processed int      `json:"processed"`
	New       int      `json:"new"`
	Existing  int      `json:"existing"`
	IndexSize int      `json:"index_size"`
	Errors    []string `json:"errors,omitempty"`
}

// BatchResult is the scoring service's batch-embedding summary.
type BatchResult struct {
	Processed int `json:"processed"`
	Failed    int `json:"failed"`
	IndexSize int `json:"index_size"`
}

type ServiceHealth struct {
	Status             string `json:"status"`
	IndexSize          int    `json:"index_size"`
	ModelLoaded        bool   `json:"model_loaded"`
	EmbeddingDimension int    `json:"embedding_dimension"`
}

// ScoringClient wraps the external recommendation/embedding capability.
// Implementations must bound every call with their own timeout and map
// all transport failures to an error; callers treat any error and an
// empty payload identically.
type ScoringClient interface {
	Personalized(ctx context.Context, q PersonalizedQuery) ([]RankedVideo, error)
	Similar(ctx context.Context, videoID string, limit int) ([]SimilarRanked, error)
	SyncEmbeddings(ctx context.Context, docs []EmbeddingDoc) (*SyncResult, error)
	BatchEmbeddings(ctx context.Context, docs []EmbeddingDoc) (*BatchResult, error)
	DeleteEmbedding(ctx context.Context, videoID string) error
	Health(ctx context.Context) (*ServiceHealth, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, val any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// Publisher emits domain events after state-changing operations.
type Publisher interface {
	EmbeddingsSynced(ctx context.Context, res SyncResult) error
}
