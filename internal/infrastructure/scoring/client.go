package scoring

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	zlog "github.com/rs/zerolog/log"

	"github.com/Keshav8605/vidtube/services/recommendation-service/internal/application/recommend"
	"github.com/Keshav8605/vidtube/services/recommendation-service/internal/metrics"
)

var (
	ErrTimeout     = errors.New("scoring_timeout")
	ErrUnavailable = errors.New("scoring_unavailable")
)

// Config holds the scoring service connection settings. Passed at
// construction; the client never reads ambient process state.
type Config struct {
	BaseURL string
	// Timeout bounds every call. It is the authoritative bound for read
	// paths: a call that exceeds it counts as a failure and is never
	// retried here.
	Timeout time.Duration
}

// Client is the HTTP adapter for the external recommendation/embedding
// service. Every operation returns either a decoded payload or one of
// the sentinel errors above; transport-level details never escape.
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Client{
		baseURL: cfg.BaseURL,
		timeout: timeout,
		// Per-call timeouts via context, no global client timeout.
		httpClient: &http.Client{Timeout: 0},
	}
}

// --- wire types (field names are a compatibility contract) ---

type videoMetadataWire struct {
	Views     int64  `json:"views"`
	CreatedAt string `json:"created_at"`
}

type personalizedRequestWire struct {
	UserID          string                       `json:"user_id"`
	WatchedVideoIDs []string                     `json:"watched_video_ids"`
	LikedVideoIDs   []string                     `json:"liked_video_ids"`
	VideoMetadata   map[string]videoMetadataWire `json:"video_metadata"`
	Limit           int                          `json:"limit"`
	ExcludeVideoIDs []string                     `json:"exclude_video_ids"`
}

type recommendationItemWire struct {
	VideoID        string          `json:"video_id"`
	FinalScore     float64         `json:"final_score"`
	ScoreBreakdown json.RawMessage `json:"score_breakdown"`
}

type personalizedResponseWire struct {
	Recommendations     []recommendationItemWire `json:"recommendations"`
	UserProfileComputed bool                     `json:"user_profile_computed"`
	WatchedCount        int                      `json:"watched_count"`
	LikedCount          int                      `json:"liked_count"`
}

type similarVideosResponseWire struct {
	VideoID       string `json:"video_id"`
	SimilarVideos []struct {
		VideoID         string  `json:"video_id"`
		SimilarityScore float64 `json:"similarity_score"`
	} `json:"similar_videos"`
}

type embeddingBatchWire struct {
	Videos []recommend.EmbeddingDoc `json:"videos"`
}

type batchResponseWire struct {
	Processed int `json:"processed"`
	Failed    int `json:"failed"`
	IndexSize int `json:"index_size"`
}

type syncResponseWire struct {
	TotalVideos        int `json:"total_videos"`
	NewEmbeddings      int `json:"new_embeddings"`
	ExistingEmbeddings int `json:"existing_embeddings"`
	IndexSize          int `json:"index_size"`
}

// --- operations ---

func (c *Client) Personalized(ctx context.Context, q recommend.PersonalizedQuery) ([]recommend.RankedVideo, error) {
	body := personalizedRequestWire{
		UserID:          q.UserID,
		WatchedVideoIDs: emptyIfNil(q.WatchedVideoIDs),
		LikedVideoIDs:   emptyIfNil(q.LikedVideoIDs),
		VideoMetadata:   make(map[string]videoMetadataWire, len(q.Metadata)),
		Limit:           q.Limit,
		ExcludeVideoIDs: emptyIfNil(q.ExcludeVideoIDs),
	}
	for id, m := range q.Metadata {
		body.VideoMetadata[id] = videoMetadataWire{
			Views:     m.Views,
			CreatedAt: m.CreatedAt.UTC().Format(time.RFC3339),
		}
	}

	var resp personalizedResponseWire
	if err := c.call(ctx, "personalized", http.MethodPost, "/recommendations/personalized", body, &resp); err != nil {
		return nil, err
	}

	out := make([]recommend.RankedVideo, 0, len(resp.Recommendations))
	for _, it := range resp.Recommendations {
		out = append(out, recommend.RankedVideo{
			VideoID:   it.VideoID,
			Score:     it.FinalScore,
			Breakdown: it.ScoreBreakdown,
		})
	}
	return out, nil
}

func (c *Client) Similar(ctx context.Context, videoID string, limit int) ([]recommend.SimilarRanked, error) {
	path := fmt.Sprintf("/recommendations/similar/%s?limit=%d", videoID, limit)

	var resp similarVideosResponseWire
	if err := c.call(ctx, "similar", http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}

	out := make([]recommend.SimilarRanked, 0, len(resp.SimilarVideos))
	for _, it := range resp.SimilarVideos {
		out = append(out, recommend.SimilarRanked{VideoID: it.VideoID, Similarity: it.SimilarityScore})
	}
	return out, nil
}

func (c *Client) SyncEmbeddings(ctx context.Context, docs []recommend.EmbeddingDoc) (*recommend.SyncResult, error) {
	var resp syncResponseWire
	if err := c.call(ctx, "sync", http.MethodPost, "/embeddings/sync", embeddingBatchWire{Videos: docs}, &resp); err != nil {
		return nil, err
	}
	return &recommend.SyncResult{
		Processed: resp.TotalVideos,
		New:       resp.NewEmbeddings,
		Existing:  resp.ExistingEmbeddings,
		IndexSize: resp.IndexSize,
	}, nil
}

func (c *Client) BatchEmbeddings(ctx context.Context, docs []recommend.EmbeddingDoc) (*recommend.BatchResult, error) {
	var resp batchResponseWire
	if err := c.call(ctx, "batch", http.MethodPost, "/embeddings/batch", embeddingBatchWire{Videos: docs}, &resp); err != nil {
		return nil, err
	}
	return &recommend.BatchResult{
		Processed: resp.Processed,
		Failed:    resp.Failed,
		IndexSize: resp.IndexSize,
	}, nil
}

func (c *Client) DeleteEmbedding(ctx context.Context, videoID string) error {
	return c.call(ctx, "delete", http.MethodDelete, "/embeddings/"+videoID, nil, nil)
}

func (c *Client) Health(ctx context.Context) (*recommend.ServiceHealth, error) {
	var resp recommend.ServiceHealth
	if err := c.call(ctx, "health", http.MethodGet, "/health", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// call executes one bounded request and decodes the response into out
// (out may be nil when the payload is irrelevant).
func (c *Client) call(ctx context.Context, operation, method, path string, body, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)
	metrics.ScoringRequestDuration.WithLabelValues(operation).Observe(duration.Seconds())

	if err != nil {
		metrics.ScoringRequestsTotal.WithLabelValues(operation, "error").Inc()
		zlog.Warn().
			Err(err).
			Str("operation", operation).
			Dur("duration", duration).
			Msg("scoring_request_failed")
		return c.mapError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.ScoringRequestsTotal.WithLabelValues(operation, "error").Inc()
		zlog.Warn().
			Str("operation", operation).
			Int("status", resp.StatusCode).
			Dur("duration", duration).
			Msg("scoring_request_failed")
		return ErrUnavailable
	}

	metrics.ScoringRequestsTotal.WithLabelValues(operation, "ok").Inc()
	zlog.Debug().
		Str("operation", operation).
		Int("status", resp.StatusCode).
		Dur("duration", duration).
		Msg("scoring_request_completed")

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return ErrUnavailable
	}
	return nil
}

func (c *Client) mapError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return ErrTimeout
	}
	// Connection refused, DNS errors, etc.
	return ErrUnavailable
}

func emptyIfNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}

var _ recommend.ScoringClient = (*Client)(nil)
