package recommend

import (
	"encoding/json"
	"time"

	"github.com/Keshav8605/vidtube/services/recommendation-service/internal/domain"
)

// UserSignal is the behavioral input for one personalized request.
// Derived per request, never persisted.
type UserSignal struct {
	UserID          string
	WatchedVideoIDs []string
	LikedVideoIDs   []string
}

// ExcludeSet returns watched ∪ liked with duplicates collapsed.
func (u UserSignal) ExcludeSet() []string {
	seen := make(map[string]struct{}, len(u.WatchedVideoIDs)+len(u.LikedVideoIDs))
	out := make([]string, 0, len(u.WatchedVideoIDs)+len(u.LikedVideoIDs))
	for _, id := range u.WatchedVideoIDs {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	for _, id := range u.LikedVideoIDs {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}

func (u UserSignal) Empty() bool {
	return len(u.WatchedVideoIDs) == 0 && len(u.LikedVideoIDs) == 0
}

type ScoredVideo struct {
	Video     *domain.Video
	Score     float64
	Breakdown json.RawMessage
}

// FeedResult is the personalized feed. Items keep the order of the
// authoritative source (external ranking, or popularity in fallback) and
// are never re-sorted after the catalog re-join.
type FeedResult struct {
	Items          []ScoredVideo
	FallbackUsed   bool
	FallbackReason string
	GeneratedAt    time.Time
}

type SimilarVideo struct {
	Video      *domain.Video
	Similarity float64
}

type SimilarResult struct {
	Source       *domain.Video
	Items        []SimilarVideo
	FallbackUsed bool
}
