package recommend

import (
	"time"
)

type Service struct {
	catalog Catalog
	scoring ScoringClient
	cache   Cache
	pub     Publisher
	clock   Clock

	defaultFeedLimit    int
	defaultSimilarLimit int
	ttlPopular          time.Duration
}

func New(
	catalog Catalog,
	scoring ScoringClient,
	cache Cache,
	pub Publisher,
	clock Clock,
	defaultFeedLimit, defaultSimilarLimit int,
	ttlPopular time.Duration,
) *Service {
	// Defaults if 0
	if defaultFeedLimit <= 0 {
		defaultFeedLimit = 20
	}
	if defaultSimilarLimit <= 0 {
		defaultSimilarLimit = 10
	}
	if ttlPopular == 0 {
		ttlPopular = 30 * time.Second
	}
	if pub == nil {
		pub = NoopPublisher{}
	}
	if clock == nil {
		clock = systemClock{}
	}

	return &Service{
		catalog:             catalog,
		scoring:             scoring,
		cache:               cache,
		pub:                 pub,
		clock:               clock,
		defaultFeedLimit:    defaultFeedLimit,
		defaultSimilarLimit: defaultSimilarLimit,
		ttlPopular:          ttlPopular,
	}
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func (s *Service) normalizeLimit(limit, def int) int {
	if limit <= 0 {
		return def
	}
	if limit > 100 {
		return 100
	}
	return limit
}
