package domain

import "time"

// Video is the catalog read model. The catalog is owned by the main
// backend; this service only ever reads it, so there are no state
// transitions here.
type Video struct {
	ID          string
	OwnerID     string
	Title       string
	Description string
	VideoFile   string
	Thumbnail   string
	Duration    float64 // seconds
	Views       int64
	IsPublished bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// VideoMetadata is the scoring context for one catalog entry, keyed by
// video id when sent to the scoring service.
type VideoMetadata struct {
	Views     int64
	CreatedAt time.Time
}
