package postgres

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"github.com/Keshav8605/vidtube/services/recommendation-service/internal/application/recommend"
	"github.com/Keshav8605/vidtube/services/recommendation-service/internal/domain"
)

// Catalog is the read-only gateway over the platform's video data.
type Catalog struct {
	db *sql.DB
}

func New(db *sql.DB) *Catalog { return &Catalog{db: db} }

func scanVideo(row interface{ Scan(...any) error }) (*domain.Video, error) {
	var v domain.Video
	err := row.Scan(
		&v.ID, &v.OwnerID, &v.Title, &v.Description, &v.VideoFile, &v.Thumbnail,
		&v.Duration, &v.Views, &v.IsPublished, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (c *Catalog) GetByID(ctx context.Context, id string) (*domain.Video, error) {
	v, err := scanVideo(c.db.QueryRowContext(ctx, getVideoSQL, id))
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound("video not found")
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (c *Catalog) ListByIDs(ctx context.Context, ids []string) ([]*domain.Video, error) {
	if len(ids) == 0 {
		return []*domain.Video{}, nil
	}
	rows, err := c.db.QueryContext(ctx, listByIDsSQL, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectVideos(rows)
}

func (c *Catalog) ListPopular(ctx context.Context, excludeIDs []string, limit int) ([]*domain.Video, error) {
	if excludeIDs == nil {
		excludeIDs = []string{}
	}
	rows, err := c.db.QueryContext(ctx, listPopularSQL, pq.Array(excludeIDs), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectVideos(rows)
}

func (c *Catalog) ListByOwnerExcept(ctx context.Context, ownerID, exceptID string, limit int) ([]*domain.Video, error) {
	rows, err := c.db.QueryContext(ctx, listByOwnerExceptSQL, ownerID, exceptID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectVideos(rows)
}

func (c *Catalog) ListPublishedMetadata(ctx context.Context) (map[string]domain.VideoMetadata, error) {
	rows, err := c.db.QueryContext(ctx, listPublishedMetadataSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]domain.VideoMetadata)
	for rows.Next() {
		var id string
		var m domain.VideoMetadata
		if err := rows.Scan(&id, &m.Views, &m.CreatedAt); err != nil {
			return nil, err
		}
		out[id] = m
	}
	return out, rows.Err()
}

func (c *Catalog) ListEmbeddingDocs(ctx context.Context) ([]recommend.EmbeddingDoc, error) {
	rows, err := c.db.QueryContext(ctx, listEmbeddingDocsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []recommend.EmbeddingDoc
	for rows.Next() {
		var d recommend.EmbeddingDoc
		if err := rows.Scan(&d.VideoID, &d.Title, &d.Description); err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

func (c *Catalog) WatchedVideoIDs(ctx context.Context, userID string) ([]string, error) {
	return c.queryIDs(ctx, watchedVideoIDsSQL, userID)
}

func (c *Catalog) LikedVideoIDs(ctx context.Context, userID string) ([]string, error) {
	return c.queryIDs(ctx, likedVideoIDsSQL, userID)
}

func (c *Catalog) queryIDs(ctx context.Context, query, userID string) ([]string, error) {
	rows, err := c.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func collectVideos(rows *sql.Rows) ([]*domain.Video, error) {
	var out []*domain.Video
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
