package infra

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/lib/pq"
)

func OpenDB(dbURL string) (*sql.DB, error) {
	return sql.Open("postgres", dbURL)
}

func PingDB(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	return db.PingContext(ctx)
}

func ResetCatalog(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	_, err := db.ExecContext(ctx, `TRUNCATE TABLE watch_history, likes, videos`)
	return err
}

func SeedVideo(db *sql.DB, id, ownerID, title string, views int64, published bool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	_, err := db.ExecContext(ctx, `
		INSERT INTO videos (id, owner_id, title, description, video_file, thumbnail,
		                    duration, views, is_published, created_at, updated_at)
		VALUES ($1, $2, $3, 'seeded', 'https://cdn/v.mp4', 'https://cdn/t.jpg',
		        120, $4, $5, now(), now())`,
		id, ownerID, title, views, published)
	return err
}

func SeedWatch(db *sql.DB, userID, videoID string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	_, err := db.ExecContext(ctx, `
		INSERT INTO watch_history (user_id, video_id, watched_at)
		VALUES ($1, $2, now())`,
		userID, videoID)
	return err
}

func SeedLike(db *sql.DB, userID, videoID string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	_, err := db.ExecContext(ctx, `
		INSERT INTO likes (user_id, video_id, created_at)
		VALUES ($1, $2, now())`,
		userID, videoID)
	return err
}
