package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var videoCols = []string{
	"id", "owner_id", "title", "description", "video_file", "thumbnail",
	"duration", "views", "is_published", "created_at", "updated_at",
}

func videoRow(id string, views int64) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows(videoCols).AddRow(
		id, "owner-1", "title", "desc", "video.mp4", "thumb.png",
		120.5, views, true, now, now,
	)
}

func TestCatalog_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	repo := New(db)

	t.Run("returns_video", func(t *testing.T) {
		mock.ExpectQuery("SELECT(.|\n)*FROM videos(.|\n)*WHERE id = \\$1").
			WithArgs("vid-1").
			WillReturnRows(videoRow("vid-1", 10))

		v, err := repo.GetByID(context.Background(), "vid-1")
		assert.NoError(t, err)
		assert.Equal(t, "vid-1", v.ID)
		assert.True(t, v.IsPublished)
	})

	t.Run("maps_no_rows_to_not_found", func(t *testing.T) {
		mock.ExpectQuery("SELECT(.|\n)*FROM videos(.|\n)*WHERE id = \\$1").
			WithArgs("missing").
			WillReturnRows(sqlmock.NewRows(videoCols))

		v, err := repo.GetByID(context.Background(), "missing")
		assert.Nil(t, v)
		assert.EqualError(t, err, "not_found: video not found")
	})
}

func TestCatalog_ListPopular(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	repo := New(db)

	t.Run("orders_by_views_then_recency", func(t *testing.T) {
		now := time.Now().UTC()
		rows := sqlmock.NewRows(videoCols).
			AddRow("v4", "o", "t", "d", "f", "th", 1.0, int64(100), true, now, now).
			AddRow("v5", "o", "t", "d", "f", "th", 1.0, int64(50), true, now, now)

		mock.ExpectQuery("ORDER BY views DESC, created_at DESC").
			WillReturnRows(rows)

		got, err := repo.ListPopular(context.Background(), []string{"v1", "v2"}, 10)
		assert.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "v4", got[0].ID)
		assert.Equal(t, "v5", got[1].ID)
	})
}

func TestCatalog_ListByIDs_EmptyInput(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// No query expected for an empty id list.
	got, err := New(db).ListByIDs(context.Background(), nil)
	assert.NoError(t, err)
	assert.Empty(t, got)
}

func TestCatalog_WatchedVideoIDs(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("FROM watch_history").
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"video_id"}).AddRow("v1").AddRow("v2"))

	ids, err := New(db).WatchedVideoIDs(context.Background(), "user-1")
	assert.NoError(t, err)
	assert.Equal(t, []string{"v1", "v2"}, ids)
}

func TestCatalog_ListPublishedMetadata(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	created := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT id, views, created_at").
		WillReturnRows(sqlmock.NewRows([]string{"id", "views", "created_at"}).
			AddRow("v1", int64(42), created))

	meta, err := New(db).ListPublishedMetadata(context.Background())
	assert.NoError(t, err)
	require.Contains(t, meta, "v1")
	assert.Equal(t, int64(42), meta["v1"].Views)
	assert.Equal(t, created, meta["v1"].CreatedAt)
}
