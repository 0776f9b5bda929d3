package postgres

const videoColumns = `
	id, owner_id, title, description, video_file, thumbnail,
	duration, views, is_published, created_at, updated_at`

const getVideoSQL = `
SELECT` + videoColumns + `
FROM videos
WHERE id = $1`

const listByIDsSQL = `
SELECT` + videoColumns + `
FROM videos
WHERE is_published = TRUE AND id = ANY($1)`

const listPopularSQL = `
SELECT` + videoColumns + `
FROM videos
WHERE is_published = TRUE AND NOT (id = ANY($1))
ORDER BY views DESC, created_at DESC
LIMIT $2`

const listByOwnerExceptSQL = `
SELECT` + videoColumns + `
FROM videos
WHERE is_published = TRUE AND owner_id = $1 AND id <> $2
ORDER BY views DESC
LIMIT $3`

const listPublishedMetadataSQL = `
SELECT id, views, created_at
FROM videos
WHERE is_published = TRUE`

const listEmbeddingDocsSQL = `
SELECT id, title, description
FROM videos
WHERE is_published = TRUE`

const watchedVideoIDsSQL = `
SELECT video_id
FROM watch_history
WHERE user_id = $1
ORDER BY watched_at DESC`

const likedVideoIDsSQL = `
SELECT video_id
FROM likes
WHERE user_id = $1 AND video_id IS NOT NULL
ORDER BY created_at DESC`
