package post

const (
	postColumns = `id, author, title, caption, photo, audio, visibility, created_at`

	InsertPost = `
		INSERT INTO posts (id, author, title, caption, photo, audio, visibility, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + postColumns

	SelectPostByID = `
		SELECT ` + postColumns + `
		FROM posts
		WHERE id = $1
	`
	SelectPostsByAuthor = `
		SELECT ` + postColumns + `
		FROM posts
		WHERE author = $1
		ORDER BY id
	`
	SelectPostsPageByAuthor = `
		SELECT ` + postColumns + `
		FROM posts
		WHERE author = $1 AND created_at <= $2 AND visibility = ANY($3)
		ORDER BY created_at DESC, id DESC
		OFFSET $4
		LIMIT $5
	`
	UpdatePostVisibility = `
		UPDATE posts
		SET visibility = $1
		WHERE id = $2 AND author = $3
		RETURNING ` + postColumns + `
	`
	DeletePostByIDAndAuthor = `
		DELETE FROM posts
		WHERE id = $1 AND author = $2
		RETURNING ` + postColumns
)
