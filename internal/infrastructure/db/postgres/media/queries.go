package media

const (
	mediaColumns = `id, uploaded_by, format, status, visibility, mime_type, file_name, size_bytes`

	InsertMedia = `
		INSERT INTO media (id, uploaded_by, format, status, visibility, mime_type, file_name, size_bytes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + mediaColumns

	SelectMediaByID = `
		SELECT ` + mediaColumns + `
		FROM media
		WHERE id = $1
	`
	SelectMediaByUploader = `
		SELECT ` + mediaColumns + `
		FROM media
		WHERE uploaded_by = $1
		ORDER BY id
	`

	// ClaimMedia is completed by the compiled claim filters; $1 is the new status.
	ClaimMedia = `UPDATE media SET status = $1 WHERE `

	UnclaimMedia = `
		UPDATE media
		SET status = $1
		WHERE id = ANY($2)
	`
	UpdateMediaVisibility = `
		UPDATE media
		SET visibility = $1
		WHERE id = ANY($2)
	`

	DeleteMediaByID       = `DELETE FROM media WHERE id = $1`
	DeleteMediaByUploader = `DELETE FROM media WHERE uploaded_by = $1`

	SelectExpiredWaiting = `
		SELECT id
		FROM media
		WHERE status = $1 AND id > $2 AND id < $3
		ORDER BY id
		LIMIT $4
	`
	DeleteWaitingByID = `
		DELETE FROM media
		WHERE id = $1 AND status = $2
	`

	unreferenced = `
		NOT EXISTS (SELECT 1 FROM posts p WHERE p.photo = m.id OR p.audio = m.id)
		AND NOT EXISTS (SELECT 1 FROM users u WHERE u.avatar = m.id)
	`
	SelectUnreferencedAssigned = `
		SELECT m.id
		FROM media m
		WHERE m.status = $1 AND m.id > $2 AND m.id < $3 AND ` + unreferenced + `
		ORDER BY m.id
		LIMIT $4
	`
	DeleteUnreferencedByID = `
		DELETE FROM media m
		WHERE m.id = $1 AND m.status = $2 AND ` + unreferenced
)
