package user

const (
	userColumns = `uuid, email, password_hash, name, avatar, created_at, updated_at`

	SelectUserByID = `
		SELECT ` + userColumns + `
		FROM users
		WHERE uuid = $1
	`
	SelectUserByEmail = `
		SELECT ` + userColumns + `
		FROM users
		WHERE email = $1
	`
	InsertUser = `
		INSERT INTO users (uuid, email, password_hash, name)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + userColumns

	// UpdateUserAvatar returns the avatar being replaced.
	UpdateUserAvatar = `
		WITH prev AS (
			SELECT avatar FROM users WHERE uuid = $1 FOR UPDATE
		)
		UPDATE users
		SET avatar = $2,
		    updated_at = now()
		WHERE uuid = $1
		RETURNING (SELECT avatar FROM prev)
	`
	DeleteUserByID = `
		DELETE FROM users
		WHERE uuid = $1
		RETURNING ` + userColumns
)
