package session

const (
	InsertSession = `
		INSERT INTO sessions (id, user_id, ip)
		VALUES ($1, $2, $3)
		RETURNING id, user_id, ip, created_at
	`
	SelectSessionExists  = `SELECT EXISTS (SELECT 1 FROM sessions WHERE id = $1 AND user_id = $2)`
	DeleteSessionsByUser = `DELETE FROM sessions WHERE user_id = $1`
)
