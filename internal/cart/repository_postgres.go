package cart

import (
	"database/sql"
	"encoding/json"
)

// PostgresRepository stores the cart as a JSONB array of lines on the users
// row, same column style as the rest of the schema.
type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(userID int) ([]Line, error) {
	var raw sql.NullString
	if err := r.db.QueryRow(`SELECT cart FROM users WHERE "userId" = $1`, userID).Scan(&raw); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}

	lines := []Line{}
	if raw.Valid && raw.String != "" {
		if err := json.Unmarshal([]byte(raw.String), &lines); err != nil {
			return nil, err
		}
	}
	return lines, nil
}

func (r *PostgresRepository) Save(userID int, lines []Line, updatedAt string) error {
	if lines == nil {
		lines = []Line{}
	}
	raw, err := json.Marshal(lines)
	if err != nil {
		return err
	}

	res, err := r.db.Exec(`UPDATE users SET cart = $1, "updateAt" = $2 WHERE "userId" = $3`, string(raw), updatedAt, userID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
