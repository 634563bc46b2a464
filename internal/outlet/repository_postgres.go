package outlet

import (
	"database/sql"
)

// Repository provides access to outlet rows.
type Repository interface {
	List(limit int) ([]Outlet, error)
	ListLite(limit int) ([]LiteOutlet, error)
}

// PostgresRepository implements Repository using Postgres.
type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(limit int) ([]Outlet, error) {
	rows, err := r.db.Query(`SELECT "outletId", name, address, phone, opening_hours FROM outlet ORDER BY ord DESC, "outletId" LIMIT $1`, limit)
	if err != nil {
		return []Outlet{}, nil
	}
	defer rows.Close()

	out := make([]Outlet, 0)
	for rows.Next() {
		var (
			o     Outlet
			phone sql.NullString
			hours sql.NullString
		)
		if err := rows.Scan(&o.ID, &o.Name, &o.Address, &phone, &hours); err != nil {
			continue
		}
		if phone.Valid {
			s := phone.String
			o.Phone = &s
		}
		if hours.Valid {
			s := hours.String
			o.OpeningHours = &s
		}
		out = append(out, o)
	}
	return out, nil
}

func (r *PostgresRepository) ListLite(limit int) ([]LiteOutlet, error) {
	rows, err := r.db.Query(`SELECT "outletId", name FROM outlet ORDER BY ord DESC, "outletId" LIMIT $1`, limit)
	if err != nil {
		return []LiteOutlet{}, nil
	}
	defer rows.Close()

	out := make([]LiteOutlet, 0)
	for rows.Next() {
		var o LiteOutlet
		if err := rows.Scan(&o.ID, &o.Name); err != nil {
			continue
		}
		out = append(out, o)
	}
	return out, nil
}
