package recommended

import (
	"database/sql"
)

// Repository provides access to recommended items.
type Repository interface {
	List(limit int, offset int) ([]RecommendedItem, error)
}

// PostgresRepository implements Repository using Postgres.
type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// List returns the best rated products, highest score first.
func (r *PostgresRepository) List(limit int, offset int) ([]RecommendedItem, error) {
	rows, err := r.db.Query(`SELECT product_id, product_pic, product_name, product_price, score FROM product ORDER BY score DESC, product_id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		// table may not exist yet — return empty slice to keep API resilient
		return []RecommendedItem{}, nil
	}
	defer rows.Close()

	out := make([]RecommendedItem, 0)
	for rows.Next() {
		var (
			id    int
			pic   sql.NullString
			name  sql.NullString
			price sql.NullInt64
			score sql.NullInt64
		)
		if err := rows.Scan(&id, &pic, &name, &price, &score); err != nil {
			continue
		}
		item := RecommendedItem{ProductID: id}
		if pic.Valid {
			item.ProductPic = &pic.String
		}
		if name.Valid {
			item.ProductName = &name.String
		}
		if price.Valid {
			v := int(price.Int64)
			item.ProductPrice = &v
		}
		if score.Valid {
			v := int(score.Int64)
			item.Score = &v
		}
		out = append(out, item)
	}
	return out, nil
}
