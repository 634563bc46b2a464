package product

import (
	"database/sql"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	listProductsQuery = `
		SELECT product_id, product_name, category, product_price, score, product_desc, product_pic, product_pic_second, created_at, updated_at
		FROM product
		ORDER BY product_id
	`
	listByCategoryIDQuery = `
		SELECT p.product_id, p.product_name, p.category, p.product_price, p.score, p.product_desc, p.product_pic, p.product_pic_second, p.created_at, p.updated_at
		FROM product p
		JOIN category c ON p.category = c."categoryName"
		WHERE c."categoryID" = $1
		ORDER BY p.product_id
	`
	getProductByIDQuery = `
		SELECT product_id, product_name, category, product_price, score, product_desc, product_pic, product_pic_second, created_at, updated_at
		FROM product
		WHERE product_id = $1
	`
	insertProductQuery = `
		INSERT INTO product (product_name, category, product_price, score, product_desc, product_pic, product_pic_second, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING product_id
	`
	updateProductQuery = `
		UPDATE product
		SET product_name = $1,
			category = $2,
			product_price = $3,
			score = $4,
			product_desc = $5,
			product_pic = $6,
			product_pic_second = $7,
			updated_at = $8
		WHERE product_id = $9
	`
	deleteProductQuery = `DELETE FROM product WHERE product_id = $1`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List() []Product {
	rows, err := r.db.Query(listProductsQuery)
	if err != nil {
		return []Product{}
	}
	defer rows.Close()

	out := make([]Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			continue
		}
		out = append(out, p)
	}
	return out
}

// ListByCategoryID returns products whose category matches the name stored in
// the category table for the given numeric ID. The join avoids having to
// perform two queries in the service layer.
func (r *PostgresRepository) ListByCategoryID(catID int) []Product {
	rows, err := r.db.Query(listByCategoryIDQuery, catID)
	if err != nil {
		return []Product{}
	}
	defer rows.Close()

	out := make([]Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			continue
		}
		out = append(out, p)
	}
	return out
}

func (r *PostgresRepository) GetByID(id int) (Product, error) {
	row := r.db.QueryRow(getProductByIDQuery, id)
	p, err := scanProduct(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return Product{}, ErrNotFound
		}
		return Product{}, err
	}
	return p, nil
}

func (r *PostgresRepository) Create(p Product) (Product, error) {
	var id int
	err := r.db.QueryRow(
		insertProductQuery,
		p.Name,
		p.Category,
		p.Price,
		p.Score,
		p.Description,
		p.Pic,
		p.PicSecond,
		p.CreatedAt,
		p.UpdatedAt,
	).Scan(&id)
	if err != nil {
		return Product{}, err
	}
	p.ID = id
	return p, nil
}

func (r *PostgresRepository) Update(id int, p Product) (Product, error) {
	result, err := r.db.Exec(
		updateProductQuery,
		p.Name,
		p.Category,
		p.Price,
		p.Score,
		p.Description,
		p.Pic,
		p.PicSecond,
		p.UpdatedAt,
		id,
	)
	if err != nil {
		return Product{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return Product{}, err
	}
	if affected == 0 {
		return Product{}, ErrNotFound
	}
	return r.GetByID(id)
}

func (r *PostgresRepository) Delete(id int) error {
	result, err := r.db.Exec(deleteProductQuery, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Reset deletes all products and inserts the provided list in a single
// transaction.
func (r *PostgresRepository) Reset(products []Product) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.Exec(`DELETE FROM product`); err != nil {
		return err
	}

	for _, p := range products {
		var id int
		err := tx.QueryRow(insertProductQuery,
			p.Name,
			p.Category,
			p.Price,
			p.Score,
			p.Description,
			p.Pic,
			p.PicSecond,
			p.CreatedAt,
			p.UpdatedAt,
		).Scan(&id)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(scanner rowScanner) (Product, error) {
	p := Product{}
	var category sql.NullString
	var pic sql.NullString
	var picSecond sql.NullString
	var createdAt sql.NullString
	var updatedAt sql.NullString

	if err := scanner.Scan(
		&p.ID,
		&p.Name,
		&category,
		&p.Price,
		&p.Score,
		&p.Description,
		&pic,
		&picSecond,
		&createdAt,
		&updatedAt,
	); err != nil {
		return Product{}, err
	}

	if category.Valid {
		p.Category = &category.String
	}
	if pic.Valid {
		p.Pic = &pic.String
	}
	if picSecond.Valid {
		p.PicSecond = &picSecond.String
	}
	if createdAt.Valid {
		p.CreatedAt = &createdAt.String
	}
	if updatedAt.Valid {
		p.UpdatedAt = &updatedAt.String
	}

	return p, nil
}
