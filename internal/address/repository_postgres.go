package address

import (
	"database/sql"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	addressColumns = `"addressID", "userID", "addressDesc", phone, "addressName", "createdAt", "updatedAt"`

	listAddressesQuery = `
		SELECT ` + addressColumns + `
		FROM address
		WHERE "userID" = $1
		ORDER BY "addressID"
	`
	insertAddressQuery = `
		INSERT INTO address ("userID", "addressDesc", phone, "addressName", "createdAt", "updatedAt")
		VALUES ($1, $2, $3, $4, $5, $5)
		RETURNING ` + addressColumns + `
	`
	updateAddressQuery = `
		UPDATE address
		SET "addressDesc" = $3, phone = $4, "addressName" = $5, "updatedAt" = $6
		WHERE "userID" = $1 AND "addressID" = $2
		RETURNING ` + addressColumns + `
	`
	deleteAddressQuery = `DELETE FROM address WHERE "userID" = $1 AND "addressID" = $2`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *PostgresRepository) GetAddresses(userID int) ([]Address, error) {
	rows, err := r.db.Query(listAddressesQuery, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Address, 0)
	for rows.Next() {
		a, err := scanAddress(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) AddAddress(userID int, addressDesc, phone, addressName, now string) (Address, error) {
	row := r.db.QueryRow(insertAddressQuery, userID, addressDesc, phone, addressName, now)
	a, err := scanAddress(row)
	if err != nil {
		return Address{}, err
	}
	return a, nil
}

func (r *PostgresRepository) UpdateAddress(userID int, addressID int, addressDesc, phone, addressName, now string) (Address, error) {
	row := r.db.QueryRow(updateAddressQuery, userID, addressID, addressDesc, phone, addressName, now)
	a, err := scanAddress(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return Address{}, ErrNotFound
		}
		return Address{}, err
	}
	return a, nil
}

func (r *PostgresRepository) DeleteAddress(userID int, addressID int) error {
	res, err := r.db.Exec(deleteAddressQuery, userID, addressID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanAddress(row rowScanner) (Address, error) {
	var (
		a         Address
		desc      sql.NullString
		phone     sql.NullString
		name      sql.NullString
		createdAt sql.NullString
		updatedAt sql.NullString
	)
	if err := row.Scan(&a.AddressID, &a.UserID, &desc, &phone, &name, &createdAt, &updatedAt); err != nil {
		return Address{}, err
	}
	a.AddressDesc = desc.String
	a.Phone = phone.String
	a.AddressName = name.String
	a.CreatedAt = createdAt.String
	a.UpdatedAt = updatedAt.String
	return a, nil
}
