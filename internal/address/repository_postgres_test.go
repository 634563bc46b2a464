package address

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func addressRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"addressID", "userID", "addressDesc", "phone", "addressName", "createdAt", "updatedAt"})
}

func TestPostgresGetAddresses(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	rows := addressRows().
		AddRow(1, 42, "12 Baker Lane, Pune 411001", "9876543210", "Home", "t", "u").
		AddRow(2, 42, "4 Mill Road, Pune 411002", "9123456780", "Office", "t2", "u2")
	mock.ExpectQuery(`WHERE "userID"`).WithArgs(42).WillReturnRows(rows)

	addrs, err := repo.GetAddresses(42)
	if err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}
	if len(addrs) != 2 || addrs[0].AddressName != "Home" {
		t.Fatalf("unexpected addresses %+v", addrs)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresAddAddress_PassesTimestamp(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	rows := addressRows().
		AddRow(3, 42, "12 Baker Lane", "9876543210", "Home", "2026-09-01T10:00:00Z", "2026-09-01T10:00:00Z")
	mock.ExpectQuery("INSERT INTO address").
		WithArgs(42, "12 Baker Lane", "9876543210", "Home", "2026-09-01T10:00:00Z").
		WillReturnRows(rows)

	a, err := repo.AddAddress(42, "12 Baker Lane", "9876543210", "Home", "2026-09-01T10:00:00Z")
	if err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}
	if a.AddressID != 3 || a.CreatedAt != "2026-09-01T10:00:00Z" {
		t.Fatalf("unexpected address %+v", a)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresUpdateAddress_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectQuery("UPDATE address").
		WithArgs(42, 99, "desc", "", "Home", "2026-09-01T10:00:00Z").
		WillReturnRows(addressRows())

	if _, err := repo.UpdateAddress(42, 99, "desc", "", "Home", "2026-09-01T10:00:00Z"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
