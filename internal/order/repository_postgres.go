package order

import (
	"database/sql"
	"encoding/json"

	"github.com/lib/pq"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const orderColumns = `"orderID", "userID", reference, items, contact, shipping, "paymentMethod", notes,
        "itemsPrice", "taxPrice", "shippingPrice", "totalPrice", "paymentStatus", status,
        "gatewayOrderID", "gatewayPaymentID", "createdAt", "updatedAt"`

func (r *PostgresRepository) Create(ord Order) (Order, error) {
	itemsJSON, err := json.Marshal(ord.Items)
	if err != nil {
		return Order{}, err
	}
	contactJSON, err := json.Marshal(ord.Contact)
	if err != nil {
		return Order{}, err
	}
	shippingJSON, err := json.Marshal(ord.Shipping)
	if err != nil {
		return Order{}, err
	}

	err = r.db.QueryRow(`INSERT INTO orders ("userID", reference, items, contact, shipping, "paymentMethod", notes,
            "itemsPrice", "taxPrice", "shippingPrice", "totalPrice", "paymentStatus", status,
            "gatewayOrderID", "gatewayPaymentID", "createdAt", "updatedAt")
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
        RETURNING "orderID"`,
		ord.UserID, ord.Reference, itemsJSON, contactJSON, shippingJSON, ord.PaymentMethod, ord.Notes,
		ord.ItemsPrice, ord.TaxPrice, ord.ShippingPrice, ord.TotalPrice, string(ord.PaymentStatus), string(ord.Status),
		ord.GatewayOrderID, ord.GatewayPaymentID, ord.CreatedAt, ord.UpdatedAt).Scan(&ord.ID)
	if err != nil {
		return Order{}, err
	}
	return ord, nil
}

func (r *PostgresRepository) GetByID(id int) (Order, error) {
	row := r.db.QueryRow(`SELECT `+orderColumns+` FROM orders WHERE "orderID" = $1`, id)
	ord, err := scanOrder(row)
	if err == sql.ErrNoRows {
		return Order{}, ErrNotFound
	}
	return ord, err
}

func (r *PostgresRepository) ListByUser(userID int) ([]Order, error) {
	rows, err := r.db.Query(`SELECT `+orderColumns+` FROM orders WHERE "userID" = $1 ORDER BY "orderID" DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]Order, 0)
	for rows.Next() {
		ord, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, ord)
	}
	return orders, rows.Err()
}

// ListByIDs returns the orders for the given ids, ordered like the ids
// argument (admin surface uses this for bulk views).
func (r *PostgresRepository) ListByIDs(ids []int) ([]Order, error) {
	if len(ids) == 0 {
		return []Order{}, nil
	}
	rows, err := r.db.Query(`SELECT `+orderColumns+` FROM orders
        WHERE "orderID" = ANY($1::int[])
        ORDER BY array_position($1::int[], "orderID")`, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]Order, 0, len(ids))
	for rows.Next() {
		ord, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, ord)
	}
	return orders, rows.Err()
}

func (r *PostgresRepository) UpdateStatus(id int, status Status, updatedAt string) (Order, error) {
	res, err := r.db.Exec(`UPDATE orders SET status = $1, "updatedAt" = $2 WHERE "orderID" = $3`,
		string(status), updatedAt, id)
	if err != nil {
		return Order{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return Order{}, ErrNotFound
	}
	return r.GetByID(id)
}

func (r *PostgresRepository) UpdatePayment(id int, ps PaymentStatus, status Status, gatewayOrderID, gatewayPaymentID, updatedAt string) (Order, error) {
	res, err := r.db.Exec(`UPDATE orders SET "paymentStatus" = $1, status = $2, "gatewayOrderID" = $3, "gatewayPaymentID" = $4, "updatedAt" = $5
        WHERE "orderID" = $6`,
		string(ps), string(status), gatewayOrderID, gatewayPaymentID, updatedAt, id)
	if err != nil {
		return Order{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return Order{}, ErrNotFound
	}
	return r.GetByID(id)
}

func (r *PostgresRepository) SetPaymentMethod(id int, method, updatedAt string) (Order, error) {
	res, err := r.db.Exec(`UPDATE orders SET "paymentMethod" = $1, "updatedAt" = $2 WHERE "orderID" = $3`,
		method, updatedAt, id)
	if err != nil {
		return Order{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return Order{}, ErrNotFound
	}
	return r.GetByID(id)
}

func (r *PostgresRepository) SetGatewayOrderID(id int, gatewayOrderID, updatedAt string) (Order, error) {
	res, err := r.db.Exec(`UPDATE orders SET "gatewayOrderID" = $1, "updatedAt" = $2 WHERE "orderID" = $3`,
		gatewayOrderID, updatedAt, id)
	if err != nil {
		return Order{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return Order{}, ErrNotFound
	}
	return r.GetByID(id)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (Order, error) {
	var ord Order
	var itemsJSON, contactJSON, shippingJSON []byte
	var ps, st string
	if err := row.Scan(&ord.ID, &ord.UserID, &ord.Reference, &itemsJSON, &contactJSON, &shippingJSON,
		&ord.PaymentMethod, &ord.Notes, &ord.ItemsPrice, &ord.TaxPrice, &ord.ShippingPrice, &ord.TotalPrice,
		&ps, &st, &ord.GatewayOrderID, &ord.GatewayPaymentID, &ord.CreatedAt, &ord.UpdatedAt); err != nil {
		return Order{}, err
	}
	ord.PaymentStatus = PaymentStatus(ps)
	ord.Status = Status(st)
	if err := json.Unmarshal(itemsJSON, &ord.Items); err != nil {
		return Order{}, err
	}
	if err := json.Unmarshal(contactJSON, &ord.Contact); err != nil {
		return Order{}, err
	}
	if err := json.Unmarshal(shippingJSON, &ord.Shipping); err != nil {
		return Order{}, err
	}
	return ord, nil
}
