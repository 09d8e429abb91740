package models

import (
	"context"

	"github.com/sangkips/records-service/internal/db"
)

const orderColumns = `id, customer_id, service_id, order_date`

func scanOrder(row interface{ Scan(...interface{}) error }) (Order, error) {
	var i Order
	err := row.Scan(
		&i.ID,
		&i.CustomerID,
		&i.ServiceID,
		&i.OrderDate,
	)
	return i, err
}

const createOrder = `
INSERT INTO orders (customer_id, service_id, order_date)
VALUES (?, ?, ?)
RETURNING ` + orderColumns

type CreateOrderParams struct {
	CustomerID int64
	ServiceID  int64
	OrderDate  db.Date
}

func (q *Queries) CreateOrder(ctx context.Context, arg CreateOrderParams) (Order, error) {
	row := q.db.QueryRowContext(ctx, createOrder, arg.CustomerID, arg.ServiceID, arg.OrderDate)
	return scanOrder(row)
}

const getOrder = `SELECT ` + orderColumns + ` FROM orders WHERE id = ?`

func (q *Queries) GetOrder(ctx context.Context, id int64) (Order, error) {
	return scanOrder(q.db.QueryRowContext(ctx, getOrder, id))
}

const listOrders = `
SELECT o.id, o.customer_id, c.name, o.service_id, s.service_name, o.order_date
FROM orders o
JOIN customers c ON c.id = o.customer_id
JOIN services s ON s.id = o.service_id
ORDER BY o.id`

func (q *Queries) ListOrders(ctx context.Context) ([]OrderRow, error) {
	rows, err := q.db.QueryContext(ctx, listOrders)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []OrderRow
	for rows.Next() {
		var i OrderRow
		if err := rows.Scan(
			&i.ID,
			&i.CustomerID,
			&i.CustomerName,
			&i.ServiceID,
			&i.ServiceName,
			&i.OrderDate,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const updateOrder = `
UPDATE orders
SET customer_id = ?, service_id = ?, order_date = ?
WHERE id = ?
RETURNING ` + orderColumns

type UpdateOrderParams struct {
	ID         int64
	CustomerID int64
	ServiceID  int64
	OrderDate  db.Date
}

func (q *Queries) UpdateOrder(ctx context.Context, arg UpdateOrderParams) (Order, error) {
	row := q.db.QueryRowContext(ctx, updateOrder, arg.CustomerID, arg.ServiceID, arg.OrderDate, arg.ID)
	return scanOrder(row)
}

const deleteOrder = `DELETE FROM orders WHERE id = ?`

func (q *Queries) DeleteOrder(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteOrder, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const countCustomers = `SELECT COUNT(*) FROM customers WHERE id = ?`

func (q *Queries) CountCustomers(ctx context.Context, id int64) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countCustomers, id).Scan(&count)
	return count, err
}

const countServices = `SELECT COUNT(*) FROM services WHERE id = ?`

func (q *Queries) CountServices(ctx context.Context, id int64) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countServices, id).Scan(&count)
	return count, err
}

const listCustomerOptions = `SELECT id, name FROM customers ORDER BY name, id`

func (q *Queries) ListCustomerOptions(ctx context.Context) ([]CustomerOption, error) {
	rows, err := q.db.QueryContext(ctx, listCustomerOptions)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []CustomerOption
	for rows.Next() {
		var i CustomerOption
		if err := rows.Scan(&i.ID, &i.Name); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listServiceOptions = `SELECT id, service_name FROM services ORDER BY service_name, id`

func (q *Queries) ListServiceOptions(ctx context.Context) ([]ServiceOption, error) {
	rows, err := q.db.QueryContext(ctx, listServiceOptions)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ServiceOption
	for rows.Next() {
		var i ServiceOption
		if err := rows.Scan(&i.ID, &i.ServiceName); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
