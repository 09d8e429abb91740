package models

import (
	"context"
	"database/sql"
)

const serviceColumns = `id, service_name, description, price`

func scanService(row interface{ Scan(...interface{}) error }) (Service, error) {
	var i Service
	err := row.Scan(
		&i.ID,
		&i.ServiceName,
		&i.Description,
		&i.Price,
	)
	return i, err
}

const createService = `
INSERT INTO services (service_name, description, price)
VALUES (?, ?, ?)
RETURNING ` + serviceColumns

type CreateServiceParams struct {
	ServiceName string
	Description sql.NullString
	Price       float64
}

func (q *Queries) CreateService(ctx context.Context, arg CreateServiceParams) (Service, error) {
	row := q.db.QueryRowContext(ctx, createService, arg.ServiceName, arg.Description, arg.Price)
	return scanService(row)
}

const getService = `SELECT ` + serviceColumns + ` FROM services WHERE id = ?`

func (q *Queries) GetService(ctx context.Context, id int64) (Service, error) {
	return scanService(q.db.QueryRowContext(ctx, getService, id))
}

const listServices = `SELECT ` + serviceColumns + ` FROM services ORDER BY id`

func (q *Queries) ListServices(ctx context.Context) ([]Service, error) {
	rows, err := q.db.QueryContext(ctx, listServices)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Service
	for rows.Next() {
		i, err := scanService(rows)
		if err != nil {
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

const updateService = `
UPDATE services
SET service_name = ?, description = ?, price = ?
WHERE id = ?
RETURNING ` + serviceColumns

type UpdateServiceParams struct {
	ID          int64
	ServiceName string
	Description sql.NullString
	Price       float64
}

func (q *Queries) UpdateService(ctx context.Context, arg UpdateServiceParams) (Service, error) {
	row := q.db.QueryRowContext(ctx, updateService, arg.ServiceName, arg.Description, arg.Price, arg.ID)
	return scanService(row)
}

const deleteService = `DELETE FROM services WHERE id = ?`

func (q *Queries) DeleteService(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteService, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const countOrdersForService = `SELECT COUNT(*) FROM orders WHERE service_id = ?`

func (q *Queries) CountOrdersForService(ctx context.Context, serviceID int64) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countOrdersForService, serviceID).Scan(&count)
	return count, err
}
