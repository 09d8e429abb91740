package models

import (
	"context"
	"database/sql"

	"github.com/sangkips/records-service/internal/db"
)

const customerColumns = `id, name, date_of_birth, phone_number, email, company`

func scanCustomer(row interface{ Scan(...interface{}) error }) (Customer, error) {
	var i Customer
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.DateOfBirth,
		&i.PhoneNumber,
		&i.Email,
		&i.Company,
	)
	return i, err
}

const createCustomer = `
INSERT INTO customers (name, date_of_birth, phone_number, email, company)
VALUES (?, ?, ?, ?, ?)
RETURNING ` + customerColumns

type CreateCustomerParams struct {
	Name        string
	DateOfBirth db.Date
	PhoneNumber string
	Email       sql.NullString
	Company     sql.NullString
}

func (q *Queries) CreateCustomer(ctx context.Context, arg CreateCustomerParams) (Customer, error) {
	row := q.db.QueryRowContext(ctx, createCustomer,
		arg.Name,
		arg.DateOfBirth,
		arg.PhoneNumber,
		arg.Email,
		arg.Company,
	)
	return scanCustomer(row)
}

const getCustomer = `SELECT ` + customerColumns + ` FROM customers WHERE id = ?`

func (q *Queries) GetCustomer(ctx context.Context, id int64) (Customer, error) {
	return scanCustomer(q.db.QueryRowContext(ctx, getCustomer, id))
}

const listCustomers = `SELECT ` + customerColumns + ` FROM customers ORDER BY id`

func (q *Queries) ListCustomers(ctx context.Context) ([]Customer, error) {
	rows, err := q.db.QueryContext(ctx, listCustomers)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Customer
	for rows.Next() {
		i, err := scanCustomer(rows)
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

const updateCustomer = `
UPDATE customers
SET name = ?, date_of_birth = ?, phone_number = ?, email = ?, company = ?
WHERE id = ?
RETURNING ` + customerColumns

type UpdateCustomerParams struct {
	ID          int64
	Name        string
	DateOfBirth db.Date
	PhoneNumber string
	Email       sql.NullString
	Company     sql.NullString
}

func (q *Queries) UpdateCustomer(ctx context.Context, arg UpdateCustomerParams) (Customer, error) {
	row := q.db.QueryRowContext(ctx, updateCustomer,
		arg.Name,
		arg.DateOfBirth,
		arg.PhoneNumber,
		arg.Email,
		arg.Company,
		arg.ID,
	)
	return scanCustomer(row)
}

const deleteCustomer = `DELETE FROM customers WHERE id = ?`

func (q *Queries) DeleteCustomer(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteCustomer, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const countCustomersWithPhone = `SELECT COUNT(*) FROM customers WHERE phone_number = ? AND id <> ?`

type CountCustomersWithPhoneParams struct {
	PhoneNumber string
	ExcludeID   int64
}

func (q *Queries) CountCustomersWithPhone(ctx context.Context, arg CountCustomersWithPhoneParams) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countCustomersWithPhone, arg.PhoneNumber, arg.ExcludeID).Scan(&count)
	return count, err
}

const countOrdersForCustomer = `SELECT COUNT(*) FROM orders WHERE customer_id = ?`

func (q *Queries) CountOrdersForCustomer(ctx context.Context, customerID int64) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countOrdersForCustomer, customerID).Scan(&count)
	return count, err
}
