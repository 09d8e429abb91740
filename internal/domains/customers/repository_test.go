package customers

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sangkips/records-service/internal/apperrors"
	"github.com/sangkips/records-service/internal/db"
	"github.com/sangkips/records-service/internal/domains/customers/models"
)

var customerRowColumns = []string{"id", "name", "date_of_birth", "phone_number", "email", "company"}

func newMockRepo(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	return NewRepository(db.Wrap(sqlDB, db.Postgres)), mock
}

func TestRepository_CreateCustomer(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO customers (name, date_of_birth, phone_number, email, company)\nVALUES ($1, $2, $3, $4, $5)")).
		WithArgs("Ivan Ivanov", "1990-01-01", "79001234567", nil, "Acme").
		WillReturnRows(sqlmock.NewRows(customerRowColumns).
			AddRow(int64(1), "Ivan Ivanov", time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC), "79001234567", nil, "Acme"))

	customer, err := repo.CreateCustomer(context.Background(), models.CreateCustomerParams{
		Name:        "Ivan Ivanov",
		DateOfBirth: db.NewDate(time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)),
		PhoneNumber: "79001234567",
		Company:     sql.NullString{String: "Acme", Valid: true},
	})

	require.NoError(t, err)
	assert.Equal(t, int64(1), customer.ID)
	assert.Equal(t, "1990-01-01", customer.DateOfBirth.String())
	assert.False(t, customer.Email.Valid)
	assert.Equal(t, "Acme", customer.Company.String)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_CreateCustomer_UniqueViolation(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("INSERT INTO customers").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "customers_phone_number_key"})

	_, err := repo.CreateCustomer(context.Background(), models.CreateCustomerParams{Name: "Petr Petrov"})

	assert.True(t, apperrors.Is(err, apperrors.KindConflict))
	assert.Equal(t, MsgDuplicatePhone, apperrors.Message(err, ""))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetCustomer_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM customers WHERE id = $1")).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(customerRowColumns))

	_, err := repo.GetCustomer(context.Background(), 7)

	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_DeleteCustomer(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM customers WHERE id = $1")).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM customers WHERE id = $1")).
		WithArgs(int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM customers WHERE id = $1")).
		WithArgs(int64(5)).
		WillReturnError(&pgconn.PgError{Code: "23503"})

	assert.NoError(t, repo.DeleteCustomer(context.Background(), 3))
	assert.True(t, apperrors.Is(repo.DeleteCustomer(context.Background(), 4), apperrors.KindNotFound))

	err := repo.DeleteCustomer(context.Background(), 5)
	assert.True(t, apperrors.Is(err, apperrors.KindConflict))
	assert.Equal(t, MsgHasOrdersUnknownCount, apperrors.Message(err, ""))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_PhoneNumberTaken(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM customers WHERE phone_number = $1 AND id <> $2")).
		WithArgs("79001234567", int64(0)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(1)))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM customers WHERE phone_number = $1 AND id <> $2")).
		WithArgs("79001234567", int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(0)))

	taken, err := repo.PhoneNumberTaken(context.Background(), "79001234567", 0)
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = repo.PhoneNumberTaken(context.Background(), "79001234567", 1)
	require.NoError(t, err)
	assert.False(t, taken)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_CountOrders(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM orders WHERE customer_id = $1")).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(4)))

	count, err := repo.CountOrders(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, int64(4), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListCustomers(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM customers ORDER BY id")).
		WillReturnRows(sqlmock.NewRows(customerRowColumns).
			AddRow(int64(1), "Ivan Ivanov", "1990-01-01", "79001234567", "ivan@example.com", nil).
			AddRow(int64(2), "Anna Smirnova", "1985-03-14", "89161234567", nil, nil))

	customers, err := repo.ListCustomers(context.Background())
	require.NoError(t, err)
	require.Len(t, customers, 2)
	assert.Equal(t, "ivan@example.com", customers[0].Email.String)
	assert.Equal(t, "1985-03-14", customers[1].DateOfBirth.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}
