package customers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sangkips/records-service/internal/apperrors"
	"github.com/sangkips/records-service/internal/db"
	"github.com/sangkips/records-service/internal/domains/customers/models"
)

type Repository interface {
	// WithTx returns a Repository bound to an open transaction.
	WithTx(tx models.DBTX) Repository
	CreateCustomer(ctx context.Context, params models.CreateCustomerParams) (models.Customer, error)
	GetCustomer(ctx context.Context, id int64) (models.Customer, error)
	ListCustomers(ctx context.Context) ([]models.Customer, error)
	UpdateCustomer(ctx context.Context, params models.UpdateCustomerParams) (models.Customer, error)
	DeleteCustomer(ctx context.Context, id int64) error
	PhoneNumberTaken(ctx context.Context, phoneNumber string, excludeID int64) (bool, error)
	CountOrders(ctx context.Context, customerID int64) (int64, error)
}

type repository struct {
	q *models.Queries
}

func NewRepository(db models.DBTX) Repository {
	return &repository{q: models.New(db)}
}

func (r *repository) WithTx(tx models.DBTX) Repository {
	return &repository{q: r.q.WithTx(tx)}
}

func (r *repository) CreateCustomer(ctx context.Context, params models.CreateCustomerParams) (models.Customer, error) {
	customer, err := r.q.CreateCustomer(ctx, params)
	if err != nil {
		return models.Customer{}, translate(err, "create customer")
	}
	return customer, nil
}

func (r *repository) GetCustomer(ctx context.Context, id int64) (models.Customer, error) {
	customer, err := r.q.GetCustomer(ctx, id)
	if err != nil {
		return models.Customer{}, translate(err, "get customer")
	}
	return customer, nil
}

func (r *repository) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	customers, err := r.q.ListCustomers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	return customers, nil
}

func (r *repository) UpdateCustomer(ctx context.Context, params models.UpdateCustomerParams) (models.Customer, error) {
	customer, err := r.q.UpdateCustomer(ctx, params)
	if err != nil {
		return models.Customer{}, translate(err, "update customer")
	}
	return customer, nil
}

func (r *repository) DeleteCustomer(ctx context.Context, id int64) error {
	affected, err := r.q.DeleteCustomer(ctx, id)
	if err != nil {
		return translate(err, "delete customer")
	}
	if affected == 0 {
		return apperrors.NotFound(MsgNotFound)
	}
	return nil
}

func (r *repository) PhoneNumberTaken(ctx context.Context, phoneNumber string, excludeID int64) (bool, error) {
	count, err := r.q.CountCustomersWithPhone(ctx, models.CountCustomersWithPhoneParams{
		PhoneNumber: phoneNumber,
		ExcludeID:   excludeID,
	})
	if err != nil {
		return false, fmt.Errorf("count customers with phone: %w", err)
	}
	return count > 0, nil
}

func (r *repository) CountOrders(ctx context.Context, customerID int64) (int64, error) {
	count, err := r.q.CountOrdersForCustomer(ctx, customerID)
	if err != nil {
		return 0, fmt.Errorf("count orders for customer: %w", err)
	}
	return count, nil
}

// translate turns constraint failures into the rejections the pre-checks would have produced.
func translate(err error, op string) error {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return apperrors.NotFound(MsgNotFound)
	case db.IsUniqueViolation(err):
		return apperrors.Conflict(MsgDuplicatePhone)
	case db.IsForeignKeyViolation(err):
		return apperrors.Conflict(MsgHasOrdersUnknownCount)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
