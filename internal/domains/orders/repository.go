package orders

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sangkips/records-service/internal/apperrors"
	"github.com/sangkips/records-service/internal/db"
	"github.com/sangkips/records-service/internal/domains/orders/models"
)

type Repository interface {
	WithTx(tx models.DBTX) Repository
	CreateOrder(ctx context.Context, params models.CreateOrderParams) (models.Order, error)
	GetOrder(ctx context.Context, id int64) (models.Order, error)
	ListOrders(ctx context.Context) ([]models.OrderRow, error)
	UpdateOrder(ctx context.Context, params models.UpdateOrderParams) (models.Order, error)
	DeleteOrder(ctx context.Context, id int64) error
	CustomerExists(ctx context.Context, id int64) (bool, error)
	ServiceExists(ctx context.Context, id int64) (bool, error)
	ListCustomerOptions(ctx context.Context) ([]models.CustomerOption, error)
	ListServiceOptions(ctx context.Context) ([]models.ServiceOption, error)
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

func (r *repository) CreateOrder(ctx context.Context, params models.CreateOrderParams) (models.Order, error) {
	order, err := r.q.CreateOrder(ctx, params)
	if err != nil {
		return models.Order{}, translate(err, "create order")
	}
	return order, nil
}

func (r *repository) GetOrder(ctx context.Context, id int64) (models.Order, error) {
	order, err := r.q.GetOrder(ctx, id)
	if err != nil {
		return models.Order{}, translate(err, "get order")
	}
	return order, nil
}

func (r *repository) ListOrders(ctx context.Context) ([]models.OrderRow, error) {
	orders, err := r.q.ListOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

func (r *repository) UpdateOrder(ctx context.Context, params models.UpdateOrderParams) (models.Order, error) {
	order, err := r.q.UpdateOrder(ctx, params)
	if err != nil {
		return models.Order{}, translate(err, "update order")
	}
	return order, nil
}

func (r *repository) DeleteOrder(ctx context.Context, id int64) error {
	affected, err := r.q.DeleteOrder(ctx, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if affected == 0 {
		return apperrors.NotFound(MsgNotFound)
	}
	return nil
}

func (r *repository) CustomerExists(ctx context.Context, id int64) (bool, error) {
	count, err := r.q.CountCustomers(ctx, id)
	if err != nil {
		return false, fmt.Errorf("look up customer: %w", err)
	}
	return count > 0, nil
}

func (r *repository) ServiceExists(ctx context.Context, id int64) (bool, error) {
	count, err := r.q.CountServices(ctx, id)
	if err != nil {
		return false, fmt.Errorf("look up service: %w", err)
	}
	return count > 0, nil
}

func (r *repository) ListCustomerOptions(ctx context.Context) ([]models.CustomerOption, error) {
	options, err := r.q.ListCustomerOptions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list customer options: %w", err)
	}
	return options, nil
}

func (r *repository) ListServiceOptions(ctx context.Context) ([]models.ServiceOption, error) {
	options, err := r.q.ListServiceOptions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list service options: %w", err)
	}
	return options, nil
}

func translate(err error, op string) error {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return apperrors.NotFound(MsgNotFound)
	case db.IsForeignKeyViolation(err):
		return apperrors.Reference(MsgReferenceGone)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
