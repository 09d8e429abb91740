package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sangkips/records-service/internal/apperrors"
	"github.com/sangkips/records-service/internal/db"
	"github.com/sangkips/records-service/internal/domains/services/models"
)

type Repository interface {
	WithTx(tx models.DBTX) Repository
	CreateService(ctx context.Context, params models.CreateServiceParams) (models.Service, error)
	GetService(ctx context.Context, id int64) (models.Service, error)
	ListServices(ctx context.Context) ([]models.Service, error)
	UpdateService(ctx context.Context, params models.UpdateServiceParams) (models.Service, error)
	DeleteService(ctx context.Context, id int64) error
	CountOrders(ctx context.Context, serviceID int64) (int64, error)
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

func (r *repository) CreateService(ctx context.Context, params models.CreateServiceParams) (models.Service, error) {
	service, err := r.q.CreateService(ctx, params)
	if err != nil {
		return models.Service{}, fmt.Errorf("create service: %w", err)
	}
	return service, nil
}

func (r *repository) GetService(ctx context.Context, id int64) (models.Service, error) {
	service, err := r.q.GetService(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Service{}, apperrors.NotFound(MsgNotFound)
	}
	if err != nil {
		return models.Service{}, fmt.Errorf("get service: %w", err)
	}
	return service, nil
}

func (r *repository) ListServices(ctx context.Context) ([]models.Service, error) {
	services, err := r.q.ListServices(ctx)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	return services, nil
}

func (r *repository) UpdateService(ctx context.Context, params models.UpdateServiceParams) (models.Service, error) {
	service, err := r.q.UpdateService(ctx, params)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Service{}, apperrors.NotFound(MsgNotFound)
	}
	if err != nil {
		return models.Service{}, fmt.Errorf("update service: %w", err)
	}
	return service, nil
}

func (r *repository) DeleteService(ctx context.Context, id int64) error {
	affected, err := r.q.DeleteService(ctx, id)
	if db.IsForeignKeyViolation(err) {
		return apperrors.Conflict(MsgHasOrdersUnknownCount)
	}
	if err != nil {
		return fmt.Errorf("delete service: %w", err)
	}
	if affected == 0 {
		return apperrors.NotFound(MsgNotFound)
	}
	return nil
}

func (r *repository) CountOrders(ctx context.Context, serviceID int64) (int64, error) {
	count, err := r.q.CountOrdersForService(ctx, serviceID)
	if err != nil {
		return 0, fmt.Errorf("count orders for service: %w", err)
	}
	return count, nil
}
