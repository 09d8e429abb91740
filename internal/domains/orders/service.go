package orders

import (
	"context"
	"strconv"
	"strings"

	"github.com/sangkips/records-service/internal/apperrors"
	"github.com/sangkips/records-service/internal/db"
	"github.com/sangkips/records-service/internal/domains/orders/models"
	"github.com/sangkips/records-service/internal/mutation"
	"github.com/sangkips/records-service/internal/queue"
	"github.com/sangkips/records-service/internal/validation"
)

const Entity = "order"

const (
	MsgCustomerRequired = "Please select a customer"
	MsgServiceRequired  = "Please select a service"
	MsgCustomerMissing  = "The selected customer does not exist"
	MsgServiceMissing   = "The selected service does not exist"
	MsgNotFound         = "Order not found"

	// Used when a foreign key, not the pre-check, caught a reference deleted concurrently.
	MsgReferenceGone = "The selected customer or service no longer exists"

	MsgCreated = "Order placed"
	MsgUpdated = "Order updated"
	MsgDeleted = "Order deleted"

	MsgCreateFailed = "An error occurred while placing the order"
	MsgUpdateFailed = "An error occurred while updating the order"
	MsgDeleteFailed = "An error occurred while deleting the order"
)

type OrderForm struct {
	CustomerID string
	ServiceID  string
	OrderDate  string
}

func FormFromOrder(o models.Order) OrderForm {
	return OrderForm{
		CustomerID: strconv.FormatInt(o.CustomerID, 10),
		ServiceID:  strconv.FormatInt(o.ServiceID, 10),
		OrderDate:  o.OrderDate.String(),
	}
}

// Options are the choices offered by the order form.
type Options struct {
	Customers []models.CustomerOption
	Services  []models.ServiceOption
}

type Service struct {
	repo      Repository
	validator *validation.Validator
	mutations *mutation.Orchestrator
}

func NewService(repo Repository, validator *validation.Validator, mutations *mutation.Orchestrator) *Service {
	return &Service{
		repo:      repo,
		validator: validator,
		mutations: mutations,
	}
}

func (s *Service) List(ctx context.Context) ([]models.OrderRow, error) {
	return s.repo.ListOrders(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (models.Order, error) {
	return s.repo.GetOrder(ctx, id)
}

func (s *Service) Options(ctx context.Context) (Options, error) {
	customers, err := s.repo.ListCustomerOptions(ctx)
	if err != nil {
		return Options{}, err
	}
	services, err := s.repo.ListServiceOptions(ctx)
	if err != nil {
		return Options{}, err
	}
	return Options{Customers: customers, Services: services}, nil
}

// Today is the date an order gets when none was submitted.
func (s *Service) Today() string {
	return s.validator.Today().Format(validation.DateLayout)
}

func (s *Service) Validate(form OrderForm) error {
	v := s.validator
	return validation.Run(
		v.Field(form.CustomerID, "filled", MsgCustomerRequired),
		v.Field(form.ServiceID, "filled", MsgServiceRequired),
		v.OrderDateCheck(form.OrderDate),
	)
}

func (s *Service) Create(ctx context.Context, form OrderForm) (int64, error) {
	return s.mutations.Execute(ctx, mutation.Mutation{
		Entity:         Entity,
		Action:         queue.ActionCreated,
		FailureMessage: MsgCreateFailed,
		Validate:       func() error { return s.Validate(form) },
		Apply: func(ctx context.Context, tx db.DBTX) (int64, error) {
			repo := s.repo.WithTx(tx)

			params, err := s.resolve(ctx, repo, form)
			if err != nil {
				return 0, err
			}

			order, err := repo.CreateOrder(ctx, models.CreateOrderParams{
				CustomerID: params.CustomerID,
				ServiceID:  params.ServiceID,
				OrderDate:  params.OrderDate,
			})
			if err != nil {
				return 0, err
			}
			return order.ID, nil
		},
	})
}

func (s *Service) Update(ctx context.Context, id int64, form OrderForm) error {
	_, err := s.mutations.Execute(ctx, mutation.Mutation{
		Entity:         Entity,
		Action:         queue.ActionUpdated,
		FailureMessage: MsgUpdateFailed,
		Validate:       func() error { return s.Validate(form) },
		Apply: func(ctx context.Context, tx db.DBTX) (int64, error) {
			repo := s.repo.WithTx(tx)

			if _, err := repo.GetOrder(ctx, id); err != nil {
				return 0, err
			}

			params, err := s.resolve(ctx, repo, form)
			if err != nil {
				return 0, err
			}

			order, err := repo.UpdateOrder(ctx, models.UpdateOrderParams{
				ID:         id,
				CustomerID: params.CustomerID,
				ServiceID:  params.ServiceID,
				OrderDate:  params.OrderDate,
			})
			if err != nil {
				return 0, err
			}
			return order.ID, nil
		},
	})
	return err
}

// Delete removes an order. Nothing depends on orders, so there is no guard.
func (s *Service) Delete(ctx context.Context, id int64) error {
	_, err := s.mutations.Execute(ctx, mutation.Mutation{
		Entity:         Entity,
		Action:         queue.ActionDeleted,
		FailureMessage: MsgDeleteFailed,
		Apply: func(ctx context.Context, tx db.DBTX) (int64, error) {
			if err := s.repo.WithTx(tx).DeleteOrder(ctx, id); err != nil {
				return 0, err
			}
			return id, nil
		},
	})
	return err
}

// resolve checks both references and settles the order date. An empty date becomes today.
func (s *Service) resolve(ctx context.Context, repo Repository, form OrderForm) (models.CreateOrderParams, error) {
	customerID, err := parseID(form.CustomerID)
	if err != nil {
		return models.CreateOrderParams{}, apperrors.Reference(MsgCustomerMissing)
	}
	ok, err := repo.CustomerExists(ctx, customerID)
	if err != nil {
		return models.CreateOrderParams{}, err
	}
	if !ok {
		return models.CreateOrderParams{}, apperrors.Reference(MsgCustomerMissing)
	}

	serviceID, err := parseID(form.ServiceID)
	if err != nil {
		return models.CreateOrderParams{}, apperrors.Reference(MsgServiceMissing)
	}
	ok, err = repo.ServiceExists(ctx, serviceID)
	if err != nil {
		return models.CreateOrderParams{}, err
	}
	if !ok {
		return models.CreateOrderParams{}, apperrors.Reference(MsgServiceMissing)
	}

	orderDate := s.validator.Today()
	if strings.TrimSpace(form.OrderDate) != "" {
		orderDate, err = validation.ParseDate(form.OrderDate)
		if err != nil {
			return models.CreateOrderParams{}, apperrors.Validation(validation.MsgDateMalformed)
		}
	}

	return models.CreateOrderParams{
		CustomerID: customerID,
		ServiceID:  serviceID,
		OrderDate:  db.NewDate(orderDate),
	}, nil
}

func parseID(raw string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
}
