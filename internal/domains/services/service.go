package services

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/sangkips/records-service/internal/apperrors"
	"github.com/sangkips/records-service/internal/db"
	"github.com/sangkips/records-service/internal/domains/services/models"
	"github.com/sangkips/records-service/internal/mutation"
	"github.com/sangkips/records-service/internal/queue"
	"github.com/sangkips/records-service/internal/validation"
)

const Entity = "service"

const (
	MsgNameRequired        = "Service name is required"
	MsgNameTooLong         = "Service name must be at most 125 characters"
	MsgDescriptionRequired = "Service description is required"
	MsgDescriptionTooLong  = "Service description must be at most 1000 characters"
	MsgPriceRequired       = "Price is required"
	MsgPriceInvalid        = "Price must be a number"
	MsgPriceNegative       = "Price cannot be negative"
	MsgNotFound            = "Service not found"
	MsgHasOrders           = "Cannot delete service: the service has %d order(s)"

	// Used when the storage constraint, not the pre-check, blocked the delete.
	MsgHasOrdersUnknownCount = "Cannot delete service: the service has orders"

	MsgCreated = "Service added"
	MsgUpdated = "Service updated"
	MsgDeleted = "Service deleted"

	MsgCreateFailed = "An error occurred while adding the service"
	MsgUpdateFailed = "An error occurred while updating the service"
	MsgDeleteFailed = "An error occurred while deleting the service"
)

type ServiceForm struct {
	ServiceName string
	Description string
	Price       string
}

func FormFromService(s models.Service) ServiceForm {
	return ServiceForm{
		ServiceName: s.ServiceName,
		Description: s.Description.String,
		Price:       strconv.FormatFloat(s.Price, 'f', -1, 64),
	}
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

func (s *Service) List(ctx context.Context) ([]models.Service, error) {
	return s.repo.ListServices(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (models.Service, error) {
	return s.repo.GetService(ctx, id)
}

// Validate checks the form. The description is only required when the policy says so.
func (s *Service) Validate(form ServiceForm) error {
	v := s.validator
	price := normalizePrice(form.Price)

	return validation.Run(
		v.Field(form.ServiceName, "filled", MsgNameRequired),
		v.Field(strings.TrimSpace(form.ServiceName), "max=125", MsgNameTooLong),
		validation.When(v.Policy().RequireServiceDescription, v.Field(form.Description, "filled", MsgDescriptionRequired)),
		v.Field(strings.TrimSpace(form.Description), "max=1000", MsgDescriptionTooLong),
		v.Field(price, "filled", MsgPriceRequired),
		v.Field(price, "numeric", MsgPriceInvalid),
		func() (bool, string) {
			p, err := strconv.ParseFloat(price, 64)
			return err == nil && p >= 0, MsgPriceNegative
		},
	)
}

func (s *Service) Create(ctx context.Context, form ServiceForm) (int64, error) {
	return s.mutations.Execute(ctx, mutation.Mutation{
		Entity:         Entity,
		Action:         queue.ActionCreated,
		FailureMessage: MsgCreateFailed,
		Validate:       func() error { return s.Validate(form) },
		Apply: func(ctx context.Context, tx db.DBTX) (int64, error) {
			price, err := parsePrice(form.Price)
			if err != nil {
				return 0, err
			}

			service, err := s.repo.WithTx(tx).CreateService(ctx, models.CreateServiceParams{
				ServiceName: strings.TrimSpace(form.ServiceName),
				Description: nullString(form.Description),
				Price:       price,
			})
			if err != nil {
				return 0, err
			}
			return service.ID, nil
		},
	})
}

func (s *Service) Update(ctx context.Context, id int64, form ServiceForm) error {
	_, err := s.mutations.Execute(ctx, mutation.Mutation{
		Entity:         Entity,
		Action:         queue.ActionUpdated,
		FailureMessage: MsgUpdateFailed,
		Validate:       func() error { return s.Validate(form) },
		Apply: func(ctx context.Context, tx db.DBTX) (int64, error) {
			price, err := parsePrice(form.Price)
			if err != nil {
				return 0, err
			}

			service, err := s.repo.WithTx(tx).UpdateService(ctx, models.UpdateServiceParams{
				ID:          id,
				ServiceName: strings.TrimSpace(form.ServiceName),
				Description: nullString(form.Description),
				Price:       price,
			})
			if err != nil {
				return 0, err
			}
			return service.ID, nil
		},
	})
	return err
}

// Delete removes a service that no order references.
func (s *Service) Delete(ctx context.Context, id int64) error {
	_, err := s.mutations.Execute(ctx, mutation.Mutation{
		Entity:         Entity,
		Action:         queue.ActionDeleted,
		FailureMessage: MsgDeleteFailed,
		Apply: func(ctx context.Context, tx db.DBTX) (int64, error) {
			repo := s.repo.WithTx(tx)

			if _, err := repo.GetService(ctx, id); err != nil {
				return 0, err
			}

			orders, err := repo.CountOrders(ctx, id)
			if err != nil {
				return 0, err
			}
			if orders > 0 {
				return 0, apperrors.Conflict(fmt.Sprintf(MsgHasOrders, orders))
			}

			if err := repo.DeleteService(ctx, id); err != nil {
				return 0, err
			}
			return id, nil
		},
	})
	return err
}

// normalizePrice accepts a decimal comma.
func normalizePrice(raw string) string {
	return strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
}

func parsePrice(raw string) (float64, error) {
	price, err := strconv.ParseFloat(normalizePrice(raw), 64)
	if err != nil {
		return 0, apperrors.Validation(MsgPriceInvalid)
	}
	return price, nil
}

func nullString(s string) sql.NullString {
	s = strings.TrimSpace(s)
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
