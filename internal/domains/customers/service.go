package customers

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/sangkips/records-service/internal/apperrors"
	"github.com/sangkips/records-service/internal/db"
	"github.com/sangkips/records-service/internal/domains/customers/models"
	"github.com/sangkips/records-service/internal/mutation"
	"github.com/sangkips/records-service/internal/queue"
	"github.com/sangkips/records-service/internal/validation"
)

// Entity names customers in logs, metrics and events.
const Entity = "customer"

const (
	MsgNameRequired        = "Full name is required"
	MsgNameTooLong         = "Full name must be at most 125 characters"
	MsgPhoneRequired       = "Phone number is required"
	MsgPhoneInvalid        = "Invalid phone number format. Use a Russian phone number format"
	MsgEmailInvalid        = "Invalid email address"
	MsgEmailTooLong        = "Email must be at most 100 characters"
	MsgCompanyTooLong      = "Company must be at most 100 characters"
	MsgDuplicatePhone      = "A customer with this phone number already exists"
	MsgNotFound            = "Customer not found"
	MsgHasOrders           = "Cannot delete customer: the customer has %d order(s)"

	// Used when the storage constraint, not the pre-check, blocked the delete.
	MsgHasOrdersUnknownCount = "Cannot delete customer: the customer has orders"

	MsgCreated = "Customer added"
	MsgUpdated = "Customer updated"
	MsgDeleted = "Customer deleted"

	MsgCreateFailed = "An error occurred while adding the customer"
	MsgUpdateFailed = "An error occurred while updating the customer"
	MsgDeleteFailed = "An error occurred while deleting the customer"
)

// CustomerForm holds the submitted form values as typed by the user.
type CustomerForm struct {
	Name        string
	DateOfBirth string
	PhoneNumber string
	Email       string
	Company     string
}

// FormFromCustomer pre-fills the edit form from a stored customer.
func FormFromCustomer(c models.Customer) CustomerForm {
	return CustomerForm{
		Name:        c.Name,
		DateOfBirth: c.DateOfBirth.String(),
		PhoneNumber: c.PhoneNumber,
		Email:       c.Email.String,
		Company:     c.Company.String,
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

func (s *Service) List(ctx context.Context) ([]models.Customer, error) {
	return s.repo.ListCustomers(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (models.Customer, error) {
	return s.repo.GetCustomer(ctx, id)
}

// Validate runs the field checks in the order their messages should win.
func (s *Service) Validate(form CustomerForm) error {
	v := s.validator
	return validation.Run(
		v.Field(form.Name, "filled", MsgNameRequired),
		v.Field(strings.TrimSpace(form.Name), "max=125", MsgNameTooLong),
		v.Field(form.PhoneNumber, "filled", MsgPhoneRequired),
		v.Field(form.PhoneNumber, "ruphone", MsgPhoneInvalid),
		v.BirthDateCheck(form.DateOfBirth),
		v.Field(strings.TrimSpace(form.Email), "omitempty,email", MsgEmailInvalid),
		v.Field(strings.TrimSpace(form.Email), "max=100", MsgEmailTooLong),
		v.Field(strings.TrimSpace(form.Company), "max=100", MsgCompanyTooLong),
	)
}

func (s *Service) Create(ctx context.Context, form CustomerForm) (int64, error) {
	return s.mutations.Execute(ctx, mutation.Mutation{
		Entity:         Entity,
		Action:         queue.ActionCreated,
		FailureMessage: MsgCreateFailed,
		Validate:       func() error { return s.Validate(form) },
		Apply: func(ctx context.Context, tx db.DBTX) (int64, error) {
			repo := s.repo.WithTx(tx)

			if err := ensurePhoneAvailable(ctx, repo, form.PhoneNumber, 0); err != nil {
				return 0, err
			}

			born, err := validation.ParseDate(form.DateOfBirth)
			if err != nil {
				return 0, apperrors.Validation(validation.MsgDateMalformed)
			}

			customer, err := repo.CreateCustomer(ctx, models.CreateCustomerParams{
				Name:        strings.TrimSpace(form.Name),
				DateOfBirth: db.NewDate(born),
				PhoneNumber: form.PhoneNumber,
				Email:       nullString(form.Email),
				Company:     nullString(form.Company),
			})
			if err != nil {
				return 0, err
			}
			return customer.ID, nil
		},
	})
}

func (s *Service) Update(ctx context.Context, id int64, form CustomerForm) error {
	_, err := s.mutations.Execute(ctx, mutation.Mutation{
		Entity:         Entity,
		Action:         queue.ActionUpdated,
		FailureMessage: MsgUpdateFailed,
		Validate:       func() error { return s.Validate(form) },
		Apply: func(ctx context.Context, tx db.DBTX) (int64, error) {
			repo := s.repo.WithTx(tx)

			if _, err := repo.GetCustomer(ctx, id); err != nil {
				return 0, err
			}

			if err := ensurePhoneAvailable(ctx, repo, form.PhoneNumber, id); err != nil {
				return 0, err
			}

			born, err := validation.ParseDate(form.DateOfBirth)
			if err != nil {
				return 0, apperrors.Validation(validation.MsgDateMalformed)
			}

			customer, err := repo.UpdateCustomer(ctx, models.UpdateCustomerParams{
				ID:          id,
				Name:        strings.TrimSpace(form.Name),
				DateOfBirth: db.NewDate(born),
				PhoneNumber: form.PhoneNumber,
				Email:       nullString(form.Email),
				Company:     nullString(form.Company),
			})
			if err != nil {
				return 0, err
			}
			return customer.ID, nil
		},
	})
	return err
}

// Delete removes a customer that no order references.
func (s *Service) Delete(ctx context.Context, id int64) error {
	_, err := s.mutations.Execute(ctx, mutation.Mutation{
		Entity:         Entity,
		Action:         queue.ActionDeleted,
		FailureMessage: MsgDeleteFailed,
		Apply: func(ctx context.Context, tx db.DBTX) (int64, error) {
			repo := s.repo.WithTx(tx)

			if _, err := repo.GetCustomer(ctx, id); err != nil {
				return 0, err
			}

			orders, err := repo.CountOrders(ctx, id)
			if err != nil {
				return 0, err
			}
			if orders > 0 {
				return 0, apperrors.Conflict(fmt.Sprintf(MsgHasOrders, orders))
			}

			if err := repo.DeleteCustomer(ctx, id); err != nil {
				return 0, err
			}
			return id, nil
		},
	})
	return err
}

func ensurePhoneAvailable(ctx context.Context, repo Repository, phoneNumber string, excludeID int64) error {
	taken, err := repo.PhoneNumberTaken(ctx, phoneNumber, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return apperrors.Conflict(MsgDuplicatePhone)
	}
	return nil
}

func nullString(s string) sql.NullString {
	s = strings.TrimSpace(s)
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
