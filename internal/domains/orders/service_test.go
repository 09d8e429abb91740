package orders

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sangkips/records-service/internal/apperrors"
	"github.com/sangkips/records-service/internal/db"
	"github.com/sangkips/records-service/internal/domains/orders/models"
	"github.com/sangkips/records-service/internal/mutation"
	"github.com/sangkips/records-service/internal/validation"
)

type mockRepository struct {
	orders    map[int64]models.Order
	customers map[int64]bool
	services  map[int64]bool
	nextID    int64

	existsErr error

	createCalls []models.CreateOrderParams
	updateCalls []models.UpdateOrderParams
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		orders:    make(map[int64]models.Order),
		customers: map[int64]bool{1: true},
		services:  map[int64]bool{1: true, 2: true},
		nextID:    1,
	}
}

func (m *mockRepository) WithTx(tx models.DBTX) Repository { return m }

func (m *mockRepository) CreateOrder(ctx context.Context, params models.CreateOrderParams) (models.Order, error) {
	m.createCalls = append(m.createCalls, params)
	o := models.Order{ID: m.nextID, CustomerID: params.CustomerID, ServiceID: params.ServiceID, OrderDate: params.OrderDate}
	m.orders[o.ID] = o
	m.nextID++
	return o, nil
}

func (m *mockRepository) GetOrder(ctx context.Context, id int64) (models.Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return models.Order{}, apperrors.NotFound(MsgNotFound)
	}
	return o, nil
}

func (m *mockRepository) ListOrders(ctx context.Context) ([]models.OrderRow, error) {
	return nil, nil
}

func (m *mockRepository) UpdateOrder(ctx context.Context, params models.UpdateOrderParams) (models.Order, error) {
	m.updateCalls = append(m.updateCalls, params)
	o := models.Order{ID: params.ID, CustomerID: params.CustomerID, ServiceID: params.ServiceID, OrderDate: params.OrderDate}
	m.orders[o.ID] = o
	return o, nil
}

func (m *mockRepository) DeleteOrder(ctx context.Context, id int64) error {
	if _, ok := m.orders[id]; !ok {
		return apperrors.NotFound(MsgNotFound)
	}
	delete(m.orders, id)
	return nil
}

func (m *mockRepository) CustomerExists(ctx context.Context, id int64) (bool, error) {
	return m.customers[id], m.existsErr
}

func (m *mockRepository) ServiceExists(ctx context.Context, id int64) (bool, error) {
	return m.services[id], m.existsErr
}

func (m *mockRepository) ListCustomerOptions(ctx context.Context) ([]models.CustomerOption, error) {
	return []models.CustomerOption{{ID: 1, Name: "Ivan Ivanov"}}, nil
}

func (m *mockRepository) ListServiceOptions(ctx context.Context) ([]models.ServiceOption, error) {
	return []models.ServiceOption{{ID: 1, ServiceName: "Audit"}, {ID: 2, ServiceName: "Review"}}, nil
}

var _ Repository = (*mockRepository)(nil)

type fakeTransactor struct {
	rolledBack int
}

func (f *fakeTransactor) WithinTx(ctx context.Context, fn func(tx db.DBTX) error) error {
	if err := fn(nil); err != nil {
		f.rolledBack++
		return err
	}
	return nil
}

func newTestService(repo Repository, tx db.Transactor) *Service {
	v := validation.New(validation.DefaultPolicy(), func() time.Time {
		return time.Date(2024, time.June, 12, 18, 0, 0, 0, time.UTC)
	})
	return NewService(repo, v, mutation.New(tx, nil, zerolog.Nop()))
}

func TestService_Create_KeepsSubmittedDate(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, &fakeTransactor{})

	id, err := svc.Create(context.Background(), OrderForm{CustomerID: "1", ServiceID: "2", OrderDate: "2024-05-01"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	require.Len(t, repo.createCalls, 1)
	assert.Equal(t, models.CreateOrderParams{
		CustomerID: 1,
		ServiceID:  2,
		OrderDate:  db.NewDate(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)),
	}, repo.createCalls[0])
}

func TestService_Create_EmptyDateIsToday(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, &fakeTransactor{})

	_, err := svc.Create(context.Background(), OrderForm{CustomerID: "1", ServiceID: "1"})
	require.NoError(t, err)
	assert.Equal(t, "2024-06-12", repo.createCalls[0].OrderDate.String())
	assert.Equal(t, "2024-06-12", svc.Today())
}

func TestService_Create_Rejections(t *testing.T) {
	tests := []struct {
		name string
		form OrderForm
		kind apperrors.Kind
		want string
	}{
		{"no customer selected", OrderForm{CustomerID: "---", ServiceID: "1"}, apperrors.KindValidation, MsgCustomerRequired},
		{"no service selected", OrderForm{CustomerID: "1", ServiceID: ""}, apperrors.KindValidation, MsgServiceRequired},
		{"future date", OrderForm{CustomerID: "1", ServiceID: "1", OrderDate: "2024-06-13"}, apperrors.KindValidation, validation.MsgOrderDateInFuture},
		{"malformed date", OrderForm{CustomerID: "1", ServiceID: "1", OrderDate: "12/06/2024"}, apperrors.KindValidation, validation.MsgDateMalformed},
		{"unknown customer", OrderForm{CustomerID: "7", ServiceID: "1"}, apperrors.KindReference, MsgCustomerMissing},
		{"non-numeric customer", OrderForm{CustomerID: "abc", ServiceID: "1"}, apperrors.KindReference, MsgCustomerMissing},
		{"unknown service", OrderForm{CustomerID: "1", ServiceID: "999"}, apperrors.KindReference, MsgServiceMissing},
		{"both unknown reports customer first", OrderForm{CustomerID: "7", ServiceID: "999"}, apperrors.KindReference, MsgCustomerMissing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockRepository()
			svc := newTestService(repo, &fakeTransactor{})

			_, err := svc.Create(context.Background(), tt.form)
			require.Error(t, err)
			assert.True(t, apperrors.Is(err, tt.kind), "got %v", err)
			assert.Equal(t, tt.want, apperrors.Message(err, ""))
			assert.Empty(t, repo.createCalls)
		})
	}
}

func TestService_Create_LookupFailure(t *testing.T) {
	repo := newMockRepository()
	repo.existsErr = errors.New("look up customer: connection reset")
	tx := &fakeTransactor{}
	svc := newTestService(repo, tx)

	_, err := svc.Create(context.Background(), OrderForm{CustomerID: "1", ServiceID: "1"})
	assert.True(t, apperrors.Is(err, apperrors.KindPersistence))
	assert.Equal(t, MsgCreateFailed, apperrors.Message(err, ""))
	assert.Equal(t, 1, tx.rolledBack)
}

func TestService_Update(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, &fakeTransactor{})
	ctx := context.Background()

	id, err := svc.Create(ctx, OrderForm{CustomerID: "1", ServiceID: "1", OrderDate: "2024-01-10"})
	require.NoError(t, err)

	require.NoError(t, svc.Update(ctx, id, OrderForm{CustomerID: "1", ServiceID: "2", OrderDate: "2024-01-11"}))
	assert.Equal(t, int64(2), repo.orders[id].ServiceID)
	assert.Equal(t, "2024-01-11", repo.orders[id].OrderDate.String())

	err = svc.Update(ctx, id, OrderForm{CustomerID: "1", ServiceID: "5"})
	assert.True(t, apperrors.Is(err, apperrors.KindReference))
	assert.Equal(t, MsgServiceMissing, apperrors.Message(err, ""))
	assert.Equal(t, int64(2), repo.orders[id].ServiceID)

	err = svc.Update(ctx, 404, OrderForm{CustomerID: "1", ServiceID: "1"})
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))
}

func TestService_Delete(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo, &fakeTransactor{})
	ctx := context.Background()

	id, err := svc.Create(ctx, OrderForm{CustomerID: "1", ServiceID: "1"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, id))
	assert.Empty(t, repo.orders)
	assert.True(t, apperrors.Is(svc.Delete(ctx, id), apperrors.KindNotFound))
}

func TestService_Options(t *testing.T) {
	svc := newTestService(newMockRepository(), &fakeTransactor{})

	options, err := svc.Options(context.Background())
	require.NoError(t, err)
	assert.Len(t, options.Customers, 1)
	assert.Len(t, options.Services, 2)
}

func TestFormFromOrder(t *testing.T) {
	form := FormFromOrder(models.Order{CustomerID: 3, ServiceID: 4, OrderDate: db.NewDate(time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC))})
	assert.Equal(t, OrderForm{CustomerID: "3", ServiceID: "4", OrderDate: "2024-02-29"}, form)
}
