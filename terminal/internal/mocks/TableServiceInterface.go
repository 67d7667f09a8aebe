package mocks

import (
	"context"

	"salao/terminal/internal/domain"

	"github.com/stretchr/testify/mock"
)

type TableServiceInterface struct {
	mock.Mock
}

func tableResult(ret mock.Arguments) (*domain.Table, error) {
	var r0 *domain.Table
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.Table)
	}
	return r0, ret.Error(1)
}

func (_m *TableServiceInterface) Get(ctx context.Context, tableID string) (*domain.Table, error) {
	return tableResult(_m.Called(ctx, tableID))
}

func (_m *TableServiceInterface) SetStatus(ctx context.Context, tableID string, next domain.TableStatus) error {
	ret := _m.Called(ctx, tableID, next)
	return ret.Error(0)
}

func (_m *TableServiceInterface) StartOrder(ctx context.Context, tableID string) error {
	ret := _m.Called(ctx, tableID)
	return ret.Error(0)
}

func (_m *TableServiceInterface) Finalize(ctx context.Context, tableID string) error {
	ret := _m.Called(ctx, tableID)
	return ret.Error(0)
}

func (_m *TableServiceInterface) SetSeatSeparation(ctx context.Context, tableID string, enabled bool) (*domain.Table, error) {
	return tableResult(_m.Called(ctx, tableID, enabled))
}

func (_m *TableServiceInterface) UpdateSeats(ctx context.Context, tableID string, seats []domain.Seat) (*domain.Table, error) {
	return tableResult(_m.Called(ctx, tableID, seats))
}

func (_m *TableServiceInterface) UpdateCapacity(ctx context.Context, tableID string, capacity int) (*domain.Table, error) {
	return tableResult(_m.Called(ctx, tableID, capacity))
}

func (_m *TableServiceInterface) Move(ctx context.Context, tableID string, position domain.Position) error {
	ret := _m.Called(ctx, tableID, position)
	return ret.Error(0)
}

func (_m *TableServiceInterface) SetMovementLocked(ctx context.Context, locked bool) error {
	ret := _m.Called(ctx, locked)
	return ret.Error(0)
}

func (_m *TableServiceInterface) ActiveOrders(ctx context.Context, tableID string) ([]domain.Order, error) {
	ret := _m.Called(ctx, tableID)

	var r0 []domain.Order
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]domain.Order)
	}
	return r0, ret.Error(1)
}

func (_m *TableServiceInterface) QRCode(tableID string) ([]byte, error) {
	ret := _m.Called(tableID)

	var r0 []byte
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]byte)
	}
	return r0, ret.Error(1)
}

func NewTableServiceInterface(t interface {
	mock.TestingT
	Cleanup(func())
}) *TableServiceInterface {
	m := &TableServiceInterface{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
