package mocks

import (
	"context"

	"salao/terminal/internal/domain"

	"github.com/stretchr/testify/mock"
)

type OrderBoardInterface struct {
	mock.Mock
}

func (_m *OrderBoardInterface) Board(ctx context.Context) (map[domain.OrderStatus][]domain.Order, error) {
	ret := _m.Called(ctx)

	var r0 map[domain.OrderStatus][]domain.Order
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(map[domain.OrderStatus][]domain.Order)
	}
	return r0, ret.Error(1)
}

func (_m *OrderBoardInterface) Advance(ctx context.Context, orderID string, current domain.OrderStatus) (domain.OrderStatus, error) {
	ret := _m.Called(ctx, orderID, current)
	return ret.Get(0).(domain.OrderStatus), ret.Error(1)
}

func NewOrderBoardInterface(t interface {
	mock.TestingT
	Cleanup(func())
}) *OrderBoardInterface {
	m := &OrderBoardInterface{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
