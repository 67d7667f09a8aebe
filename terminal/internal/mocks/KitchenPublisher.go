package mocks

import (
	"context"

	"salao/terminal/internal/domain"

	"github.com/stretchr/testify/mock"
)

type KitchenPublisher struct {
	mock.Mock
}

func (_m *KitchenPublisher) PublishTicket(ctx context.Context, ticket domain.KitchenTicket) error {
	ret := _m.Called(ctx, ticket)
	return ret.Error(0)
}

func NewKitchenPublisher(t interface {
	mock.TestingT
	Cleanup(func())
}) *KitchenPublisher {
	m := &KitchenPublisher{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
