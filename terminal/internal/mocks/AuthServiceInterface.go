package mocks

import (
	"context"

	"salao/terminal/internal/domain"

	"github.com/stretchr/testify/mock"
)

type AuthServiceInterface struct {
	mock.Mock
}

func (_m *AuthServiceInterface) Login(ctx context.Context, email, password string, rememberMe bool) (*domain.User, error) {
	ret := _m.Called(ctx, email, password, rememberMe)

	var r0 *domain.User
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*domain.User)
	}
	return r0, ret.Error(1)
}

func (_m *AuthServiceInterface) Logout(ctx context.Context) {
	_m.Called(ctx)
}

func (_m *AuthServiceInterface) Restore(ctx context.Context) bool {
	ret := _m.Called(ctx)
	return ret.Bool(0)
}

func NewAuthServiceInterface(t interface {
	mock.TestingT
	Cleanup(func())
}) *AuthServiceInterface {
	m := &AuthServiceInterface{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
