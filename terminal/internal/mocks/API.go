package mocks

import (
	"context"
	"net/url"

	"github.com/stretchr/testify/mock"
)

type API struct {
	mock.Mock
}

func (_m *API) Get(ctx context.Context, path string, query url.Values, out interface{}) error {
	ret := _m.Called(ctx, path, query, out)
	return ret.Error(0)
}

func (_m *API) Post(ctx context.Context, path string, body interface{}, out interface{}) error {
	ret := _m.Called(ctx, path, body, out)
	return ret.Error(0)
}

func (_m *API) Put(ctx context.Context, path string, body interface{}, out interface{}) error {
	ret := _m.Called(ctx, path, body, out)
	return ret.Error(0)
}

func NewAPI(t interface {
	mock.TestingT
	Cleanup(func())
}) *API {
	m := &API{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
