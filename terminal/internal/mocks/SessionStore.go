package mocks

import (
	"context"

	"salao/terminal/internal/session"

	"github.com/stretchr/testify/mock"
)

type SessionStore struct {
	mock.Mock
}

func (_m *SessionStore) Save(ctx context.Context, state session.State) error {
	ret := _m.Called(ctx, state)
	return ret.Error(0)
}

func (_m *SessionStore) Load(ctx context.Context) (session.State, bool, error) {
	ret := _m.Called(ctx)
	return ret.Get(0).(session.State), ret.Bool(1), ret.Error(2)
}

func (_m *SessionStore) Delete(ctx context.Context) error {
	ret := _m.Called(ctx)
	return ret.Error(0)
}

func NewSessionStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *SessionStore {
	m := &SessionStore{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
