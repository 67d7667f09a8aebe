package service_test

import (
	"encoding/json"
	"testing"

	"salao/terminal/internal/domain"
	"salao/terminal/internal/logger"
	"salao/terminal/internal/mocks"
	"salao/terminal/internal/notify"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// respond decodes body into the out argument of a mocked API call.
func respond(t *testing.T, body string) func(mock.Arguments) {
	return func(args mock.Arguments) {
		require.NoError(t, json.Unmarshal([]byte(body), args.Get(3)))
	}
}

func newFeed() *notify.Feed {
	return notify.NewFeed(logger.Discard(), 20)
}

func lastNotification(t *testing.T, feed *notify.Feed) notify.Notification {
	t.Helper()
	n, ok := feed.Last()
	require.True(t, ok, "expected a notification")
	return n
}

func product(id, name, category string, price float64, stock int) domain.Product {
	p := domain.Product{ID: id, Name: name, Price: price, Stock: stock, Available: true}
	if category != "" {
		p.Category = &domain.Category{ID: "c-" + category, Label: category}
	}
	return p
}

// expectReference serves the three reference collections a draft loads.
func expectReference(api *mocks.API, products []domain.Product, tables []domain.Table) {
	api.On("Get", mock.Anything, "/products", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		*args.Get(3).(*[]domain.Product) = products
	}).Return(nil)
	api.On("Get", mock.Anything, "/tables", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		*args.Get(3).(*domain.TableList) = domain.TableList{Tables: tables}
	}).Return(nil)
	api.On("Get", mock.Anything, "/customers", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		*args.Get(3).(*[]domain.Customer) = []domain.Customer{{ID: "cu1", Name: "Ana"}}
	}).Return(nil)
}
