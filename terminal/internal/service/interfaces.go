package service

import (
	"context"
	"net/url"

	"salao/terminal/internal/apiclient"
	"salao/terminal/internal/domain"
)

// API is the slice of the backend client the services depend on.
type API interface {
	Get(ctx context.Context, path string, query url.Values, out interface{}) error
	Post(ctx context.Context, path string, body, out interface{}) error
	Put(ctx context.Context, path string, body, out interface{}) error
}

type KitchenPublisher interface {
	PublishTicket(ctx context.Context, ticket domain.KitchenTicket) error
}

type QRGenerator interface {
	Generate(tableID string) ([]byte, error)
}

type DraftServiceInterface interface {
	Open(defaults DraftDefaults) *Draft
	Get(id string) (*Draft, error)
	Close(id string) error
	Submit(ctx context.Context, id string) (*domain.OrderPayload, error)
}

type TableServiceInterface interface {
	Get(ctx context.Context, tableID string) (*domain.Table, error)
	SetStatus(ctx context.Context, tableID string, next domain.TableStatus) error
	StartOrder(ctx context.Context, tableID string) error
	Finalize(ctx context.Context, tableID string) error
	SetSeatSeparation(ctx context.Context, tableID string, enabled bool) (*domain.Table, error)
	UpdateSeats(ctx context.Context, tableID string, seats []domain.Seat) (*domain.Table, error)
	UpdateCapacity(ctx context.Context, tableID string, capacity int) (*domain.Table, error)
	Move(ctx context.Context, tableID string, position domain.Position) error
	SetMovementLocked(ctx context.Context, locked bool) error
	ActiveOrders(ctx context.Context, tableID string) ([]domain.Order, error)
	QRCode(tableID string) ([]byte, error)
}

type OrderBoardInterface interface {
	Board(ctx context.Context) (map[domain.OrderStatus][]domain.Order, error)
	Advance(ctx context.Context, orderID string, current domain.OrderStatus) (domain.OrderStatus, error)
}

type AuthServiceInterface interface {
	Login(ctx context.Context, email, password string, rememberMe bool) (*domain.User, error)
	Logout(ctx context.Context)
	Restore(ctx context.Context) bool
}

var (
	_ API                   = (*apiclient.Client)(nil)
	_ DraftServiceInterface = (*DraftService)(nil)
	_ TableServiceInterface = (*TableService)(nil)
	_ OrderBoardInterface   = (*OrderBoard)(nil)
	_ AuthServiceInterface  = (*AuthService)(nil)
	_ QRGenerator           = TableQRGenerator{}
)
