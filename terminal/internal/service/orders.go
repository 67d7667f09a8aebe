package service

import (
	"context"
	"log/slog"
	"net/url"

	"salao/terminal/internal/apiclient"
	"salao/terminal/internal/domain"
	"salao/terminal/internal/logger"
	"salao/terminal/internal/notify"
)

const (
	MsgOrdersFailed  = "failed to load orders"
	MsgOrderAdvanced = "order status updated"
	MsgAdvanceFailed = "failed to update order status"
)

// OrderBoard is the kitchen's view of open orders, one column per stage.
type OrderBoard struct {
	api      API
	notifier notify.Notifier
	log      *logger.Logger
}

func NewOrderBoard(api API, notifier notify.Notifier, log *logger.Logger) *OrderBoard {
	return &OrderBoard{api: api, notifier: notifier, log: log}
}

// Board groups every order by stage. Every stage has an entry, possibly
// empty; finalized orders are left off the board.
func (b *OrderBoard) Board(ctx context.Context) (map[domain.OrderStatus][]domain.Order, error) {
	var orders []domain.Order
	if err := b.api.Get(ctx, "/orders", nil, &orders); err != nil {
		b.notifier.Error(apiclient.Message(err, MsgOrdersFailed))
		return nil, err
	}

	board := make(map[domain.OrderStatus][]domain.Order, len(domain.OrderStages))
	for _, stage := range domain.OrderStages {
		board[stage] = []domain.Order{}
	}
	for _, o := range orders {
		if _, ok := board[o.Status]; ok {
			board[o.Status] = append(board[o.Status], o)
		}
	}
	return board, nil
}

// Advance moves an order from current to the next stage and returns it.
func (b *OrderBoard) Advance(ctx context.Context, orderID string, current domain.OrderStatus) (domain.OrderStatus, error) {
	next, ok := current.Next()
	if !ok {
		return "", ErrFinalStage
	}
	body := map[string]domain.OrderStatus{"status": next}
	if err := b.api.Put(ctx, "/orders/"+url.PathEscape(orderID)+"/status", body, nil); err != nil {
		b.notifier.Error(apiclient.Message(err, MsgAdvanceFailed))
		return "", err
	}
	b.log.Info("advance_order", "", "order advanced",
		slog.String("order_id", orderID),
		slog.String("status", string(next)))
	b.notifier.Success(MsgOrderAdvanced)
	return next, nil
}
