package service

import (
	"context"
	"strings"
	"time"

	"salao/terminal/internal/apiclient"
	"salao/terminal/internal/domain"
	"salao/terminal/internal/notify"
)

const (
	MsgOrderCreated = "order created"
	MsgOrderFailed  = "unknown error"
)

// Submit sends the draft to the backend as a local order. Validation failures
// never reach the network. On success the draft is reset; on failure it is
// left as it was so the operator can retry. Only one submission per draft
// may be in flight.
func (d *Draft) Submit(ctx context.Context, api API, notifier notify.Notifier) (*domain.OrderPayload, error) {
	d.mu.Lock()
	if err := d.readyLocked(); err != nil {
		d.mu.Unlock()
		return nil, err
	}
	if d.submitting {
		d.mu.Unlock()
		return nil, ErrSubmitInFlight
	}
	payload, err := d.payloadLocked()
	if err != nil {
		d.mu.Unlock()
		notifier.Error(err.Error())
		return nil, err
	}
	d.submitting = true
	onSubmitted := d.onSubmitted
	d.mu.Unlock()

	defer func() {
		d.mu.Lock()
		d.submitting = false
		d.mu.Unlock()
	}()

	if err := api.Post(ctx, "/orders", payload, nil); err != nil {
		notifier.Error(apiclient.Message(err, MsgOrderFailed))
		return nil, err
	}

	notifier.Success(MsgOrderCreated)
	if onSubmitted != nil {
		onSubmitted(d, *payload)
	}

	d.mu.Lock()
	if d.state == DraftReady {
		d.resetLocked()
	}
	d.mu.Unlock()
	return payload, nil
}

func (d *Draft) Submitting() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.submitting
}

func (d *Draft) payloadLocked() (*domain.OrderPayload, error) {
	var items []domain.OrderPayloadItem
	for _, item := range d.items {
		if item.Quantity > 0 {
			items = append(items, domain.OrderPayloadItem{
				Product:  item.ProductID,
				Quantity: item.Quantity,
				Course:   item.Course,
			})
		}
	}
	if len(items) == 0 {
		return nil, ErrNoItems
	}
	if d.tableID == "" {
		return nil, ErrNoTable
	}

	return &domain.OrderPayload{
		OrderType:    domain.OrderTypeLocal,
		TableID:      d.tableID,
		Seat:         d.seat,
		Prepare:      d.prepare,
		Items:        items,
		CustomerName: strings.TrimSpace(d.customerName),
		Note:         d.note,
	}, nil
}

// KitchenTickets splits a submitted order into one ticket per course, in
// starter, main, dessert order.
func (d *Draft) KitchenTickets(payload domain.OrderPayload, at time.Time) []domain.KitchenTicket {
	d.mu.Lock()
	defer d.mu.Unlock()

	tableNumber := 0
	if d.ref != nil {
		if table, ok := d.ref.Table(payload.TableID); ok {
			tableNumber = table.Number
		}
	}

	var tickets []domain.KitchenTicket
	for _, course := range domain.Courses {
		ticket := domain.KitchenTicket{
			DraftID:     d.ID,
			TableID:     payload.TableID,
			TableNumber: tableNumber,
			Seat:        payload.Seat,
			Course:      course,
			Note:        payload.Note,
			Prepare:     payload.Prepare,
			CreatedAt:   at,
		}
		for _, item := range payload.Items {
			if item.Course != course {
				continue
			}
			ticket.Items = append(ticket.Items, domain.KitchenTicketItem{
				ProductID: item.Product,
				Name:      d.products[item.Product].Name,
				Quantity:  item.Quantity,
			})
		}
		if len(ticket.Items) > 0 {
			tickets = append(tickets, ticket)
		}
	}
	return tickets
}
