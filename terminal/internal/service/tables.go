package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sync"

	"salao/terminal/internal/apiclient"
	"salao/terminal/internal/domain"
	"salao/terminal/internal/logger"
	"salao/terminal/internal/notify"
)

const (
	MsgStatusUpdated     = "table status updated"
	MsgStatusFailed      = "failed to update table status"
	MsgTableFinalized    = "table finalized"
	MsgFinalizeFailed    = "failed to finalize table"
	MsgSeatsUpdated      = "seats updated"
	MsgSeatsFailed       = "failed to update seats"
	MsgCapacityUpdated   = "capacity updated"
	MsgCapacityFailed    = "failed to update capacity"
	MsgPositionFailed    = "failed to save table position"
	MsgMovementLocked    = "table movement locked"
	MsgMovementUnlocked  = "table movement unlocked"
	MsgMovementFailed    = "failed to change table movement"
	MsgTableOrdersFailed = "failed to load table orders"
)

const activeReservation = "ativa"

// TableService drives the floor: status changes, seats, capacity and the
// table layout. Every change is one backend request; the service keeps no
// table state apart from the movement lock.
type TableService struct {
	api      API
	notifier notify.Notifier
	qr       QRGenerator
	log      *logger.Logger

	mu     sync.Mutex
	locked bool
}

func NewTableService(api API, notifier notify.Notifier, qr QRGenerator, log *logger.Logger) *TableService {
	return &TableService{
		api:      api,
		notifier: notifier,
		qr:       qr,
		log:      log,
		locked:   true,
	}
}

func (s *TableService) Get(ctx context.Context, tableID string) (*domain.Table, error) {
	var table domain.Table
	if err := s.api.Get(ctx, "/tables/"+url.PathEscape(tableID), nil, &table); err != nil {
		return nil, err
	}
	if !table.Status.Valid() {
		return nil, fmt.Errorf("table %s: %w", tableID, domain.ErrMissingTableStatus)
	}
	return &table, nil
}

// SetStatus moves the table to next if the workflow allows it from the
// table's current status.
func (s *TableService) SetStatus(ctx context.Context, tableID string, next domain.TableStatus) error {
	if _, err := domain.ParseTableStatus(string(next)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidStatus, err)
	}
	table, err := s.Get(ctx, tableID)
	if err != nil {
		s.notifier.Error(apiclient.Message(err, MsgStatusFailed))
		return err
	}
	if !table.Status.CanTransition(next) {
		return fmt.Errorf("%w: %s to %s", ErrInvalidTransition, table.Status, next)
	}
	return s.putStatus(ctx, tableID, next)
}

// StartOrder occupies the table an order is being taken for. A dirty table
// must be freed first; an already occupied table is left as it is.
func (s *TableService) StartOrder(ctx context.Context, tableID string) error {
	table, err := s.Get(ctx, tableID)
	if err != nil {
		s.notifier.Error(apiclient.Message(err, MsgStatusFailed))
		return err
	}
	switch table.Status {
	case domain.TableDirty:
		s.notifier.Error(ErrTableDirty.Error())
		return ErrTableDirty
	case domain.TableOccupied:
		return nil
	case domain.TableFree, domain.TableReserved:
		return s.putStatus(ctx, tableID, domain.TableOccupied)
	}
	panic(fmt.Sprintf("service: unhandled table status %q", string(table.Status)))
}

func (s *TableService) putStatus(ctx context.Context, tableID string, next domain.TableStatus) error {
	body := map[string]domain.TableStatus{"status": next}
	if err := s.api.Put(ctx, "/tables/"+url.PathEscape(tableID)+"/status", body, nil); err != nil {
		s.notifier.Error(apiclient.Message(err, MsgStatusFailed))
		return err
	}
	s.log.Info("table_status", "", "table status changed",
		slog.String("table_id", tableID),
		slog.String("status", string(next)))
	s.notifier.Success(MsgStatusUpdated)
	return nil
}

func (s *TableService) Finalize(ctx context.Context, tableID string) error {
	if err := s.api.Post(ctx, "/tables/"+url.PathEscape(tableID)+"/finalizar", nil, nil); err != nil {
		s.notifier.Error(apiclient.Message(err, MsgFinalizeFailed))
		return err
	}
	s.notifier.Success(MsgTableFinalized)
	return nil
}

type tableEnvelope struct {
	Table domain.Table `json:"table"`
}

func (s *TableService) SetSeatSeparation(ctx context.Context, tableID string, enabled bool) (*domain.Table, error) {
	var resp tableEnvelope
	body := map[string]bool{"seatSeparation": enabled}
	if err := s.api.Put(ctx, "/tables/"+url.PathEscape(tableID)+"/seat-separation", body, &resp); err != nil {
		s.notifier.Error(apiclient.Message(err, MsgSeatsFailed))
		return nil, err
	}
	s.notifier.Success(MsgSeatsUpdated)
	return &resp.Table, nil
}

func (s *TableService) UpdateSeats(ctx context.Context, tableID string, seats []domain.Seat) (*domain.Table, error) {
	var resp tableEnvelope
	body := map[string][]domain.Seat{"assentos": seats}
	if err := s.api.Put(ctx, "/tables/"+url.PathEscape(tableID)+"/assentos", body, &resp); err != nil {
		s.notifier.Error(apiclient.Message(err, MsgSeatsFailed))
		return nil, err
	}
	s.notifier.Success(MsgSeatsUpdated)
	return &resp.Table, nil
}

// UpdateCapacity refuses a capacity below one or below the party size of
// the table's active reservation.
func (s *TableService) UpdateCapacity(ctx context.Context, tableID string, capacity int) (*domain.Table, error) {
	if capacity < 1 {
		s.notifier.Error(ErrInvalidCapacity.Error())
		return nil, ErrInvalidCapacity
	}

	var reservations struct {
		Reservations []domain.Reservation `json:"reservations"`
	}
	query := url.Values{"mesaId": {tableID}}
	if err := s.api.Get(ctx, "/reservations", query, &reservations); err != nil {
		s.notifier.Error(apiclient.Message(err, MsgCapacityFailed))
		return nil, err
	}
	for _, r := range reservations.Reservations {
		if r.Status == activeReservation && capacity < r.PartySize {
			err := fmt.Errorf("%w (%d)", ErrCapacityBelowReservation, r.PartySize)
			s.notifier.Error(err.Error())
			return nil, err
		}
	}

	var table domain.Table
	body := map[string]int{"capacidade": capacity}
	if err := s.api.Put(ctx, "/tables/"+url.PathEscape(tableID), body, &table); err != nil {
		s.notifier.Error(apiclient.Message(err, MsgCapacityFailed))
		return nil, err
	}
	s.notifier.Success(MsgCapacityUpdated)
	return &table, nil
}

func (s *TableService) Move(ctx context.Context, tableID string, position domain.Position) error {
	if s.MovementLocked() {
		return ErrMovementLocked
	}
	body := map[string][]domain.Position{"posicao": {position}}
	if err := s.api.Put(ctx, "/tables/"+url.PathEscape(tableID), body, nil); err != nil {
		s.notifier.Error(apiclient.Message(err, MsgPositionFailed))
		return err
	}
	return nil
}

func (s *TableService) MovementLocked() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.locked
}

// SetMovementLocked stores the lock on the backend. The local lock only
// changes once the backend accepts it.
func (s *TableService) SetMovementLocked(ctx context.Context, locked bool) error {
	body := map[string]bool{"draggable": !locked}
	if err := s.api.Put(ctx, "/config/draggable", body, nil); err != nil {
		s.notifier.Error(apiclient.Message(err, MsgMovementFailed))
		return err
	}

	s.mu.Lock()
	s.locked = locked
	s.mu.Unlock()

	if locked {
		s.notifier.Info(MsgMovementLocked)
	} else {
		s.notifier.Info(MsgMovementUnlocked)
	}
	return nil
}

// ActiveOrders lists the table's orders that are not finalized.
func (s *TableService) ActiveOrders(ctx context.Context, tableID string) ([]domain.Order, error) {
	var resp struct {
		Orders []domain.Order `json:"orders"`
	}
	if err := s.api.Get(ctx, "/orders", url.Values{"mesaId": {tableID}}, &resp); err != nil {
		s.notifier.Error(apiclient.Message(err, MsgTableOrdersFailed))
		return nil, err
	}
	active := make([]domain.Order, 0, len(resp.Orders))
	for _, o := range resp.Orders {
		if o.Status != domain.OrderFinalized {
			active = append(active, o)
		}
	}
	return active, nil
}

func (s *TableService) QRCode(tableID string) ([]byte, error) {
	png, err := s.qr.Generate(tableID)
	if err != nil {
		s.log.Error("table_qrcode", "", "qr code generation failed", err, slog.String("table_id", tableID))
		return nil, err
	}
	return png, nil
}
