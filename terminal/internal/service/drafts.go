package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"salao/terminal/internal/domain"
	"salao/terminal/internal/logger"
	"salao/terminal/internal/notify"

	"github.com/google/uuid"
)

// DraftService owns the drafts open on this terminal. Each draft loads its
// reference data in the background and is bound to the service context.
type DraftService struct {
	ctx      context.Context
	mu       sync.Mutex
	drafts   map[string]*Draft
	loader   *Loader
	api      API
	notifier notify.Notifier
	kitchen  KitchenPublisher
	log      *logger.Logger
	now      func() time.Time
}

// NewDraftService builds the service. kitchen may be nil, in which case
// submitted orders are not split into kitchen tickets.
func NewDraftService(ctx context.Context, api API, notifier notify.Notifier, kitchen KitchenPublisher, log *logger.Logger) *DraftService {
	return &DraftService{
		ctx:      ctx,
		drafts:   make(map[string]*Draft),
		loader:   NewLoader(api),
		api:      api,
		notifier: notifier,
		kitchen:  kitchen,
		log:      log,
		now:      time.Now,
	}
}

func (s *DraftService) Open(defaults DraftDefaults) *Draft {
	d := NewDraft(s.ctx, uuid.NewString(), defaults)
	d.OnSubmitted(s.publishTickets)

	s.mu.Lock()
	s.drafts[d.ID] = d
	s.mu.Unlock()

	go func() {
		if err := d.Load(s.loader); err != nil && err != ErrDraftClosed {
			s.log.Error("load_draft", d.ID, "reference data failed to load", err)
			return
		}
		if rejected := d.RejectedTables(); len(rejected) > 0 {
			s.log.Warn("load_draft", d.ID, "tables with unknown status left out",
				slog.Any("table_ids", rejected))
		}
		s.log.Debug("load_draft", d.ID, "draft ready")
	}()
	return d
}

func (s *DraftService) Get(id string) (*Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.drafts[id]
	if !ok {
		return nil, ErrDraftNotFound
	}
	return d, nil
}

func (s *DraftService) Close(id string) error {
	s.mu.Lock()
	d, ok := s.drafts[id]
	delete(s.drafts, id)
	s.mu.Unlock()
	if !ok {
		return ErrDraftNotFound
	}
	d.Close()
	return nil
}

// CloseAll closes every open draft. It runs when the operator's session
// ends, so the next operator starts with none.
func (s *DraftService) CloseAll() {
	s.mu.Lock()
	drafts := s.drafts
	s.drafts = make(map[string]*Draft)
	s.mu.Unlock()

	for _, d := range drafts {
		d.Close()
	}
	if len(drafts) > 0 {
		s.log.Info("close_drafts", "", "open drafts closed", slog.Int("count", len(drafts)))
	}
}

func (s *DraftService) Submit(ctx context.Context, id string) (*domain.OrderPayload, error) {
	d, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	return d.Submit(ctx, s.api, s.notifier)
}

// publishTickets hands each course of an accepted order to the kitchen. The
// order already exists on the backend, so a failed publish is only logged.
func (s *DraftService) publishTickets(d *Draft, payload domain.OrderPayload) {
	if s.kitchen == nil {
		return
	}
	for _, ticket := range d.KitchenTickets(payload, s.now()) {
		if err := s.kitchen.PublishTicket(s.ctx, ticket); err != nil {
			s.log.Error("publish_ticket", d.ID, "kitchen ticket not published", err,
				slog.String("table_id", ticket.TableID),
				slog.String("course", string(ticket.Course)))
			continue
		}
		s.log.Info("publish_ticket", d.ID, "kitchen ticket published",
			slog.String("table_id", ticket.TableID),
			slog.String("course", string(ticket.Course)),
			slog.Int("items", len(ticket.Items)))
	}
}
