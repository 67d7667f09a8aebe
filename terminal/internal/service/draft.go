package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"salao/terminal/internal/apiclient"
	"salao/terminal/internal/domain"
)

// fallbackSeatCount is how many seats are offered for a table that has no
// seat list of its own.
const fallbackSeatCount = 10

type DraftState string

const (
	DraftLoading DraftState = "loading"
	DraftReady   DraftState = "ready"
	DraftFailed  DraftState = "failed"
	DraftClosed  DraftState = "closed"
)

// DraftDefaults pre-fills a draft opened from a table or a seat. A reset
// returns the draft to these values.
type DraftDefaults struct {
	TableID      string `json:"mesaId"`
	Seat         string `json:"assento"`
	CustomerName string `json:"nomeCliente"`
}

// Draft is an order being composed for a local table. It holds one line item
// per available product; quantities stay within [0, stock].
type Draft struct {
	ID string

	mu       sync.Mutex
	ctx      context.Context
	cancel   context.CancelFunc
	state    DraftState
	loadErr  string
	defaults DraftDefaults

	ref      *ReferenceData
	products map[string]domain.Product
	prices   PriceList
	items    []LineItem
	index    map[string]int

	tableID      string
	seat         string
	customerName string
	note         string
	prepare      bool
	submitting   bool

	onSubmitted func(d *Draft, payload domain.OrderPayload)
}

// NewDraft returns a draft in the loading state. Its lifetime is bound to
// parent and ends at Close.
func NewDraft(parent context.Context, id string, defaults DraftDefaults) *Draft {
	ctx, cancel := context.WithCancel(parent)
	return &Draft{
		ID:       id,
		ctx:      ctx,
		cancel:   cancel,
		state:    DraftLoading,
		defaults: defaults,
	}
}

// OnSubmitted registers fn to run after the backend accepts the order and
// before the draft is reset.
func (d *Draft) OnSubmitted(fn func(d *Draft, payload domain.OrderPayload)) {
	d.mu.Lock()
	d.onSubmitted = fn
	d.mu.Unlock()
}

// Load fills the draft with reference data. A draft closed while the load is
// in flight stays closed and the result is dropped.
func (d *Draft) Load(loader *Loader) error {
	ref, err := loader.Load(d.ctx)

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state == DraftClosed {
		return ErrDraftClosed
	}
	if err != nil {
		d.state = DraftFailed
		d.loadErr = apiclient.Message(err, "unknown error while loading data")
		return err
	}

	d.ref = ref
	d.products = make(map[string]domain.Product, len(ref.Products))
	for _, p := range ref.Products {
		d.products[p.ID] = p
	}
	d.prices = Prices(ref.Products)
	d.resetLocked()
	d.state = DraftReady
	return nil
}

// RejectedTables lists the tables the last load left out.
func (d *Draft) RejectedTables() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.ref == nil {
		return nil
	}
	return d.ref.RejectedTables
}

func (d *Draft) State() (DraftState, string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state, d.loadErr
}

// Close discards the draft and cancels a load still in flight.
func (d *Draft) Close() {
	d.mu.Lock()
	d.state = DraftClosed
	d.mu.Unlock()
	d.cancel()
}

func (d *Draft) Increment(productID string) error {
	return d.adjust(productID, 1)
}

func (d *Draft) Decrement(productID string) error {
	return d.adjust(productID, -1)
}

func (d *Draft) adjust(productID string, delta int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.readyLocked(); err != nil {
		return err
	}
	i, ok := d.index[productID]
	if !ok {
		return ErrUnknownProduct
	}
	next := d.items[i].Quantity + delta
	if next < 0 || next > d.products[productID].Stock {
		return ErrQuantityOutOfRange
	}
	d.items[i].Quantity = next
	return nil
}

func (d *Draft) SetCourse(productID string, course domain.Course) error {
	parsed, err := domain.ParseCourse(string(course))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCourse, err)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.readyLocked(); err != nil {
		return err
	}
	i, ok := d.index[productID]
	if !ok {
		return ErrUnknownProduct
	}
	d.items[i].Course = parsed
	return nil
}

func (d *Draft) Quantity(productID string) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	i, ok := d.index[productID]
	if !ok {
		return 0, ErrUnknownProduct
	}
	return d.items[i].Quantity, nil
}

func (d *Draft) Items() []LineItem {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]LineItem(nil), d.items...)
}

func (d *Draft) Total() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return Total(d.items, d.prices)
}

// SelectTable picks the table the order is for and clears the seat. An
// empty id deselects the table.
func (d *Draft) SelectTable(tableID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.readyLocked(); err != nil {
		return err
	}
	if tableID != "" {
		if _, ok := d.ref.Table(tableID); !ok {
			return ErrUnknownTable
		}
	}
	d.tableID = tableID
	d.seat = ""
	return nil
}

func (d *Draft) SelectSeat(seat string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.readyLocked(); err != nil {
		return err
	}
	if d.tableID == "" {
		return ErrNoTable
	}
	seat = strings.TrimSpace(seat)
	if seat == "" {
		d.seat = ""
		return nil
	}
	for _, option := range d.seatOptionsLocked() {
		if option == seat {
			d.seat = seat
			return nil
		}
	}
	return ErrUnknownSeat
}

func (d *Draft) Selection() (tableID, seat string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.tableID, d.seat
}

func (d *Draft) SeatOptions() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.seatOptionsLocked()
}

// seatOptionsLocked lists the seats of the selected table, or seats 1..10
// when the table has no seat list. A seat without a number is offered by
// its position.
func (d *Draft) seatOptionsLocked() []string {
	if d.tableID == "" || d.ref == nil {
		return nil
	}
	table, ok := d.ref.Table(d.tableID)
	if !ok {
		return nil
	}
	if len(table.Seats) == 0 {
		options := make([]string, fallbackSeatCount)
		for i := range options {
			options[i] = strconv.Itoa(i + 1)
		}
		return options
	}
	options := make([]string, len(table.Seats))
	for i, seat := range table.Seats {
		number := seat.Number
		if number == 0 {
			number = i + 1
		}
		options[i] = strconv.Itoa(number)
	}
	return options
}

func (d *Draft) SetNote(note string) {
	d.mu.Lock()
	d.note = note
	d.mu.Unlock()
}

func (d *Draft) SetPrepare(prepare bool) {
	d.mu.Lock()
	d.prepare = prepare
	d.mu.Unlock()
}

func (d *Draft) SetCustomerName(name string) {
	d.mu.Lock()
	d.customerName = name
	d.mu.Unlock()
}

func (d *Draft) readyLocked() error {
	switch d.state {
	case DraftReady:
		return nil
	case DraftLoading:
		return ErrDraftNotReady
	case DraftFailed:
		return fmt.Errorf("%w: %s", ErrDraftFailed, d.loadErr)
	case DraftClosed:
		return ErrDraftClosed
	}
	panic(fmt.Sprintf("service: unhandled draft state %q", string(d.state)))
}

// resetLocked returns the draft to its initial shape, seeded from the
// products already loaded.
func (d *Draft) resetLocked() {
	d.items = make([]LineItem, len(d.ref.Products))
	d.index = make(map[string]int, len(d.ref.Products))
	for i, p := range d.ref.Products {
		d.items[i] = LineItem{ProductID: p.ID, Course: domain.CourseMain}
		d.index[p.ID] = i
	}
	d.tableID = d.defaults.TableID
	d.seat = d.defaults.Seat
	d.customerName = d.defaults.CustomerName
	d.note = ""
	d.prepare = true
}
