package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"salao/terminal/internal/apiclient"
	"salao/terminal/internal/domain"
	"salao/terminal/internal/mocks"
	"salao/terminal/internal/notify"
	"salao/terminal/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	tableNoSeats = domain.Table{ID: "t1", Number: 1, Capacity: 4, Status: domain.TableFree}
	tableSeats   = domain.Table{ID: "t2", Number: 2, Capacity: 2, Status: domain.TableOccupied, Seats: []domain.Seat{
		{Number: 1, OccupantName: "Ana"},
		{Number: 2},
	}}
)

func readyDraft(t *testing.T, api *mocks.API, defaults service.DraftDefaults, products ...domain.Product) *service.Draft {
	t.Helper()
	expectReference(api, products, []domain.Table{tableNoSeats, tableSeats})
	d := service.NewDraft(context.Background(), "d1", defaults)
	require.NoError(t, d.Load(service.NewLoader(api)))
	return d
}

func TestDraft_LoadSeedsZeroQuantities(t *testing.T) {
	api := mocks.NewAPI(t)
	hidden := product("p3", "Vinho", "Bebidas", 80, 2)
	hidden.Available = false
	d := readyDraft(t, api, service.DraftDefaults{},
		product("p1", "Suco", "Bebidas", 8, 10),
		product("p2", "Pudim", "Sobremesas", 9, 5),
		hidden)

	state, _ := d.State()
	assert.Equal(t, service.DraftReady, state)

	items := d.Items()
	require.Len(t, items, 2)
	for _, item := range items {
		assert.Zero(t, item.Quantity)
		assert.Equal(t, domain.CourseMain, item.Course)
	}
	_, err := d.Quantity("p3")
	assert.ErrorIs(t, err, service.ErrUnknownProduct)
}

func TestDraft_LoadSkipsTablesWithUnknownStatus(t *testing.T) {
	api := mocks.NewAPI(t)
	api.On("Get", mock.Anything, "/products", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		*args.Get(3).(*[]domain.Product) = []domain.Product{product("p1", "Suco", "Bebidas", 8, 10)}
	}).Return(nil)
	api.On("Get", mock.Anything, "/tables", mock.Anything, mock.Anything).
		Run(respond(t, `[{"_id":"t1","numeroMesa":1,"status":"livre"},{"_id":"t8","status":"DISPONIVEL"},{"_id":"t9","numeroMesa":9}]`)).
		Return(nil)
	api.On("Get", mock.Anything, "/customers", mock.Anything, mock.Anything).Return(nil)

	d := service.NewDraft(context.Background(), "d1", service.DraftDefaults{})
	require.NoError(t, d.Load(service.NewLoader(api)))

	state, _ := d.State()
	assert.Equal(t, service.DraftReady, state)
	assert.Equal(t, []string{"t8", "t9"}, d.RejectedTables())
	assert.NoError(t, d.SelectTable("t1"))
	assert.ErrorIs(t, d.SelectTable("t9"), service.ErrUnknownTable)
}

func TestDraft_LoadFailure(t *testing.T) {
	api := mocks.NewAPI(t)
	api.On("Get", mock.Anything, "/products", mock.Anything, mock.Anything).
		Return(&apiclient.Error{Status: 500}).Maybe()
	api.On("Get", mock.Anything, "/tables", mock.Anything, mock.Anything).Return(nil).Maybe()
	api.On("Get", mock.Anything, "/customers", mock.Anything, mock.Anything).Return(nil).Maybe()

	d := service.NewDraft(context.Background(), "d1", service.DraftDefaults{})
	err := d.Load(service.NewLoader(api))
	require.Error(t, err)

	state, message := d.State()
	assert.Equal(t, service.DraftFailed, state)
	assert.Equal(t, apiclient.MsgServer, message)
	assert.ErrorIs(t, d.Increment("p1"), service.ErrDraftFailed)
}

func TestDraft_CloseDuringLoad(t *testing.T) {
	api := mocks.NewAPI(t)
	block := func(args mock.Arguments) {
		<-args.Get(0).(context.Context).Done()
	}
	for _, path := range []string{"/products", "/tables", "/customers"} {
		api.On("Get", mock.Anything, path, mock.Anything, mock.Anything).Run(block).Return(context.Canceled).Maybe()
	}

	d := service.NewDraft(context.Background(), "d1", service.DraftDefaults{})
	done := make(chan error, 1)
	go func() { done <- d.Load(service.NewLoader(api)) }()

	d.Close()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, service.ErrDraftClosed)
	case <-time.After(2 * time.Second):
		t.Fatal("load was not cancelled")
	}
	state, _ := d.State()
	assert.Equal(t, service.DraftClosed, state)
}

func TestDraft_QuantityBounds(t *testing.T) {
	api := mocks.NewAPI(t)
	d := readyDraft(t, api, service.DraftDefaults{}, product("p1", "Suco", "Bebidas", 10, 5))

	for i := 0; i < 3; i++ {
		require.NoError(t, d.Increment("p1"))
	}
	assert.Equal(t, 30.0, d.Total())

	for i := 0; i < 3; i++ {
		require.NoError(t, d.Decrement("p1"))
	}
	assert.ErrorIs(t, d.Decrement("p1"), service.ErrQuantityOutOfRange)
	qty, _ := d.Quantity("p1")
	assert.Zero(t, qty)
	assert.Zero(t, d.Total())

	for i := 0; i < 5; i++ {
		require.NoError(t, d.Increment("p1"))
	}
	assert.ErrorIs(t, d.Increment("p1"), service.ErrQuantityOutOfRange)
	qty, _ = d.Quantity("p1")
	assert.Equal(t, 5, qty)

	assert.ErrorIs(t, d.Increment("nope"), service.ErrUnknownProduct)
}

func TestDraft_SetCourse(t *testing.T) {
	api := mocks.NewAPI(t)
	d := readyDraft(t, api, service.DraftDefaults{}, product("p1", "Salada", "Entradas", 20, 5))

	require.NoError(t, d.SetCourse("p1", domain.CourseStarter))
	assert.Equal(t, domain.CourseStarter, d.Items()[0].Course)
	assert.ErrorIs(t, d.SetCourse("p1", domain.Course("lanche")), service.ErrInvalidCourse)
	assert.ErrorIs(t, d.SetCourse("p1", domain.Course("")), service.ErrInvalidCourse)
	assert.Equal(t, domain.CourseStarter, d.Items()[0].Course)

	require.NoError(t, d.SetCourse("p1", domain.Course(" Sobremesa")))
	assert.Equal(t, domain.CourseDessert, d.Items()[0].Course)
}

func TestDraft_SetCourseNormalizesForKitchen(t *testing.T) {
	api := mocks.NewAPI(t)
	d := readyDraft(t, api, service.DraftDefaults{}, product("p1", "Salada", "Entradas", 20, 5))
	require.NoError(t, d.Increment("p1"))
	require.NoError(t, d.SelectTable("t1"))
	require.NoError(t, d.SetCourse("p1", domain.Course("Entrada")))

	var sent *domain.OrderPayload
	api.On("Post", mock.Anything, "/orders", mock.Anything, nil).Run(func(args mock.Arguments) {
		sent = args.Get(2).(*domain.OrderPayload)
	}).Return(nil).Once()

	payload, err := d.Submit(context.Background(), api, newFeed())
	require.NoError(t, err)
	require.NotNil(t, sent)
	assert.Equal(t, domain.CourseStarter, sent.Items[0].Course)

	tickets := d.KitchenTickets(*payload, time.Now())
	require.Len(t, tickets, 1)
	assert.Equal(t, domain.CourseStarter, tickets[0].Course)
}

func TestDraft_SeatSelection(t *testing.T) {
	api := mocks.NewAPI(t)
	d := readyDraft(t, api, service.DraftDefaults{}, product("p1", "Suco", "Bebidas", 8, 10))

	assert.ErrorIs(t, d.SelectSeat("1"), service.ErrNoTable)

	require.NoError(t, d.SelectTable("t1"))
	assert.Equal(t, []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10"}, d.SeatOptions())
	require.NoError(t, d.SelectSeat("3"))

	require.NoError(t, d.SelectTable("t2"))
	tableID, seat := d.Selection()
	assert.Equal(t, "t2", tableID)
	assert.Empty(t, seat)
	assert.Equal(t, []string{"1", "2"}, d.SeatOptions())
	assert.ErrorIs(t, d.SelectSeat("3"), service.ErrUnknownSeat)

	assert.ErrorIs(t, d.SelectTable("t9"), service.ErrUnknownTable)
	tableID, _ = d.Selection()
	assert.Equal(t, "t2", tableID)
}

func TestDraft_SubmitValidation(t *testing.T) {
	tests := []struct {
		name    string
		prepare func(d *service.Draft)
		wantErr error
	}{
		{
			name:    "no items",
			prepare: func(d *service.Draft) { _ = d.SelectTable("t1") },
			wantErr: service.ErrNoItems,
		},
		{
			name:    "no table",
			prepare: func(d *service.Draft) { _ = d.Increment("p1") },
			wantErr: service.ErrNoTable,
		},
		{
			name:    "items are checked before the table",
			prepare: func(d *service.Draft) {},
			wantErr: service.ErrNoItems,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			api := mocks.NewAPI(t)
			feed := newFeed()
			d := readyDraft(t, api, service.DraftDefaults{}, product("p1", "Suco", "Bebidas", 8, 10))
			testCase.prepare(d)

			payload, err := d.Submit(context.Background(), api, feed)

			assert.Nil(t, payload)
			assert.ErrorIs(t, err, testCase.wantErr)
			n := lastNotification(t, feed)
			assert.Equal(t, notify.LevelError, n.Level)
			assert.Equal(t, testCase.wantErr.Error(), n.Message)
			api.AssertNotCalled(t, "Post", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestDraft_SubmitSuccessResets(t *testing.T) {
	api := mocks.NewAPI(t)
	feed := newFeed()
	d := readyDraft(t, api, service.DraftDefaults{TableID: "t2", Seat: "1", CustomerName: "Ana"},
		product("p1", "Salada", "Entradas", 20, 5),
		product("p2", "Pudim", "Sobremesas", 9, 5))

	require.NoError(t, d.Increment("p1"))
	require.NoError(t, d.SetCourse("p1", domain.CourseStarter))
	require.NoError(t, d.Increment("p2"))
	require.NoError(t, d.Increment("p2"))
	require.NoError(t, d.SetCourse("p2", domain.CourseDessert))
	d.SetNote("sem gelo")

	expected := domain.OrderPayload{
		OrderType: domain.OrderTypeLocal,
		TableID:   "t2",
		Seat:      "1",
		Prepare:   true,
		Items: []domain.OrderPayloadItem{
			{Product: "p1", Quantity: 1, Course: domain.CourseStarter},
			{Product: "p2", Quantity: 2, Course: domain.CourseDessert},
		},
		CustomerName: "Ana",
		Note:         "sem gelo",
	}
	api.On("Post", mock.Anything, "/orders", &expected, nil).Return(nil).Once()

	var submitted []domain.OrderPayload
	d.OnSubmitted(func(_ *service.Draft, payload domain.OrderPayload) {
		submitted = append(submitted, payload)
	})

	payload, err := d.Submit(context.Background(), api, feed)
	require.NoError(t, err)
	assert.Equal(t, expected, *payload)
	assert.Len(t, submitted, 1)

	n := lastNotification(t, feed)
	assert.Equal(t, notify.LevelSuccess, n.Level)
	assert.Equal(t, service.MsgOrderCreated, n.Message)

	for _, item := range d.Items() {
		assert.Zero(t, item.Quantity)
		assert.Equal(t, domain.CourseMain, item.Course)
	}
	tableID, seat := d.Selection()
	assert.Equal(t, "t2", tableID)
	assert.Equal(t, "1", seat)
	assert.Equal(t, "", d.View(service.ViewFilter{}).Note)
}

func TestDraft_SubmitFailureKeepsDraft(t *testing.T) {
	api := mocks.NewAPI(t)
	feed := newFeed()
	d := readyDraft(t, api, service.DraftDefaults{}, product("p1", "Suco", "Bebidas", 8, 10))
	require.NoError(t, d.Increment("p1"))
	require.NoError(t, d.Increment("p1"))
	require.NoError(t, d.SelectTable("t1"))

	api.On("Post", mock.Anything, "/orders", mock.Anything, nil).
		Return(&apiclient.Error{Status: 400, Message: "Estoque insuficiente"}).Once()

	_, err := d.Submit(context.Background(), api, feed)
	require.Error(t, err)

	n := lastNotification(t, feed)
	assert.Equal(t, notify.LevelError, n.Level)
	assert.Equal(t, "Estoque insuficiente", n.Message)

	qty, _ := d.Quantity("p1")
	assert.Equal(t, 2, qty)
	tableID, _ := d.Selection()
	assert.Equal(t, "t1", tableID)
	assert.False(t, d.Submitting())
}

func TestDraft_SubmitFailureFallbackMessage(t *testing.T) {
	api := mocks.NewAPI(t)
	feed := newFeed()
	d := readyDraft(t, api, service.DraftDefaults{}, product("p1", "Suco", "Bebidas", 8, 10))
	require.NoError(t, d.Increment("p1"))
	require.NoError(t, d.SelectTable("t1"))

	api.On("Post", mock.Anything, "/orders", mock.Anything, nil).Return(&apiclient.Error{Status: 409}).Once()

	_, err := d.Submit(context.Background(), api, feed)
	require.Error(t, err)
	assert.Equal(t, service.MsgOrderFailed, lastNotification(t, feed).Message)
}

func TestDraft_SingleSubmissionInFlight(t *testing.T) {
	api := mocks.NewAPI(t)
	feed := newFeed()
	d := readyDraft(t, api, service.DraftDefaults{}, product("p1", "Suco", "Bebidas", 8, 10))
	require.NoError(t, d.Increment("p1"))
	require.NoError(t, d.SelectTable("t1"))

	release := make(chan struct{})
	api.On("Post", mock.Anything, "/orders", mock.Anything, nil).Run(func(mock.Arguments) {
		<-release
	}).Return(nil).Once()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := d.Submit(context.Background(), api, feed)
		assert.NoError(t, err)
	}()

	assert.Eventually(t, d.Submitting, time.Second, 5*time.Millisecond)
	_, err := d.Submit(context.Background(), api, feed)
	assert.ErrorIs(t, err, service.ErrSubmitInFlight)

	close(release)
	wg.Wait()
	assert.False(t, d.Submitting())
}

func TestDraft_NotReady(t *testing.T) {
	d := service.NewDraft(context.Background(), "d1", service.DraftDefaults{})

	assert.ErrorIs(t, d.Increment("p1"), service.ErrDraftNotReady)
	assert.ErrorIs(t, d.SelectTable("t1"), service.ErrDraftNotReady)
	_, err := d.Submit(context.Background(), mocks.NewAPI(t), newFeed())
	assert.ErrorIs(t, err, service.ErrDraftNotReady)

	d.Close()
	assert.True(t, errors.Is(d.Increment("p1"), service.ErrDraftClosed))
}
