package service_test

import (
	"context"
	"testing"

	"salao/terminal/internal/apiclient"
	"salao/terminal/internal/domain"
	"salao/terminal/internal/logger"
	"salao/terminal/internal/mocks"
	"salao/terminal/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestOrderBoard_Board(t *testing.T) {
	api := mocks.NewAPI(t)
	board := service.NewOrderBoard(api, newFeed(), logger.Discard())
	api.On("Get", mock.Anything, "/orders", mock.Anything, mock.Anything).
		Run(respond(t, `[
			{"_id":"o1","status":"Pendente","itens":[]},
			{"_id":"o2","status":"preparando","itens":[]},
			{"_id":"o3","status":"Pendente","itens":[]},
			{"_id":"o4","status":"finalizado","itens":[]}
		]`)).
		Return(nil).Once()

	columns, err := board.Board(context.Background())
	require.NoError(t, err)

	assert.Len(t, columns, len(domain.OrderStages))
	assert.Len(t, columns[domain.OrderPending], 2)
	assert.Len(t, columns[domain.OrderPreparing], 1)
	assert.Empty(t, columns[domain.OrderReady])
	assert.NotNil(t, columns[domain.OrderDelivered])
}

func TestOrderBoard_Advance(t *testing.T) {
	tests := []struct {
		name    string
		current domain.OrderStatus
		want    domain.OrderStatus
		wantErr error
	}{
		{name: "pending to preparing", current: domain.OrderPending, want: domain.OrderPreparing},
		{name: "preparing to ready", current: domain.OrderPreparing, want: domain.OrderReady},
		{name: "ready to delivered", current: domain.OrderReady, want: domain.OrderDelivered},
		{name: "delivered is final", current: domain.OrderDelivered, wantErr: service.ErrFinalStage},
		{name: "finalized is final", current: domain.OrderFinalized, wantErr: service.ErrFinalStage},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			api := mocks.NewAPI(t)
			board := service.NewOrderBoard(api, newFeed(), logger.Discard())
			if testCase.wantErr == nil {
				body := map[string]domain.OrderStatus{"status": testCase.want}
				api.On("Put", mock.Anything, "/orders/o1/status", body, nil).Return(nil).Once()
			}

			next, err := board.Advance(context.Background(), "o1", testCase.current)
			if testCase.wantErr != nil {
				assert.ErrorIs(t, err, testCase.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, testCase.want, next)
		})
	}
}

func TestOrderBoard_AdvanceFailure(t *testing.T) {
	api := mocks.NewAPI(t)
	feed := newFeed()
	board := service.NewOrderBoard(api, feed, logger.Discard())
	api.On("Put", mock.Anything, "/orders/o1/status", mock.Anything, nil).Return(&apiclient.Error{Status: 403}).Once()

	_, err := board.Advance(context.Background(), "o1", domain.OrderPending)
	require.Error(t, err)
	assert.Equal(t, apiclient.MsgForbidden, lastNotification(t, feed).Message)
}
