package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"salao/terminal/internal/apiclient"
	"salao/terminal/internal/domain"
	"salao/terminal/internal/logger"
	"salao/terminal/internal/notify"
	"salao/terminal/internal/service"
	"salao/terminal/internal/session"

	"github.com/gorilla/mux"
)

type Handler struct {
	Auth    service.AuthServiceInterface
	Drafts  service.DraftServiceInterface
	Tables  service.TableServiceInterface
	Orders  service.OrderBoardInterface
	Session *session.Session
	Feed    *notify.Feed
	Events  http.Handler
	Log     *logger.Logger
}

func NewHandler(auth service.AuthServiceInterface, drafts service.DraftServiceInterface, tables service.TableServiceInterface, orders service.OrderBoardInterface) *Handler {
	return &Handler{
		Auth:   auth,
		Drafts: drafts,
		Tables: tables,
		Orders: orders,
	}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.healthCheck).Methods("GET")
	r.HandleFunc("/api/session/login", h.login).Methods("POST")
	if h.Events != nil {
		r.Handle("/ws", h.Events)
	}

	api := r.PathPrefix("/api").Subrouter()
	api.Use(h.requireSession)

	api.HandleFunc("/session/logout", h.logout).Methods("POST")
	api.HandleFunc("/notifications", h.getNotifications).Methods("GET")

	api.HandleFunc("/drafts", h.openDraft).Methods("POST")
	api.HandleFunc("/drafts/{id}", h.getDraft).Methods("GET")
	api.HandleFunc("/drafts/{id}", h.closeDraft).Methods("DELETE")
	api.HandleFunc("/drafts/{id}/items/{productId}/increment", h.incrementItem).Methods("POST")
	api.HandleFunc("/drafts/{id}/items/{productId}/decrement", h.decrementItem).Methods("POST")
	api.HandleFunc("/drafts/{id}/items/{productId}/course", h.setCourse).Methods("PUT")
	api.HandleFunc("/drafts/{id}/table", h.selectTable).Methods("PUT")
	api.HandleFunc("/drafts/{id}/seat", h.selectSeat).Methods("PUT")
	api.HandleFunc("/drafts/{id}/details", h.updateDetails).Methods("PUT")
	api.HandleFunc("/drafts/{id}/submit", h.submitDraft).Methods("POST")

	api.HandleFunc("/tables/{id}", h.getTable).Methods("GET")
	api.HandleFunc("/tables/{id}/status", h.setTableStatus).Methods("PUT")
	api.HandleFunc("/tables/{id}/start-order", h.startOrder).Methods("POST")
	api.HandleFunc("/tables/{id}/finalize", h.finalizeTable).Methods("POST")
	api.HandleFunc("/tables/{id}/seat-separation", h.setSeatSeparation).Methods("PUT")
	api.HandleFunc("/tables/{id}/seats", h.updateSeats).Methods("PUT")
	api.HandleFunc("/tables/{id}/capacity", h.updateCapacity).Methods("PUT")
	api.HandleFunc("/tables/{id}/position", h.moveTable).Methods("PUT")
	api.HandleFunc("/tables/{id}/orders", h.getTableOrders).Methods("GET")
	api.HandleFunc("/tables/{id}/qrcode", h.getTableQRCode).Methods("GET")
	api.HandleFunc("/config/movement-lock", h.setMovementLock).Methods("PUT")

	api.HandleFunc("/orders", h.getOrderBoard).Methods("GET")
	api.HandleFunc("/orders/{id}/advance", h.advanceOrder).Methods("POST")
}

func (h *Handler) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.Session != nil && !h.Session.Authenticated() {
			http.Error(w, "login required", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":        "healthy",
		"service":       "terminal",
		"authenticated": h.Session != nil && h.Session.Authenticated(),
		"timestamp":     time.Now().Format(time.RFC3339),
	}
	writeJSON(w, http.StatusOK, response)
}

type loginRequest struct {
	Email      string `json:"email"`
	Password   string `json:"senha"`
	RememberMe bool   `json:"rememberMe"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Email == "" || req.Password == "" {
		http.Error(w, "email and password are required", http.StatusBadRequest)
		return
	}
	user, err := h.Auth.Login(r.Context(), req.Email, req.Password, req.RememberMe)
	if err != nil {
		h.writeError(w, "login", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"user": user})
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	h.Auth.Logout(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) getNotifications(w http.ResponseWriter, r *http.Request) {
	notifications := []notify.Notification{}
	if h.Feed != nil {
		notifications = h.Feed.Recent()
	}
	writeJSON(w, http.StatusOK, notifications)
}

func (h *Handler) openDraft(w http.ResponseWriter, r *http.Request) {
	var defaults service.DraftDefaults
	if err := decodeOptional(r, &defaults); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	draft := h.Drafts.Open(defaults)
	writeJSON(w, http.StatusCreated, draft.View(service.ViewFilter{}))
}

func (h *Handler) getDraft(w http.ResponseWriter, r *http.Request) {
	draft, ok := h.draft(w, r)
	if !ok {
		return
	}
	filter := service.ViewFilter{
		Search:     r.URL.Query().Get("search"),
		Categories: r.URL.Query()["categoria"],
	}
	writeJSON(w, http.StatusOK, draft.View(filter))
}

func (h *Handler) closeDraft(w http.ResponseWriter, r *http.Request) {
	if err := h.Drafts.Close(mux.Vars(r)["id"]); err != nil {
		h.writeError(w, "close_draft", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) incrementItem(w http.ResponseWriter, r *http.Request) {
	h.updateDraft(w, r, "increment_item", func(d *service.Draft) error {
		return d.Increment(mux.Vars(r)["productId"])
	})
}

func (h *Handler) decrementItem(w http.ResponseWriter, r *http.Request) {
	h.updateDraft(w, r, "decrement_item", func(d *service.Draft) error {
		return d.Decrement(mux.Vars(r)["productId"])
	})
}

func (h *Handler) setCourse(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Course domain.Course `json:"tipo"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.updateDraft(w, r, "set_course", func(d *service.Draft) error {
		return d.SetCourse(mux.Vars(r)["productId"], req.Course)
	})
}

func (h *Handler) selectTable(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TableID string `json:"mesaId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.updateDraft(w, r, "select_table", func(d *service.Draft) error {
		return d.SelectTable(req.TableID)
	})
}

func (h *Handler) selectSeat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Seat string `json:"assento"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.updateDraft(w, r, "select_seat", func(d *service.Draft) error {
		return d.SelectSeat(req.Seat)
	})
}

type detailsRequest struct {
	Note         *string `json:"observacao"`
	Prepare      *bool   `json:"preparar"`
	CustomerName *string `json:"nomeCliente"`
}

func (h *Handler) updateDetails(w http.ResponseWriter, r *http.Request) {
	var req detailsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.updateDraft(w, r, "update_details", func(d *service.Draft) error {
		if req.Note != nil {
			d.SetNote(*req.Note)
		}
		if req.Prepare != nil {
			d.SetPrepare(*req.Prepare)
		}
		if req.CustomerName != nil {
			d.SetCustomerName(*req.CustomerName)
		}
		return nil
	})
}

func (h *Handler) submitDraft(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	payload, err := h.Drafts.Submit(r.Context(), id)
	if err != nil {
		h.writeError(w, "submit_draft", err)
		return
	}
	draft, err := h.Drafts.Get(id)
	if err != nil {
		h.writeError(w, "submit_draft", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"order": payload,
		"draft": draft.View(service.ViewFilter{}),
	})
}

func (h *Handler) draft(w http.ResponseWriter, r *http.Request) (*service.Draft, bool) {
	draft, err := h.Drafts.Get(mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, "get_draft", err)
		return nil, false
	}
	return draft, true
}

func (h *Handler) updateDraft(w http.ResponseWriter, r *http.Request, action string, fn func(*service.Draft) error) {
	draft, ok := h.draft(w, r)
	if !ok {
		return
	}
	if err := fn(draft); err != nil {
		h.writeError(w, action, err)
		return
	}
	writeJSON(w, http.StatusOK, draft.View(service.ViewFilter{}))
}

func (h *Handler) getTable(w http.ResponseWriter, r *http.Request) {
	table, err := h.Tables.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, "get_table", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"table":   table,
		"actions": table.Status.Transitions(),
	})
}

func (h *Handler) setTableStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	status, err := domain.ParseTableStatus(req.Status)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.Tables.SetStatus(r.Context(), mux.Vars(r)["id"], status); err != nil {
		h.writeError(w, "set_table_status", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]domain.TableStatus{"status": status})
}

func (h *Handler) startOrder(w http.ResponseWriter, r *http.Request) {
	if err := h.Tables.StartOrder(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.writeError(w, "start_order", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) finalizeTable(w http.ResponseWriter, r *http.Request) {
	if err := h.Tables.Finalize(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.writeError(w, "finalize_table", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) setSeatSeparation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SeatSeparation bool `json:"seatSeparation"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	table, err := h.Tables.SetSeatSeparation(r.Context(), mux.Vars(r)["id"], req.SeatSeparation)
	if err != nil {
		h.writeError(w, "seat_separation", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"table": table})
}

func (h *Handler) updateSeats(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Seats []domain.Seat `json:"assentos"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	table, err := h.Tables.UpdateSeats(r.Context(), mux.Vars(r)["id"], req.Seats)
	if err != nil {
		h.writeError(w, "update_seats", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"table": table})
}

func (h *Handler) updateCapacity(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Capacity int `json:"capacidade"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	table, err := h.Tables.UpdateCapacity(r.Context(), mux.Vars(r)["id"], req.Capacity)
	if err != nil {
		h.writeError(w, "update_capacity", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"table": table})
}

func (h *Handler) moveTable(w http.ResponseWriter, r *http.Request) {
	var position domain.Position
	if err := json.NewDecoder(r.Body).Decode(&position); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.Tables.Move(r.Context(), mux.Vars(r)["id"], position); err != nil {
		h.writeError(w, "move_table", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) setMovementLock(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Locked bool `json:"locked"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.Tables.SetMovementLocked(r.Context(), req.Locked); err != nil {
		h.writeError(w, "movement_lock", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"locked": req.Locked})
}

func (h *Handler) getTableOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Tables.ActiveOrders(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, "table_orders", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"orders": orders})
}

func (h *Handler) getTableQRCode(w http.ResponseWriter, r *http.Request) {
	png, err := h.Tables.QRCode(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Failed to generate QR code", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

func (h *Handler) getOrderBoard(w http.ResponseWriter, r *http.Request) {
	board, err := h.Orders.Board(r.Context())
	if err != nil {
		h.writeError(w, "order_board", err)
		return
	}
	type column struct {
		Status domain.OrderStatus `json:"status"`
		Orders []domain.Order     `json:"orders"`
	}
	columns := make([]column, 0, len(domain.OrderStages))
	for _, stage := range domain.OrderStages {
		columns = append(columns, column{Status: stage, Orders: board[stage]})
	}
	writeJSON(w, http.StatusOK, columns)
}

func (h *Handler) advanceOrder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	current, err := domain.ParseOrderStatus(req.Status)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	next, err := h.Orders.Advance(r.Context(), mux.Vars(r)["id"], current)
	if err != nil {
		h.writeError(w, "advance_order", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]domain.OrderStatus{"status": next})
}

// writeError maps service and backend errors to a status code.
func (h *Handler) writeError(w http.ResponseWriter, action string, err error) {
	var apiErr *apiclient.Error
	switch {
	case errors.Is(err, service.ErrDraftNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, service.ErrNoItems),
		errors.Is(err, service.ErrNoTable),
		errors.Is(err, service.ErrQuantityOutOfRange),
		errors.Is(err, service.ErrUnknownProduct),
		errors.Is(err, service.ErrUnknownTable),
		errors.Is(err, service.ErrUnknownSeat),
		errors.Is(err, service.ErrInvalidCourse),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrInvalidCapacity),
		errors.Is(err, service.ErrCapacityBelowReservation):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, service.ErrSubmitInFlight),
		errors.Is(err, service.ErrDraftNotReady),
		errors.Is(err, service.ErrDraftFailed),
		errors.Is(err, service.ErrDraftClosed),
		errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrTableDirty),
		errors.Is(err, service.ErrMovementLocked),
		errors.Is(err, service.ErrFinalStage):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, domain.ErrMissingTableStatus):
		h.Log.Warn(action, "", err.Error())
		http.Error(w, err.Error(), http.StatusBadGateway)
	case errors.As(err, &apiErr):
		status := apiErr.Status
		if status < http.StatusBadRequest {
			status = http.StatusBadGateway
		}
		http.Error(w, apiclient.Message(err, err.Error()), status)
	default:
		h.Log.Error(action, "", "request failed", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// decodeOptional decodes a JSON body into v, treating an empty body as {}.
func decodeOptional(r *http.Request, v interface{}) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
