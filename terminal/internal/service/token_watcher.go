package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"salao/terminal/internal/logger"
	"salao/terminal/internal/notify"
	"salao/terminal/internal/session"

	"github.com/golang-jwt/jwt/v5"
)

// refreshBefore is how long before expiry the access token is renewed.
const refreshBefore = 60 * time.Second

const MsgSessionExpired = "session expired, please log in again"

// TokenExpiry reads the exp claim of a JWT without verifying its signature.
// The terminal never holds the signing key; the backend verifies the token.
func TokenExpiry(token string) (time.Time, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, err
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, err
	}
	if exp == nil {
		return time.Time{}, ErrNoExpiry
	}
	return exp.Time, nil
}

// TokenWatcher keeps the session's access token fresh. It renews the token
// shortly before it expires and ends the session when it cannot.
type TokenWatcher struct {
	ctx      context.Context
	api      API
	session  *session.Session
	notifier notify.Notifier
	log      *logger.Logger
	now      func() time.Time

	mu        sync.Mutex
	timer     *time.Timer
	onRefresh []func()
}

func NewTokenWatcher(ctx context.Context, api API, sess *session.Session, notifier notify.Notifier, log *logger.Logger) *TokenWatcher {
	return &TokenWatcher{
		ctx:      ctx,
		api:      api,
		session:  sess,
		notifier: notifier,
		log:      log,
		now:      time.Now,
	}
}

// Watch schedules the next refresh for the session's current token. An
// unreadable or expired token ends the session immediately.
func (w *TokenWatcher) Watch() {
	token := w.session.Token()
	if token == "" {
		return
	}
	exp, err := TokenExpiry(token)
	if err != nil {
		w.expire("unreadable token", err)
		return
	}
	now := w.now()
	if !exp.After(now) {
		w.expire("token expired", nil)
		return
	}

	delay := exp.Sub(now) - refreshBefore
	if delay < 0 {
		delay = 0
	}

	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(delay, w.refresh)
	w.mu.Unlock()

	w.log.Debug("token_watch", "", "token refresh scheduled", slog.Duration("in", delay))
}

// OnRefresh registers fn to run after every successful refresh.
func (w *TokenWatcher) OnRefresh(fn func()) {
	w.mu.Lock()
	w.onRefresh = append(w.onRefresh, fn)
	w.mu.Unlock()
}

func (w *TokenWatcher) Stop() {
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.mu.Unlock()
}

func (w *TokenWatcher) refresh() {
	if err := w.Refresh(w.ctx); err != nil {
		w.expire("token refresh failed", err)
		return
	}
	w.Watch()
}

// Refresh exchanges the refresh token for a new access token. A response
// without a token counts as a failure.
func (w *TokenWatcher) Refresh(ctx context.Context) error {
	refreshToken := w.session.RefreshToken()
	if refreshToken == "" {
		return ErrMissingRefreshToken
	}
	var resp struct {
		Token string `json:"token"`
	}
	body := map[string]string{"refreshToken": refreshToken}
	if err := w.api.Post(ctx, "/auth/refresh", body, &resp); err != nil {
		return err
	}
	if resp.Token == "" {
		return ErrNoToken
	}
	w.session.SetToken(resp.Token)
	w.log.Info("token_refresh", "", "access token refreshed")

	w.mu.Lock()
	hooks := append([]func(){}, w.onRefresh...)
	w.mu.Unlock()
	for _, fn := range hooks {
		fn()
	}
	return nil
}

func (w *TokenWatcher) expire(reason string, err error) {
	if w.ctx.Err() != nil {
		return
	}
	w.log.Error("token_watch", "", reason, err)
	w.Stop()
	w.session.Clear()
	w.notifier.Info(MsgSessionExpired)
}
