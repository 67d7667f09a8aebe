package service

import (
	"context"
	"log/slog"

	"salao/terminal/internal/apiclient"
	"salao/terminal/internal/domain"
	"salao/terminal/internal/logger"
	"salao/terminal/internal/notify"
	"salao/terminal/internal/session"
)

const (
	MsgLoginFailed = "login failed"
	MsgLoggedOut   = "logged out"
)

type loginResponse struct {
	Token        string      `json:"token"`
	RefreshToken string      `json:"refreshToken"`
	User         domain.User `json:"user"`
}

// AuthService starts and ends the operator session. A remember-me session
// is persisted in store, which may be nil.
type AuthService struct {
	api      API
	session  *session.Session
	store    session.Store
	watcher  *TokenWatcher
	notifier notify.Notifier
	log      *logger.Logger
}

func NewAuthService(api API, sess *session.Session, store session.Store, watcher *TokenWatcher, notifier notify.Notifier, log *logger.Logger) *AuthService {
	s := &AuthService{
		api:      api,
		session:  sess,
		store:    store,
		watcher:  watcher,
		notifier: notifier,
		log:      log,
	}
	sess.OnClear(s.forget)
	if watcher != nil {
		watcher.OnRefresh(s.remember)
	}
	return s
}

func (s *AuthService) Login(ctx context.Context, email, password string, rememberMe bool) (*domain.User, error) {
	var resp loginResponse
	body := map[string]string{"email": email, "senha": password}
	if err := s.api.Post(ctx, "/auth/login", body, &resp); err != nil {
		s.notifier.Error(apiclient.Message(err, MsgLoginFailed))
		return nil, err
	}

	state := session.State{
		Token:        resp.Token,
		RefreshToken: resp.RefreshToken,
		User:         resp.User,
		RememberMe:   rememberMe,
	}
	s.session.Start(state)
	s.save(ctx, "login")
	if s.watcher != nil {
		s.watcher.Watch()
	}

	s.log.Info("login", "", "operator logged in", slog.String("user_id", resp.User.ID))
	s.notifier.Success("welcome, " + resp.User.Name)
	return &resp.User, nil
}

func (s *AuthService) Logout(ctx context.Context) {
	s.session.Clear()
	s.notifier.Info(MsgLoggedOut)
}

// Restore resumes a remembered session, if one is stored and its token is
// still usable.
func (s *AuthService) Restore(ctx context.Context) bool {
	if s.store == nil {
		return false
	}
	state, ok, err := s.store.Load(ctx)
	if err != nil {
		s.log.Error("restore_session", "", "stored session unreadable", err)
		return false
	}
	if !ok || state.Token == "" {
		return false
	}
	s.session.Start(state)
	if s.watcher != nil {
		s.watcher.Watch()
	}
	return s.session.Authenticated()
}

// remember writes a refreshed token back to the store so that a restart
// resumes with it.
func (s *AuthService) remember() {
	s.save(context.Background(), "token_refresh")
}

func (s *AuthService) save(ctx context.Context, action string) {
	state := s.session.Snapshot()
	if !state.RememberMe || s.store == nil {
		return
	}
	if err := s.store.Save(ctx, state); err != nil {
		s.log.Error(action, "", "session not persisted", err)
	}
}

// forget runs whenever the session is cleared, whatever cleared it.
func (s *AuthService) forget() {
	if s.watcher != nil {
		s.watcher.Stop()
	}
	if s.store != nil {
		if err := s.store.Delete(context.Background()); err != nil {
			s.log.Error("logout", "", "stored session not deleted", err)
		}
	}
}
