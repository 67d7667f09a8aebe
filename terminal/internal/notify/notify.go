// Package notify carries the short-lived messages an operator sees after an
// action: order created, stock exhausted, session expired.
package notify

import (
	"sync"
	"time"

	"salao/terminal/internal/logger"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
	LevelWarn    Level = "warn"
)

type Notification struct {
	Level   Level     `json:"level"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

type Notifier interface {
	Success(message string)
	Error(message string)
	Info(message string)
	Warn(message string)
}

// Feed keeps the most recent notifications for displays that poll and fans
// each one out to subscribers as it is raised.
type Feed struct {
	mu          sync.Mutex
	limit       int
	recent      []Notification
	subscribers []func(Notification)
	log         *logger.Logger
	now         func() time.Time
}

func NewFeed(log *logger.Logger, limit int) *Feed {
	if limit <= 0 {
		limit = 50
	}
	return &Feed{limit: limit, log: log, now: time.Now}
}

func (f *Feed) Success(message string) { f.push(LevelSuccess, message) }
func (f *Feed) Error(message string)   { f.push(LevelError, message) }
func (f *Feed) Info(message string)    { f.push(LevelInfo, message) }
func (f *Feed) Warn(message string)    { f.push(LevelWarn, message) }

func (f *Feed) Subscribe(fn func(Notification)) {
	f.mu.Lock()
	f.subscribers = append(f.subscribers, fn)
	f.mu.Unlock()
}

// Recent returns notifications oldest first.
func (f *Feed) Recent() []Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Notification, len(f.recent))
	copy(out, f.recent)
	return out
}

// Last returns the newest notification, if any.
func (f *Feed) Last() (Notification, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.recent) == 0 {
		return Notification{}, false
	}
	return f.recent[len(f.recent)-1], true
}

func (f *Feed) push(level Level, message string) {
	n := Notification{Level: level, Message: message, At: f.now()}

	f.mu.Lock()
	f.recent = append(f.recent, n)
	if len(f.recent) > f.limit {
		f.recent = f.recent[len(f.recent)-f.limit:]
	}
	subscribers := append([]func(Notification){}, f.subscribers...)
	f.mu.Unlock()

	f.log.Debug("notify", "", message)
	for _, fn := range subscribers {
		fn(n)
	}
}

var _ Notifier = (*Feed)(nil)
