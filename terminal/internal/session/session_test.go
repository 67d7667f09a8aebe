package session

import (
	"testing"

	"salao/terminal/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestSession_Lifecycle(t *testing.T) {
	s := New()
	assert.False(t, s.Authenticated())

	s.Start(State{Token: "abc", RefreshToken: "r1", User: domain.User{Email: "ana@salao.com"}, RememberMe: true})
	assert.True(t, s.Authenticated())
	assert.Equal(t, "abc", s.Token())
	assert.Equal(t, "r1", s.RefreshToken())

	s.SetToken("def")
	assert.Equal(t, "def", s.Snapshot().Token)
	assert.True(t, s.Snapshot().RememberMe)
}

func TestSession_ClearRunsHooksOnce(t *testing.T) {
	s := New()
	calls := 0
	s.OnClear(func() { calls++ })

	s.Clear()
	assert.Equal(t, 0, calls, "clearing an empty session should not fire hooks")

	s.Start(State{Token: "abc"})
	s.Clear()
	s.Clear()

	assert.Equal(t, 1, calls)
	assert.Empty(t, s.Token())
}

func TestSession_IfoodTokenIsIndependent(t *testing.T) {
	s := New()
	s.Start(State{Token: "abc"})
	s.SetIfoodToken("ifood")

	s.ClearIfoodToken()

	assert.Empty(t, s.IfoodToken())
	assert.Equal(t, "abc", s.Token())
}
