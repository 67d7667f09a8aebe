package httpapi_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	httpapi "salao/terminal/internal/api/http"

	"github.com/stretchr/testify/assert"
)

func TestNewRouter_CORS(t *testing.T) {
	f := newFixture(t)
	router := httpapi.NewRouter(f.handler, nil, []string{"http://caixa.local"})

	req := httptest.NewRequest("OPTIONS", "/api/orders", nil)
	req.Header.Set("Origin", "http://caixa.local")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "http://caixa.local", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest("GET", "/health", nil)
	req.Header.Set("Origin", "http://elsewhere.local")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestNewRouter_RateLimited(t *testing.T) {
	f := newFixture(t)
	router := httpapi.NewRouter(f.handler, httpapi.NewRateLimiter(1, 1), nil)

	codes := make([]int, 0, 2)
	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))
		codes = append(codes, w.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests}, codes)
}
