package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestWrapDisabledPassthrough(t *testing.T) {
	t.Setenv("RATE_LIMIT_ENABLED", "")
	h := Wrap(okHandler())
	for i := 0; i < 10; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestWrapLimitsWithinSecond(t *testing.T) {
	t.Setenv("RATE_LIMIT_ENABLED", "true")
	t.Setenv("RATE_LIMIT_QPS", "2")
	h := Wrap(okHandler())

	codes := make(map[int]int)
	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
		codes[rec.Code]++
	}
	// 同一秒内最多放行 2 个（秒边界恰好跨越时可能放行 4 个）
	assert.GreaterOrEqual(t, codes[http.StatusTooManyRequests], 1)
	assert.GreaterOrEqual(t, codes[http.StatusOK], 2)
}
