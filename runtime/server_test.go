package runtime

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServerRegisterTranslatesPathParams(t *testing.T) {
	s := NewServer()
	var captured string
	s.Register("GET", "/posts/:id", func(w http.ResponseWriter, r *http.Request) {
		captured = chi.URLParam(r, "id")
		w.WriteHeader(http.StatusOK)
	})

	rr := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/posts/42", nil)
	s.mux.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "42", captured)
}

func TestServerStartAndStop(t *testing.T) {
	s := NewServer()
	s.Register("GET", "/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	s.Start("127.0.0.1:0")
	time.Sleep(20 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))
}

func TestServerStopWithoutStartIsNoOp(t *testing.T) {
	s := NewServer()
	require.NoError(t, s.Stop(context.Background()))
}
