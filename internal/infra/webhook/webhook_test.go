package webhook

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendSignsBody(t *testing.T) {
	var sig, event string
	var body []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sig = r.Header.Get(SignatureHeader)
		event = r.Header.Get("X-Salon-Event")
		body, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	s := New(srv.URL, "s3cret")
	require.NoError(t, s.Send(context.Background(), "appointment.created", map[string]any{"id": 1}))

	assert.Equal(t, "appointment.created", event)
	assert.Equal(t, "sha256="+Sign("s3cret", body), sig)
	assert.Contains(t, string(body), `"event":"appointment.created"`)
}

func TestSendRetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := New(srv.URL, "", WithInitialInterval(time.Millisecond))
	require.NoError(t, s.Send(context.Background(), "ping", nil))
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestSendDoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	s := New(srv.URL, "", WithInitialInterval(time.Millisecond))
	err := s.Send(context.Background(), "ping", nil)

	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestSendGivesUpAfterMaxTries(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	s := New(srv.URL, "", WithInitialInterval(time.Millisecond), WithMaxTries(2))
	assert.Error(t, s.Send(context.Background(), "ping", nil))
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestSendWithoutURLIsNoop(t *testing.T) {
	assert.NoError(t, New("", "").Send(context.Background(), "ping", nil))
}
