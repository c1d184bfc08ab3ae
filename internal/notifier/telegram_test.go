package notifier

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestNotifier(baseURL string) *TelegramNotifier {
	n := NewTelegramNotifier("token", "42", "", zap.NewNop())
	n.BaseURL = baseURL
	n.Backoff = time.Millisecond
	return n
}

func TestSendRetriesTransientFailure(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	n := newTestNotifier(srv.URL)
	require.NoError(t, n.Send("hello"))
	require.EqualValues(t, 2, atomic.LoadInt32(&calls))
}

func TestSendWithRetryExhausted(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	n := newTestNotifier(srv.URL)
	err := n.SendWithRetry(context.Background(), "hello", 2)
	require.Error(t, err)
	require.EqualValues(t, 3, atomic.LoadInt32(&calls))
}

func TestSendWithRetryHonorsContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	n := newTestNotifier(srv.URL)
	n.Backoff = time.Hour
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, n.SendWithRetry(ctx, "hello", 5), context.Canceled)
}
