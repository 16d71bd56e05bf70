package sms

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/safewalk/internal/config"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWorker(url string, attempts int) *Worker {
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})
	cfg := &config.Config{
		SMSGatewayURL:    url,
		SMSGatewayToken:  "token",
		SMSGatewaySecret: "secret",
		SMSTimeout:       time.Second,
		SMSMaxAttempts:   attempts,
		SMSBaseDelay:     time.Millisecond,
	}
	return NewWorker(nil, logger, cfg)
}

func TestWorker_ProcessMessage_PostsEveryPart(t *testing.T) {
	var (
		mu       sync.Mutex
		received []gatewayRequest
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)

		assert.Equal(t, "Bearer token", r.Header.Get("Authorization"))
		assert.Equal(t, generateHMACSHA256(body, "secret"), r.Header.Get("X-Signature"))

		var req gatewayRequest
		assert.NoError(t, json.Unmarshal(body, &req))
		mu.Lock()
		received = append(received, req)
		mu.Unlock()
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	worker := newTestWorker(server.URL, 1)
	msg := Message{ID: uuid.New(), To: "+15555550101", Sender: "SafeWalk", Parts: []string{"first", "second"}}

	worker.processMessage(context.Background(), msg)

	require.Len(t, received, 2)
	assert.Equal(t, "first", received[0].Text)
	assert.Equal(t, 1, received[0].Part)
	assert.Equal(t, 2, received[1].Parts)
	assert.Equal(t, "+15555550101", received[1].To)
}

func TestWorker_Deliver_NoRetryByDefault(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	worker := newTestWorker(server.URL, 1)

	err := worker.deliver(context.Background(), logrus.NewEntry(worker.logger), []byte(`{}`))

	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestWorker_Deliver_RetriesUntilSuccess(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	worker := newTestWorker(server.URL, 3)

	err := worker.deliver(context.Background(), logrus.NewEntry(worker.logger), []byte(`{}`))

	require.NoError(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestWorker_ProcessMessage_SkipsWithoutGateway(t *testing.T) {
	worker := newTestWorker("", 1)

	assert.NotPanics(t, func() {
		worker.processMessage(context.Background(), Message{ID: uuid.New(), Parts: []string{"x"}})
	})
}
