package sms

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shenikar/safewalk/internal/config"
	"github.com/sirupsen/logrus"
)

// gatewayRequest - тело запроса к SMS-шлюзу, одна часть сообщения
type gatewayRequest struct {
	MessageID string `json:"message_id"`
	To        string `json:"to"`
	From      string `json:"from"`
	Text      string `json:"text"`
	Part      int    `json:"part"`
	Parts     int    `json:"parts"`
}

// Worker забирает сообщения из очереди и отправляет их в HTTP SMS-шлюз
type Worker struct {
	redisClient *redis.Client
	logger      *logrus.Logger
	cfg         *config.Config
	httpClient  *http.Client
}

// NewWorker создает новый Worker
func NewWorker(redisClient *redis.Client, logger *logrus.Logger, cfg *config.Config) *Worker {
	return &Worker{
		redisClient: redisClient,
		logger:      logger,
		cfg:         cfg,
		httpClient: &http.Client{
			Timeout: cfg.SMSTimeout,
		},
	}
}

// Start запускает горутину обработки очереди
func (w *Worker) Start(ctx context.Context) {
	w.logger.Info("Starting sms worker...")
	go func() {
		for {
			select {
			case <-ctx.Done():
				w.logger.Info("Stopping sms worker.")
				return
			default:
				// 0 - бесконечное ожидание
				result, err := w.redisClient.BRPop(ctx, 0, outboxQueueKey).Result()
				if err != nil {
					if errors.Is(err, context.Canceled) {
						continue
					}
					w.logger.WithError(err).Error("Failed to pop sms message from Redis")
					time.Sleep(w.cfg.SMSTimeout)
					continue
				}

				// result[0] - ключ, result[1] - значение
				var msg Message
				if err := json.Unmarshal([]byte(result[1]), &msg); err != nil {
					w.logger.WithError(err).Error("Failed to unmarshal sms message from Redis")
					continue
				}

				w.processMessage(ctx, msg)
			}
		}
	}()
}

func (w *Worker) processMessage(ctx context.Context, msg Message) {
	log := w.logger.WithField("message_id", msg.ID).WithField("parts", len(msg.Parts))
	log.Debug("Processing sms message...")

	if w.cfg.SMSGatewayURL == "" {
		log.Warn("SMS gateway URL is not configured. Skipping sms delivery.")
		return
	}

	for i, text := range msg.Parts {
		body, err := json.Marshal(gatewayRequest{
			MessageID: msg.ID.String(),
			To:        msg.To,
			From:      msg.Sender,
			Text:      text,
			Part:      i + 1,
			Parts:     len(msg.Parts),
		})
		if err != nil {
			log.WithError(err).Error("Failed to marshal sms gateway request")
			return
		}
		if err := w.deliver(ctx, log.WithField("part", i+1), body); err != nil {
			log.WithError(err).Error("Failed to deliver sms message")
			return
		}
	}
	log.Info("SMS message handed to gateway.")
}

// deliver отправляет одну часть, повторяя попытки с экспоненциальной задержкой
func (w *Worker) deliver(ctx context.Context, log *logrus.Entry, body []byte) error {
	maxAttempts := w.cfg.SMSMaxAttempts
	delay := w.cfg.SMSBaseDelay

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}

		lastErr = w.post(ctx, body)
		if lastErr == nil {
			return nil
		}
		log.WithError(lastErr).Warnf("SMS gateway request failed. Attempts left: %d", maxAttempts-attempt)
	}
	return fmt.Errorf("gave up after %d attempts: %w", maxAttempts, lastErr)
}

func (w *Worker) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.cfg.SMSGatewayURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create sms gateway request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if w.cfg.SMSGatewayToken != "" {
		req.Header.Set("Authorization", "Bearer "+w.cfg.SMSGatewayToken)
	}
	if w.cfg.SMSGatewaySecret != "" {
		req.Header.Set("X-Signature", generateHMACSHA256(body, w.cfg.SMSGatewaySecret))
	}

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send sms gateway request: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("sms gateway responded with status %d", resp.StatusCode)
	}
	return nil
}

// generateHMACSHA256 генерирует HMAC-SHA256 подпись для данных
func generateHMACSHA256(data []byte, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}
