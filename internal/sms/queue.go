package sms

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shenikar/safewalk/internal/config"
)

const (
	outboxQueueKey = "sms_outbox"
)

// Message - SMS одному получателю, разбитое на части
type Message struct {
	ID        uuid.UUID `json:"id"`
	To        string    `json:"to"`
	Sender    string    `json:"sender"`
	Parts     []string  `json:"parts"`
	CreatedAt time.Time `json:"created_at"`
}

// RedisQueue ставит сообщения в очередь Redis, доставку выполняет Worker
type RedisQueue struct {
	redisClient *redis.Client
	cfg         *config.Config
}

// NewRedisQueue создает новый RedisQueue
func NewRedisQueue(client *redis.Client, cfg *config.Config) *RedisQueue {
	return &RedisQueue{
		redisClient: client,
		cfg:         cfg,
	}
}

// Permitted сообщает, разрешена ли отправка SMS на этом сервере
func (q *RedisQueue) Permitted() bool {
	return q.cfg.SMSEnabled && q.cfg.SMSGatewayURL != ""
}

// SendMultipart публикует сообщение в очередь; подтверждения доставки нет
func (q *RedisQueue) SendMultipart(ctx context.Context, phone string, parts []string) error {
	msg := Message{
		ID:        uuid.New(),
		To:        phone,
		Sender:    q.cfg.SMSSenderID,
		Parts:     parts,
		CreatedAt: time.Now().UTC(),
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal sms message: %w", err)
	}

	// LPUSH в голову списка, Worker забирает с хвоста
	if err := q.redisClient.LPush(ctx, outboxQueueKey, payload).Err(); err != nil {
		return fmt.Errorf("failed to enqueue sms message to Redis: %w", err)
	}
	return nil
}
