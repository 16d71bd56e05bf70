package feed

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shenikar/safewalk/internal/models"
	"github.com/shenikar/safewalk/internal/service"
	"github.com/sirupsen/logrus"
)

const (
	incidentsChannel      = "incidents:changed"
	commentsChannelPrefix = "incidents:comments:"
)

// RedisFeed рассылает сигналы об изменениях через Redis Pub/Sub
type RedisFeed struct {
	redisClient *redis.Client
	logger      *logrus.Logger
}

func NewRedisFeed(redisClient *redis.Client, logger *logrus.Logger) *RedisFeed {
	return &RedisFeed{
		redisClient: redisClient,
		logger:      logger,
	}
}

// IncidentsChanged сообщает подписчикам, что список инцидентов изменился
func (f *RedisFeed) IncidentsChanged(ctx context.Context) error {
	if err := f.redisClient.Publish(ctx, incidentsChannel, "changed").Err(); err != nil {
		return fmt.Errorf("failed to publish incidents change: %w", err)
	}
	return nil
}

// CommentsChanged сообщает подписчикам, что комментарии инцидента изменились
func (f *RedisFeed) CommentsChanged(ctx context.Context, incidentID uuid.UUID) error {
	if err := f.redisClient.Publish(ctx, commentsChannel(incidentID), incidentID.String()).Err(); err != nil {
		return fmt.Errorf("failed to publish comments change: %w", err)
	}
	return nil
}

// Listen подписывается на оба вида сигналов
func (f *RedisFeed) Listen(ctx context.Context) (service.FeedListener, error) {
	pubsub := f.redisClient.PSubscribe(ctx, incidentsChannel, commentsChannelPrefix+"*")
	// Дожидаемся подтверждения подписки, иначе ранние сигналы теряются
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to incident feed: %w", err)
	}

	l := &listener{
		pubsub:  pubsub,
		changes: make(chan models.FeedChange),
		done:    make(chan struct{}),
		logger:  f.logger,
	}
	go l.run()
	return l, nil
}

type listener struct {
	pubsub  *redis.PubSub
	changes chan models.FeedChange
	done    chan struct{}
	once    sync.Once
	logger  *logrus.Logger
}

func (l *listener) Changes() <-chan models.FeedChange {
	return l.changes
}

func (l *listener) Close() error {
	var err error
	l.once.Do(func() {
		close(l.done)
		err = l.pubsub.Close()
	})
	return err
}

func (l *listener) run() {
	defer close(l.changes)
	for msg := range l.pubsub.Channel() {
		change, ok := parseChange(msg.Channel)
		if !ok {
			l.logger.WithField("channel", msg.Channel).Warn("Unknown feed channel")
			continue
		}
		select {
		case l.changes <- change:
		case <-l.done:
			return
		}
	}
}

func parseChange(channel string) (models.FeedChange, bool) {
	if channel == incidentsChannel {
		return models.FeedChange{Kind: models.FeedIncidentsChanged}, true
	}
	raw, ok := strings.CutPrefix(channel, commentsChannelPrefix)
	if !ok {
		return models.FeedChange{}, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return models.FeedChange{}, false
	}
	return models.FeedChange{Kind: models.FeedCommentsChanged, IncidentID: id}, true
}

func commentsChannel(incidentID uuid.UUID) string {
	return commentsChannelPrefix + incidentID.String()
}
