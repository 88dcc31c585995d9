package broker

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rrishiddh/portfolio-project-backend/internal/wal"
	"github.com/rrishiddh/portfolio-project-backend/pkg/logger"
	"go.uber.org/zap"
)

// OutboxPublisher parks events the inner publisher rejects in a WAL and
// re-sends them from Run. While anything is parked, new events queue behind
// it, so subscribers always see events in publish order. Publish only fails
// when the event could be neither delivered nor parked.
type OutboxPublisher struct {
	inner Publisher
	log   *wal.WAL

	mu      sync.Mutex
	backlog int
}

func NewOutboxPublisher(inner Publisher, log *wal.WAL) *OutboxPublisher {
	o := &OutboxPublisher{inner: inner, log: log}

	entries, err := log.ReadAll()
	switch {
	case err != nil:
		logger.Log.Warn("Failed to read event outbox", zap.Error(err))
		o.backlog = 1
	default:
		o.backlog = len(entries)
	}
	return o
}

func (o *OutboxPublisher) Publish(ctx context.Context, event Event) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	var err error
	if o.backlog > 0 {
		_, err = o.replayLocked(ctx)
	}
	if o.backlog == 0 {
		if err = o.inner.Publish(ctx, event); err == nil {
			return nil
		}
	}

	payload, marshalErr := json.Marshal(event)
	if marshalErr != nil {
		return marshalErr
	}
	if walErr := o.log.Write(wal.Entry{ID: uuid.NewString(), Payload: payload, Timestamp: time.Now().UTC()}); walErr != nil {
		return walErr
	}
	o.backlog++

	logger.Log.Warn("Content event parked for replay",
		zap.String("resource", event.Resource),
		zap.String("id", event.ID),
		zap.Int("backlog", o.backlog),
		zap.Error(err),
	)
	return nil
}

// Replay re-sends parked events in order and drops the ones delivered.
// It stops at the first failure so ordering is kept.
func (o *OutboxPublisher) Replay(ctx context.Context) (int, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.replayLocked(ctx)
}

func (o *OutboxPublisher) replayLocked(ctx context.Context) (int, error) {
	entries, err := o.log.ReadAll()
	if err != nil {
		return 0, err
	}
	if len(entries) == 0 {
		o.backlog = 0
		return 0, nil
	}

	done := make([]string, 0, len(entries))
	var publishErr error
	for _, entry := range entries {
		var event Event
		if err := json.Unmarshal(entry.Payload, &event); err != nil {
			done = append(done, entry.ID)
			continue
		}
		if publishErr = o.inner.Publish(ctx, event); publishErr != nil {
			break
		}
		done = append(done, entry.ID)
	}

	if err := o.log.Cleanup(done); err != nil {
		return 0, err
	}
	o.backlog = len(entries) - len(done)
	return len(done), publishErr
}

// Backlog reports how many events are waiting in the WAL.
func (o *OutboxPublisher) Backlog() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.backlog
}

// Run replays every interval until ctx is done.
func (o *OutboxPublisher) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := o.Replay(ctx)
			if n > 0 {
				logger.Log.Info("Replayed parked content events", zap.Int("count", n))
			}
			if err != nil {
				logger.Log.Debug("Content event replay incomplete", zap.Error(err))
			}
		}
	}
}

func (o *OutboxPublisher) Close() error {
	innerErr := o.inner.Close()
	if err := o.log.Close(); err != nil {
		return err
	}
	return innerErr
}
