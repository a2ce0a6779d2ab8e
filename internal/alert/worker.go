package alert

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

	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"
	"github.com/shenikar/activity_tracker/internal/observability"
	"github.com/sirupsen/logrus"
)

const (
	SignatureHeader = "X-Webhook-Signature"

	popTimeout = 5 * time.Second
)

// WorkerConfig - параметры доставки вебхуков
type WorkerConfig struct {
	URL        string
	Secret     string
	Timeout    time.Duration
	MaxRetries int
	BaseDelay  time.Duration
}

// Worker забирает события из очереди Redis и отправляет их на вебхук
type Worker struct {
	queue      QueueClient
	logger     *logrus.Logger
	cfg        WorkerConfig
	httpClient *http.Client
	clock      clockwork.Clock
	metrics    *observability.Metrics
}

func NewWorker(queue QueueClient, cfg WorkerConfig, clock clockwork.Clock, metrics *observability.Metrics, logger *logrus.Logger) *Worker {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if cfg.MaxRetries < 1 {
		cfg.MaxRetries = 1
	}
	return &Worker{
		queue:  queue,
		logger: logger,
		cfg:    cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		clock:   clock,
		metrics: metrics,
	}
}

// Start запускает обработку очереди в отдельной горутине
func (w *Worker) Start(ctx context.Context) {
	go w.Run(ctx)
}

// Run обрабатывает очередь до отмены ctx
func (w *Worker) Run(ctx context.Context) {
	w.logger.Info("Starting alert worker...")
	for {
		if ctx.Err() != nil {
			w.logger.Info("Stopping alert worker.")
			return
		}

		// result[0] - ключ, result[1] - значение
		result, err := w.queue.BRPop(ctx, popTimeout, QueueKey).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) || ctx.Err() != nil {
				continue
			}
			w.logger.WithError(err).Error("Failed to pop alert event from Redis")
			w.sleep(ctx, w.cfg.BaseDelay)
			continue
		}

		payload := result[1]
		var event AlertEvent
		if err := json.Unmarshal([]byte(payload), &event); err != nil {
			w.logger.WithError(err).Error("Failed to unmarshal alert event from Redis")
			continue
		}

		w.deliver(ctx, event, []byte(payload))
	}
}

// deliver отправляет событие с экспоненциальной задержкой между попытками
func (w *Worker) deliver(ctx context.Context, event AlertEvent, payload []byte) bool {
	log := w.logger.WithFields(logrus.Fields{
		"activity_id": event.ActivityID,
		"reason":      event.Reason,
	})

	if w.cfg.URL == "" {
		log.Warn("Webhook URL is not configured. Skipping alert delivery.")
		return false
	}

	delay := w.cfg.BaseDelay
	for i := 0; i < w.cfg.MaxRetries; i++ {
		err := w.send(ctx, payload)
		if err == nil {
			log.Info("Alert delivered successfully.")
			w.metrics.WebhookDelivery.WithLabelValues("delivered").Inc()
			return true
		}

		left := w.cfg.MaxRetries - 1 - i
		log.WithError(err).Warnf("Alert delivery failed. Retries left: %d", left)
		if left == 0 || !w.sleep(ctx, delay) {
			break
		}
		delay *= 2
	}

	log.Errorf("Failed to deliver alert after %d attempts.", w.cfg.MaxRetries)
	w.metrics.WebhookDelivery.WithLabelValues("failed").Inc()
	return false
}

func (w *Worker) send(ctx context.Context, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.cfg.URL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	// Подпись добавляется только если задан секрет
	if w.cfg.Secret != "" {
		req.Header.Set(SignatureHeader, Sign(payload, w.cfg.Secret))
	}

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send webhook: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook responded with status %d", resp.StatusCode)
	}
	return nil
}

// sleep возвращает false, если ctx отменён раньше
func (w *Worker) sleep(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-w.clock.After(d):
		return true
	}
}

// Sign генерирует HMAC-SHA256 подпись для данных
func Sign(data []byte, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}
