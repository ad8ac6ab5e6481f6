package worker

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/sony/gobreaker"

	"github.com/hiredesk/hiredesk/internal/domain"
	"github.com/hiredesk/hiredesk/internal/infrastructure/logging"
	"github.com/hiredesk/hiredesk/internal/infrastructure/metrics"
)

// NotificationWorkerConfig holds configuration for the notification dispatcher.
type NotificationWorkerConfig struct {
	// BufferSize is the size of the notification channel buffer.
	BufferSize int

	// WorkerCount is the number of concurrent dispatch workers.
	WorkerCount int

	// RequestTimeout is the max time to wait for each outgoing HTTP request.
	RequestTimeout time.Duration

	// TargetURL is the webhook endpoint notifications are POSTed to.
	TargetURL string

	// Secret signs the payload with HMAC-SHA256.
	Secret string

	// PendingBatchSize bounds how many stored pending notifications are
	// requeued on startup.
	PendingBatchSize int
}

// DefaultNotificationWorkerConfig returns sensible defaults.
func DefaultNotificationWorkerConfig(targetURL, secret string) NotificationWorkerConfig {
	return NotificationWorkerConfig{
		BufferSize:       1000,
		WorkerCount:      2,
		RequestTimeout:   5 * time.Second,
		TargetURL:        targetURL,
		Secret:           secret,
		PendingBatchSize: 500,
	}
}

// NotificationWorker delivers queued notifications to the webhook endpoint.
// notifications are written to the database inside the same transaction as
// the change they describe; the worker only flips their delivery status, so
// a crash loses at most the in-flight HTTP attempt, never the notification.
type NotificationWorker struct {
	queue      chan *domain.Notification
	repo       domain.NotificationRepository
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	metrics    *metrics.Metrics
	config     NotificationWorkerConfig
	logger     *logging.Logger

	wg       sync.WaitGroup
	stopOnce sync.Once
	stopped  chan struct{}
}

// NewNotificationWorker creates a new notification worker.
func NewNotificationWorker(
	repo domain.NotificationRepository,
	config NotificationWorkerConfig,
	m *metrics.Metrics,
	logger *logging.Logger,
) *NotificationWorker {
	log := logger.WithComponent("notification_worker")

	// the breaker keeps a flapping endpoint from tying up the workers;
	// failed notifications stay in the database and can be requeued
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "notifier",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("notifier circuit state changed",
				"from", from.String(),
				"to", to.String(),
			)
		},
	})

	return &NotificationWorker{
		queue: make(chan *domain.Notification, config.BufferSize),
		repo:  repo,
		httpClient: &http.Client{
			Timeout: config.RequestTimeout,
		},
		breaker: breaker,
		metrics: m,
		config:  config,
		logger:  log,
		stopped: make(chan struct{}),
	}
}

// Start begins the worker goroutines and requeues stored pending rows.
func (w *NotificationWorker) Start(ctx context.Context) {
	w.logger.Info("notification worker starting",
		"buffer_size", w.config.BufferSize,
		"worker_count", w.config.WorkerCount,
		"target_url", w.config.TargetURL,
	)

	for i := 0; i < w.config.WorkerCount; i++ {
		w.wg.Add(1)
		go w.runWorker(ctx, i)
	}

	// pick up notifications that were committed but never dispatched,
	// e.g. after a crash or restart
	pending, err := w.repo.ListPending(ctx, w.config.PendingBatchSize)
	if err != nil {
		w.logger.Error("failed to load pending notifications", "error", err.Error())
		return
	}
	for _, n := range pending {
		w.Enqueue(n)
	}
	if len(pending) > 0 {
		w.logger.Info("requeued pending notifications", "count", len(pending))
	}
}

// Stop gracefully shuts down the worker, draining the buffer first.
func (w *NotificationWorker) Stop() {
	w.stopOnce.Do(func() {
		w.logger.Info("notification worker stopping, draining buffer...")
		close(w.queue)
		w.wg.Wait()
		close(w.stopped)
		w.logger.Info("notification worker stopped")
	})
}

// Stopped returns a channel that closes when the worker has fully stopped.
func (w *NotificationWorker) Stopped() <-chan struct{} {
	return w.stopped
}

// Enqueue hands a notification to the dispatch workers.
// non-blocking: when the buffer is full the notification stays pending in
// the database and is retried on the next startup.
func (w *NotificationWorker) Enqueue(notification *domain.Notification) {
	select {
	case w.queue <- notification:
		if w.metrics != nil {
			w.metrics.SetNotificationBufferSize(len(w.queue))
		}
	default:
		w.logger.Warn("notification buffer full, left pending in database",
			"notification_id", notification.ID().String(),
		)
	}
}

// runWorker is the main worker loop.
func (w *NotificationWorker) runWorker(ctx context.Context, workerID int) {
	defer w.wg.Done()

	for {
		select {
		case notification, ok := <-w.queue:
			if !ok {
				w.logger.Debug("worker exiting after drain", "worker_id", workerID)
				return
			}
			if w.metrics != nil {
				w.metrics.SetNotificationBufferSize(len(w.queue))
			}
			w.dispatch(ctx, notification, workerID)

		case <-ctx.Done():
			w.logger.Debug("worker exiting on context cancel", "worker_id", workerID)
			return
		}
	}
}

// dispatch delivers one notification and records the outcome.
func (w *NotificationWorker) dispatch(ctx context.Context, notification *domain.Notification, workerID int) {
	delivered := w.send(ctx, notification, workerID)

	outcome := "sent"
	if delivered {
		notification.MarkSent()
	} else {
		notification.MarkFailed()
		outcome = "failed"
	}

	if w.metrics != nil {
		w.metrics.RecordNotificationSent(notification.Kind().String(), outcome)
	}

	// status updates run outside any request transaction
	err := w.repo.UpdateStatus(ctx, notification.ID(), notification.Status(), notification.Attempts())
	if err != nil {
		w.logger.Error("failed to update notification status",
			"worker_id", workerID,
			"notification_id", notification.ID().String(),
			"error", err.Error(),
		)
	}
}

// send POSTs one signed notification through the circuit breaker.
func (w *NotificationWorker) send(ctx context.Context, notification *domain.Notification, workerID int) bool {
	body := notificationPayload{
		NotificationID: notification.ID().String(),
		RecipientID:    notification.RecipientID().String(),
		Kind:           notification.Kind().String(),
		Payload:        notification.Payload(),
		CreatedAt:      notification.CreatedAt().Format(time.RFC3339),
	}

	payloadBytes, err := json.Marshal(body)
	if err != nil {
		w.logger.Error("failed to marshal notification payload",
			"worker_id", workerID,
			"notification_id", notification.ID().String(),
			"error", err.Error(),
		)
		return false
	}

	_, err = w.breaker.Execute(func() (any, error) {
		return nil, w.post(ctx, payloadBytes, notification.Kind().String())
	})
	if err != nil {
		w.logger.Warn("notification delivery failed",
			"worker_id", workerID,
			"notification_id", notification.ID().String(),
			"error", err.Error(),
		)
		return false
	}

	return true
}

func (w *NotificationWorker) post(ctx context.Context, payload []byte, kind string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.config.TargetURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Hiredesk-Signature", w.computeSignature(payload))
	req.Header.Set("X-Hiredesk-Event", kind)
	req.Header.Set("User-Agent", "Hiredesk-Notifier/1.0")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("endpoint returned status %d", resp.StatusCode)
	}
	return nil
}

// computeSignature generates HMAC-SHA256 signature.
func (w *NotificationWorker) computeSignature(payload []byte) string {
	mac := hmac.New(sha256.New, []byte(w.config.Secret))
	mac.Write(payload)
	return fmt.Sprintf("sha256=%s", hex.EncodeToString(mac.Sum(nil)))
}

// notificationPayload is the JSON structure sent to the webhook endpoint.
type notificationPayload struct {
	NotificationID string         `json:"notification_id"`
	RecipientID    string         `json:"recipient_id"`
	Kind           string         `json:"kind"`
	Payload        map[string]any `json:"payload"`
	CreatedAt      string         `json:"created_at"`
}
