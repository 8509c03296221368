package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/mpetrenko/ordermart/internal/application/interfaces"
	"github.com/mpetrenko/ordermart/internal/config"
	"github.com/mpetrenko/ordermart/internal/domain/entities"
	"github.com/mpetrenko/ordermart/pkg/limiter"
	"github.com/mpetrenko/ordermart/pkg/logger"
)

// Dispatcher queues notification intents and delivers them to the
// messaging channel webhook in the background. With no webhook
// configured intents are only logged, which keeps the engines fully
// functional without a channel attached.
type Dispatcher struct {
	client  *http.Client
	limiter *limiter.DynamicRateLimiter
	queue   chan *entities.Notification
	done    chan struct{}
	wg      sync.WaitGroup
	stop    sync.Once
	logger  logger.Logger
	config  *config.Config
}

func NewDispatcher(cfg *config.Config, logger logger.Logger) (*Dispatcher, error) {
	if cfg == nil {
		return nil, errors.New("nil dependency: config")
	}

	return &Dispatcher{
		client:  &http.Client{Timeout: cfg.Notifier.Timeout},
		limiter: limiter.NewDynamicRateLimiter(cfg.Notifier.RateEvery, cfg.Notifier.Burst),
		queue:   make(chan *entities.Notification, cfg.Notifier.QueueSize),
		done:    make(chan struct{}),
		logger:  logger,
		config:  cfg,
	}, nil
}

var _ interfaces.Notifier = (*Dispatcher)(nil)

// Notify enqueues the intent. A full queue surfaces as an error
// instead of blocking the command that produced the intent.
func (d *Dispatcher) Notify(ctx context.Context, n *entities.Notification) error {
	select {
	case d.queue <- n:
		return nil
	case <-d.done:
		return errors.New("notification dispatcher stopped")
	case <-ctx.Done():
		return ctx.Err()
	default:
		return errors.New("notification queue full")
	}
}

func (d *Dispatcher) Run() {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.run()
	}()
}

// Stop drains in-flight deliveries, bounded by the shutdown timeout.
func (d *Dispatcher) Stop() {
	d.stop.Do(func() {
		close(d.done)
	})

	ready := make(chan struct{})
	go func() {
		defer close(ready)
		d.wg.Wait()
	}()

	select {
	case <-time.After(d.config.HTTPServer.ShutdownTimeout):
		d.logger.Error("notification dispatcher stop: shutdown timeout exceeded")
	case <-ready:
	}
}

func (d *Dispatcher) run() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		<-d.done
		cancel()
	}()

	for {
		select {
		case <-d.done:
			return
		case n := <-d.queue:
			if err := d.limiter.Wait(ctx); err != nil {
				return
			}
			if err := d.deliver(ctx, n); err != nil {
				d.logger.With(ctx,
					"notification_id", n.ID.String(),
					"template", string(n.Template),
				).Errorf("deliver notification: %s", err)
			}
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, n *entities.Notification) error {
	if d.config.Notifier.WebhookURL == "" {
		d.logger.With(ctx,
			"recipient_id", n.RecipientID.String(),
			"template", string(n.Template),
			"payload", n.Payload,
		).Infof("notification intent %s (no webhook configured)", n.ID)
		return nil
	}

	body, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		d.config.Notifier.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("post notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("webhook returned %s", resp.Status)
	}

	return nil
}
