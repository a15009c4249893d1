package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Notifier accepts messages for delivery without reporting failures back to
// the caller.
type Notifier interface {
	Notify(ctx context.Context, msg Message)
}

// Dispatcher delivers messages from a buffered queue on a background worker.
// A full queue drops the message so a request never waits on the mail relay.
type Dispatcher struct {
	Sender      Sender
	Logger      *slog.Logger
	SendTimeout time.Duration

	queue    chan Message
	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewDispatcher creates a dispatcher with the given queue size. If size is 0
// or negative, defaults to 64.
func NewDispatcher(sender Sender, logger *slog.Logger, size int) *Dispatcher {
	if size <= 0 {
		size = 64
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		Sender:      sender,
		Logger:      logger,
		SendTimeout: 30 * time.Second,
		queue:       make(chan Message, size),
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}
}

// Notify enqueues msg. It never blocks.
func (d *Dispatcher) Notify(_ context.Context, msg Message) {
	select {
	case d.queue <- msg:
	default:
		d.Logger.Warn("notification queue full, dropping message",
			slog.String("kind", string(msg.Kind)),
			slog.String("to", msg.To),
		)
	}
}

// Start launches the delivery worker.
func (d *Dispatcher) Start() {
	go d.run()
	d.Logger.Info("notification dispatcher started", "queue_size", cap(d.queue))
}

// Stop drains whatever is already queued and waits for the worker to exit.
func (d *Dispatcher) Stop() {
	d.stopOnce.Do(func() { close(d.stopCh) })
	<-d.doneCh
	d.Logger.Info("notification dispatcher stopped")
}

func (d *Dispatcher) run() {
	defer close(d.doneCh)

	for {
		select {
		case msg := <-d.queue:
			d.deliver(msg)
		case <-d.stopCh:
			for {
				select {
				case msg := <-d.queue:
					d.deliver(msg)
				default:
					return
				}
			}
		}
	}
}

func (d *Dispatcher) deliver(msg Message) {
	ctx, cancel := context.WithTimeout(context.Background(), d.SendTimeout)
	defer cancel()

	if err := d.Sender.Send(ctx, msg); err != nil {
		d.Logger.Error("failed to deliver notification",
			slog.Any("error", err),
			slog.String("kind", string(msg.Kind)),
			slog.String("to", msg.To),
		)
	}
}

// SenderNotifier delivers inline. Useful in tests that assert on a sink
// right after the call returns.
type SenderNotifier struct {
	Sender Sender
	Logger *slog.Logger
}

func (n SenderNotifier) Notify(ctx context.Context, msg Message) {
	if err := n.Sender.Send(ctx, msg); err != nil && n.Logger != nil {
		n.Logger.Error("failed to deliver notification", slog.Any("error", err))
	}
}
