package turn

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/kailas-cloud/hoover/internal/domain/reply"
)

const outboxBuffer = 32

// Outbox queues a turn's activities and delivers them in order on one goroutine.
// Once ctx is done nothing more is delivered.
type Outbox struct {
	ctx     context.Context
	sink    Sink
	replyTo string
	logger  *zap.Logger
	queue   chan Outbound
	done    chan struct{}

	mu  sync.Mutex
	err error
}

// NewOutbox starts the delivery goroutine. Close must be called once all
// activities have been queued.
func NewOutbox(ctx context.Context, sink Sink, replyTo string, logger *zap.Logger) *Outbox {
	o := &Outbox{
		ctx:     ctx,
		sink:    sink,
		replyTo: replyTo,
		logger:  logger,
		queue:   make(chan Outbound, outboxBuffer),
		done:    make(chan struct{}),
	}
	go o.deliver()
	return o
}

// Typing queues a typing indicator.
func (o *Outbox) Typing() {
	o.enqueue(Outbound{Type: TypeTyping, ReplyToID: o.replyTo})
}

// Send queues a message.
func (o *Outbox) Send(r reply.Reply) {
	o.enqueue(Outbound{Type: TypeMessage, ReplyToID: o.replyTo, Reply: r})
}

func (o *Outbox) enqueue(a Outbound) {
	if o.ctx.Err() != nil {
		return
	}
	select {
	case o.queue <- a:
	case <-o.ctx.Done():
	}
}

func (o *Outbox) deliver() {
	defer close(o.done)
	for a := range o.queue {
		if o.ctx.Err() != nil {
			continue
		}
		if err := o.sink.Emit(o.ctx, a); err != nil {
			o.logger.Warn("emit activity", zap.String("type", a.Type), zap.Error(err))
			o.mu.Lock()
			o.err = errors.Join(o.err, err)
			o.mu.Unlock()
		}
	}
}

// Close waits for every queued activity to be dispatched and returns the delivery errors.
func (o *Outbox) Close() error {
	close(o.queue)
	<-o.done
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.err
}
