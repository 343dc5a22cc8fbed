package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

type Event struct {
	ActorID  *uint
	Action   string
	Entity   string
	EntityID *uint
	Metadata any

	// Snapshot, when set, is archived before the row is gone for good.
	Snapshot any
}

// Sink persists a single event; *Logger is the production one.
type Sink interface {
	Log(ctx context.Context, ev Event) error
}

const (
	queueSize    = 100
	writeTimeout = 5 * time.Second
)

type Dispatcher struct {
	sink     Sink
	archiver Archiver
	log      *slog.Logger

	// mu guards closed; senders hold the read lock while sending.
	mu     sync.RWMutex
	closed bool
	queue  chan Event
	wg     sync.WaitGroup
}

func NewDispatcher(sink Sink, archiver Archiver, log *slog.Logger) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}
	d := &Dispatcher{
		sink:     sink,
		archiver: archiver,
		log:      log,
		queue:    make(chan Event, queueSize),
	}

	d.wg.Add(1)
	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for ev := range d.queue {
		d.handle(ev)
	}
}

func (d *Dispatcher) handle(ev Event) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	if ev.Snapshot != nil && d.archiver != nil {
		if err := d.archive(ctx, ev); err != nil {
			d.log.Error("archive error", slog.String("action", ev.Action), slog.Any("err", err))
		}
	}

	if d.sink != nil {
		if err := d.sink.Log(ctx, ev); err != nil {
			d.log.Error("audit error", slog.String("action", ev.Action), slog.Any("err", err))
		}
	}
}

func (d *Dispatcher) archive(ctx context.Context, ev Event) error {
	payload, err := json.Marshal(ev.Snapshot)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	var id uint
	if ev.EntityID != nil {
		id = *ev.EntityID
	}
	key := fmt.Sprintf("%s/%d-%d.json", ev.Entity, id, time.Now().UTC().Unix())
	return d.archiver.Archive(ctx, key, payload)
}

// Dispatch never blocks a request: a full queue drops the event.
func (d *Dispatcher) Dispatch(ev Event) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.log.Warn("audit dispatcher closed, dropping event", slog.String("action", ev.Action))
		return
	}

	select {
	case d.queue <- ev:
	default:
		d.log.Warn("audit queue full, dropping event", slog.String("action", ev.Action))
	}
}

// Close drains queued events and stops the worker.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()
	d.wg.Wait()
}
