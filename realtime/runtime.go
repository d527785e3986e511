package realtime

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/comalice/fiberx"
	"github.com/comalice/fiberx/reconcile"
)

var (
	ErrQueueFull      = errors.New("task queue full")
	ErrAlreadyStarted = errors.New("loop already started")
)

// Config configures a Loop.
type Config struct {
	TickRate        time.Duration   // default 60 FPS
	MaxTasksPerTick int             // task queue capacity (default: 1000)
	Logger          *zerolog.Logger // nil discards logs
}

// Frame is the result of one tick.
type Frame struct {
	Tick   uint64
	Tasks  int
	Output reconcile.Output
	Err    error
}

// Loop renders a component tree at a fixed rate.
type Loop[P any] struct {
	renderer *reconcile.Renderer[P]
	props    P
	onFrame  func(Frame)
	logger   zerolog.Logger
	tickRate time.Duration
	tickNum  atomic.Uint64

	// tickMu confines the runtime to whichever goroutine is ticking.
	tickMu sync.Mutex

	batch   []TaskWithMeta
	batchMu sync.Mutex
	seq     uint64

	runMu      sync.Mutex
	ticker     *time.Ticker
	tickCancel context.CancelFunc
	stopped    chan struct{}
}

// NewLoop creates a loop rendering r with props. onFrame, if non-nil, is
// called on the ticking goroutine after every tick. It must not call Stop,
// which waits for that same goroutine; use go loop.Stop() instead.
func NewLoop[P any](r *reconcile.Renderer[P], props P, cfg Config, onFrame func(Frame)) *Loop[P] {
	if cfg.MaxTasksPerTick == 0 {
		cfg.MaxTasksPerTick = 1000
	}
	if cfg.TickRate == 0 {
		cfg.TickRate = 16667 * time.Microsecond
	}
	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}
	return &Loop[P]{
		renderer: r,
		props:    props,
		onFrame:  onFrame,
		logger:   logger,
		tickRate: cfg.TickRate,
		batch:    make([]TaskWithMeta, 0, cfg.MaxTasksPerTick),
	}
}

// Start begins ticking in a new goroutine until ctx is done or Stop is
// called. A loop whose context was cancelled may be started again.
func (l *Loop[P]) Start(ctx context.Context) error {
	l.runMu.Lock()
	defer l.runMu.Unlock()
	if l.stopped != nil {
		select {
		case <-l.stopped:
			l.release()
		default:
			return ErrAlreadyStarted
		}
	}

	tickCtx, cancel := context.WithCancel(ctx)
	l.tickCancel = cancel
	l.ticker = time.NewTicker(l.tickRate)
	l.stopped = make(chan struct{})
	go l.tickLoop(tickCtx, l.ticker, l.stopped)

	l.logger.Info().Dur("tick_rate", l.tickRate).Msg("loop started")
	return nil
}

// Stop halts the tick loop and waits for the current tick to finish. It
// is safe to call on a loop that was never started. Calling Stop from the
// onFrame callback deadlocks.
func (l *Loop[P]) Stop() error {
	l.runMu.Lock()
	defer l.runMu.Unlock()
	if l.stopped == nil {
		return nil
	}
	l.tickCancel()
	<-l.stopped
	l.release()
	l.logger.Info().Uint64("ticks", l.TickNumber()).Msg("loop stopped")
	return nil
}

// release frees the resources of an exited tick goroutine. runMu must be
// held.
func (l *Loop[P]) release() {
	l.tickCancel()
	l.ticker.Stop()
	l.stopped = nil
}

func (l *Loop[P]) tickLoop(ctx context.Context, ticker *time.Ticker, stopped chan struct{}) {
	defer close(stopped)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.processTick()
		}
	}
}

// Post queues task for the next tick.
func (l *Loop[P]) Post(task Task) error {
	return l.PostWithPriority(task, 0)
}

// PostWithPriority queues task; higher priorities run first within a tick.
func (l *Loop[P]) PostWithPriority(task Task, priority int) error {
	l.batchMu.Lock()
	defer l.batchMu.Unlock()

	if len(l.batch) >= cap(l.batch) {
		return ErrQueueFull
	}
	l.batch = append(l.batch, TaskWithMeta{
		Task:        task,
		SequenceNum: l.seq,
		Priority:    priority,
	})
	l.seq++
	return nil
}

// SetProps replaces the root props from the next tick on.
func (l *Loop[P]) SetProps(props P) error {
	return l.Post(func(*fiberx.Runtime) { l.props = props })
}

// Step runs one tick on the calling goroutine. It may be used with or
// without Start; ticks never overlap.
func (l *Loop[P]) Step() Frame {
	return l.processTick()
}

// TickNumber returns the number of completed ticks.
func (l *Loop[P]) TickNumber() uint64 {
	return l.tickNum.Load()
}
