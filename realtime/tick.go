package realtime

import (
	"fmt"

	"github.com/comalice/fiberx"
	"github.com/comalice/fiberx/reconcile"
)

// processTick processes one complete tick.
func (l *Loop[P]) processTick() Frame {
	l.tickMu.Lock()
	defer l.tickMu.Unlock()

	tasks := l.collectTasks()
	sortTasks(tasks)
	l.runTasks(tasks)

	out, err := l.render()
	frame := Frame{Tick: l.tickNum.Add(1), Tasks: len(tasks), Output: out, Err: err}
	l.logger.Trace().Uint64("tick", frame.Tick).Int("tasks", frame.Tasks).Int("lines", len(out)).Msg("tick")
	if l.onFrame != nil {
		l.onFrame(frame)
	}
	return frame
}

// collectTasks atomically retrieves and clears the task batch.
func (l *Loop[P]) collectTasks() []TaskWithMeta {
	l.batchMu.Lock()
	defer l.batchMu.Unlock()

	tasks := l.batch
	l.batch = make([]TaskWithMeta, 0, cap(l.batch))
	return tasks
}

func (l *Loop[P]) runTasks(tasks []TaskWithMeta) {
	rt := l.renderer.Runtime()
	for _, t := range tasks {
		func() {
			defer func() {
				if r := recover(); r != nil {
					l.logger.Error().Uint64("seq", t.SequenceNum).Interface("panic", r).Msg("task panicked")
				}
			}()
			t.Task(rt)
		}()
	}
}

func (l *Loop[P]) render() (out reconcile.Output, err error) {
	defer func() {
		if r := recover(); r != nil {
			if perr, ok := r.(*fiberx.ProtocolError); ok {
				err = fmt.Errorf("render: %w", perr)
			} else {
				err = fmt.Errorf("render panicked: %v", r)
			}
			out = nil
		}
		if err != nil {
			l.logger.Error().Err(err).Msg("render failed")
		}
	}()
	return l.renderer.Render(l.props)
}
