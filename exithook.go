package logging

import (
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// releaser is the part of a Sink the exit hook needs.
type releaser interface {
	Release() error
}

// ExitHook releases sinks when the process receives SIGINT or SIGTERM. It is
// a safety net next to the explicit Service.Close path: on the first signal
// it drains the queue, releases every registered sink once, stops listening
// and raises the signal again so the default action applies when nothing
// else handles it.
type ExitHook struct {
	drain   func() error
	sinks   []releaser
	signals chan os.Signal
	done    chan struct{}
	once    sync.Once
	stop    sync.Once
	onFire  func(sig os.Signal, err error)
	raise   func(sig os.Signal)
}

// newExitHook returns a hook that runs drain, if set, before releasing sinks.
func newExitHook(drain func() error, sinks []releaser, onFire func(os.Signal, error)) *ExitHook {
	return &ExitHook{
		drain:   drain,
		sinks:   sinks,
		signals: make(chan os.Signal, 1),
		done:    make(chan struct{}),
		onFire:  onFire,
		raise:   raiseSignal,
	}
}

// Start begins watching for termination signals.
func (h *ExitHook) Start() {
	signal.Notify(h.signals, os.Interrupt, syscall.SIGTERM)
	go h.wait()
}

func (h *ExitHook) wait() {
	select {
	case sig := <-h.signals:
		err := h.Fire()
		if h.onFire != nil {
			h.onFire(sig, err)
		}
		h.Stop()
		h.raise(sig)
	case <-h.done:
	}
}

// Fire drains and then releases the registered sinks. Only the first call
// has an effect.
func (h *ExitHook) Fire() error {
	var err error
	h.once.Do(func() {
		var errs []error
		if h.drain != nil {
			if e := h.drain(); e != nil {
				errs = append(errs, e)
			}
		}
		for _, s := range h.sinks {
			if e := s.Release(); e != nil {
				errs = append(errs, e)
			}
		}
		err = errors.Join(errs...)
	})
	return err
}

// Stop detaches the hook without releasing anything.
func (h *ExitHook) Stop() {
	h.stop.Do(func() {
		signal.Stop(h.signals)
		close(h.done)
	})
}

func raiseSignal(sig os.Signal) {
	p, err := os.FindProcess(os.Getpid())
	if err != nil {
		return
	}
	_ = p.Signal(sig)
}
