package service

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/dalight/dalight/libs/log"
)

var (
	// ErrAlreadyStarted is returned when somebody tries to start an already
	// running service.
	ErrAlreadyStarted = errors.New("already started")
	// ErrAlreadyStopped is returned when somebody tries to stop an already
	// stopped service.
	ErrAlreadyStopped = errors.New("already stopped")
	// ErrNotStarted is returned when somebody tries to stop a not running
	// service.
	ErrNotStarted = errors.New("not started")
)

// Service defines a service that can be started and stopped.
type Service interface {
	// Start is called to start the service, which should run until the
	// context terminates. If the service is already running, Start must
	// report an error.
	Start(context.Context) error

	// IsRunning returns true if the service is running.
	IsRunning() bool

	// String representation of the service.
	String() string

	// Wait blocks until the service is stopped.
	Wait()
}

// Implementation describes the implementation that BaseService wraps.
type Implementation interface {
	Service

	// OnStart is called by the service's Start method.
	OnStart(context.Context) error

	// OnStop is called when the service's context is canceled or Stop is
	// called explicitly.
	OnStop()
}

// BaseService provides the common Start/Stop/Wait machinery for long-lived
// workers. Implementations embed it and override OnStart/OnStop; in the
// absence of errors those are called at most once. The caller must ensure
// Start and Stop are not called concurrently.
type BaseService struct {
	logger  log.Logger
	name    string
	started uint32 // atomic
	stopped uint32 // atomic
	quit    chan struct{}

	impl Implementation
}

// NewBaseService creates a new BaseService.
func NewBaseService(logger log.Logger, name string, impl Implementation) *BaseService {
	return &BaseService{
		logger: logger,
		name:   name,
		quit:   make(chan struct{}),
		impl:   impl,
	}
}

// Start starts the Service and calls its OnStart method. An error is
// returned if the service is already running or was already stopped. The
// service stops itself when ctx is canceled.
func (bs *BaseService) Start(ctx context.Context) error {
	if !atomic.CompareAndSwapUint32(&bs.started, 0, 1) {
		return ErrAlreadyStarted
	}

	if atomic.LoadUint32(&bs.stopped) == 1 {
		bs.logger.Error("not starting service; already stopped", "service", bs.name)
		atomic.StoreUint32(&bs.started, 0)
		return ErrAlreadyStopped
	}

	bs.logger.Info("starting service", "service", bs.name)

	if err := bs.impl.OnStart(ctx); err != nil {
		atomic.StoreUint32(&bs.started, 0)
		return err
	}

	go func() {
		select {
		case <-bs.quit:
			// stopped explicitly, nothing left to do
		case <-ctx.Done():
			if !bs.impl.IsRunning() {
				return
			}
			if err := bs.Stop(); err != nil {
				bs.logger.Error("error while stopping service", "service", bs.name, "err", err)
			}
		}
	}()

	return nil
}

// Stop calls OnStop and closes the quit channel. An error is returned if
// the service was never started or is already stopped.
func (bs *BaseService) Stop() error {
	if !atomic.CompareAndSwapUint32(&bs.stopped, 0, 1) {
		return ErrAlreadyStopped
	}

	if atomic.LoadUint32(&bs.started) == 0 {
		bs.logger.Error("not stopping service; not started yet", "service", bs.name)
		atomic.StoreUint32(&bs.stopped, 0)
		return ErrNotStarted
	}

	bs.logger.Info("stopping service", "service", bs.name)
	bs.impl.OnStop()
	close(bs.quit)

	return nil
}

// IsRunning returns true if the service has been started and not yet
// stopped.
func (bs *BaseService) IsRunning() bool {
	return atomic.LoadUint32(&bs.started) == 1 && atomic.LoadUint32(&bs.stopped) == 0
}

// Wait blocks until the service is stopped.
func (bs *BaseService) Wait() { <-bs.quit }

// String returns the service name.
func (bs *BaseService) String() string { return bs.name }
