// Package server runs the long-lived parts of the Oozu daemon and shuts them
// down in order on a signal, a service failure, or a service finishing.
package server

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// DefaultShutdownTimeout bounds the whole reverse-order stop sequence.
const DefaultShutdownTimeout = 10 * time.Second

// Service is a component that runs until its context is cancelled.
type Service interface {
	// Start blocks until the service finishes or ctx is cancelled.
	Start(ctx context.Context) error
	// Stop releases resources. ctx carries the shutdown deadline.
	Stop(ctx context.Context)
}

// FuncService adapts a start/stop function pair into a Service. A nil StopFn
// is allowed.
type FuncService struct {
	StartFn func(ctx context.Context) error
	StopFn  func(ctx context.Context)
}

// Start calls StartFn.
func (f *FuncService) Start(ctx context.Context) error { return f.StartFn(ctx) }

// Stop calls StopFn when set.
func (f *FuncService) Stop(ctx context.Context) {
	if f.StopFn != nil {
		f.StopFn(ctx)
	}
}

// Lifecycle starts services in registration order and stops them in reverse.
type Lifecycle struct {
	logger          *zap.Logger
	shutdownTimeout time.Duration

	mu       sync.Mutex
	services []namedService
}

type namedService struct {
	name    string
	service Service
}

// NewLifecycle creates a Lifecycle. A non-positive timeout selects
// DefaultShutdownTimeout.
//
// Precondition: logger must be non-nil.
func NewLifecycle(logger *zap.Logger, shutdownTimeout time.Duration) *Lifecycle {
	if shutdownTimeout <= 0 {
		shutdownTimeout = DefaultShutdownTimeout
	}
	return &Lifecycle{logger: logger, shutdownTimeout: shutdownTimeout}
}

// Add registers a named service.
//
// Precondition: name must be non-empty; svc must be non-nil.
func (l *Lifecycle) Add(name string, svc Service) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.services = append(l.services, namedService{name: name, service: svc})
}

// Run starts every service and blocks until SIGINT/SIGTERM, ctx cancellation,
// or the first service returns. Services are then stopped in reverse order.
//
// Postcondition: Every service has been stopped. Returns the error of the
// first service that failed, or nil.
func (l *Lifecycle) Run(ctx context.Context) error {
	start := time.Now()

	l.mu.Lock()
	services := append([]namedService(nil), l.services...)
	l.mu.Unlock()

	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	type exit struct {
		name string
		err  error
	}
	exits := make(chan exit, len(services))
	var wg sync.WaitGroup
	for _, ns := range services {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.logger.Info("starting service", zap.String("service", ns.name))
			exits <- exit{name: ns.name, err: ns.service.Start(runCtx)}
		}()
	}
	l.logger.Info("all services started",
		zap.Int("count", len(services)),
		zap.Duration("startup", time.Since(start)),
	)

	var runErr error
	select {
	case e := <-exits:
		if e.err != nil && !errors.Is(e.err, context.Canceled) {
			l.logger.Error("service failed, shutting down", zap.String("service", e.name), zap.Error(e.err))
			runErr = fmt.Errorf("service %s: %w", e.name, e.err)
		} else {
			l.logger.Info("service finished, shutting down", zap.String("service", e.name))
		}
	case <-ctx.Done():
		l.logger.Info("shutdown requested", zap.Error(context.Cause(ctx)))
	}
	cancel()

	l.shutdown(services)
	wg.Wait()

	l.logger.Info("shutdown complete", zap.Duration("total_uptime", time.Since(start)))
	return runErr
}

func (l *Lifecycle) shutdown(services []namedService) {
	ctx, cancel := context.WithTimeout(context.Background(), l.shutdownTimeout)
	defer cancel()

	begin := time.Now()
	for i := len(services) - 1; i >= 0; i-- {
		ns := services[i]
		svcStart := time.Now()
		ns.service.Stop(ctx)
		l.logger.Info("service stopped",
			zap.String("service", ns.name),
			zap.Duration("elapsed", time.Since(svcStart)),
		)
	}
	l.logger.Info("all services stopped", zap.Duration("shutdown_elapsed", time.Since(begin)))
}
