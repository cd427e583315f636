// Package fallback races live calls against a timeout and substitutes
// synthetic data when the call is slow or fails. Substitution only happens
// when the controller is enabled, which requires dev mode.
package fallback

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/DeBrosOfficial/indexer-client/pkg/errors"
	"github.com/DeBrosOfficial/indexer-client/pkg/logging"
)

// DefaultTimeout is used when an enabled policy carries no timeout.
const DefaultTimeout = 3 * time.Second

// Policy is the fallback configuration of a client.
type Policy struct {
	Enabled bool
	Timeout time.Duration
}

// Outcome describes how a guarded call finished.
type Outcome int

const (
	// Resolved means the live call returned a value.
	Resolved Outcome = iota
	// Failed means the live call's error was returned to the caller.
	Failed
	// Substituted means synthetic data was returned instead of the live result.
	Substituted
)

func (o Outcome) String() string {
	switch o {
	case Resolved:
		return "resolved"
	case Failed:
		return "failed"
	case Substituted:
		return "substituted"
	default:
		return "unknown"
	}
}

// Event is reported to the observer once per guarded call.
type Event struct {
	Name     string
	Outcome  Outcome
	Reason   error // live error or timeout that caused substitution or failure
	Duration time.Duration
}

// Observer receives one Event per call. It must not block.
type Observer func(Event)

// Controller applies a Policy. It is immutable and safe for concurrent use.
type Controller struct {
	policy   Policy
	dev      bool
	logger   *logging.ColoredLogger
	observer Observer
}

// Option configures a Controller.
type Option func(*Controller)

// WithObserver registers an observer for call outcomes.
func WithObserver(o Observer) Option {
	return func(c *Controller) { c.observer = o }
}

// WithLogger sets the logger used for substitution warnings.
func WithLogger(l *logging.ColoredLogger) Option {
	return func(c *Controller) { c.logger = l }
}

// NewController creates a controller for policy. dev is the client's dev flag;
// without it the controller never substitutes.
func NewController(policy Policy, dev bool, opts ...Option) *Controller {
	if policy.Timeout <= 0 {
		policy.Timeout = DefaultTimeout
	}
	c := &Controller{
		policy: policy,
		dev:    dev,
		logger: logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Enabled reports whether substitution is active (dev && policy enabled).
func (c *Controller) Enabled() bool {
	return c != nil && c.dev && c.policy.Enabled
}

// Timeout returns the race timeout.
func (c *Controller) Timeout() time.Duration {
	if c == nil {
		return DefaultTimeout
	}
	return c.policy.Timeout
}

func (c *Controller) report(name string, outcome Outcome, reason error, start time.Time) {
	if c == nil || c.observer == nil {
		return
	}
	c.observer(Event{
		Name:     name,
		Outcome:  outcome,
		Reason:   reason,
		Duration: time.Since(start),
	})
}

type result[T any] struct {
	value T
	err   error
}

// Run executes op under the controller's policy.
//
// Disabled: op is awaited and its value or error is returned unchanged.
// Enabled: op races the timeout. A value that arrives first is returned. An
// error or the timeout arriving first is logged as a warning and synth's value
// is returned instead; synth's own error is returned as is. A late op result
// is dropped. The timeout never cancels op. Cancellation of ctx is returned as
// a CancelledError and is never substituted.
func Run[T any](ctx context.Context, c *Controller, name string, op func(context.Context) (T, error), synth func() (T, error)) (T, error) {
	var zero T
	start := time.Now()

	if !c.Enabled() {
		v, err := op(ctx)
		if err != nil {
			c.report(name, Failed, err, start)
			return zero, err
		}
		c.report(name, Resolved, nil, start)
		return v, nil
	}

	if err := ctx.Err(); err != nil {
		return zero, errors.NewCancelledError(name, err)
	}

	// Buffered so the goroutine can always finish after we stop listening.
	done := make(chan result[T], 1)
	go func() {
		v, err := op(ctx)
		done <- result[T]{value: v, err: err}
	}()

	timer := time.NewTimer(c.policy.Timeout)
	defer timer.Stop()

	var reason error
	select {
	case r := <-done:
		if r.err == nil {
			c.report(name, Resolved, nil, start)
			return r.value, nil
		}
		if ctx.Err() != nil || errors.IsCancelled(r.err) {
			cause := ctx.Err()
			if cause == nil {
				cause = r.err
			}
			c.report(name, Failed, r.err, start)
			return zero, errors.NewCancelledError(name, cause)
		}
		reason = r.err
	case <-timer.C:
		reason = errors.NewTimeoutError(name, c.policy.Timeout.String())
	case <-ctx.Done():
		err := errors.NewCancelledError(name, ctx.Err())
		c.report(name, Failed, err, start)
		return zero, err
	}

	c.logger.ComponentWarn(logging.ComponentFallback, "Live call unavailable, using synthetic data",
		zap.String("operation", name),
		zap.Duration("timeout", c.policy.Timeout),
		zap.Error(reason),
	)

	if synth == nil {
		c.report(name, Failed, reason, start)
		return zero, reason
	}

	v, err := synth()
	if err != nil {
		c.report(name, Failed, err, start)
		return zero, err
	}
	c.report(name, Substituted, reason, start)
	return v, nil
}
