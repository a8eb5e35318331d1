package worker

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"go-aws-clients/internal/awsconf"
)

const (
	handlerTimeout = 30 * time.Second
	deleteTimeout  = 2 * time.Second

	defaultRetryBase = 500 * time.Millisecond
	defaultRetryMax  = 30 * time.Second
	defaultIdleDelay = time.Second
)

type Runner struct {
	poller      *Poller
	handler     Handler
	maxInFlight int
	concurrency int

	leases   LeaseStore
	leaseTTL time.Duration
	log      zerolog.Logger

	retryBase time.Duration
	retryMax  time.Duration
	idleDelay time.Duration
}

type RunnerOption func(*Runner)

// WithLeaseStore makes workers take a lease on the message ID before handling,
// so a message delivered twice is not processed by two workers at once.
func WithLeaseStore(store LeaseStore, ttl time.Duration) RunnerOption {
	return func(r *Runner) {
		r.leases = store
		r.leaseTTL = ttl
	}
}

func WithLogger(log zerolog.Logger) RunnerOption {
	return func(r *Runner) { r.log = log }
}

// WithRetryBackoff sets the pause after a failed receive. It starts at base and
// doubles per consecutive failure up to max.
func WithRetryBackoff(base, max time.Duration) RunnerOption {
	return func(r *Runner) {
		r.retryBase = base
		r.retryMax = max
	}
}

// WithIdleDelay sets the pause after a receive that returned nothing. Zero is
// only sensible when the queue client long-polls.
func WithIdleDelay(d time.Duration) RunnerOption {
	return func(r *Runner) { r.idleDelay = d }
}

func NewRunner(poller *Poller, handler Handler, maxInFlight int, concurrency int, opts ...RunnerOption) *Runner {
	r := &Runner{
		poller:      poller,
		handler:     handler,
		maxInFlight: maxInFlight,
		concurrency: concurrency,
		log:         zerolog.Nop(),
		retryBase:   defaultRetryBase,
		retryMax:    defaultRetryMax,
		idleDelay:   defaultIdleDelay,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run consumes until ctx is done. It stops early and returns the receive error
// when the queue does not exist; other receive errors are retried with backoff.
func (r *Runner) Run(ctx context.Context) error {
	// allow for buffering all messages at `maxInFlight` that don't have a worker available
	messageBufferSize := r.maxInFlight - r.concurrency
	if messageBufferSize < 0 {
		messageBufferSize = 0 // unbuffered if workers >= maxInFlight
	}
	msgCh := make(chan *Message, messageBufferSize)
	sem := make(chan struct{}, r.maxInFlight)
	var wg sync.WaitGroup

	for i := 0; i < r.concurrency; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			r.worker(ctx, msgCh, sem, workerID)
		}(i)
	}

	// written before msgCh is closed, read after every worker has returned
	var fatal error

	go func() {
		defer close(msgCh)
		failures := 0
		for {
			select {
			case <-ctx.Done():
				return
			case sem <- struct{}{}: // acquire slot before receive
			}

			msg, err := r.poller.ReceiveOne(ctx)
			if err != nil {
				<-sem
				if ctx.Err() != nil {
					return
				}
				if awsconf.IsNotFound(err) {
					r.log.Error().Err(err).Msg("queue not found, stopping")
					fatal = err
					return
				}
				failures++
				delay := r.backoff(failures)
				r.log.Error().Err(err).Int("failures", failures).Dur("retry_in", delay).Msg("receive error")
				if !sleep(ctx, delay) {
					return
				}
				continue
			}
			failures = 0
			if msg == nil {
				<-sem
				if !sleep(ctx, r.idleDelay) {
					return
				}
				continue
			}

			select {
			case msgCh <- msg:
			case <-ctx.Done():
				<-sem
				return
			}
		}
	}()

	wg.Wait()
	if fatal != nil {
		return fatal
	}
	return ctx.Err()
}

// backoff returns the pause before the retry following the n-th consecutive failure.
func (r *Runner) backoff(n int) time.Duration {
	d := r.retryBase
	for i := 1; i < n && d < r.retryMax; i++ {
		d *= 2
	}
	if d > r.retryMax {
		d = r.retryMax
	}
	return d
}

// sleep waits for d and reports false if ctx ended first.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func (r *Runner) worker(ctx context.Context, msgCh <-chan *Message, sem <-chan struct{}, workerID int) {
	for msg := range msgCh {
		r.handle(ctx, msg, workerID)
		<-sem
	}
}

func (r *Runner) handle(ctx context.Context, msg *Message, workerID int) {
	log := r.log.With().Int("worker", workerID).Str("message_id", msg.ID).Logger()

	if r.leases != nil {
		token, ok, err := r.leases.Acquire(ctx, msg.ID, r.leaseTTL)
		if err != nil {
			log.Error().Err(err).Msg("lease error")
			return
		}
		if !ok {
			log.Debug().Msg("message leased by another worker, skipping")
			return
		}
		defer r.release(msg.ID, token, log)
	}

	handlerCtx, cancel := context.WithTimeout(ctx, handlerTimeout)
	err := r.handler(handlerCtx, msg)
	cancel()
	if err != nil {
		log.Error().Err(err).Msg("handler error")
		return
	}

	delCtx, delCancel := context.WithTimeout(context.Background(), deleteTimeout)
	defer delCancel()
	if err := r.poller.Delete(delCtx, msg); err != nil {
		log.Error().Err(err).Msg("delete error")
	}
}

func (r *Runner) release(key, token string, log zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), deleteTimeout)
	defer cancel()
	if err := r.leases.Release(ctx, key, token); err != nil {
		log.Error().Err(err).Msg("lease release error")
	}
}
