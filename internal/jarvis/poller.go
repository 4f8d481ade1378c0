// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package jarvis

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/jeranaias/jarvis-tui/internal/model"
)

// DefaultPollInterval is how often the status endpoint is queried.
const DefaultPollInterval = 30 * time.Second

// StatusChecker is the part of Client the poller needs.
type StatusChecker interface {
	Status(ctx context.Context) (*StatusResponse, error)
}

// CheckStatus runs one status query and maps the outcome to the indicator.
// Failures are logged and rendered as unreachable; they are never returned.
func CheckStatus(ctx context.Context, checker StatusChecker, log zerolog.Logger) model.StatusView {
	resp, err := checker.Status(ctx)
	if err != nil {
		log.Warn().Err(err).Str("endpoint", "/status").Msg("status check failed")
		return model.UnreachableStatus()
	}
	view := resp.View()
	if !view.Online() {
		log.Info().Str("status", resp.Status).Msg("backend reports offline")
	}
	return view
}

// Poller queries the status endpoint at startup and on a fixed interval,
// publishing the latest view. There is no backoff: a failed poll is
// superseded by the next one.
type Poller struct {
	checker  StatusChecker
	interval time.Duration
	timeout  time.Duration
	log      zerolog.Logger
	onChange func(model.StatusView)

	current atomic.Pointer[model.StatusView]
}

// PollerOption configures a Poller.
type PollerOption func(*Poller)

// WithPollTimeout bounds each status request.
func WithPollTimeout(d time.Duration) PollerOption {
	return func(p *Poller) { p.timeout = d }
}

// WithPollLogger sets the poller's logger.
func WithPollLogger(log zerolog.Logger) PollerOption {
	return func(p *Poller) { p.log = log }
}

// WithOnChange registers a callback invoked from the poll goroutine whenever
// the rendered view changes.
func WithOnChange(fn func(model.StatusView)) PollerOption {
	return func(p *Poller) { p.onChange = fn }
}

// NewPoller creates a poller. A non-positive interval uses DefaultPollInterval.
func NewPoller(checker StatusChecker, interval time.Duration, opts ...PollerOption) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	p := &Poller{
		checker:  checker,
		interval: interval,
		timeout:  10 * time.Second,
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	initial := model.LoadingStatus()
	p.current.Store(&initial)
	return p
}

// Current returns the most recently published view.
func (p *Poller) Current() model.StatusView {
	return *p.current.Load()
}

// PollOnce runs a single poll and publishes its result.
func (p *Poller) PollOnce(ctx context.Context) model.StatusView {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	view := CheckStatus(ctx, p.checker, p.log)
	prev := p.current.Swap(&view)
	if p.onChange != nil && (prev == nil || *prev != view) {
		p.onChange(view)
	}
	return view
}

// Run polls immediately and then every interval until ctx is done.
// It returns ctx.Err().
func (p *Poller) Run(ctx context.Context) error {
	p.PollOnce(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			p.PollOnce(ctx)
		}
	}
}
