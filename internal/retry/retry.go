// Package retry applies bounded exponential backoff to storage
// operations. Only failures classified as transient are retried;
// everything else surfaces to the caller immediately.
package retry

import (
	"context"
	"log/slog"
	"strings"
	"time"
)

// Policy bounds a retried operation: up to MaxRetries additional
// attempts after the first, waiting InitialDelay*2^attempt between
// attempts.
type Policy struct {
	MaxRetries   int
	InitialDelay time.Duration
}

// Default is the policy applied around individual CRUD calls.
var Default = Policy{MaxRetries: 2, InitialDelay: 100 * time.Millisecond}

// Schema is the policy applied around schema creation/upgrade, which
// can transiently fail while another connection holds the database.
var Schema = Policy{MaxRetries: 2, InitialDelay: 200 * time.Millisecond}

// transientMarkers are message substrings indicating a failure worth
// retrying. Matching is done on the lowercased error text so wrapped
// causes are inspected too.
var transientMarkers = []string{
	"network",
	"timeout",
	"timed out",
	"connection",
	"temporar",
	"database is locked",
	"database table is locked",
	"busy",
	"i/o error",
}

// Transient reports whether err looks like a retryable failure.
func Transient(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range transientMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// Do runs fn, retrying per the policy while the failure is transient.
// The first attempt runs immediately. When attempts are exhausted the
// last error is returned as-is, not swallowed or rewrapped.
func Do(ctx context.Context, p Policy, fn func() error) error {
	var err error
	for attempt := 0; ; attempt++ {
		err = fn()
		if err == nil {
			return nil
		}
		if attempt >= p.MaxRetries || !Transient(err) {
			return err
		}

		delay := p.InitialDelay << attempt
		slog.WarnContext(ctx, "Transient storage failure, retrying",
			"attempt", attempt+1,
			"max_retries", p.MaxRetries,
			"delay", delay,
			"error", err)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
