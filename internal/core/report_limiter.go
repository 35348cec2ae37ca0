package core

// report_limiter.go bounds how many reports are assembled at once. Every
// report holds its whole snapshot set in memory, so an unbounded number of
// concurrent exports could exhaust the process. Callers wait up to maxWait
// for a slot before failing with ErrTooManyReports.

import (
	"context"
	"errors"
	"time"
)

// ErrTooManyReports is returned when every report slot stays busy for the
// whole wait. Clients should retry after a short delay.
var ErrTooManyReports = errors.New("too many concurrent reports, please try again later")

// Defaults for NewReportLimiter.
const (
	DefaultMaxConcurrentReports = 4
	DefaultReportWait           = 30 * time.Second
)

// ReportLimiter is a counting semaphore over report assembly.
type ReportLimiter struct {
	slots   chan struct{}
	maxWait time.Duration
}

// NewReportLimiter allows at most maxConcurrent reports at once. Non-positive
// arguments fall back to the defaults.
func NewReportLimiter(maxConcurrent int, maxWait time.Duration) *ReportLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentReports
	}
	if maxWait <= 0 {
		maxWait = DefaultReportWait
	}
	return &ReportLimiter{
		slots:   make(chan struct{}, maxConcurrent),
		maxWait: maxWait,
	}
}

// Acquire takes a slot, waiting up to maxWait. It returns ctx's error when
// ctx ends first. A nil error must be paired with exactly one Release.
func (l *ReportLimiter) Acquire(ctx context.Context) error {
	timer := time.NewTimer(l.maxWait)
	defer timer.Stop()

	select {
	case l.slots <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return ErrTooManyReports
	}
}

// Release frees a slot taken by Acquire.
func (l *ReportLimiter) Release() {
	<-l.slots
}

// Active returns the number of reports being built.
func (l *ReportLimiter) Active() int {
	return len(l.slots)
}

// MaxConcurrent returns the slot count.
func (l *ReportLimiter) MaxConcurrent() int {
	return cap(l.slots)
}

// WaitForDrain blocks until no report is being built or ctx ends.
// Used on shutdown so in-flight exports finish.
func (l *ReportLimiter) WaitForDrain(ctx context.Context) error {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for l.Active() > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return nil
}
