package service

import (
	"context"
	"errors"
	"time"

	"github.com/vcscsvcscs/vitals-tracker/internal/metrics"
	"github.com/vcscsvcscs/vitals-tracker/internal/vitals"
	"github.com/vcscsvcscs/vitals-tracker/pkg/model"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

var (
	// ErrValidation wraps model.FieldErrors for rejected input
	ErrValidation = errors.New("validation failed")
	// ErrRequestInProgress is returned when the same control already has a request in flight
	ErrRequestInProgress = errors.New("request already in progress")
	// ErrNoData is returned when a window holds nothing to chart
	ErrNoData = errors.New("no health data available")
)

// Controls that allow at most one request in flight
const (
	ControlSubmit      = "submit"
	ControlDashboard   = "dashboard"
	ControlChatSend    = "chat_send"
	ControlHealthFetch = "health_fetch"
	ControlReport      = "report"
)

// VitalsStore is the document store holding vital-sign submissions
type VitalsStore interface {
	List(ctx context.Context) (vitals.RawCollection, error)
	Append(ctx context.Context, doc model.VitalSignsDocument) (string, error)
}

// Option tunes a service
type Option func(*settings)

type settings struct {
	now      func() time.Time
	location *time.Location
	limiter  *rate.Limiter
}

func newSettings(opts []Option) settings {
	s := settings{now: time.Now, location: time.Local}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// clock returns the current time in the display location
func (s settings) clock() time.Time {
	return s.now().In(s.location)
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(s *settings) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLocation sets the display time zone
func WithLocation(loc *time.Location) Option {
	return func(s *settings) {
		if loc != nil {
			s.location = loc
		}
	}
}

// WithRateLimiter throttles generative model calls; nil means unlimited
func WithRateLimiter(l *rate.Limiter) Option {
	return func(s *settings) {
		s.limiter = l
	}
}

// inFlight admits one request at a time for a control and rejects the rest
type inFlight struct {
	control string
	sem     *semaphore.Weighted
}

func newInFlight(control string) *inFlight {
	return &inFlight{control: control, sem: semaphore.NewWeighted(1)}
}

func (f *inFlight) acquire() (release func(), err error) {
	if !f.sem.TryAcquire(1) {
		metrics.ObserveRejected(f.control)
		return nil, ErrRequestInProgress
	}
	return func() { f.sem.Release(1) }, nil
}
