// Package telemetry reports errors, spans and breadcrumbs to Sentry. Every
// helper is safe to call when Sentry was never initialised.
package telemetry

import (
	"context"
	"log"
	"time"

	"github.com/getsentry/sentry-go"
)

const flushTimeout = 5 * time.Second

// Transactions that are never sampled.
var unsampled = map[string]bool{
	"GET /health": true,
}

// Config holds the configuration for Sentry initialization.
type Config struct {
	DSN         string
	Environment string
	// Component is "proxy" or "cli" and becomes the server name.
	Component        string
	Release          string
	TracesSampleRate float64
	Debug            bool
}

// Init starts Sentry and returns a function that flushes pending events.
// Without a DSN, or when the client cannot start, it returns a no-op.
func Init(cfg Config) (func(), error) {
	if cfg.DSN == "" {
		return func() {}, nil
	}
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.Component == "" {
		cfg.Component = "jobfinder"
	}
	if cfg.TracesSampleRate == 0 {
		cfg.TracesSampleRate = 1.0
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:           cfg.DSN,
		Environment:   cfg.Environment,
		Release:       cfg.Release,
		ServerName:    cfg.Component,
		EnableTracing: true,
		Debug:         cfg.Debug,
		TracesSampler: sampler(cfg.TracesSampleRate),
	})
	if err != nil {
		log.Printf("sentry: disabled: %v", err)
		return func() {}, nil
	}

	log.Printf("sentry: %s reporting to %s (traces %.2f)", cfg.Component, cfg.Environment, cfg.TracesSampleRate)
	return func() { sentry.Flush(flushTimeout) }, nil
}

// sampler follows the parent's decision and otherwise samples at rate.
func sampler(rate float64) sentry.TracesSampler {
	return func(ctx sentry.SamplingContext) float64 {
		if unsampled[ctx.Span.Name] {
			return 0
		}
		if ctx.Parent != nil {
			if ctx.Parent.Sampled.Bool() {
				return 1
			}
			return 0
		}
		return rate
	}
}

// SpanAttributes tag a span with the job or route it concerns.
type SpanAttributes struct {
	JobID     string
	Route     string
	Operation string
}

// Span is a started Sentry span; the zero value is a no-op.
type Span struct {
	inner *sentry.Span
}

// StartSpan opens a child of the span carried by ctx, or a new transaction.
func StartSpan(ctx context.Context, name string, attrs SpanAttributes) (context.Context, *Span) {
	var span *sentry.Span
	if parent := sentry.SpanFromContext(ctx); parent != nil {
		span = parent.StartChild(name)
	} else {
		span = sentry.StartSpan(ctx, name, sentry.WithTransactionName(name))
	}

	if attrs.JobID != "" {
		span.SetTag("job_id", attrs.JobID)
	}
	if attrs.Route != "" {
		span.SetTag("route", attrs.Route)
	}
	if attrs.Operation != "" {
		span.SetData("operation", attrs.Operation)
	}

	return span.Context(), &Span{inner: span}
}

func (s *Span) End() {
	if s.inner != nil {
		s.inner.Finish()
	}
}

// SetUpstreamStatus records the backend's reply status. Backend 5xx replies
// mark the span as failed without capturing an event.
func (s *Span) SetUpstreamStatus(code int) {
	if s.inner == nil {
		return
	}
	s.inner.SetData("upstream.status_code", code)
	if code >= 500 {
		s.inner.Status = sentry.SpanStatusUnavailable
	}
}

// SetError marks the span as failed and captures err on the span's hub.
func (s *Span) SetError(err error) {
	if s.inner == nil {
		sentry.CaptureException(err)
		return
	}
	s.inner.Status = sentry.SpanStatusInternalError
	CaptureError(s.inner.Context(), err)
}

// CaptureError captures err on the hub carried by ctx, or the global hub.
func CaptureError(ctx context.Context, err error) {
	hubFor(ctx).CaptureException(err)
}

// AddBreadcrumb records a client action leading up to a possible error.
func AddBreadcrumb(ctx context.Context, category, message string) {
	hubFor(ctx).AddBreadcrumb(&sentry.Breadcrumb{
		Category:  category,
		Message:   message,
		Level:     sentry.LevelInfo,
		Timestamp: time.Now(),
	}, nil)
}

func hubFor(ctx context.Context) *sentry.Hub {
	if hub := sentry.GetHubFromContext(ctx); hub != nil {
		return hub
	}
	return sentry.CurrentHub()
}
