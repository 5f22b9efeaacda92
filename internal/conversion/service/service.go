// Package service orchestrates the lead-to-opportunity-speed pipeline: two
// fetch stages, the reconciliation aggregate, and the optional report cache.
package service

import (
	"context"
	"time"

	"leadspeed/internal/conversion/domain"
	"leadspeed/platform/logger"

	"golang.org/x/sync/errgroup"
)

// reportCacheKey is the single cache slot; the pipeline has no tenants.
const reportCacheKey = "leadspeed:report"

// LeadSource is the lead store fetch stage.
type LeadSource interface {
	FetchLeads(ctx context.Context) ([]domain.Lead, error)
}

// AttendanceSource is the calendar fetch stage.
type AttendanceSource interface {
	FetchAttendances(ctx context.Context) ([]domain.Attendance, error)
}

// ReportCache abstracts the optional redis report cache.
type ReportCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}) error
}

// Report is the product of one fetch+aggregate cycle. It lives for one
// report/render cycle; nothing is persisted beyond the optional cache entry.
type Report struct {
	Outcome      domain.Outcome      `json:"outcome"`
	MeanDuration time.Duration       `json:"meanDuration"`
	SampleCount  int                 `json:"sampleCount"`
	Records      []domain.Conversion `json:"records"`
	GeneratedAt  time.Time           `json:"generatedAt"`
}

// RunOptions controls a single pipeline run.
type RunOptions struct {
	// Refresh bypasses the cache and recomputes the report.
	Refresh bool
}

// Service runs the pipeline.
type Service struct {
	leads       LeadSource
	attendances AttendanceSource
	cache       ReportCache
	log         *logger.Logger
	now         func() time.Time
}

// New creates a pipeline service. cache may be nil when no redis is
// configured.
func New(leads LeadSource, attendances AttendanceSource, cache ReportCache, log *logger.Logger) *Service {
	return &Service{
		leads:       leads,
		attendances: attendances,
		cache:       cache,
		log:         log,
		now:         time.Now,
	}
}

// Run executes one full fetch+aggregate cycle. A failing fetch stage is
// converted into an empty record set at the stage boundary with a logged
// diagnostic; the pipeline always proceeds to aggregation and classification,
// so callers receive an insufficient-data outcome instead of an error.
func (s *Service) Run(ctx context.Context, opts RunOptions) *Report {
	if s.cache != nil && !opts.Refresh {
		var cached Report
		found, err := s.cache.Get(ctx, reportCacheKey, &cached)
		if err != nil {
			s.log.Warn("report cache read failed", "error", err)
		} else if found {
			s.log.Debug("serving cached report", "generatedAt", cached.GeneratedAt)
			return &cached
		}
	}

	var leads []domain.Lead
	var attendances []domain.Attendance

	// The stages are independent and share no state; run them concurrently.
	// Errors are handled inside each goroutine per the stage-boundary policy,
	// so Wait never returns one.
	group := new(errgroup.Group)
	group.Go(func() error {
		fetched, err := s.leads.FetchLeads(ctx)
		if err != nil {
			s.log.FetchFailure("leads", err)
			return nil
		}
		s.log.FetchStage("leads", len(fetched))
		leads = fetched
		return nil
	})
	group.Go(func() error {
		fetched, err := s.attendances.FetchAttendances(ctx)
		if err != nil {
			s.log.FetchFailure("calendar", err)
			return nil
		}
		s.log.FetchStage("calendar", len(fetched))
		attendances = fetched
		return nil
	})
	_ = group.Wait()

	result := domain.Aggregate(leads, attendances)
	report := &Report{
		Outcome:      domain.Classify(leads, attendances, result),
		MeanDuration: result.MeanDuration,
		SampleCount:  result.SampleCount,
		Records:      result.Records,
		GeneratedAt:  s.now().UTC(),
	}

	// Only successful reports are cached: an empty result may mean a fetch
	// failed, and that ambiguity must not be served for the next hour.
	if s.cache != nil && report.Outcome == domain.OutcomeOK {
		if err := s.cache.Set(ctx, reportCacheKey, report); err != nil {
			s.log.Warn("report cache write failed", "error", err)
		}
	}

	return report
}
