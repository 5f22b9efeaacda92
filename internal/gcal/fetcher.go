package gcal

import (
	"context"
	"fmt"
	"sync"
	"time"

	"leadspeed/internal/conversion/domain"
	"leadspeed/platform/logger"

	"golang.org/x/sync/errgroup"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// Fixed fetch window and cap. Widening either is a non-goal.
const (
	lookbackDays         = 90
	maxEventsPerCalendar = 500
)

// concurrent per-calendar event requests
const fetchConcurrency = 4

// Fetcher enumerates every calendar visible to the authenticated principal
// and flattens event attendees into attendance records.
type Fetcher struct {
	provider *CredentialProvider
	log      *logger.Logger
	now      func() time.Time

	mu  sync.Mutex
	svc *calendar.Service
}

// NewFetcher creates a fetcher on top of the credential provider. The
// calendar service is built lazily so that a missing or expired credential
// surfaces as a fetch failure of one run, not a startup failure.
func NewFetcher(provider *CredentialProvider, log *logger.Logger) *Fetcher {
	return &Fetcher{provider: provider, log: log, now: time.Now}
}

func (f *Fetcher) service(ctx context.Context) (*calendar.Service, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.svc != nil {
		return f.svc, nil
	}

	source, err := f.provider.TokenSource(ctx)
	if err != nil {
		return nil, err
	}

	svc, err := calendar.NewService(ctx, option.WithTokenSource(source))
	if err != nil {
		return nil, fmt.Errorf("create calendar service: %w", err)
	}

	f.svc = svc
	return svc, nil
}

// FetchAttendances lists events created in the trailing 90-day window across
// all calendars and emits one record per qualifying attendee. Any calendar
// API error aborts the whole fetch; per-calendar failures are not retried.
func (f *Fetcher) FetchAttendances(ctx context.Context) ([]domain.Attendance, error) {
	svc, err := f.service(ctx)
	if err != nil {
		return nil, err
	}

	calendars, err := svc.CalendarList.List().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("list calendars: %w", err)
	}

	timeMin := lookbackStart(f.now())

	// Calendars are independent; fetch them concurrently. Arrival order does
	// not matter because the aggregation picks the earliest event per attendee.
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(fetchConcurrency)
	eventsByCalendar := make([][]*calendar.Event, len(calendars.Items))

	for i, item := range calendars.Items {
		group.Go(func() error {
			f.log.Debug("fetching calendar events", "calendar", item.Summary, "calendarId", item.Id)
			events, err := svc.Events.List(item.Id).
				TimeMin(timeMin).
				MaxResults(maxEventsPerCalendar).
				SingleEvents(true).
				OrderBy("startTime").
				Context(groupCtx).
				Do()
			if err != nil {
				return fmt.Errorf("list events for calendar %s: %w", item.Id, err)
			}
			eventsByCalendar[i] = events.Items
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	attendances := make([]domain.Attendance, 0)
	total := 0
	for _, events := range eventsByCalendar {
		total += len(events)
		for _, event := range events {
			attendances = append(attendances, extractAttendances(event)...)
		}
	}

	f.log.Debug("calendar fetch complete", "calendars", len(calendars.Items), "events", total, "attendances", len(attendances))
	return attendances, nil
}

// extractAttendances emits one attendance per attendee that is neither the
// authenticated user nor a resource such as a meeting room. Events without a
// creation timestamp are skipped.
func extractAttendances(event *calendar.Event) []domain.Attendance {
	if event.Created == "" {
		return nil
	}
	created, err := time.Parse(time.RFC3339, event.Created)
	if err != nil {
		return nil
	}
	created = created.UTC()

	records := make([]domain.Attendance, 0, len(event.Attendees))
	for _, attendee := range event.Attendees {
		if attendee.Self || attendee.Resource || attendee.Email == "" {
			continue
		}
		records = append(records, domain.Attendance{
			AttendeeEmail:  attendee.Email,
			EventCreatedAt: created,
		})
	}
	return records
}

// lookbackStart formats the lower bound of the event window for the API.
func lookbackStart(now time.Time) string {
	return now.AddDate(0, 0, -lookbackDays).UTC().Format(time.RFC3339)
}
