package gcal

import (
	"testing"
	"time"

	"google.golang.org/api/calendar/v3"
)

func TestExtractAttendances_FiltersSelfAndResource(t *testing.T) {
	event := &calendar.Event{
		Created: "2024-01-03T12:00:00Z",
		Attendees: []*calendar.EventAttendee{
			{Email: "me@x.com", Self: true},
			{Email: "room@x.com", Resource: true},
			{Email: "lead@x.com"},
			{Email: ""},
		},
	}

	records := extractAttendances(event)

	if len(records) != 1 {
		t.Fatalf("expected 1 attendance, got %d", len(records))
	}
	if records[0].AttendeeEmail != "lead@x.com" {
		t.Fatalf("expected lead@x.com, got %s", records[0].AttendeeEmail)
	}
	expected := time.Date(2024, 1, 3, 12, 0, 0, 0, time.UTC)
	if !records[0].EventCreatedAt.Equal(expected) {
		t.Fatalf("expected %v, got %v", expected, records[0].EventCreatedAt)
	}
}

func TestExtractAttendances_SkipsEventsWithoutCreated(t *testing.T) {
	event := &calendar.Event{
		Attendees: []*calendar.EventAttendee{{Email: "lead@x.com"}},
	}

	if records := extractAttendances(event); len(records) != 0 {
		t.Fatalf("expected no attendances for event without created, got %d", len(records))
	}
}

func TestExtractAttendances_SkipsUnparseableCreated(t *testing.T) {
	event := &calendar.Event{
		Created:   "not-a-timestamp",
		Attendees: []*calendar.EventAttendee{{Email: "lead@x.com"}},
	}

	if records := extractAttendances(event); len(records) != 0 {
		t.Fatalf("expected no attendances for bad created timestamp, got %d", len(records))
	}
}

func TestExtractAttendances_NormalizesToUTC(t *testing.T) {
	event := &calendar.Event{
		Created:   "2024-01-03T09:00:00-03:00",
		Attendees: []*calendar.EventAttendee{{Email: "lead@x.com"}},
	}

	records := extractAttendances(event)
	if len(records) != 1 {
		t.Fatalf("expected 1 attendance, got %d", len(records))
	}
	expected := time.Date(2024, 1, 3, 12, 0, 0, 0, time.UTC)
	if !records[0].EventCreatedAt.Equal(expected) || records[0].EventCreatedAt.Location() != time.UTC {
		t.Fatalf("expected %v in UTC, got %v", expected, records[0].EventCreatedAt)
	}
}

func TestLookbackStart(t *testing.T) {
	now := time.Date(2024, 6, 1, 10, 30, 0, 0, time.UTC)

	got := lookbackStart(now)

	if got != "2024-03-03T10:30:00Z" {
		t.Fatalf("expected 2024-03-03T10:30:00Z, got %s", got)
	}
}
