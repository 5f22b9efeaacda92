// Package domain holds the conversion pipeline's entities and the pure
// reconciliation logic that joins leads with calendar attendances.
package domain

import "time"

// Lead is a prospective customer record fetched from the lead store.
// Immutable once fetched. Email is the join key, compared exactly as the
// source provides it.
type Lead struct {
	Email     string
	CreatedAt time.Time
}

// Attendance is one (event, attendee) pairing extracted from calendar data,
// excluding the organizer and resource attendees. An event with N qualifying
// attendees produces N records. Immutable once fetched.
type Attendance struct {
	AttendeeEmail  string
	EventCreatedAt time.Time
}

// Conversion is a lead paired with its earliest valid calendar booking.
// At most one Conversion exists per distinct email in a Result, and its
// Duration is always >= 0.
type Conversion struct {
	Email          string
	LeadCreatedAt  time.Time
	EventCreatedAt time.Time
	Duration       time.Duration
}

// Result is the aggregate computed for one report cycle. Never persisted.
type Result struct {
	MeanDuration time.Duration
	SampleCount  int
	Records      []Conversion
}

// Outcome classifies how a report run ended, so that the presentation layer
// can tell "no leads" apart from "no events" or "no valid conversions".
type Outcome string

const (
	// OutcomeOK means at least one valid conversion was found.
	OutcomeOK Outcome = "ok"
	// OutcomeNoLeads means the lead store returned no usable rows.
	OutcomeNoLeads Outcome = "no_leads"
	// OutcomeNoEvents means the calendar fetch produced no attendances.
	OutcomeNoEvents Outcome = "no_events"
	// OutcomeNoMatches means no lead email appeared in any attendance.
	OutcomeNoMatches Outcome = "no_matches"
	// OutcomeNoValidConversions means every candidate event predated its lead.
	OutcomeNoValidConversions Outcome = "no_valid_conversions"
)
