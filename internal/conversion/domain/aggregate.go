package domain

import (
	"sort"
	"time"
)

// Aggregate inner-joins leads and attendances on email, keeps the earliest
// event per lead, drops candidates whose event predates the lead, and averages
// the surviving durations.
//
// The join is an exact string comparison with no case folding or trimming,
// mirroring the lead store contents as-is. The function is pure: calling it
// twice on the same inputs yields an identical Result.
func Aggregate(leads []Lead, attendances []Attendance) Result {
	empty := Result{Records: []Conversion{}}
	if len(leads) == 0 || len(attendances) == 0 {
		return empty
	}

	earliest := make(map[string]Attendance, len(attendances))
	for _, att := range attendances {
		cur, ok := earliest[att.AttendeeEmail]
		if !ok || att.EventCreatedAt.Before(cur.EventCreatedAt) {
			earliest[att.AttendeeEmail] = att
		}
	}

	seen := make(map[string]bool, len(leads))
	records := make([]Conversion, 0, len(leads))
	for _, lead := range leads {
		// A duplicate lead email keeps its first occurrence.
		if seen[lead.Email] {
			continue
		}
		seen[lead.Email] = true

		att, ok := earliest[lead.Email]
		if !ok {
			continue
		}

		duration := att.EventCreatedAt.Sub(lead.CreatedAt)
		if duration < 0 {
			// Event created before the lead: data anomaly, not a conversion.
			continue
		}

		records = append(records, Conversion{
			Email:          lead.Email,
			LeadCreatedAt:  lead.CreatedAt,
			EventCreatedAt: att.EventCreatedAt,
			Duration:       duration,
		})
	}

	if len(records) == 0 {
		return empty
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Email < records[j].Email
	})

	var total int64
	for _, rec := range records {
		total += int64(rec.Duration)
	}

	return Result{
		MeanDuration: time.Duration(total / int64(len(records))),
		SampleCount:  len(records),
		Records:      records,
	}
}

// Classify maps the fetch and aggregation results onto the user-facing
// insufficient-data states.
func Classify(leads []Lead, attendances []Attendance, result Result) Outcome {
	switch {
	case len(leads) == 0:
		return OutcomeNoLeads
	case len(attendances) == 0:
		return OutcomeNoEvents
	case result.SampleCount > 0:
		return OutcomeOK
	}

	// Distinguish "no email matched at all" from "all matches predated their
	// lead" for the dashboard warning text.
	matched := make(map[string]bool, len(attendances))
	for _, att := range attendances {
		matched[att.AttendeeEmail] = true
	}
	for _, lead := range leads {
		if matched[lead.Email] {
			return OutcomeNoValidConversions
		}
	}
	return OutcomeNoMatches
}
