// Package transport defines the dashboard-facing DTOs for the conversion
// report and the formatting this surface applies to durations.
package transport

import (
	"fmt"
	"sort"
	"time"

	"leadspeed/internal/conversion/domain"
	"leadspeed/internal/conversion/service"
)

// Sort field values accepted by the report endpoint.
const (
	SortByEmail          = "email"
	SortByLeadCreatedAt  = "leadCreatedAt"
	SortByEventCreatedAt = "eventCreatedAt"
	SortByDuration       = "duration"
)

// ReportQuery is the query string of GET /api/v1/report. The detail table is
// sorted server-side so the dashboard can re-order it per column.
type ReportQuery struct {
	SortBy  string `form:"sortBy,default=email" validate:"omitempty,oneof=email leadCreatedAt eventCreatedAt duration"`
	Order   string `form:"order,default=asc" validate:"omitempty,oneof=asc desc"`
	Refresh bool   `form:"refresh"`
}

// ConversionRow is one retained lead/booking match.
type ConversionRow struct {
	Email           string    `json:"email"`
	LeadCreatedAt   time.Time `json:"leadCreatedAt"`
	EventCreatedAt  time.Time `json:"eventCreatedAt"`
	DurationSeconds int64     `json:"durationSeconds"`
	DurationLabel   string    `json:"durationLabel"`
}

// ReportResponse is the body of GET /api/v1/report.
type ReportResponse struct {
	Outcome      string          `json:"outcome"`
	Warning      string          `json:"warning,omitempty"`
	AverageDays  int64           `json:"averageDays"`
	AverageHours int64           `json:"averageHours"`
	AverageLabel string          `json:"averageLabel,omitempty"`
	SampleCount  int             `json:"sampleCount"`
	GeneratedAt  time.Time       `json:"generatedAt"`
	Records      []ConversionRow `json:"records"`
}

// NewReportResponse maps a pipeline report onto the dashboard DTO, applying
// the requested detail-table ordering.
func NewReportResponse(report *service.Report, query ReportQuery) ReportResponse {
	resp := ReportResponse{
		Outcome:     string(report.Outcome),
		Warning:     warningFor(report.Outcome),
		SampleCount: report.SampleCount,
		GeneratedAt: report.GeneratedAt,
		Records:     make([]ConversionRow, 0, len(report.Records)),
	}

	if report.Outcome == domain.OutcomeOK {
		days, hours := splitDaysHours(report.MeanDuration)
		resp.AverageDays = days
		resp.AverageHours = hours
		resp.AverageLabel = fmt.Sprintf("%d days and %d hours", days, hours)
	}

	for _, rec := range report.Records {
		days, hours := splitDaysHours(rec.Duration)
		resp.Records = append(resp.Records, ConversionRow{
			Email:           rec.Email,
			LeadCreatedAt:   rec.LeadCreatedAt,
			EventCreatedAt:  rec.EventCreatedAt,
			DurationSeconds: int64(rec.Duration.Seconds()),
			DurationLabel:   fmt.Sprintf("%d days, %d hours", days, hours),
		})
	}

	sortRows(resp.Records, query.SortBy, query.Order)
	return resp
}

// warningFor maps insufficient-data outcomes onto the dashboard notices.
func warningFor(outcome domain.Outcome) string {
	switch outcome {
	case domain.OutcomeNoLeads, domain.OutcomeNoEvents:
		return "Not enough data was found for the analysis."
	case domain.OutcomeNoMatches:
		return "No lead with a booked call was found."
	case domain.OutcomeNoValidConversions:
		return "No lead with a valid booking (event created after the lead) was found."
	default:
		return ""
	}
}

// splitDaysHours decomposes a duration into whole days and remaining whole
// hours. This surface drops the minute remainder; the CLI keeps it.
func splitDaysHours(d time.Duration) (int64, int64) {
	total := int64(d / time.Second)
	return total / 86400, (total % 86400) / 3600
}

func sortRows(rows []ConversionRow, sortBy, order string) {
	less := func(i, j int) bool { return rows[i].Email < rows[j].Email }
	switch sortBy {
	case SortByLeadCreatedAt:
		less = func(i, j int) bool { return rows[i].LeadCreatedAt.Before(rows[j].LeadCreatedAt) }
	case SortByEventCreatedAt:
		less = func(i, j int) bool { return rows[i].EventCreatedAt.Before(rows[j].EventCreatedAt) }
	case SortByDuration:
		less = func(i, j int) bool { return rows[i].DurationSeconds < rows[j].DurationSeconds }
	}
	if order == "desc" {
		inner := less
		less = func(i, j int) bool { return inner(j, i) }
	}
	sort.SliceStable(rows, less)
}
