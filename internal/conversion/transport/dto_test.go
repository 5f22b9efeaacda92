package transport

import (
	"testing"
	"time"

	"leadspeed/internal/conversion/domain"
	"leadspeed/internal/conversion/service"
)

func ts(value string) time.Time {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		panic(err)
	}
	return t.UTC()
}

func okReport() *service.Report {
	return &service.Report{
		Outcome:      domain.OutcomeOK,
		MeanDuration: 2*24*time.Hour + 12*time.Hour + 30*time.Minute,
		SampleCount:  2,
		Records: []domain.Conversion{
			{Email: "a@x.com", LeadCreatedAt: ts("2024-01-01T00:00:00Z"), EventCreatedAt: ts("2024-01-02T00:00:00Z"), Duration: 24 * time.Hour},
			{Email: "b@x.com", LeadCreatedAt: ts("2024-01-03T00:00:00Z"), EventCreatedAt: ts("2024-01-07T00:00:00Z"), Duration: 96 * time.Hour},
		},
		GeneratedAt: ts("2024-02-01T00:00:00Z"),
	}
}

func TestNewReportResponse_AverageDropsMinutes(t *testing.T) {
	resp := NewReportResponse(okReport(), ReportQuery{SortBy: SortByEmail, Order: "asc"})

	if resp.AverageDays != 2 || resp.AverageHours != 12 {
		t.Fatalf("expected 2 days 12 hours, got %d days %d hours", resp.AverageDays, resp.AverageHours)
	}
	if resp.AverageLabel != "2 days and 12 hours" {
		t.Fatalf("unexpected average label %q", resp.AverageLabel)
	}
	if resp.Warning != "" {
		t.Fatalf("expected no warning, got %q", resp.Warning)
	}
}

func TestNewReportResponse_RecordLabels(t *testing.T) {
	resp := NewReportResponse(okReport(), ReportQuery{SortBy: SortByEmail, Order: "asc"})

	if len(resp.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(resp.Records))
	}
	if resp.Records[0].DurationLabel != "1 days, 0 hours" {
		t.Fatalf("unexpected duration label %q", resp.Records[0].DurationLabel)
	}
	if resp.Records[0].DurationSeconds != 86400 {
		t.Fatalf("unexpected duration seconds %d", resp.Records[0].DurationSeconds)
	}
}

func TestNewReportResponse_SortsByDurationDesc(t *testing.T) {
	resp := NewReportResponse(okReport(), ReportQuery{SortBy: SortByDuration, Order: "desc"})

	if resp.Records[0].Email != "b@x.com" {
		t.Fatalf("expected longest duration first, got %s", resp.Records[0].Email)
	}
}

func TestNewReportResponse_Warnings(t *testing.T) {
	cases := []struct {
		outcome  domain.Outcome
		expected string
	}{
		{domain.OutcomeNoLeads, "Not enough data was found for the analysis."},
		{domain.OutcomeNoEvents, "Not enough data was found for the analysis."},
		{domain.OutcomeNoMatches, "No lead with a booked call was found."},
		{domain.OutcomeNoValidConversions, "No lead with a valid booking (event created after the lead) was found."},
	}

	for _, tc := range cases {
		report := &service.Report{Outcome: tc.outcome, Records: []domain.Conversion{}}
		resp := NewReportResponse(report, ReportQuery{})
		if resp.Warning != tc.expected {
			t.Fatalf("outcome %q: expected warning %q, got %q", tc.outcome, tc.expected, resp.Warning)
		}
		if resp.AverageLabel != "" {
			t.Fatalf("outcome %q: expected no average label, got %q", tc.outcome, resp.AverageLabel)
		}
	}
}
