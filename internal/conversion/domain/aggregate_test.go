package domain

import (
	"reflect"
	"testing"
	"time"
)

func ts(value string) time.Time {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		panic(err)
	}
	return t.UTC()
}

func TestAggregate_DisjointEmails(t *testing.T) {
	leads := []Lead{{Email: "a@x.com", CreatedAt: ts("2024-01-01T00:00:00Z")}}
	attendances := []Attendance{{AttendeeEmail: "b@x.com", EventCreatedAt: ts("2024-01-02T00:00:00Z")}}

	result := Aggregate(leads, attendances)

	if result.SampleCount != 0 {
		t.Fatalf("expected sample count 0, got %d", result.SampleCount)
	}
	if len(result.Records) != 0 {
		t.Fatalf("expected no records, got %d", len(result.Records))
	}
}

func TestAggregate_SingleMatch(t *testing.T) {
	leads := []Lead{{Email: "a@x.com", CreatedAt: ts("2024-01-01T00:00:00Z")}}
	attendances := []Attendance{{AttendeeEmail: "a@x.com", EventCreatedAt: ts("2024-01-03T12:00:00Z")}}

	result := Aggregate(leads, attendances)

	if result.SampleCount != 1 {
		t.Fatalf("expected sample count 1, got %d", result.SampleCount)
	}
	expected := 2*24*time.Hour + 12*time.Hour
	if result.MeanDuration != expected {
		t.Fatalf("expected mean duration %v, got %v", expected, result.MeanDuration)
	}
	if result.Records[0].Duration != expected {
		t.Fatalf("expected record duration %v, got %v", expected, result.Records[0].Duration)
	}
}

func TestAggregate_EventBeforeLeadIsExcluded(t *testing.T) {
	leads := []Lead{{Email: "b@x.com", CreatedAt: ts("2024-01-05T00:00:00Z")}}
	attendances := []Attendance{{AttendeeEmail: "b@x.com", EventCreatedAt: ts("2024-01-01T00:00:00Z")}}

	result := Aggregate(leads, attendances)

	if result.SampleCount != 0 {
		t.Fatalf("expected sample count 0 for negative duration, got %d", result.SampleCount)
	}
}

func TestAggregate_KeepsEarliestEvent(t *testing.T) {
	lead := Lead{Email: "a@x.com", CreatedAt: ts("2024-01-01T00:00:00Z")}
	attendances := []Attendance{
		{AttendeeEmail: "a@x.com", EventCreatedAt: ts("2024-01-04T00:00:00Z")},
		{AttendeeEmail: "a@x.com", EventCreatedAt: ts("2024-01-02T00:00:00Z")},
	}

	result := Aggregate([]Lead{lead}, attendances)

	if result.SampleCount != 1 {
		t.Fatalf("expected sample count 1, got %d", result.SampleCount)
	}
	if !result.Records[0].EventCreatedAt.Equal(ts("2024-01-02T00:00:00Z")) {
		t.Fatalf("expected earliest event to be chosen, got %v", result.Records[0].EventCreatedAt)
	}
	if result.Records[0].Duration != 24*time.Hour {
		t.Fatalf("expected duration 24h, got %v", result.Records[0].Duration)
	}
}

func TestAggregate_EarliestEventNegativeExcludesLead(t *testing.T) {
	// The candidate is the earliest event overall; if that one predates the
	// lead, the lead is excluded even when a later valid event exists.
	lead := Lead{Email: "a@x.com", CreatedAt: ts("2024-01-03T00:00:00Z")}
	attendances := []Attendance{
		{AttendeeEmail: "a@x.com", EventCreatedAt: ts("2024-01-01T00:00:00Z")},
		{AttendeeEmail: "a@x.com", EventCreatedAt: ts("2024-01-05T00:00:00Z")},
	}

	result := Aggregate([]Lead{lead}, attendances)

	if result.SampleCount != 0 {
		t.Fatalf("expected sample count 0, got %d", result.SampleCount)
	}
}

func TestAggregate_MeanIsSumOverCount(t *testing.T) {
	leads := []Lead{
		{Email: "a@x.com", CreatedAt: ts("2024-01-01T00:00:00Z")},
		{Email: "b@x.com", CreatedAt: ts("2024-01-01T00:00:00Z")},
		{Email: "c@x.com", CreatedAt: ts("2024-01-01T00:00:00Z")},
	}
	attendances := []Attendance{
		{AttendeeEmail: "a@x.com", EventCreatedAt: ts("2024-01-02T00:00:00Z")},
		{AttendeeEmail: "b@x.com", EventCreatedAt: ts("2024-01-03T00:00:00Z")},
		{AttendeeEmail: "c@x.com", EventCreatedAt: ts("2024-01-07T00:00:00Z")},
	}

	result := Aggregate(leads, attendances)

	if result.SampleCount != 3 {
		t.Fatalf("expected sample count 3, got %d", result.SampleCount)
	}
	expected := (24 + 48 + 144) / 3 * time.Hour
	if result.MeanDuration != expected {
		t.Fatalf("expected mean %v, got %v", expected, result.MeanDuration)
	}
}

func TestAggregate_EmptyInputsShortCircuit(t *testing.T) {
	attendances := []Attendance{{AttendeeEmail: "a@x.com", EventCreatedAt: ts("2024-01-02T00:00:00Z")}}

	if got := Aggregate(nil, attendances); got.SampleCount != 0 {
		t.Fatalf("expected sample count 0 for empty leads, got %d", got.SampleCount)
	}

	leads := []Lead{{Email: "a@x.com", CreatedAt: ts("2024-01-01T00:00:00Z")}}
	if got := Aggregate(leads, nil); got.SampleCount != 0 {
		t.Fatalf("expected sample count 0 for empty attendances, got %d", got.SampleCount)
	}
}

func TestAggregate_Idempotent(t *testing.T) {
	leads := []Lead{
		{Email: "b@x.com", CreatedAt: ts("2024-01-02T00:00:00Z")},
		{Email: "a@x.com", CreatedAt: ts("2024-01-01T00:00:00Z")},
	}
	attendances := []Attendance{
		{AttendeeEmail: "a@x.com", EventCreatedAt: ts("2024-01-05T00:00:00Z")},
		{AttendeeEmail: "b@x.com", EventCreatedAt: ts("2024-01-04T00:00:00Z")},
	}

	first := Aggregate(leads, attendances)
	second := Aggregate(leads, attendances)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical results, got %+v and %+v", first, second)
	}
	if first.Records[0].Email != "a@x.com" || first.Records[1].Email != "b@x.com" {
		t.Fatalf("expected records ordered by email, got %+v", first.Records)
	}
}

func TestAggregate_ExactEmailMatch(t *testing.T) {
	// No case folding or trimming: the join mirrors the sources exactly.
	leads := []Lead{{Email: "A@x.com", CreatedAt: ts("2024-01-01T00:00:00Z")}}
	attendances := []Attendance{{AttendeeEmail: "a@x.com", EventCreatedAt: ts("2024-01-02T00:00:00Z")}}

	if got := Aggregate(leads, attendances); got.SampleCount != 0 {
		t.Fatalf("expected case-sensitive join to miss, got %d matches", got.SampleCount)
	}
}

func TestAggregate_DuplicateLeadEmailKeepsFirst(t *testing.T) {
	leads := []Lead{
		{Email: "a@x.com", CreatedAt: ts("2024-01-01T00:00:00Z")},
		{Email: "a@x.com", CreatedAt: ts("2024-01-02T00:00:00Z")},
	}
	attendances := []Attendance{{AttendeeEmail: "a@x.com", EventCreatedAt: ts("2024-01-03T00:00:00Z")}}

	result := Aggregate(leads, attendances)

	if result.SampleCount != 1 {
		t.Fatalf("expected sample count 1, got %d", result.SampleCount)
	}
	if !result.Records[0].LeadCreatedAt.Equal(ts("2024-01-01T00:00:00Z")) {
		t.Fatalf("expected first lead occurrence to win, got %v", result.Records[0].LeadCreatedAt)
	}
}

func TestClassify(t *testing.T) {
	lead := Lead{Email: "a@x.com", CreatedAt: ts("2024-01-02T00:00:00Z")}
	matching := Attendance{AttendeeEmail: "a@x.com", EventCreatedAt: ts("2024-01-01T00:00:00Z")}
	unrelated := Attendance{AttendeeEmail: "b@x.com", EventCreatedAt: ts("2024-01-03T00:00:00Z")}

	cases := []struct {
		name        string
		leads       []Lead
		attendances []Attendance
		expected    Outcome
	}{
		{"no leads", nil, []Attendance{matching}, OutcomeNoLeads},
		{"no events", []Lead{lead}, nil, OutcomeNoEvents},
		{"no matches", []Lead{lead}, []Attendance{unrelated}, OutcomeNoMatches},
		{"all negative", []Lead{lead}, []Attendance{matching}, OutcomeNoValidConversions},
	}

	for _, tc := range cases {
		result := Aggregate(tc.leads, tc.attendances)
		if got := Classify(tc.leads, tc.attendances, result); got != tc.expected {
			t.Fatalf("%s: expected outcome %q, got %q", tc.name, tc.expected, got)
		}
	}

	valid := Attendance{AttendeeEmail: "a@x.com", EventCreatedAt: ts("2024-01-05T00:00:00Z")}
	result := Aggregate([]Lead{lead}, []Attendance{valid})
	if got := Classify([]Lead{lead}, []Attendance{valid}, result); got != OutcomeOK {
		t.Fatalf("expected outcome ok, got %q", got)
	}
}
