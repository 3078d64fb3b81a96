package summaries

import (
	"encoding/json"
	"testing"
)

func TestNormalizePlainString(t *testing.T) {
	res := Normalize(json.RawMessage(`"This lease obligates the tenant to pay monthly rent."`))
	if res.Summary != "This lease obligates the tenant to pay monthly rent." {
		t.Fatalf("unexpected summary: %q", res.Summary)
	}
	if res.StructuredData != nil || res.ComprehensiveSummary != nil {
		t.Fatalf("expected no extractions for plain string")
	}
}

func TestNormalizeObject(t *testing.T) {
	raw := json.RawMessage(`{
		"summary": "Short version.",
		"structuredData": {
			"importantDates": {"startDate": "Jan 1, 2026", "leaseTerm": "12 months"},
			"parties": {"landlord": "Landlord LLC", "tenant": "Tenant Inc"},
			"overallRiskAssessment": {"level": "medium", "reason": "standard terms"}
		},
		"comprehensiveSummary": {
			"documentSummary": {"title": "Lease", "overview": "Long version."}
		}
	}`)
	res := Normalize(raw)
	if res.Summary != "Short version." {
		t.Fatalf("unexpected summary: %q", res.Summary)
	}
	if res.StructuredData == nil {
		t.Fatalf("expected structured data")
	}
	if res.StructuredData.ImportantDates == nil || res.StructuredData.ImportantDates.StartDate != "Jan 1, 2026" {
		t.Fatalf("unexpected dates: %+v", res.StructuredData.ImportantDates)
	}
	if risk := res.StructuredData.OverallRiskAssessment; risk == nil || risk.Level != "medium" {
		t.Fatalf("unexpected risk assessment: %+v", risk)
	}
	if p := res.StructuredData.Parties; p == nil || p.Landlord != "Landlord LLC" || p.Tenant != "Tenant Inc" {
		t.Fatalf("unexpected parties: %+v", p)
	}
	if res.ComprehensiveSummary == nil || res.ComprehensiveSummary.DocumentSummary == nil ||
		res.ComprehensiveSummary.DocumentSummary.Overview != "Long version." {
		t.Fatalf("unexpected comprehensive summary: %+v", res.ComprehensiveSummary)
	}
}

func TestNormalizeJSONStringWrappingObject(t *testing.T) {
	inner := `{"summary":"Wrapped.","structuredData":{"parties":{"landlord":"A","tenant":"B"}}}`
	wrapped, err := json.Marshal(inner)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	res := Normalize(wrapped)
	if res.Summary != "Wrapped." {
		t.Fatalf("unexpected summary: %q", res.Summary)
	}
	if res.StructuredData == nil || res.StructuredData.Parties == nil ||
		res.StructuredData.Parties.Tenant != "B" {
		t.Fatalf("expected parties from wrapped object: %+v", res.StructuredData)
	}
}

func TestNormalizeTopLevelArray(t *testing.T) {
	res := Normalize(json.RawMessage(`["a", "b"]`))
	if res.Summary != SummaryUnavailable {
		t.Fatalf("expected sentinel for array, got %q", res.Summary)
	}
	if res.StructuredData != nil || res.ComprehensiveSummary != nil {
		t.Fatalf("expected no extractions for array")
	}

	wrapped, err := json.Marshal(`["a", "b"]`)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if res := Normalize(wrapped); res.Summary != SummaryUnavailable {
		t.Fatalf("expected sentinel for wrapped array, got %q", res.Summary)
	}

	if res := Normalize(json.RawMessage(`[broken`)); res.Summary != "[broken" {
		t.Fatalf("expected verbatim for malformed array, got %q", res.Summary)
	}
}

func TestNormalizeObjectMissingSummary(t *testing.T) {
	for _, raw := range []string{
		`{}`,
		`{"summary": null}`,
		`{"summary": ""}`,
	} {
		res := Normalize(json.RawMessage(raw))
		if res.Summary != SummaryUnavailable {
			t.Fatalf("raw %s: expected sentinel, got %q", raw, res.Summary)
		}
	}
}

func TestNormalizeObjectNonTextualSummary(t *testing.T) {
	res := Normalize(json.RawMessage(`{"summary": {"text": "nested"}}`))
	if res.Summary != `{"text": "nested"}` {
		t.Fatalf("expected serialized summary, got %q", res.Summary)
	}
}

func TestNormalizeNonJSONText(t *testing.T) {
	res := Normalize(json.RawMessage(`not json at all`))
	if res.Summary != "not json at all" {
		t.Fatalf("unexpected summary: %q", res.Summary)
	}
}

func TestNormalizeEmpty(t *testing.T) {
	res := Normalize(nil)
	if res.Summary != SummaryUnavailable {
		t.Fatalf("expected sentinel, got %q", res.Summary)
	}
}

func TestNormalizeMalformedObjectFallsBackToText(t *testing.T) {
	res := Normalize(json.RawMessage(`{broken`))
	if res.Summary != "{broken" {
		t.Fatalf("unexpected summary: %q", res.Summary)
	}
}
