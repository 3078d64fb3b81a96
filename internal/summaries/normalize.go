package summaries

import (
	"bytes"
	"encoding/json"
	"strings"

	"legaldoc-backend/internal/documents"
)

// SummaryUnavailable is the sentinel summary used when the AI service
// answered with an object whose summary field is missing or not textual.
const SummaryUnavailable = "Summary not available"

type responseEnvelope struct {
	Summary              json.RawMessage                    `json:"summary"`
	StructuredData       *documents.StructuredExtraction    `json:"structuredData"`
	ComprehensiveSummary *documents.ComprehensiveExtraction `json:"comprehensiveSummary"`
}

// Normalize converts a raw AI service response into a Result. The service
// answers in one of three shapes: a plain string, a JSON-encoded string
// wrapping one of the other shapes, or an object with a summary field plus
// optional extractions. Normalize never fails; unparseable input degrades to
// the raw text as the summary with no extraction.
func Normalize(raw json.RawMessage) Result {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return Result{Summary: SummaryUnavailable}
	}

	switch trimmed[0] {
	case '{':
		if res, ok := normalizeObject(trimmed); ok {
			return res
		}
		return Result{Summary: string(trimmed)}
	case '[':
		// A top-level array carries no summary field; a valid one degrades
		// to the sentinel, a broken one stays verbatim.
		if json.Valid(trimmed) {
			return Result{Summary: SummaryUnavailable}
		}
		return Result{Summary: string(trimmed)}
	case '"':
		var inner string
		if err := json.Unmarshal(trimmed, &inner); err == nil {
			return normalizeText(inner)
		}
		return Result{Summary: string(trimmed)}
	default:
		return normalizeText(string(trimmed))
	}
}

// normalizeText handles textual payloads: text that structurally looks like
// JSON gets one parse attempt, anything else is the summary verbatim.
func normalizeText(text string) Result {
	clean := strings.TrimSpace(text)
	if strings.HasPrefix(clean, "{") {
		if res, ok := normalizeObject([]byte(clean)); ok {
			return res
		}
	}
	if strings.HasPrefix(clean, "[") && json.Valid([]byte(clean)) {
		return Result{Summary: SummaryUnavailable}
	}
	return Result{Summary: text}
}

func normalizeObject(data []byte) (Result, bool) {
	var env responseEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Result{}, false
	}
	return Result{
		Summary:              summaryText(env.Summary),
		StructuredData:       env.StructuredData,
		ComprehensiveSummary: env.ComprehensiveSummary,
	}, true
}

// summaryText coerces the envelope's summary field to a string. Missing,
// null, or empty values become the sentinel; any other non-textual value is
// kept in its serialized form rather than dropped.
func summaryText(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return SummaryUnavailable
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		if s == "" {
			return SummaryUnavailable
		}
		return s
	}
	return string(trimmed)
}
