package documents

import "time"

// Level is a summary complexity tier.
type Level string

const (
	LevelBeginner Level = "beginner"
	LevelModerate Level = "moderate"
	LevelExpert   Level = "expert"
)

// Levels lists all complexity tiers in warm-up order.
var Levels = []Level{LevelBeginner, LevelModerate, LevelExpert}

// ValidLevel reports whether s names a known complexity tier.
func ValidLevel(s string) bool {
	switch Level(s) {
	case LevelBeginner, LevelModerate, LevelExpert:
		return true
	}
	return false
}

// Document represents an uploaded legal document owned by a user.
// Content is immutable once ingested; summaries and extractions are
// filled in by summarization.
type Document struct {
	ID                   string
	UserID               string
	FileName             string
	MimeType             string
	SizeBytes            int64
	StorageKey           string
	Content              string
	Summaries            map[Level]string
	StructuredData       *StructuredExtraction
	ComprehensiveSummary *ComprehensiveExtraction
	IsProcessed          bool
	CreatedAt            time.Time
}

// Summary returns the cached summary for a level, if present.
func (d Document) Summary(level Level) (string, bool) {
	if d.Summaries == nil {
		return "", false
	}
	text, ok := d.Summaries[level]
	return text, ok
}
