package documents

import "time"

// documentResponse is the API shape for a document.
type documentResponse struct {
	DocumentID           string                   `json:"documentId"`
	FileName             string                   `json:"fileName"`
	MimeType             string                   `json:"mimeType"`
	SizeBytes            int64                    `json:"sizeBytes"`
	Summaries            map[Level]string         `json:"summaries"`
	StructuredData       *StructuredExtraction    `json:"structuredData,omitempty"`
	ComprehensiveSummary *ComprehensiveExtraction `json:"comprehensiveSummary,omitempty"`
	IsProcessed          bool                     `json:"isProcessed"`
	CreatedAt            string                   `json:"createdAt"`
}

// listItemResponse is the trimmed API shape for document listings; content
// and extractions are omitted on purpose.
type listItemResponse struct {
	DocumentID  string  `json:"documentId"`
	FileName    string  `json:"fileName"`
	Levels      []Level `json:"summaryLevels"`
	IsProcessed bool    `json:"isProcessed"`
	CreatedAt   string  `json:"createdAt"`
}

func toResponse(doc Document) documentResponse {
	summaries := doc.Summaries
	if summaries == nil {
		summaries = map[Level]string{}
	}
	return documentResponse{
		DocumentID:           doc.ID,
		FileName:             doc.FileName,
		MimeType:             doc.MimeType,
		SizeBytes:            doc.SizeBytes,
		Summaries:            summaries,
		StructuredData:       doc.StructuredData,
		ComprehensiveSummary: doc.ComprehensiveSummary,
		IsProcessed:          doc.IsProcessed,
		CreatedAt:            doc.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func toListItem(doc Document) listItemResponse {
	levels := make([]Level, 0, len(doc.Summaries))
	for _, level := range Levels {
		if _, ok := doc.Summaries[level]; ok {
			levels = append(levels, level)
		}
	}
	return listItemResponse{
		DocumentID:  doc.ID,
		FileName:    doc.FileName,
		Levels:      levels,
		IsProcessed: doc.IsProcessed,
		CreatedAt:   doc.CreatedAt.UTC().Format(time.RFC3339),
	}
}
