package inference

import (
	"context"
	"encoding/json"
	"fmt"
)

// StubClient answers with canned responses when no AI service is configured.
type StubClient struct{}

// Summarize returns a minimal object-shaped response.
func (StubClient) Summarize(ctx context.Context, input SummarizeInput) (json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	payload, err := json.Marshal(map[string]string{
		"summary": fmt.Sprintf("Stub %s summary for document %s.", input.Level, input.DocumentID),
	})
	if err != nil {
		return nil, err
	}
	return payload, nil
}

// Ask returns a canned answer.
func (StubClient) Ask(ctx context.Context, question string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return "Stub answer: the AI service is not configured.", nil
}

var _ Client = StubClient{}
