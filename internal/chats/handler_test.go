package chats

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"legaldoc-backend/internal/documents"
	"legaldoc-backend/internal/shared/server/middleware"
)

func newChatRouter(svc *Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Auth("dev"))
	api := r.Group("/api/v1")
	NewHandler(svc).RegisterRoutes(api)
	return r
}

func guestRequest(method, path, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Guest-Id", "guest1")
	return req
}

func TestQuestionEndpointRoundTrip(t *testing.T) {
	docs := documents.NewMemoryRepo()
	doc := documents.Document{ID: "doc-1", UserID: "guest:guest1", Content: "Terms.", Summaries: map[documents.Level]string{}}
	if err := docs.Create(context.Background(), doc); err != nil {
		t.Fatalf("create: %v", err)
	}
	svc := &Service{Docs: docs, Ledger: NewMemoryRepo(), AI: &fakeAI{answer: "An answer."}}
	router := newChatRouter(svc)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, guestRequest(http.MethodPost, "/api/v1/questions", `{"documentId":"doc-1","question":"What are the terms?"}`))
	if resp.Code != http.StatusOK {
		t.Fatalf("status %d: %s", resp.Code, resp.Body.String())
	}
	var payload struct {
		Answer string `json:"answer"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Answer != "An answer." {
		t.Fatalf("unexpected answer: %q", payload.Answer)
	}

	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, guestRequest(http.MethodGet, "/api/v1/documents/doc-1/chat", ""))
	if resp.Code != http.StatusOK {
		t.Fatalf("history status %d: %s", resp.Code, resp.Body.String())
	}
	var history struct {
		Messages []struct {
			Role      string `json:"role"`
			Content   string `json:"content"`
			Timestamp string `json:"timestamp"`
		} `json:"messages"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &history); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	if len(history.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(history.Messages))
	}
	if history.Messages[0].Role != RoleUser || history.Messages[1].Role != RoleAssistant {
		t.Fatalf("unexpected roles: %+v", history.Messages)
	}
	if history.Messages[0].Timestamp == "" {
		t.Fatalf("expected RFC3339 timestamp")
	}
}

func TestQuestionEndpointValidation(t *testing.T) {
	svc := &Service{Docs: documents.NewMemoryRepo(), Ledger: NewMemoryRepo(), AI: &fakeAI{}}
	router := newChatRouter(svc)

	cases := []struct {
		name string
		body string
		code int
	}{
		{"missing document id", `{"question":"q"}`, http.StatusBadRequest},
		{"empty question", `{"documentId":"doc-1","question":""}`, http.StatusBadRequest},
		{"unknown document", `{"documentId":"ghost","question":"q"}`, http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, guestRequest(http.MethodPost, "/api/v1/questions", tc.body))
			if resp.Code != tc.code {
				t.Fatalf("status %d, want %d: %s", resp.Code, tc.code, resp.Body.String())
			}
		})
	}
}

func TestChatHistoryEmptyThread(t *testing.T) {
	docs := documents.NewMemoryRepo()
	svc := &Service{Docs: docs, Ledger: NewMemoryRepo(), AI: &fakeAI{}}
	router := newChatRouter(svc)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, guestRequest(http.MethodGet, "/api/v1/documents/doc-none/chat", ""))
	if resp.Code != http.StatusOK {
		t.Fatalf("status %d: %s", resp.Code, resp.Body.String())
	}
	var history struct {
		Messages []json.RawMessage `json:"messages"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &history); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if history.Messages == nil || len(history.Messages) != 0 {
		t.Fatalf("expected empty messages array, got %s", resp.Body.String())
	}
}
