package intermediary

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/go-chi/chi/v5"

	"github.com/PetarSt98/SmartAllies/internal/model/incident"
	intermediaryService "github.com/PetarSt98/SmartAllies/internal/service/intermediary"
	"github.com/PetarSt98/SmartAllies/internal/service/reasoning"
	"github.com/PetarSt98/SmartAllies/internal/service/report"
)

type scriptedReasoner struct {
	reply   string
	verdict string
	err     error
}

func (f *scriptedReasoner) Generate(_ context.Context, system string, _ []*schema.Message, _ string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if strings.Contains(system, "You are analyzing") {
		return f.verdict, nil
	}
	return f.reply, nil
}

func newTestRouter(reasoner intermediaryService.Reasoner, seedSession bool) http.Handler {
	contexts := incident.NewMemoryContextStore()
	if seedSession {
		contexts.UpdateContext(&incident.Context{
			SessionID:      "s1",
			InitialMessage: "a colleague keeps taking credit for my work",
			IncidentType:   incident.TypeHuman,
			WorkflowState:  incident.StateCollectingDetails,
		})
	}
	reports := report.NewService(contexts)
	svc := intermediaryService.NewService(intermediaryService.HRProfile(), contexts, reports, reasoner)

	r := chi.NewRouter()
	New(svc).RegisterRoutes(r)
	return r
}

func postJSON(t *testing.T, router http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestConnectUnknownSession(t *testing.T) {
	router := newTestRouter(&scriptedReasoner{}, false)

	rec := postJSON(t, router, "/connect", `{"sessionId":"nope"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestConnectMissingSessionID(t *testing.T) {
	router := newTestRouter(&scriptedReasoner{}, true)

	rec := postJSON(t, router, "/connect", `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestConnectSuccess(t *testing.T) {
	router := newTestRouter(&scriptedReasoner{}, true)

	rec := postJSON(t, router, "/connect", `{"sessionId":"s1"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var result intermediaryService.ConnectResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !result.Connected || result.IntermediaryName == "" || result.Message == "" {
		t.Fatalf("unexpected connect payload: %+v", result)
	}
}

func TestMessageRequiresFields(t *testing.T) {
	router := newTestRouter(&scriptedReasoner{}, true)

	rec := postJSON(t, router, "/message", `{"sessionId":"s1"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestMessageWithoutActiveSession(t *testing.T) {
	router := newTestRouter(&scriptedReasoner{}, true)

	rec := postJSON(t, router, "/message", `{"sessionId":"s1","message":"hello"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 before connect, got %d", rec.Code)
	}
}

func TestMessageFlow(t *testing.T) {
	fake := &scriptedReasoner{
		reply:   "I'm sorry to hear that. Can you tell me when this started?",
		verdict: `{"concluded": false, "reasoning": "user still explaining"}`,
	}
	router := newTestRouter(fake, true)

	if rec := postJSON(t, router, "/connect", `{"sessionId":"s1"}`); rec.Code != http.StatusOK {
		t.Fatalf("connect failed: %d", rec.Code)
	}

	rec := postJSON(t, router, "/message", `{"sessionId":"s1","message":"it started last month"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var result intermediaryService.ChatResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.SessionEnded {
		t.Fatal("session must stay open on a continue verdict")
	}
	if result.Message != fake.reply {
		t.Fatalf("unexpected reply: %q", result.Message)
	}
}

func TestMessageReasoningOutage(t *testing.T) {
	router := newTestRouter(&scriptedReasoner{err: reasoning.ErrUnavailable}, true)

	if rec := postJSON(t, router, "/connect", `{"sessionId":"s1"}`); rec.Code != http.StatusOK {
		t.Fatalf("connect failed: %d", rec.Code)
	}

	rec := postJSON(t, router, "/message", `{"sessionId":"s1","message":"hello"}`)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestGetSession(t *testing.T) {
	router := newTestRouter(&scriptedReasoner{}, true)

	req := httptest.NewRequest(http.MethodGet, "/session/s1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 before connect, got %d", rec.Code)
	}

	if rec := postJSON(t, router, "/connect", `{"sessionId":"s1"}`); rec.Code != http.StatusOK {
		t.Fatalf("connect failed: %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var session struct {
		SessionID string `json:"sessionId"`
		Active    bool   `json:"active"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &session); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if session.SessionID != "s1" || !session.Active {
		t.Fatalf("unexpected session payload: %+v", session)
	}
}
