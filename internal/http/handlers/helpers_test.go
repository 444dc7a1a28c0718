package handlers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Eventhood/Eventhood-backend/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type sendCall struct {
	Template  string
	To        string
	Variables map[string]string
}

// fakeMailer records sends on a channel so tests can wait for the
// fire-and-forget notification goroutine.
type fakeMailer struct {
	calls chan sendCall
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{calls: make(chan sendCall, 4)}
}

func (m *fakeMailer) Send(_ context.Context, template, to string, variables map[string]string) error {
	m.calls <- sendCall{Template: template, To: to, Variables: variables}
	return nil
}

func (m *fakeMailer) waitForSend(t *testing.T) sendCall {
	t.Helper()
	select {
	case call := <-m.calls:
		return call
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for notification")
		return sendCall{}
	}
}

func (m *fakeMailer) assertNoSend(t *testing.T) {
	t.Helper()
	select {
	case call := <-m.calls:
		t.Fatalf("unexpected notification %+v", call)
	case <-time.After(50 * time.Millisecond):
	}
}

type fakeVerifier struct {
	subject string
	err     error
}

func (v *fakeVerifier) Verify(string) (string, error) {
	return v.subject, v.err
}

type fakeGeocoder struct {
	loc    models.EventLocation
	err    error
	called bool
}

func (g *fakeGeocoder) Resolve(context.Context, string) (models.EventLocation, error) {
	g.called = true
	return g.loc, g.err
}

// doJSON runs one request through a fresh router and returns the recorder.
func doJSON(r *gin.Engine, method, target, body string, header map[string]string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding response %q: %v", w.Body.String(), err)
	}
	return body
}

func requireStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("expected status %d, got %d (body %s)", want, w.Code, w.Body.String())
	}
}
