package health

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

type fakeAI struct {
	available bool
	state     string
}

func (f fakeAI) IsAvailable() bool { return f.available }
func (f fakeAI) State() string     { return f.state }

type plainAI struct{}

func (plainAI) IsAvailable() bool { return true }

func TestStatusDefaults(t *testing.T) {
	st := NewService(nil, "").Status()
	if !st.OK || st.AIAvailable || st.CatalogSource != CatalogSourceMemory || st.AIBreaker != "" {
		t.Fatalf("unexpected status %+v", st)
	}
}

func TestStatusReportsAIAndBreaker(t *testing.T) {
	st := NewService(fakeAI{available: true, state: "open"}, CatalogSourcePostgres).Status()
	if !st.AIAvailable || st.AIBreaker != "open" || st.CatalogSource != CatalogSourcePostgres {
		t.Fatalf("unexpected status %+v", st)
	}

	st = NewService(plainAI{}, "").Status()
	if !st.AIAvailable || st.AIBreaker != "" {
		t.Fatalf("unexpected status %+v", st)
	}
}

func TestHealthRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewService(fakeAI{available: false, state: "closed"}, CatalogSourceMemory).RegisterRoutes(r.Group("/api"))

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["ok"] != true || body["aiAvailable"] != false || body["catalogSource"] != "memory" || body["aiBreaker"] != "closed" {
		t.Fatalf("unexpected body %v", body)
	}
}
