package recommendations

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"brew-backend/internal/catalog"
)

func setupRouter(svc *Service, repo catalog.Repo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(svc, repo).RegisterRoutes(r.Group("/api"))
	return r
}

func doRequest(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandlerRecommendFallback(t *testing.T) {
	repo := catalog.NewDefaultRepo()
	r := setupRouter(NewService(repo, nil, 0), repo)

	w := doRequest(r, http.MethodPost, "/api/recommendations", `{"beanId":"1","machineId":"3"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["success"] != true || body["fallbackUsed"] != true {
		t.Fatalf("unexpected envelope %v", body)
	}
	if _, ok := body["error"]; ok {
		t.Fatalf("success envelope must not carry error: %v", body)
	}
	data, _ := body["data"].(map[string]any)
	if data["grindSize"] != "fine" {
		t.Fatalf("unexpected data %v", data)
	}
	temp, _ := data["temperature"].(map[string]any)
	if temp["fahrenheit"] != float64(200) || temp["celsius"] != float64(93) {
		t.Fatalf("unexpected temperature %v", temp)
	}
}

func TestHandlerRecommendAIFlag(t *testing.T) {
	repo := catalog.NewDefaultRepo()
	gen := &stubGenerator{available: true, rec: Resolve("medium", "pour-over")}
	r := setupRouter(NewService(repo, gen, 0), repo)

	w := doRequest(r, http.MethodPost, "/api/recommendations", `{"beanId":"2","machineId":"1"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"fallbackUsed":false`) {
		t.Fatalf("expected fallbackUsed false in %s", w.Body.String())
	}
}

func TestHandlerRecommendErrors(t *testing.T) {
	tests := []struct {
		name    string
		repo    catalog.Repo
		body    string
		status  int
		message string
	}{
		{name: "unknown bean", repo: catalog.NewDefaultRepo(), body: `{"beanId":"99","machineId":"3"}`, status: http.StatusBadRequest, message: "Invalid bean or machine selection"},
		{name: "missing ids", repo: catalog.NewDefaultRepo(), body: `{}`, status: http.StatusBadRequest, message: "Invalid bean or machine selection"},
		{name: "numeric ids", repo: catalog.NewDefaultRepo(), body: `{"beanId":1,"machineId":3}`, status: http.StatusBadRequest, message: "Invalid bean or machine selection"},
		{name: "one numeric id", repo: catalog.NewDefaultRepo(), body: `{"beanId":"1","machineId":3}`, status: http.StatusBadRequest, message: "Invalid bean or machine selection"},
		{name: "array body", repo: catalog.NewDefaultRepo(), body: `[]`, status: http.StatusBadRequest, message: "Invalid bean or machine selection"},
		{name: "empty body", repo: catalog.NewDefaultRepo(), body: ``, status: http.StatusInternalServerError, message: "Internal server error"},
		{name: "null body", repo: catalog.NewDefaultRepo(), body: `null`, status: http.StatusInternalServerError, message: "Internal server error"},
		{name: "trailing data", repo: catalog.NewDefaultRepo(), body: `{"beanId":"1","machineId":"3"} x`, status: http.StatusInternalServerError, message: "Internal server error"},
		{name: "second object", repo: catalog.NewDefaultRepo(), body: `{"beanId":"1","machineId":"3"}{}`, status: http.StatusInternalServerError, message: "Internal server error"},
		{name: "malformed body", repo: catalog.NewDefaultRepo(), body: `{"beanId":`, status: http.StatusInternalServerError, message: "Internal server error"},
		{name: "oversized body", repo: catalog.NewDefaultRepo(), body: `{"beanId":"1","machineId":"3","pad":"` + strings.Repeat("a", maxRequestBytes) + `"}`, status: http.StatusInternalServerError, message: "Internal server error"},
		{name: "catalog failure", repo: failingRepo{err: errors.New("pq: connection reset")}, body: `{"beanId":"1","machineId":"3"}`, status: http.StatusInternalServerError, message: "Internal server error"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			r := setupRouter(NewService(tt.repo, nil, 0), tt.repo)
			w := doRequest(r, http.MethodPost, "/api/recommendations", tt.body)
			if w.Code != tt.status {
				t.Fatalf("expected %d, got %d: %s", tt.status, w.Code, w.Body.String())
			}
			var body map[string]any
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body["success"] != false || body["error"] != tt.message {
				t.Fatalf("unexpected envelope %v", body)
			}
			if _, ok := body["data"]; ok {
				t.Fatalf("failure envelope must not carry data")
			}
			if strings.Contains(w.Body.String(), "pq:") {
				t.Fatalf("raw error leaked: %s", w.Body.String())
			}
		})
	}
}

func TestHandlerListCatalog(t *testing.T) {
	repo := catalog.NewDefaultRepo()
	r := setupRouter(NewService(repo, nil, 0), repo)

	tests := []struct {
		path  string
		count int
	}{
		{path: "/api/beans", count: 4},
		{path: "/api/machines", count: 9},
	}
	for _, tt := range tests {
		w := doRequest(r, http.MethodGet, tt.path, "")
		if w.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", tt.path, w.Code)
		}
		var body struct {
			Success bool              `json:"success"`
			Data    []json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if !body.Success || len(body.Data) != tt.count {
			t.Fatalf("%s: expected %d entries, got %d", tt.path, tt.count, len(body.Data))
		}
	}
}

func TestHandlerListCatalogFailure(t *testing.T) {
	repo := failingRepo{err: errors.New("db down")}
	r := setupRouter(NewService(repo, nil, 0), repo)

	w := doRequest(r, http.MethodGet, "/api/beans", "")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}

func TestRecommendationRequestUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    RecommendationRequest
		wantErr bool
	}{
		{name: "string ids", body: `{"beanId":"1","machineId":"3"}`, want: RecommendationRequest{BeanID: "1", MachineID: "3"}},
		{name: "numeric ids", body: `{"beanId":1,"machineId":3}`},
		{name: "null ids", body: `{"beanId":null,"machineId":"3"}`, want: RecommendationRequest{MachineID: "3"}},
		{name: "object id", body: `{"beanId":{"id":"1"},"machineId":"3"}`, want: RecommendationRequest{MachineID: "3"}},
		{name: "string body", body: `"1"`},
		{name: "null body", body: `null`, wantErr: true},
		{name: "truncated", body: `{"beanId":"1"`, wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			var got RecommendationRequest
			err := json.Unmarshal([]byte(tt.body), &got)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}
