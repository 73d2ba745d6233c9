package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/brainfuel/backend/internal/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestCheckHealth_DatabaseDown(t *testing.T) {
	gw := models.NewGatewayWithOpener(func() (*gorm.DB, error) {
		return nil, errors.New("no database")
	})
	router := gin.New()
	router.GET("/api/health", NewHealthHandler(gw).CheckHealth)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/health", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status %d, got %d", http.StatusServiceUnavailable, w.Code)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body["status"] != "ERROR" {
		t.Errorf("expected status ERROR, got %v", body["status"])
	}
	if strings.Contains(w.Body.String(), "no database") {
		t.Error("driver errors must not leak into the health body")
	}
}

func TestParseID(t *testing.T) {
	tests := []struct {
		param  string
		ok     bool
		status int
	}{
		{"42", true, http.StatusOK},
		{"0", false, http.StatusBadRequest},
		{"-1", false, http.StatusBadRequest},
		{"abc", false, http.StatusBadRequest},
		{"99999999999", false, http.StatusBadRequest},
	}

	for _, tt := range tests {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Params = gin.Params{{Key: "id", Value: tt.param}}

		id, ok := parseID(c, "id", "project")
		if ok != tt.ok {
			t.Errorf("param %q: expected ok=%v, got %v", tt.param, tt.ok, ok)
		}
		if ok && id != 42 {
			t.Errorf("param %q: expected 42, got %d", tt.param, id)
		}
		if !ok && w.Code != tt.status {
			t.Errorf("param %q: expected status %d, got %d", tt.param, tt.status, w.Code)
		}
	}
}

func TestBindJSON(t *testing.T) {
	type payload struct {
		Name *string `json:"name"`
	}

	tests := []struct {
		name   string
		body   string
		ok     bool
		status int
	}{
		{"empty body", "", true, 0},
		{"empty object", "{}", true, 0},
		{"value", `{"name":"x"}`, true, 0},
		{"malformed", `{"name":`, false, http.StatusBadRequest},
		{"wrong type", `{"name":1}`, false, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest("PUT", "/", strings.NewReader(tt.body))

			var p payload
			ok := bindJSON(c, &p)
			if ok != tt.ok {
				t.Fatalf("expected ok=%v, got %v", tt.ok, ok)
			}
			if !ok && w.Code != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, w.Code)
			}
		})
	}
}

func TestMetrics_InstrumentsRoutes(t *testing.T) {
	gw := models.NewGatewayWithOpener(func() (*gorm.DB, error) {
		return nil, errors.New("no database")
	})
	h := NewMetricsHandler(gw)

	router := gin.New()
	router.Use(h.Instrument())
	router.GET("/metrics", h.Metrics)
	router.GET("/api/projects/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/api/projects/1", "/api/projects/2", "/missing"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", path, nil))
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	out := w.Body.String()
	for _, want := range []string{
		`brainfuel_http_requests_total{method="GET",route="/api/projects/:id",status="200"} 2`,
		`brainfuel_http_requests_total{method="GET",route="unmatched",status="404"} 1`,
		"brainfuel_uptime_seconds",
		"go_goroutines",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
	if strings.Contains(out, "brainfuel_projects_total") {
		t.Error("count gauges should be skipped while the database is down")
	}
}
