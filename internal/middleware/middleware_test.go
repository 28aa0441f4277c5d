package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/mossy-p/livestream-gateway/internal/logging"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func okHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func TestOriginFilter(t *testing.T) {
	t.Parallel()

	newRouter := func() *gin.Engine {
		r := gin.New()
		r.Use(OriginFilter([]string{"http://localhost:5000"}))
		r.GET("/ping", okHandler)
		r.OPTIONS("/ping", okHandler)
		return r
	}

	t.Run("request without origin passes", func(t *testing.T) {
		t.Parallel()

		w := httptest.NewRecorder()
		newRouter().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

		if w.Code != http.StatusOK {
			t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
		}
		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
			t.Errorf("Access-Control-Allow-Origin = %q, want empty", got)
		}
	})

	t.Run("allowed origin gets CORS headers", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("Origin", "http://localhost:5000")
		w := httptest.NewRecorder()
		newRouter().ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
		}
		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5000" {
			t.Errorf("Access-Control-Allow-Origin = %q", got)
		}
	})

	t.Run("unknown origin is rejected", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("Origin", "http://evil.example")
		w := httptest.NewRecorder()
		newRouter().ServeHTTP(w, req)

		if w.Code != http.StatusForbidden {
			t.Errorf("status = %d, want %d", w.Code, http.StatusForbidden)
		}
	})

	t.Run("preflight short-circuits", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
		req.Header.Set("Origin", "http://localhost:5000")
		w := httptest.NewRecorder()
		newRouter().ServeHTTP(w, req)

		if w.Code != http.StatusNoContent {
			t.Errorf("status = %d, want %d", w.Code, http.StatusNoContent)
		}
	})
}

func TestRequestLogger(t *testing.T) {
	t.Parallel()

	t.Run("generates a request id and logs completion", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		r := gin.New()
		r.Use(RequestLogger(logging.New(&buf, logging.Config{})))
		r.GET("/ping", okHandler)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

		reqID := w.Header().Get(HeaderRequestID)
		if reqID == "" {
			t.Fatal("X-Request-ID header is empty")
		}

		var entry map[string]any
		if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
			t.Fatalf("log line is not JSON: %v (%q)", err, buf.String())
		}
		if entry[logging.FieldRequestID] != reqID {
			t.Errorf("request_id = %v, want %q", entry[logging.FieldRequestID], reqID)
		}
		if entry[logging.FieldPath] != "/ping" {
			t.Errorf("path = %v, want /ping", entry[logging.FieldPath])
		}
		if entry[logging.FieldStatus] != float64(http.StatusOK) {
			t.Errorf("status = %v, want 200", entry[logging.FieldStatus])
		}
	})

	t.Run("reuses an incoming request id", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		r := gin.New()
		r.Use(RequestLogger(logging.New(&buf, logging.Config{})))
		r.GET("/ping", func(c *gin.Context) {
			l := logging.Ctx(c.Request.Context())
			l.Info().Msg("inside handler")
			okHandler(c)
		})

		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(HeaderRequestID, "fixed-id")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if got := w.Header().Get(HeaderRequestID); got != "fixed-id" {
			t.Errorf("X-Request-ID = %q, want fixed-id", got)
		}

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		if len(lines) != 2 {
			t.Fatalf("got %d log lines, want 2: %q", len(lines), buf.String())
		}
		for _, line := range lines {
			if !strings.Contains(line, `"request_id":"fixed-id"`) {
				t.Errorf("line missing request id: %s", line)
			}
		}
	})
}

func TestRecovery(t *testing.T) {
	t.Parallel()

	r := gin.New()
	r.Use(Recovery())
	r.GET("/boom", func(*gin.Context) {
		panic("boom")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", w.Code, http.StatusInternalServerError)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if body["error"] == "" {
		t.Error("error field is empty")
	}
}
