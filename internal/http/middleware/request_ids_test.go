package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/studyplan-backend/internal/platform/ctxutil"
)

func idRouter(seen *ctxutil.TraceData) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestIDs())
	r.GET("/x", func(c *gin.Context) {
		if td := ctxutil.GetTraceData(c.Request.Context()); td != nil {
			*seen = *td
		}
		c.Status(http.StatusNoContent)
	})
	return r
}

func TestRequestIDsHonorsClientID(t *testing.T) {
	var seen ctxutil.TraceData
	r := idRouter(&seen)

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(headerRequestID, "req-abc")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if seen.RequestID != "req-abc" {
		t.Fatalf("request id = %q", seen.RequestID)
	}
	if got := w.Header().Get(headerRequestID); got != "req-abc" {
		t.Fatalf("echoed request id = %q", got)
	}
	if seen.TraceID == "" || w.Header().Get(headerTraceID) != seen.TraceID {
		t.Fatalf("trace id not attached: %+v", seen)
	}
}

func TestRequestIDsReplacesUnsafeClientID(t *testing.T) {
	for name, id := range map[string]string{
		"too long": strings.Repeat("a", maxClientIDLen+1),
		"spaces":   "two words",
		"newline":  "a\nb",
	} {
		t.Run(name, func(t *testing.T) {
			var seen ctxutil.TraceData
			r := idRouter(&seen)
			req := httptest.NewRequest(http.MethodGet, "/x", nil)
			req.Header[headerRequestID] = []string{id}
			r.ServeHTTP(httptest.NewRecorder(), req)
			if seen.RequestID == "" || seen.RequestID == id {
				t.Fatalf("unsafe id kept: %q", seen.RequestID)
			}
		})
	}
}
