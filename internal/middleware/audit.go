package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/brainfuel/backend/pkg/logger"
	"github.com/gin-gonic/gin"
)

const auditBodyMax = 2000

var sensitiveKeys = []string{"password", "token", "secret"}

// AuditLog logs every write request (POST/PUT/DELETE) with the acting user,
// the route's resource and action, the outcome and a masked body snippet.
func AuditLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		method := c.Request.Method
		if method != http.MethodPost && method != http.MethodPut && method != http.MethodDelete {
			c.Next()
			return
		}

		var body string
		if c.Request.Body != nil {
			raw, err := io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(io.MultiReader(bytes.NewReader(raw), c.Request.Body))
			if err == nil {
				body = maskSensitiveFields(raw)
			}
		}

		c.Next()

		resource, action := parseRouteInfo(c.FullPath(), method)
		status := c.Writer.Status()
		event := logger.FromContext(c).Info()
		if status >= 400 {
			event = logger.FromContext(c).Warn()
		}

		event.
			Bool("audit", true).
			Uint("user_id", GetUserID(c)).
			Str("username", GetUsername(c)).
			Str("resource", resource).
			Str("action", action).
			Str("method", method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Str("body", body).
			Msg("audit")
	}
}

// parseRouteInfo maps a route pattern and method to a resource and action,
// e.g. "/api/projects/:id/support" + POST -> ("projects", "support").
func parseRouteInfo(fullPath, method string) (resource, action string) {
	parts := strings.Split(strings.Trim(strings.TrimPrefix(fullPath, "/api/"), "/"), "/")
	resource = parts[0]
	if resource == "" {
		resource = "unknown"
	}

	last := parts[len(parts)-1]
	if len(parts) > 1 && !strings.HasPrefix(last, ":") {
		return resource, last
	}

	switch method {
	case http.MethodPost:
		action = "create"
	case http.MethodPut:
		action = "update"
	case http.MethodDelete:
		action = "delete"
	default:
		action = strings.ToLower(method)
	}
	return resource, action
}

// maskSensitiveFields renders a JSON body with secret values replaced and
// truncates the result. Non-JSON bodies are not logged.
func maskSensitiveFields(raw []byte) string {
	if len(bytes.TrimSpace(raw)) == 0 {
		return ""
	}

	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return "[unparsed body]"
	}

	out, err := json.Marshal(maskValue(v))
	if err != nil {
		return "[unparsed body]"
	}
	s := string(out)
	if len(s) > auditBodyMax {
		s = s[:auditBodyMax] + "...[truncated]"
	}
	return s
}

func maskValue(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		for k, val := range t {
			if isSensitiveKey(k) {
				t[k] = "***"
				continue
			}
			t[k] = maskValue(val)
		}
		return t
	case []interface{}:
		for i := range t {
			t[i] = maskValue(t[i])
		}
		return t
	default:
		return v
	}
}

func isSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	for _, s := range sensitiveKeys {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}
