package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"staffing/internal/domain"
)

type corsPolicy struct {
	allowAnyOrigin bool
	allowedOrigins map[string]struct{}
	allowHeaders   string
	allowMethods   string
}

func newCORSPolicy(origins []string) corsPolicy {
	policy := corsPolicy{
		allowedOrigins: make(map[string]struct{}, len(origins)),
		allowHeaders:   "Content-Type, " + requestIDHeader,
		allowMethods:   "GET, POST, OPTIONS",
	}
	for _, origin := range origins {
		if origin == "*" {
			policy.allowAnyOrigin = true
		}
		policy.allowedOrigins[origin] = struct{}{}
	}
	return policy
}

func cors(policy corsPolicy) gin.HandlerFunc {
	return func(c *gin.Context) {
		setCORS(c, policy)
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func setCORS(c *gin.Context, policy corsPolicy) {
	if policy.allowAnyOrigin {
		c.Header("Access-Control-Allow-Headers", policy.allowHeaders)
		c.Header("Access-Control-Allow-Methods", policy.allowMethods)
		c.Header("Access-Control-Allow-Origin", "*")
		return
	}

	origin := strings.TrimSpace(c.GetHeader("Origin"))
	if origin == "" {
		return
	}
	if _, allowed := policy.allowedOrigins[origin]; !allowed {
		return
	}

	c.Header("Access-Control-Allow-Headers", policy.allowHeaders)
	c.Header("Access-Control-Allow-Methods", policy.allowMethods)
	c.Header("Access-Control-Allow-Origin", origin)
	c.Header("Vary", "Origin")
}

func writeError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

func (a *API) writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		message := "validation failed"
		detailed := strings.TrimSpace(err.Error())
		suffix := ": " + domain.ErrValidation.Error()
		if strings.HasSuffix(detailed, suffix) {
			detailed = strings.TrimSuffix(detailed, suffix)
		}
		if detailed != "" && detailed != domain.ErrValidation.Error() {
			message = detailed
		}
		writeError(c, http.StatusBadRequest, message)
	case errors.Is(err, domain.ErrNotFound):
		writeError(c, http.StatusNotFound, "not found")
	default:
		a.log.Errorf("request %s failed: %v", c.GetString(requestIDHeader), err)
		writeError(c, http.StatusInternalServerError, "internal server error")
	}
}

// queryInt returns nil when the parameter is absent.
func queryInt(c *gin.Context, name string) (*int, error) {
	raw, ok := c.GetQuery(name)
	raw = strings.TrimSpace(raw)
	if !ok || raw == "" {
		return nil, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be an integer", name)
	}
	return &value, nil
}

// queryDate accepts an absent parameter or a YYYY-MM-DD value.
func queryDate(c *gin.Context, name string) (string, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return "", nil
	}
	normalized, err := domain.ValidateDate(raw)
	if err != nil {
		return "", fmt.Errorf("%s must use the YYYY-MM-DD format", name)
	}
	return normalized, nil
}

// queryCSV merges repeated and comma separated values.
func queryCSV(c *gin.Context, name string) []string {
	var values []string
	for _, raw := range c.QueryArray(name) {
		values = append(values, parseCSV(raw)...)
	}
	return values
}

func parseCSV(rawValue string) []string {
	parts := strings.Split(rawValue, ",")
	values := make([]string, 0, len(parts))
	seen := map[string]struct{}{}
	for _, part := range parts {
		trimmedPart := strings.TrimSpace(part)
		if trimmedPart == "" {
			continue
		}
		if _, exists := seen[trimmedPart]; exists {
			continue
		}
		seen[trimmedPart] = struct{}{}
		values = append(values, trimmedPart)
	}
	return values
}
