// Package apierror writes the JSON error bodies shared by all handlers.
package apierror

import (
	"errors"
	"net/http"
	"unicode"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/tasklists/tasklists-api/pkg/logger"
)

// Fields maps request validation failures to {field: rule}.
func Fields(err error) map[string]string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return nil
	}
	out := make(map[string]string, len(ve))
	for _, fe := range ve {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		out[jsonName(fe.Field())] = rule
	}
	return out
}

func jsonName(field string) string {
	if field == "" {
		return field
	}
	r := []rune(field)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}

// BadRequest answers 400 with the error message and, for binding failures,
// the offending fields.
func BadRequest(c *gin.Context, err error) {
	body := gin.H{"error": err.Error()}
	if fields := Fields(err); fields != nil {
		body["error"] = "validation failed"
		body["fields"] = fields
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, body)
}

// Invalid answers 400 for a single field.
func Invalid(c *gin.Context, field string, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"error":  err.Error(),
		"fields": map[string]string{field: err.Error()},
	})
}

// Internal logs err and answers 500 without leaking details.
func Internal(c *gin.Context, err error) {
	logger.Errorf("%s %s: %v", c.Request.Method, c.FullPath(), err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
