package middleware

import (
	"bytes"
	"encoding/json"
	"html"
	"io"
	"net/http"
	"strings"

	"artshare-api/internal/api/apierr"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
)

// keys whose values are never rewritten
var rawKeys = map[string]bool{"password": true}

// SanitizeAndCleanInputMiddleware strips HTML from every string in a JSON
// body, nested objects and arrays included. Non-JSON bodies pass through.
func SanitizeAndCleanInputMiddleware() gin.HandlerFunc {
	policy := bluemonday.StrictPolicy()
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost &&
			c.Request.Method != http.MethodPut &&
			c.Request.Method != http.MethodPatch {
			c.Next()
			return
		}
		if !strings.HasPrefix(c.ContentType(), "application/json") || c.Request.Body == nil {
			c.Next()
			return
		}

		buf, err := io.ReadAll(c.Request.Body)
		if err != nil {
			apierr.Abort(c, apierr.Field("body", "invalid body"))
			return
		}
		if len(bytes.TrimSpace(buf)) == 0 {
			c.Request.Body = io.NopCloser(bytes.NewReader(buf))
			c.Next()
			return
		}

		dec := json.NewDecoder(bytes.NewReader(buf))
		dec.UseNumber()
		var body interface{}
		if err := dec.Decode(&body); err != nil {
			apierr.Abort(c, apierr.Field("body", "malformed JSON"))
			return
		}

		newBody, err := json.Marshal(sanitize(policy, body))
		if err != nil {
			apierr.Abort(c, apierr.Field("body", "malformed JSON"))
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(newBody))
		c.Request.ContentLength = int64(len(newBody))

		c.Next()
	}
}

// entity-encoded markup turns into tags once unescaped, so strip again until
// the text stops changing
const maxCleanRounds = 5

// cleanText returns plain text: tags stripped, entities decoded.
func cleanText(policy *bluemonday.Policy, s string) string {
	for i := 0; i < maxCleanRounds; i++ {
		out := html.UnescapeString(policy.Sanitize(s))
		if out == s {
			return out
		}
		s = out
	}
	return policy.Sanitize(s)
}

func sanitize(policy *bluemonday.Policy, v interface{}) interface{} {
	switch t := v.(type) {
	case string:
		return cleanText(policy, t)
	case map[string]interface{}:
		for k, val := range t {
			if rawKeys[strings.ToLower(k)] {
				continue
			}
			t[k] = sanitize(policy, val)
		}
		return t
	case []interface{}:
		for i, val := range t {
			t[i] = sanitize(policy, val)
		}
		return t
	default:
		return v
	}
}
