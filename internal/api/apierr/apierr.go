// Package apierr maps handler errors onto HTTP responses.
package apierr

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"artshare-api/internal/domain/billing"
	"artshare-api/internal/domain/gallery"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entranslations "github.com/go-playground/validator/v10/translations/en"
	"gorm.io/gorm"
)

var (
	ErrNotFound     = errors.New("resource not found")
	ErrUnauthorized = errors.New("authentication required")
	ErrForbidden    = errors.New("access denied")
	ErrConflict     = errors.New("conflict")
	ErrUnavailable  = errors.New("service unavailable")
)

// FieldError is a 400 with per-field messages.
type FieldError struct {
	Message string
	Fields  map[string][]string
}

func (e *FieldError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for f, msgs := range e.Fields {
		parts = append(parts, f+": "+strings.Join(msgs, ", "))
	}
	return e.Message + " (" + strings.Join(parts, "; ") + ")"
}

func Field(field, msg string) *FieldError {
	return &FieldError{Message: "validation failed", Fields: map[string][]string{field: {msg}}}
}

var (
	setupOnce sync.Once
	trans     ut.Translator
)

// Setup registers English messages and json field names on gin's validator.
// It must run before the first request is bound.
func Setup() {
	setupOnce.Do(func() {
		locale := en.New()
		trans, _ = ut.New(locale, locale).GetTranslator("en")
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		if err := entranslations.RegisterDefaultTranslations(v, trans); err != nil {
			log.Warnf("validator translations: %v", err)
		}
	})
}

// Validation converts a binding error into a FieldError.
func Validation(err error) error {
	Setup()

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fe := &FieldError{Message: "validation failed", Fields: map[string][]string{}}
		for _, e := range verrs {
			field := e.Field()
			fe.Fields[field] = append(fe.Fields[field], e.Translate(trans))
		}
		return fe
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return Field(typeErr.Field, fmt.Sprintf("must be of type %s", typeErr.Type))
	}
	if errors.Is(err, io.EOF) {
		return Field("body", "request body is empty")
	}
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return Field("body", "malformed JSON")
	}
	return Field("body", err.Error())
}

// Respond writes err with its status. Unknown errors are logged and hidden.
func Respond(c *gin.Context, err error) {
	var fe *FieldError
	var ref *gallery.ReferenceError
	switch {
	case errors.As(err, &fe):
		c.JSON(http.StatusBadRequest, gin.H{"error": fe.Message, "fields": fe.Fields})
	case errors.As(err, &ref):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "validation failed",
			"fields": map[string][]string{ref.Field: {ref.Error()}},
		})
	case errors.Is(err, gallery.ErrSelfFollow):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": ErrNotFound.Error()})
	case errors.Is(err, gallery.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "fields": map[string][]string{"email": {err.Error()}}})
	case errors.Is(err, ErrConflict), errors.Is(err, billing.ErrAlreadyPaid), errors.Is(err, gorm.ErrDuplicatedKey):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, ErrUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		log.Context(c.Request.Context()).Errorw("msg", "request failed",
			"method", c.Request.Method, "path", c.FullPath(), "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// Abort is Respond followed by c.Abort, for middleware.
func Abort(c *gin.Context, err error) {
	Respond(c, err)
	c.Abort()
}
