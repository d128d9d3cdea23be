package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strings"

	"screening-backend/internal/booking"
	"screening-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

func init() {
	// Report json field names ("candidate_id") rather than Go names in validation errors.
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(jsonFieldName)
	}
}

func jsonFieldName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}

// bindJSON decodes and validates the body. On failure it writes a 400 and returns false.
func bindJSON(c *gin.Context, dst any) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return true
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		missing := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			missing = append(missing, fe.Field())
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Missing required fields", "missing": missing})
		return false
	}

	var syn *json.SyntaxError
	var typ *json.UnmarshalTypeError
	if errors.As(err, &syn) || errors.As(err, &typ) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return false
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
	return false
}

// writeBookingError maps booking errors to status codes. fallback is the
// message used for 500s; the cause is logged, never echoed.
func writeBookingError(c *gin.Context, err error, fallback string) {
	var pe *booking.PhoneUnavailableError
	switch {
	case errors.As(err, &pe):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":          "Candidate does not have a valid phone number",
			"candidate_name": pe.CandidateName,
		})
	case errors.Is(err, booking.ErrInvalidArgument):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, booking.ErrCandidateNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Candidate not found"})
	case errors.Is(err, booking.ErrAccessDenied):
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied"})
	case errors.Is(err, booking.ErrBookingInProgress):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Booking already in progress for this slot"})
	default:
		logger.FromGin(c).Error(fallback, "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

func notConfigured(c *gin.Context, what string) {
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": what + " not configured"})
}
