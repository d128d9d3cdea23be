package httpapi

import (
	"net/http"

	"screening-backend/internal/booking"

	"github.com/gin-gonic/gin"
)

// CandidateInfo backs the public booking page. Lookup is scoped to the
// recruiter in the link; user_id is not returned.
func (h Handlers) CandidateInfo(c *gin.Context) {
	if h.Booking == nil {
		notConfigured(c, "booking")
		return
	}
	ctx, cancel := h.outboundContext(c)
	defer cancel()

	info, err := h.Booking.CandidateInfo(ctx, c.Param("candidateId"), c.Param("userId"))
	if err != nil {
		writeBookingError(c, err, "Failed to fetch candidate")
		return
	}
	c.JSON(http.StatusOK, info)
}

func (h Handlers) Availability(c *gin.Context) {
	if h.Booking == nil {
		notConfigured(c, "booking")
		return
	}
	ctx, cancel := h.outboundContext(c)
	defer cancel()

	slots, err := h.Booking.Availability(ctx, c.Param("userId"))
	if err != nil {
		writeBookingError(c, err, "Failed to fetch availability")
		return
	}
	c.JSON(http.StatusOK, slots)
}

type createBookingRequest struct {
	CandidateID string `json:"candidate_id" binding:"required"`
	UserID      string `json:"user_id" binding:"required"`
	Datetime    string `json:"datetime" binding:"required"`
	Status      string `json:"status"`
}

func (h Handlers) CreateBooking(c *gin.Context) {
	if h.Booking == nil {
		notConfigured(c, "booking")
		return
	}
	var req createBookingRequest
	if !bindJSON(c, &req) {
		return
	}
	at, err := booking.ParseInstant(req.Datetime)
	if err != nil {
		writeBookingError(c, err, "Failed to create booking")
		return
	}

	ctx, cancel := h.outboundContext(c)
	defer cancel()

	b, err := h.Booking.CreateBooking(ctx, booking.CreateRequest{
		CandidateID: req.CandidateID,
		UserID:      req.UserID,
		Datetime:    at,
		Status:      req.Status,
	})
	if err != nil {
		writeBookingError(c, err, "Failed to create booking")
		return
	}
	c.JSON(http.StatusOK, b)
}
