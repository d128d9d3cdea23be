package httpapi

import (
	"errors"
	"net/http"

	"screening-backend/internal/booking"
	"screening-backend/internal/notify"
	"screening-backend/internal/rbac"
	"screening-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

type sendSMSRequest struct {
	Name        string `json:"name" binding:"required"`
	Phone       string `json:"phone" binding:"required"`
	JobTitle    string `json:"job_title" binding:"required"`
	CandidateID string `json:"candidate_id" binding:"required"`
	UserID      string `json:"user_id" binding:"required"`
}

// SendSMS texts a candidate their booking link.
// RBAC: the caller must own user_id unless it is a service key.
func (h Handlers) SendSMS(c *gin.Context) {
	if h.SMS == nil {
		notConfigured(c, "sms")
		return
	}
	var req sendSMSRequest
	if !bindJSON(c, &req) {
		return
	}
	if !rbac.CanActFor(c.Request.Context(), req.UserID) {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "user_id does not match token"})
		return
	}

	ctx, cancel := h.outboundContext(c)
	defer cancel()

	rec, err := h.SMS.SendInvite(ctx, notify.Invite{
		Name:        req.Name,
		Phone:       req.Phone,
		JobTitle:    req.JobTitle,
		CandidateID: req.CandidateID,
		UserID:      req.UserID,
	})
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to send SMS"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "sid": rec.SID})
}

type sendConfirmationRequest struct {
	Name     string `json:"name" binding:"required"`
	Phone    string `json:"phone" binding:"required"`
	JobTitle string `json:"job_title" binding:"required"`
	Datetime string `json:"datetime" binding:"required"`
}

// SendConfirmation texts a pre-formatted confirmation; datetime is shown as given.
func (h Handlers) SendConfirmation(c *gin.Context) {
	if h.SMS == nil {
		notConfigured(c, "sms")
		return
	}
	var req sendConfirmationRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx, cancel := h.outboundContext(c)
	defer cancel()

	rec, err := h.SMS.SendConfirmation(ctx, notify.Confirmation{
		Name:     req.Name,
		Phone:    req.Phone,
		JobTitle: req.JobTitle,
		When:     req.Datetime,
	})
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to send confirmation SMS"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "sid": rec.SID})
}

type sendBookingSMSRequest struct {
	CandidateID  string `json:"candidate_id" binding:"required"`
	UserID       string `json:"user_id" binding:"required"`
	SelectedDate string `json:"selected_date" binding:"required"`
	SelectedTime string `json:"selected_time" binding:"required"`
}

// SendBookingSMS books the selected slot and confirms it by SMS.
// The response carries booking_id=null when the insert failed but the SMS went out.
func (h Handlers) SendBookingSMS(c *gin.Context) {
	if h.Booking == nil {
		notConfigured(c, "booking")
		return
	}
	var req sendBookingSMSRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx, cancel := h.outboundContext(c)
	defer cancel()

	res, err := h.Booking.ConfirmViaSMS(ctx, booking.SMSConfirmRequest{
		CandidateID:  req.CandidateID,
		UserID:       req.UserID,
		SelectedDate: req.SelectedDate,
		SelectedTime: req.SelectedTime,
	})
	if errors.Is(err, booking.ErrSMSFailed) {
		logger.FromGin(c).Error("booking confirmation sms failed", "candidate_id", req.CandidateID, "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":      "Failed to send confirmation SMS",
			"details":    err.Error(),
			"booking_id": res.BookingID,
		})
		return
	}
	if err != nil {
		writeBookingError(c, err, "Failed to process booking")
		return
	}
	c.JSON(http.StatusOK, res)
}
