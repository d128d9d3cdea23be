package httpapi

import (
	"errors"
	"net/http"

	"screening-backend/internal/telephony"
	"screening-backend/pkg/httpclient"
	"screening-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Fixed campaign tag for manually triggered pathway calls.
var startCallMetadata = map[string]any{
	"campaign_id": "cold_call_july_pathway",
	"source":      "manual-trigger",
}

type startCallRequest struct {
	Phone    string `json:"phone"`
	Name     string `json:"name"`
	Position string `json:"position"`
}

// StartCall places a pathway call and returns the provider's response verbatim.
func (h Handlers) StartCall(c *gin.Context) {
	if h.Pathway == nil {
		notConfigured(c, "voice provider")
		return
	}
	var req startCallRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}
	phone := req.Phone
	if phone == "" {
		phone = h.DefaultPhone
	}
	if phone == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Missing required fields", "missing": []string{"phone"}})
		return
	}

	ctx, cancel := h.outboundContext(c)
	defer cancel()

	out, err := h.Pathway.PlaceCall(ctx, telephony.PathwayCall{
		Phone:       phone,
		Metadata:    startCallMetadata,
		RequestData: map[string]any{"name": req.Name, "position": req.Position},
	})
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Pathway call initiation failed"})
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", out)
}

// BlandWebhook stores completed calls. It always acknowledges so the
// provider does not retry; failures are only logged.
func (h Handlers) BlandWebhook(c *gin.Context) {
	log := logger.FromGin(c)

	body, err := c.GetRawData()
	switch {
	case err != nil:
		log.Warn("webhook body read failed", "err", err)
	case h.Ingestor == nil:
		log.Error("webhook received but ingestor not configured")
	default:
		ctx, cancel := h.outboundContext(c)
		outcome, err := h.Ingestor.Ingest(ctx, body)
		cancel()
		if err != nil {
			log.Error("webhook ingest failed", "outcome", outcome, "err", err)
		} else {
			log.Info("webhook processed", "outcome", outcome)
		}
	}
	c.String(http.StatusOK, "Webhook received")
}

type elevenLabsCallRequest struct {
	Phone         string `json:"phone" binding:"required"`
	CandidateName string `json:"candidate_name" binding:"required"`
	JobTitle      string `json:"job_title" binding:"required"`
}

func (h Handlers) ElevenLabsCall(c *gin.Context) {
	if h.Agent == nil {
		notConfigured(c, "elevenlabs")
		return
	}
	var req elevenLabsCallRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx, cancel := h.outboundContext(c)
	defer cancel()

	res, err := h.Agent.StartOutboundCall(ctx, telephony.AgentCall{
		Phone:         req.Phone,
		CandidateName: req.CandidateName,
		JobTitle:      req.JobTitle,
	})
	if err != nil {
		var se *httpclient.StatusError
		if errors.As(err, &se) {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to initiate outbound call via ElevenLabs"})
			return
		}
		logger.FromGin(c).Error("elevenlabs call failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h Handlers) ListContacts(c *gin.Context) {
	if h.Contacts == nil {
		notConfigured(c, "hubspot")
		return
	}
	ctx, cancel := h.outboundContext(c)
	defer cancel()

	out, err := h.Contacts.ListContacts(ctx)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch contacts from HubSpot"})
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", out)
}
