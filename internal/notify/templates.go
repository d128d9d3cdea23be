package notify

import (
	"fmt"
	"net/url"
	"strings"
)

// NormalizePhone trims the number and prepends "+" when missing.
// It is a formatting rule only; length and region are not checked.
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	if phone == "" || strings.HasPrefix(phone, "+") {
		return phone
	}
	return "+" + phone
}

// BookingLink builds the candidate-facing calendar URL.
func BookingLink(frontendURL, candidateID, userID string) string {
	return fmt.Sprintf("%s/calendar?candidate_id=%s&user_id=%s",
		strings.TrimRight(frontendURL, "/"),
		encodeComponent(candidateID),
		encodeComponent(userID),
	)
}

// encodeComponent percent-encodes a query value, spaces included ("%20", not "+").
func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// InviteMessage is the booking-invite SMS body.
func InviteMessage(name, jobTitle, link string) string {
	return fmt.Sprintf(
		"Hi %s! Thanks for your interest in the %s position. Please pick a time for your screening call here: %s",
		name, jobTitle, link,
	)
}

// ConfirmationMessage is the booking-confirmation SMS body. when is already
// human-readable, e.g. "Tuesday, March 5, 2024 at 14:00".
func ConfirmationMessage(name, jobTitle, when string) string {
	return fmt.Sprintf(
		"Hi %s! Your screening call for the %s position is confirmed for %s. We look forward to speaking with you!",
		name, jobTitle, when,
	)
}
