package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// MessageCreator is the subset of the Twilio REST API used here.
type MessageCreator interface {
	CreateMessage(params *openapi.CreateMessageParams) (*openapi.ApiV2010Message, error)
}

// TwilioSender sends SMS through the Twilio Messages API.
type TwilioSender struct {
	api  MessageCreator
	from string
}

// NewTwilioSender builds a sender backed by a process-wide Twilio REST client.
func NewTwilioSender(accountSID, authToken, from string) *TwilioSender {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return NewTwilioSenderWithAPI(client.Api, from)
}

func NewTwilioSenderWithAPI(api MessageCreator, from string) *TwilioSender {
	return &TwilioSender{api: api, from: from}
}

// Send creates one message. The SDK call is not context-aware, so it runs in
// its own goroutine and ctx only bounds how long the caller waits.
func (s *TwilioSender) Send(ctx context.Context, to, body string) (Receipt, error) {
	if s.api == nil {
		return Receipt{}, fmt.Errorf("%w: twilio client not configured", ErrProvider)
	}

	params := &openapi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.from)
	params.SetBody(body)

	type result struct {
		msg *openapi.ApiV2010Message
		err error
	}
	done := make(chan result, 1)
	go func() {
		msg, err := s.api.CreateMessage(params)
		done <- result{msg: msg, err: err}
	}()

	select {
	case <-ctx.Done():
		return Receipt{}, fmt.Errorf("%w: %w", ErrProvider, ctx.Err())
	case r := <-done:
		if r.err != nil {
			return Receipt{}, fmt.Errorf("%w: %w", ErrProvider, r.err)
		}
		if r.msg == nil || r.msg.Sid == nil {
			return Receipt{}, fmt.Errorf("%w: %w", ErrProvider, errors.New("twilio returned no message sid"))
		}
		return Receipt{SID: *r.msg.Sid}, nil
	}
}
