package twilio

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	twilio "github.com/twilio/twilio-go"
	twilioclient "github.com/twilio/twilio-go/client"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
	"github.com/twilio/twilio-go/twiml"

	"github.com/nexmo-community/dial-ynab/internal/observability"
	"github.com/nexmo-community/dial-ynab/internal/voicecall"
	"github.com/nexmo-community/dial-ynab/internal/voicecall/session"
)

// callNotInProgress is Twilio's error code for updating a call that has ended.
const callNotInProgress = 21220

var ErrUpdateCallFailed = errors.New("twilio call update failed")

// callUpdater is the slice of the Twilio REST API used here.
type callUpdater interface {
	UpdateCall(sid string, params *openapi.UpdateCallParams) (*openapi.ApiV2010Call, error)
}

// Client redirects live calls to new TwiML through the Twilio REST API
type Client struct {
	calls  callUpdater
	logger *observability.Logger
}

// NewClient creates a Twilio client from account credentials
func NewClient(accountSID, authToken string, logger *observability.Logger) *Client {
	rest := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &Client{
		calls:  rest.Api,
		logger: logger,
	}
}

// Speak replaces the call's current TwiML with a <Say> of the plain-text speech.
func (c *Client) Speak(ctx context.Context, callSID string, speech voicecall.Speech) error {
	ctx = observability.WithFields(ctx, observability.Field{Key: "call_leg_id", Value: callSID})

	doc, err := SayTwiML(speech)
	if err != nil {
		return fmt.Errorf("failed to build twiml: %w", err)
	}

	params := &openapi.UpdateCallParams{}
	params.SetTwiml(doc)

	if _, err := c.calls.UpdateCall(callSID, params); err != nil {
		var restErr *twilioclient.TwilioRestError
		if errors.As(err, &restErr) &&
			(restErr.Status == http.StatusNotFound || restErr.Code == callNotInProgress) {
			return fmt.Errorf("call %s: %w", callSID, voicecall.ErrCallNotActive)
		}
		c.logger.Error(ctx, "failed to update twilio call", err)
		return fmt.Errorf("%w: %v", ErrUpdateCallFailed, err)
	}

	c.logger.Info(ctx, "Twilio call updated with balance announcement")
	return nil
}

// SayTwiML renders speech as a TwiML document.
func SayTwiML(speech voicecall.Speech) (string, error) {
	say := &twiml.VoiceSay{
		Message:  speech.Text,
		Language: speech.Language,
	}
	return twiml.Voice([]twiml.Element{say})
}

// AnswerTwiML prompts for a category and forks the call audio to a media stream,
// passing the CallSid as the session custom parameter.
func AnswerTwiML(prompt, streamURL, callSID string) (string, error) {
	say := &twiml.VoiceSay{
		Message:  prompt,
		Language: voicecall.Language,
	}
	stream := twiml.VoiceStream{
		Name: "balance-transcription",
		Url:  streamURL,
		InnerElements: []twiml.Element{
			twiml.VoiceParameter{Name: session.SessionKey, Value: callSID},
		},
	}
	connect := twiml.VoiceConnect{
		InnerElements: []twiml.Element{stream},
	}
	return twiml.Voice([]twiml.Element{say, connect})
}
