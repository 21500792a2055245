package vonage

import (
	"bytes"
	"context"
	"crypto/rsa"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/nexmo-community/dial-ynab/internal/observability"
	"github.com/nexmo-community/dial-ynab/internal/voicecall"
)

const (
	defaultBaseURL = "https://api.nexmo.com"
	tokenTTL       = 15 * time.Minute
)

var (
	ErrInvalidPrivateKey = errors.New("invalid vonage private key")
	ErrTalkFailed        = errors.New("vonage talk request failed")
)

// TalkRequest is the body of PUT /v1/calls/{uuid}/talk
type TalkRequest struct {
	Text     string `json:"text"`
	Language string `json:"language,omitempty"`
	Loop     int    `json:"loop,omitempty"`
}

// TalkResponse is returned once playback has been queued
type TalkResponse struct {
	Message string `json:"message"`
	UUID    string `json:"uuid"`
}

// Client issues call-control requests against the Vonage Voice API
type Client struct {
	applicationID string
	privateKey    *rsa.PrivateKey
	baseURL       string
	httpClient    *http.Client
	logger        *observability.Logger
	now           func() time.Time
}

// NewClient creates a Voice API client. privateKey is either a PEM block or a path to one.
func NewClient(applicationID, privateKey string, logger *observability.Logger) (*Client, error) {
	pemBytes := []byte(privateKey)
	if !strings.HasPrefix(strings.TrimSpace(privateKey), "-----BEGIN") {
		var err error
		pemBytes, err = os.ReadFile(privateKey)
		if err != nil {
			return nil, fmt.Errorf("failed to read private key file: %w", err)
		}
	}

	key, err := jwt.ParseRSAPrivateKeyFromPEM(pemBytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPrivateKey, err)
	}

	return &Client{
		applicationID: applicationID,
		privateKey:    key,
		baseURL:       defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
		now:    time.Now,
	}, nil
}

// token signs a short-lived application JWT
func (c *Client) token() (string, error) {
	now := c.now()
	claims := jwt.MapClaims{
		"application_id": c.applicationID,
		"iat":            now.Unix(),
		"exp":            now.Add(tokenTTL).Unix(),
		"jti":            uuid.NewString(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(c.privateKey)
}

// Speak plays SSML into the call leg identified by callLegID.
func (c *Client) Speak(ctx context.Context, callLegID string, speech voicecall.Speech) error {
	ctx = observability.WithFields(ctx, observability.Field{Key: "call_leg_id", Value: callLegID})

	payload, err := json.Marshal(TalkRequest{Text: speech.SSML, Language: speech.Language})
	if err != nil {
		return fmt.Errorf("failed to marshal talk request: %w", err)
	}

	token, err := c.token()
	if err != nil {
		c.logger.Error(ctx, "failed to sign vonage token", err)
		return fmt.Errorf("failed to sign vonage token: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1/calls/%s/talk", c.baseURL, url.PathEscape(callLegID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create talk request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error(ctx, "failed to call vonage talk API", err)
		return fmt.Errorf("%w: %v", ErrTalkFailed, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("call %s: %w", callLegID, voicecall.ErrCallNotActive)
	case resp.StatusCode >= 300:
		err := fmt.Errorf("%w: status %d", ErrTalkFailed, resp.StatusCode)
		c.logger.Error(ctx, "vonage talk API returned an error status", err)
		return err
	}

	var talk TalkResponse
	if err := json.NewDecoder(resp.Body).Decode(&talk); err == nil {
		c.logger.Info(ctx, fmt.Sprintf("Vonage talk queued: %s", talk.Message))
	}
	return nil
}
