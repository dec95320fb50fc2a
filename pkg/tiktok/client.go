package tiktok

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const DefaultBaseURL = "https://open-api.tiktokglobalshop.com"

// Client calls the platform's open API. Every request carries app_key, a
// fresh timestamp and a signature over path, parameters and body.
type Client struct {
	HTTPClient *http.Client
	BaseURL    string
	AppKey     string
	AppSecret  string

	// Now supplies request timestamps. nil means time.Now.
	Now func() time.Time
}

// APIError is a platform rejection: the HTTP exchange completed but the
// response envelope carried a non-zero code.
type APIError struct {
	Code       int
	Message    string
	HTTPStatus int
	RequestID  string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("tiktok api error: code=%d message=%q", e.Code, e.Message)
}

type envelope struct {
	Code      int             `json:"code"`
	Message   string          `json:"message"`
	RequestID string          `json:"request_id"`
	Data      json.RawMessage `json:"data"`
}

func (c Client) call(ctx context.Context, method, path string, params Params, accessToken, shopID string, reqBody any, out any) error {
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: 20 * time.Second}
	}
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.AppKey == "" || c.AppSecret == "" {
		return fmt.Errorf("missing app key or app secret")
	}

	now := time.Now()
	if c.Now != nil {
		now = c.Now()
	}

	var body []byte
	if reqBody != nil {
		b, err := json.Marshal(reqBody)
		if err != nil {
			return err
		}
		body = b
	}

	full := signRequest(c.AppKey, c.AppSecret, path, params, accessToken, shopID, body, now)

	u := c.BaseURL + path + "?" + full.Values().Encode()
	req, err := http.NewRequestWithContext(ctx, method, u, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	b, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return readErr
	}

	// The platform wraps errors in the envelope even on 4xx/5xx, so decode it
	// first and fall back to the raw body for gateway noise (HTML, truncation).
	var env envelope
	if err := json.Unmarshal(b, &env); err != nil {
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return fmt.Errorf("tiktok api error: status=%d body=%s", resp.StatusCode, string(b))
		}
		return fmt.Errorf("decode tiktok response failed: %w body=%s", err, string(b))
	}
	if env.Code != 0 {
		return &APIError{Code: env.Code, Message: env.Message, HTTPStatus: resp.StatusCode, RequestID: env.RequestID}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode tiktok response failed: %w body=%s", err, string(b))
		}
	}
	return nil
}
