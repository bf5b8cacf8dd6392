// Package submit posts a finished payload to the collect endpoint.
package submit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ux-collector-be/pkg/experiment"

	"github.com/gofiber/fiber/v2"
)

const (
	StatusSending = "Sending…"
	StatusSent    = "Sent – thank you!"

	DefaultTimeout = 10 * time.Second
)

// Result is the collector's answer to a successful submission.
type Result struct {
	OK  bool   `json:"ok"`
	Key string `json:"key"`
}

type Client struct {
	Endpoint string
	Timeout  time.Duration
	// OnStatus receives the human-readable status line as the submission progresses.
	OnStatus func(status string)
}

func NewClient(endpoint string) *Client {
	return &Client{Endpoint: endpoint, Timeout: DefaultTimeout}
}

// ErrorStatus is the status line shown for a failed submission.
func ErrorStatus(err error) string {
	return "Error sending: " + err.Error()
}

// Submit sends the payload once. There is no retry; the caller decides whether to resubmit.
func (c *Client) Submit(ctx context.Context, p experiment.Payload) (*Result, error) {
	c.status(StatusSending)

	res, err := c.post(ctx, p)
	if err != nil {
		c.status(ErrorStatus(err))
		return nil, err
	}
	c.status(StatusSent)
	return res, nil
}

func (c *Client) post(ctx context.Context, p experiment.Payload) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout {
			timeout = left
		}
	}
	if timeout <= 0 {
		return nil, context.DeadlineExceeded
	}

	code, body, errs := fiber.Post(c.Endpoint).
		JSON(p).
		Timeout(timeout).
		Bytes()
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	if code < 200 || code > 299 {
		return nil, fmt.Errorf("upload failed: %d", code)
	}

	var res Result
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &res, nil
}

func (c *Client) status(s string) {
	if c.OnStatus != nil {
		c.OnStatus(s)
	}
}
