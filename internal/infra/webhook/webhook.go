package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
)

const SignatureHeader = "X-Salon-Signature"

// Envelope is the body posted to the chat widget endpoint.
type Envelope struct {
	Event  string    `json:"event"`
	SentAt time.Time `json:"sent_at"`
	Data   any       `json:"data"`
}

type Sender struct {
	url      string
	secret   string
	client   *http.Client
	maxTries uint
	initial  time.Duration
}

type Option func(*Sender)

func WithHTTPClient(c *http.Client) Option { return func(s *Sender) { s.client = c } }

func WithMaxTries(n uint) Option { return func(s *Sender) { s.maxTries = n } }

func WithInitialInterval(d time.Duration) Option { return func(s *Sender) { s.initial = d } }

func New(url, secret string, opts ...Option) *Sender {
	s := &Sender{
		url:      url,
		secret:   secret,
		client:   &http.Client{Timeout: 10 * time.Second},
		maxTries: 4,
		initial:  500 * time.Millisecond,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Sign returns the hex HMAC-SHA256 of body.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// Send posts the event, retrying 5xx and network errors with exponential
// backoff. 4xx answers are final.
func (s *Sender) Send(ctx context.Context, event string, data any) error {
	if s.url == "" {
		return nil
	}

	body, err := json.Marshal(Envelope{Event: event, SentAt: time.Now().UTC(), Data: data})
	if err != nil {
		return err
	}
	sig := Sign(s.secret, body)

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = s.initial

	_, err = backoff.Retry(ctx, func() (struct{}, error) {
		return struct{}{}, s.post(ctx, event, body, sig)
	}, backoff.WithBackOff(b), backoff.WithMaxTries(s.maxTries))

	return err
}

func (s *Sender) post(ctx context.Context, event string, body []byte, sig string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return backoff.Permanent(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Salon-Event", event)
	if s.secret != "" {
		req.Header.Set(SignatureHeader, "sha256="+sig)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	switch {
	case resp.StatusCode < 300:
		return nil
	case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("webhook: status %d", resp.StatusCode)
	default:
		return backoff.Permanent(fmt.Errorf("webhook: status %d", resp.StatusCode))
	}
}
