// Package webpush wraps the Web Push protocol client behind an outcome-based
// interface: the fan-out engine only cares whether an endpoint took the
// message, is gone for good, or hiccuped.
package webpush

import (
	"context"
	"io"
	"net/http"
	"time"

	webpush "github.com/SherClockHolmes/webpush-go"

	"github.com/laporinapp/laporin/internal/model"
)

// Outcome classifies one delivery attempt to one endpoint
type Outcome int

const (
	// OutcomeDelivered means the push service accepted the message
	OutcomeDelivered Outcome = iota
	// OutcomeGone means the endpoint is permanently dead and should be pruned
	OutcomeGone
	// OutcomeTransient covers every other failure; the subscription is kept
	OutcomeTransient
)

func (o Outcome) String() string {
	switch o {
	case OutcomeDelivered:
		return "delivered"
	case OutcomeGone:
		return "gone"
	default:
		return "transient"
	}
}

// Sender delivers one payload to one subscription endpoint
type Sender interface {
	Send(ctx context.Context, sub model.PushSubscription, payload []byte) (Outcome, error)
}

// Config carries the VAPID identity used to sign push requests
type Config struct {
	Subscriber      string
	VAPIDPublicKey  string
	VAPIDPrivateKey string
	TTL             int
	Timeout         time.Duration
}

// Client talks to browser push services using VAPID-signed requests. It is
// constructed once at startup and injected into the fan-out engine.
type Client struct {
	cfg  Config
	http *http.Client
}

// New creates a push client
func New(cfg Config) *Client {
	if cfg.TTL <= 0 {
		cfg.TTL = 86400
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

// Send implements Sender
func (c *Client) Send(ctx context.Context, sub model.PushSubscription, payload []byte) (Outcome, error) {
	s := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256dh,
			Auth:   sub.Auth,
		},
	}

	resp, err := webpush.SendNotificationWithContext(ctx, payload, s, &webpush.Options{
		HTTPClient:      c.http,
		Subscriber:      c.cfg.Subscriber, // webpush-go adds mailto: automatically
		VAPIDPublicKey:  c.cfg.VAPIDPublicKey,
		VAPIDPrivateKey: c.cfg.VAPIDPrivateKey,
		TTL:             c.cfg.TTL,
	})
	if err != nil {
		return OutcomeTransient, err
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	return ClassifyStatus(resp.StatusCode), nil
}

// ClassifyStatus maps a push service HTTP status to a delivery outcome.
// 404/410 are the provider's "subscription expired or revoked" answers.
func ClassifyStatus(status int) Outcome {
	switch {
	case status >= 200 && status < 300:
		return OutcomeDelivered
	case status == http.StatusNotFound, status == http.StatusGone:
		return OutcomeGone
	default:
		return OutcomeTransient
	}
}
