package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	webpush "github.com/SherClockHolmes/webpush-go"

	"github.com/valeriluca/earnings-calendar/internal/store"
)

// WebPush delivers notifications to every stored browser subscription via
// the Web Push protocol with VAPID authentication. Nil-safe: when VAPID
// keys are not configured, all methods are no-ops.
type WebPush struct {
	subs       *store.Subscriptions
	subscriber string
	publicKey  string
	privateKey string
	logger     *slog.Logger
}

// NewWebPush creates a Web Push dispatcher. Returns nil when VAPID keys
// are missing (web push disabled).
func NewWebPush(subs *store.Subscriptions, subscriber, publicKey, privateKey string, logger *slog.Logger) *WebPush {
	if publicKey == "" || privateKey == "" {
		return nil
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &WebPush{
		subs:       subs,
		subscriber: subscriber,
		publicKey:  publicKey,
		privateKey: privateKey,
		logger:     logger,
	}
}

// pushPayload is the JSON body the service worker renders.
type pushPayload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Tag   string `json:"tag"`
}

// RequestPermission is granted when at least one browser has subscribed.
// Subscribing is the web equivalent of the OS permission prompt: a browser
// cannot subscribe without the user accepting one.
func (w *WebPush) RequestPermission(ctx context.Context) (bool, error) {
	if w == nil {
		return false, nil
	}
	n, err := w.subs.Count(ctx)
	if err != nil {
		return false, fmt.Errorf("count subscriptions: %w", err)
	}
	return n > 0, nil
}

// Show encrypts and sends the payload to every subscription. Endpoints the
// push service reports gone (404/410) are pruned. Returns an error only
// when every send fails.
func (w *WebPush) Show(ctx context.Context, title, body, tag string) error {
	if w == nil {
		return nil
	}

	subs, err := w.subs.All(ctx)
	if err != nil {
		return fmt.Errorf("load subscriptions: %w", err)
	}
	if len(subs) == 0 {
		return nil
	}

	payload, err := json.Marshal(pushPayload{Title: title, Body: body, Tag: tag})
	if err != nil {
		return fmt.Errorf("marshal push payload: %w", err)
	}

	sent, failed := 0, 0
	for _, sub := range subs {
		if err := w.send(ctx, sub, payload); err != nil {
			w.logger.Warn("Push send failed", "endpoint", sub.Endpoint, "error", err)
			failed++
		} else {
			sent++
		}
	}

	w.logger.Info("Push notifications dispatched", "tag", tag, "sent", sent, "failed", failed)
	if sent == 0 && failed > 0 {
		return fmt.Errorf("all %d push sends failed", failed)
	}
	return nil
}

func (w *WebPush) send(ctx context.Context, sub store.Subscription, payload []byte) error {
	resp, err := webpush.SendNotificationWithContext(ctx, payload, &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256dh,
			Auth:   sub.Auth,
		},
	}, &webpush.Options{
		Subscriber:      w.subscriber,
		VAPIDPublicKey:  w.publicKey,
		VAPIDPrivateKey: w.privateKey,
		TTL:             3600,
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNotFound, http.StatusGone:
		// Subscription expired or unsubscribed; drop it.
		if err := w.subs.Remove(ctx, sub.Endpoint); err != nil {
			w.logger.Warn("Failed to prune dead subscription", "endpoint", sub.Endpoint, "error", err)
		}
		return fmt.Errorf("subscription gone (%d)", resp.StatusCode)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("push service returned %d", resp.StatusCode)
	}
	return nil
}
