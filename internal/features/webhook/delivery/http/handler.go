package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"line-assistant-backend/internal/common/logger"
	"line-assistant-backend/internal/common/middleware"
	botmodels "line-assistant-backend/internal/features/bot/models"
	"line-assistant-backend/internal/features/webhook/models"
	"line-assistant-backend/internal/platform/line"
	"line-assistant-backend/internal/platform/metrics"
)

const signatureHeader = "X-Line-Signature"

const eventFailureText = "Sorry, I'm having trouble right now. Please try again later."

// CommandRouter turns an inbound text message into a Response. Route is
// total for well-behaved implementations; the handler still guards each
// event so one misbehaving event cannot take down its siblings.
type CommandRouter interface {
	Route(ctx context.Context, text, userID string) botmodels.Response
}

// ReplyClient delivers a Response to a single-use reply token.
type ReplyClient interface {
	Reply(ctx context.Context, replyToken string, resp botmodels.Response) error
}

// WebhookHandler authenticates and dispatches LINE webhook calls. Signature
// failures and plumbing faults answer 400; once the request is verified the
// answer is always 200 so the platform does not start a retry storm over
// per-event trouble.
type WebhookHandler struct {
	channelSecret string
	router        CommandRouter
	client        ReplyClient
}

func NewWebhookHandler(channelSecret string, router CommandRouter, client ReplyClient) *WebhookHandler {
	return &WebhookHandler{
		channelSecret: channelSecret,
		router:        router,
		client:        client,
	}
}

func (h *WebhookHandler) RegisterRoutes(r *gin.Engine) {
	r.POST("/callback", h.Callback)
}

func (h *WebhookHandler) Callback(c *gin.Context) {
	requestID := middleware.GetRequestID(c)

	signature := c.GetHeader(signatureHeader)
	if signature == "" {
		metrics.WebhookRequests.WithLabelValues("missing_signature").Inc()
		c.String(http.StatusBadRequest, "missing signature")
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		metrics.WebhookRequests.WithLabelValues("read_error").Inc()
		c.String(http.StatusBadRequest, "cannot read body")
		return
	}

	// The signature covers the raw body; nothing is parsed before this
	// check passes.
	if !line.ValidateSignature(h.channelSecret, signature, body) {
		logger.Warn().
			Str("request_id", requestID).
			Str("client_ip", c.ClientIP()).
			Msg("Webhook signature mismatch")
		metrics.WebhookRequests.WithLabelValues("bad_signature").Inc()
		c.String(http.StatusBadRequest, "invalid signature")
		return
	}

	var payload models.Payload
	if err := json.Unmarshal(body, &payload); err != nil {
		logger.Warn().
			Str("request_id", requestID).
			Err(err).
			Msg("Malformed webhook payload")
		metrics.WebhookRequests.WithLabelValues("malformed").Inc()
		c.String(http.StatusBadRequest, "malformed payload")
		return
	}

	for i := range payload.Events {
		h.handleEvent(c.Request.Context(), requestID, &payload.Events[i])
	}

	metrics.WebhookRequests.WithLabelValues("ok").Inc()
	c.String(http.StatusOK, "OK")
}

// handleEvent processes one event in isolation: a panic or delivery failure
// here is logged, answered with a best-effort fallback reply, and never
// surfaces to the HTTP response or to sibling events.
func (h *WebhookHandler) handleEvent(ctx context.Context, requestID string, event *models.Event) {
	defer func() {
		if recovered := recover(); recovered != nil {
			logger.Error().
				Str("request_id", requestID).
				Str("reply_token", event.ReplyToken).
				Interface("panic", recovered).
				Str("stack", string(debug.Stack())).
				Msg("Panic while handling webhook event")
			metrics.EventsHandled.WithLabelValues("panic").Inc()

			if event.ReplyToken != "" {
				// Best effort only; the token may already be spent.
				_ = h.client.Reply(ctx, event.ReplyToken, botmodels.NewText(eventFailureText))
			}
		}
	}()

	if !event.IsTextMessage() {
		metrics.EventsHandled.WithLabelValues("skipped").Inc()
		return
	}

	resp := h.router.Route(ctx, event.Message.Text, event.Source.UserID)

	if err := h.client.Reply(ctx, event.ReplyToken, resp); err != nil {
		// No retry: reply tokens are single-use and a duplicate reply is
		// worse than a dropped one.
		logger.Error().
			Str("request_id", requestID).
			Str("reply_token", event.ReplyToken).
			Err(err).
			Msg("Reply delivery failed")
		metrics.EventsHandled.WithLabelValues("reply_failed").Inc()
		return
	}

	metrics.EventsHandled.WithLabelValues("replied").Inc()
}
