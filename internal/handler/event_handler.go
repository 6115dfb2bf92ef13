package handler

import (
	"net/http"
	"unicode/utf8"

	"github.com/dafibh/cinelist/cinelist-backend/internal/bot"
	"github.com/dafibh/cinelist/cinelist-backend/internal/middleware"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// Response delivery modes
const (
	ModeSend = "send"
	ModeEdit = "edit"
)

// MaxActionIDLength matches the platform's callback data limit
const MaxActionIDLength = 64

// EventHandler accepts inbound events from the transport gateway
type EventHandler struct {
	router      *bot.Router
	rateLimiter *middleware.RateLimiter
}

// NewEventHandler creates a new EventHandler. A nil rateLimiter disables rate limiting.
func NewEventHandler(router *bot.Router, rateLimiter *middleware.RateLimiter) *EventHandler {
	return &EventHandler{router: router, rateLimiter: rateLimiter}
}

// EventRequest represents an inbound message or button press
type EventRequest struct {
	SenderID        int64  `json:"senderId"`
	SenderUsername  string `json:"senderUsername"`
	SenderFirstName string `json:"senderFirstName"`
	Text            string `json:"text"`
	ActionID        string `json:"actionId"`
}

// ButtonResponse represents an inline button
type ButtonResponse struct {
	Label    string `json:"label"`
	ActionID string `json:"actionId"`
}

// EventResponse represents the outbound message
type EventResponse struct {
	Text    string             `json:"text"`
	Buttons [][]ButtonResponse `json:"buttons,omitempty"`
	Mode    string             `json:"mode"`
}

// HandleEvent godoc
// @Summary Handle an inbound event
// @Description Process a text message or button press and return the message to send or edit
// @Tags events
// @Accept json
// @Produce json
// @Security WebhookSecret
// @Param request body EventRequest true "Inbound event"
// @Success 200 {object} EventResponse
// @Success 204 "Action ignored"
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Failure 429 {object} ProblemDetails
// @Router /events [post]
func (h *EventHandler) HandleEvent(c echo.Context) error {
	var req EventRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	if errs := validateEvent(&req); len(errs) > 0 {
		return NewValidationError(c, "Validation failed", errs)
	}

	if h.rateLimiter != nil && !h.rateLimiter.Allow(req.SenderID) {
		retryAfter := h.rateLimiter.RetryAfter(req.SenderID)
		log.Warn().
			Int64("sender_id", req.SenderID).
			Int("retry_after", retryAfter).
			Msg("Rate limit exceeded")
		return NewTooManyRequestsError(c, retryAfter)
	}

	resp := h.router.Handle(c.Request().Context(), bot.Event{
		SenderID:        req.SenderID,
		SenderUsername:  req.SenderUsername,
		SenderFirstName: req.SenderFirstName,
		Text:            req.Text,
		ActionID:        req.ActionID,
	})
	if resp == nil {
		return c.NoContent(http.StatusNoContent)
	}

	return c.JSON(http.StatusOK, toEventResponse(resp))
}

func validateEvent(req *EventRequest) []ValidationError {
	var errs []ValidationError
	if req.SenderID <= 0 {
		errs = append(errs, ValidationError{Field: "senderId", Message: "Sender ID must be a positive integer"})
	}
	switch {
	case req.Text == "" && req.ActionID == "":
		errs = append(errs, ValidationError{Field: "text", Message: "Either text or actionId is required"})
	case req.Text != "" && req.ActionID != "":
		errs = append(errs, ValidationError{Field: "actionId", Message: "Only one of text or actionId may be set"})
	}
	if utf8.RuneCountInString(req.ActionID) > MaxActionIDLength {
		errs = append(errs, ValidationError{Field: "actionId", Message: "Action ID must be 64 characters or less"})
	}
	return errs
}

func toEventResponse(resp *bot.Response) EventResponse {
	mode := ModeSend
	if resp.Edit {
		mode = ModeEdit
	}

	buttons := make([][]ButtonResponse, len(resp.Keyboard))
	for i, row := range resp.Keyboard {
		buttons[i] = make([]ButtonResponse, len(row))
		for j, btn := range row {
			buttons[i][j] = ButtonResponse{Label: btn.Label, ActionID: btn.Action.String()}
		}
	}

	return EventResponse{Text: resp.Text, Buttons: buttons, Mode: mode}
}
