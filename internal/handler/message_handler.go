package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/portfolio/internal/service"
)

type replyRequest struct {
	ReplyText string `json:"reply_text"`
}

// CreateMessage stores a contact form submission.
func (a *API) CreateMessage(c *gin.Context) {
	var input service.MessageInput
	if !bindJSON(c, &input, "All fields are required") {
		return
	}

	msg, err := a.messages.Create(input)
	if err != nil {
		if errors.Is(err, service.ErrMessageInvalidInput) {
			respondError(c, http.StatusBadRequest, "All fields are required")
			return
		}
		respondServerError(c, "Failed to send message", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Message sent successfully!", "id": msg.ID})
}

// ListMessages returns every message, newest first.
func (a *API) ListMessages(c *gin.Context) {
	items, err := a.messages.List()
	if err != nil {
		respondServerError(c, "Failed to fetch messages", err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// MessageStats returns per-day message counts for the trailing window.
// ?fill=true includes days without messages; ?days=N changes the window.
func (a *API) MessageStats(c *gin.Context) {
	fill, _ := strconv.ParseBool(c.Query("fill"))
	days := service.DefaultStatsDays
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > 366 {
			respondError(c, http.StatusBadRequest, "days must be between 1 and 366")
			return
		}
		days = parsed
	}

	stats, err := a.messages.Stats(time.Now(), days, fill)
	if err != nil {
		respondServerError(c, "Failed to fetch message statistics", err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// DeleteMessage removes a message and its replies.
func (a *API) DeleteMessage(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := a.messages.Delete(id); err != nil {
		handleMessageError(c, err, "Failed to delete message")
		return
	}
	c.Status(http.StatusNoContent)
}

// ListMessageReplies returns the replies to a message.
func (a *API) ListMessageReplies(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	items, err := a.messages.ListReplies(id)
	if err != nil {
		handleMessageError(c, err, "Failed to fetch replies")
		return
	}
	c.JSON(http.StatusOK, items)
}

// ReplyMessage records an admin reply to a message.
func (a *API) ReplyMessage(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req replyRequest
	if !bindJSON(c, &req, "Reply text is required") {
		return
	}

	reply, err := a.messages.Reply(id, req.ReplyText)
	if err != nil {
		handleMessageError(c, err, "Failed to send reply")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Reply sent successfully!", "reply": reply})
}

func handleMessageError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, service.ErrMessageNotFound):
		respondError(c, http.StatusNotFound, "Message not found")
	case errors.Is(err, service.ErrReplyInvalidInput):
		respondError(c, http.StatusBadRequest, "Reply text is required")
	default:
		respondServerError(c, message, err)
	}
}
