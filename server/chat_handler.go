package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vocta-football/vocta/conversation"
	"github.com/vocta-football/vocta/models"
	"github.com/vocta-football/vocta/models/gemini"
	"github.com/vocta-football/vocta/sessions"
)

// HandleChat runs one text turn: normalize client history, dispatch, render
// the envelope. The client owns history; nothing is read from or written to
// a session store.
func (s *Server) HandleChat(c *gin.Context) {
	var body models.Chat_Body
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "No prompt provided."})
		return
	}

	history, utterance, err := conversation.BuildTurn(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "No prompt provided."})
		return
	}

	if s.Config.APIKey == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server misconfig: GEMINI_API_KEY is missing."})
		return
	}

	session := sessions.NewChatSession(uuid.New().String(), sessions.ChannelChat, s.ChatAgent, s.Catalog, s.Store)
	envelope, err := session.RunTurn(history, utterance)
	if err != nil {
		status := http.StatusBadGateway
		detail := "Unknown"

		var apiErr *gemini.APIError
		if errors.As(err, &apiErr) {
			if apiErr.Status != 0 {
				status = apiErr.Status
			}
			detail = apiErr.Message
		} else {
			detail = err.Error()
		}

		c.JSON(status, gin.H{"message": "Chat service error: " + detail})
		return
	}

	c.JSON(http.StatusOK, envelope)
}

// HandleBroadcast pushes an arbitrary message to every dashboard observer.
// Delivery is best-effort, so the endpoint always reports success.
func (s *Server) HandleBroadcast(c *gin.Context) {
	var body struct {
		Message interface{} `json:"message"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid broadcast body."})
		return
	}

	s.Hub.Broadcast(body.Message)
	c.String(http.StatusOK, "Message broadcasted")
}
