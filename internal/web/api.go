package web

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Zachkp/devfolio/internal/store"
)

type sendMessageRequest struct {
	Message string `json:"message"`
}

func (s *Server) sendMessage(c *gin.Context) {
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body"})
		return
	}

	_, err := s.inbox.Append(c.Request.Context(), req.Message, c.ClientIP())
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"success": true})
	case errors.Is(err, store.ErrEmptyMessage):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Message is required"})
	case errors.Is(err, store.ErrMessageTooLong):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Message is too long"})
	default:
		log.Printf("Error saving message: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to save message"})
	}
}

// features lists the feature module names in display order.
func (s *Server) features(c *gin.Context) {
	names := make([]string, 0, len(s.term.Features()))
	for _, f := range s.term.Features() {
		names = append(names, f.Name())
	}
	c.JSON(http.StatusOK, names)
}
