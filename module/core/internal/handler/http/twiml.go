package http

import (
	"fmt"
	"html"
	"net/http"

	"github.com/gin-gonic/gin"
)

// The voice gateway fetches this document when a call connects and other
// systems depend on its exact shape: a Response root with two Say elements
// carrying the message, separated by a two second Pause.
const twimlFormat = `<?xml version="1.0" encoding="UTF-8"?>
<Response>
  <Say voice="alice">
    This is an emergency notification from CareWatch. %s. To end this call, hang up.
  </Say>
  <Pause length="2"/>
  <Say voice="alice">
    Repeating. %s.
  </Say>
</Response>`

const defaultVoiceMessage = "An alert has been raised"

type TwiMLHandler struct{}

func NewTwiMLHandler() *TwiMLHandler {
	return &TwiMLHandler{}
}

func (h *TwiMLHandler) Register(r *gin.RouterGroup) {
	r.GET("/twiml", h.VoiceMarkup)
}

func (h *TwiMLHandler) VoiceMarkup(c *gin.Context) {
	message := c.Query("message")
	if message == "" {
		message = defaultVoiceMessage
	}
	escaped := html.EscapeString(message)

	doc := fmt.Sprintf(twimlFormat, escaped, escaped)
	c.Data(http.StatusOK, "application/xml", []byte(doc))
}
