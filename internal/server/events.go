package server

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aretw0/cardforge/pkg/notify"
)

const subscriberBuffer = 32

// status reports the storage backend in use and component state.
func (s *Server) status(c *gin.Context) {
	respond(c, http.StatusOK, "success", s.app.Status())
}

// events streams notifications as server-sent events named after their
// level. A "ready" event is sent once the subscription is registered.
func (s *Server) events(c *gin.Context) {
	src := notify.NewSource(s.app.Broker, subscriberBuffer)
	if err := src.Start(c.Request.Context()); err != nil {
		failFor(c, "Failed to subscribe", err)
		return
	}

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.SSEvent("ready", gin.H{"degraded": s.app.Collection.Degraded()})
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		e, open := <-src.Events()
		if !open {
			return false
		}
		if ev, ok := e.(notify.Event); ok {
			c.SSEvent(string(ev.Level), ev.Notification)
		}
		return true
	})
}
