package controllers

import (
	"io"

	"lending_register/db"

	"github.com/gin-gonic/gin"
)

type EventsController struct{ *Srv }

func NewEventsController(s *Srv) *EventsController { return &EventsController{Srv: s} }

// Stream pushes a server-sent event naming the changed collection whenever
// items or transactions change, so clients re-fetch the full snapshot.
func (ec *EventsController) Stream(c *gin.Context) {
	sub := ec.App.Events.Subscribe(c.Request.Context(), db.CollectionItems, db.CollectionTransactions)
	defer sub.Close()
	ch := sub.Channel()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case msg, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent("change", msg.Payload)
			return true
		}
	})
}
