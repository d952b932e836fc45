package handlers

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	"github.com/biosecret/go-todo/middleware"
)

const keepAliveInterval = 15 * time.Second

func formatSSEMessage(eventType string, data any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	if err := enc.Encode(data); err != nil {
		return "", err
	}

	sb := strings.Builder{}
	sb.WriteString(fmt.Sprintf("event: %s\n", eventType))
	sb.WriteString(fmt.Sprintf("retry: %d\n", 15000))
	sb.WriteString(fmt.Sprintf("data: %s\n\n", strings.TrimRight(buf.String(), "\n")))

	return sb.String(), nil
}

// StreamTodoEvents gửi các thay đổi todo của user hiện tại qua SSE
// @Summary Stream the current user's todo changes
// @Tags todos
// @Produce text/event-stream
// @Security BearerAuth
// @Success 200
// @Failure 401 {object} ErrorResponse
// @Router /todos/events [get]
func (h *Handler) StreamTodoEvents(c *fiber.Ctx) error {
	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("Transfer-Encoding", "chunked")

	user := middleware.CurrentUser(c)
	sub := h.hub.Subscribe(user.ID)
	log := h.log.With().Int64("user_id", user.ID).Logger()
	log.Debug().Msg("event stream opened")

	notify := c.Context().Done()

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		keepAliveTicker := time.NewTicker(keepAliveInterval)
		defer func() {
			keepAliveTicker.Stop()
			h.hub.Unsubscribe(sub)
			log.Debug().Msg("event stream closed")
		}()

		fmt.Fprint(w, ":connected\n\n")
		if err := w.Flush(); err != nil {
			return
		}

		for {
			select {
			case <-notify:
				return
			case ev, ok := <-sub.Events():
				if !ok {
					return
				}
				msg, err := formatSSEMessage(ev.Type, ev)
				if err != nil {
					log.Error().Err(err).Msg("failed to format sse message")
					continue
				}
				fmt.Fprint(w, msg)
				if err := w.Flush(); err != nil {
					return
				}
			case <-keepAliveTicker.C:
				fmt.Fprint(w, ":keepalive\n\n")
				if err := w.Flush(); err != nil {
					return
				}
			}
		}
	}))

	return nil
}
