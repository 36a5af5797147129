package http

import (
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const statusPage = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>LINE Assistant</title>
</head>
<body>
  <h1>LINE Assistant is running</h1>
  {{if .BasicID}}
  <p>Add the bot on LINE: <a href="https://line.me/R/ti/p/{{.BasicID}}">{{.BasicID}}</a></p>
  {{end}}
  <p>Webhook endpoint: <code>POST /callback</code></p>
</body>
</html>`

var statusTmpl = template.Must(template.New("status").Parse(statusPage))

// StatusHandler serves the public status page and health probes. It is a
// presentation surface only; nothing here touches the custody store.
type StatusHandler struct {
	basicID string
	started time.Time
	ready   func() error
}

// NewStatusHandler builds the handler. ready is an optional dependency
// probe (e.g. a redis ping) consulted by /ready.
func NewStatusHandler(basicID string, ready func() error) *StatusHandler {
	return &StatusHandler{
		basicID: basicID,
		started: time.Now(),
		ready:   ready,
	}
}

func (h *StatusHandler) RegisterRoutes(r *gin.Engine) {
	r.GET("/", h.Index)
	r.GET("/health", h.Health)
	r.GET("/live", h.Live)
	r.GET("/ready", h.Ready)
}

func (h *StatusHandler) Index(c *gin.Context) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	_ = statusTmpl.Execute(c.Writer, gin.H{"BasicID": h.basicID})
}

func (h *StatusHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
		"service":   "line-assistant-backend",
		"uptime":    time.Since(h.started).String(),
	})
}

func (h *StatusHandler) Live(c *gin.Context) {
	c.Status(http.StatusOK)
}

func (h *StatusHandler) Ready(c *gin.Context) {
	if h.ready != nil {
		if err := h.ready(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unready",
				"error":  err.Error(),
			})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"status":    "ready",
		"timestamp": time.Now().UTC(),
	})
}
