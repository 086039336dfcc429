package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/yeremiapane/factory-app/hub"
	"github.com/yeremiapane/factory-app/utils"
)

// LiveController serves the dashboard websocket.
type LiveController struct {
	Hub      *hub.Hub
	upgrader websocket.Upgrader
}

func NewLiveController(h *hub.Hub, allowedOrigins []string) *LiveController {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return &LiveController{
		Hub: h,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowed["*"] || allowed[origin]
			},
		},
	}
}

// Serve -> GET /ws?view=planning
func (lc *LiveController) Serve(c *gin.Context) {
	ws, err := lc.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.InfoLogger.WithError(err).Warn("Websocket upgrade failed")
		return
	}

	view := c.DefaultQuery("view", "dashboard")
	lc.Hub.Register(ws, view)

	// clients only listen; reading detects the disconnect
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}

	lc.Hub.Unregister(ws)
}
