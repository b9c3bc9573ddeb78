package feed

import (
	"net/http"

	gorillaWS "github.com/gorilla/websocket"

	"github.com/lifepost/lifepost/internal/auth/guard"
	commonhttp "github.com/lifepost/lifepost/internal/common/http"
	"github.com/lifepost/lifepost/internal/common/logger"
)

var upgrader = gorillaWS.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

type Handler struct {
	hub    *Hub
	guard  *guard.Guard
	errors *commonhttp.ErrorHandler
	log    *logger.Logger
}

func NewHandler(hub *Hub, g *guard.Guard, log *logger.Logger) *Handler {
	return &Handler{
		hub:    hub,
		guard:  g,
		errors: commonhttp.NewErrorHandler(log),
		log:    log,
	}
}

func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/feed/ws", h.serveWS)
}

func (h *Handler) serveWS(w http.ResponseWriter, r *http.Request) {
	user, err := h.guard.Identity(r.Context())
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warnf("feed: upgrade failed user_id=%s: %v", string(user.ID), err)
		return
	}

	client := NewClient(r.Context(), h.hub, conn, string(user.ID), h.log)
	h.hub.Register(client)
	client.Start()
}
