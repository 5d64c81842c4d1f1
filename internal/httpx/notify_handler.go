package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Broadcaster fans a message out to every connected realtime client.
type Broadcaster interface {
	Broadcast(v any)
}

type NotifyHandler struct {
	Hub Broadcaster
}

type NotifyReq struct {
	Message string `json:"message"`
}

func (h *NotifyHandler) Register(r *chi.Mux) {
	r.Post("/api/notify", h.notify)
}

// notify triggers a global fan-out. Deliberately decoupled from the order
// pipeline and from tenancy: every connected client receives it.
func (h *NotifyHandler) notify(w http.ResponseWriter, r *http.Request) {
	var req NotifyReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	h.Hub.Broadcast(map[string]string{"message": req.Message})
	writeSuccess(w, http.StatusOK, "Notification sent", nil)
}
