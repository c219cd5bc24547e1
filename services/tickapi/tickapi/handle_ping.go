package tickapi

import (
	"net/http"

	"github.com/tickpiar/tick/services/tickapi/tickapi/render"
)

// PingResponse is a JSON response body representing the result of Ping
type PingResponse struct {
	Pong bool `json:"pong"`
}

// HandlePing returns a `PingResponse`
func (ta *TickAPI) HandlePing(w http.ResponseWriter, r *http.Request) {
	render.Response(w, r, PingResponse{Pong: true}, http.StatusOK)
}
