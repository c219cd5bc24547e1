package tickapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/tickpiar/tick/services/tickapi/tickapi/render"
)

// AdvertiseRequest is a JSON request body representing a new task
type AdvertiseRequest struct {
	OwnerID     int64  `json:"owner_id"`
	Channel     string `json:"channel"`
	Reward      int64  `json:"reward"`
	TotalBudget int64  `json:"total_budget"`
}

// HandleTasks lists earn opportunities on GET and creates a task on POST
func (ta *TickAPI) HandleTasks(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		ta.handleEarnOpportunities(w, r)
	case http.MethodPost:
		ta.handleAdvertise(w, r)
	default:
		render.Error(w, r, Err405MethodNotAllowed.Error(), http.StatusMethodNotAllowed)
	}
}

func (ta *TickAPI) handleEarnOpportunities(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(r.FormValue("user"), 10, 64)
	if err != nil {
		render.Error(w, r, "user is required", http.StatusBadRequest)
		return
	}

	opportunities, err := ta.Marketplace.EarnOpportunities(userID, queryInt(r, "limit", 5))
	if err != nil {
		ta.renderError(w, r, err)
		return
	}

	render.Response(w, r, opportunities, http.StatusOK)
}

func (ta *TickAPI) handleAdvertise(w http.ResponseWriter, r *http.Request) {
	var request AdvertiseRequest
	err := json.NewDecoder(r.Body).Decode(&request)
	if err != nil {
		render.Error(w, r, err.Error(), http.StatusBadRequest)
		return
	}

	task, err := ta.Marketplace.Advertise(request.OwnerID, request.Channel, request.Reward, request.TotalBudget)
	if err != nil {
		ta.renderError(w, r, err)
		return
	}

	render.Response(w, r, task, http.StatusOK)
}

// HandleOwnTasks lists the owner's tasks, newest first
func (ta *TickAPI) HandleOwnTasks(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		render.Error(w, r, Err405MethodNotAllowed.Error(), http.StatusMethodNotAllowed)
		return
	}

	ownerID, err := strconv.ParseInt(r.FormValue("owner"), 10, 64)
	if err != nil {
		render.Error(w, r, "owner is required", http.StatusBadRequest)
		return
	}

	tasks, err := ta.Marketplace.OwnTasks(ownerID)
	if err != nil {
		ta.renderError(w, r, err)
		return
	}

	render.Response(w, r, tasks, http.StatusOK)
}

// HandleTask deactivates a task on DELETE
func (ta *TickAPI) HandleTask(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		render.Error(w, r, Err405MethodNotAllowed.Error(), http.StatusMethodNotAllowed)
		return
	}

	taskID, err := muxInt64(r, "id")
	if err != nil {
		render.Error(w, r, err.Error(), http.StatusBadRequest)
		return
	}
	ownerID, err := strconv.ParseInt(r.FormValue("owner"), 10, 64)
	if err != nil {
		render.Error(w, r, "owner is required", http.StatusBadRequest)
		return
	}

	err = ta.Marketplace.Deactivate(taskID, ownerID)
	if err != nil {
		ta.renderError(w, r, err)
		return
	}

	render.Response(w, r, true, http.StatusOK)
}
