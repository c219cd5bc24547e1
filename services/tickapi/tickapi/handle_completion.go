package tickapi

import (
	"encoding/json"
	"net/http"

	"github.com/tickpiar/tick/services/tickapi/db"
	"github.com/tickpiar/tick/services/tickapi/tickapi/render"
)

// CompleteTaskRequest is a JSON request body representing a completion claim
type CompleteTaskRequest struct {
	UserID int64 `json:"user_id"`
}

// CompleteTaskResponse reports the reward paid for a completion. The task
// snapshot predates the completion counter increment.
type CompleteTaskResponse struct {
	Task       *db.Task `json:"task"`
	RewardPaid int64    `json:"reward_paid"`
}

// HandleTaskCompletion claims a task's reward for a user. Duplicate claims
// and exhausted budgets surface as conflicts, not server faults.
func (ta *TickAPI) HandleTaskCompletion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		render.Error(w, r, Err405MethodNotAllowed.Error(), http.StatusMethodNotAllowed)
		return
	}

	taskID, err := muxInt64(r, "id")
	if err != nil {
		render.Error(w, r, err.Error(), http.StatusBadRequest)
		return
	}

	var request CompleteTaskRequest
	err = json.NewDecoder(r.Body).Decode(&request)
	if err != nil {
		render.Error(w, r, err.Error(), http.StatusBadRequest)
		return
	}

	task, err := ta.Marketplace.Complete(taskID, request.UserID)
	if err != nil {
		ta.renderError(w, r, err)
		return
	}

	render.Response(w, r, CompleteTaskResponse{
		Task:       task,
		RewardPaid: task.Reward,
	}, http.StatusOK)
}
