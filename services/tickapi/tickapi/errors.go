package tickapi

import (
	"errors"
	"net/http"

	"github.com/tickpiar/tick/services/tickapi/db"
	"github.com/tickpiar/tick/services/tickapi/ledger"
	"github.com/tickpiar/tick/services/tickapi/marketplace"
	"github.com/tickpiar/tick/services/tickapi/tickapi/render"
)

// Errors for the tickapi module.
var (
	Err404ResourceNotFound = errors.New("this resource does not exist")
	Err405MethodNotAllowed = errors.New("this method is not allowed")
	ErrServerError         = errors.New("unknown server error")
)

// errorStatus maps the typed error taxonomy onto HTTP status codes. Callers
// switch on error kind, never on message text.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, db.ErrAccountNotFound), errors.Is(err, db.ErrTaskNotFound):
		return http.StatusNotFound
	case errors.Is(err, db.ErrInsufficientFunds),
		errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, marketplace.ErrInvalidTaskParameters):
		return http.StatusUnprocessableEntity
	case errors.Is(err, db.ErrAlreadyCompleted),
		errors.Is(err, db.ErrTaskInactive),
		errors.Is(err, db.ErrBudgetExhausted):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// renderError renders a service error with its mapped status. Store failures
// are logged and masked with a generic message.
func (ta *TickAPI) renderError(w http.ResponseWriter, r *http.Request, err error) {
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		ta.log.WithError(err).Error("request failed")
		render.Error(w, r, ErrServerError.Error(), status)
		return
	}
	render.Error(w, r, err.Error(), status)
}
