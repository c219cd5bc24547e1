package tickapi

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/tickpiar/tick/services/tickapi/tickapi/render"
)

// HandleAccountDetails returns the account's balance and referral metadata
func (ta *TickAPI) HandleAccountDetails(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		render.Error(w, r, Err405MethodNotAllowed.Error(), http.StatusMethodNotAllowed)
		return
	}

	accountID, err := muxInt64(r, "id")
	if err != nil {
		render.Error(w, r, err.Error(), http.StatusBadRequest)
		return
	}

	account, err := ta.Ledger.Account(accountID)
	if err != nil {
		ta.renderError(w, r, err)
		return
	}

	render.Response(w, r, ta.accountResponse(account), http.StatusOK)
}

// HandleTransactions returns the account's ledger history, newest first
func (ta *TickAPI) HandleTransactions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		render.Error(w, r, Err405MethodNotAllowed.Error(), http.StatusMethodNotAllowed)
		return
	}

	accountID, err := muxInt64(r, "id")
	if err != nil {
		render.Error(w, r, err.Error(), http.StatusBadRequest)
		return
	}

	entries, err := ta.Ledger.History(accountID, queryInt(r, "limit", 10))
	if err != nil {
		ta.renderError(w, r, err)
		return
	}

	render.Response(w, r, entries, http.StatusOK)
}

// muxInt64 parses a numeric mux path variable
func muxInt64(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)[name], 10, 64)
}

// queryInt parses an optional numeric query parameter
func queryInt(r *http.Request, name string, fallback int) int {
	value := r.FormValue(name)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}
