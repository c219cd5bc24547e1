package tickapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/tickpiar/tick/services/tickapi/db"
	"github.com/tickpiar/tick/services/tickapi/tickapi/render"
)

// RegisterRequest is a JSON request body representing a user opening an
// account on first interaction
type RegisterRequest struct {
	ID            int64  `json:"id"`
	Username      string `json:"username"`
	FirstName     string `json:"first_name"`
	ReferralToken string `json:"referral_token"`
}

// AccountResponse is a JSON response body representing an account
type AccountResponse struct {
	*db.Account
	ReferralLink string `json:"referral_link"`
}

// HandleRegister opens an account, applying the referral bonus when the
// request carries a valid referral token
func (ta *TickAPI) HandleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		render.Error(w, r, Err405MethodNotAllowed.Error(), http.StatusMethodNotAllowed)
		return
	}

	var request RegisterRequest
	err := json.NewDecoder(r.Body).Decode(&request)
	if err != nil {
		render.Error(w, r, err.Error(), http.StatusBadRequest)
		return
	}
	if request.ID == 0 {
		render.Error(w, r, errors.New("id is required").Error(), http.StatusBadRequest)
		return
	}

	account, err := ta.Ledger.OpenAccount(request.ID, request.Username, request.FirstName, request.ReferralToken)
	if err != nil {
		ta.renderError(w, r, err)
		return
	}

	render.Response(w, r, ta.accountResponse(account), http.StatusOK)
}

func (ta *TickAPI) accountResponse(account *db.Account) AccountResponse {
	return AccountResponse{
		Account:      account,
		ReferralLink: ta.Ledger.ReferralLink(account.ID),
	}
}
