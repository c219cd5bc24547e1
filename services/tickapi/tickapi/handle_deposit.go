package tickapi

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/oklog/ulid"

	"github.com/tickpiar/tick/services/tickapi/tickapi/render"
)

// DepositInvoiceRequest is a JSON request body asking for an invoice payload
type DepositInvoiceRequest struct {
	AccountID int64 `json:"account_id"`
	Stars     int64 `json:"stars"`
}

// DepositInvoiceResponse carries the payload the front end attaches to the
// provider invoice. The payload comes back verbatim in the confirmation.
type DepositInvoiceResponse struct {
	Payload string `json:"payload"`
	Stars   int64  `json:"stars"`
	Coins   int64  `json:"coins"`
}

// DepositConfirmRequest is a JSON request body representing a confirmed
// payment, delivered by the payment webhook
type DepositConfirmRequest struct {
	AccountID  int64  `json:"account_id"`
	PaymentRef string `json:"payment_ref"`
	Stars      int64  `json:"stars"`
}

// DepositConfirmResponse reports the coins credited. Zero means the payment
// reference was already processed and nothing changed.
type DepositConfirmResponse struct {
	CoinsCredited int64 `json:"coins_credited"`
}

// HandleDepositInvoice issues a unique invoice payload for a Stars purchase
func (ta *TickAPI) HandleDepositInvoice(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		render.Error(w, r, Err405MethodNotAllowed.Error(), http.StatusMethodNotAllowed)
		return
	}

	var request DepositInvoiceRequest
	err := json.NewDecoder(r.Body).Decode(&request)
	if err != nil {
		render.Error(w, r, err.Error(), http.StatusBadRequest)
		return
	}
	if request.AccountID == 0 || request.Stars <= 0 {
		render.Error(w, r, "account_id and a positive stars amount are required", http.StatusBadRequest)
		return
	}

	// The account must exist before an invoice goes out.
	_, err = ta.Ledger.Account(request.AccountID)
	if err != nil {
		ta.renderError(w, r, err)
		return
	}

	id := ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader)
	render.Response(w, r, DepositInvoiceResponse{
		Payload: fmt.Sprintf("stars_%d_%d_%s", request.AccountID, request.Stars, id.String()),
		Stars:   request.Stars,
		Coins:   request.Stars * ta.APIContext.Config.Payment.StarsExchangeRate,
	}, http.StatusOK)
}

// HandleDepositConfirm credits coins for a confirmed payment. Replays of the
// same payment_ref are benign no-ops.
func (ta *TickAPI) HandleDepositConfirm(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		render.Error(w, r, Err405MethodNotAllowed.Error(), http.StatusMethodNotAllowed)
		return
	}

	var request DepositConfirmRequest
	err := json.NewDecoder(r.Body).Decode(&request)
	if err != nil {
		render.Error(w, r, err.Error(), http.StatusBadRequest)
		return
	}
	if request.PaymentRef == "" {
		render.Error(w, r, "payment_ref is required", http.StatusBadRequest)
		return
	}

	coins, err := ta.Ledger.RecordDeposit(request.AccountID, request.PaymentRef, request.Stars)
	if err != nil {
		ta.renderError(w, r, err)
		return
	}

	render.Response(w, r, DepositConfirmResponse{CoinsCredited: coins}, http.StatusOK)
}
