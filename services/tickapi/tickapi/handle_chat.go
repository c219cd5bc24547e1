package tickapi

import (
	"encoding/json"
	"net/http"

	"github.com/tickpiar/tick/services/tickapi/db"
	"github.com/tickpiar/tick/services/tickapi/tickapi/render"
)

// ChatRegistrationRequest is a JSON request body representing a chat the bot
// was added to
type ChatRegistrationRequest struct {
	ID       int64  `json:"id"`
	OwnerID  int64  `json:"owner_id"`
	ChatType string `json:"chat_type"`
	Title    string `json:"title"`
}

// ChatSponsorRequest is a JSON request body representing a sponsor channel
type ChatSponsorRequest struct {
	SponsorHandle string `json:"sponsor_handle"`
}

// HandleChatRegistration upserts a chat record
func (ta *TickAPI) HandleChatRegistration(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		render.Error(w, r, Err405MethodNotAllowed.Error(), http.StatusMethodNotAllowed)
		return
	}

	var request ChatRegistrationRequest
	err := json.NewDecoder(r.Body).Decode(&request)
	if err != nil {
		render.Error(w, r, err.Error(), http.StatusBadRequest)
		return
	}
	if request.ID == 0 || request.OwnerID == 0 {
		render.Error(w, r, "id and owner_id are required", http.StatusBadRequest)
		return
	}

	chat := &db.Chat{
		ID:       request.ID,
		OwnerID:  request.OwnerID,
		ChatType: request.ChatType,
		Title:    request.Title,
	}
	err = ta.DBClient.UpsertChat(chat)
	if err != nil {
		ta.renderError(w, r, err)
		return
	}

	render.Response(w, r, chat, http.StatusOK)
}

// HandleChatSponsors lists sponsors on GET, adds one on POST and removes one
// on DELETE
func (ta *TickAPI) HandleChatSponsors(w http.ResponseWriter, r *http.Request) {
	chatID, err := muxInt64(r, "id")
	if err != nil {
		render.Error(w, r, err.Error(), http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		sponsors, err := ta.DBClient.ChatSponsors(chatID)
		if err != nil {
			ta.renderError(w, r, err)
			return
		}
		render.Response(w, r, sponsors, http.StatusOK)

	case http.MethodPost:
		var request ChatSponsorRequest
		err := json.NewDecoder(r.Body).Decode(&request)
		if err != nil {
			render.Error(w, r, err.Error(), http.StatusBadRequest)
			return
		}
		if request.SponsorHandle == "" {
			render.Error(w, r, "sponsor_handle is required", http.StatusBadRequest)
			return
		}
		sponsor := &db.ChatSponsor{ChatID: chatID, SponsorHandle: request.SponsorHandle}
		err = ta.DBClient.AddChatSponsor(sponsor)
		if err != nil {
			ta.renderError(w, r, err)
			return
		}
		render.Response(w, r, sponsor, http.StatusOK)

	case http.MethodDelete:
		handle := r.FormValue("handle")
		if handle == "" {
			render.Error(w, r, "handle is required", http.StatusBadRequest)
			return
		}
		err = ta.DBClient.RemoveChatSponsor(chatID, handle)
		if err != nil {
			ta.renderError(w, r, err)
			return
		}
		render.Response(w, r, true, http.StatusOK)

	default:
		render.Error(w, r, Err405MethodNotAllowed.Error(), http.StatusMethodNotAllowed)
	}
}
