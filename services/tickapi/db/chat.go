package db

import "strings"

// Chat is a group chat the bot moderates for one owner
type Chat struct {
	Timestamps

	ID       int64  `json:"id" sql:",pk"`
	OwnerID  int64  `json:"owner_id"`
	ChatType string `json:"chat_type"`
	Title    string `json:"title"`
}

// ChatSponsor is a sponsor channel attached to a chat. Each (chat, sponsor)
// pair is recorded once.
type ChatSponsor struct {
	Timestamps

	ID            int64  `json:"id"`
	ChatID        int64  `json:"chat_id"`
	SponsorHandle string `json:"sponsor_handle"`
}

// UpsertChat inserts a chat or refreshes its owner and title
func (c *Client) UpsertChat(chat *Chat) error {
	_, err := c.Model(chat).
		OnConflict("(id) DO UPDATE").
		Set("owner_id = EXCLUDED.owner_id, title = EXCLUDED.title, updated_at = now()").
		Insert()
	return wrapStoreErr(err)
}

// AddChatSponsor inserts a sponsor for a chat, ignoring duplicates
func (c *Client) AddChatSponsor(sponsor *ChatSponsor) error {
	if sponsor == nil {
		return nil
	}
	sponsor.SponsorHandle = strings.TrimPrefix(sponsor.SponsorHandle, "@")
	_, err := c.Model(sponsor).
		OnConflict("DO NOTHING").
		Insert()
	return wrapStoreErr(err)
}

// RemoveChatSponsor removes a sponsor from a chat
func (c *Client) RemoveChatSponsor(chatID int64, sponsorHandle string) error {
	var sponsor ChatSponsor
	_, err := c.Model(&sponsor).
		Where("chat_id = ?", chatID).
		Where("sponsor_handle = ?", strings.TrimPrefix(sponsorHandle, "@")).
		Delete()
	return wrapStoreErr(err)
}

// ChatSponsors returns all sponsors for a chat
func (c *Client) ChatSponsors(chatID int64) ([]ChatSponsor, error) {
	sponsors := make([]ChatSponsor, 0)
	err := c.Model(&sponsors).Where("chat_id = ?", chatID).Select()
	if err != nil {
		return nil, wrapStoreErr(err)
	}

	return sponsors, nil
}
