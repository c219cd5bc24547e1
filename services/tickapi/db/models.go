package db

import (
	"context"
	"time"

	"github.com/go-pg/pg/orm"
)

// Datastore defines all operations on the DB
// This interface can be mocked out for tests, etc.
type Datastore interface {
	Mutations
	Queries
}

// Mutations write to the database
type Mutations interface {
	GenericMutations
	AddAccount(account *Account, referrerID int64, referralBonus int64) error
	ApplyEntry(accountID int64, amount int64, kind LedgerEntryKind, description string) (*LedgerEntry, error)
	DebitAccount(accountID int64, amount int64, kind LedgerEntryKind, description string) (*LedgerEntry, error)
	RecordDeposit(accountID int64, paymentRef string, stars int64, coins int64) (bool, error)
	AddTask(task *Task) error
	CreateTaskPaid(ownerID int64, channelHandle string, reward int64, totalBudget int64) (*Task, error)
	CompleteTask(taskID int64, userID int64) (*Task, error)
	DeactivateTask(taskID int64, ownerID int64) error
	UpsertChat(chat *Chat) error
	AddChatSponsor(sponsor *ChatSponsor) error
	RemoveChatSponsor(chatID int64, sponsorHandle string) error
}

// Queries read from the database
type Queries interface {
	GenericQueries
	AccountByID(id int64) (*Account, error)
	EntriesByAccount(accountID int64, limit int) ([]LedgerEntry, error)
	ActiveTasks(excludeOwnerID int64, limit int) ([]Task, error)
	TasksByOwner(ownerID int64) ([]Task, error)
	TaskByID(id int64) (*Task, error)
	HasCompleted(taskID int64, userID int64) (bool, error)
	ChatSponsors(chatID int64) ([]ChatSponsor, error)
}

// Timestamps carries the default timestamp fields for any derived model
type Timestamps struct {
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// BeforeInsert is the hook that fills in the created_at and updated_at fields
func (m *Timestamps) BeforeInsert(ctx context.Context, db orm.DB) error {
	now := time.Now()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	if m.UpdatedAt.IsZero() {
		m.UpdatedAt = now
	}
	return nil
}

// BeforeUpdate is the hook that updates the updated_at field
func (m *Timestamps) BeforeUpdate(ctx context.Context, db orm.DB) error {
	m.UpdatedAt = time.Now()
	return nil
}
