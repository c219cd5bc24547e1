package main

import (
	"fmt"

	"github.com/go-pg/migrations"
)

// Migration constants.
const (
	InitCreateAccounts = `
		CREATE TABLE accounts (
			id BIGINT NOT NULL PRIMARY KEY,
			username TEXT,
			first_name TEXT,
			balance BIGINT NOT NULL DEFAULT 0 CHECK (balance >= 0),
			referral_count BIGINT NOT NULL DEFAULT 0,
			referred_by BIGINT,
			created_at TIMESTAMP DEFAULT NOW(),
			updated_at TIMESTAMP DEFAULT NOW(),
			deleted_at TIMESTAMP
		);
	`

	InitCreateLedgerEntries = `
		CREATE TABLE ledger_entries (
			id BIGSERIAL NOT NULL PRIMARY KEY,
			account_id BIGINT NOT NULL REFERENCES accounts (id),
			amount BIGINT NOT NULL,
			kind VARCHAR (50) NOT NULL,
			description TEXT,
			created_at TIMESTAMP DEFAULT NOW(),
			updated_at TIMESTAMP DEFAULT NOW(),
			deleted_at TIMESTAMP
		);
	`

	InitCreateTasks = `
		CREATE TABLE tasks (
			id BIGSERIAL NOT NULL PRIMARY KEY,
			owner_id BIGINT NOT NULL REFERENCES accounts (id),
			channel_handle TEXT NOT NULL,
			reward BIGINT NOT NULL,
			total_budget BIGINT NOT NULL,
			completed_count BIGINT NOT NULL DEFAULT 0,
			active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMP DEFAULT NOW(),
			updated_at TIMESTAMP DEFAULT NOW(),
			deleted_at TIMESTAMP,
			CHECK (total_budget >= reward),
			CHECK (completed_count * reward <= total_budget)
		);
	`

	InitCreateTaskCompletions = `
		CREATE TABLE task_completions (
			id BIGSERIAL NOT NULL PRIMARY KEY,
			task_id BIGINT NOT NULL REFERENCES tasks (id),
			user_id BIGINT NOT NULL REFERENCES accounts (id),
			created_at TIMESTAMP DEFAULT NOW(),
			updated_at TIMESTAMP DEFAULT NOW(),
			deleted_at TIMESTAMP,
			UNIQUE (task_id, user_id)
		);
	`
)

func init() {
	migrations.MustRegisterTx(func(db migrations.DB) error {
		fmt.Println("creating accounts, ledger_entries, tasks and task_completions tables...")
		for _, stmt := range []string{
			InitCreateAccounts,
			InitCreateLedgerEntries,
			InitCreateTasks,
			InitCreateTaskCompletions,
		} {
			_, err := db.Exec(stmt)
			if err != nil {
				return err
			}
		}
		return nil
	}, func(db migrations.DB) error {
		fmt.Println("dropping accounts, ledger_entries, tasks and task_completions tables...")
		_, err := db.Exec(`DROP TABLE task_completions, tasks, ledger_entries, accounts`)
		return err
	})
}
