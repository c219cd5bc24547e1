package main

import (
	"fmt"

	"github.com/go-pg/migrations"
)

func init() {
	migrations.MustRegisterTx(func(db migrations.DB) error {
		fmt.Println("indexing ledger_entries, tasks and task_completions tables...")
		for _, stmt := range []string{
			`CREATE INDEX ledger_entries_account_id_idx ON ledger_entries (account_id)`,
			`CREATE INDEX tasks_owner_id_idx ON tasks (owner_id)`,
			`CREATE INDEX tasks_active_idx ON tasks (active) WHERE active = TRUE`,
			`CREATE INDEX task_completions_user_id_idx ON task_completions (user_id)`,
		} {
			_, err := db.Exec(stmt)
			if err != nil {
				return err
			}
		}
		return nil
	}, func(db migrations.DB) error {
		fmt.Println("dropping indexes on ledger_entries, tasks and task_completions tables...")
		for _, stmt := range []string{
			`DROP INDEX ledger_entries_account_id_idx`,
			`DROP INDEX tasks_owner_id_idx`,
			`DROP INDEX tasks_active_idx`,
			`DROP INDEX task_completions_user_id_idx`,
		} {
			_, err := db.Exec(stmt)
			if err != nil {
				return err
			}
		}
		return nil
	})
}
