package main

import (
	"fmt"

	"github.com/go-pg/migrations"
)

func init() {
	migrations.MustRegisterTx(func(db migrations.DB) error {
		fmt.Println("creating processed_payments table...")
		_, err := db.Exec(`
			CREATE TABLE processed_payments (
				id UUID NOT NULL PRIMARY KEY,
				account_id BIGINT NOT NULL REFERENCES accounts (id),
				payment_ref TEXT NOT NULL UNIQUE,
				stars BIGINT NOT NULL,
				coins BIGINT NOT NULL,
				created_at TIMESTAMP DEFAULT NOW(),
				updated_at TIMESTAMP DEFAULT NOW(),
				deleted_at TIMESTAMP
			)
		`)
		return err
	}, func(db migrations.DB) error {
		fmt.Println("dropping processed_payments table...")
		_, err := db.Exec(`DROP TABLE processed_payments`)
		return err
	})
}
