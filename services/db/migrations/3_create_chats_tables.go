package main

import (
	"fmt"

	"github.com/go-pg/migrations"
)

func init() {
	migrations.MustRegisterTx(func(db migrations.DB) error {
		fmt.Println("creating chats and chat_sponsors tables...")
		_, err := db.Exec(`
			CREATE TABLE chats (
				id BIGINT NOT NULL PRIMARY KEY,
				owner_id BIGINT NOT NULL,
				chat_type TEXT,
				title TEXT,
				created_at TIMESTAMP DEFAULT NOW(),
				updated_at TIMESTAMP DEFAULT NOW(),
				deleted_at TIMESTAMP
			)
		`)
		if err != nil {
			return err
		}
		_, err = db.Exec(`
			CREATE TABLE chat_sponsors (
				id BIGSERIAL NOT NULL PRIMARY KEY,
				chat_id BIGINT NOT NULL REFERENCES chats (id),
				sponsor_handle TEXT NOT NULL,
				created_at TIMESTAMP DEFAULT NOW(),
				updated_at TIMESTAMP DEFAULT NOW(),
				deleted_at TIMESTAMP,
				UNIQUE (chat_id, sponsor_handle)
			)
		`)
		return err
	}, func(db migrations.DB) error {
		fmt.Println("dropping chats and chat_sponsors tables...")
		_, err := db.Exec(`DROP TABLE chat_sponsors, chats`)
		return err
	})
}
