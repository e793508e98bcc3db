package migrations

import "database/sql"

func initPollingOffsetsTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE polling_offsets (
			bot_id BIGINT PRIMARY KEY,
			update_offset BIGINT NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMP NOT NULL DEFAULT NOW()
		);
	`)

	return err
}
