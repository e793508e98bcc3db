package migrations

import "database/sql"

func addNonNegativeCheckToPollingOffsetsTable(tx *sql.Tx) error {
	_, err := tx.Exec(`
		ALTER TABLE polling_offsets ADD CONSTRAINT polling_offsets_update_offset_check CHECK (update_offset >= 0);
	`)
	return err
}
