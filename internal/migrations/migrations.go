package migrations

import "github.com/lopezator/migrator"

// Migrations lists the schema changes in the order they are applied.
var Migrations = []any{
	&migrator.MigrationNoTx{
		Name: "Init polling offsets table",
		Func: initPollingOffsetsTable,
	},
	&migrator.Migration{
		Name: "Add non negative check to polling offsets table",
		Func: addNonNegativeCheckToPollingOffsetsTable,
	},
}
