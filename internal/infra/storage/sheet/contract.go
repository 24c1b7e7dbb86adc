package sheet

import "github.com/fairwaylabs/teesheet-service/pkg/dbmetrics"

// Reuse the dbmetrics interfaces for database access so repositories work
// against *sql.DB, *sql.Tx and the metrics-wrapped handle alike.
type DBExecutor = dbmetrics.DBExecutor
type TxExecutor = dbmetrics.TxExecutor
