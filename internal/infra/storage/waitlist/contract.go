package waitlist

import (
	"github.com/fairwaylabs/teesheet-service/pkg/dbmetrics"
)

// DBExecutor abstracts query execution over either a plain connection
// pool or a transaction resolved from the context.
type DBExecutor = dbmetrics.DBExecutor

// TxExecutor is an executor bound to an open transaction.
type TxExecutor = dbmetrics.TxExecutor
