package fileledger

import "errors"

var (
	// ErrLedgerNotFound is returned when the ledger file does not exist yet.
	ErrLedgerNotFound = errors.New("ledger file not found, run the init-ledger command first")
	// ErrLedgerMalformed is returned when the ledger file cannot be decoded.
	ErrLedgerMalformed = errors.New("ledger file is malformed")
)
