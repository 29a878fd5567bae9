package postgres

import (
	"context"
	"fmt"
)

// schema is the idempotent DDL applied at startup. Amounts use
// NUMERIC(20,4) to match the engine's fixed-point scale, and every entry is
// owned by exactly one transaction.
const schema = `
CREATE TABLE IF NOT EXISTS accounts (
	id           UUID PRIMARY KEY,
	user_id      TEXT NOT NULL,
	account_type TEXT NOT NULL,
	currency     TEXT NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS transactions (
	id                     UUID PRIMARY KEY,
	type                   TEXT NOT NULL CHECK (type IN ('DEPOSIT', 'WITHDRAWAL', 'TRANSFER')),
	source_account_id      UUID REFERENCES accounts (id),
	destination_account_id UUID REFERENCES accounts (id),
	amount                 NUMERIC(20,4) NOT NULL CHECK (amount > 0),
	status                 TEXT NOT NULL CHECK (status IN ('COMPLETED', 'FAILED')),
	created_at             TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS ledger_entries (
	id             UUID PRIMARY KEY,
	account_id     UUID NOT NULL REFERENCES accounts (id),
	transaction_id UUID NOT NULL REFERENCES transactions (id),
	kind           TEXT NOT NULL CHECK (kind IN ('DEBIT', 'CREDIT')),
	amount         NUMERIC(20,4) NOT NULL CHECK (amount > 0),
	created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_ledger_entries_account_created
	ON ledger_entries (account_id, created_at);
`

// EnsureSchema creates the ledger tables when they do not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	s.log.Info("ledger schema ensured")
	return nil
}
