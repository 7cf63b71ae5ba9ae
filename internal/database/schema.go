package database

// schema is applied in order. Every statement must be safe to re-run.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		phone_number TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS groups (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		currency CHAR(3) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS group_members (
		id BIGSERIAL PRIMARY KEY,
		group_id BIGINT NOT NULL REFERENCES groups(id) ON DELETE CASCADE,
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		status TEXT NOT NULL DEFAULT 'INVITED',
		role TEXT NOT NULL DEFAULT 'MEMBER',
		joined_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (group_id, user_id)
	)`,
	`CREATE TABLE IF NOT EXISTS expenses (
		id BIGSERIAL PRIMARY KEY,
		group_id BIGINT NOT NULL,
		paid_by BIGINT NOT NULL REFERENCES users(id),
		description TEXT NOT NULL,
		amount NUMERIC(18, 2) NOT NULL CHECK (amount > 0),
		currency CHAR(3) NOT NULL,
		split_type TEXT NOT NULL,
		kind TEXT NOT NULL DEFAULT 'EXPENSE',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_expenses_group_id ON expenses(group_id, created_at)`,
	`CREATE TABLE IF NOT EXISTS expense_splits (
		id BIGSERIAL PRIMARY KEY,
		expense_id BIGINT NOT NULL REFERENCES expenses(id) ON DELETE CASCADE,
		user_id BIGINT NOT NULL REFERENCES users(id),
		amount NUMERIC(18, 2) NOT NULL,
		percentage NUMERIC(7, 4),
		position INT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_expense_splits_expense_id ON expense_splits(expense_id, position)`,
	`CREATE TABLE IF NOT EXISTS settlements (
		id BIGSERIAL PRIMARY KEY,
		group_id BIGINT NOT NULL,
		payer_id BIGINT NOT NULL REFERENCES users(id),
		receiver_id BIGINT NOT NULL REFERENCES users(id),
		amount NUMERIC(18, 2) NOT NULL CHECK (amount > 0),
		currency CHAR(3) NOT NULL,
		status TEXT NOT NULL DEFAULT 'PENDING',
		payment_expense_id BIGINT REFERENCES expenses(id) ON DELETE SET NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_settlements_group_id ON settlements(group_id)`,
	// Ledger rows outlive their group; older databases carried a cascading key.
	`ALTER TABLE expenses DROP CONSTRAINT IF EXISTS expenses_group_id_fkey`,
	`ALTER TABLE settlements DROP CONSTRAINT IF EXISTS settlements_group_id_fkey`,
	`CREATE TABLE IF NOT EXISTS notifications (
		id BIGSERIAL PRIMARY KEY,
		recipient_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		message TEXT NOT NULL,
		is_read BOOLEAN NOT NULL DEFAULT FALSE,
		related_entity_type TEXT,
		related_entity_id BIGINT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_notifications_recipient ON notifications(recipient_id, is_read)`,
	`CREATE TABLE IF NOT EXISTS events (
		id UUID PRIMARY KEY,
		event_type TEXT NOT NULL,
		event_data JSONB,
		event_metadata JSONB,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_events_type ON events(event_type, created_at DESC)`,
}
