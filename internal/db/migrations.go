package db

import (
	"database/sql"
	"fmt"
)

// migrations is an ordered list of SQL statements to run.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS properties (
		id                 INTEGER PRIMARY KEY AUTOINCREMENT,
		address            TEXT    NOT NULL,
		property_type      TEXT    NOT NULL DEFAULT '',
		price              INTEGER,
		availability_state TEXT    NOT NULL DEFAULT 'available'
		                   CHECK (availability_state IN ('available', 'sold', 'rented')),
		created_at         DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at         DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS clients (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		name        TEXT    NOT NULL,
		email       TEXT    NOT NULL DEFAULT '',
		phone       TEXT    NOT NULL DEFAULT '',
		document_id TEXT    NOT NULL DEFAULT '',
		created_at  DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS agents (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		name       TEXT    NOT NULL,
		email      TEXT    NOT NULL DEFAULT '',
		phone      TEXT    NOT NULL DEFAULT '',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS sales (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		property_id INTEGER NOT NULL REFERENCES properties(id) ON DELETE RESTRICT,
		client_id   INTEGER NOT NULL REFERENCES clients(id) ON DELETE RESTRICT,
		agent_id    INTEGER REFERENCES agents(id) ON DELETE SET NULL,
		value       REAL    NOT NULL CHECK (value > 0),
		commission  REAL    CHECK (commission IS NULL OR commission >= 0),
		sale_date   TEXT    NOT NULL,
		notes       TEXT    NOT NULL DEFAULT '',
		created_at  DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_sales_property ON sales(property_id)`,
	`CREATE TABLE IF NOT EXISTS rentals (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		property_id  INTEGER NOT NULL REFERENCES properties(id) ON DELETE RESTRICT,
		client_id    INTEGER NOT NULL REFERENCES clients(id) ON DELETE RESTRICT,
		agent_id     INTEGER REFERENCES agents(id) ON DELETE SET NULL,
		start_date   TEXT    NOT NULL,
		end_date     TEXT    NOT NULL,
		monthly_rent REAL    NOT NULL CHECK (monthly_rent > 0),
		deposit      REAL    CHECK (deposit IS NULL OR deposit >= 0),
		status       TEXT    NOT NULL DEFAULT 'active'
		             CHECK (status IN ('active', 'overdue', 'delinquent', 'terminated')),
		notes        TEXT    NOT NULL DEFAULT '',
		created_at   DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at   DATETIME DEFAULT CURRENT_TIMESTAMP,
		CHECK (end_date > start_date)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_rentals_property ON rentals(property_id, start_date, end_date)`,
	`CREATE TABLE IF NOT EXISTS visits (
		id              INTEGER PRIMARY KEY AUTOINCREMENT,
		property_id     INTEGER NOT NULL REFERENCES properties(id) ON DELETE CASCADE,
		client_id       INTEGER NOT NULL REFERENCES clients(id) ON DELETE CASCADE,
		agent_id        INTEGER NOT NULL REFERENCES agents(id) ON DELETE RESTRICT,
		visit_date      TEXT    NOT NULL,
		visit_time      TEXT    NOT NULL,
		status          TEXT    NOT NULL DEFAULT 'scheduled'
		                CHECK (status IN ('scheduled', 'rescheduled', 'completed', 'cancelled')),
		interest_rating INTEGER CHECK (interest_rating IS NULL OR (interest_rating >= 1 AND interest_rating <= 5)),
		notes           TEXT    NOT NULL DEFAULT '',
		created_at      DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at      DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_visits_agent_slot ON visits(agent_id, visit_date, visit_time)`,
	`CREATE TABLE IF NOT EXISTS contracts (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		property_id   INTEGER NOT NULL REFERENCES properties(id) ON DELETE CASCADE,
		client_id     INTEGER NOT NULL REFERENCES clients(id) ON DELETE CASCADE,
		contract_type TEXT    NOT NULL CHECK (contract_type IN ('sale', 'rental')),
		number        TEXT    NOT NULL DEFAULT '',
		signed_date   TEXT    NOT NULL DEFAULT '',
		notes         TEXT    NOT NULL DEFAULT '',
		created_at    DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_contracts_party ON contracts(property_id, client_id, contract_type)`,
}

// migrate runs all migrations in order.
func migrate(db *sql.DB) error {
	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
