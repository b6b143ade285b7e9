package store

// SchemaSQL is the authoritative database schema. Tests build their in-memory
// databases from this constant so repository code and tests can never drift.
const SchemaSQL = `
CREATE TABLE IF NOT EXISTS customers (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT,
	phone TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_customers_phone ON customers(phone);

CREATE TABLE IF NOT EXISTS supervisors (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT,
	email TEXT
);

CREATE TABLE IF NOT EXISTS help_requests (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	customer_id INTEGER NOT NULL REFERENCES customers(id),
	question_text TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	state TEXT NOT NULL DEFAULT 'pending' CHECK(state IN ('pending', 'resolved', 'unresolved')),
	assigned_supervisor_id INTEGER,
	response_text TEXT,
	response_at DATETIME,
	timeout_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_help_requests_state ON help_requests(state);
CREATE INDEX IF NOT EXISTS idx_help_requests_timeout ON help_requests(timeout_at);

CREATE TABLE IF NOT EXISTS knowledge_base (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	question_text TEXT NOT NULL,
	answer_text TEXT NOT NULL,
	source_request_id INTEGER,
	created_by TEXT,
	created_at DATETIME NOT NULL,
	version INTEGER NOT NULL DEFAULT 1,
	tags TEXT,
	confidence TEXT
);

CREATE INDEX IF NOT EXISTS idx_knowledge_base_question ON knowledge_base(question_text);
`
