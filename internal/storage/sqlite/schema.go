package sqlite

const schema = `
-- Contacts table; position keeps directory insertion order
CREATE TABLE IF NOT EXISTS contacts (
    name TEXT PRIMARY KEY CHECK(length(name) > 0),
    position INTEGER NOT NULL,
    birthday TEXT
);

CREATE INDEX IF NOT EXISTS idx_contacts_position ON contacts(position);

-- Phones table; duplicates are allowed, position keeps per-contact order
CREATE TABLE IF NOT EXISTS phones (
    contact_name TEXT NOT NULL,
    position INTEGER NOT NULL,
    number TEXT NOT NULL,
    PRIMARY KEY (contact_name, position),
    FOREIGN KEY (contact_name) REFERENCES contacts(name) ON DELETE CASCADE
);

-- Saves table (audit trail of snapshots)
CREATE TABLE IF NOT EXISTS saves (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    id TEXT NOT NULL UNIQUE,
    saved_at TEXT NOT NULL,
    contact_count INTEGER NOT NULL
);
`
