package journal

// Schema holds the single state document. The CHECK keeps it to one row.
const Schema = `
CREATE TABLE IF NOT EXISTS state_document (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	body TEXT NOT NULL,
	saved_at DATETIME NOT NULL
);
`
