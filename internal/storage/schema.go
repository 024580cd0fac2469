package storage

const schema = `
-- The 'questions' table is the question bank. idx is the stable question
-- index review state is keyed by.
CREATE TABLE IF NOT EXISTS questions (
    idx INTEGER PRIMARY KEY AUTOINCREMENT,
    hash TEXT NOT NULL UNIQUE,
    question TEXT NOT NULL,
    answer TEXT NOT NULL DEFAULT '',
    context TEXT NOT NULL DEFAULT '',
    source TEXT NOT NULL DEFAULT ''
);

-- The 'blobs' table holds named text slots, such as the serialised review state.
CREATE TABLE IF NOT EXISTS blobs (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at DATETIME NOT NULL
);
`
