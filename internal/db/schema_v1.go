package db

const initialSchemaV1 = `
CREATE TABLE IF NOT EXISTS folders (
    id      INTEGER PRIMARY KEY AUTOINCREMENT,
    name    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS prompts (
    id              INTEGER PRIMARY KEY AUTOINCREMENT,
    title           TEXT NOT NULL,
    content         TEXT NOT NULL,
    folder_id       INTEGER,
    current_version INTEGER NOT NULL DEFAULT 1,

    FOREIGN KEY (folder_id) REFERENCES folders(id) ON DELETE SET NULL
);

CREATE INDEX IF NOT EXISTS idx_prompts_folder ON prompts(folder_id);
CREATE INDEX IF NOT EXISTS idx_prompts_title  ON prompts(title);

CREATE TABLE IF NOT EXISTS prompt_versions (
    id             INTEGER PRIMARY KEY AUTOINCREMENT,
    prompt_id      INTEGER NOT NULL,
    title          TEXT NOT NULL,
    content        TEXT NOT NULL,
    folder_id      INTEGER,
    created_at     TEXT NOT NULL,
    version_number INTEGER NOT NULL,

    UNIQUE (prompt_id, version_number),
    FOREIGN KEY (prompt_id) REFERENCES prompts(id) ON DELETE CASCADE,
    FOREIGN KEY (folder_id) REFERENCES folders(id) ON DELETE SET NULL
);

CREATE INDEX IF NOT EXISTS idx_versions_prompt ON prompt_versions(prompt_id, version_number DESC);
`
