package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS user_state (
    id                   INTEGER PRIMARY KEY CHECK (id = 1),
    virtual_income       REAL NOT NULL,
    current_balance      REAL NOT NULL,
    savings              REAL NOT NULL,
    debt                 REAL NOT NULL,
    stability_index      REAL NOT NULL,
    stress_level         REAL NOT NULL,
    month                INTEGER NOT NULL,
    active_scenario      TEXT NOT NULL DEFAULT '',
    updated_at           TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS categories (
    category_id          TEXT PRIMARY KEY,
    name                 TEXT NOT NULL,
    icon                 TEXT,
    allocated            REAL NOT NULL DEFAULT 0,
    recommended_min      REAL NOT NULL DEFAULT 0,
    recommended_max      REAL NOT NULL DEFAULT 0,
    color                TEXT,
    disabled             INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS restrictions (
    id                   INTEGER PRIMARY KEY CHECK (id = 1),
    daily_limit          REAL NOT NULL DEFAULT 0,
    daily_spent          REAL NOT NULL DEFAULT 0,
    monthly_cap          REAL NOT NULL DEFAULT 0,
    monthly_spent        REAL NOT NULL DEFAULT 0,
    warn_at_percent      REAL NOT NULL DEFAULT 80
);

CREATE TABLE IF NOT EXISTS category_limits (
    category_id          TEXT PRIMARY KEY,
    limit_amount         REAL NOT NULL,
    spent                REAL NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS profile (
    id                   INTEGER PRIMARY KEY CHECK (id = 1),
    monthly_income       REAL NOT NULL,
    existing_savings     REAL NOT NULL DEFAULT 0,
    total_debt           REAL NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS recurring_expenses (
    expense_id           TEXT PRIMARY KEY,
    name                 TEXT NOT NULL,
    amount               REAL NOT NULL,
    category             TEXT
);

CREATE TABLE IF NOT EXISTS monthly_results (
    month                INTEGER PRIMARY KEY,
    remaining_balance    REAL NOT NULL,
    total_savings        REAL NOT NULL,
    total_debt           REAL NOT NULL,
    stability_index      REAL NOT NULL,
    stress_level         REAL NOT NULL,
    recorded_at          TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS allocation_log (
    month                INTEGER NOT NULL,
    category_id          TEXT NOT NULL,
    percent              REAL NOT NULL,
    synced               INTEGER NOT NULL DEFAULT 1,
    updated_at           TEXT NOT NULL,
    PRIMARY KEY (month, category_id)
);

CREATE INDEX IF NOT EXISTS idx_allocation_log_synced ON allocation_log(synced);
`
