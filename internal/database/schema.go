package database

// schema is applied in full on every start; all statements are idempotent.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    email TEXT UNIQUE NOT NULL,
    password_hash TEXT NOT NULL DEFAULT '',
    name TEXT NOT NULL DEFAULT '',
    display_currency TEXT NOT NULL DEFAULT 'INR',
    created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS platforms (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT UNIQUE NOT NULL
);

CREATE TABLE IF NOT EXISTS sub_account_types (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT UNIQUE NOT NULL,
    type INTEGER NOT NULL,
    base_currency TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS user_platform_accounts (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id INTEGER NOT NULL REFERENCES users(id),
    platform_id INTEGER NOT NULL REFERENCES platforms(id),
    sub_account_type_id INTEGER NOT NULL REFERENCES sub_account_types(id),
    nickname TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS stocks (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    symbol TEXT NOT NULL,
    name TEXT NOT NULL,
    market INTEGER NOT NULL,
    currency TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS transactions (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id INTEGER NOT NULL REFERENCES users(id),
    platform_account_id INTEGER NOT NULL REFERENCES user_platform_accounts(id),
    stock_id INTEGER REFERENCES stocks(id),
    related_liability_id INTEGER REFERENCES liabilities(id),
    txn_action INTEGER NOT NULL,
    txn_date TEXT NOT NULL,
    quantity REAL,
    unit_price REAL,
    amount REAL NOT NULL,
    currency TEXT NOT NULL,
    fees REAL NOT NULL DEFAULT 0,
    notes TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_transactions_user_date ON transactions(user_id, txn_date);
CREATE INDEX IF NOT EXISTS idx_transactions_user_action ON transactions(user_id, txn_action);

CREATE TABLE IF NOT EXISTS stock_prices (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id INTEGER NOT NULL REFERENCES users(id),
    stock_id INTEGER NOT NULL REFERENCES stocks(id),
    price REAL NOT NULL,
    currency TEXT NOT NULL,
    as_of_date TEXT NOT NULL,
    source TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_stock_prices_user_date ON stock_prices(user_id, as_of_date);

CREATE TABLE IF NOT EXISTS holding_snapshots (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id INTEGER NOT NULL REFERENCES users(id),
    platform_account_id INTEGER REFERENCES user_platform_accounts(id),
    label TEXT NOT NULL,
    asset_category INTEGER NOT NULL,
    value REAL NOT NULL,
    currency TEXT NOT NULL,
    as_of_date TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_holding_snapshots_user_date ON holding_snapshots(user_id, as_of_date);

CREATE TABLE IF NOT EXISTS real_estate_valuations (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id INTEGER NOT NULL REFERENCES users(id),
    property_name TEXT NOT NULL,
    value REAL NOT NULL,
    currency TEXT NOT NULL,
    as_of_date TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS liabilities (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id INTEGER NOT NULL REFERENCES users(id),
    name TEXT NOT NULL,
    liability_type INTEGER NOT NULL,
    lender TEXT NOT NULL DEFAULT '',
    principal REAL NOT NULL DEFAULT 0,
    interest_rate REAL,
    tenure_months INTEGER,
    emi REAL,
    status INTEGER NOT NULL DEFAULT 1,
    created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS liability_snapshots (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id INTEGER NOT NULL REFERENCES users(id),
    liability_id INTEGER NOT NULL REFERENCES liabilities(id),
    outstanding REAL NOT NULL,
    as_of_date TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_liability_snapshots_user_date ON liability_snapshots(user_id, as_of_date);

CREATE TABLE IF NOT EXISTS fx_rates (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id INTEGER NOT NULL REFERENCES users(id),
    from_currency TEXT NOT NULL,
    to_currency TEXT NOT NULL,
    rate REAL NOT NULL,
    as_of_date TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_fx_rates_lookup ON fx_rates(user_id, from_currency, to_currency, as_of_date);

CREATE TABLE IF NOT EXISTS goals (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id INTEGER NOT NULL REFERENCES users(id),
    name TEXT NOT NULL,
    target_amount REAL NOT NULL,
    target_date TEXT,
    status INTEGER NOT NULL DEFAULT 1,
    created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS goal_transactions (
    goal_id INTEGER NOT NULL REFERENCES goals(id),
    transaction_id INTEGER NOT NULL REFERENCES transactions(id),
    PRIMARY KEY (goal_id, transaction_id)
);
`

// seed inserts the default platform and sub-account catalogue.
const seed = `
INSERT OR IGNORE INTO platforms (name) VALUES
    ('GROWW'), ('INDmoney'), ('ICICI'), ('HDFC'), ('KOTAK'), ('Zerodha');

INSERT OR IGNORE INTO sub_account_types (name, type, base_currency) VALUES
    ('Indian Stocks', 1, 'INR'),
    ('US Stocks', 2, 'USD'),
    ('Crypto Basket', 3, 'USD'),
    ('Mutual Funds', 4, 'INR'),
    ('Bond Holdings', 5, 'INR'),
    ('Savings', 6, 'INR');
`
