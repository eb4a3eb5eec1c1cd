package store

const CreateTables string = `
	CREATE TABLE accounts (
		id	INTEGER PRIMARY KEY,
		name	TEXT
	);
	CREATE TABLE drinks (
		id	INTEGER PRIMARY KEY,
		name	TEXT,
		sales_price	INTEGER,
		purchase_price	INTEGER,
		deposit	INTEGER,
		bottles_full	INTEGER,
		bottles_empty	INTEGER,
		deleted	BOOL,
		kings_eligible	BOOL
	);
	CREATE TABLE leaderboard (
		account_id	INTEGER,
		drink_id	INTEGER,
		quaffed	INTEGER
	);
	CREATE TABLE transactions (
		group_id	INTEGER,
		account_id	INTEGER,
		drink_id	INTEGER,
		count	INTEGER,
		value	INTEGER,
		timestamp	DATETIME
	);
	`

const CreateIndexes string = `
	CREATE INDEX IF NOT EXISTS transactions_group_id ON transactions ( group_id ASC );
	CREATE INDEX IF NOT EXISTS transactions_account_id ON transactions ( account_id ASC );
	CREATE INDEX IF NOT EXISTS leaderboard_account_drink ON leaderboard ( account_id, drink_id );
`

// Each probe must succeed against an existing database, otherwise the file
// was created by something else and is refused.
var schemaProbes = map[string]string{
	"accounts":     "SELECT id, name FROM accounts LIMIT 0",
	"drinks":       "SELECT id, name, sales_price, purchase_price, deposit, bottles_full, bottles_empty, deleted, kings_eligible FROM drinks LIMIT 0",
	"leaderboard":  "SELECT account_id, drink_id, quaffed FROM leaderboard LIMIT 0",
	"transactions": "SELECT group_id, account_id, drink_id, count, value, timestamp FROM transactions LIMIT 0",
}

var tableNames = []string{"accounts", "drinks", "leaderboard", "transactions"}
