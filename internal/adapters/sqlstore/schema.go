package sqlstore

// SQLiteSchema creates player_stats on SQLite. Postgres deployments use
// deploy/postgres.sql; the store itself never creates tables.
const SQLiteSchema = `CREATE TABLE IF NOT EXISTS player_stats (
	id        INTEGER PRIMARY KEY AUTOINCREMENT,
	player_id INTEGER   NOT NULL,
	timestamp TIMESTAMP NOT NULL,
	kills     INTEGER   NOT NULL DEFAULT 0,
	damage    INTEGER   NOT NULL DEFAULT 0,
	playtime  INTEGER   NOT NULL DEFAULT 0,
	resources INTEGER   NOT NULL DEFAULT 0
)`
