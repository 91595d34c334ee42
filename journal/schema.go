package journal

const Schema = `
CREATE TABLE IF NOT EXISTS estimates (
	id TEXT PRIMARY KEY,
	instrument TEXT NOT NULL,
	atr TEXT NOT NULL,
	atr_window INTEGER NOT NULL,
	decimal_places INTEGER NOT NULL,
	as_of DATETIME NOT NULL,
	recorded_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS calculations (
	id TEXT PRIMARY KEY,
	instrument TEXT NOT NULL,
	direction TEXT NOT NULL,
	entry TEXT NOT NULL,
	atr TEXT NOT NULL,
	risk_reward TEXT NOT NULL,
	stop_loss TEXT NOT NULL,
	take_profit TEXT NOT NULL,
	decimal_places INTEGER NOT NULL,
	created_at DATETIME NOT NULL,
	note TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_calculations_created ON calculations(created_at);
CREATE INDEX IF NOT EXISTS idx_estimates_instrument ON estimates(instrument, recorded_at);
`
