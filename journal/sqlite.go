package journal

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

var _ Journal = (*SQLite)(nil)

type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) RecordEstimate(e EstimateRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO estimates
		(id, instrument, atr, atr_window, decimal_places, as_of, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Instrument, e.ATR, e.Window, e.DecimalPlaces, e.AsOf.UTC(), e.RecordedAt.UTC(),
	)
	return err
}

func (j *SQLite) RecordCalculation(c CalculationRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO calculations
		(id, instrument, direction, entry, atr, risk_reward, stop_loss, take_profit, decimal_places, created_at, note)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Instrument, c.Direction, c.Entry, c.ATR, c.RiskReward,
		c.StopLoss, c.TakeProfit, c.DecimalPlaces, c.CreatedAt.UTC(), c.Note,
	)
	return err
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
