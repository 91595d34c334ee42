package journal

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when a lookup matches no rows.
var ErrNotFound = errors.New("not found")

const calculationCols = `id, instrument, direction, entry, atr, risk_reward, stop_loss, take_profit, decimal_places, created_at, note`

type scanner interface {
	Scan(dest ...any) error
}

func scanCalculation(s scanner) (CalculationRecord, error) {
	var rec CalculationRecord
	err := s.Scan(
		&rec.ID,
		&rec.Instrument,
		&rec.Direction,
		&rec.Entry,
		&rec.ATR,
		&rec.RiskReward,
		&rec.StopLoss,
		&rec.TakeProfit,
		&rec.DecimalPlaces,
		&rec.CreatedAt,
		&rec.Note,
	)
	return rec, err
}

// GetCalculation returns a single calculation by ID.
func (j *SQLite) GetCalculation(id string) (CalculationRecord, error) {
	row := j.db.QueryRow(`SELECT `+calculationCols+` FROM calculations WHERE id = ?`, id)
	rec, err := scanCalculation(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return CalculationRecord{}, fmt.Errorf("calculation %q: %w", id, ErrNotFound)
		}
		return CalculationRecord{}, err
	}
	return rec, nil
}

// ListCalculationsBetween returns calculations created within [start, end), oldest first.
func (j *SQLite) ListCalculationsBetween(start, end time.Time) ([]CalculationRecord, error) {
	return j.listCalculations(`
		SELECT `+calculationCols+` FROM calculations
		WHERE created_at >= ? AND created_at < ?
		ORDER BY created_at ASC, id ASC`, start.UTC(), end.UTC())
}

// ListRecent returns the newest limit calculations, newest first.
func (j *SQLite) ListRecent(limit int) ([]CalculationRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	return j.listCalculations(`
		SELECT `+calculationCols+` FROM calculations
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, limit)
}

func (j *SQLite) listCalculations(query string, args ...any) ([]CalculationRecord, error) {
	rows, err := j.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CalculationRecord
	for rows.Next() {
		rec, err := scanCalculation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// LatestEstimate returns the last estimate recorded for instrument.
func (j *SQLite) LatestEstimate(instrument string) (EstimateRecord, error) {
	var e EstimateRecord
	err := j.db.QueryRow(`
		SELECT id, instrument, atr, atr_window, decimal_places, as_of, recorded_at
		FROM estimates WHERE instrument = ?
		ORDER BY recorded_at DESC, id DESC LIMIT 1`, instrument).Scan(
		&e.ID, &e.Instrument, &e.ATR, &e.Window, &e.DecimalPlaces, &e.AsOf, &e.RecordedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return EstimateRecord{}, fmt.Errorf("estimate for %s: %w", instrument, ErrNotFound)
	}
	return e, err
}
