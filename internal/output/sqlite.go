package output

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/san-kum/ecosim/internal/bgc"
)

const annualSchema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id  TEXT PRIMARY KEY,
	mode    TEXT NOT NULL,
	created TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE IF NOT EXISTS annual (
	run_id   TEXT NOT NULL REFERENCES runs(run_id),
	year     INTEGER NOT NULL,
	met_year INTEGER NOT NULL,
	gpp      REAL, npp REAL, nep REAL, nee REAL, hr REAL,
	prcp     REAL, et REAL, outflow REAL, max_lai REAL,
	soil_c   REAL, veg_c REAL, total_c REAL, soil_n REAL,
	PRIMARY KEY (run_id, year)
);`

// SQLiteSink streams annual summaries into a SQLite database. Several runs
// may share one database; rows are keyed by run id.
type SQLiteSink struct {
	db    *sql.DB
	runID uuid.UUID
	stmt  *sql.Stmt
}

// OpenSQLite opens or creates the database and registers the run.
func OpenSQLite(path string, runID uuid.UUID, mode string) (*SQLiteSink, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, &bgc.IOError{Op: "open sqlite", Path: path, Err: err}
	}
	db.SetMaxOpenConns(1)

	for _, q := range []string{"PRAGMA journal_mode = WAL", "PRAGMA foreign_keys = ON", annualSchema} {
		if _, err := db.Exec(q); err != nil {
			db.Close()
			return nil, &bgc.IOError{Op: "init sqlite", Path: path, Err: err}
		}
	}
	if _, err := db.Exec(`INSERT INTO runs (run_id, mode) VALUES (?, ?)`, runID.String(), mode); err != nil {
		db.Close()
		return nil, &bgc.IOError{Op: "register run", Path: path, Err: err}
	}

	stmt, err := db.Prepare(`INSERT INTO annual
		(run_id, year, met_year, gpp, npp, nep, nee, hr, prcp, et, outflow, max_lai, soil_c, veg_c, total_c, soil_n)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		db.Close()
		return nil, &bgc.IOError{Op: "prepare sqlite", Path: path, Err: err}
	}
	return &SQLiteSink{db: db, runID: runID, stmt: stmt}, nil
}

func (s *SQLiteSink) WriteAnnual(a bgc.AnnualSummary) error {
	_, err := s.stmt.Exec(s.runID.String(), a.Year, a.MetYear,
		a.GPP, a.NPP, a.NEP, a.NEE, a.HR, a.Prcp, a.ET, a.Outflow, a.MaxLAI,
		a.SoilC, a.VegC, a.TotalC, a.SoilN)
	if err != nil {
		return fmt.Errorf("write annual year %d: %w", a.Year, err)
	}
	return nil
}

// Annual reads back the rows of this sink's run in year order.
func (s *SQLiteSink) Annual() ([]bgc.AnnualSummary, error) { return queryAnnual(s.db, s.runID) }

// ReadAnnual loads the annual rows of one run from an existing database.
func ReadAnnual(path string, runID uuid.UUID) ([]bgc.AnnualSummary, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, &bgc.IOError{Op: "open sqlite", Path: path, Err: err}
	}
	defer db.Close()
	rows, err := queryAnnual(db, runID)
	if err != nil {
		return nil, &bgc.IOError{Op: "read annual", Path: path, Err: err}
	}
	return rows, nil
}

func queryAnnual(db *sql.DB, runID uuid.UUID) ([]bgc.AnnualSummary, error) {
	rows, err := db.Query(`SELECT year, met_year, gpp, npp, nep, nee, hr, prcp, et, outflow, max_lai,
		soil_c, veg_c, total_c, soil_n FROM annual WHERE run_id = ? ORDER BY year`, runID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []bgc.AnnualSummary
	for rows.Next() {
		var a bgc.AnnualSummary
		if err := rows.Scan(&a.Year, &a.MetYear, &a.GPP, &a.NPP, &a.NEP, &a.NEE, &a.HR, &a.Prcp, &a.ET,
			&a.Outflow, &a.MaxLAI, &a.SoilC, &a.VegC, &a.TotalC, &a.SoilN); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *SQLiteSink) Close() error {
	if s.db == nil {
		return nil
	}
	s.stmt.Close()
	return s.db.Close()
}
