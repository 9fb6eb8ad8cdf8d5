package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	"github.com/huangsam/cyclereport/internal/contract"
	"github.com/huangsam/cyclereport/schema"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver
)

// Table names for run history.
const (
	runsTable      = "cyclereport_runs"
	cycleRowsTable = "cyclereport_cycle_rows"
)

// HistoryStoreImpl implements the HistoryStore interface.
type HistoryStoreImpl struct {
	db         *sql.DB
	backend    schema.DatabaseBackend
	driverName string
}

var _ contract.HistoryStore = &HistoryStoreImpl{} // Compile-time check

// NewHistoryStore creates a new HistoryStore with the specified backend.
func NewHistoryStore(backend schema.DatabaseBackend, connStr string) (contract.HistoryStore, error) {
	if backend == schema.NoneBackend || backend == "" {
		// Return a no-op store for disabled tracking
		return &HistoryStoreImpl{backend: schema.NoneBackend}, nil
	}

	db, driverName, err := openDatabase(backend, connStr)
	if err != nil {
		return nil, err
	}

	// Ping to verify connection
	if err := db.Ping(); err != nil {
		_ = db.Close()
		var connDetail string
		switch backend {
		case schema.MySQLBackend:
			connDetail = "Check that MySQL is running and the connection string is correct. Ensure user/password are valid."
		case schema.PostgreSQLBackend:
			connDetail = "Check that PostgreSQL is running and the connection string is correct. Ensure user/password are valid."
		default:
			connDetail = "Verify the database file is readable and writable."
		}
		return nil, fmt.Errorf("failed to connect to %s database: %w. %s", backend, err, connDetail)
	}

	if err := createHistoryTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create history tables: %w", err)
	}

	return &HistoryStoreImpl{
		db:         db,
		backend:    backend,
		driverName: driverName,
	}, nil
}

// openDatabase opens a handle for the backend without connecting.
func openDatabase(backend schema.DatabaseBackend, connStr string) (*sql.DB, string, error) {
	switch backend {
	case schema.SQLiteBackend:
		dbPath := connStr
		if dbPath == "" {
			dbPath = contract.GetHistoryDBFilePath()
		}
		db, err := sql.Open("sqlite", dbPath)
		if err != nil {
			return nil, "", fmt.Errorf("failed to open SQLite database at %q: %w. Check that the directory is writable", dbPath, err)
		}
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)
		return db, "sqlite", nil

	case schema.MySQLBackend:
		db, err := sql.Open("mysql", connStr)
		if err != nil {
			return nil, "", fmt.Errorf("failed to open MySQL database: %w. Check connection string format: user:password@tcp(host:port)/dbname", err)
		}
		return db, "mysql", nil

	case schema.PostgreSQLBackend:
		db, err := sql.Open("pgx", connStr)
		if err != nil {
			return nil, "", fmt.Errorf("failed to open PostgreSQL database: %w. Check connection string format: host=... dbname=...", err)
		}
		return db, "pgx", nil

	default:
		return nil, "", fmt.Errorf("unsupported backend: %s", backend)
	}
}

// createHistoryTables creates the run history tables.
func createHistoryTables(db *sql.DB, backend schema.DatabaseBackend) error {
	tables := []struct {
		name  string
		query string
	}{
		{runsTable, getCreateRunsQuery(backend)},
		{cycleRowsTable, getCreateCycleRowsQuery(backend)},
	}

	for _, table := range tables {
		if _, err := db.Exec(table.query); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.name, err)
		}
	}
	return nil
}

// getCreateRunsQuery returns the CREATE TABLE query for cyclereport_runs.
func getCreateRunsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(runsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT AUTO_INCREMENT PRIMARY KEY,
				quarter VARCHAR(16) NOT NULL,
				started_at DATETIME(6) NOT NULL,
				finished_at DATETIME(6),
				run_duration_ms INT,
				total_rows INT NOT NULL DEFAULT 0,
				config_params TEXT
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGSERIAL PRIMARY KEY,
				quarter TEXT NOT NULL,
				started_at TIMESTAMPTZ NOT NULL,
				finished_at TIMESTAMPTZ,
				run_duration_ms INT,
				total_rows INT NOT NULL DEFAULT 0,
				config_params TEXT
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER PRIMARY KEY AUTOINCREMENT,
				quarter TEXT NOT NULL,
				started_at TEXT NOT NULL,
				finished_at TEXT,
				run_duration_ms INTEGER,
				total_rows INTEGER NOT NULL DEFAULT 0,
				config_params TEXT
			);
		`, quotedTableName)
	}
}

// getCreateCycleRowsQuery returns the CREATE TABLE query for cyclereport_cycle_rows.
func getCreateCycleRowsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(cycleRowsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				team_name VARCHAR(255) NOT NULL,
				cycle_number INT NOT NULL,
				start_date CHAR(10) NOT NULL,
				end_date CHAR(10) NOT NULL,
				total_issues INT NOT NULL,
				completed_issues INT NOT NULL,
				completion_pct INT NOT NULL,
				scope_change INT NOT NULL,
				capacity_accuracy INT,
				PRIMARY KEY (run_id, team_name, cycle_number)
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				team_name TEXT NOT NULL,
				cycle_number INT NOT NULL,
				start_date TEXT NOT NULL,
				end_date TEXT NOT NULL,
				total_issues INT NOT NULL,
				completed_issues INT NOT NULL,
				completion_pct INT NOT NULL,
				scope_change INT NOT NULL,
				capacity_accuracy INT,
				PRIMARY KEY (run_id, team_name, cycle_number)
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER NOT NULL,
				team_name TEXT NOT NULL,
				cycle_number INTEGER NOT NULL,
				start_date TEXT NOT NULL,
				end_date TEXT NOT NULL,
				total_issues INTEGER NOT NULL,
				completed_issues INTEGER NOT NULL,
				completion_pct INTEGER NOT NULL,
				scope_change INTEGER NOT NULL,
				capacity_accuracy INTEGER,
				PRIMARY KEY (run_id, team_name, cycle_number)
			);
		`, quotedTableName)
	}
}

// disabled reports whether the store is a no-op.
func (hs *HistoryStoreImpl) disabled() bool {
	return hs.backend == schema.NoneBackend || hs.db == nil
}

// BeginRun creates a new report run and returns its unique ID.
func (hs *HistoryStoreImpl) BeginRun(quarter string, startedAt time.Time, configParams map[string]any) (int64, error) {
	if hs.disabled() {
		return 0, nil
	}

	configJSON, err := json.Marshal(configParams)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal config params: %w", err)
	}

	quotedTableName := quoteTableName(runsTable, hs.backend)

	var runID int64
	switch hs.backend {
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`INSERT INTO %s (quarter, started_at, config_params) VALUES ($1, $2, $3) RETURNING run_id`, quotedTableName)
		err = hs.db.QueryRow(query, quarter, startedAt.UTC(), string(configJSON)).Scan(&runID)
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s (quarter, started_at, config_params) VALUES (?, ?, ?)`, quotedTableName)
		var result sql.Result
		result, err = hs.db.Exec(query, quarter, formatTime(startedAt, hs.backend), string(configJSON))
		if err == nil {
			runID, err = result.LastInsertId()
		}
	}

	if err != nil {
		return 0, fmt.Errorf("failed to insert report run: %w", err)
	}
	return runID, nil
}

// RecordRows stores every derived row of a run in one transaction.
func (hs *HistoryStoreImpl) RecordRows(runID int64, rows []schema.DerivedRow) error {
	if hs.disabled() || len(rows) == 0 {
		return nil
	}

	query := hs.rebind(fmt.Sprintf(`
		INSERT INTO %s (run_id, team_name, cycle_number, start_date, end_date, total_issues,
		                completed_issues, completion_pct, scope_change, capacity_accuracy)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, quoteTableName(cycleRowsTable, hs.backend)))

	tx, err := hs.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("failed to prepare cycle row insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, r := range rows {
		if _, err := stmt.Exec(
			runID, r.TeamName, r.CycleNumber, r.StartDate, r.EndDate, r.TotalIssues,
			r.CompletedIssues, r.CompletionPercentage, r.ScopeChange, r.CapacityAccuracy.Pointer(),
		); err != nil {
			return fmt.Errorf("failed to insert cycle row %s #%d: %w", r.TeamName, r.CycleNumber, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit cycle rows: %w", err)
	}
	return nil
}

// EndRun updates the run with completion data.
func (hs *HistoryStoreImpl) EndRun(runID int64, finishedAt time.Time, totalRows int) error {
	if hs.disabled() {
		return nil
	}

	quotedTableName := quoteTableName(runsTable, hs.backend)

	// First, get the started_at to calculate duration
	var startedAt dbTime
	query := hs.rebind(fmt.Sprintf(`SELECT started_at FROM %s WHERE run_id = ?`, quotedTableName))
	if err := hs.db.QueryRow(query, runID).Scan(&startedAt); err != nil {
		return fmt.Errorf("failed to get started_at for run %d: %w", runID, err)
	}

	durationMs := finishedAt.Sub(startedAt.Time).Milliseconds()

	updateQuery := hs.rebind(fmt.Sprintf(`UPDATE %s SET finished_at = ?, run_duration_ms = ?, total_rows = ? WHERE run_id = ?`, quotedTableName))
	if _, err := hs.db.Exec(updateQuery, formatTime(finishedAt, hs.backend), durationMs, totalRows, runID); err != nil {
		return fmt.Errorf("failed to update report run: %w", err)
	}
	return nil
}

// Close closes the underlying connection.
func (hs *HistoryStoreImpl) Close() error {
	if hs.db != nil {
		return hs.db.Close()
	}
	return nil
}

// GetStatus returns status information about the history store.
func (hs *HistoryStoreImpl) GetStatus() (schema.HistoryStatus, error) {
	status := schema.HistoryStatus{
		Backend:    string(hs.backend),
		Connected:  hs.db != nil,
		TableSizes: make(map[string]int64),
	}

	if hs.disabled() {
		return status, nil
	}

	runs := quoteTableName(runsTable, hs.backend)
	if err := hs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", runs)).Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		var lastRunTime, oldestRunTime dbTime
		lastRunQuery := fmt.Sprintf("SELECT run_id, started_at FROM %s ORDER BY run_id DESC LIMIT 1", runs)
		if err := hs.db.QueryRow(lastRunQuery).Scan(&status.LastRunID, &lastRunTime); err != nil {
			return status, fmt.Errorf("failed to get last run info: %w", err)
		}
		status.LastRunTime = lastRunTime.Time

		oldestRunQuery := fmt.Sprintf("SELECT started_at FROM %s ORDER BY run_id ASC LIMIT 1", runs)
		if err := hs.db.QueryRow(oldestRunQuery).Scan(&oldestRunTime); err != nil {
			return status, fmt.Errorf("failed to get oldest run time: %w", err)
		}
		status.OldestRun = oldestRunTime.Time

		rowsQuery := fmt.Sprintf("SELECT COALESCE(SUM(total_rows), 0) FROM %s", runs)
		if err := hs.db.QueryRow(rowsQuery).Scan(&status.TotalRows); err != nil {
			return status, fmt.Errorf("failed to get total rows: %w", err)
		}
	}

	for _, table := range []string{runsTable, cycleRowsTable} {
		countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, hs.backend))
		var count int64
		if err := hs.db.QueryRow(countQuery).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}

	return status, nil
}

// GetAllRuns retrieves all report runs ordered by run ID.
func (hs *HistoryStoreImpl) GetAllRuns() ([]schema.ReportRunRecord, error) {
	if hs.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, quarter, started_at, finished_at, run_duration_ms, total_rows, config_params
		FROM %s ORDER BY run_id`, quoteTableName(runsTable, hs.backend))

	rows, err := hs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query report runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.ReportRunRecord
	for rows.Next() {
		var record schema.ReportRunRecord
		var startedAt, finishedAt dbTime
		if err := rows.Scan(&record.RunID, &record.Quarter, &startedAt, &finishedAt,
			&record.RunDurationMs, &record.TotalRows, &record.ConfigParams); err != nil {
			return nil, fmt.Errorf("failed to scan report run: %w", err)
		}
		record.StartedAt = startedAt.Time
		if finishedAt.Valid {
			t := finishedAt.Time
			record.FinishedAt = &t
		}
		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating report runs: %w", err)
	}
	return results, nil
}

// GetAllRows retrieves all stored cycle rows ordered by run, team and cycle.
func (hs *HistoryStoreImpl) GetAllRows() ([]schema.CycleRowRecord, error) {
	if hs.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, team_name, cycle_number, start_date, end_date, total_issues,
		completed_issues, completion_pct, scope_change, capacity_accuracy
		FROM %s ORDER BY run_id, team_name, cycle_number`, quoteTableName(cycleRowsTable, hs.backend))

	rows, err := hs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query cycle rows: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.CycleRowRecord
	for rows.Next() {
		var record schema.CycleRowRecord
		if err := rows.Scan(&record.RunID, &record.TeamName, &record.CycleNumber, &record.StartDate,
			&record.EndDate, &record.TotalIssues, &record.CompletedIssues, &record.CompletionPct,
			&record.ScopeChange, &record.CapacityAccuracy); err != nil {
			return nil, fmt.Errorf("failed to scan cycle row: %w", err)
		}
		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cycle rows: %w", err)
	}
	return results, nil
}

// rebind rewrites ? placeholders into $n for PostgreSQL.
func (hs *HistoryStoreImpl) rebind(query string) string {
	if hs.backend != schema.PostgreSQLBackend {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// formatTime converts a time.Time to the appropriate format for the backend.
func formatTime(t time.Time, backend schema.DatabaseBackend) any {
	switch backend {
	case schema.SQLiteBackend:
		return t.UTC().Format(time.RFC3339Nano)
	default:
		return t.UTC()
	}
}

// mysqlTimeLayout is how MySQL renders DATETIME(6) without parseTime.
const mysqlTimeLayout = "2006-01-02 15:04:05.999999"

// dbTime scans a timestamp column regardless of how the driver returns it.
type dbTime struct {
	Time  time.Time
	Valid bool
}

// Scan implements sql.Scanner.
func (dt *dbTime) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*dt = dbTime{}
		return nil
	case time.Time:
		*dt = dbTime{Time: v.UTC(), Valid: true}
		return nil
	case []byte:
		return dt.parse(string(v))
	case string:
		return dt.parse(v)
	default:
		return fmt.Errorf("unsupported timestamp type %T", src)
	}
}

func (dt *dbTime) parse(s string) error {
	for _, layout := range []string{time.RFC3339Nano, mysqlTimeLayout} {
		if t, err := time.Parse(layout, s); err == nil {
			*dt = dbTime{Time: t.UTC(), Valid: true}
			return nil
		}
	}
	return fmt.Errorf("failed to parse timestamp %q", s)
}
