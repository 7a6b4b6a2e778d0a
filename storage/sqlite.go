package storage

import (
	"database/sql"
	"encoding/json"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"pms_metrics/models"
)

// SQLiteStore is the local operational database: runs, logs, command queue
// and per-source stats. Canonical data and metric records live in Postgres.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		return nil, err
	}

	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sync_runs (
		id INTEGER PRIMARY KEY,
		source TEXT,
		started_at DATETIME,
		finished_at DATETIME,
		status TEXT,
		properties_seen INTEGER,
		units_seen INTEGER,
		residents_seen INTEGER,
		leases_seen INTEGER,
		records_skipped INTEGER,
		errors_count INTEGER,
		error_message TEXT
	);

	CREATE TABLE IF NOT EXISTS sync_logs (
		id INTEGER PRIMARY KEY,
		run_id INTEGER,
		timestamp DATETIME,
		level TEXT,
		message TEXT,
		source TEXT
	);

	CREATE TABLE IF NOT EXISTS commands (
		id INTEGER PRIMARY KEY,
		command TEXT,
		params JSON,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		processed_at DATETIME
	);

	CREATE TABLE IF NOT EXISTS source_stats (
		source TEXT PRIMARY KEY,
		last_run_at DATETIME,
		last_run_status TEXT,
		total_properties INTEGER,
		total_units INTEGER,
		success_rate REAL
	);

	CREATE INDEX IF NOT EXISTS idx_commands_pending ON commands(processed_at) WHERE processed_at IS NULL;
	CREATE INDEX IF NOT EXISTS idx_logs_run ON sync_logs(run_id, timestamp);
	CREATE INDEX IF NOT EXISTS idx_runs_status ON sync_runs(status, started_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) CreateRun(run *models.SyncRun) (int64, error) {
	result, err := s.db.Exec(`
		INSERT INTO sync_runs (source, started_at, status, properties_seen, units_seen,
			residents_seen, leases_seen, records_skipped, errors_count)
		VALUES (?, ?, ?, 0, 0, 0, 0, 0, 0)`,
		run.Source, run.StartedAt, run.Status)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

func (s *SQLiteStore) UpdateRun(run *models.SyncRun) error {
	_, err := s.db.Exec(`
		UPDATE sync_runs SET finished_at = ?, status = ?, properties_seen = ?,
			units_seen = ?, residents_seen = ?, leases_seen = ?, records_skipped = ?,
			errors_count = ?, error_message = ?
		WHERE id = ?`,
		run.FinishedAt, run.Status, run.PropertiesSeen,
		run.UnitsSeen, run.ResidentsSeen, run.LeasesSeen, run.RecordsSkipped,
		run.ErrorsCount, run.ErrorMessage, run.ID)
	return err
}

func (s *SQLiteStore) Log(runID *int64, level models.LogLevel, message, source string) error {
	entry := models.SyncLog{
		RunID:     runID,
		Timestamp: time.Now(),
		Level:     level,
		Message:   message,
		Source:    source,
	}
	_, err := s.db.Exec(`
		INSERT INTO sync_logs (run_id, timestamp, level, message, source)
		VALUES (?, ?, ?, ?, ?)`,
		entry.RunID, entry.Timestamp, entry.Level, entry.Message, entry.Source)
	return err
}

// GetRecentLogs returns the newest entries, most recent first.
func (s *SQLiteStore) GetRecentLogs(limit int) ([]models.SyncLog, error) {
	rows, err := s.db.Query(`
		SELECT id, run_id, timestamp, level, message, source
		FROM sync_logs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []models.SyncLog
	for rows.Next() {
		var entry models.SyncLog
		if err := rows.Scan(&entry.ID, &entry.RunID, &entry.Timestamp, &entry.Level, &entry.Message, &entry.Source); err != nil {
			return nil, err
		}
		logs = append(logs, entry)
	}
	return logs, rows.Err()
}

func (s *SQLiteStore) GetPendingCommands() ([]models.Command, error) {
	rows, err := s.db.Query(`
		SELECT id, command, params, created_at, processed_at
		FROM commands WHERE processed_at IS NULL ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cmds []models.Command
	for rows.Next() {
		var cmd models.Command
		var params sql.NullString
		if err := rows.Scan(&cmd.ID, &cmd.Command, &params, &cmd.CreatedAt, &cmd.ProcessedAt); err != nil {
			return nil, err
		}
		if params.Valid {
			cmd.Params = json.RawMessage(params.String)
		}
		cmds = append(cmds, cmd)
	}
	return cmds, rows.Err()
}

func (s *SQLiteStore) MarkCommandProcessed(id int64) error {
	_, err := s.db.Exec(`UPDATE commands SET processed_at = ? WHERE id = ?`, time.Now(), id)
	return err
}

func (s *SQLiteStore) EnqueueCommand(cmd models.CommandType, params *models.CommandParams) error {
	var paramsJSON []byte
	if params != nil {
		var err error
		if paramsJSON, err = json.Marshal(params); err != nil {
			return err
		}
	}
	_, err := s.db.Exec(`INSERT INTO commands (command, params) VALUES (?, ?)`, cmd, paramsJSON)
	return err
}

func (s *SQLiteStore) ParseCommandParams(cmd *models.Command) (*models.CommandParams, error) {
	if cmd.Params == nil || string(cmd.Params) == "null" {
		return &models.CommandParams{}, nil
	}
	var params models.CommandParams
	if err := json.Unmarshal(cmd.Params, &params); err != nil {
		return nil, err
	}
	return &params, nil
}

func (s *SQLiteStore) UpdateSourceStats(source string, totalProperties, totalUnits int) error {
	_, err := s.db.Exec(`
		INSERT INTO source_stats (source, last_run_at, last_run_status, total_properties, total_units, success_rate)
		SELECT
			?,
			(SELECT started_at FROM sync_runs WHERE source = ? ORDER BY started_at DESC LIMIT 1),
			(SELECT status FROM sync_runs WHERE source = ? ORDER BY started_at DESC LIMIT 1),
			?, ?,
			(SELECT CAST(SUM(CASE WHEN status = 'completed' THEN 1 ELSE 0 END) AS REAL) /
				NULLIF(COUNT(*), 0) FROM sync_runs WHERE source = ?)
		ON CONFLICT(source) DO UPDATE SET
			last_run_at = excluded.last_run_at,
			last_run_status = excluded.last_run_status,
			total_properties = excluded.total_properties,
			total_units = excluded.total_units,
			success_rate = excluded.success_rate`,
		source, source, source, totalProperties, totalUnits, source)
	return err
}

func (s *SQLiteStore) GetSourceStats(source string) (*models.SourceStats, error) {
	row := s.db.QueryRow(`
		SELECT source, last_run_at, last_run_status, total_properties, total_units, success_rate
		FROM source_stats WHERE source = ?`, source)

	var st models.SourceStats
	var lastStatus sql.NullString
	var successRate sql.NullFloat64
	err := row.Scan(&st.Source, &st.LastRunAt, &lastStatus, &st.TotalProperties, &st.TotalUnits, &successRate)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	st.LastRunStatus = lastStatus.String
	st.SuccessRate = successRate.Float64
	return &st, nil
}

func (s *SQLiteStore) GetLastRunTime(source string) (time.Time, error) {
	var lastRun time.Time
	err := s.db.QueryRow(`
		SELECT last_run_at FROM source_stats WHERE source = ?`, source).Scan(&lastRun)
	if err == sql.ErrNoRows {
		return time.Time{}, nil
	}
	return lastRun, err
}
