// Package history persists finished searches in a local sqlite database so
// the client can show what was searched before.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/wordsearch/wordsearch/internal/session"
)

// Outcome is how a search ended.
type Outcome string

const (
	OutcomeCompleted Outcome = "completed"
	OutcomeFailed    Outcome = "failed"
	OutcomeStopped   Outcome = "stopped"
)

// Entry is one finished search.
type Entry struct {
	ID             int64
	Keyword        string
	Outcome        Outcome
	MatchCount     int
	ProcessedFiles int
	TotalFiles     int
	ErrorMessage   string
	FinishedAt     time.Time
}

// EntryFromState builds the entry for a terminal session state. It reports
// false for Idle and Active states.
func EntryFromState(st session.State, at time.Time) (Entry, bool) {
	e := Entry{Keyword: st.Keyword, FinishedAt: at}
	switch st.Phase {
	case session.PhaseCompleted:
		e.Outcome = OutcomeCompleted
		if st.Result != nil {
			e.Keyword = st.Result.Keyword
			e.MatchCount = st.Result.MatchCount
			e.ProcessedFiles = st.Result.ProcessedFiles
			e.TotalFiles = st.Result.TotalFiles
		}
	case session.PhaseFailed:
		e.Outcome = OutcomeFailed
		if st.Err != nil {
			e.ErrorMessage = st.Err.Message
		}
	case session.PhaseStopped:
		e.Outcome = OutcomeStopped
	default:
		return Entry{}, false
	}
	if e.Outcome != OutcomeCompleted && st.Progress != nil {
		e.MatchCount = st.Progress.MatchCount
		e.ProcessedFiles = st.Progress.ProcessedFiles
		e.TotalFiles = st.Progress.TotalFiles
	}
	return e, true
}

// Store wraps the history database.
type Store struct {
	*sql.DB
}

// Open opens (creating if needed) the database at path and migrates it.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("create history directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}
	// sqlite allows one writer; a single connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	s := &Store{DB: db}
	if err := s.Migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Record stores e and returns its ID.
func (s *Store) Record(e Entry) (int64, error) {
	result, err := s.Exec(`
		INSERT INTO searches (keyword, outcome, match_count, processed_files, total_files, error_message, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.Keyword, string(e.Outcome), e.MatchCount, e.ProcessedFiles, e.TotalFiles,
		nullString(e.ErrorMessage), e.FinishedAt.UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("record search %q: %w", e.Keyword, err)
	}
	return result.LastInsertId()
}

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(limit int) ([]Entry, error) {
	rows, err := s.Query(`
		SELECT id, keyword, outcome, match_count, processed_files, total_files, error_message, finished_at
		FROM searches ORDER BY finished_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list searches: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e       Entry
			outcome string
			errMsg  sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.Keyword, &outcome, &e.MatchCount, &e.ProcessedFiles,
			&e.TotalFiles, &errMsg, &e.FinishedAt); err != nil {
			return nil, fmt.Errorf("scan search row: %w", err)
		}
		e.Outcome = Outcome(outcome)
		e.ErrorMessage = errMsg.String
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Prune deletes all but the newest keep entries.
func (s *Store) Prune(keep int) (int64, error) {
	result, err := s.Exec(`
		DELETE FROM searches WHERE id NOT IN (
			SELECT id FROM searches ORDER BY finished_at DESC, id DESC LIMIT ?
		)`, keep)
	if err != nil {
		return 0, fmt.Errorf("prune searches: %w", err)
	}
	return result.RowsAffected()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
