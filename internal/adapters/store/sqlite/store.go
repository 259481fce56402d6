package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bnema/llm-council/internal/domain"
	"github.com/bnema/llm-council/internal/ports"

	_ "modernc.org/sqlite"
)

var schema = []string{
	`PRAGMA journal_mode=WAL;`,
	`PRAGMA busy_timeout=5000;`,
	`CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		status TEXT NOT NULL,
		current_iteration INTEGER NOT NULL DEFAULT 0,
		total_iterations INTEGER NOT NULL,
		total_cost REAL NOT NULL DEFAULT 0,
		input_tokens INTEGER NOT NULL DEFAULT 0,
		output_tokens INTEGER NOT NULL DEFAULT 0,
		message TEXT NOT NULL DEFAULT '',
		error TEXT NOT NULL DEFAULT '',
		config TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);`,
	`CREATE INDEX IF NOT EXISTS idx_sessions_created_at ON sessions(created_at);`,
	`CREATE TABLE IF NOT EXISTS session_responses (
		session_id TEXT NOT NULL,
		seq INTEGER NOT NULL,
		id TEXT NOT NULL,
		provider TEXT NOT NULL,
		model TEXT NOT NULL,
		content TEXT NOT NULL,
		iteration INTEGER NOT NULL,
		kind TEXT NOT NULL,
		input_tokens INTEGER NOT NULL DEFAULT 0,
		output_tokens INTEGER NOT NULL DEFAULT 0,
		cost REAL NOT NULL DEFAULT 0,
		member_id TEXT NOT NULL DEFAULT '',
		member_role TEXT NOT NULL DEFAULT '',
		PRIMARY KEY(session_id, seq)
	);`,
	`CREATE TABLE IF NOT EXISTS council_templates (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		members TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);`,
}

// Store persists session snapshots so paused sessions survive restarts.
type Store struct {
	db *sql.DB
}

var _ ports.SessionStore = (*Store)(nil)

func Open(ctx context.Context, path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, fmt.Errorf("create session store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}
	// One connection serializes writers and keeps :memory: databases shared.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init session store schema: %w", err)
		}
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id domain.SessionID) (domain.SessionState, error) {
	var (
		state     domain.SessionState
		status    string
		config    string
		createdAt string
		updatedAt string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, status, current_iteration, total_iterations, total_cost, input_tokens, output_tokens, message, error, config, created_at, updated_at
		 FROM sessions WHERE id = ?`,
		string(id),
	).Scan(
		&state.SessionID, &status, &state.CurrentIteration, &state.TotalIterations, &state.TotalCost,
		&state.TotalTokens.Input, &state.TotalTokens.Output, &state.Message, &state.Error, &config, &createdAt, &updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.SessionState{}, domain.ErrSessionNotFound
	}
	if err != nil {
		return domain.SessionState{}, fmt.Errorf("get session: %w", err)
	}

	state.Status = domain.SessionStatus(status)
	if err := json.Unmarshal([]byte(config), &state.Config); err != nil {
		return domain.SessionState{}, fmt.Errorf("decode session config: %w", err)
	}
	if state.CreatedAt, err = parseTime(createdAt); err != nil {
		return domain.SessionState{}, err
	}
	if state.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return domain.SessionState{}, err
	}

	if err := s.loadResponses(ctx, &state); err != nil {
		return domain.SessionState{}, err
	}
	return state, nil
}

func (s *Store) loadResponses(ctx context.Context, state *domain.SessionState) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, provider, model, content, iteration, kind, input_tokens, output_tokens, cost, member_id, member_role
		 FROM session_responses WHERE session_id = ? ORDER BY seq`,
		string(state.SessionID),
	)
	if err != nil {
		return fmt.Errorf("list session responses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var (
			resp     domain.CouncilResponse
			provider string
			kind     string
			memberID string
		)
		if err := rows.Scan(&resp.ID, &provider, &resp.Model, &resp.Content, &resp.Iteration, &kind,
			&resp.Tokens.Input, &resp.Tokens.Output, &resp.Cost, &memberID, &resp.MemberRole); err != nil {
			return fmt.Errorf("scan session response: %w", err)
		}
		resp.Provider = domain.Provider(provider)
		resp.Kind = domain.ResponseKind(kind)
		resp.MemberID = domain.MemberID(memberID)

		if resp.Kind == domain.KindMerge {
			state.MergedResponses = append(state.MergedResponses, resp)
		} else {
			state.Responses = append(state.Responses, resp)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("list session responses: %w", err)
	}
	return nil
}

// Put replaces the snapshot and all of its responses in one transaction.
func (s *Store) Put(ctx context.Context, state domain.SessionState) (err error) {
	config, err := json.Marshal(state.Config)
	if err != nil {
		return fmt.Errorf("encode session config: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin session transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO sessions(id, status, current_iteration, total_iterations, total_cost, input_tokens, output_tokens, message, error, config, created_at, updated_at)
		 VALUES(?,?,?,?,?,?,?,?,?,?,?,?)
		 ON CONFLICT(id) DO UPDATE SET
			status=excluded.status,
			current_iteration=excluded.current_iteration,
			total_iterations=excluded.total_iterations,
			total_cost=excluded.total_cost,
			input_tokens=excluded.input_tokens,
			output_tokens=excluded.output_tokens,
			message=excluded.message,
			error=excluded.error,
			config=excluded.config,
			updated_at=excluded.updated_at`,
		string(state.SessionID), string(state.Status), state.CurrentIteration, state.TotalIterations, state.TotalCost,
		state.TotalTokens.Input, state.TotalTokens.Output, state.Message, state.Error, string(config),
		formatTime(state.CreatedAt), formatTime(state.UpdatedAt),
	); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM session_responses WHERE session_id = ?`, string(state.SessionID)); err != nil {
		return fmt.Errorf("clear session responses: %w", err)
	}

	seq := 0
	for _, list := range [][]domain.CouncilResponse{state.Responses, state.MergedResponses} {
		for _, resp := range list {
			if _, err = tx.ExecContext(ctx,
				`INSERT INTO session_responses(session_id, seq, id, provider, model, content, iteration, kind, input_tokens, output_tokens, cost, member_id, member_role)
				 VALUES(?,?,?,?,?,?,?,?,?,?,?,?,?)`,
				string(state.SessionID), seq, resp.ID, string(resp.Provider), resp.Model, resp.Content, resp.Iteration, string(resp.Kind),
				resp.Tokens.Input, resp.Tokens.Output, resp.Cost, string(resp.MemberID), resp.MemberRole,
			); err != nil {
				return fmt.Errorf("save session response: %w", err)
			}
			seq++
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit session: %w", err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id domain.SessionID) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin session transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	result, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, string(id))
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if affected == 0 {
		err = domain.ErrSessionNotFound
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM session_responses WHERE session_id = ?`, string(id)); err != nil {
		return fmt.Errorf("delete session responses: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit session delete: %w", err)
	}
	return nil
}

// List returns sessions newest first.
func (s *Store) List(ctx context.Context) ([]domain.SessionState, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM sessions ORDER BY created_at DESC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	var ids []domain.SessionID
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan session id: %w", err)
		}
		ids = append(ids, domain.SessionID(id))
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	_ = rows.Close()

	states := make([]domain.SessionState, 0, len(ids))
	for _, id := range ids {
		state, err := s.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		states = append(states, state)
	}
	return states, nil
}

// timeLayout has fixed-width fractions so created_at sorts as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(input string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, input)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse session timestamp %q: %w", input, err)
	}
	return t, nil
}
