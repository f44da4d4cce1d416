// Package session holds the state of the currently attached database: its
// engine handle, schema snapshot, and the synthesized prompt derived from it.
//
// A Session is immutable once built. The Manager replaces its current session
// as a unit on attach/detach, never field by field, so a failed attach can
// never leave a partially populated session installed.
package session

import (
	"context"
	"sync"

	"github.com/intellisql/intellisql/internal/database"
	"github.com/intellisql/intellisql/internal/errs"
	"github.com/intellisql/intellisql/internal/llm"
	"github.com/intellisql/intellisql/internal/prompt"
	"github.com/intellisql/intellisql/internal/query"
	"github.com/intellisql/intellisql/internal/schema"
)

// Session is one attached database: source identity, open engine handle, the
// snapshot taken at attach time, and the prompt synthesized from it. All
// fields are fixed at construction.
type Session struct {
	source   string // file path or DSN identity shown to the user
	driver   database.Driver
	db       database.DB
	snapshot *schema.Snapshot
	prompt   string
	timeout  queryDeadline
}

type queryDeadline = func(context.Context) (context.Context, context.CancelFunc)

// Source returns the attached source's identity (file path or DSN).
func (s *Session) Source() string {
	return s.source
}

// Driver returns the engine the session is attached through.
func (s *Session) Driver() database.Driver {
	return s.driver
}

// Snapshot returns the schema snapshot taken when the session was attached.
func (s *Session) Snapshot() *schema.Snapshot {
	return s.snapshot
}

// Prompt returns the synthesized instruction document for this session.
func (s *Session) Prompt() string {
	return s.prompt
}

// Manager owns the current session and the completion provider. It is safe
// for concurrent use; the session pointer is swapped atomically under the
// lock on attach/detach.
type Manager struct {
	mu       sync.RWMutex
	current  *Session
	provider llm.Provider
	maxRows  int
}

// NewManager creates a Manager with no attached session.
// provider may be nil; Ask then fails with a completion error.
func NewManager(provider llm.Provider, maxRows int) *Manager {
	if maxRows <= 0 {
		maxRows = query.DefaultMaxRows
	}
	return &Manager{provider: provider, maxRows: maxRows}
}

// Attach opens the database described by cfg, introspects it, synthesizes
// the prompt, and installs the resulting session as current, closing any
// previously attached one. On any failure the prior session is left exactly
// as it was.
func (m *Manager) Attach(ctx context.Context, cfg *database.Config) (*Session, error) {
	db, err := Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	snap, err := db.InspectSchema(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}

	next := &Session{
		source:   cfg.DSN,
		driver:   cfg.Driver,
		db:       db,
		snapshot: snap,
		prompt:   prompt.Synthesize(snap),
		timeout:  deadlineFor(cfg),
	}

	m.mu.Lock()
	prev := m.current
	m.current = next
	m.mu.Unlock()

	if prev != nil {
		prev.db.Close()
	}
	return next, nil
}

// Detach closes and discards the current session. It is a no-op when nothing
// is attached.
func (m *Manager) Detach() {
	m.mu.Lock()
	prev := m.current
	m.current = nil
	m.mu.Unlock()

	if prev != nil {
		prev.db.Close()
	}
}

// Current returns the attached session, or an error when none is attached.
func (m *Manager) Current() (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.current == nil {
		return nil, errs.New(errs.ErrKindNotFound, "no database attached")
	}
	return m.current, nil
}

// AskResult pairs the generated SQL with the rows it produced.
type AskResult struct {
	SQL    string        `json:"sql"`
	Result *query.Result `json:"result"`
}

// Ask runs the full question pipeline against the current session: cached
// prompt + fresh question through the completion provider, then sanitize,
// then execute. Generated text that fails the read-only gate is never
// executed.
func (m *Manager) Ask(ctx context.Context, question string) (*AskResult, error) {
	sess, err := m.Current()
	if err != nil {
		return nil, err
	}
	if m.provider == nil {
		return nil, errs.New(errs.ErrKindCompletion, "no completion provider configured")
	}

	raw, err := m.provider.Complete(ctx, sess.prompt, question)
	if err != nil {
		return nil, err
	}

	sql, err := query.Sanitize(raw)
	if err != nil {
		return nil, err
	}

	res, err := m.runQuery(ctx, sess, sql)
	if err != nil {
		return nil, err
	}
	return &AskResult{SQL: sql, Result: res}, nil
}

// Run validates and executes a caller-supplied query against the current
// session, bypassing the completion provider.
func (m *Manager) Run(ctx context.Context, rawSQL string) (*query.Result, error) {
	sess, err := m.Current()
	if err != nil {
		return nil, err
	}

	sql, err := query.Sanitize(rawSQL)
	if err != nil {
		return nil, err
	}
	return m.runQuery(ctx, sess, sql)
}

func (m *Manager) runQuery(ctx context.Context, sess *Session, sql string) (*query.Result, error) {
	qctx, cancel := sess.timeout(ctx)
	defer cancel()
	return query.Execute(qctx, sess.db, sql, m.maxRows)
}

func deadlineFor(cfg *database.Config) queryDeadline {
	if cfg.QueryTimeout <= 0 {
		return func(ctx context.Context) (context.Context, context.CancelFunc) {
			return context.WithCancel(ctx)
		}
	}
	timeout := cfg.QueryTimeout
	return func(ctx context.Context) (context.Context, context.CancelFunc) {
		return context.WithTimeout(ctx, timeout)
	}
}
