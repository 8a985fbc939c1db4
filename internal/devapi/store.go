// Package devapi is a reference backend for the accounts API, backed by SQLite and
// seeded from a YAML fixture.
package devapi

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver (pure Go)

	"github.com/jeebeez/another-signal/pkg/core"
)

// ErrNotFound is returned when an account does not exist.
var ErrNotFound = errors.New("account not found")

var errNotOpened = errors.New("database not opened")

// Store persists accounts, prospects and magic column answers.
type Store struct {
	db   *sql.DB
	path string
}

// OpenStore opens the SQLite database at path and runs the migrations.
// Use ":memory:" for an in-memory database.
func OpenStore(ctx context.Context, path string) (*Store, error) {
	dsn := path + "?_pragma=foreign_keys(on)"
	if path != ":memory:" {
		dsn += "&_pragma=journal_mode(wal)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	if path == ":memory:" {
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.Migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// NewStoreWithDB wraps an already migrated connection.
func NewStoreWithDB(db *sql.DB) *Store {
	return &Store{db: db}
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Seed replaces accounts and prospects with the fixture contents. Magic answers are
// kept, and answers carried by the fixture are upserted.
func (s *Store) Seed(ctx context.Context, f *Fixture) error {
	if s.db == nil {
		return errNotOpened
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM prospects`); err != nil {
		return fmt.Errorf("failed to clear prospects: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM accounts`); err != nil {
		return fmt.Errorf("failed to clear accounts: %w", err)
	}

	for i, fa := range f.Accounts {
		a := fa.Account
		_, err := tx.ExecContext(ctx,
			`INSERT INTO accounts (name, position, domain, linkedin_url, signal_description, signal_link, employees, funding_stage)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			a.Name, i, a.Domain, a.LinkedinURL, a.SignalDescription, a.SignalLink, a.Employees, a.FundingStage,
		)
		if err != nil {
			return fmt.Errorf("failed to insert account %q: %w", a.Name, err)
		}

		for j, p := range fa.Prospects {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO prospects (account_name, position, name, role, company, location, linkedin_url, email)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				a.Name, j, p.Name, p.Role, p.Company, p.Location, p.LinkedinURL, p.Email,
			)
			if err != nil {
				return fmt.Errorf("failed to insert prospect of %q: %w", a.Name, err)
			}
		}

		for _, mc := range a.MagicColumns {
			id, err := upsertQuestion(ctx, tx, mc.Question)
			if err != nil {
				return err
			}
			if err := upsertAnswer(ctx, tx, id, a.Name, mc.Generated); err != nil {
				return err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seed: %w", err)
	}
	return nil
}

// ListAccounts returns every account in fixture order with its magic columns in
// the order the questions were asked.
func (s *Store) ListAccounts(ctx context.Context) ([]core.Account, error) {
	if s.db == nil {
		return nil, errNotOpened
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT name, domain, linkedin_url, signal_description, signal_link, employees, funding_stage
		 FROM accounts ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	accounts := []core.Account{}
	index := make(map[string]int)
	for rows.Next() {
		var a core.Account
		if err := rows.Scan(&a.Name, &a.Domain, &a.LinkedinURL, &a.SignalDescription, &a.SignalLink, &a.Employees, &a.FundingStage); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		index[a.Name] = len(accounts)
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	answers, err := s.answers(ctx, "")
	if err != nil {
		return nil, err
	}
	for _, ans := range answers {
		if i, ok := index[ans.account]; ok {
			accounts[i].MagicColumns = append(accounts[i].MagicColumns, ans.column)
		}
	}
	return accounts, nil
}

// GetAccount returns the account named name or ErrNotFound.
func (s *Store) GetAccount(ctx context.Context, name string) (core.Account, error) {
	if s.db == nil {
		return core.Account{}, errNotOpened
	}

	var a core.Account
	err := s.db.QueryRowContext(ctx,
		`SELECT name, domain, linkedin_url, signal_description, signal_link, employees, funding_stage
		 FROM accounts WHERE name = ?`, name,
	).Scan(&a.Name, &a.Domain, &a.LinkedinURL, &a.SignalDescription, &a.SignalLink, &a.Employees, &a.FundingStage)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Account{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return core.Account{}, fmt.Errorf("failed to get account: %w", err)
	}

	answers, err := s.answers(ctx, name)
	if err != nil {
		return core.Account{}, err
	}
	for _, ans := range answers {
		a.MagicColumns = append(a.MagicColumns, ans.column)
	}
	return a, nil
}

// ListProspects returns the prospects of the account named name. An unknown account
// has no prospects.
func (s *Store) ListProspects(ctx context.Context, name string) ([]core.Prospect, error) {
	if s.db == nil {
		return nil, errNotOpened
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT name, role, company, location, linkedin_url, email
		 FROM prospects WHERE account_name = ? ORDER BY position`, name)
	if err != nil {
		return nil, fmt.Errorf("failed to list prospects: %w", err)
	}
	defer func() { _ = rows.Close() }()

	prospects := []core.Prospect{}
	for rows.Next() {
		var p core.Prospect
		if err := rows.Scan(&p.Name, &p.Role, &p.Company, &p.Location, &p.LinkedinURL, &p.Email); err != nil {
			return nil, fmt.Errorf("failed to scan prospect: %w", err)
		}
		prospects = append(prospects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list prospects: %w", err)
	}
	return prospects, nil
}

// AddMagicColumn answers question for every account with gen and stores the answers.
// Asking a question again regenerates its answers. It returns the number of answers.
func (s *Store) AddMagicColumn(ctx context.Context, question string, gen Generator) (int, error) {
	if s.db == nil {
		return 0, errNotOpened
	}
	question = strings.TrimSpace(question)
	if question == "" {
		return 0, ErrBlankQuestion
	}

	accounts, err := s.ListAccounts(ctx)
	if err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	id, err := upsertQuestion(ctx, tx, question)
	if err != nil {
		return 0, err
	}
	for _, a := range accounts {
		if err := upsertAnswer(ctx, tx, id, a.Name, gen.Answer(question, a)); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit magic column: %w", err)
	}
	return len(accounts), nil
}

type answer struct {
	account string
	column  core.MagicColumn
}

// answers loads magic answers, of one account when name is set.
func (s *Store) answers(ctx context.Context, name string) ([]answer, error) {
	query := `SELECT a.account_name, q.question, a.answer, a.reasoning
		FROM magic_answers a JOIN magic_questions q ON q.id = a.question_id`
	var args []any
	if name != "" {
		query += ` WHERE a.account_name = ?`
		args = append(args, name)
	}
	query += ` ORDER BY q.id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load magic columns: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []answer
	for rows.Next() {
		var ans answer
		if err := rows.Scan(&ans.account, &ans.column.Question, &ans.column.Generated.Answer, &ans.column.Generated.Reasoning); err != nil {
			return nil, fmt.Errorf("failed to scan magic column: %w", err)
		}
		out = append(out, ans)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to load magic columns: %w", err)
	}
	return out, nil
}

func upsertQuestion(ctx context.Context, tx *sql.Tx, question string) (int64, error) {
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO magic_questions (question) VALUES (?) ON CONFLICT (question) DO NOTHING`, question); err != nil {
		return 0, fmt.Errorf("failed to save question: %w", err)
	}
	var id int64
	if err := tx.QueryRowContext(ctx, `SELECT id FROM magic_questions WHERE question = ?`, question).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to load question: %w", err)
	}
	return id, nil
}

func upsertAnswer(ctx context.Context, tx *sql.Tx, questionID int64, account string, g core.Generated) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO magic_answers (question_id, account_name, answer, reasoning) VALUES (?, ?, ?, ?)
		 ON CONFLICT (question_id, account_name) DO UPDATE SET answer = excluded.answer, reasoning = excluded.reasoning`,
		questionID, account, g.Answer, g.Reasoning)
	if err != nil {
		return fmt.Errorf("failed to save answer for %q: %w", account, err)
	}
	return nil
}
