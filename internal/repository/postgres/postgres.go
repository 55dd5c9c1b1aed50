// Package postgres implements the repositories on a single PostgreSQL JSONB table.
//
// Every document is a row of documents(collection, id, data, created_at);
// data holds the JSON form of the model and partial updates are merged with ||.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"portfolio/internal/model"
	"portfolio/internal/repository"
)

const profileID = "profile"

// Store is a PostgreSQL implementation of every repository interface.
// It uses database/sql with parameterized queries and contains no business logic.
type Store struct {
	db   *sql.DB
	feed *repository.Fanout
}

// New creates a Store. feed receives the notifications forwarded by a Listener.
func New(db *sql.DB, feed *repository.Fanout) *Store {
	return &Store{db: db, feed: feed}
}

// Repositories exposes the store through the repository interfaces.
func (s *Store) Repositories() repository.Store {
	return repository.Store{
		Projects: projects{s},
		Skills:   skills{s},
		Messages: messages{s},
		Profile:  profile{s},
		Changes:  s.feed,
		Ping:     s.db.PingContext,
		Close: func(context.Context) error {
			s.feed.CloseAll()
			return s.db.Close()
		},
	}
}

func (s *Store) insert(ctx context.Context, c repository.Collection, id string, createdAt time.Time, doc any) error {
	const q = `
		INSERT INTO documents (collection, id, data, created_at)
		VALUES ($1, $2, $3, $4)
	`
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode %s: %w", c, err)
	}
	_, err = s.db.ExecContext(ctx, q, string(c), id, data, createdAt)
	return err
}

func (s *Store) merge(ctx context.Context, c repository.Collection, id string, fields map[string]any) error {
	const q = `
		UPDATE documents SET data = data || $3::jsonb
		WHERE collection = $1 AND id = $2
	`
	data, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("encode %s patch: %w", c, err)
	}
	res, err := s.db.ExecContext(ctx, q, string(c), id, data)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (s *Store) delete(ctx context.Context, c repository.Collection, id string) error {
	const q = `DELETE FROM documents WHERE collection = $1 AND id = $2`
	_, err := s.db.ExecContext(ctx, q, string(c), id)
	return err
}

func (s *Store) get(ctx context.Context, c repository.Collection, id string, dst any) error {
	const q = `SELECT data FROM documents WHERE collection = $1 AND id = $2`
	var data []byte
	if err := s.db.QueryRowContext(ctx, q, string(c), id).Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return repository.ErrNotFound
		}
		return err
	}
	return json.Unmarshal(data, dst)
}

// list scans the data column of every row returned by q into a slice of T.
func list[T any](ctx context.Context, db *sql.DB, q string, args ...any) ([]T, error) {
	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]T, 0)
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var item T
		if err := json.Unmarshal(data, &item); err != nil {
			return nil, fmt.Errorf("decode row: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const (
	qListNewestFirst = `
		SELECT data FROM documents
		WHERE collection = $1
		ORDER BY created_at DESC, id DESC
	`
	qListByCategory = `
		SELECT data FROM documents
		WHERE collection = $1 AND data->>'category' = $2
		ORDER BY created_at DESC, id DESC
	`
	qListUnordered = `SELECT data FROM documents WHERE collection = $1`
)

type projects struct{ s *Store }

func (r projects) List(ctx context.Context) ([]model.Project, error) {
	return list[model.Project](ctx, r.s.db, qListNewestFirst, string(repository.Projects))
}

func (r projects) ListByCategory(ctx context.Context, category model.Category) ([]model.Project, error) {
	return list[model.Project](ctx, r.s.db, qListByCategory, string(repository.Projects), string(category))
}

func (r projects) Create(ctx context.Context, p *model.Project) (*model.Project, error) {
	doc := *p
	doc.ID = uuid.NewString()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}
	if doc.UpdatedAt.IsZero() {
		doc.UpdatedAt = doc.CreatedAt
	}
	if err := r.s.insert(ctx, repository.Projects, doc.ID, doc.CreatedAt, doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r projects) Update(ctx context.Context, id string, patch model.ProjectPatch) error {
	return r.s.merge(ctx, repository.Projects, id, patch.Fields())
}

func (r projects) Delete(ctx context.Context, id string) error {
	return r.s.delete(ctx, repository.Projects, id)
}

type skills struct{ s *Store }

func (r skills) List(ctx context.Context) ([]model.Skill, error) {
	return list[model.Skill](ctx, r.s.db, qListUnordered, string(repository.Skills))
}

func (r skills) Create(ctx context.Context, sk *model.Skill) (*model.Skill, error) {
	doc := *sk
	doc.ID = uuid.NewString()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}
	if err := r.s.insert(ctx, repository.Skills, doc.ID, doc.CreatedAt, doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r skills) Update(ctx context.Context, id string, patch model.SkillPatch) error {
	return r.s.merge(ctx, repository.Skills, id, patch.Fields())
}

func (r skills) Delete(ctx context.Context, id string) error {
	return r.s.delete(ctx, repository.Skills, id)
}

type messages struct{ s *Store }

func (r messages) List(ctx context.Context) ([]model.Message, error) {
	return list[model.Message](ctx, r.s.db, qListNewestFirst, string(repository.Messages))
}

func (r messages) Get(ctx context.Context, id string) (*model.Message, error) {
	var m model.Message
	if err := r.s.get(ctx, repository.Messages, id, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r messages) Create(ctx context.Context, m *model.Message) (*model.Message, error) {
	doc := *m
	doc.ID = uuid.NewString()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}
	if err := r.s.insert(ctx, repository.Messages, doc.ID, doc.CreatedAt, doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r messages) UpdateStatus(ctx context.Context, id string, status model.MessageStatus) error {
	return r.s.merge(ctx, repository.Messages, id, map[string]any{
		"status":    string(status),
		"updatedAt": time.Now().UTC(),
	})
}

func (r messages) Delete(ctx context.Context, id string) error {
	return r.s.delete(ctx, repository.Messages, id)
}

type profile struct{ s *Store }

func (r profile) Get(ctx context.Context) (*model.Profile, error) {
	var p model.Profile
	if err := r.s.get(ctx, repository.Profile, profileID, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r profile) Update(ctx context.Context, patch model.ProfilePatch) error {
	return r.s.merge(ctx, repository.Profile, profileID, patch.Fields())
}

func (r profile) Ensure(ctx context.Context, p model.Profile) error {
	const q = `
		INSERT INTO documents (collection, id, data)
		VALUES ($1, $2, $3)
		ON CONFLICT (collection, id) DO NOTHING
	`
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	_, err = r.s.db.ExecContext(ctx, q, string(repository.Profile), profileID, data)
	return err
}
