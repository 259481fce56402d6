package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bnema/llm-council/internal/domain"
	"github.com/bnema/llm-council/internal/ports"
)

// TemplateStore shares the session database. Members are stored as one JSON column.
type TemplateStore struct {
	db *sql.DB
}

var _ ports.TemplateStore = (*TemplateStore)(nil)

func (s *Store) Templates() *TemplateStore {
	return &TemplateStore{db: s.db}
}

func (s *TemplateStore) Get(ctx context.Context, id domain.TemplateID) (domain.CouncilTemplate, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, description, members, created_at, updated_at FROM council_templates WHERE id = ?`,
		string(id),
	)
	template, err := scanTemplate(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.CouncilTemplate{}, domain.ErrTemplateNotFound
	}
	if err != nil {
		return domain.CouncilTemplate{}, fmt.Errorf("get council template: %w", err)
	}
	return template, nil
}

func (s *TemplateStore) Put(ctx context.Context, template domain.CouncilTemplate) error {
	members, err := json.Marshal(template.Members)
	if err != nil {
		return fmt.Errorf("encode template members: %w", err)
	}

	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO council_templates(id, name, description, members, created_at, updated_at)
		 VALUES(?,?,?,?,?,?)
		 ON CONFLICT(id) DO UPDATE SET
			name=excluded.name,
			description=excluded.description,
			members=excluded.members,
			updated_at=excluded.updated_at`,
		string(template.ID), template.Name, template.Description, string(members),
		formatTime(template.CreatedAt), formatTime(template.UpdatedAt),
	); err != nil {
		return fmt.Errorf("save council template: %w", err)
	}
	return nil
}

func (s *TemplateStore) Delete(ctx context.Context, id domain.TemplateID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM council_templates WHERE id = ?`, string(id))
	if err != nil {
		return fmt.Errorf("delete council template: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete council template: %w", err)
	}
	if affected == 0 {
		return domain.ErrTemplateNotFound
	}
	return nil
}

func (s *TemplateStore) List(ctx context.Context) ([]domain.CouncilTemplate, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, description, members, created_at, updated_at FROM council_templates ORDER BY updated_at DESC, id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list council templates: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var templates []domain.CouncilTemplate
	for rows.Next() {
		template, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan council template: %w", err)
		}
		templates = append(templates, template)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list council templates: %w", err)
	}
	return templates, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTemplate(row rowScanner) (domain.CouncilTemplate, error) {
	var (
		template  domain.CouncilTemplate
		id        string
		members   string
		createdAt string
		updatedAt string
	)
	if err := row.Scan(&id, &template.Name, &template.Description, &members, &createdAt, &updatedAt); err != nil {
		return domain.CouncilTemplate{}, err
	}
	template.ID = domain.TemplateID(id)
	if err := json.Unmarshal([]byte(members), &template.Members); err != nil {
		return domain.CouncilTemplate{}, fmt.Errorf("decode template members: %w", err)
	}

	var err error
	if template.CreatedAt, err = parseTime(createdAt); err != nil {
		return domain.CouncilTemplate{}, err
	}
	if template.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return domain.CouncilTemplate{}, err
	}
	return template, nil
}
