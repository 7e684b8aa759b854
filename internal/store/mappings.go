package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/existflow/timelog/internal/model"
)

// ReplaceMappings swaps the whole project_settings table for the given rows in
// one transaction. Last full set wins; a failure leaves the previous set
// untouched.
func (s *Store) ReplaceMappings(ctx context.Context, mappings []model.ProjectTaskMapping) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storageErr("begin tx", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM project_settings`); err != nil {
		return storageErr("clear project settings", err)
	}

	for i, m := range mappings {
		id := m.ID
		if id == "" {
			id = uuid.NewString()
		}
		if _, err := tx.ExecContext(ctx,
			s.rebind(`INSERT INTO project_settings (id, project, task, position) VALUES (?, ?, ?, ?)`),
			id, m.Project, m.Task, i,
		); err != nil {
			return storageErr("insert project setting", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return storageErr("commit tx", err)
	}
	return nil
}

// ListMappings returns all project/task mappings in saved order
func (s *Store) ListMappings(ctx context.Context) ([]model.ProjectTaskMapping, error) {
	rows, err := s.db.QueryContext(ctx,
		s.rebind(`SELECT id, project, task, position FROM project_settings ORDER BY position ASC`))
	if err != nil {
		return nil, storageErr("list project settings", err)
	}
	defer rows.Close()

	mappings := []model.ProjectTaskMapping{}
	for rows.Next() {
		var m model.ProjectTaskMapping
		if err := rows.Scan(&m.ID, &m.Project, &m.Task, &m.Position); err != nil {
			return nil, storageErr("scan project setting", err)
		}
		mappings = append(mappings, m)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate project settings", err)
	}
	return mappings, nil
}

// MappingForProject resolves a project to its configured default task
func (s *Store) MappingForProject(ctx context.Context, project string) (*model.ProjectTaskMapping, error) {
	var m model.ProjectTaskMapping
	err := s.db.QueryRowContext(ctx,
		s.rebind(`SELECT id, project, task, position FROM project_settings WHERE project = ? ORDER BY position ASC LIMIT 1`),
		project,
	).Scan(&m.ID, &m.Project, &m.Task, &m.Position)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storageErr("query project setting", err)
	}
	return &m, nil
}
