package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/existflow/timelog/internal/model"
)

// Credentials satisfies the jira client's credentials source using the one
// configured issue tracker connection.
func (s *Store) Credentials(ctx context.Context) (*model.Credentials, error) {
	return s.GetOrCreateCredentials(ctx, model.ServiceJira)
}

// GetOrCreateCredentials fetches the connection record for a service, creating
// an empty row on first access. The token comes back decrypted.
func (s *Store) GetOrCreateCredentials(ctx context.Context, service string) (*model.Credentials, error) {
	creds, err := s.getCredentials(ctx, service)
	if err == nil {
		return creds, nil
	}
	if err != ErrNotFound {
		return nil, err
	}

	now := time.Now()
	if _, err := s.db.ExecContext(ctx,
		s.rebind(`INSERT INTO credentials (service, updated_at) VALUES (?, ?)`),
		service, formatTime(now),
	); err != nil {
		return nil, storageErr("create credentials", err)
	}

	return &model.Credentials{Service: service, UpdatedAt: now.UTC().Truncate(time.Second)}, nil
}

func (s *Store) getCredentials(ctx context.Context, service string) (*model.Credentials, error) {
	var creds model.Credentials
	var token, updatedAt string

	err := s.db.QueryRowContext(ctx,
		s.rebind(`SELECT service, endpoint, email, token, updated_at FROM credentials WHERE service = ?`),
		service,
	).Scan(&creds.Service, &creds.Endpoint, &creds.Email, &token, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storageErr("query credentials", err)
	}

	if s.keys != nil {
		if token, err = s.keys.Decrypt(token); err != nil {
			return nil, storageErr("decrypt token", err)
		}
	}
	creds.Token = token

	t, err := parseTime(updatedAt)
	if err != nil {
		return nil, storageErr("parse credentials timestamp", err)
	}
	creds.UpdatedAt = t

	return &creds, nil
}

// SaveCredentials upserts the connection record, encrypting the token at rest
func (s *Store) SaveCredentials(ctx context.Context, creds *model.Credentials) error {
	token := creds.Token
	if s.keys != nil {
		var err error
		if token, err = s.keys.Encrypt(token); err != nil {
			return storageErr("encrypt token", err)
		}
	}

	now := time.Now()
	res, err := s.db.ExecContext(ctx,
		s.rebind(`UPDATE credentials SET endpoint = ?, email = ?, token = ?, updated_at = ? WHERE service = ?`),
		creds.Endpoint, creds.Email, token, formatTime(now), creds.Service,
	)
	if err != nil {
		return storageErr("update credentials", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		if _, err := s.db.ExecContext(ctx,
			s.rebind(`INSERT INTO credentials (service, endpoint, email, token, updated_at) VALUES (?, ?, ?, ?, ?)`),
			creds.Service, creds.Endpoint, creds.Email, token, formatTime(now),
		); err != nil {
			return storageErr("insert credentials", err)
		}
	}

	creds.UpdatedAt = now.UTC().Truncate(time.Second)
	return nil
}
