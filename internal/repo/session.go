package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/mpreston/tripdesk/backend/internal/domain"
)

// SessionRepo defines the persistence operations for sessions and the
// single-use authorization codes exchanged for them.
type SessionRepo interface {
	// CreateSession inserts a new session row.
	CreateSession(ctx context.Context, s domain.Session) (domain.Session, error)

	// GetSession retrieves a session by token. Expired sessions are treated
	// as absent: domain.ErrNotFound.
	GetSession(ctx context.Context, token string) (domain.Session, error)

	// DeleteSession removes a session by token. Deleting an unknown token is
	// not an error; logout is idempotent.
	DeleteSession(ctx context.Context, token string) error

	// CreateAuthCode inserts a new single-use authorization code.
	CreateAuthCode(ctx context.Context, c domain.AuthCode) (domain.AuthCode, error)

	// ConsumeAuthCode atomically marks an unconsumed, unexpired code as spent
	// and returns the user it belongs to. Returns domain.ErrNotFound when the
	// code is unknown, already consumed, or expired.
	ConsumeAuthCode(ctx context.Context, code string) (uuid.UUID, error)
}

type pgSessionRepo struct {
	db db
}

// NewSessionRepo constructs a SessionRepo backed by the provided db connection.
func NewSessionRepo(db db) SessionRepo {
	return &pgSessionRepo{db: db}
}

func (r *pgSessionRepo) CreateSession(ctx context.Context, s domain.Session) (domain.Session, error) {
	const q = `
		INSERT INTO sessions (token, user_id, expires_at)
		VALUES (@token, @user_id, @expires_at)
		RETURNING token, user_id, expires_at, created_at`

	args := pgx.NamedArgs{
		"token":      s.Token,
		"user_id":    s.UserID,
		"expires_at": s.ExpiresAt,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanSession(row)
	if err != nil {
		return domain.Session{}, fmt.Errorf("repo.SessionRepo.CreateSession: %w", translate(err))
	}
	return result, nil
}

func (r *pgSessionRepo) GetSession(ctx context.Context, token string) (domain.Session, error) {
	const q = `
		SELECT token, user_id, expires_at, created_at
		FROM sessions
		WHERE token = @token AND expires_at > now()`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"token": token})
	result, err := scanSession(row)
	if err != nil {
		return domain.Session{}, fmt.Errorf("repo.SessionRepo.GetSession: %w", translate(err))
	}
	return result, nil
}

func (r *pgSessionRepo) DeleteSession(ctx context.Context, token string) error {
	const q = `DELETE FROM sessions WHERE token = @token`

	if _, err := r.db.Exec(ctx, q, pgx.NamedArgs{"token": token}); err != nil {
		return fmt.Errorf("repo.SessionRepo.DeleteSession: %w", translate(err))
	}
	return nil
}

func (r *pgSessionRepo) CreateAuthCode(ctx context.Context, c domain.AuthCode) (domain.AuthCode, error) {
	const q = `
		INSERT INTO auth_codes (code, user_id, expires_at)
		VALUES (@code, @user_id, @expires_at)
		RETURNING code, user_id, expires_at, consumed_at, created_at`

	args := pgx.NamedArgs{
		"code":       c.Code,
		"user_id":    c.UserID,
		"expires_at": c.ExpiresAt,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanAuthCode(row)
	if err != nil {
		return domain.AuthCode{}, fmt.Errorf("repo.SessionRepo.CreateAuthCode: %w", translate(err))
	}
	return result, nil
}

// ConsumeAuthCode spends the code in a single UPDATE so two concurrent
// exchanges cannot both succeed.
func (r *pgSessionRepo) ConsumeAuthCode(ctx context.Context, code string) (uuid.UUID, error) {
	const q = `
		UPDATE auth_codes
		SET consumed_at = now()
		WHERE code = @code AND consumed_at IS NULL AND expires_at > now()
		RETURNING user_id`

	var userID pgtype.UUID
	err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"code": code}).Scan(&userID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("repo.SessionRepo.ConsumeAuthCode: %w", translate(err))
	}
	return uuid.UUID(userID.Bytes), nil
}

func scanSession(s scanner) (domain.Session, error) {
	var (
		sess   domain.Session
		userID pgtype.UUID
	)

	err := s.Scan(&sess.Token, &userID, &sess.ExpiresAt, &sess.CreatedAt)
	if err != nil {
		return domain.Session{}, err
	}

	sess.UserID = uuid.UUID(userID.Bytes)
	return sess, nil
}

func scanAuthCode(s scanner) (domain.AuthCode, error) {
	var (
		c        domain.AuthCode
		userID   pgtype.UUID
		consumed pgtype.Timestamptz
	)

	err := s.Scan(&c.Code, &userID, &c.ExpiresAt, &consumed, &c.CreatedAt)
	if err != nil {
		return domain.AuthCode{}, err
	}

	c.UserID = uuid.UUID(userID.Bytes)
	if consumed.Valid {
		t := consumed.Time
		c.ConsumedAt = &t
	}

	return c, nil
}
