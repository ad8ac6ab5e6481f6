package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hiredesk/hiredesk/internal/application"
	"github.com/hiredesk/hiredesk/internal/domain"
)

// txKey is the context key for storing transaction.
type txKey struct{}

// Querier is an interface that both pgxpool.Pool and pgx.Tx satisfy.
// allows repositories to work with either direct pool or transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// GetQuerier returns the appropriate querier for the context.
// if a transaction exists in context, returns the transaction.
// otherwise returns the pool for direct queries.
func GetQuerier(ctx context.Context, pool *pgxpool.Pool) Querier {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return tx
	}
	return pool
}

var (
	// ErrReadOnlySession is returned when a commit or rollback reaches a
	// session that never opened a transaction.
	ErrReadOnlySession = errors.New("session is read-only")

	// ErrRefreshUnsupported is returned when Refresh receives an entity
	// type the session does not know how to reload.
	ErrRefreshUnsupported = errors.New("refresh not supported for entity type")
)

// SessionProvider implements application.SessionProvider using pgx.
// write sessions wrap a pgx transaction stored in context so repository
// calls made with the session context join it; read sessions query the
// pool directly and never open a transaction.
type SessionProvider struct {
	pool         *pgxpool.Pool
	users        *UserRepository
	offers       *JobOfferRepository
	candidates   *CandidateRepository
	applications *ApplicationRepository
	interviews   *InterviewRepository
	access       *AccessRequestRepository
}

// NewSessionProvider creates a new SessionProvider.
func NewSessionProvider(pool *pgxpool.Pool) *SessionProvider {
	return &SessionProvider{
		pool:         pool,
		users:        NewUserRepository(pool),
		offers:       NewJobOfferRepository(pool),
		candidates:   NewCandidateRepository(pool),
		applications: NewApplicationRepository(pool),
		interviews:   NewInterviewRepository(pool),
		access:       NewAccessRequestRepository(pool),
	}
}

// Begin starts a transaction and returns a context bound to it.
func (p *SessionProvider) Begin(ctx context.Context) (context.Context, application.Session, error) {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("beginning transaction: %w", err)
	}

	txCtx := context.WithValue(ctx, txKey{}, tx)
	return txCtx, &txSession{tx: tx, provider: p}, nil
}

// BeginRead returns a pool-backed session for read-only work.
// no transaction is opened, so there is nothing to commit or roll back.
func (p *SessionProvider) BeginRead(ctx context.Context) (context.Context, application.Session, error) {
	return ctx, &poolSession{provider: p}, nil
}

// refresh re-reads an entity by its ID and copies the fresh state in place.
// the context decides whether the read goes through a transaction or the pool.
func (p *SessionProvider) refresh(ctx context.Context, entity any) error {
	switch e := entity.(type) {
	case *domain.User:
		fresh, err := p.users.FindByID(ctx, e.ID())
		if err != nil {
			return err
		}
		*e = *fresh
	case *domain.JobOffer:
		fresh, err := p.offers.FindByID(ctx, e.ID())
		if err != nil {
			return err
		}
		*e = *fresh
	case *domain.Candidate:
		fresh, err := p.candidates.FindByID(ctx, e.ID())
		if err != nil {
			return err
		}
		*e = *fresh
	case *domain.Application:
		fresh, err := p.applications.FindByID(ctx, e.ID())
		if err != nil {
			return err
		}
		*e = *fresh
	case *domain.Interview:
		fresh, err := p.interviews.FindByID(ctx, e.ID())
		if err != nil {
			return err
		}
		*e = *fresh
	case *domain.AccessRequest:
		fresh, err := p.access.FindByID(ctx, e.ID())
		if err != nil {
			return err
		}
		*e = *fresh
	default:
		return fmt.Errorf("%w: %T", ErrRefreshUnsupported, entity)
	}
	return nil
}

// txSession is a write session over one pgx transaction.
type txSession struct {
	tx       pgx.Tx
	provider *SessionProvider
}

func (s *txSession) Commit(ctx context.Context) error {
	return s.tx.Commit(ctx)
}

func (s *txSession) Rollback(ctx context.Context) error {
	return s.tx.Rollback(ctx)
}

func (s *txSession) Refresh(ctx context.Context, entity any) error {
	return s.provider.refresh(ctx, entity)
}

// poolSession is a read session that queries the pool directly.
type poolSession struct {
	provider *SessionProvider
}

func (s *poolSession) Commit(ctx context.Context) error {
	return ErrReadOnlySession
}

func (s *poolSession) Rollback(ctx context.Context) error {
	return ErrReadOnlySession
}

func (s *poolSession) Refresh(ctx context.Context, entity any) error {
	return s.provider.refresh(ctx, entity)
}
