package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/hiredesk/hiredesk/internal/infrastructure/logging"
)

// Session is the single data-access session a unit of work governs.
// implementations live in infrastructure, application only sees this
// interface. a session must be wrapped by exactly one unit of work at a
// time and must never be shared across concurrent tasks.
type Session interface {
	// Commit makes the session's pending work durable.
	Commit(ctx context.Context) error

	// Rollback discards the session's pending work.
	Rollback(ctx context.Context) error

	// Refresh re-reads one entity's current state through the session.
	Refresh(ctx context.Context, entity any) error
}

// SessionProvider issues sessions bound to one unit of work.
// the returned context is scoped to the session so repository operations
// using it participate in the same transaction.
type SessionProvider interface {
	// Begin opens a write session.
	Begin(ctx context.Context) (context.Context, Session, error)

	// BeginRead opens a session for read-only work. the returned session's
	// commit and rollback are never invoked by a read-only unit of work.
	BeginRead(ctx context.Context) (context.Context, Session, error)
}

// ErrCommitAfterRollback is returned when Commit is called on a unit of
// work that has already rolled back. this is the one illegal transition
// in the state machine; everything else out of a terminal state is a no-op.
var ErrCommitAfterRollback = errors.New("unit of work: cannot commit after rollback")

// UnitOfWork provides a single transactional boundary around one or more
// data-mutating operations. it owns its session exclusively and reaches
// exactly one terminal state: committed or rolled back.
//
// Commit and Rollback are both idempotent. a commit the session rejects
// triggers a compensating rollback before the commit error is surfaced,
// so a failed unit of work never sits between "partially committed" and
// "open".
type UnitOfWork struct {
	session    Session
	logger     *logging.Logger
	committed  bool
	rolledBack bool
}

// NewUnitOfWork creates a UnitOfWork over an open session.
func NewUnitOfWork(session Session) *UnitOfWork {
	return &UnitOfWork{session: session}
}

// WithLogger attaches a logger for diagnostic output.
// logging is optional and never required for correctness.
func (u *UnitOfWork) WithLogger(logger *logging.Logger) *UnitOfWork {
	u.logger = logger.WithComponent("unit_of_work")
	return u
}

// Committed returns true once a commit has completed.
func (u *UnitOfWork) Committed() bool {
	return u.committed
}

// RolledBack returns true once a rollback has completed.
func (u *UnitOfWork) RolledBack() bool {
	return u.rolledBack
}

// Commit makes the unit of work's changes durable.
//
// calling Commit after a completed Rollback returns ErrCommitAfterRollback.
// calling it again after a successful Commit is a no-op, guarding against
// double-commit from nested call sites. if the session rejects the commit,
// Rollback runs before the commit error is returned; if that rollback also
// fails, both errors are joined so neither is lost.
func (u *UnitOfWork) Commit(ctx context.Context) error {
	if u.rolledBack {
		return ErrCommitAfterRollback
	}
	if u.committed {
		return nil
	}

	if err := u.session.Commit(ctx); err != nil {
		if rbErr := u.Rollback(ctx); rbErr != nil {
			return errors.Join(err, rbErr)
		}
		return err
	}

	u.committed = true
	if u.logger != nil {
		u.logger.Debug("unit of work committed")
	}
	return nil
}

// Rollback discards the unit of work's changes.
//
// idempotent: a second call after a completed rollback is a no-op, as is
// a call after a successful commit. a failure during rollback itself is
// surfaced as-is; there is no deeper fallback.
func (u *UnitOfWork) Rollback(ctx context.Context) error {
	if u.rolledBack || u.committed {
		return nil
	}

	if err := u.session.Rollback(ctx); err != nil {
		return err
	}

	u.rolledBack = true
	if u.logger != nil {
		u.logger.Debug("unit of work rolled back")
	}
	return nil
}

// Refresh re-reads one entity's current state from the session.
// no transactional semantics of its own.
func (u *UnitOfWork) Refresh(ctx context.Context, entity any) error {
	return u.session.Refresh(ctx, entity)
}

// WithUnitOfWork executes fn inside a write unit of work.
//
// the exit decision table:
//   - fn returns an error: roll back and return that error. a rollback
//     failure during the unwind is joined onto the original error, never
//     swallowed and never replacing it.
//   - fn returns nil and the unit already reached a terminal state through
//     explicit Commit/Rollback calls: nothing more to do.
//   - fn returns nil otherwise: commit automatically.
func WithUnitOfWork(ctx context.Context, provider SessionProvider, fn func(ctx context.Context, uow *UnitOfWork) error) error {
	txCtx, session, err := provider.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning unit of work: %w", err)
	}

	uow := NewUnitOfWork(session)

	if err := fn(txCtx, uow); err != nil {
		// the exit path must run even when the surrounding request
		// context is already cancelled
		if rbErr := uow.Rollback(context.WithoutCancel(txCtx)); rbErr != nil {
			return errors.Join(err, rbErr)
		}
		return err
	}

	if uow.Committed() || uow.RolledBack() {
		return nil
	}
	return uow.Commit(txCtx)
}

// ReadOnlyUnitOfWork signals, at the type level, that a code path performs
// no mutation. it never issues a commit or rollback regardless of what the
// enclosed code does or whether it fails: by contract nothing was written,
// so there is nothing to undo.
type ReadOnlyUnitOfWork struct {
	session Session
}

// NewReadOnlyUnitOfWork creates a ReadOnlyUnitOfWork over a session.
func NewReadOnlyUnitOfWork(session Session) *ReadOnlyUnitOfWork {
	return &ReadOnlyUnitOfWork{session: session}
}

// Refresh re-reads one entity's current state from the session.
func (u *ReadOnlyUnitOfWork) Refresh(ctx context.Context, entity any) error {
	return u.session.Refresh(ctx, entity)
}

// WithReadOnlyUnitOfWork executes fn inside a read-only unit of work.
// fn's error is returned unchanged; no transactional exit action is taken
// on either path.
func WithReadOnlyUnitOfWork(ctx context.Context, provider SessionProvider, fn func(ctx context.Context, uow *ReadOnlyUnitOfWork) error) error {
	readCtx, session, err := provider.BeginRead(ctx)
	if err != nil {
		return fmt.Errorf("beginning read-only unit of work: %w", err)
	}

	return fn(readCtx, NewReadOnlyUnitOfWork(session))
}
