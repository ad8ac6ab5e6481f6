package application

import (
	"context"
	"errors"
	"testing"
)

// mockSession counts the underlying session calls so tests can assert
// exactly how many commits and rollbacks a unit of work issued.
type mockSession struct {
	commits   int
	rollbacks int
	refreshes int

	commitErr   error
	rollbackErr error
}

func (m *mockSession) Commit(ctx context.Context) error {
	m.commits++
	return m.commitErr
}

func (m *mockSession) Rollback(ctx context.Context) error {
	m.rollbacks++
	return m.rollbackErr
}

func (m *mockSession) Refresh(ctx context.Context, entity any) error {
	m.refreshes++
	return nil
}

// mockProvider hands out a fixed session for both write and read scopes.
type mockProvider struct {
	session *mockSession
}

func (p *mockProvider) Begin(ctx context.Context) (context.Context, Session, error) {
	return ctx, p.session, nil
}

func (p *mockProvider) BeginRead(ctx context.Context) (context.Context, Session, error) {
	return ctx, p.session, nil
}

func TestUnitOfWork_CommitIsIdempotent(t *testing.T) {
	session := &mockSession{}
	uow := NewUnitOfWork(session)
	ctx := context.Background()

	if err := uow.Commit(ctx); err != nil {
		t.Fatalf("first commit: unexpected error: %v", err)
	}
	if err := uow.Commit(ctx); err != nil {
		t.Fatalf("second commit: unexpected error: %v", err)
	}

	if session.commits != 1 {
		t.Errorf("expected 1 underlying commit, got %d", session.commits)
	}
	if !uow.Committed() {
		t.Error("expected unit of work to be committed")
	}
}

func TestUnitOfWork_RollbackIsIdempotent(t *testing.T) {
	session := &mockSession{}
	uow := NewUnitOfWork(session)
	ctx := context.Background()

	if err := uow.Rollback(ctx); err != nil {
		t.Fatalf("first rollback: unexpected error: %v", err)
	}
	if err := uow.Rollback(ctx); err != nil {
		t.Fatalf("second rollback: unexpected error: %v", err)
	}

	if session.rollbacks != 1 {
		t.Errorf("expected 1 underlying rollback, got %d", session.rollbacks)
	}
	if !uow.RolledBack() {
		t.Error("expected unit of work to be rolled back")
	}
}

func TestUnitOfWork_CommitAfterRollbackIsIllegal(t *testing.T) {
	session := &mockSession{}
	uow := NewUnitOfWork(session)
	ctx := context.Background()

	if err := uow.Rollback(ctx); err != nil {
		t.Fatalf("rollback: unexpected error: %v", err)
	}

	err := uow.Commit(ctx)
	if !errors.Is(err, ErrCommitAfterRollback) {
		t.Fatalf("expected ErrCommitAfterRollback, got %v", err)
	}

	// state must be unchanged: still rolled back, no commit issued
	if !uow.RolledBack() {
		t.Error("expected unit of work to remain rolled back")
	}
	if uow.Committed() {
		t.Error("expected unit of work to not be committed")
	}
	if session.commits != 0 {
		t.Errorf("expected 0 underlying commits, got %d", session.commits)
	}
}

func TestUnitOfWork_RollbackAfterCommitIsNoOp(t *testing.T) {
	session := &mockSession{}
	uow := NewUnitOfWork(session)
	ctx := context.Background()

	if err := uow.Commit(ctx); err != nil {
		t.Fatalf("commit: unexpected error: %v", err)
	}
	if err := uow.Rollback(ctx); err != nil {
		t.Fatalf("rollback after commit: unexpected error: %v", err)
	}

	if session.rollbacks != 0 {
		t.Errorf("expected 0 underlying rollbacks, got %d", session.rollbacks)
	}
	if !uow.Committed() {
		t.Error("expected unit of work to remain committed")
	}
}

func TestWithUnitOfWork_AutoCommitOnCleanExit(t *testing.T) {
	session := &mockSession{}
	provider := &mockProvider{session: session}

	var captured *UnitOfWork
	err := WithUnitOfWork(context.Background(), provider, func(ctx context.Context, uow *UnitOfWork) error {
		captured = uow
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if session.commits != 1 {
		t.Errorf("expected 1 underlying commit, got %d", session.commits)
	}
	if session.rollbacks != 0 {
		t.Errorf("expected 0 underlying rollbacks, got %d", session.rollbacks)
	}
	if !captured.Committed() {
		t.Error("expected unit of work to be committed")
	}
}

func TestWithUnitOfWork_RollbackOnError(t *testing.T) {
	session := &mockSession{}
	provider := &mockProvider{session: session}

	boom := errors.New("boom")
	var captured *UnitOfWork
	err := WithUnitOfWork(context.Background(), provider, func(ctx context.Context, uow *UnitOfWork) error {
		captured = uow
		return boom
	})

	// the original error must come back unchanged
	if !errors.Is(err, boom) {
		t.Fatalf("expected original error, got %v", err)
	}
	if err.Error() != "boom" {
		t.Errorf("expected error message %q, got %q", "boom", err.Error())
	}

	if session.commits != 0 {
		t.Errorf("expected 0 underlying commits, got %d", session.commits)
	}
	if session.rollbacks != 1 {
		t.Errorf("expected 1 underlying rollback, got %d", session.rollbacks)
	}
	if !captured.RolledBack() {
		t.Error("expected unit of work to be rolled back")
	}
}

func TestWithUnitOfWork_ExplicitCommitSkipsAutoCommit(t *testing.T) {
	session := &mockSession{}
	provider := &mockProvider{session: session}

	err := WithUnitOfWork(context.Background(), provider, func(ctx context.Context, uow *UnitOfWork) error {
		return uow.Commit(ctx)
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if session.commits != 1 {
		t.Errorf("expected 1 underlying commit, got %d", session.commits)
	}
}

func TestUnitOfWork_CommitFailureTriggersRollback(t *testing.T) {
	commitErr := errors.New("constraint violation")
	session := &mockSession{commitErr: commitErr}
	uow := NewUnitOfWork(session)
	ctx := context.Background()

	err := uow.Commit(ctx)
	if !errors.Is(err, commitErr) {
		t.Fatalf("expected the commit error, got %v", err)
	}

	if uow.Committed() {
		t.Error("expected unit of work to not be committed")
	}
	if !uow.RolledBack() {
		t.Error("expected unit of work to be rolled back after commit failure")
	}
	if session.rollbacks != 1 {
		t.Errorf("expected 1 underlying rollback, got %d", session.rollbacks)
	}
}

func TestUnitOfWork_CommitAndRollbackFailureBothSurface(t *testing.T) {
	commitErr := errors.New("constraint violation")
	rollbackErr := errors.New("connection lost")
	session := &mockSession{commitErr: commitErr, rollbackErr: rollbackErr}
	uow := NewUnitOfWork(session)

	err := uow.Commit(context.Background())
	if !errors.Is(err, commitErr) {
		t.Errorf("expected commit error to be observable, got %v", err)
	}
	if !errors.Is(err, rollbackErr) {
		t.Errorf("expected rollback error to be observable, got %v", err)
	}
}

func TestUnitOfWork_RollbackFailureSurfaces(t *testing.T) {
	rollbackErr := errors.New("connection lost")
	session := &mockSession{rollbackErr: rollbackErr}
	uow := NewUnitOfWork(session)

	err := uow.Rollback(context.Background())
	if !errors.Is(err, rollbackErr) {
		t.Fatalf("expected the rollback error, got %v", err)
	}

	// a failed rollback is not a completed rollback
	if uow.RolledBack() {
		t.Error("expected unit of work to not report rolled back")
	}
}

func TestWithReadOnlyUnitOfWork_NeverTouchesTheSession(t *testing.T) {
	t.Run("clean_exit", func(t *testing.T) {
		session := &mockSession{}
		provider := &mockProvider{session: session}

		err := WithReadOnlyUnitOfWork(context.Background(), provider, func(ctx context.Context, uow *ReadOnlyUnitOfWork) error {
			return nil
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if session.commits != 0 || session.rollbacks != 0 {
			t.Errorf("expected no transactional calls, got %d commits and %d rollbacks",
				session.commits, session.rollbacks)
		}
	})

	t.Run("error_exit", func(t *testing.T) {
		session := &mockSession{}
		provider := &mockProvider{session: session}

		boom := errors.New("boom")
		err := WithReadOnlyUnitOfWork(context.Background(), provider, func(ctx context.Context, uow *ReadOnlyUnitOfWork) error {
			return boom
		})
		if !errors.Is(err, boom) {
			t.Fatalf("expected original error, got %v", err)
		}

		if session.commits != 0 || session.rollbacks != 0 {
			t.Errorf("expected no transactional calls, got %d commits and %d rollbacks",
				session.commits, session.rollbacks)
		}
	})
}

func TestWithUnitOfWork_HappyPathScenario(t *testing.T) {
	session := &mockSession{}
	provider := &mockProvider{session: session}

	writes := 0
	var captured *UnitOfWork
	err := WithUnitOfWork(context.Background(), provider, func(ctx context.Context, uow *UnitOfWork) error {
		captured = uow
		writes++ // first write operation
		writes++ // second write operation
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if writes != 2 {
		t.Fatalf("expected 2 writes, got %d", writes)
	}
	if session.commits != 1 || session.rollbacks != 0 {
		t.Errorf("expected 1 commit and 0 rollbacks, got %d and %d",
			session.commits, session.rollbacks)
	}
	if !captured.Committed() {
		t.Error("expected final state committed")
	}
}

func TestUnitOfWork_RefreshDelegatesToSession(t *testing.T) {
	session := &mockSession{}
	uow := NewUnitOfWork(session)

	if err := uow.Refresh(context.Background(), struct{}{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session.refreshes != 1 {
		t.Errorf("expected 1 refresh, got %d", session.refreshes)
	}

	// refresh has no transactional semantics of its own
	if session.commits != 0 || session.rollbacks != 0 {
		t.Error("expected refresh to not touch commit or rollback")
	}
}
