package application

import (
	"context"
	"errors"
	"testing"

	"github.com/hiredesk/hiredesk/internal/domain"
	"github.com/hiredesk/hiredesk/internal/infrastructure/logging"
)

type memUserRepo struct {
	users map[domain.UserID]*domain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[domain.UserID]*domain.User)}
}

func (r *memUserRepo) Save(ctx context.Context, user *domain.User) error {
	r.users[user.ID()] = user
	return nil
}

func (r *memUserRepo) FindByID(ctx context.Context, id domain.UserID) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return user, nil
}

func (r *memUserRepo) FindByExternalID(ctx context.Context, externalID string) (*domain.User, error) {
	for _, user := range r.users {
		if user.ExternalID() == externalID {
			return user, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memUserRepo) Exists(ctx context.Context, id domain.UserID) (bool, error) {
	_, ok := r.users[id]
	return ok, nil
}

type memAccessRepo struct {
	requests map[domain.AccessRequestID]*domain.AccessRequest
}

func newMemAccessRepo() *memAccessRepo {
	return &memAccessRepo{requests: make(map[domain.AccessRequestID]*domain.AccessRequest)}
}

func (r *memAccessRepo) Save(ctx context.Context, request *domain.AccessRequest) error {
	r.requests[request.ID()] = request
	return nil
}

func (r *memAccessRepo) FindByID(ctx context.Context, id domain.AccessRequestID) (*domain.AccessRequest, error) {
	request, ok := r.requests[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return request, nil
}

func (r *memAccessRepo) FindPendingByRequester(ctx context.Context, requesterID domain.UserID) (*domain.AccessRequest, error) {
	for _, request := range r.requests {
		if request.RequesterID() == requesterID && request.Status() == domain.AccessStatusPending {
			return request, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memAccessRepo) ListByStatus(ctx context.Context, status domain.AccessStatus, limit, offset int) ([]*domain.AccessRequest, error) {
	matched := make([]*domain.AccessRequest, 0)
	for _, request := range r.requests {
		if request.Status() == status {
			matched = append(matched, request)
		}
	}
	return matched, nil
}

type accessFixture struct {
	useCase   *AccessRequestUseCase
	users     *memUserRepo
	requests  *memAccessRepo
	notifs    *memNotificationRepo
	session   *mockSession
	requester *domain.User
	admin     *domain.User
}

func newAccessFixture(t *testing.T) *accessFixture {
	t.Helper()

	users := newMemUserRepo()
	requests := newMemAccessRepo()
	notifs := &memNotificationRepo{}
	session := &mockSession{}

	requester, err := domain.NewUser("auth0|requester", "rq")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	users.users[requester.ID()] = requester

	admin, err := domain.NewUser("auth0|admin", "boss")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := admin.GrantRole(domain.RoleAdmin); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	users.users[admin.ID()] = admin

	useCase := NewAccessRequestUseCase(
		requests, users, notifs,
		&mockProvider{session: session},
		logging.New(),
	)

	return &accessFixture{
		useCase:   useCase,
		users:     users,
		requests:  requests,
		notifs:    notifs,
		session:   session,
		requester: requester,
		admin:     admin,
	}
}

func TestAccessRequest_RequestAndApprove(t *testing.T) {
	f := newAccessFixture(t)

	output, err := f.useCase.Request(context.Background(), RequestAccessInput{
		RequesterExternalID: f.requester.ExternalID(),
		Role:                "recruiter",
		Reason:              "joining the hiring team",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if output.Status != "pending" {
		t.Errorf("expected pending, got %s", output.Status)
	}

	err = f.useCase.Review(context.Background(), ReviewAccessInput{
		RequestID:          output.RequestID,
		ReviewerExternalID: f.admin.ExternalID(),
		Approve:            true,
		Note:               "welcome",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// approval grants the requested role
	if f.requester.Role() != domain.RoleRecruiter {
		t.Errorf("expected recruiter role after approval, got %s", f.requester.Role())
	}

	// both the request and the review produce a requester notification
	reviewed := f.notifs.notifications[len(f.notifs.notifications)-1]
	if reviewed.Kind() != domain.NotificationAccessRequestReviewed {
		t.Errorf("unexpected notification kind %s", reviewed.Kind())
	}
	if reviewed.RecipientID() != f.requester.ID() {
		t.Error("review notification should target the requester")
	}
}

func TestAccessRequest_RejectKeepsRole(t *testing.T) {
	f := newAccessFixture(t)

	output, err := f.useCase.Request(context.Background(), RequestAccessInput{
		RequesterExternalID: f.requester.ExternalID(),
		Role:                "admin",
		Reason:              "want more access",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err = f.useCase.Review(context.Background(), ReviewAccessInput{
		RequestID:          output.RequestID,
		ReviewerExternalID: f.admin.ExternalID(),
		Approve:            false,
		Note:               "not yet",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if f.requester.Role() != domain.RoleViewer {
		t.Errorf("rejection should not change the role, got %s", f.requester.Role())
	}
}

func TestAccessRequest_OnePendingPerUser(t *testing.T) {
	f := newAccessFixture(t)
	input := RequestAccessInput{
		RequesterExternalID: f.requester.ExternalID(),
		Role:                "recruiter",
		Reason:              "joining the hiring team",
	}

	if _, err := f.useCase.Request(context.Background(), input); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := f.useCase.Request(context.Background(), input)
	if !errors.Is(err, ErrRequestPending) {
		t.Errorf("expected ErrRequestPending, got %v", err)
	}
	if len(f.requests.requests) != 1 {
		t.Errorf("expected 1 stored request, got %d", len(f.requests.requests))
	}
}

func TestAccessRequest_NonAdminCannotReview(t *testing.T) {
	f := newAccessFixture(t)

	output, err := f.useCase.Request(context.Background(), RequestAccessInput{
		RequesterExternalID: f.requester.ExternalID(),
		Role:                "recruiter",
		Reason:              "joining the hiring team",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// the requester themselves is a viewer
	err = f.useCase.Review(context.Background(), ReviewAccessInput{
		RequestID:          output.RequestID,
		ReviewerExternalID: f.requester.ExternalID(),
		Approve:            true,
	})
	if !errors.Is(err, ErrNotAuthorized) {
		t.Errorf("expected ErrNotAuthorized, got %v", err)
	}
}

func TestAccessRequest_UnknownRequester(t *testing.T) {
	f := newAccessFixture(t)

	_, err := f.useCase.Request(context.Background(), RequestAccessInput{
		RequesterExternalID: "auth0|ghost",
		Role:                "recruiter",
		Reason:              "please",
	})
	if !errors.Is(err, ErrRequesterNotFound) {
		t.Errorf("expected ErrRequesterNotFound, got %v", err)
	}
}

func TestAccessRequest_InvalidRole(t *testing.T) {
	f := newAccessFixture(t)

	_, err := f.useCase.Request(context.Background(), RequestAccessInput{
		RequesterExternalID: f.requester.ExternalID(),
		Role:                "superuser",
		Reason:              "please",
	})
	if !errors.Is(err, domain.ErrInvalidRole) {
		t.Errorf("expected ErrInvalidRole, got %v", err)
	}
}
