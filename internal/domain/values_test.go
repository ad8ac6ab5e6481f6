package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestNewSlug_Validation(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"simple", "backend-engineer", nil},
		{"with_numbers", "sre-2026", nil},
		{"minimum_length", "abc", nil},
		{"maximum_length", strings.Repeat("a", 100), nil},
		{"empty", "", ErrSlugEmpty},
		{"too_short", "ab", ErrSlugTooShort},
		{"too_long", strings.Repeat("a", 101), ErrSlugTooLong},
		{"uppercase", "Backend-Engineer", ErrSlugInvalid},
		{"spaces", "backend engineer", ErrSlugInvalid},
		{"underscore", "backend_engineer", ErrSlugInvalid},
		{"unicode", "ingénieur", ErrSlugInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slug, err := NewSlug(tt.input)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("expected %v, got %v", tt.wantErr, err)
				}
			} else {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				if slug.String() != tt.input {
					t.Errorf("expected %q, got %q", tt.input, slug.String())
				}
			}
		})
	}
}

func TestNewEmail_Validation(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"simple", "jane@example.com", nil},
		{"subdomain", "jane@mail.example.com", nil},
		{"plus_tag", "jane+jobs@example.com", nil},
		{"empty", "", ErrEmailEmpty},
		{"whitespace_only", "   ", ErrEmailEmpty},
		{"no_at", "jane.example.com", ErrEmailInvalid},
		{"missing_local", "@example.com", ErrEmailInvalid},
		{"missing_domain", "jane@", ErrEmailInvalid},
		{"double_at", "jane@@example.com", ErrEmailInvalid},
		{"too_long", strings.Repeat("a", 315) + "@e.com", ErrEmailTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEmail(tt.input)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("expected %v, got %v", tt.wantErr, err)
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestNewEmail_LowercasesInput(t *testing.T) {
	email, err := NewEmail("Jane.Doe@Example.COM")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if email.String() != "jane.doe@example.com" {
		t.Errorf("expected lowercase email, got %q", email.String())
	}
}

func TestParseOfferID_RoundTrip(t *testing.T) {
	id := NewOfferID()

	parsed, err := ParseOfferID(id.String())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if parsed != id {
		t.Errorf("expected %v, got %v", id, parsed)
	}
}

func TestParseOfferID_Invalid(t *testing.T) {
	if _, err := ParseOfferID("not-a-uuid"); err == nil {
		t.Error("expected error for malformed id")
	}
}

func TestIDIsZero(t *testing.T) {
	var zero UserID
	if !zero.IsZero() {
		t.Error("expected zero value to report IsZero")
	}
	if NewUserID().IsZero() {
		t.Error("expected generated id to not be zero")
	}
}

func TestParseRole_Validation(t *testing.T) {
	tests := []struct {
		name  string
		input string
		valid bool
	}{
		{"admin", "admin", true},
		{"recruiter", "recruiter", true},
		{"interviewer", "interviewer", true},
		{"viewer", "viewer", true},
		{"invalid", "superuser", false},
		{"empty", "", false},
		{"uppercase", "ADMIN", false}, // case sensitive
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			role, err := ParseRole(tt.input)

			if tt.valid {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				if role.String() != tt.input {
					t.Errorf("expected %q, got %q", tt.input, role.String())
				}
			} else {
				if !errors.Is(err, ErrInvalidRole) {
					t.Errorf("expected ErrInvalidRole, got %v", err)
				}
			}
		})
	}
}

func TestRole_Permissions(t *testing.T) {
	if !RoleAdmin.CanManageOffers() {
		t.Error("admin should manage offers")
	}
	if !RoleRecruiter.CanManageOffers() {
		t.Error("recruiter should manage offers")
	}
	if RoleInterviewer.CanManageOffers() {
		t.Error("interviewer should not manage offers")
	}
	if RoleViewer.CanManageOffers() {
		t.Error("viewer should not manage offers")
	}

	if !RoleAdmin.CanReviewAccess() {
		t.Error("admin should review access requests")
	}
	if RoleRecruiter.CanReviewAccess() {
		t.Error("recruiter should not review access requests")
	}
}
