package firestore

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"tboard/internal/service"
)

func newTestAuthenticator(t *testing.T, f *fakeFirestore) *Authenticator {
	t.Helper()
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)

	a, err := NewAuthenticatorWithHTTPClient(context.Background(), srv.Client(), "p1", srv.URL+"/")
	if err != nil {
		t.Fatalf("NewAuthenticatorWithHTTPClient: %v", err)
	}
	return a
}

func TestSignIn(t *testing.T) {
	a := newTestAuthenticator(t, newFakeFirestore())

	creds, err := a.SignIn(context.Background(), "ann@example.com", "secret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if creds.UserID != "u1" || creds.IDToken != "id-tok" || creds.RefreshToken != "ref" {
		t.Errorf("unexpected credentials: %+v", creds)
	}
	if creds.Expiry.IsZero() {
		t.Error("expected an expiry")
	}
}

func TestSignIn_BadPassword(t *testing.T) {
	a := newTestAuthenticator(t, newFakeFirestore())

	_, err := a.SignIn(context.Background(), "ann@example.com", "wrong")
	if !errors.Is(err, service.ErrAuth) {
		t.Fatalf("expected ErrAuth, got %v", err)
	}
}

func TestSignIn_Validation(t *testing.T) {
	f := newFakeFirestore()
	f.status = 500 // any round trip would fail differently
	a := newTestAuthenticator(t, f)

	tests := []struct {
		email, password, field string
	}{
		{"", "secret", "an email"},
		{"ann@example.com", "", "a password"},
	}
	for _, tt := range tests {
		_, err := a.SignIn(context.Background(), tt.email, tt.password)
		var verr *service.ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if verr.Field != tt.field {
			t.Errorf("expected field %q, got %q", tt.field, verr.Field)
		}
	}
}

func TestSignUp_CreatesProfile(t *testing.T) {
	f := newFakeFirestore()
	a := newTestAuthenticator(t, f)

	creds, err := a.SignUp(context.Background(), "New Person", "new@example.com", "secret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if creds.UserID != "new-user" {
		t.Errorf("expected new-user, got %q", creds.UserID)
	}

	d, ok := f.docs["users/new-user"]
	if !ok {
		t.Fatal("profile document not created")
	}
	u := decodeUser(d)
	if u.Name != "New Person" || u.Email != "new@example.com" {
		t.Errorf("unexpected profile: %+v", u)
	}
	if f.lastAuth != "Bearer id-tok" {
		t.Errorf("profile written with Authorization %q, expected the new ID token", f.lastAuth)
	}
}
