package service

import (
	"context"
	"testing"

	"github.com/linkstash/linkstash/internal/apperr"
	"github.com/linkstash/linkstash/internal/cache"
)

func newUserService(store *fakeStore, fc *fakeCache) *UserService {
	return NewUserService(store, cache.NewInvalidator(fc, testLogger(), nil))
}

func TestRegisterAndLogin(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	svc := newUserService(store, newFakeCache())

	user, err := svc.Register(context.Background(), "ada", "ada@example.com", "correct horse battery")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user.ID == 0 {
		t.Error("registered user has zero id")
	}
	if user.HashedPassword == "correct horse battery" {
		t.Error("password stored in the clear")
	}

	got, err := svc.Login(context.Background(), "ada@example.com", "correct horse battery")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("Login returned user %d, want %d", got.ID, user.ID)
	}
}

func TestGetUser(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	svc := newUserService(store, newFakeCache())

	user, err := svc.Register(context.Background(), "ada", "ada@example.com", "correct horse battery")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	got, err := svc.Get(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Username != "ada" {
		t.Errorf("Username = %q, want ada", got.Username)
	}

	if _, err := svc.Get(context.Background(), user.ID+1); !apperr.IsKind(err, apperr.KindNotFound) {
		t.Errorf("Get(absent) err = %v, want not found", err)
	}
}

func TestLoginFailuresAreUniform(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	svc := newUserService(store, newFakeCache())

	if _, err := svc.Register(context.Background(), "ada", "ada@example.com", "correct horse battery"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	_, unknownErr := svc.Login(context.Background(), "nobody@example.com", "whatever")
	_, wrongErr := svc.Login(context.Background(), "ada@example.com", "wrong password")

	if !apperr.IsKind(unknownErr, apperr.KindUnauthorized) {
		t.Errorf("unknown email err = %v, want unauthorized", unknownErr)
	}
	if !apperr.IsKind(wrongErr, apperr.KindUnauthorized) {
		t.Errorf("wrong password err = %v, want unauthorized", wrongErr)
	}
	// Identical message so callers cannot probe for accounts.
	if unknownErr.Error() != wrongErr.Error() {
		t.Errorf("login failures differ: %q vs %q", unknownErr, wrongErr)
	}
}

func TestRegisterValidation(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	svc := newUserService(store, newFakeCache())

	tests := []struct {
		name     string
		username string
		email    string
		password string
	}{
		{"empty username", "", "a@example.com", "long enough pass"},
		{"bad email", "ada", "not-an-email", "long enough pass"},
		{"short password", "ada", "a@example.com", "short"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := svc.Register(context.Background(), tt.username, tt.email, tt.password)
			if !apperr.IsKind(err, apperr.KindValidation) {
				t.Errorf("Register(%s) err = %v, want validation error", tt.name, err)
			}
		})
	}
}

func TestRegisterConflicts(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	svc := newUserService(store, newFakeCache())

	if _, err := svc.Register(context.Background(), "ada", "ada@example.com", "long enough pass"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if _, err := svc.Register(context.Background(), "ada", "other@example.com", "long enough pass"); !apperr.IsKind(err, apperr.KindConflict) {
		t.Errorf("duplicate username err = %v, want conflict", err)
	}
	if _, err := svc.Register(context.Background(), "other", "ada@example.com", "long enough pass"); !apperr.IsKind(err, apperr.KindConflict) {
		t.Errorf("duplicate email err = %v, want conflict", err)
	}
}

func TestDeleteUserClearsCachedListings(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	fc := newFakeCache()
	userSvc := newUserService(store, fc)
	linkSvc := newLinkService(store, fc)
	catSvc := newCategoryService(store, fc)

	user, err := userSvc.Register(context.Background(), "ada", "ada@example.com", "long enough pass")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if _, err := catSvc.Create(context.Background(), user.ID, "Dev"); err != nil {
		t.Fatalf("Create category failed: %v", err)
	}
	mustCreateLink(t, linkSvc, user.ID, CreateLinkInput{Title: "gone soon", URL: "https://example.com/x"})

	// Warm listing caches.
	if _, err := linkSvc.List(context.Background(), user.ID, ListLinksInput{Page: 1, Limit: 10}); err != nil {
		t.Fatalf("List links failed: %v", err)
	}
	if _, err := catSvc.List(context.Background(), user.ID); err != nil {
		t.Fatalf("List categories failed: %v", err)
	}

	if err := userSvc.Delete(context.Background(), user.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if _, err := fc.Get(context.Background(), cache.CategoryListKey(user.ID)); err == nil {
		t.Error("category listing survived account deletion")
	}
	if _, err := fc.Get(context.Background(), cache.LinkListKey(user.ID, 1, 10, nil)); err == nil {
		t.Error("link listing survived account deletion")
	}

	if err := userSvc.Delete(context.Background(), user.ID); !apperr.IsKind(err, apperr.KindNotFound) {
		t.Errorf("second Delete err = %v, want not found", err)
	}
}
