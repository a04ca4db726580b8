package user

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/Team-PLAB/PLAB-Backend-V3/internal/domain"
)

type fakeUsersRepo struct {
	mu     sync.Mutex
	byName map[string]domain.User
	nextID domain.UserID
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{byName: make(map[string]domain.User), nextID: 1}
}

func (r *fakeUsersRepo) Close()                         {}
func (r *fakeUsersRepo) Ping(ctx context.Context) error { return nil }

func (r *fakeUsersRepo) CreateUser(_ context.Context, username string, passHash []byte, role domain.Role) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u := domain.User{ID: r.nextID, Username: username, PassHash: passHash, Role: role}
	r.nextID++
	r.byName[username] = u
	return u, nil
}

func (r *fakeUsersRepo) UserByUsername(_ context.Context, username string) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byName[username]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return u, nil
}

func (r *fakeUsersRepo) UserByID(context.Context, domain.UserID) (domain.User, error) {
	return domain.User{}, domain.ErrUserNotFound
}
func (r *fakeUsersRepo) ListUsers(context.Context) ([]domain.User, error) { return nil, nil }
func (r *fakeUsersRepo) UpdateUser(context.Context, domain.UserID, domain.UserUpdate) (domain.User, error) {
	return domain.User{}, domain.ErrUserNotFound
}
func (r *fakeUsersRepo) DeleteUser(context.Context, domain.UserID) error         { return nil }
func (r *fakeUsersRepo) SetLabRental(context.Context, domain.UserID, bool) error { return nil }

type fakeHasher struct{}

func (fakeHasher) Hash(plain string) (string, error) { return "h:" + plain, nil }
func (fakeHasher) Verify(plain, encoded string) (bool, error) {
	return encoded == "h:"+plain, nil
}

func newTestHandler() (*Handler, *fakeUsersRepo) {
	users := newFakeUsersRepo()
	return &Handler{
		Log:    log.New(io.Discard, "", 0),
		Users:  users,
		Hasher: fakeHasher{},
	}, users
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) domain.APIEnvelope {
	t.Helper()
	var env domain.APIEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return env
}

func signupBody(username, password string) io.Reader {
	return strings.NewReader(`{"username":"` + username + `","password":"` + password + `"}`)
}

func TestSignupCreatesUser(t *testing.T) {
	h, users := newTestHandler()

	rec := httptest.NewRecorder()
	h.Signup(rec, httptest.NewRequest(http.MethodPost, "/user/signup", signupBody("alice", "password1")))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status %d", rec.Code)
	}
	u, err := users.UserByUsername(context.Background(), "alice")
	if err != nil {
		t.Fatalf("user not created: %v", err)
	}
	if u.Role != domain.RoleUser {
		t.Errorf("role: %q", u.Role)
	}
	if string(u.PassHash) != "h:password1" {
		t.Errorf("password not hashed: %q", u.PassHash)
	}
}

func TestSignupAdminRole(t *testing.T) {
	h, users := newTestHandler()

	rec := httptest.NewRecorder()
	h.SignupAdmin(rec, httptest.NewRequest(http.MethodPost, "/user/signup/admin", signupBody("root_admin", "password1")))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status %d", rec.Code)
	}
	u, _ := users.UserByUsername(context.Background(), "root_admin")
	if u.Role != domain.RoleAdmin {
		t.Errorf("role: %q", u.Role)
	}
}

func TestSignupRejectsUnknownRole(t *testing.T) {
	h, users := newTestHandler()

	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/user/signup", signupBody("alice", "password1"))
	h.signup(rec, r, domain.Role("root"))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d", rec.Code)
	}
	if env := decodeEnvelope(t, rec); env.Error == nil || env.Error.Code != "INVALID_REQUEST" {
		t.Errorf("envelope: %+v", env)
	}
	if _, err := users.UserByUsername(context.Background(), "alice"); err == nil {
		t.Error("user created despite unknown role")
	}
}

func TestSignupUsernameConflict(t *testing.T) {
	h, _ := newTestHandler()

	rec := httptest.NewRecorder()
	h.Signup(rec, httptest.NewRequest(http.MethodPost, "/user/signup", signupBody("alice", "password1")))
	if rec.Code != http.StatusCreated {
		t.Fatalf("first signup: %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.Signup(rec, httptest.NewRequest(http.MethodPost, "/user/signup", signupBody("alice", "password2")))
	if rec.Code != http.StatusConflict {
		t.Fatalf("status %d", rec.Code)
	}
	if env := decodeEnvelope(t, rec); env.Error == nil || env.Error.Code != "USERNAME_CONFLICT" {
		t.Errorf("envelope: %+v", env)
	}
}

func TestSignupValidation(t *testing.T) {
	h, _ := newTestHandler()

	cases := []struct {
		name     string
		username string
		password string
	}{
		{"short username", "ab", "password1"},
		{"bad password", "alice", "short"},
		{"digits only password", "alice", "12345678"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.Signup(rec, httptest.NewRequest(http.MethodPost, "/user/signup", signupBody(tc.username, tc.password)))
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status %d", rec.Code)
			}
		})
	}
}
