package session

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/Team-PLAB/PLAB-Backend-V3/internal/auth/token"
	"github.com/Team-PLAB/PLAB-Backend-V3/internal/domain"
)

// --- фейки ---

type fakeUsersRepo struct {
	mu     sync.Mutex
	byName map[string]domain.User
	byID   map[domain.UserID]domain.User
	err    error // имитация отказа хранилища
}

func newFakeUsersRepo(users ...domain.User) *fakeUsersRepo {
	r := &fakeUsersRepo{
		byName: make(map[string]domain.User),
		byID:   make(map[domain.UserID]domain.User),
	}
	for _, u := range users {
		r.byName[u.Username] = u
		r.byID[u.ID] = u
	}
	return r
}

func (r *fakeUsersRepo) Close()                     {}
func (r *fakeUsersRepo) Ping(context.Context) error { return nil }

func (r *fakeUsersRepo) ListUsers(context.Context) ([]domain.User, error) {
	return nil, nil
}

func (r *fakeUsersRepo) CreateUser(_ context.Context, username string, passHash []byte, role domain.Role) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u := domain.User{ID: int64(len(r.byID) + 1), Username: username, PassHash: passHash, Role: role}
	r.byName[username] = u
	r.byID[u.ID] = u
	return u, nil
}

func (r *fakeUsersRepo) UserByUsername(_ context.Context, username string) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return domain.User{}, r.err
	}
	u, ok := r.byName[username]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return u, nil
}

func (r *fakeUsersRepo) UserByID(_ context.Context, id domain.UserID) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return u, nil
}

func (r *fakeUsersRepo) UpdateUser(_ context.Context, id domain.UserID, _ domain.UserUpdate) (domain.User, error) {
	return r.byID[id], nil
}

func (r *fakeUsersRepo) DeleteUser(context.Context, domain.UserID) error { return nil }

func (r *fakeUsersRepo) SetLabRental(context.Context, domain.UserID, bool) error { return nil }

type fakeHasher struct{}

func (fakeHasher) Hash(plain string) (string, error) { return "h:" + plain, nil }
func (fakeHasher) Verify(plain, encoded string) (bool, error) {
	return encoded == "h:"+plain, nil
}

// failingHasher имитирует ошибку сравнения (например, битый хеш в БД)
type failingHasher struct{ err error }

func (h failingHasher) Hash(string) (string, error)         { return "", h.err }
func (h failingHasher) Verify(string, string) (bool, error) { return false, h.err }

type fakeBlacklist struct {
	mu      sync.Mutex
	jtis    map[string]bool
	fail    bool
	revokes int
	// после скольких успешных Revoke хранилище «падает» (0 — никогда)
	failRevokeAfter int
}

func newFakeBlacklist() *fakeBlacklist {
	return &fakeBlacklist{jtis: make(map[string]bool)}
}

func (b *fakeBlacklist) Revoke(_ context.Context, jti string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.fail {
		return domain.ErrStoreUnavailable
	}
	if b.failRevokeAfter > 0 && b.revokes >= b.failRevokeAfter {
		return domain.ErrStoreUnavailable
	}
	b.revokes++
	b.jtis[jti] = true
	return nil
}

func (b *fakeBlacklist) IsRevoked(_ context.Context, jti string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.fail {
		return false, domain.ErrStoreUnavailable
	}
	return b.jtis[jti], nil
}

type fakeWhitelist struct {
	mu      sync.Mutex
	entries map[string]domain.UserID
	failAll bool
}

func newFakeWhitelist() *fakeWhitelist {
	return &fakeWhitelist{entries: make(map[string]domain.UserID)}
}

func (w *fakeWhitelist) Put(_ context.Context, jti string, userID domain.UserID) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.entries[jti] = userID
	return nil
}

func (w *fakeWhitelist) Get(_ context.Context, jti string) (domain.UserID, bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	id, ok := w.entries[jti]
	return id, ok, nil
}

func (w *fakeWhitelist) Del(_ context.Context, jti string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.entries, jti)
	return nil
}

func (w *fakeWhitelist) All(context.Context) (map[string]domain.UserID, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.failAll {
		return nil, domain.ErrStoreUnavailable
	}
	out := make(map[string]domain.UserID, len(w.entries))
	for k, v := range w.entries {
		out[k] = v
	}
	return out, nil
}

// recorderStrategy фиксирует вызовы Deliver/Clear
type recorderStrategy struct {
	delivered int
	cleared   int
}

func (s *recorderStrategy) Extract(*http.Request) string                { return "" }
func (s *recorderStrategy) Deliver(http.ResponseWriter, string, string) { s.delivered++ }
func (s *recorderStrategy) Clear(http.ResponseWriter)                   { s.cleared++ }

// --- обвязка ---

type env struct {
	svc       *Service
	users     *fakeUsersRepo
	blacklist *fakeBlacklist
	whitelist *fakeWhitelist
	strat     *recorderStrategy
}

func newEnv(t *testing.T) *env {
	t.Helper()
	users := newFakeUsersRepo(
		domain.User{ID: 1, Username: "alice", PassHash: []byte("h:password1"), Role: domain.RoleUser},
		domain.User{ID: 2, Username: "bob", PassHash: []byte("h:password2"), Role: domain.RoleAdmin},
	)
	bl := newFakeBlacklist()
	wl := newFakeWhitelist()
	codec := token.New("test-secret", "plab-test", 10*time.Minute, 720*time.Hour)
	logger := log.New(io.Discard, "", 0)
	return &env{
		svc:       New(logger, users, fakeHasher{}, codec, bl, wl),
		users:     users,
		blacklist: bl,
		whitelist: wl,
		strat:     &recorderStrategy{},
	}
}

func (e *env) login(t *testing.T, username, password string) TokenPair {
	t.Helper()
	pair, err := e.svc.Login(context.Background(), httptest.NewRecorder(), username, password, e.strat)
	if err != nil {
		t.Fatalf("login %s: %v", username, err)
	}
	return pair
}

// --- тесты ---

func TestLoginIssuesValidPair(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	pair := e.login(t, "alice", "password1")
	if e.strat.delivered != 1 {
		t.Fatalf("deliver calls: %d", e.strat.delivered)
	}

	access, err := e.svc.Verify(ctx, pair.AccessToken)
	if err != nil {
		t.Fatalf("verify access: %v", err)
	}
	if access.UserID != 1 || access.Kind != domain.TokenAccess || access.Role != domain.RoleUser {
		t.Errorf("access identity mismatch: %+v", access)
	}

	refresh, err := e.svc.Verify(ctx, pair.RefreshToken)
	if err != nil {
		t.Fatalf("verify refresh: %v", err)
	}
	if refresh.Kind != domain.TokenRefresh {
		t.Errorf("refresh kind mismatch: %+v", refresh)
	}

	// refresh-jti зарегистрирован в вайтлисте за владельцем
	ok, err := e.svc.IsRefreshValid(ctx, refresh.JTI, 1)
	if err != nil || !ok {
		t.Fatalf("refresh not whitelisted: ok=%v err=%v", ok, err)
	}
}

func TestLoginUnknownUser(t *testing.T) {
	e := newEnv(t)
	_, err := e.svc.Login(context.Background(), httptest.NewRecorder(), "nobody", "password1", e.strat)
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("want ErrUserNotFound, got %v", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	e := newEnv(t)
	_, err := e.svc.Login(context.Background(), httptest.NewRecorder(), "alice", "wrong", e.strat)
	if !errors.Is(err, domain.ErrInvalidPassword) {
		t.Fatalf("want ErrInvalidPassword, got %v", err)
	}
}

func TestLoginUserStoreFailurePropagates(t *testing.T) {
	e := newEnv(t)
	dbDown := errors.New("connection refused")
	e.users.err = dbDown

	// отказ БД — не «нет такого пользователя»
	_, err := e.svc.Login(context.Background(), httptest.NewRecorder(), "alice", "password1", e.strat)
	if !errors.Is(err, dbDown) {
		t.Fatalf("want infra error, got %v", err)
	}
	if errors.Is(err, domain.ErrUserNotFound) {
		t.Fatal("infra failure reported as ErrUserNotFound")
	}
}

func TestLoginHasherFailurePropagates(t *testing.T) {
	users := newFakeUsersRepo(
		domain.User{ID: 1, Username: "alice", PassHash: []byte("corrupt"), Role: domain.RoleUser},
	)
	hashErr := errors.New("argon2id: invalid hash format")
	codec := token.New("test-secret", "plab-test", 10*time.Minute, 720*time.Hour)
	svc := New(log.New(io.Discard, "", 0), users, failingHasher{err: hashErr},
		codec, newFakeBlacklist(), newFakeWhitelist())

	// ошибка сравнения хеша — не «неверный пароль»
	_, err := svc.Login(context.Background(), httptest.NewRecorder(), "alice", "password1", &recorderStrategy{})
	if !errors.Is(err, hashErr) {
		t.Fatalf("want hasher error, got %v", err)
	}
	if errors.Is(err, domain.ErrInvalidPassword) {
		t.Fatal("hasher failure reported as ErrInvalidPassword")
	}
}

func TestVerifyBlacklistWins(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	pair := e.login(t, "alice", "password1")

	ident, err := e.svc.Verify(ctx, pair.AccessToken)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if err := e.blacklist.Revoke(ctx, ident.JTI); err != nil {
		t.Fatalf("revoke: %v", err)
	}

	// подпись валидна, но блэклист перевешивает
	if _, err := e.svc.Verify(ctx, pair.AccessToken); !errors.Is(err, domain.ErrTokenBlacklisted) {
		t.Fatalf("want ErrTokenBlacklisted, got %v", err)
	}
}

func TestVerifyRefreshNeedsWhitelist(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	pair := e.login(t, "alice", "password1")

	ident, err := e.svc.Verify(ctx, pair.RefreshToken)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}

	// запись удалена извне: подпись валидна, но токен уже не действует
	if err := e.whitelist.Del(ctx, ident.JTI); err != nil {
		t.Fatalf("del: %v", err)
	}
	if _, err := e.svc.Verify(ctx, pair.RefreshToken); !errors.Is(err, domain.ErrInvalidRefreshToken) {
		t.Fatalf("want ErrInvalidRefreshToken, got %v", err)
	}

	// запись с чужим владельцем — тоже невалидна
	if err := e.whitelist.Put(ctx, ident.JTI, 99); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, err := e.svc.Verify(ctx, pair.RefreshToken); !errors.Is(err, domain.ErrInvalidRefreshToken) {
		t.Fatalf("want ErrInvalidRefreshToken, got %v", err)
	}
}

func TestVerifyStoreFailureClosesAccess(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	pair := e.login(t, "alice", "password1")

	e.blacklist.fail = true
	if _, err := e.svc.Verify(ctx, pair.AccessToken); !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("want ErrStoreUnavailable, got %v", err)
	}
}

func TestRotateRejectsAccessToken(t *testing.T) {
	e := newEnv(t)
	pair := e.login(t, "alice", "password1")

	_, err := e.svc.Rotate(context.Background(), httptest.NewRecorder(), pair.AccessToken, e.strat)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("want ErrForbidden, got %v", err)
	}
}

func TestRotateInvalidatesOldRefresh(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	pair := e.login(t, "alice", "password1")

	newPair, err := e.svc.Rotate(ctx, httptest.NewRecorder(), pair.RefreshToken, e.strat)
	if err != nil {
		t.Fatalf("rotate: %v", err)
	}

	// новая пара действует
	if _, err := e.svc.Verify(ctx, newPair.AccessToken); err != nil {
		t.Fatalf("verify new access: %v", err)
	}
	if _, err := e.svc.Verify(ctx, newPair.RefreshToken); err != nil {
		t.Fatalf("verify new refresh: %v", err)
	}

	// старый refresh отозван: повторная ротация — попытка reuse
	if _, err := e.svc.Rotate(ctx, httptest.NewRecorder(), pair.RefreshToken, e.strat); !errors.Is(err, domain.ErrTokenBlacklisted) {
		t.Fatalf("want ErrTokenBlacklisted on reuse, got %v", err)
	}
}

func TestLogoutRevokesEverywhere(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	// две сессии alice и одна bob
	first := e.login(t, "alice", "password1")
	second := e.login(t, "alice", "password1")
	other := e.login(t, "bob", "password2")

	if err := e.svc.Logout(ctx, httptest.NewRecorder(), first.AccessToken, e.strat); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if e.strat.cleared != 1 {
		t.Fatalf("clear calls: %d", e.strat.cleared)
	}

	// все refresh-токены alice отозваны
	for _, raw := range []string{first.RefreshToken, second.RefreshToken} {
		if _, err := e.svc.Verify(ctx, raw); !errors.Is(err, domain.ErrTokenBlacklisted) {
			t.Fatalf("alice refresh still alive: %v", err)
		}
	}
	// предъявленный access-токен тоже
	if _, err := e.svc.Verify(ctx, first.AccessToken); !errors.Is(err, domain.ErrTokenBlacklisted) {
		t.Fatalf("presented access still alive: %v", err)
	}

	// сессия bob не затронута
	if _, err := e.svc.Verify(ctx, other.RefreshToken); err != nil {
		t.Fatalf("bob refresh must survive: %v", err)
	}
}

func TestLogoutMidScanFailureSurfaces(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	pair := e.login(t, "alice", "password1")

	ident, err := e.svc.Verify(ctx, pair.AccessToken)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}

	// первый Revoke (предъявленный токен) проходит, отзыв refresh-токена
	// посреди скана падает
	e.blacklist.failRevokeAfter = 1
	if err := e.svc.Logout(ctx, httptest.NewRecorder(), pair.AccessToken, e.strat); !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("want ErrStoreUnavailable, got %v", err)
	}
	if e.strat.cleared != 0 {
		t.Errorf("clear called despite failed logout: %d", e.strat.cleared)
	}

	// уже отозванное до сбоя остаётся отозванным
	e.blacklist.failRevokeAfter = 0
	revoked, err := e.svc.IsBlacklisted(ctx, ident.JTI)
	if err != nil {
		t.Fatalf("is blacklisted: %v", err)
	}
	if !revoked {
		t.Fatal("token revoked before the failure lost its revocation")
	}
}

func TestLogoutWhitelistScanFailureSurfaces(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	pair := e.login(t, "alice", "password1")

	e.whitelist.failAll = true
	if err := e.svc.Logout(ctx, httptest.NewRecorder(), pair.AccessToken, e.strat); !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("want ErrStoreUnavailable, got %v", err)
	}
	if e.strat.cleared != 0 {
		t.Errorf("clear called despite failed logout: %d", e.strat.cleared)
	}
}

func TestTokenStatusDiagnostics(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	pair := e.login(t, "alice", "password1")

	ident, err := e.svc.Verify(ctx, pair.RefreshToken)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}

	revoked, err := e.svc.IsBlacklisted(ctx, ident.JTI)
	if err != nil || revoked {
		t.Fatalf("fresh jti: revoked=%v err=%v", revoked, err)
	}
	ok, err := e.svc.IsRefreshValid(ctx, ident.JTI, 1)
	if err != nil || !ok {
		t.Fatalf("fresh refresh: ok=%v err=%v", ok, err)
	}
	// чужой userID — невалидно
	ok, err = e.svc.IsRefreshValid(ctx, ident.JTI, 2)
	if err != nil || ok {
		t.Fatalf("foreign owner: ok=%v err=%v", ok, err)
	}
}
