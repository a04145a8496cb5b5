package auth

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/hitoshi/projectmatch/internal/model"
)

// fakeService は各認証APIの結果を差し替えられるService実装。
type fakeService struct {
	currentUser func(ctx context.Context) (*model.User, error)
	login       func(ctx context.Context, creds model.Credentials) error
	register    func(ctx context.Context, req model.RegistrationRequest) error
	logout      func(ctx context.Context) error
}

func (s *fakeService) CurrentUser(ctx context.Context) (*model.User, error) {
	if s.currentUser == nil {
		return nil, errors.New("not configured")
	}
	return s.currentUser(ctx)
}

func (s *fakeService) Login(ctx context.Context, creds model.Credentials) error {
	if s.login == nil {
		return errors.New("not configured")
	}
	return s.login(ctx, creds)
}

func (s *fakeService) Register(ctx context.Context, req model.RegistrationRequest) error {
	if s.register == nil {
		return errors.New("not configured")
	}
	return s.register(ctx, req)
}

func (s *fakeService) Logout(ctx context.Context) error {
	if s.logout == nil {
		return errors.New("not configured")
	}
	return s.logout(ctx)
}

// recordingNav は画面遷移先を記録する。
type recordingNav struct {
	mu    sync.Mutex
	paths []string
}

func (n *recordingNav) NavigateTo(path string) {
	n.mu.Lock()
	n.paths = append(n.paths, path)
	n.mu.Unlock()
}

func (n *recordingNav) recorded() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.paths...)
}

// clearCounter はCSRFトークン破棄の回数を数える。
type clearCounter struct {
	mu    sync.Mutex
	count int
}

func (c *clearCounter) Clear() {
	c.mu.Lock()
	c.count++
	c.mu.Unlock()
}

func (c *clearCounter) cleared() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}

func newTestStore(t *testing.T, service Service) (*Store, *recordingNav, *clearCounter) {
	t.Helper()
	nav := &recordingNav{}
	tokens := &clearCounter{}
	store := NewStore(service, nav, tokens, nil, slog.Default())
	t.Cleanup(store.Close)
	return store, nav, tokens
}

// waitForState は遷移が適用されるまで待つ。適用はライターゴルーチンで
// 非同期に行われるため、ポーリングで収束を待つ。
func waitForState(t *testing.T, store *Store, want State) Snapshot {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		snap := store.Snapshot()
		if snap.State == want {
			return snap
		}
		select {
		case <-deadline:
			t.Fatalf("state = %q, want %q (timed out)", snap.State, want)
		case <-time.After(time.Millisecond):
		}
	}
}

func TestStore_InitialState_IsUnknown(t *testing.T) {
	store, _, _ := newTestStore(t, &fakeService{})

	if got := store.Snapshot().State; got != StateUnknown {
		t.Errorf("initial state = %q, want %q", got, StateUnknown)
	}
}

func TestStore_LoadSession_ValidSession_BecomesAuthenticated(t *testing.T) {
	user := &model.User{ID: 1, Email: "taro@example.com", Role: model.RoleStudent}
	store, _, _ := newTestStore(t, &fakeService{
		currentUser: func(ctx context.Context) (*model.User, error) { return user, nil },
	})

	store.LoadSession(context.Background())

	snap := waitForState(t, store, StateAuthenticated)
	if snap.User == nil || snap.User.ID != 1 {
		t.Errorf("User = %+v, want user with ID 1", snap.User)
	}
}

func TestStore_LoadSession_NoSession_BecomesAnonymous(t *testing.T) {
	store, _, _ := newTestStore(t, &fakeService{
		currentUser: func(ctx context.Context) (*model.User, error) {
			return nil, errors.New("401")
		},
	})

	store.LoadSession(context.Background())

	snap := waitForState(t, store, StateAnonymous)
	if snap.User != nil {
		t.Errorf("User = %+v, want nil for anonymous", snap.User)
	}
}

func TestStore_Login_Success_LoadsSessionAndNavigatesToRoot(t *testing.T) {
	user := &model.User{ID: 2, Email: "hanako@example.com", Role: model.RoleTeacher}
	store, nav, _ := newTestStore(t, &fakeService{
		login:       func(ctx context.Context, creds model.Credentials) error { return nil },
		currentUser: func(ctx context.Context) (*model.User, error) { return user, nil },
	})

	if err := store.Login(context.Background(), model.Credentials{Email: "hanako@example.com", Password: "pw"}); err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	waitForState(t, store, StateAuthenticated)
	paths := nav.recorded()
	if len(paths) != 1 || paths[0] != "/" {
		t.Errorf("navigations = %v, want [/]", paths)
	}
}

func TestStore_Login_Failure_KeepsStateAndReturnsError(t *testing.T) {
	store, nav, _ := newTestStore(t, &fakeService{
		login: func(ctx context.Context, creds model.Credentials) error {
			return errors.New("invalid credentials")
		},
	})

	if err := store.Login(context.Background(), model.Credentials{}); err == nil {
		t.Fatal("Login() should return the failure")
	}

	if got := store.Snapshot().State; got != StateUnknown {
		t.Errorf("state = %q, want %q (unchanged on failure)", got, StateUnknown)
	}
	if len(nav.recorded()) != 0 {
		t.Errorf("navigations = %v, want none on failure", nav.recorded())
	}
}

func TestStore_Logout_Success_ClearsTokensAndNavigatesToLogin(t *testing.T) {
	store, nav, tokens := newTestStore(t, &fakeService{
		logout: func(ctx context.Context) error { return nil },
	})

	if err := store.Logout(context.Background()); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}

	waitForState(t, store, StateAnonymous)
	if tokens.cleared() != 1 {
		t.Errorf("token Clear count = %d, want 1", tokens.cleared())
	}
	paths := nav.recorded()
	if len(paths) != 1 || paths[0] != "/login" {
		t.Errorf("navigations = %v, want [/login]", paths)
	}
}

func TestStore_ForceLogout_WithoutAPICall_BecomesAnonymous(t *testing.T) {
	// APIを一切設定しない。呼ばれたらnot configuredで分かる
	store, nav, tokens := newTestStore(t, &fakeService{})

	store.ForceLogout()

	waitForState(t, store, StateAnonymous)
	if tokens.cleared() != 1 {
		t.Errorf("token Clear count = %d, want 1", tokens.cleared())
	}
	paths := nav.recorded()
	if len(paths) != 1 || paths[0] != "/login" {
		t.Errorf("navigations = %v, want [/login]", paths)
	}
}

func TestStore_Register_Success_NavigatesToGuestWithoutStateChange(t *testing.T) {
	store, nav, _ := newTestStore(t, &fakeService{
		register: func(ctx context.Context, req model.RegistrationRequest) error { return nil },
	})

	if err := store.Register(context.Background(), model.RegistrationRequest{Email: "new@example.com"}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if got := store.Snapshot().State; got != StateUnknown {
		t.Errorf("state = %q, want %q (registration does not log in)", got, StateUnknown)
	}
	paths := nav.recorded()
	if len(paths) != 1 || paths[0] != "/guest" {
		t.Errorf("navigations = %v, want [/guest]", paths)
	}
}

func TestStore_LoadSession_SnapshotImmediatelyAfterReturn_ReflectsResult(t *testing.T) {
	// CLIはインテント呼び出しの直後にSnapshotを読む。確定遷移の適用を
	// 待たずに戻ると、この読み取りがほぼ毎回古い状態を観測してしまう。
	user := &model.User{ID: 4, Email: "taro@example.com", Role: model.RoleStudent}
	store, _, _ := newTestStore(t, &fakeService{
		currentUser: func(ctx context.Context) (*model.User, error) { return user, nil },
	})

	for i := 0; i < 1000; i++ {
		store.LoadSession(context.Background())
		snap := store.Snapshot()
		if snap.State != StateAuthenticated {
			t.Fatalf("iteration %d: state right after LoadSession = %q, want %q", i, snap.State, StateAuthenticated)
		}
		if snap.User == nil || snap.User.ID != 4 {
			t.Fatalf("iteration %d: User = %+v, want user with ID 4", i, snap.User)
		}
	}
}

func TestStore_Logout_SnapshotImmediatelyAfterReturn_IsAnonymous(t *testing.T) {
	store, _, _ := newTestStore(t, &fakeService{
		logout: func(ctx context.Context) error { return nil },
	})

	if err := store.Logout(context.Background()); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if got := store.Snapshot().State; got != StateAnonymous {
		t.Errorf("state right after Logout = %q, want %q", got, StateAnonymous)
	}
}

func TestStore_ForceLogout_SnapshotImmediatelyAfterReturn_IsAnonymous(t *testing.T) {
	store, _, _ := newTestStore(t, &fakeService{})

	store.ForceLogout()

	if got := store.Snapshot().State; got != StateAnonymous {
		t.Errorf("state right after ForceLogout = %q, want %q", got, StateAnonymous)
	}
}

func TestStore_Subscribe_ReceivesLatestSnapshot(t *testing.T) {
	user := &model.User{ID: 3, Email: "taro@example.com"}
	store, _, _ := newTestStore(t, &fakeService{
		currentUser: func(ctx context.Context) (*model.User, error) { return user, nil },
	})

	ch, cancel := store.Subscribe()
	defer cancel()

	// 購読開始時に現在値を受け取る
	first := <-ch
	if first.State != StateUnknown {
		t.Errorf("first snapshot state = %q, want %q", first.State, StateUnknown)
	}

	store.LoadSession(context.Background())
	waitForState(t, store, StateAuthenticated)

	// 中間のloadingは上書きされてもよい。最終的にauthenticatedが届く
	deadline := time.After(2 * time.Second)
	for {
		select {
		case snap := <-ch:
			if snap.State == StateAuthenticated {
				return
			}
		case <-deadline:
			t.Fatal("subscriber did not receive authenticated snapshot")
		}
	}
}

func TestStore_Subscribe_CancelStopsDelivery(t *testing.T) {
	store, _, _ := newTestStore(t, &fakeService{
		currentUser: func(ctx context.Context) (*model.User, error) {
			return nil, errors.New("401")
		},
	})

	ch, cancel := store.Subscribe()
	<-ch
	cancel()

	store.LoadSession(context.Background())
	waitForState(t, store, StateAnonymous)

	select {
	case snap, ok := <-ch:
		if ok {
			t.Errorf("received %+v after cancel", snap)
		}
	default:
		// 解除後は何も届かない
	}
}
