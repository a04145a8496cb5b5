package stub

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hitoshi/projectmatch/internal/api"
	"github.com/hitoshi/projectmatch/internal/auth"
	"github.com/hitoshi/projectmatch/internal/model"
	"github.com/hitoshi/projectmatch/internal/nav"
	"github.com/hitoshi/projectmatch/internal/notify"
	"github.com/hitoshi/projectmatch/internal/transport"
)

// quietNotifier は通知を捨てるNotifier実装。
type quietNotifier struct{}

func (quietNotifier) Show(severity notify.Severity, message string) {}

// newTestStack はスタブサーバーと、それに向けたフルワイヤリングの
// クライアント一式を構築する。本番のワイヤリングと同じ構成を使う。
func newTestStack(t *testing.T) (*Server, *api.Client, *auth.Store, *transport.TokenCache) {
	t.Helper()

	server := NewServer()
	server.SeedDemo()
	ts := httptest.NewServer(server.Handler())
	t.Cleanup(ts.Close)

	cache := transport.NewTokenCache()
	jar, err := transport.NewCookieJar()
	if err != nil {
		t.Fatalf("NewCookieJar() error = %v", err)
	}

	tracker := nav.NewTracker(slog.Default())
	interceptor := api.NewErrorInterceptor(quietNotifier{}, tracker)

	httpClient := &http.Client{
		Jar:     jar,
		Timeout: 5 * time.Second,
		Transport: transport.New(transport.Options{
			Cache: cache,
			Jar:   jar,
		}),
	}
	client := api.New(api.Config{
		BaseURL:     ts.URL,
		HTTPClient:  httpClient,
		Interceptor: interceptor,
	})

	store := auth.NewStore(client, tracker, cache, nil, slog.Default())
	t.Cleanup(store.Close)
	interceptor.BindSessions(store)

	return server, client, store, cache
}

// waitForState は認証ストアの遷移適用を待つ。
func waitForState(t *testing.T, store *auth.Store, want auth.State) auth.Snapshot {
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

// login はCSRFブートストラップを含むログインフローを実行する。
func login(t *testing.T, store *auth.Store, email, password string) {
	t.Helper()
	ctx := context.Background()

	// 最初のセッション確認は401で終わるが、この往復でCSRF Cookieが配布される
	store.LoadSession(ctx)
	waitForState(t, store, auth.StateAnonymous)

	if err := store.Login(ctx, model.Credentials{Email: email, Password: password}); err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	waitForState(t, store, auth.StateAuthenticated)
}

func TestStub_LoginFlow_EstablishesSessionAndRotatesCSRFToken(t *testing.T) {
	_, _, store, cache := newTestStack(t)

	login(t, store, "teacher@example.com", "password")

	snap := store.Snapshot()
	if snap.User == nil || snap.User.Role != model.RoleTeacher {
		t.Errorf("user = %+v, want authenticated teacher", snap.User)
	}
	// ログイン成功でローテーションされたトークンがキャッシュに入る
	if cache.Get() == "" {
		t.Error("CSRF cache should hold the rotated token after login")
	}
}

func TestStub_MutatingRequestWithoutCSRFBootstrap_Returns403(t *testing.T) {
	_, client, _, _ := newTestStack(t)

	// 事前のGETなしでいきなりPOSTする。CookieもキャッシュもないのでCSRF検証で落ちる
	err := client.Login(context.Background(), model.Credentials{
		Email:    "teacher@example.com",
		Password: "password",
	})
	if err == nil {
		t.Fatal("Login() should fail without CSRF bootstrap")
	}

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T, want *model.APIError", err)
	}
	if apiErr.StatusCode != http.StatusForbidden {
		t.Errorf("StatusCode = %d, want %d", apiErr.StatusCode, http.StatusForbidden)
	}
}

func TestStub_WrongPassword_Returns401(t *testing.T) {
	_, _, store, _ := newTestStack(t)

	store.LoadSession(context.Background())
	waitForState(t, store, auth.StateAnonymous)

	err := store.Login(context.Background(), model.Credentials{
		Email:    "teacher@example.com",
		Password: "wrong",
	})
	if err == nil {
		t.Fatal("Login() should fail with wrong password")
	}

	if got := store.Snapshot().State; got != auth.StateAnonymous {
		t.Errorf("state = %q, want %q", got, auth.StateAnonymous)
	}
}

func TestStub_ProjectsByAssignment_ReturnsSeededProjects(t *testing.T) {
	_, client, store, _ := newTestStack(t)
	login(t, store, "teacher@example.com", "password")

	projects, err := client.ProjectsByAssignment(context.Background(), 1)
	if err != nil {
		t.Fatalf("ProjectsByAssignment() error = %v", err)
	}

	if len(projects) != 3 {
		t.Fatalf("len = %d, want 3 assignment projects", len(projects))
	}
}

func TestStub_PublishedProjects_ExcludesUnpublished(t *testing.T) {
	_, client, store, _ := newTestStack(t)
	login(t, store, "student@example.com", "password")

	projects, err := client.PublishedProjects(context.Background(), 1)
	if err != nil {
		t.Fatalf("PublishedProjects() error = %v", err)
	}

	for _, p := range projects {
		switch p.Status {
		case model.StatusPublished, model.StatusClaimed, model.StatusCompleted:
		default:
			t.Errorf("project %q has status %q, should not be visible to students", p.Title, p.Status)
		}
	}
}

func TestStub_UpdateProjectStatus_PersistsAndRecordsEvent(t *testing.T) {
	_, client, store, _ := newTestStack(t)
	login(t, store, "teacher@example.com", "password")
	ctx := context.Background()

	projects, err := client.ProjectsByAssignment(ctx, 1)
	if err != nil {
		t.Fatalf("ProjectsByAssignment() error = %v", err)
	}
	var target *model.Project
	for i := range projects {
		if projects[i].Status == model.StatusSubmitted {
			target = &projects[i]
			break
		}
	}
	if target == nil {
		t.Fatal("seed should contain a SUBMITTED project")
	}

	updated, err := client.UpdateProjectStatus(ctx, target.ID, model.StatusApproved)
	if err != nil {
		t.Fatalf("UpdateProjectStatus() error = %v", err)
	}
	if updated.Status != model.StatusApproved {
		t.Errorf("status = %q, want %q", updated.Status, model.StatusApproved)
	}

	events, err := client.ProjectEvents(ctx, target.ID)
	if err != nil {
		t.Fatalf("ProjectEvents() error = %v", err)
	}
	last := events[len(events)-1]
	if last.Type != model.EventStatusChanged {
		t.Errorf("last event type = %q, want %q", last.Type, model.EventStatusChanged)
	}
	if last.Username == nil {
		t.Error("status change event should record the acting user")
	}
}

func TestStub_PublishAll_PublishesOnlyApproved(t *testing.T) {
	_, client, store, _ := newTestStack(t)
	login(t, store, "teacher@example.com", "password")
	ctx := context.Background()

	published, err := client.PublishAllProjects(ctx, 1)
	if err != nil {
		t.Fatalf("PublishAllProjects() error = %v", err)
	}

	// シードでAPPROVEDなのはGammaのみ
	if len(published) != 1 || published[0].Title != "Gamma" {
		t.Fatalf("published = %+v, want only Gamma", published)
	}
	if published[0].Status != model.StatusPublished {
		t.Errorf("status = %q, want %q", published[0].Status, model.StatusPublished)
	}
}

func TestStub_UnknownProject_Returns404(t *testing.T) {
	_, client, store, _ := newTestStack(t)
	login(t, store, "teacher@example.com", "password")

	_, err := client.Project(context.Background(), 9999)
	if err == nil {
		t.Fatal("Project() should fail for unknown ID")
	}

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T, want *model.APIError", err)
	}
	if apiErr.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode = %d, want 404", apiErr.StatusCode)
	}
}

func TestStub_Logout_InvalidatesSession(t *testing.T) {
	_, client, store, _ := newTestStack(t)
	login(t, store, "teacher@example.com", "password")
	ctx := context.Background()

	if err := store.Logout(ctx); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	waitForState(t, store, auth.StateAnonymous)

	if _, err := client.CurrentUser(ctx); err == nil {
		t.Fatal("CurrentUser() should fail after logout")
	}
}

func TestStub_Register_ThenLogin(t *testing.T) {
	_, _, store, _ := newTestStack(t)
	ctx := context.Background()

	// CSRFブートストラップ
	store.LoadSession(ctx)
	waitForState(t, store, auth.StateAnonymous)

	err := store.Register(ctx, model.RegistrationRequest{
		Email:     "new@example.com",
		Password:  "secret",
		FirstName: "Jiro",
		LastName:  "Tanaka",
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	login(t, store, "new@example.com", "secret")
	snap := store.Snapshot()
	if snap.User == nil || snap.User.Email != "new@example.com" {
		t.Errorf("user = %+v, want newly registered user", snap.User)
	}
}

func TestStub_DuplicateRegistration_Returns409(t *testing.T) {
	_, _, store, _ := newTestStack(t)
	ctx := context.Background()

	store.LoadSession(ctx)
	waitForState(t, store, auth.StateAnonymous)

	err := store.Register(ctx, model.RegistrationRequest{
		Email:    "teacher@example.com",
		Password: "secret",
	})
	if err == nil {
		t.Fatal("Register() should fail for existing email")
	}

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T, want *model.APIError", err)
	}
	if apiErr.StatusCode != http.StatusConflict {
		t.Errorf("StatusCode = %d, want 409", apiErr.StatusCode)
	}
}
