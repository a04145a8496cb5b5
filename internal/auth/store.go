// Package auth は「誰がログインしているか」の単一情報源となる
// リアクティブな認証ストアを提供する。
//
// ストアは明示的な状態機械として実装する:
//
//	unknown → loading → authenticated(user) | anonymous
//
// インテントに伴うAPI呼び出しは呼び出し元のゴルーチンで実行し、
// 結果の状態遷移のみを単一のライターゴルーチンで直列に適用する。
// 同時に発行されたインテントの重複排除は行わず、最後に適用された
// 遷移が勝つ。各インテントの確定遷移は適用完了まで待ってから戻るため、
// インテント呼び出し直後のSnapshotは遷移後の状態を返す。
package auth

import (
	"context"
	"log/slog"
	"sync"

	"github.com/hitoshi/projectmatch/internal/model"
)

// State は認証状態機械の状態を表す。
type State string

const (
	// StateUnknown はセッション確認前の初期状態。
	StateUnknown State = "unknown"
	// StateLoading はセッション確認中の状態。
	StateLoading State = "loading"
	// StateAuthenticated はログイン済みの状態。
	StateAuthenticated State = "authenticated"
	// StateAnonymous は未ログインの状態。
	StateAnonymous State = "anonymous"
)

// Snapshot はある時点の認証状態のスナップショット。
// 購読者はStateUnknown/StateLoadingの間、ユーザー依存のUIを描画してはならない。
type Snapshot struct {
	State State
	User  *model.User // StateAuthenticatedの場合のみ非nil
}

// Service は認証APIの呼び出しに必要なインターフェース。
// api.Clientの部分集合として定義する。
type Service interface {
	CurrentUser(ctx context.Context) (*model.User, error)
	Login(ctx context.Context, creds model.Credentials) error
	Register(ctx context.Context, req model.RegistrationRequest) error
	Logout(ctx context.Context) error
}

// Navigator は状態遷移に伴う画面遷移の能力を表す。nav.Trackerの部分集合。
type Navigator interface {
	NavigateTo(path string)
}

// TokenClearer はログアウト時のCSRFトークン破棄に必要なインターフェース。
// transport.TokenCacheの部分集合として定義する。
type TokenClearer interface {
	Clear()
}

// TransitionRecorder は状態遷移メトリクスの記録に必要なインターフェース。
// metrics.Collectorの部分集合として定義する。
type TransitionRecorder interface {
	RecordAuthTransition(state string)
}

// transition はライターループへ送る1件の状態遷移。
// appliedが非nilの場合、適用完了時にクローズして送信元へ通知する。
type transition struct {
	snap    Snapshot
	applied chan struct{}
}

// Store は認証状態の単一情報源。
type Store struct {
	service  Service
	nav      Navigator
	tokens   TokenClearer
	recorder TransitionRecorder // nil可
	logger   *slog.Logger

	transitions chan transition
	done        chan struct{}
	closeOnce   sync.Once

	mu      sync.RWMutex
	current Snapshot
	subs    map[int]chan Snapshot
	nextSub int
}

// NewStore はStateUnknownを初期状態とするStoreを生成し、
// 遷移適用のライターゴルーチンを起動する。recorderはnilでもよい。
func NewStore(service Service, nav Navigator, tokens TokenClearer, recorder TransitionRecorder, logger *slog.Logger) *Store {
	s := &Store{
		service:     service,
		nav:         nav,
		tokens:      tokens,
		recorder:    recorder,
		logger:      logger,
		transitions: make(chan transition, 16),
		done:        make(chan struct{}),
		current:     Snapshot{State: StateUnknown},
		subs:        make(map[int]chan Snapshot),
	}
	go s.run()
	return s
}

// Close はライターゴルーチンを停止する。以後の遷移は適用されない。
func (s *Store) Close() {
	s.closeOnce.Do(func() { close(s.done) })
}

// run は状態遷移を直列に適用する単一ライターのループ。
func (s *Store) run() {
	for {
		select {
		case t := <-s.transitions:
			s.apply(t.snap)
			if t.applied != nil {
				close(t.applied)
			}
		case <-s.done:
			return
		}
	}
}

// apply は現在値を置き換え、全購読者へ配信する。
func (s *Store) apply(snap Snapshot) {
	s.mu.Lock()
	s.current = snap
	subs := make([]chan Snapshot, 0, len(s.subs))
	for _, ch := range s.subs {
		subs = append(subs, ch)
	}
	s.mu.Unlock()

	s.logger.Info("auth_transition", slog.String("state", string(snap.State)))
	if s.recorder != nil {
		s.recorder.RecordAuthTransition(string(snap.State))
	}

	for _, ch := range subs {
		// 購読者は常に最新値のみを受け取る。未受信の古い値は上書きする。
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snap:
		default:
		}
	}
}

// dispatch は状態遷移をライターループへ送る。適用は待たない。
func (s *Store) dispatch(snap Snapshot) {
	select {
	case s.transitions <- transition{snap: snap}:
	case <-s.done:
	}
}

// dispatchWait は状態遷移をライターループへ送り、適用完了まで待つ。
// インテントの確定遷移に使い、呼び出し元へ戻った時点でSnapshotが
// 遷移後の状態を返すことを保証する。
func (s *Store) dispatchWait(snap Snapshot) {
	applied := make(chan struct{})
	select {
	case s.transitions <- transition{snap: snap, applied: applied}:
	case <-s.done:
		return
	}
	select {
	case <-applied:
	case <-s.done:
	}
}

// Snapshot は現在の認証状態を返す。
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Subscribe は認証状態の継続的な購読を開始する。
// 返されるチャネルは容量1で、常に最新のスナップショットを保持する。
// 購読を終えたら必ず解除関数を呼ぶこと。
func (s *Store) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 1)

	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	ch <- s.current
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
	return ch, cancel
}

// LoadSession は現在のセッションを確認するインテント。
// 成功でauthenticated、失敗でanonymousに遷移する。
// 確定遷移の適用完了後に戻るため、戻り直後のSnapshotは結果を反映している。
func (s *Store) LoadSession(ctx context.Context) {
	s.dispatch(Snapshot{State: StateLoading})

	user, err := s.service.CurrentUser(ctx)
	if err != nil {
		s.dispatchWait(Snapshot{State: StateAnonymous})
		return
	}
	s.dispatchWait(Snapshot{State: StateAuthenticated, User: user})
}

// Login はログインインテント。成功時はセッション読み込みに連鎖し、
// ルート画面へ遷移する。失敗時は状態を変更せず、エラーを呼び出し元へ返す。
func (s *Store) Login(ctx context.Context, creds model.Credentials) error {
	if err := s.service.Login(ctx, creds); err != nil {
		return err
	}
	s.LoadSession(ctx)
	s.nav.NavigateTo("/")
	return nil
}

// Logout はログアウトインテント。成功時はanonymousに遷移し、
// CSRFトークンを破棄してログイン画面へ遷移する。
// 失敗時は状態を変更せず、エラーを呼び出し元へ返す。
func (s *Store) Logout(ctx context.Context) error {
	if err := s.service.Logout(ctx); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

// ForceLogout はエラーインターセプターからの強制ログアウト。
// API呼び出しを行わず、直前の状態にかかわらずanonymousへ遷移する。
func (s *Store) ForceLogout() {
	s.invalidate()
}

// Register は新規登録インテント。成功時は認証状態を変えずに
// 登録完了画面へ遷移する。失敗時はエラーを呼び出し元へ返す。
func (s *Store) Register(ctx context.Context, req model.RegistrationRequest) error {
	if err := s.service.Register(ctx, req); err != nil {
		return err
	}
	s.nav.NavigateTo("/guest")
	return nil
}

// invalidate はセッション失効の共通処理。
func (s *Store) invalidate() {
	s.tokens.Clear()
	s.dispatchWait(Snapshot{State: StateAnonymous})
	s.nav.NavigateTo("/login")
}
