package api

import (
	"errors"
	"net/http"
	"testing"

	"github.com/hitoshi/projectmatch/internal/model"
	"github.com/hitoshi/projectmatch/internal/notify"
)

// recordingNotifier は通知を記録する。
type recordingNotifier struct {
	severities []notify.Severity
	messages   []string
}

func (n *recordingNotifier) Show(severity notify.Severity, message string) {
	n.severities = append(n.severities, severity)
	n.messages = append(n.messages, message)
}

// fixedNav は固定パスを返す。
type fixedNav struct {
	path string
}

func (n *fixedNav) CurrentPath() string { return n.path }

// logoutCounter は強制ログアウトの回数を数える。
type logoutCounter struct {
	count int
}

func (s *logoutCounter) ForceLogout() { s.count++ }

func TestErrorInterceptor_401OnPrivatePath_NotifiesAndForcesLogout(t *testing.T) {
	notifier := &recordingNotifier{}
	sessions := &logoutCounter{}
	interceptor := NewErrorInterceptor(notifier, &fixedNav{path: "/projects"})
	interceptor.BindSessions(sessions)

	apiErr := model.NewAPIError(http.StatusUnauthorized, "")
	if got := interceptor.Handle(apiErr); got != apiErr {
		t.Error("Handle() should return the same error")
	}

	if sessions.count != 1 {
		t.Errorf("ForceLogout count = %d, want 1", sessions.count)
	}
	if len(notifier.messages) != 1 || notifier.messages[0] != msgSessionExpired {
		t.Errorf("messages = %v, want [%q]", notifier.messages, msgSessionExpired)
	}
	if notifier.severities[0] != notify.SeverityError {
		t.Errorf("severity = %q, want %q", notifier.severities[0], notify.SeverityError)
	}
}

func TestErrorInterceptor_401OnPublicPaths_DoesNothing(t *testing.T) {
	paths := []string{"/login", "/register", "/guest", "/verify", "/login/reset"}

	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			notifier := &recordingNotifier{}
			sessions := &logoutCounter{}
			interceptor := NewErrorInterceptor(notifier, &fixedNav{path: path})
			interceptor.BindSessions(sessions)

			apiErr := model.NewAPIError(http.StatusUnauthorized, "")
			if got := interceptor.Handle(apiErr); got != apiErr {
				t.Error("Handle() should return the same error")
			}

			if sessions.count != 0 {
				t.Errorf("ForceLogout count = %d, want 0 on public path", sessions.count)
			}
			if len(notifier.messages) != 0 {
				t.Errorf("messages = %v, want none on public path", notifier.messages)
			}
		})
	}
}

func TestErrorInterceptor_401WithoutBoundSessions_DoesNotPanic(t *testing.T) {
	notifier := &recordingNotifier{}
	interceptor := NewErrorInterceptor(notifier, &fixedNav{path: "/projects"})

	apiErr := model.NewAPIError(http.StatusUnauthorized, "")
	if got := interceptor.Handle(apiErr); got != apiErr {
		t.Error("Handle() should return the same error")
	}
}

func TestErrorInterceptor_404_NotifiesNotFound(t *testing.T) {
	notifier := &recordingNotifier{}
	interceptor := NewErrorInterceptor(notifier, &fixedNav{path: "/projects"})

	interceptor.Handle(model.NewAPIError(http.StatusNotFound, "project not found"))

	if len(notifier.messages) != 1 || notifier.messages[0] != msgNotFound {
		t.Errorf("messages = %v, want [%q]", notifier.messages, msgNotFound)
	}
}

func TestErrorInterceptor_4xxWithDetail_NotifiesDetail(t *testing.T) {
	notifier := &recordingNotifier{}
	interceptor := NewErrorInterceptor(notifier, &fixedNav{path: "/projects"})

	interceptor.Handle(model.NewAPIError(http.StatusConflict, "email already registered"))

	if len(notifier.messages) != 1 || notifier.messages[0] != "email already registered" {
		t.Errorf("messages = %v, want backend detail", notifier.messages)
	}
}

func TestErrorInterceptor_4xxWithoutDetail_NotifiesGenericMessage(t *testing.T) {
	notifier := &recordingNotifier{}
	interceptor := NewErrorInterceptor(notifier, &fixedNav{path: "/projects"})

	interceptor.Handle(model.NewAPIError(http.StatusBadRequest, ""))

	if len(notifier.messages) != 1 || notifier.messages[0] != msgClientError {
		t.Errorf("messages = %v, want [%q]", notifier.messages, msgClientError)
	}
}

func TestErrorInterceptor_5xx_NotifiesServerError(t *testing.T) {
	notifier := &recordingNotifier{}
	interceptor := NewErrorInterceptor(notifier, &fixedNav{path: "/projects"})

	interceptor.Handle(model.NewAPIError(http.StatusInternalServerError, "stacktrace..."))

	if len(notifier.messages) != 1 || notifier.messages[0] != msgServerError {
		t.Errorf("messages = %v, want [%q] (internal details must not leak)", notifier.messages, msgServerError)
	}
}

func TestErrorInterceptor_TransportError_NotifiesServerError(t *testing.T) {
	notifier := &recordingNotifier{}
	sessions := &logoutCounter{}
	interceptor := NewErrorInterceptor(notifier, &fixedNav{path: "/projects"})
	interceptor.BindSessions(sessions)

	interceptor.Handle(model.NewTransportError(errors.New("connection refused")))

	if len(notifier.messages) != 1 || notifier.messages[0] != msgServerError {
		t.Errorf("messages = %v, want [%q]", notifier.messages, msgServerError)
	}
	if sessions.count != 0 {
		t.Errorf("ForceLogout count = %d, want 0 for transport error", sessions.count)
	}
}
