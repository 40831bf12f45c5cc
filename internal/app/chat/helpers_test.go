package chat

import (
	"errors"
	"sync"

	"github.com/golang-jwt/jwt"

	authjwt "shutterchat/internal/pkg/auth/jwt"
)

// fakeTransport captures frames in memory. Send fails once failSend is set,
// emulating a full write queue.
type fakeTransport struct {
	mu        sync.Mutex
	frames    [][]byte
	failSend  bool
	closed    bool
	closeCode int
	reason    string
}

func (t *fakeTransport) Send(data []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.failSend {
		return errors.New("send queue full")
	}

	buf := make([]byte, len(data))
	copy(buf, data)
	t.frames = append(t.frames, buf)
	return nil
}

func (t *fakeTransport) Close(code int, reason string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.closed = true
	t.closeCode = code
	t.reason = reason
	return nil
}

func (t *fakeTransport) frameCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.frames)
}

func (t *fakeTransport) frameAt(i int) []byte {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.frames[i]
}

func (t *fakeTransport) wasClosed() (bool, int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closed, t.closeCode
}

func (t *fakeTransport) setFailSend(fail bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.failSend = fail
}

// staticValidator accepts tokens of the form "token-for:<subject>" and
// rejects everything else.
type staticValidator struct{}

func (staticValidator) Validate(token string) (*authjwt.Claims, error) {
	const prefix = "token-for:"
	if len(token) <= len(prefix) || token[:len(prefix)] != prefix {
		return nil, errors.New("malformed token")
	}

	return &authjwt.Claims{
		StandardClaims: jwt.StandardClaims{Subject: token[len(prefix):]},
	}, nil
}

func tokenFor(subject string) string {
	return "token-for:" + subject
}

// recordingAlertSink collects published alerts.
type recordingAlertSink struct {
	mu     sync.Mutex
	alerts []Alert
}

func (s *recordingAlertSink) PublishAlert(kind, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alerts = append(s.alerts, Alert{Kind: kind, Message: message})
}

func (s *recordingAlertSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.alerts)
}

func (s *recordingAlertSink) last() Alert {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.alerts[len(s.alerts)-1]
}

func newTestRegistry(flapThreshold int) *Registry {
	return NewRegistry(staticValidator{}, flapThreshold)
}

// mustAdmit admits a chat-namespace connection or fails the test.
func mustAdmit(t interface {
	Helper()
	Fatalf(format string, args ...any)
}, r *Registry, identity string) (*Connection, *fakeTransport) {
	t.Helper()

	transport := &fakeTransport{}
	conn, customErr := r.Admit(identity, tokenFor(identity), DefaultNamespace, transport)
	if customErr != nil {
		t.Fatalf("Admit(%q) failed: %v", identity, customErr)
	}
	return conn, transport
}
