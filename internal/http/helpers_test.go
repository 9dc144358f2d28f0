package http_test

import (
	"context"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/xplorhq/asset-service/internal/domain"
	api "github.com/xplorhq/asset-service/internal/http"
	"github.com/xplorhq/asset-service/internal/log"
	"github.com/xplorhq/asset-service/internal/service"
)

// In-memory collaborators so the router can be exercised without Mongo, S3
// or SMTP. The store interfaces are what make this substitution possible.

type memUsers struct {
	mu      sync.Mutex
	byEmail map[string]*domain.User
}

func (m *memUsers) FindUserByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byEmail[email]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) CreateUser(_ context.Context, u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byEmail[u.Email]; ok {
		return domain.ErrDuplicateAccount
	}
	u.ID = primitive.NewObjectID()
	u.CreatedAt = time.Now().UTC()
	cp := *u
	m.byEmail[u.Email] = &cp
	return nil
}

func (m *memUsers) MarkVerified(_ context.Context, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.byEmail[email]; ok {
		u.IsVerified = true
		u.VerificationOTP = ""
		u.VerificationExpires = nil
	}
	return nil
}

func (m *memUsers) SetResetOTP(_ context.Context, email, otp string, expires time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.byEmail[email]; ok {
		u.ResetOTP = otp
		u.ResetExpires = &expires
	}
	return nil
}

func (m *memUsers) ReplacePassword(_ context.Context, email, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.byEmail[email]; ok {
		u.HashedPassword = hash
		u.ResetOTP = ""
		u.ResetExpires = nil
	}
	return nil
}

type memAssets struct {
	mu   sync.Mutex
	byID map[string]*domain.Asset
}

func (m *memAssets) InsertAsset(_ context.Context, a *domain.Asset) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *a
	m.byID[a.FileID] = &cp
	return nil
}

func (m *memAssets) FindAsset(_ context.Context, fileID string) (*domain.Asset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byID[fileID]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (m *memAssets) ListAssets(_ context.Context) ([]domain.Asset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Asset{}
	for _, a := range m.byID {
		out = append(out, *a)
	}
	return out, nil
}

func (m *memAssets) DeleteAsset(_ context.Context, fileID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.byID, fileID)
	return nil
}

type memObjects struct {
	mu      sync.Mutex
	n       int
	deleted []string
}

func (m *memObjects) Upload(_ context.Context, folder, filename, contentType string, body io.Reader) (string, string, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, err := io.Copy(io.Discard, body); err != nil {
		return "", "", "", err
	}
	m.n++
	fileID := fmt.Sprintf("file-%d", m.n)
	key := fmt.Sprintf("%s/%s_%s", folder, fileID, filename)
	return fileID, key, "https://bucket.test/" + key, nil
}

func (m *memObjects) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, key)
	return nil
}

type memMailer struct {
	mu   sync.Mutex
	sent []string
}

func (m *memMailer) Send(to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, body)
	return nil
}

func (m *memMailer) lastOTP(t *testing.T) string {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		t.Fatal("no mail sent")
	}
	body := m.sent[len(m.sent)-1]
	i := strings.LastIndex(body, ": ")
	if i < 0 {
		t.Fatalf("no code in mail body %q", body)
	}
	return body[i+2:]
}

type okPinger struct{}

func (okPinger) Ping(context.Context) error { return nil }

// memLimiter counts attempts in memory, standing in for the redis window.
type memLimiter struct {
	mu     sync.Mutex
	counts map[string]int64
}

func newMemLimiter() *memLimiter {
	return &memLimiter{counts: map[string]int64{}}
}

func (m *memLimiter) CountAttempt(_ context.Context, key string, _ time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts[key]++
	return m.counts[key], nil
}

// memEvents records published account events together with the context the
// publish ran under.
type publishedEvent struct {
	ctx context.Context
	key string
}

type memEvents struct {
	published chan publishedEvent
}

func (m *memEvents) Publish(ctx context.Context, _, key string, _ any, _ string) error {
	m.published <- publishedEvent{ctx: ctx, key: key}
	return nil
}

func (m *memEvents) Close() error { return nil }

type testEnv struct {
	Users   *memUsers
	Assets  *memAssets
	Objects *memObjects
	Mailer  *memMailer
	Events  *memEvents
	Router  *gin.Engine
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newRateLimitedEnv(t, nil, 0)
}

func newRateLimitedEnv(t *testing.T, limiter api.AttemptCounter, perMin int) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	if _, err := log.Init(false); err != nil {
		t.Fatalf("log init: %v", err)
	}

	users := &memUsers{byEmail: map[string]*domain.User{}}
	assetStore := &memAssets{byID: map[string]*domain.Asset{}}
	objects := &memObjects{}
	mailer := &memMailer{}
	events := &memEvents{published: make(chan publishedEvent, 16)}

	auth := service.NewAuth(users, mailer, "test-secret", 30*time.Minute, 10*time.Minute)
	assets := service.NewAssets(assetStore, objects)

	// no OAuth client in the test wiring
	h := api.NewHandler(auth, assets, nil, events, limiter, perMin, okPinger{})
	return &testEnv{
		Users:   users,
		Assets:  assetStore,
		Objects: objects,
		Mailer:  mailer,
		Events:  events,
		Router:  api.NewRouter(h),
	}
}

// do drives one request through the router.
func (e *testEnv) do(method, path, contentType, body string, hdr map[string]string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	e.Router.ServeHTTP(w, req)
	return w
}
