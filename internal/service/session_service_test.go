// FILE: internal/service/session_service_test.go
package service

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"financial-assistant-be/internal/config"
	"financial-assistant-be/internal/dto"
	"financial-assistant-be/internal/repository/contract"
	"financial-assistant-be/internal/repository/memory"
	"financial-assistant-be/pkg/analytics"
	"financial-assistant-be/pkg/events"
	"financial-assistant-be/pkg/workspace"

	"github.com/google/uuid"
)

type stubLogger struct {
	mu      sync.Mutex
	entries []string
}

func (l *stubLogger) record(message string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, message)
}

func (l *stubLogger) Debug(module, message string, details map[string]interface{}) { l.record(message) }
func (l *stubLogger) Info(module, message string, details map[string]interface{})  { l.record(message) }
func (l *stubLogger) Warn(module, message string, details map[string]interface{})  { l.record(message) }
func (l *stubLogger) Error(module, message string, details map[string]interface{}) { l.record(message) }
func (l *stubLogger) Sync() error                                                  { return nil }

func (l *stubLogger) has(message string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, entry := range l.entries {
		if entry == message {
			return true
		}
	}
	return false
}

// capturePublisher records every event pushed onto the in-process bus so
// tests can assert on the emitted types without a real broker.
type capturePublisher struct {
	mu     sync.Mutex
	events []dto.WorkspaceEventMessage
}

func (p *capturePublisher) Publish(ctx context.Context, payload []byte) error {
	var msg dto.WorkspaceEventMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, msg)
	return nil
}

func (p *capturePublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

func (p *capturePublisher) count(eventType string) int {
	n := 0
	for _, t := range p.types() {
		if t == eventType {
			n++
		}
	}
	return n
}

type sessionFixture struct {
	svc  ISessionService
	pub  *capturePublisher
	log  *stubLogger
	repo contract.SessionRepository
	cfg  *config.Config
}

func newSessionFixture(t *testing.T) *sessionFixture {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("SEC_API_ORGANIZATION", "")
	t.Setenv("SEC_API_EMAIL", "")

	base := t.TempDir()
	cfg := &config.Config{
		Session: config.SessionConfig{Store: "memory", TTLMinutes: 60},
		Workspace: config.WorkspaceConfig{
			CacheDir:         filepath.Join(base, "cache"),
			ScratchDir:       filepath.Join(base, "scratch"),
			AnalysisCacheDir: filepath.Join(base, "analysis_cache"),
		},
	}

	log := &stubLogger{}
	pub := &capturePublisher{}
	repo := memory.NewSessionRepository(time.Hour)
	svc := NewSessionService(cfg, repo, workspace.NewOps(log), analytics.NewTracker("", "financial_assistant", false), pub, log)
	return &sessionFixture{svc: svc, pub: pub, log: log, repo: repo, cfg: cfg}
}

func TestInitializeCreatesSession(t *testing.T) {
	fx := newSessionFixture(t)
	ctx := context.Background()

	analysisDir := fx.cfg.Workspace.AnalysisCacheDir
	if err := os.MkdirAll(analysisDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(analysisDir, "stale.tmp"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	resp, err := fx.svc.Initialize(ctx, nil, &dto.InitializeSessionRequest{})
	if err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	if resp.SessionId == uuid.Nil {
		t.Error("Initialize() returned a nil session id")
	}
	if resp.Token == "" {
		t.Error("Initialize() returned an empty token")
	}
	if resp.CacheDir != fx.cfg.Workspace.CacheDir {
		t.Errorf("CacheDir = %q, want %q", resp.CacheDir, fx.cfg.Workspace.CacheDir)
	}
	wantHistory := filepath.Join(fx.cfg.Workspace.CacheDir, "chat_history.txt")
	if resp.Paths.HistoryPath != wantHistory {
		t.Errorf("Paths.HistoryPath = %q, want %q", resp.Paths.HistoryPath, wantHistory)
	}

	if _, err := os.Stat(analysisDir); !os.IsNotExist(err) {
		t.Error("Initialize() did not clear the analysis cache directory")
	}

	if got := fx.pub.types(); len(got) != 1 || got[0] != events.TypeSessionInitialized {
		t.Errorf("published events = %v, want [%s]", got, events.TypeSessionInitialized)
	}
	if !fx.log.has("SEC EDGAR identity is incomplete") {
		t.Error("missing EDGAR identity should be logged")
	}
}

func TestInitializeReturnsExistingSession(t *testing.T) {
	fx := newSessionFixture(t)
	ctx := context.Background()

	first, err := fx.svc.Initialize(ctx, nil, &dto.InitializeSessionRequest{})
	if err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}

	// A second call with a live session id must not rerun startup work.
	analysisDir := fx.cfg.Workspace.AnalysisCacheDir
	if err := os.MkdirAll(analysisDir, 0o755); err != nil {
		t.Fatal(err)
	}

	second, err := fx.svc.Initialize(ctx, &first.SessionId, &dto.InitializeSessionRequest{})
	if err != nil {
		t.Fatalf("Initialize() with existing id error = %v", err)
	}
	if second.SessionId != first.SessionId {
		t.Errorf("SessionId = %s, want %s", second.SessionId, first.SessionId)
	}
	if second.CacheDir != first.CacheDir {
		t.Errorf("CacheDir = %q, want %q", second.CacheDir, first.CacheDir)
	}
	if second.Token == "" {
		t.Error("existing session should still receive a fresh token")
	}
	if _, err := os.Stat(analysisDir); err != nil {
		t.Error("existing session must not clear the analysis cache again")
	}
	if n := fx.pub.count(events.TypeSessionInitialized); n != 1 {
		t.Errorf("SESSION_INITIALIZED published %d times, want 1", n)
	}
}

func TestInitializeMintsNewSessionWhenStoreExpired(t *testing.T) {
	fx := newSessionFixture(t)
	ctx := context.Background()

	stale := uuid.New()
	resp, err := fx.svc.Initialize(ctx, &stale, &dto.InitializeSessionRequest{})
	if err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	if resp.SessionId == stale {
		t.Error("expired session id must not be resurrected")
	}
	if n := fx.pub.count(events.TypeSessionInitialized); n != 1 {
		t.Errorf("SESSION_INITIALIZED published %d times, want 1", n)
	}
}

func TestInitializeProdModeDerivesRoot(t *testing.T) {
	fx := newSessionFixture(t)
	ctx := context.Background()

	resp, err := fx.svc.Initialize(ctx, nil, &dto.InitializeSessionRequest{ProdMode: true})
	if err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	if !resp.ProdMode {
		t.Error("ProdMode = false, want true")
	}
	want := workspace.ProdRoot(fx.cfg.Workspace.ScratchDir, resp.SessionId.String())
	if resp.CacheDir != want {
		t.Errorf("CacheDir = %q, want %q", resp.CacheDir, want)
	}
}

func TestInitializeExplicitCacheDirWins(t *testing.T) {
	fx := newSessionFixture(t)
	ctx := context.Background()

	custom := filepath.Join(t.TempDir(), "elsewhere")
	resp, err := fx.svc.Initialize(ctx, nil, &dto.InitializeSessionRequest{ProdMode: true, CacheDir: custom})
	if err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	if resp.CacheDir != custom {
		t.Errorf("CacheDir = %q, want explicit override %q", resp.CacheDir, custom)
	}
}

func TestShowUnknownSession(t *testing.T) {
	fx := newSessionFixture(t)

	_, err := fx.svc.Show(context.Background(), uuid.New())
	if !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Show() error = %v, want ErrSessionNotFound", err)
	}
}

func TestShowOmitsToken(t *testing.T) {
	fx := newSessionFixture(t)
	ctx := context.Background()

	created, err := fx.svc.Initialize(ctx, nil, &dto.InitializeSessionRequest{})
	if err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}

	shown, err := fx.svc.Show(ctx, created.SessionId)
	if err != nil {
		t.Fatalf("Show() error = %v", err)
	}
	if shown.Token != "" {
		t.Error("Show() must not mint a token")
	}
	if shown.SessionId != created.SessionId {
		t.Errorf("SessionId = %s, want %s", shown.SessionId, created.SessionId)
	}
}

func TestSubmitEdgarDetailsStoresIdentity(t *testing.T) {
	fx := newSessionFixture(t)
	ctx := context.Background()

	created, err := fx.svc.Initialize(ctx, nil, &dto.InitializeSessionRequest{})
	if err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}

	req := &dto.SubmitEdgarDetailsRequest{Organization: "Acme Research", Email: "ops@acme.test"}
	res, err := fx.svc.SubmitEdgarDetails(ctx, created.SessionId, req)
	if err != nil {
		t.Fatalf("SubmitEdgarDetails() error = %v", err)
	}
	if res.UserAgent != "Acme Research ops@acme.test" {
		t.Errorf("UserAgent = %q, want %q", res.UserAgent, "Acme Research ops@acme.test")
	}
	if got := os.Getenv("SEC_API_ORGANIZATION"); got != "Acme Research" {
		t.Errorf("SEC_API_ORGANIZATION = %q, want %q", got, "Acme Research")
	}
	if got := os.Getenv("SEC_API_EMAIL"); got != "ops@acme.test" {
		t.Errorf("SEC_API_EMAIL = %q, want %q", got, "ops@acme.test")
	}
	stored, err := fx.repo.FindById(ctx, created.SessionId)
	if err != nil || stored == nil {
		t.Fatalf("FindById() after submit = (%v, %v)", stored, err)
	}
	if stored.EdgarOrganization != "Acme Research" || stored.EdgarEmail != "ops@acme.test" {
		t.Errorf("stored identity = (%q, %q), want it persisted on the session", stored.EdgarOrganization, stored.EdgarEmail)
	}
	if n := fx.pub.count(events.TypeEdgarDetailsSaved); n != 1 {
		t.Errorf("EDGAR_DETAILS_SAVED published %d times, want 1", n)
	}

	if _, err := fx.svc.SubmitEdgarDetails(ctx, uuid.New(), req); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("SubmitEdgarDetails() for unknown session error = %v, want ErrSessionNotFound", err)
	}
}

func TestCloseDeletesCacheAndSession(t *testing.T) {
	fx := newSessionFixture(t)
	ctx := context.Background()

	created, err := fx.svc.Initialize(ctx, nil, &dto.InitializeSessionRequest{})
	if err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	if err := os.MkdirAll(created.CacheDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(created.CacheDir, "chat_history.txt"), []byte("hi"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := fx.svc.Close(ctx, created.SessionId, true); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if _, err := os.Stat(created.CacheDir); !os.IsNotExist(err) {
		t.Error("Close(deleteRoot=true) should remove the cache root")
	}
	if _, err := fx.svc.Show(ctx, created.SessionId); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Show() after Close error = %v, want ErrSessionNotFound", err)
	}
	if n := fx.pub.count(events.TypeCacheCleared); n != 1 {
		t.Errorf("CACHE_CLEARED published %d times, want 1", n)
	}
}
