// FILE: internal/service/export_service_test.go
package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"financial-assistant-be/internal/dto"
	"financial-assistant-be/internal/entity"
	"financial-assistant-be/internal/repository/memory"
	"financial-assistant-be/pkg/events"
	"financial-assistant-be/pkg/exports"
	"financial-assistant-be/pkg/workspace"

	"github.com/google/uuid"
)

type exportFixture struct {
	svc     IExportService
	pub     *capturePublisher
	log     *stubLogger
	session *entity.Session
}

func newExportFixture(t *testing.T) *exportFixture {
	t.Helper()

	root := t.TempDir()
	id := uuid.New()
	now := time.Now()
	session := &entity.Session{
		Id:         id,
		CacheDir:   root,
		Layout:     workspace.NewLayout(id.String(), root),
		LaunchTime: now,
		LastSeenAt: now,
	}

	repo := memory.NewSessionRepository(time.Hour)
	if err := repo.Save(context.Background(), session); err != nil {
		t.Fatal(err)
	}

	log := &stubLogger{}
	pub := &capturePublisher{}
	svc := NewExportService(repo, exports.NewWriter(log), pub, log)
	return &exportFixture{svc: svc, pub: pub, log: log, session: session}
}

func TestSaveOutputAppendsHistory(t *testing.T) {
	fx := newExportFixture(t)
	ctx := context.Background()

	resp, err := fx.svc.SaveOutput(ctx, fx.session.Id, &dto.SaveOutputRequest{
		Target:      "history",
		Response:    "All good.",
		UserRequest: "What is up?",
	})
	if err != nil {
		t.Fatalf("SaveOutput() error = %v", err)
	}
	if resp.Path != fx.session.Layout.HistoryPath {
		t.Errorf("Path = %q, want %q", resp.Path, fx.session.Layout.HistoryPath)
	}

	data, err := os.ReadFile(resp.Path)
	if err != nil {
		t.Fatal(err)
	}
	want := "\n\n" + "What is up?\n\n" + "All good." + "\n\n"
	if string(data) != want {
		t.Errorf("history = %q, want %q", data, want)
	}
	if n := fx.pub.count(events.TypeOutputSaved); n != 1 {
		t.Errorf("OUTPUT_SAVED published %d times, want 1", n)
	}
}

func TestSaveOutputUnknownTarget(t *testing.T) {
	fx := newExportFixture(t)

	_, err := fx.svc.SaveOutput(context.Background(), fx.session.Id, &dto.SaveOutputRequest{
		Target:   "History",
		Response: "x",
	})
	if !errors.Is(err, ErrUnknownTarget) {
		t.Errorf("SaveOutput() error = %v, want ErrUnknownTarget", err)
	}
}

func TestSaveOutputUnknownSession(t *testing.T) {
	fx := newExportFixture(t)

	_, err := fx.svc.SaveOutput(context.Background(), uuid.New(), &dto.SaveOutputRequest{
		Target:   "history",
		Response: "x",
	})
	if !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("SaveOutput() error = %v, want ErrSessionNotFound", err)
	}
}

func TestSaveOutputListOfObjectsBecomesTable(t *testing.T) {
	fx := newExportFixture(t)

	// Decoded JSON arrives as []interface{}; an all-object list is the wire
	// form of tabular data.
	resp, err := fx.svc.SaveOutput(context.Background(), fx.session.Id, &dto.SaveOutputRequest{
		Target: "stock_query",
		Response: []interface{}{
			map[string]interface{}{"symbol": "AAPL", "close": 101.5},
		},
	})
	if err != nil {
		t.Fatalf("SaveOutput() error = %v", err)
	}
	data, err := os.ReadFile(resp.Path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `[{"close":101.5,"symbol":"AAPL"}]`) {
		t.Errorf("stock_query = %q, want a compact JSON table line", data)
	}
}

func TestSaveOutputMixedListIsRejected(t *testing.T) {
	fx := newExportFixture(t)

	_, err := fx.svc.SaveOutput(context.Background(), fx.session.Id, &dto.SaveOutputRequest{
		Target: "stock_query",
		Response: []interface{}{
			"plain text",
			map[string]interface{}{"symbol": "AAPL"},
		},
	})
	if !errors.Is(err, exports.ErrInvalidResponse) {
		t.Errorf("SaveOutput() error = %v, want ErrInvalidResponse", err)
	}
}

func TestSaveHistoricalPrice(t *testing.T) {
	fx := newExportFixture(t)

	resp, err := fx.svc.SaveHistoricalPrice(context.Background(), fx.session.Id, &dto.SaveHistoricalPriceRequest{
		UserQuery: "Plot AAPL for January",
		Symbols:   []string{"AAPL"},
		StartDate: "2024-01-01",
		EndDate:   "2024-01-31",
		CSVData:   []byte("date,close\n2024-01-02,185.6\n"),
		PNGData:   []byte{0x89, 0x50, 0x4e, 0x47},
	})
	if err != nil {
		t.Fatalf("SaveHistoricalPrice() error = %v", err)
	}

	wantCSV := filepath.Join(fx.session.Layout.HistoryFiguresDir, "stock_data_AAPL_2024-01-01_2024-01-31.csv")
	if resp.CSVPath != wantCSV {
		t.Errorf("CSVPath = %q, want %q", resp.CSVPath, wantCSV)
	}
	if _, err := os.Stat(resp.PNGPath); err != nil {
		t.Errorf("PNG file missing: %v", err)
	}

	history, err := os.ReadFile(fx.session.Layout.HistoryPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(history), "Plot AAPL for January") {
		t.Error("history should record the user query")
	}
	if !strings.Contains(string(history), resp.PNGPath) {
		t.Error("history should record the figure path")
	}
}

func TestDownload(t *testing.T) {
	fx := newExportFixture(t)
	ctx := context.Background()

	content := []byte("saved conversation")
	if err := os.WriteFile(fx.session.Layout.HistoryPath, content, 0o644); err != nil {
		t.Fatal(err)
	}

	data, mime, name, err := fx.svc.Download(ctx, fx.session.Id, "chat_history.txt")
	if err != nil {
		t.Fatalf("Download() error = %v", err)
	}
	if string(data) != string(content) {
		t.Errorf("data = %q, want %q", data, content)
	}
	if mime != "text/plain" {
		t.Errorf("mime = %q, want text/plain", mime)
	}
	if name != "chat_history.txt" {
		t.Errorf("name = %q, want chat_history.txt", name)
	}
}

func TestDownloadRejectsUnknownExtension(t *testing.T) {
	fx := newExportFixture(t)

	path := filepath.Join(fx.session.CacheDir, "blob.bin")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, _, _, err := fx.svc.Download(context.Background(), fx.session.Id, "blob.bin")
	if !errors.Is(err, ErrNotDownloadable) {
		t.Errorf("Download() error = %v, want ErrNotDownloadable", err)
	}
}

func TestDownloadMissingFile(t *testing.T) {
	fx := newExportFixture(t)

	_, _, _, err := fx.svc.Download(context.Background(), fx.session.Id, "nope.txt")
	if !errors.Is(err, ErrFileNotFound) {
		t.Errorf("Download() error = %v, want ErrFileNotFound", err)
	}
	if !fx.log.has("Error reading file") {
		t.Error("missing download should be logged")
	}
}

func TestDownloadRejectsEscape(t *testing.T) {
	fx := newExportFixture(t)

	_, _, _, err := fx.svc.Download(context.Background(), fx.session.Id, "../outside.txt")
	if !errors.Is(err, ErrPathOutsideCache) {
		t.Errorf("Download() error = %v, want ErrPathOutsideCache", err)
	}
}
