package exports

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type memLogger struct {
	entries []string
}

func (m *memLogger) Debug(module, message string, details map[string]interface{}) {
	m.entries = append(m.entries, message)
}
func (m *memLogger) Info(module, message string, details map[string]interface{}) {
	m.entries = append(m.entries, message)
}
func (m *memLogger) Warn(module, message string, details map[string]interface{}) {
	m.entries = append(m.entries, message)
}
func (m *memLogger) Error(module, message string, details map[string]interface{}) {
	m.entries = append(m.entries, message)
}
func (m *memLogger) Sync() error { return nil }

func readAll(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func TestAppendOutputString(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chat_history.txt")
	w := NewWriter(&memLogger{})

	if err := w.AppendOutput(path, "All good.", "What is up?"); err != nil {
		t.Fatalf("AppendOutput: %v", err)
	}

	want := "\n\n" + "What is up?\n\n" + "All good." + "\n\n"
	if got := readAll(t, path); got != want {
		t.Errorf("file = %q, want %q", got, want)
	}
}

func TestAppendOutputWithoutUserRequest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	w := NewWriter(&memLogger{})

	if err := w.AppendOutput(path, "hi", ""); err != nil {
		t.Fatalf("AppendOutput: %v", err)
	}

	want := "\n\n" + "hi" + "\n\n"
	if got := readAll(t, path); got != want {
		t.Errorf("file = %q, want %q", got, want)
	}
}

func TestAppendOutputAccumulates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	w := NewWriter(&memLogger{})

	if err := w.AppendOutput(path, "first", ""); err != nil {
		t.Fatal(err)
	}
	if err := w.AppendOutput(path, "second", ""); err != nil {
		t.Fatal(err)
	}

	want := "\n\nfirst\n\n" + "\n\nsecond\n\n"
	if got := readAll(t, path); got != want {
		t.Errorf("file = %q, want %q", got, want)
	}
}

func TestAppendOutputStringList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	w := NewWriter(&memLogger{})

	if err := w.AppendOutput(path, []string{"a", "b"}, "req"); err != nil {
		t.Fatal(err)
	}

	want := "\n\n" + "req\n\n" + "a\n" + "b\n" + "\n\n"
	if got := readAll(t, path); got != want {
		t.Errorf("file = %q, want %q", got, want)
	}
}

func TestAppendOutputMixedList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	w := NewWriter(&memLogger{})

	resp := []interface{}{"x", 3.14159, json.Number("7")}
	if err := w.AppendOutput(path, resp, ""); err != nil {
		t.Fatal(err)
	}

	want := "\n\n" + "x\n" + "3.14\n" + "7\n" + "\n\n"
	if got := readAll(t, path); got != want {
		t.Errorf("file = %q, want %q", got, want)
	}
}

func TestAppendOutputMappingWritesValuesOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	w := NewWriter(&memLogger{})

	resp := map[string]interface{}{
		"b_answer":  "fine",
		"a_price":   12.3456,
		"c_symbols": []interface{}{"AAPL", "GOOG"},
	}
	if err := w.AppendOutput(path, resp, ""); err != nil {
		t.Fatal(err)
	}

	// Values render in key order; the keys themselves never appear.
	want := "\n\n" + "12.35\n" + "fine\n" + "AAPL, GOOG.\n" + "\n\n"
	got := readAll(t, path)
	if got != want {
		t.Errorf("file = %q, want %q", got, want)
	}
	if strings.Contains(got, "a_price") || strings.Contains(got, "b_answer") {
		t.Errorf("mapping keys leaked into the output: %q", got)
	}
}

func TestAppendOutputNestedMappingStripped(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	w := NewWriter(&memLogger{})

	resp := map[string]interface{}{
		"quote": map[string]interface{}{"price": 1, "symbol": "AAPL"},
	}
	if err := w.AppendOutput(path, resp, ""); err != nil {
		t.Fatal(err)
	}

	want := "\n\n" + "  price: 1,\n  symbol: AAPL" + "\n\n"
	if got := readAll(t, path); got != want {
		t.Errorf("file = %q, want %q", got, want)
	}
}

func TestAppendOutputTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	w := NewWriter(&memLogger{})

	table := Table{
		{"close": 101.5, "symbol": "AAPL"},
		{"close": 99.0, "symbol": "GOOG"},
	}
	if err := w.AppendOutput(path, table, "prices"); err != nil {
		t.Fatal(err)
	}

	want := "\n\n" + "prices\n\n" +
		`[{"close":101.5,"symbol":"AAPL"},{"close":99,"symbol":"GOOG"}]` +
		"\n\n"
	if got := readAll(t, path); got != want {
		t.Errorf("file = %q, want %q", got, want)
	}
}

func TestAppendOutputInvalidResponse(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")
	w := NewWriter(&memLogger{})

	tests := []struct {
		name     string
		response interface{}
	}{
		{"bare number", 3.14},
		{"bool", true},
		{"nil", nil},
		{"list with mapping element", []interface{}{map[string]interface{}{"a": 1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := w.AppendOutput(path, tt.response, "req")
			if !errors.Is(err, ErrInvalidResponse) {
				t.Fatalf("err = %v, want ErrInvalidResponse", err)
			}
		})
	}

	// The gate runs before any write.
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("rejected responses must not create the file, stat err = %v", err)
	}
}

func TestAppendOutputCreatesParentDirectory(t *testing.T) {
	base := t.TempDir()
	path := filepath.Join(base, "cache_s1", "stock_query.txt")
	w := NewWriter(&memLogger{})

	if err := w.AppendOutput(path, "ok", ""); err != nil {
		t.Fatalf("AppendOutput: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("stat: %v", err)
	}
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{3.14159, "3.14"},
		{2.5, "2.5"},
		{2.0, "2.0"},
		{0.129, "0.13"},
		{-1.005e3, "-1005.0"},
		{0, "0.0"},
	}

	for _, tt := range tests {
		if got := formatFloat(tt.in); got != tt.want {
			t.Errorf("formatFloat(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSaveHistoricalPrice(t *testing.T) {
	base := t.TempDir()
	figuresDir := filepath.Join(base, "history_figures")
	historyPath := filepath.Join(base, "chat_history.txt")
	w := NewWriter(&memLogger{})

	csvPath, pngPath, err := w.SaveHistoricalPrice(
		figuresDir,
		"plot AAPL and GOOG",
		[]string{"AAPL", "GOOG"},
		"2024-01-01", "2024-06-30",
		[]byte("date,close\n"), []byte{0x89, 0x50, 0x4e, 0x47},
		historyPath,
	)
	if err != nil {
		t.Fatalf("SaveHistoricalPrice: %v", err)
	}

	wantCSV := filepath.Join(figuresDir, "stock_data_AAPL_GOOG_2024-01-01_2024-06-30.csv")
	if csvPath != wantCSV {
		t.Errorf("csvPath = %q, want %q", csvPath, wantCSV)
	}
	wantPNG := filepath.Join(figuresDir, "stock_data_AAPL_GOOG_2024-01-01_2024-06-30.png")
	if pngPath != wantPNG {
		t.Errorf("pngPath = %q, want %q", pngPath, wantPNG)
	}

	if got := readAll(t, csvPath); got != "date,close\n" {
		t.Errorf("csv = %q", got)
	}
	history := readAll(t, historyPath)
	// The pointer rides through AppendOutput, so the log holds the block
	// framed twice.
	wantHistory := "\n\n" + "\n\n" + "plot AAPL and GOOG" + "\n\n" + pngPath + "\n\n" + "\n\n"
	if history != wantHistory {
		t.Errorf("history log = %q, want %q", history, wantHistory)
	}
}

func TestMimeFromPath(t *testing.T) {
	tests := []struct {
		path   string
		want   string
		wantOK bool
	}{
		{"report.txt", "text/plain", true},
		{"data.csv", "text/csv", true},
		{"chart.png", "image/png", true},
		{"filing.pdf", "application/pdf", true},
		{"archive.zip", "", false},
		{"noext", "", false},
		{"UPPER.TXT", "", false}, // extension match is case sensitive
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, ok := MimeFromPath(tt.path)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("MimeFromPath(%q) = (%q, %v), want (%q, %v)", tt.path, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
