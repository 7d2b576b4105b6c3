package exports

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"financial-assistant-be/internal/pkg/logger"
)

const moduleName = "EXPORTS"

// ErrInvalidResponse rejects response payloads outside the supported kinds.
var ErrInvalidResponse = errors.New("response must be a string, a list, a mapping, or a table")

// Table is a tabular result as a list of records, one map per row.
type Table []map[string]interface{}

// Writer appends interaction outputs to the per-session log files. One entry
// is a blank-line framed block: separator, optional user request plus
// separator, the rendered response, separator. Within the response, elements
// are separated by single newlines only. Downstream display splits the files
// on the blank lines, so the framing bytes are load-bearing.
type Writer struct {
	log logger.ILogger
}

func NewWriter(log logger.ILogger) *Writer {
	return &Writer{log: log}
}

// AppendOutput appends the rendered response to the file at path, creating
// the file and its parent directory when missing. The user request, when
// non-empty, precedes the response inside the block. Unsupported response
// kinds fail before anything is written.
func (w *Writer) AppendOutput(path string, response interface{}, userRequest string) error {
	if err := validateResponse(response); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	var b strings.Builder
	b.WriteString("\n\n")
	if userRequest != "" {
		b.WriteString(userRequest)
		b.WriteString("\n\n")
	}
	w.renderResponse(&b, response)
	b.WriteString("\n\n")

	_, err = f.WriteString(b.String())
	return err
}

// SaveHistoricalPrice writes the tabular price data and the rendered chart
// under figuresDir and, when historyPath is set, appends a pointer block
// naming the chart to the history log.
func (w *Writer) SaveHistoricalPrice(figuresDir, userQuery string, symbols []string, startDate, endDate string, csvData, pngData []byte, historyPath string) (string, string, error) {
	if err := os.MkdirAll(figuresDir, 0o755); err != nil {
		return "", "", err
	}

	suffix := fmt.Sprintf("stock_data_%s_%s_%s", strings.Join(symbols, "_"), startDate, endDate)
	csvPath := filepath.Join(figuresDir, suffix+".csv")
	pngPath := filepath.Join(figuresDir, suffix+".png")

	if err := os.WriteFile(csvPath, csvData, 0o644); err != nil {
		return "", "", err
	}
	if err := os.WriteFile(pngPath, pngData, 0o644); err != nil {
		return "", "", err
	}

	if historyPath != "" {
		// The pointer content carries its own separators and then rides
		// through AppendOutput like any other string response, so the block
		// lands double-framed in the log.
		content := "\n\n" + userQuery + "\n\n" + pngPath + "\n\n"
		if err := w.AppendOutput(historyPath, content, ""); err != nil {
			return "", "", err
		}
	}
	return csvPath, pngPath, nil
}

func validateResponse(response interface{}) error {
	switch v := response.(type) {
	case string, []string, map[string]interface{}, Table:
		return nil
	case []interface{}:
		for _, elem := range v {
			if _, err := formatScalar(elem); err != nil {
				return fmt.Errorf("%w: list element of type %T", ErrInvalidResponse, elem)
			}
		}
		return nil
	default:
		return fmt.Errorf("%w, got %T", ErrInvalidResponse, v)
	}
}

func (w *Writer) renderResponse(b *strings.Builder, response interface{}) {
	switch v := response.(type) {
	case string:
		b.WriteString(v)
	case []string:
		for _, elem := range v {
			b.WriteString(elem + "\n")
		}
	case []interface{}:
		for _, elem := range v {
			s, _ := formatScalar(elem) // validated up front
			b.WriteString(s + "\n")
		}
	case map[string]interface{}:
		w.renderMapping(b, v)
	case Table:
		w.writeTable(b, v)
	}
}

// renderMapping writes the values of the mapping, one line per value in key
// order. Keys themselves are never written.
func (w *Writer) renderMapping(b *strings.Builder, m map[string]interface{}) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		switch value := m[k].(type) {
		case string:
			b.WriteString(value + "\n")
		case float64, int, int64, json.Number:
			s, err := formatScalar(value)
			if err != nil {
				w.log.Warn(moduleName, "Could not save the response.", map[string]interface{}{"key": k, "error": err.Error()})
				continue
			}
			b.WriteString(s + "\n")
		case []interface{}:
			b.WriteString(joinList(value) + ".\n")
		case []string:
			b.WriteString(strings.Join(value, ", ") + ".\n")
		case Table:
			w.writeTable(b, value)
		case map[string]interface{}:
			w.writeStripped(b, value)
		default:
			w.log.Warn(moduleName, "Could not save the response.", map[string]interface{}{"key": k, "type": fmt.Sprintf("%T", value)})
		}
	}
}

func (w *Writer) writeTable(b *strings.Builder, t Table) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(t); err != nil {
		w.log.Warn(moduleName, "Could not save the response.", map[string]interface{}{"error": err.Error()})
		return
	}
	b.Write(bytes.TrimRight(buf.Bytes(), "\n"))
}

func (w *Writer) writeStripped(b *strings.Builder, data interface{}) {
	s, err := StrippedJSON(data)
	if err != nil {
		w.log.Warn(moduleName, "Could not save the response.", map[string]interface{}{"error": err.Error()})
		return
	}
	b.WriteString(s)
}

func formatScalar(v interface{}) (string, error) {
	switch s := v.(type) {
	case string:
		return s, nil
	case float64:
		return formatFloat(s), nil
	case int:
		return strconv.Itoa(s), nil
	case int64:
		return strconv.FormatInt(s, 10), nil
	case json.Number:
		raw := s.String()
		if !strings.ContainsAny(raw, ".eE") {
			return raw, nil
		}
		f, err := s.Float64()
		if err != nil {
			return "", err
		}
		return formatFloat(f), nil
	default:
		return "", fmt.Errorf("unsupported scalar type %T", v)
	}
}

// formatFloat rounds to two decimals; whole values keep a trailing ".0" so
// numeric cells stay recognizable as floats.
func formatFloat(v float64) string {
	return floatString(math.Round(v*100) / 100)
}

func floatString(v float64) string {
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// joinList renders list values inside a mapping as one comma separated line.
// Elements are not rounded here; the line reads as prose, not as data.
func joinList(items []interface{}) string {
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = stringify(item)
	}
	return strings.Join(parts, ", ")
}

func stringify(v interface{}) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return floatString(s)
	case json.Number:
		return s.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}
