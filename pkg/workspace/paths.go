package workspace

import "path/filepath"

// Layout is the full set of per-session cache paths. Every field is a pure
// derivation from the cache root, so recomputing a Layout for the same
// session always yields the same values; nothing else stores these paths.
type Layout struct {
	SessionID string `json:"session_id"`
	CacheDir  string `json:"cache_dir"`

	// Interaction logs under the root
	HistoryPath      string `json:"history_path"`
	StockQueryPath   string `json:"stock_query_path"`
	DBQueryPath      string `json:"db_query_path"`
	YFinanceNewsPath string `json:"yfinance_news_path"`
	FilingsPath      string `json:"filings_path"`
	PDFRAGPath       string `json:"pdf_rag_path"`
	WebScrapingPath  string `json:"web_scraping_path"`
	TimeLLMPath      string `json:"time_llm_path"`

	// Source documents
	SourceDir           string `json:"source_dir"`
	DBPath              string `json:"db_path"`
	YFinanceNewsTxtPath string `json:"yfinance_news_txt_path"`
	YFinanceNewsCSVPath string `json:"yfinance_news_csv_path"`
	PDFSourcesDir       string `json:"pdf_sources_dir"`

	// Generated artifacts
	PDFGenerationDir     string `json:"pdf_generation_dir"`
	StockQueryFiguresDir string `json:"stock_query_figures_dir"`
	HistoryFiguresDir    string `json:"history_figures_dir"`
	DBQueryFiguresDir    string `json:"db_query_figures_dir"`
}

// ProdRoot derives the per-session production cache root. Roots of distinct
// sessions are distinct and never prefix each other: the id is a fixed-length
// final path element.
func ProdRoot(scratchDir, sessionID string) string {
	return filepath.Join(scratchDir, "cache_"+sessionID)
}

func NewLayout(sessionID, cacheDir string) Layout {
	sourceDir := filepath.Join(cacheDir, "sources")

	return Layout{
		SessionID: sessionID,
		CacheDir:  cacheDir,

		HistoryPath:      filepath.Join(cacheDir, "chat_history.txt"),
		StockQueryPath:   filepath.Join(cacheDir, "stock_query.txt"),
		DBQueryPath:      filepath.Join(cacheDir, "db_query.txt"),
		YFinanceNewsPath: filepath.Join(cacheDir, "yfinance_news.txt"),
		FilingsPath:      filepath.Join(cacheDir, "filings.txt"),
		PDFRAGPath:       filepath.Join(cacheDir, "pdf_rag.txt"),
		WebScrapingPath:  filepath.Join(cacheDir, "web_scraping.csv"),
		TimeLLMPath:      filepath.Join(cacheDir, "time_llm.json"),

		SourceDir:           sourceDir,
		DBPath:              filepath.Join(sourceDir, "stock_database.db"),
		YFinanceNewsTxtPath: filepath.Join(sourceDir, "yfinance_news_documents.txt"),
		YFinanceNewsCSVPath: filepath.Join(sourceDir, "yfinance_news_documents.csv"),
		PDFSourcesDir:       filepath.Join(sourceDir, "pdf_sources"),

		PDFGenerationDir:     filepath.Join(cacheDir, "pdf_generation"),
		StockQueryFiguresDir: filepath.Join(cacheDir, "stock_query_figures"),
		HistoryFiguresDir:    filepath.Join(cacheDir, "history_figures"),
		DBQueryFiguresDir:    filepath.Join(cacheDir, "db_query_figures"),
	}
}

// TargetPath resolves a named export target to its file path.
func (l Layout) TargetPath(name string) (string, bool) {
	switch name {
	case "history":
		return l.HistoryPath, true
	case "stock_query":
		return l.StockQueryPath, true
	case "db_query":
		return l.DBQueryPath, true
	case "yfinance_news":
		return l.YFinanceNewsPath, true
	case "filings":
		return l.FilingsPath, true
	case "pdf_rag":
		return l.PDFRAGPath, true
	case "web_scraping":
		return l.WebScrapingPath, true
	case "time_llm":
		return l.TimeLLMPath, true
	default:
		return "", false
	}
}

// Subdirs lists the fixed directories of the layout, outermost first.
func (l Layout) Subdirs() []string {
	return []string{
		l.SourceDir,
		l.PDFSourcesDir,
		l.PDFGenerationDir,
		l.StockQueryFiguresDir,
		l.HistoryFiguresDir,
		l.DBQueryFiguresDir,
	}
}
