package dto

type SaveOutputRequest struct {
	Target      string      `json:"target" validate:"required"` // history | stock_query | db_query | yfinance_news | filings | pdf_rag | web_scraping | time_llm
	Response    interface{} `json:"response" validate:"required"`
	UserRequest string      `json:"user_request,omitempty"`
}

type SaveOutputResponse struct {
	Path string `json:"path"`
}

type SaveHistoricalPriceRequest struct {
	UserQuery string   `json:"user_query" validate:"required"`
	Symbols   []string `json:"symbols" validate:"required,min=1"`
	StartDate string   `json:"start_date" validate:"required"`
	EndDate   string   `json:"end_date" validate:"required"`
	CSVData   []byte   `json:"csv_data"`
	PNGData   []byte   `json:"png_data"`
}

type SaveHistoricalPriceResponse struct {
	CSVPath string `json:"csv_path"`
	PNGPath string `json:"png_path"`
}
