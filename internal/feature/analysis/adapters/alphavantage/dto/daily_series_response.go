// Package dto defines data transfer objects for the Alpha Vantage API responses.
package dto

// DailySeriesResponse represents the JSON response from the Alpha Vantage
// TIME_SERIES_DAILY endpoint. The time series is keyed by calendar date
// (YYYY-MM-DD); a date absent from the map is a non-trading day.
type DailySeriesResponse struct {
	MetaData     MetaData              `json:"Meta Data"`
	TimeSeries   map[string]DailyQuote `json:"Time Series (Daily)"`
	ErrorMessage string                `json:"Error Message,omitempty"`
}

// MetaData represents the metadata block of the response.
type MetaData struct {
	Information   string `json:"1. Information"`
	Symbol        string `json:"2. Symbol"`
	LastRefreshed string `json:"3. Last Refreshed"`
	OutputSize    string `json:"4. Output Size"`
	TimeZone      string `json:"5. Time Zone"`
}

// DailyQuote represents one day's OHLCV record. All values arrive as
// decimal strings.
type DailyQuote struct {
	Open   string `json:"1. open"`
	High   string `json:"2. high"`
	Low    string `json:"3. low"`
	Close  string `json:"4. close"`
	Volume string `json:"5. volume"`
}
