package alphavantage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/shopspring/decimal"

	"stockmarket_backend/internal/feature/analysis/adapters/alphavantage/dto"
	"stockmarket_backend/internal/feature/analysis/domain/entity"
	"stockmarket_backend/internal/feature/analysis/usecase"
)

// AlphaVantageMarket はAlpha Vantage外部APIから株価データを取得するPriceDataSource実装です。
type AlphaVantageMarket struct {
	cfg    Config
	client *http.Client
}

// AlphaVantageMarketがPriceDataSourceを実装していることをコンパイル時に検証します。
var _ usecase.PriceDataSource = (*AlphaVantageMarket)(nil)

// NewAlphaVantageMarket は指定された設定とHTTPクライアントでAlphaVantageMarketの新しいインスタンスを生成します。
func NewAlphaVantageMarket(cfg Config, client *http.Client) *AlphaVantageMarket {
	return &AlphaVantageMarket{cfg: cfg, client: client}
}

// FetchDailySeries はAlpha Vantage APIから日次時系列データを取得し、
// 日付から終値へのマッピングとして返します。
func (a *AlphaVantageMarket) FetchDailySeries(ctx context.Context, symbol string) (entity.PriceSeries, error) {
	q := url.Values{}
	// クエリパラメータを追加
	q.Set("function", "TIME_SERIES_DAILY")
	q.Set("symbol", symbol)
	q.Set("apikey", a.cfg.APIKey)

	// URLを生成
	u := fmt.Sprintf("%s/query?%s", a.cfg.BaseURL, q.Encode())

	// リクエストオブジェクトを作成
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	// リクエストを実行
	res, err := a.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("alphavantage http %d", res.StatusCode)
	}

	// JSONレスポンスをDTOにデコード
	var body dto.DailySeriesResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, err
	}
	if body.ErrorMessage != "" {
		return nil, fmt.Errorf("alphavantage: %s", body.ErrorMessage)
	}
	// 期待するトップレベルフィールドの存在を検証
	if body.TimeSeries == nil {
		return nil, fmt.Errorf("alphavantage: %q not found in response", "Time Series (Daily)")
	}

	series := make(entity.PriceSeries, len(body.TimeSeries))
	for date, quote := range body.TimeSeries {
		// 終値をパース
		closePrice, err := decimal.NewFromString(quote.Close)
		if err != nil {
			return nil, fmt.Errorf("parse close %q for %s: %w", quote.Close, date, err)
		}
		series[date] = closePrice
	}
	return series, nil
}
