package usecase

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"stockmarket_backend/internal/feature/analysis/domain/entity"
)

// changePercentScale はデュアルルックアップモードの利回りパーセントの丸め桁数です。
const changePercentScale = 5

// PriceDataSource は外部マーケットデータプロバイダーを抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type PriceDataSource interface {
	// FetchDailySeries は指定銘柄の日次終値シリーズ全体を取得します。
	FetchDailySeries(ctx context.Context, symbol string) (entity.PriceSeries, error)
}

// PurchaseMode は購入価格の決定方法を表すタグ付きバリアントです。
// ExplicitPurchasePrice または DualLookup で生成します。
// 2つのモードはパーセント計算式が異なります（変化率 vs 利回り率）。
// この差異は元の仕様どおりに意図的に保持されており、統一してはいけません。
type PurchaseMode struct {
	explicit bool
	price    decimal.Decimal
}

// ExplicitPurchasePrice は呼び出し元が購入価格を直接指定するモードを返します。
// このモードでは売却日の終値のみを解決し、
// changePercent = (sale - purchase) / purchase * 100 （変化率）で計算します。
func ExplicitPurchasePrice(price decimal.Decimal) PurchaseMode {
	return PurchaseMode{explicit: true, price: price}
}

// DualLookup は購入日と売却日の両方の終値をシリーズから解決するモードを返します。
// このモードでは changePercent = round(sale / purchase * 100, 5) （利回り率）で計算します。
func DualLookup() PurchaseMode {
	return PurchaseMode{}
}

// IsExplicit はモードが明示的購入価格モードかどうかを返します。
func (m PurchaseMode) IsExplicit() bool { return m.explicit }

// Price は明示的購入価格モードで指定された価格を返します。
func (m PurchaseMode) Price() decimal.Decimal { return m.price }

// analysisUsecase は株価分析のビジネスロジックを実装します。
type analysisUsecase struct {
	source PriceDataSource
}

// NewAnalysisUsecase はanalysisUsecaseの新しいインスタンスを生成します。
func NewAnalysisUsecase(source PriceDataSource) *analysisUsecase {
	return &analysisUsecase{source: source}
}

// Analyze は購入日と売却日の間の価格変化を計算します。
//
// モードに関わらずプロバイダーへのフェッチは1回のみです（シリーズ全体を取得）。
// リクエストごとにシリーズを取得し直し、キャッシュは行いません。
func (u *analysisUsecase) Analyze(ctx context.Context, symbol, purchaseDate, sellDate string, mode PurchaseMode) (*entity.StockAnalysisResult, error) {
	if u.source == nil {
		return nil, ErrProviderMisconfigured
	}

	series, err := u.source.FetchDailySeries(ctx, symbol)
	if err != nil {
		slog.Warn("failed to fetch daily series", "symbol", symbol, "error", err)
		return nil, ErrDataUnavailable
	}

	sellPrice, ok := ResolveClosingPrice(series, sellDate)
	if !ok || sellPrice.IsZero() {
		return nil, ErrSellPriceUnavailable
	}

	if mode.explicit {
		purchasePrice := mode.price
		// パーセント計算前のゼロ除算ガード
		if purchasePrice.IsZero() {
			return nil, ErrPurchasePriceUnavailable
		}
		change := sellPrice.Sub(purchasePrice)
		changePercent := change.Div(purchasePrice).Mul(decimal.NewFromInt(100))
		return &entity.StockAnalysisResult{
			Symbol:        symbol,
			PurchasePrice: purchasePrice,
			SalePrice:     sellPrice,
			Change:        change,
			ChangePercent: changePercent,
		}, nil
	}

	purchasePrice, ok := ResolveClosingPrice(series, purchaseDate)
	if !ok || purchasePrice.IsZero() {
		return nil, ErrPurchasePriceUnavailable
	}

	change := sellPrice.Sub(purchasePrice)
	// デュアルルックアップモードは変化率ではなく利回り率を返す
	yield := sellPrice.Div(purchasePrice)
	changePercent := yield.Mul(decimal.NewFromInt(100)).Round(changePercentScale)

	return &entity.StockAnalysisResult{
		Symbol:        symbol,
		PurchasePrice: purchasePrice,
		SalePrice:     sellPrice,
		Change:        change,
		ChangePercent: changePercent,
	}, nil
}
