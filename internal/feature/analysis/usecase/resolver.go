package usecase

import (
	"github.com/shopspring/decimal"

	"stockmarket_backend/internal/feature/analysis/domain/entity"
)

// ResolveClosingPrice は指定日の終値を解決します。
//
// シリーズに指定日が含まれていればその終値を返します。含まれていない場合
// （週末・祝日など非営業日）、指定日以前で最も新しい営業日の終値に
// フォールバックします。指定日以前のデータが存在しない場合はfalseを返します。
// 将来方向へのフォールバックは行いません。
func ResolveClosingPrice(series entity.PriceSeries, date string) (decimal.Decimal, bool) {
	if price, ok := series[date]; ok {
		return price, true
	}

	// 指定日以前で最大（最新）の日付を線形走査で探す
	// 日付キーはYYYY-MM-DD形式のため文字列比較が時系列比較と一致する
	latest := ""
	for d := range series {
		if d <= date && d > latest {
			latest = d
		}
	}
	if latest == "" {
		return decimal.Decimal{}, false
	}
	return series[latest], true
}
