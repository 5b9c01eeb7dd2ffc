// Package entity defines the domain entities for the analysis feature.
package entity

import "github.com/shopspring/decimal"

// DateLayout is the calendar date format used throughout the analysis
// feature. Keys in this format sort lexicographically in chronological
// order.
const DateLayout = "2006-01-02"

// PriceSeries maps a calendar date (DateLayout) to the closing price
// recorded on that trading day. A series is built fresh from the provider
// response for a single analysis call and is never persisted.
type PriceSeries map[string]decimal.Decimal

// StockAnalysisResult is the immutable outcome of one analysis call.
type StockAnalysisResult struct {
	// Symbol is the ticker the analysis was run for.
	Symbol string

	// PurchasePrice is the closing price on the purchase date, or the
	// caller-supplied price in explicit-purchase-price mode.
	PurchasePrice decimal.Decimal

	// SalePrice is the closing price resolved for the sale date.
	SalePrice decimal.Decimal

	// Change is SalePrice - PurchasePrice.
	Change decimal.Decimal

	// ChangePercent is the percentage figure for the trade. The formula
	// depends on the purchase mode; see the usecase package.
	ChangePercent decimal.Decimal
}
