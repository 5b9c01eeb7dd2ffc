// Package usecase implements the business logic for the analysis feature.
package usecase

import "errors"

var (
	// ErrDataUnavailable is returned when the market data provider could not
	// be reached or returned an unusable response.
	ErrDataUnavailable = errors.New("could not fetch stock price")

	// ErrSellPriceUnavailable is returned when no closing price could be
	// resolved for the sale date.
	ErrSellPriceUnavailable = errors.New("couldn't find sell price. Please try again later or try using different provider")

	// ErrPurchasePriceUnavailable is returned when no closing price could be
	// resolved for the purchase date, or when the purchase price is zero.
	ErrPurchasePriceUnavailable = errors.New("couldn't find purchase price. Please try again later or try using different provider")

	// ErrProviderMisconfigured is returned when no market data source is
	// wired into the usecase. This is an internal misconfiguration, not a
	// caller error, and maps to HTTP 500 at the transport layer.
	ErrProviderMisconfigured = errors.New("no market data provider configured")
)
