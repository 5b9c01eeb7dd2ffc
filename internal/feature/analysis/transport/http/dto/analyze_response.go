// Package dto defines data transfer objects for the analysis feature's HTTP transport layer.
package dto

// AnalyzeResponse represents the success body of the /api/stocks/analyze
// endpoint. Field names are serialized as-is to keep the wire contract.
type AnalyzeResponse struct {
	Symbol        string  `json:"Symbol"`
	PurchasePrice float64 `json:"PurchasePrice"`
	SalePrice     float64 `json:"SalePrice"`
	Change        float64 `json:"Change"`
	ChangePercent float64 `json:"ChangePercent"`
}
