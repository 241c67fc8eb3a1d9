package services

import "github.com/shopspring/decimal"

func roundMoney(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// lineSubtotal prefers a positive provided total over quantity times price.
func lineSubtotal(qty, price float64, provided *float64) decimal.Decimal {
	if provided != nil && *provided > 0 {
		return decimal.NewFromFloat(*provided).Round(2)
	}
	return decimal.NewFromFloat(qty).Mul(decimal.NewFromFloat(price)).Round(2)
}
