package domain

import (
	"venue-settlement-engine/pkg/money"

	"github.com/shopspring/decimal"
)

// EngineConfig is the validated pricing configuration the services run with.
type EngineConfig struct {
	Currency           string
	TransactionFeeRate decimal.Decimal
	FeeTiers           []FeeTier
	Split              SplitConfig
	PassPrices         map[string]money.Money // GHOST Pass tier name -> fixed price
	DefaultTaxRate     decimal.Decimal
}
