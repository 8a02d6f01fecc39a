package service

import (
	"fmt"

	"venue-settlement-engine/internal/core/domain"
	"venue-settlement-engine/pkg/apperror"
	"venue-settlement-engine/pkg/money"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SplitCalculatorService implements ports.SplitCalculator.
// Every derived amount is rounded exactly once; no state is shared between calls.
type SplitCalculatorService struct {
	feeRate decimal.Decimal
}

// NewSplitCalculator creates a calculator charging feeRate (e.g. 0.015) as the transaction fee.
func NewSplitCalculator(feeRate decimal.Decimal) *SplitCalculatorService {
	return &SplitCalculatorService{feeRate: feeRate}
}

// ComputeDirectPaymentNet prices a direct charge: the transaction fee and gas
// fee come out of the venue's side and both go to the platform.
func (c *SplitCalculatorService) ComputeDirectPaymentNet(gross money.Money, gasFee money.Money) (domain.DirectPaymentNet, error) {
	if err := checkPricingInput(gross, gasFee); err != nil {
		return domain.DirectPaymentNet{}, err
	}

	fee := gross.MulRate(c.feeRate)
	venueNet := gross.Sub(fee).Sub(gasFee)
	if venueNet.IsNegative() {
		return domain.DirectPaymentNet{}, apperror.ErrInvalidAmount(
			fmt.Sprintf("gross %s does not cover transaction fee %s and gas fee %s", gross, fee, gasFee))
	}
	net := domain.DirectPaymentNet{
		TransactionFee: fee,
		VenueNet:       venueNet,
		PlatformNet:    fee.Add(gasFee),
	}

	if !net.VenueNet.Add(net.PlatformNet).Equal(gross) {
		return domain.DirectPaymentNet{}, apperror.ErrConservationViolation(
			fmt.Sprintf("direct payment net %s + %s != %s", net.VenueNet, net.PlatformNet, gross))
	}
	return net, nil
}

// ComputeGhostPassSplit divides a GHOST Pass price by the configured percentages.
// Base shares are floored; the rounding remainder, the transaction fee (charged
// on the venue share) and the gas fee all move to the platform.
func (c *SplitCalculatorService) ComputeGhostPassSplit(transactionID uuid.UUID, gross money.Money, gasFee money.Money, config domain.SplitConfig) (domain.SplitResult, error) {
	if err := config.Validate(); err != nil {
		return domain.SplitResult{}, apperror.ErrConfigInvalid(err)
	}
	if err := checkPricingInput(gross, gasFee); err != nil {
		return domain.SplitResult{}, err
	}

	venue := gross.FloorPercent(config.VenuePct)
	promoter := gross.FloorPercent(config.PromoterPct)
	pool := gross.FloorPercent(config.PoolPct)
	platform := gross.FloorPercent(config.PlatformPct)
	remainder := gross.Sub(money.Sum(gross.Currency, venue, promoter, pool, platform))

	fee := venue.MulRate(c.feeRate)
	venueNet := venue.Sub(fee).Sub(gasFee)
	if venueNet.IsNegative() {
		return domain.SplitResult{}, apperror.ErrInvalidAmount(
			fmt.Sprintf("venue share %s does not cover transaction fee %s and gas fee %s", venue, fee, gasFee))
	}

	res := domain.SplitResult{
		TransactionID:  transactionID,
		VenueShare:     venueNet,
		PromoterShare:  promoter,
		PoolShare:      pool,
		PlatformShare:  money.Sum(gross.Currency, platform, remainder, fee, gasFee),
		TransactionFee: fee,
		GasFee:         gasFee,
	}

	if remainder.IsNegative() || !res.Total().Equal(gross) {
		return domain.SplitResult{}, apperror.ErrConservationViolation(
			fmt.Sprintf("split shares total %s, gross %s", res.Total(), gross))
	}
	return res, nil
}

func checkPricingInput(gross, gasFee money.Money) error {
	if !gross.IsPositive() {
		return apperror.ErrInvalidAmount("gross amount must be positive")
	}
	if gasFee.IsNegative() {
		return apperror.ErrInvalidAmount("gas fee must not be negative")
	}
	if gasFee.Currency != gross.Currency {
		return apperror.ErrInvalidAmount(fmt.Sprintf("gas fee currency %s differs from %s", gasFee.Currency, gross.Currency))
	}
	return nil
}
