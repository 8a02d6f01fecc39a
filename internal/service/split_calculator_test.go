package service

import (
	"testing"

	"venue-settlement-engine/internal/core/domain"
	"venue-settlement-engine/pkg/apperror"
	"venue-settlement-engine/pkg/money"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitCalculator_DirectPayment_Example(t *testing.T) {
	calc := NewSplitCalculator(testFeeRate)

	net, err := calc.ComputeDirectPaymentNet(usd(10000), usd(20))
	require.NoError(t, err)
	assert.Equal(t, usd(150), net.TransactionFee)
	assert.Equal(t, usd(9830), net.VenueNet)
	assert.Equal(t, usd(170), net.PlatformNet)
	assert.Equal(t, usd(10000), net.VenueNet.Add(net.PlatformNet))
}

func TestSplitCalculator_DirectPayment_BankersRounding(t *testing.T) {
	calc := NewSplitCalculator(testFeeRate)

	// 1.5% of 100 cents = 1.5 -> 2 (round half to even)
	net, err := calc.ComputeDirectPaymentNet(usd(100), usd(0))
	require.NoError(t, err)
	assert.Equal(t, int64(2), net.TransactionFee.Amount)

	// 1.5% of 300 cents = 4.5 -> 4
	net, err = calc.ComputeDirectPaymentNet(usd(300), usd(0))
	require.NoError(t, err)
	assert.Equal(t, int64(4), net.TransactionFee.Amount)
}

func TestSplitCalculator_DirectPayment_Conservation(t *testing.T) {
	calc := NewSplitCalculator(testFeeRate)

	for gross := int64(25); gross <= 50000; gross += 7 {
		net, err := calc.ComputeDirectPaymentNet(usd(gross), usd(20))
		require.NoError(t, err, "gross=%d", gross)
		require.Equal(t, gross, net.VenueNet.Amount+net.PlatformNet.Amount, "gross=%d", gross)
		require.False(t, net.VenueNet.IsNegative())
	}
}

func TestSplitCalculator_DirectPayment_Invalid(t *testing.T) {
	calc := NewSplitCalculator(testFeeRate)

	_, err := calc.ComputeDirectPaymentNet(usd(0), usd(20))
	assertAppError(t, err, apperror.CodeInvalidAmount)

	_, err = calc.ComputeDirectPaymentNet(usd(10), usd(20))
	assertAppError(t, err, apperror.CodeInvalidAmount)

	_, err = calc.ComputeDirectPaymentNet(usd(1000), usd(-1))
	assertAppError(t, err, apperror.CodeInvalidAmount)

	_, err = calc.ComputeDirectPaymentNet(usd(1000), money.New(20, "EUR"))
	assertAppError(t, err, apperror.CodeInvalidAmount)
}

func TestSplitCalculator_GhostPass_SilverExample(t *testing.T) {
	calc := NewSplitCalculator(testFeeRate)
	txID := uuid.New()

	res, err := calc.ComputeGhostPassSplit(txID, usd(2000), usd(20), domain.DefaultSplitConfig())
	require.NoError(t, err)
	assert.Equal(t, txID, res.TransactionID)
	assert.Equal(t, usd(9), res.TransactionFee)
	assert.Equal(t, usd(571), res.VenueShare)
	assert.Equal(t, usd(600), res.PromoterShare)
	assert.Equal(t, usd(200), res.PoolShare)
	assert.Equal(t, usd(629), res.PlatformShare)
	assert.Equal(t, usd(2000), res.Total())
}

func TestSplitCalculator_GhostPass_RemainderToPlatform(t *testing.T) {
	calc := NewSplitCalculator(testFeeRate)

	// 1001 cents: 300 + 300 + 100 + 300 = 1000, remainder 1 goes to platform.
	res, err := calc.ComputeGhostPassSplit(uuid.New(), usd(1001), usd(0), domain.DefaultSplitConfig())
	require.NoError(t, err)
	assert.Equal(t, int64(300), res.PromoterShare.Amount)
	assert.Equal(t, int64(100), res.PoolShare.Amount)
	assert.Equal(t, int64(300)-res.TransactionFee.Amount, res.VenueShare.Amount)
	assert.Equal(t, int64(300)+1+res.TransactionFee.Amount, res.PlatformShare.Amount)
}

func TestSplitCalculator_GhostPass_Conservation(t *testing.T) {
	calc := NewSplitCalculator(testFeeRate)
	configs := []domain.SplitConfig{
		domain.DefaultSplitConfig(),
		{VenuePct: 33, PromoterPct: 33, PoolPct: 1, PlatformPct: 33},
		{VenuePct: 45, PromoterPct: 25, PoolPct: 20, PlatformPct: 10},
	}

	for _, cfg := range configs {
		for gross := int64(100); gross <= 20000; gross += 13 {
			res, err := calc.ComputeGhostPassSplit(uuid.New(), usd(gross), usd(15), cfg)
			require.NoError(t, err, "gross=%d cfg=%+v", gross, cfg)
			require.Equal(t, gross, res.Total().Amount, "gross=%d cfg=%+v", gross, cfg)
		}
	}
}

func TestSplitCalculator_GhostPass_Invalid(t *testing.T) {
	calc := NewSplitCalculator(testFeeRate)

	_, err := calc.ComputeGhostPassSplit(uuid.New(), usd(2000), usd(20),
		domain.SplitConfig{VenuePct: 50, PromoterPct: 30, PoolPct: 10, PlatformPct: 30})
	assertAppError(t, err, apperror.CodeConfigInvalid)

	// Venue share of 30 cents cannot absorb a 50 cent gas fee.
	_, err = calc.ComputeGhostPassSplit(uuid.New(), usd(100), usd(50), domain.DefaultSplitConfig())
	assertAppError(t, err, apperror.CodeInvalidAmount)
}
