package corridor

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gw-transaction-view/internal/models"
)

func TestDecompose_CardTransferOutgoing(t *testing.T) {
	fs := DefaultFeeSchedule()
	raw := models.RawRecord{
		Type:       "card_transfer",
		Amount:     f(100.00),
		FeePercent: f(1.5),
	}

	bd := fs.Decompose(&raw, models.CorridorCardTransfer, models.DirectionOutgoing)

	assert.Equal(t, 100.00, bd.Gross.Amount)
	assert.Equal(t, 1.50, bd.Fee.Amount)
	assert.Equal(t, 101.50, bd.Net.Amount)
	assert.Equal(t, CurrencyAED, bd.Gross.Currency)
}

func TestDecompose_CardTransferIncomingFeeBorneBySender(t *testing.T) {
	fs := DefaultFeeSchedule()
	raw := models.RawRecord{Type: "card_transfer", Amount: f(100.00)}

	bd := fs.Decompose(&raw, models.CorridorCardTransfer, models.DirectionIncoming)

	assert.Equal(t, 100.00, bd.Gross.Amount)
	assert.Equal(t, 0.00, bd.Fee.Amount)
	assert.Equal(t, 100.00, bd.Net.Amount)
}

func TestDecompose_BankWireOutSuppliedFee(t *testing.T) {
	fs := DefaultFeeSchedule()
	raw := models.RawRecord{
		Type:      "bank_withdrawal",
		AmountAED: f(1000.00),
		FeeAmount: f(20.00),
	}

	bd := fs.Decompose(&raw, models.CorridorBankWireOut, models.DirectionOutgoing)

	assert.Equal(t, 1000.00, bd.Gross.Amount)
	assert.Equal(t, 20.00, bd.Fee.Amount)
	assert.Equal(t, 1020.00, bd.Net.Amount)
	assert.True(t, bd.FeeSupplied)
}

func TestDecompose_CryptoWithdrawalPercentPlusNetworkFee(t *testing.T) {
	fs := DefaultFeeSchedule()
	raw := models.RawRecord{
		Type:         "crypto_send",
		AmountCrypto: f(100.0),
		Token:        "USDT",
	}

	bd := fs.Decompose(&raw, models.CorridorCryptoWithdrawal, models.DirectionOutgoing)

	// 1% + сетевая комиссия 5.90
	assert.Equal(t, 100.0, bd.Gross.Amount)
	assert.Equal(t, 6.9, bd.Fee.Amount)
	assert.Equal(t, 106.9, bd.Net.Amount)
	assert.Equal(t, CurrencyUSDT, bd.Gross.Currency)
	assert.Equal(t, CurrencyUSDT, bd.Net.Currency)
}

func TestDecompose_CryptoToCardConvertsNet(t *testing.T) {
	fs := DefaultFeeSchedule()
	raw := models.RawRecord{
		Type:         "crypto_to_card",
		AmountCrypto: f(100.0),
		ExchangeRate: f(3.65),
	}

	bd := fs.Decompose(&raw, models.CorridorCryptoToCard, models.DirectionOutgoing)

	assert.Equal(t, 100.0, bd.Gross.Amount)
	assert.Equal(t, CurrencyUSDT, bd.Gross.Currency)
	assert.Equal(t, 6.9, bd.Fee.Amount)
	assert.Equal(t, 365.00, bd.Net.Amount)
	assert.Equal(t, CurrencyAED, bd.Net.Currency)
	require.NotNil(t, bd.ExchangeRate)
	assert.Equal(t, 3.65, *bd.ExchangeRate)
}

func TestDecompose_CryptoToCardDefaultRate(t *testing.T) {
	fs := DefaultFeeSchedule()
	raw := models.RawRecord{Type: "crypto_to_card", AmountCrypto: f(10.0)}

	bd := fs.Decompose(&raw, models.CorridorCryptoToCard, models.DirectionOutgoing)

	require.NotNil(t, bd.ExchangeRate)
	assert.Equal(t, fs.DefaultUSDTRate, *bd.ExchangeRate)
	assert.Equal(t, Round2(10.0*fs.DefaultUSDTRate), bd.Net.Amount)
}

func TestDecompose_CryptoTopUpFeeDeductedBeforeCredit(t *testing.T) {
	fs := DefaultFeeSchedule()
	raw := models.RawRecord{
		Type:         "crypto_topup",
		AmountCrypto: f(100.0),
		ExchangeRate: f(3.65),
	}

	bd := fs.Decompose(&raw, models.CorridorCryptoTopUp, models.DirectionIncoming)

	// 2% комиссия вычитается до зачисления: 100 * 0.98 * 3.65
	assert.Equal(t, 2.0, bd.Fee.Amount)
	assert.Equal(t, 357.70, bd.Net.Amount)
	assert.Equal(t, CurrencyAED, bd.Net.Currency)
}

func TestDecompose_CardActivationPlanConstants(t *testing.T) {
	fs := DefaultFeeSchedule()

	tests := []struct {
		name     string
		cardType string
		want     float64
	}{
		{name: "virtual plan", cardType: "virtual", want: 183.00},
		{name: "metal plan", cardType: "metal", want: 549.00},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := models.RawRecord{Type: "card_activation", Amount: f(0), CardType: tt.cardType}
			bd := fs.Decompose(&raw, models.CorridorCardActivationFee, models.DirectionOutgoing)
			assert.Equal(t, tt.want, bd.Gross.Amount)
		})
	}
}

func TestDecompose_InternalTransferFlatFee(t *testing.T) {
	fs := DefaultFeeSchedule()
	raw := models.RawRecord{
		Type:         "internal_transfer",
		AmountCrypto: f(50.0),
	}

	bd := fs.Decompose(&raw, models.CorridorInternalTransfer, models.DirectionOutgoing)

	assert.Equal(t, 1.00, bd.Fee.Amount)
	assert.Equal(t, 51.00, bd.Net.Amount)
}

func TestDecompose_SuppliedNetAuthoritative(t *testing.T) {
	fs := DefaultFeeSchedule()
	raw := models.RawRecord{
		Type:       "bank_withdrawal",
		AmountAED:  f(1000.00),
		TotalDebit: f(1025.00), // апстрим прислал нетто, расходящееся с формулой
	}

	bd := fs.Decompose(&raw, models.CorridorBankWireOut, models.DirectionOutgoing)

	assert.Equal(t, 1025.00, bd.Net.Amount)
	assert.True(t, bd.NetSupplied)
	require.NotNil(t, bd.NetMismatch)
	assert.Equal(t, 1025.00, bd.NetMismatch.Supplied)
	assert.Equal(t, 1020.00, bd.NetMismatch.Computed)
}

func TestDecompose_SuppliedNetAgreeingProducesNoMismatch(t *testing.T) {
	fs := DefaultFeeSchedule()
	raw := models.RawRecord{
		Type:       "bank_withdrawal",
		AmountAED:  f(1000.00),
		TotalDebit: f(1020.00),
	}

	bd := fs.Decompose(&raw, models.CorridorBankWireOut, models.DirectionOutgoing)

	assert.Nil(t, bd.NetMismatch)
	assert.True(t, bd.NetSupplied)
}

func TestDecompose_ConvertingCorridorKeepsNetInCreditCurrency(t *testing.T) {
	fs := DefaultFeeSchedule()

	// total_debit прислан в валюте списания (USDT) и не должен подменять
	// нетто зачисления в AED: 50 USDT + комиссия 6.40 = 56.40 списано,
	// зачислено 50 * 3.67 = 183.50 AED
	raw := models.RawRecord{
		Type:         "crypto_to_card",
		AmountCrypto: f(50.0),
		TotalDebit:   f(56.4),
	}

	bd := fs.Decompose(&raw, models.CorridorCryptoToCard, models.DirectionOutgoing)

	assert.Equal(t, 183.50, bd.Net.Amount)
	assert.Equal(t, CurrencyAED, bd.Net.Currency)
	assert.Nil(t, bd.NetMismatch)
	assert.False(t, bd.NetSupplied)
}

func TestDecompose_ConvertingCorridorSuppliedNetCredited(t *testing.T) {
	fs := DefaultFeeSchedule()
	raw := models.RawRecord{
		Type:         "crypto_to_card",
		AmountCrypto: f(50.0),
		NetCredited:  f(183.50),
	}

	bd := fs.Decompose(&raw, models.CorridorCryptoToCard, models.DirectionOutgoing)

	assert.Equal(t, 183.50, bd.Net.Amount)
	assert.True(t, bd.NetSupplied)
	assert.Nil(t, bd.NetMismatch)
}

func TestDecompose_ConvertingCorridorDebitLegMismatch(t *testing.T) {
	fs := DefaultFeeSchedule()
	raw := models.RawRecord{
		Type:         "crypto_to_card",
		AmountCrypto: f(50.0),
		TotalDebit:   f(60.0), // расходится с 56.40 по формуле
	}

	bd := fs.Decompose(&raw, models.CorridorCryptoToCard, models.DirectionOutgoing)

	assert.Equal(t, 183.50, bd.Net.Amount)
	require.NotNil(t, bd.NetMismatch)
	assert.Equal(t, 60.0, bd.NetMismatch.Supplied)
	assert.Equal(t, 56.4, bd.NetMismatch.Computed)
}

func TestDecompose_FeeNeverNaN(t *testing.T) {
	fs := DefaultFeeSchedule()

	kinds := []models.CorridorKind{
		models.CorridorCardPayment,
		models.CorridorCardTransfer,
		models.CorridorBankWireOut,
		models.CorridorBankWireIn,
		models.CorridorCryptoTopUp,
		models.CorridorCryptoWithdrawal,
		models.CorridorCryptoDeposit,
		models.CorridorCryptoToCard,
		models.CorridorCryptoToBank,
		models.CorridorInternalTransfer,
		models.CorridorCardActivationFee,
		models.CorridorDeclined,
		models.CorridorPayment,
	}

	for _, kind := range kinds {
		t.Run(string(kind), func(t *testing.T) {
			raw := models.RawRecord{Type: string(kind), Amount: f(100)}
			for _, dir := range []models.Direction{models.DirectionIncoming, models.DirectionOutgoing} {
				bd := fs.Decompose(&raw, kind, dir)
				assert.False(t, math.IsNaN(bd.Fee.Amount))
				assert.False(t, math.IsNaN(bd.Net.Amount))
				assert.GreaterOrEqual(t, bd.Fee.Amount, 0.0)
			}
		})
	}
}

func TestRoundHelpers(t *testing.T) {
	assert.Equal(t, 1.53, Round2(1.526))
	assert.Equal(t, 0.123457, Round6(0.1234567))
}
