package corridor

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gw-transaction-view/internal/custom_err"
	"gw-transaction-view/internal/models"
)

func testNormalizer() *Normalizer {
	return NewNormalizer(DefaultFeeSchedule())
}

func TestNormalize_CardToCardOutgoing(t *testing.T) {
	n := testNormalizer()
	viewer := testViewer()
	idx := NewAccountIndex(testAccounts())

	raw := models.RawRecord{
		ID:            uuid.NewString(),
		Type:          "card_transfer",
		Status:        "completed",
		CreatedAt:     time.Now(),
		UserID:        viewer.ID.String(),
		Amount:        f(100.00),
		FeePercent:    f(1.5),
		RecipientCard: "••4521",
	}

	res, err := n.Normalize(&raw, viewer, idx, "")
	require.NoError(t, err)

	view := res.View
	assert.Equal(t, models.CorridorCardTransfer, view.Kind)
	assert.Equal(t, models.DirectionOutgoing, view.Direction)
	assert.Equal(t, 100.00, view.Gross.Amount)
	assert.Equal(t, 1.50, view.Fee.Amount)
	assert.Equal(t, 101.50, view.Net.Amount)
	assert.Equal(t, models.StatusSettled, view.Status)
	require.NotNil(t, view.RecipientCard)
	assert.Equal(t, "4111222233334521", view.RecipientCard.Full)
	assert.False(t, res.UnknownTag)
}

func TestNormalize_MislabeledWithdrawalBecomesDeposit(t *testing.T) {
	n := testNormalizer()
	viewer := testViewer()

	// запись помечена как вывод, но принадлежит другому пользователю:
	// для этого пользователя это входящий депозит
	raw := models.RawRecord{
		ID:           uuid.NewString(),
		Type:         "crypto_withdrawal",
		CreatedAt:    time.Now(),
		UserID:       uuid.NewString(),
		AmountCrypto: f(50.00),
		Token:        "USDT",
	}

	res, err := n.Normalize(&raw, viewer, nil, "")
	require.NoError(t, err)

	assert.Equal(t, models.CorridorCryptoDeposit, res.View.Kind)
	assert.Equal(t, models.DirectionIncoming, res.View.Direction)
	assert.Equal(t, 50.00, res.View.Gross.Amount)
	assert.Equal(t, CurrencyUSDT, res.View.Gross.Currency)
}

func TestNormalize_AmbiguousBankTransferFlipsToIncoming(t *testing.T) {
	n := testNormalizer()
	viewer := testViewer()

	raw := models.RawRecord{
		ID:            uuid.NewString(),
		Type:          "bank_transfer",
		CreatedAt:     time.Now(),
		AmountAED:     f(500.00),
		RecipientName: "Amina Rashid",
		SenderName:    "Omar Haddad",
	}

	res, err := n.Normalize(&raw, viewer, nil, "")
	require.NoError(t, err)

	assert.Equal(t, models.CorridorBankWireIn, res.View.Kind)
	assert.Equal(t, models.DirectionIncoming, res.View.Direction)
	assert.Equal(t, "Omar Haddad", res.View.Counterparty)
}

func TestNormalize_UnknownTagFallsBack(t *testing.T) {
	n := testNormalizer()
	viewer := testViewer()

	raw := models.RawRecord{
		ID:        uuid.NewString(),
		Type:      "quantum_teleport_transfer",
		CreatedAt: time.Now(),
		Amount:    f(10),
	}

	res, err := n.Normalize(&raw, viewer, nil, "")
	require.NoError(t, err)

	assert.Equal(t, models.CorridorPayment, res.View.Kind)
	assert.True(t, res.UnknownTag)
}

func TestNormalize_NetMismatchSignaled(t *testing.T) {
	n := testNormalizer()
	viewer := testViewer()

	raw := models.RawRecord{
		ID:         uuid.NewString(),
		Type:       "bank_withdrawal",
		CreatedAt:  time.Now(),
		AmountAED:  f(1000.00),
		TotalDebit: f(1025.00),
	}

	res, err := n.Normalize(&raw, viewer, nil, "")
	require.NoError(t, err)

	require.NotNil(t, res.NetMismatch)
	assert.Equal(t, 1025.00, res.View.Net.Amount)
}

func TestNormalize_MissingRequiredFields(t *testing.T) {
	n := testNormalizer()
	viewer := testViewer()

	tests := []struct {
		name string
		raw  models.RawRecord
	}{
		{
			name: "missing id",
			raw:  models.RawRecord{Type: "payment", CreatedAt: time.Now(), Amount: f(10)},
		},
		{
			name: "missing timestamp",
			raw:  models.RawRecord{ID: uuid.NewString(), Type: "payment", Amount: f(10)},
		},
		{
			name: "missing amount",
			raw:  models.RawRecord{ID: uuid.NewString(), Type: "payment", CreatedAt: time.Now()},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := n.Normalize(&tt.raw, viewer, nil, "")
			require.Error(t, err)
			assert.True(t, errors.Is(err, custom_err.ErrUnrepresentable))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	n := testNormalizer()
	viewer := testViewer()
	idx := NewAccountIndex(testAccounts())

	raw := models.RawRecord{
		ID:            uuid.NewString(),
		Type:          "crypto_to_card",
		Status:        "pending",
		CreatedAt:     time.Date(2026, 8, 14, 10, 30, 0, 0, time.UTC),
		AmountCrypto:  f(100.0),
		ExchangeRate:  f(3.65),
		RecipientCard: "••4521",
		Token:         "USDT",
		Network:       "TRC20",
	}

	first, err := n.Normalize(&raw, viewer, idx, "")
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		again, err := n.Normalize(&raw, viewer, idx, "")
		require.NoError(t, err)
		assert.Equal(t, first.View, again.View)
	}
}

func TestNormalize_DeclinedRecord(t *testing.T) {
	n := testNormalizer()
	viewer := testViewer()

	raw := models.RawRecord{
		ID:            uuid.NewString(),
		Type:          "declined",
		Status:        "declined",
		CreatedAt:     time.Now(),
		Amount:        f(42.00),
		Merchant:      "Carrefour",
		DeclineReason: "insufficient_funds",
	}

	res, err := n.Normalize(&raw, viewer, nil, "")
	require.NoError(t, err)

	assert.Equal(t, models.CorridorDeclined, res.View.Kind)
	assert.Equal(t, models.DirectionNeutral, res.View.Direction)
	assert.Equal(t, models.StatusFailed, res.View.Status)
	assert.Equal(t, "insufficient_funds", res.View.DeclineReason)
	assert.Equal(t, "Carrefour", res.View.Counterparty)
	assert.Equal(t, "C", res.View.AvatarHint)
}
