package corridor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"gw-transaction-view/internal/models"
)

func f(v float64) *float64 { return &v }

func TestClassify_KnownTags(t *testing.T) {
	tests := []struct {
		name string
		raw  models.RawRecord
		want models.CorridorKind
	}{
		{
			name: "card transfer",
			raw:  models.RawRecord{Type: "card_transfer"},
			want: models.CorridorCardTransfer,
		},
		{
			name: "bank withdrawal",
			raw:  models.RawRecord{Type: "bank_withdrawal"},
			want: models.CorridorBankWireOut,
		},
		{
			name: "incoming bank transfer",
			raw:  models.RawRecord{Type: "bank_transfer_incoming"},
			want: models.CorridorBankWireIn,
		},
		{
			name: "crypto topup",
			raw:  models.RawRecord{Type: "crypto_topup"},
			want: models.CorridorCryptoTopUp,
		},
		{
			name: "crypto send",
			raw:  models.RawRecord{Type: "crypto_send"},
			want: models.CorridorCryptoWithdrawal,
		},
		{
			name: "crypto to iban aliases crypto to bank",
			raw:  models.RawRecord{Type: "crypto_to_iban"},
			want: models.CorridorCryptoToBank,
		},
		{
			name: "card activation",
			raw:  models.RawRecord{Type: "card_activation"},
			want: models.CorridorCardActivationFee,
		},
		{
			name: "declined",
			raw:  models.RawRecord{Type: "declined"},
			want: models.CorridorDeclined,
		},
		{
			name: "tag is case insensitive",
			raw:  models.RawRecord{Type: "  Card_Transfer "},
			want: models.CorridorCardTransfer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(&tt.raw))
		})
	}
}

func TestClassify_GenericTagsDisambiguatedByCryptoLeg(t *testing.T) {
	tests := []struct {
		name string
		raw  models.RawRecord
		want models.CorridorKind
	}{
		{
			name: "topup with crypto amount",
			raw:  models.RawRecord{Type: "topup", AmountCrypto: f(50)},
			want: models.CorridorCryptoTopUp,
		},
		{
			name: "topup with fiat amount",
			raw:  models.RawRecord{Type: "topup", AmountAED: f(200)},
			want: models.CorridorBankWireIn,
		},
		{
			name: "withdrawal with wallet address",
			raw:  models.RawRecord{Type: "withdrawal", ToAddress: "TXk4mQpW9vT2LrSnAb3c9fYp2a", Amount: f(10)},
			want: models.CorridorCryptoWithdrawal,
		},
		{
			name: "withdrawal without crypto leg",
			raw:  models.RawRecord{Type: "withdrawal", AmountAED: f(1000)},
			want: models.CorridorBankWireOut,
		},
		{
			name: "transfer with token",
			raw:  models.RawRecord{Type: "transfer", Token: "USDT"},
			want: models.CorridorCryptoWithdrawal,
		},
		{
			name: "transfer without crypto leg",
			raw:  models.RawRecord{Type: "transfer", Amount: f(75)},
			want: models.CorridorCardTransfer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(&tt.raw))
		})
	}
}

func TestClassify_UnknownTagFallsBackToPayment(t *testing.T) {
	raw := models.RawRecord{Type: "quantum_teleport_transfer", Amount: f(10)}

	assert.Equal(t, models.CorridorPayment, Classify(&raw))
	assert.False(t, IsKnownTag(raw.Type))
}

func TestClassify_Deterministic(t *testing.T) {
	raw := models.RawRecord{Type: "crypto_to_card", AmountCrypto: f(100)}

	first := Classify(&raw)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Classify(&raw))
	}
}

func TestClassify_DeclinedStatusWithoutTag(t *testing.T) {
	raw := models.RawRecord{Type: "some_new_tag", Status: "declined"}

	assert.Equal(t, models.CorridorDeclined, Classify(&raw))
}
