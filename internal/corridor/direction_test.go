package corridor

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"gw-transaction-view/internal/models"
)

func testViewer() Viewer {
	return Viewer{ID: uuid.New(), DisplayName: "Amina Rashid"}
}

func TestInferDirection_ExplicitFlagWins(t *testing.T) {
	viewer := testViewer()

	// user_id совпадает с пользователем, эвристика сказала бы outgoing,
	// но явный флаг апстрима важнее
	raw := models.RawRecord{
		Type:      "card_transfer",
		Direction: "inbound",
		UserID:    viewer.ID.String(),
	}

	got := InferDirection(&raw, models.CorridorCardTransfer, "", viewer)
	assert.Equal(t, models.DirectionIncoming, got)
}

func TestInferDirection_ExplicitFlagOverridesFixedKind(t *testing.T) {
	viewer := testViewer()
	raw := models.RawRecord{Type: "bank_topup", Direction: "outbound"}

	got := InferDirection(&raw, models.CorridorBankWireIn, "", viewer)
	assert.Equal(t, models.DirectionOutgoing, got)
}

func TestInferDirection_CallerHint(t *testing.T) {
	viewer := testViewer()
	raw := models.RawRecord{Type: "card_transfer"}

	got := InferDirection(&raw, models.CorridorCardTransfer, models.DirectionIncoming, viewer)
	assert.Equal(t, models.DirectionIncoming, got)
}

func TestInferDirection_TagNamesTheSide(t *testing.T) {
	viewer := testViewer()

	tests := []struct {
		name string
		raw  models.RawRecord
		want models.Direction
	}{
		{
			// голая запись без direction/user_id/movements: сторона
			// восстанавливается из самого тега
			name: "transfer_in is incoming by tag alone",
			raw:  models.RawRecord{Type: "transfer_in", Amount: f(75)},
			want: models.DirectionIncoming,
		},
		{
			name: "transfer_out is outgoing by tag alone",
			raw:  models.RawRecord{Type: "transfer_out", Amount: f(75)},
			want: models.DirectionOutgoing,
		},
		{
			// тег проигрывает явному флагу апстрима
			name: "explicit flag still wins over the tag",
			raw:  models.RawRecord{Type: "transfer_in", Direction: "outbound", Amount: f(75)},
			want: models.DirectionOutgoing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind := Classify(&tt.raw)
			got := InferDirection(&tt.raw, kind, "", viewer)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInferDirection_OwnerCompare(t *testing.T) {
	viewer := testViewer()

	tests := []struct {
		name   string
		userID string
		want   models.Direction
	}{
		{
			name:   "record owned by someone else is incoming",
			userID: uuid.NewString(),
			want:   models.DirectionIncoming,
		},
		{
			name:   "record owned by viewer is outgoing",
			userID: viewer.ID.String(),
			want:   models.DirectionOutgoing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := models.RawRecord{Type: "card_transfer", UserID: tt.userID}
			got := InferDirection(&raw, models.CorridorCardTransfer, "", viewer)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInferDirection_FirstMovement(t *testing.T) {
	viewer := testViewer()

	raw := models.RawRecord{
		Type: "card_transfer",
		Movements: []models.Movement{
			{Type: "credit", Amount: 100, AccountType: "card"},
		},
	}

	got := InferDirection(&raw, models.CorridorCardTransfer, "", viewer)
	assert.Equal(t, models.DirectionIncoming, got)
}

func TestInferDirection_NameMatchOnAmbiguousBankWire(t *testing.T) {
	viewer := testViewer()

	tests := []struct {
		name string
		raw  models.RawRecord
		want models.Direction
	}{
		{
			name: "viewer is the recipient",
			raw:  models.RawRecord{Type: "bank_transfer", RecipientName: "AMINA RASHID"},
			want: models.DirectionIncoming,
		},
		{
			name: "viewer is the sender",
			raw:  models.RawRecord{Type: "bank_transfer", SenderName: "amina rashid"},
			want: models.DirectionOutgoing,
		},
		{
			name: "shortened statement form still matches",
			raw:  models.RawRecord{Type: "bank_transfer", RecipientName: "Amina"},
			want: models.DirectionIncoming,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := InferDirection(&tt.raw, models.CorridorBankWireOut, "", viewer)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInferDirection_NameMatchDisabledForCryptoToBank(t *testing.T) {
	viewer := testViewer()

	// перевод на собственный IBAN: имя получателя совпадает с пользователем,
	// но операция все равно исходящая
	raw := models.RawRecord{
		Type:          "crypto_to_bank",
		RecipientName: "Amina Rashid",
	}

	got := InferDirection(&raw, models.CorridorCryptoToBank, "", viewer)
	assert.Equal(t, models.DirectionOutgoing, got)
}

func TestInferDirection_DefaultsToOutgoing(t *testing.T) {
	viewer := testViewer()
	raw := models.RawRecord{Type: "card_transfer"}

	got := InferDirection(&raw, models.CorridorCardTransfer, "", viewer)
	assert.Equal(t, models.DirectionOutgoing, got)
}

func TestInferDirection_FixedKinds(t *testing.T) {
	viewer := testViewer()

	tests := []struct {
		kind models.CorridorKind
		want models.Direction
	}{
		{models.CorridorCardPayment, models.DirectionOutgoing},
		{models.CorridorCryptoTopUp, models.DirectionIncoming},
		{models.CorridorCryptoDeposit, models.DirectionIncoming},
		{models.CorridorCardActivationFee, models.DirectionOutgoing},
		{models.CorridorDeclined, models.DirectionNeutral},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			raw := models.RawRecord{Type: string(tt.kind)}
			assert.Equal(t, tt.want, InferDirection(&raw, tt.kind, "", viewer))
		})
	}
}
