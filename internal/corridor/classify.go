package corridor

import (
	"strings"

	"gw-transaction-view/internal/models"
)

// tagTable — фиксированная таблица известных тегов апстрима. Теги вне таблицы
// уходят в generic-фоллбек, классификация никогда не падает.
var tagTable = map[string]models.CorridorKind{
	"payment":                models.CorridorCardPayment,
	"card_payment":           models.CorridorCardPayment,
	"card_transfer":          models.CorridorCardTransfer,
	"transfer_in":            models.CorridorCardTransfer,
	"transfer_out":           models.CorridorCardTransfer,
	"bank_transfer":          models.CorridorBankWireOut,
	"bank_withdrawal":        models.CorridorBankWireOut,
	"card_to_bank":           models.CorridorBankWireOut,
	"card_to_iban":           models.CorridorBankWireOut,
	"iban_to_iban":           models.CorridorBankWireOut,
	"bank_transfer_incoming": models.CorridorBankWireIn,
	"bank_to_card":           models.CorridorBankWireIn,
	"iban_to_card":           models.CorridorBankWireIn,
	"bank_topup":             models.CorridorBankWireIn,
	"crypto_topup":           models.CorridorCryptoTopUp,
	"crypto_deposit":         models.CorridorCryptoDeposit,
	"crypto_withdrawal":      models.CorridorCryptoWithdrawal,
	"crypto_send":            models.CorridorCryptoWithdrawal,
	"crypto_to_card":         models.CorridorCryptoToCard,
	"crypto_to_bank":         models.CorridorCryptoToBank,
	"crypto_to_iban":         models.CorridorCryptoToBank,
	"internal_transfer":      models.CorridorInternalTransfer,
	"card_activation":        models.CorridorCardActivationFee,
	"fee":                    models.CorridorCardActivationFee,
	"declined":               models.CorridorDeclined,
}

// Classify определяет коридор по тегу записи. Общие теги (topup, withdrawal,
// transfer) различаются по наличию крипто-ноги: запись с amount_crypto или
// адресами кошельков трактуется как крипто-коридор.
func Classify(raw *models.RawRecord) models.CorridorKind {
	tag := strings.ToLower(strings.TrimSpace(raw.Type))

	// generic-теги, встречающиеся и в фиатных, и в крипто-записях
	switch tag {
	case "topup":
		if raw.HasCryptoLeg() {
			return models.CorridorCryptoTopUp
		}
		return models.CorridorBankWireIn
	case "withdrawal":
		if raw.HasCryptoLeg() {
			return models.CorridorCryptoWithdrawal
		}
		return models.CorridorBankWireOut
	case "transfer":
		if raw.HasCryptoLeg() {
			return models.CorridorCryptoWithdrawal
		}
		return models.CorridorCardTransfer
	}

	if kind, ok := tagTable[tag]; ok {
		return kind
	}
	if strings.EqualFold(raw.Status, "declined") {
		return models.CorridorDeclined
	}
	return models.CorridorPayment
}

// IsKnownTag возвращает false для тегов, ушедших в фоллбек. Вызывающий слой
// использует это как сигнал для warn-лога и события аномалии.
func IsKnownTag(rawType string) bool {
	tag := strings.ToLower(strings.TrimSpace(rawType))
	switch tag {
	case "topup", "withdrawal", "transfer":
		return true
	}
	_, ok := tagTable[tag]
	return ok
}
