package corridor

import (
	"strings"

	"gw-transaction-view/internal/models"
)

// ResolvedFields — маски записи, пропущенные через резолвер счетов.
type ResolvedFields struct {
	SenderCard    *models.MaskedField
	RecipientCard *models.MaskedField
	SenderIBAN    *models.MaskedField
	RecipientIBAN *models.MaskedField
	FromAddress   *models.MaskedField
	ToAddress     *models.MaskedField
}

// ResolveFields прогоняет все маски записи через индекс счетов. Подсказкой
// служит полное значение из movements, если апстрим его прислал.
func ResolveFields(raw *models.RawRecord, idx *AccountIndex) ResolvedFields {
	hints := movementHints(raw)
	var rf ResolvedFields
	if raw.SenderCard != "" {
		f := idx.ResolveFull(raw.SenderCard, hints[models.AccountCard])
		rf.SenderCard = &f
	}
	if raw.RecipientCard != "" {
		f := idx.ResolveFull(raw.RecipientCard, hints[models.AccountCard])
		rf.RecipientCard = &f
	}
	if raw.SenderIBAN != "" {
		f := idx.ResolveFull(raw.SenderIBAN, hints[models.AccountBank])
		rf.SenderIBAN = &f
	}
	if raw.RecipientIBAN != "" {
		f := idx.ResolveFull(raw.RecipientIBAN, hints[models.AccountBank])
		rf.RecipientIBAN = &f
	}
	if raw.FromAddress != "" {
		f := idx.ResolveFull(raw.FromAddress, hints[models.AccountCrypto])
		rf.FromAddress = &f
	}
	if raw.ToAddress != "" {
		f := idx.ResolveFull(raw.ToAddress, hints[models.AccountCrypto])
		rf.ToAddress = &f
	}
	return rf
}

// movementHints собирает полные идентификаторы из ног записи по типу счета.
// Подсказка берется только когда нога одна: две ноги одного типа делают
// выбор неоднозначным.
func movementHints(raw *models.RawRecord) map[models.AccountKind]string {
	hints := make(map[models.AccountKind]string)
	seen := make(map[models.AccountKind]int)
	for _, mv := range raw.Movements {
		kind := models.AccountKind(strings.ToLower(mv.AccountType))
		if !kind.IsValid() || mv.AccountRef == "" {
			continue
		}
		seen[kind]++
		if seen[kind] == 1 {
			hints[kind] = mv.AccountRef
		} else {
			delete(hints, kind)
		}
	}
	return hints
}

// corridorLabels — подписи коридоров для ленты. Локализация остается на
// слое отображения, ядро отдает стабильную английскую подпись.
var corridorLabels = map[models.CorridorKind]string{
	models.CorridorCardPayment:       "Card payment",
	models.CorridorCardTransfer:      "Card transfer",
	models.CorridorBankWireOut:       "Bank transfer",
	models.CorridorBankWireIn:        "Bank transfer received",
	models.CorridorCryptoTopUp:       "Crypto top-up",
	models.CorridorCryptoWithdrawal:  "Crypto withdrawal",
	models.CorridorCryptoDeposit:     "Crypto deposit",
	models.CorridorCryptoToCard:      "Crypto to card",
	models.CorridorCryptoToBank:      "Crypto to bank",
	models.CorridorInternalTransfer:  "Internal transfer",
	models.CorridorCardActivationFee: "Card activation",
	models.CorridorDeclined:          "Declined",
	models.CorridorPayment:           "Payment",
}

// statusMap приводит статусы апстрима к четырем статусам представления.
var statusMap = map[string]models.ViewStatus{
	"settled":    models.StatusSettled,
	"completed":  models.StatusSettled,
	"success":    models.StatusSettled,
	"pending":    models.StatusPending,
	"processing": models.StatusProcessing,
	"failed":     models.StatusFailed,
	"declined":   models.StatusFailed,
	"cancelled":  models.StatusFailed,
}

// MapStatus переводит статус апстрима в статус представления.
// Неизвестный статус считается завершенным, пустой тоже.
func MapStatus(s string) models.ViewStatus {
	if st, ok := statusMap[strings.ToLower(strings.TrimSpace(s))]; ok {
		return st
	}
	return models.StatusSettled
}

// Assemble — чистая сборка представления из результатов предыдущих шагов.
// Никакой собственной логики кроме подписи и контрагента здесь нет, и для
// комиссионных коридоров поле Fee присутствует всегда, даже нулевое.
func Assemble(raw *models.RawRecord, kind models.CorridorKind, direction models.Direction, rf ResolvedFields, bd models.Breakdown) models.TransactionView {
	view := models.TransactionView{
		ID:            raw.ID,
		Kind:          kind,
		Direction:     direction,
		Label:         corridorLabels[kind],
		Status:        MapStatus(raw.Status),
		Timestamp:     raw.CreatedAt,
		Gross:         bd.Gross,
		Fee:           bd.Fee,
		Net:           bd.Net,
		ExchangeRate:  bd.ExchangeRate,
		Counterparty:  counterparty(raw, direction),
		SenderCard:    rf.SenderCard,
		RecipientCard: rf.RecipientCard,
		SenderIBAN:    rf.SenderIBAN,
		RecipientIBAN: rf.RecipientIBAN,
		FromAddress:   rf.FromAddress,
		ToAddress:     rf.ToAddress,
		DeclineReason: raw.DeclineReason,
	}
	if raw.Token != "" && raw.Network != "" {
		view.TokenNetwork = raw.Token + " " + raw.Network
	}
	if view.Counterparty != "" {
		view.AvatarHint = avatarHint(view.Counterparty)
	}
	return view
}

// counterparty выбирает имя второй стороны с точки зрения пользователя.
func counterparty(raw *models.RawRecord, direction models.Direction) string {
	if raw.Merchant != "" {
		return raw.Merchant
	}
	if direction == models.DirectionIncoming {
		if raw.SenderName != "" {
			return raw.SenderName
		}
		return raw.BankName
	}
	if raw.RecipientName != "" {
		return raw.RecipientName
	}
	return raw.BankName
}

// avatarHint — инициалы контрагента для заглушки аватара.
func avatarHint(name string) string {
	parts := strings.Fields(name)
	var b strings.Builder
	for i, p := range parts {
		if i == 2 {
			break
		}
		r := []rune(p)
		b.WriteRune(r[0])
	}
	return strings.ToUpper(b.String())
}
