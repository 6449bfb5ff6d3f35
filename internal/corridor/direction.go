package corridor

import (
	"strings"

	"github.com/google/uuid"

	"gw-transaction-view/internal/models"
)

// Viewer — пользователь, для которого собирается представление.
type Viewer struct {
	ID          uuid.UUID
	DisplayName string
}

// directedKinds — коридоры, направление которых зашито в сам коридор.
// Для остальных применяется цепочка эвристик.
var directedKinds = map[models.CorridorKind]models.Direction{
	models.CorridorCardPayment:       models.DirectionOutgoing,
	models.CorridorBankWireOut:       models.DirectionOutgoing,
	models.CorridorBankWireIn:        models.DirectionIncoming,
	models.CorridorCryptoTopUp:       models.DirectionIncoming,
	models.CorridorCryptoDeposit:     models.DirectionIncoming,
	models.CorridorCardActivationFee: models.DirectionOutgoing,
	models.CorridorDeclined:          models.DirectionNeutral,
}

// directionStrategy возвращает направление или пустую строку, если сигнала нет.
type directionStrategy func(raw *models.RawRecord, hint models.Direction, viewer Viewer) models.Direction

// strategies — упорядоченная цепочка, побеждает первый сработавший сигнал.
// Порядок значим: явный флаг апстрима авторитетен и не перебивается ничем.
var strategies = []struct {
	fn           directionStrategy
	bankWireOnly bool
}{
	{fn: explicitFlag},
	{fn: callerHint},
	{fn: tagDirection},
	{fn: ownerCompare},
	{fn: firstMovement},
	{fn: nameMatch, bankWireOnly: true},
}

// InferDirection определяет направление операции. Явное raw.direction всегда
// побеждает; при полном отсутствии сигналов направление консервативно
// считается исходящим.
func InferDirection(raw *models.RawRecord, kind models.CorridorKind, hint models.Direction, viewer Viewer) models.Direction {
	if d, ok := directedKinds[kind]; ok && !ambiguousWireTag(raw, kind) {
		// явный флаг апстрима перебивает даже фиксированное направление коридора
		if exp := explicitFlag(raw, hint, viewer); exp != "" {
			return exp
		}
		return d
	}
	for _, s := range strategies {
		if s.bankWireOnly && !nameMatchAllowed(kind) {
			continue
		}
		if d := s.fn(raw, hint, viewer); d != "" {
			return d
		}
	}
	return models.DirectionOutgoing
}

// ambiguousWireTag ловит банковские переводы со схлопнутым тегом: апстрим
// шлет один тег bank_transfer на оба направления, направление приходится
// восстанавливать эвристиками.
func ambiguousWireTag(raw *models.RawRecord, kind models.CorridorKind) bool {
	if kind != models.CorridorBankWireOut && kind != models.CorridorBankWireIn {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(raw.Type)) {
	case "bank_transfer", "transfer":
		return true
	}
	return false
}

func explicitFlag(raw *models.RawRecord, _ models.Direction, _ Viewer) models.Direction {
	switch strings.ToLower(raw.Direction) {
	case "inbound", "incoming":
		return models.DirectionIncoming
	case "outbound", "outgoing":
		return models.DirectionOutgoing
	}
	return ""
}

func callerHint(_ *models.RawRecord, hint models.Direction, _ Viewer) models.Direction {
	return hint
}

// tagDirection читает направление из самого тега: transfer_in/transfer_out
// называют сторону явно, даже когда запись больше ничего о ней не знает.
func tagDirection(raw *models.RawRecord, _ models.Direction, _ Viewer) models.Direction {
	tag := strings.ToLower(strings.TrimSpace(raw.Type))
	switch {
	case strings.Contains(tag, "transfer_in"):
		return models.DirectionIncoming
	case strings.Contains(tag, "transfer_out"):
		return models.DirectionOutgoing
	}
	return ""
}

func ownerCompare(raw *models.RawRecord, _ models.Direction, viewer Viewer) models.Direction {
	if raw.UserID == "" || viewer.ID == uuid.Nil {
		return ""
	}
	if raw.UserID == viewer.ID.String() {
		return models.DirectionOutgoing
	}
	return models.DirectionIncoming
}

func firstMovement(raw *models.RawRecord, _ models.Direction, _ Viewer) models.Direction {
	mv, ok := raw.FirstMovement()
	if !ok {
		return ""
	}
	switch strings.ToLower(mv.Type) {
	case "credit":
		return models.DirectionIncoming
	case "debit":
		return models.DirectionOutgoing
	}
	return ""
}

// nameMatch сравнивает имена отправителя/получателя с именем пользователя.
// Двустороннее подстрочное сравнение без учета регистра: сопоставление
// намеренно терпимо к сокращенным формам имени из банковских выписок.
func nameMatch(raw *models.RawRecord, _ models.Direction, viewer Viewer) models.Direction {
	name := strings.TrimSpace(viewer.DisplayName)
	if name == "" {
		return ""
	}
	if containsFold(raw.RecipientName, name) {
		return models.DirectionIncoming
	}
	if containsFold(raw.SenderName, name) {
		return models.DirectionOutgoing
	}
	return ""
}

// nameMatchAllowed ограничивает эвристику имен банковскими переводами.
// Для crypto_to_bank она отключена: перевод на собственный IBAN иначе
// ошибочно считался бы входящим.
func nameMatchAllowed(kind models.CorridorKind) bool {
	switch kind {
	case models.CorridorBankWireOut, models.CorridorBankWireIn:
		return true
	}
	return false
}

func containsFold(haystack, needle string) bool {
	if haystack == "" || needle == "" {
		return false
	}
	h := strings.ToLower(strings.TrimSpace(haystack))
	n := strings.ToLower(needle)
	return strings.Contains(h, n) || strings.Contains(n, h)
}
