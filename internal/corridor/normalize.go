package corridor

import (
	"fmt"

	"gw-transaction-view/internal/custom_err"
	"gw-transaction-view/internal/models"
)

// Normalizer прогоняет сырые записи через конвейер нормализации:
// классификация, направление, маски, разложение сумм, сборка.
// Экземпляр неизменяем и безопасен для параллельного использования.
type Normalizer struct {
	fees FeeSchedule
}

func NewNormalizer(fees FeeSchedule) *Normalizer {
	return &Normalizer{fees: fees}
}

// Result — итог нормализации одной записи вместе с сигналами для
// вышестоящего слоя: фоллбек классификации и расхождение нетто не
// ошибки, но о них нужно сообщить.
type Result struct {
	View models.TransactionView

	// UnknownTag выставлен, когда тег записи ушел в generic-фоллбек.
	UnknownTag bool
	// NetMismatch — присланное апстримом нетто разошлось с вычисленным.
	NetMismatch *models.NetMismatch
}

// Normalize нормализует одну запись. Шаги строго последовательны, записи
// независимы друг от друга. Единственная ошибка здесь — запись без
// минимально необходимых полей, она отбрасывается поштучно и не роняет батч.
func (n *Normalizer) Normalize(raw *models.RawRecord, viewer Viewer, idx *AccountIndex, hint models.Direction) (Result, error) {
	const op = "corridor.Normalize"

	if err := checkRequired(raw); err != nil {
		return Result{}, fmt.Errorf("%s: %w", op, err)
	}

	kind := Classify(raw)
	direction := InferDirection(raw, kind, hint, viewer)
	kind = remap(kind, direction)
	rf := ResolveFields(raw, idx)
	bd := n.fees.Decompose(raw, kind, direction)

	res := Result{
		View:        Assemble(raw, kind, direction, rf, bd),
		UnknownTag:  !IsKnownTag(raw.Type),
		NetMismatch: bd.NetMismatch,
	}
	return res, nil
}

// remap согласует коридор с восстановленным направлением: вывод крипты,
// оказавшийся для этого пользователя входящим, на самом деле депозит,
// а банковский перевод со схлопнутым тегом меняет сторону.
func remap(kind models.CorridorKind, direction models.Direction) models.CorridorKind {
	switch {
	case kind == models.CorridorCryptoWithdrawal && direction == models.DirectionIncoming:
		return models.CorridorCryptoDeposit
	case kind == models.CorridorCryptoToCard && direction == models.DirectionIncoming:
		return models.CorridorCryptoDeposit
	case kind == models.CorridorCryptoToBank && direction == models.DirectionIncoming:
		return models.CorridorCryptoDeposit
	case kind == models.CorridorBankWireOut && direction == models.DirectionIncoming:
		return models.CorridorBankWireIn
	case kind == models.CorridorBankWireIn && direction == models.DirectionOutgoing:
		return models.CorridorBankWireOut
	}
	return kind
}

// checkRequired проверяет минимальный контракт записи: id, время и хотя бы
// одно поле суммы. Запись без них непредставима.
func checkRequired(raw *models.RawRecord) error {
	if raw == nil {
		return custom_err.ErrUnrepresentable
	}
	if raw.ID == "" {
		return fmt.Errorf("missing id: %w", custom_err.ErrUnrepresentable)
	}
	if raw.CreatedAt.IsZero() {
		return fmt.Errorf("missing timestamp: %w", custom_err.ErrUnrepresentable)
	}
	if _, ok := raw.GrossAmount(); !ok {
		return fmt.Errorf("missing amount: %w", custom_err.ErrUnrepresentable)
	}
	return nil
}
