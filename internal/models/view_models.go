package models

import (
	"time"
)

// CorridorKind — закрытый набор денежных коридоров. Каждая сырая запись
// классифицируется ровно в один коридор; нераспознанные теги попадают в
// CorridorPayment и никогда не роняют обработку.
type CorridorKind string

const (
	CorridorCardPayment       CorridorKind = "card_payment"
	CorridorCardTransfer      CorridorKind = "card_transfer"
	CorridorBankWireOut       CorridorKind = "bank_wire_out"
	CorridorBankWireIn        CorridorKind = "bank_wire_in"
	CorridorCryptoTopUp       CorridorKind = "crypto_topup"
	CorridorCryptoWithdrawal  CorridorKind = "crypto_withdrawal"
	CorridorCryptoDeposit     CorridorKind = "crypto_deposit"
	CorridorCryptoToCard      CorridorKind = "crypto_to_card"
	CorridorCryptoToBank      CorridorKind = "crypto_to_bank"
	CorridorInternalTransfer  CorridorKind = "internal_transfer"
	CorridorCardActivationFee CorridorKind = "card_activation_fee"
	CorridorDeclined          CorridorKind = "declined"
	CorridorPayment           CorridorKind = "payment"
)

// Direction — направление движения денег с точки зрения пользователя.
type Direction string

const (
	DirectionIncoming Direction = "incoming"
	DirectionOutgoing Direction = "outgoing"
	DirectionNeutral  Direction = "neutral"
)

// ViewStatus статус транзакции для отображения
type ViewStatus string

const (
	StatusSettled    ViewStatus = "settled"
	StatusPending    ViewStatus = "pending"
	StatusProcessing ViewStatus = "processing"
	StatusFailed     ViewStatus = "failed"
)

// Money — сумма с валютой одной «ноги» операции.
type Money struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// MaskedField — идентификатор в замаскированной и, если удалось восстановить,
// полной форме. Full пустой, когда маска не разрешилась однозначно.
type MaskedField struct {
	Masked string `json:"masked"`
	Full   string `json:"full,omitempty"`
}

// Breakdown — разложение суммы операции на брутто, комиссию и нетто.
// Для коридоров с комиссией Fee присутствует всегда: нулевая комиссия — это
// явный ноль, а не отсутствующее поле.
type Breakdown struct {
	Gross        Money    `json:"gross"`
	Fee          Money    `json:"fee"`
	Net          Money    `json:"net"`
	ExchangeRate *float64 `json:"exchange_rate,omitempty"`

	// FeeSupplied/NetSupplied показывают, что значение пришло от апстрима,
	// а не вычислено по формуле коридора.
	FeeSupplied bool `json:"-"`
	NetSupplied bool `json:"-"`

	// NetMismatch заполняется, когда апстрим прислал нетто, расходящееся с
	// вычисленным по формуле: апстрим авторитетен, расхождение — сигнал
	// для лога и события аномалии.
	NetMismatch *NetMismatch `json:"-"`
}

// NetMismatch — расхождение присланного и вычисленного нетто.
type NetMismatch struct {
	Supplied float64
	Computed float64
}

// TransactionView — каноническое представление транзакции для отображения.
// Слой рендеринга не должен ничего довычислять: направление, разложение
// комиссии и валюты ног уже определены здесь.
type TransactionView struct {
	ID        string       `json:"id"`
	Kind      CorridorKind `json:"kind"`
	Direction Direction    `json:"direction"`
	Label     string       `json:"label"`
	Status    ViewStatus   `json:"status"`
	Timestamp time.Time    `json:"timestamp"`

	Gross        Money    `json:"gross"`
	Fee          Money    `json:"fee"`
	Net          Money    `json:"net"`
	ExchangeRate *float64 `json:"exchange_rate,omitempty"`

	Counterparty string `json:"counterparty,omitempty"`
	AvatarHint   string `json:"avatar_hint,omitempty"`

	SenderCard    *MaskedField `json:"sender_card,omitempty"`
	RecipientCard *MaskedField `json:"recipient_card,omitempty"`
	SenderIBAN    *MaskedField `json:"sender_iban,omitempty"`
	RecipientIBAN *MaskedField `json:"recipient_iban,omitempty"`
	FromAddress   *MaskedField `json:"from_address,omitempty"`
	ToAddress     *MaskedField `json:"to_address,omitempty"`

	TokenNetwork  string `json:"token_network,omitempty"`
	DeclineReason string `json:"decline_reason,omitempty"`
}

// TransactionGroup — транзакции одного дня с суммой расходов за день.
type TransactionGroup struct {
	Date         string            `json:"date"`
	TotalSpend   float64           `json:"total_spend"`
	Transactions []TransactionView `json:"transactions"`
}

// HistoryResponse ответ списка транзакций
type HistoryResponse struct {
	Groups []TransactionGroup `json:"groups"`
	// Total — всего записей пользователя за период, до пагинации и фильтров
	Total int `json:"total"`
	// Skipped — количество записей, отброшенных из-за отсутствия
	// обязательных полей; сами записи никогда не роняют весь список.
	Skipped int `json:"skipped,omitempty"`
}

// CorridorInfoResponse — тарифная информация коридора для экрана подтверждения.
type CorridorInfoResponse struct {
	Kind         CorridorKind `json:"kind"`
	FeeType      string       `json:"fee_type"` // percent | flat | percent_plus_flat | none
	FeePercent   float64      `json:"fee_percent,omitempty"`
	FeeFlat      float64      `json:"fee_flat,omitempty"`
	MinAmount    float64      `json:"min_amount,omitempty"`
	MaxAmount    float64      `json:"max_amount,omitempty"`
	ExchangeRate float64      `json:"exchange_rate,omitempty"`
	CurrencyFrom string       `json:"currency_from"`
	CurrencyTo   string       `json:"currency_to"`
}
