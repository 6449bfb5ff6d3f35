package models

import (
	"time"
)

// Movement — одна «нога» бухгалтерской проводки, присланная апстримом.
// Порядок в RawRecord.Movements значим: первой идет нога плательщика.
type Movement struct {
	Type        string  `json:"type"` // credit | debit
	Amount      float64 `json:"amount"`
	AccountType string  `json:"account_type,omitempty"` // card | bank | crypto
	AccountRef  string  `json:"account_ref,omitempty"`  // полный идентификатор счета, если апстрим его прислал
}

// RawRecord — сырая запись транзакции от апстрима. Набор полей зависит от
// коридора и от конкретного продюсера, поэтому почти все поля опциональны.
// Числовые поля объявлены указателями: отсутствие поля и явный ноль — разные
// ситуации для декомпозиции комиссий. Неизвестные поля JSON игнорируются.
type RawRecord struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Status    string    `json:"status,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UserID    string    `json:"user_id,omitempty"`
	Direction string    `json:"direction,omitempty"` // inbound | outbound, если апстрим знает направление

	Amount       *float64 `json:"amount,omitempty"`
	AmountAED    *float64 `json:"amount_aed,omitempty"`
	AmountCrypto *float64 `json:"amount_crypto,omitempty"`
	Currency     string   `json:"currency,omitempty"`

	Fee          *float64 `json:"fee,omitempty"`
	FeeAmount    *float64 `json:"fee_amount,omitempty"`
	FeePercent   *float64 `json:"fee_percent,omitempty"`
	NetworkFee   *float64 `json:"network_fee,omitempty"`
	TotalDebit   *float64 `json:"total_debit,omitempty"`
	NetCredited  *float64 `json:"net_credited,omitempty"`
	ExchangeRate *float64 `json:"exchange_rate,omitempty"`

	Merchant      string `json:"merchant,omitempty"`
	SenderName    string `json:"sender_name,omitempty"`
	RecipientName string `json:"recipient_name,omitempty"`

	SenderCard    string `json:"sender_card,omitempty"`
	RecipientCard string `json:"recipient_card,omitempty"`
	SenderIBAN    string `json:"sender_iban,omitempty"`
	RecipientIBAN string `json:"recipient_iban,omitempty"`
	FromAddress   string `json:"from_address,omitempty"`
	ToAddress     string `json:"to_address,omitempty"`

	Token   string `json:"token,omitempty"`
	Network string `json:"network,omitempty"`

	CardID        string `json:"card_id,omitempty"`
	CardType      string `json:"card_type,omitempty"` // virtual | metal
	BankName      string `json:"bank_name,omitempty"`
	DeclineReason string `json:"decline_reason,omitempty"`

	Movements []Movement `json:"movements,omitempty"`
}

// GrossAmount возвращает сумму операции и признак того, что хоть одно из
// трех amount-полей присутствует. Приоритет: amount_crypto, amount_aed, amount.
func (r *RawRecord) GrossAmount() (float64, bool) {
	switch {
	case r.AmountCrypto != nil:
		return *r.AmountCrypto, true
	case r.AmountAED != nil:
		return *r.AmountAED, true
	case r.Amount != nil:
		return *r.Amount, true
	}
	return 0, false
}

// SuppliedFee возвращает присланную апстримом комиссию, если она есть.
// fee_amount имеет приоритет над fee.
func (r *RawRecord) SuppliedFee() (float64, bool) {
	if r.FeeAmount != nil {
		return *r.FeeAmount, true
	}
	if r.Fee != nil {
		return *r.Fee, true
	}
	return 0, false
}

// HasCryptoLeg сообщает, деноминирована ли запись в криптовалюте. Используется
// классификатором для разрешения неоднозначных тегов вида "topup"/"withdrawal".
func (r *RawRecord) HasCryptoLeg() bool {
	if r.AmountCrypto != nil {
		return true
	}
	if r.Token != "" || r.FromAddress != "" || r.ToAddress != "" {
		return true
	}
	return false
}

// FirstMovement возвращает первую ногу проводки, если апстрим прислал список.
func (r *RawRecord) FirstMovement() (Movement, bool) {
	if len(r.Movements) == 0 {
		return Movement{}, false
	}
	return r.Movements[0], true
}
