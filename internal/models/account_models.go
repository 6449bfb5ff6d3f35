package models

import (
	"time"

	"github.com/google/uuid"
)

// AccountKind тип счета пользователя
type AccountKind string

const (
	AccountCard   AccountKind = "card"
	AccountBank   AccountKind = "bank"
	AccountCrypto AccountKind = "crypto"
)

func (k AccountKind) IsValid() bool {
	return k == AccountCard || k == AccountBank || k == AccountCrypto
}

// KnownAccount — счет, принадлежащий самому пользователю: карта, банковский
// счет или криптокошелек. Снимок этих счетов используется ядром для
// восстановления полных идентификаторов по маске и для детекции переводов
// самому себе. Снимок иммутабелен в рамках одного запроса.
type KnownAccount struct {
	ID     uuid.UUID   `json:"id" db:"id"`
	UserID uuid.UUID   `json:"user_id" db:"user_id"`
	Kind   AccountKind `json:"kind" db:"kind"`

	// Number хранит полный идентификатор: номер карты, IBAN или адрес кошелька.
	Number string `json:"number" db:"number"`
	Last4  string `json:"last4" db:"last4"`

	CardType string `json:"card_type,omitempty" db:"card_type"` // virtual | metal
	Token    string `json:"token,omitempty" db:"token"`         // USDT
	Network  string `json:"network,omitempty" db:"network"`     // TRC20

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// MaskedAccountResponse — счет с замаскированным идентификатором для выдачи
// наружу; раскрытие полного значения — ответственность слоя отображения.
type MaskedAccountResponse struct {
	ID       uuid.UUID   `json:"id"`
	Kind     AccountKind `json:"kind"`
	Masked   string      `json:"masked"`
	CardType string      `json:"card_type,omitempty"`
	Token    string      `json:"token,omitempty"`
	Network  string      `json:"network,omitempty"`
}
