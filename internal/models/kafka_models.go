package models

import (
	"time"
)

// событие об аномалии нормализации (неизвестный тег или расхождение нетто)
type NormalizationAnomalyEvent struct {
	TransactionID string    `json:"transaction_id"` // Уникальный ID транзакции
	UserID        string    `json:"user_id"`        // ID пользователя
	Reason        string    `json:"reason"`         // unknown_tag | net_mismatch
	RawType       string    `json:"raw_type"`       // Исходный тег апстрима
	SuppliedNet   float64   `json:"supplied_net,omitempty"`
	ComputedNet   float64   `json:"computed_net,omitempty"`
	Timestamp     time.Time `json:"timestamp"` // Время операции
}
