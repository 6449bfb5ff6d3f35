package service

import (
	"log/slog"

	"gw-transaction-view/internal/corridor"
	"gw-transaction-view/internal/custom_err"
	"gw-transaction-view/internal/models"
)

type Info interface {
	GetCorridorInfo(kind models.CorridorKind) (*models.CorridorInfoResponse, error)
}

// InfoService отдает тарифную справку коридора для экрана подтверждения
// перевода. Данные берутся из той же тарифной сетки, по которой считается
// разложение комиссий, справка и история не могут разойтись.
type InfoService struct {
	fees corridor.FeeSchedule
	log  *slog.Logger
}

func NewInfoService(fees corridor.FeeSchedule, log *slog.Logger) Info {
	return &InfoService{fees: fees, log: log}
}

func (s *InfoService) GetCorridorInfo(kind models.CorridorKind) (*models.CorridorInfoResponse, error) {
	switch kind {
	case models.CorridorCardTransfer:
		return &models.CorridorInfoResponse{
			Kind:         kind,
			FeeType:      "percent",
			FeePercent:   s.fees.CardTransferPercent,
			CurrencyFrom: corridor.CurrencyAED,
			CurrencyTo:   corridor.CurrencyAED,
		}, nil
	case models.CorridorBankWireOut:
		return &models.CorridorInfoResponse{
			Kind:         kind,
			FeeType:      "percent",
			FeePercent:   s.fees.BankWirePercent,
			CurrencyFrom: corridor.CurrencyAED,
			CurrencyTo:   corridor.CurrencyAED,
		}, nil
	case models.CorridorCryptoWithdrawal:
		return &models.CorridorInfoResponse{
			Kind:         kind,
			FeeType:      "percent_plus_flat",
			FeePercent:   s.fees.CryptoSendPercent,
			FeeFlat:      s.fees.NetworkFeeUSDT,
			CurrencyFrom: corridor.CurrencyUSDT,
			CurrencyTo:   corridor.CurrencyUSDT,
		}, nil
	case models.CorridorCryptoToCard:
		return &models.CorridorInfoResponse{
			Kind:         kind,
			FeeType:      "percent_plus_flat",
			FeePercent:   s.fees.CryptoToCardPercent,
			FeeFlat:      s.fees.NetworkFeeUSDT,
			ExchangeRate: s.fees.DefaultUSDTRate,
			CurrencyFrom: corridor.CurrencyUSDT,
			CurrencyTo:   corridor.CurrencyAED,
		}, nil
	case models.CorridorCryptoToBank:
		return &models.CorridorInfoResponse{
			Kind:         kind,
			FeeType:      "percent_plus_flat",
			FeePercent:   s.fees.CryptoToBankPercent,
			FeeFlat:      s.fees.NetworkFeeUSDT,
			ExchangeRate: s.fees.DefaultUSDTRate,
			CurrencyFrom: corridor.CurrencyUSDT,
			CurrencyTo:   corridor.CurrencyAED,
		}, nil
	case models.CorridorCryptoTopUp:
		return &models.CorridorInfoResponse{
			Kind:         kind,
			FeeType:      "percent",
			FeePercent:   s.fees.TopUpPercent,
			ExchangeRate: s.fees.DefaultUSDTRate,
			CurrencyFrom: corridor.CurrencyUSDT,
			CurrencyTo:   corridor.CurrencyAED,
		}, nil
	case models.CorridorInternalTransfer:
		return &models.CorridorInfoResponse{
			Kind:         kind,
			FeeType:      "flat",
			FeeFlat:      s.fees.InternalFlatUSDT,
			CurrencyFrom: corridor.CurrencyUSDT,
			CurrencyTo:   corridor.CurrencyUSDT,
		}, nil
	case models.CorridorCardActivationFee:
		return &models.CorridorInfoResponse{
			Kind:         kind,
			FeeType:      "flat",
			FeeFlat:      s.fees.ActivationVirtual,
			CurrencyFrom: corridor.CurrencyAED,
			CurrencyTo:   corridor.CurrencyAED,
		}, nil
	case models.CorridorBankWireIn, models.CorridorCryptoDeposit,
		models.CorridorCardPayment, models.CorridorPayment, models.CorridorDeclined:
		return &models.CorridorInfoResponse{
			Kind:         kind,
			FeeType:      "none",
			CurrencyFrom: corridor.CurrencyAED,
			CurrencyTo:   corridor.CurrencyAED,
		}, nil
	}
	return nil, custom_err.ErrUnknownCorridor
}
