package corridor

import (
	"math"

	"gw-transaction-view/internal/models"
)

const (
	CurrencyAED  = "AED"
	CurrencyUSDT = "USDT"
)

// FeeSchedule — тарифы коридоров. Значения по умолчанию соответствуют
// продуктовым тарифам, любое из них переопределяется конфигурацией.
type FeeSchedule struct {
	CardTransferPercent float64 `envconfig:"FEE_CARD_TRANSFER_PERCENT" default:"1.5"`
	BankWirePercent     float64 `envconfig:"FEE_BANK_WIRE_PERCENT" default:"2.0"`
	CryptoSendPercent   float64 `envconfig:"FEE_CRYPTO_SEND_PERCENT" default:"1.0"`
	CryptoToCardPercent float64 `envconfig:"FEE_CRYPTO_TO_CARD_PERCENT" default:"1.0"`
	CryptoToBankPercent float64 `envconfig:"FEE_CRYPTO_TO_BANK_PERCENT" default:"2.0"`
	TopUpPercent        float64 `envconfig:"FEE_TOPUP_PERCENT" default:"2.0"`
	NetworkFeeUSDT      float64 `envconfig:"FEE_NETWORK_USDT" default:"5.90"`
	InternalFlatUSDT    float64 `envconfig:"FEE_INTERNAL_FLAT_USDT" default:"1.00"`
	ActivationVirtual   float64 `envconfig:"FEE_ACTIVATION_VIRTUAL_AED" default:"183.00"`
	ActivationMetal     float64 `envconfig:"FEE_ACTIVATION_METAL_AED" default:"549.00"`
	DefaultUSDTRate     float64 `envconfig:"FEE_DEFAULT_USDT_RATE" default:"3.67"`
}

// DefaultFeeSchedule возвращает тарифы по умолчанию.
func DefaultFeeSchedule() FeeSchedule {
	return FeeSchedule{
		CardTransferPercent: 1.5,
		BankWirePercent:     2.0,
		CryptoSendPercent:   1.0,
		CryptoToCardPercent: 1.0,
		CryptoToBankPercent: 2.0,
		TopUpPercent:        2.0,
		NetworkFeeUSDT:      5.90,
		InternalFlatUSDT:    1.00,
		ActivationVirtual:   183.00,
		ActivationMetal:     549.00,
		DefaultUSDTRate:     3.67,
	}
}

// Round2 округляет фиатные суммы до сотых.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Round6 округляет крипто-суммы до шести знаков.
func Round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}

func roundFor(currency string, v float64) float64 {
	if currency == CurrencyUSDT {
		return Round6(v)
	}
	return Round2(v)
}

// Decompose раскладывает сумму записи на брутто, комиссию и нетто по формуле
// коридора. Присланные апстримом комиссия и нетто авторитетны: вычисленные
// значения используются только как фоллбек, а расхождение фиксируется в
// NetMismatch и решается в пользу апстрима.
func (fs FeeSchedule) Decompose(raw *models.RawRecord, kind models.CorridorKind, direction models.Direction) models.Breakdown {
	gross, _ := raw.GrossAmount()
	grossCur := grossCurrency(raw, kind)
	netCur := netCurrency(raw, kind, grossCur)

	var (
		fee     float64
		net     float64
		rate    *float64
		convert = grossCur != netCur
	)
	if convert {
		rate = raw.ExchangeRate
		if rate == nil {
			r := fs.DefaultUSDTRate
			rate = &r
		}
	}

	switch kind {
	case models.CorridorCardTransfer:
		pct := fs.CardTransferPercent
		if raw.FeePercent != nil {
			pct = *raw.FeePercent
		}
		fee = gross * pct / 100
		if direction == models.DirectionIncoming {
			// комиссию несет отправитель
			fee = 0
			net = gross
		} else {
			net = gross + fee
		}

	case models.CorridorBankWireOut:
		fee = gross * fs.BankWirePercent / 100
		net = gross + fee

	case models.CorridorBankWireIn:
		fee = 0
		net = gross

	case models.CorridorCryptoWithdrawal, models.CorridorCryptoToCard, models.CorridorCryptoToBank:
		pct := fs.CryptoSendPercent
		switch kind {
		case models.CorridorCryptoToCard:
			pct = fs.CryptoToCardPercent
		case models.CorridorCryptoToBank:
			pct = fs.CryptoToBankPercent
		}
		fee = gross*pct/100 + fs.NetworkFeeUSDT
		if direction == models.DirectionOutgoing {
			net = gross + fee
			if convert {
				// списывается в USDT, зачисление контрагенту в AED
				net = gross * (*rate)
			}
		} else {
			net = gross
			if convert {
				net = gross * (*rate)
			}
		}

	case models.CorridorCryptoTopUp:
		fee = gross * fs.TopUpPercent / 100
		net = gross - fee
		if convert {
			net = net * (*rate)
		}

	case models.CorridorCryptoDeposit:
		fee = 0
		net = gross

	case models.CorridorInternalTransfer:
		if raw.HasCryptoLeg() {
			fee = fs.InternalFlatUSDT
		}
		if direction == models.DirectionIncoming {
			fee = 0
			net = gross
		} else {
			net = gross + fee
		}

	case models.CorridorCardActivationFee:
		if gross == 0 {
			gross = fs.ActivationVirtual
			if raw.CardType == "metal" {
				gross = fs.ActivationMetal
			}
		}
		fee = 0
		net = gross

	default:
		// CardPayment, Declined, generic Payment
		fee = 0
		if direction == models.DirectionIncoming {
			net = gross
		} else {
			net = gross + fee
		}
	}

	bd := models.Breakdown{
		Gross:        models.Money{Amount: roundFor(grossCur, gross), Currency: grossCur},
		Fee:          models.Money{Amount: roundFor(grossCur, fee), Currency: grossCur},
		Net:          models.Money{Amount: roundFor(netCur, net), Currency: netCur},
		ExchangeRate: rate,
	}

	if supplied, ok := raw.SuppliedFee(); ok {
		bd.Fee.Amount = roundFor(grossCur, supplied)
		bd.FeeSupplied = true
		if direction != models.DirectionIncoming && !convert {
			bd.Net.Amount = roundFor(netCur, gross+supplied)
		}
	}

	if convert {
		// при конвертации total_debit номинирован в валюте списания и не может
		// подменять нетто: он сверяется с дебетовой ногой, нетто берется
		// только из net_credited
		if raw.NetCredited != nil {
			got := roundFor(netCur, *raw.NetCredited)
			if math.Abs(got-bd.Net.Amount) > netTolerance(netCur) {
				bd.NetMismatch = &models.NetMismatch{Supplied: got, Computed: bd.Net.Amount}
			}
			bd.Net.Amount = got
			bd.NetSupplied = true
		}
		if raw.TotalDebit != nil {
			debit := roundFor(grossCur, gross+fee)
			got := roundFor(grossCur, *raw.TotalDebit)
			if math.Abs(got-debit) > netTolerance(grossCur) && bd.NetMismatch == nil {
				bd.NetMismatch = &models.NetMismatch{Supplied: got, Computed: debit}
			}
		}
	} else if suppliedNet := suppliedNet(raw, direction); suppliedNet != nil {
		got := roundFor(netCur, *suppliedNet)
		if math.Abs(got-bd.Net.Amount) > netTolerance(netCur) {
			bd.NetMismatch = &models.NetMismatch{Supplied: got, Computed: bd.Net.Amount}
		}
		bd.Net.Amount = got
		bd.NetSupplied = true
	}
	return bd
}

// suppliedNet выбирает присланное апстримом нетто в зависимости от направления:
// для списаний это total_debit, для зачислений net_credited.
func suppliedNet(raw *models.RawRecord, direction models.Direction) *float64 {
	if direction == models.DirectionIncoming {
		return raw.NetCredited
	}
	if raw.TotalDebit != nil {
		return raw.TotalDebit
	}
	return raw.NetCredited
}

func netTolerance(currency string) float64 {
	if currency == CurrencyUSDT {
		return 1e-6 / 2
	}
	return 0.005
}

// grossCurrency определяет валюту брутто-суммы: крипто-коридоры номинированы
// в токене, остальные в фиате. Явная валюта записи имеет приоритет.
func grossCurrency(raw *models.RawRecord, kind models.CorridorKind) string {
	if raw.Currency != "" {
		return raw.Currency
	}
	if raw.AmountCrypto != nil {
		return tokenOrDefault(raw)
	}
	if raw.AmountAED != nil {
		return CurrencyAED
	}
	switch kind {
	case models.CorridorCryptoTopUp, models.CorridorCryptoWithdrawal, models.CorridorCryptoDeposit,
		models.CorridorCryptoToCard, models.CorridorCryptoToBank:
		return tokenOrDefault(raw)
	}
	return CurrencyAED
}

// netCurrency — валюта нетто: конвертирующие коридоры зачисляют фиат.
func netCurrency(raw *models.RawRecord, kind models.CorridorKind, grossCur string) string {
	switch kind {
	case models.CorridorCryptoTopUp, models.CorridorCryptoToCard, models.CorridorCryptoToBank:
		return CurrencyAED
	}
	return grossCur
}

func tokenOrDefault(raw *models.RawRecord) string {
	if raw.Token != "" {
		return raw.Token
	}
	return CurrencyUSDT
}
