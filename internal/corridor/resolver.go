package corridor

import (
	"strings"
	"unicode/utf8"

	"gw-transaction-view/internal/models"
)

// AccountIndex — read-only индекс счетов пользователя: суффикс -> кандидаты.
// Строится один раз на батч и разделяется между параллельными нормализациями.
type AccountIndex struct {
	bySuffix map[string][]models.KnownAccount
}

// NewAccountIndex строит индекс по last4 карт и IBAN и по хвосту крипто-адресов.
func NewAccountIndex(accounts []models.KnownAccount) *AccountIndex {
	idx := &AccountIndex{bySuffix: make(map[string][]models.KnownAccount, len(accounts))}
	for _, acc := range accounts {
		for _, suf := range accountSuffixes(acc) {
			idx.bySuffix[suf] = append(idx.bySuffix[suf], acc)
		}
	}
	return idx
}

func accountSuffixes(acc models.KnownAccount) []string {
	var sufs []string
	if acc.Last4 != "" {
		sufs = append(sufs, strings.ToLower(acc.Last4))
	}
	if n := len(acc.Number); n >= 4 {
		tail := strings.ToLower(acc.Number[n-4:])
		if len(sufs) == 0 || sufs[0] != tail {
			sufs = append(sufs, tail)
		}
	}
	// у крипто-адресов маска оставляет шесть последних символов
	if acc.Kind == models.AccountCrypto {
		if n := len(acc.Number); n >= 6 {
			sufs = append(sufs, strings.ToLower(acc.Number[n-6:]))
		}
	}
	return sufs
}

// ResolveFull возвращает полное значение маски, только если суффиксу
// соответствует ровно один счет. Ноль или несколько кандидатов оставляют
// маску как есть: угадывание здесь хуже, чем отсутствие ответа.
// movementHint — полное значение из movements самой записи, оно приоритетнее
// поиска по счетам.
func (idx *AccountIndex) ResolveFull(mask string, movementHint string) models.MaskedField {
	out := models.MaskedField{Masked: mask}
	if movementHint != "" {
		out.Full = movementHint
		return out
	}
	suf := maskSuffix(mask)
	if suf == "" || idx == nil {
		return out
	}
	candidates := idx.bySuffix[suf]
	if len(candidates) == 1 {
		out.Full = candidates[0].Number
	}
	return out
}

// maskSuffix вырезает из маски открытый хвост: "••4521" -> "4521",
// "AE07••••9876" -> "9876", "TXk4…9fYp2a" -> "9fyp2a". Строка без
// масочных символов считается уже полным значением.
func maskSuffix(mask string) string {
	mask = strings.TrimSpace(mask)
	idx := strings.LastIndexFunc(mask, isMaskRune)
	if idx < 0 {
		return ""
	}
	_, size := utf8.DecodeRuneInString(mask[idx:])
	return strings.ToLower(mask[idx+size:])
}

func isMaskRune(r rune) bool {
	switch r {
	case '•', '*', '·', '.', '…':
		return true
	}
	return false
}

// MaskCard прячет номер карты, оставляя последние четыре цифры.
func MaskCard(number string) string {
	if len(number) < 4 {
		return number
	}
	return "••" + number[len(number)-4:]
}

// MaskIBAN оставляет первые четыре и последние четыре символа IBAN.
func MaskIBAN(iban string) string {
	if len(iban) < 8 {
		return iban
	}
	return iban[:4] + "••••" + iban[len(iban)-4:]
}

// MaskAddress сокращает адрес кошелька до первых шести и последних шести символов.
func MaskAddress(addr string) string {
	if len(addr) < 12 {
		return addr
	}
	return addr[:6] + "…" + addr[len(addr)-6:]
}
