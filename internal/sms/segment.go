package sms

import "unicode/utf16"

const (
	gsmSingleLimit = 160
	gsmPartLimit   = 153
	ucsSingleLimit = 70
	ucsPartLimit   = 67
)

// базовая таблица GSM 03.38
const gsmBasic = "@£$¥èéùìòÇ\nØø\rÅåΔ_ΦΓΛΩΠΨΣΘΞ\x1bÆæßÉ !\"#¤%&'()*+,-./0123456789:;<=>?" +
	"¡ABCDEFGHIJKLMNOPQRSTUVWXYZÄÖÑÜ§¿abcdefghijklmnopqrstuvwxyzäöñüà"

// символы расширенной таблицы занимают два септета
const gsmExtended = "^{}\\[~]|€\f"

var (
	gsmBasicSet    = runeSet(gsmBasic)
	gsmExtendedSet = runeSet(gsmExtended)
)

// Split делит текст на части, которые оператор склеит обратно в одно сообщение.
// Текст в алфавите GSM-7 режется по 160/153 септета, остальной по 70/67 символов UCS-2.
func Split(message string) []string {
	if message == "" {
		return nil
	}
	runes := []rune(message)
	if isGSM(runes) {
		return splitBy(runes, gsmSingleLimit, gsmPartLimit, gsmWidth)
	}
	return splitBy(runes, ucsSingleLimit, ucsPartLimit, ucsWidth)
}

func splitBy(runes []rune, single, part int, width func(rune) int) []string {
	total := 0
	for _, r := range runes {
		total += width(r)
	}
	if total <= single {
		return []string{string(runes)}
	}

	parts := make([]string, 0, total/part+1)
	start, size := 0, 0
	for i, r := range runes {
		w := width(r)
		if size+w > part {
			parts = append(parts, string(runes[start:i]))
			start, size = i, 0
		}
		size += w
	}
	return append(parts, string(runes[start:]))
}

func isGSM(runes []rune) bool {
	for _, r := range runes {
		if !gsmBasicSet[r] && !gsmExtendedSet[r] {
			return false
		}
	}
	return true
}

func gsmWidth(r rune) int {
	if gsmExtendedSet[r] {
		return 2
	}
	return 1
}

func ucsWidth(r rune) int {
	if n := utf16.RuneLen(r); n > 0 {
		return n
	}
	return 1
}

func runeSet(s string) map[rune]bool {
	set := make(map[rune]bool)
	for _, r := range s {
		set[r] = true
	}
	return set
}
