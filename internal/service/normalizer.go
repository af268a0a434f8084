package service

import "strings"

// Mandatory phrasing of a Nota de Empenho description.
const (
	descriptionPrefix = "PELA DESPESA EMPENHADA"
	referenteWord     = "REFERENTE"
	fullPrefix        = "PELA DESPESA EMPENHADA REFERENTE A"
)

// NormalizeDescription rewrites raw model output into the mandatory
// phrasing: upper case, no markdown emphasis markers, and the standard
// opening. The function is idempotent, so running it over an already
// normalized text changes nothing.
func NormalizeDescription(raw string) string {
	text := strings.ToUpper(strings.TrimSpace(raw))
	text = strings.ReplaceAll(text, "**", "")
	text = strings.ReplaceAll(text, "*", "")

	switch {
	case strings.HasPrefix(text, descriptionPrefix):
		return text
	case strings.HasPrefix(text, referenteWord):
		return descriptionPrefix + " " + text
	default:
		// TrimSpace keeps the empty input case idempotent.
		return strings.TrimSpace(fullPrefix + " " + text)
	}
}
