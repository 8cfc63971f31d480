package domain

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DisplayLabel turns an enumerated raw value such as NOT_REPORTABLE into its
// display form, "Not Reportable".
func DisplayLabel(raw string) string {
	if raw == "" {
		return ""
	}
	spaced := strings.Join(strings.Fields(strings.ReplaceAll(raw, "_", " ")), " ")
	// Casers are stateful and must not be shared across goroutines.
	return cases.Title(language.Und).String(spaced)
}
