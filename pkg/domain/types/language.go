package types

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/text/language"
)

// Language selects the template flavour (worksheet names, headers, placeholders)
type Language string

const (
	LanguageEN Language = "EN"
	LanguageFR Language = "FR"
)

// AllLanguages returns all supported languages
func AllLanguages() []Language {
	return []Language{
		LanguageEN,
		LanguageFR,
	}
}

// IsValid checks if the language is supported
func (l Language) IsValid() bool {
	switch l {
	case LanguageEN,
		LanguageFR:
		return true
	default:
		return false
	}
}

// String returns the string representation of the language
func (l Language) String() string {
	return string(l)
}

// ParseLanguage accepts a two-letter code ("EN", "fr") or a BCP 47 tag ("fr-FR", "en_US")
// and returns the matching template language.
func ParseLanguage(s string) (Language, error) {
	code := Language(strings.ToUpper(strings.TrimSpace(s)))
	if code.IsValid() {
		return code, nil
	}

	tag, err := language.Parse(strings.ReplaceAll(s, "_", "-"))
	if err != nil {
		return "", goerr.Wrap(err, "invalid language", goerr.V("language", s))
	}
	base, _ := tag.Base()
	code = Language(strings.ToUpper(base.String()))
	if !code.IsValid() {
		return "", goerr.New("unsupported language", goerr.V("language", s))
	}
	return code, nil
}
