package i18n

import (
	"fmt"

	"github.com/gbergara/trip-planner/pkg/config"
	"golang.org/x/text/language"
)

// Translator resolves user-facing strings into a supported language.
// Unknown keys fall through untranslated, so English source text is
// always a safe default.
type Translator struct {
	defaultLang string
	supported   []string
	matcher     language.Matcher
}

// New builds a translator for the configured language set.
func New(cfg *config.I18nConfig) (*Translator, error) {
	if len(cfg.SupportedLanguages) == 0 {
		return nil, fmt.Errorf("no supported languages configured")
	}

	tags := make([]language.Tag, 0, len(cfg.SupportedLanguages))
	for _, code := range cfg.SupportedLanguages {
		tag, err := language.Parse(code)
		if err != nil {
			return nil, fmt.Errorf("invalid language code %q: %w", code, err)
		}
		tags = append(tags, tag)
	}

	return &Translator{
		defaultLang: cfg.DefaultLanguage,
		supported:   cfg.SupportedLanguages,
		matcher:     language.NewMatcher(tags),
	}, nil
}

// Translate returns text in the requested language, falling back to
// the source string when no translation exists.
func (t *Translator) Translate(text, lang string) string {
	if !t.IsSupported(lang) {
		lang = t.defaultLang
	}

	if catalog, ok := catalogs[lang]; ok {
		if translated, ok := catalog[text]; ok {
			return translated
		}
	}
	return text
}

// IsSupported reports whether the language code is configured.
func (t *Translator) IsSupported(lang string) bool {
	for _, code := range t.supported {
		if code == lang {
			return true
		}
	}
	return false
}

// DetectFromHeader picks the best supported language for an
// Accept-Language header, honoring quality values. A missing or
// unparsable header yields the default language.
func (t *Translator) DetectFromHeader(acceptLanguage string) string {
	if acceptLanguage == "" {
		return t.defaultLang
	}

	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return t.defaultLang
	}

	_, index, confidence := t.matcher.Match(tags...)
	if confidence == language.No {
		return t.defaultLang
	}
	return t.supported[index]
}

// Default returns the configured default language.
func (t *Translator) Default() string {
	return t.defaultLang
}

// Supported returns the configured language codes.
func (t *Translator) Supported() []string {
	out := make([]string, len(t.supported))
	copy(out, t.supported)
	return out
}

// LanguageNames returns human-readable names for the supported languages.
func (t *Translator) LanguageNames() map[string]string {
	names := map[string]string{}
	for _, code := range t.supported {
		if name, ok := languageNames[code]; ok {
			names[code] = name
		} else {
			names[code] = code
		}
	}
	return names
}

var languageNames = map[string]string{
	"en": "English",
	"es": "Español",
}
