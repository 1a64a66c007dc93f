package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gbergara/trip-planner/pkg/config"
)

func newTestTranslator(t *testing.T) *Translator {
	t.Helper()
	tr, err := New(&config.I18nConfig{
		DefaultLanguage:    "en",
		SupportedLanguages: []string{"en", "es"},
	})
	require.NoError(t, err)
	return tr
}

func TestNewRejectsEmptyLanguageSet(t *testing.T) {
	_, err := New(&config.I18nConfig{DefaultLanguage: "en"})
	assert.Error(t, err)
}

func TestNewRejectsInvalidCode(t *testing.T) {
	_, err := New(&config.I18nConfig{
		DefaultLanguage:    "en",
		SupportedLanguages: []string{"en", "not a lang"},
	})
	assert.Error(t, err)
}

func TestTranslateSpanish(t *testing.T) {
	tr := newTestTranslator(t)
	assert.Equal(t, "Informe del Viaje", tr.Translate("Trip Report", "es"))
	assert.Equal(t, "Reservas", tr.Translate("Bookings", "es"))
}

func TestTranslateEnglishPassesThrough(t *testing.T) {
	tr := newTestTranslator(t)
	assert.Equal(t, "Trip Report", tr.Translate("Trip Report", "en"))
}

func TestTranslateUnknownKeyFallsThrough(t *testing.T) {
	tr := newTestTranslator(t)
	assert.Equal(t, "Some Custom Heading", tr.Translate("Some Custom Heading", "es"))
}

func TestTranslateUnsupportedLanguageUsesDefault(t *testing.T) {
	tr := newTestTranslator(t)
	assert.Equal(t, "Trip Report", tr.Translate("Trip Report", "fr"))
}

func TestDetectFromHeader(t *testing.T) {
	tr := newTestTranslator(t)

	cases := []struct {
		header string
		want   string
	}{
		{"", "en"},
		{"es", "es"},
		{"es-MX,es;q=0.9,en;q=0.8", "es"},
		{"en-US,en;q=0.9", "en"},
		{"fr-FR,fr;q=0.9", "en"},
		{"de;q=0.8,es;q=0.9", "es"},
		{";;;garbage;;;", "en"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, tr.DetectFromHeader(tc.header), "header %q", tc.header)
	}
}

func TestLanguageNames(t *testing.T) {
	tr := newTestTranslator(t)
	names := tr.LanguageNames()
	assert.Equal(t, "English", names["en"])
	assert.Equal(t, "Español", names["es"])
}
