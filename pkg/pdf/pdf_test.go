package pdf

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gbergara/trip-planner/pkg/config"
	"github.com/gbergara/trip-planner/pkg/i18n"
	"github.com/gbergara/trip-planner/pkg/models"
)

func newTestGenerator(t *testing.T) *Generator {
	t.Helper()
	tr, err := i18n.New(&config.I18nConfig{
		DefaultLanguage:    "en",
		SupportedLanguages: []string{"en", "es"},
	})
	require.NoError(t, err)
	return NewGenerator(tr)
}

func sampleTrip() *models.Trip {
	end := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	budget := 2500.0
	return &models.Trip{
		ID:                 models.NewUUID(),
		Name:               "Summer in Spain",
		Description:        "Two weeks across Andalusia",
		Status:             models.TripConfirmed,
		StartDate:          time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:            &end,
		PrimaryDestination: "Sevilla",
		Budget:             &budget,
		Currency:           "EUR",
		TravelerCount:      2,
	}
}

func sampleBookings() []models.Booking {
	price1 := 320.50
	price2 := 89.99
	price3 := 50.0
	return []models.Booking{
		{
			Title:             "MAD → SVQ",
			BookingType:       models.BookingFlight,
			Status:            models.BookingConfirmed,
			StartDate:         time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC),
			DepartureLocation: "MAD",
			ArrivalLocation:   "SVQ",
			Price:             &price1,
			Currency:          "EUR",
		},
		{
			Title:       "Hotel Alfonso",
			BookingType: models.BookingAccommodation,
			Status:      models.BookingPending,
			StartDate:   time.Date(2025, 6, 1, 15, 0, 0, 0, time.UTC),
			Address:     "Calle San Fernando 2, Sevilla",
			Price:       &price2,
			Currency:    "EUR",
		},
		{
			Title:       "Flamenco show",
			BookingType: models.BookingActivity,
			Status:      models.BookingCancelled,
			StartDate:   time.Date(2025, 6, 2, 20, 0, 0, 0, time.UTC),
			Price:       &price3,
			Currency:    "EUR",
		},
	}
}

func TestTripReportProducesPDF(t *testing.T) {
	g := newTestGenerator(t)

	data, err := g.TripReport(sampleTrip(), sampleBookings(), "en")
	require.NoError(t, err)
	require.NotEmpty(t, data)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestTripReportSpanish(t *testing.T) {
	g := newTestGenerator(t)

	data, err := g.TripReport(sampleTrip(), sampleBookings(), "es")
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestTripReportWithoutBookings(t *testing.T) {
	g := newTestGenerator(t)

	data, err := g.TripReport(sampleTrip(), nil, "en")
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestTypeLabels(t *testing.T) {
	assert.Equal(t, "Flight", typeLabel(models.BookingFlight))
	assert.Equal(t, "Car Rental", typeLabel(models.BookingCarRental))
	assert.Equal(t, "Other", typeLabel(models.BookingType("mystery")))
}

func TestTruncatePreservesRunes(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 40))

	long := strings.Repeat("maletín peregión ", 5)
	got := truncate(long, 20)
	assert.True(t, utf8.ValidString(got), "truncation must not split a rune")
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.LessOrEqual(t, utf8.RuneCountInString(got), 20)
}

func TestBookingLocation(t *testing.T) {
	assert.Equal(t, "MAD - SVQ", bookingLocation(models.Booking{
		DepartureLocation: "MAD", ArrivalLocation: "SVQ",
	}))
	assert.Equal(t, "Main St 1", bookingLocation(models.Booking{Address: "Main St 1"}))
	assert.Equal(t, "", bookingLocation(models.Booking{}))
}
