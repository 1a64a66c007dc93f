package webserver

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gbergara/trip-planner/pkg/airports"
	"github.com/gbergara/trip-planner/pkg/config"
	"github.com/gbergara/trip-planner/pkg/db"
	"github.com/gbergara/trip-planner/pkg/log"
	"github.com/gbergara/trip-planner/pkg/utils"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Server: config.ServerConfig{
			Host: "127.0.0.1", Port: 0,
			ReadTimeout: 30, WriteTimeout: 30, IdleTimeout: 120, GracefulStop: 5,
		},
		Database: config.DatabaseConfig{
			Driver:   "sqlite",
			Database: filepath.Join(t.TempDir(), "test.db"),
		},
		Security: config.SecurityConfig{
			SessionSecret:      "test-session-secret-0123456789abcdef",
			JWTExpirationHours: 1,
			SessionCookieName:  "trip_session",
			AuthCookieName:     "access_token",
			SessionMaxAgeDays:  1,
			RateLimitEnabled:   false,
		},
		Logging: config.LoggingConfig{Level: "error", Format: "text", Output: "stdout"},
		Redis:   config.RedisConfig{Enabled: false, CacheTTL: 60},
		I18n: config.I18nConfig{
			DefaultLanguage:    "en",
			SupportedLanguages: []string{"en", "es"},
			LanguageCookieName: "lang",
		},
	}
}

// testClient wraps an HTTP client with a cookie jar, so guest sessions
// persist across requests like a browser.
type testClient struct {
	t      *testing.T
	base   string
	client *http.Client
}

func newTestClient(t *testing.T, srv *httptest.Server) *testClient {
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &testClient{
		t:      t,
		base:   srv.URL,
		client: &http.Client{Jar: jar},
	}
}

func (tc *testClient) do(method, path string, body interface{}) (*http.Response, []byte) {
	tc.t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(tc.t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, tc.base+path, reader)
	require.NoError(tc.t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := tc.client.Do(req)
	require.NoError(tc.t, err)
	data, err := io.ReadAll(resp.Body)
	require.NoError(tc.t, err)
	resp.Body.Close()
	return resp, data
}

func decodeData(t *testing.T, raw []byte, out interface{}) {
	t.Helper()
	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
		Error   string          `json:"error"`
	}
	require.NoError(t, json.Unmarshal(raw, &envelope))
	require.True(t, envelope.Success, "response error: %s", envelope.Error)
	if out != nil {
		require.NoError(t, json.Unmarshal(envelope.Data, out))
	}
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := testConfig(t)

	logger, err := log.New(&cfg.Logging)
	require.NoError(t, err)

	database, err := db.New(&cfg.Database)
	require.NoError(t, err)
	require.NoError(t, database.Migrate())
	t.Cleanup(func() { database.Close() })

	airportSvc := airports.New(&cfg.Redis)

	server, err := New(cfg, database, logger, airportSvc)
	require.NoError(t, err)

	srv := httptest.NewServer(server.Router())
	t.Cleanup(srv.Close)
	return srv
}

type tripPayload struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Status   string `json:"status"`
	Currency string `json:"currency"`
	Timezone string `json:"timezone"`
}

func createTrip(t *testing.T, tc *testClient, body map[string]interface{}) tripPayload {
	t.Helper()
	if body == nil {
		body = map[string]interface{}{
			"name":       "Test Trip",
			"start_date": "2025-06-01T00:00:00Z",
		}
	}
	resp, raw := tc.do(http.MethodPost, "/api/v1/trips", body)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))

	var trip tripPayload
	decodeData(t, raw, &trip)
	return trip
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t)
	tc := newTestClient(t, srv)

	resp, _ := tc.do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGuestTripLifecycle(t *testing.T) {
	srv := newTestServer(t)
	tc := newTestClient(t, srv)

	trip := createTrip(t, tc, nil)
	assert.NotEmpty(t, trip.ID)
	assert.Equal(t, "planning", trip.Status)

	// The creating guest sees the trip.
	resp, raw := tc.do(http.MethodGet, "/api/v1/trips", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var trips []tripPayload
	decodeData(t, raw, &trips)
	require.Len(t, trips, 1)
	assert.Equal(t, trip.ID, trips[0].ID)

	// A fresh client with its own guest session sees nothing.
	stranger := newTestClient(t, srv)
	resp, raw = stranger.do(http.MethodGet, "/api/v1/trips", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var otherTrips []tripPayload
	decodeData(t, raw, &otherTrips)
	assert.Empty(t, otherTrips)

	// Nor can it fetch the trip directly.
	resp, _ = stranger.do(http.MethodGet, "/api/v1/trips/"+trip.ID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Update and delete as the owner.
	resp, _ = tc.do(http.MethodPut, "/api/v1/trips/"+trip.ID, map[string]interface{}{
		"name":       "Renamed Trip",
		"start_date": "2025-06-01T00:00:00Z",
		"currency":   "EUR",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = tc.do(http.MethodDelete, "/api/v1/trips/"+trip.ID, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = tc.do(http.MethodGet, "/api/v1/trips/"+trip.ID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestTripValidation(t *testing.T) {
	srv := newTestServer(t)
	tc := newTestClient(t, srv)

	// Missing name
	resp, _ := tc.do(http.MethodPost, "/api/v1/trips", map[string]interface{}{
		"start_date": "2025-06-01T00:00:00Z",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// End before start
	resp, _ = tc.do(http.MethodPost, "/api/v1/trips", map[string]interface{}{
		"name":       "Backwards",
		"start_date": "2025-06-10T00:00:00Z",
		"end_date":   "2025-06-01T00:00:00Z",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Unknown timezone
	resp, _ = tc.do(http.MethodPost, "/api/v1/trips", map[string]interface{}{
		"name":       "Bad TZ",
		"start_date": "2025-06-01T00:00:00Z",
		"timezone":   "Mars/Olympus",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestTripStatusUpdate(t *testing.T) {
	srv := newTestServer(t)
	tc := newTestClient(t, srv)
	trip := createTrip(t, tc, nil)

	resp, raw := tc.do(http.MethodPatch, "/api/v1/trips/"+trip.ID+"/status", map[string]interface{}{
		"status": "confirmed",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var updated tripPayload
	decodeData(t, raw, &updated)
	assert.Equal(t, "confirmed", updated.Status)

	resp, _ = tc.do(http.MethodPatch, "/api/v1/trips/"+trip.ID+"/status", map[string]interface{}{
		"status": "teleported",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

type bookingPayload struct {
	ID          string `json:"id"`
	TripID      string `json:"trip_id"`
	Title       string `json:"title"`
	BookingType string `json:"booking_type"`
	Status      string `json:"status"`
}

func TestFlightBookingGetsRouteTitle(t *testing.T) {
	srv := newTestServer(t)
	tc := newTestClient(t, srv)
	trip := createTrip(t, tc, nil)

	resp, raw := tc.do(http.MethodPost, "/api/v1/bookings", map[string]interface{}{
		"trip_id":            trip.ID,
		"booking_type":       "flight",
		"start_date":         "2025-06-01T08:00:00Z",
		"departure_location": "MAD",
		"arrival_location":   "SVQ",
		"flight_number":      "ib3944",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))

	var booking bookingPayload
	decodeData(t, raw, &booking)
	assert.Equal(t, utils.FlightTitle("MAD", "SVQ"), booking.Title)
	assert.Equal(t, "pending", booking.Status)

	// Changing the route refreshes the title.
	resp, raw = tc.do(http.MethodPut, "/api/v1/bookings/"+booking.ID, map[string]interface{}{
		"trip_id":            trip.ID,
		"booking_type":       "flight",
		"start_date":         "2025-06-01T08:00:00Z",
		"departure_location": "MAD",
		"arrival_location":   "BCN",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	decodeData(t, raw, &booking)
	assert.Equal(t, utils.FlightTitle("MAD", "BCN"), booking.Title)
}

func TestBookingValidation(t *testing.T) {
	srv := newTestServer(t)
	tc := newTestClient(t, srv)
	trip := createTrip(t, tc, nil)

	// Unknown type
	resp, _ := tc.do(http.MethodPost, "/api/v1/bookings", map[string]interface{}{
		"trip_id":      trip.ID,
		"booking_type": "submarine",
		"title":        "Dive",
		"start_date":   "2025-06-01T08:00:00Z",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Non-flight booking without a title
	resp, _ = tc.do(http.MethodPost, "/api/v1/bookings", map[string]interface{}{
		"trip_id":      trip.ID,
		"booking_type": "activity",
		"start_date":   "2025-06-01T08:00:00Z",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Booking into someone else's trip
	stranger := newTestClient(t, srv)
	resp, _ = stranger.do(http.MethodPost, "/api/v1/bookings", map[string]interface{}{
		"trip_id":      trip.ID,
		"booking_type": "activity",
		"title":        "Intrusion",
		"start_date":   "2025-06-01T08:00:00Z",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestBookingTypeFilter(t *testing.T) {
	srv := newTestServer(t)
	tc := newTestClient(t, srv)
	trip := createTrip(t, tc, nil)

	for _, b := range []map[string]interface{}{
		{"trip_id": trip.ID, "booking_type": "flight", "start_date": "2025-06-01T08:00:00Z",
			"departure_location": "MAD", "arrival_location": "SVQ"},
		{"trip_id": trip.ID, "booking_type": "accommodation", "title": "Hotel",
			"start_date": "2025-06-01T15:00:00Z"},
	} {
		resp, raw := tc.do(http.MethodPost, "/api/v1/bookings", b)
		require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	}

	resp, raw := tc.do(http.MethodGet, "/api/v1/bookings?booking_type=flight", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var bookings []bookingPayload
	decodeData(t, raw, &bookings)
	require.Len(t, bookings, 1)
	assert.Equal(t, "flight", bookings[0].BookingType)

	resp, _ = tc.do(http.MethodGet, "/api/v1/bookings?booking_type=submarine", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

type todoPayload struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Completed   bool    `json:"completed"`
	CompletedAt *string `json:"completed_at"`
}

func TestTodoCompletionFlow(t *testing.T) {
	srv := newTestServer(t)
	tc := newTestClient(t, srv)
	trip := createTrip(t, tc, nil)

	resp, raw := tc.do(http.MethodPost, "/api/v1/todos", map[string]interface{}{
		"trip_id":  trip.ID,
		"title":    "Renew passport",
		"category": "documents",
		"priority": 1,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	var todo todoPayload
	decodeData(t, raw, &todo)

	resp, raw = tc.do(http.MethodPatch, "/api/v1/todos/"+todo.ID+"/complete", map[string]interface{}{
		"completed": true,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeData(t, raw, &todo)
	assert.True(t, todo.Completed)
	assert.NotNil(t, todo.CompletedAt)

	resp, raw = tc.do(http.MethodPatch, "/api/v1/todos/"+todo.ID+"/complete", map[string]interface{}{
		"completed": false,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	// completed_at is omitted from the JSON when nil, so decode into a
	// fresh value instead of one still holding the previous timestamp.
	todo = todoPayload{}
	decodeData(t, raw, &todo)
	assert.False(t, todo.Completed)
	assert.Nil(t, todo.CompletedAt)
}

func TestTripConnectionsEndpoint(t *testing.T) {
	srv := newTestServer(t)
	tc := newTestClient(t, srv)
	trip := createTrip(t, tc, map[string]interface{}{
		"name":       "Connection Run",
		"start_date": "2025-06-01T00:00:00Z",
		"timezone":   "UTC",
	})

	// Two flights 45 minutes apart, plus a cancelled one that must be
	// ignored by the analysis.
	legs := []map[string]interface{}{
		{"trip_id": trip.ID, "booking_type": "flight", "start_date": "2025-06-01T08:00:00Z",
			"end_date": "2025-06-01T10:00:00Z", "departure_location": "MAD", "arrival_location": "LHR"},
		{"trip_id": trip.ID, "booking_type": "flight", "start_date": "2025-06-01T10:45:00Z",
			"departure_location": "LHR", "arrival_location": "JFK"},
		{"trip_id": trip.ID, "booking_type": "flight", "status": "cancelled",
			"start_date": "2025-06-01T09:00:00Z", "departure_location": "MAD", "arrival_location": "CDG"},
	}
	for _, leg := range legs {
		resp, raw := tc.do(http.MethodPost, "/api/v1/bookings", leg)
		require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	}

	resp, raw := tc.do(http.MethodGet, "/api/v1/trips/"+trip.ID+"/connections", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))

	var report struct {
		Days []struct {
			Date    string `json:"date"`
			Flights []struct {
				ID string `json:"id"`
			} `json:"flights"`
		} `json:"days"`
		Connections []struct {
			Tier string `json:"tier"`
			Gap  string `json:"gap"`
		} `json:"connections"`
	}
	decodeData(t, raw, &report)

	require.Len(t, report.Days, 1)
	assert.Equal(t, "2025-06-01", report.Days[0].Date)
	assert.Len(t, report.Days[0].Flights, 2)

	require.Len(t, report.Connections, 1)
	assert.Equal(t, "risky", report.Connections[0].Tier)
	assert.Equal(t, "45m0s", report.Connections[0].Gap)
}

func TestExportTripPDF(t *testing.T) {
	srv := newTestServer(t)
	tc := newTestClient(t, srv)
	trip := createTrip(t, tc, map[string]interface{}{
		"name":       "Printable Trip",
		"start_date": "2025-06-01T00:00:00Z",
	})

	resp, raw := tc.do(http.MethodGet, "/api/v1/trips/"+trip.ID+"/export/pdf", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "printable-trip.pdf")
	require.True(t, len(raw) > 4)
	assert.Equal(t, "%PDF", string(raw[:4]))
}

func TestAuthMeAsGuest(t *testing.T) {
	srv := newTestServer(t)
	tc := newTestClient(t, srv)

	resp, raw := tc.do(http.MethodGet, "/api/v1/auth/me", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var me struct {
		Authenticated  bool   `json:"authenticated"`
		GuestSessionID string `json:"guest_session_id"`
	}
	decodeData(t, raw, &me)
	assert.False(t, me.Authenticated)
	assert.NotEmpty(t, me.GuestSessionID)

	// The session is sticky: the same client keeps its ID.
	_, raw = tc.do(http.MethodGet, "/api/v1/auth/me", nil)
	var again struct {
		GuestSessionID string `json:"guest_session_id"`
	}
	decodeData(t, raw, &again)
	assert.Equal(t, me.GuestSessionID, again.GuestSessionID)
}

func TestLoginUnconfigured(t *testing.T) {
	srv := newTestServer(t)
	tc := newTestClient(t, srv)

	resp, _ := tc.do(http.MethodGet, "/api/v1/auth/login", nil)
	assert.Equal(t, http.StatusNotImplemented, resp.StatusCode)
}

func TestGuestCannotShare(t *testing.T) {
	srv := newTestServer(t)
	tc := newTestClient(t, srv)
	trip := createTrip(t, tc, nil)

	resp, _ := tc.do(http.MethodPost, "/api/v1/trips/"+trip.ID+"/share", map[string]interface{}{
		"email": "friend@example.com",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestLanguageSelection(t *testing.T) {
	srv := newTestServer(t)
	tc := newTestClient(t, srv)

	resp, raw := tc.do(http.MethodPost, "/api/v1/set-language", map[string]interface{}{
		"language": "es",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))

	_, raw = tc.do(http.MethodGet, "/api/v1/languages", nil)
	var langs struct {
		Current   string            `json:"current"`
		Languages map[string]string `json:"languages"`
	}
	decodeData(t, raw, &langs)
	assert.Equal(t, "es", langs.Current)
	assert.Contains(t, langs.Languages, "en")

	resp, _ = tc.do(http.MethodPost, "/api/v1/set-language", map[string]interface{}{
		"language": "tlh",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAirportSearchRequiresQuery(t *testing.T) {
	srv := newTestServer(t)
	tc := newTestClient(t, srv)

	resp, _ := tc.do(http.MethodGet, "/api/v1/airports/search", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
