package airports

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gbergara/trip-planner/pkg/config"
)

const sampleCSV = `507,"London Heathrow Airport","London","United Kingdom","LHR","EGLL",51.4706,-0.461941,83,0,"E","Europe/London","airport","OurAirports"
1218,"Adolfo Suárez Madrid–Barajas Airport","Madrid","Spain","MAD","LEMD",40.471926,-3.56264,1998,1,"E","Europe/Madrid","airport","OurAirports"
1253,"Sevilla Airport","Sevilla","Spain","SVQ","LEZL",37.417999,-5.89311,112,1,"E","Europe/Madrid","airport","OurAirports"
6886,"Some Heliport","Nowhere","Atlantis",\N,\N,0,0,0,0,"U",\N,"airport","OurAirports"
`

func newLoadedService(t *testing.T) *Service {
	t.Helper()
	s := New(&config.RedisConfig{Enabled: false, CacheTTL: 60})
	airports, err := ParseDataset(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	s.setDataset(airports)
	return s
}

func TestParseDataset(t *testing.T) {
	airports, err := ParseDataset(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.Len(t, airports, 4)

	assert.Equal(t, "London Heathrow Airport", airports[0].Name)
	assert.Equal(t, "LHR", airports[0].IATA)
	assert.Equal(t, "Europe/London", airports[0].Timezone)

	// \N markers become empty strings.
	assert.Empty(t, airports[3].IATA)
	assert.Empty(t, airports[3].Timezone)
}

func TestParseDatasetEmpty(t *testing.T) {
	_, err := ParseDataset(strings.NewReader(""))
	assert.Error(t, err)
}

func TestSearchByCity(t *testing.T) {
	s := newLoadedService(t)

	results := s.Search("madrid", 10)
	require.Len(t, results, 1)
	assert.Equal(t, "MAD", results[0].IATA)
}

func TestSearchByIATACode(t *testing.T) {
	s := newLoadedService(t)

	results := s.Search("SVQ", 10)
	require.Len(t, results, 1)
	assert.Equal(t, "Sevilla Airport", results[0].Name)
}

func TestSearchByPartialCode(t *testing.T) {
	s := newLoadedService(t)

	// A prefix of an ICAO code matches, same as the other fields.
	results := s.Search("EGL", 10)
	require.Len(t, results, 1)
	assert.Equal(t, "EGLL", results[0].ICAO)

	results = s.Search("lem", 10)
	require.Len(t, results, 1)
	assert.Equal(t, "MAD", results[0].IATA)
}

func TestSearchByCountry(t *testing.T) {
	s := newLoadedService(t)

	results := s.Search("spain", 10)
	assert.Len(t, results, 2)
}

func TestSearchRespectsLimit(t *testing.T) {
	s := newLoadedService(t)

	results := s.Search("airport", 2)
	assert.Len(t, results, 2)
}

func TestSearchEmptyQuery(t *testing.T) {
	s := newLoadedService(t)
	assert.Empty(t, s.Search("   ", 10))
}

func TestCount(t *testing.T) {
	s := newLoadedService(t)
	assert.Equal(t, 4, s.Count())
}
