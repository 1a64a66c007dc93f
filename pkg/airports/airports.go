package airports

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gbergara/trip-planner/pkg/config"
	"github.com/gbergara/trip-planner/pkg/log"
)

// DatasetURL is the OpenFlights airport database.
const DatasetURL = "https://raw.githubusercontent.com/jpatokal/openflights/master/data/airports.dat"

const cacheKey = "airports:dataset"

// Airport is one entry of the OpenFlights dataset, trimmed to the
// fields the search endpoint serves.
type Airport struct {
	Name     string `json:"name"`
	City     string `json:"city"`
	Country  string `json:"country"`
	IATA     string `json:"iata,omitempty"`
	ICAO     string `json:"icao,omitempty"`
	Timezone string `json:"timezone,omitempty"`
}

// Service serves airport lookups from an in-memory copy of the dataset,
// backed by a Redis cache so restarts don't re-download it. Without
// Redis it still works, it just fetches on every start.
type Service struct {
	client  *redis.Client
	httpc   *http.Client
	ttl     time.Duration
	dataURL string

	mu       sync.RWMutex
	airports []Airport
}

// New creates the airport service. A nil or unreachable Redis is not an
// error; caching is simply skipped.
func New(cfg *config.RedisConfig) *Service {
	s := &Service{
		httpc:   &http.Client{Timeout: 30 * time.Second},
		ttl:     time.Duration(cfg.CacheTTL) * time.Second,
		dataURL: DatasetURL,
	}

	if !cfg.Enabled {
		return s
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.GetRedisAddr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.WithError(err).Warn("redis unavailable, airport cache disabled")
		return s
	}

	s.client = client
	return s
}

// Load populates the in-memory dataset, preferring the Redis cache over
// a network fetch.
func (s *Service) Load(ctx context.Context) error {
	if s.client != nil {
		raw, err := s.client.Get(ctx, cacheKey).Bytes()
		if err == nil {
			var airports []Airport
			if err := json.Unmarshal(raw, &airports); err == nil && len(airports) > 0 {
				s.setDataset(airports)
				log.LogCache(cacheKey, true, len(airports))
				return nil
			}
		} else if err != redis.Nil {
			log.WithError(err).Warn("airport cache read failed")
		}
		log.LogCache(cacheKey, false, 0)
	}

	return s.Refresh(ctx)
}

// Refresh re-downloads the dataset and rewrites the cache. Used by the
// scheduled refresh job.
func (s *Service) Refresh(ctx context.Context) error {
	airports, err := s.fetch(ctx)
	if err != nil {
		return err
	}
	s.setDataset(airports)

	if s.client != nil {
		raw, err := json.Marshal(airports)
		if err != nil {
			return fmt.Errorf("encode airport dataset: %w", err)
		}
		if err := s.client.Set(ctx, cacheKey, raw, s.ttl).Err(); err != nil {
			log.WithError(err).Warn("airport cache write failed")
		}
	}

	log.LogSystem("airports", "refresh", true, map[string]interface{}{
		"count": len(airports),
	})
	return nil
}

// Search returns airports whose name, city, country or code contains
// the query, case-insensitively. Results are capped at limit.
func (s *Service) Search(query string, limit int) []Airport {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]Airport, 0, limit)
	for _, a := range s.airports {
		if strings.Contains(strings.ToLower(a.Name), query) ||
			strings.Contains(strings.ToLower(a.City), query) ||
			strings.Contains(strings.ToLower(a.Country), query) ||
			strings.Contains(strings.ToLower(a.IATA), query) ||
			strings.Contains(strings.ToLower(a.ICAO), query) {
			results = append(results, a)
			if len(results) >= limit {
				break
			}
		}
	}
	return results
}

// Count returns the number of loaded airports.
func (s *Service) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.airports)
}

// Close releases the Redis connection.
func (s *Service) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}

func (s *Service) setDataset(airports []Airport) {
	s.mu.Lock()
	s.airports = airports
	s.mu.Unlock()
}

func (s *Service) fetch(ctx context.Context) ([]Airport, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.dataURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch airport dataset: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch airport dataset: unexpected status %d", resp.StatusCode)
	}

	return ParseDataset(resp.Body)
}

// ParseDataset reads the OpenFlights CSV format. Rows that don't parse
// are skipped rather than failing the whole load.
func ParseDataset(r io.Reader) ([]Airport, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var airports []Airport
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}
		// id, name, city, country, IATA, ICAO, lat, lon, alt, offset, DST, tz, ...
		if len(record) < 12 {
			continue
		}

		airports = append(airports, Airport{
			Name:     record[1],
			City:     record[2],
			Country:  record[3],
			IATA:     nullable(record[4]),
			ICAO:     nullable(record[5]),
			Timezone: nullable(record[11]),
		})
	}

	if len(airports) == 0 {
		return nil, fmt.Errorf("airport dataset is empty")
	}
	return airports, nil
}

// OpenFlights encodes missing values as \N.
func nullable(v string) string {
	if v == `\N` {
		return ""
	}
	return v
}
