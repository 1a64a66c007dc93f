package flights

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// Risk tier thresholds. Both bounds are inclusive on the upper end:
// exactly one hour is still risky, exactly two hours is still tight.
const (
	riskyMax = time.Hour
	tightMax = 2 * time.Hour
)

// RiskTier classifies the connection time between two flights.
type RiskTier string

const (
	// TierInvalid marks overlapping or reversed schedules (gap <= 0).
	TierInvalid     RiskTier = "invalid"
	TierRisky       RiskTier = "risky"
	TierTight       RiskTier = "tight"
	TierComfortable RiskTier = "comfortable"
)

// ErrBadTimezone is returned when an explicitly configured reference
// timezone cannot be resolved. An empty timezone falls back to UTC; a
// wrong one does not.
var ErrBadTimezone = errors.New("unresolvable reference timezone")

// Flight is the analyzer's view of a flight booking. It carries only
// the semantic fields the analysis needs, detached from storage.
type Flight struct {
	ID           string     `json:"id"`
	FlightNumber string     `json:"flight_number,omitempty"`
	Airline      string     `json:"airline,omitempty"`
	Departure    string     `json:"departure,omitempty"`
	Arrival      string     `json:"arrival,omitempty"`
	Start        *time.Time `json:"start,omitempty"`
	End          *time.Time `json:"end,omitempty"`
}

// DayGroup holds the flights departing on one local calendar day,
// ordered by departure time.
type DayGroup struct {
	Date    string   `json:"date"` // YYYY-MM-DD in the reference timezone
	Flights []Flight `json:"flights"`
}

// Connection describes the gap between two consecutive same-day flights.
type Connection struct {
	Date     string        `json:"date"`
	FromID   string        `json:"from_id"`
	ToID     string        `json:"to_id"`
	Gap      time.Duration `json:"gap_ns"`
	GapHuman string        `json:"gap"`
	Tier     RiskTier      `json:"tier"`
}

// Report is the full analysis result. Partial results are always
// populated; problems end up in Incomplete and Diagnostics instead of
// aborting the run.
type Report struct {
	Days        []DayGroup   `json:"days"`
	Connections []Connection `json:"connections"`
	Incomplete  []Flight     `json:"incomplete"`
	Diagnostics []string     `json:"diagnostics"`
}

// Analyzer groups a trip's flights by calendar day in a reference
// timezone and classifies the connection gaps between them. It is a
// pure transform over its input and safe for concurrent use.
type Analyzer struct {
	loc *time.Location
}

// NewAnalyzer builds an analyzer for the given IANA zone name. An empty
// name means UTC. An invalid name is a configuration error.
func NewAnalyzer(timezone string) (*Analyzer, error) {
	if timezone == "" {
		return &Analyzer{loc: time.UTC}, nil
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrBadTimezone, timezone)
	}
	return &Analyzer{loc: loc}, nil
}

// Location returns the reference timezone in use.
func (a *Analyzer) Location() *time.Location {
	return a.loc
}

// GroupByDay buckets flights by their departure's local calendar date.
// Flights without a start timestamp cannot be placed on any day and are
// returned separately. Each bucket is sorted ascending by departure
// time, ties broken by flight number, then by ID.
func (a *Analyzer) GroupByDay(all []Flight) ([]DayGroup, []Flight) {
	buckets := make(map[string][]Flight)
	var incomplete []Flight

	for _, f := range all {
		if f.Start == nil {
			incomplete = append(incomplete, f)
			continue
		}
		date := f.Start.In(a.loc).Format("2006-01-02")
		buckets[date] = append(buckets[date], f)
	}

	days := make([]DayGroup, 0, len(buckets))
	for date, group := range buckets {
		sort.SliceStable(group, func(i, j int) bool {
			si := group[i].Start.In(a.loc)
			sj := group[j].Start.In(a.loc)
			if !si.Equal(sj) {
				return si.Before(sj)
			}
			if group[i].FlightNumber != group[j].FlightNumber {
				return group[i].FlightNumber < group[j].FlightNumber
			}
			return group[i].ID < group[j].ID
		})
		days = append(days, DayGroup{Date: date, Flights: group})
	}

	sort.Slice(days, func(i, j int) bool {
		return days[i].Date < days[j].Date
	})

	return days, incomplete
}

// ComputeConnections walks a day's ordered flights and classifies the
// gap between each consecutive pair. The gap runs from the earlier
// flight's arrival (departure when no arrival is recorded) to the later
// flight's departure. Non-positive gaps are reported as invalid rather
// than dropped.
func (a *Analyzer) ComputeConnections(day DayGroup) []Connection {
	if len(day.Flights) < 2 {
		return nil
	}

	connections := make([]Connection, 0, len(day.Flights)-1)
	for i := 1; i < len(day.Flights); i++ {
		prev := day.Flights[i-1]
		next := day.Flights[i]

		ref := prev.Start
		if prev.End != nil {
			ref = prev.End
		}
		gap := next.Start.Sub(*ref)

		connections = append(connections, Connection{
			Date:     day.Date,
			FromID:   prev.ID,
			ToID:     next.ID,
			Gap:      gap,
			GapHuman: gap.String(),
			Tier:     ClassifyGap(gap),
		})
	}

	return connections
}

// ClassifyGap maps a connection gap onto its risk tier. The tiers
// partition the whole line: (-inf,0] invalid, (0,1h] risky, (1h,2h]
// tight, (2h,inf) comfortable.
func ClassifyGap(gap time.Duration) RiskTier {
	switch {
	case gap <= 0:
		return TierInvalid
	case gap <= riskyMax:
		return TierRisky
	case gap <= tightMax:
		return TierTight
	default:
		return TierComfortable
	}
}

// Analyze runs the full pipeline: grouping, per-day connection
// classification and diagnostics collection.
func (a *Analyzer) Analyze(all []Flight) *Report {
	days, incomplete := a.GroupByDay(all)

	report := &Report{
		Days:        days,
		Incomplete:  incomplete,
		Connections: []Connection{},
		Diagnostics: []string{},
	}

	for _, f := range incomplete {
		report.Diagnostics = append(report.Diagnostics,
			fmt.Sprintf("flight %s has no departure time and was excluded from analysis", describeFlight(f)))
	}

	for _, day := range days {
		for _, conn := range a.ComputeConnections(day) {
			report.Connections = append(report.Connections, conn)
			if conn.Tier == TierInvalid {
				report.Diagnostics = append(report.Diagnostics,
					fmt.Sprintf("flights %s and %s on %s overlap (gap %s)",
						conn.FromID, conn.ToID, conn.Date, conn.GapHuman))
			}
		}
	}

	return report
}

func describeFlight(f Flight) string {
	if f.FlightNumber != "" {
		return fmt.Sprintf("%s (%s)", f.ID, f.FlightNumber)
	}
	return f.ID
}
