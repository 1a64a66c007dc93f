package pdf

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/gbergara/trip-planner/pkg/i18n"
	"github.com/gbergara/trip-planner/pkg/models"
)

const dateFormat = "Jan 2, 2006"

// Generator renders trip reports as PDF documents. Labels are localized
// through the translator; user content is rendered as-is.
type Generator struct {
	translator *i18n.Translator
}

// NewGenerator creates a PDF generator.
func NewGenerator(translator *i18n.Translator) *Generator {
	return &Generator{translator: translator}
}

// TripReport renders a complete report for one trip: details, booking
// itinerary with total cost, and summary statistics.
func (g *Generator) TripReport(trip *models.Trip, bookings []models.Booking, lang string) ([]byte, error) {
	doc := gofpdf.New("P", "mm", "A4", "")
	enc := doc.UnicodeTranslatorFromDescriptor("")
	doc.SetTitle(trip.Name, true)
	doc.AddPage()

	t := func(text string) string {
		return enc(g.translator.Translate(text, lang))
	}

	// Header
	doc.SetFont("Helvetica", "B", 18)
	doc.CellFormat(0, 12, t("Trip Report"), "", 1, "C", false, 0, "")
	doc.SetFont("Helvetica", "B", 14)
	doc.CellFormat(0, 10, enc(trip.Name), "", 1, "C", false, 0, "")
	doc.Ln(4)

	g.writeDetails(doc, t, enc, trip)
	doc.Ln(6)
	g.writeBookings(doc, t, enc, trip, bookings, lang)
	doc.Ln(6)
	g.writeStatistics(doc, t, enc, trip, bookings)

	// Footer
	doc.Ln(10)
	doc.SetFont("Helvetica", "I", 8)
	doc.SetTextColor(128, 128, 128)
	generated := fmt.Sprintf("%s %s", g.translator.Translate("Generated on", lang),
		time.Now().UTC().Format("2006-01-02 15:04 MST"))
	doc.CellFormat(0, 6, enc(generated), "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (g *Generator) writeDetails(doc *gofpdf.Fpdf, t func(string) string, enc func(string) string, trip *models.Trip) {
	doc.SetTextColor(0, 0, 0)
	doc.SetFont("Helvetica", "B", 12)
	doc.CellFormat(0, 8, t("Trip Details"), "B", 1, "L", false, 0, "")
	doc.Ln(2)

	row := func(label, value string) {
		if value == "" {
			return
		}
		doc.SetFont("Helvetica", "B", 10)
		doc.CellFormat(45, 6, t(label), "", 0, "L", false, 0, "")
		doc.SetFont("Helvetica", "", 10)
		doc.MultiCell(0, 6, enc(value), "", "L", false)
	}

	row("Status", string(trip.Status))
	row("Description", trip.Description)
	row("Destination", trip.PrimaryDestination)
	row("Start Date", trip.StartDate.Format(dateFormat))
	if trip.EndDate != nil {
		row("End Date", trip.EndDate.Format(dateFormat))
	}
	if trip.Budget != nil {
		row("Budget", fmt.Sprintf("%.2f %s", *trip.Budget, trip.Currency))
	}
	row("Travelers", fmt.Sprintf("%d", trip.TravelerCount))
	row("Notes", trip.Notes)
}

func (g *Generator) writeBookings(doc *gofpdf.Fpdf, t func(string) string, enc func(string) string, trip *models.Trip, bookings []models.Booking, lang string) {
	doc.SetFont("Helvetica", "B", 12)
	doc.CellFormat(0, 8, t("Bookings"), "B", 1, "L", false, 0, "")
	doc.Ln(2)

	if len(bookings) == 0 {
		doc.SetFont("Helvetica", "I", 10)
		doc.CellFormat(0, 6, t("No bookings found for this trip."), "", 1, "L", false, 0, "")
		return
	}

	widths := []float64{30, 55, 28, 42, 35}
	headers := []string{"Type", "Title", "Date", "Location", "Price"}

	doc.SetFont("Helvetica", "B", 9)
	doc.SetFillColor(230, 230, 230)
	for i, h := range headers {
		doc.CellFormat(widths[i], 7, t(h), "1", 0, "L", true, 0, "")
	}
	doc.Ln(-1)

	doc.SetFont("Helvetica", "", 9)
	var total float64
	for _, b := range bookings {
		price := ""
		if b.Price != nil {
			price = fmt.Sprintf("%.2f %s", *b.Price, b.Currency)
			if b.Status != models.BookingCancelled {
				total += *b.Price
			}
		}

		cols := []string{
			g.translator.Translate(typeLabel(b.BookingType), lang),
			b.Title,
			b.StartDate.Format("2006-01-02"),
			bookingLocation(b),
			price,
		}
		for i, col := range cols {
			doc.CellFormat(widths[i], 6, enc(truncate(col, 40)), "1", 0, "L", false, 0, "")
		}
		doc.Ln(-1)
	}

	doc.SetFont("Helvetica", "B", 9)
	doc.CellFormat(widths[0]+widths[1]+widths[2]+widths[3], 7, t("TOTAL"), "1", 0, "R", false, 0, "")
	doc.CellFormat(widths[4], 7, enc(fmt.Sprintf("%.2f %s", total, trip.Currency)), "1", 1, "L", false, 0, "")
}

func (g *Generator) writeStatistics(doc *gofpdf.Fpdf, t func(string) string, enc func(string) string, trip *models.Trip, bookings []models.Booking) {
	doc.SetFont("Helvetica", "B", 12)
	doc.CellFormat(0, 8, t("Trip Statistics"), "B", 1, "L", false, 0, "")
	doc.Ln(2)

	var confirmed, pending, cancelled int
	var total float64
	for _, b := range bookings {
		switch b.Status {
		case models.BookingConfirmed:
			confirmed++
		case models.BookingPending:
			pending++
		case models.BookingCancelled:
			cancelled++
		}
		if b.Price != nil && b.Status != models.BookingCancelled {
			total += *b.Price
		}
	}

	row := func(label, value string) {
		doc.SetFont("Helvetica", "B", 10)
		doc.CellFormat(45, 6, t(label), "", 0, "L", false, 0, "")
		doc.SetFont("Helvetica", "", 10)
		doc.CellFormat(0, 6, enc(value), "", 1, "L", false, 0, "")
	}

	row("Total Bookings", fmt.Sprintf("%d", len(bookings)))
	row("Confirmed", fmt.Sprintf("%d", confirmed))
	row("Pending", fmt.Sprintf("%d", pending))
	row("Cancelled", fmt.Sprintf("%d", cancelled))
	row("Total Cost", fmt.Sprintf("%.2f %s", total, trip.Currency))
}

// typeLabel maps a booking type to its display label key.
func typeLabel(t models.BookingType) string {
	switch t {
	case models.BookingFlight:
		return "Flight"
	case models.BookingAccommodation:
		return "Accommodation"
	case models.BookingCarRental:
		return "Car Rental"
	case models.BookingActivity:
		return "Activity"
	case models.BookingRestaurant:
		return "Restaurant"
	default:
		return "Other"
	}
}

func bookingLocation(b models.Booking) string {
	switch {
	case b.DepartureLocation != "" && b.ArrivalLocation != "":
		return fmt.Sprintf("%s - %s", b.DepartureLocation, b.ArrivalLocation)
	case b.Address != "":
		return b.Address
	case b.PickupLocation != "":
		return b.PickupLocation
	}
	return ""
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return strings.TrimSpace(string(r[:max-3])) + "..."
}
