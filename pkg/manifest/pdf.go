// Package manifest renders a printable passenger list for a trip.
package manifest

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/NomadCrew/lunch-break-planner/types"
	"github.com/phpdave11/gofpdf"
)

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// Build returns the PDF manifest for trip and a suggested download filename.
func Build(trip types.Trip, generatedAt time.Time) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Trip manifest", true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, tr("Lunch trip to "+orDash(trip.Destination)))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Driver     : %s", orDash(trip.DriverName)),
		fmt.Sprintf("Departure  : %s", orDash(trip.DepartureTime)),
		fmt.Sprintf("Seats      : %d taken of %d", len(trip.Passengers), trip.AvailableSeats),
		fmt.Sprintf("Status     : %s", trip.State()),
	}
	for _, s := range lines {
		pdf.Cell(0, 7, tr(s))
		pdf.Ln(7)
	}

	pdf.Ln(5)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Passengers")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 12)
	if len(trip.Passengers) == 0 {
		pdf.SetFont("Helvetica", "I", 11)
		pdf.Cell(0, 7, "Nobody has joined yet.")
		pdf.Ln(7)
	}
	for i, name := range trip.Passengers {
		pdf.Cell(0, 7, tr(fmt.Sprintf("%d. %s", i+1, name)))
		pdf.Ln(7)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.Cell(0, 6, fmt.Sprintf("Trip %s, generated %s", trip.ID, generatedAt.UTC().Format("2006-01-02 15:04 MST")))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", fmt.Errorf("render manifest: %w", err)
	}

	return buf.Bytes(), Filename(trip), nil
}

// Filename returns a filesystem-safe name such as "manifest_Berlin_14-00.pdf".
func Filename(trip types.Trip) string {
	parts := []string{"manifest"}
	for _, p := range []string{trip.Destination, trip.DepartureTime} {
		if s := strings.Trim(unsafeFilenameChars.ReplaceAllString(p, "-"), "-"); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "_") + ".pdf"
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
