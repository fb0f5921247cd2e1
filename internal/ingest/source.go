package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"

	apperrors "github.com/yungbote/placesync/internal/pkg/errors"
)

// PlaceRecord is one row of the places source after trimming. County is nil
// when the column was absent or blank.
type PlaceRecord struct {
	City    string
	County  *string
	Country string
}

// PersonRecord is one raw row of the people source. Validation happens per row
// in the loader so a bad record never aborts the run.
type PersonRecord struct {
	Line         int
	GivenName    string
	FamilyName   string
	DateOfBirth  string
	PlaceOfBirth string
}

// ReadPlaces loads every row of the places source. A missing file maps to
// ErrSourceNotFound; a malformed row is fatal because the place phase has no
// per-row tolerance.
func ReadPlaces(path, encoding string) ([]PlaceRecord, error) {
	f, err := openSource(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader, err := newCSVReader(f, encoding)
	if err != nil {
		return nil, err
	}

	header, err := readHeader(reader, path)
	if err != nil {
		return nil, err
	}
	cityIdx, err := header.require("city")
	if err != nil {
		return nil, err
	}
	countryIdx, err := header.require("country")
	if err != nil {
		return nil, err
	}
	countyIdx := header.optional("county")

	var records []PlaceRecord
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		line++

		city := strings.TrimSpace(field(row, cityIdx))
		country := strings.TrimSpace(field(row, countryIdx))
		if city == "" || country == "" {
			return nil, fmt.Errorf("%s line %d: city and country are required", path, line)
		}

		rec := PlaceRecord{City: city, Country: country}
		if county := strings.TrimSpace(field(row, countyIdx)); county != "" {
			rec.County = &county
		}
		records = append(records, rec)
	}
	return records, nil
}

// ReadPeople loads every raw row of the people source. Only the missing file
// and CSV syntax errors are fatal here.
func ReadPeople(path, encoding string) ([]PersonRecord, error) {
	f, err := openSource(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader, err := newCSVReader(f, encoding)
	if err != nil {
		return nil, err
	}

	header, err := readHeader(reader, path)
	if err != nil {
		return nil, err
	}
	givenIdx, err := header.require("given_name")
	if err != nil {
		return nil, err
	}
	familyIdx, err := header.require("family_name")
	if err != nil {
		return nil, err
	}
	dobIdx, err := header.require("date_of_birth")
	if err != nil {
		return nil, err
	}
	placeIdx, err := header.require("place_of_birth")
	if err != nil {
		return nil, err
	}

	var records []PersonRecord
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		line++

		records = append(records, PersonRecord{
			Line:         line,
			GivenName:    strings.TrimSpace(field(row, givenIdx)),
			FamilyName:   strings.TrimSpace(field(row, familyIdx)),
			DateOfBirth:  strings.TrimSpace(field(row, dobIdx)),
			PlaceOfBirth: strings.TrimSpace(field(row, placeIdx)),
		})
	}
	return records, nil
}

func openSource(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrSourceNotFound, path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, nil
}

// newCSVReader wraps the file in a charset decoder when the configured
// encoding is not UTF-8. Encoding names resolve through the IANA registry.
func newCSVReader(r io.Reader, encoding string) (*csv.Reader, error) {
	decoded, err := decodeReader(r, encoding)
	if err != nil {
		return nil, err
	}
	cr := csv.NewReader(decoded)
	// sources sometimes omit county on trailing rows
	cr.FieldsPerRecord = -1
	return cr, nil
}

func decodeReader(r io.Reader, name string) (io.Reader, error) {
	norm := strings.ToLower(strings.TrimSpace(name))
	if norm == "" || norm == "utf-8" || norm == "utf8" {
		return r, nil
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		return nil, fmt.Errorf("unsupported source encoding %q", name)
	}
	return transform.NewReader(r, enc.NewDecoder()), nil
}

type headerIndex map[string]int

func readHeader(reader *csv.Reader, path string) (headerIndex, error) {
	row, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%s: missing header row", path)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s header: %w", path, err)
	}
	idx := make(headerIndex, len(row))
	for i, name := range row {
		idx[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return idx, nil
}

func (h headerIndex) require(name string) (int, error) {
	i, ok := h[name]
	if !ok {
		return 0, fmt.Errorf("source is missing required column %q", name)
	}
	return i, nil
}

func (h headerIndex) optional(name string) int {
	i, ok := h[name]
	if !ok {
		return -1
	}
	return i
}

func field(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
