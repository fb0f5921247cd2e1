package ingest

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	apperrors "github.com/yungbote/placesync/internal/pkg/errors"
)

func writeSource(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestReadPlacesTrimsAndNullsCounty(t *testing.T) {
	path := writeSource(t, "places.csv", []byte(
		"city,county,country\n"+
			"  Paris , ,France\n"+
			"Cork,County Cork,  Ireland \n"))

	records, err := ReadPlaces(path, "utf-8")
	if err != nil {
		t.Fatalf("ReadPlaces: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(records))
	}
	if records[0].City != "Paris" || records[0].Country != "France" {
		t.Fatalf("record 0 = %+v", records[0])
	}
	if records[0].County != nil {
		t.Fatalf("blank county should be nil, got %q", *records[0].County)
	}
	if records[1].County == nil || *records[1].County != "County Cork" {
		t.Fatalf("record 1 county = %v", records[1].County)
	}
	if records[1].Country != "Ireland" {
		t.Fatalf("record 1 country = %q", records[1].Country)
	}
}

func TestReadPlacesMissingFile(t *testing.T) {
	_, err := ReadPlaces(filepath.Join(t.TempDir(), "nope.csv"), "utf-8")
	if !errors.Is(err, apperrors.ErrSourceNotFound) {
		t.Fatalf("err = %v, want ErrSourceNotFound", err)
	}
}

func TestReadPlacesRequiresCityAndCountry(t *testing.T) {
	path := writeSource(t, "places.csv", []byte(
		"city,county,country\n"+
			",Somerset,England\n"))

	if _, err := ReadPlaces(path, "utf-8"); err == nil {
		t.Fatal("expected error for row without city")
	}
}

func TestReadPlacesMissingColumn(t *testing.T) {
	path := writeSource(t, "places.csv", []byte(
		"city,county\nBath,Somerset\n"))

	if _, err := ReadPlaces(path, "utf-8"); err == nil {
		t.Fatal("expected error for missing country column")
	}
}

func TestReadPeopleKeepsRawRowsWithLineNumbers(t *testing.T) {
	path := writeSource(t, "people.csv", []byte(
		"given_name,family_name,date_of_birth,place_of_birth\n"+
			" Ada ,Lovelace,1815-12-10, London \n"+
			"Alan,Turing,not-a-date,London\n"))

	records, err := ReadPeople(path, "utf-8")
	if err != nil {
		t.Fatalf("ReadPeople: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(records))
	}
	if records[0].GivenName != "Ada" || records[0].PlaceOfBirth != "London" {
		t.Fatalf("record 0 = %+v", records[0])
	}
	if records[0].Line != 2 || records[1].Line != 3 {
		t.Fatalf("line numbers = %d, %d; want 2, 3", records[0].Line, records[1].Line)
	}
	// bad dates are the loader's problem, not the reader's
	if records[1].DateOfBirth != "not-a-date" {
		t.Fatalf("record 1 dob = %q", records[1].DateOfBirth)
	}
}

func TestReadPeopleMissingFile(t *testing.T) {
	_, err := ReadPeople(filepath.Join(t.TempDir(), "nope.csv"), "utf-8")
	if !errors.Is(err, apperrors.ErrSourceNotFound) {
		t.Fatalf("err = %v, want ErrSourceNotFound", err)
	}
}

func TestReadPlacesDecodesConfiguredEncoding(t *testing.T) {
	// "Málaga" in ISO-8859-1: á is a single 0xE1 byte
	raw := []byte("city,county,country\nM")
	raw = append(raw, 0xE1)
	raw = append(raw, []byte("laga,,Spain\n")...)
	path := writeSource(t, "places.csv", raw)

	records, err := ReadPlaces(path, "ISO-8859-1")
	if err != nil {
		t.Fatalf("ReadPlaces: %v", err)
	}
	if len(records) != 1 || records[0].City != "Málaga" {
		t.Fatalf("records = %+v, want one Málaga row", records)
	}
}

func TestReadPlacesRejectsUnknownEncoding(t *testing.T) {
	path := writeSource(t, "places.csv", []byte("city,county,country\n"))
	if _, err := ReadPlaces(path, "klingon-8"); err == nil {
		t.Fatal("expected error for unknown encoding")
	}
}
