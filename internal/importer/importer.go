// Package importer loads a hotel catalog from a CSV export. Each row is one
// room; hotel and city columns repeat per row and are upserted once.
package importer

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"staybook/internal/domain"
)

type cityWriter interface {
	Ensure(ctx context.Context, name, country string) (*domain.City, error)
}

type hotelWriter interface {
	Upsert(ctx context.Context, hotel domain.Hotel) (*domain.Hotel, error)
}

type roomWriter interface {
	Upsert(ctx context.Context, room domain.Room) (*domain.Room, error)
}

type CSVImporter struct {
	reader *csv.Reader
	cities cityWriter
	hotels hotelWriter
	rooms  roomWriter
}

func NewCSVImporter(r io.Reader, cities cityWriter, hotels hotelWriter, rooms roomWriter) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{
		reader: csvr,
		cities: cities,
		hotels: hotels,
		rooms:  rooms,
	}
}

// Run parses CSV rows and upserts cities, hotels, and rooms. Returns the
// number of rooms imported.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)

	cityIDs := map[string]string{}
	hotelIDs := map[string]string{}
	imported := 0

	for {
		record, err := i.reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}

		row, err := parseRow(record, index)
		if err != nil {
			return imported, err
		}

		cityID, ok := cityIDs[row.City]
		if !ok {
			city, err := i.cities.Ensure(ctx, row.City, row.Country)
			if err != nil {
				return imported, fmt.Errorf("ensure city %s: %w", row.City, err)
			}
			cityID = city.ID
			cityIDs[row.City] = cityID
		}

		hotelKey := row.City + "/" + row.Hotel
		hotelID, ok := hotelIDs[hotelKey]
		if !ok {
			hotel, err := i.hotels.Upsert(ctx, domain.Hotel{
				CityID:      cityID,
				Name:        row.Hotel,
				Description: row.Description,
				StarRating:  row.StarRating,
				Amenities:   row.Amenities,
				ImageURL:    row.ImageURL,
				IsActive:    true,
			})
			if err != nil {
				return imported, fmt.Errorf("upsert hotel %s: %w", row.Hotel, err)
			}
			hotelID = hotel.ID
			hotelIDs[hotelKey] = hotelID
		}

		if _, err := i.rooms.Upsert(ctx, domain.Room{
			HotelID:            hotelID,
			RoomNumber:         row.RoomNumber,
			Type:               row.RoomType,
			PricePerNightCents: row.NightCents,
			MaxAdults:          row.MaxAdults,
			MaxChildren:        row.MaxChildren,
			Quantity:           row.Quantity,
		}); err != nil {
			return imported, fmt.Errorf("upsert room %s/%s: %w", row.Hotel, row.RoomNumber, err)
		}
		imported++
	}

	return imported, nil
}

type csvRow struct {
	City        string
	Country     string
	Hotel       string
	Description string
	StarRating  int
	Amenities   []domain.Amenity
	ImageURL    string
	RoomType    domain.RoomType
	RoomNumber  string
	NightCents  int64
	MaxAdults   int
	MaxChildren int
	Quantity    int
}

func parseRow(record []string, index map[string]int) (csvRow, error) {
	get := func(name string) string {
		idx, ok := index[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	row := csvRow{
		City:        get("city"),
		Country:     get("country"),
		Hotel:       get("hotel"),
		Description: get("description"),
		ImageURL:    get("image_url"),
		RoomType:    domain.RoomType(strings.ToLower(get("room_type"))),
		RoomNumber:  get("room_number"),
	}
	if row.City == "" || row.Hotel == "" || row.RoomType == "" {
		return csvRow{}, fmt.Errorf("row missing city, hotel, or room_type: %v", record)
	}

	var err error
	if row.StarRating, err = atoiField(get("star_rating"), "star_rating"); err != nil {
		return csvRow{}, err
	}
	if row.NightCents, err = strconv.ParseInt(get("price_cents"), 10, 64); err != nil {
		return csvRow{}, fmt.Errorf("price_cents %q: %w", get("price_cents"), err)
	}
	if row.MaxAdults, err = atoiField(get("max_adults"), "max_adults"); err != nil {
		return csvRow{}, err
	}
	if row.MaxChildren, err = atoiField(get("max_children"), "max_children"); err != nil {
		return csvRow{}, err
	}
	if row.Quantity, err = atoiField(get("quantity"), "quantity"); err != nil {
		return csvRow{}, err
	}

	for _, a := range strings.Split(get("amenities"), "|") {
		if a = strings.TrimSpace(strings.ToLower(a)); a != "" {
			row.Amenities = append(row.Amenities, domain.Amenity(a))
		}
	}
	return row, nil
}

func atoiField(raw, name string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s %q: %w", name, raw, err)
	}
	return v, nil
}

func headerIndex(headers []string) map[string]int {
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return index
}
