// Package ingestion loads the movie dataset into the graph store and the
// search index. It runs offline, before the server serves traffic; the
// runtime core treats everything it creates as read-only.
package ingestion

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// MovieRecord is one parsed dataset row.
type MovieRecord struct {
	ExternalID          string
	Title               string
	OriginalTitle       string
	Description         string
	Genres              []string
	Countries           []string
	Directors           []string
	Writers             []string
	ProductionCompanies []string
	Actors              []string
}

// Dataset column names.
const (
	colTitleID           = "imdb_title_id"
	colTitle             = "title"
	colOriginalTitle     = "original_title"
	colDescription       = "description"
	colGenre             = "genre"
	colCountry           = "country"
	colDirector          = "director"
	colWriter            = "writer"
	colProductionCompany = "production_company"
	colActors            = "actors"
)

// ReadDataset parses the CSV dataset. Rows without an external id or title
// are skipped; multi-valued fields are comma-separated within a cell.
func ReadDataset(r io.Reader) ([]MovieRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}
	if _, ok := index[colTitleID]; !ok {
		return nil, fmt.Errorf("dataset header missing %q column", colTitleID)
	}

	field := func(row []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var records []MovieRecord
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read dataset row: %w", err)
		}

		record := MovieRecord{
			ExternalID:          field(row, colTitleID),
			Title:               field(row, colTitle),
			OriginalTitle:       field(row, colOriginalTitle),
			Description:         field(row, colDescription),
			Genres:              splitValues(field(row, colGenre)),
			Countries:           splitValues(field(row, colCountry)),
			Directors:           splitValues(field(row, colDirector)),
			Writers:             splitValues(field(row, colWriter)),
			ProductionCompanies: splitValues(field(row, colProductionCompany)),
			Actors:              splitValues(field(row, colActors)),
		}
		if record.ExternalID == "" || record.Title == "" {
			continue
		}
		records = append(records, record)
	}
	return records, nil
}

func splitValues(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
