package portfolio

import (
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// Column names accepted in the portfolio CSV header, compared case-insensitively.
const (
	TechStackColumn = "techstack"
	LinkColumn      = "links"
)

// LoadCSV reads portfolio entries from a CSV file with Techstack and Links columns.
func LoadCSV(path string) (entries []Entry, err error) {
	var f *os.File
	f, err = os.Open(path)
	if err != nil {
		err = errors.Wrapf(err, "failed to open portfolio file: %s", path)
		return entries, err
	}
	defer f.Close()

	entries, err = ReadCSV(f)
	if err != nil {
		err = errors.Wrapf(err, "failed to parse portfolio file: %s", path)
		return entries, err
	}

	return entries, err
}

// ReadCSV parses portfolio entries from r. The first row must be a header.
func ReadCSV(r io.Reader) (entries []Entry, err error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	var header []string
	header, err = reader.Read()
	if err != nil {
		if err == io.EOF {
			err = errors.New("portfolio CSV is empty")
			return entries, err
		}
		err = errors.Wrap(err, "failed to read portfolio CSV header")
		return entries, err
	}

	techIdx, linkIdx := -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))) {
		case TechStackColumn:
			techIdx = i
		case LinkColumn, "link":
			linkIdx = i
		}
	}
	if techIdx < 0 || linkIdx < 0 {
		err = errors.Errorf("portfolio CSV header must contain Techstack and Links columns, got %v", header)
		return entries, err
	}

	line := 1
	for {
		var record []string
		record, err = reader.Read()
		if err == io.EOF {
			err = nil
			break
		}
		line++
		if err != nil {
			err = errors.Wrapf(err, "failed to read portfolio CSV line %d", line)
			return entries, err
		}

		entry := Entry{
			TechStack: strings.TrimSpace(record[techIdx]),
			Link:      strings.TrimSpace(record[linkIdx]),
		}
		err = entry.Validate()
		if err != nil {
			err = errors.Wrapf(err, "invalid portfolio entry on line %d", line)
			return entries, err
		}
		entries = append(entries, entry)
	}

	return entries, err
}

// Validate checks that an entry has both a tech stack and a link.
func (e *Entry) Validate() (err error) {
	if e.TechStack == "" {
		err = errors.New("techstack is required")
		return err
	}
	if e.Link == "" {
		err = errors.New("link is required")
		return err
	}
	return err
}
