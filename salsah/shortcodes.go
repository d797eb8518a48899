package salsah

import (
	"encoding/csv"
	"io"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const DefaultShortcodesURL = "https://raw.githubusercontent.com/dhlab-basel/dasch-ark-resolver-data/master/data/shortcodes.csv"

// Shortcodes maps a project short name to its numeric DSP shortcode.
type Shortcodes map[string]string

// ParseShortcodes reads "code,shortname,..." rows. The first row naming a
// short name wins; rows with fewer than two columns are ignored.
func ParseShortcodes(r io.Reader) (Shortcodes, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	codes := Shortcodes{}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "reading shortcodes")
		}
		if len(record) < 2 {
			continue
		}
		if _, seen := codes[record[1]]; !seen {
			codes[record[1]] = record[0]
		}
	}
	return codes, nil
}

func FetchShortcodes(client httpClient, u string) (Shortcodes, error) {
	body, err := fetch(client, u)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	codes, err := ParseShortcodes(body)
	if err != nil {
		return nil, err
	}
	log.Infof("Loaded %d project shortcodes", len(codes))
	return codes, nil
}

// Lookup returns the shortcode of a project, or "" when it has none.
func (s Shortcodes) Lookup(shortname string) string {
	return s[shortname]
}
