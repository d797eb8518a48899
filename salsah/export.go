package salsah

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const dateStamp = "20060102"

// FileBaseName is the project short name, or its long name when the short
// name is empty.
func FileBaseName(doc *Document) string {
	if doc.Project.Shortname != "" {
		return doc.Project.Shortname
	}
	return doc.Project.Longname
}

// FileName is "<name>_<YYYYMMDD>.json".
func FileName(doc *Document, now time.Time) string {
	return FileBaseName(doc) + "_" + now.Format(dateStamp) + ".json"
}

// WriteDocument writes doc as indented JSON without HTML escaping, so labels
// containing markup survive unchanged.
func WriteDocument(w io.Writer, doc *Document) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	return enc.Encode(doc)
}

// Export writes doc into dir and returns the path of the file.
func Export(dir string, doc *Document, now time.Time) (string, error) {
	path := filepath.Join(dir, FileName(doc, now))
	if err := writeFile(path, func(w io.Writer) error {
		return WriteDocument(w, doc)
	}); err != nil {
		return "", err
	}
	log.WithField("file", path).Info("Wrote ontology")
	return path, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %s", path)
	}
	if err := write(f); err != nil {
		f.Close()
		return errors.Wrapf(err, "writing %s", path)
	}
	return errors.Wrapf(f.Close(), "closing %s", path)
}
