package salsah

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const (
	plantUMLStart = "@startjson"
	plantUMLEnd   = "@endjson"
)

// WritePlantUML wraps the pretty printed JSON body in PlantUML json markers.
func WritePlantUML(w io.Writer, body []byte) error {
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, bytes.TrimSpace(body), "", "    "); err != nil {
		return errors.Wrap(err, "invalid ontology JSON")
	}
	_, err := fmt.Fprintf(w, "%s\n%s\n%s", plantUMLStart, pretty.Bytes(), plantUMLEnd)
	return err
}

// Visualize picks the latest "<name>_*.json" in dir and writes
// "<name>_<YYYYMMDD>_plantuml.txt" next to it.
func Visualize(dir, name string, now time.Time) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, name+"_*.json"))
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("no ontology file matching %s_*.json in %s", name, dir)
	}
	source := matches[len(matches)-1]

	body, err := ioutil.ReadFile(source)
	if err != nil {
		return "", errors.Wrapf(err, "reading %s", source)
	}

	target := filepath.Join(dir, name+"_"+now.Format(dateStamp)+"_plantuml.txt")
	if err := writeFile(target, func(w io.Writer) error {
		return WritePlantUML(w, body)
	}); err != nil {
		return "", err
	}
	log.WithFields(log.Fields{"source": source, "file": target}).Info("Wrote PlantUML source")
	return target, nil
}
