package salsah

import (
	"bytes"
	"io/ioutil"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const testBaseURL = "http://salsah.test"

var salsahRoutes = map[string]string{
	"/api/projects":                                  "projects.json",
	"/api/vocabularies":                              "vocabularies.json",
	"/api/projects/webern?lang=all":                  "project_webern.json",
	"/api/projects/other?lang=all":                   "project_other.json",
	"/api/selections/?lang=all&vocabulary=webern":    "selections_webern.json",
	"/api/selections/10?lang=all":                    "selection_10.json",
	"/api/hlists?lang=all&vocabulary=webern":         "hlists_webern.json",
	"/api/hlists/20?lang=all":                        "hlist_20.json",
	"/api/resourcetypes/?lang=all&vocabulary=webern": "resourcetypes_webern.json",
	"/api/resourcetypes/30?lang=all":                 "resourcetype_30.json",
	"/api/resourcetypes/31?lang=all":                 "resourcetype_31.json",
	"/api/selections/?lang=all&vocabulary=other":     "empty_lists.json",
	"/api/hlists?lang=all&vocabulary=other":          "empty_lists.json",
	"/api/resourcetypes/?lang=all&vocabulary=other":  "empty_lists.json",
	"/api/selections/":                               "all_selections.json",
	"/api/hlists/":                                   "all_hlists.json",
	"/shortcodes.csv":                                "../shortcodes.csv",
}

type mockHttpClient struct {
	t        *testing.T
	routes   map[string]string
	requests []string
}

func newMockHttpClient(t *testing.T) *mockHttpClient {
	return &mockHttpClient{t: t, routes: salsahRoutes}
}

func (c *mockHttpClient) Do(req *http.Request) (*http.Response, error) {
	key := req.URL.Path
	if req.URL.RawQuery != "" {
		key += "?" + req.URL.RawQuery
	}
	c.requests = append(c.requests, key)

	file, ok := c.routes[key]
	if !ok {
		return &http.Response{
			StatusCode: http.StatusNotFound,
			Body:       ioutil.NopCloser(bytes.NewReader(nil)),
		}, nil
	}
	content, err := ioutil.ReadFile(filepath.Join("..", "test-data", "salsah", file))
	require.NoError(c.t, err)
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       ioutil.NopCloser(bytes.NewReader(content)),
	}, nil
}

func (c *mockHttpClient) count(key string) int {
	n := 0
	for _, r := range c.requests {
		if r == key {
			n++
		}
	}
	return n
}

func testShortcodes(t *testing.T) Shortcodes {
	codes, err := FetchShortcodes(newMockHttpClient(t), testBaseURL+"/shortcodes.csv")
	require.NoError(t, err)
	return codes
}

func newTestTransformer(t *testing.T, opts ...Option) (*Transformer, *mockHttpClient) {
	client := newMockHttpClient(t)
	return NewTransformer(NewSalsahRepository(client, testBaseURL), testShortcodes(t), opts...), client
}

func transformWebern(t *testing.T, opts ...Option) *Document {
	tr, _ := newTestTransformer(t, opts...)
	var docs []*Document
	require.NoError(t, tr.TransformProjects([]ID{"6"}, func(doc *Document) error {
		docs = append(docs, doc)
		return nil
	}))
	require.Len(t, docs, 1)
	return docs[0]
}

func findProperty(doc *Document, name string) (Property, bool) {
	for _, p := range doc.Project.Ontologies[0].Properties {
		if p.Name == name {
			return p, true
		}
	}
	return Property{}, false
}

func findResource(doc *Document, name string) (Resource, bool) {
	for _, r := range doc.Project.Ontologies[0].Resources {
		if r.Name == name {
			return r, true
		}
	}
	return Resource{}, false
}

func propertyNames(doc *Document) []string {
	var names []string
	for _, p := range doc.Project.Ontologies[0].Properties {
		names = append(names, p.Name)
	}
	return names
}
