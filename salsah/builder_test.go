package salsah

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string {
	return &s
}

func TestNewDocument(t *testing.T) {
	doc := NewDocument()

	assert.Equal(t, ontologySchemaURL, doc.Schema)
	assert.NotNil(t, doc.Prefixes)
	assert.NotNil(t, doc.Project.Descriptions)
	assert.NotNil(t, doc.Project.Keywords)
	assert.NotNil(t, doc.Project.Lists)
	require.Len(t, doc.Project.Ontologies, 1)
	assert.NotNil(t, doc.Project.Ontologies[0].Properties)
	assert.NotNil(t, doc.Project.Ontologies[0].Resources)
}

func TestOntologyBuilder_ResolveProject(t *testing.T) {
	shortcodes := Shortcodes{"webern": "0806"}

	type testStruct struct {
		testName             string
		info                 *ProjectInfo
		expectedShortcode    string
		expectedShortname    string
		expectedLongname     string
		expectedDescriptions map[string]string
		expectedKeywords     []string
	}

	scenarios := []testStruct{
		{
			testName: "Full project info",
			info: &ProjectInfo{
				Shortname:   "webern",
				Longname:    "Anton Webern",
				Description: LangStrings{"en": "Edition"},
				Keywords:    strPtr("a, b ,c"),
			},
			expectedShortcode:    "0806",
			expectedShortname:    "webern",
			expectedLongname:     "Anton Webern",
			expectedDescriptions: map[string]string{"en": "Edition"},
			expectedKeywords:     []string{"a", "b", "c"},
		},
		{
			testName:             "Missing keywords fall back to the short name",
			info:                 &ProjectInfo{Shortname: "webern", Longname: "Anton Webern"},
			expectedShortcode:    "0806",
			expectedShortname:    "webern",
			expectedLongname:     "Anton Webern",
			expectedDescriptions: map[string]string{},
			expectedKeywords:     []string{"webern"},
		},
		{
			testName:             "Blank keywords fall back to the short name",
			info:                 &ProjectInfo{Shortname: "webern", Keywords: strPtr(" , ,")},
			expectedShortcode:    "0806",
			expectedShortname:    "webern",
			expectedDescriptions: map[string]string{},
			expectedKeywords:     []string{"webern"},
		},
		{
			testName:             "No project info",
			info:                 nil,
			expectedShortcode:    "0806",
			expectedShortname:    "webern",
			expectedLongname:     "Webern project",
			expectedDescriptions: map[string]string{},
			expectedKeywords:     []string{"webern"},
		},
	}

	for _, scenario := range scenarios {
		t.Run(scenario.testName, func(t *testing.T) {
			b := NewOntologyBuilder(Project{ID: "6", Shortname: "webern", Longname: "Webern project"}, shortcodes, nil)
			b.ResolveProject(scenario.info)

			p := b.Document().Project
			assert.Equal(t, scenario.expectedShortcode, p.Shortcode)
			assert.Equal(t, scenario.expectedShortname, p.Shortname)
			assert.Equal(t, scenario.expectedLongname, p.Longname)
			assert.Equal(t, scenario.expectedDescriptions, p.Descriptions)
			assert.Equal(t, scenario.expectedKeywords, p.Keywords)
		})
	}
}

func TestOntologyBuilder_ResolveProjectFirstInfoWins(t *testing.T) {
	b := NewOntologyBuilder(Project{ID: "6", Shortname: "webern"}, Shortcodes{}, nil)

	b.ResolveProject(nil)
	b.ResolveProject(&ProjectInfo{Shortname: "webern", Longname: "First"})
	b.ResolveProject(&ProjectInfo{Shortname: "webern", Longname: "Second"})

	p := b.Document().Project
	assert.Equal(t, "First", p.Longname)
	assert.Equal(t, "", p.Shortcode, "unknown short names have no shortcode")
}

func TestOntologyBuilder_ResolveVocabulary(t *testing.T) {
	b := NewOntologyBuilder(Project{ID: "6", Shortname: "webern"}, nil, nil)

	b.ResolveVocabulary(Vocabulary{Shortname: "webern", Longname: "Webern", Description: "Main"})
	b.ResolveVocabulary(Vocabulary{Shortname: "extra", Longname: "Extra", Description: "Other"})

	o := b.Document().Project.Ontologies[0]
	assert.Equal(t, "webern", o.Name)
	assert.Equal(t, "Webern", o.Label)
	assert.Equal(t, map[string]string{"en": "Main"}, o.Comment)
}

func TestOntologyBuilder_ResolveVocabularyWithoutDescription(t *testing.T) {
	b := NewOntologyBuilder(Project{ID: "6", Shortname: "webern"}, nil, nil)

	b.ResolveVocabulary(Vocabulary{Shortname: "webern", Longname: "Webern"})

	assert.Nil(t, b.Document().Project.Ontologies[0].Comment)
}

func TestOntologyBuilder_AddResourceType(t *testing.T) {
	b := NewOntologyBuilder(Project{ID: "6", Shortname: "webern"}, nil, nil)

	b.AddResourceType(&ResourceTypeInfo{
		Name:  "webern:Image",
		Label: LangStrings{"en": "Image"},
		Class: "image",
		Properties: []PropertyInfo{
			{ID: "1", Name: "caption", Vocabulary: "webern", Occurrence: "1"},
			{ID: "2", Name: locationProperty, Vocabulary: "salsah", Occurrence: "0-n"},
			{ID: "3", Name: "part_of", Vocabulary: "SALSAH", Occurrence: "0-1"},
			{ID: "4", Name: "title", Vocabulary: "dc", Occurrence: "0-n"},
			{ID: "5", Name: "comment", Vocabulary: "salsah", Occurrence: "0-n"},
		},
	})

	resources := b.Document().Project.Ontologies[0].Resources
	require.Len(t, resources, 1)
	res := resources[0]
	assert.Equal(t, "Image", res.Name)
	assert.Equal(t, "StillImageRepresentation", res.Super)
	assert.Equal(t, map[string]string{}, res.Comments)
	assert.Equal(t, []Cardinality{
		{PropName: ":caption", Cardinality: "1", GuiOrder: 1},
		{PropName: "isPartOf", Cardinality: "0-1", GuiOrder: 2},
		{PropName: ":dc_title", Cardinality: "0-n", GuiOrder: 3},
		{PropName: ":salsah_comment", Cardinality: "0-n", GuiOrder: 4},
	}, res.Cardinalities)
}

func TestOntologyBuilder_AddResourceTypeWithoutProperties(t *testing.T) {
	b := NewOntologyBuilder(Project{ID: "6", Shortname: "webern"}, nil, nil)

	b.AddResourceType(&ResourceTypeInfo{Name: "Movie", Class: "movie"})

	res := b.Document().Project.Ontologies[0].Resources[0]
	assert.Equal(t, "Movie", res.Name)
	assert.Equal(t, "MovingImageRepresentation", res.Super)
	assert.NotNil(t, res.Cardinalities)
	assert.Empty(t, res.Cardinalities)
}

func TestUnqualifiedName(t *testing.T) {
	assert.Equal(t, "Work", unqualifiedName("webern:Work"))
	assert.Equal(t, "Work", unqualifiedName("Work"))
	assert.Equal(t, "b:c", unqualifiedName("a:b:c"))
}
