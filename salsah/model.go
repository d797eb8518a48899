package salsah

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/pkg/errors"
)

const ontologySchemaURL = "https://raw.githubusercontent.com/dasch-swiss/dsp-tools/main/knora/dsplib/schemas/ontology.json"

// Source records as returned by the SALSAH API.

type Project struct {
	ID        ID     `json:"id"`
	Shortname string `json:"shortname"`
	Longname  string `json:"longname"`
}

type projectsResponse struct {
	Projects []Project `json:"projects"`
}

type ProjectInfo struct {
	Shortname   string      `json:"shortname"`
	Longname    string      `json:"longname"`
	Description LangStrings `json:"description"`
	Keywords    *string     `json:"keywords"`
}

type projectInfoResponse struct {
	ProjectInfo *ProjectInfo `json:"project_info"`
}

type Vocabulary struct {
	ID          ID     `json:"id"`
	Shortname   string `json:"shortname"`
	Longname    string `json:"longname"`
	Description string `json:"description"`
	ProjectID   ID     `json:"project_id"`
}

type vocabulariesResponse struct {
	Vocabularies []Vocabulary `json:"vocabularies"`
}

type Selection struct {
	ID          ID          `json:"id"`
	Name        string      `json:"name"`
	Label       LangStrings `json:"label"`
	Description LangStrings `json:"description"`
}

type selectionsResponse struct {
	Selections []Selection `json:"selections"`
}

type SelectionNode struct {
	ID    ID          `json:"id"`
	Name  string      `json:"name"`
	Label LangStrings `json:"label"`
}

type selectionNodesResponse struct {
	Selection []SelectionNode `json:"selection"`
}

type HList struct {
	ID          ID          `json:"id"`
	Name        string      `json:"name"`
	Label       LangStrings `json:"label"`
	Description LangStrings `json:"description"`
}

type hlistsResponse struct {
	HLists []HList `json:"hlists"`
}

type HListNode struct {
	ID       ID          `json:"id"`
	Name     string      `json:"name"`
	Label    LangStrings `json:"label"`
	Children []HListNode `json:"children"`
}

type hlistNodesResponse struct {
	HList []HListNode `json:"hlist"`
}

type ResourceTypeRef struct {
	ID ID `json:"id"`
}

type resourceTypesResponse struct {
	ResourceTypes []ResourceTypeRef `json:"resourcetypes"`
}

type ResourceTypeInfo struct {
	Name        string         `json:"name"`
	Label       LangStrings    `json:"label"`
	Description LangStrings    `json:"description"`
	Class       string         `json:"class"`
	Properties  []PropertyInfo `json:"properties"`
}

type resourceTypeInfoResponse struct {
	ResourceTypeInfo *ResourceTypeInfo `json:"restype_info"`
}

type PropertyInfo struct {
	ID          ID          `json:"id"`
	Name        string      `json:"name"`
	Vocabulary  string      `json:"vocabulary"`
	Label       LangStrings `json:"label"`
	Description LangStrings `json:"description"`
	Occurrence  ID          `json:"occurrence"`
	GuiName     string      `json:"gui_name"`
	ValueType   string      `json:"vt_name"`
	Attributes  string      `json:"attributes"`
}

// ID is an identifier the API sends either as a JSON string or a number.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return errors.Wrapf(err, "invalid identifier %s", string(data))
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string {
	return string(id)
}

// LangStrings maps a language code to a text. The API sends either a list of
// {"shortname": lang, "label"|"description": text} entries or a plain object.
// Any other shape (SALSAH sometimes sends a bare string) decodes to nil.
type LangStrings map[string]string

func (ls *LangStrings) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		*ls = nil
		return nil
	}
	switch data[0] {
	case '[':
		var entries []struct {
			Shortname   string  `json:"shortname"`
			Label       *string `json:"label"`
			Description *string `json:"description"`
		}
		if err := json.Unmarshal(data, &entries); err != nil {
			return errors.Wrap(err, "invalid language list")
		}
		out := make(LangStrings, len(entries))
		for _, e := range entries {
			switch {
			case e.Label != nil:
				out[e.Shortname] = *e.Label
			case e.Description != nil:
				out[e.Shortname] = *e.Description
			}
		}
		*ls = out
	case '{':
		var m map[string]string
		if err := json.Unmarshal(data, &m); err != nil {
			return errors.Wrap(err, "invalid language map")
		}
		*ls = m
	default:
		*ls = nil
	}
	return nil
}

// Target DSP ontology document.

type Document struct {
	Schema   string            `json:"$schema"`
	Prefixes map[string]string `json:"prefixes"`
	Project  ProjectDocument   `json:"project"`
}

type ProjectDocument struct {
	Shortcode    string            `json:"shortcode"`
	Shortname    string            `json:"shortname"`
	Longname     string            `json:"longname"`
	Descriptions map[string]string `json:"descriptions"`
	Keywords     []string          `json:"keywords"`
	Lists        []ListNode        `json:"lists"`
	Ontologies   []Ontology        `json:"ontologies"`
}

type ListNode struct {
	Name     string            `json:"name"`
	Labels   map[string]string `json:"labels"`
	Comments map[string]string `json:"comments,omitempty"`
	Nodes    []ListNode        `json:"nodes,omitempty"`
}

type Ontology struct {
	Name       string            `json:"name"`
	Label      string            `json:"label"`
	Comment    map[string]string `json:"comment,omitempty"`
	Properties []Property        `json:"properties"`
	Resources  []Resource        `json:"resources"`
}

type Resource struct {
	Name          string            `json:"name"`
	Super         string            `json:"super"`
	Labels        map[string]string `json:"labels"`
	Comments      map[string]string `json:"comments"`
	Cardinalities []Cardinality     `json:"cardinalities"`
}

type Cardinality struct {
	PropName    string `json:"propname"`
	Cardinality string `json:"cardinality"`
	GuiOrder    int    `json:"gui_order"`
}

type Property struct {
	Name          string                    `json:"name"`
	Labels        map[string]string         `json:"labels"`
	Comments      map[string]string         `json:"comments"`
	Super         []string                  `json:"super"`
	Object        string                    `json:"object"`
	GuiElement    string                    `json:"gui_element"`
	GuiAttributes map[string]AttributeValue `json:"gui_attributes,omitempty"`
}

// AttributeValue is a gui attribute value: either a string or an integer.
type AttributeValue struct {
	Text    string
	Number  int
	Numeric bool
}

func StringAttribute(s string) AttributeValue {
	return AttributeValue{Text: s}
}

func IntAttribute(n int) AttributeValue {
	return AttributeValue{Number: n, Numeric: true}
}

func (v AttributeValue) String() string {
	if v.Numeric {
		return strconv.Itoa(v.Number)
	}
	return v.Text
}

func (v AttributeValue) MarshalJSON() ([]byte, error) {
	if v.Numeric {
		return json.Marshal(v.Number)
	}
	return json.Marshal(v.Text)
}

func (v *AttributeValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = StringAttribute(s)
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return errors.Wrapf(err, "invalid gui attribute %s", string(data))
	}
	*v = IntAttribute(n)
	return nil
}

type OntologyName struct {
	Shortname string `json:"shortname"`
}
