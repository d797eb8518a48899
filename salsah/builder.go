package salsah

import (
	"strings"

	log "github.com/sirupsen/logrus"
)

// OntologyBuilder accumulates the ontology document of a single project.
// A builder must not be reused for another project.
type OntologyBuilder struct {
	doc        *Document
	project    Project
	shortcodes Shortcodes
	policy     DedupPolicy
	lists      ListIndex

	// emitted property name -> vocabulary it was admitted for
	seen map[string]string
	// vocabulary:name -> emitted name, for properties the policy renamed
	renamed map[string]string

	projectResolved bool
	ontologyNamed   bool
}

func NewOntologyBuilder(project Project, shortcodes Shortcodes, policy DedupPolicy) *OntologyBuilder {
	if policy == nil {
		policy = FirstWins
	}
	return &OntologyBuilder{
		doc:        NewDocument(),
		project:    project,
		shortcodes: shortcodes,
		policy:     policy,
		lists:      NewListIndex(nil, nil),
		seen:       map[string]string{},
		renamed:    map[string]string{},
	}
}

func NewDocument() *Document {
	return &Document{
		Schema:   ontologySchemaURL,
		Prefixes: map[string]string{},
		Project: ProjectDocument{
			Descriptions: map[string]string{},
			Keywords:     []string{},
			Lists:        []ListNode{},
			Ontologies: []Ontology{{
				Properties: []Property{},
				Resources:  []Resource{},
			}},
		},
	}
}

func (b *OntologyBuilder) Document() *Document {
	return b.doc
}

func (b *OntologyBuilder) ontology() *Ontology {
	return &b.doc.Project.Ontologies[0]
}

// ResolveProject fills the project identity, shortcode, descriptions and
// keywords. The first vocabulary that carries project info wins; without any
// project info the identity falls back to the project record.
func (b *OntologyBuilder) ResolveProject(info *ProjectInfo) {
	if b.projectResolved {
		return
	}
	p := &b.doc.Project
	p.Shortcode = b.shortcodes.Lookup(b.project.Shortname)

	if info == nil {
		p.Shortname = b.project.Shortname
		p.Longname = b.project.Longname
		p.Keywords = []string{b.project.Shortname}
		return
	}
	b.projectResolved = true

	p.Shortname = info.Shortname
	p.Longname = info.Longname
	if info.Description != nil {
		p.Descriptions = copyLangStrings(info.Description)
	}
	p.Keywords = splitKeywords(info.Keywords, info.Shortname)

	log.WithFields(log.Fields{
		"shortname": p.Shortname,
		"shortcode": p.Shortcode,
	}).Info("Resolved project")
}

func splitKeywords(keywords *string, shortname string) []string {
	if keywords != nil {
		var out []string
		for _, k := range strings.Split(*keywords, ",") {
			if k = strings.TrimSpace(k); k != "" {
				out = append(out, k)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return []string{shortname}
}

// ResolveVocabulary names the ontology after the project's first vocabulary.
func (b *OntologyBuilder) ResolveVocabulary(voc Vocabulary) {
	if b.ontologyNamed {
		log.WithField("vocabulary", voc.Shortname).Warn("Project has more than one vocabulary; merging into the first ontology")
		return
	}
	b.ontologyNamed = true

	o := b.ontology()
	o.Name = voc.Shortname
	o.Label = voc.Longname
	if voc.Description != "" {
		o.Comment = map[string]string{commentLanguage: voc.Description}
	}
}

// AddResourceType appends the resource type with one cardinality per
// property, numbered from 1 in source order.
func (b *OntologyBuilder) AddResourceType(info *ResourceTypeInfo) {
	res := Resource{
		Name:          unqualifiedName(info.Name),
		Labels:        copyLangStrings(info.Label),
		Comments:      copyLangStrings(info.Description),
		Cardinalities: []Cardinality{},
	}

	if super, ok := ResourceClassMappings[info.Class]; ok {
		res.Super = super
	} else {
		log.WithFields(log.Fields{
			"resource": info.Name,
			"class":    info.Class,
		}).Warn("Unknown resource class, super left empty")
	}

	order := 1
	for _, p := range info.Properties {
		if p.Name == locationProperty {
			continue
		}
		res.Cardinalities = append(res.Cardinalities, Cardinality{
			PropName:    b.cardinalityPropName(p),
			Cardinality: p.Occurrence.String(),
			GuiOrder:    order,
		})
		order++
	}

	b.ontology().Resources = append(b.ontology().Resources, res)
}

func (b *OntologyBuilder) cardinalityPropName(p PropertyInfo) string {
	vocabulary := strings.ToLower(p.Vocabulary)
	if name, ok := b.renamed[vocabulary+":"+p.Name]; ok {
		return ":" + name
	}
	switch {
	case b.isOwnVocabulary(vocabulary):
		return ":" + p.Name
	case vocabulary == systemVocabulary && systemPropertyMappings[p.Name] != "":
		return systemPropertyMappings[p.Name]
	default:
		return ":" + vocabulary + "_" + p.Name
	}
}

func (b *OntologyBuilder) isOwnVocabulary(vocabulary string) bool {
	return strings.EqualFold(vocabulary, b.project.Shortname)
}

func (b *OntologyBuilder) addPrefix(vocabulary string) {
	if ns, ok := PrefixMappings[vocabulary]; ok {
		b.doc.Prefixes[vocabulary] = ns
	}
}

// unqualifiedName strips the "vocabulary:" prefix of a resource type name.
func unqualifiedName(name string) string {
	if i := strings.Index(name, ":"); i >= 0 {
		return name[i+1:]
	}
	return name
}

func copyLangStrings(ls LangStrings) map[string]string {
	out := make(map[string]string, len(ls))
	for k, v := range ls {
		out[k] = v
	}
	return out
}
