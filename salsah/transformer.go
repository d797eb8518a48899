package salsah

import (
	"fmt"

	"github.com/pkg/errors"
	metrics "github.com/rcrowley/go-metrics"
	log "github.com/sirupsen/logrus"
)

// Transformer turns the SALSAH schema of a project into a DSP ontology document.
type Transformer struct {
	repo       Repository
	shortcodes Shortcodes
	policy     DedupPolicy
}

type Option func(*Transformer)

func WithDedupPolicy(policy DedupPolicy) Option {
	return func(t *Transformer) {
		t.policy = policy
	}
}

func NewTransformer(repo Repository, shortcodes Shortcodes, opts ...Option) *Transformer {
	t := &Transformer{
		repo:       repo,
		shortcodes: shortcodes,
		policy:     FirstWins,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// TransformProjects builds the document of every listed project, in order,
// and hands each one to fn as soon as it is complete.
func (t *Transformer) TransformProjects(ids []ID, fn func(*Document) error) error {
	projects, err := t.repo.GetProjects()
	if err != nil {
		return err
	}
	byID := make(map[ID]Project, len(projects))
	for _, p := range projects {
		byID[p.ID] = p
	}

	for _, id := range ids {
		project, ok := byID[id]
		if !ok {
			return fmt.Errorf("project %s not found", id)
		}
		doc, err := t.TransformProject(project)
		if err != nil {
			return errors.Wrapf(err, "transforming project %s", project.Shortname)
		}
		if err := fn(doc); err != nil {
			return err
		}
	}
	return nil
}

func (t *Transformer) TransformProject(project Project) (*Document, error) {
	log.WithFields(log.Fields{
		"id":        project.ID,
		"shortname": project.Shortname,
	}).Info("Transforming project")

	all, err := t.repo.GetVocabularies()
	if err != nil {
		return nil, err
	}
	var vocabularies []Vocabulary
	for _, v := range all {
		if v.ProjectID == project.ID {
			vocabularies = append(vocabularies, v)
		}
	}

	b := NewOntologyBuilder(project, t.shortcodes, t.policy)
	if len(vocabularies) == 0 {
		log.WithField("project", project.Shortname).Warn("Project has no vocabulary")
		b.ResolveProject(nil)
	}

	for _, voc := range vocabularies {
		info, err := t.repo.GetProjectInfo(voc.Shortname)
		if err != nil {
			return nil, err
		}
		b.ResolveProject(info)
	}
	for _, voc := range vocabularies {
		b.ResolveVocabulary(voc)
	}
	for _, voc := range vocabularies {
		if err := t.addLists(b, voc); err != nil {
			return nil, err
		}
	}

	if len(vocabularies) > 0 {
		selections, err := t.repo.GetAllSelections()
		if err != nil {
			return nil, err
		}
		hlists, err := t.repo.GetAllHLists()
		if err != nil {
			return nil, err
		}
		b.RegisterLists(selections, hlists)
	}

	for _, voc := range vocabularies {
		if err := t.addResourceTypes(b, voc); err != nil {
			return nil, err
		}
	}

	doc := b.Document()
	o := doc.Project.Ontologies[0]
	metrics.GetOrRegisterCounter("ontology.lists", metrics.DefaultRegistry).Inc(int64(len(doc.Project.Lists)))
	metrics.GetOrRegisterCounter("ontology.resources", metrics.DefaultRegistry).Inc(int64(len(o.Resources)))
	metrics.GetOrRegisterCounter("ontology.properties", metrics.DefaultRegistry).Inc(int64(len(o.Properties)))

	log.WithFields(log.Fields{
		"project":    doc.Project.Shortname,
		"lists":      len(doc.Project.Lists),
		"resources":  len(o.Resources),
		"properties": len(o.Properties),
	}).Info("Finished transforming project")
	return doc, nil
}

func (t *Transformer) addLists(b *OntologyBuilder, voc Vocabulary) error {
	selections, err := t.repo.GetSelections(voc.Shortname)
	if err != nil {
		return err
	}
	for _, sel := range selections {
		nodes, err := t.repo.GetSelectionNodes(sel.ID)
		if err != nil {
			return err
		}
		b.AddSelection(sel, nodes)
	}

	hlists, err := t.repo.GetHLists(voc.Shortname)
	if err != nil {
		return err
	}
	for _, hl := range hlists {
		nodes, err := t.repo.GetHListNodes(hl.ID)
		if err != nil {
			return err
		}
		b.AddHList(hl, nodes)
	}
	return nil
}

// addResourceTypes maps properties before the resource type itself so that
// cardinalities follow any renaming done by the dedup policy. Admission order
// is unaffected: it is still resource type order, then property order.
func (t *Transformer) addResourceTypes(b *OntologyBuilder, voc Vocabulary) error {
	refs, err := t.repo.GetResourceTypes(voc.Shortname)
	if err != nil {
		return err
	}
	for _, ref := range refs {
		info, err := t.repo.GetResourceTypeInfo(ref.ID)
		if err != nil {
			return err
		}
		if err := b.AddProperties(voc, info, t.repo.GetResourceTypeInfo); err != nil {
			return err
		}
		b.AddResourceType(info)
	}
	return nil
}
