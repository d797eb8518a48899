package salsah

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// DedupPolicy decides whether a property named name from vocabulary is
// emitted, and under which name. seen maps every name emitted so far in the
// project to the vocabulary it came from.
type DedupPolicy func(seen map[string]string, name, vocabulary string) (string, bool)

// FirstWins keeps the first property with a given name and drops every later
// one, whatever vocabulary it comes from.
func FirstWins(seen map[string]string, name, vocabulary string) (string, bool) {
	if _, dup := seen[name]; dup {
		return "", false
	}
	return name, true
}

// DisambiguateByVocabulary drops repeats from the same vocabulary but keeps a
// colliding property of another vocabulary as "<vocabulary>_<name>".
func DisambiguateByVocabulary(seen map[string]string, name, vocabulary string) (string, bool) {
	owner, dup := seen[name]
	if !dup {
		return name, true
	}
	if owner == vocabulary {
		return "", false
	}
	alt := vocabulary + "_" + name
	if _, taken := seen[alt]; taken {
		return "", false
	}
	return alt, true
}

// DedupPolicies lists the policies selectable by name.
var DedupPolicies = map[string]DedupPolicy{
	"first-wins":    FirstWins,
	"by-vocabulary": DisambiguateByVocabulary,
}

// ResourceTypeResolver fetches a resource type referenced by a link property.
type ResourceTypeResolver func(id ID) (*ResourceTypeInfo, error)

// AddProperties appends the properties used by a resource type of vocabulary
// voc. Properties already emitted for this project are left to the dedup policy.
func (b *OntologyBuilder) AddProperties(voc Vocabulary, info *ResourceTypeInfo, resolve ResourceTypeResolver) error {
	for _, p := range info.Properties {
		if p.ID == "" {
			continue
		}
		vocabulary := strings.ToLower(p.Vocabulary)
		if vocabulary == systemVocabulary && reservedSystemProperties[p.Name] {
			continue
		}

		name, externalSuper := p.Name, ""
		if !b.isOwnVocabulary(vocabulary) {
			name = vocabulary + "_" + p.Name
			if vocabulary != systemVocabulary {
				b.addPrefix(vocabulary)
				externalSuper = vocabulary + ":" + strings.TrimSuffix(p.Name, "_rt")
			}
		}

		emitted, ok := b.policy(b.seen, name, vocabulary)
		if !ok {
			log.WithFields(log.Fields{
				"property":   name,
				"vocabulary": vocabulary,
			}).Debug("Skipping duplicate property")
			continue
		}
		b.seen[emitted] = vocabulary
		if emitted != name {
			b.renamed[vocabulary+":"+p.Name] = emitted
		}

		prop, err := b.mapProperty(voc, p, emitted, externalSuper, resolve)
		if err != nil {
			return err
		}
		b.ontology().Properties = append(b.ontology().Properties, prop)
	}
	return nil
}

func (b *OntologyBuilder) mapProperty(voc Vocabulary, p PropertyInfo, name, externalSuper string, resolve ResourceTypeResolver) (Property, error) {
	prop := Property{
		Name:     name,
		Labels:   copyLangStrings(p.Label),
		Comments: copyLangStrings(p.Description),
		Super:    []string{},
	}

	gui, ok := GuiElementMappings[p.GuiName]
	if !ok {
		log.WithFields(log.Fields{"property": name, "gui_name": p.GuiName}).Debug("No gui element mapping")
	}
	prop.GuiElement = gui

	object, ok := ValueTypeMappings[p.ValueType]
	if !ok {
		log.WithFields(log.Fields{"property": name, "vt_name": p.ValueType}).Debug("No value type mapping")
	}
	prop.Object = object

	super, ok := PropertySuperMappings[object]
	if !ok {
		super = defaultSuper
	}
	prop.Super = append(prop.Super, super)
	if externalSuper != "" {
		prop.Super = append(prop.Super, externalSuper)
	}

	if strings.TrimSpace(p.Attributes) != "" {
		attrs, resTypeID, err := b.parseAttributes(p.Attributes)
		if err != nil {
			return Property{}, errors.Wrapf(err, "property %s", name)
		}
		prop.GuiAttributes = attrs

		if prop.Object == linkValueObject && resTypeID != "" && resTypeID != "0" {
			target, err := resolve(ID(resTypeID))
			if err != nil {
				return Property{}, errors.Wrapf(err, "resolving link target of property %s", name)
			}
			prop.Object = localResourceName(target.Name, voc.Shortname)
		}
	}

	if prop.Object == linkValueObject {
		log.WithField("property", name).Warnf("Link target unresolved, using :%s\n%s", linkValueObject, spew.Sdump(p))
		prop.Object = ":" + linkValueObject
	}
	return prop, nil
}

// parseAttributes splits "key=value;key=value" into gui attributes. List ids
// are replaced by list names and numeric size-like values become integers.
// The restypeid attribute is returned separately and not emitted.
func (b *OntologyBuilder) parseAttributes(raw string) (map[string]AttributeValue, string, error) {
	attrs := map[string]AttributeValue{}
	resTypeID := ""

	for _, pair := range strings.Split(raw, ";") {
		if strings.TrimSpace(pair) == "" {
			continue
		}
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, "", fmt.Errorf("malformed gui attribute %q in %q", pair, raw)
		}

		switch key {
		case resourceTypeIDAttr:
			resTypeID = strings.TrimSpace(value)
			continue
		case "selection":
			// selections become hierarchical lists in DSP
			key = "hlist"
			if n, ok := b.lists.Selections[ID(value)]; ok {
				value = n
			} else if n, ok := b.lists.HLists[ID(value)]; ok {
				value = n
			}
		case "hlist":
			if n, ok := b.lists.HLists[ID(value)]; ok {
				value = n
			}
		}

		if integerAttributes[key] {
			if n, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
				attrs[key] = IntAttribute(n)
				continue
			}
		}
		attrs[key] = StringAttribute(value)
	}

	if len(attrs) == 0 {
		return nil, resTypeID, nil
	}
	return attrs, resTypeID, nil
}

// localResourceName turns "voc:Name" into ":Name" when voc is the current
// vocabulary and leaves names of other vocabularies qualified.
func localResourceName(name, vocabulary string) string {
	if rest := strings.TrimPrefix(name, vocabulary+":"); rest != name {
		return ":" + rest
	}
	return name
}
