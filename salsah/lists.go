package salsah

import (
	log "github.com/sirupsen/logrus"
)

// ListIndex resolves selection and hierarchical list ids to their names.
type ListIndex struct {
	Selections map[ID]string
	HLists     map[ID]string
}

func NewListIndex(selections []Selection, hlists []HList) ListIndex {
	idx := ListIndex{
		Selections: map[ID]string{},
		HLists:     map[ID]string{},
	}
	idx.add(selections, hlists)
	return idx
}

func (idx ListIndex) add(selections []Selection, hlists []HList) {
	for _, s := range selections {
		if s.Name != "" {
			idx.Selections[s.ID] = s.Name
		}
	}
	for _, h := range hlists {
		if h.Name != "" {
			idx.HLists[h.ID] = h.Name
		}
	}
}

// RegisterLists makes lists known for gui attribute translation without
// emitting them.
func (b *OntologyBuilder) RegisterLists(selections []Selection, hlists []HList) {
	b.lists.add(selections, hlists)
}

// AddSelection appends a flat selection as a list root with one leaf per entry.
func (b *OntologyBuilder) AddSelection(sel Selection, nodes []SelectionNode) {
	b.RegisterLists([]Selection{sel}, nil)
	b.appendList(flattenSelection(sel, nodes))
}

// AddHList appends a hierarchical list, keeping its tree structure.
func (b *OntologyBuilder) AddHList(hl HList, nodes []HListNode) {
	b.RegisterLists(nil, []HList{hl})
	root := ListNode{
		Name:     hl.Name,
		Labels:   copyLangStrings(hl.Label),
		Comments: optionalLangStrings(hl.Description),
		Nodes:    flattenHListNodes(nodes),
	}
	b.appendList(root)
}

func (b *OntologyBuilder) appendList(root ListNode) {
	names := map[string]bool{}
	root.Walk(func(n ListNode) {
		if names[n.Name] {
			log.WithFields(log.Fields{
				"list": root.Name,
				"node": n.Name,
			}).Warn("Duplicate node name in list")
		}
		names[n.Name] = true
	})
	b.doc.Project.Lists = append(b.doc.Project.Lists, root)
}

func flattenSelection(sel Selection, entries []SelectionNode) ListNode {
	root := ListNode{
		Name:     sel.Name,
		Labels:   copyLangStrings(sel.Label),
		Comments: optionalLangStrings(sel.Description),
	}
	for _, e := range entries {
		root.Nodes = append(root.Nodes, ListNode{
			Name:   selectionNodePrefix + e.ID.String(),
			Labels: copyLangStrings(e.Label),
		})
	}
	return root
}

// flattenHListNodes converts nodes depth first. A node without children, be
// the key absent or empty, yields a leaf without nodes.
func flattenHListNodes(nodes []HListNode) []ListNode {
	var out []ListNode
	for _, n := range nodes {
		out = append(out, ListNode{
			Name:   hlistNodePrefix + n.ID.String(),
			Labels: copyLangStrings(n.Label),
			Nodes:  flattenHListNodes(n.Children),
		})
	}
	return out
}

// Walk visits the node and its descendants, parents before children.
func (n ListNode) Walk(fn func(ListNode)) {
	fn(n)
	for _, child := range n.Nodes {
		child.Walk(fn)
	}
}

func optionalLangStrings(ls LangStrings) map[string]string {
	if len(ls) == 0 {
		return nil
	}
	return copyLangStrings(ls)
}
