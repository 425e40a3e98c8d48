package floorplan

import (
	"github.com/beevik/etree"
)

// Reduce builds a minimal document holding only the midline group of doc.
// The group is copied with namespace prefixes stripped and placed under a
// fresh <svg> root that carries the original root's unprefixed attributes.
// The boolean is false when doc has no such group.
func Reduce(doc *etree.Document, midline string) (*etree.Document, bool) {
	root := doc.Root()
	if root == nil {
		return nil, false
	}
	group := FindGroup(root, midline)
	if group == nil {
		return nil, false
	}

	out := etree.NewDocument()
	out.CreateProcInst("xml", `version="1.0" encoding="utf-8"`)
	svg := out.CreateElement("svg")
	for _, a := range root.Attr {
		if a.Space != "" || a.Key == "xmlns" {
			continue
		}
		svg.CreateAttr(a.Key, a.Value)
	}
	if ns := namespaceOf(root); ns != "" {
		svg.CreateAttr("xmlns", ns)
	}

	sub := group.Copy()
	stripNamespaces(sub)
	svg.AddChild(sub)
	return out, true
}

// namespaceOf returns the namespace URI declared for el's own tag.
func namespaceOf(el *etree.Element) string {
	for _, a := range el.Attr {
		if el.Space == "" && a.Space == "" && a.Key == "xmlns" {
			return a.Value
		}
		if el.Space != "" && a.Space == "xmlns" && a.Key == el.Space {
			return a.Value
		}
	}
	return ""
}

// stripNamespaces clears tag prefixes and drops prefixed attributes,
// including namespace declarations, throughout el.
func stripNamespaces(el *etree.Element) {
	el.Space = ""
	kept := el.Attr[:0]
	for _, a := range el.Attr {
		if a.Space == "" && a.Key != "xmlns" {
			kept = append(kept, a)
		}
	}
	el.Attr = kept
	for _, child := range el.ChildElements() {
		stripNamespaces(child)
	}
}

// WriteReduced writes a reduced document to path, replacing any previous
// content.
func WriteReduced(doc *etree.Document, path string) error {
	doc.Indent(2)
	return doc.WriteToFile(path)
}
