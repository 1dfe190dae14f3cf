package httpclient

import (
	"strings"

	"github.com/andyle182810/jiraclient/jsondoc"
	"github.com/antchfx/xmlquery"
)

type BodyKind int

const (
	BodyNone BodyKind = iota
	BodyJSON
	BodyXML
)

const xmlPrefix = "<?xml"

func (k BodyKind) String() string {
	switch k {
	case BodyJSON:
		return "json"
	case BodyXML:
		return "xml"
	case BodyNone:
		return "none"
	default:
		return "unknown"
	}
}

// body is the parsed form of a response text. At most one of doc and xml is set.
type body struct {
	kind BodyKind
	doc  any
	xml  *xmlquery.Node
}

func parseBody(text string) body {
	if text == "" {
		return body{kind: BodyNone, doc: nil, xml: nil}
	}

	doc, err := jsondoc.ParseString(text)
	if err == nil {
		if doc == nil {
			return body{kind: BodyNone, doc: nil, xml: nil}
		}

		return body{kind: BodyJSON, doc: doc, xml: nil}
	}

	if strings.HasPrefix(text, xmlPrefix) {
		return body{kind: BodyXML, doc: nil, xml: parseXML(text)}
	}

	return body{kind: BodyNone, doc: nil, xml: nil}
}

// parseXML never returns nil: a document that does not parse is kept as a
// document node holding the raw text.
func parseXML(text string) *xmlquery.Node {
	root, err := xmlquery.Parse(strings.NewReader(text))
	if err == nil && root != nil {
		return root
	}

	//nolint:exhaustruct
	root = &xmlquery.Node{Type: xmlquery.DocumentNode}
	//nolint:exhaustruct
	raw := &xmlquery.Node{Type: xmlquery.TextNode, Data: text, Parent: root}
	root.FirstChild = raw
	root.LastChild = raw

	return root
}

func (b body) Kind() BodyKind {
	return b.kind
}

// JSON returns the order-preserving document when the body parsed as JSON.
func (b body) JSON() (any, bool) {
	return b.doc, b.kind == BodyJSON
}

func (b body) XML() (*xmlquery.Node, bool) {
	return b.xml, b.kind == BodyXML
}
