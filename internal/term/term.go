package term

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Kind identifies which variant of the closed term set a Term is.
type Kind uint8

const (
	KindURI Kind = iota + 1
	KindBlankNode
	KindLiteral
	KindVariable
	KindQuotedGraph
)

func (k Kind) String() string {
	switch k {
	case KindURI:
		return "uri"
	case KindBlankNode:
		return "bnode"
	case KindLiteral:
		return "literal"
	case KindVariable:
		return "variable"
	case KindQuotedGraph:
		return "quoted-graph"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Well-known vocabulary.
const (
	RDFNamespace = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	XSDNamespace = "http://www.w3.org/2001/XMLSchema#"

	// DefaultContextIRI names the graph used when a statement is added
	// without an explicit context.
	DefaultContextIRI = "urn:x-rdflib:default"
)

var (
	RDFType        = URI{IRI: RDFNamespace + "type"}
	DefaultContext = URI{IRI: DefaultContextIRI}

	XSDString  = URI{IRI: XSDNamespace + "string"}
	XSDInteger = URI{IRI: XSDNamespace + "integer"}
	XSDBoolean = URI{IRI: XSDNamespace + "boolean"}
	XSDDouble  = URI{IRI: XSDNamespace + "double"}
)

// Term is one RDF term. The set of implementations is closed:
// URI, BlankNode, Literal, Variable and QuotedGraph.
//
// All implementations are comparable values, so terms and triples can be
// used directly as map keys.
type Term interface {
	Slot
	Kind() Kind
	// Value is the raw string form stored in the database column.
	Value() string
	// String renders the term in N-Triples style.
	String() string
	Equal(other Term) bool
	term()
}

// URI is an IRI reference.
type URI struct {
	IRI string
}

func (URI) term()            {}
func (URI) slot()            {}
func (URI) Kind() Kind       { return KindURI }
func (u URI) Value() string  { return u.IRI }
func (u URI) String() string { return "<" + u.IRI + ">" }
func (u URI) Equal(other Term) bool {
	o, ok := other.(URI)
	return ok && o.IRI == u.IRI
}

// BlankNode is a locally scoped node.
type BlankNode struct {
	ID string
}

// NewBlankNode mints a blank node with a fresh label.
func NewBlankNode() BlankNode {
	return BlankNode{ID: "N" + strings.ReplaceAll(uuid.NewString(), "-", "")}
}

func (BlankNode) term()            {}
func (BlankNode) slot()            {}
func (BlankNode) Kind() Kind       { return KindBlankNode }
func (b BlankNode) Value() string  { return b.ID }
func (b BlankNode) String() string { return "_:" + b.ID }
func (b BlankNode) Equal(other Term) bool {
	o, ok := other.(BlankNode)
	return ok && o.ID == b.ID
}

// Literal is a lexical value with an optional language tag or datatype.
// A literal never carries both.
type Literal struct {
	Lexical  string
	Language string
	Datatype string
}

// NewLiteral returns a plain literal.
func NewLiteral(lexical string) Literal {
	return Literal{Lexical: lexical}
}

// NewLangLiteral returns a language-tagged literal. Tags are lowercased.
func NewLangLiteral(lexical, lang string) Literal {
	return Literal{Lexical: lexical, Language: strings.ToLower(lang)}
}

// NewTypedLiteral returns a literal with the given datatype.
func NewTypedLiteral(lexical string, datatype URI) Literal {
	return Literal{Lexical: lexical, Datatype: datatype.IRI}
}

func (Literal) term()           {}
func (Literal) slot()           {}
func (Literal) Kind() Kind      { return KindLiteral }
func (l Literal) Value() string { return l.Lexical }

func (l Literal) String() string {
	quoted := `"` + escapeLiteral(l.Lexical) + `"`
	switch {
	case l.Language != "":
		return quoted + "@" + l.Language
	case l.Datatype != "":
		return quoted + "^^<" + l.Datatype + ">"
	default:
		return quoted
	}
}

// Equal compares lexical form and datatype exactly and language tags
// case-insensitively.
func (l Literal) Equal(other Term) bool {
	o, ok := other.(Literal)
	return ok && o.Lexical == l.Lexical && o.Datatype == l.Datatype && strings.EqualFold(o.Language, l.Language)
}

// Variable is a named placeholder. Variables are only stored inside
// quoted graphs.
type Variable struct {
	Name string
}

func (Variable) term()            {}
func (Variable) slot()            {}
func (Variable) Kind() Kind       { return KindVariable }
func (v Variable) Value() string  { return v.Name }
func (v Variable) String() string { return "?" + v.Name }
func (v Variable) Equal(other Term) bool {
	o, ok := other.(Variable)
	return ok && o.Name == v.Name
}

// QuotedGraph identifies a formula: a context whose statements are
// quoted rather than asserted.
type QuotedGraph struct {
	Identifier string
}

func (QuotedGraph) term()            {}
func (QuotedGraph) slot()            {}
func (QuotedGraph) Kind() Kind       { return KindQuotedGraph }
func (q QuotedGraph) Value() string  { return q.Identifier }
func (q QuotedGraph) String() string { return "{" + q.Identifier + "}" }
func (q QuotedGraph) Equal(other Term) bool {
	o, ok := other.(QuotedGraph)
	return ok && o.Identifier == q.Identifier
}

// Equal reports whether two possibly-nil terms are equal.
func Equal(a, b Term) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(b)
}

// Triple is a subject, predicate, object statement.
type Triple struct {
	Subject   Term
	Predicate Term
	Object    Term
}

func (t Triple) String() string {
	return fmt.Sprintf("%s %s %s .", t.Subject, t.Predicate, t.Object)
}

// Quad is a triple plus the context it is asserted in.
type Quad struct {
	Triple
	Context Term
}

func escapeLiteral(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\r", `\r`, "\t", `\t`)
	return r.Replace(s)
}
