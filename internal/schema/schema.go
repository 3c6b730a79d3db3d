package schema

import "strings"

// Kind selects which half of the schema a dataset is mapped onto.
type Kind string

const (
	KindNodes Kind = "nodes"
	KindEdges Kind = "edges"
)

type NodeType string

const (
	NodePerson          NodeType = "person"
	NodeCompany         NodeType = "company"
	NodeExternalPerson  NodeType = "external_person"
	NodeExternalCompany NodeType = "external_company"
)

// DefaultNodeType is assigned when a node row carries no type.
const DefaultNodeType = NodePerson

// IsPerson reports whether t counts as a person for search purposes.
func (t NodeType) IsPerson() bool {
	return t == NodePerson || t == NodeExternalPerson
}

// Node field names.
const (
	FieldID          = "id"
	FieldLabel       = "label"
	FieldType        = "type"
	FieldCompany     = "company"
	FieldDepartment  = "department"
	FieldTitle       = "title"
	FieldBirthdate   = "birthdate"
	FieldLastUpdated = "last_updated"
)

// Edge field names.
const (
	FieldSource   = "source"
	FieldTarget   = "target"
	FieldRelation = "relation"
	FieldSince    = "since"
	FieldNote     = "note"
	FieldEvidence = "evidence"
)

var (
	nodeRequired = []string{FieldID, FieldLabel, FieldType}
	nodeOptional = []string{FieldCompany, FieldDepartment, FieldTitle, FieldBirthdate, FieldLastUpdated}
	edgeRequired = []string{FieldSource, FieldTarget, FieldRelation}
	edgeOptional = []string{FieldSince, FieldNote, FieldEvidence}
)

// RequiredFields returns the mandatory schema fields for kind.
func RequiredFields(kind Kind) []string {
	if kind == KindEdges {
		return append([]string(nil), edgeRequired...)
	}
	return append([]string(nil), nodeRequired...)
}

// OptionalFields returns the optional schema fields for kind.
func OptionalFields(kind Kind) []string {
	if kind == KindEdges {
		return append([]string(nil), edgeOptional...)
	}
	return append([]string(nil), nodeOptional...)
}

// AllFields returns required fields followed by optional fields.
func AllFields(kind Kind) []string {
	return append(RequiredFields(kind), OptionalFields(kind)...)
}

// Relation is the canonical name of a relationship type.
type Relation string

const (
	RelationSpouse      Relation = "spouse"
	RelationKinship     Relation = "kinship"
	RelationAffiliation Relation = "affiliation"
	RelationSuperior    Relation = "superior"
	RelationSubordinate Relation = "subordinate"
	RelationColleague   Relation = "colleague"
	RelationProject     Relation = "project"
)

// relationAliases maps the Korean labels used by HR exports onto canonical names.
var relationAliases = map[string]Relation{
	"배우자":  RelationSpouse,
	"친인척":  RelationKinship,
	"소속":   RelationAffiliation,
	"상사":   RelationSuperior,
	"부하":   RelationSubordinate,
	"동료":   RelationColleague,
	"프로젝트": RelationProject,
}

var relationWeights = map[Relation]int{
	RelationSpouse:      3,
	RelationKinship:     3,
	RelationAffiliation: 2,
	RelationSuperior:    2,
	RelationSubordinate: 2,
	RelationColleague:   1,
	RelationProject:     1,
}

var sensitiveRelations = map[Relation]bool{
	RelationSpouse:  true,
	RelationKinship: true,
}

// Relations lists the canonical relations in registry order.
func Relations() []Relation {
	return []Relation{
		RelationSpouse,
		RelationAffiliation,
		RelationKinship,
		RelationColleague,
		RelationSuperior,
		RelationSubordinate,
		RelationProject,
	}
}

// Canonical resolves a relation label (English or Korean) to its canonical
// form. Unknown labels are returned lower-cased and trimmed.
func Canonical(name string) Relation {
	n := strings.TrimSpace(name)
	if r, ok := relationAliases[n]; ok {
		return r
	}
	return Relation(strings.ToLower(n))
}

// Weight returns the importance score of a relation label; unknown relations weigh 1.
func Weight(name string) int {
	if w, ok := relationWeights[Canonical(name)]; ok {
		return w
	}
	return 1
}

// IsSensitive reports whether a relation label is gated behind explicit opt-in.
func IsSensitive(name string) bool {
	return sensitiveRelations[Canonical(name)]
}

// Is reports whether the relation label resolves to r.
func Is(name string, r Relation) bool {
	return Canonical(name) == r
}
