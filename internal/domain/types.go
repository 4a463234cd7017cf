// Package domain contains the core domain types shared across the generator.
// These types form the normalized internal representation of the schema
// grammar: type-model nodes, named declarations, and extracted operations.
package domain

// Kind identifies the shape of a type-model node. Exactly one kind applies
// per node; the type converter is the only place kinds are decided.
type Kind string

const (
	// KindString a textual value.
	KindString Kind = "string"
	// KindNumber a numeric value. Integers collapse into this kind.
	KindNumber Kind = "number"
	// KindBoolean a true/false value.
	KindBoolean Kind = "boolean"
	// KindVoid the absence of a value, used for schema-less success responses.
	KindVoid Kind = "void"
	// KindEnum a closed set of string literals.
	KindEnum Kind = "enum"
	// KindArray a sequence of one element type.
	KindArray Kind = "array"
	// KindMap a string-keyed dictionary with a known element type.
	KindMap Kind = "map"
	// KindFreeForm a string-keyed dictionary with unknown element type.
	KindFreeForm Kind = "freeform"
	// KindObject a structural record with ordered fields.
	KindObject Kind = "object"
	// KindComposition a structural intersection of parts (allOf).
	KindComposition Kind = "composition"
	// KindUnion a tag-discriminated disjunction of members (oneOf).
	KindUnion Kind = "union"
	// KindRef a non-owning, by-key pointer into the type registry.
	KindRef Kind = "ref"
)

// TypeModel is a tagged-variant node of the type model. Only the fields
// matching Kind are populated. Nodes are immutable after construction,
// except for the enum name assignment performed by the naming resolver.
type TypeModel struct {
	Kind Kind

	// Enum payload, set for KindEnum.
	Enum *EnumModel

	// Elem is the element type for KindArray and KindMap.
	Elem *TypeModel

	// Fields are the ordered record fields for KindObject.
	Fields []Field

	// Parts are the conjunction members for KindComposition.
	Parts []*TypeModel

	// Union payload, set for KindUnion.
	Union *UnionModel

	// RefKey is the registry key for KindRef. The target declaration is
	// looked up lazily at emission time, never during construction, so
	// cyclic schema graphs need no special casing.
	RefKey string
}

// EnumModel holds the ordered literal values of an enumeration. Inline
// enums receive AssignedName from the naming resolver; top-level enum
// declarations are known by their declaration name instead.
type EnumModel struct {
	Values       []string
	AssignedName string
}

// Field is one record field. Order within a Fields slice is insertion
// order from the source schema and determines emitted field order.
type Field struct {
	Name     string
	Type     *TypeModel
	Required bool
}

// UnionModel describes a discriminated union.
type UnionModel struct {
	// Members in declaration order.
	Members []*TypeModel

	// DiscriminatorProperty names the tag field. Empty when the union
	// carries no discriminator.
	DiscriminatorProperty string

	// Mapping maps a tag literal to the canonical registry key of the
	// member it selects.
	Mapping map[string]string

	// Shared holds sibling fields declared next to the oneOf. The tag
	// field itself stays in this list; emission excludes it.
	Shared []Field

	// DiscriminatorType is the ref node of the tag field's named type,
	// when the tag field resolves to a reference. Inline-enum tags are
	// not honored.
	DiscriminatorType *TypeModel
}

// TypeDeclaration is a named entry in the type registry.
type TypeDeclaration struct {
	// LocalName is the normalized schema name. Unique across the whole
	// registry once resolution completes.
	LocalName string

	// RegistryKey is the globally unique key, "file#/components/schemas/Name".
	RegistryKey string

	Type *TypeModel
}

// Location says where a parameter travels on the wire.
type Location string

const (
	// LocationPath a segment of the route template.
	LocationPath Location = "path"
	// LocationQuery a query-string entry.
	LocationQuery Location = "query"
	// LocationBody a field of the request payload.
	LocationBody Location = "body"
)

// Parameter is one operation parameter after normalization.
type Parameter struct {
	Location Location
	Name     string
	Type     *TypeModel
	Required bool
}

// Operation is one extracted route operation.
type Operation struct {
	// Method is the upper-case HTTP method.
	Method string

	// Route is the route template, containing {name} placeholders.
	Route string

	// Name is the generated method name, from operationId when declared.
	Name string

	// Parameters in declaration order: path and query as declared, body
	// fields spliced in after.
	Parameters []Parameter

	// FlatTypes holds non-object body schemas, merged structurally at
	// emission time.
	FlatTypes []*TypeModel

	// Result is the success result type.
	Result *TypeModel
}

// Scalar returns a fresh node of a scalar kind.
func Scalar(kind Kind) *TypeModel {
	return &TypeModel{Kind: kind}
}

// Ref returns a ref node pointing at the given registry key.
func Ref(key string) *TypeModel {
	return &TypeModel{Kind: KindRef, RefKey: key}
}
