// Package schema converts raw schema nodes into type-model nodes. It is the
// single source of truth for schema-to-model semantics: callers never
// re-inspect raw schema shape after conversion.
package schema

import (
	"sort"

	"github.com/apifold/tsgen/internal/domain"
	"github.com/apifold/tsgen/internal/loader"
)

// ReferenceResolver registers cross-file references as a side effect of
// conversion. Implemented by the registry service.
type ReferenceResolver interface {
	// AddRef returns a ref node immediately and ensures the referent will
	// eventually be loaded.
	AddRef(ref, currentFile string) (*domain.TypeModel, error)

	// CanonicalKey resolves a reference string to its registry key without
	// queueing a load.
	CanonicalKey(ref, currentFile string) (string, error)
}

// Service is the type converter.
type Service struct {
	refs ReferenceResolver
}

// NewService creates a converter registering references through refs.
func NewService(refs ReferenceResolver) *Service {
	return &Service{refs: refs}
}

// Convert maps one raw schema node to one type-model node, recursing over
// nested structure. Reference nodes delegate to the reference resolver and
// return immediately; conversion never waits for a referent.
func (s *Service) Convert(node *loader.Schema, currentFile string) (*domain.TypeModel, error) {
	if node == nil {
		return nil, domain.NewError(domain.ErrInvalidObjectNotation, "missing schema node")
	}

	if node.Ref != "" {
		return s.refs.AddRef(node.Ref, currentFile)
	}

	if len(node.OneOf) > 0 {
		return s.convertUnion(node, currentFile)
	}
	if len(node.AllOf) > 0 {
		return s.convertComposition(node, currentFile)
	}

	switch node.Type {
	case "string":
		if len(node.Enum) > 0 {
			return s.convertEnum(node)
		}
		return domain.Scalar(domain.KindString), nil

	case "integer", "number":
		// No distinct integer type survives conversion.
		return domain.Scalar(domain.KindNumber), nil

	case "boolean":
		return domain.Scalar(domain.KindBoolean), nil

	case "array":
		if node.Items == nil {
			return nil, domain.NewError(domain.ErrMalformedArraySchema, "array schema without items")
		}
		elem, err := s.Convert(node.Items, currentFile)
		if err != nil {
			return nil, err
		}
		return &domain.TypeModel{Kind: domain.KindArray, Elem: elem}, nil

	case "object":
		return s.convertObject(node, currentFile)

	case "":
		// Untyped nodes are object-like only when they carry properties or
		// an additionalProperties declaration.
		if len(node.Properties) == 0 && node.AdditionalProperties == nil {
			return nil, domain.NewError(domain.ErrInvalidObjectNotation, "schema without type, properties, or composition")
		}
		return s.convertObject(node, currentFile)

	default:
		return nil, domain.NewError(domain.ErrUnknownFieldType, node.Type)
	}
}

func (s *Service) convertEnum(node *loader.Schema) (*domain.TypeModel, error) {
	values := make([]string, 0, len(node.Enum))
	for _, raw := range node.Enum {
		value, ok := raw.(string)
		if !ok {
			return nil, domain.NewErrorf(domain.ErrUnknownFieldType, "non-string enum value %v", raw)
		}
		values = append(values, value)
	}
	return &domain.TypeModel{
		Kind: domain.KindEnum,
		Enum: &domain.EnumModel{Values: values},
	}, nil
}

// convertObject normalizes the object-like shapes: declared properties win,
// then additionalProperties decides between a typed map and a free-form
// map. A bare object with neither is an open dictionary.
func (s *Service) convertObject(node *loader.Schema, currentFile string) (*domain.TypeModel, error) {
	if len(node.Properties) > 0 {
		fields, err := s.convertFields(node, currentFile)
		if err != nil {
			return nil, err
		}
		return &domain.TypeModel{Kind: domain.KindObject, Fields: fields}, nil
	}

	if ap := node.AdditionalProperties; ap != nil {
		if ap.Schema != nil {
			elem, err := s.Convert(ap.Schema, currentFile)
			if err != nil {
				return nil, err
			}
			return &domain.TypeModel{Kind: domain.KindMap, Elem: elem}, nil
		}
		if ap.Allowed != nil && !*ap.Allowed {
			// Closed object with no declared fields.
			return &domain.TypeModel{Kind: domain.KindObject}, nil
		}
		return domain.Scalar(domain.KindFreeForm), nil
	}

	return domain.Scalar(domain.KindFreeForm), nil
}

// convertFields converts declared properties into ordered fields. A field
// is required iff its source name appears in the schema's required list.
func (s *Service) convertFields(node *loader.Schema, currentFile string) ([]domain.Field, error) {
	required := make(map[string]struct{}, len(node.Required))
	for _, name := range node.Required {
		required[name] = struct{}{}
	}

	fields := make([]domain.Field, 0, len(node.Properties))
	for _, name := range propertyNames(node) {
		fieldType, err := s.Convert(node.Properties[name], currentFile)
		if err != nil {
			return nil, err
		}

		_, isRequired := required[name]
		fields = append(fields, domain.Field{
			Name:     domain.NormalizeName(name),
			Type:     fieldType,
			Required: isRequired,
		})
	}

	return fields, nil
}

// propertyNames returns property names in source order. Names missing from
// the recorded order (schemas built in code rather than parsed) are
// appended sorted so iteration stays deterministic.
func propertyNames(node *loader.Schema) []string {
	names := make([]string, 0, len(node.Properties))
	seen := make(map[string]struct{}, len(node.Properties))

	for _, name := range node.PropertyOrder {
		if _, ok := node.Properties[name]; !ok {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}

	var rest []string
	for name := range node.Properties {
		if _, ok := seen[name]; !ok {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)

	return append(names, rest...)
}
