// Package emitter serializes type-model nodes into declarative TypeScript
// type syntax. It also records which named declarations an emission
// actually referenced, so the output layer can generate selective imports.
package emitter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/apifold/tsgen/internal/domain"
)

// Registry resolves ref nodes by key at emission time.
type Registry interface {
	Lookup(key string) *domain.TypeDeclaration
}

// Service emits type text.
type Service struct {
	registry   Registry
	namedEnums bool
	namespace  string
	used       map[string]struct{}
}

// Option configures an emitter service.
type Option func(*Service)

// NewService creates an emitter resolving refs through registry.
func NewService(registry Registry, options ...Option) *Service {
	s := &Service{
		registry: registry,
		used:     make(map[string]struct{}),
	}

	for _, opt := range options {
		opt(s)
	}

	return s
}

// WithNamedEnums emits enums by their assigned names instead of inline
// literal disjunctions.
func WithNamedEnums(enabled bool) Option {
	return func(s *Service) {
		s.namedEnums = enabled
	}
}

// WithNamespace qualifies emitted declaration names with a namespace prefix.
func WithNamespace(prefix string) Option {
	return func(s *Service) {
		s.namespace = prefix
	}
}

// Emit serializes one type-model node.
func (s *Service) Emit(node *domain.TypeModel) (string, error) {
	switch node.Kind {
	case domain.KindString:
		return "string", nil
	case domain.KindNumber:
		return "number", nil
	case domain.KindBoolean:
		return "boolean", nil
	case domain.KindVoid:
		return "void", nil

	case domain.KindEnum:
		if s.namedEnums && node.Enum.AssignedName != "" {
			return s.qualify(node.Enum.AssignedName), nil
		}
		return enumLiterals(node.Enum.Values), nil

	case domain.KindArray:
		elem, err := s.Emit(node.Elem)
		if err != nil {
			return "", err
		}
		return parenthesize(elem) + "[]", nil

	case domain.KindMap:
		elem, err := s.Emit(node.Elem)
		if err != nil {
			return "", err
		}
		return "Record<string, " + elem + ">", nil

	case domain.KindFreeForm:
		return "Record<string, any>", nil

	case domain.KindObject:
		entries, err := s.emitFields(node.Fields, "")
		if err != nil {
			return "", err
		}
		return objectText(entries), nil

	case domain.KindComposition:
		parts := make([]string, 0, len(node.Parts))
		for _, part := range node.Parts {
			text, err := s.Emit(part)
			if err != nil {
				return "", err
			}
			parts = append(parts, parenthesize(text))
		}
		return strings.Join(parts, " & "), nil

	case domain.KindUnion:
		return s.emitUnion(node.Union)

	case domain.KindRef:
		decl := s.registry.Lookup(node.RefKey)
		if decl == nil {
			return "", domain.NewError(domain.ErrUnresolvableSchema, node.RefKey)
		}
		s.used[decl.RegistryKey] = struct{}{}
		return s.qualify(decl.LocalName), nil
	}

	return "", domain.NewErrorf(domain.ErrUnknownFieldType, "unhandled kind %s", node.Kind)
}

// EmitMerged serializes a structural conjunction of nodes, used for the
// flat body types of an operation.
func (s *Service) EmitMerged(nodes []*domain.TypeModel) (string, error) {
	parts := make([]string, 0, len(nodes))
	for _, node := range nodes {
		text, err := s.Emit(node)
		if err != nil {
			return "", err
		}
		parts = append(parts, parenthesize(text))
	}
	return strings.Join(parts, " & "), nil
}

// Used returns the registry keys of every declaration referenced so far,
// sorted.
func (s *Service) Used() []string {
	keys := make([]string, 0, len(s.used))
	for key := range s.used {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// emitFields renders record fields in source order, skipping the named
// field when skip is non-empty. Optional fields carry the "?" marker.
func (s *Service) emitFields(fields []domain.Field, skip string) ([]string, error) {
	entries := make([]string, 0, len(fields))
	for i := range fields {
		if skip != "" && fields[i].Name == skip {
			continue
		}

		text, err := s.Emit(fields[i].Type)
		if err != nil {
			return nil, err
		}

		marker := ""
		if !fields[i].Required {
			marker = "?"
		}
		entries = append(entries, fmt.Sprintf("%s%s: %s", fields[i].Name, marker, text))
	}
	return entries, nil
}

func (s *Service) qualify(name string) string {
	if s.namespace == "" {
		return name
	}
	return s.namespace + "." + name
}

func objectText(entries []string) string {
	if len(entries) == 0 {
		return "{}"
	}
	return "{ " + strings.Join(entries, "; ") + " }"
}

func enumLiterals(values []string) string {
	if len(values) == 0 {
		return "never"
	}
	literals := make([]string, 0, len(values))
	for _, value := range values {
		literals = append(literals, fmt.Sprintf("%q", value))
	}
	return strings.Join(literals, " | ")
}

// parenthesize wraps emissions whose precedence would otherwise leak into
// the surrounding expression.
func parenthesize(text string) string {
	if strings.Contains(text, "|") || strings.Contains(text, "&") {
		return "(" + text + ")"
	}
	return text
}
