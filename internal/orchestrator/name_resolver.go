package orchestrator

import (
	"sort"
	"strings"

	"github.com/apifold/tsgen/internal/domain"
	"github.com/apifold/tsgen/internal/registry"
)

// reservedEnumName can never be claimed by a synthesized enum.
const reservedEnumName = "Type"

// minEnumNameLength rejects candidates too short to be meaningful names.
const minEnumNameLength = 3

// SynthesizedEnum is one freshly named inline enum declaration.
type SynthesizedEnum struct {
	Name   string
	Values []string
}

// enumCandidate is one inline enum awaiting a name, with the chain of
// enclosing segment names it can widen through. Segments are outermost
// first, already capitalized-camel.
type enumCandidate struct {
	enum   *domain.EnumModel
	path   []string
	setKey string
}

// reservedName marks a top-level declaration name. Only enum declarations
// carry a value-set key; any other shape blocks the name outright.
type reservedName struct {
	isEnum bool
	setKey string
}

// enumNameResolver assigns collision-free names to inline enums. It owns
// the candidate arena and runs as an iterative fix point: a full pass
// re-derives every name from scratch, and passes repeat until no new
// collision is recorded.
type enumNameResolver struct {
	// reserved maps top-level declaration names to their reservation.
	reserved map[string]reservedName

	// poisoned names have been claimed by two different value sets and are
	// permanently off limits. The set only grows, which bounds the loop.
	poisoned map[string]bool

	candidates []*enumCandidate
}

// resolveEnumNames names every inline enum reachable from the registry or
// the operation list, and returns the synthesized declarations.
func resolveEnumNames(reg *registry.Service, operations []*domain.Operation) ([]SynthesizedEnum, error) {
	r := &enumNameResolver{
		reserved: make(map[string]reservedName),
		poisoned: make(map[string]bool),
	}
	r.collect(reg, operations)

	claimed, err := r.run()
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(claimed))
	for name := range claimed {
		names = append(names, name)
	}
	sort.Strings(names)

	synthesized := make([]SynthesizedEnum, 0, len(names))
	for _, name := range names {
		synthesized = append(synthesized, SynthesizedEnum{
			Name:   name,
			Values: claimed[name].enum.Values,
		})
	}
	return synthesized, nil
}

// collect seeds the reserved table from top-level declarations and gathers
// inline enum candidates in deterministic traversal order.
func (r *enumNameResolver) collect(reg *registry.Service, operations []*domain.Operation) {
	keys := reg.Keys()

	for _, key := range keys {
		decl := reg.Lookup(key)
		if decl.Type != nil && decl.Type.Kind == domain.KindEnum {
			r.reserved[decl.LocalName] = reservedName{
				isEnum: true,
				setKey: valueSetKey(decl.Type.Enum.Values),
			}
			// Top-level enums already carry their declaration name.
			decl.Type.Enum.AssignedName = decl.LocalName
			continue
		}
		r.reserved[decl.LocalName] = reservedName{}
	}

	for _, key := range keys {
		decl := reg.Lookup(key)
		if decl.Type == nil || decl.Type.Kind == domain.KindEnum {
			continue
		}
		r.walk(decl.Type, []string{domain.ToPascal(decl.LocalName)})
	}

	for _, op := range operations {
		for i := range op.Parameters {
			r.walk(op.Parameters[i].Type, []string{op.Name, domain.ToPascal(op.Parameters[i].Name)})
		}
		for _, flat := range op.FlatTypes {
			r.walk(flat, []string{op.Name})
		}
		r.walk(op.Result, []string{op.Name})
	}
}

// walk descends a type-model node collecting inline enums. Refs stop the
// walk; their targets are visited through their own declarations.
func (r *enumNameResolver) walk(node *domain.TypeModel, path []string) {
	if node == nil {
		return
	}

	switch node.Kind {
	case domain.KindEnum:
		r.candidates = append(r.candidates, &enumCandidate{
			enum:   node.Enum,
			path:   append([]string(nil), path...),
			setKey: valueSetKey(node.Enum.Values),
		})

	case domain.KindArray, domain.KindMap:
		r.walk(node.Elem, path)

	case domain.KindObject:
		for i := range node.Fields {
			r.walk(node.Fields[i].Type, append(path, domain.ToPascal(node.Fields[i].Name)))
		}

	case domain.KindComposition:
		for _, part := range node.Parts {
			r.walk(part, path)
		}

	case domain.KindUnion:
		for _, member := range node.Union.Members {
			r.walk(member, path)
		}
		for i := range node.Union.Shared {
			r.walk(node.Union.Shared[i].Type, append(path, domain.ToPascal(node.Union.Shared[i].Name)))
		}
	}
}

// run repeats full naming passes until the poisoned set stops growing,
// then returns the final claim table.
func (r *enumNameResolver) run() (map[string]*enumCandidate, error) {
	for {
		claimed := make(map[string]*enumCandidate)
		newCollision := false

		for _, cand := range r.candidates {
			name, err := r.claim(cand, claimed, &newCollision)
			if err != nil {
				return nil, err
			}
			cand.enum.AssignedName = name
		}

		if !newCollision {
			return claimed, nil
		}
	}
}

// claim derives a name for one candidate, widening outward through the
// path on every rejection. Identical value sets unify under one name; a
// second value set arriving at a committed name poisons it for everyone.
func (r *enumNameResolver) claim(cand *enumCandidate, claimed map[string]*enumCandidate, newCollision *bool) (string, error) {
	for i := len(cand.path) - 1; i >= 0; i-- {
		name := strings.Join(cand.path[i:], "")

		if r.poisoned[name] || len(name) < minEnumNameLength || name == reservedEnumName {
			continue
		}

		if entry, ok := r.reserved[name]; ok {
			if entry.isEnum && entry.setKey == cand.setKey {
				// Unify with the equal top-level enum declaration.
				return name, nil
			}
			continue
		}

		if prev, ok := claimed[name]; ok {
			if prev.setKey == cand.setKey {
				return name, nil
			}
			r.poisoned[name] = true
			*newCollision = true
			continue
		}

		claimed[name] = cand
		return name, nil
	}

	return "", domain.NewError(domain.ErrUnresolvableEnumNameCollision, strings.Join(cand.path, "."))
}

// valueSetKey builds an order-independent key for an enum's value set, so
// differently-ordered identical enumerations unify.
func valueSetKey(values []string) string {
	sorted := append([]string(nil), values...)
	sort.Strings(sorted)
	return strings.Join(sorted, "\x1f")
}
