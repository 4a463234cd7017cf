package emitter

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/apifold/tsgen/internal/domain"
)

// emitUnion renders a discriminated union. Each mapped member emits as its
// own structure minus the tag field, conjoined with the tag pinned to its
// literal value; shared sibling fields prefix the whole disjunction.
func (s *Service) emitUnion(union *domain.UnionModel) (string, error) {
	if err := checkMapping(union); err != nil {
		return "", err
	}

	tagProp := domain.NormalizeName(union.DiscriminatorProperty)

	variants := make([]string, 0, len(union.Members))
	for _, member := range union.Members {
		tagValue, pinned := tagValueFor(union, member)
		if !pinned || tagProp == "" {
			text, err := s.Emit(member)
			if err != nil {
				return "", err
			}
			variants = append(variants, text)
			continue
		}

		variant, err := s.emitPinnedVariant(union, member, tagProp, tagValue)
		if err != nil {
			return "", err
		}
		variants = append(variants, variant)
	}

	body := strings.Join(variants, " | ")

	if len(union.Shared) > 0 {
		entries, err := s.emitFields(union.Shared, tagProp)
		if err != nil {
			return "", err
		}
		if len(entries) > 0 {
			return objectText(entries) + " & (" + body + ")", nil
		}
	}

	return body, nil
}

// emitPinnedVariant renders one mapped member as "structure minus tag,
// plus tag pinned to its literal".
func (s *Service) emitPinnedVariant(union *domain.UnionModel, member *domain.TypeModel, tagProp, tagValue string) (string, error) {
	literal := s.tagLiteral(union, tagValue)

	switch member.Kind {
	case domain.KindRef:
		decl := s.registry.Lookup(member.RefKey)
		if decl == nil {
			return "", domain.NewError(domain.ErrUnresolvableSchema, member.RefKey)
		}
		s.used[decl.RegistryKey] = struct{}{}
		return fmt.Sprintf("(Omit<%s, %q> & { %s: %s })",
			s.qualify(decl.LocalName), tagProp, tagProp, literal), nil

	case domain.KindObject:
		entries, err := s.emitFields(member.Fields, tagProp)
		if err != nil {
			return "", err
		}
		entries = append(entries, fmt.Sprintf("%s: %s", tagProp, literal))
		return objectText(entries), nil

	default:
		text, err := s.Emit(member)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("(%s & { %s: %s })", parenthesize(text), tagProp, literal), nil
	}
}

// tagLiteral renders the pinned tag value: the discriminator enum's member
// when named-enum mode is on, the discriminator type is known, and the
// literal is one of its values; the raw string literal otherwise.
func (s *Service) tagLiteral(union *domain.UnionModel, tagValue string) string {
	if s.namedEnums && union.DiscriminatorType != nil {
		decl := s.registry.Lookup(union.DiscriminatorType.RefKey)
		if decl != nil && decl.Type != nil && decl.Type.Kind == domain.KindEnum {
			for _, value := range decl.Type.Enum.Values {
				if value == tagValue {
					s.used[decl.RegistryKey] = struct{}{}
					return s.qualify(decl.LocalName) + "." + domain.EnumMemberName(tagValue)
				}
			}
		}
	}
	return strconv.Quote(tagValue)
}

// tagValueFor finds the mapped tag value selecting a member, if any. Tag
// values are tried in sorted order so ties resolve deterministically.
func tagValueFor(union *domain.UnionModel, member *domain.TypeModel) (string, bool) {
	if member.Kind != domain.KindRef || len(union.Mapping) == 0 {
		return "", false
	}

	for _, value := range sortedTagValues(union) {
		if union.Mapping[value] == member.RefKey {
			return value, true
		}
	}
	return "", false
}

// checkMapping verifies every mapping entry selects a schema from the
// union's own member list.
func checkMapping(union *domain.UnionModel) error {
	for _, value := range sortedTagValues(union) {
		key := union.Mapping[value]
		found := false
		for _, member := range union.Members {
			if member.Kind == domain.KindRef && member.RefKey == key {
				found = true
				break
			}
		}
		if !found {
			return domain.NewErrorf(domain.ErrDiscriminatorMappingMismatch,
				"tag %q maps to %s, which is not a union member", value, key)
		}
	}
	return nil
}

func sortedTagValues(union *domain.UnionModel) []string {
	values := make([]string, 0, len(union.Mapping))
	for value := range union.Mapping {
		values = append(values, value)
	}
	sort.Strings(values)
	return values
}
