package schema

import (
	"github.com/apifold/tsgen/internal/domain"
	"github.com/apifold/tsgen/internal/loader"
)

// convertUnion converts a oneOf into a discriminated union. Mapping entries
// are canonicalized to registry keys here, while conversion still knows the
// current file; tag values themselves pass through untouched.
func (s *Service) convertUnion(node *loader.Schema, currentFile string) (*domain.TypeModel, error) {
	members := make([]*domain.TypeModel, 0, len(node.OneOf))
	for _, member := range node.OneOf {
		converted, err := s.Convert(member, currentFile)
		if err != nil {
			return nil, err
		}
		members = append(members, converted)
	}

	union := &domain.UnionModel{Members: members}

	if node.Discriminator != nil {
		union.DiscriminatorProperty = node.Discriminator.PropertyName

		if len(node.Discriminator.Mapping) > 0 {
			union.Mapping = make(map[string]string, len(node.Discriminator.Mapping))
			for value, ref := range node.Discriminator.Mapping {
				key, err := s.refs.CanonicalKey(ref, currentFile)
				if err != nil {
					return nil, err
				}
				union.Mapping[value] = key
			}
		}
	}

	if len(node.Properties) > 0 {
		shared, err := s.convertFields(node, currentFile)
		if err != nil {
			return nil, err
		}
		union.Shared = shared

		// Only a ref-typed tag field contributes a discriminator type.
		// Inline enum tags are deliberately not honored.
		if union.DiscriminatorProperty != "" {
			tagName := domain.NormalizeName(union.DiscriminatorProperty)
			for i := range shared {
				if shared[i].Name == tagName && shared[i].Type.Kind == domain.KindRef {
					union.DiscriminatorType = shared[i].Type
					break
				}
			}
		}
	}

	return &domain.TypeModel{Kind: domain.KindUnion, Union: union}, nil
}
