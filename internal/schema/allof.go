package schema

import (
	"github.com/apifold/tsgen/internal/domain"
	"github.com/apifold/tsgen/internal/loader"
)

// convertComposition converts an allOf into a structural conjunction. Each
// part converts independently; sibling properties declared on the same node
// combine with the inherited parts as a trailing synthetic object part
// rather than replacing them.
func (s *Service) convertComposition(node *loader.Schema, currentFile string) (*domain.TypeModel, error) {
	parts := make([]*domain.TypeModel, 0, len(node.AllOf)+1)

	for _, member := range node.AllOf {
		part, err := s.Convert(member, currentFile)
		if err != nil {
			return nil, err
		}
		parts = append(parts, part)
	}

	if len(node.Properties) > 0 {
		fields, err := s.convertFields(node, currentFile)
		if err != nil {
			return nil, err
		}
		parts = append(parts, &domain.TypeModel{Kind: domain.KindObject, Fields: fields})
	}

	return &domain.TypeModel{Kind: domain.KindComposition, Parts: parts}, nil
}
