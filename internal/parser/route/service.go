// Package route extracts typed operations from the route container of an
// entry document: path, query, and body parameters plus the success result
// type per operation.
package route

import (
	"sort"
	"strings"

	"github.com/apifold/tsgen/internal/console"
	"github.com/apifold/tsgen/internal/domain"
	"github.com/apifold/tsgen/internal/loader"
)

// SchemaConverter converts raw schema nodes for every schema the extractor
// encounters.
type SchemaConverter interface {
	Convert(node *loader.Schema, currentFile string) (*domain.TypeModel, error)
}

// Service extracts operations from a paths section.
type Service struct {
	converter SchemaConverter
}

// NewService creates a new route extractor.
func NewService(converter SchemaConverter) *Service {
	return &Service{converter: converter}
}

// Extract walks the paths section and returns its operations in
// deterministic order: route templates sorted, methods in fixed order.
func (s *Service) Extract(paths map[string]*loader.PathItem, currentFile string) ([]*domain.Operation, error) {
	templates := make([]string, 0, len(paths))
	for tmpl := range paths {
		templates = append(templates, tmpl)
	}
	sort.Strings(templates)

	var operations []*domain.Operation
	for _, tmpl := range templates {
		item := paths[tmpl]
		if item == nil {
			continue
		}

		declared := item.Operations()
		for _, method := range loader.MethodOrder() {
			op, ok := declared[method]
			if !ok {
				continue
			}

			operation, err := s.extractOperation(method, tmpl, item, op, currentFile)
			if err != nil {
				return nil, err
			}
			operations = append(operations, operation)
		}
	}

	console.Logger.Debug("extracted %d operations", len(operations))

	return operations, nil
}

func (s *Service) extractOperation(method, tmpl string, item *loader.PathItem, op *loader.OperationObject, currentFile string) (*domain.Operation, error) {
	placeholders, err := templatePlaceholders(tmpl)
	if err != nil {
		return nil, err
	}

	declared := make([]*loader.ParameterObject, 0, len(item.Parameters)+len(op.Parameters))
	declared = append(declared, item.Parameters...)
	declared = append(declared, op.Parameters...)

	params, pathSeen, err := s.convertParameters(declared, tmpl, currentFile)
	if err != nil {
		return nil, err
	}

	if err := checkPathBijection(tmpl, placeholders, pathSeen); err != nil {
		return nil, err
	}

	operation := &domain.Operation{
		Method:     method,
		Route:      tmpl,
		Name:       operationName(method, tmpl, op.OperationID),
		Parameters: params,
	}

	if err := s.appendBody(operation, op.RequestBody, currentFile); err != nil {
		return nil, err
	}

	result, err := s.resultType(op, method, tmpl, currentFile)
	if err != nil {
		return nil, err
	}
	operation.Result = result

	return operation, nil
}

// operationName derives the generated method name: the declared operation
// id when present, otherwise the HTTP method plus the route segments.
func operationName(method, tmpl, operationID string) string {
	if operationID != "" {
		return domain.ToPascal(operationID)
	}

	var b strings.Builder
	b.WriteString(domain.ToPascal(strings.ToLower(method)))
	for _, segment := range strings.Split(tmpl, "/") {
		segment = strings.Trim(segment, "{}")
		b.WriteString(domain.ToPascal(segment))
	}
	return b.String()
}
