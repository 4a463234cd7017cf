package route

import (
	"github.com/apifold/tsgen/internal/domain"
	"github.com/apifold/tsgen/internal/loader"
)

// appendBody folds an operation's request payload into the operation. An
// object payload is splice-flattened into individual body parameters so
// each field stays addressable; any other shape travels whole through
// FlatTypes and is merged structurally at emission time.
func (s *Service) appendBody(operation *domain.Operation, body *loader.RequestBody, currentFile string) error {
	if body == nil {
		return nil
	}

	if operation.Method == "GET" {
		return domain.NewErrorf(domain.ErrGetWithBody, "GET %s", operation.Route)
	}

	node := loader.JSONSchema(body.Content)
	if node == nil {
		return nil
	}

	model, err := s.converter.Convert(node, currentFile)
	if err != nil {
		return err
	}

	if model.Kind == domain.KindObject {
		for _, field := range model.Fields {
			operation.Parameters = append(operation.Parameters, domain.Parameter{
				Location: domain.LocationBody,
				Name:     field.Name,
				Type:     field.Type,
				Required: field.Required,
			})
		}
		return nil
	}

	operation.FlatTypes = append(operation.FlatTypes, model)
	return nil
}

// resultType derives the success result type from the 200 response. An
// operation without a success response is fatal; a success response
// without a schema yields void.
func (s *Service) resultType(op *loader.OperationObject, method, route, currentFile string) (*domain.TypeModel, error) {
	resp, ok := op.Responses["200"]
	if !ok || resp == nil {
		return nil, domain.NewErrorf(domain.ErrNoSuccessResponse, "%s %s", method, route)
	}

	node := loader.JSONSchema(resp.Content)
	if node == nil {
		return domain.Scalar(domain.KindVoid), nil
	}

	return s.converter.Convert(node, currentFile)
}
