package loader

import (
	"bytes"
	"fmt"

	json "github.com/goccy/go-json"
)

// Document is the parsed form of one interface-description file: a schema
// container plus, for the entry document, the route container.
type Document struct {
	OpenAPI    string                 `json:"openapi"`
	Info       map[string]interface{} `json:"info"`
	Components *Components            `json:"components"`
	Paths      map[string]*PathItem   `json:"paths"`
}

// Components holds the schema container of a document.
type Components struct {
	Schemas map[string]*Schema `json:"schemas"`
}

// Schema is one raw schema node. Property declaration order is captured
// separately because generated field order must follow the source document,
// and a decoded map loses it.
type Schema struct {
	Ref                  string                `json:"$ref"`
	Type                 string                `json:"type"`
	Format               string                `json:"format"`
	Description          string                `json:"description"`
	Properties           map[string]*Schema    `json:"properties"`
	Required             []string              `json:"required"`
	Items                *Schema               `json:"items"`
	Enum                 []interface{}         `json:"enum"`
	AllOf                []*Schema             `json:"allOf"`
	OneOf                []*Schema             `json:"oneOf"`
	Discriminator        *Discriminator        `json:"discriminator"`
	AdditionalProperties *AdditionalProperties `json:"additionalProperties"`
	Nullable             bool                  `json:"nullable"`

	// PropertyOrder lists the property names in source order.
	PropertyOrder []string `json:"-"`
}

// schemaAlias avoids recursing into Schema.UnmarshalJSON.
type schemaAlias Schema

// UnmarshalJSON decodes the schema and records the property declaration order.
func (s *Schema) UnmarshalJSON(data []byte) error {
	var alias schemaAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}
	*s = Schema(alias)

	if len(s.Properties) == 0 {
		return nil
	}

	var probe struct {
		Properties json.RawMessage `json:"properties"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	order, err := topLevelKeys(probe.Properties)
	if err != nil {
		return fmt.Errorf("failed to read property order: %w", err)
	}
	s.PropertyOrder = order

	return nil
}

// Discriminator designates the tag field of a oneOf union and its
// value-to-schema mapping.
type Discriminator struct {
	PropertyName string            `json:"propertyName"`
	Mapping      map[string]string `json:"mapping"`
}

// AdditionalProperties is either a boolean or a schema in the source
// grammar. Exactly one of Allowed and Schema is set.
type AdditionalProperties struct {
	Allowed *bool
	Schema  *Schema
}

// UnmarshalJSON accepts both the boolean and the schema form.
func (ap *AdditionalProperties) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("true")) || bytes.Equal(trimmed, []byte("false")) {
		allowed := bytes.Equal(trimmed, []byte("true"))
		ap.Allowed = &allowed
		return nil
	}

	var schema Schema
	if err := json.Unmarshal(data, &schema); err != nil {
		return err
	}
	ap.Schema = &schema
	return nil
}

// PathItem maps HTTP methods to operation descriptors for one route template.
type PathItem struct {
	Get     *OperationObject `json:"get"`
	Put     *OperationObject `json:"put"`
	Post    *OperationObject `json:"post"`
	Delete  *OperationObject `json:"delete"`
	Patch   *OperationObject `json:"patch"`
	Head    *OperationObject `json:"head"`
	Options *OperationObject `json:"options"`

	// Parameters apply to every operation of the route.
	Parameters []*ParameterObject `json:"parameters"`
}

// methodOrder fixes the iteration order of operations within a route.
var methodOrder = []string{"GET", "PUT", "POST", "DELETE", "PATCH", "HEAD", "OPTIONS"}

// Operations returns the declared operations keyed by upper-case method.
func (p *PathItem) Operations() map[string]*OperationObject {
	ops := map[string]*OperationObject{
		"GET":     p.Get,
		"PUT":     p.Put,
		"POST":    p.Post,
		"DELETE":  p.Delete,
		"PATCH":   p.Patch,
		"HEAD":    p.Head,
		"OPTIONS": p.Options,
	}
	for method, op := range ops {
		if op == nil {
			delete(ops, method)
		}
	}
	return ops
}

// MethodOrder returns the fixed method iteration order.
func MethodOrder() []string {
	return methodOrder
}

// OperationObject is one operation descriptor.
type OperationObject struct {
	OperationID string                     `json:"operationId"`
	Summary     string                     `json:"summary"`
	Parameters  []*ParameterObject         `json:"parameters"`
	RequestBody *RequestBody               `json:"requestBody"`
	Responses   map[string]*ResponseObject `json:"responses"`
}

// ParameterObject is one declared parameter.
type ParameterObject struct {
	Name     string  `json:"name"`
	In       string  `json:"in"`
	Required bool    `json:"required"`
	Schema   *Schema `json:"schema"`
}

// RequestBody is an operation's request payload descriptor.
type RequestBody struct {
	Required bool                  `json:"required"`
	Content  map[string]*MediaType `json:"content"`
}

// ResponseObject is one response descriptor.
type ResponseObject struct {
	Description string                `json:"description"`
	Content     map[string]*MediaType `json:"content"`
}

// MediaType carries the schema of one content type.
type MediaType struct {
	Schema *Schema `json:"schema"`
}

// JSONSchema returns the application/json schema of a content map, or nil.
func JSONSchema(content map[string]*MediaType) *Schema {
	media, ok := content["application/json"]
	if !ok || media == nil {
		return nil
	}
	return media.Schema
}

// topLevelKeys returns the keys of a raw JSON object in source order.
func topLevelKeys(raw []byte) ([]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected object, got %v", tok)
	}

	var keys []string
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("expected object key, got %v", keyTok)
		}
		keys = append(keys, key)

		if err := skipValue(dec); err != nil {
			return nil, err
		}
	}

	return keys, nil
}

// skipValue consumes one complete JSON value from the decoder.
func skipValue(dec *json.Decoder) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}

	delim, ok := tok.(json.Delim)
	if !ok {
		return nil
	}

	switch delim {
	case '{':
		for dec.More() {
			if _, err := dec.Token(); err != nil {
				return err
			}
			if err := skipValue(dec); err != nil {
				return err
			}
		}
	case '[':
		for dec.More() {
			if err := skipValue(dec); err != nil {
				return err
			}
		}
	default:
		return nil
	}

	_, err = dec.Token()
	return err
}
