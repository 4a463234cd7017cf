package loader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDoc(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestService_ReadDocument_JSON(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "api.json", `{
		"openapi": "3.0.0",
		"components": {
			"schemas": {
				"User": {
					"type": "object",
					"properties": {"name": {"type": "string"}}
				}
			}
		}
	}`)

	svc := NewService(WithBaseDir(dir))
	doc, err := svc.ReadDocument("api.json")
	require.NoError(t, err)

	assert.Equal(t, "3.0.0", doc.OpenAPI)
	require.NotNil(t, doc.Components)
	require.Contains(t, doc.Components.Schemas, "User")
	assert.Equal(t, []string{"name"}, doc.Components.Schemas["User"].PropertyOrder)
}

func TestService_ReadDocument_YAML(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "api.yaml", `
openapi: "3.0.0"
components:
  schemas:
    Pet:
      type: object
      required: [name]
      properties:
        tag: {type: string}
        name: {type: string}
`)

	svc := NewService(WithBaseDir(dir))
	doc, err := svc.ReadDocument("api.yaml")
	require.NoError(t, err)

	pet := doc.Components.Schemas["Pet"]
	require.NotNil(t, pet)
	assert.Equal(t, "object", pet.Type)
	// YAML key order must survive the JSON conversion.
	assert.Equal(t, []string{"tag", "name"}, pet.PropertyOrder)
	assert.Equal(t, []string{"name"}, pet.Required)
}

func TestService_ReadDocument_Missing(t *testing.T) {
	svc := NewService(WithBaseDir(t.TempDir()))
	_, err := svc.ReadDocument("nope.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope.json")
}

func TestService_ReadDocument_MalformedJSON(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "broken.json", `{"openapi": `)

	svc := NewService(WithBaseDir(dir))
	_, err := svc.ReadDocument("broken.json")
	require.Error(t, err)
}

func TestYAMLToJSON_PreservesOrder(t *testing.T) {
	out, err := yamlToJSON([]byte(`
zulu: 1
alpha: two
nested:
  b: true
  a: null
list:
  - x
  - 2
`))
	require.NoError(t, err)

	assert.JSONEq(t, `{"zulu":1,"alpha":"two","nested":{"b":true,"a":null},"list":["x",2]}`, string(out))
	// Byte order matters, not just structural equality.
	text := string(out)
	assert.Less(t, strings.Index(text, "zulu"), strings.Index(text, "alpha"))
	assert.Less(t, strings.Index(text, `"b"`), strings.Index(text, `"a"`))
}
