package route

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apifold/tsgen/internal/domain"
	"github.com/apifold/tsgen/internal/loader"
	"github.com/apifold/tsgen/internal/schema"
)

// recordingResolver satisfies the converter's resolver without loading
// anything, so route extraction can run against in-memory documents.
type recordingResolver struct{}

func (recordingResolver) AddRef(ref, currentFile string) (*domain.TypeModel, error) {
	key, _ := recordingResolver{}.CanonicalKey(ref, currentFile)
	return domain.Ref(key), nil
}

func (recordingResolver) CanonicalKey(ref, currentFile string) (string, error) {
	if len(ref) > 0 && ref[0] == '#' {
		return currentFile + ref, nil
	}
	return ref, nil
}

func newTestService() *Service {
	return NewService(schema.NewService(recordingResolver{}))
}

func parsePaths(t *testing.T, raw string) map[string]*loader.PathItem {
	t.Helper()
	var paths map[string]*loader.PathItem
	require.NoError(t, json.Unmarshal([]byte(raw), &paths))
	return paths
}

func TestService_Extract_GetWithPathParameter(t *testing.T) {
	paths := parsePaths(t, `{
		"/users/{id}": {
			"get": {
				"parameters": [
					{"name": "id", "in": "path", "required": true, "schema": {"type": "integer"}}
				],
				"responses": {
					"200": {
						"description": "ok",
						"content": {
							"application/json": {
								"schema": {
									"type": "object",
									"properties": {"name": {"type": "string"}}
								}
							}
						}
					}
				}
			}
		}
	}`)

	operations, err := newTestService().Extract(paths, "api.json")
	require.NoError(t, err)
	require.Len(t, operations, 1)

	op := operations[0]
	assert.Equal(t, "GET", op.Method)
	assert.Equal(t, "/users/{id}", op.Route)
	assert.Equal(t, "GetUsersId", op.Name)

	require.Len(t, op.Parameters, 1)
	assert.Equal(t, domain.LocationPath, op.Parameters[0].Location)
	assert.Equal(t, "id", op.Parameters[0].Name)
	// Path parameters travel as text regardless of the declared type.
	assert.Equal(t, domain.KindString, op.Parameters[0].Type.Kind)
	assert.True(t, op.Parameters[0].Required)

	require.Equal(t, domain.KindObject, op.Result.Kind)
	assert.Equal(t, "name", op.Result.Fields[0].Name)
}

func TestService_Extract_OperationIDWins(t *testing.T) {
	paths := parsePaths(t, `{
		"/users": {
			"get": {
				"operationId": "list_users",
				"responses": {"200": {"description": "ok"}}
			}
		}
	}`)

	operations, err := newTestService().Extract(paths, "api.json")
	require.NoError(t, err)
	require.Len(t, operations, 1)
	assert.Equal(t, "ListUsers", operations[0].Name)
	// A schema-less success response yields void.
	assert.Equal(t, domain.KindVoid, operations[0].Result.Kind)
}

// Route templates sort and methods follow a fixed order, so the operation
// list is stable across runs.
func TestService_Extract_DeterministicOrder(t *testing.T) {
	paths := parsePaths(t, `{
		"/b": {
			"post": {"responses": {"200": {"description": "ok"}}},
			"get": {"responses": {"200": {"description": "ok"}}}
		},
		"/a": {
			"get": {"responses": {"200": {"description": "ok"}}}
		}
	}`)

	operations, err := newTestService().Extract(paths, "api.json")
	require.NoError(t, err)
	require.Len(t, operations, 3)
	assert.Equal(t, "/a", operations[0].Route)
	assert.Equal(t, "GET", operations[1].Method)
	assert.Equal(t, "/b", operations[1].Route)
	assert.Equal(t, "POST", operations[2].Method)
}

func TestService_Extract_ItemLevelParameters(t *testing.T) {
	paths := parsePaths(t, `{
		"/orgs/{org}": {
			"parameters": [
				{"name": "org", "in": "path", "required": true, "schema": {"type": "string"}}
			],
			"get": {"responses": {"200": {"description": "ok"}}}
		}
	}`)

	operations, err := newTestService().Extract(paths, "api.json")
	require.NoError(t, err)
	require.Len(t, operations, 1)
	require.Len(t, operations[0].Parameters, 1)
	assert.Equal(t, domain.LocationPath, operations[0].Parameters[0].Location)
}

func TestService_Extract_QueryParameters(t *testing.T) {
	paths := parsePaths(t, `{
		"/users": {
			"get": {
				"parameters": [
					{"name": "limit", "in": "query", "schema": {"type": "integer"}},
					{"name": "q", "in": "query", "required": true, "schema": {"type": "string"}},
					{"name": "X-Trace", "in": "header", "schema": {"type": "string"}}
				],
				"responses": {"200": {"description": "ok"}}
			}
		}
	}`)

	operations, err := newTestService().Extract(paths, "api.json")
	require.NoError(t, err)

	params := operations[0].Parameters
	// Header parameters are outside the generated surface.
	require.Len(t, params, 2)
	assert.Equal(t, domain.LocationQuery, params[0].Location)
	assert.Equal(t, domain.KindString, params[0].Type.Kind)
	assert.False(t, params[0].Required)
	assert.True(t, params[1].Required)
}

// A query parameter's declared schema still has to convert cleanly, even
// though the parameter type itself collapses to string.
func TestService_Extract_MalformedQuerySchema(t *testing.T) {
	paths := parsePaths(t, `{
		"/users": {
			"get": {
				"parameters": [
					{"name": "ids", "in": "query", "schema": {"type": "array"}}
				],
				"responses": {"200": {"description": "ok"}}
			}
		}
	}`)

	_, err := newTestService().Extract(paths, "api.json")
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.ErrMalformedArraySchema))
}

func TestService_Extract_BodySplice(t *testing.T) {
	paths := parsePaths(t, `{
		"/users": {
			"post": {
				"requestBody": {
					"required": true,
					"content": {
						"application/json": {
							"schema": {
								"type": "object",
								"required": ["name"],
								"properties": {
									"name": {"type": "string"},
									"age": {"type": "number"}
								}
							}
						}
					}
				},
				"responses": {"200": {"description": "ok"}}
			}
		}
	}`)

	operations, err := newTestService().Extract(paths, "api.json")
	require.NoError(t, err)

	// Object payloads splice into individual body parameters.
	params := operations[0].Parameters
	require.Len(t, params, 2)
	assert.Equal(t, domain.LocationBody, params[0].Location)
	assert.Equal(t, "name", params[0].Name)
	assert.True(t, params[0].Required)
	assert.Equal(t, "age", params[1].Name)
	assert.False(t, params[1].Required)
	assert.Empty(t, operations[0].FlatTypes)
}

func TestService_Extract_BodyFlatType(t *testing.T) {
	paths := parsePaths(t, `{
		"/import": {
			"post": {
				"requestBody": {
					"content": {
						"application/json": {
							"schema": {"$ref": "#/components/schemas/ImportRequest"}
						}
					}
				},
				"responses": {"200": {"description": "ok"}}
			}
		}
	}`)

	operations, err := newTestService().Extract(paths, "api.json")
	require.NoError(t, err)

	// Non-object payloads travel whole through FlatTypes.
	op := operations[0]
	assert.Empty(t, op.Parameters)
	require.Len(t, op.FlatTypes, 1)
	assert.Equal(t, domain.KindRef, op.FlatTypes[0].Kind)
}

func TestService_Extract_GetWithBody(t *testing.T) {
	paths := parsePaths(t, `{
		"/users": {
			"get": {
				"requestBody": {"content": {}},
				"responses": {"200": {"description": "ok"}}
			}
		}
	}`)

	_, err := newTestService().Extract(paths, "api.json")
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.ErrGetWithBody))
}

func TestService_Extract_NoSuccessResponse(t *testing.T) {
	paths := parsePaths(t, `{
		"/users": {
			"get": {"responses": {"404": {"description": "gone"}}}
		}
	}`)

	_, err := newTestService().Extract(paths, "api.json")
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.ErrNoSuccessResponse))
}
