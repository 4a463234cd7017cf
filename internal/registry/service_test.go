package registry

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apifold/tsgen/internal/domain"
	"github.com/apifold/tsgen/internal/loader"
	"github.com/apifold/tsgen/internal/schema"
)

// fakeReader serves parsed documents from memory and counts reads, so tests
// can assert single-load behavior without touching the filesystem.
type fakeReader struct {
	docs  map[string]string
	reads map[string]int
}

func newFakeReader(docs map[string]string) *fakeReader {
	return &fakeReader{docs: docs, reads: make(map[string]int)}
}

func (r *fakeReader) ReadDocument(name string) (*loader.Document, error) {
	raw, ok := r.docs[name]
	if !ok {
		return nil, domain.NewError(domain.ErrUnresolvableSchema, name)
	}
	r.reads[name]++

	var doc loader.Document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func newTestService(reader *fakeReader) *Service {
	svc := NewService(reader)
	svc.SetConverter(schema.NewService(svc))
	return svc
}

func TestService_AddRef(t *testing.T) {
	svc := newTestService(newFakeReader(nil))

	node, err := svc.AddRef("#/components/schemas/User", "api.json")
	require.NoError(t, err)

	// The ref node comes back immediately; resolution happens later.
	assert.Equal(t, domain.KindRef, node.Kind)
	assert.Equal(t, "api.json#/components/schemas/User", node.RefKey)
	assert.Equal(t, 1, svc.PendingCount())
}

func TestService_AddRef_Invalid(t *testing.T) {
	svc := newTestService(newFakeReader(nil))

	_, err := svc.AddRef("#/definitions/User", "api.json")
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.ErrInvalidRefLink))
}

func TestService_Resolve_CrossFile(t *testing.T) {
	reader := newFakeReader(map[string]string{
		"shared.json": `{
			"components": {
				"schemas": {
					"Address": {
						"type": "object",
						"properties": {"city": {"type": "string"}}
					}
				}
			}
		}`,
	})
	svc := newTestService(reader)

	_, err := svc.AddRef("shared.json#/components/schemas/Address", "api.json")
	require.NoError(t, err)
	require.NoError(t, svc.Resolve())

	assert.Zero(t, svc.PendingCount())
	decl := svc.Lookup("shared.json#/components/schemas/Address")
	require.NotNil(t, decl)
	assert.Equal(t, "Address", decl.LocalName)
	assert.Equal(t, domain.KindObject, decl.Type.Kind)
}

// Loading a file can queue further files; the drain must keep going until
// the graph is closed.
func TestService_Resolve_Transitive(t *testing.T) {
	reader := newFakeReader(map[string]string{
		"a.json": `{
			"components": {
				"schemas": {
					"A": {"$ref": "b.json#/components/schemas/B"}
				}
			}
		}`,
		"b.json": `{
			"components": {
				"schemas": {
					"B": {"type": "string"}
				}
			}
		}`,
	})
	svc := newTestService(reader)

	_, err := svc.AddRef("a.json#/components/schemas/A", "entry.json")
	require.NoError(t, err)
	require.NoError(t, svc.Resolve())

	assert.Zero(t, svc.PendingCount())
	assert.NotNil(t, svc.Lookup("a.json#/components/schemas/A"))
	assert.NotNil(t, svc.Lookup("b.json#/components/schemas/B"))
}

// Two references into one file must not load it twice.
func TestService_Resolve_SingleLoadPerFile(t *testing.T) {
	reader := newFakeReader(map[string]string{
		"shared.json": `{
			"components": {
				"schemas": {
					"A": {"type": "string"},
					"B": {"type": "number"}
				}
			}
		}`,
	})
	svc := newTestService(reader)

	_, err := svc.AddRef("shared.json#/components/schemas/A", "api.json")
	require.NoError(t, err)
	_, err = svc.AddRef("shared.json#/components/schemas/B", "api.json")
	require.NoError(t, err)

	require.NoError(t, svc.Resolve())
	assert.Equal(t, 1, reader.reads["shared.json"])
}

func TestService_Resolve_Unresolvable(t *testing.T) {
	reader := newFakeReader(map[string]string{
		"shared.json": `{"components": {"schemas": {"A": {"type": "string"}}}}`,
	})
	svc := newTestService(reader)

	_, err := svc.AddRef("shared.json#/components/schemas/Missing", "api.json")
	require.NoError(t, err)

	err = svc.Resolve()
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.ErrUnresolvableSchema))
	assert.Contains(t, err.Error(), "shared.json#/components/schemas/Missing")
}

func TestService_RegisterDocument_ClearsPending(t *testing.T) {
	svc := newTestService(newFakeReader(nil))

	_, err := svc.AddRef("#/components/schemas/User", "api.json")
	require.NoError(t, err)
	require.Equal(t, 1, svc.PendingCount())

	var doc loader.Document
	require.NoError(t, json.Unmarshal([]byte(`{
		"components": {"schemas": {"User": {"type": "object", "properties": {"id": {"type": "string"}}}}}
	}`), &doc))
	require.NoError(t, svc.RegisterDocument("api.json", &doc))

	assert.Zero(t, svc.PendingCount())
}

func TestService_CheckUniqueNames(t *testing.T) {
	svc := newTestService(newFakeReader(nil))

	var a, b loader.Document
	require.NoError(t, json.Unmarshal([]byte(`{"components": {"schemas": {"User": {"type": "string"}}}}`), &a))
	require.NoError(t, json.Unmarshal([]byte(`{"components": {"schemas": {"User": {"type": "number"}}}}`), &b))

	require.NoError(t, svc.RegisterDocument("a.json", &a))
	require.NoError(t, svc.CheckUniqueNames())

	require.NoError(t, svc.RegisterDocument("b.json", &b))
	err := svc.CheckUniqueNames()
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.ErrDuplicateTypeName))
}

func TestService_Keys_Sorted(t *testing.T) {
	svc := newTestService(newFakeReader(nil))

	var doc loader.Document
	require.NoError(t, json.Unmarshal([]byte(`{
		"components": {"schemas": {"Zeta": {"type": "string"}, "Alpha": {"type": "string"}}}
	}`), &doc))
	require.NoError(t, svc.RegisterDocument("api.json", &doc))

	assert.Equal(t, []string{
		"api.json#/components/schemas/Alpha",
		"api.json#/components/schemas/Zeta",
	}, svc.Keys())
}
