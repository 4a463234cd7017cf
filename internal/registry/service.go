// Package registry provides the flat registry of named type declarations and
// the reference resolver that populates it. The resolver tracks which files
// still need loading and which referenced schemas remain outstanding, and
// drives a fix-point loop until the type graph is closed.
package registry

import (
	"fmt"
	"sort"

	"github.com/apifold/tsgen/internal/console"
	"github.com/apifold/tsgen/internal/domain"
	"github.com/apifold/tsgen/internal/loader"
)

// DocumentReader reads and parses one schema document by name.
type DocumentReader interface {
	ReadDocument(name string) (*loader.Document, error)
}

// Converter turns one raw schema node into a type-model node. Implemented by
// the schema package; declared here so the two packages stay decoupled.
type Converter interface {
	Convert(node *loader.Schema, currentFile string) (*domain.TypeModel, error)
}

// Service owns the registry, the pending-reference set, and the file load
// queue. All three are mutated only here; the rest of the pipeline treats
// the registry as read-only.
type Service struct {
	reader    DocumentReader
	converter Converter

	declarations map[string]*domain.TypeDeclaration
	pending      map[string]struct{}
	loaded       map[string]struct{}
	queued       map[string]struct{}
	queue        []string
}

// NewService creates a registry service reading documents through reader.
func NewService(reader DocumentReader) *Service {
	return &Service{
		reader:       reader,
		declarations: make(map[string]*domain.TypeDeclaration),
		pending:      make(map[string]struct{}),
		loaded:       make(map[string]struct{}),
		queued:       make(map[string]struct{}),
	}
}

// SetConverter wires the type converter. Must be called before any schema
// is registered; the split exists only to break the construction cycle
// between converter and resolver.
func (s *Service) SetConverter(converter Converter) {
	s.converter = converter
}

// AddRef records a reference and returns its ref node immediately.
// Construction never blocks on the referent: if the target file has not
// been loaded it is queued, and the target key is marked pending until a
// registration clears it.
func (s *Service) AddRef(ref, currentFile string) (*domain.TypeModel, error) {
	parsed, err := parseRef(ref, currentFile)
	if err != nil {
		return nil, err
	}

	key := parsed.Key()
	if _, ok := s.declarations[key]; !ok {
		s.pending[key] = struct{}{}
	}
	s.enqueueFile(parsed.File)

	return domain.Ref(key), nil
}

// CanonicalKey resolves a reference string to its registry key without
// queueing a load.
func (s *Service) CanonicalKey(ref, currentFile string) (string, error) {
	return CanonicalRefKey(ref, currentFile)
}

// enqueueFile queues a file for loading. Already-loaded or already-queued
// files are not re-queued.
func (s *Service) enqueueFile(file string) {
	if _, ok := s.loaded[file]; ok {
		return
	}
	if _, ok := s.queued[file]; ok {
		return
	}
	s.queued[file] = struct{}{}
	s.queue = append(s.queue, file)
}

// RegisterDocument converts and registers every top-level schema the
// document declares, clearing matching pending entries. The file is marked
// loaded first so same-file references never re-queue it.
func (s *Service) RegisterDocument(file string, doc *loader.Document) error {
	s.loaded[file] = struct{}{}

	if doc.Components == nil || len(doc.Components.Schemas) == 0 {
		return nil
	}

	names := make([]string, 0, len(doc.Components.Schemas))
	for name := range doc.Components.Schemas {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		model, err := s.converter.Convert(doc.Components.Schemas[name], file)
		if err != nil {
			return fmt.Errorf("failed to convert schema %s in %s: %w", name, file, err)
		}

		key := DeclKey(file, name)
		s.declarations[key] = &domain.TypeDeclaration{
			LocalName:   domain.NormalizeName(name),
			RegistryKey: key,
			Type:        model,
		}
		delete(s.pending, key)
	}

	console.Logger.Debug("registered %d schemas from %s", len(names), file)

	return nil
}

// Resolve drains the load queue to a fix point: loading a file can queue
// further files, so emptiness is re-checked after every load rather than
// assumed after one pass. A pending entry surviving the drain is a dangling
// reference and fatal.
func (s *Service) Resolve() error {
	for len(s.queue) > 0 {
		file := s.queue[0]
		s.queue = s.queue[1:]
		delete(s.queued, file)

		if _, ok := s.loaded[file]; ok {
			continue
		}

		doc, err := s.reader.ReadDocument(file)
		if err != nil {
			return err
		}
		if err := s.RegisterDocument(file, doc); err != nil {
			return err
		}
	}

	if len(s.pending) > 0 {
		keys := make([]string, 0, len(s.pending))
		for key := range s.pending {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		return domain.NewError(domain.ErrUnresolvableSchema, keys[0])
	}

	return nil
}

// CheckUniqueNames verifies that no two distinct registry keys share a local
// name. Emission assumes local-name uniqueness, so a collision is fatal.
func (s *Service) CheckUniqueNames() error {
	byName := make(map[string]string, len(s.declarations))

	for _, key := range s.Keys() {
		decl := s.declarations[key]
		if other, ok := byName[decl.LocalName]; ok {
			return domain.NewErrorf(domain.ErrDuplicateTypeName,
				"%s declared by both %s and %s", decl.LocalName, other, key)
		}
		byName[decl.LocalName] = key
	}

	return nil
}

// Lookup returns the declaration for a registry key, or nil.
func (s *Service) Lookup(key string) *domain.TypeDeclaration {
	return s.declarations[key]
}

// Keys returns all registry keys in sorted order.
func (s *Service) Keys() []string {
	keys := make([]string, 0, len(s.declarations))
	for key := range s.declarations {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// PendingCount returns the number of referenced-but-unresolved keys.
// Zero once resolution completes is a closing invariant.
func (s *Service) PendingCount() int {
	return len(s.pending)
}
