// Package orchestrator coordinates the pipeline phases: entry loading,
// reference resolution, route extraction, enum naming, and the closing
// registry invariants.
package orchestrator

import (
	"path"

	"github.com/apifold/tsgen/internal/console"
	"github.com/apifold/tsgen/internal/domain"
	"github.com/apifold/tsgen/internal/loader"
	"github.com/apifold/tsgen/internal/parser/route"
	"github.com/apifold/tsgen/internal/registry"
	"github.com/apifold/tsgen/internal/schema"
)

// Service wires the pipeline services together.
type Service struct {
	loader    *loader.Service
	registry  *registry.Service
	converter *schema.Service
	routes    *route.Service
}

// New creates an orchestrator reading documents through loaderSvc.
func New(loaderSvc *loader.Service) *Service {
	reg := registry.NewService(loaderSvc)
	converter := schema.NewService(reg)
	reg.SetConverter(converter)

	return &Service{
		loader:    loaderSvc,
		registry:  reg,
		converter: converter,
		routes:    route.NewService(converter),
	}
}

// Result is the resolved output of a run, handed to the emission layer.
type Result struct {
	Registry    *registry.Service
	Operations  []*domain.Operation
	Synthesized []SynthesizedEnum
}

// Run resolves the full type graph rooted at the entry document and
// extracts its operations. Each invocation resolves from scratch; there is
// no cross-run caching.
func (s *Service) Run(entryFile string) (*Result, error) {
	entry := path.Clean(entryFile)

	doc, err := s.loader.ReadDocument(entry)
	if err != nil {
		return nil, err
	}

	if err := s.registry.RegisterDocument(entry, doc); err != nil {
		return nil, err
	}

	operations, err := s.routes.Extract(doc.Paths, entry)
	if err != nil {
		return nil, err
	}

	// Schemas and operation-embedded schemas have all queued their
	// references by now; close the graph in one fix-point drain.
	if err := s.registry.Resolve(); err != nil {
		return nil, err
	}

	synthesized, err := resolveEnumNames(s.registry, operations)
	if err != nil {
		return nil, err
	}

	if err := s.registry.CheckUniqueNames(); err != nil {
		return nil, err
	}

	console.Logger.Info("resolved %d declarations, %d operations, %d synthesized enums",
		len(s.registry.Keys()), len(operations), len(synthesized))

	return &Result{
		Registry:    s.registry,
		Operations:  operations,
		Synthesized: synthesized,
	}, nil
}

// Registry exposes the registry for emission.
func (s *Service) Registry() *registry.Service {
	return s.registry
}
