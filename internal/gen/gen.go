// Package gen assembles and writes the generated output files. The core
// pipeline hands it resolved, in-memory structures; everything here is
// text assembly and file I/O.
package gen

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"golang.org/x/sync/errgroup"

	"github.com/apifold/tsgen/internal/console"
	"github.com/apifold/tsgen/internal/domain"
	"github.com/apifold/tsgen/internal/emitter"
	"github.com/apifold/tsgen/internal/orchestrator"
)

// Version of the generator, reported by the CLI.
const Version = "v0.3.0"

// Config presents gen configurations.
type Config struct {
	// OutputDir receives the generated files.
	OutputDir string

	// EmitNamedEnums renders enums as named enum declarations.
	EmitNamedEnums bool

	// NamespacePrefix switches the client to a namespace import and
	// qualifies every referenced declaration with it.
	NamespacePrefix string
}

// Gen writes the generated artifacts for one resolved run.
type Gen struct {
	clientTemplate *template.Template
}

// New creates a new Gen.
func New() *Gen {
	return &Gen{
		clientTemplate: template.Must(template.New("client").Parse(clientBaseTemplate)),
	}
}

// Build renders the declarations file and the client file and writes both.
func (g *Gen) Build(config *Config, result *orchestrator.Result) error {
	models, err := g.renderModels(config, result)
	if err != nil {
		return err
	}

	client, err := g.renderClient(config, result)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(config.OutputDir, os.ModePerm); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", config.OutputDir, err)
	}

	files := map[string][]byte{
		"models.ts": models,
		"client.ts": client,
	}

	var group errgroup.Group
	for name, content := range files {
		name, content := name, content
		group.Go(func() error {
			path := filepath.Join(config.OutputDir, name)
			if err := os.WriteFile(path, content, 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}
			console.Logger.Info("created %s", path)
			return nil
		})
	}

	return group.Wait()
}

// renderModels renders every registry declaration plus the synthesized
// enum declarations. Internal references stay unqualified; the namespace
// prefix applies only to the client's view of the models.
func (g *Gen) renderModels(config *Config, result *orchestrator.Result) ([]byte, error) {
	emit := emitter.NewService(result.Registry, emitter.WithNamedEnums(config.EmitNamedEnums))

	var buf bytes.Buffer
	buf.WriteString(modelsHeader)

	for _, key := range result.Registry.Keys() {
		decl := result.Registry.Lookup(key)

		if decl.Type != nil && decl.Type.Kind == domain.KindEnum {
			buf.WriteString("\n")
			writeEnumDecl(&buf, decl.LocalName, decl.Type.Enum.Values, config.EmitNamedEnums)
			continue
		}

		text, err := emit.Emit(decl.Type)
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(&buf, "\nexport type %s = %s;\n", decl.LocalName, text)
	}

	if config.EmitNamedEnums {
		for _, synth := range result.Synthesized {
			buf.WriteString("\n")
			writeEnumDecl(&buf, synth.Name, synth.Values, true)
		}
	}

	return buf.Bytes(), nil
}

// writeEnumDecl renders one named enumeration: an enum declaration in
// named mode, a literal-union type alias otherwise.
func writeEnumDecl(buf *bytes.Buffer, name string, values []string, named bool) {
	if !named {
		literals := make([]string, 0, len(values))
		for _, value := range values {
			literals = append(literals, fmt.Sprintf("%q", value))
		}
		fmt.Fprintf(buf, "export type %s = %s;\n", name, strings.Join(literals, " | "))
		return
	}

	fmt.Fprintf(buf, "export enum %s {\n", name)
	for _, value := range values {
		fmt.Fprintf(buf, "  %s = %q,\n", domain.EnumMemberName(value), value)
	}
	buf.WriteString("}\n")
}

// renderClient renders the typed client class, one method per operation.
func (g *Gen) renderClient(config *Config, result *orchestrator.Result) ([]byte, error) {
	options := []emitter.Option{emitter.WithNamedEnums(config.EmitNamedEnums)}
	if config.NamespacePrefix != "" {
		options = append(options, emitter.WithNamespace(config.NamespacePrefix))
	}
	emit := emitter.NewService(result.Registry, options...)

	var methods bytes.Buffer
	for _, op := range result.Operations {
		if err := g.writeMethod(&methods, emit, op); err != nil {
			return nil, err
		}
	}

	imports, err := renderImports(config, result, emit.Used())
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	err = g.clientTemplate.Execute(&buf, map[string]string{
		"Imports": imports,
		"Methods": methods.String(),
	})
	if err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// renderImports builds the import line for the declarations the client
// actually references.
func renderImports(config *Config, result *orchestrator.Result, used []string) (string, error) {
	if config.NamespacePrefix != "" {
		return fmt.Sprintf("import * as %s from \"./models\";", config.NamespacePrefix), nil
	}

	names := make([]string, 0, len(used))
	seen := make(map[string]struct{}, len(used))
	for _, key := range used {
		decl := result.Registry.Lookup(key)
		if decl == nil {
			return "", domain.NewError(domain.ErrUnresolvableSchema, key)
		}
		if _, ok := seen[decl.LocalName]; ok {
			continue
		}
		seen[decl.LocalName] = struct{}{}
		names = append(names, decl.LocalName)
	}

	if len(names) == 0 {
		return "export {};", nil
	}
	return fmt.Sprintf("import { %s } from \"./models\";", strings.Join(names, ", ")), nil
}

// writeMethod renders one client method.
func (g *Gen) writeMethod(buf *bytes.Buffer, emit *emitter.Service, op *domain.Operation) error {
	var args []string
	var queryFields []string
	var bodyFields []string
	queryOptional := true

	for _, param := range op.Parameters {
		switch param.Location {
		case domain.LocationPath:
			args = append(args, param.Name+": string")

		case domain.LocationQuery:
			marker := "?"
			if param.Required {
				marker = ""
				queryOptional = false
			}
			queryFields = append(queryFields, fmt.Sprintf("%s%s: string", param.Name, marker))

		case domain.LocationBody:
			text, err := emit.Emit(param.Type)
			if err != nil {
				return err
			}
			marker := "?"
			if param.Required {
				marker = ""
			}
			bodyFields = append(bodyFields, fmt.Sprintf("%s%s: %s", param.Name, marker, text))
		}
	}

	queryArg := "undefined"
	if len(queryFields) > 0 {
		marker := ""
		if queryOptional {
			marker = "?"
		}
		args = append(args, fmt.Sprintf("query%s: { %s }", marker, strings.Join(queryFields, "; ")))
		queryArg = "query"
	}

	bodyArg := "undefined"
	switch {
	case len(bodyFields) > 0:
		args = append(args, fmt.Sprintf("body: { %s }", strings.Join(bodyFields, "; ")))
		bodyArg = "body"
	case len(op.FlatTypes) > 0:
		text, err := emit.EmitMerged(op.FlatTypes)
		if err != nil {
			return err
		}
		args = append(args, "body: "+text)
		bodyArg = "body"
	}

	result, err := emit.Emit(op.Result)
	if err != nil {
		return err
	}

	fmt.Fprintf(buf, "  async %s(%s): Promise<%s> {\n",
		domain.ToLowerCamel(op.Name), strings.Join(args, ", "), result)
	fmt.Fprintf(buf, "    return this.request<%s>(%q, %s, %s, %s);\n",
		result, op.Method, routeExpression(op.Route), queryArg, bodyArg)
	buf.WriteString("  }\n\n")
	return nil
}

// routeExpression turns a route template into a TypeScript template
// literal interpolating the path parameters.
func routeExpression(route string) string {
	var b strings.Builder
	b.WriteByte('`')

	rest := route
	for {
		open := strings.Index(rest, "{")
		if open < 0 {
			b.WriteString(rest)
			break
		}
		closing := strings.Index(rest[open:], "}")
		if closing < 0 {
			b.WriteString(rest)
			break
		}

		b.WriteString(rest[:open])
		name := domain.NormalizeName(rest[open+1 : open+closing])
		b.WriteString("${encodeURIComponent(" + name + ")}")
		rest = rest[open+closing+1:]
	}

	b.WriteByte('`')
	return b.String()
}
