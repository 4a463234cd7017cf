package route

import (
	"strings"

	"github.com/apifold/tsgen/internal/domain"
	"github.com/apifold/tsgen/internal/loader"
)

// templatePlaceholders extracts {name} placeholders from a route template
// in a left-to-right scan. Braces left over after extraction make the
// template malformed.
func templatePlaceholders(tmpl string) ([]string, error) {
	var names []string

	rest := tmpl
	for {
		open := strings.Index(rest, "{")
		if open < 0 {
			break
		}
		if strings.Contains(rest[:open], "}") {
			return nil, domain.NewError(domain.ErrMalformedRouteTemplate, tmpl)
		}
		closing := strings.Index(rest[open:], "}")
		if closing < 0 {
			return nil, domain.NewError(domain.ErrMalformedRouteTemplate, tmpl)
		}

		name := rest[open+1 : open+closing]
		if name == "" || strings.Contains(name, "{") {
			return nil, domain.NewError(domain.ErrMalformedRouteTemplate, tmpl)
		}
		names = append(names, domain.NormalizeName(name))

		rest = rest[open+closing+1:]
	}

	if strings.Contains(rest, "}") {
		return nil, domain.NewError(domain.ErrMalformedRouteTemplate, tmpl)
	}

	return names, nil
}

// convertParameters converts declared path and query parameters. The wire
// representation of path and query segments is always textual, so both
// normalize to string regardless of the declared schema type; query schemas
// still pass through the converter first so malformed ones fail the run.
// Header and cookie parameters are outside the generated surface and are
// skipped.
func (s *Service) convertParameters(declared []*loader.ParameterObject, route, currentFile string) ([]domain.Parameter, map[string]struct{}, error) {
	var params []domain.Parameter
	pathSeen := make(map[string]struct{})

	for _, p := range declared {
		if p == nil {
			continue
		}
		name := domain.NormalizeName(p.Name)

		switch p.In {
		case "path":
			// Path parameters are always mandatory by construction of the
			// route template.
			if !p.Required {
				return nil, nil, domain.NewErrorf(domain.ErrUnboundPathParameter,
					"path parameter %s on %s must be required", p.Name, route)
			}
			if _, dup := pathSeen[name]; dup {
				return nil, nil, domain.NewErrorf(domain.ErrUndeclaredPathParameter,
					"path parameter %s declared twice on %s", p.Name, route)
			}
			pathSeen[name] = struct{}{}
			params = append(params, domain.Parameter{
				Location: domain.LocationPath,
				Name:     name,
				Type:     domain.Scalar(domain.KindString),
				Required: true,
			})

		case "query":
			if p.Schema != nil {
				if _, err := s.converter.Convert(p.Schema, currentFile); err != nil {
					return nil, nil, err
				}
			}
			params = append(params, domain.Parameter{
				Location: domain.LocationQuery,
				Name:     name,
				Type:     domain.Scalar(domain.KindString),
				Required: p.Required,
			})
		}
	}

	return params, pathSeen, nil
}

// checkPathBijection verifies that template placeholders and declared path
// parameters match one to one.
func checkPathBijection(route string, placeholders []string, pathSeen map[string]struct{}) error {
	matched := make(map[string]struct{}, len(placeholders))
	for _, name := range placeholders {
		if _, ok := pathSeen[name]; !ok {
			return domain.NewErrorf(domain.ErrUnboundPathParameter,
				"placeholder {%s} on %s has no declared path parameter", name, route)
		}
		matched[name] = struct{}{}
	}

	for name := range pathSeen {
		if _, ok := matched[name]; !ok {
			return domain.NewErrorf(domain.ErrUndeclaredPathParameter,
				"path parameter %s on %s has no placeholder", name, route)
		}
	}

	return nil
}
