package rbac

import (
	"strings"

	"noblelift-backend/models"
)

type HTTPMethod string

const (
	GET    HTTPMethod = "GET"
	POST   HTTPMethod = "POST"
	PUT    HTTPMethod = "PUT"
	DELETE HTTPMethod = "DELETE"
	PATCH  HTTPMethod = "PATCH"
)

// routeRule правило для шаблона вида /api/v1/tasks/{id}/take
type routeRule struct {
	segments []string
	allow    models.RbacFunc
}

func isParam(segment string) bool {
	return strings.HasPrefix(segment, "{") && strings.HasSuffix(segment, "}")
}

func (r routeRule) match(segments []string) bool {
	if len(segments) != len(r.segments) {
		return false
	}
	for n, segment := range r.segments {
		if isParam(segment) {
			if segments[n] == "" {
				return false
			}
			continue
		}
		if segment != segments[n] {
			return false
		}
	}
	return true
}

// methodRules сначала точные пути, затем шаблоны в порядке регистрации
type methodRules struct {
	exact    map[string]models.RbacFunc
	patterns []routeRule
}

func (m *methodRules) add(path string, allow models.RbacFunc) {
	segments := splitPath(path)
	for _, segment := range segments {
		if isParam(segment) {
			m.patterns = append(m.patterns, routeRule{segments: segments, allow: allow})
			return
		}
	}
	m.exact[path] = allow
}

func (m *methodRules) find(path string) (models.RbacFunc, bool) {
	if allow, ok := m.exact[path]; ok {
		return allow, true
	}
	segments := splitPath(path)
	for _, rule := range m.patterns {
		if rule.match(segments) {
			return rule.allow, true
		}
	}
	return nil, false
}

func splitPath(path string) []string {
	return strings.Split(strings.Trim(path, "/"), "/")
}
