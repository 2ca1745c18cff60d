package rbac

import (
	"slices"
	"strings"

	"github.com/pkg/errors"
	"noblelift-backend/models"
)

type Provider interface {
	GetRuleFunc(method, path string) (models.RbacFunc, bool)
	RegisterRule(module models.Module, permission models.Permission, roles []models.UserRole, swaggerPattern string) error
	GetPermissions(role models.UserRole) map[models.Module][]models.Permission
}

var Instance Provider

func NewHandler() {
	i := &impl{
		rules:       map[HTTPMethod]*methodRules{},
		permissions: map[models.UserRole]map[models.Module][]models.Permission{},
	}
	i.initRules()
	Instance = i
}

type impl struct {
	rules       map[HTTPMethod]*methodRules
	permissions map[models.UserRole]map[models.Module][]models.Permission
}

func (i *impl) GetRuleFunc(method, path string) (models.RbacFunc, bool) {
	rules, ok := i.rules[HTTPMethod(strings.ToUpper(method))]
	if !ok {
		return nil, false
	}
	return rules.find(normalizePath(path))
}

func (i *impl) RegisterRule(module models.Module, permission models.Permission, roles []models.UserRole, swaggerPattern string) error {
	path, method, err := parseSwaggerPattern(swaggerPattern)
	if err != nil {
		return err
	}
	i.addPermission(module, permission, roles)

	rules, ok := i.rules[method]
	if !ok {
		rules = &methodRules{exact: map[string]models.RbacFunc{}}
		i.rules[method] = rules
	}
	rules.add(path, AllowByRoleFunc(roles))
	return nil
}

// addPermission сводная таблица прав роли для фронта
func (i *impl) addPermission(module models.Module, permission models.Permission, roles []models.UserRole) {
	for _, role := range roles {
		modules, ok := i.permissions[role]
		if !ok {
			modules = map[models.Module][]models.Permission{}
			i.permissions[role] = modules
		}
		if !slices.Contains(modules[module], permission) {
			modules[module] = append(modules[module], permission)
		}
	}
}

func (i *impl) GetPermissions(role models.UserRole) map[models.Module][]models.Permission {
	return i.permissions[role]
}

func AllowByRoleFunc(accessRoles []models.UserRole) models.RbacFunc {
	return func(userID string, role models.UserRole, uri string) bool {
		return slices.Contains(accessRoles, role)
	}
}

// parseSwaggerPattern разбор строки вида "/api/v1/users [post]"
func parseSwaggerPattern(pattern string) (string, HTTPMethod, error) {
	pattern = strings.TrimSpace(pattern)
	start := strings.LastIndex(pattern, "[")
	end := strings.LastIndex(pattern, "]")
	if start == -1 || end <= start {
		return "", "", errors.Errorf("Method not provided for pattern (%v)", pattern)
	}
	method := HTTPMethod(strings.ToUpper(strings.TrimSpace(pattern[start+1 : end])))
	return normalizePath(pattern[:start]), method, nil
}

func normalizePath(path string) string {
	path = strings.TrimSpace(path)
	for strings.Contains(path, "//") {
		path = strings.ReplaceAll(path, "//", "/")
	}
	path = strings.TrimSuffix(path, "/")
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path
}
