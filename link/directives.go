package link

import "github.com/vektah/gqlparser/v2/ast"

// HasDirectives reports whether any of names is used as a directive anywhere in document:
// on operations, variable definitions, fields, fragment spreads, inline fragments, or
// fragment definitions. It is total: a nil document or an empty name list yields false.
func HasDirectives(names []string, document *ast.QueryDocument) bool {
	if document == nil || len(names) == 0 {
		return false
	}

	wanted := make(map[string]struct{}, len(names))
	for _, name := range names {
		wanted[name] = struct{}{}
	}

	for _, operation := range document.Operations {
		if operation == nil {
			continue
		}

		if containsDirective(wanted, operation.Directives) ||
			variablesContainDirective(wanted, operation.VariableDefinitions) ||
			selectionSetContainsDirective(wanted, operation.SelectionSet) {
			return true
		}
	}

	for _, fragment := range document.Fragments {
		if fragment == nil {
			continue
		}

		if containsDirective(wanted, fragment.Directives) ||
			variablesContainDirective(wanted, fragment.VariableDefinition) ||
			selectionSetContainsDirective(wanted, fragment.SelectionSet) {
			return true
		}
	}

	return false
}

func containsDirective(wanted map[string]struct{}, directives ast.DirectiveList) bool {
	for _, directive := range directives {
		if directive == nil {
			continue
		}

		if _, ok := wanted[directive.Name]; ok {
			return true
		}
	}

	return false
}

func variablesContainDirective(wanted map[string]struct{}, variables ast.VariableDefinitionList) bool {
	for _, variable := range variables {
		if variable != nil && containsDirective(wanted, variable.Directives) {
			return true
		}
	}

	return false
}

func selectionSetContainsDirective(wanted map[string]struct{}, selectionSet ast.SelectionSet) bool {
	for _, selection := range selectionSet {
		switch s := selection.(type) {
		case *ast.Field:
			if s == nil {
				continue
			}
			if containsDirective(wanted, s.Directives) || selectionSetContainsDirective(wanted, s.SelectionSet) {
				return true
			}

		case *ast.FragmentSpread:
			if s != nil && containsDirective(wanted, s.Directives) {
				return true
			}

		case *ast.InlineFragment:
			if s == nil {
				continue
			}
			if containsDirective(wanted, s.Directives) || selectionSetContainsDirective(wanted, s.SelectionSet) {
				return true
			}
		}
	}

	return false
}
