package registry

import "fmt"

// renderTemplate substitutes positional template arguments into a
// statement template using fmt verbs. A template without placeholders
// and an empty argument list is substitution-inert. "%%" is a literal
// percent sign and never counts as a placeholder. An argument count
// that does not match the placeholder count, in either direction, is a
// UsageError so caller mistakes surface at the call site.
func renderTemplate(template string, args ...any) (string, error) {
	want := countPlaceholders(template)
	if want == 0 && len(args) == 0 {
		return template, nil
	}
	if want != len(args) {
		return "", &UsageError{
			Op:     "Stmt",
			Reason: fmt.Sprintf("template expects %d arguments, got %d", want, len(args)),
		}
	}
	return fmt.Sprintf(template, args...), nil
}

// countPlaceholders counts the format verbs in template. Every '%' not
// immediately followed by another '%' starts a verb.
func countPlaceholders(template string) int {
	count := 0
	for i := 0; i < len(template); i++ {
		if template[i] != '%' {
			continue
		}
		if i+1 < len(template) && template[i+1] == '%' {
			i++
			continue
		}
		count++
	}
	return count
}
