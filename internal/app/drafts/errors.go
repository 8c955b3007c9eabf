package drafts

import (
	"sort"
	"strings"
)

// ValidationError reports which form fields blocked a draft from being built.
type ValidationError struct {
	// Fields maps a form field name to the reason it was rejected.
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return "invalid trip form"
	}
	names := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		names = append(names, k)
	}
	sort.Strings(names)
	return "please fill in all fields: " + strings.Join(names, ", ")
}
