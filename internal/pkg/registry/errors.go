package registry

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bytedance/sonic"
)

// FieldErrors is a 4xx validation body keyed by wire field name, as the
// registry returns it.
type FieldErrors map[string][]string

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return "registry rejected fields: " + strings.Join(fields, ", ")
}

// APIError is any non-2xx registry answer. Fields is populated when the body
// parses as a field-keyed validation object; Raw always carries the opaque
// body for the store's last-error slot.
type APIError struct {
	Status int
	Raw    []byte
	Fields FieldErrors
}

func (e *APIError) Error() string {
	if len(e.Fields) > 0 {
		return fmt.Sprintf("registry: status %d: %s", e.Status, e.Fields.Error())
	}
	return fmt.Sprintf("registry: status %d", e.Status)
}

// Transient reports whether a retry can help: server-side failures only.
// Validation and auth answers are final.
func (e *APIError) Transient() bool {
	return e.Status >= 500
}

func parseFieldErrors(raw []byte) FieldErrors {
	var keyed map[string][]string
	if err := sonic.Unmarshal(raw, &keyed); err == nil && len(keyed) > 0 {
		return keyed
	}

	// Some endpoints answer {"field": "message"} instead of lists.
	var flat map[string]string
	if err := sonic.Unmarshal(raw, &flat); err == nil && len(flat) > 0 {
		keyed = make(FieldErrors, len(flat))
		for f, msg := range flat {
			keyed[f] = []string{msg}
		}
		return keyed
	}
	return nil
}
