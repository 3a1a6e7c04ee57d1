package device

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Mutombe/zim-rec-sub000/internal/domain/dto"
)

// ValidationError rejects an edit field by field; the draft keeps the prior
// valid values for every listed field.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		names = append(names, f)
	}
	sort.Strings(names)
	return "invalid fields: " + strings.Join(names, ", ")
}

// IncompleteStepError blocks a forward transition until the step's required
// fields are filled.
type IncompleteStepError struct {
	Step    Step
	Missing []string
}

func (e *IncompleteStepError) Error() string {
	return fmt.Sprintf("step %s incomplete, missing: %s", e.Step, strings.Join(e.Missing, ", "))
}

// MissingDocumentsError is the authoritative pre-submit check failing: it
// names the absent documents by label and guarantees no create call was made.
type MissingDocumentsError struct {
	Keys []dto.DocumentKey
}

func (e *MissingDocumentsError) Error() string {
	labels := make([]string, len(e.Keys))
	for i, k := range e.Keys {
		labels[i] = k.Label()
	}
	return "missing required documents: " + strings.Join(labels, ", ")
}

func (e *MissingDocumentsError) Labels() []string {
	labels := make([]string, len(e.Keys))
	for i, k := range e.Keys {
		labels[i] = k.Label()
	}
	return labels
}
