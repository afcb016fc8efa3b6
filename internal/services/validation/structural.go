package validation

import (
	"strings"
	"unicode/utf8"

	"github.com/ternarybob/rogo/internal/models"
)

// shaped is the output of the structural layer: the answer reduced to
// the step's declared shape, trimmed and stripped of empty entries.
type shaped struct {
	text   string
	list   []string
	isList bool
}

func (s shaped) empty() bool {
	if s.isList {
		return len(s.list) == 0
	}
	return s.text == ""
}

// shapeCheck enforces required/empty, scalar-versus-array and length
// bounds for the step, producing the shape-normalized value. The
// second return is the failure reason; empty reason means pass.
//
// An empty answer to a non-required step passes with an empty value:
// the caller treats that as "skipped" and advances the flow.
func shapeCheck(def models.StepDefinition, answer models.RawAnswer) (shaped, models.ReasonCode) {
	if def.Shape.IsArray() {
		return shapeArray(def, answer)
	}
	return shapeScalar(def, answer)
}

func shapeScalar(def models.StepDefinition, answer models.RawAnswer) (shaped, models.ReasonCode) {
	if answer.IsList {
		return shaped{}, models.ReasonTypeMismatch
	}

	text := strings.TrimSpace(answer.Text)
	if text == "" {
		if def.Required {
			return shaped{}, models.ReasonEmpty
		}
		return shaped{}, ""
	}

	length := utf8.RuneCountInString(text)
	if def.MinLength > 0 && length < def.MinLength {
		return shaped{}, models.ReasonTooShort
	}
	if def.MaxLength > 0 && length > def.MaxLength {
		return shaped{}, models.ReasonTooLong
	}

	return shaped{text: text}, ""
}

func shapeArray(def models.StepDefinition, answer models.RawAnswer) (shaped, models.ReasonCode) {
	// Free text for an array step is legal: the deterministic layer
	// splits it on conjunctions. A structured selection is filtered
	// down to its non-empty entries here.
	if !answer.IsList {
		text := strings.TrimSpace(answer.Text)
		if text == "" {
			if def.Required {
				return shaped{}, models.ReasonEmpty
			}
			return shaped{isList: true}, ""
		}
		return shaped{text: text}, ""
	}

	var list []string
	for _, item := range answer.List {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			list = append(list, trimmed)
		}
	}

	if len(list) == 0 {
		if def.Required {
			return shaped{}, models.ReasonEmpty
		}
		return shaped{isList: true}, ""
	}

	return shaped{list: list, isList: true}, ""
}

// values returns the answer as a flat list of candidate values,
// splitting free text on conjunctions when the step (or shape) calls
// for it.
func (s shaped) values(split bool) []string {
	if s.isList {
		return s.list
	}
	if s.text == "" {
		return nil
	}
	if split {
		return splitConjunctions(s.text)
	}
	return []string{s.text}
}
