package models

import (
	"encoding/json"
	"fmt"
)

// RawAnswer is the caller-supplied answer before any validation: a
// single string for scalar steps, a string array for selections.
type RawAnswer struct {
	Text   string
	List   []string
	IsList bool
}

// TextAnswer wraps a scalar raw answer.
func TextAnswer(s string) RawAnswer { return RawAnswer{Text: s} }

// ListAnswer wraps an array raw answer.
func ListAnswer(v []string) RawAnswer { return RawAnswer{List: v, IsList: true} }

// UnmarshalJSON accepts either a JSON string or a JSON string array.
func (a *RawAnswer) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*a = TextAnswer(s)
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*a = ListAnswer(list)
		return nil
	}

	return fmt.Errorf("answer must be a string or an array of strings")
}

// MarshalJSON emits the variant that is populated.
func (a RawAnswer) MarshalJSON() ([]byte, error) {
	if a.IsList {
		return json.Marshal(a.List)
	}
	return json.Marshal(a.Text)
}

// String renders the answer for prompts and logs.
func (a RawAnswer) String() string {
	if a.IsList {
		out := ""
		for i, item := range a.List {
			if i > 0 {
				out += ", "
			}
			out += item
		}
		return out
	}
	return a.Text
}
