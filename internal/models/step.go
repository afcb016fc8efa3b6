package models

// InputShape describes the shape of the answer a step expects.
type InputShape string

const (
	// ShapeText is a single-line free text answer
	ShapeText InputShape = "text"
	// ShapeMultiline is a multi-line free text answer
	ShapeMultiline InputShape = "multiline"
	// ShapeURL is a single URL answer
	ShapeURL InputShape = "url"
	// ShapeURLArray is an array of URL answers
	ShapeURLArray InputShape = "url_array"
	// ShapeSingleSelect is a single selection from an enumerated set
	ShapeSingleSelect InputShape = "single_select"
	// ShapeMultiSelect is a multiple selection from an enumerated set
	ShapeMultiSelect InputShape = "multi_select"
)

// IsArray reports whether the shape carries multiple values.
func (s InputShape) IsArray() bool {
	return s == ShapeURLArray || s == ShapeMultiSelect
}

// ValidationMode selects the deterministic strategy the pipeline applies
// to a step after the structural checks pass.
type ValidationMode string

const (
	// ModeNameShape validates a person's full name (regex plus semantic gate)
	ModeNameShape ValidationMode = "name_shape"
	// ModeAddressShape validates an email address (pure rules, never semantic)
	ModeAddressShape ValidationMode = "address_shape"
	// ModeURLOnly validates URLs against the step's URL grammar
	ModeURLOnly ValidationMode = "url_only"
	// ModeStrictCatalog matches values against a static allowed-value set
	ModeStrictCatalog ValidationMode = "strict_catalog"
	// ModeDynamicCatalog resolves values against a caller-supplied catalog snapshot
	ModeDynamicCatalog ValidationMode = "dynamic_catalog"
	// ModeFreeAccept accepts any non-gibberish text, with a semantic sanity veto
	ModeFreeAccept ValidationMode = "free_accept"
)

// URLGrammar selects the URL sub-pattern a url_only step enforces.
type URLGrammar string

const (
	// URLGrammarGeneric accepts any http(s) URL
	URLGrammarGeneric URLGrammar = "generic"
	// URLGrammarLinkedIn accepts linkedin.com profile paths only
	URLGrammarLinkedIn URLGrammar = "linkedin_profile"
)

// URLArrayPolicy selects how a url_array step treats invalid entries.
type URLArrayPolicy string

const (
	// URLPolicyKeepValid keeps the valid subset and fails only when none are valid
	URLPolicyKeepValid URLArrayPolicy = "keep_valid"
	// URLPolicyAllValid fails the whole submission on any invalid entry
	URLPolicyAllValid URLArrayPolicy = "all_valid"
)

// InputModality describes how the caller supplied the answer.
type InputModality string

const (
	// ModalitySelection means the caller chose from a presented list
	ModalitySelection InputModality = "selection"
	// ModalityText means the caller typed free text
	ModalityText InputModality = "text"
)

// StepDefinition is one question in the fixed onboarding sequence.
// Definitions are config-time data: built once at startup and never
// mutated afterwards.
type StepDefinition struct {
	Name     string     `json:"name" toml:"name"`
	Question string     `json:"question" toml:"question"`
	Shape    InputShape `json:"input_shape" toml:"input_shape"`
	Required bool       `json:"required" toml:"required"`

	Mode ValidationMode `json:"validation_mode" toml:"validation_mode"`

	// AllowedValues is the static allowed-value set for strict_catalog
	// steps. Empty for every other mode.
	AllowedValues []string `json:"allowed_values,omitempty" toml:"allowed_values"`

	// MinLength/MaxLength bound the trimmed answer (runes). Zero means
	// unbounded on that side.
	MinLength int `json:"min_length,omitempty" toml:"min_length"`
	MaxLength int `json:"max_length,omitempty" toml:"max_length"`

	// SplitConjunctions marks steps whose free-text answer is split on
	// natural-language conjunctions ("and", "or", commas) before the
	// mode check runs.
	SplitConjunctions bool `json:"split_conjunctions,omitempty" toml:"split_conjunctions"`

	// Semantic marks steps that require the semantic adjudication layer.
	Semantic bool `json:"semantic,omitempty" toml:"semantic"`

	// Grammar and ArrayPolicy apply to url_only steps.
	Grammar     URLGrammar     `json:"url_grammar,omitempty" toml:"url_grammar"`
	ArrayPolicy URLArrayPolicy `json:"url_array_policy,omitempty" toml:"url_array_policy"`

	// Example is appended to escalated recovery messages.
	Example string `json:"example,omitempty" toml:"example"`
}

// MultiSelect reports whether the step presents a multi-select input.
func (d StepDefinition) MultiSelect() bool {
	return d.Shape == ShapeMultiSelect
}

// StepPrompt is the payload returned to the caller for one step.
type StepPrompt struct {
	StepName      string     `json:"step_name"`
	InputShape    InputShape `json:"input_shape"`
	Question      string     `json:"question"`
	AllowedValues []string   `json:"allowed_values,omitempty"`
	MultiSelect   bool       `json:"multi_select,omitempty"`
}

// Prompt builds the caller-facing prompt payload for the step.
func (d StepDefinition) Prompt() StepPrompt {
	return StepPrompt{
		StepName:      d.Name,
		InputShape:    d.Shape,
		Question:      d.Question,
		AllowedValues: d.AllowedValues,
		MultiSelect:   d.MultiSelect(),
	}
}
