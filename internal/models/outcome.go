package models

// ReasonCode is the closed taxonomy of validation failure reasons.
// These are internal to the engine: the composer turns them into
// user-facing language and they are never surfaced raw.
type ReasonCode string

const (
	ReasonUnknownStep      ReasonCode = "UNKNOWN_STEP"
	ReasonOutOfOrder       ReasonCode = "OUT_OF_ORDER"
	ReasonMissingProfileID ReasonCode = "MISSING_PROFILE_ID"
	ReasonEmpty            ReasonCode = "EMPTY"
	ReasonTooShort         ReasonCode = "TOO_SHORT"
	ReasonTooLong          ReasonCode = "TOO_LONG"
	ReasonTypeMismatch     ReasonCode = "TYPE_MISMATCH"
	ReasonInvalidFullName  ReasonCode = "INVALID_FULL_NAME"
	ReasonInvalidEmail     ReasonCode = "INVALID_EMAIL"
	ReasonInvalidURL       ReasonCode = "INVALID_URL"
	ReasonEnumInvalid      ReasonCode = "ENUM_INVALID"
	ReasonEnumNoMatch      ReasonCode = "ENUM_NO_MATCH"
	ReasonGibberish        ReasonCode = "GIBBERISH"
	ReasonIrrelevant       ReasonCode = "IRRELEVANT"
	ReasonSpam             ReasonCode = "SPAM"
	ReasonUnrelated        ReasonCode = "UNRELATED"
	ReasonLowEffort        ReasonCode = "LOW_EFFORT"
	ReasonAIUnavailable    ReasonCode = "AI_UNAVAILABLE"
)

// Known reports whether the code belongs to the closed taxonomy.
func (r ReasonCode) Known() bool {
	switch r {
	case ReasonUnknownStep, ReasonOutOfOrder, ReasonMissingProfileID,
		ReasonEmpty, ReasonTooShort, ReasonTooLong, ReasonTypeMismatch,
		ReasonInvalidFullName, ReasonInvalidEmail, ReasonInvalidURL,
		ReasonEnumInvalid, ReasonEnumNoMatch,
		ReasonGibberish, ReasonIrrelevant, ReasonSpam, ReasonUnrelated,
		ReasonLowEffort, ReasonAIUnavailable:
		return true
	}
	return false
}

// NormalizedValue is the shape-normalized result of a successful
// validation. Exactly one of the three fields is populated, matching
// the step's input shape.
type NormalizedValue struct {
	Text    string         `json:"text,omitempty"`
	List    []string       `json:"list,omitempty"`
	Entries []CatalogEntry `json:"entries,omitempty"`
}

// TextValue wraps a scalar normalized value.
func TextValue(s string) NormalizedValue { return NormalizedValue{Text: s} }

// ListValue wraps a string-array normalized value.
func ListValue(v []string) NormalizedValue { return NormalizedValue{List: v} }

// EntriesValue wraps a catalog-entry-array normalized value.
func EntriesValue(v []CatalogEntry) NormalizedValue { return NormalizedValue{Entries: v} }

// IsEmpty reports whether no variant carries data.
func (v NormalizedValue) IsEmpty() bool {
	return v.Text == "" && len(v.List) == 0 && len(v.Entries) == 0
}

// Payload returns the JSON-facing representation of the value.
func (v NormalizedValue) Payload() interface{} {
	switch {
	case len(v.Entries) > 0:
		return v.Entries
	case len(v.List) > 0:
		return v.List
	default:
		return v.Text
	}
}

// ValidationOutcome is the tagged result of one pipeline run: either
// VALID carrying a normalized value, or INVALID carrying one reason
// code. Never both.
type ValidationOutcome struct {
	valid  bool
	value  NormalizedValue
	reason ReasonCode
}

// Valid builds a VALID outcome carrying the normalized value.
func Valid(value NormalizedValue) ValidationOutcome {
	return ValidationOutcome{valid: true, value: value}
}

// Invalid builds an INVALID outcome carrying the reason code.
func Invalid(reason ReasonCode) ValidationOutcome {
	return ValidationOutcome{reason: reason}
}

// IsValid reports whether the outcome is the VALID variant.
func (o ValidationOutcome) IsValid() bool { return o.valid }

// Value returns the normalized value. Meaningful only when IsValid.
func (o ValidationOutcome) Value() NormalizedValue { return o.value }

// Reason returns the failure reason. Meaningful only when !IsValid.
func (o ValidationOutcome) Reason() ReasonCode { return o.reason }
