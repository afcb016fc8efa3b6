package steps

import (
	"github.com/ternarybob/rogo/internal/models"
)

// DefaultLanguages is the static allowed-value set for the languages step.
var DefaultLanguages = []string{
	"English", "Spanish", "French", "German", "Italian", "Portuguese",
	"Dutch", "Japanese", "Mandarin", "Arabic", "Hindi", "Russian",
}

// DefaultFlow returns the ordered intake flow. The order is total and
// fixed: next step and last step are pure functions of position.
func DefaultFlow() []models.StepDefinition {
	return []models.StepDefinition{
		{
			Name:     "full_name",
			Question: "Welcome! Let's set up your profile. What's your full name?",
			Shape:    models.ShapeText,
			Required: true,
			Mode:     models.ModeNameShape,
			Semantic: true,
			Example:  "Maria del Carmen Silva",
		},
		{
			Name:     "email",
			Question: "What email address should we use to reach you?",
			Shape:    models.ShapeText,
			Required: true,
			Mode:     models.ModeAddressShape,
			Example:  "maria@example.com",
		},
		{
			Name:      "headline",
			Question:  "Give us a one-line headline for your profile.",
			Shape:     models.ShapeText,
			Required:  true,
			Mode:      models.ModeFreeAccept,
			Semantic:  true,
			MinLength: 10,
			MaxLength: 120,
			Example:   "Food historian and walking-tour host in Lisbon",
		},
		{
			Name:      "bio",
			Question:  "Tell us about yourself. What should guests know about you and your background?",
			Shape:     models.ShapeMultiline,
			Required:  true,
			Mode:      models.ModeFreeAccept,
			Semantic:  true,
			MinLength: 40,
			MaxLength: 1200,
		},
		{
			Name:              "specialties",
			Question:          "What are your specialties? List a few things you do best.",
			Shape:             models.ShapeText,
			Required:          true,
			Mode:              models.ModeFreeAccept,
			Semantic:          true,
			SplitConjunctions: true,
			MinLength:         3,
			MaxLength:         300,
			Example:           "street food, local history, photography",
		},
		{
			Name:              "languages",
			Question:          "Which languages do you speak with guests?",
			Shape:             models.ShapeMultiSelect,
			Required:          true,
			Mode:              models.ModeStrictCatalog,
			AllowedValues:     DefaultLanguages,
			SplitConjunctions: true,
			Semantic:          true,
		},
		{
			Name:     "topics",
			Question: "Which topics do your experiences cover?",
			Shape:    models.ShapeMultiSelect,
			Required: true,
			Mode:     models.ModeDynamicCatalog,
			Semantic: true,
		},
		{
			Name:     "audiences",
			Question: "Who are your experiences best suited for?",
			Shape:    models.ShapeMultiSelect,
			Required: true,
			Mode:     models.ModeDynamicCatalog,
			Semantic: true,
		},
		{
			Name:     "website",
			Question: "Do you have a website? Share the address, or leave this empty.",
			Shape:    models.ShapeURL,
			Required: false,
			Mode:     models.ModeURLOnly,
			Grammar:  models.URLGrammarGeneric,
			Example:  "https://mariasilva.example.com",
		},
		{
			Name:     "linkedin",
			Question: "Share your LinkedIn profile if you have one.",
			Shape:    models.ShapeURL,
			Required: false,
			Mode:     models.ModeURLOnly,
			Grammar:  models.URLGrammarLinkedIn,
			Example:  "https://www.linkedin.com/in/maria-silva",
		},
		{
			Name:        "social_links",
			Question:    "Any social media links you'd like on your profile?",
			Shape:       models.ShapeURLArray,
			Required:    false,
			Mode:        models.ModeURLOnly,
			Grammar:     models.URLGrammarGeneric,
			ArrayPolicy: models.URLPolicyKeepValid,
		},
		{
			Name:        "work_samples",
			Question:    "Finally, link up to three examples of your work: articles, videos, or past events.",
			Shape:       models.ShapeURLArray,
			Required:    false,
			Mode:        models.ModeURLOnly,
			Grammar:     models.URLGrammarGeneric,
			ArrayPolicy: models.URLPolicyAllValid,
		},
	}
}

// NewDefaultCatalog builds the catalog over the default flow. The flow
// is validated at startup; a bad definition list is a programming error.
func NewDefaultCatalog() *Catalog {
	catalog, err := NewCatalog(DefaultFlow())
	if err != nil {
		panic(err)
	}
	return catalog
}
