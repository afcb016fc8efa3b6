package validation

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/rogo/internal/interfaces"
	"github.com/ternarybob/rogo/internal/models"
	"github.com/ternarybob/rogo/internal/services/steps"
)

// fakeTextService scripts the semantic layer for pipeline tests.
type fakeTextService struct {
	result  *interfaces.AdjudicationResult
	err     error
	calls   int
	lastReq *interfaces.AdjudicationRequest
}

func (f *fakeTextService) Adjudicate(_ context.Context, req *interfaces.AdjudicationRequest) (*interfaces.AdjudicationResult, error) {
	f.calls++
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func (f *fakeTextService) Compose(context.Context, string) (string, error) {
	return "", errors.New("not used in validation tests")
}

func newTestPipeline(text interfaces.TextService) *Pipeline {
	return NewPipeline(steps.NewDefaultCatalog(), text, arbor.NewLogger())
}

func topicsSnapshot() *models.CatalogSnapshot {
	return &models.CatalogSnapshot{
		Step: "topics",
		Entries: []models.CatalogEntry{
			{ID: "top_1", Name: "Food & Drink", Slug: "food-drink"},
			{ID: "top_2", Name: "History", Slug: "history"},
			{ID: "top_3", Name: "Photography", Slug: "photography"},
		},
	}
}

func TestValidateRouting(t *testing.T) {
	p := newTestPipeline(nil)
	ctx := context.Background()

	t.Run("unknown step", func(t *testing.T) {
		out := p.Validate(ctx, &Input{StepName: "shoe_size", Answer: models.TextAnswer("42")})
		if out.IsValid() || out.Reason() != models.ReasonUnknownStep {
			t.Errorf("got %+v, want UNKNOWN_STEP", out)
		}
	})

	t.Run("out of order", func(t *testing.T) {
		out := p.Validate(ctx, &Input{
			StepName:     "bio",
			Answer:       models.TextAnswer("some perfectly reasonable biography text for the test"),
			ExpectedStep: "email",
		})
		if out.IsValid() || out.Reason() != models.ReasonOutOfOrder {
			t.Errorf("got %+v, want OUT_OF_ORDER", out)
		}
	})

	t.Run("matching expected step passes through", func(t *testing.T) {
		out := p.Validate(ctx, &Input{
			StepName:     "email",
			Answer:       models.TextAnswer("a@b.co"),
			ExpectedStep: "email",
		})
		if !out.IsValid() {
			t.Errorf("got reason %s, want valid", out.Reason())
		}
	})
}

func TestValidateStructural(t *testing.T) {
	p := newTestPipeline(nil)
	ctx := context.Background()

	tests := []struct {
		name   string
		step   string
		answer models.RawAnswer
		reason models.ReasonCode
	}{
		{"required empty", "full_name", models.TextAnswer("   "), models.ReasonEmpty},
		{"list for scalar step", "full_name", models.ListAnswer([]string{"Max", "Doe"}), models.ReasonTypeMismatch},
		{"below min length", "headline", models.TextAnswer("too short"), models.ReasonTooShort},
		{"above max length", "specialties", models.TextAnswer(longText(301)), models.ReasonTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := p.Validate(ctx, &Input{StepName: tt.step, Answer: tt.answer})
			if out.IsValid() || out.Reason() != tt.reason {
				t.Errorf("got %+v, want %s", out, tt.reason)
			}
		})
	}

	t.Run("optional empty step is a valid skip", func(t *testing.T) {
		out := p.Validate(ctx, &Input{StepName: "website", Answer: models.TextAnswer("")})
		if !out.IsValid() {
			t.Fatalf("got reason %s, want valid", out.Reason())
		}
		if !out.Value().IsEmpty() {
			t.Errorf("skip value = %+v, want empty", out.Value())
		}
	})
}

func TestValidateFullName(t *testing.T) {
	ctx := context.Background()

	t.Run("rule pass without service", func(t *testing.T) {
		p := newTestPipeline(nil)
		out := p.Validate(ctx, &Input{StepName: "full_name", Answer: models.TextAnswer("  Max   Doe ")})
		if !out.IsValid() {
			t.Fatalf("got reason %s, want valid", out.Reason())
		}
		if out.Value().Text != "Max Doe" {
			t.Errorf("normalized = %q, want %q", out.Value().Text, "Max Doe")
		}
	})

	t.Run("rule failure skips the service", func(t *testing.T) {
		svc := &fakeTextService{result: &interfaces.AdjudicationResult{Valid: true}}
		p := newTestPipeline(svc)
		out := p.Validate(ctx, &Input{StepName: "full_name", Answer: models.TextAnswer("Max")})
		if out.IsValid() || out.Reason() != models.ReasonInvalidFullName {
			t.Errorf("got %+v, want INVALID_FULL_NAME", out)
		}
		if svc.calls != 0 {
			t.Errorf("service called %d times for a rule failure", svc.calls)
		}
	})

	t.Run("semantic veto maps to full-name reason", func(t *testing.T) {
		svc := &fakeTextService{result: &interfaces.AdjudicationResult{Valid: false, Reason: models.ReasonGibberish}}
		p := newTestPipeline(svc)
		out := p.Validate(ctx, &Input{StepName: "full_name", Answer: models.TextAnswer("Asdf Qwer")})
		if out.IsValid() || out.Reason() != models.ReasonInvalidFullName {
			t.Errorf("got %+v, want INVALID_FULL_NAME", out)
		}
	})

	t.Run("service failure fails open", func(t *testing.T) {
		svc := &fakeTextService{err: errors.New("timeout")}
		p := newTestPipeline(svc)
		out := p.Validate(ctx, &Input{StepName: "full_name", Answer: models.TextAnswer("Max Doe")})
		if !out.IsValid() {
			t.Errorf("got reason %s, want valid fail-open", out.Reason())
		}
	})
}

func TestValidateEmail(t *testing.T) {
	ctx := context.Background()
	svc := &fakeTextService{err: errors.New("should never be called")}
	p := newTestPipeline(svc)

	tests := []struct {
		name  string
		input string
		valid bool
	}{
		{"minimal address", "a@b.co", true},
		{"plus tag", "maria+tours@example.com", true},
		{"missing at", "maria.example.com", false},
		{"missing domain", "maria@", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := p.Validate(ctx, &Input{StepName: "email", Answer: models.TextAnswer(tt.input)})
			if out.IsValid() != tt.valid {
				t.Errorf("Validate(email, %q) valid = %v, want %v (reason %s)", tt.input, out.IsValid(), tt.valid, out.Reason())
			}
			if !tt.valid && out.Reason() != models.ReasonInvalidEmail {
				t.Errorf("reason = %s, want INVALID_EMAIL", out.Reason())
			}
		})
	}

	if svc.calls != 0 {
		t.Errorf("semantic service called %d times for email validation", svc.calls)
	}
}

func TestValidateURLSteps(t *testing.T) {
	ctx := context.Background()
	p := newTestPipeline(nil)

	t.Run("website generic grammar", func(t *testing.T) {
		out := p.Validate(ctx, &Input{StepName: "website", Answer: models.TextAnswer("https://mariasilva.example.com")})
		if !out.IsValid() {
			t.Fatalf("got reason %s, want valid", out.Reason())
		}

		out = p.Validate(ctx, &Input{StepName: "website", Answer: models.TextAnswer("mariasilva.example.com")})
		if out.IsValid() || out.Reason() != models.ReasonInvalidURL {
			t.Errorf("got %+v, want INVALID_URL", out)
		}
	})

	t.Run("linkedin rejects non-profile urls", func(t *testing.T) {
		out := p.Validate(ctx, &Input{StepName: "linkedin", Answer: models.TextAnswer("https://example.com/in/maria")})
		if out.IsValid() || out.Reason() != models.ReasonInvalidURL {
			t.Errorf("got %+v, want INVALID_URL", out)
		}

		out = p.Validate(ctx, &Input{StepName: "linkedin", Answer: models.TextAnswer("https://www.linkedin.com/in/maria-silva")})
		if !out.IsValid() {
			t.Errorf("got reason %s, want valid", out.Reason())
		}
	})

	t.Run("social links keep valid subset", func(t *testing.T) {
		out := p.Validate(ctx, &Input{
			StepName: "social_links",
			Answer:   models.ListAnswer([]string{"https://instagram.com/maria", "not a url", "https://instagram.com/maria"}),
		})
		if !out.IsValid() {
			t.Fatalf("got reason %s, want valid", out.Reason())
		}
		want := []string{"https://instagram.com/maria"}
		if !reflect.DeepEqual(out.Value().List, want) {
			t.Errorf("kept = %v, want %v", out.Value().List, want)
		}
	})

	t.Run("social links all invalid", func(t *testing.T) {
		out := p.Validate(ctx, &Input{
			StepName: "social_links",
			Answer:   models.ListAnswer([]string{"nope", "also nope"}),
		})
		if out.IsValid() || out.Reason() != models.ReasonInvalidURL {
			t.Errorf("got %+v, want INVALID_URL", out)
		}
	})

	t.Run("work samples reject on any invalid", func(t *testing.T) {
		out := p.Validate(ctx, &Input{
			StepName: "work_samples",
			Answer:   models.ListAnswer([]string{"https://example.com/article", "broken"}),
		})
		if out.IsValid() || out.Reason() != models.ReasonInvalidURL {
			t.Errorf("got %+v, want INVALID_URL", out)
		}
	})

	t.Run("work samples all valid", func(t *testing.T) {
		out := p.Validate(ctx, &Input{
			StepName: "work_samples",
			Answer:   models.ListAnswer([]string{"https://example.com/a", "https://example.com/b"}),
		})
		if !out.IsValid() {
			t.Errorf("got reason %s, want valid", out.Reason())
		}
	})

	t.Run("url array accepts free text split on conjunctions", func(t *testing.T) {
		out := p.Validate(ctx, &Input{
			StepName: "social_links",
			Answer:   models.TextAnswer("https://example.com/a and https://example.com/b"),
		})
		if !out.IsValid() {
			t.Fatalf("got reason %s, want valid", out.Reason())
		}
		want := []string{"https://example.com/a", "https://example.com/b"}
		if !reflect.DeepEqual(out.Value().List, want) {
			t.Errorf("kept = %v, want %v", out.Value().List, want)
		}
	})
}

func TestValidateStrictCatalog(t *testing.T) {
	ctx := context.Background()

	t.Run("selection normalizes casing", func(t *testing.T) {
		p := newTestPipeline(nil)
		out := p.Validate(ctx, &Input{
			StepName: "languages",
			Answer:   models.ListAnswer([]string{"english", "SPANISH", "english"}),
			Modality: models.ModalitySelection,
		})
		if !out.IsValid() {
			t.Fatalf("got reason %s, want valid", out.Reason())
		}
		want := []string{"English", "Spanish"}
		if !reflect.DeepEqual(out.Value().List, want) {
			t.Errorf("normalized = %v, want %v", out.Value().List, want)
		}
	})

	t.Run("selection with no matches", func(t *testing.T) {
		p := newTestPipeline(nil)
		out := p.Validate(ctx, &Input{
			StepName: "languages",
			Answer:   models.ListAnswer([]string{"Klingon"}),
			Modality: models.ModalitySelection,
		})
		if out.IsValid() || out.Reason() != models.ReasonEnumInvalid {
			t.Errorf("got %+v, want ENUM_INVALID", out)
		}
	})

	t.Run("free text resolves synonyms through the service", func(t *testing.T) {
		svc := &fakeTextService{result: &interfaces.AdjudicationResult{Valid: true, Matched: []string{"Spanish"}}}
		p := newTestPipeline(svc)
		out := p.Validate(ctx, &Input{
			StepName: "languages",
			Answer:   models.TextAnswer("English and Castilian"),
			Modality: models.ModalityText,
		})
		if !out.IsValid() {
			t.Fatalf("got reason %s, want valid", out.Reason())
		}
		want := []string{"English", "Spanish"}
		if !reflect.DeepEqual(out.Value().List, want) {
			t.Errorf("normalized = %v, want %v", out.Value().List, want)
		}
		if len(svc.lastReq.Vocabulary) != len(steps.DefaultLanguages) {
			t.Errorf("vocabulary size = %d, want %d", len(svc.lastReq.Vocabulary), len(steps.DefaultLanguages))
		}
	})

	t.Run("free text with service down and no direct matches", func(t *testing.T) {
		svc := &fakeTextService{err: errors.New("timeout")}
		p := newTestPipeline(svc)
		out := p.Validate(ctx, &Input{
			StepName: "languages",
			Answer:   models.TextAnswer("Castilian"),
			Modality: models.ModalityText,
		})
		if out.IsValid() || out.Reason() != models.ReasonAIUnavailable {
			t.Errorf("got %+v, want AI_UNAVAILABLE", out)
		}
	})

	t.Run("free text with service down keeps direct matches", func(t *testing.T) {
		svc := &fakeTextService{err: errors.New("timeout")}
		p := newTestPipeline(svc)
		out := p.Validate(ctx, &Input{
			StepName: "languages",
			Answer:   models.TextAnswer("English and Castilian"),
			Modality: models.ModalityText,
		})
		if !out.IsValid() {
			t.Fatalf("got reason %s, want valid", out.Reason())
		}
		if !reflect.DeepEqual(out.Value().List, []string{"English"}) {
			t.Errorf("kept = %v, want [English]", out.Value().List)
		}
	})

	t.Run("fully matched free text skips the service", func(t *testing.T) {
		svc := &fakeTextService{err: errors.New("should not be called")}
		p := newTestPipeline(svc)
		out := p.Validate(ctx, &Input{
			StepName: "languages",
			Answer:   models.TextAnswer("English, French"),
			Modality: models.ModalityText,
		})
		if !out.IsValid() {
			t.Fatalf("got reason %s, want valid", out.Reason())
		}
		if svc.calls != 0 {
			t.Errorf("service called %d times for fully matched input", svc.calls)
		}
	})
}

func TestValidateDynamicCatalog(t *testing.T) {
	ctx := context.Background()

	t.Run("selection resolves ids and slugs", func(t *testing.T) {
		p := newTestPipeline(nil)
		out := p.Validate(ctx, &Input{
			StepName: "topics",
			Answer:   models.ListAnswer([]string{"top_1", "history", "bogus"}),
			Modality: models.ModalitySelection,
			Snapshot: topicsSnapshot(),
		})
		if !out.IsValid() {
			t.Fatalf("got reason %s, want valid", out.Reason())
		}
		entries := out.Value().Entries
		if len(entries) != 2 || entries[0].Name != "Food & Drink" || entries[1].Name != "History" {
			t.Errorf("resolved = %+v, want Food & Drink, History", entries)
		}
	})

	t.Run("selection with nothing resolvable", func(t *testing.T) {
		p := newTestPipeline(nil)
		out := p.Validate(ctx, &Input{
			StepName: "topics",
			Answer:   models.ListAnswer([]string{"bogus"}),
			Modality: models.ModalitySelection,
			Snapshot: topicsSnapshot(),
		})
		if out.IsValid() || out.Reason() != models.ReasonEnumInvalid {
			t.Errorf("got %+v, want ENUM_INVALID", out)
		}
	})

	t.Run("free text fails closed without the service", func(t *testing.T) {
		svc := &fakeTextService{err: errors.New("timeout")}
		p := newTestPipeline(svc)
		out := p.Validate(ctx, &Input{
			StepName: "topics",
			Answer:   models.TextAnswer("food and old buildings"),
			Modality: models.ModalityText,
			Snapshot: topicsSnapshot(),
		})
		if out.IsValid() || out.Reason() != models.ReasonAIUnavailable {
			t.Errorf("got %+v, want AI_UNAVAILABLE", out)
		}
	})

	t.Run("free text resolves matched names", func(t *testing.T) {
		svc := &fakeTextService{result: &interfaces.AdjudicationResult{Valid: true, Matched: []string{"Food & Drink", "History"}}}
		p := newTestPipeline(svc)
		out := p.Validate(ctx, &Input{
			StepName: "topics",
			Answer:   models.TextAnswer("food and old buildings"),
			Modality: models.ModalityText,
			Snapshot: topicsSnapshot(),
		})
		if !out.IsValid() {
			t.Fatalf("got reason %s, want valid", out.Reason())
		}
		if len(out.Value().Entries) != 2 {
			t.Errorf("resolved %d entries, want 2", len(out.Value().Entries))
		}
	})

	t.Run("matched names outside the snapshot", func(t *testing.T) {
		svc := &fakeTextService{result: &interfaces.AdjudicationResult{Valid: true, Matched: []string{"Astronomy"}}}
		p := newTestPipeline(svc)
		out := p.Validate(ctx, &Input{
			StepName: "topics",
			Answer:   models.TextAnswer("stargazing"),
			Modality: models.ModalityText,
			Snapshot: topicsSnapshot(),
		})
		if out.IsValid() || out.Reason() != models.ReasonEnumNoMatch {
			t.Errorf("got %+v, want ENUM_NO_MATCH", out)
		}
	})
}

func TestValidateFreeAccept(t *testing.T) {
	ctx := context.Background()

	t.Run("gibberish rejected before the service", func(t *testing.T) {
		svc := &fakeTextService{result: &interfaces.AdjudicationResult{Valid: true}}
		p := newTestPipeline(svc)
		out := p.Validate(ctx, &Input{StepName: "headline", Answer: models.TextAnswer("aaaaaaaaaaaa")})
		if out.IsValid() || out.Reason() != models.ReasonGibberish {
			t.Errorf("got %+v, want GIBBERISH", out)
		}
		if svc.calls != 0 {
			t.Errorf("service called %d times for structural gibberish", svc.calls)
		}
	})

	t.Run("semantic veto passes through", func(t *testing.T) {
		svc := &fakeTextService{result: &interfaces.AdjudicationResult{Valid: false, Reason: models.ReasonIrrelevant}}
		p := newTestPipeline(svc)
		out := p.Validate(ctx, &Input{StepName: "headline", Answer: models.TextAnswer("buy cheap watches online")})
		if out.IsValid() || out.Reason() != models.ReasonIrrelevant {
			t.Errorf("got %+v, want IRRELEVANT", out)
		}
	})

	t.Run("service failure fails open", func(t *testing.T) {
		svc := &fakeTextService{err: errors.New("timeout")}
		p := newTestPipeline(svc)
		out := p.Validate(ctx, &Input{StepName: "headline", Answer: models.TextAnswer("Food historian and tour host")})
		if !out.IsValid() {
			t.Errorf("got reason %s, want valid fail-open", out.Reason())
		}
	})

	t.Run("specialties normalize to a comma list", func(t *testing.T) {
		p := newTestPipeline(nil)
		out := p.Validate(ctx, &Input{
			StepName: "specialties",
			Answer:   models.TextAnswer("street food and local history / photography"),
		})
		if !out.IsValid() {
			t.Fatalf("got reason %s, want valid", out.Reason())
		}
		want := "street food, local history, photography"
		if out.Value().Text != want {
			t.Errorf("normalized = %q, want %q", out.Value().Text, want)
		}
	})

	t.Run("profile context is forwarded", func(t *testing.T) {
		svc := &fakeTextService{result: &interfaces.AdjudicationResult{Valid: true}}
		p := newTestPipeline(svc)
		out := p.Validate(ctx, &Input{
			StepName:       "headline",
			Answer:         models.TextAnswer("Lisbon food historian"),
			ProfileContext: "full_name: Maria Silva",
		})
		if !out.IsValid() {
			t.Fatalf("got reason %s, want valid", out.Reason())
		}
		if svc.lastReq.ProfileContext != "full_name: Maria Silva" {
			t.Errorf("context = %q, want forwarded snippet", svc.lastReq.ProfileContext)
		}
	})
}

func longText(n int) string {
	out := make([]byte, 0, n*2)
	for len(out) < n*2 {
		out = append(out, "listing words "...)
	}
	return string(out[:n*2])
}
