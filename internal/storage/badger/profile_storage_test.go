package badger

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/rogo/internal/interfaces"
	"github.com/ternarybob/rogo/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

func newTestDB(t *testing.T) *BadgerDB {
	t.Helper()

	options := badgerhold.DefaultOptions
	options.Dir = t.TempDir()
	options.ValueDir = options.Dir
	options.Logger = nil

	store, err := badgerhold.Open(options)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })

	return &BadgerDB{store: store, logger: arbor.NewLogger()}
}

var testFieldNames = []string{"full_name", "email", "headline"}

func newTestProfileStorage(t *testing.T) interfaces.ProfileStorage {
	t.Helper()
	return NewProfileStorage(newTestDB(t), arbor.NewLogger(), testFieldNames)
}

func TestProfileLifecycle(t *testing.T) {
	storage := newTestProfileStorage(t)
	ctx := context.Background()

	profile := &models.Profile{
		ID:             "prf_test1",
		Fields:         map[string]models.NormalizedValue{"full_name": models.TextValue("Maria Silva")},
		CurrentStep:    "email",
		CompletedSteps: []string{"full_name"},
	}
	if err := storage.CreateOnFirstStep(ctx, profile); err != nil {
		t.Fatalf("CreateOnFirstStep failed: %v", err)
	}

	// Creating again with the same id must fail, not merge.
	if err := storage.CreateOnFirstStep(ctx, profile); err == nil {
		t.Fatal("duplicate create succeeded")
	}

	got, err := storage.GetProfile(ctx, "prf_test1")
	if err != nil {
		t.Fatalf("GetProfile failed: %v", err)
	}
	if got.CurrentStep != "email" {
		t.Errorf("CurrentStep = %q, want email", got.CurrentStep)
	}
	if got.Fields["full_name"].Text != "Maria Silva" {
		t.Errorf("stored name = %q", got.Fields["full_name"].Text)
	}
	if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
		t.Error("timestamps not set on create")
	}

	count, err := storage.CountProfiles(ctx)
	if err != nil || count != 1 {
		t.Errorf("CountProfiles = %d, %v, want 1", count, err)
	}
}

func TestProfileAdvance(t *testing.T) {
	storage := newTestProfileStorage(t)
	ctx := context.Background()

	if err := storage.CreateOnFirstStep(ctx, &models.Profile{
		ID:             "prf_adv",
		Fields:         map[string]models.NormalizedValue{"full_name": models.TextValue("Maria Silva")},
		CurrentStep:    "email",
		CompletedSteps: []string{"full_name"},
	}); err != nil {
		t.Fatal(err)
	}

	updated, err := storage.Advance(ctx, "prf_adv", interfaces.ProfileAdvance{
		FieldName:      "email",
		Value:          models.TextValue("maria@example.com"),
		ExpectedStep:   "email",
		NextStep:       "headline",
		CompletedSteps: []string{"full_name", "email"},
	})
	if err != nil {
		t.Fatalf("Advance failed: %v", err)
	}
	if updated.CurrentStep != "headline" {
		t.Errorf("CurrentStep = %q, want headline", updated.CurrentStep)
	}
	if updated.Fields["email"].Text != "maria@example.com" {
		t.Errorf("email field = %q", updated.Fields["email"].Text)
	}

	// The same advance again is now stale: the stored step moved on.
	_, err = storage.Advance(ctx, "prf_adv", interfaces.ProfileAdvance{
		FieldName:    "email",
		Value:        models.TextValue("other@example.com"),
		ExpectedStep: "email",
		NextStep:     "headline",
	})
	if !errors.Is(err, interfaces.ErrStaleStep) {
		t.Errorf("stale advance error = %v, want ErrStaleStep", err)
	}

	// The first write survives.
	got, err := storage.GetProfile(ctx, "prf_adv")
	if err != nil {
		t.Fatal(err)
	}
	if got.Fields["email"].Text != "maria@example.com" {
		t.Errorf("email overwritten to %q", got.Fields["email"].Text)
	}

	_, err = storage.Advance(ctx, "prf_missing", interfaces.ProfileAdvance{ExpectedStep: "email"})
	if !errors.Is(err, interfaces.ErrNotFound) {
		t.Errorf("missing profile error = %v, want ErrNotFound", err)
	}
}

// Field names outside the configured set never reach the store, on
// either write path. The progress advance itself still applies.
func TestProfileDropsUnknownFields(t *testing.T) {
	storage := newTestProfileStorage(t)
	ctx := context.Background()

	if err := storage.CreateOnFirstStep(ctx, &models.Profile{
		ID: "prf_filter",
		Fields: map[string]models.NormalizedValue{
			"full_name":  models.TextValue("Maria Silva"),
			"fav_colour": models.TextValue("teal"),
		},
		CurrentStep:    "email",
		CompletedSteps: []string{"full_name"},
	}); err != nil {
		t.Fatal(err)
	}

	got, err := storage.GetProfile(ctx, "prf_filter")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := got.Fields["fav_colour"]; ok {
		t.Error("unknown field survived create")
	}
	if got.Fields["full_name"].Text != "Maria Silva" {
		t.Errorf("known field = %q", got.Fields["full_name"].Text)
	}

	updated, err := storage.Advance(ctx, "prf_filter", interfaces.ProfileAdvance{
		FieldName:      "shoe_size",
		Value:          models.TextValue("43"),
		ExpectedStep:   "email",
		NextStep:       "headline",
		CompletedSteps: []string{"full_name", "email"},
	})
	if err != nil {
		t.Fatalf("Advance failed: %v", err)
	}
	if _, ok := updated.Fields["shoe_size"]; ok {
		t.Error("unknown field survived advance")
	}
	if updated.CurrentStep != "headline" {
		t.Errorf("CurrentStep = %q, want headline", updated.CurrentStep)
	}
}

// Two goroutines race the same advance; exactly one may win.
func TestProfileAdvanceConcurrent(t *testing.T) {
	storage := newTestProfileStorage(t)
	ctx := context.Background()

	if err := storage.CreateOnFirstStep(ctx, &models.Profile{
		ID:             "prf_race",
		Fields:         map[string]models.NormalizedValue{"full_name": models.TextValue("Maria Silva")},
		CurrentStep:    "email",
		CompletedSteps: []string{"full_name"},
	}); err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = storage.Advance(ctx, "prf_race", interfaces.ProfileAdvance{
				FieldName:      "email",
				Value:          models.TextValue("maria@example.com"),
				ExpectedStep:   "email",
				NextStep:       "headline",
				CompletedSteps: []string{"full_name", "email"},
			})
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range results {
		if err == nil {
			wins++
		} else if !errors.Is(err, interfaces.ErrStaleStep) && !errors.Is(err, badgerhold.ErrNotFound) {
			// Badger may also surface a transaction conflict; either
			// loser outcome is acceptable as long as only one wins.
			t.Logf("loser error: %v", err)
		}
	}
	if wins != 1 {
		t.Errorf("advance wins = %d, want exactly 1", wins)
	}

	got, err := storage.GetProfile(ctx, "prf_race")
	if err != nil {
		t.Fatal(err)
	}
	if got.CurrentStep != "headline" {
		t.Errorf("CurrentStep = %q, want headline", got.CurrentStep)
	}
}

func TestRecordStorage(t *testing.T) {
	db := newTestDB(t)
	storage := NewRecordStorage(db, arbor.NewLogger())
	ctx := context.Background()

	record := &models.ProfileRecord{
		ID:      "rec_test1",
		OwnerID: "prf_test1",
		Fields: map[string]models.NormalizedValue{
			"full_name": models.TextValue("Maria Silva"),
			"email":     models.TextValue("maria@example.com"),
		},
	}
	if err := storage.CreateRecord(ctx, record); err != nil {
		t.Fatalf("CreateRecord failed: %v", err)
	}

	// Write-once: a second insert under the same id fails.
	if err := storage.CreateRecord(ctx, record); err == nil {
		t.Fatal("duplicate record create succeeded")
	}

	got, err := storage.GetRecord(ctx, "rec_test1")
	if err != nil {
		t.Fatalf("GetRecord failed: %v", err)
	}
	if got.Fields["email"].Text != "maria@example.com" {
		t.Errorf("record email = %q", got.Fields["email"].Text)
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt not set")
	}

	if _, err := storage.GetRecord(ctx, "rec_missing"); !errors.Is(err, interfaces.ErrNotFound) {
		t.Errorf("missing record error = %v, want ErrNotFound", err)
	}

	count, err := storage.CountRecords(ctx)
	if err != nil || count != 1 {
		t.Errorf("CountRecords = %d, %v, want 1", count, err)
	}
}
