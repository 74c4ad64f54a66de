package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/eslsoft/pronadmin/internal/entity"
)

type recordingConfirmer struct {
	answer   bool
	messages []string
}

func (c *recordingConfirmer) Confirm(_ context.Context, message string) (bool, error) {
	c.messages = append(c.messages, message)
	return c.answer, nil
}

func TestCategoryDeletePrompt(t *testing.T) {
	got := CategoryDeletePrompt(entity.Category{Name: "IELTS_Part1", DialogCount: 3})
	want := "Are you sure you want to delete \"IELTS_Part1\"?\n\nWARNING: This will also delete 3 dialog(s) and all their phrases and assessments. This action cannot be undone."
	if got != want {
		t.Fatalf("unexpected prompt:\n%s", got)
	}
	if got := CategoryDeletePrompt(entity.Category{Name: "Travel"}); got != "Are you sure you want to delete \"Travel\"?" {
		t.Fatalf("unexpected prompt: %s", got)
	}
}

func TestCategoryRemoveConfirmed(t *testing.T) {
	repo := &fakeCategoryRepo{items: []entity.Category{{ID: 1, Name: "IELTS_Part1", DialogCount: 3}}}
	store := NewCategoryStore(repo, nil)
	ctx := context.Background()
	if err := store.Fetch(ctx); err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}

	declined := &recordingConfirmer{answer: false}
	deleted, err := store.RemoveConfirmed(ctx, 1, declined)
	if err != nil || deleted {
		t.Fatalf("expected no deletion on decline, got %v %v", deleted, err)
	}
	if len(declined.messages) != 1 || declined.messages[0] != CategoryDeletePrompt(repo.items[0]) {
		t.Fatalf("unexpected prompts %q", declined.messages)
	}
	for _, call := range repo.calls {
		if call == "delete" {
			t.Fatalf("delete must not be called without confirmation")
		}
	}

	deleted, err = store.RemoveConfirmed(ctx, 1, &recordingConfirmer{answer: true})
	if err != nil || !deleted {
		t.Fatalf("expected deletion, got %v %v", deleted, err)
	}
	if len(store.Items()) != 0 {
		t.Fatalf("expected empty collection, got %#v", store.Items())
	}
}

func TestRemoveConfirmedRequiresConfirmer(t *testing.T) {
	repo := &fakeDialogRepo{items: []entity.Dialog{{ID: 1, Title: "Hotel"}}}
	store := NewDialogStore(repo, &fakePhraseRepo{dialogs: repo}, nil)
	if _, err := store.RemoveConfirmed(context.Background(), 1, nil); err == nil {
		t.Fatalf("expected error without a confirmer")
	}
	if len(repo.items) != 1 {
		t.Fatalf("dialog deleted without confirmation")
	}
}

func TestDialogPhraseLifecycle(t *testing.T) {
	repo := &fakeDialogRepo{items: []entity.Dialog{{ID: 1, Title: "Hotel", Phrases: []entity.Phrase{}}}}
	phrases := &fakePhraseRepo{dialogs: repo}
	store := NewDialogStore(repo, phrases, nil)
	ctx := context.Background()
	if err := store.Fetch(ctx); err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}

	created, err := store.AddPhrase(ctx, entity.PhraseCreate{DialogID: 1, ReferenceText: "Good morning"})
	if err != nil {
		t.Fatalf("AddPhrase returned error: %v", err)
	}
	d, _ := store.Find(1)
	if len(d.Phrases) != 1 || d.Phrases[0].ID != created.ID {
		t.Fatalf("expected re-fetched dialog to contain the phrase, got %#v", d.Phrases)
	}
	if p, ok := store.FindPhrase(created.ID); !ok || p.ReferenceText != "Good morning" {
		t.Fatalf("FindPhrase returned %#v %v", p, ok)
	}

	confirm := &recordingConfirmer{answer: true}
	deleted, err := store.RemovePhraseConfirmed(ctx, created.ID, confirm)
	if err != nil || !deleted {
		t.Fatalf("RemovePhraseConfirmed returned %v %v", deleted, err)
	}
	if confirm.messages[0] != "Delete this phrase?" {
		t.Fatalf("unexpected prompt %q", confirm.messages[0])
	}
	d, _ = store.Find(1)
	if len(d.Phrases) != 0 {
		t.Fatalf("expected phrase removed, got %#v", d.Phrases)
	}
}

func TestPhraseFailureSetsError(t *testing.T) {
	repo := &fakeDialogRepo{items: []entity.Dialog{{ID: 1, Title: "Hotel"}}}
	store := NewDialogStore(repo, &fakePhraseRepo{dialogs: repo, failWrite: true}, nil)
	ctx := context.Background()
	if err := store.Fetch(ctx); err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	before := repo.listCalls

	_, err := store.AddPhrase(ctx, entity.PhraseCreate{DialogID: 1, ReferenceText: "Hi"})
	if !errors.Is(err, errNetwork) {
		t.Fatalf("expected network error, got %v", err)
	}
	if store.Error() != "Failed to create phrase" {
		t.Fatalf("unexpected error %q", store.Error())
	}
	if repo.listCalls != before {
		t.Fatalf("failed phrase mutation must not re-fetch")
	}
}

func TestDialogRemoveConfirmedPrompt(t *testing.T) {
	repo := &fakeDialogRepo{items: []entity.Dialog{{ID: 1, Title: "Hotel"}}}
	store := NewDialogStore(repo, &fakePhraseRepo{dialogs: repo}, nil)
	confirm := &recordingConfirmer{answer: true}
	if _, err := store.RemoveConfirmed(context.Background(), 1, confirm); err != nil {
		t.Fatalf("RemoveConfirmed returned error: %v", err)
	}
	if confirm.messages[0] != DialogDeletePrompt {
		t.Fatalf("unexpected prompt %q", confirm.messages[0])
	}
}

func TestDialogSelect(t *testing.T) {
	one, two := int64(1), int64(2)
	repo := &fakeDialogRepo{items: []entity.Dialog{
		{ID: 1, Title: "Hotel", CategoryID: &one, DifficultyLevel: entity.DifficultyBeginner, Phrases: []entity.Phrase{{ID: 1}}},
		{ID: 2, Title: "Airport", CategoryID: &two, DifficultyLevel: entity.DifficultyAdvanced},
		{ID: 3, Title: "Bank", CategoryID: &one, DifficultyLevel: entity.DifficultyAdvanced},
	}}
	store := NewDialogStore(repo, &fakePhraseRepo{dialogs: repo}, nil)
	if err := store.Fetch(context.Background()); err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}

	got, err := store.Select(Query{Filter: "difficulty == 'Advanced'", OrderBy: "title"})
	if err != nil {
		t.Fatalf("Select returned error: %v", err)
	}
	if len(got) != 2 || got[0].Title != "Airport" || got[1].Title != "Bank" {
		t.Fatalf("unexpected selection %#v", got)
	}
	got, err = store.Select(Query{Filter: "category_id == 1 && phrases > 0"})
	if err != nil {
		t.Fatalf("Select returned error: %v", err)
	}
	if len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("unexpected selection %#v", got)
	}
	got, err = store.Select(Query{Filter: "id == 3 || id == 2", OrderBy: "id desc"})
	if err != nil {
		t.Fatalf("Select returned error: %v", err)
	}
	if len(got) != 2 || got[0].ID != 3 || got[1].ID != 2 {
		t.Fatalf("unexpected selection %#v", got)
	}
	if _, err := store.Select(Query{Filter: "nope == 1"}); err == nil {
		t.Fatalf("expected error for unknown field")
	}
}
