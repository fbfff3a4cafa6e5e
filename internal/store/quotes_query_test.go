package store

import (
	"context"
	"errors"
	"testing"

	"quotebot/internal/models"
)

func TestFindByText(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	mustCreate(t, st, testQuote("Hello World", "", models.SafetySFW))
	mustCreate(t, st, testQuote("goodbye", "", models.SafetySFW))
	mustCreate(t, st, testQuote("", "cat.png", models.SafetyNSFW))
	mustCreate(t, st, testQuote("hello again", "", models.SafetyNSFW))

	ids, err := st.FindByText(ctx, "hello")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(ids) != 2 || ids[0] != 1 || ids[1] != 4 {
		t.Fatalf("expected [1 4], got %v", ids)
	}
}

func TestFindByTextEmptyNeedleMatchesAllTextQuotes(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	mustCreate(t, st, testQuote("one", "", models.SafetySFW))
	mustCreate(t, st, testQuote("", "cat.png", models.SafetySFW))
	mustCreate(t, st, testQuote("two", "", models.SafetyNSFW))

	ids, err := st.FindByText(ctx, "")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(ids) != 2 || ids[0] != 1 || ids[1] != 3 {
		t.Fatalf("expected image-only quote excluded, got %v", ids)
	}
}

func TestFindByAuthorExactCaseInsensitive(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	q := testQuote("one", "", models.SafetySFW)
	q.Author = "Maria"
	mustCreate(t, st, q)

	q = testQuote("two", "", models.SafetySFW)
	q.Author = "maria gonzalez"
	mustCreate(t, st, q)

	ids, err := st.FindByAuthor(ctx, "MARIA")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	// Exact match only: the longer author name must not match.
	if len(ids) != 1 || ids[0] != 1 {
		t.Fatalf("expected [1], got %v", ids)
	}
}

func TestMostRecentIDHonorsSafetyCeiling(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	mustCreate(t, st, testQuote("a", "", models.SafetySFW))
	mustCreate(t, st, testQuote("b", "", models.SafetySFW))
	mustCreate(t, st, testQuote("c", "", models.SafetySFW))
	mustCreate(t, st, testQuote("d", "", models.SafetyNSFW))

	id, err := st.MostRecentID(ctx, models.SafetySFW)
	if err != nil {
		t.Fatalf("most recent sfw: %v", err)
	}
	if id != 3 {
		t.Fatalf("expected 3 (latest sfw), got %d", id)
	}

	id, err = st.MostRecentID(ctx, models.SafetyNSFW)
	if err != nil {
		t.Fatalf("most recent nsfw: %v", err)
	}
	if id != 4 {
		t.Fatalf("expected 4 (nsfw ceiling includes both), got %d", id)
	}
}

func TestMostRecentIDEmptyStore(t *testing.T) {
	st := testStore(t)
	if _, err := st.MostRecentID(context.Background(), models.SafetyNSFW); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRandomIDRespectsSafetyAndImageFilters(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	mustCreate(t, st, testQuote("text sfw", "", models.SafetySFW))
	mustCreate(t, st, testQuote("", "dog.png", models.SafetyNSFW))
	mustCreate(t, st, testQuote("", "cat.png", models.SafetySFW))

	for i := 0; i < 20; i++ {
		id, ok, err := st.RandomID(ctx, false, models.SafetySFW)
		if err != nil {
			t.Fatalf("random: %v", err)
		}
		if !ok {
			t.Fatal("expected a qualifying quote")
		}
		if id == 2 {
			t.Fatal("sfw ceiling returned an nsfw quote")
		}
	}

	for i := 0; i < 20; i++ {
		id, ok, err := st.RandomID(ctx, true, models.SafetySFW)
		if err != nil {
			t.Fatalf("random image: %v", err)
		}
		if !ok {
			t.Fatal("expected a qualifying image quote")
		}
		if id != 3 {
			t.Fatalf("expected the only sfw image quote (3), got %d", id)
		}
	}
}

func TestRandomIDNoQualifyingQuotes(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	mustCreate(t, st, testQuote("spicy", "", models.SafetyNSFW))

	_, ok, err := st.RandomID(ctx, false, models.SafetySFW)
	if err != nil {
		t.Fatalf("random: %v", err)
	}
	if ok {
		t.Fatal("expected no qualifying quote below sfw ceiling")
	}

	_, ok, err = st.RandomID(ctx, true, models.SafetyNSFW)
	if err != nil {
		t.Fatalf("random image: %v", err)
	}
	if ok {
		t.Fatal("expected no image quotes at all")
	}
}

func TestCountQuotesIgnoresSafety(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	mustCreate(t, st, testQuote("a", "", models.SafetySFW))
	mustCreate(t, st, testQuote("b", "", models.SafetyNSFW))

	count, err := st.CountQuotes(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2, got %d", count)
	}
}

func TestAllQuotesAscending(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	mustCreate(t, st, testQuote("a", "", models.SafetySFW))
	mustCreate(t, st, testQuote("b", "", models.SafetyNSFW))

	quotes, err := st.AllQuotes(ctx)
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	if len(quotes) != 2 || quotes[0].ID != 1 || quotes[1].ID != 2 {
		t.Fatalf("expected ascending ids [1 2], got %+v", quotes)
	}
}
