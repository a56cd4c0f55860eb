package repository

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/johnquangdev/meeting-summarizer/internal/domain/entities"
	"github.com/johnquangdev/meeting-summarizer/internal/domain/repositories"
	"github.com/johnquangdev/meeting-summarizer/internal/infrastructure/database"
	"github.com/johnquangdev/meeting-summarizer/pkg/config"
)

func newSQLiteRepository(t *testing.T) repositories.MeetingRepository {
	t.Helper()
	cfg := &config.Config{Database: config.DatabaseConfig{
		Driver:     database.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "meetings.db"),
	}}
	db, err := database.Open(cfg)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = database.CloseDB(db) })

	if err := database.AutoMigrate(db, cfg.Database.Driver); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewMeetingRepository(db)
}

// forEachRepository runs fn against every MeetingRepository implementation
func forEachRepository(t *testing.T, fn func(t *testing.T, repo repositories.MeetingRepository)) {
	t.Run("memory", func(t *testing.T) { fn(t, NewMemoryMeetingRepository()) })
	t.Run("sqlite", func(t *testing.T) { fn(t, newSQLiteRepository(t)) })
}

func sampleMeeting(title string) *entities.MeetingResult {
	m := entities.NewMeetingResult(title, "Alice: I will send the report by Friday.", time.Date(2024, 5, 6, 7, 8, 9, 123456789, time.UTC))
	m.Summary = "Alice will send the report."
	m.Decisions = []string{"keep the weekly sync"}
	m.ActionItems = []entities.ActionItem{{Assignee: "Alice", Task: "send the report", DueDate: "Friday"}}
	m.ImportantDates = []string{"Friday"}
	m.OtherNotes = []string{"Ünïcödé — notes"}
	return m
}

func TestMeetingRepository_RoundTrip(t *testing.T) {
	forEachRepository(t, func(t *testing.T, repo repositories.MeetingRepository) {
		ctx := context.Background()
		original := sampleMeeting("Weekly sync")
		want := *original

		id, err := repo.Save(ctx, original)
		if err != nil {
			t.Fatalf("save: %v", err)
		}
		if id == 0 || original.ID != id {
			t.Fatalf("save must assign the id to the record, got %d / %d", id, original.ID)
		}

		got, err := repo.Get(ctx, id)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got == nil {
			t.Fatalf("expected the saved meeting")
		}

		if !got.CreatedAt.Equal(want.CreatedAt) {
			t.Fatalf("created_at = %s, want %s", got.CreatedAt, want.CreatedAt)
		}
		got.CreatedAt, want.CreatedAt = time.Time{}, time.Time{}
		want.ID = id
		if !reflect.DeepEqual(*got, want) {
			t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", *got, want)
		}
	})
}

func TestMeetingRepository_GetMissing(t *testing.T) {
	forEachRepository(t, func(t *testing.T, repo repositories.MeetingRepository) {
		got, err := repo.Get(context.Background(), 4242)
		if err != nil || got != nil {
			t.Fatalf("expected nil, nil for an unknown id, got %v, %v", got, err)
		}
	})
}

func TestMeetingRepository_SaveRejectsPersisted(t *testing.T) {
	forEachRepository(t, func(t *testing.T, repo repositories.MeetingRepository) {
		ctx := context.Background()
		m := sampleMeeting("once")
		if _, err := repo.Save(ctx, m); err != nil {
			t.Fatalf("save: %v", err)
		}
		if _, err := repo.Save(ctx, m); !errors.Is(err, entities.ErrAlreadyPersisted) {
			t.Fatalf("expected ErrAlreadyPersisted, got %v", err)
		}
		if _, err := repo.Save(ctx, nil); !errors.Is(err, entities.ErrNilMeetingResult) {
			t.Fatalf("expected ErrNilMeetingResult, got %v", err)
		}
	})
}

func TestMeetingRepository_ListMostRecentFirst(t *testing.T) {
	forEachRepository(t, func(t *testing.T, repo repositories.MeetingRepository) {
		ctx := context.Background()
		for i := 1; i <= 5; i++ {
			if _, err := repo.Save(ctx, sampleMeeting(fmt.Sprintf("meeting %d", i))); err != nil {
				t.Fatalf("save %d: %v", i, err)
			}
		}

		items, err := repo.List(ctx, 3)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(items) != 3 {
			t.Fatalf("expected 3 items, got %d", len(items))
		}
		for i, want := range []string{"meeting 5", "meeting 4", "meeting 3"} {
			if items[i].Title != want {
				t.Fatalf("item %d = %q, want %q", i, items[i].Title, want)
			}
			if items[i].Summary == "" || items[i].CreatedAt.IsZero() {
				t.Fatalf("list items must carry summary and created_at: %+v", items[i])
			}
		}

		all, err := repo.List(ctx, 0)
		if err != nil || len(all) != 5 {
			t.Fatalf("default limit must return every row here, got %d, %v", len(all), err)
		}
	})
}

func TestMeetingRepository_ConcurrentSavesGetUniqueIDs(t *testing.T) {
	forEachRepository(t, func(t *testing.T, repo repositories.MeetingRepository) {
		ctx := context.Background()
		const n = 20

		var wg sync.WaitGroup
		ids := make([]uint64, n)
		errs := make([]error, n)
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				ids[i], errs[i] = repo.Save(ctx, sampleMeeting(fmt.Sprintf("m%d", i)))
			}(i)
		}
		wg.Wait()

		seen := make(map[uint64]bool, n)
		for i, id := range ids {
			if errs[i] != nil {
				t.Fatalf("save %d: %v", i, errs[i])
			}
			if seen[id] {
				t.Fatalf("duplicate id %d", id)
			}
			seen[id] = true
		}

		items, err := repo.List(ctx, n)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		for i := 1; i < len(items); i++ {
			if items[i-1].ID <= items[i].ID {
				t.Fatalf("ids must be listed in decreasing order: %d then %d", items[i-1].ID, items[i].ID)
			}
		}
	})
}

func TestClampListLimit(t *testing.T) {
	tests := map[int]int{-1: 50, 0: 50, 1: 1, 200: 200, 500: 200}
	for in, want := range tests {
		if got := repositories.ClampListLimit(in); got != want {
			t.Errorf("ClampListLimit(%d) = %d, want %d", in, got, want)
		}
	}
}
