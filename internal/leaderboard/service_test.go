package leaderboard

import (
	"context"
	"errors"
	"testing"
)

func TestStandings_RanksByScoreThenDeals(t *testing.T) {
	repo := NewMemoryRepo()
	repo.Set([]Entry{
		{Name: "Citra", Avatar: "C", Deals: 3, Score: 120},
		{Name: "Andi", Avatar: "A", Deals: 5, Score: 200},
		{Name: "Budi", Avatar: "B", Deals: 7, Score: 200},
	})
	svc := NewService(repo, nil, 0, nil)

	out, err := svc.Standings(context.Background())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(out))
	}
	if out[0].Name != "Budi" || out[1].Name != "Andi" || out[2].Name != "Citra" {
		t.Fatalf("unexpected order: %+v", out)
	}
}

func TestStandings_CapsAtTopN(t *testing.T) {
	repo := NewMemoryRepo()
	entries := make([]Entry, 0, TopN+5)
	for i := 0; i < TopN+5; i++ {
		entries = append(entries, Entry{Name: "Agent", Avatar: "A", Score: i})
	}
	repo.Set(entries)
	svc := NewService(repo, nil, 0, nil)

	out, err := svc.Standings(context.Background())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(out) != TopN {
		t.Fatalf("expected %d entries, got %d", TopN, len(out))
	}
	if out[0].Score != TopN+4 {
		t.Fatalf("expected highest score first, got %d", out[0].Score)
	}
}

func TestStandings_FillsMissingAvatar(t *testing.T) {
	repo := NewMemoryRepo()
	repo.Set([]Entry{{Name: "Siti Rahayu", Deals: 1, Score: 10}})
	svc := NewService(repo, nil, 0, nil)

	out, err := svc.Standings(context.Background())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if out[0].Avatar != "SR" {
		t.Fatalf("expected derived avatar SR, got %q", out[0].Avatar)
	}
}

func TestInitials(t *testing.T) {
	cases := map[string]string{
		"Andi":             "A",
		"Siti Rahayu":      "SR",
		"Agus Dwi Santoso": "AD",
		"":                 "",
	}
	for in, want := range cases {
		if got := Initials(in); got != want {
			t.Fatalf("Initials(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPoller_KeepsSnapshotOnFailure(t *testing.T) {
	repo := NewMemoryRepo()
	repo.Set([]Entry{{Name: "Andi", Avatar: "A", Deals: 2, Score: 50}})
	svc := NewService(repo, nil, 0, nil)
	p := NewPoller(svc, 0, nil)

	p.poll(context.Background())
	if got := p.Entries(); len(got) != 1 {
		t.Fatalf("expected 1 entry after poll, got %d", len(got))
	}

	repo.mu.Lock()
	repo.Err = errors.New("backend down")
	repo.mu.Unlock()

	p.poll(context.Background())
	if got := p.Entries(); len(got) != 1 || got[0].Name != "Andi" {
		t.Fatalf("expected stale snapshot kept, got %+v", got)
	}
}
