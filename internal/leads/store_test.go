package leads

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func seededStore(t *testing.T, rows []Row) *Store {
	t.Helper()
	src := NewMemorySource()
	src.Rows = rows
	s := NewStore(src, nil)
	s.Load(context.Background())
	return s
}

func TestStore_LoadNormalizesRows(t *testing.T) {
	s := seededStore(t, []Row{
		{NasabahID: "1", Name: "Ana", Job: "teacher", Probability: 0.9, Status: "follow_up"},
		{NasabahID: "2", Probability: 0.3, Status: "weird"},
	})

	coll := s.Snapshot()
	if len(coll) != 2 {
		t.Fatalf("expected 2 leads, got %d", len(coll))
	}
	if coll[0].Status != StatusInProgress {
		t.Fatalf("expected follow_up normalized to in_progress, got %q", coll[0].Status)
	}
	if coll[1].Status != StatusNew {
		t.Fatalf("expected unknown status normalized to new, got %q", coll[1].Status)
	}
	if coll[1].Name == "" {
		t.Fatalf("expected synthetic name for unnamed lead")
	}
}

func TestStore_LoadFailureEmptiesCollection(t *testing.T) {
	src := NewMemorySource()
	src.Rows = []Row{{NasabahID: "1", Probability: 0.5}}
	s := NewStore(src, nil)
	s.Load(context.Background())
	if len(s.Snapshot()) != 1 {
		t.Fatalf("expected seeded collection")
	}

	src.FailFetch = true
	src.Err = errors.New("backend down")
	s.Load(context.Background())
	if len(s.Snapshot()) != 0 {
		t.Fatalf("expected empty collection after failed load")
	}
	if len(s.Jobs()) != 0 {
		t.Fatalf("expected jobs list cleared with the collection")
	}
}

func TestStore_QueryScenario(t *testing.T) {
	s := seededStore(t, []Row{
		{NasabahID: "1", Name: "A", Probability: 0.9, Status: "new"},
		{NasabahID: "2", Name: "B", Probability: 0.3, Status: "failed"},
	})

	got := s.Query(Filters{Status: "new"})
	if len(got) != 1 || got[0].ID != "1" {
		t.Fatalf("query status=new: expected exactly lead 1, got %+v", got)
	}

	got = s.Query(Filters{Status: StatusAll, MinScore: 0.5})
	if len(got) != 1 || got[0].ID != "1" {
		t.Fatalf("query all,minScore=0.5: expected exactly lead 1, got %+v", got)
	}
}

func TestStore_QueryStatusAllBypasses(t *testing.T) {
	s := seededStore(t, []Row{
		{NasabahID: "1", Probability: 0.9, Status: "new"},
		{NasabahID: "2", Probability: 0.8, Status: "failed"},
		{NasabahID: "3", Probability: 0.7, Status: "success"},
		{NasabahID: "4", Probability: 0.6, Status: "follow_up"},
	})
	if got := s.Query(Filters{Status: StatusAll}); len(got) != 4 {
		t.Fatalf("status=all should return every lead, got %d", len(got))
	}
}

func TestStore_QueryMinScoreExactOne(t *testing.T) {
	s := seededStore(t, []Row{
		{NasabahID: "1", Probability: 1.0, Status: "new"},
		{NasabahID: "2", Probability: 0.999, Status: "new"},
	})
	got := s.Query(Filters{Status: StatusAll, MinScore: 1.0})
	if len(got) != 1 || got[0].ID != "1" {
		t.Fatalf("minScore=1.0 should return only score==1.0 leads, got %+v", got)
	}
}

func TestStore_QueryIsPureAndStable(t *testing.T) {
	s := seededStore(t, []Row{
		{NasabahID: "1", Name: "X", Probability: 0.5, Status: "new"},
		{NasabahID: "2", Name: "Y", Probability: 0.5, Status: "new"},
		{NasabahID: "3", Name: "Z", Probability: 0.9, Status: "new"},
	})

	f := Filters{Status: StatusAll}
	a := s.Query(f)
	b := s.Query(f)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("query not pure: %+v vs %+v", a, b)
	}
	if a[0].ID != "3" {
		t.Fatalf("expected score-descending sort, got %+v", a)
	}
	// Equal scores keep fetch order.
	if a[1].ID != "1" || a[2].ID != "2" {
		t.Fatalf("expected stable sort for ties, got %+v", a)
	}
}

func TestStore_QueryTextMatchesNameAndJob(t *testing.T) {
	s := seededStore(t, []Row{
		{NasabahID: "1", Name: "Ana", Job: "teacher", Probability: 0.9, Status: "new"},
		{NasabahID: "2", Name: "Budi", Job: "engineer", Probability: 0.8, Status: "new"},
	})
	if got := s.Query(Filters{Status: StatusAll, Text: "TEACH"}); len(got) != 1 || got[0].ID != "1" {
		t.Fatalf("case-insensitive job search failed: %+v", got)
	}
	if got := s.Query(Filters{Status: StatusAll, Text: "budi"}); len(got) != 1 || got[0].ID != "2" {
		t.Fatalf("name search failed: %+v", got)
	}
}

func TestPaginate_Bounds(t *testing.T) {
	view := []Lead{{ID: "1"}, {ID: "2"}, {ID: "3"}}

	if got := Paginate(view, 1, 2); len(got) != 2 || got[0].ID != "1" {
		t.Fatalf("page 1: %+v", got)
	}
	if got := Paginate(view, 2, 2); len(got) != 1 || got[0].ID != "3" {
		t.Fatalf("page 2: %+v", got)
	}
	if got := Paginate(view, 3, 2); len(got) != 0 {
		t.Fatalf("out-of-range page should be empty, got %+v", got)
	}
	if got := Paginate(view, 0, 2); len(got) != 0 {
		t.Fatalf("page 0 should be empty, got %+v", got)
	}
}

func TestStore_JobsDistinct(t *testing.T) {
	s := seededStore(t, []Row{
		{NasabahID: "1", Job: "teacher", Probability: 0.1},
		{NasabahID: "2", Job: "engineer", Probability: 0.2},
		{NasabahID: "3", Job: "teacher", Probability: 0.3},
		{NasabahID: "4", Probability: 0.4},
	})
	jobs := s.Jobs()
	want := []string{"teacher", "engineer"}
	if !reflect.DeepEqual(jobs, want) {
		t.Fatalf("jobs = %v, want %v", jobs, want)
	}
}

func TestStore_KPIs(t *testing.T) {
	s := seededStore(t, []Row{
		{NasabahID: "1", Probability: 0.9},
		{NasabahID: "2", Probability: 0.7},
		{NasabahID: "3", Probability: 0.2},
		{NasabahID: "4", Probability: 0.1},
	})
	k := s.KPIs()
	if k.TotalLeads != 4 || k.HotLeads != 2 {
		t.Fatalf("unexpected KPI: %+v", k)
	}
	if k.ConversionRate != 0.5 {
		t.Fatalf("expected conversion rate 0.5, got %v", k.ConversionRate)
	}
}

func TestStore_GetNotFound(t *testing.T) {
	s := seededStore(t, []Row{{NasabahID: "1", Probability: 0.5}})
	if _, err := s.Get("1"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if _, err := s.Get("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
