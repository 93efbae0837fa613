package calls

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"salesdesk/internal/leads"
	"salesdesk/internal/script"
)

type stubUpdater struct {
	mu      sync.Mutex
	updates []leads.UpdateRequest
	ids     []string
	err     error
}

func (u *stubUpdater) UpdateStatus(ctx context.Context, id string, req leads.UpdateRequest) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.err != nil {
		return u.err
	}
	u.ids = append(u.ids, id)
	u.updates = append(u.updates, req)
	return nil
}

func (u *stubUpdater) setErr(err error) {
	u.mu.Lock()
	u.err = err
	u.mu.Unlock()
}

func (u *stubUpdater) count() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.updates)
}

func (u *stubUpdater) last() (string, leads.UpdateRequest) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if len(u.updates) == 0 {
		return "", leads.UpdateRequest{}
	}
	return u.ids[len(u.ids)-1], u.updates[len(u.updates)-1]
}

func testOrchestrator(u Updater, opts ...OrchestratorOption) *Orchestrator {
	// A huge tick interval keeps the wall clock out of tests; Tick is
	// driven by hand.
	opts = append([]OrchestratorOption{WithTickInterval(time.Hour)}, opts...)
	return NewOrchestrator(u, script.SalesGraph(), nil, opts...)
}

func testLead(id string) leads.Lead {
	return leads.Lead{ID: id, Name: "Ana", Score: 0.8, Status: leads.StatusNew, Notes: ""}
}

func TestFormatDuration(t *testing.T) {
	cases := map[int]string{
		0:    "00:00",
		59:   "00:59",
		754:  "12:34",
		3661: "61:01",
	}
	for in, want := range cases {
		if got := FormatDuration(in); got != want {
			t.Fatalf("FormatDuration(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestSession_TickStopsAfterEnd(t *testing.T) {
	u := &stubUpdater{}
	o := testOrchestrator(u)
	s := o.StartCall(testLead("1"), "agent")

	s.Tick()
	s.Tick()
	if got := s.Snapshot().ElapsedSeconds; got != 2 {
		t.Fatalf("elapsed = %d, want 2", got)
	}

	if err := s.SelectOutcome(OutcomeFailed); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if err := s.Finalize(context.Background(), time.Time{}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	s.Tick()
	s.Tick()
	if got := s.Snapshot().ElapsedSeconds; got != 2 {
		t.Fatalf("elapsed advanced after end: %d", got)
	}
}

func TestSession_FinalizeMissingReminderDate(t *testing.T) {
	u := &stubUpdater{}
	o := testOrchestrator(u)
	s := o.StartCall(testLead("1"), "agent")
	s.Tick()

	if err := s.SelectOutcome(OutcomeInProgress); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	err := s.Finalize(context.Background(), time.Time{})
	if !errors.Is(err, ErrMissingReminderDate) {
		t.Fatalf("expected ErrMissingReminderDate, got %v", err)
	}

	snap := s.Snapshot()
	if snap.State != StateConnected {
		t.Fatalf("expected session still connected, got %q", snap.State)
	}
	if snap.ElapsedSeconds != 1 {
		t.Fatalf("elapsed mutated by rejected finalize: %d", snap.ElapsedSeconds)
	}
	if u.count() != 0 {
		t.Fatalf("rejected finalize must not persist")
	}

	// Natural tick progression continues.
	s.Tick()
	if got := s.Snapshot().ElapsedSeconds; got != 2 {
		t.Fatalf("timer stalled after rejected finalize: %d", got)
	}
}

func TestSession_FinalizeComposesNote(t *testing.T) {
	u := &stubUpdater{}
	o := testOrchestrator(u)
	s := o.StartCall(testLead("7"), "agent")

	for i := 0; i < 754; i++ {
		s.Tick()
	}
	s.SetNote("abc")
	if err := s.SelectOutcome(OutcomeSuccess); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if err := s.Finalize(context.Background(), time.Time{}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	id, req := u.last()
	if id != "7" {
		t.Fatalf("persisted wrong lead: %q", id)
	}
	if req.Status != "success" {
		t.Fatalf("persisted status %q", req.Status)
	}
	if !strings.Contains(req.Notes, "abc") || !strings.Contains(req.Notes, "[Call Duration: 12:34]") {
		t.Fatalf("unexpected composed note: %q", req.Notes)
	}
}

func TestSession_ReminderAnnotationAppended(t *testing.T) {
	u := &stubUpdater{}
	o := testOrchestrator(u)
	s := o.StartCall(testLead("1"), "agent")

	s.SetNote("call back later")
	if err := s.SelectOutcome(OutcomeInProgress); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	when := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	if err := s.Finalize(context.Background(), when); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	_, req := u.last()
	if !strings.Contains(req.Notes, "[Reminder: 2025-06-01]") {
		t.Fatalf("missing reminder annotation: %q", req.Notes)
	}
	if req.Status != "in_progress" {
		t.Fatalf("persisted status %q", req.Status)
	}
}

func TestSession_NoteBaseFrozenAtOutcomeSelection(t *testing.T) {
	u := &stubUpdater{}
	o := testOrchestrator(u)
	s := o.StartCall(testLead("1"), "agent")

	s.SetNote("frozen base")
	if err := s.SelectOutcome(OutcomeInProgress); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	s.SetNote("typed during reminder sub-flow")
	if err := s.Finalize(context.Background(), time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	_, req := u.last()
	if !strings.Contains(req.Notes, "frozen base") {
		t.Fatalf("expected frozen note base, got %q", req.Notes)
	}
	if strings.Contains(req.Notes, "typed during") {
		t.Fatalf("late edit leaked into saved note: %q", req.Notes)
	}
}

func TestSession_PersistFailureRollsBack(t *testing.T) {
	u := &stubUpdater{}
	o := testOrchestrator(u)
	s := o.StartCall(testLead("1"), "agent")

	s.Tick()
	s.SetNote("keep me")
	if err := s.SelectOutcome(OutcomeFailed); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	u.setErr(errors.New("backend down"))
	if err := s.Finalize(context.Background(), time.Time{}); err == nil {
		t.Fatalf("expected persist failure")
	}

	snap := s.Snapshot()
	if snap.State != StateConnected {
		t.Fatalf("expected rollback to connected, got %q", snap.State)
	}
	if snap.Note != "keep me" {
		t.Fatalf("note buffer lost on rollback: %q", snap.Note)
	}
	if o.Active() != s {
		t.Fatalf("session destroyed on persist failure")
	}
	if o.Refresh().Counter() != 0 {
		t.Fatalf("refresh fired despite failed persist")
	}

	// Timer resumes and a retry succeeds.
	s.Tick()
	if got := s.Snapshot().ElapsedSeconds; got != 2 {
		t.Fatalf("timer did not resume after rollback: %d", got)
	}
	u.setErr(nil)
	if err := s.Finalize(context.Background(), time.Time{}); err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if o.Refresh().Counter() != 1 {
		t.Fatalf("refresh not fired after successful retry")
	}
}

func TestSession_CelebrationFiresOnSuccessOnly(t *testing.T) {
	u := &stubUpdater{}
	fired := make(chan leads.Lead, 1)
	o := testOrchestrator(u, WithCelebration(func(l leads.Lead) { fired <- l }))

	s := o.StartCall(testLead("1"), "agent")
	if err := s.SelectOutcome(OutcomeFailed); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if err := s.Finalize(context.Background(), time.Time{}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	select {
	case <-fired:
		t.Fatalf("celebration fired for failed outcome")
	case <-time.After(50 * time.Millisecond):
	}

	s = o.StartCall(testLead("2"), "agent")
	if err := s.SelectOutcome(OutcomeSuccess); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if err := s.Finalize(context.Background(), time.Time{}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	select {
	case l := <-fired:
		if l.ID != "2" {
			t.Fatalf("celebrated wrong lead: %q", l.ID)
		}
	case <-time.After(time.Second):
		t.Fatalf("celebration never fired for success")
	}
}

func TestSession_PanickingCelebrationDoesNotFailSave(t *testing.T) {
	u := &stubUpdater{}
	o := testOrchestrator(u, WithCelebration(func(leads.Lead) { panic("confetti cannon jammed") }))

	s := o.StartCall(testLead("1"), "agent")
	if err := s.SelectOutcome(OutcomeSuccess); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if err := s.Finalize(context.Background(), time.Time{}); err != nil {
		t.Fatalf("save failed because of celebration: %v", err)
	}
	if u.count() != 1 {
		t.Fatalf("expected one persisted update")
	}
	time.Sleep(20 * time.Millisecond) // let the recovered goroutine finish
}

func TestSession_MinimizeDoesNotTouchState(t *testing.T) {
	u := &stubUpdater{}
	o := testOrchestrator(u)
	s := o.StartCall(testLead("1"), "agent")

	s.SetNote("note")
	s.Tick()
	s.SetMinimized(true)
	s.Tick()

	snap := s.Snapshot()
	if !snap.Minimized {
		t.Fatalf("minimized flag not recorded")
	}
	if snap.ElapsedSeconds != 2 {
		t.Fatalf("minimize paused the timer: %d", snap.ElapsedSeconds)
	}
	if snap.Note != "note" {
		t.Fatalf("minimize reset the note buffer: %q", snap.Note)
	}
}

func TestSession_ScriptOps(t *testing.T) {
	u := &stubUpdater{}
	o := testOrchestrator(u)
	s := o.StartCall(testLead("1"), "agent")

	start := s.Snapshot().Node
	if !strings.Contains(start.Text, "Ana") {
		t.Fatalf("expected customer name substituted into script: %q", start.Text)
	}

	if err := s.Choose(0); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if s.Snapshot().Node.ID == start.ID {
		t.Fatalf("choose did not advance the script")
	}
	if err := s.Back(); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if s.Snapshot().Node.ID != start.ID {
		t.Fatalf("back did not return to start")
	}

	_ = s.Choose(0)
	s.ResetScript()
	if got := s.Snapshot().ScriptHistory; len(got) != 1 {
		t.Fatalf("reset left history %v", got)
	}
}
