package calls

import "testing"

func TestOutcomeValidity(t *testing.T) {
	valid := []Outcome{OutcomeSuccess, OutcomeInProgress, OutcomeFailed, OutcomeVoicemail}
	for _, o := range valid {
		if !o.Valid() {
			t.Fatalf("expected %q valid", o)
		}
	}
	for _, o := range []Outcome{"", "new", "connected", "SUCCESS"} {
		if o.Valid() {
			t.Fatalf("expected %q invalid", o)
		}
	}
}
