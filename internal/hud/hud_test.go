package hud

import "testing"

func TestStateForwardsAndSnapshots(t *testing.T) {
	rec := &Recorder{}
	s := NewState(rec)
	s.SetCoordinates("37.422999, -122.084057")
	s.SetAltitude("N/A")

	got := s.Snapshot()
	if got.Coordinates != "37.422999, -122.084057" || got.Altitude != "N/A" {
		t.Fatalf("snapshot = %+v", got)
	}
	if got.Accuracy != "--" || got.DateTime != "--" {
		t.Fatalf("unset fields should keep placeholders, got %+v", got)
	}
	if rec.Last().Coordinates != got.Coordinates || rec.Count("altitude") != 1 {
		t.Fatalf("recorder out of sync: %+v", rec.Calls())
	}
}

func TestAttachReplaysCurrentReadout(t *testing.T) {
	s := NewState()
	s.SetDateTime("Oct 15, 2026 09:00:00")
	rec := &Recorder{}
	s.Attach(rec)
	if rec.Last().DateTime != "Oct 15, 2026 09:00:00" {
		t.Fatalf("attach did not replay, got %+v", rec.Last())
	}
	if len(rec.Calls()) != 4 {
		t.Fatalf("expected 4 replayed fields, got %d", len(rec.Calls()))
	}
}
