package session

import "testing"

func TestAppendAssignsMonotonicIDs(t *testing.T) {
	s := NewStore()
	m1 := s.Append(Draft{Kind: KindQuestion, Text: "a", FromUser: true})
	m2 := s.Append(Draft{Kind: KindAnswer, Text: "b"})
	m3 := s.Append(Draft{Kind: KindSummary, Text: "c", Topic: "t"})

	if !(m1.ID < m2.ID && m2.ID < m3.ID) {
		t.Errorf("IDs not strictly increasing: %d, %d, %d", m1.ID, m2.ID, m3.ID)
	}
}

func TestIDsNotReusedAfterReplace(t *testing.T) {
	s := NewStore()
	old := s.Append(Draft{Kind: KindSummary, Text: "old", Topic: "t"})
	msgs := s.Commit(Update{Replace: true, Append: []Draft{{Kind: KindSummary, Text: "new", Topic: "t"}}})

	if len(msgs) != 1 {
		t.Fatalf("expected 1 appended message, got %d", len(msgs))
	}
	if msgs[0].ID <= old.ID {
		t.Errorf("replacement reused ID %d (old was %d)", msgs[0].ID, old.ID)
	}
	snap := s.Snapshot()
	if len(snap.Messages) != 1 || snap.Messages[0].Text != "new" {
		t.Errorf("replace left transcript %+v", snap.Messages)
	}
}

func TestCommitSetsTopicState(t *testing.T) {
	s := NewStore()
	s.Commit(Update{RootTopic: "us elections", LastQuery: "us elections", NewsSession: true})

	snap := s.Snapshot()
	if snap.RootTopic != "us elections" || snap.LastQuery != "us elections" || !snap.NewsSession {
		t.Errorf("unexpected snapshot: %+v", snap)
	}

	// Zero-valued update fields leave state alone.
	s.Commit(Update{LastQuery: "us elections + inflation"})
	snap = s.Snapshot()
	if snap.RootTopic != "us elections" {
		t.Errorf("root topic changed unexpectedly: %q", snap.RootTopic)
	}
	if snap.LastQuery != "us elections + inflation" {
		t.Errorf("last query = %q", snap.LastQuery)
	}
}

func TestLatestSummary(t *testing.T) {
	s := NewStore()
	if _, ok := s.Snapshot().LatestSummary(); ok {
		t.Fatal("fresh session should have no summary")
	}

	s.Append(Draft{Kind: KindSummary, Text: "first", Topic: "a"})
	s.Append(Draft{Kind: KindQuestion, Text: "q", FromUser: true})
	s.Append(Draft{Kind: KindAnswer, Text: "ans"})
	s.Append(Draft{Kind: KindSummary, Text: "second", Topic: "b"})

	got, ok := s.Snapshot().LatestSummary()
	if !ok {
		t.Fatal("expected a summary")
	}
	if got.Text != "second" {
		t.Errorf("latest summary = %q, want %q", got.Text, "second")
	}
}

func TestLatestSummaryIgnoresTopiclessSummaries(t *testing.T) {
	s := NewStore()
	s.Append(Draft{Kind: KindSummary, Text: "no topic"})
	if _, ok := s.Snapshot().LatestSummary(); ok {
		t.Error("summary without topic label should not be follow-up context")
	}
}

func TestClearKeepsTopics(t *testing.T) {
	s := NewStore()
	s.Commit(Update{RootTopic: "t", LastQuery: "t", NewsSession: true,
		Append: []Draft{{Kind: KindSummary, Text: "x", Topic: "t"}}})
	s.Clear()

	snap := s.Snapshot()
	if len(snap.Messages) != 0 {
		t.Errorf("clear left %d messages", len(snap.Messages))
	}
	if snap.RootTopic != "t" || !snap.NewsSession {
		t.Errorf("clear dropped topic state: %+v", snap)
	}
}

func TestResetClearsEverything(t *testing.T) {
	s := NewStore()
	s.Commit(Update{RootTopic: "t", LastQuery: "t", NewsSession: true,
		Append: []Draft{{Kind: KindSummary, Text: "x", Topic: "t"}}})
	s.TryAcquire()
	s.Reset()

	snap := s.Snapshot()
	if len(snap.Messages) != 0 || snap.RootTopic != "" || snap.LastQuery != "" || snap.NewsSession || snap.Busy {
		t.Errorf("reset left state behind: %+v", snap)
	}
}

func TestBusyLockNonReentrant(t *testing.T) {
	s := NewStore()
	if !s.TryAcquire() {
		t.Fatal("first acquire should succeed")
	}
	if s.TryAcquire() {
		t.Fatal("second acquire should fail while busy")
	}
	s.Release()
	if !s.TryAcquire() {
		t.Fatal("acquire after release should succeed")
	}
}
