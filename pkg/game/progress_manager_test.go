package game

import "testing"

func finishedRound(levelID string, phase Phase, tick, rescued, score int) *RoundState {
	return &RoundState{
		Level:   &Level{ID: levelID},
		Tick:    tick,
		Rescued: rescued,
		Score:   score,
		Phase:   phase,
	}
}

func TestProgressRecordInMemory(t *testing.T) {
	pm := NewProgressManager(nil)

	if _, ok := pm.Best("1-1"); ok {
		t.Fatal("Best() should report no record before any round")
	}

	improved, err := pm.Record(finishedRound("1-1", PhaseLost, 30, 1, 1))
	if err != nil || improved {
		t.Fatalf("first Record() of a lost round = %v, %v; want not improved", improved, err)
	}
	if rec, _ := pm.Best("1-1"); rec.BestScore != 0 || rec.Attempts != 1 {
		t.Errorf("record after a loss = %+v, want attempt counted without best score", rec)
	}

	improved, _ = pm.Record(finishedRound("1-1", PhaseWon, 50, 3, 3))
	if !improved {
		t.Error("first win should improve the record")
	}
	improved, _ = pm.Record(finishedRound("1-1", PhaseWon, 40, 2, 2))
	if improved {
		t.Error("lower score should not improve the record")
	}
	improved, _ = pm.Record(finishedRound("1-1", PhaseLost, 20, 1, 5))
	if improved {
		t.Error("a lost round should never improve the best score")
	}

	rec, ok := pm.Best("1-1")
	if !ok {
		t.Fatal("Best() should find the record")
	}
	want := LevelRecord{LevelID: "1-1", BestScore: 3, BestRescued: 3, FewestTicks: 40, Wins: 2, Attempts: 4}
	if rec != want {
		t.Errorf("record = %+v, want %+v", rec, want)
	}
}

func TestProgressIgnoresAbortedRounds(t *testing.T) {
	pm := NewProgressManager(nil)

	for _, phase := range []Phase{PhaseAborted, PhaseRunning} {
		improved, err := pm.Record(finishedRound("1-2", phase, 5, 0, 0))
		if improved || err != nil {
			t.Errorf("Record(%v) = %v, %v; want ignored", phase, improved, err)
		}
	}
	if _, ok := pm.Best("1-2"); ok {
		t.Error("aborted rounds must not create a record")
	}
}

func TestProgressPersistsThroughGdata(t *testing.T) {
	gm := createTestGdataManager(t, "progress")
	if gm == nil {
		t.Skip("Cannot create gdata manager for testing")
	}

	if _, err := NewProgressManager(gm).Record(finishedRound("2-1", PhaseWon, 12, 4, 4)); err != nil {
		t.Fatalf("Record() error: %v", err)
	}

	rec, ok := NewProgressManager(gm).Best("2-1")
	if !ok || rec.BestScore != 4 || rec.FewestTicks != 12 || rec.Wins != 1 {
		t.Errorf("reloaded record = %+v (found %v)", rec, ok)
	}
}
