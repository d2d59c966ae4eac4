package alpha

import (
	"strings"
	"testing"
	"time"
)

const sampleExport = `
"Lower · Day 2 · Week 1";"2025-01-08 6:15 h";"0:58 hr"
"1. Back Squat · Barbell · 5 reps";"WU1 · 60 kg · 8 reps<br>WU2 · 90 kg · 5 reps"
#;KG;REPS;RIR
1;120;5;2
2;120;5;1,5
3;120;4;0
"2. Box Jump · Bodyweight · 6 reps"
#;KG;REPS;RIR
1;+0;6;-1
2;+0;6;-1
"3. Wall Sit · Bodyweight · 1 reps"
#;KG;REPS;RIR
1;+0;1;2

"Upper · Day 1 · Week 1";"2025-01-06 17:30 h";"1:05 hr"
"1. Bench Press · Barbell · 8 reps · 1 dropset";"WU1 · 40 kg · 10 reps"
#;KG;REPS;RIR
1;82,5;8;2
2;82,5;8;1
"2. Lat Pulldown · Cable · 10 reps"
#;KG;REPS;RIR
1;65;10;2
`

// TestParseSessions covers the happy path: two sessions, warm-ups taken from
// the exercise header, modifiers after the target reps, and blank-line session breaks.
func TestParseSessions(t *testing.T) {
	sessions, err := Parse(strings.NewReader(sampleExport))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("sessions = %d, want 2", len(sessions))
	}

	lower := sessions[0]
	if lower.Name != "Lower · Day 2 · Week 1" || lower.Duration != "0:58 hr" {
		t.Errorf("lower = %q / %q", lower.Name, lower.Duration)
	}
	if want := time.Date(2025, 1, 8, 6, 15, 0, 0, time.UTC); !lower.Date.Equal(want) {
		t.Errorf("lower.Date = %v, want %v", lower.Date, want)
	}
	if len(lower.Exercises) != 3 {
		t.Fatalf("lower exercises = %d, want 3", len(lower.Exercises))
	}

	squat := lower.Exercises[0]
	if squat.Name != "Back Squat" || squat.Equipment != "Barbell" || squat.TargetReps != 5 {
		t.Errorf("squat = %+v", squat)
	}
	if len(squat.Sets) != 5 { // 2 warm-up + 3 working
		t.Fatalf("squat sets = %d, want 5", len(squat.Sets))
	}
	if !squat.Sets[0].IsWarmup || squat.Sets[2].IsWarmup {
		t.Error("warm-ups should come first")
	}
	if squat.Sets[3].RIR != 1.5 {
		t.Errorf("set 2 RIR = %v, want 1.5", squat.Sets[3].RIR)
	}

	jump := lower.Exercises[1]
	if !jump.Sets[0].IsBodyweightPlus || jump.Sets[0].RIR != -1 {
		t.Errorf("box jump set = %+v", jump.Sets[0])
	}

	upper := sessions[1]
	if upper.Date.Hour() != 17 {
		t.Errorf("upper hour = %d, want 17", upper.Date.Hour())
	}
	bench := upper.Exercises[0]
	if bench.Name != "Bench Press" || bench.TargetReps != 8 {
		t.Errorf("bench = %+v", bench)
	}
	if bench.Sets[1].WeightKg != 82.5 {
		t.Errorf("bench weight = %v, want 82.5", bench.Sets[1].WeightKg)
	}
}

// TestParseErrors verifies structural errors carry the line number.
func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"exercise before session", `"1. Bench Press · Barbell · 8 reps"`},
		{"set before exercise", "\"Upper\";\"2025-01-06 7:30 h\";\"1:00 hr\"\n1;80;8;1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), "line ") {
				t.Errorf("error %q lacks a line number", err)
			}
		})
	}
}

// TestParseWeight covers comma decimals and the bodyweight-plus notation.
func TestParseWeight(t *testing.T) {
	tests := []struct {
		in     string
		weight float64
		bw     bool
	}{
		{"102,5", 102.5, false},
		{"100", 100, false},
		{"+35", 35, true},
		{"+0", 0, true},
		{" +12,5 ", 12.5, true},
	}
	for _, tt := range tests {
		w, bw := parseWeight(tt.in)
		if w != tt.weight || bw != tt.bw {
			t.Errorf("parseWeight(%q) = %v, %v; want %v, %v", tt.in, w, bw, tt.weight, tt.bw)
		}
	}
}

// TestParseWarmups verifies the <br>-separated warm-up list.
func TestParseWarmups(t *testing.T) {
	sets := parseWarmups("WU1 · 37,5 kg · 9 reps<br>WU2 · +0 kg · 7 reps<br>garbage")
	if len(sets) != 2 {
		t.Fatalf("warm-ups = %d, want 2", len(sets))
	}
	if sets[0].WeightKg != 37.5 || sets[0].Reps != 9 || !sets[0].IsWarmup {
		t.Errorf("wu1 = %+v", sets[0])
	}
	if !sets[1].IsBodyweightPlus {
		t.Error("wu2 should be bodyweight-plus")
	}
	if parseWarmups("") != nil {
		t.Error("empty warm-up field should yield no sets")
	}
}

// TestParseEmpty verifies that empty input returns no sessions without error.
func TestParseEmpty(t *testing.T) {
	sessions, err := Parse(strings.NewReader(""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sessions) != 0 {
		t.Errorf("sessions = %d, want 0", len(sessions))
	}
}
