package ledger

import "testing"

func TestScoreFromCounts(t *testing.T) {
	cases := []struct {
		name              string
		total, paid, late int
		want              int
	}{
		{"no payments starts trusted", 0, 0, 0, 100},
		{"all paid", 5, 5, 0, 100},
		{"mixed history", 10, 8, 1, 75}, // round(8/10*100) - 5
		{"pending dilutes without penalty", 4, 3, 0, 75},
		{"late penalized beyond dilution", 4, 3, 1, 70},
		{"rounds to nearest", 3, 2, 0, 67},
		{"clamped at zero", 30, 0, 30, 0},
		{"clamped at hundred", 1, 1, 0, 100},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ScoreFromCounts(tc.total, tc.paid, tc.late); got != tc.want {
				t.Fatalf("ScoreFromCounts(%d, %d, %d) = %d, want %d",
					tc.total, tc.paid, tc.late, got, tc.want)
			}
		})
	}
}

func TestScoreStaysInRange(t *testing.T) {
	for total := 0; total <= 20; total++ {
		for paid := 0; paid <= total; paid++ {
			for late := 0; late <= total-paid; late++ {
				got := ScoreFromCounts(total, paid, late)
				if got < 0 || got > 100 {
					t.Fatalf("ScoreFromCounts(%d, %d, %d) = %d out of [0,100]",
						total, paid, late, got)
				}
			}
		}
	}
}
