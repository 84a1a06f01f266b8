package scoring

import "testing"

func TestWinnerPointsTiers(t *testing.T) {
	tests := []struct {
		players int
		want    int
	}{
		{players: 24, want: 25},
		{players: 20, want: 25},
		{players: 19, want: 22},
		{players: 18, want: 22},
		{players: 16, want: 22},
		{players: 15, want: 20},
		{players: 12, want: 20},
		{players: 11, want: 18},
		{players: 9, want: 18},
		{players: 8, want: 15},
		{players: 2, want: 15},
	}

	for _, tt := range tests {
		if got := WinnerPoints(tt.players); got != tt.want {
			t.Errorf("WinnerPoints(%d) = %d, want %d", tt.players, got, tt.want)
		}
	}
}

func TestPointsEndpoints(t *testing.T) {
	// Position 1 earns the full pool, last place earns 0.
	for _, n := range []int{2, 5, 9, 12, 16, 18, 20, 27} {
		if got := Points(1, n); got != WinnerPoints(n) {
			t.Errorf("Points(1, %d) = %d, want pool %d", n, got, WinnerPoints(n))
		}
		if got := Points(n, n); got != 0 {
			t.Errorf("Points(%d, %d) = %d, want 0", n, n, got)
		}
	}
}

func TestPointsMonotoneNonIncreasing(t *testing.T) {
	for n := 2; n <= 30; n++ {
		prev := Points(1, n)
		for p := 2; p <= n; p++ {
			got := Points(p, n)
			if got > prev {
				t.Fatalf("Points(%d, %d) = %d exceeds Points(%d, %d) = %d", p, n, got, p-1, n, prev)
			}
			if got < 0 {
				t.Fatalf("Points(%d, %d) = %d is negative", p, n, got)
			}
			prev = got
		}
	}
}

func TestPointsInvalidArguments(t *testing.T) {
	tests := []struct {
		position, players int
	}{
		{position: 0, players: 10},
		{position: -1, players: 10},
		{position: 11, players: 10},
		{position: 1, players: 0},
	}
	for _, tt := range tests {
		if got := Points(tt.position, tt.players); got != 0 {
			t.Errorf("Points(%d, %d) = %d, want 0", tt.position, tt.players, got)
		}
	}
}
