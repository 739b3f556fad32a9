package scoring

import "testing"

func f(v float64) *float64 { return &v }

func TestReconcile(t *testing.T) {
	tests := []struct {
		name string
		in   ReconcileInput
		want float64
	}{
		{name: "all nil", in: ReconcileInput{}, want: 0},
		{name: "initial only", in: ReconcileInput{Initial: f(70)}, want: 70},
		{name: "review only", in: ReconcileInput{Review: f(85)}, want: 85},
		{name: "derived only", in: ReconcileInput{Derived: f(60)}, want: 60},
		{name: "initial and review averaged", in: ReconcileInput{Initial: f(70), Review: f(90)}, want: 80},
		{name: "average rounds to two decimals", in: ReconcileInput{Initial: f(70.15), Review: f(70.3)}, want: 70.23},
		{name: "review beats derived", in: ReconcileInput{Review: f(85), Derived: f(60)}, want: 85},
		{name: "derived beats initial", in: ReconcileInput{Initial: f(70), Derived: f(60)}, want: 60},
		{name: "explicit beats everything", in: ReconcileInput{Explicit: f(95), Initial: f(70), Review: f(90), Derived: f(60)}, want: 95},
		{name: "explicit zero still wins", in: ReconcileInput{Explicit: f(0), Initial: f(70)}, want: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Reconcile(tc.in); got != tc.want {
				t.Fatalf("Reconcile(%+v) = %.2f, want %.2f", tc.in, got, tc.want)
			}
		})
	}
}

// Reconcile must not mutate its inputs; repeated calls on the same input give
// the same answer.
func TestReconcile_Pure(t *testing.T) {
	initial, review := 70.0, 90.0
	in := ReconcileInput{Initial: &initial, Review: &review}

	first := Reconcile(in)
	second := Reconcile(in)
	if first != second {
		t.Fatalf("repeated calls differ: %.2f vs %.2f", first, second)
	}
	if initial != 70 || review != 90 {
		t.Fatalf("inputs mutated: initial=%.2f review=%.2f", initial, review)
	}
}

func TestRound2(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{in: 1.005, want: 1.0},
		{in: 1.015, want: 1.01},
		{in: 79.999, want: 80},
		{in: -0.004, want: 0},
		{in: 12.345, want: 12.35},
	}
	for _, tc := range tests {
		if got := Round2(tc.in); got != tc.want {
			t.Fatalf("Round2(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestClampScore(t *testing.T) {
	tests := []struct {
		name  string
		v     float64
		total float64
		want  float64
	}{
		{name: "in range", v: 50, total: 100, want: 50},
		{name: "negative clamps to zero", v: -3, total: 100, want: 0},
		{name: "above total clamps to total", v: 130, total: 100, want: 100},
		{name: "zero total leaves positive value", v: 17, total: 0, want: 17},
		{name: "exactly total", v: 100, total: 100, want: 100},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ClampScore(tc.v, tc.total); got != tc.want {
				t.Fatalf("ClampScore(%v, %v) = %v, want %v", tc.v, tc.total, got, tc.want)
			}
		})
	}
}
