package bonus

import "testing"

func TestEvaluateThreshold(t *testing.T) {
	cases := []struct {
		value     float64
		threshold float64
		op        Operator
		want      bool
	}{
		{100, 90, OpGreaterOrEqual, true},
		{90, 90, OpGreaterOrEqual, true},
		{89.9, 90, OpGreaterOrEqual, false},
		{91, 90, OpGreater, true},
		{90, 90, OpGreater, false},
		{0.05, 0.1, OpLess, true},
		{0.1, 0.1, OpLess, false},
		{0.1, 0.1, OpLessOrEqual, true},
		{0.11, 0.1, OpLessOrEqual, false},
		{40, 40, OpEqual, true},
		{40.005, 40, OpEqual, true},
		{40.02, 40, OpEqual, false},
	}
	for _, tc := range cases {
		if got := EvaluateThreshold(tc.value, tc.threshold, tc.op); got != tc.want {
			t.Fatalf("EvaluateThreshold(%v, %v, %q) = %v, want %v",
				tc.value, tc.threshold, tc.op, got, tc.want)
		}
	}
}

func TestEvaluateThresholdFailsClosed(t *testing.T) {
	if EvaluateThreshold(100, 0, Operator("!=")) {
		t.Fatal("unknown operator must never match")
	}
	if EvaluateThreshold(100, 0, Operator("")) {
		t.Fatal("zero-value operator must never match")
	}
}
