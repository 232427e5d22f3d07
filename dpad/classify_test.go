package dpad_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/analogdpad/dpad"
)

var (
	eightWayCfg = dpad.Config{Mode: dpad.EightWay, Deadzone: 0.6, Squareness: 0, Slope: 0.2, Offset: 0.2, Debounce: 0.05}
	fourWayCfg  = dpad.Config{Mode: dpad.FourWay, Deadzone: 0.3, Squareness: 0, Offset: 0.2, Debounce: 0.05}
)

// configs exercised by the property tests; all satisfy the debounce precondition.
func propertyConfigs() []dpad.Config {
	return []dpad.Config{
		eightWayCfg,
		fourWayCfg,
		dpad.DefaultSettings().ConfigFor(dpad.EightWay),
		dpad.DefaultSettings().ConfigFor(dpad.FourWay),
		{Mode: dpad.EightWay, Deadzone: 0.25, Squareness: 0.6, Slope: 0.8, Offset: 0.1, Debounce: 0.1},
		{Mode: dpad.EightWay, Deadzone: 1, Squareness: 1, Slope: 0, Offset: 0.5, Debounce: 0},
		{Mode: dpad.FourWay, Deadzone: 0.5, Squareness: -0.5, Offset: 0.3, Debounce: 0.2},
		{Mode: dpad.FourWay, Deadzone: 0.1, Squareness: 0.4, Offset: 0, Debounce: 0},
	}
}

func grid(n int) []float64 {
	out := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, -1+2*float64(i)/float64(n-1))
	}
	return out
}

func TestClassify8(t *testing.T) {
	type testCase struct {
		name     string
		sample   dpad.Sample
		expected dpad.State
	}

	cases := []testCase{
		{
			name:     "fully active east",
			sample:   dpad.Sample{X: 0.9, Y: 0},
			expected: dpad.State{Kind: dpad.Cardinal, Dir: dpad.Right},
		},
		{
			name:     "inside deadzone",
			sample:   dpad.Sample{X: 0.05, Y: 0.05},
			expected: dpad.State{Kind: dpad.Center},
		},
		{
			name:     "debounce ring east",
			sample:   dpad.Sample{X: 0.57, Y: 0},
			expected: dpad.State{Kind: dpad.CardinalTransition, Dir: dpad.Right},
		},
		{
			name:     "deadzone edge is active",
			sample:   dpad.Sample{X: 0, Y: -0.6},
			expected: dpad.State{Kind: dpad.Cardinal, Dir: dpad.Down},
		},
		{
			name:     "diagonal north east",
			sample:   dpad.Sample{X: 0.7, Y: 0.7},
			expected: dpad.State{Kind: dpad.Diagonal, Dir: dpad.Up | dpad.Right},
		},
		{
			name:     "diagonal south west",
			sample:   dpad.Sample{X: -0.7, Y: -0.7},
			expected: dpad.State{Kind: dpad.Diagonal, Dir: dpad.Down | dpad.Left},
		},
		{
			name:     "both axes in debounce ring",
			sample:   dpad.Sample{X: 0.4, Y: 0.4},
			expected: dpad.State{Kind: dpad.DualTransition, Dir: dpad.Up | dpad.Right},
		},
		{
			name:     "steep angle stays cardinal",
			sample:   dpad.Sample{X: 0.2, Y: -0.95},
			expected: dpad.State{Kind: dpad.Cardinal, Dir: dpad.Down},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := dpad.Classify8(tc.sample, eightWayCfg)
			assert.Equal(t, tc.expected, got, "got %s", got)
		})
	}
}

func TestClassify8DiagonalTransition(t *testing.T) {
	cfg := dpad.Config{Mode: dpad.EightWay, Deadzone: 0.6, Slope: 0, Offset: 0.2, Debounce: 0.05}

	got := dpad.Classify8(dpad.Sample{X: 0.8, Y: 0.18}, cfg)
	assert.Equal(t, dpad.State{Kind: dpad.DiagonalTransition, Dir: dpad.Up | dpad.Right}, got)
	assert.Equal(t, dpad.TierDebounce, got.Tier())

	got = dpad.Classify8(dpad.Sample{X: -0.18, Y: 0.8}, cfg)
	assert.Equal(t, dpad.State{Kind: dpad.DiagonalTransition, Dir: dpad.Up | dpad.Left}, got)
}

func TestClassify4(t *testing.T) {
	type testCase struct {
		name     string
		sample   dpad.Sample
		expected dpad.State
	}

	cases := []testCase{
		{
			name:     "equal magnitudes favor y",
			sample:   dpad.Sample{X: 0.5, Y: 0.5},
			expected: dpad.State{Kind: dpad.Cardinal, Dir: dpad.Up},
		},
		{
			name:     "equal magnitudes favor y, negative",
			sample:   dpad.Sample{X: 0.5, Y: -0.5},
			expected: dpad.State{Kind: dpad.Cardinal, Dir: dpad.Down},
		},
		{
			name:     "larger x wins",
			sample:   dpad.Sample{X: -0.52, Y: 0.5},
			expected: dpad.State{Kind: dpad.Cardinal, Dir: dpad.Left},
		},
		{
			name:     "center",
			sample:   dpad.Sample{X: 0.1, Y: -0.1},
			expected: dpad.State{Kind: dpad.Center},
		},
		{
			name:     "x only within debounce",
			sample:   dpad.Sample{X: 0.27, Y: 0},
			expected: dpad.State{Kind: dpad.CardinalTransition, Dir: dpad.Right},
		},
		{
			name:     "y only within debounce",
			sample:   dpad.Sample{X: 0, Y: -0.27},
			expected: dpad.State{Kind: dpad.CardinalTransition, Dir: dpad.Down},
		},
		{
			name:     "both biased passes disagree",
			sample:   dpad.Sample{X: 0.19, Y: 0.19},
			expected: dpad.State{Kind: dpad.DualTransition, Dir: dpad.Right},
		},
		{
			name:     "both biased passes disagree, negative",
			sample:   dpad.Sample{X: -0.19, Y: -0.19},
			expected: dpad.State{Kind: dpad.DualTransition, Dir: dpad.Left},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := dpad.Classify4(tc.sample, fourWayCfg)
			assert.Equal(t, tc.expected, got, "got %s", got)
		})
	}
}

func TestClassify4DualTransitionIsSingleAxis(t *testing.T) {
	cfg := dpad.DefaultSettings().ConfigFor(dpad.FourWay)
	got := dpad.Classify4(dpad.Sample{X: 0.34, Y: 0.34}, cfg)
	assert.Equal(t, dpad.DualTransition, got.Kind)
	assert.Equal(t, dpad.Right, got.Dir)
	assert.Equal(t, dpad.AxisX, got.Axis())
	assert.Equal(t, dpad.HatE, got.Dir.Hat())
}

func TestFourWayNeverReportsBothAxes(t *testing.T) {
	axis := grid(201)
	for _, cfg := range propertyConfigs() {
		if cfg.Mode != dpad.FourWay {
			continue
		}
		for _, x := range axis {
			for _, y := range axis {
				st := dpad.Classify4(dpad.Sample{X: x, Y: y}, cfg)
				require.NotEqual(t, dpad.AxisBoth, st.Axis(), "config %+v sample (%v, %v) got %s", cfg, x, y, st)
			}
		}
	}
}

func TestClassifyDispatchesOnMode(t *testing.T) {
	s := dpad.Sample{X: 0.7, Y: 0.7}
	assert.Equal(t, dpad.Diagonal, dpad.Classify(s, eightWayCfg).Kind)

	cfg := eightWayCfg
	cfg.Mode = dpad.FourWay
	assert.Equal(t, dpad.State{Kind: dpad.Cardinal, Dir: dpad.Up}, dpad.Classify(s, cfg))
}

func TestOriginIsCenter(t *testing.T) {
	for _, cfg := range propertyConfigs() {
		got := dpad.Classify(dpad.Sample{}, cfg)
		assert.Equal(t, dpad.State{Kind: dpad.Center}, got, "config %+v", cfg)
	}
}

func TestPointSymmetry(t *testing.T) {
	axis := grid(61)
	for _, cfg := range propertyConfigs() {
		for _, x := range axis {
			for _, y := range axis {
				a := dpad.Classify(dpad.Sample{X: x, Y: y}, cfg)
				b := dpad.Classify(dpad.Sample{X: -x, Y: -y}, cfg)
				require.Equal(t, a.Reflect(), b, "config %+v sample (%v, %v)", cfg, x, y)
				require.Equal(t, a.Tier(), b.Tier())
			}
		}
	}
}

func TestEightWayActivationIsMonotonic(t *testing.T) {
	for _, cfg := range propertyConfigs() {
		if cfg.Mode != dpad.EightWay {
			continue
		}
		prev := dpad.TierCenter
		for i := 0; i <= 1000; i++ {
			x := float64(i) / 1000
			st := dpad.Classify8(dpad.Sample{X: x}, cfg)
			require.GreaterOrEqual(t, int(st.Tier()), int(prev), "config %+v x=%v", cfg, x)
			if st.Tier() != dpad.TierCenter {
				require.Equal(t, dpad.Right, st.Dir)
			}
			prev = st.Tier()
		}
		assert.Equal(t, dpad.TierActive, prev, "config %+v never activates", cfg)
	}
}

func TestFourWayNeverReportsDiagonal(t *testing.T) {
	axis := grid(81)
	for _, cfg := range propertyConfigs() {
		if cfg.Mode != dpad.FourWay {
			continue
		}
		for _, x := range axis {
			for _, y := range axis {
				st := dpad.Classify4(dpad.Sample{X: x, Y: y}, cfg)
				require.NotEqual(t, dpad.Diagonal, st.Kind)
				require.NotEqual(t, dpad.DiagonalTransition, st.Kind)
				if st.Kind == dpad.Cardinal {
					require.NotEqual(t, dpad.AxisBoth, st.Axis(), "sample (%v, %v)", x, y)
				}
			}
		}
	}
}

func TestClassifyIsTotal(t *testing.T) {
	inputs := []float64{-10, -1, -0.5, 0, 0.5, 1, 10}
	for _, cfg := range propertyConfigs() {
		for _, x := range inputs {
			for _, y := range inputs {
				assert.NotPanics(t, func() { dpad.Classify(dpad.Sample{X: x, Y: y}, cfg) })
			}
		}
	}
}
