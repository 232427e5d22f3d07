package dpad_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Alia5/analogdpad/dpad"
)

func TestDirectionHat(t *testing.T) {
	type testCase struct {
		dir      dpad.Direction
		hat      uint8
		name     string
		reflects dpad.Direction
	}

	cases := []testCase{
		{dir: 0, hat: dpad.HatCenter, name: "center", reflects: 0},
		{dir: dpad.Up, hat: dpad.HatN, name: "up", reflects: dpad.Down},
		{dir: dpad.Up | dpad.Right, hat: dpad.HatNE, name: "up-right", reflects: dpad.Down | dpad.Left},
		{dir: dpad.Right, hat: dpad.HatE, name: "right", reflects: dpad.Left},
		{dir: dpad.Down | dpad.Right, hat: dpad.HatSE, name: "down-right", reflects: dpad.Up | dpad.Left},
		{dir: dpad.Down, hat: dpad.HatS, name: "down", reflects: dpad.Up},
		{dir: dpad.Down | dpad.Left, hat: dpad.HatSW, name: "down-left", reflects: dpad.Up | dpad.Right},
		{dir: dpad.Left, hat: dpad.HatW, name: "left", reflects: dpad.Right},
		{dir: dpad.Up | dpad.Left, hat: dpad.HatNW, name: "up-left", reflects: dpad.Down | dpad.Right},
		{dir: dpad.Up | dpad.Down, hat: dpad.HatCenter, name: "center", reflects: 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.hat, tc.dir.Hat())
			assert.Equal(t, tc.name, tc.dir.String())
			assert.Equal(t, tc.reflects, tc.dir.Reflect())
		})
	}
}

func TestStateTierAndAxis(t *testing.T) {
	type testCase struct {
		state dpad.State
		tier  dpad.Tier
		axis  dpad.Axis
		str   string
	}

	cases := []testCase{
		{state: dpad.State{}, tier: dpad.TierCenter, axis: dpad.AxisNone, str: "center"},
		{state: dpad.State{Kind: dpad.Cardinal, Dir: dpad.Left}, tier: dpad.TierActive, axis: dpad.AxisX, str: "cardinal left"},
		{state: dpad.State{Kind: dpad.Diagonal, Dir: dpad.Up | dpad.Left}, tier: dpad.TierActive, axis: dpad.AxisBoth, str: "diagonal up-left"},
		{state: dpad.State{Kind: dpad.DiagonalTransition, Dir: dpad.Down | dpad.Right}, tier: dpad.TierDebounce, axis: dpad.AxisBoth, str: "diagonal-transition down-right"},
		{state: dpad.State{Kind: dpad.DualTransition, Dir: dpad.Up | dpad.Right}, tier: dpad.TierDebounce, axis: dpad.AxisBoth, str: "dual-transition up-right"},
		{state: dpad.State{Kind: dpad.CardinalTransition, Dir: dpad.Up}, tier: dpad.TierDebounce, axis: dpad.AxisY, str: "cardinal-transition up"},
	}

	for _, tc := range cases {
		t.Run(tc.str, func(t *testing.T) {
			assert.Equal(t, tc.tier, tc.state.Tier())
			assert.Equal(t, tc.axis, tc.state.Axis())
			assert.Equal(t, tc.str, tc.state.String())
		})
	}
}
