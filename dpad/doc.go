// Package dpad maps an analog stick position onto a digital directional pad.
//
// A raw stick sample is first reshaped per axis by Remap (the "squareness"
// power curve, rescaled so the deadzone radius stays put), then classified
// by one of two mode variants selected through Config.Mode:
//
//   - EightWay evaluates the x and y axes independently. Each axis is tested
//     twice, once with no margin ("fully active") and once with the debounce
//     margin subtracted from the deadzone and offset ("active or
//     transitioning"). Diagonals are the conjunction of two active axes.
//   - FourWay lets at most one axis be active at a time. The axis with the
//     larger magnitude (plus its debounce bias) wins; an exact tie goes to y.
//
// Classify, Classify8 and Classify4 are pure: the result depends only on the
// sample and the config, and every real-valued input yields a State. The
// debounce value is a geometric margin there, not a memory of earlier
// samples. Tracker provides the stateful variant used by device firmware,
// where the margin is only granted to an axis that was active in the
// previously reported direction.
//
// Config values are expected to be validated upstream (see Settings.Validate).
// Degenerate configs, e.g. Squareness <= -1 or Debounce larger than Deadzone
// or Offset, are not rejected here and produce ill-defined regions.
package dpad
