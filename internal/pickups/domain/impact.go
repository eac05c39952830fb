package domain

import "math"

// Impact converts recovered material totals into renewable-energy unit equivalents.
type Impact struct {
	EVBatteryUnits  int
	SolarPanelUnits int
}

// ComputeImpact needs every input material present; a missing one yields zero units.
// One EV battery takes 5 kg lithium, 2 kg cobalt and 3 kg nickel; one solar
// panel takes 0.5 kg rare earths and 1 kg copper.
func ComputeImpact(totals map[Material]float64) Impact {
	var out Impact

	li, okLi := totals[Lithium]
	co, okCo := totals[Cobalt]
	ni, okNi := totals[Nickel]
	if okLi && okCo && okNi {
		out.EVBatteryUnits = int(math.Min(li/5, math.Min(co/2, ni/3)))
	}

	re, okRe := totals[RareEarth]
	cu, okCu := totals[Copper]
	if okRe && okCu {
		out.SolarPanelUnits = int(math.Min(re/0.5, cu/1))
	}
	return out
}
