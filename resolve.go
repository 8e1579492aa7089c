package simfile

// secondsPerRow returns the duration of one row at the given tempo (beats
// per minute). One row is 1/48 of a beat (MaxValidDenominator rows/beat).
func secondsPerRow(bpm float64) float64 {
	if bpm <= 0 {
		return 0
	}
	return 60.0 / bpm / MaxValidDenominator
}

// ResolveTimes performs a single forward pass over the canonically sorted
// layer that assigns every event's TimeSeconds from the tempo, stop, and
// warp state accumulated so far. layer must already be sorted (SortEvents)
// by the caller.
func ResolveTimes(layer EventLayer) {
	var (
		haveTempo    bool
		lastTempo    float64
		lastTempoRow int
		lastTempoT   float64

		totalStopTime float64
		totalWarpTime float64
		warpEndRow    = -1
		lastRateRow   int

		prevTime float64
	)

	for _, e := range layer {
		var tRaw float64
		if haveTempo {
			tRaw = lastTempoT + float64(e.Row-lastTempoRow)*secondsPerRow(lastTempo)
		}

		var currentWarpTime float64
		warpActiveBeforeCommit := warpEndRow >= 0
		if warpActiveBeforeCommit {
			effectiveEnd := e.Row
			if warpEndRow < effectiveEnd {
				effectiveEnd = warpEndRow
			}
			currentWarpTime = float64(effectiveEnd-lastRateRow) * secondsPerRow(lastTempo)
			if e.Row >= warpEndRow {
				totalWarpTime += currentWarpTime
				warpEndRow = -1
			}
		}

		t := tRaw - currentWarpTime - totalWarpTime + totalStopTime
		if t < prevTime {
			t = prevTime
		}
		e.TimeSeconds = t
		prevTime = t

		switch e.Kind {
		case EventStop:
			totalStopTime += e.LengthSeconds
		case EventWarp:
			end := e.Row + e.LengthRows
			if warpEndRow < 0 {
				lastRateRow = e.Row
				warpEndRow = end
			} else if end > warpEndRow {
				warpEndRow = end
			}
		case EventTempo:
			if warpEndRow >= 0 {
				// Warp did not end on this event; split its time
				// contribution at this rate-change boundary.
				totalWarpTime += currentWarpTime
				lastRateRow = e.Row
			}
			haveTempo = true
			lastTempo = e.BPM
			lastTempoRow = e.Row
			lastTempoT = tRaw
		case EventTimeSignature:
			if warpEndRow >= 0 {
				totalWarpTime += currentWarpTime
				lastRateRow = e.Row
			}
		}
	}
}
