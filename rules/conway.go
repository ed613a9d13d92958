package rules

/*
ApplyConwayRules applies Conway's Game of Life rules to determine the next state of a cell.

Conway's Game of Life rules: (alive && neighbors == 2) || neighbors == 3
*/
func ApplyConwayRules(neighbors int, alive bool) bool {
	return (alive && neighbors == 2) || neighbors == 3
}

// ApplyInclusiveRules is ApplyConwayRules for a count that includes the cell itself
// when it is alive, as returned by a 3x3 range query centred on the cell.
func ApplyInclusiveRules(count int, alive bool) bool {
	return count == 3 || (alive && count == 4)
}

const (
	// AliveFlag marks the cell's own state in an encoded accumulator slot.
	AliveFlag = 1 << 3
	// CountMask selects the neighbor count bits of an encoded slot.
	CountMask = AliveFlag - 1
	// CountSaturation is the ceiling for stored neighbor counts. Every count
	// of 4 and above kills, so clamping keeps the count out of the alive bit.
	CountSaturation = 4
)

// NextStateTable maps AliveFlag|count to the next state of the cell.
// Only 0b1010, 0b1011 and 0b0011 are set.
var NextStateTable = buildNextStateTable()

func buildNextStateTable() (table [16]uint64) {
	for code := range len(table) {
		if ApplyConwayRules(code&CountMask, code&AliveFlag != 0) {
			table[code] = 1
		}
	}
	return
}

// Increment adds one neighbor to an encoded slot, saturating at CountSaturation.
func Increment(slot uint8) uint8 {
	if slot&CountMask < CountSaturation {
		return slot + 1
	}
	return slot
}
