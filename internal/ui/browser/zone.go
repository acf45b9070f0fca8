package browser

import "strconv"

// Mouse zones cover entry rows only. The id carries the logical row index,
// so a click resolves to a row without consulting the engine.
const rowZonePrefix = "row:"

func rowZoneID(index int) string {
	return rowZonePrefix + strconv.Itoa(index)
}
