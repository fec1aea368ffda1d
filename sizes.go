package platocmp

import (
	"github.com/mycophonic/platocmp/header"
	"github.com/mycophonic/platocmp/layout"
)

// sampleBytes returns the fixed per-sample byte size for a layout under
// the uniform 4-byte-per-field storage convention (see DESIGN.md).
func sampleBytes(def layout.Def) int {
	return len(def.Fields) * 4
}

// headerBytes returns the collection-header byte count for def, or 0 for
// single-field layouts.
func headerBytes(def layout.Def) int {
	if def.HasHeader() {
		return header.Size
	}

	return 0
}
