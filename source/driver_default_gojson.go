// Package source switches the process-wide default JSON driver to go-json
// when imported for its side effect:
//
//	import _ "github.com/kootenpv/dumps/source"
package source

import (
	"github.com/kootenpv/dumps"
	drvgojson "github.com/kootenpv/dumps/source/gojson"
)

// Kept out of the root package so importing dumps leaves the default driver alone.
func init() { dumps.SetJSONDriver(drvgojson.Driver()) }
