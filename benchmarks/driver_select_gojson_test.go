//go:build gojson

package dumps_test

import (
	"github.com/kootenpv/dumps"
	drv "github.com/kootenpv/dumps/source/gojson"
)

func init() {
	dumps.SetJSONDriver(drv.Driver())
}
