package utils

import (
	"reflect"
	"runtime"
)

// GetFunctionName resolves the fully qualified name of a function value,
// used for log fields on background goroutines.
func GetFunctionName(fn any) string {
	ptr := reflect.ValueOf(fn).Pointer()
	if f := runtime.FuncForPC(ptr); f != nil {
		return f.Name()
	}
	return "unknown"
}
