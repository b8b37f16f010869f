package debug

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

type debug struct {
	Compare   bool
	Reconcile bool
	Query     bool
	Apply     bool
}

var d *debug

func init() {
	d = &debug{}
	d.Compare = boolEnv("BLEND_DEBUG_COMPARE")
	d.Reconcile = boolEnv("BLEND_DEBUG_RECONCILE")
	d.Query = boolEnv("BLEND_DEBUG_QUERY")
	d.Apply = boolEnv("BLEND_DEBUG_APPLY")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Compare() bool {
	return d.Compare
}
func Reconcile() bool {
	return d.Reconcile
}
func Query() bool {
	return d.Query
}
func Apply() bool {
	return d.Apply
}

func Logf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format, args...)
}

func LogAny(v any) {
	d, err := json.Marshal(v)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", v)
		return
	}
	os.Stderr.Write(d)
}
