package debug

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

type debug struct {
	Scan   bool
	Events bool
	Arena  bool
	LSP    bool
}

var d *debug

func init() {
	d = &debug{}
	d.Scan = boolEnv("UDON_DEBUG_SCAN")
	d.Events = boolEnv("UDON_DEBUG_EVENTS")
	d.Arena = boolEnv("UDON_DEBUG_ARENA")
	d.LSP = boolEnv("UDON_DEBUG_LSP")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

// Scan reports whether scanner tokens should be logged.
func Scan() bool {
	return d.Scan
}

// Events reports whether parser events should be logged.
func Events() bool {
	return d.Events
}

func Arena() bool {
	return d.Arena
}

func LSP() bool {
	return d.LSP
}

// Any reports whether any debug switch is on.
func Any() bool {
	return d.Scan || d.Events || d.Arena || d.LSP
}

func LogAny(v any) {
	d, err := json.Marshal(v)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", v)
		return
	}
	os.Stderr.Write(d)
	os.Stderr.Write([]byte{'\n'})
}
