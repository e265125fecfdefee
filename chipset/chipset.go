// Package chipset implements the protocol descriptions of concrete LED parts.
package chipset

import (
	"sort"
	"strings"

	"github.com/coreman2200/ledwire/clocked"
	"github.com/coreman2200/ledwire/clockless"
	"github.com/coreman2200/ledwire/fault"
)

// Family tells which protocol family a chipset belongs to.
type Family int

const (
	Clocked Family = iota + 1
	Clockless
)

var (
	clockedByName = map[string]clocked.Chipset{
		"apa102":  NewAPA102(),
		"dotstar": NewAPA102(),
		"lpd8806": NewLPD8806(),
	}
	clocklessByName = map[string]clockless.Chipset{
		"ws2812":   WS2812{},
		"ws2812b":  WS2812{},
		"neopixel": WS2812{},
		"sk6812":   SK6812{},
		"ws2811":   WS2811{},
	}
)

// Lookup resolves a chipset name to its family.
func Lookup(name string) (Family, error) {
	name = strings.ToLower(name)
	if _, ok := clockedByName[name]; ok {
		return Clocked, nil
	}
	if _, ok := clocklessByName[name]; ok {
		return Clockless, nil
	}
	return 0, fault.Configf("chipset", "unknown chipset %q (known: %s)", name, strings.Join(Names(), ", "))
}

// ClockedByName returns a clocked chipset.
func ClockedByName(name string) (clocked.Chipset, error) {
	c, ok := clockedByName[strings.ToLower(name)]
	if !ok {
		return nil, fault.Configf("chipset", "%q is not a clocked chipset", name)
	}
	return c, nil
}

// ClocklessByName returns a clockless chipset.
func ClocklessByName(name string) (clockless.Chipset, error) {
	c, ok := clocklessByName[strings.ToLower(name)]
	if !ok {
		return nil, fault.Configf("chipset", "%q is not a clockless chipset", name)
	}
	return c, nil
}

// Names lists every known chipset name.
func Names() []string {
	names := make([]string, 0, len(clockedByName)+len(clocklessByName))
	for n := range clockedByName {
		names = append(names, n)
	}
	for n := range clocklessByName {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
