package banks

import (
	"fmt"
	"slices"
	"strings"
)

// registry is ordered by precedence: formats with distinctive markers come
// first, the generic catch-all last. Detection keeps the first of equal
// scores, so order breaks ties.
var registry = []Format{
	standard18Col,
	narodny,
	kaspiStatement,
	kaspiStatistics,
	otbasy,
	tengri,
	alatauCity,
	tsesnabank,
	alHilal,
	alHilalFull,
	kazkom,
	forteSDP,
	forteRegistry,
	rbkCard,
	rbkSimple,
	eurasianCard,
	eurasianStatement,
	kassaNova,
	delta,
	bccSimple,
	bccFull,
	bccClientMovement,
	kzi,
	nurbank,
	nurbankXLS,
	altyn,
	halykFinance,
	citibank,
	bankRazvitiya,
	bankOfChina,
	icbcAlmaty,
	zaman,
	genericLedger,
}

// Registry returns every format in detection order.
func Registry() []Format {
	return slices.Clone(registry)
}

// Lookup returns the format with the given ID.
func Lookup(id string) (Format, error) {
	for _, f := range registry {
		if f.ID() == id {
			return f, nil
		}
	}
	return nil, fmt.Errorf("unknown format: %s (available: %v)", id, IDs())
}

// IDs lists format IDs in detection order.
func IDs() []string {
	ids := make([]string, len(registry))
	for i, f := range registry {
		ids[i] = f.ID()
	}
	return ids
}

// IsKnown reports whether id names a registered format.
func IsKnown(id string) bool {
	_, err := Lookup(id)
	return err == nil
}

// SplitFormatArg splits a file argument that may carry a forced format prefix.
// Example: "kaspi-statement:data/a.xlsx" → ("kaspi-statement", "data/a.xlsx")
// Example: "data/a.xlsx" → ("", "data/a.xlsx")
// Example: "C:\data\a.xlsx" → ("", "C:\data\a.xlsx")
func SplitFormatArg(arg string) (id, path string) {
	prefix, rest, found := strings.Cut(arg, ":")
	if found && IsKnown(prefix) {
		return prefix, rest
	}
	return "", arg
}
