package domain

import (
	"fmt"
	"strings"
)

type Place string

const (
	PlaceStarting Place = "starting"
	PlaceTable1   Place = "table1"
	PlaceTable2   Place = "table2"
	PlaceTable3   Place = "table3"
)

var places = []Place{PlaceStarting, PlaceTable1, PlaceTable2, PlaceTable3}

var placeLabels = map[Place]string{
	PlaceStarting: "Start Point",
	PlaceTable1:   "Table 1",
	PlaceTable2:   "Table 2",
	PlaceTable3:   "Table 3",
}

func Places() []Place {
	out := make([]Place, len(places))
	copy(out, places)
	return out
}

// ParsePlace resolves a case-insensitive place id.
func ParsePlace(raw string) (Place, error) {
	candidate := Place(strings.ToLower(strings.TrimSpace(raw)))
	if !candidate.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownPlace, raw)
	}

	return candidate, nil
}

func (p Place) Valid() bool {
	_, ok := placeLabels[p]
	return ok
}

func (p Place) Label() string {
	if label, ok := placeLabels[p]; ok {
		return label
	}

	return string(p)
}
