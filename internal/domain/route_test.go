package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouteKeyIsOrdered(t *testing.T) {
	ab := RouteKey(PlaceStarting, PlaceTable1)
	ba := RouteKey(PlaceTable1, PlaceStarting)

	assert.Equal(t, "robot_seq_payload:starting->table1", ab)
	assert.NotEqual(t, ab, ba)
	assert.True(t, IsRouteKey(ab))
	assert.False(t, IsRouteKey(LegacyRouteKey))
}

func TestRouteKeysAreUniqueAcrossPlaces(t *testing.T) {
	seen := map[string]struct{}{}
	for _, origin := range Places() {
		for _, destination := range Places() {
			key := RouteKey(origin, destination)
			_, dup := seen[key]
			require.False(t, dup, key)
			seen[key] = struct{}{}
		}
	}
}

func TestRouteValidate(t *testing.T) {
	steps := Sequence{{ActionForward, 1}}

	tests := []struct {
		name  string
		route Route
		want  error
	}{
		{name: "valid", route: Route{Origin: PlaceStarting, Destination: PlaceTable2, Sequence: steps}},
		{name: "empty sequence", route: Route{Origin: PlaceStarting, Destination: PlaceTable2}, want: ErrEmptySequence},
		{name: "same endpoints", route: Route{Origin: PlaceTable1, Destination: PlaceTable1, Sequence: steps}, want: ErrSameOriginDestination},
		{name: "unknown place", route: Route{Origin: "kitchen", Destination: PlaceTable1, Sequence: steps}, want: ErrUnknownPlace},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.route.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestParsePlaceIsCaseInsensitive(t *testing.T) {
	place, err := ParsePlace(" Table2 ")
	require.NoError(t, err)
	assert.Equal(t, PlaceTable2, place)
	assert.Equal(t, "Table 2", place.Label())

	_, err = ParsePlace("garden")
	assert.ErrorIs(t, err, ErrUnknownPlace)
}

func TestBuildMovementCompressesAndConvertsToSeconds(t *testing.T) {
	movement := BuildMovement(Sequence{{ActionForward, 3}, {ActionForward, 2}, {ActionLeft, 0}, {ActionStop, 0}})

	assert.Equal(t, Movement{Steps: []MovementStep{
		{Action: ActionForward, Seconds: 5},
		{Action: ActionLeft, Seconds: 5},
		{Action: ActionStop, Seconds: 0},
	}}, movement)
}
