package domain

const (
	// LegacyRouteKey is the single slot used before routes were keyed per pair.
	LegacyRouteKey = "robot_seq_payload"

	routeKeyPrefix = LegacyRouteKey + ":"
	routeKeyArrow  = "->"
)

type Route struct {
	Origin      Place
	Destination Place
	Sequence    Sequence
}

func (r Route) Validate() error {
	if len(r.Sequence) == 0 {
		return ErrEmptySequence
	}
	if r.Origin == r.Destination {
		return ErrSameOriginDestination
	}
	if !r.Origin.Valid() || !r.Destination.Valid() {
		return ErrUnknownPlace
	}

	return nil
}

func (r Route) Key() string {
	return RouteKey(r.Origin, r.Destination)
}

// RouteKey derives the per-route cache key for the ordered pair.
func RouteKey(origin, destination Place) string {
	return routeKeyPrefix + string(origin) + routeKeyArrow + string(destination)
}

// IsRouteKey reports whether key was produced by RouteKey.
func IsRouteKey(key string) bool {
	return len(key) > len(routeKeyPrefix) && key[:len(routeKeyPrefix)] == routeKeyPrefix
}
