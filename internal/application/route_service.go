package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/bnema/robotctl/internal/domain"
	"github.com/bnema/robotctl/internal/ports"
)

const recordTypeSequence = "sequence"

type routeRecord struct {
	Type string `json:"type"`
	Seq  string `json:"seq"`
	From string `json:"from"`
	To   string `json:"to"`
}

// RouteService keeps the local route cache ahead of the remote store. Local
// writes always happen before remote ones.
type RouteService struct {
	local  ports.KeyValueStore
	remote ports.RemoteStore
	logger *slog.Logger
}

func NewRouteService(local ports.KeyValueStore, remote ports.RemoteStore, logger *slog.Logger) *RouteService {
	if logger == nil {
		logger = slog.Default()
	}

	return &RouteService{
		local:  local,
		remote: remote,
		logger: logger.With("component", "route-store"),
	}
}

func (s *RouteService) Save(ctx context.Context, route domain.Route) error {
	if err := route.Validate(); err != nil {
		return err
	}

	payload, err := json.Marshal(routeRecord{
		Type: recordTypeSequence,
		Seq:  domain.Encode(route.Sequence),
		From: string(route.Origin),
		To:   string(route.Destination),
	})
	if err != nil {
		return fmt.Errorf("encode route record: %w", err)
	}

	if err := s.local.Put(ctx, route.Key(), string(payload)); err != nil {
		return fmt.Errorf("%w: save %s: %w", ErrLocalCache, route.Key(), err)
	}
	s.logger.Info("route saved locally", "key", route.Key(), "steps", len(route.Sequence))

	if err := s.remote.SaveRoute(ctx, route.Origin, route.Destination, domain.BuildMovement(route.Sequence)); err != nil {
		s.logger.Warn("remote route save failed", "key", route.Key(), "error", err)
		return fmt.Errorf("%w: save route: %w", ErrRemoteSync, err)
	}

	return nil
}

// Load reads the per-route key, then falls back to the legacy slot when it was
// recorded for the same origin and destination.
func (s *RouteService) Load(ctx context.Context, origin, destination domain.Place) (domain.Route, error) {
	key := domain.RouteKey(origin, destination)

	record, err := s.readRecord(ctx, key)
	if errors.Is(err, domain.ErrRouteNotFound) {
		record, err = s.readRecord(ctx, domain.LegacyRouteKey)
		if err == nil && (record.From != string(origin) || record.To != string(destination)) {
			err = domain.ErrRouteNotFound
		}
	}
	if err != nil {
		return domain.Route{}, err
	}

	return domain.Route{Origin: origin, Destination: destination, Sequence: domain.Decode(record.Seq)}, nil
}

// Delete always clears the local entries, including a legacy slot that
// matches, even when the remote delete fails.
func (s *RouteService) Delete(ctx context.Context, origin, destination domain.Place) error {
	remoteErr := s.remote.DeleteRoute(ctx, origin, destination)
	if remoteErr != nil {
		s.logger.Warn("remote route delete failed", "from", origin, "to", destination, "error", remoteErr)
	}

	key := domain.RouteKey(origin, destination)
	if err := s.local.Delete(ctx, key); err != nil {
		return fmt.Errorf("%w: delete %s: %w", ErrLocalCache, key, err)
	}

	legacy, err := s.readRecord(ctx, domain.LegacyRouteKey)
	switch {
	case err == nil && legacy.From == string(origin) && legacy.To == string(destination):
		if err := s.local.Delete(ctx, domain.LegacyRouteKey); err != nil {
			return fmt.Errorf("%w: delete legacy slot: %w", ErrLocalCache, err)
		}
		s.logger.Info("legacy route slot cleared", "from", origin, "to", destination)
	case err != nil && !errors.Is(err, domain.ErrRouteNotFound):
		return err
	}

	if remoteErr != nil {
		return fmt.Errorf("%w: delete route: %w", ErrRemoteSync, remoteErr)
	}

	return nil
}

// List returns every locally cached route, sorted by key. A legacy slot is
// listed only when no per-route entry covers the same pair.
func (s *RouteService) List(ctx context.Context) ([]domain.Route, error) {
	keys, err := s.local.Keys(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list keys: %w", ErrLocalCache, err)
	}

	seen := make(map[string]struct{}, len(keys))
	routes := make([]domain.Route, 0, len(keys))
	hasLegacy := false
	for _, key := range keys {
		if key == domain.LegacyRouteKey {
			hasLegacy = true
			continue
		}
		if !domain.IsRouteKey(key) {
			continue
		}

		route, ok, err := s.listedRoute(ctx, key)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		seen[route.Key()] = struct{}{}
		routes = append(routes, route)
	}

	if hasLegacy {
		route, ok, err := s.listedRoute(ctx, domain.LegacyRouteKey)
		if err != nil {
			return nil, err
		}
		if _, covered := seen[route.Key()]; ok && !covered {
			routes = append(routes, route)
		}
	}

	sort.Slice(routes, func(i, j int) bool {
		return routes[i].Key() < routes[j].Key()
	})

	return routes, nil
}

func (s *RouteService) ListRemote(ctx context.Context) ([]ports.RemoteRoute, error) {
	routes, err := s.remote.ListRoutes(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list routes: %w", ErrRemoteSync, err)
	}

	return routes, nil
}

func (s *RouteService) listedRoute(ctx context.Context, key string) (domain.Route, bool, error) {
	record, err := s.readRecord(ctx, key)
	if errors.Is(err, domain.ErrRouteNotFound) {
		s.logger.Warn("skipping unreadable route record", "key", key)
		return domain.Route{}, false, nil
	}
	if err != nil {
		return domain.Route{}, false, err
	}

	return domain.Route{
		Origin:      domain.Place(record.From),
		Destination: domain.Place(record.To),
		Sequence:    domain.Decode(record.Seq),
	}, true, nil
}

// readRecord maps a missing key, malformed JSON or an empty sequence to
// domain.ErrRouteNotFound.
func (s *RouteService) readRecord(ctx context.Context, key string) (routeRecord, error) {
	raw, err := s.local.Get(ctx, key)
	if errors.Is(err, ports.ErrKeyNotFound) {
		return routeRecord{}, domain.ErrRouteNotFound
	}
	if err != nil {
		return routeRecord{}, fmt.Errorf("%w: read %s: %w", ErrLocalCache, key, err)
	}

	var record routeRecord
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		s.logger.Warn("malformed route record", "key", key, "error", err)
		return routeRecord{}, domain.ErrRouteNotFound
	}
	if record.Seq == "" {
		return routeRecord{}, domain.ErrRouteNotFound
	}

	return record, nil
}
