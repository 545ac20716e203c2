package app

import (
	"cmp"
	"slices"
	"sync"

	"github.com/dkeye/knxip/internal/core"
	"github.com/dkeye/knxip/internal/domain"
	"github.com/rs/zerolog/log"
)

type route struct {
	id    core.RouteID
	seq   uint64
	types map[domain.ServiceType]struct{} // nil matches every service type
	cb    core.Callback
}

func byRegistration(a, b *route) int { return cmp.Compare(a.seq, b.seq) }

func (rt *route) wants(st domain.ServiceType) bool {
	if rt.types == nil {
		return true
	}
	_, ok := rt.types[st]
	return ok
}

// RouteInfo is a read-only view of a registered route.
type RouteInfo struct {
	ID    string   `json:"id"`
	Types []string `json:"types"`
}

// Registry is the dispatch fan-out between the single receive path and the
// routes registered by transactions and monitors.
//
// The lock only guards the route map. Dispatch copies the matching routes
// under RLock and invokes callbacks after releasing it, so a callback may
// register or unregister routes without deadlocking. A route added during a
// dispatch does not see the frame being dispatched; a route removed during a
// dispatch may still see it once.
type Registry struct {
	mu     sync.RWMutex
	routes map[core.RouteID]*route
	seq    uint64
}

var _ core.Router = (*Registry)(nil)

func NewRegistry() *Registry {
	return &Registry{
		routes: make(map[core.RouteID]*route),
	}
}

// Register adds a route for the given service types. An empty set registers a
// catch-all route that receives every frame.
func (r *Registry) Register(types []domain.ServiceType, cb core.Callback) core.RouteID {
	rt := &route{id: core.NewRouteID(), cb: cb}
	if len(types) > 0 {
		rt.types = make(map[domain.ServiceType]struct{}, len(types))
		for _, st := range types {
			rt.types[st] = struct{}{}
		}
	}

	r.mu.Lock()
	r.seq++
	rt.seq = r.seq
	r.routes[rt.id] = rt
	r.mu.Unlock()

	log.Debug().Str("module", "core.registry").Str("route", rt.id.String()).Int("types", len(types)).Msg("route registered")
	return rt.id
}

func (r *Registry) Unregister(id core.RouteID) {
	r.mu.Lock()
	_, ok := r.routes[id]
	delete(r.routes, id)
	r.mu.Unlock()
	if ok {
		log.Debug().Str("module", "core.registry").Str("route", id.String()).Msg("route unregistered")
	}
}

// Dispatch delivers f to every route registered at the time of the call whose
// interest set contains f's service type, in registration order.
func (r *Registry) Dispatch(f domain.Frame) {
	st := f.ServiceType()

	r.mu.RLock()
	snapshot := make([]*route, 0, len(r.routes))
	for _, rt := range r.routes {
		if rt.wants(st) {
			snapshot = append(snapshot, rt)
		}
	}
	r.mu.RUnlock()

	if len(snapshot) == 0 {
		log.Debug().Str("module", "core.registry").Stringer("service_type", st).Msg("no route for frame")
		return
	}
	slices.SortFunc(snapshot, byRegistration)

	for _, rt := range snapshot {
		r.deliver(rt, f)
	}
}

// deliver keeps one misbehaving callback from killing the receive loop.
func (r *Registry) deliver(rt *route, f domain.Frame) {
	defer func() {
		if p := recover(); p != nil {
			log.Error().
				Str("module", "core.registry").
				Str("route", rt.id.String()).
				Stringer("service_type", f.ServiceType()).
				Interface("panic", p).
				Msg("route callback panicked")
		}
	}()
	rt.cb(f)
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.routes)
}

// Snapshot lists the current routes in registration order.
func (r *Registry) Snapshot() []RouteInfo {
	r.mu.RLock()
	routes := make([]*route, 0, len(r.routes))
	for _, rt := range r.routes {
		routes = append(routes, rt)
	}
	r.mu.RUnlock()

	slices.SortFunc(routes, byRegistration)
	out := make([]RouteInfo, 0, len(routes))
	for _, rt := range routes {
		info := RouteInfo{ID: rt.id.String(), Types: []string{}}
		for st := range rt.types {
			info.Types = append(info.Types, st.String())
		}
		slices.Sort(info.Types)
		out = append(out, info)
	}
	return out
}
