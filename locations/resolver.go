package locations

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

const (
	// DefaultDebounce is the quiet period after the last keystroke before
	// a city lookup is issued.
	DefaultDebounce = 300 * time.Millisecond

	DefaultCityLimit = 20

	lookupTimeout = 10 * time.Second
)

// Selection is the resolver's current state/city choice, written back to
// the owning form through the OnChange callback.
type Selection struct {
	State     string
	StateCode string
	City      string
}

// Resolver drives the cascading state -> city autocomplete.
//
// The state list is fetched once and cached for the resolver's lifetime;
// filtering happens client-side. City suggestions are debounced, and every
// keystroke bumps a generation counter so a superseded lookup's late result
// is discarded instead of overwriting fresher suggestions.
type Resolver struct {
	svc      Service
	debounce time.Duration
	limit    int
	log      *slog.Logger
	onChange func(Selection)
	onCities func(query string, cities []City)

	sf singleflight.Group

	mu     sync.Mutex
	states []State
	sel    Selection
	gen    uint64
	timer  *time.Timer
}

type ResolverOption func(*Resolver)

func WithDebounce(d time.Duration) ResolverOption {
	return func(r *Resolver) {
		if d > 0 {
			r.debounce = d
		}
	}
}

func WithCityLimit(n int) ResolverOption {
	return func(r *Resolver) {
		if n > 0 {
			r.limit = n
		}
	}
}

func WithResolverLogger(log *slog.Logger) ResolverOption {
	return func(r *Resolver) {
		if log != nil {
			r.log = log
		}
	}
}

// OnChange registers the form callback fired when a state or city is
// selected.
func OnChange(fn func(Selection)) ResolverOption {
	return func(r *Resolver) { r.onChange = fn }
}

// OnSuggestions registers the callback receiving city suggestions for the
// query that produced them. A nil slice clears the dropdown.
func OnSuggestions(fn func(query string, cities []City)) ResolverOption {
	return func(r *Resolver) { r.onCities = fn }
}

func NewResolver(svc Service, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		svc:      svc,
		debounce: DefaultDebounce,
		limit:    DefaultCityLimit,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// States returns the cached state list, fetching it on first use.
// Concurrent first calls collapse into a single request.
func (r *Resolver) States(ctx context.Context) ([]State, error) {
	r.mu.Lock()
	cached := r.states
	r.mu.Unlock()
	if cached != nil {
		return cached, nil
	}

	v, err, _ := r.sf.Do("states", func() (any, error) {
		states, err := r.svc.States(ctx)
		if err != nil {
			return nil, err
		}
		r.mu.Lock()
		r.states = states
		r.mu.Unlock()
		return states, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]State), nil
}

// FilterStates matches the cached state list by case-insensitive substring.
// An empty query returns the whole list; an unloaded list returns nil.
func (r *Resolver) FilterStates(query string) []State {
	r.mu.Lock()
	states := r.states
	r.mu.Unlock()

	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return states
	}
	var out []State
	for _, st := range states {
		if strings.Contains(strings.ToLower(st.Name), query) {
			out = append(out, st)
		}
	}
	return out
}

func (r *Resolver) Selection() Selection {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sel
}

// SelectState records the chosen state and clears any previously selected
// city: a city is not valid across a state change. Pending city lookups
// are superseded.
func (r *Resolver) SelectState(st State) {
	r.mu.Lock()
	r.gen++
	r.stopTimerLocked()
	r.sel.State = st.Name
	r.sel.StateCode = st.Code
	r.sel.City = ""
	sel := r.sel
	cb := r.onChange
	r.mu.Unlock()

	if cb != nil {
		cb(sel)
	}
}

// SelectCity records the chosen suggestion and cancels any pending lookup.
func (r *Resolver) SelectCity(c City) {
	r.mu.Lock()
	r.gen++
	r.stopTimerLocked()
	r.sel.City = c.Name
	sel := r.sel
	cb := r.onChange
	r.mu.Unlock()

	if cb != nil {
		cb(sel)
	}
}

// QueryCities handles a keystroke in the city field. The lookup fires only
// after the input has been stable for the debounce interval; a new
// keystroke within that window cancels the pending lookup and restarts the
// timer. Without a selected state, or with a blank query, suggestions are
// cleared and nothing is fetched.
func (r *Resolver) QueryCities(query string) {
	query = strings.TrimSpace(query)

	r.mu.Lock()
	r.gen++
	gen := r.gen
	r.stopTimerLocked()
	code := r.sel.StateCode
	cb := r.onCities
	if code == "" || query == "" {
		r.mu.Unlock()
		if cb != nil {
			cb(query, nil)
		}
		return
	}
	r.timer = time.AfterFunc(r.debounce, func() {
		r.lookup(gen, code, query)
	})
	r.mu.Unlock()
}

// Close cancels any pending lookup. Late results from in-flight requests
// are ignored, not acted upon.
func (r *Resolver) Close() {
	r.mu.Lock()
	r.gen++
	r.stopTimerLocked()
	r.mu.Unlock()
}

func (r *Resolver) lookup(gen uint64, code, query string) {
	ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
	defer cancel()

	cities, err := r.svc.Cities(ctx, code, query, r.limit)
	if err != nil {
		// Degrade to an empty list; manual entry is never blocked.
		r.log.Warn("city lookup failed", "state", code, "query", query, "err", err)
		cities = nil
	}

	r.mu.Lock()
	stale := gen != r.gen
	cb := r.onCities
	r.mu.Unlock()
	if stale || cb == nil {
		return
	}
	cb(query, cities)
}

func (r *Resolver) stopTimerLocked() {
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
}
