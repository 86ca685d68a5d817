package locations

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeService counts calls and can script per-query responses and delays.
type fakeService struct {
	mu          sync.Mutex
	statesCalls int
	citiesCalls int
	states      []State
	statesErr   error
	cities      map[string][]City
	citiesErr   error
	delay       time.Duration
}

func (f *fakeService) States(ctx context.Context) ([]State, error) {
	f.mu.Lock()
	f.statesCalls++
	f.mu.Unlock()
	return f.states, f.statesErr
}

func (f *fakeService) Cities(ctx context.Context, stateCode, query string, limit int) ([]City, error) {
	f.mu.Lock()
	f.citiesCalls++
	delay := f.delay
	f.mu.Unlock()
	if delay > 0 {
		time.Sleep(delay)
	}
	if f.citiesErr != nil {
		return nil, f.citiesErr
	}
	return f.cities[query], nil
}

func (f *fakeService) cityCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.citiesCalls
}

// suggestionSink records OnSuggestions callbacks.
type suggestionSink struct {
	mu    sync.Mutex
	calls []struct {
		query  string
		cities []City
	}
}

func (s *suggestionSink) record(query string, cities []City) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, struct {
		query  string
		cities []City
	}{query, cities})
}

func (s *suggestionSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func (s *suggestionSink) last() (string, []City) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.calls) == 0 {
		return "", nil
	}
	c := s.calls[len(s.calls)-1]
	return c.query, c.cities
}

var testStates = []State{
	{Code: "KA", Name: "Karnataka"},
	{Code: "MH", Name: "Maharashtra"},
	{Code: "TN", Name: "Tamil Nadu"},
}

func TestStatesFetchedOnceAndCached(t *testing.T) {
	svc := &fakeService{states: testStates}
	r := NewResolver(svc, WithResolverLogger(quietLogger()))
	defer r.Close()

	for i := 0; i < 3; i++ {
		states, err := r.States(context.Background())
		require.NoError(t, err)
		assert.Len(t, states, 3)
	}
	assert.Equal(t, 1, svc.statesCalls)
}

func TestFilterStatesSubstringCaseInsensitive(t *testing.T) {
	svc := &fakeService{states: testStates}
	r := NewResolver(svc, WithResolverLogger(quietLogger()))
	defer r.Close()

	_, err := r.States(context.Background())
	require.NoError(t, err)

	assert.Len(t, r.FilterStates(""), 3)

	got := r.FilterStates("mahara")
	require.Len(t, got, 1)
	assert.Equal(t, "MH", got[0].Code)

	got = r.FilterStates("TAMIL")
	require.Len(t, got, 1)
	assert.Equal(t, "TN", got[0].Code)

	assert.Empty(t, r.FilterStates("zzz"))
}

func TestStatesErrorNotCached(t *testing.T) {
	svc := &fakeService{statesErr: errors.New("backend down")}
	r := NewResolver(svc, WithResolverLogger(quietLogger()))
	defer r.Close()

	_, err := r.States(context.Background())
	require.Error(t, err)

	svc.mu.Lock()
	svc.statesErr = nil
	svc.states = testStates
	svc.mu.Unlock()

	states, err := r.States(context.Background())
	require.NoError(t, err)
	assert.Len(t, states, 3)
}

func TestDebounceCollapsesBurstToOneLookup(t *testing.T) {
	svc := &fakeService{
		cities: map[string][]City{"pun": {{ID: 5, Name: "Pune"}}},
	}
	sink := &suggestionSink{}
	r := NewResolver(svc,
		WithDebounce(25*time.Millisecond),
		WithResolverLogger(quietLogger()),
		OnSuggestions(sink.record))
	defer r.Close()

	r.SelectState(State{Code: "MH", Name: "Maharashtra"})

	// A typing burst inside the debounce window.
	r.QueryCities("p")
	r.QueryCities("pu")
	r.QueryCities("pun")

	require.Eventually(t, func() bool {
		return sink.count() > 0
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, 1, svc.cityCalls())
	query, cities := sink.last()
	assert.Equal(t, "pun", query)
	require.Len(t, cities, 1)
	assert.Equal(t, "Pune", cities[0].Name)
}

func TestQueryWithoutStateClearsSuggestions(t *testing.T) {
	svc := &fakeService{}
	sink := &suggestionSink{}
	r := NewResolver(svc,
		WithDebounce(5*time.Millisecond),
		WithResolverLogger(quietLogger()),
		OnSuggestions(sink.record))
	defer r.Close()

	r.QueryCities("pune")

	query, cities := sink.last()
	assert.Equal(t, "pune", query)
	assert.Nil(t, cities)
	assert.Equal(t, 0, svc.cityCalls())
}

func TestBlankQueryClearsWithoutLookup(t *testing.T) {
	svc := &fakeService{}
	sink := &suggestionSink{}
	r := NewResolver(svc,
		WithDebounce(5*time.Millisecond),
		WithResolverLogger(quietLogger()),
		OnSuggestions(sink.record))
	defer r.Close()

	r.SelectState(State{Code: "MH", Name: "Maharashtra"})
	r.QueryCities("   ")

	query, cities := sink.last()
	assert.Equal(t, "", query)
	assert.Nil(t, cities)
	assert.Equal(t, 0, svc.cityCalls())
}

func TestStaleLookupDiscarded(t *testing.T) {
	svc := &fakeService{
		cities: map[string][]City{
			"mum": {{ID: 4, Name: "Mumbai"}},
			"nag": {{ID: 6, Name: "Nagpur"}},
		},
		delay: 30 * time.Millisecond,
	}
	sink := &suggestionSink{}
	r := NewResolver(svc,
		WithDebounce(5*time.Millisecond),
		WithResolverLogger(quietLogger()),
		OnSuggestions(sink.record))
	defer r.Close()

	r.SelectState(State{Code: "MH", Name: "Maharashtra"})

	r.QueryCities("mum")
	// Let the first lookup fire, then supersede it while it is in flight.
	time.Sleep(15 * time.Millisecond)
	r.QueryCities("nag")

	require.Eventually(t, func() bool {
		q, _ := sink.last()
		return q == "nag"
	}, time.Second, 5*time.Millisecond)

	// Give the stale "mum" result time to arrive; it must not surface.
	time.Sleep(50 * time.Millisecond)
	q, cities := sink.last()
	assert.Equal(t, "nag", q)
	require.Len(t, cities, 1)
	assert.Equal(t, "Nagpur", cities[0].Name)
}

func TestSelectStateClearsCityAndFiresOnChange(t *testing.T) {
	var (
		mu   sync.Mutex
		sels []Selection
	)
	svc := &fakeService{}
	r := NewResolver(svc,
		WithResolverLogger(quietLogger()),
		OnChange(func(sel Selection) {
			mu.Lock()
			sels = append(sels, sel)
			mu.Unlock()
		}))
	defer r.Close()

	r.SelectState(State{Code: "MH", Name: "Maharashtra"})
	r.SelectCity(City{ID: 5, Name: "Pune"})
	r.SelectState(State{Code: "KA", Name: "Karnataka"})

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, sels, 3)
	assert.Equal(t, Selection{State: "Maharashtra", StateCode: "MH"}, sels[0])
	assert.Equal(t, Selection{State: "Maharashtra", StateCode: "MH", City: "Pune"}, sels[1])
	// The new state starts with no city.
	assert.Equal(t, Selection{State: "Karnataka", StateCode: "KA"}, sels[2])
	assert.Equal(t, "", r.Selection().City)
}

func TestSelectCityCancelsPendingLookup(t *testing.T) {
	svc := &fakeService{cities: map[string][]City{"pun": {{ID: 5, Name: "Pune"}}}}
	sink := &suggestionSink{}
	r := NewResolver(svc,
		WithDebounce(40*time.Millisecond),
		WithResolverLogger(quietLogger()),
		OnSuggestions(sink.record))
	defer r.Close()

	r.SelectState(State{Code: "MH", Name: "Maharashtra"})
	r.QueryCities("pun")
	r.SelectCity(City{ID: 5, Name: "Pune"})

	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, 0, svc.cityCalls())
	assert.Equal(t, 0, sink.count())
}

func TestLookupFailureDegradesToEmpty(t *testing.T) {
	svc := &fakeService{citiesErr: errors.New("backend down")}
	sink := &suggestionSink{}
	r := NewResolver(svc,
		WithDebounce(5*time.Millisecond),
		WithResolverLogger(quietLogger()),
		OnSuggestions(sink.record))
	defer r.Close()

	r.SelectState(State{Code: "MH", Name: "Maharashtra"})
	r.QueryCities("pun")

	require.Eventually(t, func() bool {
		return sink.count() > 0
	}, time.Second, 5*time.Millisecond)

	q, cities := sink.last()
	assert.Equal(t, "pun", q)
	assert.Nil(t, cities)
}
