package broadcast

import mapset "github.com/deckarep/golang-set/v2"

// Registry is the owner-side set of live subscribers. It is safe to Add and
// Remove from any goroutine while the owner is iterating with Each.
type Registry[S comparable] struct {
	subs mapset.Set[S]
}

func NewRegistry[S comparable]() *Registry[S] {
	return &Registry[S]{subs: mapset.NewSet[S]()}
}

// Add registers sub, reporting false if it was already present.
func (r *Registry[S]) Add(sub S) bool {
	return r.subs.Add(sub)
}

func (r *Registry[S]) Remove(sub S) {
	r.subs.Remove(sub)
}

func (r *Registry[S]) Contains(sub S) bool {
	return r.subs.Contains(sub)
}

func (r *Registry[S]) Len() int {
	return r.subs.Cardinality()
}

// Each calls fn for every subscriber registered at the time of the call.
// fn runs on a snapshot, so it may itself Add or Remove.
func (r *Registry[S]) Each(fn func(S)) {
	for _, sub := range r.subs.ToSlice() {
		fn(sub)
	}
}

// Drain empties the registry and returns what it held.
func (r *Registry[S]) Drain() []S {
	subs := r.subs.ToSlice()
	for _, sub := range subs {
		r.subs.Remove(sub)
	}
	return subs
}
