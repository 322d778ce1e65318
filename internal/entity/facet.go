package entity

// Faceted exposes optional typed views of an object.
type Faceted interface {
	Facets() []any
}

// FacetOf returns the first facet of f assignable to T.
func FacetOf[T any](f Faceted) (T, bool) {
	for _, facet := range f.Facets() {
		if v, ok := facet.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}
