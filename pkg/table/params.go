package table

import (
	"net/url"
)

// Params is the flat request parameter source of a build: filter values, sort column and
// direction, page number.
type Params interface {
	// Get returns the value of name and whether it was present.
	Get(name string) (string, bool)
}

// Values adapts url.Values, using the first value of each key.
type Values url.Values

func (v Values) Get(name string) (string, bool) {
	values, ok := v[name]
	if !ok || len(values) == 0 {
		return "", false
	}
	return values[0], true
}

// Map adapts a plain map, such as mux route variables.
type Map map[string]string

func (m Map) Get(name string) (string, bool) {
	value, ok := m[name]
	return value, ok
}

// Merge looks up each name in sources in order and returns the first hit.
func Merge(sources ...Params) Params {
	return merged(sources)
}

type merged []Params

func (m merged) Get(name string) (string, bool) {
	for _, source := range m {
		if source == nil {
			continue
		}
		if value, ok := source.Get(name); ok {
			return value, true
		}
	}
	return "", false
}
