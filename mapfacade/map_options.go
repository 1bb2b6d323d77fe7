package mapfacade

import (
	"errors"

	jsoniter "github.com/json-iterator/go"
)

// ErrNormalizingMapOptionsFailed is returned when map options cannot be converted into generic JSON values.
var ErrNormalizingMapOptionsFailed = errors.New("normalizing map options failed")

var optionsJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// MapOptions are provider map options, e.g. zoom, center, map type or styles.
// Values are JSON-shaped: nested objects are MapOptions or map[string]any.
type MapOptions map[string]any

// NormalizeMapOptions converts a struct or map into generic JSON values so that
// nested objects can be deep-merged. A nil input yields empty options.
func NormalizeMapOptions(v any) (MapOptions, error) {
	if v == nil {
		return MapOptions{}, nil
	}

	raw, err := optionsJSON.Marshal(v)
	if err != nil {
		return nil, errors.Join(ErrNormalizingMapOptionsFailed, err)
	}

	normalized := MapOptions{}
	if err := optionsJSON.Unmarshal(raw, &normalized); err != nil {
		return nil, errors.Join(ErrNormalizingMapOptionsFailed, err)
	}

	if normalized == nil {
		normalized = MapOptions{}
	}

	return normalized, nil
}

// MergeMapOptions deep-merges override over base into a new MapOptions.
// Values from override win; nested objects are merged key by key, everything else
// (including slices) is replaced. Neither input is modified.
func MergeMapOptions(base, override MapOptions) MapOptions {
	merged := base.Clone()

	for key, value := range override {
		nestedOverride, overrideIsObject := asObject(value)
		nestedBase, baseIsObject := asObject(merged[key])

		switch {
		case overrideIsObject && baseIsObject:
			merged[key] = map[string]any(MergeMapOptions(nestedBase, nestedOverride))
		case overrideIsObject:
			merged[key] = map[string]any(nestedOverride.Clone())
		default:
			merged[key] = value
		}
	}

	return merged
}

// Clone returns a deep copy of all nested objects; other values are copied shallowly.
func (o MapOptions) Clone() MapOptions {
	clone := make(MapOptions, len(o))
	for key, value := range o {
		if nested, ok := asObject(value); ok {
			clone[key] = map[string]any(nested.Clone())
			continue
		}

		clone[key] = value
	}

	return clone
}

// Decode decodes the value stored under key into target.
// It reports false when the key is absent.
func (o MapOptions) Decode(key string, target any) (bool, error) {
	value, ok := o[key]
	if !ok {
		return false, nil
	}

	raw, err := optionsJSON.Marshal(value)
	if err != nil {
		return true, err
	}

	return true, optionsJSON.Unmarshal(raw, target)
}

func asObject(v any) (MapOptions, bool) {
	switch typed := v.(type) {
	case MapOptions:
		return typed, true
	case map[string]any:
		return typed, true
	default:
		return nil, false
	}
}
