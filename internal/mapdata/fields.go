package mapdata

import "maps"

// Fields is a sector's free-form UDMF attribute store.
type Fields struct {
	values map[string]any
	owner  *Sector
}

func newFields(owner *Sector) *Fields {
	return &Fields{values: make(map[string]any), owner: owner}
}

// BeforeFieldsChange must be called before any write so the undo journal
// can snapshot the previous state.
func (f *Fields) BeforeFieldsChange() {
	if f.owner != nil {
		f.owner.BeforePropsChange()
	}
}

// GetFloat returns the numeric value stored under key, or def.
func (f *Fields) GetFloat(key string, def float64) float64 {
	switch v := f.values[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		return def
	}
}

// GetString returns the string stored under key, or def.
func (f *Fields) GetString(key, def string) string {
	if v, ok := f.values[key].(string); ok {
		return v
	}
	return def
}

// SetFloat stores v under key, removing the key when v equals def so the
// map stays free of default values.
func (f *Fields) SetFloat(key string, v, def float64) {
	if v == def {
		delete(f.values, key)
	} else {
		f.values[key] = v
	}
	if f.owner != nil {
		f.owner.UpdateNeeded = true
	}
}

// Set stores an arbitrary value.
func (f *Fields) Set(key string, v any) {
	f.values[key] = v
}

// Contains reports whether key is set.
func (f *Fields) Contains(key string) bool {
	_, ok := f.values[key]
	return ok
}

// Remove deletes key and reports whether it was present.
func (f *Fields) Remove(key string) bool {
	if _, ok := f.values[key]; !ok {
		return false
	}
	delete(f.values, key)
	return true
}

// Len returns the number of stored fields.
func (f *Fields) Len() int { return len(f.values) }

// Clone returns a detached copy of the values.
func (f *Fields) Clone() map[string]any {
	return maps.Clone(f.values)
}

// Restore replaces all values with a previous Clone.
func (f *Fields) Restore(values map[string]any) {
	f.values = maps.Clone(values)
	if f.values == nil {
		f.values = make(map[string]any)
	}
}
