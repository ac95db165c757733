package args

// Int64 returns the value for key if it is an integer.
func (m Map) Int64(key string) (int64, bool) {
	switch v := m[key].(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	}
	return 0, false
}

// Float64 returns the value for key if it is a float.
func (m Map) Float64(key string) (float64, bool) {
	v, ok := m[key].(float64)
	return v, ok
}

// String returns the value for key if it is a string.
func (m Map) String(key string) (string, bool) {
	v, ok := m[key].(string)
	return v, ok
}

// Bool returns the value for key if it is a boolean.
func (m Map) Bool(key string) (bool, bool) {
	v, ok := m[key].(bool)
	return v, ok
}

// Has reports whether key is present, including keys set to null.
func (m Map) Has(key string) bool {
	_, ok := m[key]
	return ok
}

// IsNull reports whether key is present and explicitly cleared.
func (m Map) IsNull(key string) bool {
	v, ok := m[key]
	return ok && v == nil
}

// Clone returns a shallow copy. Values are primitives, so a shallow copy is
// a full copy.
func (m Map) Clone() Map {
	if m == nil {
		return nil
	}
	out := make(Map, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Without returns a copy with the listed keys removed.
func (m Map) Without(keys ...string) Map {
	out := m.Clone()
	for _, k := range keys {
		delete(out, k)
	}
	return out
}

// Equal reports whether two maps hold the same keys and values. Integer
// values compare across int and int64 so literals behave as expected.
func Equal(a, b Map) bool {
	if len(a) != len(b) {
		return false
	}
	for k, av := range a {
		bv, ok := b[k]
		if !ok {
			return false
		}
		if !valueEqual(av, bv) {
			return false
		}
	}
	return true
}

func valueEqual(a, b any) bool {
	if ai, ok := normalizeInt(a); ok {
		bi, ok := normalizeInt(b)
		return ok && ai == bi
	}
	return a == b
}

func normalizeInt(v any) (int64, bool) {
	switch x := v.(type) {
	case int64:
		return x, true
	case int:
		return int64(x), true
	}
	return 0, false
}
