package sdk

import (
	"slices"
	"sync"
)

// fakeRegistry is an in-memory HKLM used by the locator tests
type fakeRegistry struct {
	mu       sync.Mutex
	keys     map[string]*fakeKey
	openErrs map[string]error
	open     int
}

type fakeKey struct {
	reg     *fakeRegistry
	values  map[string]string
	errs    map[string]error
	subkeys []string
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{
		keys:     make(map[string]*fakeKey),
		openErrs: make(map[string]error),
	}
}

// set creates the key at path with the given string values and registers it
// as a subkey of its parent
func (r *fakeRegistry) set(path string, values map[string]string) *fakeKey {
	k := r.key(path)
	for name, val := range values {
		k.values[name] = val
	}
	return k
}

func (r *fakeRegistry) key(path string) *fakeKey {
	if k, ok := r.keys[path]; ok {
		return k
	}
	k := &fakeKey{reg: r, values: make(map[string]string), errs: make(map[string]error)}
	r.keys[path] = k

	if i := lastSep(path); i > 0 {
		parent := r.key(path[:i])
		if !slices.Contains(parent.subkeys, path[i+1:]) {
			parent.subkeys = append(parent.subkeys, path[i+1:])
		}
	}
	return k
}

func lastSep(path string) int {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '\\' {
			return i
		}
	}
	return -1
}

func (r *fakeRegistry) OpenKey(path string) (Key, error) {
	if err, ok := r.openErrs[path]; ok {
		return nil, err
	}
	k, ok := r.keys[path]
	if !ok {
		return nil, ErrNotExist
	}
	r.mu.Lock()
	r.open++
	r.mu.Unlock()
	return k, nil
}

func (r *fakeRegistry) openKeys() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.open
}

func (k *fakeKey) GetStringValue(name string) (string, error) {
	if err, ok := k.errs[name]; ok {
		return "", err
	}
	v, ok := k.values[name]
	if !ok {
		return "", ErrNotExist
	}
	return v, nil
}

func (k *fakeKey) ReadSubKeyNames() ([]string, error) {
	return slices.Clone(k.subkeys), nil
}

func (k *fakeKey) Close() error {
	k.reg.mu.Lock()
	k.reg.open--
	k.reg.mu.Unlock()
	return nil
}

func noEnv(string) (string, bool) {
	return "", false
}

func mapEnv(vars map[string]string) func(string) (string, bool) {
	return func(name string) (string, bool) {
		v, ok := vars[name]
		return v, ok
	}
}
