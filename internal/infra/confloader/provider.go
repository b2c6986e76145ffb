package confloader

import (
	"errors"
	"strings"
)

// ErrReadBytesNotSupported is returned by ReadBytes on a map provider.
var ErrReadBytesNotSupported = errors.New("confloader: map provider has no byte form")

// mapProvider serves dotted keys to koanf. Keys are unflattened by koanf
// because Read returns a flat map with the loader delimiter.
type mapProvider map[string]any

func (m mapProvider) ReadBytes() ([]byte, error) {
	return nil, ErrReadBytesNotSupported
}

func (m mapProvider) Read() (map[string]any, error) {
	return unflatten(m), nil
}

func unflatten(flat map[string]any) map[string]any {
	out := make(map[string]any)
	for key, v := range flat {
		parts := strings.Split(key, ".")
		cur := out
		for _, p := range parts[:len(parts)-1] {
			next, ok := cur[p].(map[string]any)
			if !ok {
				next = make(map[string]any)
				cur[p] = next
			}
			cur = next
		}
		cur[parts[len(parts)-1]] = v
	}
	return out
}
