// Package codec provides a registry of wire encoders for snapshots and
// transport envelopes. Encoders register themselves in init() functions so
// transports can select one by name without hardcoded dependencies.
package codec

import (
	"fmt"
	"sort"
	"sync"
)

// Codec encodes values for one wire format.
type Codec interface {
	// Name returns the identifier clients use to select this codec (e.g., "json").
	Name() string

	// Marshal encodes v.
	Marshal(v any) ([]byte, error)

	// Unmarshal decodes data into v.
	Unmarshal(data []byte, v any) error

	// Binary reports whether frames must be sent as binary messages.
	Binary() bool
}

// Default is the codec used when a client does not ask for one.
const Default = "json"

var (
	codecs = make(map[string]Codec)
	mu     sync.RWMutex
)

// Register adds a codec to the registry.
// Panics if a codec with the same name is already registered.
func Register(c Codec) {
	mu.Lock()
	defer mu.Unlock()

	name := c.Name()
	if _, exists := codecs[name]; exists {
		panic(fmt.Sprintf("codec: %q already registered", name))
	}
	codecs[name] = c
}

// Get looks up a codec by name. An empty name selects Default.
func Get(name string) (Codec, error) {
	if name == "" {
		name = Default
	}

	mu.RLock()
	defer mu.RUnlock()

	c, ok := codecs[name]
	if !ok {
		return nil, fmt.Errorf("codec: unknown codec %q", name)
	}
	return c, nil
}

// Names returns the registered codec names, sorted.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]string, 0, len(codecs))
	for name := range codecs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
