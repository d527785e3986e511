package fiberx

import "fmt"

// LifecycleKind identifies what happened to a fiber.
type LifecycleKind uint8

const (
	Mounted LifecycleKind = iota + 1
	Unmounted
	Called
)

func (k LifecycleKind) String() string {
	switch k {
	case Mounted:
		return "mounted"
	case Unmounted:
		return "unmounted"
	case Called:
		return "called"
	}
	return fmt.Sprintf("LifecycleKind(%d)", uint8(k))
}

// MarshalText renders the kind by name in JSON and YAML.
func (k LifecycleKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *LifecycleKind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "mounted":
		*k = Mounted
	case "unmounted":
		*k = Unmounted
	case "called":
		*k = Called
	default:
		return fmt.Errorf("unknown lifecycle kind %q", text)
	}
	return nil
}

// LifecycleEvent is delivered to an Observer after a fiber is mounted,
// unmounted or has returned from a call. Parent is empty for roots.
type LifecycleEvent struct {
	Kind   LifecycleKind `json:"kind" yaml:"kind"`
	ID     FiberID       `json:"id" yaml:"id"`
	Parent FiberID       `json:"parent,omitempty" yaml:"parent,omitempty"`
	Serial uint64        `json:"serial" yaml:"serial"`
}

// Observer receives lifecycle events synchronously on the goroutine that
// drives the Runtime. Implementations must not block.
type Observer interface {
	Observe(evt LifecycleEvent)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(LifecycleEvent)

func (f ObserverFunc) Observe(evt LifecycleEvent) {
	f(evt)
}
