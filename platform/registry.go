package platform

import (
	"sync"

	"synthcode-go/drivers/adf4377"
	"synthcode-go/errcode"

	"tinygo.org/x/drivers"
)

// Registry is the single owner table for pins and SPI buses. A resource is
// held by at most one device id at a time.
type Registry struct {
	mu   sync.Mutex
	f    Factories
	pins map[int]string    // pin -> devID
	spis map[string]string // bus -> devID
}

var _ adf4377.Resources = (*Registry)(nil)

// NewRegistry builds a registry over f.
func NewRegistry(f Factories) *Registry {
	return &Registry{
		f:    f,
		pins: make(map[int]string),
		spis: make(map[string]string),
	}
}

func (r *Registry) ClaimLine(devID string, n int) (adf4377.Line, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.f.Pins == nil {
		return nil, errcode.UnknownPin
	}
	p, ok := r.f.Pins.ByNumber(n)
	if !ok {
		return nil, errcode.UnknownPin
	}
	if owner, inUse := r.pins[n]; inUse && owner != "" {
		return nil, errcode.PinInUse
	}
	r.pins[n] = devID
	return p, nil
}

func (r *Registry) ReleaseLine(devID string, n int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	owner, ok := r.pins[n]
	if !ok || owner != devID {
		return &errcode.E{C: errcode.Resource, Op: "platform.release_line", Msg: "not owner"}
	}
	delete(r.pins, n)
	return nil
}

func (r *Registry) ClaimSPI(devID string, id string) (drivers.SPI, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.f.SPI == nil {
		return nil, errcode.UnknownBus
	}
	b, ok := r.f.SPI.ByID(id)
	if !ok {
		return nil, errcode.UnknownBus
	}
	if owner, inUse := r.spis[id]; inUse && owner != "" {
		return nil, errcode.BusInUse
	}
	r.spis[id] = devID
	return b, nil
}

func (r *Registry) ReleaseSPI(devID string, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	owner, ok := r.spis[id]
	if !ok || owner != devID {
		return &errcode.E{C: errcode.Resource, Op: "platform.release_spi", Msg: "not owner"}
	}
	delete(r.spis, id)
	return nil
}

// Owner reports which device holds pin n, if any.
func (r *Registry) Owner(n int) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.pins[n]
	return id, ok
}

// BusOwner reports which device holds SPI bus id, if any.
func (r *Registry) BusOwner(id string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	dev, ok := r.spis[id]
	return dev, ok
}
