package state

import "sync"

type observers struct {
	mu     sync.RWMutex
	nextID int
	byKey  map[string]map[int]func(string)
}

func (o *observers) add(key string, fn func(string)) func() {
	if fn == nil {
		panic("state.Observe: callback must not be nil")
	}
	o.mu.Lock()
	if o.byKey == nil {
		o.byKey = map[string]map[int]func(string){}
	}
	id := o.nextID
	o.nextID++
	if o.byKey[key] == nil {
		o.byKey[key] = map[int]func(string){}
	}
	o.byKey[key][id] = fn
	o.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			o.mu.Lock()
			delete(o.byKey[key], id)
			if len(o.byKey[key]) == 0 {
				delete(o.byKey, key)
			}
			o.mu.Unlock()
		})
	}
}

// notify runs callbacks outside the lock so they may read the store.
func (o *observers) notify(key string) {
	o.mu.RLock()
	callbacks := make([]func(string), 0, len(o.byKey[key]))
	for _, fn := range o.byKey[key] {
		callbacks = append(callbacks, fn)
	}
	o.mu.RUnlock()
	for _, fn := range callbacks {
		fn(key)
	}
}
