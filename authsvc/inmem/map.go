package inmem

import "sync"

// mapClient is the store used when no consul agent is configured, which is
// the single-process default.
type mapClient struct {
	mu     sync.RWMutex
	values map[string][]byte
}

func NewMapClient() Client {
	return &mapClient{values: make(map[string][]byte)}
}

func (c *mapClient) Get(key string) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if _, ok := c.values[key]; !ok {
		return ErrKeyNotFound
	}
	return nil
}

func (c *mapClient) Put(key string, value []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.values[key] = value
	return nil
}

func (c *mapClient) Delete(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.values, key)
	return nil
}
