package cache

// Cache fronts the bbolt stores. Keys are guild or user identifiers.
type Cache interface {
	Get(key string) (interface{}, bool)
	Add(key string, value interface{})
	Keys() []string
	Delete(key string)
}
