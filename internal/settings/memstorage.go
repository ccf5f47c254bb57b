package settings

import (
	"sort"
	"sync"
)

type settingKey struct {
	owner string
	key   string
}

// Memstorage хранит настройки в памяти процесса
type Memstorage struct {
	values sync.Map // settingKey -> string
}

func NewMemstorage() *Memstorage {
	return &Memstorage{}
}

func (m *Memstorage) Get(owner, key string) (string, error) {
	value, ok := m.values.Load(settingKey{owner, key})
	if !ok {
		return "", ErrNotFound
	}
	return value.(string), nil
}

func (m *Memstorage) Set(owner, key, value string) error {
	m.values.Store(settingKey{owner, key}, value)
	return nil
}

// SetMany в памяти запись не может упасть, поэтому пишем по одному
func (m *Memstorage) SetMany(owner string, values map[string]string) error {
	for key, value := range values {
		m.values.Store(settingKey{owner, key}, value)
	}
	return nil
}

func (m *Memstorage) Delete(owner, key string) error {
	if _, ok := m.values.LoadAndDelete(settingKey{owner, key}); !ok {
		return ErrNotFound
	}
	return nil
}

func (m *Memstorage) Keys(owner string) ([]string, error) {
	keys := make([]string, 0)
	m.values.Range(func(k, _ interface{}) bool {
		sk := k.(settingKey)
		if sk.owner == owner {
			keys = append(keys, sk.key)
		}
		return true
	})
	sort.Strings(keys)
	return keys, nil
}

func (m *Memstorage) Close() error {
	return nil
}
