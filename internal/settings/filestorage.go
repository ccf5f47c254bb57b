package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// SettingsFileName имя файла с настройками в каталоге данных
const SettingsFileName = "settings.json"

// Filestorage хранит настройки в JSON-файле и переписывает его при каждом изменении
type Filestorage struct {
	mu      sync.RWMutex
	values  map[string]map[string]string // owner -> key -> value
	dataDir string
}

// NewFilestorage создает новое файловое хранилище
func NewFilestorage(dataDir string) (*Filestorage, error) {
	// Создаем директорию, если она не существует
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	fs := &Filestorage{
		values:  make(map[string]map[string]string),
		dataDir: dataDir,
	}

	if err := fs.load(); err != nil {
		return nil, fmt.Errorf("failed to load data: %w", err)
	}

	return fs, nil
}

func (fs *Filestorage) path() string {
	return filepath.Join(fs.dataDir, SettingsFileName)
}

// load загружает настройки из файла
func (fs *Filestorage) load() error {
	// Файл не существует, создаем пустой
	if _, err := os.Stat(fs.path()); os.IsNotExist(err) {
		return fs.save()
	}

	data, err := os.ReadFile(fs.path())
	if err != nil {
		return fmt.Errorf("failed to read settings file: %w", err)
	}

	if len(data) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, &fs.values); err != nil {
		return fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	if fs.values == nil {
		fs.values = make(map[string]map[string]string)
	}

	return nil
}

// save сохраняет настройки в файл. Вызывается под блокировкой
func (fs *Filestorage) save() error {
	data, err := json.MarshalIndent(fs.values, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	// Пишем во временный файл и переименовываем, чтобы не оставить обрезанный JSON
	tmp := fs.path() + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}
	if err := os.Rename(tmp, fs.path()); err != nil {
		return fmt.Errorf("failed to replace settings file: %w", err)
	}

	return nil
}

func (fs *Filestorage) Get(owner, key string) (string, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	value, ok := fs.values[owner][key]
	if !ok {
		return "", ErrNotFound
	}
	return value, nil
}

func (fs *Filestorage) Set(owner, key, value string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	ownerValues, ok := fs.values[owner]
	if !ok {
		ownerValues = make(map[string]string)
		fs.values[owner] = ownerValues
	}
	ownerValues[key] = value

	return fs.save()
}

// SetMany меняет все значения и сохраняет файл один раз. Если файл не записался, значения в памяти откатываются
func (fs *Filestorage) SetMany(owner string, values map[string]string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	ownerValues, existed := fs.values[owner]
	previous := make(map[string]string, len(ownerValues))
	for key, value := range ownerValues {
		previous[key] = value
	}

	if !existed {
		ownerValues = make(map[string]string, len(values))
		fs.values[owner] = ownerValues
	}
	for key, value := range values {
		ownerValues[key] = value
	}

	if err := fs.save(); err != nil {
		if existed {
			fs.values[owner] = previous
		} else {
			delete(fs.values, owner)
		}
		return err
	}
	return nil
}

func (fs *Filestorage) Delete(owner, key string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	ownerValues, ok := fs.values[owner]
	if !ok {
		return ErrNotFound
	}
	if _, ok := ownerValues[key]; !ok {
		return ErrNotFound
	}
	delete(ownerValues, key)
	if len(ownerValues) == 0 {
		delete(fs.values, owner)
	}

	return fs.save()
}

func (fs *Filestorage) Keys(owner string) ([]string, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	keys := make([]string, 0, len(fs.values[owner]))
	for key := range fs.values[owner] {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

func (fs *Filestorage) Close() error {
	return nil
}
