// Package settings хранит пользовательские настройки в виде пар ключ-значение.
package settings

import (
	"errors"
	"fmt"
	"time"

	"github.com/MrPunder/grouppicker/internal/models"
)

var ErrNotFound = errors.New("setting not found")

// Storage хранилище настроек всех владельцев
type Storage interface {
	Get(owner, key string) (string, error)
	Set(owner, key, value string) error
	// SetMany записывает все значения разом: либо все, либо ни одного
	SetMany(owner string, values map[string]string) error
	Delete(owner, key string) error
	Keys(owner string) ([]string, error)
	Close() error
}

// KeyValue настройки одного владельца
type KeyValue interface {
	Get(key string) (string, error)
	Set(key, value string) error
}

// batchSetter KeyValue, умеющий атомарную запись нескольких ключей
type batchSetter interface {
	SetMany(values map[string]string) error
}

// OwnerSettings настройки владельца поверх общего хранилища
type OwnerSettings struct {
	storage Storage
	owner   string
}

// Bind привязывает хранилище к владельцу (чат, клиент API, устройство)
func Bind(storage Storage, owner string) *OwnerSettings {
	return &OwnerSettings{storage: storage, owner: owner}
}

func (b *OwnerSettings) Owner() string {
	return b.owner
}

func (b *OwnerSettings) Get(key string) (string, error) {
	return b.storage.Get(b.owner, key)
}

func (b *OwnerSettings) Set(key, value string) error {
	return b.storage.Set(b.owner, key, value)
}

func (b *OwnerSettings) SetMany(values map[string]string) error {
	return b.storage.SetMany(b.owner, values)
}

// Keys ключи всех настроек владельца
func (b *OwnerSettings) Keys() ([]string, error) {
	return b.storage.Keys(b.owner)
}

// Clear удаляет все настройки владельца, включая выбор группы
func (b *OwnerSettings) Clear() error {
	keys, err := b.storage.Keys(b.owner)
	if err != nil {
		return fmt.Errorf("failed to list settings: %w", err)
	}
	for _, key := range keys {
		if err := b.storage.Delete(b.owner, key); err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}
	}
	return nil
}

var selectionKeys = []string{
	models.KeySelectedGroupID,
	models.KeySelectedGroupName,
	models.KeySelectedGroupFaculty,
	models.KeySelectedAt,
}

// SaveSelection записывает id, имя и факультет выбранной группы.
// После ошибки в хранилище не остаётся id одной группы с именем другой
func SaveSelection(kv KeyValue, group models.Group) error {
	values := map[string]string{
		models.KeySelectedGroupName:    group.Name,
		models.KeySelectedGroupID:      group.ID,
		models.KeySelectedGroupFaculty: group.Faculty,
		models.KeySelectedAt:           models.GetCurrentTime().UTC().Format(time.RFC3339),
	}

	if batch, ok := kv.(batchSetter); ok {
		if err := batch.SetMany(values); err != nil {
			return fmt.Errorf("failed to save selection: %w", err)
		}
		return nil
	}

	// Без атомарной записи: сначала снимаем выбор, id пишется последним
	if err := kv.Set(models.KeySelectedGroupID, ""); err != nil {
		return fmt.Errorf("failed to reset %s: %w", models.KeySelectedGroupID, err)
	}
	for i := len(selectionKeys) - 1; i >= 0; i-- {
		key := selectionKeys[i]
		if err := kv.Set(key, values[key]); err != nil {
			return fmt.Errorf("failed to save %s: %w", key, err)
		}
	}
	return nil
}

// LoadSelection читает выбранную группу. ok=false, если выбора нет
func LoadSelection(kv KeyValue) (models.Selection, bool, error) {
	var sel models.Selection

	id, err := kv.Get(models.KeySelectedGroupID)
	if errors.Is(err, ErrNotFound) {
		return sel, false, nil
	}
	if err != nil {
		return sel, false, fmt.Errorf("failed to load selected group id: %w", err)
	}
	// пустой id остаётся после прерванной записи
	if id == "" {
		return sel, false, nil
	}
	sel.Group.ID = id

	// Имя и факультет необязательны: старые записи могли хранить только id
	if sel.Group.Name, err = kv.Get(models.KeySelectedGroupName); err != nil && !errors.Is(err, ErrNotFound) {
		return sel, false, fmt.Errorf("failed to load selected group name: %w", err)
	}
	if sel.Group.Faculty, err = kv.Get(models.KeySelectedGroupFaculty); err != nil && !errors.Is(err, ErrNotFound) {
		return sel, false, fmt.Errorf("failed to load selected group faculty: %w", err)
	}
	if at, err := kv.Get(models.KeySelectedAt); err == nil {
		if t, err := time.Parse(time.RFC3339, at); err == nil {
			sel.UpdatedAt = t
		}
	}

	return sel, true, nil
}
