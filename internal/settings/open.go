package settings

import (
	"fmt"

	"github.com/MrPunder/grouppicker/internal/config"
)

// Open создает хранилище по конфигурации
func Open(conf config.StorageConfig) (Storage, error) {
	switch conf.Type {
	case "memory", "":
		return NewMemstorage(), nil
	case "file":
		return NewFilestorage(conf.DataPath)
	case "sqlite":
		return NewSQLiteStorage(conf.DBPath)
	case "postgres":
		return NewPgStorage(conf.ConnectionString)
	default:
		return nil, fmt.Errorf("unknown storage type %q", conf.Type)
	}
}
