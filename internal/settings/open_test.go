package settings

import (
	"testing"

	"github.com/MrPunder/grouppicker/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen(t *testing.T) {
	store, err := Open(config.StorageConfig{Type: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &Memstorage{}, store)

	store, err = Open(config.StorageConfig{Type: "file", DataPath: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &Filestorage{}, store)

	_, err = Open(config.StorageConfig{Type: "redis"})
	assert.Error(t, err)
}
