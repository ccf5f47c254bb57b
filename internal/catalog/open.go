package catalog

import (
	"fmt"

	"github.com/MrPunder/grouppicker/internal/config"
	"github.com/MrPunder/grouppicker/internal/logger"
)

// NewFetcher источник списка групп по конфигурации
func NewFetcher(conf config.CatalogConfig, log logger.Logger) (Fetcher, error) {
	switch conf.Source {
	case "api", "":
		return NewClient(conf.BaseURL, conf.Token, conf.Timeout, log), nil
	case "file":
		return NewFileFetcher(conf.FilePath), nil
	default:
		return nil, fmt.Errorf("unknown catalog source %q", conf.Source)
	}
}
