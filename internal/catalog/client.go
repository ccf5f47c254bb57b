package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/MrPunder/grouppicker/internal/logger"
	"github.com/MrPunder/grouppicker/internal/models"
)

// GroupsPath путь списка групп в API расписания
const GroupsPath = "/schedule/groups"

// Client клиент API расписания
type Client struct {
	baseURL    string
	apiToken   string
	httpClient *http.Client
	logger     logger.Logger
}

// NewClient создает новый клиент; пустой apiToken отключает заголовок Authorization
func NewClient(baseURL, apiToken string, timeout time.Duration, logger logger.Logger) *Client {
	return &Client{
		baseURL:  baseURL,
		apiToken: apiToken,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// FetchGroups загружает список групп
func (c *Client) FetchGroups(ctx context.Context) ([]models.Group, error) {
	body, err := c.get(ctx, GroupsPath)
	if err != nil {
		return nil, err
	}

	var list models.GroupList
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("failed to decode group list: %w", err)
	}

	c.logger.Debugf("Fetched %d groups from %s", len(list.Data), c.baseURL)
	return list.Data, nil
}

// get выполняет GET-запрос к API
func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	reqURL, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}
	reqURL = reqURL.JoinPath(path)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// Accept-Encoding не выставляем: транспорт сам запросит gzip и распакует ответ
	req.Header.Set("Accept", "application/json")
	if c.apiToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("API error (%d): %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return body, nil
}
