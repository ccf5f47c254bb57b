// Package picker экран выбора группы без привязки к UI: список, поиск и сохранение выбора.
package picker

import (
	"errors"
	"fmt"
	"sync"

	"github.com/MrPunder/grouppicker/internal/groups"
	"github.com/MrPunder/grouppicker/internal/logger"
	"github.com/MrPunder/grouppicker/internal/models"
	"github.com/MrPunder/grouppicker/internal/settings"
)

var ErrNoSuchGroup = errors.New("no such group")

// Row строка списка: имя группы крупно, факультет мелко, галочка у выбранной
type Row struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Checked  bool   `json:"checked"`
}

// Renderer получает строки после каждого изменения
type Renderer interface {
	Render(rows []Row)
}

// RenderFunc адаптер функции к Renderer
type RenderFunc func(rows []Row)

func (f RenderFunc) Render(rows []Row) {
	f(rows)
}

// Picker состояние экрана одного владельца настроек
type Picker struct {
	settings settings.KeyValue
	renderer Renderer
	sorter   groups.Sorter
	logger   logger.Logger

	mu       sync.Mutex
	groups   []models.Group
	filtered []models.Group
	query    string
}

// New создает экран. renderer может быть nil, тогда строки доступны только через Rows
func New(kv settings.KeyValue, renderer Renderer, sorter groups.Sorter, logger logger.Logger) *Picker {
	if renderer == nil {
		renderer = RenderFunc(func([]Row) {})
	}
	return &Picker{
		settings: kv,
		renderer: renderer,
		sorter:   sorter,
		logger:   logger,
	}
}

// OnGroupsLoaded упорядочивает пришедший список и показывает его целиком
func (p *Picker) OnGroupsLoaded(list []models.Group) {
	p.Show(p.sorter.Order(list))
}

// Show показывает уже упорядоченный список, сбрасывая поиск
func (p *Picker) Show(ordered []models.Group) {
	p.mu.Lock()
	p.groups = ordered
	p.filtered = ordered
	p.query = ""
	rows := p.rowsLocked()
	p.mu.Unlock()

	p.renderer.Render(rows)
}

// OnLoadFailed список не загрузился: логируем и оставляем прежний
func (p *Picker) OnLoadFailed(err error) {
	p.logger.Errorf("Failed to load group list: %v", err)
}

// OnQueryChanged фильтрует список по строке поиска
func (p *Picker) OnQueryChanged(text string) {
	p.mu.Lock()
	p.query = text
	p.filtered = groups.Filter(p.groups, text)
	rows := p.rowsLocked()
	p.mu.Unlock()

	p.renderer.Render(rows)
}

// Select выбирает группу по номеру строки в текущем (отфильтрованном) списке
func (p *Picker) Select(index int) (models.Group, error) {
	p.mu.Lock()
	if index < 0 || index >= len(p.filtered) {
		p.mu.Unlock()
		return models.Group{}, fmt.Errorf("%w: row %d", ErrNoSuchGroup, index)
	}
	group := p.filtered[index]
	p.mu.Unlock()

	return group, p.choose(group)
}

// SelectByID выбирает группу по id среди всех загруженных
func (p *Picker) SelectByID(id string) (models.Group, error) {
	p.mu.Lock()
	group, ok := findGroup(p.groups, id)
	p.mu.Unlock()

	if !ok {
		return models.Group{}, fmt.Errorf("%w: %s", ErrNoSuchGroup, id)
	}
	return group, p.choose(group)
}

func (p *Picker) choose(group models.Group) error {
	if err := settings.SaveSelection(p.settings, group); err != nil {
		return fmt.Errorf("failed to save selection: %w", err)
	}
	p.logger.Infof("Selected group %s (%s)", group.Name, group.ID)

	p.mu.Lock()
	rows := p.rowsLocked()
	p.mu.Unlock()

	p.renderer.Render(rows)
	return nil
}

// Selected текущий сохранённый выбор
func (p *Picker) Selected() (models.Selection, bool, error) {
	return settings.LoadSelection(p.settings)
}

// Rows строки текущего отфильтрованного списка
func (p *Picker) Rows() []Row {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rowsLocked()
}

// Filtered текущий отфильтрованный список
func (p *Picker) Filtered() []models.Group {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.filtered
}

func (p *Picker) Query() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.query
}

func (p *Picker) rowsLocked() []Row {
	selectedID, err := p.settings.Get(models.KeySelectedGroupID)
	if err != nil && !errors.Is(err, settings.ErrNotFound) {
		p.logger.Errorf("Failed to read selected group: %v", err)
	}

	rows := make([]Row, 0, len(p.filtered))
	for _, g := range p.filtered {
		rows = append(rows, Row{
			ID:       g.ID,
			Title:    g.Name,
			Subtitle: g.Faculty,
			Checked:  selectedID != "" && g.ID == selectedID,
		})
	}
	return rows
}

func findGroup(list []models.Group, id string) (models.Group, bool) {
	for _, g := range list {
		if g.ID == id {
			return g, true
		}
	}
	return models.Group{}, false
}
