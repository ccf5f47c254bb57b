// Package groups содержит порядок отображения групп и поиск по ним.
// Функции пакета чистые и безопасны для вызова из любых горутин.
package groups

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/MrPunder/grouppicker/internal/models"
)

const (
	// AnchorPrefix после последней группы на эту букву встают группы на MovedPrefix
	AnchorPrefix = "З"
	// MovedPrefix буква, которую сортировка по кодам ставит перед "А"
	MovedPrefix = "І"
)

var ErrUnknownFallback = errors.New("unknown sorting fallback")

// Fallback определяет, куда вставлять группы на "І", если групп на "З" нет
type Fallback int

const (
	// FallbackAlphabetical вставляет перед первой группой, чья первая буква идёт после "З"
	FallbackAlphabetical Fallback = iota
	// FallbackLegacy вставляет на позицию 1, как делало мобильное приложение
	FallbackLegacy
)

// ParseFallback разбирает значение из конфигурации
func ParseFallback(s string) (Fallback, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "alphabetical":
		return FallbackAlphabetical, nil
	case "legacy":
		return FallbackLegacy, nil
	default:
		return FallbackAlphabetical, fmt.Errorf("%w: %q", ErrUnknownFallback, s)
	}
}

func (f Fallback) String() string {
	switch f {
	case FallbackLegacy:
		return "legacy"
	default:
		return "alphabetical"
	}
}

// Sorter упорядочивает список групп для отображения
type Sorter struct {
	Fallback Fallback
}

// Order упорядочивает группы сортировщиком по умолчанию
func Order(groups []models.Group) []models.Group {
	return Sorter{}.Order(groups)
}

// Order возвращает новый срез: стабильная сортировка по имени, затем группы на "І"
// переносятся сразу за последнюю группу на "З" в исходном относительном порядке.
// Входной срез не изменяется.
func (s Sorter) Order(groups []models.Group) []models.Group {
	sorted := make([]models.Group, len(groups))
	copy(sorted, groups)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Name < sorted[j].Name
	})

	var moved, rest []models.Group
	for _, g := range sorted {
		if strings.HasPrefix(g.Name, MovedPrefix) {
			moved = append(moved, g)
		} else {
			rest = append(rest, g)
		}
	}
	if len(moved) == 0 {
		return sorted
	}

	pos := s.insertPosition(rest)

	result := make([]models.Group, 0, len(sorted))
	result = append(result, rest[:pos]...)
	result = append(result, moved...)
	result = append(result, rest[pos:]...)
	return result
}

// insertPosition индекс в rest, на который встаёт блок групп на "І"
func (s Sorter) insertPosition(rest []models.Group) int {
	last := -1
	for i, g := range rest {
		if strings.HasPrefix(g.Name, AnchorPrefix) {
			last = i
		}
	}
	if last >= 0 {
		return last + 1
	}

	if s.Fallback == FallbackLegacy {
		return min(1, len(rest))
	}

	anchor, _ := utf8.DecodeRuneInString(AnchorPrefix)
	for i, g := range rest {
		if g.Name == "" {
			continue
		}
		if r, _ := utf8.DecodeRuneInString(g.Name); r > anchor {
			return i
		}
	}
	return len(rest)
}
