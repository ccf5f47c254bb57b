package groups

import (
	"strings"
	"unicode"

	"github.com/MrPunder/grouppicker/internal/models"
)

// latinToCyrillic латинские буквы, похожие на кириллические (раскладка не переключена).
// G и H, U и Y намеренно сводятся к одной букве.
var latinToCyrillic = map[rune]rune{
	'A': 'А',
	'B': 'Б',
	'V': 'В',
	'G': 'Г',
	'H': 'Г',
	'D': 'Д',
	'E': 'Е',
	'Z': 'З',
	'K': 'К',
	'L': 'Л',
	'M': 'М',
	'N': 'Н',
	'O': 'О',
	'P': 'П',
	'R': 'Р',
	'S': 'С',
	'T': 'Т',
	'U': 'У',
	'Y': 'У',
	'F': 'Ф',
	'C': 'Ц',
	'I': 'І',
	'X': 'Х',
}

// Normalize заменяет латинские буквы из таблицы на кириллические, сохраняя регистр.
// Остальные символы не меняются.
func Normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	for _, r := range text {
		if c, ok := latinToCyrillic[r]; ok {
			b.WriteRune(c)
			continue
		}
		if r >= 'a' && r <= 'z' {
			if c, ok := latinToCyrillic[unicode.ToUpper(r)]; ok {
				b.WriteRune(unicode.ToLower(c))
				continue
			}
		}
		b.WriteRune(r)
	}

	return b.String()
}

// Filter возвращает группы, в имени которых встречается нормализованный запрос без учёта регистра.
// Пустой запрос возвращает исходный срез. Порядок групп сохраняется.
func Filter(groups []models.Group, query string) []models.Group {
	if query == "" {
		return groups
	}

	needle := strings.ToUpper(Normalize(query))
	filtered := make([]models.Group, 0)
	for _, g := range groups {
		if strings.Contains(strings.ToUpper(g.Name), needle) {
			filtered = append(filtered, g)
		}
	}
	return filtered
}
