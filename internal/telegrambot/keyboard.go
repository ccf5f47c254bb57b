package telegrambot

import (
	"fmt"

	"github.com/MrPunder/grouppicker/internal/picker"
	tele "gopkg.in/telebot.v3"
)

// selectUnique кнопка выбора группы; в данных кнопки лежит id группы
const selectUnique = "select"

var selectBtn = tele.Btn{Unique: selectUnique}

// rowsRenderer запоминает последние строки экрана, чтобы собрать из них клавиатуру
type rowsRenderer struct {
	rows []picker.Row
}

func (r *rowsRenderer) Render(rows []picker.Row) {
	r.rows = rows
}

// buildResultsKeyboard inline-клавиатура: по кнопке на группу, не больше limit
func buildResultsKeyboard(rows []picker.Row, limit int) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}

	buttons := make([]tele.Row, 0, len(rows))
	for _, row := range rows {
		buttons = append(buttons, markup.Row(markup.Data(buttonText(row), selectUnique, row.ID)))
	}
	markup.Inline(buttons...)

	return markup
}

func buttonText(row picker.Row) string {
	text := row.Title
	if row.Subtitle != "" {
		text = fmt.Sprintf("%s · %s", row.Title, row.Subtitle)
	}
	if row.Checked {
		text = "✅ " + text
	}
	return text
}
