package telegrambot

import (
	"strconv"
	"time"
)

// Config представляет конфигурацию Telegram-бота
type Config struct {
	Token       string        // Токен бота
	BotName     string        // Имя бота для ссылок t.me
	MaxResults  int           // Сколько групп показывать в ответе на поиск
	PollTimeout time.Duration // Таймаут long polling
}

// Bot представляет интерфейс для Telegram-бота
type Bot interface {
	Start() error
	Stop() error
}

// ownerKey владелец настроек в хранилище: id чата
func ownerKey(chatID int64) string {
	return "tg:" + strconv.FormatInt(chatID, 10)
}
