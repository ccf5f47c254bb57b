package models

import (
	"time"
)

// Group академическая группа, как её отдаёт API расписания
type Group struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Faculty string `json:"faculty"`
}

// GroupList конверт ответа API: {"data": [...]}
type GroupList struct {
	Data []Group `json:"data"`
}

// Selection выбранная владельцем группа
type Selection struct {
	Owner     string    `json:"owner"`
	Group     Group     `json:"group"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// Ключи настроек, под которыми сохраняется выбор
const (
	KeySelectedGroupID      = "selectedGroupId"
	KeySelectedGroupName    = "selectedGroupName"
	KeySelectedGroupFaculty = "selectedGroupFaculty"
	KeySelectedAt           = "selectedAt"
)

// GetCurrentTime возвращает текущее время
func GetCurrentTime() time.Time {
	return time.Now()
}
