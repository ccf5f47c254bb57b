package telegrambot

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/MrPunder/grouppicker/internal/catalog"
	"github.com/MrPunder/grouppicker/internal/groups"
	"github.com/MrPunder/grouppicker/internal/logger"
	"github.com/MrPunder/grouppicker/internal/picker"
	"github.com/MrPunder/grouppicker/internal/qrcode"
	"github.com/MrPunder/grouppicker/internal/settings"
	tele "gopkg.in/telebot.v3"
)

const (
	msgHelp = "Надішліть назву групи, наприклад ІТ-21 або it-21, і оберіть її зі списку.\n" +
		"/group — обрана група\n/share — QR-код з посиланням на групу\n/reset — скинути вибір"
	msgNotLoaded = "Список груп ще завантажується. Спробуйте за хвилину."
	msgFailure   = "Сталася помилка. Спробуйте пізніше."
	msgNoGroup   = "Групу не обрано. Надішліть назву групи для пошуку."
	msgNotFound  = "Групу не знайдено."
)

// GroupBot бот выбора группы
type GroupBot struct {
	bot     *tele.Bot
	catalog *catalog.Catalog
	storage settings.Storage
	sorter  groups.Sorter
	logger  logger.Logger
	config  Config
}

// NewGroupBot создает бота; сеть нужна уже здесь (getMe)
func NewGroupBot(config Config, catalog *catalog.Catalog, storage settings.Storage, sorter groups.Sorter, logger logger.Logger) (*GroupBot, error) {
	pref := tele.Settings{
		Token:  config.Token,
		Poller: &tele.LongPoller{Timeout: config.PollTimeout},
	}

	bot, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	gb := newGroupBot(config, catalog, storage, sorter, logger)
	gb.bot = bot
	if gb.config.BotName == "" {
		gb.config.BotName = bot.Me.Username
	}
	return gb, nil
}

func newGroupBot(config Config, catalog *catalog.Catalog, storage settings.Storage, sorter groups.Sorter, logger logger.Logger) *GroupBot {
	return &GroupBot{
		catalog: catalog,
		storage: storage,
		sorter:  sorter,
		logger:  logger,
		config:  config,
	}
}

// Start запускает бота
func (gb *GroupBot) Start() error {
	gb.logger.Info("Starting group bot")

	gb.bot.Handle("/start", gb.handleStart)
	gb.bot.Handle("/help", gb.handleHelp)
	gb.bot.Handle("/group", gb.handleGroup)
	gb.bot.Handle("/share", gb.handleShare)
	gb.bot.Handle("/reset", gb.handleReset)
	gb.bot.Handle(&selectBtn, gb.handleSelect)
	gb.bot.Handle(tele.OnText, gb.handleText)

	go gb.bot.Start()

	return nil
}

// Stop останавливает бота
func (gb *GroupBot) Stop() error {
	gb.logger.Info("Stopping group bot")
	gb.bot.Stop()
	return nil
}

func (gb *GroupBot) handleStart(c tele.Context) error {
	owner := ownerKey(c.Chat().ID)
	gb.logger.Infof("Chat %s started the bot with payload %q", owner, c.Message().Payload)
	return c.Send(gb.startReply(owner, c.Message().Payload))
}

func (gb *GroupBot) handleHelp(c tele.Context) error {
	return c.Send(msgHelp)
}

func (gb *GroupBot) handleGroup(c tele.Context) error {
	return c.Send(gb.currentReply(ownerKey(c.Chat().ID)))
}

func (gb *GroupBot) handleReset(c tele.Context) error {
	return c.Send(gb.resetReply(ownerKey(c.Chat().ID)))
}

func (gb *GroupBot) handleText(c tele.Context) error {
	text, markup := gb.searchReply(ownerKey(c.Chat().ID), c.Text())
	if markup == nil {
		return c.Send(text)
	}
	return c.Send(text, markup)
}

func (gb *GroupBot) handleSelect(c tele.Context) error {
	owner := ownerKey(c.Chat().ID)
	text := gb.selectReply(owner, c.Callback().Data)

	if err := c.Respond(&tele.CallbackResponse{Text: text}); err != nil {
		gb.logger.Errorf("Failed to answer callback of %s: %v", owner, err)
	}
	return c.Send(text)
}

func (gb *GroupBot) handleShare(c tele.Context) error {
	image, caption, err := gb.shareReply(ownerKey(c.Chat().ID))
	if err != nil {
		return c.Send(caption)
	}

	photo := &tele.Photo{
		File: tele.File{
			FileReader: bytes.NewReader(image),
		},
		Caption: caption,
	}
	return c.Send(photo)
}

// startReply /start с id группы в параметре сразу выбирает её
func (gb *GroupBot) startReply(owner, payload string) string {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return msgHelp
	}
	return gb.selectReply(owner, payload)
}

// searchReply ответ на текст: список подходящих групп кнопками
func (gb *GroupBot) searchReply(owner, text string) (string, *tele.ReplyMarkup) {
	query := strings.TrimSpace(text)
	if query == "" {
		return msgHelp, nil
	}
	if loaded, _ := gb.catalog.Loaded(); !loaded {
		return msgNotLoaded, nil
	}

	renderer := &rowsRenderer{}
	p := gb.newPicker(owner, renderer)
	p.OnQueryChanged(query)

	rows := renderer.rows
	switch {
	case len(rows) == 0:
		return fmt.Sprintf("За запитом «%s» груп не знайдено.", query), nil
	case gb.config.MaxResults > 0 && len(rows) > gb.config.MaxResults:
		return fmt.Sprintf("Знайдено %d груп, показано перші %d. Уточніть запит.", len(rows), gb.config.MaxResults),
			buildResultsKeyboard(rows, gb.config.MaxResults)
	default:
		return "Оберіть групу:", buildResultsKeyboard(rows, gb.config.MaxResults)
	}
}

// selectReply сохраняет выбор группы с данным id
func (gb *GroupBot) selectReply(owner, id string) string {
	if loaded, _ := gb.catalog.Loaded(); !loaded {
		return msgNotLoaded
	}

	group, err := gb.newPicker(owner, nil).SelectByID(id)
	if errors.Is(err, picker.ErrNoSuchGroup) {
		return msgNotFound
	}
	if err != nil {
		gb.logger.Errorf("Failed to save selection of %s: %v", owner, err)
		return msgFailure
	}

	return fmt.Sprintf("Обрано групу %s (%s).", group.Name, group.Faculty)
}

func (gb *GroupBot) currentReply(owner string) string {
	sel, ok, err := settings.LoadSelection(settings.Bind(gb.storage, owner))
	if err != nil {
		gb.logger.Errorf("Failed to load selection of %s: %v", owner, err)
		return msgFailure
	}
	if !ok {
		return msgNoGroup
	}
	return fmt.Sprintf("Ваша група: %s (%s).", sel.Group.Name, sel.Group.Faculty)
}

func (gb *GroupBot) resetReply(owner string) string {
	if err := settings.Bind(gb.storage, owner).Clear(); err != nil {
		gb.logger.Errorf("Failed to clear selection of %s: %v", owner, err)
		return msgFailure
	}
	return "Вибір групи скинуто."
}

// shareReply QR-код ссылки на бота с выбранной группой. При ошибке caption содержит текст для пользователя
func (gb *GroupBot) shareReply(owner string) ([]byte, string, error) {
	sel, ok, err := settings.LoadSelection(settings.Bind(gb.storage, owner))
	if err != nil {
		gb.logger.Errorf("Failed to load selection of %s: %v", owner, err)
		return nil, msgFailure, err
	}
	if !ok {
		return nil, msgNoGroup, errors.New("group is not selected")
	}

	link, err := qrcode.DeepLink(gb.config.BotName, sel.Group.ID)
	if err != nil {
		gb.logger.Errorf("Failed to build deep link for %s: %v", sel.Group.ID, err)
		return nil, "Цією групою не можна поділитися.", err
	}

	image, err := qrcode.GenerateQRCode(link, qrcode.DefaultSize)
	if err != nil {
		gb.logger.Errorf("Failed to generate QR code: %v", err)
		return nil, msgFailure, err
	}

	return image, fmt.Sprintf("%s (%s)\n%s", sel.Group.Name, sel.Group.Faculty, link), nil
}

func (gb *GroupBot) newPicker(owner string, renderer picker.Renderer) *picker.Picker {
	p := picker.New(settings.Bind(gb.storage, owner), renderer, gb.sorter, gb.logger)
	p.Show(gb.catalog.Groups())
	return p
}
