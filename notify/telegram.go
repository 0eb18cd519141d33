package notify

import (
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"

	"github.com/smartklingel/klingel/config"
)

// Telegram messages a chat through a bot. The bot connects on first use, so
// a telegram outage at startup does not stop the doorbell.
type Telegram struct {
	token  string
	chatID int64
	mu     sync.Mutex
	bot    *tgbotapi.BotAPI
}

func NewTelegram(conf config.TelegramConf) *Telegram {
	return &Telegram{token: conf.Token, chatID: conf.Chat_id}
}

func (self *Telegram) ID() string {
	return "telegram"
}

func (self *Telegram) connect() (*tgbotapi.BotAPI, error) {
	self.mu.Lock()
	defer self.mu.Unlock()
	if self.bot == nil {
		bot, err := tgbotapi.NewBotAPI(self.token)
		if err != nil {
			return nil, err
		}
		self.bot = bot
	}
	return self.bot, nil
}

func (self *Telegram) Notify(title, message string) error {
	bot, err := self.connect()
	if err != nil {
		return errors.Wrap(err, "telegram")
	}
	text := message
	if title != "" {
		text = title + ": " + message
	}
	_, err = bot.Send(tgbotapi.NewMessage(self.chatID, text))
	return errors.Wrap(err, "telegram")
}
