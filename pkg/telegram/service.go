package telegram

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// ErrUnavailable means the Bot API could not be reached or the service is
// not polling yet.
var ErrUnavailable = errors.New("telegram unavailable")

// ErrForbidden means the bot has no access to the chat (kicked, banned, or
// the chat is gone).
var ErrForbidden = errors.New("telegram access forbidden")

// Message is one chat message as delivered by the Bot API
type Message struct {
	ID     int
	Sender string
	Text   string
	Time   time.Time
}

// Service wraps the Telegram Bot API. It keeps a rolling per-chat buffer of
// messages seen on the update stream, since the Bot API delivers messages as
// updates rather than serving history.
type Service struct {
	bot *tgbotapi.BotAPI

	mu      sync.Mutex
	buffer  map[string][]Message
	maxBuf  int
	started bool
	stop    chan struct{}
}

// NewService creates the Telegram service. maxBuffer bounds the number of
// messages retained per chat.
func NewService(token string, maxBuffer int) (*Service, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}
	bot.Debug = false

	if maxBuffer <= 0 {
		maxBuffer = 500
	}
	return &Service{
		bot:    bot,
		buffer: make(map[string][]Message),
		maxBuf: maxBuffer,
		stop:   make(chan struct{}),
	}, nil
}

// Start begins consuming the update stream into the per-chat buffers
func (s *Service) Start() {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.mu.Unlock()

	updateCfg := tgbotapi.NewUpdate(0)
	updateCfg.Timeout = 30
	updates := s.bot.GetUpdatesChan(updateCfg)

	go func() {
		for {
			select {
			case update, ok := <-updates:
				if !ok {
					return
				}
				s.consume(update)
			case <-s.stop:
				s.bot.StopReceivingUpdates()
				return
			}
		}
	}()
}

// Stop shuts down the update stream
func (s *Service) Stop() {
	close(s.stop)
}

func (s *Service) consume(update tgbotapi.Update) {
	msg := update.Message
	if msg == nil {
		msg = update.ChannelPost
	}
	if msg == nil || msg.Chat == nil || msg.Text == "" {
		return
	}

	sender := ""
	if msg.From != nil {
		sender = msg.From.UserName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(msg.Chat.UserName)
	buf := append(s.buffer[key], Message{
		ID:     msg.MessageID,
		Sender: sender,
		Text:   msg.Text,
		Time:   msg.Time(),
	})
	if len(buf) > s.maxBuf {
		buf = buf[len(buf)-s.maxBuf:]
	}
	s.buffer[key] = buf
}

// Recent returns up to limit buffered messages for the chat, newest last.
// The chat is probed first so access loss surfaces as ErrForbidden.
func (s *Service) Recent(chatUsername string, limit int) ([]Message, error) {
	s.mu.Lock()
	started := s.started
	s.mu.Unlock()
	if !started {
		return nil, ErrUnavailable
	}

	_, err := s.bot.GetChat(tgbotapi.ChatInfoConfig{
		ChatConfig: tgbotapi.ChatConfig{SuperGroupUsername: "@" + chatUsername},
	})
	if err != nil {
		if isForbidden(err) {
			return nil, fmt.Errorf("%w: %v", ErrForbidden, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	buf := s.buffer[strings.ToLower(chatUsername)]
	if limit > 0 && len(buf) > limit {
		buf = buf[len(buf)-limit:]
	}
	out := make([]Message, len(buf))
	copy(out, buf)
	return out, nil
}

// ChatUsernameFromLink extracts the chat username from a t.me link
func ChatUsernameFromLink(link string) string {
	link = strings.TrimSuffix(link, "/")
	if idx := strings.LastIndex(link, "/"); idx >= 0 {
		link = link[idx+1:]
	}
	return strings.TrimPrefix(link, "@")
}

func isForbidden(err error) bool {
	text := strings.ToLower(err.Error())
	return strings.Contains(text, "forbidden") ||
		strings.Contains(text, "kicked") ||
		strings.Contains(text, "chat not found")
}
