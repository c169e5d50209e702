// Package notify delivers review prompts, review decisions and reminders to telegram chats.
package notify

import (
	"context"
	"fmt"
	"html"
	"log"

	tbapi "github.com/OvyFlash/telegram-bot-api"

	"github.com/umputun/tg-linkcheck/app/storage"
)

//go:generate moq --out mocks/tb_api.go --pkg mocks --with-resets --skip-ensure . TbAPI

// TbAPI is an interface for telegram bot API, only subset of methods used
type TbAPI interface {
	Send(c tbapi.Chattable) (tbapi.Message, error)
	Request(c tbapi.Chattable) (*tbapi.APIResponse, error)
}

// Telegram sends notifications with the bot. Zero chat ids disable reminders and the review log.
type Telegram struct {
	TbAPI      TbAPI
	ReviewChat int64 // chat of reviewers, gets reminders
	LogChat    int64 // chat for the review log
}

// reviewCommands are offered on every review prompt, in this order
var reviewCommands = []storage.Designation{storage.Spam, storage.NotSpam, storage.Aggregator}

// SendReviewPrompt posts the queued url with a keyboard of review commands, returns the id of the posted message
func (t *Telegram) SendReviewPrompt(_ context.Context, chatID int64, item storage.QueueItem) (int, error) {
	text := fmt.Sprintf("Review this URL:\n<code>%s</code>", html.EscapeString(item.SanitizedURL))
	if item.OriginalURL != "" && item.OriginalURL != item.SanitizedURL {
		text += "\n\nOriginal URL: " + html.EscapeString(item.OriginalURL)
	}

	buttons := make([]tbapi.InlineKeyboardButton, 0, len(reviewCommands))
	for _, d := range reviewCommands {
		buttons = append(buttons, tbapi.NewInlineKeyboardButtonData(d.Title(), fmt.Sprintf("%s %d", d.Command(), item.ID)))
	}

	tbMsg := tbapi.NewMessage(chatID, text)
	tbMsg.ParseMode = tbapi.ModeHTML
	tbMsg.LinkPreviewOptions = tbapi.LinkPreviewOptions{IsDisabled: true}
	tbMsg.ReplyMarkup = tbapi.NewInlineKeyboardMarkup(tbapi.NewInlineKeyboardRow(buttons...))
	resp, err := t.TbAPI.Send(tbMsg)
	if err != nil {
		return 0, fmt.Errorf("failed to send review prompt to %d: %w", chatID, err)
	}
	log.Printf("[DEBUG] review prompt for %s sent to %d, msg %d", item.SanitizedURL, chatID, resp.MessageID)
	return resp.MessageID, nil
}

// DiscardKeyboard replaces the review prompt with html text and removes its keyboard
func (t *Telegram) DiscardKeyboard(_ context.Context, kb storage.Keyboard, text string) error {
	editMsg := tbapi.NewEditMessageText(kb.ChatID, kb.MessageID, text)
	editMsg.ReplyMarkup = &tbapi.InlineKeyboardMarkup{InlineKeyboard: [][]tbapi.InlineKeyboardButton{}}
	if err := send(editMsg, t.TbAPI); err != nil {
		return fmt.Errorf("failed to discard keyboard %d:%d: %w", kb.ChatID, kb.MessageID, err)
	}
	return nil
}

// DeleteMessage removes a message from the chat
func (t *Telegram) DeleteMessage(_ context.Context, chatID int64, msgID int) error {
	if _, err := t.TbAPI.Request(tbapi.NewDeleteMessage(chatID, msgID)); err != nil {
		return fmt.Errorf("failed to delete message %d:%d: %w", chatID, msgID, err)
	}
	return nil
}

// Log posts plain text to the review log chat
func (t *Telegram) Log(_ context.Context, text string) error {
	if t.LogChat == 0 {
		return nil
	}
	tbMsg := tbapi.NewMessage(t.LogChat, text)
	tbMsg.LinkPreviewOptions = tbapi.LinkPreviewOptions{IsDisabled: true}
	if _, err := t.TbAPI.Send(tbMsg); err != nil {
		return fmt.Errorf("failed to send to log chat %d: %w", t.LogChat, err)
	}
	return nil
}

// Remind tells reviewers how many urls are waiting
func (t *Telegram) Remind(_ context.Context, count int) error {
	if t.ReviewChat == 0 {
		return nil
	}
	text := fmt.Sprintf("There are %d URLs awaiting review. DM this bot /review to review.", count)
	if _, err := t.TbAPI.Send(tbapi.NewMessage(t.ReviewChat, text)); err != nil {
		return fmt.Errorf("failed to send reminder to %d: %w", t.ReviewChat, err)
	}
	return nil
}

// send a message as html first and if failed - as plain text
func send(tbMsg tbapi.Chattable, tbAPI TbAPI) error {
	withParseMode := func(tbMsg tbapi.Chattable, parseMode string) tbapi.Chattable {
		switch msg := tbMsg.(type) {
		case tbapi.MessageConfig:
			msg.ParseMode = parseMode
			msg.LinkPreviewOptions = tbapi.LinkPreviewOptions{IsDisabled: true}
			return msg
		case tbapi.EditMessageTextConfig:
			msg.ParseMode = parseMode
			msg.LinkPreviewOptions = tbapi.LinkPreviewOptions{IsDisabled: true}
			return msg
		}
		return tbMsg // don't touch other types
	}

	msg := withParseMode(tbMsg, tbapi.ModeHTML)
	if _, err := tbAPI.Send(msg); err != nil {
		log.Printf("[WARN] failed to send message as html, %v", err)
		msg = withParseMode(tbMsg, "") // try plain text
		if _, err := tbAPI.Send(msg); err != nil {
			return fmt.Errorf("can't send message to telegram: %w", err)
		}
	}
	return nil
}
