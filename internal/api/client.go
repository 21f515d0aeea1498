package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Client часть *tgbotapi.BotAPI, через которую идут исходящие запросы
type Client interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Poller источник обновлений в режиме long polling
type Poller interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// RawRequester вызывает метод Bot API по имени с готовыми параметрами
type RawRequester interface {
	MakeRequest(endpoint string, params tgbotapi.Params) (*tgbotapi.APIResponse, error)
}

var (
	_ Client       = (*tgbotapi.BotAPI)(nil)
	_ Poller       = (*tgbotapi.BotAPI)(nil)
	_ RawRequester = (*tgbotapi.BotAPI)(nil)
)
