package handler

import (
	"chatrelay/internal/app/chat"
	"chatrelay/internal/configs"
	"chatrelay/internal/pkg/profanity"
)

// AppDeps bundles the shared collaborators handed to every handler.
type AppDeps struct {
	Registry    *chat.Registry
	Broadcaster *chat.Broadcaster
	Filter      profanity.Filter
	Config      *configs.AppConfig
}
