package handler

import (
	"shutterchat/internal/app/chat"
	"shutterchat/internal/app/storage"
	"shutterchat/internal/configs"
)

// AppDeps bundles the collaborators handlers need.
type AppDeps struct {
	Registry    *chat.Registry
	Rooms       *chat.RoomStore
	Queue       *chat.DeliveryQueue
	Router      *chat.Router
	Broadcaster *chat.Broadcaster
	Config      *configs.AppConfig

	// Storage is nil when S3 is not configured; presign endpoints then 404.
	Storage storage.PhotoStorage
}
