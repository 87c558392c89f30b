package main

import (
	"log"

	"github.com/nexafin/fincoach/config"
	"github.com/nexafin/fincoach/db"
	"github.com/nexafin/fincoach/mailingservices"
	"github.com/nexafin/fincoach/server"
	"github.com/nexafin/fincoach/services"
)

func main() {
	conf, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	mailgunClient := &mailingservices.Mailgun{}
	mailgunClient.Init()

	gormDB := db.GetDB(conf)
	authRepo := db.NewAuthRepo(gormDB)
	conversationRepo := db.NewConversationRepo(gormDB)

	authService := services.NewAuthService(authRepo, conf)
	mediaService := services.NewMediaService(conf)
	chatService := services.NewChatService(conf)
	conversationService := services.NewConversationService(conversationRepo, mediaService, conf)
	assistantService := services.NewAssistantService(conversationService, chatService, conf)

	s := &server.Server{
		Mail:                   mailgunClient,
		Config:                 conf,
		AuthRepository:         authRepo,
		ConversationRepository: conversationRepo,
		AuthService:            authService,
		ChatService:            chatService,
		ConversationService:    conversationService,
		AssistantService:       assistantService,
		MediaService:           mediaService,
		DB:                     *gormDB,
	}

	s.Start()
}
