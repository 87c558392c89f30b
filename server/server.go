package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nexafin/fincoach/config"
	"github.com/nexafin/fincoach/db"
	"github.com/nexafin/fincoach/mailingservices"
	"github.com/nexafin/fincoach/services"
)

// Server holds every repository and service the handlers reach for
type Server struct {
	Config                 *config.Config
	Mail                   *mailingservices.Mailgun
	AuthRepository         db.AuthRepository
	ConversationRepository db.ConversationRepository
	AuthService            services.AuthService
	ChatService            services.ChatService
	ConversationService    services.ConversationService
	AssistantService       services.AssistantService
	MediaService           services.MediaService
	DB                     db.GormDB
}

// Start brings the router up and blocks until the process is signalled
func (s *Server) Start() {
	port := s.Config.Port
	if port == 0 {
		port = 8080
	}

	r := s.setupRouter()
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: r,
	}

	go func() {
		log.Printf("Server is running on port %d", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}
