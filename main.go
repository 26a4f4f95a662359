package main

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/plarkin/chatline/internal/auth"
	"github.com/plarkin/chatline/internal/chat"
	"github.com/plarkin/chatline/internal/config"
	"github.com/plarkin/chatline/internal/handlers"
	"github.com/plarkin/chatline/internal/middleware"
	"github.com/plarkin/chatline/internal/store/sqlstore"
	"github.com/plarkin/chatline/internal/ws"
	"github.com/redis/go-redis/v9"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	cfg := config.Load()

	store, err := sqlstore.New(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	var sessions auth.Sessions
	if cfg.SessionBackend == "redis" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		sessions = auth.NewRedisSessions(rdb, cfg.SessionTTL)
	} else {
		sessions = auth.NewMemorySessions()
	}

	registry := ws.NewRegistry()
	service := chat.NewService(store, registry)

	authHandler := &handlers.AuthHandler{Store: store, Sessions: sessions}
	chatHandler := &handlers.ChatHandler{Service: service}
	requestHandler := &handlers.RequestHandler{Service: service}
	messageHandler := &handlers.MessageHandler{Service: service}

	r := mux.NewRouter()
	r.Use(loggingMiddleware)

	// Public endpoints
	r.HandleFunc("/signup", authHandler.Signup).Methods("POST")
	r.HandleFunc("/login", authHandler.Login).Methods("POST")
	r.HandleFunc("/logout", authHandler.Logout).Methods("POST")

	// Everything below operates on the session principal
	api := r.NewRoute().Subrouter()
	api.Use(middleware.Auth(sessions))
	api.HandleFunc("/users/search", authHandler.SearchUsers).Methods("GET")
	api.HandleFunc("/chats", chatHandler.GetChats).Methods("GET")
	api.HandleFunc("/chats", chatHandler.CreatePrivateChat).Methods("POST")
	api.HandleFunc("/groups", chatHandler.CreateGroup).Methods("POST")
	api.HandleFunc("/chats/{id}", chatHandler.LeaveGroup).Methods("DELETE")
	api.HandleFunc("/chats/{id}/participants", chatHandler.GetParticipants).Methods("GET")
	api.HandleFunc("/chats/{id}/invite", requestHandler.Invite).Methods("POST")
	api.HandleFunc("/chats/{id}/accept", requestHandler.Accept).Methods("POST")
	api.HandleFunc("/chats/{id}/decline", requestHandler.Decline).Methods("DELETE")
	api.HandleFunc("/requests", requestHandler.List).Methods("GET")
	api.HandleFunc("/chats/{id}/messages", messageHandler.Get).Methods("GET")
	api.HandleFunc("/chats/{id}/messages", messageHandler.Send).Methods("POST")
	api.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWs(registry, service, w, r, middleware.Username(r))
	})

	log.Println("Starting server on", cfg.Addr)
	log.Fatal(http.ListenAndServe(cfg.Addr, r))
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %v", r.Method, r.URL.Path, time.Since(start))
	})
}
