package main

import (
	"net/http"
	"strings"

	"sangam_server/config"
	"sangam_server/routes"
	"sangam_server/services"
	"sangam_server/socket"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	config.SetupLogger(cfg.AppEnv)

	log.Info().Str("region", cfg.AWSRegion).Msg("initializing DynamoDB client")
	dynamoClient := services.InitializeDynamoDBClient(cfg.AWSRegion)
	dynamoService := &services.DynamoService{Client: dynamoClient}

	// Connection registry and realtime server. The registry is passed
	// explicitly to the fan-out service; there is no ambient global.
	registry := socket.NewRegistry()
	socketServer := socket.NewServer(registry)
	go func() {
		if err := socketServer.Serve(); err != nil {
			log.Fatal().Err(err).Msg("socket server stopped")
		}
	}()
	defer socketServer.Close()

	// Services
	userProfileService := &services.UserProfileService{Dynamo: dynamoService}
	notificationService := &services.NotificationService{Dynamo: dynamoService, Registry: registry}
	messageService := &services.MessageService{Dynamo: dynamoService, Notifications: notificationService, Registry: registry}
	likeService := &services.LikeService{Dynamo: dynamoService, Profiles: userProfileService}
	interestService := &services.InterestService{Dynamo: dynamoService, Notifications: notificationService, Profiles: userProfileService}

	r := mux.NewRouter()

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status": "healthy"}`))
	}).Methods("GET")

	r.PathPrefix("/socket.io/").Handler(socketServer)

	routes.RegisterInterestRoutes(r, interestService)
	routes.RegisterLikeRoutes(r, likeService)
	routes.RegisterMessageRoutes(r, messageService)
	routes.RegisterNotificationRoutes(r, notificationService)
	routes.RegisterUserProfileRoutes(r, userProfileService)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.AllowedOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(r)

	log.Info().Str("port", cfg.Port).Msg("starting server")
	if err := http.ListenAndServe(":"+cfg.Port, corsHandler); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
