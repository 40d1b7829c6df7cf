package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/godocompany/venuechat-api/models"
	"github.com/godocompany/venuechat-api/services"
	v1 "github.com/godocompany/venuechat-api/v1"
	socketio "github.com/googollee/go-socket.io"
	"github.com/googollee/go-socket.io/engineio"
	"github.com/googollee/go-socket.io/engineio/transport"
	"github.com/googollee/go-socket.io/engineio/transport/polling"
	"github.com/googollee/go-socket.io/engineio/transport/websocket"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

func main() {

	// Load the .env file
	err := godotenv.Load()
	if err != nil {
		fmt.Println("Error loading .env file: ", err)
	}

	// Create the logger
	logger := newLogger()

	//================================================================================
	// Create the database connection
	//================================================================================

	// Get the database driver for the database string
	dbDriver := ParseDatabaseDriver(os.Getenv("DB_URL"))
	if dbDriver == nil {
		logger.Fatal().Msg("Failed to create database driver. Check DB_URL environment variable")
	}

	// Create the database connection
	db, err := gorm.Open(dbDriver, &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}

	// Migrate the schema
	db.AutoMigrate(
		&models.Account{},
		&models.BannedWord{},
		&models.Membership{},
		&models.Message{},
		&models.MutedUser{},
		&models.NasDevice{},
		&models.Room{},
		&models.Session{},
		&models.Tenant{},
		&models.User{},
	)

	//================================================================================
	// Setup the WebSockets server
	//================================================================================

	// Get all of the allowed origins
	allowedOrigins := GetAllowedOrigins()

	// Create the server
	socketIoServer := socketio.NewServer(&engineio.Options{
		Transports: []transport.Transport{
			&polling.Transport{
				CheckOrigin: checkOrigin(allowedOrigins),
			},
			&websocket.Transport{
				CheckOrigin: checkOrigin(allowedOrigins),
			},
		},
	})

	// Connect Redis when configured, for the cross-process broadcast bridge
	// and the history cache. Without it, presence and broadcasts only cover
	// sockets connected to this process.
	var redisClient *redis.Client
	if redisURL, ok := os.LookupEnv("REDIS_URL"); ok {
		redisOpts, err := redis.ParseURL(redisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("invalid REDIS_URL")
		}
		redisClient = redis.NewClient(redisOpts)
	}
	go socketIoServer.Serve()

	//================================================================================
	// Create all the service instances
	//================================================================================

	presenceService := services.NewPresenceService()
	rateLimiter := services.NewRateLimiter(services.DefaultRateLimitWindow)
	sanitizer := services.NewSanitizer()
	bufferGroup := services.NewMessageBufferGroup()
	usersService := &services.UsersService{DB: db}
	tenantsService := &services.TenantsService{DB: db}
	accountsService := &services.AccountsService{DB: db}
	sessionsService := &services.SessionsService{
		DB:            db,
		SigningPepper: os.Getenv("SESSION_SIGNING_PEPPER"),
	}
	authTokensService := &services.AuthTokensService{
		DB:            db,
		SigningPepper: os.Getenv("SESSION_SIGNING_PEPPER"),
	}
	moderationService := &services.ModerationService{
		DB:      db,
		Tenants: tenantsService,
	}
	messagesService := &services.MessagesService{
		DB:    db,
		Cache: redisClient,
		Log:   logger.With().Str("service", "messages").Logger(),
	}
	authService := &services.AuthService{
		Users:    usersService,
		Sessions: sessionsService,
		Tenants:  tenantsService,
		Log:      logger.With().Str("service", "auth").Logger(),
	}
	routerService := &services.RouterService{
		Presence:   presenceService,
		Limiter:    rateLimiter,
		Sanitizer:  sanitizer,
		Moderation: moderationService,
		Messages:   messagesService,
		Tenants:    tenantsService,
		Buffer:     bufferGroup,
		Log:        logger.With().Str("service", "router").Logger(),
	}
	socketsService := &services.SocketsService{
		Server:   socketIoServer,
		Auth:     authService,
		Presence: presenceService,
		Tenants:  tenantsService,
		Router:   routerService,
		Limiter:  rateLimiter,
		Buffer:   bufferGroup,
		Log:      logger.With().Str("service", "sockets").Logger(),
	}

	// The router broadcasts through the sockets service, which dispatches
	// messages through the router. Close the loop before registering any
	// handlers, inserting the cross-process bridge when Redis is available.
	if redisClient != nil {
		bridge := services.NewRedisBridge(
			redisClient,
			"venuechat:broadcast",
			socketsService,
			logger.With().Str("service", "bridge").Logger(),
		)
		routerService.Broadcaster = bridge
		go func() {
			if err := bridge.Run(context.Background()); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error().Err(err).Msg("broadcast bridge stopped")
			}
		}()
	} else {
		routerService.Broadcaster = socketsService
	}
	socketsService.Setup()

	//================================================================================
	// Setup the Gin HTTP router
	//================================================================================

	// Create the Gin router
	r := gin.Default()

	// Configure CORS for the API
	corsCfg := cors.DefaultConfig()
	if len(allowedOrigins) > 0 {
		corsCfg.AllowOrigins = allowedOrigins
		corsCfg.AllowCredentials = true
	} else {
		corsCfg.AllowAllOrigins = true
	}
	corsCfg.AddAllowHeaders("Accept", "User-Agent", "Authorization")
	r.Use(cors.New(corsCfg))

	// Create the API instance
	api := &v1.Server{
		AccountsService:   accountsService,
		AuthTokensService: authTokensService,
		TenantsService:    tenantsService,
		MessagesService:   messagesService,
		ModerationService: moderationService,
	}

	// Mount the API routes
	api.Setup(r.Group("v1"))

	// Create a mux to serve both the HTTP and Socket.IO servers
	mux := http.NewServeMux()
	mux.Handle("/socket.io/", socketIoServer)
	mux.Handle("/", r)

	// Run the server
	port, ok := os.LookupEnv("PORT")
	if !ok {
		port = "8080"
	}
	logger.Info().Str("port", port).Msg("server listening")
	if err := http.ListenAndServe(":"+port, mux); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}

}

// newLogger creates the process-wide zerolog logger
func newLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if raw, ok := os.LookupEnv("LOG_LEVEL"); ok {
		if parsed, err := zerolog.ParseLevel(strings.ToLower(raw)); err == nil {
			level = parsed
		}
	}
	return zerolog.New(os.Stdout).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// GetAllowedOrigins gets the slice of allowed CORS origins
func GetAllowedOrigins() []string {

	// Get the list of origins allowed
	env, ok := os.LookupEnv("CORS_ALLOW_ORIGINS")
	if !ok {
		return []string{}
	}

	// Create the slice for it
	origins := []string{}

	// Split up the env value
	originsRaw := strings.Split(env, ",")
	for _, originRaw := range originsRaw {
		origin := strings.TrimSpace(originRaw)
		origins = append(origins, origin)
	}

	// Return the origins slice
	return origins

}

// checkOrigin builds the transport origin check from the allow-list. An
// empty allow-list accepts every origin.
func checkOrigin(allowedOrigins []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		if len(allowedOrigins) == 0 {
			return true
		}
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, allowed := range allowedOrigins {
			if strings.EqualFold(allowed, origin) {
				return true
			}
		}
		return false
	}
}
