package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/Eventhood/Eventhood-backend/internal/auth"
	"github.com/Eventhood/Eventhood-backend/internal/config"
	"github.com/Eventhood/Eventhood-backend/internal/database"
	"github.com/Eventhood/Eventhood-backend/internal/geocode"
	"github.com/Eventhood/Eventhood-backend/internal/http/handlers"
	"github.com/Eventhood/Eventhood-backend/internal/http/middleware"
	"github.com/Eventhood/Eventhood-backend/internal/logger"
	"github.com/Eventhood/Eventhood-backend/internal/mail"
	"github.com/Eventhood/Eventhood-backend/internal/store"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger.Init(cfg.LogLevel)

	if cfg.MongoURI == "" || cfg.JWTSecret == "" {
		log.Fatal().Msg("MONGO_URI and JWT_SECRET must be set")
	}

	client, err := database.ConnectMongo(context.Background(), cfg.MongoURI)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongo")
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	st := store.New(client.Database(cfg.MongoDB), store.Options{
		UniqueFollows:       cfg.UniqueFollows,
		UniqueRegistrations: cfg.UniqueRegistrations,
	})
	if err := st.EnsureIndexes(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("failed to create indexes")
	}

	verifier := auth.NewVerifier(cfg.JWTSecret)
	geocoder := geocode.NewClient(cfg.GeocodeAPIURL, cfg.GeocodeAPIKey)
	mailer := mail.NewClient(cfg.MailAPIURL, cfg.MailAPIKey)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.AccessLog(log.Logger))
	r.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
	}))

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "API is running."})
	})

	userH := &handlers.UserHandler{Store: st, Verifier: verifier, Mailer: mailer, Log: log.Logger}
	followH := &handlers.FollowHandler{Store: st, Verifier: verifier}
	ratingH := &handlers.RatingHandler{Store: st}
	contactH := &handlers.ContactHandler{Store: st, Mailer: mailer, Log: log.Logger}
	eventH := &handlers.EventHandler{Store: st, Geocoder: geocoder}
	reportH := &handlers.ReportHandler{Store: st, Mailer: mailer, Log: log.Logger}
	registrationH := &handlers.RegistrationHandler{Store: st, Mailer: mailer, Log: log.Logger}
	faqH := &handlers.FAQHandler{Store: st}

	api := r.Group("/api")

	api.POST("/users", userH.Create)
	api.GET("/users", userH.List)
	api.GET("/users/:uuid", userH.GetByUUID)
	api.PUT("/users/:id", userH.Update)

	api.POST("/follows", followH.Create)
	api.GET("/follows/following/:id", followH.Following)
	api.GET("/follows/followers/:id", followH.Followers)
	api.DELETE("/follows/:id", followH.Delete)

	api.POST("/ratings", ratingH.Create)
	api.GET("/ratings/:id", ratingH.ListForUser)
	api.DELETE("/ratings/:id", ratingH.Delete)

	api.POST("/contactrequests", contactH.CreateRequest)
	api.GET("/contactrequests", contactH.ListRequests)
	api.GET("/contactrequests/single/:id", contactH.GetRequest)
	api.GET("/contactrequests/user/:id", contactH.ListRequestsByUser)

	api.POST("/supporttopics", contactH.CreateTopic)
	api.GET("/supporttopics", contactH.ListTopics)
	api.GET("/supporttopics/:id", contactH.GetTopic)

	api.POST("/events", eventH.Create)
	api.GET("/events", eventH.List)
	api.GET("/events/single/:id", eventH.Get)
	api.GET("/events/user/:id", eventH.ListByHost)
	api.PUT("/events/:id", eventH.Update)
	api.DELETE("/events/:id", eventH.Delete)

	api.POST("/eventcategories", eventH.CreateCategory)
	api.GET("/eventcategories", eventH.ListCategories)
	api.GET("/eventcategories/:id", eventH.GetCategory)

	api.POST("/eventreports", reportH.Create)
	api.GET("/eventreports", reportH.List)

	api.POST("/reporttopics", reportH.CreateTopic)
	api.GET("/reporttopics", reportH.ListTopics)

	api.POST("/eventregistrations", registrationH.Create)
	api.GET("/eventregistrations/user/:id", registrationH.ListByUser)
	api.GET("/eventregistrations/:id", registrationH.Get)

	api.POST("/FAQTopics", faqH.CreateTopic)
	api.GET("/FAQTopics", faqH.ListTopics)
	api.DELETE("/FAQTopics/:id", faqH.DeleteTopic)

	api.POST("/FAQQuestions", faqH.CreateQuestion)
	api.GET("/FAQQuestions", faqH.ListQuestions)
	api.DELETE("/FAQQuestions/:id", faqH.DeleteQuestion)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("shutdown error")
	}
	log.Info().Msg("server stopped")
}
