package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yourusername/quizium-api/internal/config"
	"github.com/yourusername/quizium-api/internal/handler"
	"github.com/yourusername/quizium-api/internal/middleware"
	pgRepo "github.com/yourusername/quizium-api/internal/repository/postgres"
	redisRepo "github.com/yourusername/quizium-api/internal/repository/redis"
	"github.com/yourusername/quizium-api/internal/service"
	"github.com/yourusername/quizium-api/pkg/auth"
	"github.com/yourusername/quizium-api/pkg/database"
)

func main() {
	// Загружаем конфигурацию
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	log.Printf("Загрузка конфигурации из %s", configPath)

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		os.Exit(1)
	}

	// Инициализируем подключение к PostgreSQL
	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString())
	if err != nil {
		log.Printf("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	// Применяем миграции
	if err := database.MigrateDB(db); err != nil {
		log.Printf("Failed to migrate database: %v", err)
		os.Exit(1)
	}

	// Инициализируем подключение к Redis
	redisClient, err := database.NewUniversalRedisClient(cfg.Redis)
	if err != nil {
		log.Printf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	log.Println("Successfully connected to Redis")

	// Инициализируем репозитории
	userRepo := pgRepo.NewUserRepo(db)
	companyRepo := pgRepo.NewCompanyRepo(db)
	actionRepo := pgRepo.NewActionRepo(db)
	quizRepo := pgRepo.NewQuizRepo(db)
	questionRepo := pgRepo.NewQuestionRepo(db)
	resultRepo := pgRepo.NewResultRepo(db)
	notificationRepo := pgRepo.NewNotificationRepo(db)
	refreshTokenRepo := pgRepo.NewRefreshTokenRepo(db)

	cacheRepo, err := redisRepo.NewCacheRepo(redisClient)
	if err != nil {
		log.Printf("Failed to initialize CacheRepo: %v", err)
		os.Exit(1)
	}

	// JWT
	jwtService, err := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpirationHrs)
	if err != nil {
		log.Printf("Failed to initialize JWTService: %v", err)
		os.Exit(1)
	}

	// Почта: Resend, если включена, иначе заглушка
	var emailService service.EmailService = &service.NoopEmailService{}
	if cfg.Email.Enabled {
		resendService, err := service.NewResendEmailService(cfg.Email.ResendAPIKey, cfg.Email.From)
		if err != nil {
			log.Printf("Failed to initialize ResendEmailService: %v", err)
			os.Exit(1)
		}
		emailService = resendService
	}

	// Контекст жизненного цикла фоновых горутин
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Инициализируем сервисы
	authService := service.NewAuthService(userRepo, refreshTokenRepo, jwtService, cfg.Auth.RefreshTokenLifetime)
	userService := service.NewUserService(userRepo)
	companyService := service.NewCompanyService(companyRepo)
	actionService := service.NewActionService(actionRepo, companyRepo, userRepo, db)
	quizService := service.NewQuizService(quizRepo, questionRepo, resultRepo, cacheRepo, actionService)
	analyticsService := service.NewAnalyticsService(resultRepo, quizRepo, actionService)
	notificationService := service.NewNotificationService(notificationRepo, userRepo, analyticsService, emailService)
	exportService := service.NewExportService(cacheRepo, actionService)

	// Фоновая задача: напоминания о повторном прохождении викторин
	if cfg.Reminder.IntervalMinutes > 0 {
		go func() {
			interval := time.Duration(cfg.Reminder.IntervalMinutes) * time.Minute
			ticker := time.NewTicker(interval)
			defer ticker.Stop()

			log.Printf("Запуск задачи напоминаний о повторном прохождении (каждые %v)", interval)
			for {
				select {
				case <-ticker.C:
					if err := notificationService.SendRetakeReminders(ctx, time.Now()); err != nil {
						log.Printf("Ошибка задачи напоминаний: %v", err)
					}
				case <-ctx.Done():
					log.Println("Завершение работы задачи напоминаний")
					return
				}
			}
		}()
	}

	// Фоновая задача: очистка просроченных refresh-токенов
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				authService.CleanupExpiredTokens()
			case <-ctx.Done():
				return
			}
		}
	}()

	// Инициализируем обработчики
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	companyHandler := handler.NewCompanyHandler(companyService)
	actionHandler := handler.NewActionHandler(actionService)
	quizHandler := handler.NewQuizHandler(quizService, exportService)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsService)
	notificationHandler := handler.NewNotificationHandler(notificationService)

	authMiddleware := middleware.NewAuthMiddleware(jwtService)

	// Инициализируем роутер Gin
	router := gin.Default()

	isProduction := gin.Mode() == gin.ReleaseMode
	if isProduction {
		if err := router.SetTrustedProxies(nil); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	} else {
		if err := router.SetTrustedProxies([]string{"127.0.0.1", "::1"}); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	}

	// Настройка CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status_code": 200, "detail": "ok", "result": "working"})
	})

	api := router.Group("/api")
	{
		// Аутентификация
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
			authGroup.POST("/logout", authHandler.Logout)

			authedAuth := authGroup.Group("/")
			authedAuth.Use(authMiddleware.RequireAuth())
			{
				authedAuth.POST("/logout-all", authHandler.LogoutAll)
			}
		}

		// Пользователи
		users := api.Group("/users")
		users.Use(authMiddleware.RequireAuth())
		{
			users.GET("", userHandler.ListUsers)
			users.GET("/me", userHandler.GetMe)
			users.PUT("/me", userHandler.UpdateMe)
			users.DELETE("/me", userHandler.DeleteMe)

			userWithID := users.Group("/:id")
			userWithID.Use(middleware.ExtractUintParam("id", "userID"))
			{
				userWithID.GET("", userHandler.GetUser)
			}
		}

		// Компании
		companies := api.Group("/companies")
		companies.Use(authMiddleware.RequireAuth())
		{
			companies.GET("", companyHandler.ListCompanies)
			companies.POST("", companyHandler.CreateCompany)

			companyWithID := companies.Group("/:id")
			companyWithID.Use(middleware.ExtractUintParam("id", "companyID"))
			{
				companyWithID.GET("", companyHandler.GetCompany)
				companyWithID.PUT("", companyHandler.UpdateCompany)
				companyWithID.DELETE("", companyHandler.DeleteCompany)

				// Переходы ролей внутри компании
				companyWithID.POST("/invites", actionHandler.CreateInvite)
				companyWithID.POST("/requests", actionHandler.CreateRequest)
				companyWithID.POST("/remove-user", actionHandler.RemoveUser)
				companyWithID.POST("/admins", actionHandler.AssignAdmin)
				companyWithID.DELETE("/admins", actionHandler.RemoveAdmin)

				companyWithID.GET("/invites", actionHandler.ListCompanyInvited)
				companyWithID.GET("/requests", actionHandler.ListCompanyRequests)
				companyWithID.GET("/members", actionHandler.ListCompanyMembers)
				companyWithID.GET("/admins", actionHandler.ListCompanyAdmins)

				// Викторины компании
				companyWithID.GET("/quizzes", quizHandler.ListCompanyQuizzes)
				companyWithID.POST("/quizzes", quizHandler.CreateQuiz)

				// Аналитика компании
				companyWithID.GET("/analytics/quizzes-last-attempts", analyticsHandler.GetCompanyQuizzesLastAttempts)
				companyWithID.GET("/analytics/users-last-attempts", analyticsHandler.GetCompanyUsersLastAttempts)

				// Экспорт ответов попытки
				exportGroup := companyWithID.Group("/users/:userId/quizzes/:quizId/answers")
				exportGroup.Use(
					middleware.ExtractUintParam("userId", "userID"),
					middleware.ExtractUintParam("quizId", "quizID"),
				)
				{
					exportGroup.GET("", quizHandler.ExportAnswers)
				}
			}
		}

		// Приглашения и заявки текущего пользователя
		actions := api.Group("/actions")
		actions.Use(authMiddleware.RequireAuth())
		{
			actions.GET("/my-invites", actionHandler.ListMyInvites)
			actions.GET("/my-requests", actionHandler.ListMyRequests)

			actionWithID := actions.Group("/:id")
			actionWithID.Use(middleware.ExtractUintParam("id", "actionID"))
			{
				actionWithID.POST("/invite-response", actionHandler.RespondToInvite)
				actionWithID.POST("/request-response", actionHandler.RespondToRequest)
				actionWithID.DELETE("/invite", actionHandler.CancelInvite)
				actionWithID.DELETE("/request", actionHandler.CancelRequest)
			}
		}

		// Викторины
		quizzes := api.Group("/quizzes")
		quizzes.Use(authMiddleware.RequireAuth())
		{
			quizWithID := quizzes.Group("/:id")
			quizWithID.Use(middleware.ExtractUintParam("id", "quizID"))
			{
				quizWithID.GET("", quizHandler.GetQuiz)
				quizWithID.PUT("", quizHandler.UpdateQuiz)
				quizWithID.DELETE("", quizHandler.DeleteQuiz)
				quizWithID.POST("/take", quizHandler.TakeQuiz)
			}
		}

		// Вопросы
		questions := api.Group("/questions")
		questions.Use(authMiddleware.RequireAuth())
		{
			questionWithID := questions.Group("/:id")
			questionWithID.Use(middleware.ExtractUintParam("id", "questionID"))
			{
				questionWithID.PUT("", quizHandler.UpdateQuestion)
			}
		}

		// Аналитика
		analytics := api.Group("/analytics")
		analytics.Use(authMiddleware.RequireAuth())
		{
			analytics.GET("/my-average-score", analyticsHandler.GetMyAverageScore)
			analytics.GET("/my-quiz-averages-over-time", analyticsHandler.GetMyQuizAveragesOverTime)
			analytics.GET("/quiz-score-series", analyticsHandler.GetQuizScoreSeries)
			analytics.GET("/user-averages-over-time", analyticsHandler.GetUserAveragesOverTime)
		}

		// Уведомления
		notifications := api.Group("/notifications")
		notifications.Use(authMiddleware.RequireAuth())
		{
			notifications.GET("", notificationHandler.ListMyNotifications)

			notificationWithID := notifications.Group("/:id")
			notificationWithID.Use(middleware.ExtractUintParam("id", "notificationID"))
			{
				notificationWithID.PUT("/read", notificationHandler.MarkAsRead)
			}
		}
	}

	// HTTP сервер с тайм-аутами
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown по SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	if err := redisClient.Close(); err != nil {
		log.Printf("Error closing Redis client: %v", err)
	}

	log.Println("Server exited")
}
