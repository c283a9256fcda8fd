package router

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/unilink-app/unilink-api/config"
	"github.com/unilink-app/unilink-api/database"
	"github.com/unilink-app/unilink-api/handlers"
	auth_handlers "github.com/unilink-app/unilink-api/handlers/auth"
	building_handlers "github.com/unilink-app/unilink-api/handlers/building"
	device_handlers "github.com/unilink-app/unilink-api/handlers/device"
	document_handlers "github.com/unilink-app/unilink-api/handlers/document"
	employee_handlers "github.com/unilink-app/unilink-api/handlers/employee"
	faculty_handlers "github.com/unilink-app/unilink-api/handlers/faculty"
	friendship_handlers "github.com/unilink-app/unilink-api/handlers/friendship"
	module_handlers "github.com/unilink-app/unilink-api/handlers/module"
	notification_handlers "github.com/unilink-app/unilink-api/handlers/notification"
	post_handlers "github.com/unilink-app/unilink-api/handlers/post"
	program_handlers "github.com/unilink-app/unilink-api/handlers/program"
	university_handlers "github.com/unilink-app/unilink-api/handlers/university"
	"github.com/unilink-app/unilink-api/services"
	"github.com/unilink-app/unilink-api/services/push"
	"github.com/unilink-app/unilink-api/services/storage"
	"github.com/unilink-app/unilink-api/utils/auth"
	"github.com/unilink-app/unilink-api/utils/cache"
	"github.com/unilink-app/unilink-api/utils/middleware"
)

func SetupRoutes(app *fiber.App, store database.Storage) {
	getEnv, err := config.Get()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}
	if getEnv.JWT_SECRET == "" {
		log.Fatal("JWT_SECRET environment variable is not set")
	}

	jwtIssuer := getEnv.JWT_ISSUER
	if jwtIssuer == "" {
		jwtIssuer = "unilink-api"
	}

	jwtManager := auth.NewJWTManager(auth.JWTConfig{
		Secret:        getEnv.JWT_SECRET,
		Expiry:        24 * time.Hour,
		RefreshExpiry: 7 * 24 * time.Hour,
		Issuer:        jwtIssuer,
	})

	db := store.GetDB()

	// Redis backs the login throttle
	redisURL := getEnv.REDIS_URL
	if redisURL == "" {
		redisURL = "redis://localhost:6379/0"
	}
	redisCache, err := cache.NewRedisCache(redisURL)
	if err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v. Login throttling will be disabled.", err)
	}

	var loginThrottle *middleware.LoginThrottle
	if redisCache != nil {
		loginThrottle = middleware.NewLoginThrottle(redisCache)
	}

	authMiddleware := middleware.NewAuthMiddleware(jwtManager, db)

	// Blob storage for documents and logos. The API still runs without it;
	// upload endpoints will report the missing configuration.
	var blobStorage services.BlobStorage
	spacesClient, err := storage.NewSpacesClientFromEnv()
	if err != nil {
		log.Printf("Warning: Failed to initialize Spaces client: %v. Document uploads will be unavailable.", err)
	} else if spacesClient != nil {
		blobStorage = spacesClient
	}

	// Push client for friend request notifications
	var pushClient *push.Client
	if getEnv.FCM_SERVER_KEY != "" {
		pushClient = push.NewClient(push.Config{ServerKey: getEnv.FCM_SERVER_KEY})
	} else {
		log.Println("FCM_SERVER_KEY not set; push notifications are disabled")
	}

	// Domain services. The hierarchy services share the cascade helpers, so
	// they are built bottom-up.
	hierarchyService := services.NewHierarchyService(db)
	documentService := services.NewDocumentService(db, blobStorage)
	moduleService := services.NewModuleService(db, documentService)
	programService := services.NewProgramService(db, moduleService, documentService)
	facultyService := services.NewFacultyService(db, programService, documentService)
	universityService := services.NewUniversityService(db, facultyService, documentService, blobStorage)

	friendNotifier := services.NewFriendNotifier(db, pushClient)
	friendshipService := services.NewFriendshipService(db, friendNotifier)
	notificationService := services.NewNotificationService(db)

	// Handlers
	authHandler := auth_handlers.NewAuthHandler(db, jwtManager, loginThrottle, getEnv.GOOGLE_CLIENT_ID)
	universityHandler := university_handlers.NewUniversityHandler(universityService)
	facultyHandler := faculty_handlers.NewFacultyHandler(facultyService)
	programHandler := program_handlers.NewProgramHandler(programService)
	moduleHandler := module_handlers.NewModuleHandler(moduleService)
	documentHandler := document_handlers.NewDocumentHandler(documentService)
	postHandler := post_handlers.NewPostHandler(db, hierarchyService)
	buildingHandler := building_handlers.NewBuildingHandler(db, hierarchyService)
	employeeHandler := employee_handlers.NewEmployeeHandler(db, hierarchyService)
	friendshipHandler := friendship_handlers.NewFriendshipHandler(friendshipService)
	deviceHandler := device_handlers.NewDeviceHandler(db)
	notificationHandler := notification_handlers.NewNotificationHandler(notificationService)

	// Security middleware
	allowedOrigins := getEnv.ALLOWED_ORIGINS
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:3000,http://localhost:3001"
	}
	middleware.SetupSecurity(app, middleware.SecurityConfig{
		AllowedOrigins:    allowedOrigins,
		RateLimitRequests: 100,
		RateLimitWindow:   1 * time.Minute,
	})

	// Health check endpoint (public)
	app.Get("/ping", handlers.HandleCheckHealth(store))

	// API v1 group
	api := app.Group("/api/v1")

	// Auth routes (public)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)

	if loginThrottle != nil {
		authGroup.Post("/login", loginThrottle.Gate(), authHandler.Login)
	} else {
		authGroup.Post("/login", authHandler.Login)
	}
	authGroup.Post("/login/google", authHandler.LoginGoogle)

	authGroup.Post("/refresh", authHandler.RefreshToken)
	authGroup.Post("/forgot-password", authHandler.ForgotPassword)
	authGroup.Post("/reset-password", authHandler.ResetPassword)

	// Protected auth routes
	authGroup.Post("/logout", authMiddleware.Required(), authHandler.Logout)
	authGroup.Post("/change-password", authMiddleware.Required(), authHandler.ChangePassword)

	// Profile routes (protected)
	profileGroup := api.Group("/profile", authMiddleware.Required())
	profileGroup.Get("/", authHandler.GetProfile)
	profileGroup.Put("/", authHandler.UpdateProfile)

	// Universities
	universities := api.Group("/universities")
	universities.Get("/", universityHandler.ListUniversities)
	universities.Get("/:university_id", universityHandler.GetUniversity)
	universities.Post("/", authMiddleware.Required(), authMiddleware.AdminOnly(), universityHandler.CreateUniversity)
	universities.Put("/:university_id", authMiddleware.Required(), authMiddleware.AdminOnly(), universityHandler.UpdateUniversity)
	universities.Post("/:university_id/logo", authMiddleware.Required(), authMiddleware.AdminOnly(), universityHandler.UploadLogo)
	universities.Delete("/:university_id", authMiddleware.Required(), authMiddleware.AdminOnly(), universityHandler.DeleteUniversity)

	// University documents
	universityDocuments := universities.Group("/:university_id/documents")
	universityDocuments.Get("/", documentHandler.ListDocuments)
	universityDocuments.Get("/:document_id", documentHandler.GetDocument)
	universityDocuments.Post("/", authMiddleware.Required(), documentHandler.UploadDocument)
	universityDocuments.Put("/:document_id", authMiddleware.Required(), documentHandler.UpdateDocument)
	universityDocuments.Delete("/:document_id", authMiddleware.Required(), documentHandler.DeleteDocument)

	// Posts, buildings, employees (campus resources of a university)
	posts := universities.Group("/:university_id/posts")
	posts.Get("/", postHandler.ListPosts)
	posts.Get("/:post_id", postHandler.GetPost)
	posts.Post("/", authMiddleware.Required(), authMiddleware.AdminOnly(), postHandler.CreatePost)
	posts.Put("/:post_id", authMiddleware.Required(), authMiddleware.AdminOnly(), postHandler.UpdatePost)
	posts.Delete("/:post_id", authMiddleware.Required(), authMiddleware.AdminOnly(), postHandler.DeletePost)

	buildings := universities.Group("/:university_id/buildings")
	buildings.Get("/", buildingHandler.ListBuildings)
	buildings.Get("/:building_id", buildingHandler.GetBuilding)
	buildings.Post("/", authMiddleware.Required(), authMiddleware.AdminOnly(), buildingHandler.CreateBuilding)
	buildings.Put("/:building_id", authMiddleware.Required(), authMiddleware.AdminOnly(), buildingHandler.UpdateBuilding)
	buildings.Delete("/:building_id", authMiddleware.Required(), authMiddleware.AdminOnly(), buildingHandler.DeleteBuilding)

	employees := universities.Group("/:university_id/employees")
	employees.Get("/", employeeHandler.ListEmployees)
	employees.Get("/:employee_id", employeeHandler.GetEmployee)
	employees.Post("/", authMiddleware.Required(), authMiddleware.AdminOnly(), employeeHandler.CreateEmployee)
	employees.Put("/:employee_id", authMiddleware.Required(), authMiddleware.AdminOnly(), employeeHandler.UpdateEmployee)
	employees.Delete("/:employee_id", authMiddleware.Required(), authMiddleware.AdminOnly(), employeeHandler.DeleteEmployee)

	// Faculties (nested under universities)
	faculties := universities.Group("/:university_id/faculties")
	faculties.Get("/", facultyHandler.ListFaculties)
	faculties.Get("/:faculty_id", facultyHandler.GetFaculty)
	faculties.Post("/", authMiddleware.Required(), authMiddleware.AdminOnly(), facultyHandler.CreateFaculty)
	faculties.Put("/:faculty_id", authMiddleware.Required(), authMiddleware.AdminOnly(), facultyHandler.UpdateFaculty)
	faculties.Delete("/:faculty_id", authMiddleware.Required(), authMiddleware.AdminOnly(), facultyHandler.DeleteFaculty)

	// Programs (nested under faculties)
	programs := faculties.Group("/:faculty_id/programs")
	programs.Get("/", programHandler.ListPrograms)
	programs.Get("/:program_id", programHandler.GetProgram)
	programs.Post("/", authMiddleware.Required(), authMiddleware.AdminOnly(), programHandler.CreateProgram)
	programs.Put("/:program_id", authMiddleware.Required(), authMiddleware.AdminOnly(), programHandler.UpdateProgram)
	programs.Delete("/:program_id", authMiddleware.Required(), authMiddleware.AdminOnly(), programHandler.DeleteProgram)

	// Program documents
	programDocuments := programs.Group("/:program_id/documents")
	programDocuments.Get("/", documentHandler.ListDocuments)
	programDocuments.Get("/:document_id", documentHandler.GetDocument)
	programDocuments.Post("/", authMiddleware.Required(), documentHandler.UploadDocument)
	programDocuments.Put("/:document_id", authMiddleware.Required(), documentHandler.UpdateDocument)
	programDocuments.Delete("/:document_id", authMiddleware.Required(), documentHandler.DeleteDocument)

	// Modules (nested under programs)
	modules := programs.Group("/:program_id/modules")
	modules.Get("/", moduleHandler.ListModules)
	modules.Get("/:module_id", moduleHandler.GetModule)
	modules.Post("/", authMiddleware.Required(), authMiddleware.AdminOnly(), moduleHandler.CreateModule)
	modules.Put("/:module_id", authMiddleware.Required(), authMiddleware.AdminOnly(), moduleHandler.UpdateModule)
	modules.Delete("/:module_id", authMiddleware.Required(), authMiddleware.AdminOnly(), moduleHandler.DeleteModule)

	// Module documents
	moduleDocuments := modules.Group("/:module_id/documents")
	moduleDocuments.Get("/", documentHandler.ListDocuments)
	moduleDocuments.Get("/:document_id", documentHandler.GetDocument)
	moduleDocuments.Post("/", authMiddleware.Required(), documentHandler.UploadDocument)
	moduleDocuments.Put("/:document_id", authMiddleware.Required(), documentHandler.UpdateDocument)
	moduleDocuments.Delete("/:document_id", authMiddleware.Required(), documentHandler.DeleteDocument)

	// Friendships (all protected)
	friends := api.Group("/friends", authMiddleware.Required())
	friends.Get("/", friendshipHandler.ListFriends)
	friends.Get("/requests", friendshipHandler.ListFriendRequests)
	friends.Post("/requests", friendshipHandler.SendFriendRequest)
	friends.Put("/requests", friendshipHandler.HandleRequest)
	friends.Delete("/:friend_id", friendshipHandler.DeleteFriend)

	// Devices (all protected)
	devices := api.Group("/devices", authMiddleware.Required())
	devices.Get("/", deviceHandler.ListDevices)
	devices.Post("/", deviceHandler.RegisterDevice)
	devices.Delete("/:device_id", deviceHandler.UnregisterDevice)

	// Notifications (all protected)
	notifications := api.Group("/notifications", authMiddleware.Required())
	notifications.Get("/", notificationHandler.ListNotifications)
	notifications.Put("/read", notificationHandler.MarkAllRead)
	notifications.Put("/:notification_id/read", notificationHandler.MarkRead)
}
