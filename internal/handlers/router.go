package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/records-service/internal/config"
	"github.com/SAP-F-2025/records-service/internal/models"
	"github.com/SAP-F-2025/records-service/internal/repositories"
	"github.com/SAP-F-2025/records-service/internal/services"
	"github.com/SAP-F-2025/records-service/internal/utils"
	"github.com/SAP-F-2025/records-service/internal/validator"
)

type HandlerManager struct {
	userHandler       *UserHandler
	enrollmentHandler *EnrollmentHandler
	authMiddleware    *CasdoorAuthMiddleware
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	validator *validator.Validator,
	logger utils.Logger,
	casdoorConfig config.CasdoorConfig,
	userRepo repositories.UserRepository,
) *HandlerManager {
	authMiddleware := NewCasdoorAuthMiddleware(casdoorConfig, userRepo)

	return &HandlerManager{
		userHandler:       NewUserHandler(serviceManager.User(), serviceManager.Import(), logger),
		enrollmentHandler: NewEnrollmentHandler(serviceManager.Enrollment(), validator, logger),
		authMiddleware:    authMiddleware,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	// API v1 routes with authentication
	v1 := router.Group("/api/v1")
	v1.Use(hm.authMiddleware.AuthMiddleware())
	{
		// User management - Admins only, except read access
		users := v1.Group("/users")
		{
			users.POST("", hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.userHandler.CreateUser)
			users.POST("/import", hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.userHandler.ImportUsers)
			users.PUT("/:id", hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.userHandler.UpdateUser)
			users.DELETE("/:id", hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.userHandler.DeleteUser)

			// View users - Lecturers and Admins
			users.GET("", hm.authMiddleware.RequireRoleMiddleware(models.RoleLecturer, models.RoleAdmin), hm.userHandler.ListUsers)
			users.GET("/:id", hm.authMiddleware.RequireRoleMiddleware(models.RoleLecturer, models.RoleAdmin), hm.userHandler.GetUser)
		}

		// Enrollment management - Admins only
		enrollments := v1.Group("/enrollments")
		enrollments.Use(hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin))
		{
			enrollments.POST("", hm.enrollmentHandler.AssignCourse)
			enrollments.POST("/move", hm.enrollmentHandler.MoveAssignment)
			enrollments.DELETE("/:student_id/:course_id", hm.enrollmentHandler.RemoveAssignment)
		}

		// Course rosters - Lecturers and Admins
		courses := v1.Group("/courses")
		{
			courses.GET("/:id/students", hm.authMiddleware.RequireRoleMiddleware(models.RoleLecturer, models.RoleAdmin), hm.enrollmentHandler.GetCourseStudents)
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "records-service",
		})
	})
}
