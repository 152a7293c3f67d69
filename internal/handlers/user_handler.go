package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/records-service/internal/identity"
	"github.com/SAP-F-2025/records-service/internal/models"
	"github.com/SAP-F-2025/records-service/internal/repositories"
	"github.com/SAP-F-2025/records-service/internal/services"
	"github.com/SAP-F-2025/records-service/internal/utils"
	"github.com/SAP-F-2025/records-service/internal/validator"
)

// maxImportFileSize caps uploads at 10 MB, matching typical roster sizes
const maxImportFileSize = 10 << 20

type UserHandler struct {
	BaseHandler
	userService   services.UserService
	importService services.ImportService
}

func NewUserHandler(userService services.UserService, importService services.ImportService, logger utils.Logger) *UserHandler {
	return &UserHandler{
		BaseHandler:   NewBaseHandler(logger),
		userService:   userService,
		importService: importService,
	}
}

// CreateUser creates a new user account with its role record
// @Summary Create user
// @Description Creates a user account and the matching student/lecturer/admin record
// @Tags users
// @Accept json
// @Produce json
// @Param user body services.CreateUserRequest true "User data"
// @Success 201 {object} models.User
// @Failure 400 {object} ErrorResponse "Bad request"
// @Failure 409 {object} ErrorResponse "Email already in use"
// @Failure 422 {object} ErrorResponse "No major available for student"
// @Router /users [post]
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req services.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Creating user", "email", req.Email, "role", req.Role)

	user, err := h.userService.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

// ListUsers lists users with optional filtering
// @Summary List users
// @Description Get a paginated list of users
// @Tags users
// @Accept json
// @Produce json
// @Param page query int false "Page number (default: 1)"
// @Param size query int false "Page size (default: 10, max: 100)"
// @Param q query string false "Search query (name or email)"
// @Param role query string false "Filter by role (student, lecturer, admin)"
// @Success 200 {object} services.UserListResponse
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	h.LogRequest(c, "Listing users")

	filters := h.parseUserFilters(c)

	response, err := h.userService.List(c.Request.Context(), filters)
	if err != nil {
		h.LogError(c, err, "Failed to list users")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Failed to list users",
			Details: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetUser retrieves a user by ID
// @Summary Get user by ID
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} models.User
// @Failure 404 {object} ErrorResponse "Not found"
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	userID := c.Param("id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "User ID is required",
		})
		return
	}

	h.LogRequest(c, "Getting user", "user_id", userID)

	user, err := h.userService.GetByID(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateUser updates a user's profile, including the student's major
// @Summary Update user
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param user body services.UpdateUserRequest true "Fields to update"
// @Success 200 {object} models.User
// @Failure 400 {object} ErrorResponse "Bad request"
// @Failure 404 {object} ErrorResponse "Not found"
// @Router /users/{id} [put]
func (h *UserHandler) UpdateUser(c *gin.Context) {
	userID := c.Param("id")

	var req services.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Updating user", "user_id", userID)

	user, err := h.userService.Update(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// DeleteUser removes a user, its role record and its enrollments
// @Summary Delete user
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse "Not found"
// @Router /users/{id} [delete]
func (h *UserHandler) DeleteUser(c *gin.Context) {
	userID := c.Param("id")

	h.LogRequest(c, "Deleting user", "user_id", userID)

	if err := h.userService.Delete(c.Request.Context(), userID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "User deleted successfully",
	})
}

// ImportUsers provisions users in bulk from an uploaded CSV or Excel file
// @Summary Import users from file
// @Description Parses a CSV or Excel roster and creates one user per row. Row-level problems are reported in the result, file-level problems fail the whole import.
// @Tags users
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV or Excel file"
// @Param skip_duplicates query bool false "Skip rows whose email already exists (default: true)"
// @Success 200 {object} services.ImportResult
// @Failure 400 {object} ErrorResponse "Bad request"
// @Router /users/import [post]
func (h *UserHandler) ImportUsers(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "File is required",
			Details: err.Error(),
		})
		return
	}

	if fileHeader.Size > maxImportFileSize {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "File is too large",
		})
		return
	}

	skipDuplicates := true
	if raw := c.Query("skip_duplicates"); raw != "" {
		if parsed, parseErr := strconv.ParseBool(raw); parseErr == nil {
			skipDuplicates = parsed
		}
	}

	h.LogRequest(c, "Importing users", "filename", fileHeader.Filename, "size", fileHeader.Size, "skip_duplicates", skipDuplicates)

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Failed to read uploaded file",
			Details: err.Error(),
		})
		return
	}
	defer file.Close()

	result, err := h.importService.ImportUsers(c.Request.Context(), fileHeader.Filename, file, skipDuplicates)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	// Import outcome (including file-level rejections) travels in the
	// result body, callers inspect the success flag.
	c.JSON(http.StatusOK, result)
}

// ===== HELPER METHODS =====

func (h *UserHandler) parseUserFilters(c *gin.Context) repositories.UserFilters {
	page := 1
	size := 10

	if pageStr := c.Query("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			page = p
		}
	}

	if sizeStr := c.Query("size"); sizeStr != "" {
		if s, err := strconv.Atoi(sizeStr); err == nil && s > 0 && s <= 100 {
			size = s
		}
	}

	filters := repositories.UserFilters{
		Limit:  size,
		Offset: (page - 1) * size,
		Query:  c.Query("q"),
	}

	if roleStr := c.Query("role"); roleStr != "" {
		if role, err := models.ParseRole(roleStr); err == nil {
			filters.Role = &role
		}
	}

	return filters
}

// ===== ERROR HANDLING =====

func (h *UserHandler) handleServiceError(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	var policyErr *identity.PolicyError

	switch {
	case errors.As(err, &validationErrs):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: validationErrs.Error(),
		})
	case errors.As(err, &policyErr):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Password does not meet policy",
			Details: policyErr.Error(),
		})
	case errors.Is(err, services.ErrUserNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "User not found",
		})
	case errors.Is(err, services.ErrEmailTaken):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Email already in use",
		})
	case errors.Is(err, services.ErrNoDefaultMajor):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Message: "No majors found in database. Please create at least one major before importing students.",
		})
	default:
		h.LogError(c, err, "Unexpected service error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
		})
	}
}
