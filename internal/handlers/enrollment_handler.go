package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/records-service/internal/services"
	"github.com/SAP-F-2025/records-service/internal/utils"
	"github.com/SAP-F-2025/records-service/internal/validator"
)

type EnrollmentHandler struct {
	BaseHandler
	enrollmentService services.EnrollmentService
	validator         *validator.Validator
}

func NewEnrollmentHandler(
	enrollmentService services.EnrollmentService,
	validator *validator.Validator,
	logger utils.Logger,
) *EnrollmentHandler {
	return &EnrollmentHandler{
		BaseHandler:       NewBaseHandler(logger),
		enrollmentService: enrollmentService,
		validator:         validator,
	}
}

// AssignCourse enrolls a student in a course
// @Summary Assign student to course
// @Tags enrollments
// @Accept json
// @Produce json
// @Param assignment body services.AssignCourseRequest true "Assignment data"
// @Success 201 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse "Bad request"
// @Failure 404 {object} ErrorResponse "Student or course not found"
// @Failure 409 {object} ErrorResponse "Already assigned"
// @Router /enrollments [post]
func (h *EnrollmentHandler) AssignCourse(c *gin.Context) {
	var req services.AssignCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Assigning student to course", "student_id", req.StudentID, "course_id", req.CourseID)

	if err := h.enrollmentService.Assign(c.Request.Context(), req.StudentID, req.CourseID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, SuccessResponse{
		Message: "Student assigned to course",
	})
}

// RemoveAssignment removes a student from a course
// @Summary Remove student from course
// @Tags enrollments
// @Produce json
// @Param student_id path int true "Student ID"
// @Param course_id path int true "Course ID"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse "Assignment not found"
// @Router /enrollments/{student_id}/{course_id} [delete]
func (h *EnrollmentHandler) RemoveAssignment(c *gin.Context) {
	studentID, ok := h.parseUintParam(c, "student_id")
	if !ok {
		return
	}
	courseID, ok := h.parseUintParam(c, "course_id")
	if !ok {
		return
	}

	h.LogRequest(c, "Removing student from course", "student_id", studentID, "course_id", courseID)

	if err := h.enrollmentService.Remove(c.Request.Context(), studentID, courseID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Student removed from course",
	})
}

// MoveAssignment re-points an enrollment to a new student/course pair
// @Summary Move an enrollment
// @Description Atomically removes the current enrollment and creates the new one; either the student or the course (or both) may change. Moving to the same pair is a no-op.
// @Tags enrollments
// @Accept json
// @Produce json
// @Param move body services.MoveAssignmentRequest true "Move data"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse "Bad request"
// @Failure 404 {object} ErrorResponse "Assignment not found"
// @Failure 409 {object} ErrorResponse "Already assigned to target course"
// @Router /enrollments/move [post]
func (h *EnrollmentHandler) MoveAssignment(c *gin.Context) {
	var req services.MoveAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Moving enrollment",
		"student_id", req.StudentID, "course_id", req.CourseID,
		"new_student_id", req.NewStudentID, "new_course_id", req.NewCourseID)

	if err := h.enrollmentService.Move(c.Request.Context(), req.StudentID, req.CourseID, req.NewStudentID, req.NewCourseID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Enrollment moved",
	})
}

// GetCourseStudents lists the students enrolled in a course
// @Summary Get course roster
// @Tags enrollments
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} services.CourseStudentsResponse
// @Failure 404 {object} ErrorResponse "Course not found"
// @Router /courses/{id}/students [get]
func (h *EnrollmentHandler) GetCourseStudents(c *gin.Context) {
	courseID, ok := h.parseUintParam(c, "id")
	if !ok {
		return
	}

	h.LogRequest(c, "Getting course students", "course_id", courseID)

	response, err := h.enrollmentService.GetCourseStudents(c.Request.Context(), courseID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// ===== HELPER METHODS =====

func (h *EnrollmentHandler) parseUintParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + name,
		})
		return 0, false
	}
	return uint(id), true
}

// ===== ERROR HANDLING =====

func (h *EnrollmentHandler) handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrStudentNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Student not found",
		})
	case errors.Is(err, services.ErrCourseNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Course not found",
		})
	case errors.Is(err, services.ErrAssignmentNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Student is not assigned to this course",
		})
	case errors.Is(err, services.ErrAlreadyAssigned):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Student is already assigned to this course",
		})
	default:
		h.LogError(c, err, "Unexpected service error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
		})
	}
}
