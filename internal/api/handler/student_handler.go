package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/oxfordpsn/school-portal/internal/api/metrics"
	"github.com/oxfordpsn/school-portal/internal/core/domain"
	"github.com/oxfordpsn/school-portal/internal/core/ports"
)

type StudentHandler struct {
	enrollment ports.EnrollmentService
}

func NewStudentHandler(enrollment ports.EnrollmentService) *StudentHandler {
	return &StudentHandler{enrollment: enrollment}
}

// Enroll provisions a single student account. Admin-only.
//
// @Summary      Enroll one student
// @Tags         students
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      enrollStudentRequest  true  "Student"
// @Success      201   {object}  credentialResponse
// @Failure      400   {object}  errorResponse
// @Router       /students [post]
func (h *StudentHandler) Enroll(c echo.Context) error {
	var req enrollStudentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	cred, err := h.enrollment.Enroll(c.Request().Context(), ports.EnrollmentInput{
		FirstName: req.FirstName,
		Email:     req.Email,
	})
	if err != nil {
		metrics.EnrollmentErrorsTotal.WithLabelValues("single").Inc()
		return err
	}

	metrics.StudentsEnrolledTotal.WithLabelValues("single").Inc()
	return c.JSON(http.StatusCreated, credentialResponse{StudentID: cred.StudentID, Password: cred.Password})
}

// BulkEnroll provisions many student accounts in one request. Admin-only.
// The operation is not atomic: a failure leaves already-created accounts in
// place and the response reports the size of the applied prefix.
//
// @Summary      Enroll students in bulk
// @Tags         students
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      bulkEnrollRequest  true  "Students"
// @Success      201   {array}   credentialResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  bulkFailureResponse
// @Failure      500   {object}  bulkFailureResponse
// @Router       /students/bulk [post]
func (h *StudentHandler) BulkEnroll(c echo.Context) error {
	var req bulkEnrollRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	entries := make([]ports.EnrollmentInput, 0, len(req.Students))
	for _, s := range req.Students {
		entries = append(entries, ports.EnrollmentInput{FirstName: s.FirstName, Email: s.Email})
	}

	creds, err := h.enrollment.BulkEnroll(c.Request().Context(), entries)
	metrics.StudentsEnrolledTotal.WithLabelValues("bulk").Add(float64(len(creds)))
	if err != nil {
		metrics.EnrollmentErrorsTotal.WithLabelValues("bulk").Inc()
		// The error envelope must carry the applied prefix, so the bulk
		// failure is rendered here instead of the central error handler.
		return c.JSON(bulkFailureStatus(err), bulkFailureResponse{
			Error:   bulkFailureMessage(err),
			Created: len(creds),
		})
	}

	out := make([]credentialResponse, 0, len(creds))
	for _, cred := range creds {
		out = append(out, credentialResponse{StudentID: cred.StudentID, Password: cred.Password})
	}
	return c.JSON(http.StatusCreated, out)
}

// GetStudent looks up an enrolled student by identifier. Admin-only. This
// is the reconcile path after a partially applied bulk call.
//
// @Summary      Fetch one student
// @Tags         students
// @Produce      json
// @Security     BearerAuth
// @Param        studentId  path      string  true  "Student identifier"
// @Success      200        {object}  studentResponse
// @Failure      404        {object}  errorResponse
// @Router       /students/{studentId} [get]
func (h *StudentHandler) GetStudent(c echo.Context) error {
	student, err := h.enrollment.FindStudent(c.Request().Context(), c.Param("studentId"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, studentResponse{
		StudentID: student.Username,
		FirstName: student.Name,
		Email:     student.Email,
	})
}

func bulkFailureStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func bulkFailureMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrUserExists):
		return "duplicate student account"
	case errors.Is(err, domain.ErrInvalidInput):
		return "invalid student entry"
	default:
		return "bulk enrollment failed"
	}
}
