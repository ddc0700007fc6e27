package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campushub/college-api/internal/models"
	"github.com/campushub/college-api/internal/service"
	appErrors "github.com/campushub/college-api/pkg/errors"
	"github.com/campushub/college-api/pkg/response"
)

// AcademicHandler exposes notes and announcement endpoints.
type AcademicHandler struct {
	academic *service.AcademicService
	students *service.StudentService
}

// NewAcademicHandler creates a new handler.
func NewAcademicHandler(academic *service.AcademicService, students *service.StudentService) *AcademicHandler {
	return &AcademicHandler{academic: academic, students: students}
}

// CreateNote godoc
// @Summary Upload course material
// @Tags Academics
// @Accept json
// @Produce json
// @Param payload body service.CreateNoteRequest true "Note payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /notes [post]
func (h *AcademicHandler) CreateNote(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.CreateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid note payload"))
		return
	}

	note, err := h.academic.CreateNote(c.Request.Context(), recorderID(claims), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, note)
}

// GetNote godoc
// @Summary Get course material
// @Tags Academics
// @Produce json
// @Param id path string true "Note ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /notes/{id} [get]
func (h *AcademicHandler) GetNote(c *gin.Context) {
	note, err := h.academic.GetNote(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, note, nil)
}

// ListNotes godoc
// @Summary List course material
// @Tags Academics
// @Produce json
// @Param subject query string false "Filter by subject"
// @Param type query string false "Filter by note type"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /notes [get]
func (h *AcademicHandler) ListNotes(c *gin.Context) {
	page, pageSize := pageParams(c)

	var noteType *models.NoteType
	if raw := c.Query("type"); raw != "" {
		t := models.NoteType(raw)
		noteType = &t
	}

	notes, total, err := h.academic.ListNotes(c.Request.Context(), c.Query("subject"), noteType, page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, notes, &models.Pagination{
		Page:       page,
		PageSize:   pageSize,
		TotalCount: total,
	})
}

// DeleteNote godoc
// @Summary Delete course material
// @Description Faculty may delete only their own uploads, admins any
// @Tags Academics
// @Param id path string true "Note ID"
// @Success 204 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /notes/{id} [delete]
func (h *AcademicHandler) DeleteNote(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.academic.DeleteNote(c.Request.Context(), c.Param("id"), claims.ProfileID, claims.Role); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// CreateAnnouncement godoc
// @Summary Publish an announcement
// @Tags Academics
// @Accept json
// @Produce json
// @Param payload body service.CreateAnnouncementRequest true "Announcement payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /announcements [post]
func (h *AcademicHandler) CreateAnnouncement(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.CreateAnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid announcement payload"))
		return
	}

	announcement, err := h.academic.CreateAnnouncement(c.Request.Context(), recorderID(claims), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, announcement)
}

// ListAnnouncements godoc
// @Summary List announcements
// @Description Students see announcements targeted at their year and stream;
// staff see every announcement including expired ones
// @Tags Academics
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /announcements [get]
func (h *AcademicHandler) ListAnnouncements(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if claims.Role != models.RoleStudent {
		announcements, err := h.academic.ListAllAnnouncements(c.Request.Context())
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, announcements, nil)
		return
	}

	student, err := h.students.Get(c.Request.Context(), claims.ProfileID)
	if err != nil {
		response.Error(c, err)
		return
	}

	announcements, err := h.academic.ListAnnouncementsFor(c.Request.Context(), student.Year, student.Stream)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, announcements, nil)
}

// DeleteAnnouncement godoc
// @Summary Delete an announcement
// @Tags Academics
// @Param id path string true "Announcement ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /announcements/{id} [delete]
func (h *AcademicHandler) DeleteAnnouncement(c *gin.Context) {
	if err := h.academic.DeleteAnnouncement(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
