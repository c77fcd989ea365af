package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/competa-arena/contest-service/internal/middleware"
	"github.com/competa-arena/contest-service/internal/model"
	"github.com/competa-arena/contest-service/internal/repository"
	"github.com/competa-arena/contest-service/internal/response"
	"github.com/competa-arena/contest-service/internal/service"
	"github.com/competa-arena/contest-service/internal/validator"
)

// ContestHandler handles the contest CRUD endpoints.
type ContestHandler struct {
	contestService *service.ContestService
}

// NewContestHandler creates a new ContestHandler.
func NewContestHandler(contestService *service.ContestService) *ContestHandler {
	return &ContestHandler{contestService: contestService}
}

// CreateContest godoc
// POST /api/contests
// Creates a contest owned by the authenticated identity. The auth
// filter guarantees a CREATOR/ADMIN identity on this route.
func (h *ContestHandler) CreateContest(c *gin.Context) {
	identity := middleware.GetIdentity(c)
	if identity == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.ContestRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	contest, err := h.contestService.Create(c.Request.Context(), &req, identity.UserID)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"contest": contest})
}

// ListContests godoc
// GET /api/contests
// Lists all contests. Optional query filters: subject, created_by,
// visibility (applied in that priority order). No auth required.
func (h *ContestHandler) ListContests(c *gin.Context) {
	ctx := c.Request.Context()

	var (
		contests []model.Contest
		err      error
	)
	switch {
	case c.Query("subject") != "":
		contests, err = h.contestService.GetBySubject(ctx, c.Query("subject"))
	case c.Query("created_by") != "":
		contests, err = h.contestService.GetByCreator(ctx, c.Query("created_by"))
	case c.Query("visibility") != "":
		contests, err = h.contestService.GetByVisibility(ctx, c.Query("visibility"))
	default:
		contests, err = h.contestService.GetAll(ctx)
	}
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"contests": contests})
}

// GetContest godoc
// GET /api/contests/:id
// Returns a single contest. No auth required.
func (h *ContestHandler) GetContest(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	contest, err := h.contestService.GetByID(c.Request.Context(), id)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"contest": contest})
}

// UpdateContest godoc
// PUT /api/contests/:id
// Replaces a contest's fields wholesale; the creator is preserved.
func (h *ContestHandler) UpdateContest(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.ContestRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	contest, err := h.contestService.Update(c.Request.Context(), id, &req)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"contest": contest})
}

// DeleteContest godoc
// DELETE /api/contests/:id
// Removes a contest; deleting an unknown id succeeds (idempotent).
func (h *ContestHandler) DeleteContest(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.contestService.Delete(c.Request.Context(), id); err != nil {
		failFromError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// failFromError maps domain errors onto the response taxonomy.
func failFromError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, model.ErrSubjectTypeConflict):
		response.Fail(c, http.StatusBadRequest, response.ErrSubjectTypeConflict)
	case errors.Is(err, model.ErrMalformedQuestion):
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidQuestion)
	case errors.Is(err, service.ErrUploadFailed):
		response.Fail(c, http.StatusBadGateway, response.ErrUploadFailed)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
