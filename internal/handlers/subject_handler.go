package handlers

import (
	"errors"
	"net/http"

	"questionbank/internal/models"
	"questionbank/internal/repositories"
	"questionbank/internal/utils"

	"go.uber.org/zap"
)

type SubjectHandler struct {
	repo   SubjectRepository
	logger *zap.Logger
}

func NewSubjectHandler(repo SubjectRepository, logger *zap.Logger) *SubjectHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubjectHandler{repo: repo, logger: logger}
}

type createSubjectRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

// ListSubjectsHandler is public.
func (h *SubjectHandler) ListSubjectsHandler(w http.ResponseWriter, r *http.Request) {
	subjects, err := h.repo.List(r.Context())
	if err != nil {
		fail(h.logger, w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, models.ListResponse{Success: true, Count: len(subjects), Data: subjects})
}

func (h *SubjectHandler) CreateSubjectHandler(w http.ResponseWriter, r *http.Request, id models.Identity) {
	var req createSubjectRequest
	if err := decodeJSON(r, &req); err != nil {
		fail(h.logger, w, r, err)
		return
	}
	if err := utils.Validate(req); err != nil {
		fail(h.logger, w, r, err)
		return
	}

	subject, err := h.repo.Create(r.Context(), &models.Subject{Name: req.Name, Description: req.Description})
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			err = utils.Duplicate("Duplicate field value entered")
		}
		fail(h.logger, w, r, err)
		return
	}

	h.logger.Info("subject created", zap.String("name", subject.Name), zap.String("by", id.ID.Hex()))
	utils.JSON(w, http.StatusCreated, models.DataResponse{Success: true, Data: subject})
}
