package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"questionbank/internal/models"
	"questionbank/internal/query"
	"questionbank/internal/repositories"
	"questionbank/internal/utils"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const defaultPoints = 1

type QuestionHandler struct {
	questions QuestionRepository
	answers   AnswerRepository
	cache     AnsweredCache
	mode      query.RewriteMode
	logger    *zap.Logger
}

// NewQuestionHandler wires the question endpoints. cache may be nil.
func NewQuestionHandler(questions QuestionRepository, answers AnswerRepository, cache AnsweredCache, mode query.RewriteMode, logger *zap.Logger) *QuestionHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QuestionHandler{questions: questions, answers: answers, cache: cache, mode: mode, logger: logger}
}

type createQuestionRequest struct {
	SubjectID     string              `json:"subjectId" validate:"required,mongodb"`
	Chapter       string              `json:"chapter" validate:"required"`
	Level         models.Level        `json:"level" validate:"required,oneof=easy medium hard"`
	Type          models.QuestionType `json:"type" validate:"required,oneof=true_false mcq complete open_text"`
	QuestionText  string              `json:"questionText" validate:"required"`
	Options       []string            `json:"options" validate:"required_if=Type mcq"`
	CorrectAnswer string              `json:"correctAnswer" validate:"required_unless=Type open_text"`
	ModelAnswer   string              `json:"modelAnswer" validate:"required_if=Type open_text"`
	Points        int                 `json:"points" validate:"min=0"`
}

type submitAnswerRequest struct {
	Answer string `json:"answer" validate:"required"`
}

// ListQuestionsHandler serves GET /api/questions: field filters, comparison
// operators, solved/unsolved, select, sort and pagination.
func (h *QuestionHandler) ListQuestionsHandler(w http.ResponseWriter, r *http.Request, id models.Identity) {
	ctx := r.Context()
	raw := query.ParseRawParams(r.URL.Query())

	if keys := query.UnsafeKeys(raw); len(keys) > 0 {
		fail(h.logger, w, r, utils.Validation("Unsupported query parameter: "+strings.Join(keys, ", ")))
		return
	}

	opts := query.Options{Mode: h.mode}
	if s, ok := raw.Get(query.ParamSolved); ok {
		if flag, ok := query.ParseSolvedFlag(s); ok {
			ids, err := h.answeredIDs(ctx, id.ID)
			if err != nil {
				fail(h.logger, w, r, err)
				return
			}
			opts.Solved = &query.Solved{Flag: flag, AnsweredIDs: ids}
		}
	}

	filter, err := query.Translate(raw, opts)
	if err != nil {
		fail(h.logger, w, r, err)
		return
	}

	// count and find are separate reads; a concurrent write may skew them
	total, err := h.questions.Count(ctx, filter)
	if err != nil {
		fail(h.logger, w, r, err)
		return
	}

	pageStr, _ := raw.Get(query.ParamPage)
	limitStr, _ := raw.Get(query.ParamLimit)
	page := query.Paginate(pageStr, limitStr, total)

	selectStr, _ := raw.Get(query.ParamSelect)
	sortStr, _ := raw.Get(query.ParamSort)
	questions, err := h.questions.List(ctx, filter, repositories.ListOptions{
		Projection: query.Projection(query.SelectorTokens(selectStr)),
		Sort:       query.SortDoc(query.SelectorTokens(sortStr)),
		Skip:       page.Window.StartIndex,
		Limit:      page.Limit,
	})
	if err != nil {
		fail(h.logger, w, r, err)
		return
	}

	if !id.IsAdmin() {
		for i := range questions {
			questions[i].Redact()
		}
	}

	var data any = questions
	if tokens := query.SelectorTokens(selectStr); tokens != "" {
		if data, err = selectFields(questions, tokens); err != nil {
			fail(h.logger, w, r, err)
			return
		}
	}

	utils.JSON(w, http.StatusOK, models.ListResponse{
		Success:    true,
		Count:      len(questions),
		Pagination: &page.Descriptor,
		Data:       data,
	})
}

// selectFields drops the zero values a projected document decodes into, so
// only the selected fields are serialised.
func selectFields(questions []models.Question, tokens string) ([]map[string]any, error) {
	out := make([]map[string]any, 0, len(questions))
	for _, q := range questions {
		encoded, err := json.Marshal(q)
		if err != nil {
			return nil, err
		}
		doc := map[string]any{}
		if err := json.Unmarshal(encoded, &doc); err != nil {
			return nil, err
		}
		out = append(out, query.Select(doc, tokens))
	}
	return out, nil
}

func (h *QuestionHandler) GetQuestionHandler(w http.ResponseWriter, r *http.Request, id models.Identity) {
	qid, ok := h.questionID(w, r)
	if !ok {
		return
	}

	q, err := h.questions.GetByID(r.Context(), qid)
	if err != nil {
		fail(h.logger, w, r, mapQuestionErr(err, qid))
		return
	}
	if !id.IsAdmin() {
		q.Redact()
	}
	utils.JSON(w, http.StatusOK, models.DataResponse{Success: true, Data: q})
}

func (h *QuestionHandler) CreateQuestionHandler(w http.ResponseWriter, r *http.Request, id models.Identity) {
	var req createQuestionRequest
	if err := decodeJSON(r, &req); err != nil {
		fail(h.logger, w, r, err)
		return
	}
	if err := utils.Validate(req); err != nil {
		fail(h.logger, w, r, err)
		return
	}

	subjectID, _ := primitive.ObjectIDFromHex(req.SubjectID)
	points := req.Points
	if points == 0 {
		points = defaultPoints
	}
	q := &models.Question{
		SubjectID:     subjectID,
		Chapter:       req.Chapter,
		Level:         req.Level,
		Type:          req.Type,
		QuestionText:  req.QuestionText,
		Options:       req.Options,
		CorrectAnswer: req.CorrectAnswer,
		ModelAnswer:   req.ModelAnswer,
		Points:        points,
		User:          id.ID,
	}
	created, err := h.questions.Create(r.Context(), q)
	if err != nil {
		fail(h.logger, w, r, err)
		return
	}

	h.logger.Info("question created", zap.String("id", created.ID.Hex()), zap.String("by", id.ID.Hex()))
	utils.JSON(w, http.StatusCreated, models.DataResponse{Success: true, Data: created})
}

func (h *QuestionHandler) DeleteQuestionHandler(w http.ResponseWriter, r *http.Request, id models.Identity) {
	qid, ok := h.questionID(w, r)
	if !ok {
		return
	}
	if err := h.questions.Delete(r.Context(), qid); err != nil {
		fail(h.logger, w, r, mapQuestionErr(err, qid))
		return
	}

	h.logger.Info("question deleted", zap.String("id", qid.Hex()), zap.String("by", id.ID.Hex()))
	utils.JSON(w, http.StatusOK, models.DataResponse{Success: true, Data: emptyObject()})
}

// SubmitAnswerHandler records a student's answer and grades objective types.
func (h *QuestionHandler) SubmitAnswerHandler(w http.ResponseWriter, r *http.Request, id models.Identity) {
	qid, ok := h.questionID(w, r)
	if !ok {
		return
	}
	var req submitAnswerRequest
	if err := decodeJSON(r, &req); err != nil {
		fail(h.logger, w, r, err)
		return
	}
	if err := utils.Validate(req); err != nil {
		fail(h.logger, w, r, err)
		return
	}

	ctx := r.Context()
	q, err := h.questions.GetByID(ctx, qid)
	if err != nil {
		fail(h.logger, w, r, mapQuestionErr(err, qid))
		return
	}

	g := Grade(q, req.Answer)
	saved, err := h.answers.Create(ctx, &models.StudentAnswer{
		StudentID:  id.ID,
		QuestionID: q.ID,
		Answer:     req.Answer,
		IsCorrect:  g.Correct,
		Feedback:   g.Feedback,
		Score:      g.Score,
	})
	if err != nil {
		fail(h.logger, w, r, err)
		return
	}

	if h.cache != nil {
		if err := h.cache.Invalidate(ctx, id.ID); err != nil {
			h.logger.Warn("answered cache invalidate failed", zap.String("student", id.ID.Hex()), zap.Error(err))
		}
	}
	utils.JSON(w, http.StatusCreated, models.DataResponse{Success: true, Data: saved})
}

// answeredIDs reads through the cache. Cache failures degrade to the store.
func (h *QuestionHandler) answeredIDs(ctx context.Context, studentID primitive.ObjectID) ([]primitive.ObjectID, error) {
	if h.cache != nil {
		ids, ok, err := h.cache.Get(ctx, studentID)
		if err != nil {
			h.logger.Warn("answered cache read failed", zap.String("student", studentID.Hex()), zap.Error(err))
		} else if ok {
			return ids, nil
		}
	}

	ids, err := h.answers.AnsweredQuestionIDs(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if h.cache != nil {
		if err := h.cache.Set(ctx, studentID, ids); err != nil {
			h.logger.Warn("answered cache write failed", zap.String("student", studentID.Hex()), zap.Error(err))
		}
	}
	return ids, nil
}

func (h *QuestionHandler) questionID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	qid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		fail(h.logger, w, r, utils.Validation("Invalid question ID format"))
		return primitive.NilObjectID, false
	}
	return qid, true
}

func mapQuestionErr(err error, id primitive.ObjectID) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return utils.NotFound(fmt.Sprintf("Question not found with id of %s", id.Hex()))
	}
	return err
}
