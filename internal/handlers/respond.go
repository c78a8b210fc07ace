package handlers

import (
	"encoding/json"
	"net/http"

	"questionbank/internal/utils"

	"go.uber.org/zap"
)

// fail writes err as the error envelope. Unclassified errors are logged.
func fail(logger *zap.Logger, w http.ResponseWriter, r *http.Request, err error) {
	appErr := utils.FromError(err)
	if appErr.Kind == utils.KindUnclassified {
		logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
	utils.JSONError(w, appErr.Status, appErr.Message)
}

func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return utils.Validation("Invalid request body")
	}
	return nil
}

func emptyObject() map[string]any { return map[string]any{} }
