package server

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"

	"github.com/anmicius0/rule-bulk-actions/internal/config"
	"github.com/anmicius0/rule-bulk-actions/internal/metrics"
	"github.com/anmicius0/rule-bulk-actions/internal/schema"
	"github.com/anmicius0/rule-bulk-actions/internal/service"
	"github.com/anmicius0/rule-bulk-actions/internal/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler bundles request-time dependencies for the API routes.
type Handler struct {
	cfg     *config.Config
	store   *config.ActionStore
	manager *service.BulkActionManager
}

// newHandler constructs a Handler with attached dependencies.
func newHandler(cfg *config.Config, store *config.ActionStore, manager *service.BulkActionManager) *Handler {
	return &Handler{
		cfg:     cfg,
		store:   store,
		manager: manager,
	}
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "status": StatusHealthy})
}

func (h *Handler) performBulkAction(c *gin.Context) {
	respBuilder := newResponseBuilder()

	body, err := c.GetRawData()
	if err != nil {
		utils.Logger.Error("Failed to read request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, respBuilder.BuildErrorResponse(
			http.StatusBadRequest,
			ErrorCodeInvalidRequestBody,
			MessageInvalidRequestBody,
			err.Error(),
		))
		return
	}

	// Query and body issues are reported together.
	var issues []schema.Issue
	dryRun, err := schema.ParseDryRun(c.Query("dry_run"))
	issues = collectIssues(issues, err)
	req, err := schema.DecodeBulkActionRequest(body)
	issues = collectIssues(issues, err)
	if req != nil {
		issues = collectIssues(issues, schema.CheckBoundary(req, dryRun, h.cfg.MaxIDs))
	}
	if len(issues) > 0 {
		metrics.ValidationFailuresTotal.Inc()
		utils.WithComponent(utils.ComponentValidator).Info("Bulk action request rejected",
			zap.Int("issue_count", len(issues)),
			zap.String("first_issue", issues[0].String()))
		c.JSON(http.StatusBadRequest, respBuilder.BuildValidationFailedResponse(issues))
		return
	}

	if req.Action == schema.BulkActionExport {
		h.exportRules(c, req)
		return
	}

	actionID, report, err := h.manager.Perform(c.Request.Context(), req, dryRun)
	c.Header(HeaderBulkActionID, actionID)
	if err != nil {
		h.respondPerformError(c, actionID, err)
		return
	}

	status, response := respBuilder.BuildBulkActionResponse(report, req.Action)
	c.JSON(status, response)
}

func (h *Handler) exportRules(c *gin.Context, req *schema.BulkActionRequest) {
	actionID, exported, err := h.manager.Export(c.Request.Context(), req)
	c.Header(HeaderBulkActionID, actionID)
	if err != nil {
		utils.WithComponent(utils.ComponentHandler).Error("Rule export failed",
			zap.String(utils.FieldActionID, actionID),
			zap.Error(err))
		c.JSON(http.StatusBadGateway, newResponseBuilder().BuildErrorResponse(
			http.StatusBadGateway,
			ErrorCodeRuleEngine,
			MessageRuleEngineFailed,
			err.Error(),
		))
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, ExportFileName))
	c.Data(http.StatusOK, ContentTypeNDJSON, []byte(exported))
}

// respondPerformError answers a bulk action that produced no report. Invariant
// violations are caller bugs and never expose partial results.
func (h *Handler) respondPerformError(c *gin.Context, actionID string, err error) {
	respBuilder := newResponseBuilder()
	log := utils.WithComponent(utils.ComponentHandler).With(zap.String(utils.FieldActionID, actionID))

	var fatal *service.FatalError
	if errors.As(err, &fatal) {
		log.DPanic("Bulk action outcomes violated an invariant",
			zap.String(utils.FieldRuleID, fatal.RuleID),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, respBuilder.BuildErrorResponse(
			http.StatusInternalServerError,
			ErrorCodeInternal,
			MessageInternalError,
			nil,
		))
		return
	}

	log.Error("Bulk action failed", zap.Error(err))
	c.JSON(http.StatusBadGateway, respBuilder.BuildErrorResponse(
		http.StatusBadGateway,
		ErrorCodeRuleEngine,
		MessageRuleEngineFailed,
		err.Error(),
	))
}

func (h *Handler) getBulkAction(c *gin.Context) {
	actionID := c.Param("id")
	record, exists := h.store.GetAction(actionID)
	if !exists {
		utils.Logger.Debug("Bulk action not found",
			zap.String(utils.FieldActionID, actionID))
		c.JSON(http.StatusNotFound, newResponseBuilder().BuildErrorResponse(
			http.StatusNotFound,
			ErrorCodeNotFound,
			fmt.Sprintf(ActionNotFoundMessageFmt, actionID),
			nil,
		))
		return
	}
	c.JSON(http.StatusOK, newResponseBuilder().BuildActionResponse(record))
}

func authMiddleware(expectedToken string) gin.HandlerFunc {
	expectedAuth := []byte(fmt.Sprintf("Bearer %s", expectedToken))
	return func(c *gin.Context) {
		authHeader := []byte(c.GetHeader("Authorization"))
		if subtle.ConstantTimeCompare(authHeader, expectedAuth) != 1 {
			utils.Logger.Warn("Unauthorized access attempt",
				zap.String(utils.FieldPath, c.Request.URL.Path))
			c.JSON(http.StatusUnauthorized, gin.H{"error": MessageInvalidToken})
			c.Abort()
			return
		}
		c.Next()
	}
}

// collectIssues appends the issues of a *schema.ValidationError. Other errors
// are reported as a single root issue.
func collectIssues(issues []schema.Issue, err error) []schema.Issue {
	if err == nil {
		return issues
	}
	var validationErr *schema.ValidationError
	if errors.As(err, &validationErr) {
		return append(issues, validationErr.Issues...)
	}
	return append(issues, schema.Issue{Message: err.Error()})
}
