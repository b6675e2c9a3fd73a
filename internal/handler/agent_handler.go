package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/edu-agent-api/internal/dto"
	"github.com/noah-isme/edu-agent-api/internal/middleware"
	"github.com/noah-isme/edu-agent-api/internal/service"
	appErrors "github.com/noah-isme/edu-agent-api/pkg/errors"
	"github.com/noah-isme/edu-agent-api/pkg/logger"
	"github.com/noah-isme/edu-agent-api/pkg/response"
)

type agentService interface {
	Chat(ctx context.Context, query string) service.DispatchResult
	Dispatch(ctx context.Context, text string) service.DispatchResult
}

type actionCatalog interface {
	Describe() []dto.ActionInfo
}

// AgentHandler exposes the conversational entry points.
type AgentHandler struct {
	agent   agentService
	catalog actionCatalog
}

// NewAgentHandler constructs AgentHandler.
func NewAgentHandler(agent agentService, catalog actionCatalog) *AgentHandler {
	return &AgentHandler{agent: agent, catalog: catalog}
}

// Chat godoc
// @Summary Chat with the assistant
// @Description Sends the message to the language model when enabled, then dispatches any action found in the reply.
// @Tags Agent
// @Accept json
// @Produce json
// @Param payload body dto.ChatRequest true "Chat message"
// @Success 200 {object} response.Envelope
// @Failure 429 {object} response.Envelope
// @Router /agent/chat [post]
func (h *AgentHandler) Chat(c *gin.Context) {
	var req dto.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	h.respond(c, h.agent.Chat(c.Request.Context(), req.Message))
}

// Dispatch godoc
// @Summary Dispatch text without the language model
// @Tags Agent
// @Accept json
// @Produce json
// @Param payload body dto.DispatchRequest true "Text containing an action descriptor"
// @Success 200 {object} response.Envelope
// @Router /agent/dispatch [post]
func (h *AgentHandler) Dispatch(c *gin.Context) {
	var req dto.DispatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	h.respond(c, h.agent.Dispatch(c.Request.Context(), req.Text))
}

// Actions godoc
// @Summary List registered actions
// @Tags Agent
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /agent/actions [get]
func (h *AgentHandler) Actions(c *gin.Context) {
	actions := h.catalog.Describe()
	response.JSON(c, http.StatusOK, actions, map[string]interface{}{"total": len(actions)})
}

// Chat failures are still displayable replies, so the status stays 200 and the outcome says what
// happened.
func (h *AgentHandler) respond(c *gin.Context, result service.DispatchResult) {
	if result.Action != "" {
		c.Set(logger.ActionContextKey, result.Action)
	}
	middleware.SetMeta(c, "outcome", string(result.Outcome))
	response.JSON(c, http.StatusOK, result, middleware.ExtractMeta(c))
}
