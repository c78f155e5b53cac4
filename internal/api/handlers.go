// internal/api/handlers.go
package api

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/memlife/memlife/internal/models"
	"github.com/memlife/memlife/internal/services"
)

// Handler holds every service the HTTP surface needs.
type Handler struct {
	accounts  *services.AccountService
	catalog   *services.CatalogService
	interview *services.InterviewService
	images    *services.ImageService
	export    *services.ExportService
	llm       *services.LLMService
	stats     *services.StatsService
	response  *ResponseHelper
}

// NewHandler creates the API handler over the given services.
func NewHandler(
	accounts *services.AccountService,
	catalog *services.CatalogService,
	interview *services.InterviewService,
	images *services.ImageService,
	export *services.ExportService,
	llm *services.LLMService,
	stats *services.StatsService,
) *Handler {
	return &Handler{
		accounts:  accounts,
		catalog:   catalog,
		interview: interview,
		images:    images,
		export:    export,
		llm:       llm,
		stats:     stats,
		response:  NewResponseHelper(),
	}
}

// ---- auth ----

type signupRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Email     string `json:"email" binding:"required"`
	Password  string `json:"password" binding:"required"`
	Birthdate string `json:"birthdate"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type authResponse struct {
	Token   string         `json:"token"`
	UserID  string         `json:"user_id"`
	Profile models.Profile `json:"profile"`
}

// Signup creates a new account and logs it in.
func (h *Handler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.response.BadRequest(c, "invalid signup request: "+err.Error())
		return
	}

	account, err := h.accounts.CreateAccount(models.Profile{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Birthdate: req.Birthdate,
	}, req.Password)
	if err != nil {
		h.response.FromError(c, err)
		return
	}

	h.response.Created(c, authResponse{
		Token:   h.accounts.IssueToken(account.UserID),
		UserID:  account.UserID,
		Profile: account.Profile,
	})
}

// Login authenticates an existing account and issues a token.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.response.BadRequest(c, "invalid login request: "+err.Error())
		return
	}

	account, err := h.accounts.Authenticate(req.Email, req.Password)
	if err != nil {
		h.response.FromError(c, err)
		return
	}

	h.response.Success(c, authResponse{
		Token:   h.accounts.IssueToken(account.UserID),
		UserID:  account.UserID,
		Profile: account.Profile,
	})
}

// Logout revokes the token and drops the volatile interview state.
// Saved answers survive; open transcripts do not.
func (h *Handler) Logout(c *gin.Context) {
	h.accounts.RevokeToken(bearerToken(c))
	h.interview.DropState(currentUserID(c))
	h.response.Success(c, nil, "logged out")
}

// GetProfile returns the authenticated account.
func (h *Handler) GetProfile(c *gin.Context) {
	account, err := h.accounts.GetAccount(currentUserID(c))
	if err != nil {
		h.response.FromError(c, err)
		return
	}
	h.response.Success(c, account)
}

// ---- sessions and topics ----

// GetSessions returns the catalog joined with the user's progress.
func (h *Handler) GetSessions(c *gin.Context) {
	summaries, err := h.interview.SessionSummaries(currentUserID(c))
	if err != nil {
		h.response.FromError(c, err)
		return
	}
	h.response.Success(c, summaries)
}

type selectSessionRequest struct {
	Index *int `json:"index" binding:"required"`
}

// SelectSession moves the user to another session.
func (h *Handler) SelectSession(c *gin.Context) {
	var req selectSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.response.BadRequest(c, "invalid session selection: "+err.Error())
		return
	}

	if err := h.interview.SelectSession(currentUserID(c), *req.Index); err != nil {
		h.response.FromError(c, err)
		return
	}
	h.interviewView(c)
}

// NextTopic advances to the next catalog question.
func (h *Handler) NextTopic(c *gin.Context) {
	if err := h.interview.NextTopic(currentUserID(c)); err != nil {
		h.response.FromError(c, err)
		return
	}
	h.interviewView(c)
}

// PreviousTopic steps back one catalog question.
func (h *Handler) PreviousTopic(c *gin.Context) {
	if err := h.interview.PreviousTopic(currentUserID(c)); err != nil {
		h.response.FromError(c, err)
		return
	}
	h.interviewView(c)
}

type overrideRequest struct {
	Topic string `json:"topic" binding:"required"`
}

// SetOverrideTopic installs an ad-hoc prompt as the active topic.
func (h *Handler) SetOverrideTopic(c *gin.Context) {
	var req overrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.response.BadRequest(c, "invalid override request: "+err.Error())
		return
	}

	if err := h.interview.SetOverrideTopic(currentUserID(c), req.Topic); err != nil {
		h.response.FromError(c, err)
		return
	}
	h.interviewView(c)
}

// ClearOverrideTopic returns navigation to the catalog question.
func (h *Handler) ClearOverrideTopic(c *gin.Context) {
	if err := h.interview.ClearOverride(currentUserID(c)); err != nil {
		h.response.FromError(c, err)
		return
	}
	h.interviewView(c)
}

// GetFallbackPrompts returns the prompt bank clients can offer when
// the user wants a custom topic instead of the catalog question.
func (h *Handler) GetFallbackPrompts(c *gin.Context) {
	h.response.Success(c, h.catalog.FallbackPrompts())
}

// ---- interview ----

// GetInterview returns the current interview snapshot.
func (h *Handler) GetInterview(c *gin.Context) {
	h.interviewView(c)
}

func (h *Handler) interviewView(c *gin.Context) {
	view, err := h.interview.View(currentUserID(c))
	if err != nil {
		h.response.FromError(c, err)
		return
	}
	h.response.Success(c, view)
}

type messageRequest struct {
	Message string `json:"message" binding:"required"`
}

// SendMessage runs one interview turn.
func (h *Handler) SendMessage(c *gin.Context) {
	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.response.BadRequest(c, "invalid message: "+err.Error())
		return
	}

	reply, err := h.interview.SendMessage(c.Request.Context(), currentUserID(c), req.Message)
	if err != nil {
		h.response.FromError(c, err)
		return
	}
	h.response.Success(c, reply)
}

type editMessageRequest struct {
	Message string `json:"message" binding:"required"`
}

// EditMessage rewrites the user turn at the path index and re-records
// the answer.
func (h *Handler) EditMessage(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		h.response.BadRequest(c, "invalid message index")
		return
	}

	var req editMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.response.BadRequest(c, "invalid edit request: "+err.Error())
		return
	}

	reply, err := h.interview.EditMessage(currentUserID(c), index, req.Message)
	if err != nil {
		h.response.FromError(c, err)
		return
	}
	h.response.Success(c, reply)
}

type toggleRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

// SetGhostwriterMode toggles the literary-biographer framing.
func (h *Handler) SetGhostwriterMode(c *gin.Context) {
	var req toggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.response.BadRequest(c, "invalid mode request: "+err.Error())
		return
	}

	if err := h.interview.SetGhostwriterMode(currentUserID(c), *req.Enabled); err != nil {
		h.response.FromError(c, err)
		return
	}
	h.interviewView(c)
}

// SetPhotoStoryMode toggles photo-story prompting.
func (h *Handler) SetPhotoStoryMode(c *gin.Context) {
	var req toggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.response.BadRequest(c, "invalid mode request: "+err.Error())
		return
	}

	if err := h.interview.SetPhotoStoryMode(currentUserID(c), *req.Enabled); err != nil {
		h.response.FromError(c, err)
		return
	}
	h.interviewView(c)
}

// ---- images ----

type registerImageRequest struct {
	Filename    string `json:"filename" binding:"required"`
	Description string `json:"description"`
	Dimensions  string `json:"dimensions"`
}

// RegisterImage records metadata for one uploaded photo against the
// session in the path.
func (h *Handler) RegisterImage(c *gin.Context) {
	sessionID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		h.response.BadRequest(c, "invalid session id")
		return
	}

	var req registerImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.response.BadRequest(c, "invalid image request: "+err.Error())
		return
	}

	meta, err := h.images.RegisterImage(currentUserID(c), models.ImageMeta{
		OriginalFilename: req.Filename,
		Description:      req.Description,
		Dimensions:       req.Dimensions,
		SessionID:        sessionID,
	})
	if err != nil {
		h.response.FromError(c, err)
		return
	}
	h.response.Created(c, meta)
}

// ListSessionImages returns the photo metadata for one session.
func (h *Handler) ListSessionImages(c *gin.Context) {
	sessionID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		h.response.BadRequest(c, "invalid session id")
		return
	}

	images, err := h.images.ListSessionImages(currentUserID(c), sessionID)
	if err != nil {
		h.response.FromError(c, err)
		return
	}
	h.response.Success(c, images)
}

// ---- export, llm, stats ----

// ExportBiography returns the full biography download object.
func (h *Handler) ExportBiography(c *gin.Context) {
	doc, err := h.export.BuildDocument(currentUserID(c))
	if err != nil {
		h.response.FromError(c, err)
		return
	}
	h.response.Success(c, doc)
}

// GetLLMStatus reports the provider readiness.
func (h *Handler) GetLLMStatus(c *gin.Context) {
	h.response.Success(c, gin.H{
		"ready":     h.llm.IsReady(),
		"state":     h.llm.GetReadyState(),
		"provider":  h.llm.ProviderName(),
		"available": h.llm.AvailableProviders(),
	})
}

type llmConfigRequest struct {
	Provider string            `json:"provider" binding:"required"`
	Config   map[string]string `json:"config" binding:"required"`
}

// UpdateLLMConfig swaps the active provider configuration.
func (h *Handler) UpdateLLMConfig(c *gin.Context) {
	var req llmConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.response.BadRequest(c, "invalid llm config: "+err.Error())
		return
	}

	if err := h.llm.UpdateProvider(req.Provider, req.Config); err != nil {
		h.response.FromError(c, err)
		return
	}
	h.response.Success(c, gin.H{
		"ready":    h.llm.IsReady(),
		"provider": h.llm.ProviderName(),
	})
}

// GetUsageStats returns the LLM usage counters.
func (h *Handler) GetUsageStats(c *gin.Context) {
	h.response.Success(c, h.stats.GetStats())
}
