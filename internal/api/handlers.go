package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aiwuxian/life-path/internal/models"
	"github.com/aiwuxian/life-path/internal/services"
)

type Handler struct {
	game *services.GameService
}

func NewHandler(game *services.GameService) *Handler {
	return &Handler{game: game}
}

// getCustomLLMService 从请求头获取自定义API配置，没有时返回 nil 使用默认配置
func (h *Handler) getCustomLLMService(c *gin.Context) *services.LLMService {
	apiKey := c.GetHeader("X-Custom-API-Key")
	if apiKey == "" {
		return nil
	}

	return services.NewLLMService(models.LLMConfig{
		Provider:    "openai",
		APIKey:      apiKey,
		APIBase:     c.GetHeader("X-Custom-API-Base"),
		Model:       c.GetHeader("X-Custom-API-Model"),
		Temperature: 0.7,
		MaxTokens:   800,
	})
}

// respondError 把业务错误映射为HTTP状态码
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, models.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, models.ErrSessionEnded):
		status = http.StatusConflict
	case errors.Is(err, models.ErrIneligible),
		errors.Is(err, models.ErrInsufficientFunds):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, models.ErrOverAllocation),
		errors.Is(err, models.ErrInvalidAllocation),
		errors.Is(err, models.ErrNoPendingEvent),
		errors.Is(err, models.ErrNothingToUndo):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		log.Printf("❌ 请求处理失败: %v\n", err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// NewGame 开始新的人生
func (h *Handler) NewGame(c *gin.Context) {
	var req struct {
		Name string `json:"name"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "参数错误"})
		return
	}

	session, err := h.game.NewGame(req.Name)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

// ListSessions 列出所有会话
func (h *Handler) ListSessions(c *gin.Context) {
	sessions, err := h.game.ListSessions()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}

// GetSession 获取会话状态
func (h *Handler) GetSession(c *gin.Context) {
	session, err := h.game.GetSession(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

// AdvanceYear 推进一年
func (h *Handler) AdvanceYear(c *gin.Context) {
	result, err := h.game.AdvanceYear(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// PendingEvents 待选择的事件
func (h *Handler) PendingEvents(c *gin.Context) {
	events, err := h.game.PendingEvents(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"events": events})
}

// EligibleEvents 当前满足条件的随机事件
func (h *Handler) EligibleEvents(c *gin.Context) {
	events, err := h.game.EligibleEvents(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"events": events})
}

// ChooseOption 选择事件选项
func (h *Handler) ChooseOption(c *gin.Context) {
	var req struct {
		EventID     string `json:"event_id" binding:"required"`
		OptionIndex *int   `json:"option_index" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "参数错误"})
		return
	}

	result, err := h.game.ChooseOption(c.Param("id"), req.EventID, *req.OptionIndex)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// DeclineEvent 放弃事件
func (h *Handler) DeclineEvent(c *gin.Context) {
	var req struct {
		EventID string `json:"event_id" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "参数错误"})
		return
	}

	if err := h.game.DeclineEvent(c.Param("id"), req.EventID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "已放弃事件"})
}

// ListNPCs 当前能见到的NPC
func (h *Handler) ListNPCs(c *gin.Context) {
	npcs, err := h.game.AvailableNPCs(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"npcs": npcs})
}

// Interact 与NPC互动
func (h *Handler) Interact(c *gin.Context) {
	var req struct {
		NPCID         string `json:"npc_id" binding:"required"`
		InteractionID string `json:"interaction_id" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "参数错误"})
		return
	}

	result, err := h.game.Interact(c.Param("id"), req.NPCID, req.InteractionID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ListScenes 当前可进入的场景
func (h *Handler) ListScenes(c *gin.Context) {
	scenes, err := h.game.AvailableScenes(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"scenes": scenes})
}

// SceneAction 执行场景操作
func (h *Handler) SceneAction(c *gin.Context) {
	var req struct {
		SceneID  string `json:"scene_id" binding:"required"`
		ActionID string `json:"action_id" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "参数错误"})
		return
	}

	result, err := h.game.PerformSceneAction(c.Param("id"), req.SceneID, req.ActionID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ListShop 商店物品
func (h *Handler) ListShop(c *gin.Context) {
	items, err := h.game.ShopItems(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// BuyItem 购买物品
func (h *Handler) BuyItem(c *gin.Context) {
	var req struct {
		ItemID string `json:"item_id" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "参数错误"})
		return
	}

	item, err := h.game.BuyItem(c.Param("id"), req.ItemID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}

// UseItem 使用物品
func (h *Handler) UseItem(c *gin.Context) {
	var req struct {
		InstanceID string `json:"instance_id" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "参数错误"})
		return
	}

	result, err := h.game.UseItem(c.Param("id"), req.InstanceID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ListSkills 技能面板
func (h *Handler) ListSkills(c *gin.Context) {
	skills, err := h.game.Skills(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"skills": skills})
}

// SetTimeAllocation 设置时间分配
func (h *Handler) SetTimeAllocation(c *gin.Context) {
	var req models.TimeAllocation

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "参数错误"})
		return
	}

	alloc, err := h.game.SetTimeAllocation(c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, alloc)
}

// UndoYear 回退一年
func (h *Handler) UndoYear(c *gin.Context) {
	session, err := h.game.UndoYear(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

// SaveGame 创建存档
func (h *Handler) SaveGame(c *gin.Context) {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "参数错误"})
		return
	}

	save, err := h.game.SaveGame(c.Param("id"), req.Name, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, save)
}

// ListSaves 列出存档
func (h *Handler) ListSaves(c *gin.Context) {
	saves, err := h.game.ListSaves(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"saves": saves})
}

// LoadGame 读取存档
func (h *Handler) LoadGame(c *gin.Context) {
	var req struct {
		SaveID string `json:"save_id" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "参数错误"})
		return
	}

	session, err := h.game.LoadGame(req.SaveID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

// DeleteSession 删除会话
func (h *Handler) DeleteSession(c *gin.Context) {
	if err := h.game.DeleteSession(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": c.Param("id")})
}

// DeleteSave 删除存档
func (h *Handler) DeleteSave(c *gin.Context) {
	if err := h.game.DeleteSave(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": c.Param("id")})
}

// Biography 人生小传（使用自定义LLM配置，如果有）
func (h *Handler) Biography(c *gin.Context) {
	bio, err := h.game.Biography(c.Request.Context(), c.Param("id"), h.getCustomLLMService(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"biography": bio})
}

// Register 注册API路由
func (h *Handler) Register(apiGroup *gin.RouterGroup) {
	// 会话相关
	apiGroup.POST("/sessions", h.NewGame)
	apiGroup.GET("/sessions", h.ListSessions)
	apiGroup.GET("/sessions/:id", h.GetSession)
	apiGroup.DELETE("/sessions/:id", h.DeleteSession)
	apiGroup.POST("/sessions/:id/advance", h.AdvanceYear)
	apiGroup.POST("/sessions/:id/undo", h.UndoYear)
	apiGroup.PUT("/sessions/:id/time", h.SetTimeAllocation)
	apiGroup.GET("/sessions/:id/skills", h.ListSkills)
	apiGroup.GET("/sessions/:id/biography", h.Biography)

	// 事件相关
	apiGroup.GET("/sessions/:id/events", h.PendingEvents)
	apiGroup.GET("/sessions/:id/events/eligible", h.EligibleEvents)
	apiGroup.POST("/sessions/:id/events/choose", h.ChooseOption)
	apiGroup.POST("/sessions/:id/events/decline", h.DeclineEvent)

	// NPC、场景、商店
	apiGroup.GET("/sessions/:id/npcs", h.ListNPCs)
	apiGroup.POST("/sessions/:id/npcs/interact", h.Interact)
	apiGroup.GET("/sessions/:id/scenes", h.ListScenes)
	apiGroup.POST("/sessions/:id/scenes/action", h.SceneAction)
	apiGroup.GET("/sessions/:id/shop", h.ListShop)
	apiGroup.POST("/sessions/:id/shop/buy", h.BuyItem)
	apiGroup.POST("/sessions/:id/items/use", h.UseItem)

	// 存档相关
	apiGroup.POST("/sessions/:id/saves", h.SaveGame)
	apiGroup.GET("/sessions/:id/saves", h.ListSaves)
	apiGroup.POST("/saves/load", h.LoadGame)
	apiGroup.DELETE("/saves/:id", h.DeleteSave)
}
