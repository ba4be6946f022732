package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"

	"github.com/aiwuxian/life-path/internal/api"
	"github.com/aiwuxian/life-path/internal/config"
	"github.com/aiwuxian/life-path/internal/content"
	"github.com/aiwuxian/life-path/internal/services"
	"github.com/aiwuxian/life-path/internal/storage"
)

func main() {
	// 加载配置
	cfg, err := config.Load("config.yml")
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	// 加载游戏内容
	catalog, err := content.Load(cfg.Game.CatalogPath)
	if err != nil {
		log.Fatalf("加载游戏内容失败: %v", err)
	}

	// 初始化数据库
	store, err := storage.New(cfg.Database.Path)
	if err != nil {
		log.Fatalf("初始化数据库失败: %v", err)
	}
	defer store.Close()

	// 初始化服务
	llmService := services.NewLLMService(cfg.LLM)
	if !llmService.Enabled() {
		log.Println("⚠️ 未配置 LLM API Key，人生小传将使用模板生成")
	}
	gameService := services.NewGameService(store, catalog, cfg.Game, llmService)

	// 初始化API处理器
	handler := api.NewHandler(gameService)

	// 设置Gin路由
	r := gin.Default()
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	handler.Register(r.Group("/api"))

	// 启动服务器
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	log.Printf("🎮 人生模拟器启动成功！访问 http://localhost:%s", cfg.Server.Port)
	log.Printf("📖 事件 %d 个，NPC %d 个，场景 %d 个，物品 %d 个",
		len(catalog.Events), len(catalog.NPCs), len(catalog.Scenes), len(catalog.Items))

	if err := r.Run(addr); err != nil {
		log.Fatalf("启动服务器失败: %v", err)
	}
}
