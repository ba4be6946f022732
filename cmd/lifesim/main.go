package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/aiwuxian/life-path/internal/config"
	"github.com/aiwuxian/life-path/internal/content"
	"github.com/aiwuxian/life-path/internal/services"
	"github.com/aiwuxian/life-path/internal/storage"
)

func main() {
	configPath := flag.String("config", "config.yml", "配置文件路径")
	sessionID := flag.String("session", "", "继续已有的会话")
	name := flag.String("name", "", "角色名字")
	seed := flag.Int64("seed", 0, "随机种子，0 表示使用配置")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}
	if *seed != 0 {
		cfg.Game.Seed = *seed
	}

	catalog, err := content.Load(cfg.Game.CatalogPath)
	if err != nil {
		log.Fatalf("加载游戏内容失败: %v", err)
	}

	store, err := storage.New(cfg.Database.Path)
	if err != nil {
		log.Fatalf("初始化数据库失败: %v", err)
	}
	defer store.Close()

	game := services.NewGameService(store, catalog, cfg.Game, services.NewLLMService(cfg.LLM))

	id := *sessionID
	if id == "" {
		s, err := game.NewGame(*name)
		if err != nil {
			log.Fatalf("创建会话失败: %v", err)
		}
		id = s.ID
	} else if _, err := game.GetSession(id); err != nil {
		log.Fatalf("读取会话失败: %v", err)
	}

	r := newREPL(game, id, os.Stdout)
	r.printIntro()

	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if quit := r.handle(line); quit {
			fmt.Printf("会话 %s 已保存，使用 -session %s 继续。\n", r.sessionID, r.sessionID)
			return
		}
	}
}
