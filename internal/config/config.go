package config

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/aiwuxian/life-path/internal/models"
)

// Load 读取配置：默认值 → config.yml → .env 和环境变量。
// 配置文件不存在时只使用默认值和环境变量。
func Load(path string) (*models.Config, error) {
	if err := godotenv.Load(); err == nil {
		log.Println("📄 已加载 .env 文件")
	}

	config := models.DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		log.Printf("⚠️ 配置文件 %s 不存在，使用默认配置\n", path)
	case err != nil:
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	default:
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("解析配置文件失败: %w", err)
		}
	}

	if err := env.Parse(config); err != nil {
		return nil, fmt.Errorf("解析环境变量失败: %w", err)
	}

	if err := Validate(config); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate 检查游戏参数是否合理
func Validate(config *models.Config) error {
	g := config.Game
	if g.StartAge < 0 {
		return fmt.Errorf("start_age 不能为负数")
	}
	if g.MaxAge > 0 && g.MaxAge <= g.StartAge {
		return fmt.Errorf("max_age (%d) 必须大于 start_age (%d)", g.MaxAge, g.StartAge)
	}
	if g.DefaultEventProbability < 0 || g.DefaultEventProbability > 1 {
		return fmt.Errorf("default_event_probability 超出 [0,1]")
	}
	return nil
}
