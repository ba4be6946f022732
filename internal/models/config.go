package models

// Config 配置
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	LLM      LLMConfig      `yaml:"llm"`
	Game     GameConfig     `yaml:"game"`
}

type ServerConfig struct {
	Port string `yaml:"port" env:"LIFESIM_PORT"`
	Host string `yaml:"host" env:"LIFESIM_HOST"`
}

type DatabaseConfig struct {
	Path string `yaml:"path" env:"LIFESIM_DB_PATH"`
}

type LLMConfig struct {
	Provider    string  `yaml:"provider" env:"LIFESIM_LLM_PROVIDER"`
	APIKey      string  `yaml:"api_key" env:"LIFESIM_LLM_API_KEY"`
	APIBase     string  `yaml:"api_base" env:"LIFESIM_LLM_API_BASE"`
	Model       string  `yaml:"model" env:"LIFESIM_LLM_MODEL"`
	Temperature float32 `yaml:"temperature" env:"LIFESIM_LLM_TEMPERATURE"`
	MaxTokens   int     `yaml:"max_tokens" env:"LIFESIM_LLM_MAX_TOKENS"`
}

type GameConfig struct {
	StartAge                int     `yaml:"start_age" env:"LIFESIM_START_AGE"`
	StartingMoney           float64 `yaml:"starting_money" env:"LIFESIM_STARTING_MONEY"`
	MaxAge                  int     `yaml:"max_age" env:"LIFESIM_MAX_AGE"`
	Seed                    int64   `yaml:"seed" env:"LIFESIM_SEED"` // 0 表示随机种子
	NaturalGrowth           bool    `yaml:"natural_growth" env:"LIFESIM_NATURAL_GROWTH"`
	LegacyFloors            bool    `yaml:"legacy_floors" env:"LIFESIM_LEGACY_FLOORS"` // 体力/幸福感下限为1
	StrictBalances          bool    `yaml:"strict_balances" env:"LIFESIM_STRICT_BALANCES"`
	DefaultEventProbability float64 `yaml:"default_event_probability" env:"LIFESIM_EVENT_PROBABILITY"`
	MaxSnapshots            int     `yaml:"max_snapshots" env:"LIFESIM_MAX_SNAPSHOTS"`
	CatalogPath             string  `yaml:"catalog_path" env:"LIFESIM_CATALOG_PATH"` // 为空时使用内置内容
	Rates                   Rates   `yaml:"rates"`
}

// Rates 年度结算系数
type Rates struct {
	StudyIntelligence      float64 `yaml:"study_intelligence"`
	EntertainmentHappiness float64 `yaml:"entertainment_happiness"`
	EntertainmentFloor     int     `yaml:"entertainment_floor"` // 娱乐低于该值时扣幸福感
	LowEntertainmentCost   float64 `yaml:"low_entertainment_cost"`
	FitnessGain            float64 `yaml:"fitness_gain"`
	SocialCharm            float64 `yaml:"social_charm"`
	SkillXPPerPercent      float64 `yaml:"skill_xp_per_percent"`
	HealthDecay            float64 `yaml:"health_decay"`
	FitnessRecovery        float64 `yaml:"fitness_recovery"`
	AgingThreshold         int     `yaml:"aging_threshold"`
	AgingDecay             float64 `yaml:"aging_decay"`
	GrowthIntelligence     float64 `yaml:"growth_intelligence"`
	GrowthFitness          float64 `yaml:"growth_fitness"`

	SalaryNoDegree        float64 `yaml:"salary_no_degree"`
	SalaryHighSchool      float64 `yaml:"salary_high_school"`
	SalaryCollege         float64 `yaml:"salary_college"`
	SalaryMaster          float64 `yaml:"salary_master"`
	SalaryPhD             float64 `yaml:"salary_phd"`
	SalarySkillBonus      float64 `yaml:"salary_skill_bonus"`      // 每级专业技能
	SalaryExperienceBonus float64 `yaml:"salary_experience_bonus"` // 每年工作经验
	SalaryExperienceCap   int     `yaml:"salary_experience_cap"`
}

// DefaultConfig 默认配置
func DefaultConfig() *Config {
	return &Config{
		Server:   ServerConfig{Host: "0.0.0.0", Port: "8080"},
		Database: DatabaseConfig{Path: "data/lifesim.db"},
		LLM: LLMConfig{
			Provider:    "openai",
			Model:       "gpt-3.5-turbo",
			Temperature: 0.7,
			MaxTokens:   800,
		},
		Game: DefaultGameConfig(),
	}
}

// DefaultGameConfig 默认游戏参数
func DefaultGameConfig() GameConfig {
	return GameConfig{
		StartAge:                6,
		MaxAge:                  80,
		DefaultEventProbability: 0.5,
		MaxSnapshots:            20,
		Rates:                   DefaultRates(),
	}
}

// DefaultRates 默认年度结算系数
func DefaultRates() Rates {
	return Rates{
		StudyIntelligence:      0.05,
		EntertainmentHappiness: 0.1,
		EntertainmentFloor:     10,
		LowEntertainmentCost:   5,
		FitnessGain:            0.1,
		SocialCharm:            0.1,
		SkillXPPerPercent:      2,
		HealthDecay:            20,
		FitnessRecovery:        0.2,
		AgingThreshold:         50,
		AgingDecay:             0.5,
		GrowthIntelligence:     1,
		GrowthFitness:          1,

		SalaryNoDegree:        20000,
		SalaryHighSchool:      30000,
		SalaryCollege:         50000,
		SalaryMaster:          70000,
		SalaryPhD:             90000,
		SalarySkillBonus:      0.05,
		SalaryExperienceBonus: 0.02,
		SalaryExperienceCap:   20,
	}
}
