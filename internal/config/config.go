package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
)

// Config 聚合整個服務的配置項。
type Config struct {
	// Port 允許 "10000"、":10000" 或 "127.0.0.1:10000"。
	Port string `env:"PORT" envDefault:"10000"`

	Upstream UpstreamConfig
	Personas PersonaConfig
	Admin    AdminConfig

	// SessionTTL 為零時會話永不過期。
	SessionTTL time.Duration `env:"SESSION_TTL"`
}

// UpstreamConfig 描述遠端補全服務的配置。
type UpstreamConfig struct {
	APIKey  string `env:"OPENAI_API_KEY"`
	BaseURL string `env:"OPENAI_BASE_URL" envDefault:"https://api.chatanywhere.org/v1"`
	Model   string `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
}

// PersonaConfig 描述persona的來源。
type PersonaConfig struct {
	// SeedPath 指向bracket-block格式的種子檔；留空使用內建personas。
	SeedPath string `env:"PERSONA_SEED_PATH"`
	// StorePath 指向persona登錄的JSON文件；留空則不持久化管理端修改。
	StorePath string `env:"PERSONA_STORE_PATH"`
	// DefaultID 固定單一persona，設定後會忽略呼叫端的選擇器。
	DefaultID string `env:"DEFAULT_PERSONA"`
}

// AdminConfig 描述管理閘道的共享憑證。
type AdminConfig struct {
	Username string `env:"ADMIN_USERNAME"`
	Password string `env:"ADMIN_PASSWORD"`
	// TokenTTL 為零時已授權權杖在登出前一直有效。
	TokenTTL time.Duration `env:"ADMIN_TOKEN_TTL"`
}

// Load 從環境變量加載配置。
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate 檢查跨欄位規則。
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Upstream.APIKey) == "" {
		return fmt.Errorf("OPENAI_API_KEY is required")
	}
	if strings.Contains(c.Port, " ") {
		return fmt.Errorf("invalid PORT value: %q", c.Port)
	}
	if (c.Admin.Username == "") != (c.Admin.Password == "") {
		return fmt.Errorf("ADMIN_USERNAME and ADMIN_PASSWORD must be set together")
	}
	return nil
}

// Addr 回傳HTTP監聽地址。
func (c *Config) Addr() string {
	if strings.Contains(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

// AdminEnabled 表示是否配置了管理憑證。
func (c *AdminConfig) AdminEnabled() bool {
	return c.Username != "" && c.Password != ""
}
