// internal/pkg/config/config.go
package config

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Config 是整个平台共享的配置结构。
// 基础设施地址放在 Infra 下，业务数据（优惠码表、运费表）放在 App 下，
// 这样优惠码轮换、运费调整只需要改配置，不需要重新发版。
type Config struct {
	Infra InfraConfig `yaml:"infra"`
	App   AppConfig   `yaml:"app"`
}

type InfraConfig struct {
	Mysql struct {
		DSN string `yaml:"dsn"`
	} `yaml:"mysql"`
	Redis struct {
		Addr string `yaml:"addr"`
	} `yaml:"redis"`
	Kafka struct {
		Brokers []string `yaml:"brokers"`
	} `yaml:"kafka"`
	Zookeeper struct {
		Servers []string `yaml:"servers"`
	} `yaml:"zookeeper"`
	Jaeger struct {
		Endpoint string `yaml:"endpoint"`
	} `yaml:"jaeger"`
	Nacos struct {
		ServerAddrs string `yaml:"server_addrs"`
		Namespace   string `yaml:"namespace"`
		Group       string `yaml:"group"`
	} `yaml:"nacos"`
	Sheets struct {
		CredentialsFile string `yaml:"credentials_file"`
		SpreadsheetID   string `yaml:"spreadsheet_id"`
	} `yaml:"sheets"`
	CallMeBot struct {
		Phone  string `yaml:"phone"`
		APIKey string `yaml:"api_key"`
	} `yaml:"callmebot"`
}

type AppConfig struct {
	// Storage 选择订单/商品的持久化后端: "mysql" 或 "sheets"。
	Storage struct {
		Backend string `yaml:"backend"`
	} `yaml:"storage"`
	Promo    PromoConfig    `yaml:"promo"`
	Delivery DeliveryConfig `yaml:"delivery"`
}

// PromoCode 是一条可用的优惠码配置。
// Rule 是可选的 CEL 表达式，对 subtotal 等事实求值，为空表示无附加条件。
type PromoCode struct {
	Code string `yaml:"code"`
	Rate string `yaml:"rate"`
	Rule string `yaml:"rule"`
}

type PromoConfig struct {
	Codes []PromoCode `yaml:"codes"`
}

// DeliveryConfig 描述按地区分档的运费。
// Tiers 里没有的地区一律收 DefaultFee（宁可多收，不可漏收）。
// DisplayNote 只是给前端展示用的文案，实收金额以 Tiers/DefaultFee 为准。
type DeliveryConfig struct {
	Tiers       map[string]int64 `yaml:"tiers"`
	DefaultFee  int64            `yaml:"default_fee"`
	DisplayNote string           `yaml:"display_note"`
}

// Rates 把配置里的字符串费率转成 decimal，配置错误在启动期暴露。
func (p PromoConfig) Rates() (map[string]decimal.Decimal, error) {
	rates := make(map[string]decimal.Decimal, len(p.Codes))
	for _, c := range p.Codes {
		rate, err := decimal.NewFromString(c.Rate)
		if err != nil {
			return nil, fmt.Errorf("invalid discount rate %q for code %s: %w", c.Rate, c.Code, err)
		}
		rates[c.Code] = rate
	}
	return rates, nil
}

// Load 从指定路径读取 yaml 配置。
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Infra.Nacos.Group == "" {
		c.Infra.Nacos.Group = "DEFAULT_GROUP"
	}
	if c.App.Storage.Backend == "" {
		c.App.Storage.Backend = "mysql"
	}
	if len(c.Infra.Kafka.Brokers) == 0 {
		c.Infra.Kafka.Brokers = []string{"localhost:9092"}
	}
	if c.Infra.Redis.Addr == "" {
		c.Infra.Redis.Addr = "localhost:6379"
	}
	if c.Infra.Jaeger.Endpoint == "" {
		c.Infra.Jaeger.Endpoint = "http://localhost:14268/api/traces"
	}
}
