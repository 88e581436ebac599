// internal/pkg/bootstrap/config.go
package bootstrap

import (
	"os"
	"sync"

	"garde/internal/pkg/config"
	"garde/internal/pkg/logger"
)

var (
	currentConfig *config.Config
	configOnce    sync.Once
)

// Init 加载全局配置，必须在 StartService 之前调用。
// 配置路径来自 CONFIG_PATH 环境变量，默认 configs/config.yaml。
func Init() {
	configOnce.Do(func() {
		path := getEnv("CONFIG_PATH", "configs/config.yaml")
		cfg, err := config.Load(path)
		if err != nil {
			logger.Logger().Fatal().Err(err).Str("path", path).Msg("failed to load config")
		}
		currentConfig = cfg
	})
}

// GetCurrentConfig 返回进程级配置。Init 之前调用会直接退出进程，
// 这是装配错误，不值得带着 nil 继续跑。
func GetCurrentConfig() *config.Config {
	if currentConfig == nil {
		logger.Logger().Fatal().Msg("bootstrap.Init must be called before GetCurrentConfig")
	}
	return currentConfig
}

// getEnv 从环境变量中读取配置。
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
