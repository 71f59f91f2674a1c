package config

import (
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/viper"
)

type ServerConfig struct {
	Host string `mapstructure:"host"`
}

type LoggingConfig struct {
	Level   string `mapstructure:"level"`
	Console bool   `mapstructure:"console"`
}

// ProbeConfig points the resolver at the kernel pseudo-filesystems. The
// defaults are the live host roots; tests point them at fixture trees.
type ProbeConfig struct {
	ProcRoot   string `mapstructure:"proc_root"`
	CgroupRoot string `mapstructure:"cgroup_root"`
}

type TokenConfig struct {
	RsaPrivateKeyPem SecretValue `mapstructure:"rsa_private_key_pem"`
	TokenDurationHr  int         `mapstructure:"token_duration_hr"` // in hours
}

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
	Probe   ProbeConfig   `mapstructure:"probe"`
	Token   TokenConfig   `mapstructure:"token"`
}

const (
	DefaultProcRoot   = "/proc"
	DefaultCgroupRoot = "/sys/fs/cgroup"
)

var (
	cfg *Config
)

func GetConfig() *Config {
	return cfg
}

func InitConfig(configName string, configPath string) (Config, error) {
	var c Config
	if configPath != "" {
		viper.AddConfigPath(configPath)
	}
	if configName == "" {
		configName = "penguin"
	}
	viper.AddConfigPath(GetAbsPath("config"))
	viper.SetConfigName(configName)
	viper.SetConfigType("toml")
	viper.SetEnvPrefix("PENGUIN")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	err := viper.ReadInConfig()
	if err != nil {
		return c, err
	}

	err = viper.Unmarshal(&c)
	if err != nil {
		return c, err
	}
	applyProbeDefaults(&c.Probe)
	cfg = &c
	return c, nil
}

func applyProbeDefaults(p *ProbeConfig) {
	if p.ProcRoot == "" {
		p.ProcRoot = DefaultProcRoot
	}
	if p.CgroupRoot == "" {
		p.CgroupRoot = DefaultCgroupRoot
	}
}

// GetAbsPath returns the absolute path by joining the given paths with the project root directory
func GetAbsPath(paths ...string) string {
	_, filePath, _, _ := runtime.Caller(1)
	basePath := filepath.Dir(filePath)
	rootPath := filepath.Join(basePath, "..")
	return filepath.Join(rootPath, filepath.Join(paths...))
}
