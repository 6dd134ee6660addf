// Package config loads the knobs a caller constructing a buffer pool
// actually has, the way the teacher's own internal/config.go does:
// viper reading a YAML file into a mapstructure-tagged struct.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// PoolConfig configures a buffer pool and the disk manager backing
// it. Zero values are not valid configuration; use Defaults or Load.
type PoolConfig struct {
	PoolSize int `mapstructure:"pool_size"`
	// ReplacerK is the LRU-K history depth.
	ReplacerK int `mapstructure:"replacer_k"`
	// PageSize records the page size the config file expects. Load
	// does not compare it with storage.PageSize, and the pool and
	// disk manager always use storage.PageSize.
	PageSize int `mapstructure:"page_size"`
	// DataDir is the directory a storage.FileManager creates its
	// segment file in.
	DataDir string `mapstructure:"data_dir"`
	// SegmentBase names the segment file within DataDir, without
	// extension.
	SegmentBase string `mapstructure:"segment_base"`
}

// Defaults returns the configuration used when no file is supplied.
func Defaults() PoolConfig {
	return PoolConfig{
		PoolSize:    64,
		ReplacerK:   2,
		PageSize:    4096,
		DataDir:     "./data",
		SegmentBase: "duskdb",
	}
}

// Load reads a YAML file at path into PoolConfig, starting from
// Defaults so a partial file only overrides what it mentions.
func Load(path string) (PoolConfig, error) {
	cfg := Defaults()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetDefault("pool_size", cfg.PoolSize)
	v.SetDefault("replacer_k", cfg.ReplacerK)
	v.SetDefault("page_size", cfg.PageSize)
	v.SetDefault("data_dir", cfg.DataDir)
	v.SetDefault("segment_base", cfg.SegmentBase)

	if err := v.ReadInConfig(); err != nil {
		return PoolConfig{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return PoolConfig{}, fmt.Errorf("config: unmarshal %s: %w", path, err)
	}
	return cfg, nil
}
