package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var embeddedDefaultConfig []byte

// DefaultConfigName 是项目目录下的配置文件名。
const DefaultConfigName = "hly-press.yaml"

// Load 读取配置并解析各阶段路径。
// 优先级：--config 指定的文件 > cwd 下的 hly-press.yaml > 内置默认配置。
func Load(pathArg, cwd string) (*Config, *Paths, error) {
	var (
		raw    []byte
		source string
	)

	switch {
	case strings.TrimSpace(pathArg) != "":
		p := expandPath(pathArg, cwd)
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, nil, fmt.Errorf("读取配置文件失败（%s）：%w", p, err)
		}
		raw, source = data, p
	default:
		p := filepath.Join(cwd, DefaultConfigName)
		if data, err := os.ReadFile(p); err == nil {
			raw, source = data, p
		} else {
			raw, source = embeddedDefaultConfig, "内置默认配置"
		}
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, nil, fmt.Errorf("配置文件格式错误（%s）：%w", source, err)
	}
	cfg.applyDefaults()

	paths := &Paths{
		ConfigSource:    source,
		SourceFile:      expandPath(cfg.SourceFile, cwd),
		CleanedFile:     expandPath(cfg.CleanedFile, cwd),
		ChaptersDir:     expandPath(cfg.ChaptersDir, cwd),
		ResultDir:       expandPath(cfg.ResultDir, cwd),
		ChapterMapFile:  expandPath(cfg.ChapterMapFile, cwd),
		ReportFile:      expandPath(cfg.ReportFile, cwd),
		ChapterListFile: expandPath(cfg.ChapterListFile, cwd),
		ProgressFile:    expandPath(cfg.ProgressFile, cwd),
		EPUBFile:        expandPath(cfg.EPUB.OutputFile, cwd),
	}
	return cfg, paths, nil
}

func expandPath(v, cwd string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return v
	}
	if strings.HasPrefix(v, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, v[2:])
		}
	}
	if filepath.IsAbs(v) {
		return v
	}
	if strings.TrimSpace(cwd) != "" {
		return filepath.Join(cwd, v)
	}
	return v
}
