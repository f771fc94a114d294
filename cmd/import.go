package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"ccswitch/config/environ"
	"ccswitch/config/models"

	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

// importProfile reads the env section of an exported settings file. The
// file name without extension becomes the alias. Files ending in .yaml or
// .yml are read as YAML, anything else as JSON.
func importProfile(path string) (models.Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.Profile{}, fmt.Errorf("failed to read file '%s': %w", path, err)
	}

	var vars map[string]string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		vars, err = yamlEnv(data)
	default:
		vars, err = jsonEnv(data)
	}
	if err != nil {
		return models.Profile{}, fmt.Errorf("failed to parse '%s': %w", path, err)
	}

	alias := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	p, err := environ.FromVars(alias, vars)
	if err != nil {
		return models.Profile{}, fmt.Errorf("file '%s': %w", path, err)
	}
	if p.URL == "" {
		return models.Profile{}, fmt.Errorf("file '%s': %s is missing", path, environ.BaseURL)
	}
	return p, nil
}

func jsonEnv(data []byte) (map[string]string, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("invalid JSON")
	}
	env := gjson.GetBytes(data, "env")
	if !env.IsObject() {
		return nil, fmt.Errorf("no valid 'env' section")
	}

	vars := make(map[string]string)
	env.ForEach(func(key, value gjson.Result) bool {
		vars[key.String()] = value.String()
		return true
	})
	return vars, nil
}

func yamlEnv(data []byte) (map[string]string, error) {
	var doc struct {
		Env map[string]any `yaml:"env"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Env == nil {
		return nil, fmt.Errorf("no valid 'env' section")
	}

	vars := make(map[string]string, len(doc.Env))
	for k, v := range doc.Env {
		if v != nil {
			vars[k] = fmt.Sprint(v)
		}
	}
	return vars, nil
}
