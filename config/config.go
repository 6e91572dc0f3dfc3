// Package config loads the deployment configuration: two inference endpoints
// on separate GPU slices, per-agent endpoint mapping, loop and reroute caps,
// store and cost-estimator selection. Values come from an optional yaml file
// overridden by CM_-prefixed environment variables.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/commercemesh/commercemesh/core"
)

// Config is the full deployment configuration.
type Config struct {
	Server   ServerConfig `koanf:"server"`
	Models   ModelsConfig `koanf:"models"`
	Agents   AgentsConfig `koanf:"agents"`
	Store    StoreConfig  `koanf:"store"`
	Cost     CostConfig   `koanf:"cost"`
	Scripted bool         `koanf:"scripted"`
}

type ServerConfig struct {
	Host string `koanf:"host"`
	Port int    `koanf:"port"`
}

// ModelEndpoint is one inference server: one model on one GPU slice.
type ModelEndpoint struct {
	BaseURL  string `koanf:"base_url"`
	APIKey   string `koanf:"api_key"`
	Name     string `koanf:"name"`     // model name sent on the wire
	Display  string `koanf:"display"`  // display name for events
	Slice    string `koanf:"slice"`    // GPU slice descriptor
	Provider string `koanf:"provider"` // "openai" or "anthropic"
}

// ModelsConfig holds the two serving endpoints. Model1 serves the router and
// the product advisor; Model2 serves the order tracker and returns.
type ModelsConfig struct {
	Model1 ModelEndpoint `koanf:"model1"`
	Model2 ModelEndpoint `koanf:"model2"`
}

type AgentsConfig struct {
	RouterTemperature  float64 `koanf:"router_temperature"`
	AgentTemperature   float64 `koanf:"agent_temperature"`
	LLMTimeoutSeconds  int     `koanf:"llm_timeout"`
	MaxToolIterations  int     `koanf:"max_tool_iterations"`
	MaxReroutes        int     `koanf:"max_reroutes"`
	MaxHistoryMessages int     `koanf:"max_history_messages"`
	MaxTokens          int64   `koanf:"max_tokens"`
}

// LLMTimeout returns the per-call backend deadline.
func (a AgentsConfig) LLMTimeout() time.Duration {
	return time.Duration(a.LLMTimeoutSeconds) * time.Second
}

type StoreConfig struct {
	Type       string `koanf:"type"` // "memory" or "sqlite"
	SQLitePath string `koanf:"sqlite_path"`
}

type CostConfig struct {
	Estimator string `koanf:"estimator"` // "heuristic" or "tiktoken"
	Encoding  string `koanf:"encoding"`  // tiktoken encoding name, optional
}

// Load reads path (yaml, optional) and then CM_-prefixed environment
// variables, with double underscores separating nesting levels
// (CM_SERVER__PORT=8000). Defaults are applied before unmarshaling.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			if !os.IsNotExist(err) {
				return nil, err
			}
		}
	}

	if err := k.Load(env.Provider("CM_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, "CM_")), "__", ".", -1)
	}), nil); err != nil {
		return nil, err
	}

	for key, val := range defaults {
		if !k.Exists(key) {
			k.Set(key, val)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var defaults = map[string]any{
	"server.host": "0.0.0.0",
	"server.port": 8000,

	"models.model1.base_url": "http://localhost:8081/v1",
	"models.model1.api_key":  "demo-key",
	"models.model1.name":     "qwen3-vl-8b",
	"models.model1.display":  "Qwen3-VL-8B",
	"models.model1.slice":    "Slice 1 (16GB)",
	"models.model1.provider": "openai",

	"models.model2.base_url": "http://localhost:8082/v1",
	"models.model2.api_key":  "demo-key",
	"models.model2.name":     "qwen2.5-vl-7b",
	"models.model2.display":  "Qwen2.5-VL-7B",
	"models.model2.slice":    "Slice 2 (16GB)",
	"models.model2.provider": "openai",

	"agents.router_temperature":   0.1,
	"agents.agent_temperature":    0.7,
	"agents.llm_timeout":          30,
	"agents.max_tool_iterations":  5,
	"agents.max_reroutes":         2,
	"agents.max_history_messages": 20,
	"agents.max_tokens":           1024,

	"store.type":        "memory",
	"store.sqlite_path": "conversations.db",

	"cost.estimator": "heuristic",

	"scripted": false,
}

// EndpointFor maps an agent name to its serving endpoint: router and product
// advisor on model1, order tracker and returns on model2.
func (c *Config) EndpointFor(agentName string) ModelEndpoint {
	switch agentName {
	case "order_tracker", "returns":
		return c.Models.Model2
	default:
		return c.Models.Model1
	}
}

// InfoFor builds the event-facing backend descriptor for an agent.
func (c *Config) InfoFor(agentName string) core.BackendInfo {
	ep := c.EndpointFor(agentName)
	id := "model1"
	if ep == c.Models.Model2 {
		id = "model2"
	}
	return core.BackendInfo{ID: id, Model: ep.Display, Endpoint: ep.BaseURL, Slice: ep.Slice}
}
