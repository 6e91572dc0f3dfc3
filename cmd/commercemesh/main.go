// Command commercemesh runs the multi-agent customer-service engine behind
// an HTTP and websocket surface.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/commercemesh/commercemesh/agent"
	"github.com/commercemesh/commercemesh/backend"
	anthropicbackend "github.com/commercemesh/commercemesh/backend/anthropic"
	openaibackend "github.com/commercemesh/commercemesh/backend/openai"
	"github.com/commercemesh/commercemesh/classifier"
	"github.com/commercemesh/commercemesh/commerce"
	"github.com/commercemesh/commercemesh/config"
	"github.com/commercemesh/commercemesh/conversation"
	"github.com/commercemesh/commercemesh/cost"
	"github.com/commercemesh/commercemesh/logging"
	"github.com/commercemesh/commercemesh/orchestrator"
	"github.com/commercemesh/commercemesh/server"
	"github.com/commercemesh/commercemesh/specialist"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewJSONLogger(os.Stdout, slog.LevelInfo)

	store, err := newStore(cfg)
	if err != nil {
		logger.Error("store init failed", "error", err)
		os.Exit(1)
	}

	data := commerce.NewDemoDataset()
	deps := specialist.Deps{
		Customers: data.Customers,
		Orders:    data.Orders,
		Products:  data.Products,
		Returns:   commerce.NewReturns(data.Orders),
	}

	var (
		cls            classifier.Classifier
		orderTracker   agent.Runtime
		returns        agent.Runtime
		productAdvisor agent.Runtime
	)
	if cfg.Scripted {
		cls = classifier.NewKeyword()
		orderTracker = specialist.NewScriptedOrderTracker(deps, cfg.InfoFor(specialist.OrderTrackerName))
		returns = specialist.NewScriptedReturns(deps, cfg.InfoFor(specialist.ReturnsName))
		productAdvisor = specialist.NewScriptedProductAdvisor(deps, cfg.InfoFor(specialist.ProductAdvisorName))
	} else {
		estimator := newEstimator(cfg, logger)
		liveOpts := func(o *agent.Options) {
			o.Temperature = cfg.Agents.AgentTemperature
			o.MaxToolIterations = cfg.Agents.MaxToolIterations
			o.MaxHistoryMessages = cfg.Agents.MaxHistoryMessages
			o.MaxTokens = cfg.Agents.MaxTokens
			o.Estimator = estimator
			o.Logger = logger
		}

		cls = classifier.NewLLM(specialist.RouterInstruction,
			newBackend(cfg, specialist.RouterName),
			func(o *classifier.Options) {
				o.Temperature = cfg.Agents.RouterTemperature
				o.MaxHistoryMessages = cfg.Agents.MaxHistoryMessages
				o.MaxTokens = cfg.Agents.MaxTokens
				o.Logger = logger
			})
		orderTracker = specialist.NewOrderTracker(newBackend(cfg, specialist.OrderTrackerName), deps, liveOpts)
		returns = specialist.NewReturns(newBackend(cfg, specialist.ReturnsName), deps, liveOpts)
		productAdvisor = specialist.NewProductAdvisor(newBackend(cfg, specialist.ProductAdvisorName), deps, liveOpts)
	}

	engine := orchestrator.New(cls, cfg.InfoFor(specialist.RouterName),
		orderTracker, returns, productAdvisor, store,
		func(o *orchestrator.Options) {
			o.MaxReroutes = cfg.Agents.MaxReroutes
			o.Logger = logger
		})

	srv := server.New(engine, store, data.Customers,
		map[string]server.ModelDescriptor{
			"model1": {Name: cfg.Models.Model1.Display, Endpoint: cfg.Models.Model1.BaseURL, Slice: cfg.Models.Model1.Slice},
			"model2": {Name: cfg.Models.Model2.Display, Endpoint: cfg.Models.Model2.BaseURL, Slice: cfg.Models.Model2.Slice},
		},
		cfg.Scripted,
		func(o *server.Options) { o.Logger = logger })

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("commercemesh listening", "addr", addr, "scripted", cfg.Scripted,
		"model1", cfg.Models.Model1.Display, "model2", cfg.Models.Model2.Display)
	if err := http.ListenAndServe(addr, srv.Router()); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func newStore(cfg *config.Config) (conversation.Store, error) {
	if cfg.Store.Type == "sqlite" {
		return conversation.NewSQLiteStore(cfg.Store.SQLitePath)
	}
	return conversation.NewInMemoryStore(), nil
}

func newEstimator(cfg *config.Config, logger logging.Logger) cost.Estimator {
	if cfg.Cost.Estimator == "tiktoken" {
		est, err := cost.NewTiktoken(cfg.Cost.Encoding)
		if err != nil {
			logger.Warn("tiktoken init failed, using heuristic estimator", "error", err)
			return cost.Heuristic{}
		}
		return est
	}
	return cost.Heuristic{}
}

func newBackend(cfg *config.Config, agentName string) backend.Backend {
	ep := cfg.EndpointFor(agentName)
	info := cfg.InfoFor(agentName)
	timeout := cfg.Agents.LLMTimeout()

	if ep.Provider == "anthropic" {
		return anthropicbackend.New(func(o *anthropicbackend.Options) {
			o.APIKey = ep.APIKey
			o.BaseURL = ep.BaseURL
			o.Model = anthropicbackend.Model(ep.Name)
			o.Timeout = timeout
			o.Info = info
		})
	}
	return openaibackend.New(func(o *openaibackend.Options) {
		o.BaseURL = ep.BaseURL
		o.APIKey = ep.APIKey
		o.Model = ep.Name
		o.Timeout = timeout
		o.Info = info
	})
}
