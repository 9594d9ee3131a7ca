// Command agentlink runs the A2A + MCP showcase: it registers the demo
// agents, serves the context corpus over MCP and executes one request in
// the selected mode.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jllopis/agentlink/pkg/agent"
	"github.com/jllopis/agentlink/pkg/config"
	"github.com/jllopis/agentlink/pkg/core"
	"github.com/jllopis/agentlink/pkg/corpus"
	"github.com/jllopis/agentlink/pkg/llm"
	"github.com/jllopis/agentlink/pkg/mcp"
	"github.com/jllopis/agentlink/pkg/orchestrator"
	"github.com/jllopis/agentlink/pkg/registry"
	"github.com/jllopis/agentlink/pkg/session"
	"github.com/jllopis/agentlink/pkg/telemetry"
	"github.com/jllopis/agentlink/pkg/tool"
)

const version = "0.1.0"

func main() {
	var (
		configPath = flag.String("config", "", "path to YAML config file")
		mode       = flag.String("mode", "direct", "run mode: direct, compare, workflow")
		capability = flag.String("capability", "chat", "capability tag to resolve")
		sessionID  = flag.String("session", "", "session id to persist the result under")
		asJSON     = flag.Bool("json", false, "print the result as JSON")
	)
	flag.Parse()

	input := strings.Join(flag.Args(), " ")
	if input == "" {
		fmt.Fprintln(os.Stderr, "usage: agentlink [flags] <input text>")
		flag.PrintDefaults()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fatal(err)
	}
	logger := telemetry.ConfigureSlog(os.Stderr, cfg.Log.Level, cfg.Log.Format)

	shutdown, err := telemetry.InitWithConfig("agentlink", version, telemetry.Config{
		Exporter:     cfg.Telemetry.Exporter,
		OTLPEndpoint: cfg.Telemetry.OTLPEndpoint,
		OTLPInsecure: cfg.Telemetry.OTLPInsecure,
	})
	if err != nil {
		fatal(err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdown(ctx)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	orch, closeFn, err := wire(cfg, logger)
	if err != nil {
		fatal(err)
	}
	defer closeFn()

	result, err := orch.Run(ctx, orchestrator.Request{
		Input:      input,
		Mode:       parseMode(*mode),
		Capability: *capability,
	})
	if err != nil {
		fatal(err)
	}

	if *sessionID != "" {
		store, err := openSessionStore(cfg)
		if err != nil {
			fatal(err)
		}
		if err := store.Save(ctx, *sessionID, session.FromResult(input, result)); err != nil {
			fatal(err)
		}
	}

	printResult(result, *asJSON)
}

// wire builds the showcase: corpus, MCP pair, tools, the three LLM agents
// and the research workflow, registered in a fixed order so routing stays
// deterministic. Registration completes before the orchestrator exists.
func wire(cfg *config.Config, logger *slog.Logger) (*orchestrator.Orchestrator, func(), error) {
	store, err := corpus.LoadFile(cfg.Corpus.Name, cfg.Corpus.Path)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("corpus loaded", "records", store.Len(), "path", cfg.Corpus.Path)

	srv := mcp.NewServer("agentlink-context", version, store)
	contextClient, err := mcp.NewInProcessClient(srv, mcp.WithLookupTimeout(cfg.Timeouts.ContextLookup))
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() { _ = contextClient.Close() }

	searchTool, err := tool.New("search_company_data", "Search company data for relevant information",
		tool.Schema{"query": {Type: tool.FieldString, Required: true}},
		func(_ context.Context, args map[string]any) (string, error) {
			query, _ := args["query"].(string)
			records := store.Lookup(strings.Fields(query)...)
			if len(records) == 0 {
				return "no matching records", nil
			}
			var b strings.Builder
			for _, rec := range records {
				fmt.Fprintf(&b, "%s: %s\n", rec.Key, rec.Value)
			}
			return b.String(), nil
		})
	if err != nil {
		closeFn()
		return nil, nil, err
	}

	analyzeTool, err := tool.New("analyze_data", "Count corpus records matching a term",
		tool.Schema{
			"query": {Type: tool.FieldString, Required: true},
			"limit": {Type: tool.FieldNumber},
		},
		func(_ context.Context, args map[string]any) (string, error) {
			query, _ := args["query"].(string)
			matches := store.Lookup(strings.Fields(query)...)
			limit := len(matches)
			if l, ok := args["limit"].(float64); ok && int(l) < limit {
				limit = int(l)
			}
			return fmt.Sprintf("%d records match %q (showing %d)", len(matches), query, limit), nil
		})
	if err != nil {
		closeFn()
		return nil, nil, err
	}

	provider := buildProvider(cfg)
	options := llm.Options{
		Temperature:     cfg.LLM.Temperature,
		MaxOutputTokens: cfg.LLM.MaxOutputTokens,
	}

	reg := registry.New()

	assistant, err := agent.NewLlm(
		core.AgentCard{
			ID:           "assistant",
			DisplayName:  "Assistant",
			Description:  "Primary assistant that can answer questions and delegate tasks",
			Capabilities: []string{"chat", "summary"},
		},
		provider,
		agent.WithInstruction("You are a helpful assistant that can answer questions and delegate specialized tasks."),
		agent.WithModel(cfg.LLM.Model, options),
		agent.WithModelTimeout(cfg.Timeouts.ModelCall),
		agent.WithTools(searchTool),
		agent.WithContextProvider(contextClient),
		agent.WithLogger(logger),
	)
	if err != nil {
		closeFn()
		return nil, nil, err
	}

	researcher, err := agent.NewLlm(
		core.AgentCard{
			ID:           "researcher",
			DisplayName:  "Researcher",
			Description:  "Specialized agent for research tasks",
			Capabilities: []string{"research"},
		},
		provider,
		agent.WithInstruction("You are a research specialist that can find and summarize information."),
		agent.WithModel(cfg.LLM.Model, options),
		agent.WithModelTimeout(cfg.Timeouts.ModelCall),
		agent.WithTools(searchTool),
		agent.WithContextProvider(contextClient),
		agent.WithLogger(logger),
	)
	if err != nil {
		closeFn()
		return nil, nil, err
	}

	analyst, err := agent.NewLlm(
		core.AgentCard{
			ID:           "analyst",
			DisplayName:  "Analyst",
			Description:  "Specialized agent for data analysis",
			Capabilities: []string{"analysis"},
		},
		provider,
		agent.WithInstruction("You are a data analyst that can analyze and interpret data."),
		agent.WithModel(cfg.LLM.Model, options),
		agent.WithModelTimeout(cfg.Timeouts.ModelCall),
		agent.WithTools(analyzeTool),
		agent.WithLogger(logger),
	)
	if err != nil {
		closeFn()
		return nil, nil, err
	}

	for _, a := range []core.Agent{assistant, researcher, analyst} {
		if err := reg.Register(a); err != nil {
			closeFn()
			return nil, nil, err
		}
	}

	researchWorkflow, err := agent.NewWorkflow(
		core.AgentCard{
			ID:           "research-workflow",
			DisplayName:  "ResearchWorkflow",
			Description:  "Workflow that coordinates research and analysis",
			Capabilities: []string{"research-and-analysis"},
		},
		reg,
		[]string{"research", "analysis"},
		agent.WithWorkflowLogger(logger),
	)
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	if err := reg.Register(researchWorkflow); err != nil {
		closeFn()
		return nil, nil, err
	}

	orch, err := orchestrator.New(reg, orchestrator.WithLogger(logger))
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	return orch, closeFn, nil
}

func buildProvider(cfg *config.Config) llm.Provider {
	switch cfg.LLM.Provider {
	case "mock":
		return &llm.MockProvider{Response: "(mock) generated response"}
	default:
		return llm.NewOllama(cfg.LLM.BaseURL)
	}
}

func openSessionStore(cfg *config.Config) (session.Store, error) {
	switch cfg.Session.Backend {
	case "sqlite":
		db, err := session.OpenSQLite(cfg.Session.SQLitePath)
		if err != nil {
			return nil, err
		}
		return session.NewSQLiteStore(db)
	default:
		return session.NewInMemory(), nil
	}
}

func parseMode(mode string) orchestrator.Mode {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "compare", "comparison", "with_context_comparison":
		return orchestrator.ModeWithContextComparison
	case "workflow":
		return orchestrator.ModeWorkflow
	default:
		return orchestrator.ModeDirect
	}
}

func printResult(result *orchestrator.Result, asJSON bool) {
	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
		return
	}
	fmt.Printf("agent: %s (%s)\n", result.AgentCard.DisplayName, result.AgentCard.ID)
	switch result.Mode {
	case orchestrator.ModeWithContextComparison:
		fmt.Println("--- with context ---")
		fmt.Println(result.WithContext.OutputText)
		fmt.Println("--- without context ---")
		fmt.Println(result.WithoutContext.OutputText)
	default:
		fmt.Println(result.Result.OutputText)
		for i, sub := range result.Result.SubResults {
			fmt.Printf("  step %d: %s\n", i+1, sub.OutputText)
		}
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "agentlink: %v\n", err)
	os.Exit(1)
}
