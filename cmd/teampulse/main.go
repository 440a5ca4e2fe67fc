package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/henrikdahl/teampulse/internal/ai"
	"github.com/henrikdahl/teampulse/internal/config"
	"github.com/henrikdahl/teampulse/internal/dates"
	"github.com/henrikdahl/teampulse/internal/insight"
	"github.com/henrikdahl/teampulse/internal/jira"
	"github.com/henrikdahl/teampulse/internal/metrics"
	"github.com/henrikdahl/teampulse/internal/render"
	"github.com/henrikdahl/teampulse/internal/team"
	"github.com/henrikdahl/teampulse/internal/tempo"
	"github.com/henrikdahl/teampulse/internal/worklog"
)

var rootCmd = &cobra.Command{
	Use:   "teampulse",
	Short: "Team availability and billability insights powered by AI",
	Long:  "teampulse aggregates Tempo plans and worklogs into availability and billability metrics and answers plain-English questions about them.",
}

var askCmd = &cobra.Command{
	Use:   "ask [query]",
	Short: "Ask a natural-language question about the team",
	Args:  cobra.ExactArgs(1),
	RunE:  runAsk,
}

var teamCmd = &cobra.Command{
	Use:   "team [period]",
	Short: "Show the team report for a period (defaults to this week)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTeam,
}

var userCmd = &cobra.Command{
	Use:   "user [account-id] [period]",
	Short: "Show one user's report for a period",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runUser,
}

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List supported AI providers",
	RunE:  runProviders,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Open config file in your editor",
	RunE:  runConfig,
}

func init() {
	rootCmd.PersistentFlags().Bool("verbose", false, "Enable debug logging")
	rootCmd.PersistentFlags().Bool("json", false, "Print raw JSON instead of a formatted report")
	askCmd.Flags().String("provider", "", "AI provider to use (gemini or bedrock)")
	teamCmd.Flags().Bool("tickets", false, "Include the per-project ticket breakdown")

	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(teamCmd)
	rootCmd.AddCommand(userCmd)
	rootCmd.AddCommand(providersCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelInfo
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if cfg.Tempo.APIToken == "" {
		return nil, fmt.Errorf("tempo API token not configured, run 'teampulse config' or set TEMPO_API_TOKEN")
	}
	if cfg.Jira.BaseURL == "" {
		return nil, fmt.Errorf("jira base URL not configured, run 'teampulse config' or set JIRA_BASE_URL")
	}
	return cfg, nil
}

func newTeamService(cfg *config.Config, logger *slog.Logger) (*team.Service, *jira.Client) {
	tempoClient := tempo.NewClient(cfg.Tempo.APIToken, cfg.Tempo.BaseURL, logger)
	jiraClient := jira.NewClient(cfg.Jira.BaseURL, cfg.Jira.Email, cfg.Jira.APIToken, 1*time.Hour, logger)
	enricher := worklog.NewEnricher(jiraClient, logger)
	service := team.NewService(tempoClient, enricher, cfg.Billability.IdealPercentage, logger)
	return service, jiraClient
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func resolvePeriod(phrase string) dates.Period {
	if phrase != "" {
		if period := dates.ParseQueryPeriod(phrase, time.Now()); period != nil {
			return *period
		}
	}
	return dates.CurrentWeek(time.Now())
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling output: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

func runAsk(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cmd)

	ctx, cancel := signalContext()
	defer cancel()

	explicit, _ := cmd.Flags().GetString("provider")
	provider, err := ai.NewProvider(ctx, explicit, ai.Settings{
		DefaultProvider: cfg.AI.Provider,
		GeminiAPIKey:    cfg.AI.Gemini.APIKey,
		GeminiModel:     cfg.AI.Gemini.Model,
		Bedrock: ai.BedrockConfig{
			Region:          cfg.AI.Bedrock.Region,
			AccessKeyID:     cfg.AI.Bedrock.AccessKeyID,
			SecretAccessKey: cfg.AI.Bedrock.SecretAccessKey,
			ModelID:         cfg.AI.Bedrock.ModelID,
		},
	}, logger)
	if err != nil {
		return fmt.Errorf("creating AI provider: %w", err)
	}

	service, jiraClient := newTeamService(cfg, logger)
	pipeline := insight.NewPipeline(service, jiraClient, provider, logger)

	report := pipeline.ProcessQuery(ctx, args[0])

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return printJSON(report)
	}
	fmt.Print(render.Insight(report))
	return nil
}

func runTeam(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cmd)

	ctx, cancel := signalContext()
	defer cancel()

	var phrase string
	if len(args) > 0 {
		phrase = args[0]
	}
	period := resolvePeriod(phrase)

	service, _ := newTeamService(cfg, logger)
	insights, err := service.GetTeamInsights(ctx, period)
	if err != nil {
		return err
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return printJSON(insights)
	}

	fmt.Print(render.TeamInsights(insights))

	if withTickets, _ := cmd.Flags().GetBool("tickets"); withTickets {
		breakdown := metrics.GenerateTicketBreakdown(insights.Worklogs)
		return printJSON(breakdown)
	}
	return nil
}

func runUser(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cmd)

	ctx, cancel := signalContext()
	defer cancel()

	var phrase string
	if len(args) > 1 {
		phrase = args[1]
	}
	period := resolvePeriod(phrase)

	service, _ := newTeamService(cfg, logger)
	insights, err := service.GetUserInsights(ctx, args[0], period)
	if err != nil {
		return err
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return printJSON(insights)
	}
	fmt.Print(render.UserInsights(insights))
	return nil
}

func runProviders(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	for _, name := range ai.SupportedProviders() {
		marker := " "
		if name == cfg.AI.Provider {
			marker = "*"
		}
		fmt.Printf("%s %s\n", marker, name)
	}
	return nil
}

func runConfig(cmd *cobra.Command, args []string) error {
	if err := config.EnsureConfigDir(); err != nil {
		return err
	}
	path, err := config.ConfigPath()
	if err != nil {
		return err
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vi"
	}

	editorCmd := exec.Command(editor, path)
	editorCmd.Stdin = os.Stdin
	editorCmd.Stdout = os.Stdout
	editorCmd.Stderr = os.Stderr
	return editorCmd.Run()
}
