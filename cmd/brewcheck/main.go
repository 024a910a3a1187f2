// Package main implements brewcheck, a CLI for trying recommendations
// outside the HTTP server.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"brew-backend/internal/bootstrap"
	"brew-backend/internal/catalog"
	"brew-backend/internal/llm"
	"brew-backend/internal/recommendations"
	"brew-backend/internal/shared/config"
	"brew-backend/internal/shared/telemetry"
)

var (
	beanID    string
	machineID string
	provider  string
	model     string
	timeout   time.Duration
	rawOutput bool
	outPath   string
)

func main() {
	if err := newRootCmd(config.Load()).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(cfg config.Config) *cobra.Command {
	root := &cobra.Command{
		Use:   "brewcheck",
		Short: "Try brew recommendations from the command line",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			telemetry.Init("warn", "console")
		},
		SilenceUsage: true,
	}

	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Ask the configured model for one recommendation",
		Long: `Ask the configured model for one recommendation and validate it.

Examples:
  brewcheck generate --bean 1 --machine 3
  brewcheck generate --bean 3 --machine 1 --provider openai --model gpt-4o-mini --raw`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd.Context(), cfg, cmd.OutOrStdout())
		},
	}
	generateCmd.Flags().StringVar(&provider, "provider", cfg.LLMProvider, "LLM provider (anthropic or openai)")
	generateCmd.Flags().StringVar(&model, "model", cfg.LLMModel, "LLM model")
	generateCmd.Flags().DurationVar(&timeout, "timeout", time.Duration(cfg.AITimeoutSeconds)*time.Second, "Generation timeout")
	generateCmd.Flags().BoolVar(&rawOutput, "raw", false, "Print the raw model text instead of the validated recommendation")
	generateCmd.Flags().StringVar(&outPath, "out", "", "Path to write JSON output (optional)")

	fallbackCmd := &cobra.Command{
		Use:   "fallback",
		Short: "Print the rule-based recommendation for a pair",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFallback(cmd.Context(), cmd.OutOrStdout())
		},
	}

	for _, c := range []*cobra.Command{generateCmd, fallbackCmd} {
		c.Flags().StringVar(&beanID, "bean", "", "Bean id (required)")
		c.Flags().StringVar(&machineID, "machine", "", "Machine id (required)")
		_ = c.MarkFlagRequired("bean")
		_ = c.MarkFlagRequired("machine")
	}

	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "List beans and machines",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCatalog(cmd.Context(), cmd.OutOrStdout())
		},
	}

	root.AddCommand(generateCmd, fallbackCmd, catalogCmd)
	return root
}

func findPair(ctx context.Context) (catalog.CoffeeBean, catalog.BrewingMachine, error) {
	repo := catalog.NewDefaultRepo()
	bean, err := repo.FindBean(ctx, beanID)
	if err != nil {
		return catalog.CoffeeBean{}, catalog.BrewingMachine{}, fmt.Errorf("bean %s: %w", beanID, err)
	}
	machine, err := repo.FindMachine(ctx, machineID)
	if err != nil {
		return catalog.CoffeeBean{}, catalog.BrewingMachine{}, fmt.Errorf("machine %s: %w", machineID, err)
	}
	return bean, machine, nil
}

func runGenerate(ctx context.Context, cfg config.Config, w io.Writer) error {
	cfg.LLMProvider = strings.ToLower(strings.TrimSpace(provider))
	cfg.LLMModel = model
	client, configured, err := bootstrap.NewLLMClient(cfg)
	if err != nil {
		return err
	}
	if !configured {
		return fmt.Errorf("no API key configured for provider %s", cfg.LLMProvider)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	bean, machine, err := findPair(ctx)
	if err != nil {
		return err
	}

	var out []byte
	if rawOutput {
		out, err = rawText(ctx, client, bean, machine)
	} else {
		out, err = validated(ctx, client, bean, machine)
	}
	if err != nil {
		return err
	}

	if outPath != "" {
		if err := os.WriteFile(outPath, out, 0o644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	}
	return writeLine(w, out)
}

func runFallback(ctx context.Context, w io.Writer) error {
	bean, machine, err := findPair(ctx)
	if err != nil {
		return err
	}
	out, err := json.MarshalIndent(struct {
		Key            string                                `json:"key"`
		Recommendation recommendations.BrewingRecommendation `json:"recommendation"`
	}{
		Key:            recommendations.Key(bean.RoastLevel, machine.Type),
		Recommendation: recommendations.Resolve(bean.RoastLevel, machine.Type),
	}, "", "  ")
	if err != nil {
		return err
	}
	return writeLine(w, out)
}

func runCatalog(ctx context.Context, w io.Writer) error {
	repo := catalog.NewDefaultRepo()
	beans, err := repo.ListBeans(ctx)
	if err != nil {
		return err
	}
	machines, err := repo.ListMachines(ctx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "BEAN\tBRAND\tORIGIN\tROAST\tFLAVOR")
	for _, b := range beans {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", b.ID, b.Brand, b.Origin, b.RoastLevel, strings.Join(b.FlavorProfile, ", "))
	}
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "MACHINE\tTYPE\tBRAND\tMODEL")
	for _, m := range machines {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", m.ID, m.Type, m.Brand, m.Model)
	}
	return tw.Flush()
}

func validated(ctx context.Context, client llm.Client, bean catalog.CoffeeBean, machine catalog.BrewingMachine) ([]byte, error) {
	rec, err := recommendations.NewAIProvider(client, true).Generate(ctx, bean, machine)
	if err != nil {
		return nil, fmt.Errorf("generate (%s): %w; fallback %s would be used",
			recommendations.FailureReason(err), err, recommendations.Key(bean.RoastLevel, machine.Type))
	}
	return json.MarshalIndent(rec, "", "  ")
}

func rawText(ctx context.Context, client llm.Client, bean catalog.CoffeeBean, machine catalog.BrewingMachine) ([]byte, error) {
	prompt, err := recommendations.BuildPrompt(bean, machine)
	if err != nil {
		return nil, err
	}
	resp, err := client.Complete(ctx, llm.Request{
		System:      recommendations.SystemPrompt(),
		Prompt:      prompt,
		MaxTokens:   recommendations.DefaultMaxTokens,
		Temperature: recommendations.DefaultTemperature,
		JSON:        true,
	})
	if err != nil {
		return nil, fmt.Errorf("llm complete: %w", err)
	}
	text, ok := resp.FirstText()
	if !ok {
		return nil, fmt.Errorf("no text content in response")
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(text), "", "  "); err != nil {
		return []byte(text), nil
	}
	return buf.Bytes(), nil
}

func writeLine(w io.Writer, out []byte) error {
	if _, err := w.Write(out); err != nil {
		return err
	}
	if len(out) == 0 || out[len(out)-1] != '\n' {
		_, err := w.Write([]byte("\n"))
		return err
	}
	return nil
}
