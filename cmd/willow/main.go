package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/san-kum/willow/internal/chain"
	"github.com/san-kum/willow/internal/config"
	"github.com/san-kum/willow/internal/viz"
)

var (
	densityFile string
	steps       int
	tol         float64
	tolCeiling  float64
	stepBudget  float64
	capProbs    bool
	workers     int
	configFile  string
	preset      string
	showMats    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "willow",
		Short: "willow-tree Markov chain builder",
	}

	buildCmd := &cobra.Command{
		Use:   "build",
		Short: "build a transition chain",
		RunE:  runBuild,
	}
	addBuildFlags(buildCmd)
	buildCmd.Flags().BoolVar(&showMats, "show-matrices", false, "print every transition matrix")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "build a chain with live progress",
		RunE:  runLive,
	}
	addBuildFlags(liveCmd)

	plotCmd := &cobra.Command{
		Use:   "plot",
		Short: "build a chain and chart its diagnostics",
		RunE:  runPlot,
	}
	addBuildFlags(plotCmd)

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tNODES\tSTEPS\tTOL\tCEILING")
			for _, name := range config.ListPresets() {
				cfg := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%d\t%d\t%.0e\t%.0e\n",
					name, len(cfg.DensityPairs), cfg.Steps, cfg.Tol, cfg.TolCeiling)
			}
			return w.Flush()
		},
	}

	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write a default config file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.DefaultConfig()
			if preset != "" {
				cfg = config.GetPreset(preset)
				if cfg == nil {
					return fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
				}
			}
			return config.Save(args[0], cfg)
		},
	}
	initCmd.Flags().StringVar(&preset, "preset", "", "seed the file from a preset")

	rootCmd.AddCommand(buildCmd, liveCmd, plotCmd, presetsCmd, initCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addBuildFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&densityFile, "density", "", "density file path (yaml)")
	cmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "number of time steps")
	cmd.Flags().Float64Var(&tol, "tol", config.DefaultTol, "initial solver tolerance")
	cmd.Flags().Float64Var(&tolCeiling, "tol-ceiling", config.DefaultTolCeiling, "tolerance escalation ceiling")
	cmd.Flags().Float64Var(&stepBudget, "budget", config.DefaultStepBudget, "per-step wall-clock budget in seconds")
	cmd.Flags().BoolVar(&capProbs, "cap", false, "bound probabilities above by 1 in the solver")
	cmd.Flags().IntVar(&workers, "workers", config.DefaultWorkers, "concurrent step solvers")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}

// resolve merges the preset, the config file, and the flags, in that order:
// a config file overrides a preset, an explicitly set flag overrides both.
func resolve(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		pc := *p
		cfg = &pc
	}

	if configFile != "" {
		fc, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = fc
	}

	if cmd.Flags().Changed("density") {
		cfg.DensityFile = densityFile
		cfg.DensityPairs = nil
	}
	if cmd.Flags().Changed("steps") {
		cfg.Steps = steps
	}
	if cmd.Flags().Changed("tol") {
		cfg.Tol = tol
	}
	if cmd.Flags().Changed("tol-ceiling") {
		cfg.TolCeiling = tolCeiling
	}
	if cmd.Flags().Changed("budget") {
		cfg.StepBudget = stepBudget
	}
	if cmd.Flags().Changed("cap") {
		cfg.Cap = capProbs
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workers = workers
	}
	return cfg, nil
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := resolve(cmd)
	if err != nil {
		return err
	}
	pairs, err := cfg.Pairs()
	if err != nil {
		return err
	}

	builder := chain.New(nil)
	res, err := builder.Run(context.Background(), pairs, cfg.ChainConfig())
	if err != nil {
		return err
	}

	for _, n := range res.Notices {
		fmt.Println(n)
	}
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tSTATUS\tATTEMPTS\tTOL")
	for _, r := range res.Reports {
		fmt.Fprintf(w, "%d\t%s\t%d\t%.0e\n", r.Index, r.Status, r.Attempts, r.FinalTol)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Println()

	fmt.Print(viz.Summary(res))

	if showMats {
		for i, m := range res.Matrices {
			fmt.Printf("\nP[%d] over [%.2f, %.2f]:\n", i, res.Grid[i+1], res.Grid[i+2])
			fmt.Print(viz.Matrix(m))
		}
	}
	return nil
}

func runPlot(cmd *cobra.Command, args []string) error {
	cfg, err := resolve(cmd)
	if err != nil {
		return err
	}
	pairs, err := cfg.Pairs()
	if err != nil {
		return err
	}

	builder := chain.New(nil)
	res, err := builder.Run(context.Background(), pairs, cfg.ChainConfig())
	if err != nil {
		return err
	}

	for _, chart := range []string{
		viz.AttemptsPlot(res.Reports),
		viz.TolerancePlot(res.Reports),
		viz.RowDeviationPlot(res.Matrices),
	} {
		if chart != "" {
			fmt.Println(chart)
			fmt.Println()
		}
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolve(cmd)
	if err != nil {
		return err
	}
	pairs, err := cfg.Pairs()
	if err != nil {
		return err
	}

	events := make(chan tea.Msg, cfg.Steps)
	builder := chain.New(nil)
	builder.AddObserver(chain.ObserverFunc(func(r chain.StepReport) {
		events <- viz.StepMsg(r)
	}))

	go func() {
		res, err := builder.Run(context.Background(), pairs, cfg.ChainConfig())
		events <- viz.DoneMsg{Result: res, Err: err}
	}()

	m := viz.NewModel(cfg.Steps, events)
	p := tea.NewProgram(m)
	final, err := p.Run()
	if err != nil {
		return err
	}

	// The monitor clears itself on exit; print the finished summary here.
	if fm, ok := final.(viz.Model); ok {
		if err := fm.Err(); err != nil {
			return err
		}
		if res := fm.Result(); res != nil {
			fmt.Print(viz.Summary(res))
		}
	}
	return nil
}
