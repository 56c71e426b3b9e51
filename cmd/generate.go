package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"brassworks.dev/fieldsmith/internal/binding"
	"brassworks.dev/fieldsmith/internal/compressor"
	"brassworks.dev/fieldsmith/internal/config"
	"brassworks.dev/fieldsmith/internal/generator"
	"brassworks.dev/fieldsmith/internal/genmap"
	"brassworks.dev/fieldsmith/internal/remote"
	"brassworks.dev/fieldsmith/internal/render"
	"brassworks.dev/fieldsmith/internal/resolver"
	"brassworks.dev/fieldsmith/internal/tui"
)

var generateAll bool

var generateCmd = &cobra.Command{
	Use:   "generate [field-id-or-name]",
	Short: "Generate field classes (one field, or the full catalog with --all)",
	Args: func(cmd *cobra.Command, args []string) error {
		if generateAll && len(args) > 0 {
			return &UsageError{Msg: "--all takes no field argument"}
		}
		if !generateAll && len(args) != 1 {
			return &UsageError{Msg: "expected exactly one field id or name (or --all)"}
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := buildPipeline(false)
		if err != nil {
			return err
		}
		defer p.close()

		if generateAll {
			return runBulk(cmd, p)
		}
		return runSingle(cmd, p, args[0])
	},
}

func init() {
	generateCmd.Flags().BoolVar(&generateAll, "all", false, "generate every remote field")
	rootCmd.AddCommand(generateCmd)
}

// pipeline is the fully wired generation stack for one invocation.
type pipeline struct {
	cfg      *config.Config
	rep      *config.Report
	resolver *resolver.Resolver
	gen      *generator.Generator
	cleanup  func()
}

func (p *pipeline) close() {
	if p.cleanup != nil {
		p.cleanup()
	}
}

// finish surfaces configuration problems after an otherwise finished run so
// the exit status reflects them.
func (p *pipeline) finish() error {
	return p.rep.Problems()
}

// buildPipeline loads configuration and wires every collaborator. Entry-level
// configuration problems do not stop the build; they are logged, recorded on
// the report, and decide the exit status at the end of the run.
func buildPipeline(dryRun bool) (*pipeline, error) {
	cfg, rep, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}

	root := cfg.Templates.Root
	var cleanup func()
	if strings.HasSuffix(root, ".zip") {
		dir, cl, err := compressor.ExtractBundle(root)
		if err != nil {
			return nil, &config.Error{Msg: err.Error()}
		}
		root, cleanup = dir, cl
	}

	table := binding.BuildTable(cfg.Templates, root, rep)
	rules := binding.BuildRules(cfg.Skip, rep)

	for _, w := range rep.Warnings {
		log.Warn("configuration warning", zap.String("warning", w))
	}
	for _, e := range multierr.Errors(rep.Problems()) {
		log.Error("configuration problem", zap.Error(e))
	}

	gmap, err := genmap.Load(cfg.Map)
	if err != nil {
		if cleanup != nil {
			cleanup()
		}
		return nil, err
	}

	svc := remote.NewClient(cfg.API.BaseURL, cfg.Token(), log)
	gen := &generator.Generator{
		Service:   svc,
		Renderer:  newRenderer(),
		Table:     table,
		Rules:     rules,
		Map:       gmap,
		MapPath:   cfg.Map,
		OutDir:    cfg.Output.Dir,
		Namespace: cfg.Output.Namespace,
		Extension: cfg.Output.Extension,
		DryRun:    dryRun,
		Log:       log,
	}

	return &pipeline{
		cfg:      cfg,
		rep:      rep,
		resolver: resolver.New(svc, log),
		gen:      gen,
		cleanup:  cleanup,
	}, nil
}

func newRenderer() render.Renderer {
	return render.NewTemplateRenderer()
}

func runSingle(cmd *cobra.Command, p *pipeline, idOrName string) error {
	f, err := p.resolver.Resolve(cmd.Context(), idOrName)
	if err != nil {
		var amb *resolver.AmbiguousError
		if errors.As(err, &amb) && !nonInteractive {
			f, err = tui.SelectField(amb.Name, amb.Candidates)
		}
		if err != nil {
			return err
		}
	}

	if !p.gen.GenerateField(cmd.Context(), f) {
		return &GenerationError{Failed: 1}
	}
	return p.finish()
}

func runBulk(cmd *cobra.Command, p *pipeline) error {
	// Confirmation gate: nothing has been written or mutated yet, so a
	// decline leaves the target directory and map exactly as they were.
	if !assumeYes {
		if nonInteractive {
			return &UsageError{Msg: "--all in non-interactive mode requires --yes"}
		}
		prompt := promptui.Prompt{
			Label:     fmt.Sprintf("Generate classes for every remote field into %s", p.cfg.Output.Dir),
			IsConfirm: true,
		}
		// promptui reports a declined confirmation as ErrAbort and an
		// interrupt as ErrInterrupt; both map to a clean pre-mutation exit.
		if _, err := prompt.Run(); err != nil {
			return err
		}
	}

	ok, results, err := p.gen.GenerateAll(cmd.Context())
	if err != nil {
		return err
	}
	printSummary(cmd, results)
	if !ok {
		failed := 0
		for _, r := range results {
			if r.Outcome == generator.Failed {
				failed++
			}
		}
		return &GenerationError{Failed: failed}
	}
	return p.finish()
}

func printSummary(cmd *cobra.Command, results []generator.Result) {
	counts := map[generator.Outcome]int{}
	for _, r := range results {
		counts[r.Outcome]++
		if r.Outcome == generator.Failed {
			cmd.PrintErrf("failed: %s (%s): %v\n", r.FieldID, r.Name, r.Err)
		}
	}
	cmd.Printf("%d written, %d unchanged, %d skipped, %d failed\n",
		counts[generator.Written], counts[generator.Unchanged],
		counts[generator.Skipped], counts[generator.Failed])
}
