package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/oxhq/smartdiff/collab"
	"github.com/oxhq/smartdiff/collab/golang"
	"github.com/oxhq/smartdiff/difflog"
	"github.com/oxhq/smartdiff/difftypes"
	"github.com/oxhq/smartdiff/engine"
	"github.com/oxhq/smartdiff/store"
)

type compareOptions struct {
	source  string
	target  string
	verbose bool
	save    bool
	lang    string
}

func newCompareCmd() *cobra.Command {
	opts := &compareOptions{}

	cmd := &cobra.Command{
		Use:   "compare <source-dir> <target-dir>",
		Short: "Compare two source trees and print a structural diff summary",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.source = args[0]
			opts.target = args[1]
			return runCompare(cmd, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
	cmd.Flags().BoolVar(&opts.save, "save", false, "persist this comparison to the configured store")
	cmd.Flags().StringVar(&opts.lang, "lang", "go", "language to parse (only \"go\" is wired today)")

	return cmd
}

func runCompare(cmd *cobra.Command, opts *compareOptions) error {
	log, err := difflog.New(opts.verbose)
	if err != nil {
		return fmt.Errorf("smartdiff: failed to build logger: %w", err)
	}
	defer log.Sync()

	registry := collab.NewRegistry()
	registry.Register(golang.New())

	walker := collab.NewWalker()
	ctx := context.Background()

	sourceScope := collab.FileScope{Path: opts.source, Include: []string{"**/*.go"}}
	targetScope := collab.FileScope{Path: opts.target, Include: []string{"**/*.go"}}

	log.Info("loading source tree", difflog.String("path", opts.source))
	sourceTree, err := collab.LoadTree(ctx, walker, registry, sourceScope)
	if err != nil {
		return fmt.Errorf("smartdiff: failed to load source tree: %w", err)
	}

	log.Info("loading target tree", difflog.String("path", opts.target))
	targetTree, err := collab.LoadTree(ctx, walker, registry, targetScope)
	if err != nil {
		return fmt.Errorf("smartdiff: failed to load target tree: %w", err)
	}

	for path, parseErr := range sourceTree.Errors {
		log.Warn("source file failed to parse", difflog.String("path", path), difflog.Err(parseErr))
	}
	for path, parseErr := range targetTree.Errors {
		log.Warn("target file failed to parse", difflog.String("path", path), difflog.Err(parseErr))
	}

	sources := toFunctionEntries(sourceTree, opts.source)
	targets := toFunctionEntries(targetTree, opts.target)

	sourceFiles := toFileInfos(sourceTree)
	targetFiles := toFileInfos(targetTree)

	before := toHierarchy(sourceTree)
	after := toHierarchy(targetTree)

	scorer := engine.NewScorer(engine.DefaultSimilarityConfig())
	pipeline := engine.NewPipeline(scorer)

	result := pipeline.Run(sources, targets, sourceFiles, targetFiles, before, after)

	printSummary(cmd, result)

	if opts.save {
		cfg := store.LoadConfig()
		st, err := store.Open(cfg, log)
		if err != nil {
			return fmt.Errorf("smartdiff: failed to open store: %w", err)
		}
		defer st.Close()

		id, err := st.SaveComparison(result, opts.source, opts.target, opts.lang)
		if err != nil {
			return fmt.Errorf("smartdiff: failed to save comparison: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\nsaved comparison %s\n", id)
	}

	return nil
}

func toFunctionEntries(tree collab.ParsedTree, root string) []engine.FunctionEntry {
	entries := make([]engine.FunctionEntry, 0, len(tree.Functions))
	for _, fn := range tree.Functions {
		sig := fn.Signature
		if rel, err := filepath.Rel(root, sig.FilePath); err == nil {
			sig.FilePath = filepath.ToSlash(rel)
		}
		entries = append(entries, engine.FunctionEntry{
			QualifiedName: fn.Signature.QualifiedName,
			Signature:     sig,
			AST:           fn.AST,
		})
	}
	return entries
}

func toFileInfos(tree collab.ParsedTree) []engine.FileInfo {
	infos := make([]engine.FileInfo, 0, len(tree.ByFile))
	for path, result := range tree.ByFile {
		content, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		symbols := make([]string, 0, len(result.Functions))
		for _, fn := range result.Functions {
			symbols = append(symbols, fn.Signature.Name)
		}
		infos = append(infos, engine.FileInfo{
			Path:    filepath.ToSlash(path),
			Content: string(content),
			Symbols: symbols,
		})
	}
	return infos
}

func toHierarchy(tree collab.ParsedTree) *difftypes.ClassHierarchy {
	hierarchy := difftypes.NewClassHierarchy()
	for _, class := range tree.Classes {
		hierarchy.AddClass(class.Node)
	}
	return hierarchy
}

func printSummary(cmd *cobra.Command, result engine.DiffResult) {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "smartdiff: %d changes (%d matched, %d many-to-many, %d unmatched source, %d unmatched target) — %.1f%% matched\n",
		len(result.Changes),
		result.Statistics.OneToOneCount,
		result.Statistics.ManyToManyCount,
		result.Statistics.UnmatchedSource,
		result.Statistics.UnmatchedTarget,
		result.Statistics.MatchPercentage,
	)

	if len(result.Changes) > 0 {
		fmt.Fprintln(out, "\nchanges:")
		for _, ch := range result.Changes {
			fmt.Fprintf(out, "  [%s] %s (confidence %.2f) %s\n", ch.Kind, changeLabel(ch), ch.Confidence, ch.Detail)
		}
	}

	if len(result.Patterns) > 0 {
		fmt.Fprintln(out, "\nrefactoring patterns:")
		for _, p := range result.Patterns {
			fmt.Fprintf(out, "  [%s] %s (confidence %.2f)\n", p.Name, p.Description, p.Confidence)
		}
	}

	if len(result.HierarchyChanges) > 0 {
		fmt.Fprintln(out, "\nhierarchy changes:")
		for _, hc := range result.HierarchyChanges {
			fmt.Fprintf(out, "  [%s] %s %s\n", hc.Kind, hc.ClassName, hc.Description)
		}
	}

	if len(result.FileRefactorings) > 0 {
		fmt.Fprintln(out, "\nfile refactorings:")
		for _, fr := range result.FileRefactorings {
			fmt.Fprintf(out, "  [%s] %v -> %v (confidence %.2f)\n", fr.Kind, fr.SourceFiles, fr.TargetFiles, fr.Confidence)
		}
	}
}

func changeLabel(ch difftypes.Change) string {
	switch {
	case ch.Source == nil && ch.Target != nil:
		return ch.Target.Name
	case ch.Target == nil && ch.Source != nil:
		return ch.Source.Name
	case ch.Source != nil && ch.Target != nil:
		if ch.Source.Name == ch.Target.Name {
			return ch.Source.Name
		}
		return ch.Source.Name + " -> " + ch.Target.Name
	default:
		return ""
	}
}
