package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/CTAG07/MarkovMania/pkg/corpus"
	"github.com/CTAG07/MarkovMania/pkg/history"
)

type generateOptions struct {
	corpusPath string
	seed       string
	words      int
	noHistory  bool
}

func newGenerateCommand(root *rootOptions) *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Train on a corpus file and print one generated sentence",
		Long: `Load a corpus file (one sentence per line), train the chain on it and
print one piece of generated text.

Without --words the word limit is drawn from [min_words, max_words] in the
config. Without --seed the first word is picked uniformly among the words that
have a successor.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd, root, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.corpusPath, "corpus", "c", "", "corpus file (default: generator_config.corpus_path)")
	cmd.Flags().StringVarP(&opts.seed, "seed", "s", "", "text to start from; only its last word drives generation")
	cmd.Flags().IntVarP(&opts.words, "words", "n", 0, "number of words to add after the seed (0 picks a random limit)")
	cmd.Flags().BoolVar(&opts.noHistory, "no-history", false, "do not record the result in the history database")

	return cmd
}

func runGenerate(cmd *cobra.Command, root *rootOptions, opts *generateOptions) error {
	cfg, err := LoadConfig(root.configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger := root.newLogger(cmd.ErrOrStderr(), cfg.Server.LogLevel)

	if opts.words < 0 {
		return fmt.Errorf("--words must not be negative, got %d", opts.words)
	}

	path := opts.corpusPath
	if path == "" {
		path = cfg.Generator.CorpusPath
	}
	if path == "" {
		return corpus.ErrNoPath
	}

	genCfg := *cfg.Generator
	if opts.noHistory {
		genCfg.RecordHistory = false
	}

	var store *history.Store
	if genCfg.RecordHistory {
		db, s, err := openHistory(cfg.Server, logger)
		if err != nil {
			return err
		}
		defer func() {
			s.Close()
			_ = db.Close()
		}()
		store = s
	}

	app := NewApp(genCfg, store, logger)
	trained, err := app.TrainFile(path, cfg.Server.MaxCorpusBytes)
	switch {
	case errors.Is(err, corpus.ErrEmpty):
		logger.Warn("Corpus contains no text", "path", path)
	case err != nil:
		return err
	default:
		logger.Info("Corpus loaded", "path", path, "summary", trained.describe())
	}

	req := GenerateRequest{Seed: opts.seed}
	if opts.words > 0 {
		req.WordLimit = &opts.words
	}

	result, err := app.Generate(cmd.Context(), req)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), result.Text)
	return nil
}
