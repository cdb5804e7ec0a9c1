package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"qabot/internal/chatbot"
	"qabot/internal/config"
	"qabot/internal/logger"
)

// rootOptions are the persistent flags shared by every command.
type rootOptions struct {
	cfgFile        string
	corpusPath     string
	questionColumn string
	answerColumn   string
	minSimilarity  float64
	verbose        bool
}

// NewRootCommand creates the root command. Running it without a subcommand
// starts the interactive chat.
func NewRootCommand(version, commit, date string) *cobra.Command {
	opts := &rootOptions{}
	rootCmd := &cobra.Command{
		Use:   "qabot",
		Short: "TF-IDF question/answer chatbot",
		Long: `qabot answers free-text messages with the best-matching answer of a fixed
question/answer table (CSV, TSV or XLSX), using TF-IDF cosine similarity.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd, opts)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&opts.cfgFile, "config", "c", "", "config file path (default ./config.yaml or ~/.config/qabot/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&opts.corpusPath, "corpus", "", "question/answer table, overrides corpus.path")
	rootCmd.PersistentFlags().StringVar(&opts.questionColumn, "question-column", "", "question column name, overrides corpus.question_column")
	rootCmd.PersistentFlags().StringVar(&opts.answerColumn, "answer-column", "", "answer column name, overrides corpus.answer_column")
	rootCmd.PersistentFlags().Float64Var(&opts.minSimilarity, "min-similarity", 0, "answer with the fallback below this similarity (0 disables)")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(newChatCommand(opts))
	rootCmd.AddCommand(newREPLCommand(opts))
	rootCmd.AddCommand(newAskCommand(opts))
	rootCmd.AddCommand(newServeCommand(opts))
	rootCmd.AddCommand(newNormalizeCommand())
	rootCmd.AddCommand(newVersionCommand(version, commit, date))

	return rootCmd
}

// loadConfig resolves the config file and applies flag overrides.
func loadConfig(cmd *cobra.Command, opts *rootOptions) (*config.AppConfig, error) {
	var (
		cfg *config.AppConfig
		err error
	)
	if opts.cfgFile == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(opts.cfgFile)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if opts.corpusPath != "" {
		cfg.Corpus.Path = opts.corpusPath
	}
	if opts.questionColumn != "" {
		cfg.Corpus.QuestionColumn = opts.questionColumn
	}
	if opts.answerColumn != "" {
		cfg.Corpus.AnswerColumn = opts.answerColumn
	}
	if cmd.Flags().Changed("min-similarity") {
		cfg.Matcher.MinSimilarity = opts.minSimilarity
	}
	if opts.verbose {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setup loads config, logger and chatbot in that order. The chatbot is built
// once here and handed to the front-end.
func setup(cmd *cobra.Command, opts *rootOptions) (*config.AppConfig, *zap.Logger, *chatbot.Chatbot, error) {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return nil, nil, nil, err
	}
	log, err := logger.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("init logger: %w", err)
	}
	botOpts, err := cfg.ChatbotOptions()
	if err != nil {
		return nil, nil, nil, err
	}
	bot, err := chatbot.New(botOpts, log)
	if err != nil {
		log.Error("couldn't load data", zap.Error(err))
		return nil, nil, nil, err
	}
	return cfg, log, bot, nil
}

func newVersionCommand(version, commit, date string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			if version == "" {
				version = "development"
			}
			if commit == "" {
				commit = "local-build"
			}
			if date == "" {
				date = "local-build"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "qabot %s (%s) built on %s\n", version, commit, date)
			fmt.Fprintf(cmd.OutOrStdout(), "Go version: %s\n", runtime.Version())
		},
	}
}
