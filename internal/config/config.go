package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"qabot/internal/chatbot"
	"qabot/internal/corpus"
	"qabot/internal/stopwords"
)

// CorpusConfig locates the question/answer table.
type CorpusConfig struct {
	Path               string `yaml:"path"`
	Format             string `yaml:"format"`
	Sheet              string `yaml:"sheet,omitempty"`
	QuestionColumn     string `yaml:"question_column"`
	AnswerColumn       string `yaml:"answer_column"`
	NormalizeQuestions *bool  `yaml:"normalize_questions,omitempty"`
}

// StopWords is either a named set or an explicit word list. In YAML it is
// written as a scalar ("english") or a sequence.
type StopWords struct {
	Name  string
	Words []string
}

func (s *StopWords) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		s.Name, s.Words = node.Value, nil
		return nil
	case yaml.SequenceNode:
		var words []string
		if err := node.Decode(&words); err != nil {
			return err
		}
		s.Name, s.Words = "", words
		return nil
	default:
		return fmt.Errorf("stop_words: expected a set name or a list, line %d", node.Line)
	}
}

func (s StopWords) MarshalYAML() (any, error) {
	if len(s.Words) > 0 {
		return s.Words, nil
	}
	return s.Name, nil
}

// Set resolves the configured stop words.
func (s StopWords) Set() (stopwords.Set, error) {
	return stopwords.Resolve(s.Name, s.Words)
}

// VectorizerConfig configures the term model.
type VectorizerConfig struct {
	Type      string    `yaml:"type"`
	StopWords StopWords `yaml:"stop_words"`
}

// MatcherConfig configures the optional confidence threshold.
type MatcherConfig struct {
	MinSimilarity  float64 `yaml:"min_similarity"`
	FallbackAnswer string  `yaml:"fallback_answer"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// ServerConfig configures the HTTP adapter.
type ServerConfig struct {
	Addr string `yaml:"addr"`
	// MaxSessions caps live chat sessions; the least recently used one is
	// dropped to make room.
	MaxSessions int `yaml:"max_sessions"`
	// SessionTTL drops sessions idle for longer than this.
	SessionTTL time.Duration `yaml:"session_ttl"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Corpus     CorpusConfig     `yaml:"corpus"`
	Vectorizer VectorizerConfig `yaml:"vectorizer"`
	Matcher    MatcherConfig    `yaml:"matcher"`
	Log        LogConfig        `yaml:"log"`
	Server     ServerConfig     `yaml:"server"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
// Environment overrides are applied in both cases.
func Load(path string) (*AppConfig, error) {
	_ = godotenv.Load()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := defaultConfig()
			if err := applyEnv(cfg); err != nil {
				return nil, err
			}
			if err := cfg.Validate(); err != nil {
				return nil, err
			}
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	applyConfigDefaults(&cfg)
	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/qabot/config.yaml.
// If neither exists, it writes defaults to ~/.config/qabot/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	_ = godotenv.Load()
	if err := applyEnv(cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate reports settings that can never produce a working chatbot.
func (c *AppConfig) Validate() error {
	if c.Matcher.MinSimilarity < 0 || c.Matcher.MinSimilarity > 1 {
		return fmt.Errorf("matcher.min_similarity must be within [0,1], got %v", c.Matcher.MinSimilarity)
	}
	switch strings.ToLower(c.Corpus.Format) {
	case corpus.FormatAuto, corpus.FormatCSV, corpus.FormatTSV, corpus.FormatXLSX:
	default:
		return fmt.Errorf("corpus.format: unknown format %q", c.Corpus.Format)
	}
	if c.Vectorizer.Type != "" && c.Vectorizer.Type != "tfidf" {
		return fmt.Errorf("vectorizer.type: unknown embedder %q", c.Vectorizer.Type)
	}
	if _, err := c.Vectorizer.StopWords.Set(); err != nil {
		return fmt.Errorf("vectorizer.stop_words: %w", err)
	}
	if c.Server.MaxSessions < 0 {
		return fmt.Errorf("server.max_sessions must not be negative, got %d", c.Server.MaxSessions)
	}
	if c.Server.SessionTTL < 0 {
		return fmt.Errorf("server.session_ttl must not be negative, got %s", c.Server.SessionTTL)
	}
	return nil
}

// ChatbotOptions converts the config into chatbot construction options.
func (c *AppConfig) ChatbotOptions() (chatbot.Options, error) {
	stop, err := c.Vectorizer.StopWords.Set()
	if err != nil {
		return chatbot.Options{}, err
	}
	normalize := true
	if c.Corpus.NormalizeQuestions != nil {
		normalize = *c.Corpus.NormalizeQuestions
	}
	return chatbot.Options{
		Source: corpus.Source{
			Path:   c.Corpus.Path,
			Format: c.Corpus.Format,
			Sheet:  c.Corpus.Sheet,
		},
		QuestionColumn:     c.Corpus.QuestionColumn,
		AnswerColumn:       c.Corpus.AnswerColumn,
		StopWords:          stop,
		NormalizeQuestions: normalize,
		Embedder:           c.Vectorizer.Type,
		MinSimilarity:      c.Matcher.MinSimilarity,
		FallbackAnswer:     c.Matcher.FallbackAnswer,
	}, nil
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "qabot", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	normalize := true
	cfg := &AppConfig{
		Corpus: CorpusConfig{
			Path:               "data/clean_conversation_dataset.csv",
			Format:             corpus.FormatAuto,
			QuestionColumn:     "question",
			AnswerColumn:       "answer",
			NormalizeQuestions: &normalize,
		},
		Vectorizer: VectorizerConfig{Type: "tfidf", StopWords: StopWords{Name: stopwords.English}},
		Matcher:    MatcherConfig{FallbackAnswer: chatbot.DefaultFallbackAnswer},
		Log:        LogConfig{Level: "info"},
		Server:     ServerConfig{Addr: ":8080", MaxSessions: 1000, SessionTTL: 30 * time.Minute},
	}
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	def := defaultConfig()
	if cfg.Corpus.Path == "" {
		cfg.Corpus.Path = def.Corpus.Path
	}
	if cfg.Corpus.Format == "" {
		cfg.Corpus.Format = def.Corpus.Format
	}
	if cfg.Corpus.QuestionColumn == "" {
		cfg.Corpus.QuestionColumn = def.Corpus.QuestionColumn
	}
	if cfg.Corpus.AnswerColumn == "" {
		cfg.Corpus.AnswerColumn = def.Corpus.AnswerColumn
	}
	if cfg.Corpus.NormalizeQuestions == nil {
		cfg.Corpus.NormalizeQuestions = def.Corpus.NormalizeQuestions
	}
	if cfg.Vectorizer.Type == "" {
		cfg.Vectorizer.Type = def.Vectorizer.Type
	}
	if cfg.Vectorizer.StopWords.Name == "" && len(cfg.Vectorizer.StopWords.Words) == 0 {
		cfg.Vectorizer.StopWords = def.Vectorizer.StopWords
	}
	if cfg.Matcher.FallbackAnswer == "" {
		cfg.Matcher.FallbackAnswer = def.Matcher.FallbackAnswer
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = def.Server.Addr
	}
	if cfg.Server.MaxSessions == 0 {
		cfg.Server.MaxSessions = def.Server.MaxSessions
	}
	if cfg.Server.SessionTTL == 0 {
		cfg.Server.SessionTTL = def.Server.SessionTTL
	}
}

func applyEnv(cfg *AppConfig) error {
	if v := os.Getenv("QABOT_CORPUS_PATH"); v != "" {
		cfg.Corpus.Path = v
	}
	if v := os.Getenv("QABOT_QUESTION_COLUMN"); v != "" {
		cfg.Corpus.QuestionColumn = v
	}
	if v := os.Getenv("QABOT_ANSWER_COLUMN"); v != "" {
		cfg.Corpus.AnswerColumn = v
	}
	if v := os.Getenv("QABOT_STOP_WORDS"); v != "" {
		if strings.Contains(v, ",") {
			cfg.Vectorizer.StopWords = StopWords{Words: strings.Split(v, ",")}
		} else {
			cfg.Vectorizer.StopWords = StopWords{Name: v}
		}
	}
	if v := os.Getenv("QABOT_MIN_SIMILARITY"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("QABOT_MIN_SIMILARITY: %w", err)
		}
		cfg.Matcher.MinSimilarity = f
	}
	if v := os.Getenv("QABOT_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("QABOT_SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	return nil
}
