// Package state wires the shared runtime pieces handed to every command:
// loaded config, logger, backend adapters and the query history store.
package state

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/viper"

	"github.com/esqtui/esq/internal/config"
	"github.com/esqtui/esq/internal/history"
	"github.com/esqtui/esq/internal/logging"
	"github.com/esqtui/esq/internal/search"
	"github.com/esqtui/esq/internal/search/contentidx"
	"github.com/esqtui/esq/internal/search/everything"
)

type State struct {
	Config   *config.Config
	Debug    bool
	Logger   *slog.Logger
	Fast     search.Adapter
	Content  search.Adapter
	History  *history.Store
	Warnings []string
	Home     string

	closeLog func()
}

func NewState() (*State, error) {
	home, err := GetHomeDir()
	if err != nil {
		return nil, err
	}

	cfg, err := LoadConfig(home)
	if err != nil {
		return nil, err
	}

	return &State{
		Config: cfg,
		Home:   home,
	}, nil
}

// Init builds the runtime pieces after flag parsing, so command-line
// overrides written into Config are honored.
func (s *State) Init() error {
	s.Logger, s.closeLog = logging.New(s.Config.LogFile, s.Debug)
	s.Fast = everything.New(s.Config.EsPath, s.Logger)
	s.Content = contentidx.New(s.Config.IndexPath, s.Logger)
	s.Warnings = s.Config.ValidateTools()

	hist, err := history.Open(s.Config.HistoryPath)
	if err != nil {
		s.Warnings = append(s.Warnings,
			fmt.Sprintf("query history unavailable: %v", err))
	} else {
		s.History = hist
	}
	return nil
}

// Timeout returns the per-search deadline from config.
func (s *State) Timeout() time.Duration {
	if s.Config.SearchTimeout <= 0 {
		return search.DefaultTimeout
	}
	return time.Duration(s.Config.SearchTimeout) * time.Second
}

// NewQuery builds a Query for text with the config defaults applied.
func (s *State) NewQuery(text string) search.Query {
	q := search.DefaultQuery(text)
	q.MaxResults = s.Config.MaxResults
	q.SearchContent = s.Config.SearchContent
	q.ShowDateCreated = s.Config.ShowCreated
	q.ShowDateAccessed = s.Config.ShowAccessed
	q.ShowAttributes = s.Config.ShowAttributes
	return q
}

func GetHomeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory. err: %s", err)
	}
	return home, nil
}

func LoadConfig(home string) (*config.Config, error) {
	viper.AddConfigPath(home + "/" + config.ConfigDir)
	viper.SetConfigName(config.ConfigFile)
	viper.SetConfigType(config.ConfigFileType)
	viper.ReadInConfig()

	if err := config.EnsureConfigExists(home); err != nil {
		return nil, err
	}

	return config.FromFile(config.GetConfigPath(home))
}

// Close releases the history store and the log file.
func (s *State) Close() error {
	if s == nil {
		return nil
	}

	var errs []error
	if s.History != nil {
		if err := s.History.Close(); err != nil {
			errs = append(errs, err)
		}
		s.History = nil
	}
	if closer, ok := s.Content.(interface{ Close() error }); ok && closer != nil {
		if err := closer.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if s.closeLog != nil {
		s.closeLog()
		s.closeLog = nil
	}

	if len(errs) == 0 {
		return nil
	}
	return errors.Join(errs...)
}
