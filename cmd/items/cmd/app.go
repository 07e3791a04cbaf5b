package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/text/language"

	apiclient "github.com/donaldgifford/marketplace/internal/api/client"
	"github.com/donaldgifford/marketplace/internal/geo"
	"github.com/donaldgifford/marketplace/internal/market"
	"github.com/donaldgifford/marketplace/internal/session"
	"github.com/donaldgifford/marketplace/pkg/filter"
	"github.com/donaldgifford/marketplace/pkg/logger"
)

// envKeyReplacer maps log-level to ITEMS_LOG_LEVEL.
var envKeyReplacer = strings.NewReplacer("-", "_")

// place is one entry of the "places" config list used to resolve --place.
type place struct {
	Location string `mapstructure:"location"`
	City     string `mapstructure:"city"`
}

// app carries what a command needs, resolved once from flags and config.
type app struct {
	repo     market.Repository
	sess     *session.Manager
	locator  geo.Locator
	resolver geo.Resolver
	pipeline *filter.Pipeline
	log      *slog.Logger
	json     bool
	out      io.Writer
}

func newApp(cmd *cobra.Command) (*app, error) {
	log := logger.New(viper.GetString("log-level"), "text")

	pipeline, err := newPipeline(viper.GetString("locale"))
	if err != nil {
		return nil, err
	}

	sess := session.NewManager()
	if token := viper.GetString("token"); token != "" {
		secret := viper.GetString("secret")
		if secret == "" {
			return nil, errors.New("--secret (or ITEMS_SECRET) is required to verify --token")
		}
		if err := sess.SignInWithToken(token, session.HMACKey([]byte(secret))); err != nil {
			return nil, fmt.Errorf("signing in: %w", err)
		}
	}

	var places []place
	if err := viper.UnmarshalKey("places", &places); err != nil {
		return nil, fmt.Errorf("reading places: %w", err)
	}
	candidates := make([]geo.Candidate, len(places))
	for i, p := range places {
		candidates[i] = geo.Candidate{LocationTitle: p.Location, City: p.City}
	}

	return &app{
		repo:     apiclient.New(viper.GetString("server"), apiclient.WithLogger(log)),
		sess:     sess,
		locator:  geo.StaticLocator{City: viper.GetString("city")},
		resolver: geo.NewGazetteer(candidates),
		pipeline: pipeline,
		log:      log,
		json:     viper.GetString("output") == "json",
		out:      cmd.OutOrStdout(),
	}, nil
}

func newPipeline(locale string) (*filter.Pipeline, error) {
	if locale == "" {
		return filter.New(), nil
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("parsing --locale %q: %w", locale, err)
	}
	return filter.New(filter.WithLanguage(tag)), nil
}

func (a *app) board(opts ...market.BoardOption) *market.Board {
	base := []market.BoardOption{
		market.WithLocator(a.locator),
		market.WithPipeline(a.pipeline),
		market.WithBoardLogger(a.log),
	}
	return market.NewBoard(a.repo, append(base, opts...)...)
}

// editor returns an Editor acting as the signed-in user. Each CLI command
// runs one mutation, so there is no board to refresh afterwards.
func (a *app) editor() *market.Editor {
	return market.NewEditor(a.repo, a.sess, market.WithEditorLogger(a.log))
}

// userError turns an Editor failure into the message shown to the user.
func userError(err error) error {
	if msg := market.UserMessage(err); msg != "" {
		return errors.New(msg)
	}
	return err
}
