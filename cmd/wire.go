package cmd

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Halone228/funpay-api/internal/account"
	funpayparser "github.com/Halone228/funpay-api/internal/adapters/parser/funpay"
	statusadapter "github.com/Halone228/funpay-api/internal/adapters/render/status"
	tomlrepo "github.com/Halone228/funpay-api/internal/adapters/repo/toml"
	chainstore "github.com/Halone228/funpay-api/internal/adapters/secrets/chain"
	"github.com/Halone228/funpay-api/internal/application"
	"github.com/Halone228/funpay-api/internal/config"
	"github.com/Halone228/funpay-api/internal/domain"
	"github.com/Halone228/funpay-api/internal/ports"
	"github.com/Halone228/funpay-api/internal/session"
)

type facadeMode string

const (
	modeBlocking   facadeMode = "blocking"
	modeConcurrent facadeMode = "concurrent"
)

type app struct {
	settings config.Config
	logger   *zap.Logger
	service  *application.Service
	parser   ports.ResponseParser
	render   func(statusadapter.Overview, statusadapter.RenderOptions) (string, error)
	now      func() time.Time
}

func wireApp() (*app, error) {
	v, err := config.New()
	if err != nil {
		return nil, err
	}
	settings, err := config.Decode(v)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := config.NewLogger(settings.Log)
	if err != nil {
		return nil, fmt.Errorf("wire logger: %w", err)
	}

	repo, err := tomlrepo.NewRepository(v)
	if err != nil {
		return nil, fmt.Errorf("wire account repository: %w", err)
	}

	secretStore, err := chainstore.NewDefault(v.GetString(config.KeySecretsDir))
	if err != nil {
		return nil, fmt.Errorf("wire secret store chain: %w", err)
	}

	return &app{
		settings: settings,
		logger:   logger,
		service:  application.NewService(repo, secretStore, ports.SystemClock{}),
		parser:   funpayparser.Parser{},
		render:   statusadapter.Render,
		now:      time.Now,
	}, nil
}

func parseFacadeMode(raw string) (facadeMode, error) {
	mode := facadeMode(raw)
	switch mode {
	case modeBlocking, modeConcurrent:
		return mode, nil
	default:
		return "", fmt.Errorf("unsupported mode %q (want blocking or concurrent)", raw)
	}
}

// openFacade resolves the golden key of id, initiates a session with it and
// records the identity the site reports.
func (a *app) openFacade(ctx context.Context, id domain.AccountID, mode facadeMode, opts ...account.Option) (account.Facade, domain.Account, domain.Identity, error) {
	var facade account.Facade
	initiate := func(ctx context.Context, goldenKey string) (domain.Identity, error) {
		cfg := a.settings.Session
		cfg.GoldenKey = goldenKey
		client, err := session.New(cfg, a.parser, session.WithLogger(a.logger.Named("session")))
		if err != nil {
			return domain.Identity{}, err
		}

		opts = append(opts, account.WithLogger(a.logger.Named("account")))
		if mode == modeConcurrent {
			facade = account.NewConcurrent(client, a.parser, opts...)
		} else {
			facade = account.NewBlocking(client, a.parser, opts...)
		}
		return facade.Initiate(ctx)
	}

	acc, identity, err := a.service.Verify(ctx, id, initiate)
	if err != nil {
		return nil, domain.Account{}, domain.Identity{}, fmt.Errorf("open session for account %s: %w", id, err)
	}
	return facade, acc, identity, nil
}
