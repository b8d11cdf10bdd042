//go:build wireinject
// +build wireinject

package di

import (
	"guessd/internal"
	"guessd/internal/bot"
	"guessd/internal/catalog"
	"guessd/internal/controllers"
	"guessd/internal/providers"
	"guessd/internal/services"
	"guessd/internal/storage"
	"guessd/internal/structures"

	wire "github.com/google/wire"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,

		catalog.NewOsFs,
		catalog.NewCatalogProvider,
		catalog.NewSourceProvider,
		wire.Bind(new(services.PuzzleSource), new(*catalog.Source)),

		storage.NewCompressorProvider,
		storage.NewFileManager,
		wire.Bind(new(services.ScorePersister), new(*storage.FileManager)),
		services.NewScoreStore,
		wire.Bind(new(services.ScoreStoreInterface), new(*services.ScoreStore)),
		storage.NewScheduler,

		bot.NewAPIProvider,
		bot.NewTransport,
		wire.Bind(new(services.Transport), new(*bot.Transport)),

		services.NewStreakTracker,
		services.NewSessionService,
		services.NewLeaderboardService,
		services.NewEconomyService,
		bot.NewBot,

		controllers.NewApiController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}
