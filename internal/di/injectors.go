//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"
	"streamwatch/internal"
	"streamwatch/internal/controllers"
	"streamwatch/internal/models"
	"streamwatch/internal/notify"
	"streamwatch/internal/platform"
	"streamwatch/internal/providers"
	"streamwatch/internal/services"
	"streamwatch/internal/store"
	"streamwatch/internal/structures"
	"streamwatch/internal/subscription"
	"streamwatch/internal/watcher"
)

var coreSet = wire.NewSet(
	providers.NewConfigProvider,
	providers.NewLogProvider,
	providers.NewMetricsProvider,
	providers.NewInstrumentedCacheProvider,

	store.NewZstdCompressor,
	store.NewFileManager,
	store.NewBackend,
	store.NewStateStore,
	models.NewRoster,

	platform.NewTwitchProvider,
	notify.NewPushClient,
	notify.NewSinks,
	notify.NewRouter,
	services.NewFeedService,

	subscription.NewTokenValidator,
	watcher.NewClock,
	watcher.NewReconciler,
	watcher.NewScheduler,

	provideReconcilerStore,
	provideWebhookRegistry,
	provideSubscriptionRegistry,
	provideTopicManager,
	provideTokenChecker,
	provideDecisionListener,
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		coreSet,
		services.NewStreamService,
		subscription.NewManager,
		provideWebhookStore,

		controllers.NewHealthController,
		controllers.NewStreamsController,
		controllers.NewTickController,
		controllers.NewSubscriptionController,
		controllers.NewWebhookController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}

func InitCommand(cfg *structures.CliFlags) (*internal.Command, error) {

	wire.Build(
		coreSet,
		internal.NewCommand,
	)

	return nil, nil
}
