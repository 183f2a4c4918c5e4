package di

import (
	"streamwatch/internal/controllers"
	"streamwatch/internal/notify"
	"streamwatch/internal/services"
	"streamwatch/internal/store"
	"streamwatch/internal/subscription"
	"streamwatch/internal/watcher"
)

// The state store and the push client each satisfy several narrow
// interfaces; these providers expose them under each one.

func provideReconcilerStore(s *store.StateStore) watcher.StateStoreInterface {
	return s
}

func provideWebhookRegistry(s *store.StateStore) notify.WebhookRegistryInterface {
	return s
}

func provideWebhookStore(s *store.StateStore) controllers.WebhookStoreInterface {
	return s
}

func provideSubscriptionRegistry(s *store.StateStore) subscription.RegistryInterface {
	return s
}

func provideTopicManager(push notify.PushClientInterface) subscription.TopicManagerInterface {
	return push
}

func provideTokenChecker(push notify.PushClientInterface) subscription.TokenCheckerInterface {
	return push
}

func provideDecisionListener(feed services.FeedServiceInterface) watcher.DecisionListener {
	return feed
}
