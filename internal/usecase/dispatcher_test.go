package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/NasaVasa/carewatch/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testNotification = domain.Notification{
	UserID: "u1",
	Title:  "Critical vital alert",
	Body:   "High fever",
	Link:   domain.Link{URL: "carewatch://alerts?date=2026-10-17"},
}

func TestDeliverAuthorizedUsesChannel(t *testing.T) {
	channel := &fakeChannel{authorization: domain.AuthorizationAuthorized}
	sink := &fakeSink{}
	dispatcher := NewDispatcher(channel, zap.NewNop(), sink)

	path := dispatcher.Deliver(context.Background(), testNotification)

	assert.Equal(t, DeliveredByChannel, path)
	assert.Len(t, channel.sent, 1)
	assert.Empty(t, sink.advisories)
	assert.Equal(t, 0, channel.requests)
}

func TestDeliverUndeterminedRequestsOnce(t *testing.T) {
	channel := &fakeChannel{
		authorization: domain.AuthorizationUndetermined,
		requestResult: domain.AuthorizationAuthorized,
	}
	dispatcher := NewDispatcher(channel, zap.NewNop(), &fakeSink{})

	path := dispatcher.Deliver(context.Background(), testNotification)

	assert.Equal(t, DeliveredByChannel, path)
	assert.Equal(t, 1, channel.requests)
	assert.Len(t, channel.sent, 1)
}

func TestDeliverUndeterminedThenDeniedFallsBack(t *testing.T) {
	channel := &fakeChannel{
		authorization: domain.AuthorizationUndetermined,
		requestResult: domain.AuthorizationDenied,
	}
	sink := &fakeSink{}
	dispatcher := NewDispatcher(channel, zap.NewNop(), sink)

	path := dispatcher.Deliver(context.Background(), testNotification)

	assert.Equal(t, DeliveredByAdvisory, path)
	assert.Equal(t, 1, channel.requests)
	assert.Empty(t, channel.sent)
	require.Len(t, sink.advisories, 1)
	assert.Equal(t, reasonDenied, sink.advisories[0].Reason)
}

func TestDeliverDeniedFallsBack(t *testing.T) {
	channel := &fakeChannel{authorization: domain.AuthorizationDenied}
	sink := &fakeSink{}
	dispatcher := NewDispatcher(channel, zap.NewNop(), sink)

	path := dispatcher.Deliver(context.Background(), testNotification)

	assert.Equal(t, DeliveredByAdvisory, path)
	assert.Equal(t, 0, channel.requests)
	require.Len(t, sink.advisories, 1)
	advisory := sink.advisories[0]
	assert.Equal(t, "u1", advisory.UserID)
	assert.Equal(t, testNotification.Title, advisory.Title)
	assert.Equal(t, testNotification.Link.URL, advisory.URL)
}

func TestDeliverSendFailureFallsBack(t *testing.T) {
	channel := &fakeChannel{authorization: domain.AuthorizationAuthorized, sendErr: errors.New("bot blocked")}
	sink := &fakeSink{}
	dispatcher := NewDispatcher(channel, zap.NewNop(), sink)

	path := dispatcher.Deliver(context.Background(), testNotification)

	assert.Equal(t, DeliveredByAdvisory, path)
	require.Len(t, sink.advisories, 1)
	assert.Equal(t, reasonDeliveryFailed, sink.advisories[0].Reason)
}

func TestDeliverAuthorizationErrorFallsBack(t *testing.T) {
	channel := &fakeChannel{authErr: errors.New("lookup failed")}
	sink := &fakeSink{}
	dispatcher := NewDispatcher(channel, zap.NewNop(), sink)

	assert.Equal(t, DeliveredByAdvisory, dispatcher.Deliver(context.Background(), testNotification))
	assert.Equal(t, reasonAuthError, sink.advisories[0].Reason)
}

func TestDeliverWithoutChannel(t *testing.T) {
	sink := &fakeSink{}
	dispatcher := NewDispatcher(nil, zap.NewNop(), sink)

	assert.Equal(t, DeliveredByAdvisory, dispatcher.Deliver(context.Background(), testNotification))
	assert.Equal(t, reasonNoChannel, sink.advisories[0].Reason)
}

func TestDeliverDropsWhenEverySinkFails(t *testing.T) {
	failing := &fakeSink{err: errors.New("redis down")}
	dispatcher := NewDispatcher(&fakeChannel{authorization: domain.AuthorizationDenied}, zap.NewNop(), failing)

	assert.Equal(t, DeliveryDropped, dispatcher.Deliver(context.Background(), testNotification))
}

func TestDeliverAdvisoryReachesHealthySinks(t *testing.T) {
	failing := &fakeSink{err: errors.New("redis down")}
	healthy := &fakeSink{}
	dispatcher := NewDispatcher(nil, zap.NewNop(), failing, healthy)

	assert.Equal(t, DeliveredByAdvisory, dispatcher.Deliver(context.Background(), testNotification))
	assert.Len(t, healthy.advisories, 1)
}
