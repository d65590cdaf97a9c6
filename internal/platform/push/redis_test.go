package push

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestUserChannel(t *testing.T) {
	require.Equal(t, "user:abc", UserChannel("abc"))
}

func TestRedisNotifier_PublishWrapsPayloadInEnvelope(t *testing.T) {
	client, mock := redismock.NewClientMock()
	n := newWithClient(client, zap.NewNop().Sugar())

	payload := map[string]string{"transaction_id": "tx-1"}
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	expected, err := json.Marshal(envelope{Event: "payment_received", Payload: raw})
	require.NoError(t, err)

	mock.ExpectPublish(UserChannel("seller-1"), expected).SetVal(1)

	err = n.Publish(context.Background(), UserChannel("seller-1"), "payment_received", payload)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisNotifier_PublishError(t *testing.T) {
	client, mock := redismock.NewClientMock()
	n := newWithClient(client, zap.NewNop().Sugar())

	mock.ExpectPublish(UserChannel("u1"), []byte(`{"event":"x","payload":null}`)).
		SetErr(errors.New("connection reset"))

	err := n.Publish(context.Background(), UserChannel("u1"), "x", nil)
	require.Error(t, err)
}
