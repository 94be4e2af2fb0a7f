package events

import (
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jrosariodev/dealscout/internal/models"
)

// MockRedisClient is a mock for Redis client
type MockRedisClient struct {
	mock.Mock
}

func (m *MockRedisClient) XAdd(ctx context.Context, args *redis.XAddArgs) *redis.StringCmd {
	mockArgs := m.Called(ctx, args)
	cmd := redis.NewStringCmd(ctx)
	if mockArgs.Get(0) != nil {
		cmd.SetErr(mockArgs.Error(0))
	} else {
		cmd.SetVal("1234567890-0")
	}
	return cmd
}

func (m *MockRedisClient) Close() error {
	args := m.Called()
	return args.Error(0)
}

func testDeals() []*models.Deal {
	return []*models.Deal{
		{
			Title: "Samsung Nevera 12 Pies",
			Price: 32500,
			URL:   "https://example.com/neveras/samsung-12",
		},
		{
			Title: "LG Lavadora 18kg",
			Price: 41000,
			URL:   "https://example.com/lavadoras/lg-18",
		},
	}
}

func TestPublisher_PublishDeals(t *testing.T) {
	ctx := context.Background()
	logger := slog.Default()

	t.Run("publishes one event per deal", func(t *testing.T) {
		mockRedis := new(MockRedisClient)
		publisher := NewPublisher(mockRedis, logger)

		deals := testDeals()
		mockRedis.On("XAdd", ctx, mock.MatchedBy(func(args *redis.XAddArgs) bool {
			values := args.Values.(map[string]interface{})
			return args.Stream == StreamDealsScraped &&
				values["event_type"] == "DEAL_SCRAPED" &&
				values["site"] == "electrodomesticos"
		})).Return(nil).Times(len(deals))

		runID, err := publisher.PublishDeals(ctx, "electrodomesticos", deals)
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, runID)

		mockRedis.AssertExpectations(t)
	})

	t.Run("events from one run share a run id", func(t *testing.T) {
		mockRedis := new(MockRedisClient)
		publisher := NewPublisher(mockRedis, logger)

		runIDs := make(map[string]struct{})
		mockRedis.On("XAdd", ctx, mock.MatchedBy(func(args *redis.XAddArgs) bool {
			values := args.Values.(map[string]interface{})
			runIDs[values["run_id"].(string)] = struct{}{}
			return true
		})).Return(nil)

		_, err := publisher.PublishDeals(ctx, "plazalama", testDeals())
		require.NoError(t, err)
		assert.Len(t, runIDs, 1)
	})

	t.Run("partial failure is not fatal", func(t *testing.T) {
		mockRedis := new(MockRedisClient)
		publisher := NewPublisher(mockRedis, logger)

		mockRedis.On("XAdd", ctx, mock.Anything).Return(assert.AnError).Once()
		mockRedis.On("XAdd", ctx, mock.Anything).Return(nil)

		_, err := publisher.PublishDeals(ctx, "electrodomesticos", testDeals())
		assert.NoError(t, err)
	})

	t.Run("total failure returns an error", func(t *testing.T) {
		mockRedis := new(MockRedisClient)
		publisher := NewPublisher(mockRedis, logger)

		mockRedis.On("XAdd", ctx, mock.Anything).Return(assert.AnError)

		_, err := publisher.PublishDeals(ctx, "electrodomesticos", testDeals())
		assert.Error(t, err)
	})

	t.Run("empty run publishes nothing", func(t *testing.T) {
		mockRedis := new(MockRedisClient)
		publisher := NewPublisher(mockRedis, logger)

		_, err := publisher.PublishDeals(ctx, "electrodomesticos", nil)
		require.NoError(t, err)
		mockRedis.AssertNotCalled(t, "XAdd")
	})
}

func TestPublisher_Close(t *testing.T) {
	mockRedis := new(MockRedisClient)
	mockRedis.On("Close").Return(nil)

	publisher := NewPublisher(mockRedis, slog.Default())
	require.NoError(t, publisher.Close())
	mockRedis.AssertExpectations(t)
}
