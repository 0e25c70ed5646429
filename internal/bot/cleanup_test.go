package bot

import (
	"context"
	"errors"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDeleter struct {
	deleted []int
	failOn  map[int]bool
	cancel  context.CancelFunc
	afterN  int
}

func (f *fakeDeleter) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	del, ok := c.(tgbotapi.DeleteMessageConfig)
	if !ok {
		return nil, errors.New("unexpected request type")
	}
	if f.cancel != nil && len(f.deleted) >= f.afterN {
		f.cancel()
	}
	if f.failOn[del.MessageID] {
		return nil, errors.New("message can't be deleted")
	}
	f.deleted = append(f.deleted, del.MessageID)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func TestDeleteRecentMessages_WalksDownward(t *testing.T) {
	deleter := &fakeDeleter{}
	result := deleteRecentMessages(context.Background(), deleter, 1, 10, 4, 0)

	assert.Equal(t, []int{10, 9, 8, 7}, deleter.deleted)
	assert.Equal(t, CleanupResult{Deleted: 4, Failed: 0}, result)
}

func TestDeleteRecentMessages_CountsFailures(t *testing.T) {
	deleter := &fakeDeleter{failOn: map[int]bool{9: true, 7: true}}
	result := deleteRecentMessages(context.Background(), deleter, 1, 10, 4, 0)

	assert.Equal(t, CleanupResult{Deleted: 2, Failed: 2}, result)
}

func TestDeleteRecentMessages_StopsAtMessageOne(t *testing.T) {
	deleter := &fakeDeleter{}
	result := deleteRecentMessages(context.Background(), deleter, 1, 3, 100, 0)

	assert.Equal(t, []int{3, 2, 1}, deleter.deleted)
	assert.Equal(t, 3, result.Deleted)
}

func TestDeleteRecentMessages_CancelStopsEarly(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	deleter := &fakeDeleter{cancel: cancel, afterN: 2}

	result := deleteRecentMessages(ctx, deleter, 1, 100, 100, 0)

	require.LessOrEqual(t, result.Deleted, 3, "cancellation cuts the sweep short")
	assert.Less(t, result.Deleted, 100)
}
