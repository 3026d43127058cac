package telegram

import (
	"context"
	"fmt"

	"github.com/gotd/td/tg"
)

// Maximum messages per MessagesGetHistory request.
const pageSize = 100

// historyIterator pages through a channel's history with an OffsetID cursor.
// The cursor only advances after a page has been fetched successfully, so a
// request that fails with a flood wait is simply re-issued on the next Next
// call and cannot re-emit messages that were already handed out.
type historyIterator struct {
	client *Client
	peer   *tg.InputPeerChannel
	handle string
	limit  int

	offsetID int
	buf      []Message
	cur      Message
	count    int
	done     bool
	err      error
}

func (it *historyIterator) Next(ctx context.Context) bool {
	// A previous flood wait is retryable; anything the caller chose to
	// ignore is retried the same way since the cursor never moved.
	it.err = nil

	for {
		if len(it.buf) > 0 {
			it.cur = it.buf[0]
			it.buf = it.buf[1:]
			it.count++
			return true
		}
		if it.done || it.count >= it.limit {
			return false
		}
		if !it.fill(ctx) {
			return false
		}
	}
}

func (it *historyIterator) Message() Message { return it.cur }

func (it *historyIterator) Err() error { return it.err }

// fill fetches the next page into the buffer. Returns false when the history
// is exhausted or an error occurred.
func (it *historyIterator) fill(ctx context.Context) bool {
	want := it.limit - it.count
	if want > pageSize {
		want = pageSize
	}

	if err := it.client.limiter.Wait(ctx); err != nil {
		it.err = err
		return false
	}

	res, err := it.client.api.MessagesGetHistory(ctx, &tg.MessagesGetHistoryRequest{
		Peer:     it.peer,
		Limit:    want,
		OffsetID: it.offsetID,
	})
	if err != nil {
		it.err = fmt.Errorf("failed to get history for %s: %w", it.handle, classify(err))
		return false
	}

	var page []tg.MessageClass
	switch h := res.(type) {
	case *tg.MessagesMessages:
		page = h.Messages
	case *tg.MessagesChannelMessages:
		page = h.Messages
	default:
		it.err = fmt.Errorf("unexpected history result type for %s: %T", it.handle, res)
		return false
	}

	if len(page) == 0 {
		it.done = true
		return false
	}

	// History comes newest first; the last entry has the smallest ID and
	// becomes the cursor for the next page.
	it.offsetID = page[len(page)-1].GetID()

	for _, mc := range page {
		if msg, ok := parseMessage(mc); ok {
			it.buf = append(it.buf, msg)
		}
	}
	if len(page) < want {
		it.done = true
	}
	return len(it.buf) > 0 || !it.done
}
