package network

import (
	"context"
	"fmt"
	"time"

	"github.com/cbodonnell/tetris/pkg/log"
	"github.com/cbodonnell/tetris/pkg/messages"
	"nhooyr.io/websocket"
)

// WriteTimeout bounds a single write to a live feed connection
const WriteTimeout = 5 * time.Second

// ServeSubscriber writes the initial payload and then every update queued for
// the subscriber until the client goes away, the subscription ends or ctx is
// cancelled. Messages sent by the client are discarded.
func ServeSubscriber(ctx context.Context, conn *websocket.Conn, subscriber *Subscriber, initial []byte) error {
	ctx = conn.CloseRead(ctx)

	if err := WriteMessageToWS(ctx, conn, initial); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			log.Trace("Live feed connection closed for subscriber %d", subscriber.ID)
			return nil
		case payload, ok := <-subscriber.Updates():
			if !ok {
				return nil
			}
			if err := WriteMessageToWS(ctx, conn, payload); err != nil {
				return err
			}
		}
	}
}

// WriteMessageToWS writes a serialized message to a WebSocket connection
func WriteMessageToWS(ctx context.Context, conn *websocket.Conn, b []byte) error {
	ctx, cancel := context.WithTimeout(ctx, WriteTimeout)
	defer cancel()

	if err := conn.Write(ctx, websocket.MessageText, b); err != nil {
		return fmt.Errorf("failed to write message to WebSocket connection: %v", err)
	}

	return nil
}

// ReadLeaderboardFromWS reads a leaderboard message from a WebSocket connection
func ReadLeaderboardFromWS(ctx context.Context, conn *websocket.Conn) (*messages.Leaderboard, error) {
	_, b, err := conn.Read(ctx)
	if err != nil {
		return nil, err
	}

	leaderboard, err := messages.DeserializeLeaderboard(b)
	if err != nil {
		return nil, fmt.Errorf("failed to deserialize message: %v", err)
	}

	return leaderboard, nil
}
