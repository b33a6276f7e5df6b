package notify

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const channelPrefix = "register:changed:"

func Channel(collection string) string { return channelPrefix + collection }

// Publisher fans collection-change events out over Redis pub/sub. Every
// committed write publishes the collection name; subscribers re-read the
// full collection on each event, so they always see a whole snapshot.
type Publisher struct{ rdb *redis.Client }

func NewPublisher(rdb *redis.Client) *Publisher { return &Publisher{rdb: rdb} }

// CollectionChanged signals that some document in the collection changed.
// Failures are logged, not returned: a missed event only delays refresh
// until the next change.
func (p *Publisher) CollectionChanged(ctx context.Context, collection string) {
	if p == nil || p.rdb == nil {
		return
	}
	if err := p.rdb.Publish(ctx, Channel(collection), collection).Err(); err != nil {
		log.Warn().Err(err).Str("collection", collection).Msg("change notification failed")
	}
}

// Subscribe opens a pub/sub subscription for the given collections.
// The caller owns the returned subscription and must Close it.
func (p *Publisher) Subscribe(ctx context.Context, collections ...string) *redis.PubSub {
	chans := make([]string, len(collections))
	for i, c := range collections {
		chans[i] = Channel(c)
	}
	return p.rdb.Subscribe(ctx, chans...)
}

// Listen invokes onChange with the collection name for every published
// change until ctx is cancelled.
func (p *Publisher) Listen(ctx context.Context, onChange func(collection string), collections ...string) error {
	sub := p.Subscribe(ctx, collections...)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			onChange(msg.Payload)
		}
	}
}
