package ratelimits

import (
	"sync"
	"time"

	"github.com/pkg/errors"
)

const (
	// How many keys a bucket may contain when created
	BUCKET_INITIAL_FILL = 8

	// The maximum amount of keys a user may possess
	BUCKET_UPPER_BOUND = 16

	// How often new keys drip into the buckets
	DROP_INTERVAL = 10 * time.Second

	// How many keys may drop at a time
	DROP_SIZE = 1

	// Keys of a user who got told off, they sit out one interval
	CHILL_ZONE = -1
)

// ErrNoKeys is returned by Drain when the user spent all keys
var ErrNoKeys = errors.New("no keys left")

// Global pointer to a container instance
var Container = NewBucketContainer()

// BucketContainer maps discord user ids to key counts
type BucketContainer struct {
	sync.Mutex

	buckets map[string]int8
	started bool
}

func NewBucketContainer() *BucketContainer {
	return &BucketContainer{buckets: make(map[string]int8)}
}

// Init starts the refiller, calling it again does nothing
func (b *BucketContainer) Init() {
	b.Lock()
	defer b.Unlock()

	if b.started {
		return
	}
	b.started = true
	go b.refiller()
}

func (b *BucketContainer) refiller() {
	for {
		time.Sleep(DROP_INTERVAL)
		b.Refill()
	}
}

// Refill drips keys into every bucket once
func (b *BucketContainer) Refill() {
	b.Lock()
	defer b.Unlock()

	for user, keys := range b.buckets {
		switch {
		case keys == CHILL_ZONE:
			b.buckets[user]++
		case keys == 0:
			b.buckets[user] = BUCKET_INITIAL_FILL
		case keys < BUCKET_UPPER_BOUND:
			b.buckets[user] += DROP_SIZE
		}
	}
}

// bucket must be called with the lock held
func (b *BucketContainer) bucket(user string) int8 {
	keys, ok := b.buckets[user]
	if !ok {
		keys = BUCKET_INITIAL_FILL
		b.buckets[user] = keys
	}
	return keys
}

// Drain takes $amount keys from $user if there are enough left
func (b *BucketContainer) Drain(amount int8, user string) error {
	b.Lock()
	defer b.Unlock()

	if amount > b.bucket(user) {
		return ErrNoKeys
	}
	b.buckets[user] -= amount
	return nil
}

// HasKeys checks if the user still has keys
func (b *BucketContainer) HasKeys(user string) bool {
	b.Lock()
	defer b.Unlock()

	return b.bucket(user) > 0
}

func (b *BucketContainer) Get(user string) int8 {
	b.Lock()
	defer b.Unlock()

	return b.buckets[user]
}

func (b *BucketContainer) Set(user string, value int8) {
	b.Lock()
	b.buckets[user] = value
	b.Unlock()
}
