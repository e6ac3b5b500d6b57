package queue

import (
	"context"

	"github.com/mtgto/jasper/api"
)

// Task performs one network round trip. It must honor ctx cancellation,
// including during a rate-limit suspension, and settles exactly once through
// its return values.
type Task func(ctx context.Context) (*api.Response, error)

// Queue schedules tasks across client instances. Ordering and concurrency
// policy belong entirely to the implementation; clients only distinguish
// ordered submission from immediate dispatch, and scope cancellation with
// their owner key.
//
// Push runs task subject to the queue's ordering policy and blocks until the
// task settles. PushImmediate bypasses the ordering and runs the task as soon
// as possible. Cancel abandons all pending and in-flight work registered
// under ownerKey; work that already settled is unaffected.
type Queue interface {
	Push(ctx context.Context, ownerKey string, task Task) (*api.Response, error)
	PushImmediate(ctx context.Context, ownerKey string, task Task) (*api.Response, error)
	Cancel(ownerKey string)
}
