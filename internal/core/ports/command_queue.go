package ports

import "context"

// CommandQueue stores commands for external services whose delivery failed, to
// be replayed later.
type CommandQueue interface {
	Enqueue(ctx context.Context, kind string, payload any) error
}

type commandQueueKey struct{}

// ContextWithCommandQueue scopes deferred commands to q for calls made with the
// returned context. Command handlers use it to enlist the outbox in their
// transaction.
func ContextWithCommandQueue(ctx context.Context, q CommandQueue) context.Context {
	return context.WithValue(ctx, commandQueueKey{}, q)
}

// CommandQueueFromContext returns the queue set by ContextWithCommandQueue.
func CommandQueueFromContext(ctx context.Context) (CommandQueue, bool) {
	q, ok := ctx.Value(commandQueueKey{}).(CommandQueue)
	return q, ok && q != nil
}
