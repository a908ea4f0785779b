package requestctx

import "context"

type ctxKey int

const (
	keyRequestID ctxKey = iota
	keyOwnerID
)

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, keyRequestID, id)
}

func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(keyRequestID).(string)
	return id
}

func WithOwnerID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, keyOwnerID, id)
}

func GetOwnerID(ctx context.Context) string {
	id, _ := ctx.Value(keyOwnerID).(string)
	return id
}
