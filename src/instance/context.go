package instance

import (
	"context"
)

type key int

// Key 上下文中存储实例的键。
const Key key = 0x464c56

// WithInstance 返回携带 inst 的上下文。
func WithInstance(ctx context.Context, inst *Instance) context.Context {
	return context.WithValue(ctx, Key, inst)
}

// GetInstance 从给定的上下文中获取实例，不存在时返回 nil。
func GetInstance(ctx context.Context) *Instance {
	if ctx == nil {
		return nil
	}
	if s, ok := ctx.Value(Key).(*Instance); ok {
		return s
	}
	return nil
}
