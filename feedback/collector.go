package feedback

import (
	"context"

	"github.com/rushteam/rtrec/core"
)

// Recorder 接收用户行为（引擎实现它，模拟器 / 接入层调用它）。
type Recorder interface {
	RecordInteraction(ctx context.Context, in core.Interaction) error
}

// Sink 是行为提交后的下游（例如外部存储镜像）。
// 引擎在释放写锁之后调用 Append，Sink 的失败不影响已提交的行为。
type Sink interface {
	Name() string
	Append(ctx context.Context, in core.Interaction) error
}

// MultiSink 依次写入多个 Sink，返回第一个错误，但会把所有 Sink 都执行一遍。
type MultiSink []Sink

func (m MultiSink) Name() string { return "multi" }

func (m MultiSink) Append(ctx context.Context, in core.Interaction) error {
	var first error
	for _, s := range m {
		if err := s.Append(ctx, in); err != nil && first == nil {
			first = err
		}
	}
	return first
}
