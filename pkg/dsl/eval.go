// Package dsl 提供基于 CEL 的候选表达式，用于配置驱动的过滤规则。
package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/rushteam/rtrec/core"
	"github.com/rushteam/rtrec/pkg/utils"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvErr  error
	celEnvOnce sync.Once
)

func getCELEnv() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = cel.NewEnv(
			cel.Variable("item", cel.DynType),
			cel.Variable("label", cel.DynType),
			cel.Variable("rctx", cel.DynType),
		)
	})
	return celEnv, celEnvErr
}

// Program 是编译好的 CEL 表达式，线程安全，可被多个请求并发执行。
//
// 可用变量：
//   - item：id / score / reason / algorithm / strategy，以及目录字段 category / genres / rating / popularity
//   - label：label.<key> 直接返回 Label 的 Value，例如 label.recall_source
//   - rctx：user_id / limit / params
//
// 示例：
//   - `item.category == "Books"`
//   - `item.rating < 2.0 && label.recall_source == "recall.trending"`
//   - `"Horror" in item.genres`
type Program struct {
	expr string
	prg  cel.Program
}

// Compile 编译表达式，要求结果为布尔值。
func Compile(expr string) (*Program, error) {
	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("cel env: %w", err)
	}
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile %q: %w", expr, issues.Err())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program %q: %w", expr, err)
	}
	return &Program{expr: expr, prg: prg}, nil
}

// String 返回原始表达式。
func (p *Program) String() string { return p.expr }

// Match 对一个候选求值。
// 访问不存在的 label key 会报错，应先用 `"key" in label` 判断。
func (p *Program) Match(rec *core.Recommendation, rctx *core.RecommendContext) (bool, error) {
	out, _, err := p.prg.Eval(buildInput(rec, rctx))
	if err != nil {
		return false, fmt.Errorf("eval %q: %w", p.expr, err)
	}
	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression %q must return bool, got %T", p.expr, out.Value())
	}
	return result, nil
}

func buildInput(rec *core.Recommendation, rctx *core.RecommendContext) map[string]any {
	item := map[string]any{
		"id":        rec.ItemID,
		"score":     rec.Score,
		"reason":    rec.Reason,
		"algorithm": string(rec.Algorithm),
		"strategy":  string(rec.Strategy),
	}
	ctxInput := map[string]any{}
	if rctx != nil {
		ctxInput["user_id"] = rctx.UserID
		ctxInput["limit"] = rctx.Limit
		params := rctx.Params
		if params == nil {
			params = map[string]any{}
		}
		ctxInput["params"] = params

		if rctx.Data != nil {
			if it, ok := rctx.Data.GetItem(rec.ItemID); ok {
				item["category"] = it.Category
				item["genres"] = it.Genres
				item["rating"] = it.Rating
				item["popularity"] = it.Popularity
			}
		}
	}

	labels := make(map[string]any, len(rec.Labels))
	for k, v := range utils.LabelValues(rec.Labels) {
		labels[k] = v
	}
	return map[string]any{
		"item":  item,
		"label": labels,
		"rctx":  ctxInput,
	}
}
