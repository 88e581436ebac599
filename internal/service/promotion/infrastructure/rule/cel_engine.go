// internal/service/promotion/infrastructure/rule/cel_engine.go
package rule

import (
	"fmt"
	"sync"

	"garde/internal/service/promotion/domain"

	"github.com/google/cel-go/cel"
)

// CELRuleEngine 是 domain.RuleEngine 的 CEL 实现。
// 优惠码的附加条件（如起订金额）写在配置里的表达式中，
// 例如 "subtotal >= 1500.0"，这里负责编译和求值。
// 典型的适配器：把第三方引擎的 API 适配到领域接口上。
type CELRuleEngine struct {
	env *cel.Env

	mu       sync.RWMutex
	programs map[string]cel.Program // 按表达式缓存编译产物
}

func NewCELRuleEngine() (*CELRuleEngine, error) {
	env, err := cel.NewEnv(
		cel.Variable("subtotal", cel.DoubleType),
		cel.Variable("code", cel.StringType),
		cel.Variable("district", cel.StringType),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}
	return &CELRuleEngine{
		env:      env,
		programs: make(map[string]cel.Program),
	}, nil
}

// Evaluate 实现 domain.RuleEngine。空规则恒为真。
func (e *CELRuleEngine) Evaluate(ruleExpr string, fact domain.Fact) (bool, error) {
	if ruleExpr == "" {
		return true, nil
	}

	prg, err := e.program(ruleExpr)
	if err != nil {
		return false, err
	}

	out, _, err := prg.Eval(map[string]interface{}{
		"subtotal": fact.Subtotal,
		"code":     fact.Code,
		"district": fact.District,
	})
	if err != nil {
		return false, fmt.Errorf("rule evaluation failed: %w", err)
	}

	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("rule %q did not evaluate to a boolean", ruleExpr)
	}
	return result, nil
}

func (e *CELRuleEngine) program(ruleExpr string) (cel.Program, error) {
	e.mu.RLock()
	prg, ok := e.programs[ruleExpr]
	e.mu.RUnlock()
	if ok {
		return prg, nil
	}

	ast, issues := e.env.Compile(ruleExpr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("invalid rule %q: %w", ruleExpr, issues.Err())
	}
	prg, err := e.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("failed to build program for rule %q: %w", ruleExpr, err)
	}

	e.mu.Lock()
	e.programs[ruleExpr] = prg
	e.mu.Unlock()
	return prg, nil
}
