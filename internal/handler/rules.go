package handler

import (
	"context"
	"fmt"
	"strings"

	"github.com/nerrad567/gray-logic-alice/internal/device"
	"github.com/nerrad567/gray-logic-alice/internal/host"
	"github.com/nerrad567/gray-logic-alice/internal/infrastructure/config"
	"github.com/nerrad567/gray-logic-alice/internal/schema"
)

// RulesErrorCodeFunc compiles the error_code_rules of the entity
// configuration into a device.ErrorCodeFunc. The code of the first
// matching rule wins. Entity state conditions are read from states.
func RulesErrorCodeFunc(cfg config.AliceConfig, states host.StateReader) device.ErrorCodeFunc {
	return func(ctx context.Context, entityID string, action schema.CapabilityInstanceAction) string {
		for _, rule := range cfg.Entity(entityID).ErrorCodeRules {
			if ruleMatches(ctx, rule, action, states) {
				return rule.Code
			}
		}
		return ""
	}
}

func ruleMatches(ctx context.Context, rule config.ErrorCodeRule, action schema.CapabilityInstanceAction, states host.StateReader) bool {
	if rule.Type != "" && !matchesCapabilityType(rule.Type, action.Type) {
		return false
	}
	if rule.Instance != "" && rule.Instance != string(action.State.Instance) {
		return false
	}
	if rule.Value != nil && !valuesEqual(rule.Value, action.State.Value) {
		return false
	}
	if cond := rule.EntityState; cond != nil {
		st, err := states.GetState(ctx, cond.EntityID)
		if err != nil || st.State != cond.State {
			return false
		}
	}
	return true
}

func matchesCapabilityType(want string, t schema.CapabilityType) bool {
	return want == string(t) || "devices.capabilities."+want == string(t)
}

// valuesEqual compares a configured value with a requested one. Numbers
// compare numerically, everything else by its text form.
func valuesEqual(want, got any) bool {
	if _, isBool := want.(bool); !isBool {
		if w, ok := host.ToFloat(want); ok {
			g, ok := host.ToFloat(got)
			return ok && w == g
		}
	}
	return strings.EqualFold(fmt.Sprint(want), fmt.Sprint(got))
}
