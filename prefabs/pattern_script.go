package prefabs

import (
	"context"
	"fmt"
	"time"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
)

// scriptTimeout bounds a pattern script run; scripts execute on the game
// thread during preset reloads.
var scriptTimeout = 250 * time.Millisecond

// RunPatternScript runs a tengo pattern generator. The script sees its
// parameters as the global map `params` and must define `width` (int) and
// `pattern` (array of bool).
func RunPatternScript(name string, params map[string]any) ([]bool, int, error) {
	src, err := LoadScript(name)
	if err != nil {
		return nil, 0, fmt.Errorf("pattern script %s: %w", name, err)
	}
	return runPatternSource(name, src, params)
}

func runPatternSource(name string, src []byte, params map[string]any) ([]bool, int, error) {
	if params == nil {
		params = map[string]any{}
	}

	script := tengo.NewScript(src)
	if err := script.Add("params", params); err != nil {
		return nil, 0, fmt.Errorf("pattern script %s: params: %w", name, err)
	}
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	ctx, cancel := context.WithTimeout(context.Background(), scriptTimeout)
	defer cancel()
	compiled, err := script.RunContext(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("pattern script %s: %w", name, err)
	}

	if !compiled.IsDefined("width") || !compiled.IsDefined("pattern") {
		return nil, 0, fmt.Errorf("pattern script %s: must define width and pattern", name)
	}
	width := compiled.Get("width").Int()

	raw := compiled.Get("pattern").Array()
	if raw == nil {
		return nil, 0, fmt.Errorf("pattern script %s: pattern is not an array", name)
	}
	pattern := make([]bool, len(raw))
	for i, v := range raw {
		b, ok := v.(bool)
		if !ok {
			return nil, 0, fmt.Errorf("pattern script %s: cell %d is %T, want bool", name, i, v)
		}
		pattern[i] = b
	}
	return pattern, width, nil
}
