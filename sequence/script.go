package sequence

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
)

// Engine is the controller surface a scripted sequence can drive. The
// controller package implements it.
type Engine interface {
	Play(name string, transition float64) bool
	Stop(name string, transition float64)
	StopAll(transition float64)
	IsPlaying(name string) bool
}

// ScriptBehavior compiles a tengo script once and returns a Behavior that
// runs it against engine each spawn. The script sees:
//
//	anim.play(name, transition?)  - start a clip, returns true on success
//	anim.stop(name, transition?)  - stop a clip
//	anim.stop_all(transition?)    - stop every playing clip
//	anim.playing(name)            - whether a clip is playing
//	wait(seconds)                 - cancellable sleep, false if cancelled
//	done()                        - whether the task was cancelled
//	args                          - spawn arguments as an array
//
// Compilation errors are returned; runtime errors are logged per run.
func ScriptBehavior(name string, src []byte, engine Engine) (Behavior, error) {
	script := tengo.NewScript(src)
	_ = script.Add("anim", map[string]any{})
	_ = script.Add("wait", map[string]any{})
	_ = script.Add("done", map[string]any{})
	_ = script.Add("args", []any{})
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("sequence: compile %q: %w", name, err)
	}

	return func(ctx context.Context, args ...any) {
		run := compiled.Clone()
		if err := run.Set("anim", engineMap(engine)); err != nil {
			log.Printf("sequence: %q: %v", name, err)
			return
		}
		err := run.Set("wait", &tengo.UserFunction{Name: "wait", Value: func(a ...tengo.Object) (tengo.Object, error) {
			secs := 0.0
			if len(a) > 0 {
				secs = objectAsFloat(a[0])
			}
			if Wait(ctx, time.Duration(secs*float64(time.Second))) {
				return tengo.TrueValue, nil
			}
			return tengo.FalseValue, nil
		}})
		if err != nil {
			log.Printf("sequence: %q: %v", name, err)
			return
		}
		_ = run.Set("done", &tengo.UserFunction{Name: "done", Value: func(...tengo.Object) (tengo.Object, error) {
			select {
			case <-ctx.Done():
				return tengo.TrueValue, nil
			default:
				return tengo.FalseValue, nil
			}
		}})
		_ = run.Set("args", argsArray(args))
		if err := run.Run(); err != nil {
			log.Printf("sequence: %q script error: %v", name, err)
		}
	}, nil
}

func engineMap(engine Engine) *tengo.ImmutableMap {
	values := map[string]tengo.Object{}

	values["play"] = &tengo.UserFunction{Name: "play", Value: func(a ...tengo.Object) (tengo.Object, error) {
		if engine == nil || len(a) < 1 {
			return tengo.FalseValue, nil
		}
		name := strings.TrimSpace(objectAsString(a[0]))
		if name == "" {
			return tengo.FalseValue, nil
		}
		transition := 0.0
		if len(a) > 1 {
			transition = objectAsFloat(a[1])
		}
		if engine.Play(name, transition) {
			return tengo.TrueValue, nil
		}
		return tengo.FalseValue, nil
	}}

	values["stop"] = &tengo.UserFunction{Name: "stop", Value: func(a ...tengo.Object) (tengo.Object, error) {
		if engine == nil || len(a) < 1 {
			return tengo.FalseValue, nil
		}
		name := strings.TrimSpace(objectAsString(a[0]))
		if name == "" {
			return tengo.FalseValue, nil
		}
		transition := 0.0
		if len(a) > 1 {
			transition = objectAsFloat(a[1])
		}
		engine.Stop(name, transition)
		return tengo.TrueValue, nil
	}}

	values["stop_all"] = &tengo.UserFunction{Name: "stop_all", Value: func(a ...tengo.Object) (tengo.Object, error) {
		if engine == nil {
			return tengo.FalseValue, nil
		}
		transition := 0.0
		if len(a) > 0 {
			transition = objectAsFloat(a[0])
		}
		engine.StopAll(transition)
		return tengo.TrueValue, nil
	}}

	values["playing"] = &tengo.UserFunction{Name: "playing", Value: func(a ...tengo.Object) (tengo.Object, error) {
		if engine == nil || len(a) < 1 {
			return tengo.FalseValue, nil
		}
		if engine.IsPlaying(objectAsString(a[0])) {
			return tengo.TrueValue, nil
		}
		return tengo.FalseValue, nil
	}}

	return &tengo.ImmutableMap{Value: values}
}

func argsArray(args []any) *tengo.Array {
	out := make([]tengo.Object, 0, len(args))
	for _, arg := range args {
		obj, err := tengo.FromInterface(arg)
		if err != nil {
			obj = &tengo.String{Value: fmt.Sprint(arg)}
		}
		out = append(out, obj)
	}
	return &tengo.Array{Value: out}
}

func objectAsString(obj tengo.Object) string {
	if obj == nil {
		return ""
	}
	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	default:
		return strings.Trim(v.String(), "\"")
	}
}

func objectAsFloat(obj tengo.Object) float64 {
	switch v := obj.(type) {
	case *tengo.Float:
		return v.Value
	case *tengo.Int:
		return float64(v.Value)
	default:
		return 0
	}
}
