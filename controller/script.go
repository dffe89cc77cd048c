package controller

import (
	"github.com/milk9111/animkit/sequence"
)

// ScriptEngine returns the controller wrapped as the surface scripted
// sequences drive.
func (c *Controller) ScriptEngine() sequence.Engine {
	return scriptEngine{c: c}
}

// RegisterScript compiles a tengo sequence script and registers it under
// name. Duplicate names follow NewSequence's rules.
func (c *Controller) RegisterScript(name string, src []byte) error {
	behavior, err := sequence.ScriptBehavior(name, src, c.ScriptEngine())
	if err != nil {
		return err
	}
	c.NewSequence(sequence.Descriptor{Name: name, Behavior: behavior})
	return nil
}

// ReplaceScript recompiles a sequence script and swaps it in, cancelling any
// active run first.
func (c *Controller) ReplaceScript(name string, src []byte) error {
	behavior, err := sequence.ScriptBehavior(name, src, c.ScriptEngine())
	if err != nil {
		return err
	}
	c.ReplaceSequence(sequence.Descriptor{Name: name, Behavior: behavior})
	return nil
}

type scriptEngine struct {
	c *Controller
}

func (e scriptEngine) Play(name string, transition float64) bool {
	_, ok := e.c.Play(name, transition, 0, 0)
	return ok
}

func (e scriptEngine) Stop(name string, transition float64) {
	e.c.Stop(name, transition)
}

func (e scriptEngine) StopAll(transition float64) {
	e.c.StopAll(transition)
}

func (e scriptEngine) IsPlaying(name string) bool {
	return e.c.IsPlaying(name)
}
