package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/delaneyj/fiberparty/noop"
	"github.com/delaneyj/fiberparty/reconciler"
	"github.com/delaneyj/fiberparty/scheduler"
	"github.com/delaneyj/fiberparty/ui"
	"gopkg.in/yaml.v3"
)

// Scenario is a sequence of keyed lists rendered into one container.
type Scenario struct {
	Name  string `yaml:"name"`
	Steps []Step `yaml:"steps"`
}

type Step struct {
	Keys []string `yaml:"keys"`
	// Priority is a scheduler priority or lane name; empty means sync.
	Priority string `yaml:"priority,omitempty"`
	// Wrap is the host element holding the list, "ul" by default.
	Wrap string `yaml:"wrap,omitempty"`
}

type StepResult struct {
	Keys     []string
	Priority scheduler.Priority
	Ops      []noop.Op
	Passes   int
	Live     int
	Text     string
	Tree     string
}

var errNoSteps = errors.New("scenario has no steps")

func LoadScenario(path string) (*Scenario, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	sc, err := ParseScenario(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if sc.Name == "" {
		sc.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return sc, nil
}

func ParseScenario(b []byte) (*Scenario, error) {
	sc := &Scenario{}
	if err := yaml.Unmarshal(b, sc); err != nil {
		return nil, err
	}
	if len(sc.Steps) == 0 {
		return nil, errNoSteps
	}
	for i, step := range sc.Steps {
		if _, err := parsePriority(step.Priority); err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return sc, nil
}

func parsePriority(s string) (scheduler.Priority, error) {
	switch strings.ToLower(s) {
	case "", "sync", "immediate":
		return scheduler.ImmediatePriority, nil
	case "user-blocking", "input", "continuous":
		return scheduler.UserBlockingPriority, nil
	case "normal", "default":
		return scheduler.NormalPriority, nil
	case "low":
		return scheduler.LowPriority, nil
	case "idle":
		return scheduler.IdlePriority, nil
	default:
		return scheduler.NoPriority, fmt.Errorf("unknown priority %q", s)
	}
}

func (step Step) element() *ui.Element {
	wrap := step.Wrap
	if wrap == "" {
		wrap = "ul"
	}
	items := make([]any, len(step.Keys))
	for i, k := range step.Keys {
		items[i] = ui.H("li", ui.Props{"key": k}, k)
	}
	return ui.H(wrap, nil, items...)
}

// Run renders every step into a fresh noop container and records the host
// calls each one caused.
func (sc *Scenario) Run(logger *slog.Logger) ([]StepResult, error) {
	var renderErr error
	r := noop.New(noop.Options{
		Logger: logger,
		OnError: func(_ *reconciler.Root, err error) {
			renderErr = errors.Join(renderErr, err)
		},
	})
	root := r.CreateRoot()

	results := make([]StepResult, 0, len(sc.Steps))
	for i, step := range sc.Steps {
		p, err := parsePriority(step.Priority)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}

		r.Host.Reset()
		passes := root.Stats().RenderPasses
		if p == scheduler.ImmediatePriority {
			err = root.RenderSync(step.element())
		} else {
			root.RenderAt(p, step.element())
			r.Flush()
			err = renderErr
		}
		renderErr = nil
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}

		results = append(results, StepResult{
			Keys:     step.Keys,
			Priority: p,
			Ops:      r.Host.Ops(),
			Passes:   root.Stats().RenderPasses - passes,
			Live:     r.Host.Live(),
			Text:     root.Container.Text(),
			Tree:     root.Container.Tree(),
		})
	}
	return results, nil
}
