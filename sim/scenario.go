package sim

import (
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/wippyai/comproxy"
	"github.com/wippyai/comproxy/errors"
)

// Scenario describes a simulated object graph.
//
//	root:
//	  type: Application
//	  events: true
//	  props: {Name: Microsoft Excel}
//	  objects:
//	    Workbooks:
//	      type: Workbooks
//	      item_type: Workbook
//	      items:
//	        - type: Workbook
//	          props: {Name: Book1.xlsx}
type Scenario struct {
	Root *ObjectSpec `yaml:"root"`
}

// ObjectSpec describes one native object.
type ObjectSpec struct {
	Props    map[string]any         `yaml:"props"`
	Objects  map[string]*ObjectSpec `yaml:"objects"`
	Type     string                 `yaml:"type"`
	ItemType string                 `yaml:"item_type"`
	Items    []*ObjectSpec          `yaml:"items"`
	Events   bool                   `yaml:"events"`
}

// LoadScenarioFile reads a YAML scenario from path and builds a runtime.
func LoadScenarioFile(path string) (*Runtime, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseLoad, errors.KindNotFound, err, "open scenario")
	}
	defer f.Close()
	return LoadScenario(f)
}

// LoadScenario decodes a YAML scenario and builds a runtime.
func LoadScenario(r io.Reader) (*Runtime, error) {
	var s Scenario
	if err := yaml.NewDecoder(r).Decode(&s); err != nil {
		return nil, errors.ParseFailed("scenario", err)
	}
	return Build(&s)
}

// Build creates a runtime populated with the scenario's objects. Every object
// gets an Application property pointing at the root.
func Build(s *Scenario) (*Runtime, error) {
	if s == nil || s.Root == nil {
		return nil, errors.InvalidData(errors.PhaseLoad, "scenario has no root object")
	}
	rt := New()
	b := &builder{rt: rt}
	root, err := b.build(s.Root, "root", nil)
	if err != nil {
		return nil, err
	}
	rt.SetRoot(root)

	rt.mu.Lock()
	for _, h := range b.created {
		if h != root {
			rt.objects[h-1].props["Application"] = root
		}
	}
	rt.mu.Unlock()
	return rt, nil
}

type builder struct {
	rt      *Runtime
	created []comproxy.Handle
}

// build creates spec's object, attaches it to its parent, then builds its
// children, so every child's Parent resolves through an attached ancestor.
func (b *builder) build(spec *ObjectSpec, path string, attach func(comproxy.Handle)) (comproxy.Handle, error) {
	if spec == nil {
		return 0, errors.InvalidData(errors.PhaseLoad, fmt.Sprintf("%s: empty object", path))
	}
	if spec.Type == "" {
		return 0, errors.InvalidData(errors.PhaseLoad, fmt.Sprintf("%s: missing type", path))
	}

	props := make(map[string]comproxy.Value, len(spec.Props))
	for k, v := range spec.Props {
		switch v.(type) {
		case map[string]any, []any:
			return 0, errors.InvalidData(errors.PhaseLoad, fmt.Sprintf("%s.%s: property values must be scalars", path, k))
		}
		props[k] = v
	}

	var h comproxy.Handle
	if spec.ItemType != "" || len(spec.Items) > 0 {
		h = b.rt.NewCollection(spec.Type, spec.ItemType)
		b.rt.mu.Lock()
		for k, v := range props {
			b.rt.objects[h-1].props[k] = v
		}
		b.rt.mu.Unlock()
	} else {
		h = b.rt.NewObject(spec.Type, props)
	}
	b.created = append(b.created, h)
	if spec.Events {
		b.rt.EnableEvents(h)
	}
	if attach != nil {
		attach(h)
	}

	names := make([]string, 0, len(spec.Objects))
	for name := range spec.Objects {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		link := func(child comproxy.Handle) { b.rt.Link(h, name, child) }
		if _, err := b.build(spec.Objects[name], path+"."+name, link); err != nil {
			return 0, err
		}
	}

	for i, item := range spec.Items {
		add := func(child comproxy.Handle) { b.rt.AddItem(h, child) }
		if _, err := b.build(item, fmt.Sprintf("%s[%d]", path, i+1), add); err != nil {
			return 0, err
		}
	}
	return h, nil
}
