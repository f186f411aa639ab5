/*
Package config reads the instance configuration of a code font build.

The configuration is a YAML document mapping package names to instances, and
each instance to its location in the design space plus a style-linking name:

	Code:
	  Linear:
	    wght: 400
	    CASL: 0
	    MONO: 1
	    slnt: 0
	    CRSV: 0
	    style: Regular

Packages and instances keep the order of the document.
*/
package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/npillmayer/schuko/tracing"
	"gopkg.in/yaml.v3"
)

// tracer writes to trace with key 'recmono.config'
func tracer() tracing.Trace {
	return tracing.Select("recmono.config")
}

var (
	// ErrMissingKey is returned if an instance lacks an axis value or its style.
	ErrMissingKey = errors.New("configuration: missing key")
	// ErrMalformed is returned for documents which do not have the expected shape.
	ErrMalformed = errors.New("configuration: malformed")
)

// Axes are the design axes every instance has to pin, in the order they are
// passed to the instancer.
var Axes = []string{"wght", "CASL", "MONO", "slnt", "CRSV"}

const styleKey = "style"

// AxisValue pins one design axis.
type AxisValue struct {
	Tag   string
	Value float64
}

func (av AxisValue) String() string {
	return fmt.Sprintf("%s=%g", av.Tag, av.Value)
}

// Instance is a static font to generate.
type Instance struct {
	Name  string // display name, e.g. "Linear Bold"
	Wght  float64
	CASL  float64
	MONO  float64
	Slnt  float64
	CRSV  float64
	Style string // style-linking name, e.g. "Bold"
}

// Location returns the instance's axis values, ordered as Axes.
func (inst Instance) Location() []AxisValue {
	return []AxisValue{
		{"wght", inst.Wght},
		{"CASL", inst.CASL},
		{"MONO", inst.MONO},
		{"slnt", inst.Slnt},
		{"CRSV", inst.CRSV},
	}
}

func (inst *Instance) set(axis string, v float64) {
	switch axis {
	case "wght":
		inst.Wght = v
	case "CASL":
		inst.CASL = v
	case "MONO":
		inst.MONO = v
	case "slnt":
		inst.Slnt = v
	case "CRSV":
		inst.CRSV = v
	}
}

// Package is a group of instances which are written to a common directory
// and optionally packed into one font collection.
type Package struct {
	Name      string
	Instances []Instance
}

// Config is the complete instance configuration.
type Config struct {
	Packages []Package
}

// Len returns the number of instances over all packages.
func (c *Config) Len() int {
	n := 0
	for _, p := range c.Packages {
		n += len(p.Instances)
	}
	return n
}

// Load reads the configuration from a YAML file.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	conf, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	tracer().Infof("configuration %s: %d packages, %d instances", path, len(conf.Packages), conf.Len())
	return conf, nil
}

// Parse reads the configuration from a YAML document.
func Parse(r io.Reader) (*Config, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrMalformed)
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrMalformed)
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode || len(root.Content) == 0 {
		return nil, fmt.Errorf("%w: expected a mapping of packages (line %d)", ErrMalformed, root.Line)
	}
	conf := &Config{}
	if err := checkUnique(root, "package"); err != nil {
		return nil, err
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		pkg, err := parsePackage(root.Content[i], root.Content[i+1])
		if err != nil {
			return nil, err
		}
		conf.Packages = append(conf.Packages, pkg)
	}
	return conf, nil
}

// checkUnique rejects mappings which repeat a key. The node API of yaml.v3
// does not.
func checkUnique(mapping *yaml.Node, what string) error {
	lines := make(map[string]int, len(mapping.Content)/2)
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		key := mapping.Content[i]
		if first, ok := lines[key.Value]; ok {
			return fmt.Errorf("%w: duplicate %s %q (lines %d and %d)",
				ErrMalformed, what, key.Value, first, key.Line)
		}
		lines[key.Value] = key.Line
	}
	return nil
}

func parsePackage(key, value *yaml.Node) (Package, error) {
	pkg := Package{Name: key.Value}
	if value.Kind != yaml.MappingNode {
		return pkg, fmt.Errorf("%w: package %q: expected a mapping of instances (line %d)",
			ErrMalformed, pkg.Name, value.Line)
	}
	if err := checkUnique(value, "instance"); err != nil {
		return pkg, fmt.Errorf("package %q: %w", pkg.Name, err)
	}
	for i := 0; i+1 < len(value.Content); i += 2 {
		inst, err := parseInstance(value.Content[i], value.Content[i+1])
		if err != nil {
			return pkg, fmt.Errorf("package %q: %w", pkg.Name, err)
		}
		pkg.Instances = append(pkg.Instances, inst)
	}
	return pkg, nil
}

func parseInstance(key, value *yaml.Node) (Instance, error) {
	inst := Instance{Name: key.Value}
	if value.Kind != yaml.MappingNode {
		return inst, fmt.Errorf("%w: instance %q: expected a mapping (line %d)", ErrMalformed, inst.Name, value.Line)
	}
	if err := checkUnique(value, "key"); err != nil {
		return inst, fmt.Errorf("instance %q: %w", inst.Name, err)
	}
	fields := make(map[string]*yaml.Node, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		fields[value.Content[i].Value] = value.Content[i+1]
	}
	for _, axis := range Axes {
		node, ok := fields[axis]
		if !ok {
			return inst, fmt.Errorf("%w: instance %q: %s", ErrMissingKey, inst.Name, axis)
		}
		var v float64
		if node.Kind != yaml.ScalarNode || node.Decode(&v) != nil {
			return inst, fmt.Errorf("%w: instance %q: %s is not a number (line %d)",
				ErrMalformed, inst.Name, axis, node.Line)
		}
		inst.set(axis, v)
		delete(fields, axis)
	}
	node, ok := fields[styleKey]
	if !ok {
		return inst, fmt.Errorf("%w: instance %q: %s", ErrMissingKey, inst.Name, styleKey)
	}
	if node.Kind != yaml.ScalarNode || node.Value == "" {
		return inst, fmt.Errorf("%w: instance %q: %s must be a name (line %d)",
			ErrMalformed, inst.Name, styleKey, node.Line)
	}
	inst.Style = node.Value
	delete(fields, styleKey)
	for k := range fields {
		tracer().Infof("instance %q: ignoring unknown key %q", inst.Name, k)
	}
	return inst, nil
}
