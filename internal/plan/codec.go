package plan

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed plan.schema.json
var schemaJSON []byte

const schemaURL = "plan.schema.json"

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func planSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
			schemaErr = fmt.Errorf("plan: load schema: %w", err)
			return
		}
		compiledSchema, schemaErr = compiler.Compile(schemaURL)
		if schemaErr != nil {
			schemaErr = fmt.Errorf("plan: compile schema: %w", schemaErr)
		}
	})
	return compiledSchema, schemaErr
}

// Encode renders a plan as pretty-printed JSON with two-space indentation.
func Encode(p Plan) ([]byte, error) {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("plan: encode: %w", err)
	}
	return append(data, '\n'), nil
}

// Decode parses and validates a plan document. It returns either a typed
// Plan, a *ParseError for malformed JSON, or a *ValidationError listing every
// offending field. Out-of-range rotate and scale values are clamped rather
// than rejected; unknown sign types are kept as-is.
func Decode(data []byte) (Plan, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return Plan{}, &ParseError{Err: err}
	}
	schema, err := planSchema()
	if err != nil {
		return Plan{}, err
	}
	if err := schema.Validate(doc); err != nil {
		var verr *jsonschema.ValidationError
		if errors.As(err, &verr) {
			return Plan{}, &ValidationError{Issues: schemaIssues(verr)}
		}
		return Plan{}, fmt.Errorf("plan: validate: %w", err)
	}

	var wire struct {
		Version  *json.Number   `json:"version"`
		Objects  []PlacedObject `json:"objects"`
		Polyline []Vertex       `json:"polyline"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return Plan{}, &ParseError{Err: err}
	}

	var issues []Issue
	if wire.Version != nil {
		if v, err := wire.Version.Float64(); err != nil || v != Version {
			issues = append(issues, Issue{Field: "version", Problem: fmt.Sprintf("unsupported version %s", wire.Version.String())})
		}
	}
	seen := make(map[string]int, len(wire.Objects))
	for i, obj := range wire.Objects {
		if first, dup := seen[obj.ID]; dup {
			issues = append(issues, Issue{
				Field:   fmt.Sprintf("objects[%d].id", i),
				Problem: fmt.Sprintf("duplicate id %q (first used by objects[%d])", obj.ID, first),
			})
			continue
		}
		seen[obj.ID] = i
	}
	if len(issues) > 0 {
		return Plan{}, &ValidationError{Issues: issues}
	}

	p := Plan{Version: Version, Objects: wire.Objects, Polyline: wire.Polyline}
	if p.Objects == nil {
		p.Objects = []PlacedObject{}
	}
	if p.Polyline == nil {
		p.Polyline = []Vertex{}
	}
	for i := range p.Objects {
		p.Objects[i].Rotate = ClampRotate(p.Objects[i].Rotate)
		p.Objects[i].Scale = ClampScale(p.Objects[i].Scale)
	}
	return p, nil
}

var quotedName = regexp.MustCompile(`'([^']*)'|"([^"]*)"`)

// schemaIssues flattens a schema validation tree into leaf issues. Missing
// property errors are expanded into one issue per missing field.
func schemaIssues(root *jsonschema.ValidationError) []Issue {
	var issues []Issue
	var walk func(*jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) > 0 {
			for _, cause := range e.Causes {
				walk(cause)
			}
			return
		}
		field := pointerToField(e.InstanceLocation)
		if names, ok := missingProperties(e.Message); ok {
			for _, name := range names {
				issues = append(issues, Issue{Field: joinField(field, name), Problem: "is required"})
			}
			return
		}
		issues = append(issues, Issue{Field: field, Problem: e.Message})
	}
	walk(root)
	sort.SliceStable(issues, func(i, j int) bool {
		if issues[i].Field != issues[j].Field {
			return issues[i].Field < issues[j].Field
		}
		return issues[i].Problem < issues[j].Problem
	})
	return issues
}

func missingProperties(message string) ([]string, bool) {
	const prefix = "missing properties:"
	if !strings.HasPrefix(message, prefix) {
		return nil, false
	}
	var names []string
	for _, m := range quotedName.FindAllStringSubmatch(message[len(prefix):], -1) {
		name := m[1]
		if name == "" {
			name = m[2]
		}
		if name != "" {
			names = append(names, name)
		}
	}
	return names, len(names) > 0
}

// pointerToField turns a JSON pointer such as /objects/0/lat into
// objects[0].lat.
func pointerToField(pointer string) string {
	pointer = strings.TrimPrefix(pointer, "#")
	if pointer == "" || pointer == "/" {
		return ""
	}
	var b strings.Builder
	for _, token := range strings.Split(strings.TrimPrefix(pointer, "/"), "/") {
		token = strings.ReplaceAll(strings.ReplaceAll(token, "~1", "/"), "~0", "~")
		if _, err := strconv.Atoi(token); err == nil && b.Len() > 0 {
			b.WriteString("[" + token + "]")
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(token)
	}
	return b.String()
}

func joinField(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}
