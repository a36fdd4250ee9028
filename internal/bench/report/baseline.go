package report

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/tidwall/gjson"
	"go.trai.ch/zerr"

	"github.com/wesleyorama2/schedbench/internal/bench/engine"
)

//go:embed schema.json
var documentSchema string

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

// ErrInvalidBaseline is returned when a baseline file is not a valid report.
var ErrInvalidBaseline = zerr.New("invalid baseline")

// Baseline is the subset of a report used for comparisons.
type Baseline struct {
	Name        string
	Fingerprint string
	Count       int
	Strategies  []BaselineStrategy
}

// BaselineStrategy is the elapsed time of one strategy in a baseline.
type BaselineStrategy struct {
	Name             string
	Type             string
	ElapsedMs        int64
	UtilizedContexts int
}

// Strategy returns the named strategy, or false if the baseline lacks it.
func (b *Baseline) Strategy(name string) (BaselineStrategy, bool) {
	for _, s := range b.Strategies {
		if s.Name == name {
			return s, true
		}
	}
	return BaselineStrategy{}, false
}

// FromResult converts an in-memory result to a baseline.
func FromResult(result *engine.BenchmarkResult) *Baseline {
	b := &Baseline{
		Name:        result.Name,
		Fingerprint: result.Workload.Fingerprint,
		Count:       result.Workload.Count,
	}
	for _, s := range result.Strategies {
		b.Strategies = append(b.Strategies, BaselineStrategy{
			Name:             s.Name,
			Type:             string(s.Type),
			ElapsedMs:        s.ElapsedMillis(),
			UtilizedContexts: s.UtilizedContexts,
		})
	}
	return b
}

// LoadBaseline reads a JSON report from a file.
func LoadBaseline(path string) (*Baseline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to read baseline"), "path", path)
	}

	b, err := ParseBaseline(data)
	if err != nil {
		return nil, zerr.With(err, "path", path)
	}
	return b, nil
}

// ParseBaseline validates a JSON report against the report schema and
// extracts the fields needed for comparison.
func ParseBaseline(data []byte) (*Baseline, error) {
	if err := ValidateDocument(data); err != nil {
		return nil, err
	}

	doc := gjson.ParseBytes(data)
	b := &Baseline{
		Name:        doc.Get("name").String(),
		Fingerprint: doc.Get("workload.fingerprint").String(),
		Count:       int(doc.Get("workload.count").Int()),
	}

	doc.Get("strategies").ForEach(func(_, s gjson.Result) bool {
		b.Strategies = append(b.Strategies, BaselineStrategy{
			Name:             s.Get("name").String(),
			Type:             s.Get("type").String(),
			ElapsedMs:        s.Get("elapsedMs").Int(),
			UtilizedContexts: int(s.Get("utilizedContexts").Int()),
		})
		return true
	})

	return b, nil
}

// ValidateDocument checks data against the report schema. The returned error
// lists every violation.
func ValidateDocument(data []byte) error {
	schema, err := reportSchema()
	if err != nil {
		return err
	}

	var instance interface{}
	if err := json.Unmarshal(data, &instance); err != nil {
		return zerr.Wrap(ErrInvalidBaseline, "invalid JSON: "+err.Error())
	}

	if err := schema.Validate(instance); err != nil {
		if ve, ok := err.(*jsonschema.ValidationError); ok {
			return zerr.Wrap(ErrInvalidBaseline, strings.Join(validationMessages(ve), "; "))
		}
		return zerr.Wrap(ErrInvalidBaseline, err.Error())
	}
	return nil
}

// reportSchema compiles the embedded schema once.
func reportSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("report.json", strings.NewReader(documentSchema)); err != nil {
			schemaErr = fmt.Errorf("invalid report schema: %w", err)
			return
		}
		compiledSchema, schemaErr = compiler.Compile("report.json")
		if schemaErr != nil {
			schemaErr = fmt.Errorf("invalid report schema: %w", schemaErr)
		}
	})
	return compiledSchema, schemaErr
}

// validationMessages flattens a validation error tree.
func validationMessages(err *jsonschema.ValidationError) []string {
	var out []string
	if err.Message != "" && len(err.Causes) == 0 {
		loc := err.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		out = append(out, fmt.Sprintf("%s: %s", loc, err.Message))
	}
	for _, cause := range err.Causes {
		out = append(out, validationMessages(cause)...)
	}
	return out
}
