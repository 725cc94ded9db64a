package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/subcommands"
	"gopkg.in/yaml.v3"

	"github.com/simaogato/propfolio-backend/internal/domain"
	"github.com/simaogato/propfolio-backend/internal/report"
	"github.com/simaogato/propfolio-backend/internal/usecase/metrics"
)

type calcCmd struct {
	snapshot string
	currency string
	asJSON   bool
}

func (*calcCmd) Name() string     { return "calc" }
func (*calcCmd) Synopsis() string { return "compute the metrics of a property snapshot file" }
func (*calcCmd) Usage() string {
	return `propcalc calc -snapshot <file.json> [-currency USD] [-json]

  Reads a property snapshot (the same JSON accepted by POST /v1/metrics/calculate),
  runs the metrics engine and prints the result. Files ending in .yaml or .yml
  are read as YAML with the same field names. Use "-" to read JSON from stdin.
`
}

func (c *calcCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.snapshot, "snapshot", "", "path to the snapshot JSON file, or - for stdin")
	f.StringVar(&c.currency, "currency", "USD", "ISO 4217 code used to format amounts")
	f.BoolVar(&c.asJSON, "json", false, "print the raw result as JSON")
}

func (c *calcCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.snapshot == "" {
		fmt.Fprintln(os.Stderr, "-snapshot is required")
		return subcommands.ExitUsageError
	}

	snapshot, err := readSnapshot(c.snapshot)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	if err := c.run(os.Stdout, snapshot); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func (c *calcCmd) run(w io.Writer, snapshot *domain.PropertySnapshot) error {
	result, err := metrics.NewEngine().CalculateMetrics(snapshot)
	if err != nil {
		return err
	}

	if c.asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	out, err := report.Format(result, c.currency)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

func readSnapshot(name string) (*domain.PropertySnapshot, error) {
	var r io.Reader = os.Stdin
	if name != "-" {
		f, err := os.Open(name)
		if err != nil {
			return nil, fmt.Errorf("failed to open snapshot: %w", err)
		}
		defer f.Close()
		r = f
	}

	if ext := strings.ToLower(filepath.Ext(name)); ext == ".yaml" || ext == ".yml" {
		converted, err := yamlToJSON(r)
		if err != nil {
			return nil, fmt.Errorf("failed to decode snapshot %s: %w", name, err)
		}
		r = strings.NewReader(string(converted))
	}

	var snapshot domain.PropertySnapshot
	if err := json.NewDecoder(r).Decode(&snapshot); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot %s: %w", name, err)
	}
	return &snapshot, nil
}

// yamlToJSON re-encodes a YAML document as JSON so the domain JSON decoders
// (decimals, tagged expenses) apply unchanged. Numbers keep their literal
// digits: they are never decoded into float64.
func yamlToJSON(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	value, err := nodeValue(&doc)
	if err != nil {
		return nil, err
	}
	return json.Marshal(value)
}

func nodeValue(n *yaml.Node) (interface{}, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return nodeValue(n.Content[0])
	case yaml.AliasNode:
		return nodeValue(n.Alias)
	case yaml.MappingNode:
		out := make(map[string]interface{}, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i]
			if key.Kind != yaml.ScalarNode || key.ShortTag() != "!!str" {
				return nil, fmt.Errorf("line %d: non-string key %q", key.Line, key.Value)
			}
			v, err := nodeValue(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			out[key.Value] = v
		}
		return out, nil
	case yaml.SequenceNode:
		out := make([]interface{}, 0, len(n.Content))
		for _, item := range n.Content {
			v, err := nodeValue(item)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case yaml.ScalarNode:
		switch n.ShortTag() {
		case "!!int", "!!float":
			// json.Marshal rejects literals that are not valid JSON numbers (.inf, 0x1F)
			return json.Number(n.Value), nil
		case "!!bool":
			var b bool
			if err := n.Decode(&b); err != nil {
				return nil, err
			}
			return b, nil
		case "!!null":
			return nil, nil
		default:
			return n.Value, nil
		}
	default:
		return nil, fmt.Errorf("line %d: unsupported YAML node", n.Line)
	}
}
