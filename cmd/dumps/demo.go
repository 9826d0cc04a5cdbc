package main

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/spf13/pflag"

	"github.com/kootenpv/dumps"
	"github.com/kootenpv/dumps/value"
)

// field and record form an insertion-ordered mapping for the demo data.
type field struct {
	key string
	val any
}

type record []field

func (r record) Len() int          { return len(r) }
func (r record) KeyAt(i int) any   { return r[i].key }
func (r record) ValueAt(i int) any { return r[i].val }

type person struct {
	Name string
	Age  int
}

func (p person) Repr() string { return fmt.Sprintf("Person(name='%s', age=%d)", p.Name, p.Age) }

func demoRecord() record {
	return record{
		{"name", "John Doe"},
		{"age", 30},
		{"active", true},
		{"balance", 1234.56},
		{"tags", []string{"python", "rust", "json"}},
		{"metadata", record{
			{"created", "2024-01-01"},
			{"modified", "2024-01-10"},
		}},
		{"tuple_data", [3]int{1, 2, 3}},
		{"set_data", map[int]struct{}{1: {}, 2: {}, 3: {}}},
		{"none_value", nil},
		{"bytes_data", []byte("Hello, bytes!")},
	}
}

func demoCmd(e *env, args []string) error {
	fs := pflag.NewFlagSet("demo", pflag.ContinueOnError)
	fs.SetOutput(e.stderr)
	verbose := fs.BoolP("verbose", "v", false, "log debug details to stderr")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if e.logger == nil {
		e.logger = newLogger(e.stderr, *verbose)
	}

	data := demoRecord()
	opts := dumps.Options{Bytes: dumps.BytesUTF8}

	compact, err := dumps.Serialize(data, opts)
	if err != nil {
		return err
	}
	opts.Pretty = true
	pretty, err := dumps.Serialize(data, opts)
	if err != nil {
		return err
	}
	fmt.Fprintf(e.stdout, "Compact JSON:\n%s\n\n", compact)
	fmt.Fprintf(e.stdout, "Pretty JSON:\n%s\n\n", pretty)

	restored, err := dumps.Deserialize(compact)
	if err != nil {
		return err
	}
	fmt.Fprintf(e.stdout, "Restored data:\n%v\n\n", value.Native(restored))
	m, ok := restored.(*value.Mapping)
	if !ok {
		return errors.Newf("restored %s, want mapping", restored.Kind())
	}
	for _, k := range []string{"tuple_data", "set_data"} {
		v, _ := m.Get(k)
		fmt.Fprintf(e.stdout, "Note: %s became %s\n", k, v.Kind())
	}
	fmt.Fprintln(e.stdout)

	custom, err := dumps.Serialize(record{{"person", person{Name: "Alice", Age: 25}}}, dumps.Pretty())
	if err != nil {
		return err
	}
	fmt.Fprintf(e.stdout, "Custom object serialization:\n%s\n", custom)
	e.logger.Debug("demo finished", "compact_bytes", len(compact))
	return nil
}
