package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	json "github.com/goccy/go-json"

	brannigan "github.com/ido50/Brannigan"
	"github.com/ido50/Brannigan/schemafile"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	sub := os.Args[1]
	switch sub {
	case "process":
		processCmd(os.Args[2:])
	case "check":
		checkCmd(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "brannigan CLI\n\nUsage:\n  brannigan process -schemas defs.yaml[,more.yaml] -name post [-input doc.json] [-unknown ignore|remove|reject]\n  brannigan check -schemas defs.yaml[,more.yaml]\n\nprocess reads the input document (stdin when -input is omitted), runs it\nthrough the named schema and prints the result as JSON. Exit codes:\n  0 clean, 1 rejected fields, 2 error.")
}

func processCmd(args []string) {
	fs := flag.NewFlagSet("process", flag.ExitOnError)
	var schemasCSV, name, input, unknown string
	fs.StringVar(&schemasCSV, "schemas", "", "comma-separated schema definition files (.yaml/.yml/.json)")
	fs.StringVar(&name, "name", "", "schema to process against")
	fs.StringVar(&input, "input", "", "input JSON document (defaults to stdin)")
	fs.StringVar(&unknown, "unknown", "ignore", "policy for input fields no schema rule matches: ignore, remove or reject")
	_ = fs.Parse(args)
	if schemasCSV == "" || name == "" {
		fs.Usage()
		os.Exit(2)
	}

	b, _, err := loadEngine(schemasCSV)
	if err != nil {
		fatalf("%v", err)
	}
	policy, err := parsePolicy(unknown)
	if err != nil {
		fatalf("%v", err)
	}
	b.SetUnknownPolicy(policy)

	doc, err := readInput(input)
	if err != nil {
		fatalf("read input: %v", err)
	}
	res, err := b.ProcessJSON(name, doc)
	if err != nil {
		fatalf("process: %v", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		fatalf("encode result: %v", err)
	}
	if len(res.Rejects) > 0 {
		os.Exit(1)
	}
}

func checkCmd(args []string) {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	var schemasCSV string
	fs.StringVar(&schemasCSV, "schemas", "", "comma-separated schema definition files (.yaml/.yml/.json)")
	_ = fs.Parse(args)
	if schemasCSV == "" {
		fs.Usage()
		os.Exit(2)
	}

	b, names, err := loadEngine(schemasCSV)
	if err != nil {
		fatalf("%v", err)
	}
	// Processing an empty document forces resolution and compilation of each
	// schema, surfacing inheritance cycles and malformed rules.
	for _, name := range names {
		if _, err := b.Process(name, map[string]any{}); err != nil {
			fatalf("schema %q: %v", name, err)
		}
	}
	fmt.Printf("ok: %d schema(s)\n", len(names))
}

func loadEngine(schemasCSV string) (*brannigan.Brannigan, []string, error) {
	b := brannigan.New()
	var names []string
	for _, path := range splitCSV(schemasCSV) {
		schemas, err := schemafile.LoadFile(path)
		if err != nil {
			return nil, nil, err
		}
		for _, s := range schemas {
			b.RegisterSchema(s)
			names = append(names, s.Name)
		}
	}
	return b, names, nil
}

func parsePolicy(s string) (brannigan.UnknownPolicy, error) {
	switch s {
	case "ignore":
		return brannigan.UnknownIgnore, nil
	case "remove":
		return brannigan.UnknownRemove, nil
	case "reject":
		return brannigan.UnknownReject, nil
	}
	return brannigan.UnknownIgnore, fmt.Errorf("unknown policy %q (want ignore, remove or reject)", s)
}

func readInput(path string) ([]byte, error) {
	if path == "" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(2)
}
