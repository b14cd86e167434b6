// Command provision turns a JSON list of plaintext username/password pairs
// into the hashed credential file read by the creditrisk server.
//
//	provision -in plain.json -out users.json [-scheme bcrypt|argon2id] [-cost 12]
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/aussiebroadwan/creditrisk/internal/risk/credentials"
	"github.com/aussiebroadwan/creditrisk/pkg/cryptox"
)

func main() {
	if err := run(os.Args[1:], os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "provision: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("provision", flag.ContinueOnError)
	fs.SetOutput(stderr)

	in := fs.String("in", "", "plaintext credentials JSON (required)")
	out := fs.String("out", "users.json", "hashed credentials file to write")
	scheme := fs.String("scheme", "bcrypt", "hash scheme: bcrypt or argon2id")
	cost := fs.Int("cost", 0, "bcrypt cost, 0 for the library default")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" {
		fs.Usage()
		return fmt.Errorf("-in is required")
	}

	s, err := cryptox.ParseScheme(*scheme)
	if err != nil {
		return err
	}

	entries, err := credentials.ReadPlaintext(*in)
	if err != nil {
		return err
	}

	records, err := credentials.Provision(entries, credentials.ProvisionOptions{Scheme: s, Cost: *cost})
	if err != nil {
		return err
	}

	if err := credentials.WriteFile(*out, records); err != nil {
		return fmt.Errorf("write %s: %w", *out, err)
	}

	fmt.Fprintf(stderr, "wrote %d credential(s) to %s\n", len(records), *out)
	return nil
}
