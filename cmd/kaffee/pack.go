package main

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/chazu/kaffee/bundle"
	"github.com/chazu/kaffee/classpath"
)

// handlePackCommand processes the `kaffee pack` subcommand.
// Usage:
//
//	kaffee pack -o app.kbnd classes
//	kaffee pack -o app.kbnd -main demo.Main classes lib/util.kbnd
func handlePackCommand(args []string, stdout, stderr io.Writer) error {
	m, err := loadProject()
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("pack", flag.ContinueOnError)
	fs.SetOutput(stderr)
	output := fs.String("o", "", "Output bundle path")
	mainClass := fs.String("main", m.Run.MainClass, "Main class recorded in the bundle")
	verbose := fs.Bool("v", false, "Verbose output")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: kaffee pack -o out%s [-main Class] <dir|bundle>...\n\n", bundle.Extension)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *output == "" || fs.NArg() == 0 {
		fs.Usage()
		return fmt.Errorf("pack needs -o and at least one input")
	}
	if !strings.HasSuffix(*output, bundle.Extension) {
		return fmt.Errorf("output %s must end in %s", *output, bundle.Extension)
	}

	classes, err := classpath.New(fs.Args()...).LoadAll()
	if err != nil {
		return err
	}
	if len(classes) == 0 {
		return fmt.Errorf("no class files found in %s", strings.Join(fs.Args(), ", "))
	}

	b := &bundle.Bundle{}
	for _, cf := range classes {
		if err := b.Add(cf); err != nil {
			return err
		}
	}
	if *mainClass != "" {
		b.MainClass = classpath.InternalName(*mainClass)
		if _, ok := b.Find(b.MainClass); !ok {
			return fmt.Errorf("main class %s is not among the packed classes", b.MainClass)
		}
	}

	if err := bundle.WriteFile(*output, b); err != nil {
		return err
	}
	log.Infof("wrote %s (%d classes)", *output, len(b.Entries))
	if *verbose {
		for _, name := range b.Names() {
			fmt.Fprintf(stdout, "  %s\n", name)
		}
	}
	fmt.Fprintf(stdout, "Packed %d classes into %s\n", len(b.Entries), *output)
	return nil
}
