package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"

	"github.com/ecutools/tunefile"
	"github.com/ecutools/tunefile/codec"
	"github.com/ecutools/tunefile/render"
	"github.com/ecutools/tunefile/scaling"
	"github.com/ecutools/tunefile/schema"
)

func main() {
	var (
		xmlFile     = flag.String("xml", "", "Path to definition XML file")
		binFile     = flag.String("bin", "", "Path to calibration image file")
		tableName   = flag.String("table", "", "Decode a single table by name")
		list        = flag.Bool("list", false, "List defined tables and exit")
		edit        = flag.Bool("edit", false, "Edit tables from stdin prompts")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
		noColor     = flag.Bool("no-color", false, "Disable colored output")
		verbose     = flag.Bool("v", false, "Verbose logging")
	)
	flag.Parse()

	logger := newLogger(*verbose)
	defer logger.Sync()
	schema.SetLogger(logger)
	scaling.SetLogger(logger)
	codec.SetLogger(logger)

	if *interactive || (*xmlFile == "" && *binFile == "") {
		if err := runInteractive(*xmlFile, *binFile, logger); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if *xmlFile == "" || *binFile == "" {
		fmt.Fprintln(os.Stderr, "Usage: tunefile -xml <def.xml> -bin <image.bin> [-table name] [-list] [-edit]")
		fmt.Fprintln(os.Stderr, "       tunefile -i  (interactive mode)")
		os.Exit(1)
	}

	if err := run(*xmlFile, *binFile, *tableName, *list, *edit, *noColor, logger); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newLogger(verbose bool) *zap.Logger {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func run(xmlFile, binFile, tableName string, listOnly, edit, noColor bool, logger *zap.Logger) error {
	f, err := os.Open(xmlFile)
	if err != nil {
		return fmt.Errorf("open definition: %w", err)
	}
	def, err := schema.Parse(f)
	f.Close()
	if err != nil {
		return err
	}

	img, err := tunefile.LoadImage(binFile)
	if err != nil {
		return err
	}
	session := tunefile.NewSession(def, img).WithLogger(logger)

	fmt.Printf("Definition: %s (%d tables)\n", xmlFile, len(def.Tables))
	fmt.Printf("Image:      %s (%d bytes)\n", binFile, img.Len())

	if listOnly {
		listTables(def)
		return nil
	}

	if edit {
		if err := runEdit(session, os.Stdin); err != nil {
			return err
		}
		out, err := img.SaveModified()
		if err != nil {
			return err
		}
		fmt.Printf("Edits saved to %s\n", out)
		return nil
	}

	colorize := !noColor && term.IsTerminal(int(os.Stdout.Fd()))
	results := session.DecodeAll()

	if tableName != "" {
		decoded, ok := results[tableName]
		if !ok {
			return fmt.Errorf("table %q not decoded (unknown name or decode failure)", tableName)
		}
		fmt.Println(render.Table(tableName, decoded, colorize))
		return nil
	}

	fmt.Println("\nDecoded data:")
	for _, name := range sortedNames(results) {
		fmt.Println()
		fmt.Println(render.Table(name, results[name], colorize))
	}
	return nil
}

func listTables(def *schema.Definition) {
	fmt.Println("\nDefined tables:")
	for _, tbl := range def.Tables {
		swap := ""
		if tbl.SwapAxes {
			swap = " swapxy"
		}
		fmt.Printf("  %-30s 0x%X  %dx%d %s/%s%s\n",
			tbl.Name, tbl.BodyAddress, tbl.ElementsX, tbl.ElementsY,
			tbl.Storage, tbl.Order, swap)
	}
}

func sortedNames(results map[string]*codec.DecodedTable) []string {
	names := make([]string, 0, len(results))
	for name := range results {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// listFiles returns the current directory's entries with the given
// extension, the selectable inputs for the interactive menus.
func listFiles(ext string) []string {
	entries, err := os.ReadDir(".")
	if err != nil {
		return nil
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ext) {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	return files
}
