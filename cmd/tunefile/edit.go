package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ecutools/tunefile"
	"github.com/ecutools/tunefile/codec"
	"github.com/ecutools/tunefile/schema"
)

// runEdit walks every table, shows its current raw content and prompts for
// replacement values: X axis, Y axis, then one body row per line, all
// space-separated raw numbers. A blank first line skips the table; a
// rejected edit reports the mismatch and the walk continues.
func runEdit(session *tunefile.Session, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for _, tbl := range session.Tables() {
		fmt.Printf("\nEditing table: %s\n", tbl.Name)
		if err := showCurrent(session, tbl); err != nil {
			fmt.Printf("  cannot read current content: %v\n", err)
			continue
		}

		edit, skipped, err := promptEdit(scanner, tbl)
		if err != nil {
			if err == io.EOF {
				return nil
			}
			fmt.Printf("  Error: %v\n", err)
			continue
		}
		if skipped {
			continue
		}

		if err := session.Apply(tbl.Name, edit); err != nil {
			fmt.Printf("  Error: %v\n", err)
			continue
		}
		fmt.Printf("  table %q updated\n", tbl.Name)
	}
	return nil
}

func showCurrent(session *tunefile.Session, tbl *schema.Table) error {
	raw, err := codec.Raw(session.Image().Bytes(), tbl)
	if err != nil {
		return err
	}
	if raw.XAxis != nil {
		fmt.Printf("X Axis: %v\n", raw.XAxis)
	}
	if raw.YAxis != nil {
		fmt.Printf("Y Axis: %v\n", raw.YAxis)
	}
	for i, row := range raw.Data {
		fmt.Printf("Row %d: %v\n", i+1, row)
	}
	return nil
}

func promptEdit(scanner *bufio.Scanner, tbl *schema.Table) (codec.Edit, bool, error) {
	var edit codec.Edit

	if tbl.AddressX != nil {
		fmt.Print("Enter new X Axis (space-separated, blank to skip table): ")
		line, err := readLine(scanner)
		if err != nil {
			return edit, false, err
		}
		if strings.TrimSpace(line) == "" {
			return edit, true, nil
		}
		if edit.XAxis, err = parseFloats(line); err != nil {
			return edit, false, err
		}
	}
	if tbl.AddressY != nil {
		fmt.Print("Enter new Y Axis (space-separated): ")
		line, err := readLine(scanner)
		if err != nil {
			return edit, false, err
		}
		if edit.YAxis, err = parseFloats(line); err != nil {
			return edit, false, err
		}
	}

	if tbl.ElementsY > 0 {
		fmt.Printf("Enter %d body rows (space-separated):\n", tbl.ElementsY)
	}
	edit.Data = make([][]float64, 0, tbl.ElementsY)
	for i := 0; i < tbl.ElementsY; i++ {
		line, err := readLine(scanner)
		if err != nil {
			return edit, false, err
		}
		row, err := parseFloats(line)
		if err != nil {
			return edit, false, err
		}
		edit.Data = append(edit.Data, row)
	}
	return edit, false, nil
}

func readLine(scanner *bufio.Scanner) (string, error) {
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return scanner.Text(), nil
}

func parseFloats(line string) ([]float64, error) {
	fields := strings.Fields(line)
	values := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("not a number: %q", f)
		}
		values = append(values, v)
	}
	return values, nil
}
