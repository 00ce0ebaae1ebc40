package schema

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	tferr "github.com/ecutools/tunefile/errors"
	"github.com/ecutools/tunefile/scaling"
)

// Raw document shapes. Axis descriptors are nested <table> elements with a
// type attribute of "X Axis" or "Y Axis".
type xmlTable struct {
	Name     string     `xml:"name,attr"`
	Address  string     `xml:"address,attr"`
	Type     string     `xml:"type,attr"`
	Elements string     `xml:"elements,attr"`
	Scaling  string     `xml:"scaling,attr"`
	SwapXY   string     `xml:"swapxy,attr"`
	Tables   []xmlTable `xml:"table"`
}

type xmlScaling struct {
	Name        string `xml:"name,attr"`
	ToExpr      string `xml:"toexpr,attr"`
	StorageType string `xml:"storagetype,attr"`
	Endian      string `xml:"endian,attr"`
}

// scalingRecord is a named scaling definition with its compiled rule and the
// storage metadata the record carries.
type scalingRecord struct {
	rule    *scaling.Rule
	storage string
	endian  string
}

// Parse reads a calibration definition document and returns the normalized
// table descriptors.
//
// Scaling records and tables are matched at any nesting depth, so the usual
// <roms><rom>... wrappers need no special handling. Document-level XML
// faults fail the parse; a single malformed table is logged and skipped so
// the rest of the definition stays usable.
func Parse(r io.Reader) (*Definition, error) {
	dec := xml.NewDecoder(r)

	var scalings []xmlScaling
	var tables []xmlTable
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("definition: %w", err)
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch se.Name.Local {
		case "scaling":
			var s xmlScaling
			if err := dec.DecodeElement(&s, &se); err != nil {
				return nil, fmt.Errorf("definition: scaling element: %w", err)
			}
			scalings = append(scalings, s)
		case "table":
			var t xmlTable
			if err := dec.DecodeElement(&t, &se); err != nil {
				return nil, fmt.Errorf("definition: table element: %w", err)
			}
			tables = append(tables, t)
		}
	}

	// Records may be declared after the tables that reference them, so
	// resolve only once the whole document has been read.
	records := make(map[string]*scalingRecord, len(scalings))
	for _, s := range scalings {
		if s.Name == "" {
			continue
		}
		rule, err := scaling.Compile(s.ToExpr)
		if err != nil {
			Logger().Warn("scaling formula failed to compile",
				zap.String("scaling", s.Name),
				zap.Error(err))
		}
		records[s.Name] = &scalingRecord{rule: rule, storage: s.StorageType, endian: s.Endian}
	}

	def := &Definition{}
	for i := range tables {
		tbl, err := normalize(&tables[i], records)
		if err != nil {
			Logger().Warn("skipping malformed table",
				zap.String("table", tables[i].Name),
				zap.Error(err))
			continue
		}
		def.Tables = append(def.Tables, tbl)
	}
	return def, nil
}

func normalize(rt *xmlTable, records map[string]*scalingRecord) (*Table, error) {
	tbl := &Table{
		Name:     rt.Name,
		SwapAxes: strings.EqualFold(rt.SwapXY, "true"),
	}

	if rt.Address != "" {
		addr, err := parseHex(rt.Address)
		if err != nil {
			return nil, tferr.InvalidData(tferr.PhaseSchema, rt.Name,
				fmt.Sprintf("bad table address %q", rt.Address))
		}
		tbl.BodyAddress = addr
	}

	body := resolveScaling(rt.Scaling, records, rt.Name)
	if body != nil {
		tbl.BodyScaling = body.rule
		st, err := ParseStorageType(body.storage)
		if err != nil {
			Logger().Warn("unknown storage type, defaulting to uint16",
				zap.String("table", rt.Name),
				zap.Error(err))
		}
		tbl.Storage = st
		tbl.Order = ParseByteOrder(body.endian)
	}

	if x := rt.axis("X Axis"); x != nil {
		var err error
		tbl.ElementsX, tbl.AddressX, tbl.XScaling, err = normalizeAxis(x, records, rt.Name)
		if err != nil {
			return nil, err
		}
	}
	if y := rt.axis("Y Axis"); y != nil {
		var err error
		tbl.ElementsY, tbl.AddressY, tbl.YScaling, err = normalizeAxis(y, records, rt.Name)
		if err != nil {
			return nil, err
		}
	}

	// An axis with no rule of its own inherits the body's.
	if tbl.XScaling == nil {
		tbl.XScaling = tbl.BodyScaling
	}
	if tbl.YScaling == nil {
		tbl.YScaling = tbl.BodyScaling
	}
	return tbl, nil
}

func normalizeAxis(ax *xmlTable, records map[string]*scalingRecord, table string) (int, *int64, *scaling.Rule, error) {
	elements := 0
	if ax.Elements != "" {
		n, err := strconv.Atoi(strings.TrimSpace(ax.Elements))
		if err != nil || n < 0 {
			return 0, nil, nil, tferr.InvalidData(tferr.PhaseSchema, table,
				fmt.Sprintf("bad %s element count %q", ax.Type, ax.Elements))
		}
		elements = n
	}

	var address *int64
	if ax.Address != "" {
		addr, err := parseHex(ax.Address)
		if err != nil {
			return 0, nil, nil, tferr.InvalidData(tferr.PhaseSchema, table,
				fmt.Sprintf("bad %s address %q", ax.Type, ax.Address))
		}
		address = &addr
	}

	var rule *scaling.Rule
	if rec := resolveScaling(ax.Scaling, records, table); rec != nil {
		rule = rec.rule
	}
	return elements, address, rule, nil
}

// resolveScaling looks up a named scaling record. A dangling reference is
// reported and treated as absent; the caller falls back to its default.
func resolveScaling(name string, records map[string]*scalingRecord, table string) *scalingRecord {
	if name == "" {
		return nil
	}
	rec, ok := records[name]
	if !ok {
		Logger().Warn("scaling reference not found",
			zap.String("table", table),
			zap.Error(tferr.NotFound(tferr.PhaseSchema, "scaling", name)))
		return nil
	}
	return rec
}

func (t *xmlTable) axis(kind string) *xmlTable {
	for i := range t.Tables {
		if t.Tables[i].Type == kind {
			return &t.Tables[i]
		}
	}
	return nil
}

// parseHex parses the definition dialect's hex addresses, with or without a
// 0x prefix.
func parseHex(s string) (int64, error) {
	s = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "0x")
	v, err := strconv.ParseInt(s, 16, 64)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, fmt.Errorf("negative address %q", s)
	}
	return v, nil
}
