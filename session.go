package tunefile

import (
	"go.uber.org/zap"

	"github.com/ecutools/tunefile/codec"
	tferr "github.com/ecutools/tunefile/errors"
	"github.com/ecutools/tunefile/schema"
)

// Session binds one definition to one image and applies batch operations
// with table-scoped error isolation: calibration files routinely contain
// tables the user does not care about, so one bad table never aborts a pass.
//
// Sessions are single-writer; all edits against the shared buffer apply
// sequentially.
type Session struct {
	def *schema.Definition
	img *Image
	log *zap.Logger
}

// NewSession creates a session over a parsed definition and a loaded image.
func NewSession(def *schema.Definition, img *Image) *Session {
	return &Session{def: def, img: img, log: zap.NewNop()}
}

// WithLogger sets the logger used for per-table diagnostics.
func (s *Session) WithLogger(l *zap.Logger) *Session {
	if l != nil {
		s.log = l
	}
	return s
}

// Tables returns the definition's table descriptors in document order.
func (s *Session) Tables() []*schema.Table {
	return s.def.Tables
}

// Image returns the session's image.
func (s *Session) Image() *Image {
	return s.img
}

// Raw reads one table's current content in the raw domain, the shape an
// edit replaces.
func (s *Session) Raw(name string) (codec.Edit, error) {
	tbl, ok := s.def.Lookup(name)
	if !ok {
		return codec.Edit{}, tferr.NotFound(tferr.PhaseDecode, "table", name)
	}
	return codec.Raw(s.img.Bytes(), tbl)
}

// DecodeAll decodes every table in the definition. A table that fails to
// decode is reported and omitted; the rest of the map is still produced.
// Duplicate table names resolve to the later definition.
func (s *Session) DecodeAll() map[string]*codec.DecodedTable {
	results := make(map[string]*codec.DecodedTable, len(s.def.Tables))
	for _, tbl := range s.def.Tables {
		decoded, err := codec.Decode(s.img.Bytes(), tbl)
		if err != nil {
			s.log.Warn("error decoding table",
				zap.String("table", tbl.Name),
				zap.Error(err))
			continue
		}
		results[tbl.Name] = decoded
	}
	return results
}

// Decode decodes one table by name.
func (s *Session) Decode(name string) (*codec.DecodedTable, error) {
	tbl, ok := s.def.Lookup(name)
	if !ok {
		return nil, tferr.NotFound(tferr.PhaseDecode, "table", name)
	}
	return codec.Decode(s.img.Bytes(), tbl)
}

// Apply validates and writes one table's replacement content into the
// image buffer.
func (s *Session) Apply(name string, edit codec.Edit) error {
	tbl, ok := s.def.Lookup(name)
	if !ok {
		return tferr.NotFound(tferr.PhaseEncode, "table", name)
	}
	return codec.Encode(s.img.Bytes(), tbl, edit)
}

// ApplyAll applies a set of edits keyed by table name. Each failure is
// logged and collected; the remaining edits still apply. Partial success
// across a multi-table edit is expected.
func (s *Session) ApplyAll(edits map[string]codec.Edit) map[string]error {
	failures := make(map[string]error)
	for name, edit := range edits {
		if err := s.Apply(name, edit); err != nil {
			s.log.Warn("error editing table",
				zap.String("table", name),
				zap.Error(err))
			failures[name] = err
		}
	}
	return failures
}
