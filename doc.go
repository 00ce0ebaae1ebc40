// Package tunefile reads and edits ECU calibration images ("tune files")
// driven by an XML definition of their lookup tables.
//
// A definition supplies, per named table, the byte offsets, dimensions,
// storage type, byte order and raw-to-display scaling formula of an
// otherwise opaque binary blob; this library turns that into precise decode
// and re-encode operations over the image.
//
// # Architecture Overview
//
// The library is organized into packages with distinct responsibilities:
//
//	tunefile/        Root package: Image buffer handling and Session batch
//	                 orchestration with table-scoped error isolation
//	├── schema/      Definition parsing into normalized table descriptors
//	├── scaling/     Compiled raw-to-display transform expressions
//	├── codec/       The binary decode and encode engines
//	├── render/      Colored terminal rendering of decoded tables
//	├── errors/      Structured error types for diagnostics
//	└── cmd/tunefile CLI with batch and interactive modes
//
// # Quick Start
//
// Decode every table of an image:
//
//	def, err := schema.Parse(definitionReader)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	img, err := tunefile.LoadImage("stock.bin")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	session := tunefile.NewSession(def, img)
//	for name, table := range session.DecodeAll() {
//	    fmt.Println(name, table.Data)
//	}
//
// Replace a table and persist the result:
//
//	err = session.Apply("Fuel Map", codec.Edit{
//	    XAxis: newX, YAxis: newY, Data: newBody,
//	})
//	path, err := img.SaveModified()
//
// A failing table never aborts a batch: decode and edit failures are logged,
// reported per table, and the pass continues. The input image on disk is
// never modified; edits land in a "modified_" copy.
package tunefile
