package pptxjson

import "errors"

// Error taxonomy for the conversion engine.
//
// Only ErrNotPresentation (and malformed manifest/theme parts) abort a run.
// Everything else is caught at the slide/element/image boundary, recorded as
// a warning and replaced by a best-effort default.
var (
	// ErrMalformedXML indicates a part that could not be tokenized as XML.
	// Fatal for that part; fatal for the run only when the part is the
	// presentation root or the theme.
	ErrMalformedXML = errors.New("malformed xml part")

	// ErrMissingPart indicates a relationship target that does not exist in
	// the archive. Callers degrade to omission or a fallback value.
	ErrMissingPart = errors.New("missing package part")

	// ErrImageDecode indicates embedded media that could not be read or
	// decoded. The referencing fill degrades to empty.
	ErrImageDecode = errors.New("image decode failed")

	// ErrNotPresentation indicates the input buffer is not a PowerPoint
	// OOXML package (no content types or presentation root).
	ErrNotPresentation = errors.New("not a pptx package")
)
