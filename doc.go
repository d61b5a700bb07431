// Package pptxjson converts PowerPoint OOXML packages (.pptx) into a
// structured JSON document describing slides, shapes, rich text, fills and
// theme colors, with an optional post-transform to the PPTist editor
// schema.
//
// The engine is tolerant by design: failures local to one slide, element
// or embedded image degrade to warnings and best-effort defaults; only an
// unreadable manifest, presentation root or theme aborts a conversion.
package pptxjson
