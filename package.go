package pptxjson

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"strings"
	"sync"
)

// ZIP safety limits. These prevent zip bomb inputs from exhausting memory;
// the values are generous for any legitimate PPTX part.
const (
	maxZipEntrySize = 50 << 20  // 50 MB per part
	maxZipTotalSize = 200 << 20 // 200 MB archive
	maxZipEntries   = 10000
)

// Relationship target types used by the converter.
const (
	relTypeSlide       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide"
	relTypeSlideLayout = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout"
	relTypeSlideMaster = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideMaster"
	relTypeTheme       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/theme"
	relTypeNotesSlide  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/notesSlide"
	relTypeImage       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
	relTypeChart       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/chart"
)

// Relationship is one entry from a *.rels part.
type Relationship struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr"`
}

type relationshipsXML struct {
	XMLName       xml.Name       `xml:"Relationships"`
	Relationships []Relationship `xml:"Relationship"`
}

// archive is read-only access to the package parts of one input buffer,
// with a cache of already-parsed XML trees shared across slide workers.
type archive struct {
	files map[string]*zip.File

	mu    sync.Mutex
	trees map[string]*XmlNode
}

// openArchive indexes a ZIP package held in memory.
func openArchive(data []byte) (*archive, error) {
	if int64(len(data)) > maxZipTotalSize {
		return nil, fmt.Errorf("package size %d exceeds maximum allowed (%d bytes)", len(data), maxZipTotalSize)
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotPresentation, err)
	}
	if len(zr.File) > maxZipEntries {
		return nil, fmt.Errorf("package contains too many entries (%d > %d)", len(zr.File), maxZipEntries)
	}
	files := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		files[strings.TrimPrefix(f.Name, "/")] = f
	}
	return &archive{files: files, trees: make(map[string]*XmlNode)}, nil
}

// has reports whether the part exists.
func (a *archive) has(name string) bool {
	_, ok := a.files[name]
	return ok
}

// part reads one part's raw bytes.
func (a *archive) part(name string) ([]byte, error) {
	f, ok := a.files[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingPart, name)
	}
	if f.UncompressedSize64 > maxZipEntrySize {
		return nil, fmt.Errorf("part %s exceeds maximum allowed size (%d bytes)", name, maxZipEntrySize)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", name, err)
	}
	defer rc.Close()
	data, err := io.ReadAll(io.LimitReader(rc, maxZipEntrySize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	if len(data) > maxZipEntrySize {
		return nil, fmt.Errorf("part %s actual size exceeds maximum allowed size", name)
	}
	return data, nil
}

// tree reads and parses an XML part, caching the result for the run.
// Safe for concurrent use by slide workers.
func (a *archive) tree(name string) (*XmlNode, error) {
	a.mu.Lock()
	if node, ok := a.trees[name]; ok {
		a.mu.Unlock()
		return node, nil
	}
	a.mu.Unlock()

	data, err := a.part(name)
	if err != nil {
		return nil, err
	}
	node, err := ParsePart(data)
	if err != nil {
		return nil, fmt.Errorf("part %s: %w", name, err)
	}

	a.mu.Lock()
	a.trees[name] = node
	a.mu.Unlock()
	return node, nil
}

// rels loads the relationships part for the given part path.
// A missing rels part is not an error; it yields an empty list.
func (a *archive) rels(partPath string) ([]Relationship, error) {
	dir, file := path.Split(partPath)
	relsPath := dir + "_rels/" + file + ".rels"
	data, err := a.part(relsPath)
	if err != nil {
		return nil, nil
	}
	var rels relationshipsXML
	if err := xml.Unmarshal(data, &rels); err != nil {
		return nil, fmt.Errorf("failed to parse relationships %s: %w", relsPath, err)
	}
	return rels.Relationships, nil
}

// relTarget resolves a relationship ID to an absolute part path.
func relTarget(rels []Relationship, basePart, id string) (string, bool) {
	for _, rel := range rels {
		if rel.ID == id {
			if strings.EqualFold(rel.TargetMode, "External") {
				return rel.Target, true
			}
			return resolveTarget(basePart, rel.Target), true
		}
	}
	return "", false
}

// relTargetsByType returns all resolved targets of the given relationship
// type in declaration order.
func relTargetsByType(rels []Relationship, basePart, relType string) []string {
	var out []string
	for _, rel := range rels {
		if rel.Type == relType {
			out = append(out, resolveTarget(basePart, rel.Target))
		}
	}
	return out
}

// resolveTarget converts a relationship target (relative to the source part,
// or package-absolute with a leading slash) into a package part path.
func resolveTarget(basePart, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	dir := path.Dir(basePart)
	return path.Clean(path.Join(dir, target))
}
