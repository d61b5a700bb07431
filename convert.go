package pptxjson

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Options is the flat configuration for one conversion run, consumed
// read-only by the orchestrator.
type Options struct {
	// ImageMode is "base64" (default, data URLs) or "url" (URLPrefix +
	// media file name; a storage collaborator serves the bytes).
	ImageMode string `yaml:"imageMode"`
	URLPrefix string `yaml:"urlPrefix"`

	// IncludeNotes copies each slide's notes text onto the output.
	IncludeNotes bool `yaml:"includeNotes"`

	// Precision is the number of decimals on emitted lengths (default 2).
	Precision int `yaml:"precision"`

	// ImageConcurrency bounds concurrent image decodes across the whole
	// run (default 3). SlideConcurrency bounds parallel slide conversion
	// (default 4). Bounds affect timing only, never output.
	ImageConcurrency int64 `yaml:"imageConcurrency"`
	SlideConcurrency int   `yaml:"slideConcurrency"`
}

func (o Options) withDefaults() Options {
	if o.ImageMode == "" {
		o.ImageMode = ImageModeBase64
	}
	if o.Precision <= 0 {
		o.Precision = DefaultPrecision
	}
	if o.ImageConcurrency <= 0 {
		o.ImageConcurrency = defaultImageConcurrency
	}
	if o.SlideConcurrency <= 0 {
		o.SlideConcurrency = 4
	}
	return o
}

// runContext is the per-run shared state: the archive, the loaded theme,
// the image cache and the warning log. Scoping this to the run (instead of
// package state) keeps the engine reentrant for concurrent conversions.
type runContext struct {
	ctx   context.Context
	arch  *archive
	theme *Theme
	opts  Options
	media *mediaCache

	mu       sync.Mutex
	warnings []string
}

func (rc *runContext) warnf(format string, args ...any) {
	rc.mu.Lock()
	rc.warnings = append(rc.warnings, fmt.Sprintf(format, args...))
	rc.mu.Unlock()
}

// slideContext ties one slide to its layout, master and captured color
// map. Value objects produced from it are owned by the slide.
type slideContext struct {
	run *runContext

	slidePath string
	slide     *XmlNode
	rels      []Relationship

	layoutPath string
	layout     *XmlNode
	layoutRels []Relationship

	masterPath string
	master     *XmlNode
	masterRels []Relationship

	colorMap map[string]string
}

func (sc *slideContext) colorEnv() ColorEnv {
	return ColorEnv{Theme: sc.run.theme, ColorMap: sc.colorMap}
}

// Convert maps a PPTX package held in memory to the structured document
// model. Failures local to one slide, element or image degrade to warnings
// on the result; only an unreadable manifest, presentation root or theme
// is fatal.
func Convert(ctx context.Context, data []byte, opts Options) (*Result, error) {
	opts = opts.withDefaults()

	arch, err := openArchive(data)
	if err != nil {
		return nil, err
	}
	if !arch.has("[Content_Types].xml") || !arch.has("ppt/presentation.xml") {
		return nil, fmt.Errorf("%w: package layout missing presentation parts", ErrNotPresentation)
	}

	presentation, err := arch.tree("ppt/presentation.xml")
	if err != nil {
		return nil, fmt.Errorf("presentation root: %w", err)
	}
	presRels, err := arch.rels("ppt/presentation.xml")
	if err != nil {
		return nil, err
	}

	theme, err := loadRunTheme(arch, presRels)
	if err != nil {
		return nil, err
	}

	rc := &runContext{
		ctx:   ctx,
		arch:  arch,
		theme: theme,
		opts:  opts,
		media: newMediaCache(arch, opts.ImageMode, opts.URLPrefix, opts.ImageConcurrency),
	}

	slidePaths := sortedSlidePaths(relTargetsByType(presRels, "ppt/presentation.xml", relTypeSlide))

	// Slides are independent; convert them in parallel but assemble in
	// filename-sorted order regardless of completion order.
	slides := make([]*Slide, len(slidePaths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.SlideConcurrency)
	for i, slidePath := range slidePaths {
		i, slidePath := i, slidePath
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			slide, err := convertSlide(rc, slidePath)
			if err != nil {
				rc.warnf("slide %s skipped: %v", slidePath, err)
				return nil
			}
			slides[i] = slide
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &Result{
		ThemeColors: theme.ColorList(),
		Size:        presentationSize(presentation, opts.Precision),
		Title:       presentationTitle(slides),
		MajorFont:   theme.MajorFont,
		MinorFont:   theme.MinorFont,
	}
	for _, slide := range slides {
		if slide != nil {
			result.Slides = append(result.Slides, *slide)
		}
	}
	rc.mu.Lock()
	result.Warnings = rc.warnings
	rc.mu.Unlock()
	return result, nil
}

// loadRunTheme resolves the theme part via the first slide master, falling
// back to a theme referenced directly from the presentation. A missing or
// unreadable theme is run-fatal.
func loadRunTheme(arch *archive, presRels []Relationship) (*Theme, error) {
	var themePath string
	if masters := relTargetsByType(presRels, "ppt/presentation.xml", relTypeSlideMaster); len(masters) > 0 {
		masterRels, err := arch.rels(masters[0])
		if err != nil {
			return nil, err
		}
		if targets := relTargetsByType(masterRels, masters[0], relTypeTheme); len(targets) > 0 {
			themePath = targets[0]
		}
	}
	if themePath == "" {
		if targets := relTargetsByType(presRels, "ppt/presentation.xml", relTypeTheme); len(targets) > 0 {
			themePath = targets[0]
		}
	}
	if themePath == "" {
		return nil, fmt.Errorf("%w: no theme part", ErrMissingPart)
	}
	root, err := arch.tree(themePath)
	if err != nil {
		return nil, fmt.Errorf("theme: %w", err)
	}
	return loadTheme(root)
}

// sortedSlidePaths orders slide parts by the trailing integer in their
// file names ("slide10.xml" after "slide9.xml"). This ordering is
// authoritative; ZIP entry order is not.
func sortedSlidePaths(paths []string) []string {
	sort.SliceStable(paths, func(i, j int) bool {
		return slideNumber(paths[i]) < slideNumber(paths[j])
	})
	return paths
}

// slideNumber extracts the trailing integer of a slide part name, 0 when
// absent.
func slideNumber(partPath string) int {
	name := strings.TrimSuffix(partPath, ".xml")
	end := len(name)
	start := end
	for start > 0 && name[start-1] >= '0' && name[start-1] <= '9' {
		start--
	}
	if start == end {
		return 0
	}
	return intAttr(name[start:end])
}

func convertSlide(rc *runContext, slidePath string) (*Slide, error) {
	slideTree, err := rc.arch.tree(slidePath)
	if err != nil {
		return nil, err
	}
	rels, err := rc.arch.rels(slidePath)
	if err != nil {
		rc.warnf("slide %s relationships: %v", slidePath, err)
	}

	sc := &slideContext{
		run:       rc,
		slidePath: slidePath,
		slide:     slideTree,
		rels:      rels,
	}

	// Layout and master are best-effort: a slide with a broken layout
	// chain still converts, it just loses inherited styles.
	if layouts := relTargetsByType(rels, slidePath, relTypeSlideLayout); len(layouts) > 0 {
		sc.layoutPath = layouts[0]
		if sc.layout, err = rc.arch.tree(sc.layoutPath); err != nil {
			rc.warnf("slide layout %s: %v", sc.layoutPath, err)
		}
		sc.layoutRels, _ = rc.arch.rels(sc.layoutPath)
		if masters := relTargetsByType(sc.layoutRels, sc.layoutPath, relTypeSlideMaster); len(masters) > 0 {
			sc.masterPath = masters[0]
			if sc.master, err = rc.arch.tree(sc.masterPath); err != nil {
				rc.warnf("slide master %s: %v", sc.masterPath, err)
			}
			sc.masterRels, _ = rc.arch.rels(sc.masterPath)
		}
	}
	sc.colorMap = slideColorMap(sc.master, sc.slide)

	slide := &Slide{
		Number:      slideNumber(slidePath),
		Background:  resolveBackground(sc),
		Elements:    convertShapeTree(slideTree.Path("cSld", "spTree"), sc, nil, identityTransform),
		ThemeColors: rc.theme.ColorList(),
	}
	if slide.Elements == nil {
		slide.Elements = []Element{}
	}
	if rc.opts.IncludeNotes {
		slide.Note = slideNotes(sc)
	}
	return slide, nil
}

// slideNotes extracts the plain text of the slide's notes part, paragraphs
// joined by newlines. Missing notes are simply empty.
func slideNotes(sc *slideContext) string {
	targets := relTargetsByType(sc.rels, sc.slidePath, relTypeNotesSlide)
	if len(targets) == 0 {
		return ""
	}
	root, err := sc.run.arch.tree(targets[0])
	if err != nil {
		sc.run.warnf("notes %s: %v", targets[0], err)
		return ""
	}
	spTree := root.Path("cSld", "spTree")
	if spTree == nil {
		return ""
	}
	var lines []string
	for _, sp := range spTree.All("sp") {
		if sp.Path("nvSpPr", "nvPr", "ph").Attr("type") != "body" {
			continue
		}
		txBody := sp.Child("txBody")
		for _, p := range txBody.All("p") {
			var sb strings.Builder
			for _, r := range p.All("r") {
				sb.WriteString(r.ChildText("t"))
			}
			lines = append(lines, sb.String())
		}
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// presentationSize reads sldSz into points. Absent size falls back to the
// 4:3 default canvas.
func presentationSize(presentation *XmlNode, precision int) Size {
	sldSz := presentation.Child("sldSz")
	if sldSz == nil {
		return Size{Width: 960, Height: 720}
	}
	return Size{
		Width:  roundTo(EMUToPointsRaw(emuAttr(sldSz.Attr("cx"))), precision),
		Height: roundTo(EMUToPointsRaw(emuAttr(sldSz.Attr("cy"))), precision),
	}
}

// presentationTitle is the first title-placeholder text in slide order,
// falling back to the first non-empty text anywhere.
func presentationTitle(slides []*Slide) string {
	var fallback string
	for _, slide := range slides {
		if slide == nil {
			continue
		}
		for _, el := range slide.Elements {
			text := elementText(el)
			if text == "" {
				continue
			}
			if el.Placeholder == "title" || el.Placeholder == "ctrTitle" {
				return text
			}
			if fallback == "" {
				fallback = text
			}
		}
	}
	return fallback
}

func elementText(el Element) string {
	if el.Text == nil {
		return ""
	}
	for _, p := range el.Text.Paragraphs {
		for _, r := range p.Runs {
			if s := strings.TrimSpace(r.Text); s != "" {
				return s
			}
		}
	}
	return ""
}
