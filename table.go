package pptxjson

// Table is a converted a:tbl with the style cascade already applied per
// cell.
type Table struct {
	ColWidths  []float64     `json:"colWidths,omitempty"`
	RowHeights []float64     `json:"rowHeights,omitempty"`
	Rows       [][]TableCell `json:"rows"`
}

// TableCell carries resolved content and fill. Merged-away cells keep
// their HMerge/VMerge markers so consumers can skip them.
type TableCell struct {
	Text    *RichText `json:"text,omitempty"`
	Fill    *Fill     `json:"fill,omitempty"`
	RowSpan int       `json:"rowSpan,omitempty"`
	ColSpan int       `json:"colSpan,omitempty"`
	HMerge  bool      `json:"hMerge,omitempty"`
	VMerge  bool      `json:"vMerge,omitempty"`
}

// tableStyle is the subset of a tblStyle part entry the fill cascade
// consults, one fill per region.
type tableStyle struct {
	wholeTbl *Fill
	band1H   *Fill
	band2H   *Fill
	firstRow *Fill
	lastRow  *Fill
}

// convertTable maps a tbl node. Cell fill precedence: explicit cell fill,
// then first/last-row emphasis (only when the tblPr flags enable them),
// then row banding by row-index parity, then the whole-table fill.
func convertTable(tbl *XmlNode, sc *slideContext) *Table {
	table := &Table{}
	p := sc.run.opts.Precision

	if grid := tbl.Child("tblGrid"); grid != nil {
		for _, col := range grid.All("gridCol") {
			table.ColWidths = append(table.ColWidths, roundTo(EMUToPointsRaw(emuAttr(col.Attr("w"))), p))
		}
	}

	tblPr := tbl.Child("tblPr")
	flags := struct{ firstRow, lastRow, bandRow bool }{
		firstRow: boolAttr(tblPr.Attr("firstRow")),
		lastRow:  boolAttr(tblPr.Attr("lastRow")),
		bandRow:  boolAttr(tblPr.Attr("bandRow")),
	}
	style := loadTableStyle(tblPr.ChildText("tableStyleId"), sc)

	rows := tbl.All("tr")
	for rowIdx, tr := range rows {
		table.RowHeights = append(table.RowHeights, roundTo(EMUToPointsRaw(emuAttr(tr.Attr("h"))), p))
		var cells []TableCell
		for _, tc := range tr.All("tc") {
			cell := TableCell{
				RowSpan: spanAttr(tc.Attr("rowSpan")),
				ColSpan: spanAttr(tc.Attr("gridSpan")),
				HMerge:  boolAttr(tc.Attr("hMerge")),
				VMerge:  boolAttr(tc.Attr("vMerge")),
			}
			if txBody := tc.Child("txBody"); txBody != nil {
				cascade := newTextCascade(sc, txBody, "", "", nil)
				cell.Text = convertTextBody(txBody, cascade)
			}
			cell.Fill = cellFill(tc, sc, style, flags.firstRow, flags.lastRow, flags.bandRow, rowIdx, len(rows))
			cells = append(cells, cell)
		}
		table.Rows = append(table.Rows, cells)
	}
	return table
}

func cellFill(tc *XmlNode, sc *slideContext, style *tableStyle, firstRow, lastRow, bandRow bool, rowIdx, rowCount int) *Fill {
	if tcPr := tc.Child("tcPr"); tcPr != nil {
		if fill, ok := resolveFill(tcPr, sc, partRef{sc.slidePath, sc.rels}); ok {
			return &fill
		}
	}
	if style == nil {
		return nil
	}
	// First/last-row emphasis wins over banding when enabled.
	if firstRow && rowIdx == 0 && style.firstRow != nil {
		return style.firstRow
	}
	if lastRow && rowIdx == rowCount-1 && style.lastRow != nil {
		return style.lastRow
	}
	if bandRow {
		if rowIdx%2 == 0 && style.band1H != nil {
			return style.band1H
		}
		if rowIdx%2 == 1 && style.band2H != nil {
			return style.band2H
		}
	}
	return style.wholeTbl
}

// loadTableStyle looks the style GUID up in ppt/tableStyles.xml. Any
// failure degrades to no style.
func loadTableStyle(styleID string, sc *slideContext) *tableStyle {
	if styleID == "" {
		return nil
	}
	root, err := sc.run.arch.tree("ppt/tableStyles.xml")
	if err != nil {
		return nil
	}
	for _, ts := range root.All("tblStyle") {
		if ts.Attr("styleId") != styleID {
			continue
		}
		style := &tableStyle{}
		style.wholeTbl = regionFill(ts.Child("wholeTbl"), sc)
		style.band1H = regionFill(ts.Child("band1H"), sc)
		style.band2H = regionFill(ts.Child("band2H"), sc)
		style.firstRow = regionFill(ts.Child("firstRow"), sc)
		style.lastRow = regionFill(ts.Child("lastRow"), sc)
		return style
	}
	return nil
}

func regionFill(region *XmlNode, sc *slideContext) *Fill {
	tcStyle := region.Child("tcStyle")
	if tcStyle == nil {
		return nil
	}
	fillNode := tcStyle.Child("fill")
	if fillNode == nil {
		return nil
	}
	if fill, ok := resolveFill(fillNode, sc, partRef{"ppt/tableStyles.xml", nil}); ok {
		return &fill
	}
	return nil
}

func boolAttr(s string) bool {
	return s == "1" || s == "true" || s == "on"
}

func spanAttr(s string) int {
	if v := intAttr(s); v > 1 {
		return v
	}
	return 0
}
