package export

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/go-pdf/fpdf"
	"github.com/rs/zerolog"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"

	"scrapbook/internal/domain"
	"scrapbook/internal/imaging"
)

var ErrNoPages = errors.New("no pages to export")

type Selection string

const (
	SelectAll     Selection = "all"
	SelectCurrent Selection = "current"
	SelectRange   Selection = "range"
)

type Quality string

const (
	QualityHigh   Quality = "high"
	QualityMedium Quality = "medium"
	QualityLow    Quality = "low"
)

type qualityPreset struct {
	scale       float64
	jpegQuality int
}

var qualityPresets = map[Quality]qualityPreset{
	QualityHigh:   {scale: 2, jpegQuality: 95},
	QualityMedium: {scale: 1.5, jpegQuality: 85},
	QualityLow:    {scale: 1, jpegQuality: 75},
}

const (
	marginMM       = 10.0
	footerMM       = 12.0
	footerFontSize = 10.0
	ptPerMM        = 72 / 25.4
	// textFont is Go Regular embedded as a UTF-8 font, so captions outside
	// Latin-1 survive.
	textFont = "GoRegular"
)

var textFace = sync.OnceValues(func() (*sfnt.Font, error) {
	return sfnt.Parse(goregular.TTF)
})

// fontCovers reports whether textFont has a glyph for every visible rune of
// s. Emoji are not covered.
func fontCovers(s string) bool {
	face, err := textFace()
	if err != nil {
		return false
	}
	var buf sfnt.Buffer
	seen := false
	for _, r := range s {
		if unicode.IsSpace(r) || unicode.Is(unicode.Variation_Selector, r) {
			continue
		}
		if i, err := face.GlyphIndex(&buf, r); err != nil || i == 0 {
			return false
		}
		seen = true
	}
	return seen
}

// PDFOptions control page selection and layout.
type PDFOptions struct {
	Title     string
	Selection Selection
	// From and To are 1-based and inclusive; used with SelectRange.
	From, To    int
	PaperSize   string // A3, A4, Letter
	Orientation string // P or L
	Quality     Quality
	// Extent is the page size item coordinates were laid out against.
	Extent domain.Extent
	Logger *zerolog.Logger
}

// SkippedPage is a selected page that failed to render.
type SkippedPage struct {
	Number int
	Err    error
}

type Result struct {
	Pages   int
	Skipped []SkippedPage
}

// Filename returns scrapbook-YYYY-MM-DDTHH-MM-SS.pdf for t.
func Filename(t time.Time) string {
	return "scrapbook-" + t.Format("2006-01-02T15-04-05") + ".pdf"
}

// SelectPages resolves the selection to 0-based page indices.
func SelectPages(doc domain.Document, opts PDFOptions) ([]int, error) {
	n := len(doc.Pages)
	if n == 0 {
		return nil, ErrNoPages
	}
	switch opts.Selection {
	case SelectCurrent:
		if doc.CurrentIndex < 0 || doc.CurrentIndex >= n {
			return nil, ErrNoPages
		}
		return []int{doc.CurrentIndex}, nil
	case SelectRange:
		from, to := max(opts.From, 1), min(opts.To, n)
		if from > to {
			return nil, fmt.Errorf("%w: range %d-%d", ErrNoPages, opts.From, opts.To)
		}
		idx := make([]int, 0, to-from+1)
		for p := from; p <= to; p++ {
			idx = append(idx, p-1)
		}
		return idx, nil
	case SelectAll, "":
		idx := make([]int, n)
		for i := range idx {
			idx[i] = i
		}
		return idx, nil
	default:
		return nil, fmt.Errorf("unknown page selection %q", opts.Selection)
	}
}

type renderedPage struct {
	number int
	page   domain.Page
	jpeg   []byte
}

// WritePDF renders the selected pages, one per sheet, and writes the PDF to w.
// Pages that fail to render are left out and listed in the result.
func WritePDF(w io.Writer, doc domain.Document, opts PDFOptions) (Result, error) {
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}
	preset, ok := qualityPresets[opts.Quality]
	if !ok {
		preset = qualityPresets[QualityHigh]
	}
	if opts.Extent.Width <= 0 || opts.Extent.Height <= 0 {
		opts.Extent = domain.Extent{Width: 600, Height: 400}
	}

	indices, err := SelectPages(doc, opts)
	if err != nil {
		return Result{}, err
	}

	// Rasterize first: fpdf errors are sticky, so nothing that can fail per
	// page may touch the document.
	var res Result
	rendered := make([]renderedPage, 0, len(indices))
	for _, i := range indices {
		page := doc.Pages[i]
		img, err := imaging.RenderPage(page, opts.Extent, preset.scale)
		if err == nil {
			var buf bytes.Buffer
			if err = imaging.EncodeJPEG(&buf, img, preset.jpegQuality); err == nil {
				rendered = append(rendered, renderedPage{number: i + 1, page: page, jpeg: buf.Bytes()})
				continue
			}
		}
		log.Warn().Err(err).Int("page", i+1).Msg("Skipping page that failed to render")
		res.Skipped = append(res.Skipped, SkippedPage{Number: i + 1, Err: err})
	}
	if len(rendered) == 0 {
		return res, fmt.Errorf("%w: every selected page failed to render", ErrNoPages)
	}

	orientation := strings.ToUpper(opts.Orientation)
	if orientation != "P" {
		orientation = "L"
	}
	size := opts.PaperSize
	if size == "" {
		size = "A4"
	}
	pdf := fpdf.New(orientation, "mm", size, "")
	title := opts.Title
	if title == "" {
		title = DefaultTitle
	}
	pdf.SetTitle(title, true)
	pdf.SetCreator("scrapbook", true)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddUTF8FontFromBytes(textFont, "", goregular.TTF)

	for _, rp := range rendered {
		pdf.AddPage()
		sheetW, sheetH := pdf.GetPageSize()

		boxW := sheetW - 2*marginMM
		boxH := sheetH - 2*marginMM - footerMM
		k := math.Min(boxW/opts.Extent.Width, boxH/opts.Extent.Height)
		drawW, drawH := opts.Extent.Width*k, opts.Extent.Height*k
		originX := (sheetW - drawW) / 2
		originY := marginMM + (boxH-drawH)/2

		name := fmt.Sprintf("page-%d", rp.number)
		pdf.RegisterImageOptionsReader(name, fpdf.ImageOptions{ImageType: "JPG"}, bytes.NewReader(rp.jpeg))
		pdf.ImageOptions(name, originX, originY, drawW, drawH, false, fpdf.ImageOptions{ImageType: "JPG"}, 0, "")

		drawStickers(pdf, rp.page.Stickers, originX, originY, k)
		drawTexts(pdf, rp.page.Texts, originX, originY, k)

		pdf.SetFont(textFont, "", footerFontSize)
		pdf.SetTextColor(128, 128, 128)
		label := fmt.Sprintf("Page %d", rp.number)
		pdf.Text((sheetW-pdf.GetStringWidth(label))/2, sheetH-marginMM, label)
		res.Pages++
	}

	if err := pdf.Output(w); err != nil {
		return res, fmt.Errorf("write pdf: %w", err)
	}
	return res, nil
}

func drawTexts(pdf *fpdf.Fpdf, texts []domain.Text, originX, originY, k float64) {
	for _, t := range texts {
		r, g, b := rgb(t.Color, 0x37, 0x41, 0x51)
		pdf.SetTextColor(r, g, b)
		sizeMM := t.FontSize * k
		pdf.SetFont(textFont, "", sizeMM*ptPerMM)
		// Canvas y is the top of the glyph box; fpdf places the baseline.
		pdf.Text(originX+t.X*k, originY+(t.Y+t.FontSize)*k, t.Content)
	}
}

// Stickers the text font can draw (stars, arrows, symbols) print as glyphs.
// Emoji have no glyph in it and print as soft discs.
func drawStickers(pdf *fpdf.Fpdf, stickers []domain.Sticker, originX, originY, k float64) {
	pdf.SetFillColor(252, 211, 77)
	for _, s := range stickers {
		size := s.Size * k
		if fontCovers(s.Emoji) {
			pdf.SetTextColor(0x92, 0x40, 0x0e)
			pdf.SetFont(textFont, "", size*ptPerMM)
			w := pdf.GetStringWidth(s.Emoji)
			pdf.Text(originX+s.X*k+(size-w)/2, originY+(s.Y+s.Size*0.8)*k, s.Emoji)
			continue
		}
		radius := size / 2
		pdf.Circle(originX+(s.X*k)+radius, originY+(s.Y*k)+radius, radius, "F")
	}
}

func rgb(hex string, r, g, b uint8) (int, int, int) {
	if c, ok := imaging.ParseHexColor(hex); ok {
		r, g, b = c.R, c.G, c.B
	}
	return int(r), int(g), int(b)
}
