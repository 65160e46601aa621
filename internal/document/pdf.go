package document

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"golang.org/x/text/encoding/charmap"

	"github.com/Akshaypareek01/DietProject-samsara/internal/config"
	"github.com/Akshaypareek01/DietProject-samsara/internal/domain"
)

const (
	// ContentTypePDF is the media type of rendered plans.
	ContentTypePDF = "application/pdf"

	unicodeFamily = "DejaVu"
	coreFamily    = "Helvetica"
	regularFont   = "DejaVuSans.ttf"
	boldFont      = "DejaVuSans-Bold.ttf"
)

// Renderer produces PDF documents from plan text.
type Renderer struct {
	fontDir  string
	compress bool
	now      func() time.Time
}

// NewRenderer builds a Renderer reading optional TTF fonts from cfg.FontDir.
func NewRenderer(cfg config.DocumentConfig) *Renderer {
	return &Renderer{fontDir: cfg.FontDir, compress: true, now: time.Now}
}

// Render lays the plan out on A4 pages. Content never causes a failure:
// characters the active font cannot encode become '?'.
func (r *Renderer) Render(plan domain.GeneratedPlan) (domain.RenderedDocument, error) {
	pdf := fpdf.New("P", "mm", "A4", r.fontDir)
	pdf.SetCompression(r.compress)
	pdf.SetMargins(18, 18, 18)
	pdf.SetAutoPageBreak(true, 18)
	pdf.SetCreationDate(r.now())
	pdf.SetTitle("Personalized Ayurvedic Diet Plan", true)
	pdf.SetCreator("diet-plan-service", true)

	family, enc := r.selectFont(pdf)
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-14)
		pdf.SetFont(family, "", 8)
		pdf.SetTextColor(120, 120, 120)
		pdf.CellFormat(0, 8, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	if plan.GenerationDay != "" {
		pdf.SetFont(family, "", 9)
		pdf.SetTextColor(110, 110, 110)
		pdf.CellFormat(0, 5, enc("Generated on "+plan.GenerationDay), "", 1, "R", false, 0, "")
		pdf.Ln(2)
	}

	left, _, _, _ := pdf.GetMargins()
	for _, b := range Parse(plan.RawText) {
		switch b.Kind {
		case KindHeading1:
			pdf.SetFont(family, "B", 17)
			pdf.SetTextColor(34, 85, 51)
			pdf.MultiCell(0, 9, enc(b.Text), "", "L", false)
			pdf.Ln(2)
		case KindHeading2:
			pdf.Ln(1)
			pdf.SetFont(family, "B", 13)
			pdf.SetTextColor(60, 60, 60)
			pdf.MultiCell(0, 7, enc(b.Text), "", "L", false)
			pdf.Ln(1)
		case KindBullet:
			pdf.SetFont(family, "", 11)
			pdf.SetTextColor(20, 20, 20)
			pdf.SetX(left + 4)
			pdf.CellFormat(5, 6, enc("•"), "", 0, "L", false, 0, "")
			pdf.MultiCell(0, 6, enc(b.Text), "", "L", false)
		case KindSpacer:
			pdf.Ln(3)
		default:
			pdf.SetFont(family, "", 11)
			pdf.SetTextColor(20, 20, 20)
			pdf.MultiCell(0, 6, enc(b.Text), "", "L", false)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return domain.RenderedDocument{}, fmt.Errorf("render pdf: %w", err)
	}
	return domain.RenderedDocument{
		Filename:    Filename(plan),
		ContentType: ContentTypePDF,
		Content:     buf.Bytes(),
	}, nil
}

// Filename names the attachment after the generation day.
func Filename(plan domain.GeneratedPlan) string {
	day := strings.ToLower(strings.TrimSpace(plan.GenerationDay))
	if day == "" {
		return "ayurvedic-diet-plan.pdf"
	}
	return "ayurvedic-diet-plan-" + day + ".pdf"
}

// selectFont registers the Unicode family when both TTF files exist and
// otherwise falls back to the core Helvetica font with cp1252 encoding.
func (r *Renderer) selectFont(pdf *fpdf.Fpdf) (string, func(string) string) {
	if r.fontDir != "" && exists(filepath.Join(r.fontDir, regularFont)) && exists(filepath.Join(r.fontDir, boldFont)) {
		// Paths are resolved against the font directory given to fpdf.New.
		pdf.AddUTF8Font(unicodeFamily, "", regularFont)
		pdf.AddUTF8Font(unicodeFamily, "B", boldFont)
		if pdf.Ok() {
			return unicodeFamily, ToBMP
		}
		pdf.ClearError()
	}
	return coreFamily, ToWindows1252
}

func exists(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && !fi.IsDir()
}

// ToWindows1252 transcodes s for the core fonts. Runes without a cp1252
// encoding become '?'.
func ToWindows1252(s string) string {
	b := make([]byte, 0, len(s))
	for _, r := range s {
		if r == '\t' {
			b = append(b, ' ')
			continue
		}
		if c, ok := charmap.Windows1252.EncodeRune(r); ok {
			b = append(b, c)
		} else {
			b = append(b, '?')
		}
	}
	return string(b)
}

// ToBMP keeps s as UTF-8 but replaces runes outside the Basic Multilingual
// Plane, which the embedded TTF subsetter cannot map.
func ToBMP(s string) string {
	return strings.Map(func(r rune) rune {
		if r > 0xFFFF {
			return '?'
		}
		if r == '\t' {
			return ' '
		}
		return r
	}, s)
}
