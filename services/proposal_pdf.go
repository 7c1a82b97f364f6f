package services

import (
	"bytes"
	"fmt"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/image"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/extension"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/phpdave11/gofpdf"
)

// gofpdf writes its font and image dictionaries in map order unless catalog
// sort is on, and maroto gives no access to the per-document flag.
func init() {
	gofpdf.SetDefaultCatalogSort(true)
}

// pageMargin is 40pt expressed in millimetres.
const pageMargin = 40 * 25.4 / 72

var (
	bodyTextColor  = &props.Color{Red: 40, Green: 40, Blue: 40}
	mutedTextColor = &props.Color{Red: 120, Green: 120, Blue: 120}
	rowStripeColor = &props.Color{Red: 245, Green: 245, Blue: 245}
	white          = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// GenerateProposalPDF renders the proposal as an A4 PDF and returns its bytes.
// The document creation date is the proposal date, so the output depends on
// nothing but its inputs.
func GenerateProposalPDF(doc ProposalDocument, custom Customization) ([]byte, error) {
	cfg := config.NewBuilder().
		WithOrientation(orientation.Vertical).
		WithPageSize(pagesize.A4).
		WithLeftMargin(pageMargin).
		WithTopMargin(pageMargin).
		WithRightMargin(pageMargin).
		WithBottomMargin(pageMargin).
		WithMaxGridSize(LayoutGridSize).
		WithCreationDate(doc.Metadata.ProposalDate).
		WithTitle(ProposalTitle, true).
		WithAuthor(doc.Issuer.CompanyName, true).
		WithPageNumber(props.PageNumber{
			Pattern: "Página {current} de {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   mutedTextColor,
		}).
		Build()

	m := maroto.New(cfg)

	custom.Signature = untieSignatureWidth(custom.Logo, custom.Signature)

	stripe := false
	for _, block := range LayoutProposal(doc, custom) {
		if block.Kind == BlockTableRow {
			addTableRow(m, block, stripe)
			stripe = !stripe
			continue
		}
		addBlock(m, block)
	}

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	return out.GetBytes(), nil
}

// untieSignatureWidth widens the signature by one transparent column when it
// is as wide as the logo. Sorted catalogs order images by width, so a tie would
// leave their object order to map iteration.
func untieSignatureWidth(logo, signature *ImageAsset) *ImageAsset {
	logoPNG, ok := LoadImageAsset(logo)
	if !ok {
		return signature
	}
	sigPNG, ok := LoadImageAsset(signature)
	if !ok || bytes.Equal(logoPNG, sigPNG) {
		return signature
	}
	if pngWidth(logoPNG) != pngWidth(sigPNG) {
		return signature
	}
	sigImg, err := imaging.Decode(bytes.NewReader(sigPNG))
	if err != nil {
		return signature
	}

	b := sigImg.Bounds()
	widened := imaging.New(b.Dx()+1, b.Dy(), color.NRGBA{})
	widened = imaging.Paste(widened, sigImg, widened.Bounds().Min)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, widened, imaging.PNG); err != nil {
		return signature
	}
	return &ImageAsset{FileName: signature.FileName, PNG: buf.Bytes(), Width: b.Dx() + 1, Height: b.Dy()}
}

// addBlock draws every block kind except table body rows.
func addBlock(m core.Maroto, b LayoutBlock) {
	accent := toColor(b.Accent)

	switch b.Kind {
	case BlockSpacer:
		m.AddRows(row.New(b.Height))

	case BlockImage:
		m.AddRows(
			row.New(b.Height).Add(
				col.New(LayoutGridSize).Add(
					image.NewFromBytes(b.Image, extension.Png, props.Rect{Percent: 100}),
				),
			),
		)

	case BlockTitle:
		m.AddRows(fullWidthText(b.Height, b.Text, props.Text{
			Size:  18,
			Style: fontstyle.Bold,
			Align: align.Left,
			Color: accent,
		}))

	case BlockHeading:
		m.AddRows(fullWidthText(b.Height, b.Text, props.Text{
			Size:  11,
			Style: fontstyle.Bold,
			Align: align.Left,
			Top:   1,
			Color: accent,
		}))

	case BlockText:
		m.AddRows(fullWidthText(b.Height, b.Text, props.Text{
			Size:  9,
			Align: align.Left,
			Color: bodyTextColor,
		}))

	case BlockTableHeader:
		headerCell := props.Cell{BackgroundColor: accent}
		r := row.New(b.Height)
		for _, c := range b.Cells {
			r.Add(col.New(c.Width).Add(
				text.New(c.Text, props.Text{
					Size:  8,
					Style: fontstyle.Bold,
					Align: toAlign(c.Align),
					Top:   1.5,
					Left:  1,
					Right: 1,
					Color: white,
				}),
			).WithStyle(&headerCell))
		}
		m.AddRows(r)

	case BlockTotal:
		m.AddRows(fullWidthText(b.Height, b.Text, props.Text{
			Size:  11,
			Style: fontstyle.Bold,
			Align: align.Right,
			Top:   2,
			Color: accent,
		}))
	}
}

// addTableRow draws one item row, shading every other row.
func addTableRow(m core.Maroto, b LayoutBlock, stripe bool) {
	r := row.New(b.Height)
	for _, c := range b.Cells {
		cell := col.New(c.Width).Add(
			text.New(c.Text, props.Text{
				Size:  8,
				Align: toAlign(c.Align),
				Top:   1.5,
				Left:  1,
				Right: 1,
				Color: bodyTextColor,
			}),
		)
		if stripe {
			cell.WithStyle(&props.Cell{BackgroundColor: rowStripeColor})
		}
		r.Add(cell)
	}
	m.AddRows(r)
}

func fullWidthText(height float64, s string, p props.Text) core.Row {
	return row.New(height).Add(col.New(LayoutGridSize).Add(text.New(s, p)))
}

func toColor(c RGB) *props.Color {
	return &props.Color{Red: c.Red, Green: c.Green, Blue: c.Blue}
}

func toAlign(a CellAlign) align.Type {
	switch a {
	case AlignCenter:
		return align.Center
	case AlignRight:
		return align.Right
	default:
		return align.Left
	}
}
