package services

import (
	"bytes"
	"context"
	"fmt"
	"net/url"

	"github.com/filmdesk/backend/internal/config"
	"github.com/jung-kurt/gofpdf"
	qrcode "github.com/skip2/go-qrcode"
)

// RenderService produces the printable artifacts around an export: a
// contact-sheet PDF of a folder and a QR code pointing at the bundle
// download URL.
type RenderService struct {
	store *StoreService
	cfg   *config.Config
}

func NewRenderService(store *StoreService, cfg *config.Config) *RenderService {
	return &RenderService{store: store, cfg: cfg}
}

// ExportQRPNG renders a QR code for the folder's bundle download URL, so a
// phone can grab the archive straight off the scanning station.
func (s *RenderService) ExportQRPNG(folder string) ([]byte, error) {
	downloadURL := fmt.Sprintf("%s/api/v1/folders/%s/export.zip", s.cfg.APIUrl, url.PathEscape(folder))
	return qrcode.Encode(downloadURL, qrcode.Medium, 512)
}

// ContactSheetPDF lays the folder's frames out on A4 pages, two columns of
// three, captioned with the frame names. Frames gofpdf cannot embed
// (anything but PNG/JPEG) are skipped.
func (s *RenderService) ContactSheetPDF(ctx context.Context, folder string) ([]byte, error) {
	frames, err := s.store.ListFolder(ctx, folder)
	if err != nil {
		return nil, err
	}
	if len(frames) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyFolder, folder)
	}

	const (
		pageW   = 210.0
		margin  = 12.0
		cellW   = (pageW - 3*margin) / 2
		cellH   = 72.0
		caption = 6.0
		cols    = 2
		rows    = 3
	)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 9)

	cell := 0
	for _, frame := range frames {
		var imgType string
		switch frame.MimeType {
		case "image/png":
			imgType = "PNG"
		case "image/jpeg":
			imgType = "JPG"
		default:
			continue
		}

		if cell%(cols*rows) == 0 {
			pdf.AddPage()
			pdf.SetFont("Arial", "B", 12)
			pdf.Cell(0, 8, folder)
			pdf.SetFont("Arial", "", 9)
		}
		col := cell % cols
		row := (cell / cols) % rows
		x := margin + float64(col)*(cellW+margin)
		y := margin + 10 + float64(row)*(cellH+caption+4)

		name := fmt.Sprintf("frame-%d", frame.ID)
		opt := gofpdf.ImageOptions{ImageType: imgType, ReadDpi: true}
		pdf.RegisterImageOptionsReader(name, opt, bytes.NewReader(frame.Payload))
		pdf.ImageOptions(name, x, y, cellW, cellH, false, opt, 0, "")
		pdf.SetXY(x, y+cellH)
		pdf.CellFormat(cellW, caption, frame.Name, "", 0, "C", false, 0, "")

		cell++
	}

	if cell == 0 {
		return nil, fmt.Errorf("%w: no printable frames in %s", ErrEmptyFolder, folder)
	}

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
