package pdf

import (
	"bytes"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/tearsheet/internal/interfaces"
)

// Inspection summarizes a validated PDF
type Inspection struct {
	Pages int
	Size  int
}

// Inspector re-reads generated PDFs with pdfcpu
type Inspector struct {
	logger arbor.ILogger
}

// Compile-time assertion
var _ interfaces.PDFInspector = (*Inspector)(nil)

func NewInspector(logger arbor.ILogger) *Inspector {
	return &Inspector{logger: logger}
}

// Inspect validates content and reads its page count.
func (i *Inspector) Inspect(content []byte) (*Inspection, error) {
	if len(content) == 0 {
		return nil, fmt.Errorf("empty PDF")
	}

	conf := model.NewDefaultConfiguration()
	if err := api.Validate(bytes.NewReader(content), conf); err != nil {
		return nil, fmt.Errorf("invalid PDF: %w", err)
	}

	pdfCtx, err := api.ReadContext(bytes.NewReader(content), conf)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF context: %w", err)
	}

	i.logger.Debug().
		Int("pages", pdfCtx.PageCount).
		Int("size", len(content)).
		Msg("PDF validated")

	return &Inspection{Pages: pdfCtx.PageCount, Size: len(content)}, nil
}

// PageCount returns the number of pages of a valid PDF.
func (i *Inspector) PageCount(content []byte) (int, error) {
	inspection, err := i.Inspect(content)
	if err != nil {
		return 0, err
	}
	return inspection.Pages, nil
}
