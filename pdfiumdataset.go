package docrecon

import (
	"github.com/klippa-app/go-pdfium"
	"github.com/klippa-app/go-pdfium/references"
	"github.com/klippa-app/go-pdfium/requests"
	"github.com/pkg/errors"
)

// PDFiumDataset implements Dataset against an already-open pdfium document.
// It is the concrete adapter for the PDF decoder: the engine only ever
// calls GetPage, never touches pdfium content/text APIs.
type PDFiumDataset struct {
	instance pdfium.Pdfium
	document references.FPDF_DOCUMENT
}

// NewPDFiumDataset wraps an open document reference. The caller retains
// ownership of both instance and document and must close the document
// itself once the Dataset is no longer needed.
func NewPDFiumDataset(instance pdfium.Pdfium, document references.FPDF_DOCUMENT) *PDFiumDataset {
	return &PDFiumDataset{instance: instance, document: document}
}

// GetPage loads the page at pageNo (0-indexed), reads its width and
// height, and closes it again. It never retains a page reference across
// calls, so concurrent callers impose no coordination requirement on each
// other.
func (d *PDFiumDataset) GetPage(pageNo int) (PageInfo, error) {
	pageResp, err := d.instance.FPDF_LoadPage(&requests.FPDF_LoadPage{
		Document: d.document,
		Index:    pageNo,
	})
	if err != nil {
		return PageInfo{}, errors.Wrapf(err, "failed to load page %d", pageNo)
	}
	defer d.instance.FPDF_ClosePage(&requests.FPDF_ClosePage{
		Page: pageResp.Page,
	})

	width, err := d.instance.FPDF_GetPageWidthF(&requests.FPDF_GetPageWidthF{
		Page: requests.Page{ByReference: &pageResp.Page},
	})
	if err != nil {
		return PageInfo{}, errors.Wrapf(err, "failed to get width of page %d", pageNo)
	}

	height, err := d.instance.FPDF_GetPageHeightF(&requests.FPDF_GetPageHeightF{
		Page: requests.Page{ByReference: &pageResp.Page},
	})
	if err != nil {
		return PageInfo{}, errors.Wrapf(err, "failed to get height of page %d", pageNo)
	}

	return PageInfo{Width: float64(width.PageWidth), Height: float64(height.PageHeight)}, nil
}
