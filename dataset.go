package docrecon

// Dataset is the sole external collaborator the engine needs from the PDF
// decoder: given a page number, it reports that page's dimensions in PDF
// coordinate space. The engine never reads PDF content through this
// interface, only geometry.
type Dataset interface {
	GetPage(pageNo int) (PageInfo, error)
}
