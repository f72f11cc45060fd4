package docrecon_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ivanvanderbyl/docrecon"
)

type fakeDataset map[int]docrecon.PageInfo

func (d fakeDataset) GetPage(pageNo int) (docrecon.PageInfo, error) {
	info, ok := d[pageNo]
	if !ok {
		return docrecon.PageInfo{}, &docrecon.PageOutOfRangeError{PageNo: pageNo}
	}
	return info, nil
}

func bbox(x0, y0, x1, y1 float64) *[4]float64 {
	b := [4]float64{x0, y0, x1, y1}
	return &b
}

func TestModel_GetImgsV2_AttachesCaptionAndFootnote(t *testing.T) {
	ds := fakeDataset{0: {Width: 100, Height: 200}}
	rawPages := []docrecon.RawPageDetections{
		{
			PageInfo: docrecon.RawPageInfo{PageNo: 0, Width: 100, Height: 200},
			LayoutDets: []docrecon.RawDetection{
				{CategoryID: 3, Score: 0.95, Bbox: bbox(0, 0, 100, 100)},
				{CategoryID: 4, Score: 0.9, Bbox: bbox(0, 105, 100, 115)},
				{CategoryID: 7, Score: 0.9, Bbox: bbox(0, 120, 100, 130)},
			},
		},
	}

	model, err := docrecon.NewModel("test-doc", rawPages, ds, docrecon.DefaultConfig())
	require.NoError(t, err)

	imgs, err := model.GetImgsV2(0)
	require.NoError(t, err)
	require.Len(t, imgs, 1)
	require.Len(t, imgs[0].Captions, 1)
	// The category-7 footnote is close enough to the image body that it
	// should have been reclassified to image_footnote during sanitization,
	// and therefore shows up under Footnotes.
	require.Len(t, imgs[0].Footnotes, 1)
}

func TestModel_UnknownPage_ReturnsPageOutOfRange(t *testing.T) {
	ds := fakeDataset{0: {Width: 100, Height: 100}}
	rawPages := []docrecon.RawPageDetections{
		{PageInfo: docrecon.RawPageInfo{PageNo: 0, Width: 100, Height: 100}},
	}
	model, err := docrecon.NewModel("test-doc", rawPages, ds, docrecon.DefaultConfig())
	require.NoError(t, err)

	_, err = model.GetTextBlocks(1)
	require.Error(t, err)
	var pageErr *docrecon.PageOutOfRangeError
	require.ErrorAs(t, err, &pageErr)
	require.Equal(t, 1, pageErr.PageNo)
}

func TestModel_GetAllSpans_DedupsExactDuplicates(t *testing.T) {
	ds := fakeDataset{0: {Width: 100, Height: 100}}
	rawPages := []docrecon.RawPageDetections{
		{
			PageInfo: docrecon.RawPageInfo{PageNo: 0, Width: 100, Height: 100},
			LayoutDets: []docrecon.RawDetection{
				{CategoryID: 15, Score: 0.9, Bbox: bbox(0, 0, 10, 10), Text: "hello"},
				{CategoryID: 15, Score: 0.9, Bbox: bbox(0, 0, 10, 10), Text: "hello"},
				{CategoryID: 15, Score: 0.9, Bbox: bbox(20, 20, 30, 30), Text: "world"},
			},
		},
	}

	model, err := docrecon.NewModel("test-doc", rawPages, ds, docrecon.DefaultConfig())
	require.NoError(t, err)

	spans, err := model.GetAllSpans(0)
	require.NoError(t, err)
	require.Len(t, spans, 2)
}

func TestModel_GetPageSize(t *testing.T) {
	ds := fakeDataset{0: {Width: 612, Height: 792}}
	rawPages := []docrecon.RawPageDetections{
		{PageInfo: docrecon.RawPageInfo{PageNo: 0, Width: 612, Height: 792}},
	}
	model, err := docrecon.NewModel("test-doc", rawPages, ds, docrecon.DefaultConfig())
	require.NoError(t, err)

	size, err := model.GetPageSize(0)
	require.NoError(t, err)
	require.Equal(t, docrecon.PageInfo{Width: 612, Height: 792}, size)
}
