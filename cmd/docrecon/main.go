// Command docrecon reconciles a vision pipeline's raw layout detections
// against a PDF's true page geometry and prints the resulting compound
// document structure as JSON.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/klippa-app/go-pdfium/requests"
	"github.com/klippa-app/go-pdfium/webassembly"
	"github.com/urfave/cli/v3"

	"github.com/ivanvanderbyl/docrecon"
)

func main() {
	cmd := &cli.Command{
		Name:  "docrecon",
		Usage: "Reconcile detector layout output against a PDF's page geometry",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "pdf",
				Aliases:  []string{"p"},
				Usage:    "Input PDF file path",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "detections",
				Aliases:  []string{"d"},
				Usage:    "Path to a JSON file holding the detector's raw per-page layout_dets records",
				Required: true,
			},
			&cli.IntFlag{
				Name:  "page",
				Usage: "Restrict output to a single page number (0-indexed); default prints every page",
				Value: -1,
			},
			&cli.BoolFlag{
				Name:  "v1",
				Usage: "Use the legacy (v1) grouper instead of the canonical v2 grouper",
			},
		},
		Action: reconcile,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func reconcile(_ context.Context, cmd *cli.Command) error {
	pdfPath := cmd.String("pdf")
	detectionsPath := cmd.String("detections")
	onlyPage := cmd.Int("page")
	useV1 := cmd.Bool("v1")

	raw, err := os.ReadFile(detectionsPath)
	if err != nil {
		return fmt.Errorf("failed to read detections file: %w", err)
	}
	var rawPages []docrecon.RawPageDetections
	if err := json.Unmarshal(raw, &rawPages); err != nil {
		return fmt.Errorf("failed to parse detections file: %w", err)
	}

	pool, err := webassembly.Init(webassembly.Config{
		MinIdle:  1,
		MaxIdle:  1,
		MaxTotal: 1,
	})
	if err != nil {
		return fmt.Errorf("failed to initialise pdfium: %w", err)
	}
	defer pool.Close()

	instance, err := pool.GetInstance(time.Second * 30)
	if err != nil {
		return fmt.Errorf("failed to get pdfium instance: %w", err)
	}

	doc, err := instance.OpenDocument(&requests.OpenDocument{
		FilePath: &pdfPath,
	})
	if err != nil {
		return fmt.Errorf("failed to open PDF document: %w", err)
	}
	defer instance.FPDF_CloseDocument(&requests.FPDF_CloseDocument{
		Document: doc.Document,
	})

	dataset := docrecon.NewPDFiumDataset(instance, doc.Document)

	model, err := docrecon.NewModel(pdfPath, rawPages, dataset, docrecon.DefaultConfig())
	if err != nil {
		return fmt.Errorf("failed to build model: %w", err)
	}

	pageNos := make([]int, 0, len(rawPages))
	for _, rp := range rawPages {
		if onlyPage >= 0 && rp.PageInfo.PageNo != onlyPage {
			continue
		}
		pageNos = append(pageNos, rp.PageInfo.PageNo)
	}

	results := make(map[int]pageResult, len(pageNos))
	for _, pageNo := range pageNos {
		res, err := buildPageResult(model, pageNo, useV1)
		if err != nil {
			return fmt.Errorf("failed to reconcile page %d: %w", pageNo, err)
		}
		results[pageNo] = res
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

type pageResult struct {
	Images    []docrecon.CompoundImage `json:"images"`
	Tables    []docrecon.CompoundTable `json:"tables"`
	Equations []docrecon.EquationBlock `json:"equations"`
	Spans     []docrecon.Span          `json:"spans"`
}

func buildPageResult(model *docrecon.Model, pageNo int, useV1 bool) (pageResult, error) {
	var res pageResult
	var err error

	if useV1 {
		res.Images, err = model.GetImgs(pageNo)
	} else {
		res.Images, err = model.GetImgsV2(pageNo)
	}
	if err != nil {
		return res, err
	}

	if useV1 {
		res.Tables, err = model.GetTables(pageNo)
	} else {
		res.Tables, err = model.GetTablesV2(pageNo)
	}
	if err != nil {
		return res, err
	}

	res.Equations, err = model.GetEquations(pageNo)
	if err != nil {
		return res, err
	}

	res.Spans, err = model.GetAllSpans(pageNo)
	if err != nil {
		return res, err
	}

	return res, nil
}
