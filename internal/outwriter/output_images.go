package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/huangsam/douremember/internal/contract"
	"github.com/huangsam/douremember/schema"
	"github.com/olekukonko/tablewriter"
)

// PrintImages outputs a group's images, dispatching based on the output format configured.
func PrintImages(images []schema.Image, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, images)
		}, "Wrote JSON images")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, []string{"id", "group_id", "description", "url"}, func(cw *csv.Writer) error {
				for _, img := range images {
					if err := cw.Write([]string{img.ID, img.GroupID, img.Description, img.URL}); err != nil {
						return err
					}
				}
				return nil
			})
		}, "Wrote CSV images")
	case schema.ParquetOut:
		return fmt.Errorf("parquet output is only available for report lists")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return WriteImagesTable(w, images, cfg)
		}, "Wrote images")
	}
}

// WriteImagesTable prints ID, description and URL per image.
func WriteImagesTable(w io.Writer, images []schema.Image, cfg *contract.Config) error {
	if len(images) == 0 {
		_, err := fmt.Fprintln(w, "No hay imágenes en este grupo.")
		return err
	}
	descWidth := GetMaxTableTextWidth(cfg, 36+40)

	table := tablewriter.NewWriter(w)
	table.Header([]string{"ID", "Descripción", "URL"})
	var data [][]string
	for _, img := range images {
		data = append(data, []string{img.ID, truncateText(img.Description, descWidth), img.URL})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d imágenes\n", len(images))
	return err
}
