package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"pageforge/compose"
	"pageforge/epub"
	"pageforge/printer"
	"pageforge/text"
	"pageforge/utils"
)

type exportArgs struct {
	CollectionId string `validate:"required"`
	Format       string `validate:"required,oneof=html pdf epub md"`
	outputPath   string
}

var eArgs exportArgs

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a collection as HTML, PDF, EPUB or markdown",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&eArgs.CollectionId, "collection", "", "collection id")
	exportCmd.Flags().StringVarP(&eArgs.Format, "format", "f", "html", "html, pdf, epub or md")
	exportCmd.Flags().StringVarP(&eArgs.outputPath, "output", "o", "", "output directory (default from config)")
	RootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	if err := validate.Struct(eArgs); err != nil {
		return err
	}
	ctx := cmd.Context()
	outputPath := eArgs.outputPath
	if outputPath == "" {
		outputPath = cfg.Export.Output
	}
	if err := os.MkdirAll(outputPath, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %v", err)
	}

	c, err := lib.Collection(ctx, eArgs.CollectionId)
	if err != nil {
		return err
	}
	src, err := lib.LoadSource(ctx, c)
	if err != nil {
		return err
	}
	doc, err := compose.NewBuilder(logger).Build(ctx, c, c.Settings(), src)
	if err != nil {
		return err
	}

	base := filepath.Join(outputPath, utils.DirName(c.Name, c.Id))
	var result string
	switch eArgs.Format {
	case "html":
		result = base + ".html"
		err = os.WriteFile(result, []byte(doc.Html), 0644)
	case "pdf":
		var p *printer.Printer
		p, err = printer.New(printer.Options{
			Headless: cfg.Printer.Headless,
			Timeout:  cfg.Printer.Timeout,
			ExecPath: cfg.Printer.ExecPath,
			Flags:    cfg.Printer.Flags,
		}, logger)
		if err != nil {
			return err
		}
		defer p.Close()
		var pdf []byte
		if pdf, err = p.PDF(ctx, doc.Html); err == nil {
			result = base + ".pdf"
			err = os.WriteFile(result, pdf, 0644)
		}
	case "epub":
		result, err = epub.NewPacker(logger).Pack(ctx, doc, outputPath)
	case "md":
		result, err = text.PackDocumentToMarkdown(ctx, doc, outputPath, logger)
	}
	if err != nil {
		return fmt.Errorf("failed to export %s: %v", eArgs.Format, err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), result)
	return nil
}
