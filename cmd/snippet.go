package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"pageforge/model"
	"pageforge/placeholder"
	"pageforge/preview"
)

var snippetCmd = &cobra.Command{
	Use:   "snippet",
	Short: "Manage page snippets",
	Long:  "Import, search and version the HTML pages collections are made of",
}

var (
	importCategory string
	showHighlight  bool
	versionNote    string
)

var snippetImportCmd = &cobra.Command{
	Use:   "import FILE...",
	Short: "Import .html or .md files as snippets",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, file := range args {
			sn, err := lib.ImportFile(cmd.Context(), file, importCategory)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", sn.Id, sn.Title)
		}
		return nil
	},
}

var snippetImportURLCmd = &cobra.Command{
	Use:   "import-url URL",
	Short: "Download a page and import it as snippet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sn, err := lib.ImportURL(cmd.Context(), args[0], importCategory)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", sn.Id, sn.Title)
		return nil
	},
}

var snippetListCmd = &cobra.Command{
	Use:   "list",
	Short: "List snippets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := lib.Snippets(cmd.Context())
		if err != nil {
			return err
		}
		printSnippets(cmd, list)
		return nil
	},
}

var snippetSearchCmd = &cobra.Command{
	Use:   "search QUERY",
	Short: "Find snippets by title, tag or content",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := lib.Search(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		printSnippets(cmd, list)
		return nil
	},
}

var snippetShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Print a snippet, or its preview document with --highlight",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sn, err := lib.Snippet(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		if !showHighlight {
			fmt.Fprintf(w, "%s  %s  [%s] v%d\n", sn.Id, sn.Title, sn.Status, sn.Version)
			if tokens := placeholder.Tokens(sn.HtmlContent); len(tokens) > 0 {
				fmt.Fprintf(w, "placeholders: %s\n", strings.Join(tokens, ", "))
			}
			for _, v := range sn.Versions {
				fmt.Fprintf(w, "  v%d %s %s\n", v.Version, v.SavedAt.Format("2006-01-02 15:04"), v.Note)
			}
			fmt.Fprintln(w, sn.HtmlContent)
			return nil
		}
		images, err := lib.ImageMap(cmd.Context())
		if err != nil {
			return err
		}
		html, err := preview.NewRenderer(logger).WithImages(images).Highlighted(sn, "", 1)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, html)
		return nil
	},
}

var snippetDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a snippet and remove it from all collections",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return lib.DeleteSnippet(cmd.Context(), args[0])
	},
}

var snippetVersionCmd = &cobra.Command{
	Use:   "version ID",
	Short: "Save the current content of a snippet as a version",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sn, err := lib.NewVersion(cmd.Context(), args[0], versionNote)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s now at version %d\n", sn.Id, sn.Version)
		return nil
	},
}

var imageCmd = &cobra.Command{
	Use:   "image",
	Short: "Manage images referenced as pf://alias",
}

var imageAddCmd = &cobra.Command{
	Use:   "add FILE...",
	Short: "Store image files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, file := range args {
			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("failed to read %s: %v", file, err)
			}
			img, err := lib.AddImage(cmd.Context(), filepath.Base(file), data)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "pf://%s\n", img.Alias)
		}
		return nil
	},
}

func init() {
	snippetImportCmd.Flags().StringVar(&importCategory, "category", "", "category of the imported snippets")
	snippetImportURLCmd.Flags().StringVar(&importCategory, "category", "", "category of the imported snippet")
	snippetShowCmd.Flags().BoolVar(&showHighlight, "highlight", false, "print the preview document with placeholders marked")
	snippetVersionCmd.Flags().StringVarP(&versionNote, "note", "n", "", "version note")

	snippetCmd.AddCommand(
		snippetImportCmd,
		snippetImportURLCmd,
		snippetListCmd,
		snippetSearchCmd,
		snippetShowCmd,
		snippetDeleteCmd,
		snippetVersionCmd,
	)
	imageCmd.AddCommand(imageAddCmd)
	RootCmd.AddCommand(snippetCmd, imageCmd)
}

func printSnippets(cmd *cobra.Command, list []*model.Snippet) {
	for _, sn := range list {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\tv%d\t%s\n", sn.Id, sn.Title, sn.Status, sn.Version, strings.Join(sn.Tags, ","))
	}
}
