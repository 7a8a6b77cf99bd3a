package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"pageforge/layout"
	"pageforge/model"
)

var collectionCmd = &cobra.Command{
	Use:   "collection",
	Short: "Create and arrange collections",
	Long:  "Create and arrange collections of chapters and standalone pages",
}

type collectionCreateArgs struct {
	Name        string `validate:"required"`
	Description string
	Subtitle    string
	Author      string
	Copyright   string
}

type collectionSettingsArgs struct {
	Cover         bool
	Toc           bool
	TocStyle      string `validate:"omitempty,oneof=classic modern minimal"`
	ChapterCovers bool
	CcStyle       string `validate:"omitempty,oneof=bold elegant stripe"`
	StartNr       int    `validate:"gte=0"`
	MasterCss     string
}

var (
	createArgs    collectionCreateArgs
	settingsArgs  collectionSettingsArgs
	withinChapter bool
)

var collectionCreateCmd = &cobra.Command{
	Use:   "create NAME",
	Short: "Create a collection with one empty chapter",
	Args:  cobra.ExactArgs(1),
	RunE:  runCollectionCreate,
}

var collectionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List collections",
	Args:  cobra.NoArgs,
	RunE:  runCollectionList,
}

var collectionShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show the items and page numbers of a collection",
	Args:  cobra.ExactArgs(1),
	RunE:  runCollectionShow,
}

var collectionAddChapterCmd = &cobra.Command{
	Use:   "add-chapter ID [NAME]",
	Short: "Append an empty chapter",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := ""
		if len(args) > 1 {
			name = args[1]
		}
		return update(cmd, args[0], func(c *model.Collection) error {
			c.AddChapter(name)
			return nil
		})
	},
}

var collectionAddPagesCmd = &cobra.Command{
	Use:   "add-pages ID ITEM SNIPPET...",
	Short: "Append pages to the chapter at ITEM",
	Args:  cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		idx, err := indexes(args[1])
		if err != nil {
			return err
		}
		if err := snippetsExist(cmd, args[2:]); err != nil {
			return err
		}
		return update(cmd, args[0], func(c *model.Collection) error {
			return c.AddPagesToChapter(idx[0], args[2:]...)
		})
	},
}

var collectionAddStandaloneCmd = &cobra.Command{
	Use:   "add-standalone ID SNIPPET...",
	Short: "Append standalone pages",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := snippetsExist(cmd, args[1:]); err != nil {
			return err
		}
		return update(cmd, args[0], func(c *model.Collection) error {
			c.AddStandalonePages(args[1:]...)
			return nil
		})
	},
}

var collectionMoveCmd = &cobra.Command{
	Use:   "move ID FROM TO",
	Short: "Move an item to another position",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		idx, err := indexes(args[1:]...)
		if err != nil {
			return err
		}
		return update(cmd, args[0], func(c *model.Collection) error {
			return c.MoveItem(idx[0], idx[1])
		})
	},
}

var collectionMovePageCmd = &cobra.Command{
	Use:   "move-page ID ITEM POSITION TARGET",
	Short: "Move a page to the end of chapter TARGET, or to position TARGET with --within",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		idx, err := indexes(args[1:]...)
		if err != nil {
			return err
		}
		return update(cmd, args[0], func(c *model.Collection) error {
			if withinChapter {
				return c.MovePageWithinChapter(idx[0], idx[1], idx[2])
			}
			return c.MovePageAcrossChapters(idx[0], idx[1], idx[2])
		})
	},
}

var collectionRenameCmd = &cobra.Command{
	Use:   "rename ID ITEM NAME",
	Short: "Rename a chapter",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		idx, err := indexes(args[1])
		if err != nil {
			return err
		}
		return update(cmd, args[0], func(c *model.Collection) error {
			return c.RenameChapter(idx[0], args[2])
		})
	},
}

var collectionRemoveItemCmd = &cobra.Command{
	Use:   "remove-item ID ITEM",
	Short: "Remove a chapter or standalone page",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		idx, err := indexes(args[1])
		if err != nil {
			return err
		}
		return update(cmd, args[0], func(c *model.Collection) error {
			return c.RemoveItem(idx[0])
		})
	},
}

var collectionRemovePageCmd = &cobra.Command{
	Use:   "remove-page ID ITEM POSITION",
	Short: "Remove a page from a chapter",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		idx, err := indexes(args[1:]...)
		if err != nil {
			return err
		}
		return update(cmd, args[0], func(c *model.Collection) error {
			return c.RemovePage(idx[0], idx[1])
		})
	},
}

var collectionDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a collection",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return lib.DeleteCollection(cmd.Context(), args[0])
	},
}

var collectionSettingsCmd = &cobra.Command{
	Use:   "settings ID",
	Short: "Change print settings and master style",
	Args:  cobra.ExactArgs(1),
	RunE:  runCollectionSettings,
}

var collectionMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Convert collections stored in the old chapter format",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := lib.MigrateAll(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d collection(s) migrated\n", n)
		return nil
	},
}

func init() {
	f := collectionCreateCmd.Flags()
	f.StringVarP(&createArgs.Description, "description", "d", "", "description")
	f.StringVarP(&createArgs.Subtitle, "subtitle", "s", "", "subtitle ({{untertitel}})")
	f.StringVarP(&createArgs.Author, "author", "a", "", "author ({{autor}})")
	f.StringVar(&createArgs.Copyright, "copyright", "", "copyright note ({{copyright}})")

	f = collectionSettingsCmd.Flags()
	f.BoolVar(&settingsArgs.Cover, "cover", false, "use the first page as unnumbered cover")
	f.BoolVar(&settingsArgs.Toc, "toc", false, "insert a table of contents")
	f.StringVar(&settingsArgs.TocStyle, "toc-style", "", "table of contents style: classic, modern or minimal")
	f.BoolVar(&settingsArgs.ChapterCovers, "chapter-covers", false, "insert a cover page before every chapter")
	f.StringVar(&settingsArgs.CcStyle, "cc-style", "", "chapter cover style: bold, elegant or stripe")
	f.IntVar(&settingsArgs.StartNr, "start-nr", 0, "first page number")
	f.StringVar(&settingsArgs.MasterCss, "master-css", "", "file with the master style, - for stdin, empty string clears")

	collectionMovePageCmd.Flags().BoolVar(&withinChapter, "within", false, "TARGET is a position inside the same chapter")

	collectionCmd.AddCommand(
		collectionCreateCmd,
		collectionListCmd,
		collectionShowCmd,
		collectionAddChapterCmd,
		collectionAddPagesCmd,
		collectionAddStandaloneCmd,
		collectionMoveCmd,
		collectionMovePageCmd,
		collectionRenameCmd,
		collectionRemoveItemCmd,
		collectionRemovePageCmd,
		collectionDeleteCmd,
		collectionSettingsCmd,
		collectionMigrateCmd,
	)
	RootCmd.AddCommand(collectionCmd)
}

func update(cmd *cobra.Command, id string, fn func(*model.Collection) error) error {
	c, err := lib.UpdateCollection(cmd.Context(), id, fn)
	if err != nil {
		return err
	}
	return printCollection(cmd, c)
}

func snippetsExist(cmd *cobra.Command, ids []string) error {
	for _, id := range ids {
		if _, err := lib.Snippet(cmd.Context(), id); err != nil {
			return err
		}
	}
	return nil
}

func runCollectionCreate(cmd *cobra.Command, args []string) error {
	createArgs.Name = args[0]
	if err := validate.Struct(createArgs); err != nil {
		return err
	}
	c, err := lib.CreateCollection(cmd.Context(), createArgs.Name)
	if err != nil {
		return err
	}
	if createArgs.Description != "" || createArgs.Subtitle != "" || createArgs.Author != "" || createArgs.Copyright != "" {
		c, err = lib.UpdateCollection(cmd.Context(), c.Id, func(c *model.Collection) error {
			c.Description = createArgs.Description
			c.Subtitle = createArgs.Subtitle
			c.Author = createArgs.Author
			c.Copyright = createArgs.Copyright
			return nil
		})
		if err != nil {
			return err
		}
	}
	fmt.Fprintln(cmd.OutOrStdout(), c.Id)
	return nil
}

func runCollectionList(cmd *cobra.Command, args []string) error {
	cols, err := lib.Collections(cmd.Context())
	if err != nil {
		return err
	}
	for _, c := range cols {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%d chapter(s)\t%d page(s)\n", c.Id, c.Name, c.ChapterCount(), c.CountPages())
	}
	return nil
}

func runCollectionShow(cmd *cobra.Command, args []string) error {
	c, err := lib.Collection(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return printCollection(cmd, c)
}

// printCollection lists the items of c. Page numbers are shown when every
// referenced snippet exists.
func printCollection(cmd *cobra.Command, c *model.Collection) error {
	w := cmd.OutOrStdout()
	settings := c.Settings()
	fmt.Fprintf(w, "%s  %s\n", c.Id, c.Name)
	fmt.Fprintf(w, "cover=%t toc=%t (%s) chapterCovers=%t (%s) startNr=%d\n",
		settings.Cover, settings.Toc, settings.TocStyle, settings.ChapterCovers, settings.CcStyle, settings.StartNr)

	var seq *layout.Sequence
	if src, err := lib.LoadSource(cmd.Context(), c); err == nil {
		seq, _ = layout.Flatten(c, settings, src.Snippets)
	}
	nr := func(item, pos int) string {
		if seq == nil {
			return "?"
		}
		i, ok := seq.Find(item, pos)
		if !ok {
			return "?"
		}
		if !seq.Entries[i].Numbered {
			return "cover"
		}
		return fmt.Sprint(seq.Entries[i].DisplayNr)
	}
	for i, item := range c.Items {
		if !item.IsChapter() {
			fmt.Fprintf(w, "[%d] page %s  (p. %s)\n", i, item.SnippetId, nr(i, 0))
			continue
		}
		fmt.Fprintf(w, "[%d] chapter %d: %s\n", i, c.ChapterNumber(i), item.Name)
		for pos, id := range item.SnippetIds {
			fmt.Fprintf(w, "    %d. %s  (p. %s)\n", pos, id, nr(i, pos))
		}
	}
	return nil
}

func runCollectionSettings(cmd *cobra.Command, args []string) error {
	if err := validate.Struct(settingsArgs); err != nil {
		return err
	}
	flags := cmd.Flags()
	var master *string
	if flags.Changed("master-css") {
		css, err := readInput(cmd, settingsArgs.MasterCss)
		if err != nil {
			return err
		}
		master = &css
	}
	return update(cmd, args[0], func(c *model.Collection) error {
		s := c.Settings()
		if flags.Changed("cover") {
			s.Cover = settingsArgs.Cover
		}
		if flags.Changed("toc") {
			s.Toc = settingsArgs.Toc
		}
		if flags.Changed("toc-style") {
			s.TocStyle = model.TocStyle(settingsArgs.TocStyle)
		}
		if flags.Changed("chapter-covers") {
			s.ChapterCovers = settingsArgs.ChapterCovers
		}
		if flags.Changed("cc-style") {
			s.CcStyle = model.ChapterCoverStyle(settingsArgs.CcStyle)
		}
		if flags.Changed("start-nr") {
			s.StartNr = settingsArgs.StartNr
		}
		s = s.Normalize()
		c.PrintSettings = &s
		if master != nil {
			c.MasterCss = *master
		}
		return nil
	})
}

// readInput reads a file, stdin for "-", or nothing for "".
func readInput(cmd *cobra.Command, name string) (string, error) {
	switch name {
	case "":
		return "", nil
	case "-":
		data, err := io.ReadAll(cmd.InOrStdin())
		return string(data), err
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %v", name, err)
	}
	return strings.TrimSpace(string(data)), nil
}
