package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"paggie/trainer-app/internal/catalog"
)

var (
	libraryCategory string
	librarySearch   string
)

var libraryCmd = &cobra.Command{
	Use:     "library",
	Aliases: []string{"lib"},
	Short:   "List the built-in exercise catalog",
	Long: `List the exercises shipped with the picker.

EXAMPLES:

  paggie library                  # Every exercise with category counts
  paggie library -c Pernas        # Only one category
  paggie library -s supino        # Search by name`,
	RunE: func(cmd *cobra.Command, args []string) error {
		items := catalog.Builtin()
		known := false
		for _, c := range catalog.Categories(items) {
			if c.Name == libraryCategory {
				known = true
				break
			}
		}
		if !known {
			return fmt.Errorf("unknown category: %s", libraryCategory)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tCATEGORIA\tEXERCÍCIO\tSÉRIES\tREPS")
		filtered := catalog.Filter(items, libraryCategory, librarySearch)
		for _, it := range filtered {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", it.ID, it.Category, it.Name, it.DefaultSets, it.DefaultReps)
		}
		if err := w.Flush(); err != nil {
			return err
		}
		fmt.Printf("\n%d exercício(s)\n", len(filtered))
		return nil
	},
}

func init() {
	libraryCmd.Flags().StringVarP(&libraryCategory, "category", "c", catalog.AllCategories, "category to list")
	libraryCmd.Flags().StringVarP(&librarySearch, "search", "s", "", "case-insensitive name filter")
}
