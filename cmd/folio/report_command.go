package main

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"folio/internal/catalog"
)

type claimantView struct {
	TitleID         int64  `json:"title_id"`
	Title           string `json:"title"`
	Authors         string `json:"authors"`
	Year            int    `json:"year,omitempty"`
	Pages           int    `json:"pages,omitempty"`
	Category        string `json:"category"`
	EditionCategory string `json:"edition_category"`
	Foreign         bool   `json:"foreign"`
	Virtual         bool   `json:"virtual,omitempty"`
}

type duplicateGroupView struct {
	ISBN      string         `json:"isbn"`
	Claimants []claimantView `json:"claimants"`
}

func newReportCommand(ctx *commandContext) *cobra.Command {
	var (
		limit   int
		jsonOut bool
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "List ISBNs claimed by more than one title",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			var groups []catalog.DuplicateGroup
			err = withStore(cfg, func(store *catalog.Store, _ *slog.Logger) error {
				groups, err = store.DuplicateReport(cmd.Context())
				return err
			})
			if err != nil {
				return err
			}
			total := len(groups)
			if limit > 0 && len(groups) > limit {
				groups = groups[:limit]
			}

			views := make([]duplicateGroupView, 0, len(groups))
			for _, group := range groups {
				views = append(views, newDuplicateGroupView(group))
			}
			if jsonOut {
				return writeJSON(cmd, views)
			}

			out := cmd.OutOrStdout()
			if total == 0 {
				fmt.Fprintln(out, "No conflicting ISBNs")
				return nil
			}
			rows := make([][]string, 0, len(views)*2)
			for _, group := range views {
				for _, c := range group.Claimants {
					rows = append(rows, []string{
						group.ISBN,
						strconv.FormatInt(c.TitleID, 10),
						c.Title,
						c.Authors,
						c.EditionCategory,
						formatYear(c.Year),
						yesNo(c.Foreign),
					})
				}
			}
			if err := writeTable(out,
				[]string{"ISBN", "Title ID", "Title", "Authors", "Edition", "Year", "Foreign"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
			); err != nil {
				return err
			}
			fmt.Fprintf(out, "%d conflicting ISBNs\n", total)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Show at most this many ISBNs")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

func newDuplicateGroupView(group catalog.DuplicateGroup) duplicateGroupView {
	view := duplicateGroupView{ISBN: group.ISBN, Claimants: make([]claimantView, 0, len(group.Claimants))}
	for _, c := range group.Claimants {
		view.Claimants = append(view.Claimants, claimantView{
			TitleID:         c.ID,
			Title:           c.Title.Title,
			Authors:         c.Authors,
			Year:            c.Year,
			Pages:           c.Pages,
			Category:        c.Category.String(),
			EditionCategory: c.EditionCategory.String(),
			Foreign:         c.Foreign,
			Virtual:         c.Virtual,
		})
	}
	return view
}

func formatYear(year int) string {
	if year == 0 {
		return "-"
	}
	return strconv.Itoa(year)
}
