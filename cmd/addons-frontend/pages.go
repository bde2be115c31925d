package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/Sternrassler/addons-frontend/pkg/api"
	"github.com/Sternrassler/addons-frontend/pkg/errorhandler"
	"github.com/Sternrassler/addons-frontend/pkg/page"
	"github.com/spf13/cobra"
)

func homePage(dispatch page.Dispatch) page.Page {
	return page.NewHome(dispatch, errorhandler.Options{})
}

func categoriesPage(visibleAddonType string) pageFactory {
	return func(dispatch page.Dispatch) page.Page {
		return page.NewCategories(dispatch, visibleAddonType, errorhandler.Options{})
	}
}

func searchPage(filters api.SearchFilters) pageFactory {
	return func(dispatch page.Dispatch) page.Page {
		return page.NewSearch(dispatch, page.SearchOwnProps{Filters: filters}, errorhandler.Options{})
	}
}

// runPage connects, renders the page and prints it to the command output.
func runPage(cmd *cobra.Command, opts *options, newPage pageFactory) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
	defer cancel()

	d, err := connect(ctx, opts)
	if err != nil {
		return err
	}
	defer d.Close()

	view, err := renderPage(ctx, d.client, opts.connection(), newPage)
	if err != nil {
		return err
	}
	return printView(cmd.OutOrStdout(), view)
}

func newHomeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "home",
		Short: "Render the home page shelves",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPage(cmd, opts, homePage)
		},
	}
}

func newCategoriesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:       "categories [extensions|themes]",
		Short:     "Render the categories of an add-on type",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{page.VisibleAddonTypeExtensions, page.VisibleAddonTypeThemes},
		RunE: func(cmd *cobra.Command, args []string) error {
			visible := page.VisibleAddonTypeExtensions
			if len(args) == 1 {
				visible = args[0]
			}
			return runPage(cmd, opts, categoriesPage(visible))
		},
	}
}

func newSearchCmd(opts *options) *cobra.Command {
	var filters api.SearchFilters

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Render search results",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filters.Query = strings.Join(args, " ")
			return runPage(cmd, opts, searchPage(filters))
		},
	}

	cmd.Flags().IntVar(&filters.Page, "page", 1, "result page")
	cmd.Flags().StringVar(&filters.AddonType, "type", "", "add-on type (extension, persona, dictionary, language, search)")
	cmd.Flags().StringVar(&filters.Category, "category", "", "category slug")
	cmd.Flags().StringVar(&filters.Sort, "sort", "", "sort order (hotness, rating, updated)")
	cmd.Flags().BoolVar(&filters.Featured, "featured", false, "featured add-ons only")

	return cmd
}

func newCollectionCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "collection <user> <slug>",
		Short: "List every add-on of a collection",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()

			d, err := connect(ctx, opts)
			if err != nil {
				return err
			}
			defer d.Close()

			conn := opts.connection()
			addons, err := d.client.AllCollectionAddons(ctx, api.State{
				ClientApp: conn.clientApp,
				Lang:      conn.lang,
				Token:     conn.token,
				UserAgent: conn.userAgent,
			}, api.CollectionParams{User: args[0], Slug: args[1]})
			if err != nil {
				return fmt.Errorf("collection %s/%s: %w", args[0], args[1], err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%d add-ons in %s/%s\n", len(addons), args[0], args[1])
			for _, a := range addons {
				fmt.Fprintf(out, "  - %s\n", a.Name)
			}
			return nil
		},
	}
}
