package main

import (
	"errors"

	"talent-catalog/internal/usecase"

	"github.com/spf13/cobra"
)

func newSearchCmd(root *rootOptions) *cobra.Command {
	var (
		request     string
		savedSearch int64
		userID      int64
		page        int
		size        int
		format      string
	)
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Run a candidate search and print a page of candidate ids",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if request != "" && savedSearch > 0 {
				return errors.New("--request and --saved-search are mutually exclusive")
			}
			ctx := cmd.Context()
			c, err := root.container(ctx)
			if err != nil {
				return err
			}
			defer c.Close()

			var result usecase.CandidatePage
			if savedSearch > 0 {
				result, err = c.Search.SearchSaved(ctx, savedSearch, optionalID(userID), page, size)
			} else {
				req, rerr := readRequest(request, cmd.InOrStdin())
				if rerr != nil {
					return rerr
				}
				if cmd.Flags().Changed("page") {
					req.PageNumber = page
				}
				if cmd.Flags().Changed("size") {
					req.PageSize = size
				}
				result, err = c.Search.Search(ctx, usecase.SearchParams{Request: req, UserID: optionalID(userID)})
			}
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), format, result)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&request, "request", "r", "", "Request file (YAML or JSON), - for stdin")
	f.Int64Var(&savedSearch, "saved-search", 0, "Run the saved search with this id")
	f.Int64Var(&userID, "user-id", 0, "Searching user id")
	f.IntVar(&page, "page", 0, "Zero based page number")
	f.IntVar(&size, "size", 0, "Page size")
	f.StringVarP(&format, "output", "o", "json", "Output format: json or yaml")
	return cmd
}

func newSavedSearchCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "saved-search",
		Short: "Manage saved searches",
	}

	var (
		name    string
		request string
		userID  int64
	)
	create := &cobra.Command{
		Use:   "create",
		Short: "Store a request as a saved search and print its id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				return errors.New("--name is required")
			}
			req, err := readRequest(request, cmd.InOrStdin())
			if err != nil {
				return err
			}
			if err := req.Validate(); err != nil {
				return err
			}

			ctx := cmd.Context()
			c, err := root.container(ctx)
			if err != nil {
				return err
			}
			defer c.Close()

			id, err := c.SavedSearches.Create(ctx, name, optionalID(userID), req)
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), "json", map[string]int64{"id": id})
		},
	}
	create.Flags().StringVar(&name, "name", "", "Saved search name")
	create.Flags().StringVarP(&request, "request", "r", "", "Request file (YAML or JSON), - for stdin")
	create.Flags().Int64Var(&userID, "user-id", 0, "Owning user id")

	cmd.AddCommand(create)
	return cmd
}
