package main

import (
	"fmt"

	"talent-catalog/internal/app"
	"talent-catalog/internal/search"

	"github.com/spf13/cobra"
)

type sqlOptions struct {
	request         string
	userID          int64
	partnerID       int64
	sourceCountries []int64
	excluded        []int64
	ordered         bool
	predicate       bool
}

func newSQLCmd(root *rootOptions) *cobra.Command {
	o := &sqlOptions{}
	cmd := &cobra.Command{
		Use:   "sql",
		Short: "Print the SQL for a candidate search request",
		Long: `Print the native SQL selecting the candidates a request matches.

The request is read as YAML or JSON from --request (use - for stdin). No
database connection is made, so the searching user and the excluded
candidates are given as flags.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := root.bootstrap()
			if err != nil {
				return err
			}
			req, err := readRequest(o.request, cmd.InOrStdin())
			if err != nil {
				return err
			}
			out, err := renderSQL(app.NewBuilder(cfg.Search), req, o)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
			return err
		},
	}

	f := cmd.Flags()
	f.StringVarP(&o.request, "request", "r", "", "Request file (YAML or JSON), - for stdin")
	f.Int64Var(&o.userID, "user-id", 0, "Searching user id")
	f.Int64Var(&o.partnerID, "partner-id", 0, "Searching user's partner id")
	f.Int64SliceVar(&o.sourceCountries, "source-country", nil, "Source country ids of the searching user")
	f.Int64SliceVar(&o.excluded, "exclude", nil, "Candidate ids to exclude")
	f.BoolVar(&o.ordered, "ordered", false, "Add sort columns and the order by clause")
	f.BoolVar(&o.predicate, "predicate", false, "Print the constraint predicate instead of the full query")
	return cmd
}

func renderSQL(b *search.Builder, req search.CandidateRequest, o *sqlOptions) (string, error) {
	var user *search.User
	if o.userID > 0 || o.partnerID > 0 || len(o.sourceCountries) > 0 {
		user = &search.User{ID: o.userID, PartnerID: o.partnerID, SourceCountryIDs: o.sourceCountries}
	}
	if o.predicate {
		return b.ConstraintPredicate(req, user, o.excluded)
	}
	return b.FetchSQL(req, user, o.excluded, o.ordered)
}
