package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/mbernardes19/torre-matheus/internal/domain/opportunity"
	"github.com/mbernardes19/torre-matheus/internal/output"
	"github.com/mbernardes19/torre-matheus/pkg/torre"
	"github.com/mbernardes19/torre-matheus/pkg/validate"
)

var searchCmd = &cobra.Command{
	Use:   "search [term...]",
	Short: "Run one search and print a page of opportunities",
	Long: `Run one search and print a page of opportunities.

The term matches open opportunities by keyword. Use --expression to send a
filter expression instead, for example:

  opportunities search --expression '{"and":[{"skill/role":{"text":"go","proficiency":"expert"}}]}'`,
	RunE: func(cmd *cobra.Command, args []string) error {
		params, err := paramsFromFlags(cmd.Flags())
		if err != nil {
			return err
		}

		req := opportunity.SearchRequest{
			Term:   strings.Join(args, " "),
			Params: params,
		}

		if raw, _ := cmd.Flags().GetString("expression"); raw != "" {
			var expr torre.Expression
			if err := json.Unmarshal([]byte(raw), &expr); err != nil {
				return fmt.Errorf("invalid --expression: %w", err)
			}
			req.Expression = &expr
		}

		if req.Expression == nil && strings.TrimSpace(req.Term) == "" {
			return fmt.Errorf("a search term or --expression is required")
		}

		result, err := svc.Search(cmd.Context(), req)
		if err != nil {
			return err
		}
		return output.WriteResult(os.Stdout, result, outputFormat())
	},
}

// paramsFromFlags maps changed flags to query options; untouched flags stay absent from the request.
func paramsFromFlags(flags *pflag.FlagSet) (*torre.Params, error) {
	p := &torre.Params{}
	var err error

	str := func(name string) string {
		if err != nil || !flags.Changed(name) {
			return ""
		}
		var v string
		v, err = flags.GetString(name)
		return v
	}
	num := func(name string) *int {
		if err != nil || !flags.Changed(name) {
			return nil
		}
		var v int
		v, err = flags.GetInt(name)
		return &v
	}

	p.Currency = torre.Currency(str("currency"))
	p.Periodicity = torre.Periodicity(str("periodicity"))
	p.Lang = str("lang")
	p.ContextFeature = str("context-feature")
	p.After = str("after")
	p.Before = str("before")
	p.Size = num("size")
	p.Offset = num("offset")
	if err == nil && flags.Changed("aggregate") {
		var v bool
		v, err = flags.GetBool("aggregate")
		p.Aggregate = &v
	}
	if err != nil {
		return nil, err
	}

	if err := validate.Struct(p); err != nil {
		return nil, err
	}
	return p, nil
}

func init() {
	addSearchFlags(searchCmd.Flags())
}

func addSearchFlags(fs *pflag.FlagSet) {
	fs.String("expression", "", "search expression as JSON; wins over the term")
	fs.String("currency", "", "compensation currency, e.g. USD")
	fs.String("periodicity", "", "compensation periodicity: hourly, daily, weekly, monthly, yearly")
	fs.String("lang", "", "response language")
	fs.Int("size", 0, "page size")
	fs.Int("offset", 0, "result offset")
	fs.String("context-feature", "", "context feature passed to the search API")
	fs.Bool("aggregate", false, "request aggregators")
	fs.String("after", "", "cursor of the next page")
	fs.String("before", "", "cursor of the previous page")
}
