package cli

import (
	"fmt"
	"strings"
	"time"

	"catalogquery/domain"
	"catalogquery/query"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// searchOutput is the JSON shape printed by the search command.
type searchOutput struct {
	Items     []domain.Item `json:"items"`
	Total     int           `json:"total"`
	Page      int           `json:"page"`
	PageSize  int           `json:"pageSize"`
	PageCount int           `json:"pageCount"`
}

type searchFlags struct {
	search, category, sort, output string
	minPrice, maxPrice, minRating  float64
	inStock, all                   bool
	page, workers                  int
}

// buildQuery turns the flags into a Query. Price bounds and page size fall
// back to the configured defaults when the flag was not given.
func (f *searchFlags) buildQuery(cmd *cobra.Command, a *app, args []string) (domain.Query, error) {
	q := domain.DefaultQuery()

	q.Search = f.search
	if len(args) > 0 {
		q.Search = strings.Join(args, " ")
	}
	if f.category != "" {
		q.Category = f.category
	}

	q.Price.Min = a.v.GetFloat64(keyPriceMin)
	q.Price.Max = a.v.GetFloat64(keyPriceMax)
	if cmd.Flags().Changed("min-price") {
		q.Price.Min = f.minPrice
	}
	if cmd.Flags().Changed("max-price") {
		q.Price.Max = f.maxPrice
	}

	q.InStockOnly = f.inStock
	q.MinRating = f.minRating

	sort, err := domain.ParseSortKey(f.sort)
	if err != nil {
		return domain.Query{}, err
	}
	q.Sort = sort

	q.Page = f.page
	// --page-size is a persistent flag; inside the shell only a value given
	// on the current line shows up as changed.
	q.PageSize = a.v.GetInt(keyPageSize)
	if cmd.Flags().Changed(keyPageSize) {
		if q.PageSize, err = cmd.Flags().GetInt(keyPageSize); err != nil {
			return domain.Query{}, err
		}
	}
	if q.Page < 1 {
		return domain.Query{}, domain.NewInvalidQueryError("page", "must be at least 1")
	}
	if q.PageSize < 1 {
		return domain.Query{}, domain.NewInvalidQueryError("page-size", "must be at least 1")
	}
	q.Unpaged = f.all
	return q, nil
}

func newSearchCmd(a *app) *cobra.Command {
	var f searchFlags
	cmd := &cobra.Command{
		Use:   "search [term]",
		Short: "Search, filter, sort and paginate the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseOutput(f.output)
			if err != nil {
				return err
			}
			q, err := f.buildQuery(cmd, a, args)
			if err != nil {
				return err
			}

			start := time.Now()
			var r domain.Result
			if f.workers > 0 {
				items, err := a.store.List(cmd.Context())
				if err != nil {
					return err
				}
				if r, err = query.EvaluateParallel(cmd.Context(), items, q, f.workers); err != nil {
					return err
				}
			} else {
				memo, err := a.results()
				if err != nil {
					return err
				}
				if r, err = memo.Evaluate(cmd.Context(), q); err != nil {
					return err
				}
			}
			a.logger.Info("catalog evaluated",
				zap.String("search", q.Search),
				zap.String("sort", string(q.Sort)),
				zap.Int("total", r.Total),
				zap.Int("returned", len(r.Items)),
				zap.Int64("duration_ms", time.Since(start).Milliseconds()))

			out := cmd.OutOrStdout()
			if format == "json" {
				return printJSON(out, searchOutput{
					Items:     r.Items,
					Total:     r.Total,
					Page:      r.Page,
					PageSize:  r.PageSize,
					PageCount: r.PageCount(),
				})
			}
			for _, item := range r.Items {
				printItemRow(out, item)
			}
			noun := "items"
			if r.Total == 1 {
				noun = "item"
			}
			fmt.Fprintf(out, "%d %s found, page %d of %d\n", r.Total, noun, r.Page, r.PageCount())
			return nil
		},
	}

	fs := cmd.Flags()
	fs.StringVarP(&f.search, "search", "q", "", "free-text search term")
	fs.StringVar(&f.category, "category", domain.CategoryAll, "category, or \"all\"")
	fs.Float64Var(&f.minPrice, "min-price", domain.DefaultPriceMin, "lower price bound (inclusive)")
	fs.Float64Var(&f.maxPrice, "max-price", domain.DefaultPriceMax, "upper price bound (inclusive)")
	fs.BoolVar(&f.inStock, "in-stock", false, "only items in stock")
	fs.Float64Var(&f.minRating, "min-rating", 0, "minimum rating")
	fs.StringVar(&f.sort, "sort", string(domain.SortByRelevance), "sort key: name|price|rating|relevance")
	fs.IntVar(&f.page, "page", 1, "page number, starting at 1")
	fs.BoolVar(&f.all, "all", false, "return every match as one page")
	fs.IntVar(&f.workers, "workers", 0, "evaluate on this many goroutines (0 evaluates inline)")
	fs.StringVar(&f.output, "output", "", "output format: table|json")
	return cmd
}

func newCategoriesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the categories available to the search filter",
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := a.store.List(cmd.Context())
			if err != nil {
				return err
			}
			for _, c := range query.Categories(items) {
				fmt.Fprintln(cmd.OutOrStdout(), c)
			}
			return nil
		},
	}
}
