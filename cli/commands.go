package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"catalogquery/domain"
	"catalogquery/util"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

// itemFlags holds the editable item fields shared by create and update.
type itemFlags struct {
	name, description, category string
	price, rating               float64
	reviews                     int
	inStock                     bool
	tags                        []string
}

func (f *itemFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.name, "name", "", "name")
	fs.StringVar(&f.description, "description", "", "description")
	fs.StringVar(&f.category, "category", "", "category")
	fs.Float64Var(&f.price, "price", 0, "price")
	fs.Float64Var(&f.rating, "rating", 0, "rating between 0 and 5")
	fs.IntVar(&f.reviews, "reviews", 0, "review count")
	fs.BoolVar(&f.inStock, "in-stock", false, "item is in stock")
	fs.StringSliceVar(&f.tags, "tags", nil, "comma separated tags")
}

// apply copies every flag the user set onto item.
func (f *itemFlags) apply(fs *pflag.FlagSet, item *domain.Item) {
	if fs.Changed("name") {
		item.Name = f.name
	}
	if fs.Changed("description") {
		item.Description = f.description
	}
	if fs.Changed("category") {
		item.Category = f.category
	}
	if fs.Changed("price") {
		item.Price = f.price
	}
	if fs.Changed("rating") {
		item.Rating = f.rating
	}
	if fs.Changed("reviews") {
		item.ReviewCount = f.reviews
	}
	if fs.Changed("in-stock") {
		item.InStock = f.inStock
	}
	if fs.Changed("tags") {
		item.Tags = append([]string(nil), f.tags...)
	}
}

// parseOutput accepts the formats understood by --output.
func parseOutput(s string) (string, error) {
	switch s {
	case "", "table":
		return "table", nil
	case "json":
		return "json", nil
	}
	return "", domain.NewInvalidQueryError("output", fmt.Sprintf("unknown format %q", s))
}

func printJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

func printItemRow(w io.Writer, item domain.Item) {
	fmt.Fprintf(w, "%s | %s | %.2f | %s | %t | %.1f (%d) | %s\n",
		item.ID, item.Name, item.Price, item.Category, item.InStock,
		item.Rating, item.ReviewCount, strings.Join(item.Tags, ","))
}

func newCreateCmd(a *app) *cobra.Command {
	var f itemFlags
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an item",
		RunE: func(cmd *cobra.Command, args []string) error {
			if f.name == "" {
				return errors.New("name required")
			}
			item := domain.Item{ID: util.NewID()}
			f.apply(cmd.Flags(), &item)

			start := time.Now()
			if err := a.store.Create(cmd.Context(), item); err != nil {
				a.logger.Error("create failed", zap.String("item_id", item.ID), zap.Error(err))
				return err
			}
			a.logger.Info("item created",
				zap.String("item_id", item.ID),
				zap.Int64("duration_ms", time.Since(start).Milliseconds()))
			return printJSON(cmd.OutOrStdout(), item)
		},
	}
	f.register(cmd.Flags())
	return cmd
}

func newGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get item by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			item, err := a.store.Get(cmd.Context(), args[0])
			if err != nil {
				if domain.IsItemNotFoundError(err) {
					fmt.Fprintln(cmd.ErrOrStderr(), err)
					return nil
				}
				return err
			}
			return printJSON(cmd.OutOrStdout(), item)
		},
	}
}

func newUpdateCmd(a *app) *cobra.Command {
	var f itemFlags
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]

			item, err := a.store.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			f.apply(cmd.Flags(), &item)
			if err := domain.ValidateItem(item); err != nil {
				return err
			}

			start := time.Now()
			if err := a.store.Update(cmd.Context(), id, item); err != nil {
				a.logger.Error("update failed", zap.String("item_id", id), zap.Error(err))
				return err
			}
			a.logger.Info("item updated",
				zap.String("item_id", id),
				zap.Int64("duration_ms", time.Since(start).Milliseconds()))
			return printJSON(cmd.OutOrStdout(), item)
		},
	}
	f.register(cmd.Flags())
	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if !force {
				fmt.Fprintf(out, "Delete %s? (y/N): ", args[0])
				resp, _ := a.in.ReadString('\n')
				if r := strings.TrimSpace(resp); r != "y" && r != "Y" {
					fmt.Fprintln(out, "aborted")
					return nil
				}
			}
			if err := a.store.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			a.logger.Info("item deleted", zap.String("item_id", args[0]))
			fmt.Fprintln(out, "deleted")
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "skip confirmation")
	return cmd
}

func newListCmd(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List every item in insertion order",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseOutput(output)
			if err != nil {
				return err
			}
			items, err := a.store.List(cmd.Context())
			if err != nil {
				return err
			}
			if format == "json" {
				return printJSON(cmd.OutOrStdout(), items)
			}
			for _, item := range items {
				printItemRow(cmd.OutOrStdout(), item)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&output, "output", "", "output format: table|json")
	return cmd
}

func newImportCmd(a *app) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "import --file <file>",
		Short: "Import items from JSON, NDJSON or YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				return errors.New("--file required")
			}
			b, err := os.ReadFile(file)
			if err != nil {
				return err
			}
			items, err := decodeItems(file, b)
			if err != nil {
				return fmt.Errorf("decode %s: %w", file, err)
			}
			for i := range items {
				if items[i].ID == "" {
					items[i].ID = util.NewID()
				}
			}

			start := time.Now()
			err = a.store.BulkImport(cmd.Context(), items)
			a.logger.Info("import finished",
				zap.String("file", file),
				zap.Int("items", len(items)),
				zap.Bool("partial", err != nil),
				zap.Int64("duration_ms", time.Since(start).Milliseconds()))
			return err
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "input file")
	return cmd
}

func newExportCmd(a *app) *cobra.Command {
	var file, category string
	cmd := &cobra.Command{
		Use:   "export --file <file>",
		Short: "Export items to JSON or YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				return errors.New("--file required")
			}
			items, err := a.store.List(cmd.Context())
			if err != nil {
				return err
			}
			if category != "" && category != domain.CategoryAll {
				kept := items[:0]
				for _, item := range items {
					if item.Category == category {
						kept = append(kept, item)
					}
				}
				items = kept
			}
			b, err := encodeItems(file, items)
			if err != nil {
				return err
			}
			if err := os.WriteFile(file, b, 0o644); err != nil {
				return err
			}
			a.logger.Info("export finished", zap.String("file", file), zap.Int("items", len(items)))
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "output file")
	cmd.Flags().StringVar(&category, "category", "", "category")
	return cmd
}

func newSeedCmd(a *app) *cobra.Command {
	var (
		count int
		seed  uint64
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Fill the catalog with generated demo items",
		RunE: func(cmd *cobra.Command, args []string) error {
			items := util.MockItems(count, seed)
			if err := a.store.BulkImport(cmd.Context(), items); err != nil {
				return err
			}
			a.logger.Info("catalog seeded", zap.Int("items", len(items)), zap.Uint64("seed", seed))
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d items\n", len(items))
			return nil
		},
	}
	cmd.Flags().IntVar(&count, "count", 100, "number of items")
	cmd.Flags().Uint64Var(&seed, "seed", 1, "generator seed")
	return cmd
}

func newShellCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive shell mode",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for {
				fmt.Fprint(out, "catalog> ")
				line, err := a.in.ReadString('\n')
				line = strings.TrimSpace(line)
				if line == "exit" || line == "quit" {
					return nil
				}
				if line != "" {
					sub := newRootCmd(a)
					sub.SetArgs(strings.Fields(line))
					sub.SetOut(out)
					sub.SetErr(cmd.ErrOrStderr())
					sub.SetIn(a.in)
					if err := sub.ExecuteContext(cmd.Context()); err != nil {
						fmt.Fprintln(cmd.ErrOrStderr(), err)
					}
				}
				if err != nil {
					return nil
				}
			}
		},
	}
}
