package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/mrstraders/paddybill/internal/domain/enum"
	"github.com/mrstraders/paddybill/internal/domain/repository"
	"github.com/mrstraders/paddybill/internal/wire"
	"github.com/mrstraders/paddybill/pkg/pagination"
	"github.com/spf13/cobra"
)

// RecordsCmd returns the records command group.
func RecordsCmd(load Loader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "records",
		Short: "List, export and import saved bills",
	}

	cmd.AddCommand(recordsListCmd(load))
	cmd.AddCommand(recordsExportCmd(load))
	cmd.AddCommand(recordsImportCmd(load))
	return cmd
}

func filterFlags(cmd *cobra.Command) (*string, *string) {
	search := cmd.Flags().String("search", "", "customer name contains")
	billType := cmd.Flags().String("type", "", "paddy or interest")
	return search, billType
}

func filterParams(search, billType string) (*repository.RecordFilterParams, error) {
	params := &repository.RecordFilterParams{Search: search}
	if billType != "" && billType != "all" {
		t, err := enum.ParseBillType(billType)
		if err != nil {
			return nil, err
		}
		params.Type = &t
	}
	return params, nil
}

func recordsListCmd(load Loader) *cobra.Command {
	var page, perPage int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved bills, newest first",
		Args:  cobra.NoArgs,
	}
	search, billType := filterFlags(cmd)
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&perPage, "per-page", 20, "records per page")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		params, err := filterParams(*search, *billType)
		if err != nil {
			return err
		}
		params.Pagination = &pagination.PaginationParams{Page: page, PerPage: perPage}

		return withApp(cmd, load, func(c *wire.Container) error {
			result, err := c.Records.List(cmd.Context(), params)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tDATE\tTYPE\tCUSTOMER\tTOTAL")
			for _, r := range result.Items {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					r.ID, r.Date.Format("2006-01-02"), r.Type, r.CustomerName, r.FinalAmount.String())
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(out, "\npage %d of %d, %d records\n",
				result.Pagination.CurrentPage, result.Pagination.TotalPages, result.Pagination.Total)
			return nil
		})
	}
	return cmd
}

func recordsExportCmd(load Loader) *cobra.Command {
	var format, out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write saved bills to a json or xlsx file",
		Args:  cobra.NoArgs,
	}
	search, billType := filterFlags(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", "json", "json or xlsx")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default: dated name)")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		params, err := filterParams(*search, *billType)
		if err != nil {
			return err
		}

		return withApp(cmd, load, func(c *wire.Container) error {
			file, err := c.Records.Export(cmd.Context(), params, format)
			if err != nil {
				return err
			}
			path := out
			if path == "" {
				path = file.Name
			}
			if err := os.WriteFile(path, file.Data, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Exported to %s\n", okMark, path)
			return nil
		})
	}
	return cmd
}

func recordsImportCmd(load Loader) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Load a json export; existing records are skipped",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			blob, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}

			return withApp(cmd, load, func(c *wire.Container) error {
				summary, err := c.Records.Import(cmd.Context(), blob)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "%s Imported %d, skipped %d\n", okMark, summary.Imported, summary.Skipped)
				for _, e := range summary.Errors {
					fmt.Fprintf(out, "%s item %d: %s\n", warnMark, e.Index, color.New(color.FgYellow).Sprint(e.Message))
				}
				return nil
			})
		},
	}
}
