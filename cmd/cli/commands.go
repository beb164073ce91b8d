package main

import (
	"aprcalc/internal/domain"
	"aprcalc/internal/service"
	"aprcalc/internal/util"
	"fmt"

	"github.com/gocarina/gocsv"
	"github.com/spf13/cobra"
)

type cliHandler struct {
	AssetService service.AssetService
	TableService service.TableService
	DefaultTotal string
}

func (h cliHandler) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "aprcalc",
		Short:         "Split an investment across assets by apr",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(h.assetsCmd(), h.allocateCmd())
	return root
}

func (h cliHandler) assetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "assets",
		Short: "List assets with normalized aprs",
		RunE: func(cmd *cobra.Command, args []string) error {
			assets, err := h.AssetService.ListAssets(cmd.Context())
			if err != nil {
				return err
			}
			table, err := h.TableService.BuildTable(assets, h.AssetService.DefaultSelection(assets), "")
			if err != nil {
				return err
			}
			return util.Pprint(cmd.OutOrStdout(), table.Rows)
		},
	}
}

func (h cliHandler) allocateCmd() *cobra.Command {
	var (
		total    string
		selected []string
		asCsv    bool
	)
	cmd := &cobra.Command{
		Use:   "allocate",
		Short: "Allocate a total across the selected assets",
		RunE: func(cmd *cobra.Command, args []string) error {
			assets, err := h.AssetService.ListAssets(cmd.Context())
			if err != nil {
				return err
			}

			selection := h.AssetService.DefaultSelection(assets)
			if cmd.Flags().Changed("select") {
				selection = domain.NewSelectionSet(selected...)
			}

			table, err := h.TableService.BuildTable(assets, selection, total)
			if err != nil {
				return err
			}

			if asCsv {
				out, err := gocsv.MarshalString(table.Rows)
				if err != nil {
					return fmt.Errorf("failed to write csv: %w", err)
				}
				_, err = fmt.Fprint(cmd.OutOrStdout(), out)
				return err
			}
			return util.Pprint(cmd.OutOrStdout(), table)
		},
	}
	cmd.Flags().StringVar(&total, "total", h.DefaultTotal, "total amount to allocate")
	cmd.Flags().StringSliceVar(&selected, "select", nil, "symbols to include (defaults to the preset list)")
	cmd.Flags().BoolVar(&asCsv, "csv", false, "write rows as csv")
	return cmd
}
